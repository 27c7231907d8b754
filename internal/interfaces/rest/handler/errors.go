package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"

	"github.com/labstack/echo/v4"
	"github.com/pot-code/coursecert/internal/domain"
	"github.com/pot-code/coursecert/internal/infrastructure/logging"
	"github.com/pot-code/coursecert/internal/infrastructure/validate"
	"go.uber.org/zap"
)

// RESTStandardError response error
type RESTStandardError struct {
	Type    string      `json:"type,omitempty"`
	Code    int         `json:"code"`
	Title   string      `json:"title"`
	Detail  string      `json:"detail,omitempty"`
	Details interface{} `json:"details,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
}

func NewRESTStandardError(code int, detail string) *RESTStandardError {
	return &RESTStandardError{
		Code:   code,
		Title:  http.StatusText(code),
		Detail: detail,
	}
}

func (re RESTStandardError) Error() string {
	return re.Detail
}

func (re RESTStandardError) SetTraceID(traceID string) RESTStandardError {
	re.TraceID = traceID
	return re
}

// RESTValidationError standard validation error
type RESTValidationError struct {
	RESTStandardError
	InvalidParams []*validate.FieldError `json:"invalid_params"`
}

func NewRESTValidationError(code int, detail string, internal []*validate.FieldError) *RESTValidationError {
	return &RESTValidationError{
		RESTStandardError: RESTStandardError{
			Code:   code,
			Title:  http.StatusText(code),
			Detail: detail,
		},
		InvalidParams: internal,
	}
}

func (rve RESTValidationError) Error() string {
	return rve.Detail
}

func (rve RESTValidationError) SetTraceID(traceID string) RESTValidationError {
	rve.RESTStandardError.TraceID = traceID
	return rve
}

// RESTAnswersError rejected exam submission, pointing at the offending answer
type RESTAnswersError struct {
	RESTStandardError
	Reason        domain.AnswerReason `json:"reason"`
	Index         *int                `json:"index,omitempty"`
	Value         interface{}         `json:"value,omitempty"`
	Expected      *int                `json:"expected,omitempty"`
	Got           *int                `json:"got,omitempty"`
	OptionsLength *int                `json:"optionsLength,omitempty"`
}

func NewRESTAnswersError(ie *domain.InvalidAnswersError) *RESTAnswersError {
	re := &RESTAnswersError{
		RESTStandardError: *NewRESTStandardError(http.StatusBadRequest, ie.Error()),
		Reason:            ie.Reason,
		Value:             ie.Value,
	}
	if ie.Index >= 0 {
		index := ie.Index
		re.Index = &index
	}
	switch ie.Reason {
	case domain.AnswersLengthMismatch:
		expected, got := ie.Expected, ie.Got
		re.Expected, re.Got = &expected, &got
	case domain.AnswerOutOfRange:
		optionsLength := ie.OptionsLength
		re.OptionsLength = &optionsLength
	}
	return re
}

// ErrorResponse map err to a status code and response body, ok is false for unexpected errors
func ErrorResponse(err error, traceID string) (code int, body interface{}, ok bool) {
	var (
		ve *domain.ValidationError
		ie *domain.InvalidAnswersError
		ne *domain.NotEligibleError
		ue *domain.UnavailableError
	)
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, NewRESTValidationError(http.StatusBadRequest, "Failed to validate params",
			[]*validate.FieldError{validate.NewFieldError(ve.Field, ve.Reason)}).SetTraceID(traceID), true
	case errors.As(err, &ie):
		re := NewRESTAnswersError(ie)
		re.TraceID = traceID
		return http.StatusBadRequest, re, true
	case errors.Is(err, domain.ErrNoQuestions):
		return http.StatusBadRequest, NewRESTStandardError(http.StatusBadRequest, err.Error()).SetTraceID(traceID), true
	case errors.Is(err, domain.ErrExamNotFound),
		errors.Is(err, domain.ErrCourseNotFound),
		errors.Is(err, domain.ErrCertificateNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, NewRESTStandardError(http.StatusNotFound, err.Error()).SetTraceID(traceID), true
	case errors.As(err, &ne):
		re := NewRESTStandardError(http.StatusForbidden, ne.Error())
		re.Details = ne.Report
		return http.StatusForbidden, re.SetTraceID(traceID), true
	case errors.As(err, &ue):
		// driver messages stay in the log
		return http.StatusServiceUnavailable, NewRESTStandardError(http.StatusServiceUnavailable, "Storage unavailable").SetTraceID(traceID), false
	}
	return http.StatusInternalServerError, NewRESTStandardError(http.StatusInternalServerError, err.Error()).SetTraceID(traceID), false
}

func traceID(c echo.Context) string {
	return c.Response().Header().Get(echo.HeaderXRequestID)
}

// bindError a value of the wrong JSON type is a validation failure on that field,
// anything else means the body could not be parsed at all
func bindError(c echo.Context, err error) error {
	var ute *json.UnmarshalTypeError
	if he, ok := err.(*echo.HTTPError); ok && he.Internal != nil {
		err = he.Internal
	}
	if errors.As(err, &ute) {
		field := ute.Field
		if field == "" {
			field = "body"
		}
		return validationError(c, []*validate.FieldError{
			validate.NewFieldError(field, fmt.Sprintf("%s must be %s", field, jsonTypeName(ute.Type))),
		})
	}
	return c.JSON(http.StatusUnprocessableEntity,
		NewRESTStandardError(http.StatusUnprocessableEntity, err.Error()).SetTraceID(traceID(c)))
}

func jsonTypeName(t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "an integer"
	case reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.Bool:
		return "a boolean"
	case reflect.String:
		return "a string"
	case reflect.Slice, reflect.Array:
		return "an array"
	}
	return "an object"
}

func validationError(c echo.Context, fields []*validate.FieldError) error {
	logging.ExtractLoggerFromContext(c.Request().Context()).Debug("Invalid params", zap.String("params", validate.Join(fields)))
	return c.JSON(http.StatusBadRequest,
		NewRESTValidationError(http.StatusBadRequest, "Failed to validate params", fields).SetTraceID(traceID(c)))
}
