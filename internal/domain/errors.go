package domain

import (
	"errors"
	"fmt"
)

// ErrExamNotFound no exam definition for the course
var ErrExamNotFound = errors.New("Exam not found")

// ErrNoQuestions the selected exam question set is empty
var ErrNoQuestions = errors.New("Exam has no questions configured")

// ErrCourseNotFound no such course in content store
var ErrCourseNotFound = errors.New("Course not found")

// ErrCertificateNotFound no certificate matches the given id
var ErrCertificateNotFound = errors.New("Certificate not found")

// ErrUserNotFound the principal is unknown to the user store
var ErrUserNotFound = errors.New("User not found")

// ValidationError input rejected before touching any store
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError create a ValidationError
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{field, reason}
}

func (ve *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ve.Field, ve.Reason)
}

// AnswerReason classifies a rejected exam answer
type AnswerReason string

// answer rejection reasons
const (
	AnswersNotArray       AnswerReason = "not_array"
	AnswersEmpty          AnswerReason = "empty"
	AnswersLengthMismatch AnswerReason = "length_mismatch"
	AnswerNotInteger      AnswerReason = "not_integer"
	AnswerMissing         AnswerReason = "missing"
	AnswerOutOfRange      AnswerReason = "out_of_range"
)

// InvalidAnswersError submitted answers do not fit the exam
//
// Index is -1 when the problem is not tied to a single answer.
type InvalidAnswersError struct {
	Reason        AnswerReason
	Index         int
	Value         interface{}
	Expected      int
	Got           int
	OptionsLength int
}

func (ie *InvalidAnswersError) Error() string {
	switch ie.Reason {
	case AnswersNotArray:
		return "Invalid answers: answers must be an array"
	case AnswersEmpty:
		return "Invalid answers: answers must be a non-empty array"
	case AnswersLengthMismatch:
		return fmt.Sprintf("Invalid answers: answers length must match questions length (expected %d, got %d)", ie.Expected, ie.Got)
	case AnswerNotInteger:
		return fmt.Sprintf("Invalid answers: answer #%d is not an integer", ie.Index+1)
	case AnswerMissing:
		return fmt.Sprintf("Invalid answers: answer #%d is missing (-1)", ie.Index+1)
	case AnswerOutOfRange:
		return fmt.Sprintf("Invalid answers: answer #%d out of range", ie.Index+1)
	}
	return "Invalid answers"
}

// EligibilityReport verdict plus the facts it was computed from
type EligibilityReport struct {
	TotalLessons     int  `json:"totalLessons"`
	CompletedLessons int  `json:"completedLessons"`
	ExamPassed       bool `json:"examPassed"`
	ExamScore        *int `json:"examScore"`
	Eligible         bool `json:"eligible"`
}

// NotEligibleError certificate requested before requirements are met
type NotEligibleError struct {
	Report *EligibilityReport
}

func (ne *NotEligibleError) Error() string {
	return "Not eligible yet"
}

// UnavailableError a backing store failed or timed out
type UnavailableError struct {
	Err error
}

// Unavailable mark err as a storage failure, nil stays nil
func Unavailable(err error) error {
	if err == nil {
		return nil
	}
	return &UnavailableError{err}
}

func (ue *UnavailableError) Error() string {
	return ue.Err.Error()
}

func (ue *UnavailableError) Unwrap() error {
	return ue.Err
}
