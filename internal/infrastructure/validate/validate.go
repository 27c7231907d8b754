package validate

import "strings"

// FieldError one invalid request parameter, rendered under invalid_params
type FieldError struct {
	Domain string `json:"domain"`
	Reason string `json:"reason"`
}

// NewFieldError create new field error
func NewFieldError(domain string, reason string) *FieldError {
	return &FieldError{domain, reason}
}

func (fe *FieldError) Error() string {
	return fe.Domain + ": " + fe.Reason
}

// Join render errs as "domain: reason" pairs separated by "; "
func Join(errs []*FieldError) string {
	parts := make([]string, 0, len(errs))
	for _, fe := range errs {
		parts = append(parts, fe.Error())
	}
	return strings.Join(parts, "; ")
}

// Validator checks request bodies and single path or query values
type Validator interface {
	Struct(s interface{}) []*FieldError
	Empty(varName string, s interface{}) []*FieldError
	Var(varName string, s interface{}, tag string) []*FieldError
}
