package payload

import (
	"errors"
	"strings"

	"rideadmin/pricing/internal/domain"
)

// FieldError is a validation message bound to one form field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors blocks a submission. It matches domain.ErrValidation.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fe.Error())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (v ValidationErrors) Is(target error) bool {
	return target == domain.ErrValidation
}

// Field returns the message for field, if any
func (v ValidationErrors) Field(field string) (string, bool) {
	for _, fe := range v {
		if fe.Field == field {
			return fe.Message, true
		}
	}
	return "", false
}

// AsValidation unwraps err into field errors
func AsValidation(err error) (ValidationErrors, bool) {
	var v ValidationErrors
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
