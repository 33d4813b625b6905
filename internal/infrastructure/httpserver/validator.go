package httpserver

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// requestValidator runs the ozzo-validation rules of request types for
// echo's c.Validate.
type requestValidator struct{}

func (v *requestValidator) Validate(i interface{}) error {
	if vv, ok := i.(validation.Validatable); ok {
		return vv.Validate()
	}
	return nil
}
