// Package validation checks request payloads, CSV rows and configuration.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalid wraps every failure reported by Struct and Request
var ErrInvalid = errors.New("invalid input")

var validate = newValidator()

// newValidator reports fields by their json or csv name when tagged, so
// messages match the query parameter or column the caller supplied
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, key := range []string{"json", "csv"} {
			if name, _, _ := strings.Cut(f.Tag.Get(key), ","); name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	return v
}

// PathRequest names the two people a path is wanted between
type PathRequest struct {
	Source string `json:"source" validate:"required,max=64"`
	Target string `json:"target" validate:"required,max=64"`
}

// NameRequest asks which people carry a name
type NameRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

// Request validates a decoded request; a nil pointer is invalid
func Request[T any](req *T) error {
	if req == nil {
		return fmt.Errorf("%w: missing request", ErrInvalid)
	}
	return Struct(req)
}

// Struct checks the validate tags of v and reports every failing field
func Struct(v any) error {
	if v == nil {
		return fmt.Errorf("%w: nil value", ErrInvalid)
	}
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	msgs := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		msgs[i] = fe.Field() + ": " + describe(fe)
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return "longer than " + fe.Param()
	case "min":
		return "shorter than " + fe.Param()
	case "numeric":
		return "must be numeric"
	}
	return "fails " + fe.Tag()
}
