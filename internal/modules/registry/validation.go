package registry

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldErrors maps a JSON field name to a message for the shopper.
type FieldErrors map[string]string

// ValidationError is returned when a product form does not pass its checks.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("invalid product: %s", strings.Join(keys, ", "))
}

// Validator checks product forms before they reach the registry.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: validate}
}

func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	out := FieldErrors{}
	for _, fe := range ve {
		out[fe.Field()] = messageFor(fe.Field(), fe.Tag())
	}
	return &ValidationError{Fields: out}
}

func messageFor(field, tag string) string {
	switch {
	case field == "price":
		return "Price must be a positive number"
	case tag == "url":
		return "Please enter a valid image URL"
	case tag == "required", tag == "min":
		return strings.ToUpper(field[:1]) + field[1:] + " is required"
	default:
		return "Invalid value"
	}
}
