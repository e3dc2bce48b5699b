// Package validation wraps go-playground/validator with the service's custom
// tags and a typed error that the HTTP layer renders as VALIDATION_ERROR.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// GenreSet is the subset of the genre catalog needed by the "genre" tag.
type GenreSet interface {
	Has(id int) bool
}

// FieldError describes one rejected field.
type FieldError struct {
	Field string      `json:"field"`
	Tag   string      `json:"tag"`
	Param string      `json:"param,omitempty"`
	Value interface{} `json:"value,omitempty"`
}

func (e FieldError) message() string {
	switch e.Tag {
	case "genre":
		return fmt.Sprintf("%s is not a known genre id", e.Field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", e.Field, e.Param)
	case "max":
		return fmt.Sprintf("%s must be at most %s", e.Field, e.Param)
	case "integer":
		return fmt.Sprintf("%s must be an integer", e.Field)
	default:
		return fmt.Sprintf("%s failed %s validation", e.Field, e.Tag)
	}
}

// Error collects every rejected field of a request.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.message())
	}
	return strings.Join(msgs, "; ")
}

// Invalid builds an Error for a single field, typically a value that did not parse.
func Invalid(field, tag string, value interface{}) *Error {
	return &Error{Fields: []FieldError{{Field: field, Tag: tag, Value: value}}}
}

// Validator validates request structs. It is safe for concurrent use.
type Validator struct {
	v *validator.Validate
}

// New builds a Validator with the "genre" tag bound to genres.
func New(genres GenreSet) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("genre", func(fl validator.FieldLevel) bool {
		return genres != nil && genres.Has(int(fl.Field().Int()))
	})
	return &Validator{v: v}
}

// Struct validates s and returns *Error when any field is rejected.
func (v *Validator) Struct(s interface{}) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &Error{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field: fe.Field(),
			Tag:   fe.Tag(),
			Param: fe.Param(),
			Value: fe.Value(),
		})
	}
	return out
}
