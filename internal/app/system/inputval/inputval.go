// internal/app/system/inputval/inputval.go
package inputval

import (
	"fmt"
	"net/mail"
	"reflect"
	"strings"
	"sync"

	"github.com/dalemusser/waffle/toolkit/validate"
	"github.com/go-playground/validator/v10"
)

// FieldError is one failed rule, keyed by the field's json name.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result collects the failures of one Validate call.
type Result struct {
	Errors []FieldError
}

func (r Result) HasErrors() bool { return len(r.Errors) > 0 }

// First returns the first message, or "".
func (r Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// All joins every message with "; ".
func (r Result) All() string {
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

// Map returns field → message, first failure per field.
func (r Result) Map() map[string]string {
	out := make(map[string]string, len(r.Errors))
	for _, e := range r.Errors {
		if _, ok := out[e.Field]; !ok {
			out[e.Field] = e.Message
		}
	}
	return out
}

var (
	once sync.Once
	v    *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("phone10", func(fl validator.FieldLevel) bool {
			return IsValidContact(fl.Field().String())
		})
		_ = v.RegisterValidation("emailaddr", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return IsValidEmail(s) && validate.SimpleEmailValid(strings.TrimSpace(s))
		})
	})
	return v
}

// Validate runs the `validate` tags on s. Messages use the `label` tag, or
// the json name when no label is set.
func Validate(s any) Result {
	err := instance().Struct(s)
	if err == nil {
		return Result{}
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return Result{Errors: []FieldError{{Message: err.Error()}}}
	}

	t := reflect.TypeOf(s)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	out := Result{Errors: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		label := fe.Field()
		if sf, ok := t.FieldByName(fe.StructField()); ok {
			if l := sf.Tag.Get("label"); l != "" {
				label = l
			}
		}
		out.Errors = append(out.Errors, FieldError{Field: fe.Field(), Message: message(label, fe)})
	}
	return out
}

func message(label string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return label + " is required."
	case "max":
		return fmt.Sprintf("%s must be at most %s characters.", label, fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters.", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s.", label, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s.", label, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be %s or more.", label, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be %s or less.", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s.", label, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "eqfield":
		return "Passwords do not match."
	case "phone10":
		return label + " must be a 10-digit number."
	case "emailaddr", "email":
		return label + " must be a valid email address."
	}
	return label + " is invalid."
}

// IsValidEmail trims s and checks it as a bare RFC 5322 address. Display
// name forms and embedded spaces are rejected.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " <>") {
		return false
	}
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

// IsValidContact reports whether s is exactly ten ASCII digits.
func IsValidContact(s string) bool {
	if len(s) != 10 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Error wraps a failed Result so it can travel as an error.
type Error struct {
	Result
}

func (e *Error) Error() string { return e.All() }

// Check validates s and returns an *Error when any rule fails.
func Check(s any) error {
	if res := Validate(s); res.HasErrors() {
		return &Error{Result: res}
	}
	return nil
}

// Fail builds an *Error for a single field.
func Fail(field, message string) error {
	return &Error{Result: Result{Errors: []FieldError{{Field: field, Message: message}}}}
}
