// Package validate runs struct-tag validation and reports failures as a
// map of JSON field name → message, the shape the API returns on 422.
//
// Rules are the go-playground/validator tags:
//
//	type Input struct {
//	    Name  string   `json:"name"  validate:"required,min=2,max=255"`
//	    Email string   `json:"email" validate:"omitempty,email"`
//	    Price *float64 `json:"price" validate:"omitempty,gte=0"`
//	}
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

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
			if name == "" {
				return f.Name
			}
			return name
		})
	})
	return v
}

// Struct validates v and returns field → message. An empty map means v is
// valid; non-struct values are always valid.
func Struct(s any) map[string]string {
	errs := make(map[string]string)

	rv := reflect.ValueOf(s)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return errs
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return errs
	}

	err := instance().Struct(s)
	if err == nil {
		return errs
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs["_"] = err.Error()
		return errs
	}
	for _, fe := range verrs {
		field := fe.Field()
		if _, seen := errs[field]; seen {
			continue
		}
		errs[field] = message(fe)
	}
	return errs
}

// HasErrors reports whether errs contains at least one failure.
func HasErrors(errs map[string]string) bool {
	return len(errs) > 0
}

func message(fe validator.FieldError) string {
	f := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", f)
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", f)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("The %s must be at least %s characters.", f, fe.Param())
		}
		return fmt.Sprintf("The %s must be at least %s.", f, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("The %s may not be greater than %s characters.", f, fe.Param())
		}
		return fmt.Sprintf("The %s may not be greater than %s.", f, fe.Param())
	case "gte":
		return fmt.Sprintf("The %s must be greater than or equal to %s.", f, fe.Param())
	case "lte":
		return fmt.Sprintf("The %s must be less than or equal to %s.", f, fe.Param())
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid.", f)
	}
	return fmt.Sprintf("The %s field is invalid (%s).", f, fe.Tag())
}
