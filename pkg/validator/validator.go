package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// DateTimeLayout is the accepted format for client-supplied timestamps.
const DateTimeLayout = "2006-01-02 15:04:05"

// Setup registers json tag names and custom rules on gin's validator engine.
// It is safe to call more than once.
func Setup() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	Register(v)
}

// Register configures a validator instance the same way gin's engine is configured.
func Register(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("datetime_ymdhis", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true
		}
		_, err := time.Parse(DateTimeLayout, s)
		return err == nil
	})
}

// Fields translates a binding error into a field -> message map.
// It returns nil when the error is not a validation failure.
func Fields(err error) map[string]string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fe.Field()] = message(fe)
		}
		return out
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return map[string]string{field: fmt.Sprintf("must be of type %s", typeErr.Type)}
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return map[string]string{"body": "malformed JSON"}
	}
	return nil
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", fe.Field())
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", fe.Field())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("The %s must be at least %s characters.", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("The %s must be at least %s.", fe.Field(), fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("The %s may not be greater than %s characters.", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("The %s may not be greater than %s.", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid.", fe.Field())
	case "gte":
		return fmt.Sprintf("The %s must be greater than or equal to %s.", fe.Field(), fe.Param())
	case "gtfield":
		return fmt.Sprintf("The %s must be after %s.", fe.Field(), fe.Param())
	case "nefield":
		return fmt.Sprintf("The %s and %s must be different.", fe.Field(), fe.Param())
	case "eqfield":
		return fmt.Sprintf("The %s confirmation does not match.", fe.Field())
	case "datetime", "datetime_ymdhis":
		return fmt.Sprintf("The %s does not match the format Y-m-d H:i:s.", fe.Field())
	case "latitude", "longitude":
		return fmt.Sprintf("The %s must be a valid coordinate.", fe.Field())
	}
	return fmt.Sprintf("The %s is invalid.", fe.Field())
}
