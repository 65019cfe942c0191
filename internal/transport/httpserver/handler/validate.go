package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateRequest returns a client-facing message for the first failed rule.
func validateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return err
	}

	field := fieldErrors[0]
	switch field.Tag() {
	case "required":
		return fmt.Errorf("%s is required", field.Field())
	case "datetime":
		return fmt.Errorf("%s must be a date in YYYY-MM-DD format", field.Field())
	case "gte", "min":
		return fmt.Errorf("%s must be at least %s", field.Field(), field.Param())
	case "lte", "max":
		return fmt.Errorf("%s must be at most %s", field.Field(), field.Param())
	default:
		return fmt.Errorf("%s is invalid", field.Field())
	}
}
