package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate
)

// Checker is implemented by enum-like types that know their valid values.
// Fields tagged `validate:"valid"` must implement it.
type Checker interface {
	Valid() bool
}

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	// errors name fields by their yaml key where one exists
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	if err := validate.RegisterValidation("valid", validChecker); err != nil {
		panic(fmt.Sprintf("register valid tag: %v", err))
	}
}

func validChecker(fl validator.FieldLevel) bool {
	field := fl.Field()
	if !field.CanInterface() {
		return false
	}
	c, ok := field.Interface().(Checker)
	return ok && c.Valid()
}

// Struct validates s using its struct tags and reports every failing field.
func Struct(s any) error {
	if s == nil {
		return errors.New("value cannot be nil")
	}
	if err := validate.Struct(s); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	msgs := make([]error, 0, len(validationErrs))
	for _, e := range validationErrs {
		field := e.Namespace()
		param := e.Param()

		switch e.Tag() {
		case "required":
			msgs = append(msgs, fmt.Errorf("%s: field is required", field))
		case "min", "gte":
			msgs = append(msgs, fmt.Errorf("%s: must be at least %s, got %v", field, param, e.Value()))
		case "max", "lte":
			msgs = append(msgs, fmt.Errorf("%s: must not exceed %s, got %v", field, param, e.Value()))
		case "gt":
			msgs = append(msgs, fmt.Errorf("%s: must be greater than %s, got %v", field, param, e.Value()))
		case "oneof":
			msgs = append(msgs, fmt.Errorf("%s: must be one of [%s], got %v", field, param, e.Value()))
		case "valid":
			msgs = append(msgs, fmt.Errorf("%s: unknown value %v", field, e.Value()))
		default:
			msgs = append(msgs, fmt.Errorf("%s: validation failed (%s)", field, e.Tag()))
		}
	}
	return errors.Join(msgs...)
}
