package report

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/erp/reporting/internal/domain/period"
	"github.com/erp/reporting/internal/domain/shared"
	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func payloadValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		// Use JSON tag names for field names in errors
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		// A zero Date counts as missing for "required".
		v.RegisterCustomTypeFunc(func(field reflect.Value) any {
			d, ok := field.Interface().(period.Date)
			if !ok || d.IsZero() {
				return nil
			}
			return d.String()
		}, period.Date{})
		validate = v
	})
	return validate
}

// validatePayload runs struct validation and converts failures into a
// *shared.ValidationError naming every offending field.
func validatePayload(subject string, payload any) error {
	if rv := reflect.ValueOf(payload); payload == nil || (rv.Kind() == reflect.Pointer && rv.IsNil()) {
		return shared.NewValidationError(subject, shared.FieldError{Field: "payload", Rule: "required", Message: "is required"})
	}
	err := payloadValidator().Struct(payload)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	verr := shared.NewValidationError(subject)
	for _, fe := range fieldErrs {
		verr.Add(fieldPath(fe.Namespace()), fe.Tag(), ruleMessage(fe))
	}
	return verr
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must have at least " + fe.Param() + " entries"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "failed " + fe.Tag() + " check"
	}
}
