package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"sarpras/pkg/logger"
	"sarpras/pkg/model"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// Details renders the errors as field -> message for an error response.
func (v ValidationErrors) Details() map[string]any {
	out := make(map[string]any, len(v))
	for _, err := range v {
		if _, seen := out[err.Field]; !seen {
			out[err.Field] = err.Message
		}
	}
	return out
}

// Validator checks form payloads before anything reaches the backend. Field
// names in errors are the json names the browser sent.
type Validator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func New(log *logger.Logger) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	if err := v.RegisterValidation("hhmm", validateHHMM); err != nil {
		log.Fatal("Failed to register 'hhmm' validator", "error", err)
	}
	if err := v.RegisterValidation("date_only", validateDateOnly); err != nil {
		log.Fatal("Failed to register 'date_only' validator", "error", err)
	}
	v.RegisterStructValidation(validateShiftOrder, model.Shift{})

	return &Validator{
		validate: v,
		logger:   log,
	}
}

func validateHHMM(fl validator.FieldLevel) bool {
	s := strings.TrimSpace(fl.Field().String())
	if len(s) != len("15:04") {
		return false
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}

func validateDateOnly(fl validator.FieldLevel) bool {
	_, err := time.Parse(time.DateOnly, strings.TrimSpace(fl.Field().String()))
	return err == nil
}

func validateShiftOrder(sl validator.StructLevel) {
	s := sl.Current().Interface().(model.Shift)
	start, err1 := time.Parse("15:04", s.JamMulai)
	end, err2 := time.Parse("15:04", s.JamSelesai)
	if err1 != nil || err2 != nil {
		return
	}
	if !end.After(start) {
		sl.ReportError(s.JamSelesai, "jamSelesai", "JamSelesai", "after_start", "")
	}
}

// Struct validates s and returns ValidationErrors on failure.
func (v *Validator) Struct(s any) error {
	if err := v.validate.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *Validator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		field := fieldPath(err.Namespace())
		message := err.Error()

		switch err.Tag() {
		case "required", "required_if", "required_without":
			message = fmt.Sprintf("%s is required", field)
		case "min":
			if isNumeric(err.Kind()) {
				message = fmt.Sprintf("%s must be at least %s", field, err.Param())
			} else if err.Kind() == reflect.Slice {
				message = fmt.Sprintf("%s must contain at least %s item(s)", field, err.Param())
			} else {
				message = fmt.Sprintf("%s must be at least %s characters", field, err.Param())
			}
		case "max":
			if isNumeric(err.Kind()) {
				message = fmt.Sprintf("%s must be at most %s", field, err.Param())
			} else {
				message = fmt.Sprintf("%s must be at most %s characters", field, err.Param())
			}
		case "oneof":
			message = fmt.Sprintf("%s must be one of [%s]", field, err.Param())
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", field)
		case "e164":
			message = fmt.Sprintf("%s must be a valid phone number", field)
		case "url":
			message = fmt.Sprintf("%s must be a valid URL", field)
		case "excluded_with":
			message = fmt.Sprintf("%s must be empty when another source is set", field)
		case "hhmm":
			message = fmt.Sprintf("%s must be in HH:MM 24-hour format", field)
		case "date_only":
			message = fmt.Sprintf("%s must be a date in YYYY-MM-DD format", field)
		case "after_start":
			message = "jamSelesai must be after jamMulai"
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   field,
			Message: message,
		})
	}

	return validationErrors
}

// fieldPath drops the root struct name: "BookingInput.aset[0].jumlah" -> "aset[0].jumlah".
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
