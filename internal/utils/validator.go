package utils

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/truemail-rb/truemail-go"

	"dev-castle-server/internal/schemas"
)

type Validator struct {
	Validate    *validator.Validate
	VerifyEmail func(email string) bool
}

var instance *Validator
var once sync.Once
var configuration *truemail.Configuration
var sanitizePolicy = bluemonday.StrictPolicy()

func GetValidator() *Validator {
	once.Do(func() {
		configuration, _ = truemail.NewConfiguration(truemail.ConfigurationAttr{
			VerifierEmail:         "team@devcastle.app",
			ValidationTypeDefault: "mx",
			SmtpFailFast:          true,
		})

		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonFieldName)

		instance = &Validator{
			Validate:    v,
			VerifyEmail: validateEmail,
		}
	})

	return instance
}

func validateEmail(email string) bool {
	return truemail.IsValid(email, configuration)
}

// jsonFieldName reports validation failures under the field's JSON name
// instead of the Go struct name.
func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// SanitizeData strips markup from every string field of the given struct
// pointer, including nested structs.
func (v *Validator) SanitizeData(obj interface{}) error {
	value := reflect.ValueOf(obj)
	if value.Kind() != reflect.Ptr || value.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("expected pointer to struct, got %T", obj)
	}

	sanitizeStruct(value.Elem())
	return nil
}

func sanitizeStruct(value reflect.Value) {
	for i := 0; i < value.NumField(); i++ {
		field := value.Field(i)
		if !field.CanSet() {
			continue
		}

		switch field.Kind() {
		case reflect.String:
			field.SetString(sanitizePolicy.Sanitize(field.String()))
		case reflect.Struct:
			sanitizeStruct(field)
		}
	}
}

// FieldErrors converts validator errors into the itemized DTO form, with
// messages matching the API's documented wording.
func FieldErrors(err error) []schemas.FieldErrorDTO {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}

	fields := make([]schemas.FieldErrorDTO, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		fields = append(fields, schemas.FieldErrorDTO{
			Field:   fieldError.Field(),
			Message: fieldErrorMessage(fieldError),
		})
	}

	return fields
}

func fieldErrorMessage(fieldError validator.FieldError) string {
	switch fieldError.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", displayName(fieldError.Field()))
	case "email":
		return "Please enter a valid email"
	case "min":
		return fmt.Sprintf("%s should be %s or more characters", displayName(fieldError.Field()), fieldError.Param())
	default:
		return fmt.Sprintf("%s is invalid", displayName(fieldError.Field()))
	}
}

func displayName(field string) string {
	switch field {
	case "firstname":
		return "First name"
	case "lastname":
		return "Last name"
	default:
		return strings.ToUpper(field[:1]) + field[1:]
	}
}
