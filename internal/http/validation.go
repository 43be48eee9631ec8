package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/fjod/watchhaven/internal/payment"
	"github.com/go-playground/validator/v10"
)

// newValidator reports fields by their JSON names and knows the card tags.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	cardRules := map[string]func(string) bool{
		"card_number": payment.ValidNumber,
		"card_expiry": payment.ValidExpiry,
		"card_cvc":    payment.ValidCVC,
	}
	for tag, rule := range cardRules {
		// registration only fails on an empty tag
		_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return rule(fl.Field().String())
		})
	}
	return v
}

func validationFields(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"non_field_errors": err.Error()}
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fieldMessage(fe)
	}
	return fields
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "uuid":
		return "Must be a valid UUID."
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	case "min":
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "card_number":
		return "Enter a valid card number."
	case "card_expiry":
		return "Enter the expiry as MM/YY or MM/YYYY."
	case "card_cvc":
		return "Enter a 3 or 4 digit CVC."
	default:
		return "Invalid value."
	}
}
