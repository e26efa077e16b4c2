package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/bloodbank-backend/internal/models"
	"github.com/go-playground/validator/v10"
	"gorm.io/datatypes"
)

const dateLayout = "2006-01-02"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("bloodgroup", func(fl validator.FieldLevel) bool {
		return models.ValidBloodGroup(models.NormalizeBloodGroup(fl.Field().String()))
	})
	return v
}

// validateStruct reports the first failing field as a ValidationError.
func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return &ValidationError{Message: validationMessage(fieldErrs[0])}
	}
	return &ValidationError{Message: err.Error()}
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "gt":
		return fe.Field() + " must be a positive integer"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "bloodgroup":
		return invalidBloodGroup().Message
	}
	return fe.Field() + " is invalid"
}

func invalidBloodGroup() *ValidationError {
	return invalid("Invalid blood group. Must be one of: %s", strings.Join(models.BloodGroups, ", "))
}

// bloodGroupPtr normalizes an optional blood group; empty input becomes nil.
func bloodGroupPtr(s *string) (*string, error) {
	if s == nil {
		return nil, nil
	}
	g := models.NormalizeBloodGroup(*s)
	if g == "" {
		return nil, nil
	}
	if !models.ValidBloodGroup(g) {
		return nil, invalidBloodGroup()
	}
	return &g, nil
}

func parseDate(field, s string) (*datatypes.Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return nil, invalid("%s must be a date in YYYY-MM-DD format", field)
	}
	d := datatypes.Date(t)
	return &d, nil
}

func today() datatypes.Date {
	y, m, d := time.Now().Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}
