package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/iliyamo/contacts-manager/internal/model"
)

// ErrValidation matches every *ValidationError via errors.Is.
var ErrValidation = errors.New("validation failed")

// ValidationError lists the problems found in a request, one per field.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string { return strings.Join(e.Problems, "; ") }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their JSON names, which is what clients send
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateContact trims the fields, defaults an empty gender to Male and
// checks the result. It never coerces an unknown gender.
func ValidateContact(f model.ContactFields) (model.ContactFields, error) {
	f.FullName = strings.TrimSpace(f.FullName)
	f.Email = strings.TrimSpace(f.Email)
	f.PhoneNumber = strings.TrimSpace(f.PhoneNumber)
	f.Gender = model.Gender(strings.TrimSpace(string(f.Gender)))
	if f.Gender == "" {
		f.Gender = model.GenderMale
	}
	if err := check(f); err != nil {
		return model.ContactFields{}, err
	}
	return f, nil
}

type credentials struct {
	Email    string `json:"email" validate:"required,max=255"`
	Password string `json:"password" validate:"required"`
}

// maxPasswordBytes is bcrypt's input limit.
const maxPasswordBytes = 72

func validateCredentials(email, password string) error {
	if err := check(credentials{Email: strings.TrimSpace(email), Password: password}); err != nil {
		return err
	}
	if len(password) > maxPasswordBytes {
		return &ValidationError{Problems: []string{"password must be at most 72 bytes"}}
	}
	return nil
}

func check(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate: %w", err)
	}
	ve := &ValidationError{}
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			ve.Problems = append(ve.Problems, fe.Field()+" is required")
		case "max":
			ve.Problems = append(ve.Problems, fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
		case "oneof":
			ve.Problems = append(ve.Problems, fmt.Sprintf("%s must be one of %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", ")))
		default:
			ve.Problems = append(ve.Problems, fe.Field()+" is invalid")
		}
	}
	return ve
}
