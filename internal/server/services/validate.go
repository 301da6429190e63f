package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/go-playground/validator/v10"
)

// SignupRequest carries the fields accepted by Signup. The minimum password
// length is configured on the service, not in the tag.
type SignupRequest struct {
	Username string `json:"username" validate:"required,max=255"`
	Password string `json:"password" validate:"required"`
	Email    string `json:"email" validate:"required,email,max=255"`
}

// LoginRequest carries the credentials accepted by Login. RemoteAddr is
// filled by the transport and only lands in the audit record.
type LoginRequest struct {
	Username   string `json:"username" validate:"required"`
	Password   string `json:"password" validate:"required"`
	RemoteAddr string `json:"-" validate:"-"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct runs the tag rules and folds failures into one
// common.ErrInvalidInput. Field values never appear in the message.
func (s *UserService) validateStruct(req any) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", common.ErrInvalidInput, err)
	}

	details := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, describe(fe))
	}
	return fmt.Errorf("%w: %s", common.ErrInvalidInput, strings.Join(details, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
}

func (s *UserService) validateSignup(req SignupRequest) error {
	if err := s.validateStruct(req); err != nil {
		return err
	}
	if utf8.RuneCountInString(req.Password) < s.minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", common.ErrInvalidInput, s.minPasswordLength)
	}
	return nil
}
