package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator validates structs tagged with `validate`.
type Validator interface {
	Validate(interface{}) error
	ValidateField(field string, value interface{}, rules string) error
}

type structValidator struct {
	v *validator.Validate
}

func New() Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return &structValidator{v: v}
}

func (s *structValidator) Validate(obj interface{}) error {
	if err := s.v.Struct(obj); err != nil {
		return humanize(err, "")
	}
	return nil
}

func (s *structValidator) ValidateField(field string, value interface{}, rules string) error {
	if err := s.v.Var(value, rules); err != nil {
		return humanize(err, field)
	}
	return nil
}

func humanize(err error, field string) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		name := e.Field()
		if field != "" {
			name = field
		}
		switch e.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", name))
		case "email":
			msgs = append(msgs, fmt.Sprintf("%s must be a valid email", name))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", name, e.Param()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s characters", name, e.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s]", name, e.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", name))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
