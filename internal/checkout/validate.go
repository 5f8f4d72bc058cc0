package checkout

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"maasai-craft/internal/models"
)

// msisdn accepts Kenyan mobile numbers: an optional +254, 254 or 0 prefix,
// then 1 or 7, then exactly eight digits.
var msisdn = regexp.MustCompile(`^(\+254|254|0)?[17]\d{8}$`)

// ValidPhone reports whether phone is a Kenyan mobile number.
func ValidPhone(phone string) bool {
	return msisdn.MatchString(phone)
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	_ = v.RegisterValidation("msisdn", func(fl validator.FieldLevel) bool {
		return ValidPhone(fl.Field().String())
	})
	return v
}

// normalizeDetails trims the free-text fields. The phone is matched exactly as
// entered.
func normalizeDetails(d models.CustomerDetails) models.CustomerDetails {
	return models.CustomerDetails{
		Name:    strings.TrimSpace(d.Name),
		Email:   strings.TrimSpace(d.Email),
		Phone:   d.Phone,
		Address: strings.TrimSpace(d.Address),
	}
}

func (s *Service) validateDetails(d models.CustomerDetails) error {
	err := s.validate.Struct(d)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err
	}
	fields := make(map[string]string, len(errs))
	for _, fe := range errs {
		switch fe.Tag() {
		case "required":
			fields[fe.Field()] = "is required"
		case "msisdn":
			fields[fe.Field()] = "must be a Kenyan mobile number, e.g. 0712345678"
		default:
			fields[fe.Field()] = "is invalid"
		}
	}
	return &ValidationError{Fields: fields}
}
