package validation

import (
	"errors"
	"reflect"
	"strings"

	"quiz-digest/internal/domain"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// Validator validates request DTOs and reports failures as VALIDATION_ERROR.
type Validator struct {
	validate *validator.Validate
	trans    ut.Translator
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, trans)

	_ = v.RegisterValidation("notblank", validators.NotBlank)
	_ = v.RegisterTranslation("notblank", trans,
		func(ut ut.Translator) error {
			return ut.Add("notblank", "{0} must not be blank", true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			msg, _ := ut.T("notblank", fe.Field())
			return msg
		},
	)

	return &Validator{validate: v, trans: trans}
}

// ValidateStruct returns nil or a *domain.DomainError whose Context maps
// each failing field to a message.
func (v *Validator) ValidateStruct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return domain.NewInternalError("Request validation could not run", err)
	}

	domainErr := domain.NewValidationError("Request validation failed")
	for _, fe := range ve {
		if _, exists := domainErr.Context[fe.Field()]; exists {
			continue
		}
		domainErr.WithContext(fe.Field(), fe.Translate(v.trans))
	}
	return domainErr
}
