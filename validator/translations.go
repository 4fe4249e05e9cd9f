package validator

import (
	"errors"
	"log"
	"strings"

	enLocale "github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

func (v *validatorImpl) initTranslator() {
	en := enLocale.New()
	v.uni = ut.New(en, en)

	trans, _ := v.uni.GetTranslator("en")
	v.translator = trans

	if err := en_translations.RegisterDefaultTranslations(v.validate, trans); err != nil {
		log.Printf("Failed to register English translations: %v", err)
	}
}

func (v *validatorImpl) registerCustomTranslations() {
	trans, ok := v.uni.GetTranslator("en")
	if !ok {
		panic("Translator for 'en' not found")
	}

	translations := map[string]string{
		MenuType: "{0} must be one of main, user_dashboard, admin_dashboard",
		MenuPath: "{0} must be an absolute path without spaces",
		RoleName: "{0} must be an alphanumeric role name",
		Phone:    "{0} must be a valid phone number",
		NotEmpty: "{0} cannot be empty",
	}

	for tag, message := range translations {
		tag, message := tag, message
		err := v.validate.RegisterTranslation(tag, trans,
			func(ut ut.Translator) error {
				return ut.Add(tag, message, true)
			},
			func(ut ut.Translator, fe validator.FieldError) string {
				t, _ := ut.T(tag, fe.Field())
				return t
			},
		)
		if err != nil {
			log.Printf("Failed to register English translation for %s: %v", tag, err)
		}
	}
}

// Translate renders validation failures as one readable sentence per field.
// Errors that did not come from the validator are returned as their message.
func Translate(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	trans, _ := DefaultValidator().GetTranslator("en")
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Translate(trans))
	}
	return strings.Join(msgs, "; ")
}

// FieldErrors maps each invalid field to its translated message.
func FieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	trans, _ := DefaultValidator().GetTranslator("en")
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fe.Translate(trans)
	}
	return out
}
