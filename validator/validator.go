package validator

import (
	"fmt"
	"log"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

type Validator interface {
	Engine() any
	ValidateStruct(obj any) error
	GetTranslator(locale string) (ut.Translator, error)
}

var (
	defaultValidator *validatorImpl
	vOnce            sync.Once
)

func DefaultValidator() Validator {
	return defaultImpl()
}

func defaultImpl() *validatorImpl {
	vOnce.Do(func() {
		defaultValidator = newValidator()
	})
	return defaultValidator
}

// RegisterValidatorWithGin makes gin's ShouldBind* run the custom tags.
func RegisterValidatorWithGin() {
	binding.Validator = defaultImpl()
}

var (
	_ Validator               = (*validatorImpl)(nil)
	_ binding.StructValidator = (*validatorImpl)(nil)
)

func New() Validator {
	return newValidator()
}

func newValidator() *validatorImpl {
	v := &validatorImpl{validate: validator.New(), locale: "en"}
	v.validate.SetTagName("binding")
	v.initTranslator()

	// Report JSON names so messages match the request body.
	v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	for _, r := range defaultRegistrations {
		if err := v.validate.RegisterValidation(r.Tag, r.Func); err != nil {
			log.Fatalf("register validation %s error: %v", r.Tag, err)
		}
	}
	v.registerCustomTranslations()
	return v
}

type validatorImpl struct {
	validate   *validator.Validate
	uni        *ut.UniversalTranslator
	translator ut.Translator
	locale     string
}

func (v *validatorImpl) ValidateStruct(obj any) error {
	if obj == nil {
		return nil
	}
	value := reflect.ValueOf(obj)
	for value.Kind() == reflect.Ptr {
		if value.IsNil() {
			return nil
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil
	}
	return v.validate.Struct(obj)
}

func (v *validatorImpl) Engine() any {
	return v.validate
}

func (v *validatorImpl) GetTranslator(locale string) (ut.Translator, error) {
	trans, found := v.uni.GetTranslator(locale)
	if !found {
		return nil, fmt.Errorf("translator for locale '%s' not found", locale)
	}
	return trans, nil
}
