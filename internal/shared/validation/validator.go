package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// ErrValidation wraps every rejected payload.
var ErrValidation = errors.New("validation failed")

// Service holds the process-wide validator and its english translator.
type Service struct {
	Validator  *validator.Validate
	Translator ut.Translator
}

var (
	once    sync.Once
	service *Service
)

// Get returns the singleton, building it on first use.
func Get() *Service {
	once.Do(func() {
		locale := en.New()
		uni := ut.New(locale, locale)
		trans, _ := uni.GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			tag := fld.Tag.Get("json")
			if tag == "-" || tag == "" {
				return fld.Name
			}
			if idx := strings.Index(tag, ","); idx >= 0 {
				tag = tag[:idx]
			}
			return tag
		})
		_ = en_translations.RegisterDefaultTranslations(v, trans)

		service = &Service{Validator: v, Translator: trans}
	})
	return service
}

// Struct validates value and returns an ErrValidation carrying the first field message.
func Struct(value any) error {
	svc := Get()
	err := svc.Validator.Struct(value)
	if err == nil {
		return nil
	}
	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return fmt.Errorf("%w: %v", ErrValidation, invalid)
	}
	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
		return fmt.Errorf("%w: %s", ErrValidation, fieldErrors[0].Translate(svc.Translator))
	}
	return fmt.Errorf("%w: %v", ErrValidation, err)
}

// EchoValidator adapts Struct to echo.Validator.
type EchoValidator struct{}

func (EchoValidator) Validate(i any) error { return Struct(i) }
