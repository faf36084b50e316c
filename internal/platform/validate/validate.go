// Package validate checks struct tags with go-playground/validator and reports the first failure as a validation error
package validate

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	perr "facilities/internal/platform/errors"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	once  sync.Once
	v     *validator.Validate
	trans ut.Translator
)

func instance() (*validator.Validate, ut.Translator) {
	once.Do(func() {
		loc := en.New()
		trans, _ = ut.New(loc, loc).GetTranslator("en")

		v = validator.New(validator.WithRequiredStructEnabled())
		// messages name fields the way config and json do
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
		_ = en_translations.RegisterDefaultTranslations(v, trans)
		short(v, "min", "{0} must be at least {1}")
		short(v, "max", "{0} must be at most {1}")
		short(v, "timezone", "{0} must be an IANA time zone")
	})
	return v, trans
}

func short(v *validator.Validate, tag, text string) {
	_ = v.RegisterTranslation(tag, trans,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T(tag, fe.Field(), fe.Param())
			return msg
		},
	)
}

// Struct validates s and returns a validation error naming the first bad field
func Struct(s any) error {
	val, tr := instance()
	err := val.Struct(s)
	if err == nil {
		return nil
	}
	var fes validator.ValidationErrors
	if errors.As(err, &fes) && len(fes) > 0 {
		return perr.WithField(perr.New(perr.ErrorCodeValidation, fes[0].Translate(tr)), fes[0].Field())
	}
	return perr.Wrap(err, perr.ErrorCodeValidation, "invalid value")
}
