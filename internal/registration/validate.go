package registration

import (
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// custom validation tags
const (
	notBlankTag = "notblank"
	courseTag   = "course"
)

// newValidator builds a validator that reports json field names and
// accepts only the given course titles
func newValidator(courses []string) (*validator.Validate, ut.Translator) {
	v := validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	trans, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, trans)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	offered := make(map[string]struct{}, len(courses))
	for _, c := range courses {
		offered[c] = struct{}{}
	}

	_ = v.RegisterValidation(notBlankTag, func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation(courseTag, func(fl validator.FieldLevel) bool {
		// an empty catalog accepts any course
		if len(offered) == 0 {
			return true
		}
		_, ok := offered[fl.Field().String()]
		return ok
	})

	noop := func(ut.Translator) error { return nil }
	for _, tag := range []string{notBlankTag, courseTag} {
		_ = v.RegisterTranslation(tag, trans, noop, translateCustom)
	}
	return v, trans
}

func translateCustom(_ ut.Translator, fe validator.FieldError) string {
	switch fe.Tag() {
	case notBlankTag:
		return "this field cannot be blank"
	case courseTag:
		return "select one of the offered courses"
	}
	return ""
}
