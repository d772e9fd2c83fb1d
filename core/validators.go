package core

import (
	"reflect"
	"regexp"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	// custom validation tags & texts
	quarterTag  = "quarter"
	quarterText = "must be one of Q1, Q2, Q3 or Q4"

	quarterLabelTag  = "quarterlabel"
	quarterLabelText = "must be one of 1st, 2nd, 3rd or 4th Quarter"

	schoolYearTag   = "schoolyear"
	schoolYearText  = "must be of the form 2024-2025"
	schoolYearRegex = regexp.MustCompile(`^\d{4}-\d{4}$`)

	requiredTag     = "required"
	requiredWithTag = "required_with"
	requiredText    = "this field is required"
)

// InitValidators instantiates the validator for use.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// register custom validators
	_ = validate.RegisterValidation(quarterTag, quarterValidation)
	RegisterCustomTranslation(validate, translator, quarterTag, quarterText)

	_ = validate.RegisterValidation(quarterLabelTag, quarterLabelValidation)
	RegisterCustomTranslation(validate, translator, quarterLabelTag, quarterLabelText)

	_ = validate.RegisterValidation(schoolYearTag, schoolYearValidation)
	RegisterCustomTranslation(validate, translator, schoolYearTag, schoolYearText)

	RegisterCustomTranslation(validate, translator, requiredTag, requiredText, true)
	RegisterCustomTranslation(validate, translator, requiredWithTag, requiredText, true)
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
func RegisterCustomTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// Custom Global Validators

func quarterValidation(fl validator.FieldLevel) bool {
	return Quarter(fl.Field().String()).IsValid()
}

func quarterLabelValidation(fl validator.FieldLevel) bool {
	_, err := ParseQuarterLabel(fl.Field().String())
	return err == nil
}

func schoolYearValidation(fl validator.FieldLevel) bool {
	return schoolYearRegex.MatchString(fl.Field().String())
}
