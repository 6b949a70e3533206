package validator

import (
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// translator resolves validator tags into English messages. Field-level
// messages stay in English; end-user copy lives in the response catalogue.
var translator ut.Translator

// Setup hooks into Gin's binding validator: field names in messages come
// from the json tag, and tag failures translate through the English locale.
// Call once at startup, before the router is built.
func Setup() {
	v, ok := binding.Validator.Engine().(*govalidator.Validate)
	if !ok {
		return
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	locale := en.New()
	uni := ut.New(locale, locale)
	translator, _ = uni.GetTranslator("en")
	en_translations.RegisterDefaultTranslations(v, translator)
}

// Bind decodes and validates the JSON request body into dst. It returns nil
// on success, or a field → message map suitable for FailWithFields.
func Bind(c *gin.Context, dst interface{}) map[string]string {
	if err := c.ShouldBindJSON(dst); err != nil {
		return TranslateErrors(err)
	}
	return nil
}

// TranslateErrors converts a binding error into a per-field message map.
// Non-validation errors (malformed JSON, wrong types) collapse into a
// single "detail" entry.
func TranslateErrors(err error) map[string]string {
	fields := make(map[string]string)

	var ve govalidator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			fields[fe.Field()] = fe.Translate(translator)
		}
		return fields
	}

	fields["detail"] = err.Error()
	return fields
}
