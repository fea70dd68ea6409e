package datatransfer

import (
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/pkg/errors"

	"github.com/epistula/epistula-go/core"
	"github.com/epistula/epistula-go/core/user"
)

var (
	validate   *validator.Validate
	translator ut.Translator

	// custom validation tags
	notBlankTag = "notblank"
	allRolesTag = "allroles"
)

// Instantiate the validator for use.
func init() {
	validate = validator.New()

	// Register the english error messages for validation errors.
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ = uni.GetTranslator("en")
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
	_ = validate.RegisterValidation(notBlankTag, notBlankValidation)
	_ = validate.RegisterValidation(allRolesTag, allRolesValidation)

	registerCustomValidationsTranslations(notBlankTag, allRolesTag)
}

// registerCustomValidationsTranslations registers error messages for custom validations.
// a validator.RegisterTranslationsFunc is required for registering the translator,
// but it has already been registered as the default translation.
// so a noop func is passed to bypass this requirement.
func registerCustomValidationsTranslations(tags ...string) {
	registerFn := func(ut.Translator) error { return nil }
	for _, tag := range tags {
		_ = validate.RegisterTranslation(tag, translator, registerFn, translateCustomValidationErrs)
	}
}

func translateCustomValidationErrs(_ ut.Translator, fe validator.FieldError) string {
	switch fe.Tag() {
	case notBlankTag:
		return "this field cannot be blank"
	case allRolesTag:
		return "invalid roles"
	default:
		return ""
	}
}

// Validate checks a snapshot's structure before it is uploaded; failures come
// back as a *core.ValidationError with one FieldError per offending field.
func Validate(snap *Snapshot) error {
	err := validate.Struct(snap)
	if err == nil {
		return nil
	}
	vErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	fields := make([]core.FieldError, 0, len(vErrs))
	for _, fe := range vErrs {
		fields = append(fields, core.FieldError{
			Field: fe.Namespace(),
			Error: fe.Translate(translator),
		})
	}
	return core.NewValidationError(errors.New("snapshot validation failed"), fields...)
}

// Custom Validators

func notBlankValidation(fl validator.FieldLevel) bool {
	if str, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}
	return false
}

func allRolesValidation(fl validator.FieldLevel) bool {
	if roles, ok := fl.Field().Interface().([]string); ok {
		for _, role := range roles {
			if !user.IsValidRole(role) {
				return false
			}
		}
		return true
	}
	return false
}
