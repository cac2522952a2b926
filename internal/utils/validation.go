package utils

import (
	"errors"
	"net/http"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// FieldErrors maps a submitted field path (e.g. "weight" or
// "members[0].birthDate") to a human readable reason.
type FieldErrors map[string]string

// Add records msg for field unless the field already has a reason.
func (fe FieldErrors) Add(field, msg string) {
	if _, exists := fe[field]; !exists {
		fe[field] = msg
	}
}

// Merge copies reasons from other that fe does not have yet.
func (fe FieldErrors) Merge(other FieldErrors) {
	for field, msg := range other {
		fe.Add(field, msg)
	}
}

// Fields returns the failing field paths in sorted order.
func (fe FieldErrors) Fields() []string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// Error implements error so FieldErrors can travel through error returns.
func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for _, f := range fe.Fields() {
		parts = append(parts, f+": "+fe[f])
	}
	return strings.Join(parts, ", ")
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
	translator   ut.Translator
)

func instance() (*validator.Validate, ut.Translator) {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, key := range []string{"form", "json"} {
				name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return fld.Name
		})

		english := en.New()
		translator, _ = ut.New(english, english).GetTranslator("en")
		if err := en_translations.RegisterDefaultTranslations(validate, translator); err != nil {
			panic("registering validator translations: " + err.Error())
		}
	})
	return validate, translator
}

// Validate performs validation on a struct.
func Validate(s interface{}) error {
	v, _ := instance()
	return v.Struct(s)
}

// ValidateFields validates s and returns one translated reason per failing
// field, keyed by the field's submitted path. It returns nil when s is valid.
func ValidateFields(s interface{}) FieldErrors {
	err := Validate(s)
	if err == nil {
		return nil
	}
	fe := FieldErrors{}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		fe.Add("_", err.Error())
		return fe
	}
	_, trans := instance()
	for _, e := range errs {
		fe.Add(fieldPath(e.Namespace()), e.Translate(trans))
	}
	return fe
}

// FormatValidationError formats validation errors into a readable string.
func FormatValidationError(err error) string {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe.Error()
	}
	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		_, trans := instance()
		var errorMessages []string
		for _, e := range errs {
			errorMessages = append(errorMessages, e.Translate(trans))
		}
		return strings.Join(errorMessages, ", ")
	}
	return err.Error()
}

// fieldPath drops the top-level struct name from a validator namespace.
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

// BindAndValidate binds the request body into obj and validates it. On
// failure it writes a 400 response and returns false.
func BindAndValidate(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBind(obj); err != nil {
		BadRequest(c, "Invalid request payload")
		return false
	}
	if fe := ValidateFields(obj); fe != nil {
		c.JSON(http.StatusBadRequest, ResponseData{
			Message: "Invalid request payload",
			Reason:  "validation",
			Errors:  fe,
		})
		return false
	}
	return true
}
