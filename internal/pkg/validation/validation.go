// internal/pkg/validation/validation.go
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	mobileRe   = regexp.MustCompile(`^07[02369]\d{7}$`)
	nonDigitRe = regexp.MustCompile(`\D`)

	once     sync.Once
	instance *validator.Validate
)

// Messages shown to the user per failed tag.
var messages = map[string]string{
	"required":     "Fältet är obligatoriskt",
	"required_if":  "Fältet är obligatoriskt",
	"email":        "Ange en giltig e-postadress",
	"se_mobile":    "Ange ett giltigt mobilnummer (07X-XXX XX XX)",
	"apartment_no": "Lägenhetsnumret måste vara 4 siffror",
	"pnr":          "Ange ett giltigt personnummer (10 eller 12 siffror)",
	"facility_id":  "Anläggnings-ID måste vara 18 siffror",
	"orgnr":        "Organisationsnumret måste vara 10 siffror",
	"datetime":     "Ange ett giltigt datum (ÅÅÅÅ-MM-DD)",
	"oneof":        "Ogiltigt val",
	"len":          "Fel antal värden",
	"max":          "Värdet är för långt",
}

// FieldErrors maps a JSON field name to a user-facing message.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+f[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Engine returns the shared validator with the signup tags registered. It
// reads `binding` tags so gin and the services validate the same DTOs.
func Engine() *validator.Validate {
	once.Do(func() {
		instance = validator.New()
		instance.SetTagName("binding")
		if err := Register(instance); err != nil {
			panic(err)
		}
	})
	return instance
}

// Register installs the custom tags and JSON field naming on v.
func Register(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	custom := map[string]validator.Func{
		"se_mobile":    func(fl validator.FieldLevel) bool { return IsMobile(fl.Field().String()) },
		"apartment_no": func(fl validator.FieldLevel) bool { return IsApartmentNumber(fl.Field().String()) },
		"pnr":          func(fl validator.FieldLevel) bool { return IsNationalID(fl.Field().String()) },
		"facility_id":  func(fl validator.FieldLevel) bool { return IsFacilityID(fl.Field().String()) },
		"orgnr":        func(fl validator.FieldLevel) bool { return len(Digits(fl.Field().String())) == 10 },
	}
	for tag, fn := range custom {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

// RegisterGin installs the custom tags on gin's default validator.
func RegisterGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin validator engine is not validator/v10")
	}
	return Register(v)
}

// Struct validates s and returns nil or FieldErrors.
func Struct(s any) error {
	return FromError(Engine().Struct(s))
}

// Field validates a single value under the given field name.
func Field(name string, value any, tag string) error {
	err := Engine().Var(value, tag)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return FieldErrors{name: message(verrs[0].Tag())}
	}
	return err
}

// FromError converts validator errors into FieldErrors; other errors pass through.
func FromError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := FieldErrors{}
	for _, fe := range verrs {
		out[fieldPath(fe.Namespace())] = message(fe.Tag())
	}
	return out
}

// Merge combines field errors; nil inputs are skipped.
func Merge(errs ...error) error {
	out := FieldErrors{}
	for _, err := range errs {
		if err == nil {
			continue
		}
		var fe FieldErrors
		if !errors.As(err, &fe) {
			return err
		}
		for k, v := range fe {
			out[k] = v
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func Digits(s string) string {
	return nonDigitRe.ReplaceAllString(s, "")
}

func IsMobile(phone string) bool {
	return mobileRe.MatchString(Digits(phone))
}

func IsApartmentNumber(s string) bool {
	return len(s) == 4 && Digits(s) == s
}

func IsNationalID(s string) bool {
	n := len(Digits(s))
	return n == 10 || n == 12
}

func IsFacilityID(s string) bool {
	return len(Digits(s)) == 18 && Digits(s) == strings.TrimSpace(s)
}

func message(tag string) string {
	if m, ok := messages[tag]; ok {
		return m
	}
	return "Ogiltigt värde"
}

// fieldPath drops the root struct name: "ConfirmContactRequest.invoice.mode" -> "invoice.mode".
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
