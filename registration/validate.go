package registration

import (
	"encoding/base64"
	"errors"
	"fmt"
	"maps"
	"net/http"
	"reflect"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// ValidationErrors maps a field name to its first failed rule
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := slices.Sorted(maps.Keys(v))
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f + ": " + v[f]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Err returns v as an error, or nil when there are no failures
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

const maxAge = 150

var allowedImageTypes = []string{"image/png", "image/jpeg"}

// Validator checks submissions against the form rules declared in the
// validate tags of Submission
type Validator struct {
	Countries    *Countries
	MaxImageSize int64

	validate *validator.Validate
}

// NewValidator returns a Validator over countries. A maxImageSize of zero
// or less uses DefaultMaxImageSize.
func NewValidator(countries *Countries, maxImageSize int64) *Validator {
	if maxImageSize <= 0 {
		maxImageSize = DefaultMaxImageSize
	}

	v := &Validator{Countries: countries, MaxImageSize: maxImageSize}

	v.validate = validator.New()
	v.validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	rules := map[string]validator.Func{
		"capitalized": func(fl validator.FieldLevel) bool {
			first, _ := utf8.DecodeRuneInString(strings.TrimSpace(fl.Field().String()))
			return unicode.IsUpper(first)
		},
		"password": func(fl validator.FieldLevel) bool {
			return passwordProblem(fl.Field().String()) == ""
		},
		"country": func(fl validator.FieldLevel) bool {
			return v.Countries == nil || v.Countries.Contains(fl.Field().String())
		},
		"dataimage": func(fl validator.FieldLevel) bool {
			return v.imageProblem(fl.Field().String()) == ""
		},
	}
	for tag, fn := range rules {
		// only fails on an empty tag or nil func
		_ = v.validate.RegisterValidation(tag, fn)
	}

	return v
}

// Validate returns every field that fails its rule
func (v *Validator) Validate(s Submission) ValidationErrors {
	errs := ValidationErrors{}

	var failed validator.ValidationErrors
	if err := v.validate.Struct(s); !errors.As(err, &failed) {
		return errs
	}

	for _, fe := range failed {
		if _, exists := errs[fe.Field()]; !exists {
			errs[fe.Field()] = v.message(fe)
		}
	}
	return errs
}

// message renders the user-facing text of a failed rule
func (v *Validator) message(fe validator.FieldError) string {
	value, _ := fe.Value().(string)

	switch fe.Field() {
	case "name":
		if strings.TrimSpace(value) == "" {
			return "Name is required"
		}
		return "Name must start with an uppercase letter"
	case "age":
		if fe.Tag() == "lte" {
			return fmt.Sprintf("Age must be at most %d", maxAge)
		}
		return "Age must be a positive number"
	case "email":
		if fe.Tag() == "required" {
			return "Email is required"
		}
		return "Invalid email address"
	case "password":
		return passwordProblem(value)
	case "confirmPassword":
		return "Passwords must match"
	case "gender":
		if fe.Tag() == "required" {
			return "Gender is required"
		}
		return "Invalid gender"
	case "acceptTerms":
		return "You must accept the terms and conditions"
	case "country":
		if fe.Tag() == "required" {
			return "Country is required"
		}
		return "Unknown country"
	case "image":
		return v.imageProblem(value)
	}
	return fmt.Sprintf("failed %s rule", fe.Tag())
}

func passwordProblem(p string) string {
	if p == "" {
		return "Password is required"
	}
	if utf8.RuneCountInString(p) < minPasswordLength {
		return fmt.Sprintf("Password must be at least %d characters", minPasswordLength)
	}

	classes := classify(p)
	switch {
	case !classes.digit:
		return "Password must contain a number"
	case !classes.upper:
		return "Password must contain an uppercase letter"
	case !classes.lower:
		return "Password must contain a lowercase letter"
	case !classes.special:
		return "Password must contain a special character"
	}
	return ""
}

func (v *Validator) imageProblem(dataURL string) string {
	if dataURL == "" {
		return "Image is required"
	}

	data, err := DecodeImage(dataURL)
	if err != nil {
		return "Invalid image data"
	}
	if int64(len(data)) > v.MaxImageSize {
		return fmt.Sprintf("Image must be at most %d KB", v.MaxImageSize/1024)
	}
	if !slices.Contains(allowedImageTypes, http.DetectContentType(data)) {
		return "Image must be PNG or JPEG"
	}
	return ""
}

// DecodeImage extracts the payload of a base64 data URL
func DecodeImage(dataURL string) ([]byte, error) {
	header, payload, ok := strings.Cut(dataURL, ",")
	if !ok || !strings.HasPrefix(header, "data:") || !strings.HasSuffix(header, ";base64") {
		return nil, fmt.Errorf("not a base64 data URL")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return data, nil
}

// EncodeImage builds a data URL from raw image bytes
func EncodeImage(data []byte) string {
	return "data:" + http.DetectContentType(data) + ";base64," + base64.StdEncoding.EncodeToString(data)
}
