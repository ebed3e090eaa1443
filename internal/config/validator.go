package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/aleister1102/artemis-extras/internal/common/errorwrapper"
	"github.com/go-playground/validator/v10"
	"golang.org/x/text/language"
)

// SupportedReportLanguages are the languages reports can be rendered in.
var SupportedReportLanguages = []language.Tag{
	language.AmericanEnglish,
	language.MustParse("pl-PL"),
}

// ParseReportLanguage accepts BCP 47 tags and the underscore form
// (pl_PL) and returns the matching supported language.
func ParseReportLanguage(value string) (language.Tag, error) {
	tag, err := language.Parse(strings.ReplaceAll(strings.TrimSpace(value), "_", "-"))
	if err != nil {
		return language.Und, fmt.Errorf("%w: %q", errorwrapper.ErrUnsupportedLanguage, value)
	}
	idx := slices.IndexFunc(SupportedReportLanguages, func(supported language.Tag) bool {
		return supported.String() == tag.String()
	})
	if idx < 0 {
		return language.Und, fmt.Errorf("%w: %q", errorwrapper.ErrUnsupportedLanguage, value)
	}
	return SupportedReportLanguages[idx], nil
}

func newValidator() *validator.Validate {
	validate := validator.New()

	_ = validate.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(fl.Field().String()) {
		case "", "trace", "debug", "info", "warn", "error", "fatal", "panic":
			return true
		default:
			return false
		}
	})

	_ = validate.RegisterValidation("logformat", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(fl.Field().String()) {
		case "", "console", "text", "json":
			return true
		default:
			return false
		}
	})

	_ = validate.RegisterValidation("language", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if value == "" {
			return true
		}
		_, err := ParseReportLanguage(value)
		return err == nil
	})

	return validate
}

// ValidateConfig performs validation on the GlobalConfig structure.
func ValidateConfig(cfg *GlobalConfig) error {
	err := newValidator().Struct(cfg)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return fmt.Errorf("%w: %v", errorwrapper.ErrInvalidConfiguration, err)
	}

	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		msg := fmt.Sprintf("Validation failed for '%s': rule '%s'", e.Namespace(), e.Tag())
		if e.Param() != "" {
			msg += fmt.Sprintf(" (expected: %s)", e.Param())
		}
		if e.Value() != nil && e.Value() != "" {
			msg += fmt.Sprintf(", actual: '%v'", e.Value())
		}
		messages = append(messages, msg)
	}
	return fmt.Errorf("%w:\n  %s", errorwrapper.ErrInvalidConfiguration, strings.Join(messages, "\n  "))
}
