package reporter

import (
	"fmt"

	"github.com/aleister1102/artemis-extras/internal/config"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Language is a supported report language.
type Language struct {
	Tag language.Tag
}

// Supported report languages.
var (
	LanguageEnglish = Language{Tag: language.AmericanEnglish}
	LanguagePolish  = Language{Tag: language.MustParse("pl-PL")}
)

// ParseLanguage accepts "en-US", "pl_PL" and similar. Unsupported languages
// are an error matching errorwrapper.ErrUnsupportedLanguage.
func ParseLanguage(value string) (Language, error) {
	tag, err := config.ParseReportLanguage(value)
	if err != nil {
		return Language{}, err
	}
	return Language{Tag: tag}, nil
}

// String returns the BCP 47 tag.
func (l Language) String() string { return l.Tag.String() }

// IsEnglish reports whether l is English.
func (l Language) IsEnglish() bool { return l.Tag == LanguageEnglish.Tag }

// IsPolish reports whether l is Polish.
func (l Language) IsPolish() bool { return l.Tag == LanguagePolish.Tag }

// Printer returns a printer translating template messages into l.
func (l Language) Printer() *message.Printer {
	return message.NewPrinter(l.Tag, message.Catalog(messageCatalog))
}

// Title upper-cases the first letter of every word using l's rules.
func (l Language) Title(s string) string {
	return cases.Title(l.Tag).String(s)
}

var messageCatalog = mustBuildCatalog(templateMessagesPL)

// buildCatalog registers the Polish translations of the template messages.
// English messages are their own keys.
func buildCatalog(messagesPL map[string]string) (catalog.Catalog, error) {
	builder := catalog.NewBuilder(catalog.Fallback(LanguageEnglish.Tag))
	for key, translated := range messagesPL {
		if err := builder.SetString(LanguagePolish.Tag, key, translated); err != nil {
			return nil, fmt.Errorf("polish message %q: %w", key, err)
		}
	}
	return builder, nil
}

func mustBuildCatalog(messagesPL map[string]string) catalog.Catalog {
	c, err := buildCatalog(messagesPL)
	if err != nil {
		panic("reporter: " + err.Error())
	}
	return c
}
