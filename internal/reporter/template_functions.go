package reporter

import (
	"fmt"
	"html/template"
	"time"

	"github.com/Masterminds/sprig/v3"
	"github.com/aleister1102/artemis-extras/internal/models"
	"golang.org/x/text/message"
)

// templateFunctions returns the sprig helpers plus the report specific
// ones. T translates a message into lang.
func templateFunctions(lang Language) template.FuncMap {
	printer := lang.Printer()
	funcs := sprig.FuncMap()
	funcs["T"] = func(key string) string {
		return printer.Sprintf(message.Key(key, key))
	}
	funcs["title"] = lang.Title
	funcs["formatTime"] = func(t time.Time, layout string) string {
		if formatted := models.FormatTimeOptional(t, layout); formatted != "" {
			return formatted
		}
		return "N/A"
	}
	funcs["str"] = func(v any) string {
		if v == nil {
			return ""
		}
		return fmt.Sprint(v)
	}
	return funcs
}
