package reporter

import (
	"encoding/json"
	"strings"

	"github.com/aleister1102/artemis-extras/internal/models"
	"github.com/aleister1102/artemis-extras/internal/urlhandler"
)

// SQLInjection is reported for every injection sqlmap confirmed.
const SQLInjection models.ReportType = "sql_injection"

// SQLmapReporter reports SQL injections confirmed by sqlmap.
type SQLmapReporter struct {
	baseReporter
}

// NewSQLmapReporter creates the reporter for sqlmap results.
func NewSQLmapReporter() *SQLmapReporter {
	return &SQLmapReporter{baseReporter{
		receiver:  "sqlmap",
		types:     []models.ReportType{SQLInjection},
		fragments: []Fragment{{ReportType: SQLInjection, Priority: 10, Template: "sql_injection.html"}},
	}}
}

// CreateReports creates one report per injection carrying a log.
func (r *SQLmapReporter) CreateReports(result models.TaskResult, _ Language) Outcome {
	if !r.accepts(result) {
		return skipped("receiver %q is not %q", result.Receiver, r.receiver)
	}
	items, ok := decodeList(result)
	if !ok {
		return skipped("result is not a list")
	}

	var reports []models.Report
	for _, item := range items {
		var found map[string]any
		if err := json.Unmarshal(item, &found); err != nil || found == nil {
			continue
		}
		if _, hasLog := found["log"]; !hasLog {
			continue
		}

		// sqlmap writes targets as "url (METHOD)".
		target, _ := stringField(found, "target")
		target = strings.Split(target, " ")[0]
		if withPort, err := urlhandler.AddPortToURL(target); err == nil {
			target = withPort
		}

		var user any
		if extracted, ok := stringField(found, "extracted_user"); ok {
			// user@host
			user, _, _ = strings.Cut(extracted, "@")
		}
		var version any
		if extracted, ok := stringField(found, "extracted_version"); ok {
			version = extracted
		}

		reports = append(reports, newReport(result, target, SQLInjection, map[string]any{
			"version": version,
			"user":    user,
		}))
	}
	return Outcome{Reports: reports}
}
