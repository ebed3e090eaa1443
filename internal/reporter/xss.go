package reporter

import (
	"github.com/aleister1102/artemis-extras/internal/models"
)

// XSS is reported for confirmed cross-site scripting.
const XSS models.ReportType = "xss"

// XSSReporter reports reflected cross-site scripting.
type XSSReporter struct {
	baseReporter
}

// NewXSSReporter creates the reporter for xss results.
func NewXSSReporter() *XSSReporter {
	return &XSSReporter{baseReporter{
		receiver:  "xss",
		types:     []models.ReportType{XSS},
		fragments: []Fragment{{ReportType: XSS, Priority: 7, Template: "xss.html"}},
	}}
}

// CreateReports creates a report for INTERESTING results.
func (r *XSSReporter) CreateReports(result models.TaskResult, _ Language) Outcome {
	if !r.accepts(result) {
		return skipped("receiver %q is not %q", result.Receiver, r.receiver)
	}
	if !result.IsInteresting() {
		return skipped("status is %s", result.Status)
	}

	// Object results are kept as they are; anything else is wrapped.
	data, ok := decodeObject(result)
	if !ok {
		var body any
		if err := result.DecodeResult(&body); err != nil {
			return failed("malformed xss result: %w", err)
		}
		data = map[string]any{"result": body}
	}
	return Outcome{Reports: []models.Report{newReport(result, result.TargetString, XSS, data)}}
}
