package reporter

import (
	"github.com/aleister1102/artemis-extras/internal/models"
)

// FortiVuln is reported for FortiOS devices running a vulnerable version.
const FortiVuln models.ReportType = "forti_vuln"

// FortiVulnReporter reports vulnerable FortiOS devices.
type FortiVulnReporter struct {
	baseReporter
}

// NewFortiVulnReporter creates the reporter for forti_vuln results.
func NewFortiVulnReporter() *FortiVulnReporter {
	return &FortiVulnReporter{baseReporter{
		receiver:  "forti_vuln",
		types:     []models.ReportType{FortiVuln},
		fragments: []Fragment{{ReportType: FortiVuln, Priority: 10, Template: "forti_vuln.html"}},
	}}
}

// CreateReports creates a report for INTERESTING results.
func (r *FortiVulnReporter) CreateReports(result models.TaskResult, _ Language) Outcome {
	if !r.accepts(result) {
		return skipped("receiver %q is not %q", result.Receiver, r.receiver)
	}
	if !result.IsInteresting() {
		return skipped("status is %s", result.Status)
	}

	var vuln any
	if err := result.DecodeResult(&vuln); err != nil {
		return failed("malformed forti_vuln result: %w", err)
	}
	return Outcome{Reports: []models.Report{
		newReport(result, "https://"+result.TargetString, FortiVuln, map[string]any{"vuln": vuln}),
	}}
}
