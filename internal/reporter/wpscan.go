package reporter

import (
	"github.com/aleister1102/artemis-extras/internal/models"
)

// WPScan report types.
const (
	WPScanVulnerability  models.ReportType = "wpscan_vulnerability"
	WPScanInterestingURL models.ReportType = "wpscan_interesting_url"
)

// WPScanReporter reports WordPress vulnerabilities and exposed files.
type WPScanReporter struct {
	baseReporter
}

// NewWPScanReporter creates the reporter for wpscan results.
func NewWPScanReporter() *WPScanReporter {
	return &WPScanReporter{baseReporter{
		receiver: "wpscan",
		types:    []models.ReportType{WPScanVulnerability, WPScanInterestingURL},
		fragments: []Fragment{
			{ReportType: WPScanVulnerability, Priority: 7, Template: "wpscan_vulnerability.html"},
			{ReportType: WPScanInterestingURL, Priority: 3, Template: "wpscan_interesting_url.html"},
		},
	}}
}

// CreateReports reports every vulnerability and interesting URL.
func (r *WPScanReporter) CreateReports(result models.TaskResult, _ Language) Outcome {
	if !r.accepts(result) {
		return skipped("receiver %q is not %q", result.Receiver, r.receiver)
	}
	obj, ok := decodeObject(result)
	if !ok {
		return skipped("result is not an object")
	}

	var reports []models.Report
	for _, vulnerability := range listField(obj, "vulnerabilities") {
		reports = append(reports, newReport(result, result.TargetString, WPScanVulnerability, map[string]any{"vulnerability": vulnerability}))
	}
	for _, url := range listField(obj, "interesting_urls") {
		reports = append(reports, newReport(result, result.TargetString, WPScanInterestingURL, map[string]any{"url": url}))
	}
	return Outcome{Reports: reports}
}

// NormalForm includes the additional data, as one site has many findings.
func (r *WPScanReporter) NormalForm(report models.Report) NormalForm {
	return NormalForm{
		"type":            string(report.ReportType),
		"target":          URLNormalForm(report.Target),
		"additional_data": report.AdditionalData,
	}
}

// Score is the URL score of the site.
func (r *WPScanReporter) Score(report models.Report) int {
	return URLScore(report.Target)
}
