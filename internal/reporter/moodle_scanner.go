package reporter

import (
	"github.com/aleister1102/artemis-extras/internal/models"
)

// Moodle report types.
const (
	MoodleVersionFound       models.ReportType = "moodle_version_found"
	MoodleVulnerabilityFound models.ReportType = "moodle_vulnerability_found"
)

const (
	moodleVersionNotFound = "Version not found"
	moodleUnknown         = "Unknown"
)

// MoodleScannerReporter reports Moodle versions and their known
// vulnerabilities.
type MoodleScannerReporter struct {
	baseReporter
}

// NewMoodleScannerReporter creates the reporter for moodle_scanner results.
func NewMoodleScannerReporter() *MoodleScannerReporter {
	return &MoodleScannerReporter{baseReporter{
		receiver: "moodle_scanner",
		types:    []models.ReportType{MoodleVersionFound, MoodleVulnerabilityFound},
		fragments: []Fragment{
			{ReportType: MoodleVersionFound, Priority: 10, Template: "moodle_version.html"},
			{ReportType: MoodleVulnerabilityFound, Priority: 20, Template: "moodle_vulnerability.html"},
		},
	}}
}

// CreateReports reports the disclosed version and every known vulnerability.
func (r *MoodleScannerReporter) CreateReports(result models.TaskResult, _ Language) Outcome {
	if !r.accepts(result) {
		return skipped("receiver %q is not %q", result.Receiver, r.receiver)
	}
	obj, ok := decodeObject(result)
	if !ok {
		return skipped("result is not an object")
	}

	target := TopLevelTarget(result)
	var reports []models.Report

	if version, _ := stringField(obj, "version"); version != "" && version != moodleVersionNotFound {
		server, ok := obj["server"]
		if !ok {
			server = moodleUnknown
		}
		reports = append(reports, newReport(result, target, MoodleVersionFound, map[string]any{
			"version": version,
			"server":  server,
		}))
	}

	version, ok := obj["version"]
	if !ok {
		version = moodleUnknown
	}
	for _, vulnerability := range listField(obj, "vulnerabilities") {
		reports = append(reports, newReport(result, target, MoodleVulnerabilityFound, map[string]any{
			"vulnerability": vulnerability,
			"version":       version,
		}))
	}
	return Outcome{Reports: reports}
}

// Score doubles the domain score for vulnerabilities.
func (r *MoodleScannerReporter) Score(report models.Report) int {
	if report.ReportType == MoodleVulnerabilityFound {
		return 2 * DomainScore(report.Target)
	}
	return DomainScore(report.Target)
}

// NormalForm adds the version and either the vulnerability or the server
// to the target.
func (r *MoodleScannerReporter) NormalForm(report models.Report) NormalForm {
	nf := NormalForm{
		"type":    string(report.ReportType),
		"target":  DomainNormalForm(report.Target),
		"version": report.AdditionalData["version"],
	}
	if report.ReportType == MoodleVulnerabilityFound {
		nf["vulnerability"] = report.AdditionalData["vulnerability"]
	} else {
		nf["server"] = report.AdditionalData["server"]
	}
	return nf
}
