// Package reporter turns stored task results into deduplicated, scored
// reports and renders them as e-mail fragments.
package reporter

import (
	"fmt"

	"github.com/aleister1102/artemis-extras/internal/config"
	"github.com/aleister1102/artemis-extras/internal/models"
)

// Reporter translates the results of one receiver into reports.
type Reporter interface {
	// Receiver is the identity of the module whose results are handled.
	Receiver() string
	ReportTypes() []models.ReportType
	CreateReports(result models.TaskResult, lang Language) Outcome
	NormalForm(report models.Report) NormalForm
	Score(report models.Report) int
	Fragments() []Fragment
}

// Outcome is the explicit result of a CreateReports call. Skipped is set
// when the result was deliberately ignored; Err when it could not be read.
type Outcome struct {
	Reports []models.Report
	Assets  []models.Asset
	Skipped string
	Err     error
}

func skipped(format string, args ...any) Outcome {
	return Outcome{Skipped: fmt.Sprintf(format, args...)}
}

func failed(format string, args ...any) Outcome {
	return Outcome{Err: fmt.Errorf(format, args...)}
}

// baseReporter carries the defaults shared by every reporter: the normal
// form is the report type plus the normalized target, the score is the
// score of the target.
type baseReporter struct {
	receiver  string
	types     []models.ReportType
	fragments []Fragment
}

// Receiver is the task receiver whose results the reporter consumes.
func (b baseReporter) Receiver() string { return b.receiver }

// ReportTypes lists the report types the reporter creates.
func (b baseReporter) ReportTypes() []models.ReportType { return b.types }

// Fragments lists the template fragments rendering the reporter's reports.
func (b baseReporter) Fragments() []Fragment { return b.fragments }

// NormalForm identifies a report by type and normalized target.
func (b baseReporter) NormalForm(report models.Report) NormalForm {
	return NormalForm{"type": string(report.ReportType), "target": TargetNormalForm(report.Target)}
}

// Score is the score of the report target.
func (b baseReporter) Score(report models.Report) int {
	return TargetScore(report.Target)
}

// accepts checks the receiver of result, including the legacy headers form.
func (b baseReporter) accepts(result models.TaskResult) bool {
	receiver := result.Receiver
	if receiver == "" {
		receiver = result.Headers[models.HeaderReceiver]
	}
	return receiver == b.receiver
}

// newReport fills the fields every report of result shares.
func newReport(result models.TaskResult, target string, reportType models.ReportType, data map[string]any) models.Report {
	return models.Report{
		TopLevelTarget: TopLevelTarget(result),
		Target:         target,
		ReportType:     reportType,
		AdditionalData: data,
		Timestamp:      result.CreatedAt,
	}
}

// DefaultReporters returns every built-in reporter.
func DefaultReporters(extra config.ExtraModulesConfig) []Reporter {
	return []Reporter{
		NewDNSReaperReporter(),
		NewFortiVulnReporter(),
		NewMoodleScannerReporter(),
		NewSQLmapReporter(),
		NewSSLChecksReporter(extra),
		NewVNCAuthReporter(),
		NewWhatVPNReporter(),
		NewWPScanReporter(),
		NewXSSReporter(),
	}
}
