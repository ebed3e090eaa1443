package reporter

import (
	"strings"

	"github.com/aleister1102/artemis-extras/internal/models"
)

// VNCAuth is reported for VNC servers accepting a guessable password.
const VNCAuth models.ReportType = "vnc_auth"

// visiblePasswordChars is how much of a guessed password is shown.
const visiblePasswordChars = 3

// VNCAuthReporter reports VNC servers with a guessable password.
type VNCAuthReporter struct {
	baseReporter
}

// NewVNCAuthReporter creates the reporter for vnc_auth results.
func NewVNCAuthReporter() *VNCAuthReporter {
	return &VNCAuthReporter{baseReporter{
		receiver:  "vnc_auth",
		types:     []models.ReportType{VNCAuth},
		fragments: []Fragment{{ReportType: VNCAuth, Priority: 10, Template: "vnc_auth.html"}},
	}}
}

// CreateReports creates a report with the masked password.
func (r *VNCAuthReporter) CreateReports(result models.TaskResult, _ Language) Outcome {
	if !r.accepts(result) {
		return skipped("receiver %q is not %q", result.Receiver, r.receiver)
	}
	if !result.IsInteresting() {
		return skipped("status is %s", result.Status)
	}

	// The status reason reads "Found password: <password>".
	parts := strings.SplitN(result.StatusReason, " ", 3)
	if len(parts) < 3 {
		return failed("unexpected status reason %q", result.StatusReason)
	}

	return Outcome{Reports: []models.Report{
		newReport(result, "vnc://"+result.TargetString, VNCAuth, map[string]any{"pass": maskPassword(parts[2])}),
	}}
}

func maskPassword(password string) string {
	runes := []rune(password)
	if len(runes) > visiblePasswordChars {
		runes = runes[:visiblePasswordChars]
	}
	return string(runes) + strings.Repeat("*", 5)
}
