package models

import "time"

// ReportType names a kind of finding a reporter can produce.
type ReportType string

// Report is a single finding derived from a TaskResult.
type Report struct {
	TopLevelTarget string         `json:"top_level_target"`
	Target         string         `json:"target"`
	ReportType     ReportType     `json:"report_type"`
	AdditionalData map[string]any `json:"additional_data,omitempty"`
	Timestamp      time.Time      `json:"timestamp"`
	// Score and NormalForm are filled in by the reporting pipeline.
	Score      int    `json:"score,omitempty"`
	NormalForm string `json:"normal_form,omitempty"`
}

// GetTimestamp implements Timestamped.
func (r Report) GetTimestamp() time.Time { return r.Timestamp }

// DataString returns a string field of AdditionalData, or "".
func (r Report) DataString(key string) string {
	if r.AdditionalData == nil {
		return ""
	}
	s, _ := r.AdditionalData[key].(string)
	return s
}
