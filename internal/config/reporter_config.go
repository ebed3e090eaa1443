package config

// ReporterConfig defines configuration for turning task results into
// reports.
type ReporterConfig struct {
	Language string `json:"language,omitempty" yaml:"language,omitempty" validate:"omitempty,language"`
	// MinScores drops reports of the given type scoring below the value.
	MinScores map[string]int `json:"min_scores,omitempty" yaml:"min_scores,omitempty"`
}

// NewDefaultReporterConfig creates default reporter configuration
func NewDefaultReporterConfig() ReporterConfig {
	return ReporterConfig{
		Language:  DefaultReporterLanguage,
		MinScores: map[string]int{},
	}
}
