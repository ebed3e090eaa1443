package config

// MetricsConfig controls the Prometheus textfile written at the end of a
// run. An empty path disables it.
type MetricsConfig struct {
	TextfilePath string `json:"textfile_path,omitempty" yaml:"textfile_path,omitempty"`
}

func NewDefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{}
}
