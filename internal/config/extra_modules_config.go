package config

import "slices"

// ExtraModulesConfig holds settings shared by the scanning modules and
// their reporters.
type ExtraModulesConfig struct {
	SubdomainsToSkipSSLChecks  []string `json:"subdomains_to_skip_ssl_checks,omitempty" yaml:"subdomains_to_skip_ssl_checks,omitempty" validate:"dive,required"`
	SSLChecksMinResponseLength int      `json:"ssl_checks_min_response_length,omitempty" yaml:"ssl_checks_min_response_length,omitempty" validate:"min=0"`
}

func NewDefaultExtraModulesConfig() ExtraModulesConfig {
	return ExtraModulesConfig{
		SubdomainsToSkipSSLChecks:  append([]string(nil), DefaultSubdomainsToSkipSSLChecks...),
		SSLChecksMinResponseLength: DefaultSSLChecksMinResponseLength,
	}
}

// SkipsSSLChecks reports whether SSL findings for a host whose first label
// is label should be suppressed.
func (c ExtraModulesConfig) SkipsSSLChecks(label string) bool {
	return slices.Contains(c.SubdomainsToSkipSSLChecks, label)
}
