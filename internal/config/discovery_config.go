package config

import "strings"

// DiscoveryConfig controls the injection point discovery worker.
type DiscoveryConfig struct {
	Concurrency        int    `json:"concurrency,omitempty" yaml:"concurrency,omitempty" validate:"min=1,max=256"`
	MaxLinks           int    `json:"max_links,omitempty" yaml:"max_links,omitempty" validate:"min=0"`
	IncludeInlineJS    bool   `json:"include_inline_js" yaml:"include_inline_js"`
	SameHostOnly       bool   `json:"same_host_only" yaml:"same_host_only"`
	MaxPageSizeBytes   int64  `json:"max_page_size_bytes,omitempty" yaml:"max_page_size_bytes,omitempty" validate:"min=1"`
	PageFileExtensions string `json:"page_file_extensions,omitempty" yaml:"page_file_extensions,omitempty"`
}

// NewDefaultDiscoveryConfig creates default discovery configuration
func NewDefaultDiscoveryConfig() DiscoveryConfig {
	return DiscoveryConfig{
		Concurrency:        DefaultDiscoveryConcurrency,
		MaxLinks:           DefaultDiscoveryMaxLinks,
		IncludeInlineJS:    DefaultDiscoveryIncludeInlineJS,
		SameHostOnly:       DefaultDiscoverySameHostOnly,
		MaxPageSizeBytes:   DefaultDiscoveryMaxPageSizeBytes,
		PageFileExtensions: DefaultDiscoveryPageFileExtensions,
	}
}

// Extensions returns the configured page file extensions, lower-cased and
// with a leading dot.
func (c DiscoveryConfig) Extensions() []string {
	var out []string
	for _, ext := range strings.Split(c.PageFileExtensions, ",") {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	return out
}
