package config

import (
	"encoding/json"
	"path/filepath"

	"github.com/aleister1102/artemis-extras/internal/common/errorwrapper"
	"github.com/aleister1102/artemis-extras/internal/common/filemanager"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// GlobalConfig contains all configuration sections for the application
type GlobalConfig struct {
	LogConfig          LogConfig          `json:"log_config,omitempty" yaml:"log_config,omitempty"`
	StorageConfig      StorageConfig      `json:"storage_config,omitempty" yaml:"storage_config,omitempty"`
	DiscoveryConfig    DiscoveryConfig    `json:"discovery_config,omitempty" yaml:"discovery_config,omitempty"`
	ReporterConfig     ReporterConfig     `json:"reporter_config,omitempty" yaml:"reporter_config,omitempty"`
	MetricsConfig      MetricsConfig      `json:"metrics_config,omitempty" yaml:"metrics_config,omitempty"`
	ExtraModulesConfig ExtraModulesConfig `json:"extra_modules_config,omitempty" yaml:"extra_modules_config,omitempty"`
}

// NewDefaultGlobalConfig creates a new GlobalConfig with default values
func NewDefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		LogConfig:          NewDefaultLogConfig(),
		StorageConfig:      NewDefaultStorageConfig(),
		DiscoveryConfig:    NewDefaultDiscoveryConfig(),
		ReporterConfig:     NewDefaultReporterConfig(),
		MetricsConfig:      NewDefaultMetricsConfig(),
		ExtraModulesConfig: NewDefaultExtraModulesConfig(),
	}
}

// LoadGlobalConfig builds the configuration once: defaults, then the config
// file found by GetConfigPath (YAML for .yaml/.yml, JSON otherwise), then
// environment overrides, then validation. Nothing else in the application
// reads the environment.
func LoadGlobalConfig(providedPath string, logger zerolog.Logger) (*GlobalConfig, error) {
	return loadGlobalConfig(providedPath, logger, NewOSEnvironment())
}

func loadGlobalConfig(providedPath string, logger zerolog.Logger, env Environment) (*GlobalConfig, error) {
	cfg := NewDefaultGlobalConfig()
	fileManager := filemanager.NewFileManager(logger)

	if providedPath != "" && !fileManager.FileExists(providedPath) {
		return nil, errorwrapper.NewValidationError("config_file", providedPath, "config file does not exist")
	}

	filePath := getConfigPath(providedPath, env)
	if filePath != "" {
		data, err := fileManager.ReadFile(filePath, filemanager.DefaultFileReadOptions())
		if err != nil {
			return nil, errorwrapper.WrapError(err, "failed to load config file content")
		}

		if err := parseConfigContent(data, filePath, cfg); err != nil {
			return nil, errorwrapper.WrapError(err, "failed to parse config content")
		}
		logger.Debug().Str("path", filePath).Msg("Loaded configuration file")
	}

	if err := applyEnvOverrides(cfg, env); err != nil {
		return nil, errorwrapper.WrapError(err, "failed to apply environment overrides")
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// parseConfigContent parses the config content based on file extension
func parseConfigContent(data []byte, filePath string, cfg *GlobalConfig) error {
	if isYAMLFile(filepath.Ext(filePath)) {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return errorwrapper.NewError("failed to unmarshal YAML from '%s': %w", filePath, err)
		}
		return nil
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return errorwrapper.NewError("failed to unmarshal JSON from '%s': %w", filePath, err)
	}
	return nil
}

func isYAMLFile(ext string) bool {
	return ext == ".yaml" || ext == ".yml"
}
