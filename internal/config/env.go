package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/aleister1102/artemis-extras/internal/common/errorwrapper"
)

// Environment is the source of environment overrides. It is read only
// while loading the configuration.
type Environment interface {
	Lookup(key string) (string, bool)
}

type osEnvironment struct{}

// NewOSEnvironment reads the process environment.
func NewOSEnvironment() Environment { return osEnvironment{} }

func (osEnvironment) Lookup(key string) (string, bool) { return os.LookupEnv(key) }

// MapEnvironment is a fixed environment, used in tests.
type MapEnvironment map[string]string

func (m MapEnvironment) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// Legacy variable names understood for compatibility with existing
// deployments. The prefixed names take precedence.
const (
	legacySubdomainsToSkipSSLChecks  = "SUBDOMAINS_TO_SKIP_SSL_CHECKS"
	legacySSLChecksMinResponseLength = "SSL_CHECKS_MIN_RESPONSE_LENGTH"
)

func applyEnvOverrides(cfg *GlobalConfig, env Environment) error {
	if v, ok := lookupFirst(env, EnvPrefix+"LOG_LEVEL"); ok {
		cfg.LogConfig.LogLevel = v
	}
	if v, ok := lookupFirst(env, EnvPrefix+"LOG_FORMAT"); ok {
		cfg.LogConfig.LogFormat = v
	}
	if v, ok := lookupFirst(env, EnvPrefix+"LOG_FILE"); ok {
		cfg.LogConfig.LogFile = v
	}
	if v, ok := lookupFirst(env, EnvPrefix+"SQLITE_DB_PATH"); ok {
		cfg.StorageConfig.SQLiteDBPath = v
	}
	if v, ok := lookupFirst(env, EnvPrefix+"REPORT_ARCHIVE_PATH"); ok {
		cfg.StorageConfig.ReportArchivePath = v
	}
	if v, ok := lookupFirst(env, EnvPrefix+"REPORT_LANGUAGE"); ok {
		cfg.ReporterConfig.Language = v
	}
	if v, ok := lookupFirst(env, EnvPrefix+"METRICS_TEXTFILE"); ok {
		cfg.MetricsConfig.TextfilePath = v
	}
	if v, ok := lookupFirst(env, EnvPrefix+"DISCOVERY_CONCURRENCY"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errorwrapper.NewValidationError(EnvPrefix+"DISCOVERY_CONCURRENCY", v, "must be an integer")
		}
		cfg.DiscoveryConfig.Concurrency = n
	}

	if v, ok := lookupFirst(env, EnvPrefix+legacySubdomainsToSkipSSLChecks, legacySubdomainsToSkipSSLChecks); ok {
		cfg.ExtraModulesConfig.SubdomainsToSkipSSLChecks = splitCSV(v)
	}
	if v, ok := lookupFirst(env, EnvPrefix+legacySSLChecksMinResponseLength, legacySSLChecksMinResponseLength); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return errorwrapper.NewValidationError(legacySSLChecksMinResponseLength, v, "must be an integer")
		}
		cfg.ExtraModulesConfig.SSLChecksMinResponseLength = n
	}
	return nil
}

func lookupFirst(env Environment, keys ...string) (string, bool) {
	for _, key := range keys {
		if v, ok := env.Lookup(key); ok {
			return v, true
		}
	}
	return "", false
}

func splitCSV(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
