package config

const (
	// Log Defaults
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultLogFile       = ""
	DefaultMaxLogSizeMB  = 100
	DefaultMaxLogBackups = 3

	// Storage Defaults
	DefaultStorageSQLiteDBPath      = "database/task_results.db"
	DefaultStorageReportArchivePath = "database/reports"

	// Discovery Defaults
	DefaultDiscoveryConcurrency        = 8
	DefaultDiscoveryMaxLinks           = 500
	DefaultDiscoveryIncludeInlineJS    = true
	DefaultDiscoverySameHostOnly       = true
	DefaultDiscoveryMaxPageSizeBytes   = 10 * 1024 * 1024
	DefaultDiscoveryPageFileExtensions = ".html,.htm"

	// Reporter Defaults
	DefaultReporterLanguage = "en-US"

	// Extra modules defaults
	DefaultSSLChecksMinResponseLength = 50

	// Environment variables
	EnvConfigPath = "ARTEMIS_EXTRAS_CONFIG_PATH"
	EnvPrefix     = "ARTEMIS_EXTRAS_"
)

// DefaultSubdomainsToSkipSSLChecks are first labels of hosts that are
// rarely used over HTTP or commonly hold archived sites, so SSL findings on
// them are not reported.
var DefaultSubdomainsToSkipSSLChecks = []string{
	"autodiscover",
	"smtp",
	"ftp",
	"pop",
	"pop3",
	"imap",
	"mx",
	"old",
}
