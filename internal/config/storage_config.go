package config

// StorageConfig defines where task results and archived reports live.
// An empty path disables that store.
type StorageConfig struct {
	SQLiteDBPath      string `json:"sqlite_db_path,omitempty" yaml:"sqlite_db_path,omitempty"`
	ReportArchivePath string `json:"report_archive_path,omitempty" yaml:"report_archive_path,omitempty"`
}

// NewDefaultStorageConfig creates default storage configuration
func NewDefaultStorageConfig() StorageConfig {
	return StorageConfig{
		SQLiteDBPath:      DefaultStorageSQLiteDBPath,
		ReportArchivePath: DefaultStorageReportArchivePath,
	}
}
