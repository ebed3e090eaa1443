package filemanager

import (
	"io/fs"
	"time"
)

// FileInfo is the subset of os.FileInfo callers care about.
type FileInfo struct {
	Path        string
	Name        string
	Size        int64
	IsDir       bool
	ModTime     time.Time
	Permissions fs.FileMode
}

// FileReadOptions configures file reading behavior
type FileReadOptions struct {
	MaxSize   int64 // Maximum file size to read (0 = no limit)
	TrimLines bool  // Whether to trim whitespace from lines
	SkipEmpty bool  // Whether to skip empty lines
}

// DefaultFileReadOptions caps reads at 10MB.
func DefaultFileReadOptions() FileReadOptions {
	return FileReadOptions{MaxSize: 10 * 1024 * 1024}
}

// FileWriteOptions configures file writing behavior
type FileWriteOptions struct {
	CreateDirs  bool        // Whether to create parent directories
	Permissions fs.FileMode // File permissions, 0644 when zero
}
