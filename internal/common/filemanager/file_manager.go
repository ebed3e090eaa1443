package filemanager

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/aleister1102/artemis-extras/internal/common/errorwrapper"
	"github.com/rs/zerolog"
)

// FileManager provides high-level file operations with standardized error handling and logging
type FileManager struct {
	logger zerolog.Logger
}

// NewFileManager creates a new FileManager instance
func NewFileManager(logger zerolog.Logger) *FileManager {
	return &FileManager{
		logger: logger.With().Str("component", "FileManager").Logger(),
	}
}

// FileExists checks if a file or directory exists
func (fm *FileManager) FileExists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}

// GetFileInfo returns information about a file
func (fm *FileManager) GetFileInfo(path string) (*FileInfo, error) {
	stat, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errorwrapper.NewNotFoundError("file", path)
		}
		return nil, errorwrapper.WrapError(err, fmt.Sprintf("failed to get file info for: %s", path))
	}

	return &FileInfo{
		Path:        path,
		Name:        stat.Name(),
		Size:        stat.Size(),
		IsDir:       stat.IsDir(),
		ModTime:     stat.ModTime(),
		Permissions: stat.Mode(),
	}, nil
}

// ValidateFileForReading validates a file path and options before reading
func (fm *FileManager) ValidateFileForReading(path string, opts FileReadOptions) (*FileInfo, error) {
	info, err := fm.GetFileInfo(path)
	if err != nil {
		return nil, err
	}

	if info.IsDir {
		return nil, errorwrapper.NewValidationError("path", path, "is a directory, not a file")
	}

	if opts.MaxSize > 0 && info.Size > opts.MaxSize {
		return nil, errorwrapper.NewValidationError("file_size", info.Size, fmt.Sprintf("exceeds maximum size of %d bytes", opts.MaxSize))
	}

	return info, nil
}

// ReadFile reads a whole file after validating it against opts.
func (fm *FileManager) ReadFile(path string, opts FileReadOptions) ([]byte, error) {
	if _, err := fm.ValidateFileForReading(path, opts); err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, errorwrapper.WrapError(err, fmt.Sprintf("failed to open file: %s", path))
	}
	defer func() {
		if err := file.Close(); err != nil {
			fm.logger.Error().Err(err).Str("path", path).Msg("Failed to close file.")
		}
	}()

	var reader io.Reader = file
	if opts.MaxSize > 0 {
		reader = io.LimitReader(file, opts.MaxSize)
	}
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, errorwrapper.WrapError(err, fmt.Sprintf("failed to read file content: %s", path))
	}
	return content, nil
}

// ReadLines reads a file as lines, trimming and skipping per opts.
func (fm *FileManager) ReadLines(path string, opts FileReadOptions) ([]string, error) {
	content, err := fm.ReadFile(path, opts)
	if err != nil {
		return nil, err
	}
	return SplitLines(content, opts.TrimLines, opts.SkipEmpty)
}

// SplitLines splits content into lines the way ReadLines does.
func SplitLines(content []byte, trim, skipEmpty bool) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if trim {
			line = strings.TrimSpace(line)
		}
		if skipEmpty && line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// EnsureDirectory creates a directory and its parents if they don't exist
func (fm *FileManager) EnsureDirectory(path string, perm fs.FileMode) error {
	if fm.FileExists(path) {
		info, err := fm.GetFileInfo(path)
		if err != nil {
			return errorwrapper.WrapError(err, "failed to check directory: "+path)
		}
		if !info.IsDir {
			return errorwrapper.NewValidationError("path", path, "exists but is not a directory")
		}
		return nil
	}

	if err := os.MkdirAll(path, perm); err != nil {
		return errorwrapper.WrapError(err, "failed to create directory: "+path)
	}

	fm.logger.Debug().Str("path", path).Msg("Created directory")
	return nil
}

// EnsureParentDirectory creates the directory holding path.
func (fm *FileManager) EnsureParentDirectory(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return fm.EnsureDirectory(dir, 0755)
}

// WriteFile writes data to a file with the given options
func (fm *FileManager) WriteFile(path string, data []byte, opts FileWriteOptions) error {
	if opts.CreateDirs {
		if err := fm.EnsureParentDirectory(path); err != nil {
			return errorwrapper.WrapError(err, "failed to create parent directories for: "+path)
		}
	}

	perm := opts.Permissions
	if perm == 0 {
		perm = 0644
	}
	if err := os.WriteFile(path, data, perm); err != nil {
		return errorwrapper.WrapError(err, fmt.Sprintf("failed to write file: %s", path))
	}

	fm.logger.Debug().Str("path", path).Int("bytes", len(data)).Msg("File written successfully")
	return nil
}
