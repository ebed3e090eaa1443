package urlhandler

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aleister1102/artemis-extras/internal/common/errorwrapper"
	"github.com/aleister1102/artemis-extras/internal/common/filemanager"
	"github.com/rs/zerolog"
)

var (
	ErrFileNotFound = errors.New("input file not found")
	ErrFileEmpty    = errors.New("input file is empty or contains no valid URLs")
	ErrReadingFile  = errors.New("error reading input file")
)

// ReadURLsFromFile reads a file line by line, normalizes each line as a URL,
// and returns a slice of valid, normalized URLs.
func ReadURLsFromFile(filePath string, logger zerolog.Logger) ([]string, error) {
	fileLogger := logger.With().Str("filePath", filePath).Logger()
	fm := filemanager.NewFileManager(logger)

	content, err := fm.ReadFile(filePath, filemanager.FileReadOptions{})
	if err != nil {
		if errors.Is(err, errorwrapper.ErrNotFound) {
			fileLogger.Error().Err(err).Msg("Input file not found")
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, filePath)
		}
		fileLogger.Error().Err(err).Msg("Error reading input file")
		return nil, fmt.Errorf("%w: %s (cause: %v)", ErrReadingFile, filePath, err)
	}

	if len(content) == 0 {
		fileLogger.Warn().Msg("Input file is empty (0 bytes)")
		return nil, fmt.Errorf("%w: %s (size is 0)", ErrFileEmpty, filePath)
	}

	urls, err := ReadURLs(strings.NewReader(string(content)), fileLogger)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, filePath)
	}
	return urls, nil
}

// ReadURLs normalizes one URL per line from r, skipping blank and invalid
// lines. It fails only when lines were present but none was valid.
func ReadURLs(r io.Reader, logger zerolog.Logger) ([]string, error) {
	var normalizedURLs []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	totalLinesRead := 0
	skippedCount := 0

	for scanner.Scan() {
		totalLinesRead++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		normalizedURL, normErr := NormalizeURL(line)
		if normErr != nil {
			logger.Warn().Err(normErr).Int("lineNumber", totalLinesRead).Str("originalURL", line).Msg("Error normalizing URL, skipping")
			skippedCount++
			continue
		}
		normalizedURLs = append(normalizedURLs, normalizedURL)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadingFile, err)
	}

	logger.Debug().
		Int("totalLinesRead", totalLinesRead).
		Int("normalizedCount", len(normalizedURLs)).
		Int("skippedCount", skippedCount).
		Msg("Finished reading URLs")

	if len(normalizedURLs) == 0 && skippedCount > 0 {
		return nil, fmt.Errorf("%w (no valid URLs found after processing %d lines)", ErrFileEmpty, totalLinesRead)
	}
	return normalizedURLs, nil
}
