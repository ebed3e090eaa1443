package scanner

import (
	"context"
	"path/filepath"

	"github.com/aleister1102/artemis-extras/internal/common/filemanager"
	"github.com/aleister1102/artemis-extras/internal/config"
	"github.com/aleister1102/artemis-extras/internal/urlhandler"
	"github.com/rs/zerolog"
)

// PageSource provides the already fetched HTML of a page. found is false
// when the source has no copy of the page.
type PageSource interface {
	Page(ctx context.Context, pageURL string) (content []byte, found bool, err error)
}

// FilePageSource looks pages up in a directory of saved documents named
// after the sanitized page URL, e.g. example.com_app.html for
// https://example.com/app.
type FilePageSource struct {
	dir         string
	extensions  []string
	readOptions filemanager.FileReadOptions
	fileManager *filemanager.FileManager
	logger      zerolog.Logger
}

// NewFilePageSource creates a page source reading from dir.
func NewFilePageSource(dir string, cfg config.DiscoveryConfig, logger zerolog.Logger) *FilePageSource {
	return &FilePageSource{
		dir:         dir,
		extensions:  cfg.Extensions(),
		readOptions: filemanager.FileReadOptions{MaxSize: cfg.MaxPageSizeBytes},
		fileManager: filemanager.NewFileManager(logger),
		logger:      logger.With().Str("component", "FilePageSource").Logger(),
	}
}

// PagePath returns the candidate file paths for pageURL, in lookup order.
func (s *FilePageSource) PagePath(pageURL string) []string {
	name := urlhandler.SanitizeFilename(pageURL)
	paths := make([]string, 0, len(s.extensions))
	for _, ext := range s.extensions {
		paths = append(paths, filepath.Join(s.dir, name+ext))
	}
	return paths
}

// Page implements PageSource.
func (s *FilePageSource) Page(ctx context.Context, pageURL string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	for _, path := range s.PagePath(pageURL) {
		if !s.fileManager.FileExists(path) {
			continue
		}
		content, err := s.fileManager.ReadFile(path, s.readOptions)
		if err != nil {
			return nil, false, err
		}
		s.logger.Debug().Str("url", pageURL).Str("path", path).Int("bytes", len(content)).Msg("Loaded saved page")
		return content, true, nil
	}
	return nil, false, nil
}
