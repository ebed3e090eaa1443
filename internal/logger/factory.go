package logger

import (
	"io"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// WriterFactory creates writers based on format
type WriterFactory struct {
	strategies    map[LogFormat]WriterStrategy
	consoleOutput io.Writer
}

// NewWriterFactory creates a new writer factory writing console output to
// stderr.
func NewWriterFactory() *WriterFactory {
	return &WriterFactory{
		strategies: map[LogFormat]WriterStrategy{
			FormatJSON:    &JSONWriterStrategy{},
			FormatConsole: &ConsoleWriterStrategy{NoColor: false},
			FormatText:    &TextWriterStrategy{},
		},
		consoleOutput: os.Stderr,
	}
}

// CreateConsoleWriter creates a console writer
func (wf *WriterFactory) CreateConsoleWriter(format LogFormat) io.Writer {
	strategy, exists := wf.strategies[format]
	if !exists {
		strategy = &ConsoleWriterStrategy{NoColor: false}
	}
	return strategy.CreateWriter(wf.consoleOutput)
}

// CreateFileWriter creates a rotating file writer. Console format is written
// without colors so the file stays greppable.
func (wf *WriterFactory) CreateFileWriter(config LoggerConfig) io.Writer {
	finalPath := wf.buildLogPath(config)

	if err := os.MkdirAll(filepath.Dir(finalPath), 0755); err != nil {
		finalPath = config.FilePath
	}

	rotator := &lumberjack.Logger{
		Filename:   finalPath,
		MaxSize:    config.MaxSizeMB,
		LocalTime:  true,
		MaxBackups: config.MaxBackups,
	}

	if config.Format == FormatConsole {
		return (&ConsoleWriterStrategy{NoColor: true}).CreateWriter(rotator)
	}

	strategy, exists := wf.strategies[config.Format]
	if !exists {
		strategy = &JSONWriterStrategy{}
	}
	return strategy.CreateWriter(rotator)
}

// buildLogPath puts the file under runs/<run id>/ next to the configured
// path when a run id is set.
func (wf *WriterFactory) buildLogPath(config LoggerConfig) string {
	if !config.UseSubdirs || config.RunID == "" {
		return config.FilePath
	}

	baseDir := filepath.Dir(config.FilePath)
	fileName := filepath.Base(config.FilePath)
	return filepath.Join(baseDir, "runs", config.RunID, fileName)
}
