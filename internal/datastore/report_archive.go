package datastore

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/aleister1102/artemis-extras/internal/common/contextutils"
	"github.com/aleister1102/artemis-extras/internal/common/errorwrapper"
	"github.com/aleister1102/artemis-extras/internal/common/filemanager"
	"github.com/aleister1102/artemis-extras/internal/models"
	"github.com/parquet-go/parquet-go"
	"github.com/rs/zerolog"
)

// reportRow is the on-disk layout of an archived report.
type reportRow struct {
	TopLevelTarget  string `parquet:"top_level_target"`
	Target          string `parquet:"target"`
	ReportType      string `parquet:"report_type"`
	AdditionalData  string `parquet:"additional_data"`
	TimestampMillis *int64 `parquet:"timestamp_ms,optional"`
	Score           int64  `parquet:"score"`
	NormalForm      string `parquet:"normal_form"`
}

const readBatchSize = 100

// ReportArchive keeps every report produced by the reporting pipeline in a
// single Zstd compressed Parquet file.
type ReportArchive struct {
	filePath    string
	logger      zerolog.Logger
	fileManager *filemanager.FileManager
	mu          sync.Mutex
}

// NewReportArchive creates an archive backed by filePath. The file is
// created on the first Append.
func NewReportArchive(filePath string, logger zerolog.Logger) (*ReportArchive, error) {
	if filePath == "" {
		return nil, errorwrapper.NewValidationError("report_archive_path", filePath, "report archive path is not configured")
	}
	return &ReportArchive{
		filePath:    filePath,
		logger:      logger.With().Str("component", "ReportArchive").Logger(),
		fileManager: filemanager.NewFileManager(logger),
	}, nil
}

// Path returns the archive file location.
func (a *ReportArchive) Path() string { return a.filePath }

// Append adds reports to the archive. Parquet files cannot be appended to in
// place, so existing rows are rewritten together with the new ones into a
// temporary file which then replaces the archive.
func (a *ReportArchive) Append(ctx context.Context, reports []models.Report) error {
	if len(reports) == 0 {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	rows, err := a.readRows(ctx)
	if err != nil {
		return err
	}
	for _, report := range reports {
		row, err := toReportRow(report)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}

	if err := a.fileManager.EnsureParentDirectory(a.filePath); err != nil {
		return errorwrapper.WrapError(err, "failed to create report archive directory")
	}

	tmp, err := os.CreateTemp(filepath.Dir(a.filePath), ".reports-*.parquet")
	if err != nil {
		return errorwrapper.WrapError(err, "failed to create temporary report archive")
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	writer := parquet.NewGenericWriter[reportRow](tmp, parquet.Compression(&parquet.Zstd))
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		_ = tmp.Close()
		return errorwrapper.WrapError(err, "failed to write reports to parquet file")
	}
	if err := writer.Close(); err != nil {
		_ = tmp.Close()
		return errorwrapper.WrapError(err, "failed to finalize parquet file")
	}
	if err := tmp.Close(); err != nil {
		return errorwrapper.WrapError(err, "failed to close temporary report archive")
	}
	if err := os.Rename(tmpPath, a.filePath); err != nil {
		return errorwrapper.WrapError(err, "failed to replace report archive: "+a.filePath)
	}

	a.logger.Info().Str("file_path", a.filePath).Int("records_written", len(reports)).Int("total_records", len(rows)).Msg("Archived reports")
	return nil
}

// Load returns every archived report in insertion order. A missing archive
// yields an empty slice.
func (a *ReportArchive) Load(ctx context.Context) ([]models.Report, error) {
	a.mu.Lock()
	rows, err := a.readRows(ctx)
	a.mu.Unlock()
	if err != nil {
		return nil, err
	}

	reports := make([]models.Report, 0, len(rows))
	for _, row := range rows {
		report, err := fromReportRow(row)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func (a *ReportArchive) readRows(ctx context.Context) ([]reportRow, error) {
	if !a.fileManager.FileExists(a.filePath) {
		a.logger.Debug().Str("file_path", a.filePath).Msg("Report archive does not exist yet")
		return nil, nil
	}

	file, err := os.Open(a.filePath)
	if err != nil {
		return nil, errorwrapper.WrapError(err, "failed to open report archive for reading: "+a.filePath)
	}
	defer file.Close()

	reader := parquet.NewGenericReader[reportRow](file)
	defer reader.Close()

	var rows []reportRow
	for {
		if result := contextutils.CheckCancellationWithLog(ctx, a.logger, "load archived reports"); result.Cancelled {
			return nil, result.Error
		}

		batch := make([]reportRow, readBatchSize)
		n, err := reader.Read(batch)
		if n > 0 {
			rows = append(rows, batch[:n]...)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, errorwrapper.WrapError(err, "failed to read reports from parquet file")
		}
	}
	return rows, nil
}

func toReportRow(report models.Report) (reportRow, error) {
	var data string
	if len(report.AdditionalData) > 0 {
		encoded, err := json.Marshal(report.AdditionalData)
		if err != nil {
			return reportRow{}, errorwrapper.WrapError(err, "failed to encode report additional data")
		}
		data = string(encoded)
	}
	return reportRow{
		TopLevelTarget:  report.TopLevelTarget,
		Target:          report.Target,
		ReportType:      string(report.ReportType),
		AdditionalData:  data,
		TimestampMillis: models.TimeToUnixMilliOptional(report.Timestamp),
		Score:           int64(report.Score),
		NormalForm:      report.NormalForm,
	}, nil
}

func fromReportRow(row reportRow) (models.Report, error) {
	report := models.Report{
		TopLevelTarget: row.TopLevelTarget,
		Target:         row.Target,
		ReportType:     models.ReportType(row.ReportType),
		Timestamp:      models.UnixMilliToTimeOptional(row.TimestampMillis),
		Score:          int(row.Score),
		NormalForm:     row.NormalForm,
	}
	if row.AdditionalData != "" {
		if err := json.Unmarshal([]byte(row.AdditionalData), &report.AdditionalData); err != nil {
			return models.Report{}, errorwrapper.WrapError(err, "failed to decode report additional data")
		}
	}
	return report, nil
}
