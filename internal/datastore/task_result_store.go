package datastore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aleister1102/artemis-extras/internal/common/errorwrapper"
	"github.com/aleister1102/artemis-extras/internal/common/filemanager"
	"github.com/aleister1102/artemis-extras/internal/models"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// TaskResultStore persists module results in a SQLite database.
type TaskResultStore struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewTaskResultStore opens (creating if needed) the database at
// dataSourceName and ensures the schema exists.
func NewTaskResultStore(dataSourceName string, logger zerolog.Logger) (*TaskResultStore, error) {
	storeLogger := logger.With().Str("component", "TaskResultStore").Logger()
	storeLogger.Info().Str("db_path", dataSourceName).Msg("Initializing task result database")

	if err := filemanager.NewFileManager(logger).EnsureParentDirectory(dataSourceName); err != nil {
		return nil, fmt.Errorf("failed to create task result database directory: %w", err)
	}

	dbInstance, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		storeLogger.Error().Err(err).Str("db_path", dataSourceName).Msg("Failed to open task result database")
		return nil, fmt.Errorf("sql.Open failed for %s: %w", dataSourceName, err)
	}
	// SQLite allows a single writer; serialize access instead of retrying on SQLITE_BUSY.
	dbInstance.SetMaxOpenConns(1)

	store := &TaskResultStore{db: dbInstance, logger: storeLogger}
	if err := store.InitSchema(context.Background()); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *TaskResultStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// InitSchema creates the task_results table if it doesn't already exist.
func (s *TaskResultStore) InitSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS task_results (
		id TEXT PRIMARY KEY,
		receiver TEXT NOT NULL,
		target_string TEXT NOT NULL,
		status TEXT NOT NULL,
		status_reason TEXT,
		result TEXT,
		payload TEXT,
		payload_persistent TEXT,
		headers TEXT,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_task_results_receiver ON task_results (receiver, created_at);
	`
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		s.logger.Error().Err(err).Msg("Failed to initialize schema")
		return err
	}
	return nil
}

// SaveTaskResult inserts or replaces the result with the same id.
func (s *TaskResultStore) SaveTaskResult(ctx context.Context, result models.TaskResult) error {
	if err := requireID(result); err != nil {
		return err
	}
	if !result.Status.IsValid() {
		return errorwrapper.NewValidationError("status", result.Status, "unknown task status")
	}
	if result.CreatedAt.IsZero() {
		result.CreatedAt = time.Now().UTC()
	}

	payload, err := marshalNullable(result.Payload)
	if err != nil {
		return errorwrapper.WrapError(err, "failed to encode payload")
	}
	persistent, err := marshalNullable(result.PayloadPersistent)
	if err != nil {
		return errorwrapper.WrapError(err, "failed to encode persistent payload")
	}
	headers, err := marshalNullable(result.Headers)
	if err != nil {
		return errorwrapper.WrapError(err, "failed to encode headers")
	}

	query := `
	INSERT INTO task_results (id, receiver, target_string, status, status_reason, result, payload, payload_persistent, headers, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		receiver = excluded.receiver,
		target_string = excluded.target_string,
		status = excluded.status,
		status_reason = excluded.status_reason,
		result = excluded.result,
		payload = excluded.payload,
		payload_persistent = excluded.payload_persistent,
		headers = excluded.headers,
		created_at = excluded.created_at`

	_, err = s.db.ExecContext(ctx, query,
		result.ID,
		result.Receiver,
		result.TargetString,
		string(result.Status),
		nullString(result.StatusReason),
		nullString(string(result.Result)),
		payload,
		persistent,
		headers,
		result.CreatedAt.UnixMilli(),
	)
	if err != nil {
		s.logger.Error().Err(err).Str("id", result.ID).Msg("Failed to save task result")
		return fmt.Errorf("failed to save task result %s: %w", result.ID, err)
	}

	s.logger.Debug().Str("id", result.ID).Str("receiver", result.Receiver).Str("status", string(result.Status)).Msg("Saved task result")
	return nil
}

const selectColumns = `SELECT id, receiver, target_string, status, status_reason, result, payload, payload_persistent, headers, created_at FROM task_results`

// GetTaskResult returns the result with the given id, or an error matching
// errorwrapper.ErrNotFound.
func (s *TaskResultStore) GetTaskResult(ctx context.Context, id string) (models.TaskResult, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	result, err := scanTaskResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.TaskResult{}, errorwrapper.NewNotFoundError("task result", id)
	}
	if err != nil {
		return models.TaskResult{}, fmt.Errorf("failed to load task result %s: %w", id, err)
	}
	return result, nil
}

// ListTaskResults returns results oldest first. An empty receiver lists all.
func (s *TaskResultStore) ListTaskResults(ctx context.Context, receiver string) ([]models.TaskResult, error) {
	query := selectColumns
	var args []any
	if receiver != "" {
		query += ` WHERE receiver = ?`
		args = append(args, receiver)
	}
	query += ` ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list task results: %w", err)
	}
	defer rows.Close()

	var results []models.TaskResult
	for rows.Next() {
		result, err := scanTaskResult(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to read task result row: %w", err)
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate task results: %w", err)
	}
	return results, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTaskResult(row rowScanner) (models.TaskResult, error) {
	var (
		result                       models.TaskResult
		status                       string
		statusReason, body           sql.NullString
		payload, persistent, headers sql.NullString
		createdAtMillis              int64
	)
	err := row.Scan(&result.ID, &result.Receiver, &result.TargetString, &status, &statusReason, &body, &payload, &persistent, &headers, &createdAtMillis)
	if err != nil {
		return models.TaskResult{}, err
	}

	result.Status = models.TaskStatus(status)
	result.StatusReason = statusReason.String
	if body.Valid && body.String != "" {
		result.Result = json.RawMessage(body.String)
	}
	if err := unmarshalNullable(payload, &result.Payload); err != nil {
		return models.TaskResult{}, err
	}
	if err := unmarshalNullable(persistent, &result.PayloadPersistent); err != nil {
		return models.TaskResult{}, err
	}
	if err := unmarshalNullable(headers, &result.Headers); err != nil {
		return models.TaskResult{}, err
	}
	result.CreatedAt = time.UnixMilli(createdAtMillis).UTC()
	return result, nil
}

func requireID(record models.Identifiable) error {
	if record.GetID() == "" {
		return errorwrapper.NewValidationError("id", record.GetID(), "record id is required")
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func marshalNullable[T any](v map[string]T) (sql.NullString, error) {
	if len(v) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func unmarshalNullable[T any](s sql.NullString, dst *map[string]T) error {
	if !s.Valid || s.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(s.String), dst)
}
