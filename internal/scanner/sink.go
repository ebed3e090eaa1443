package scanner

import (
	"context"
	"encoding/json"
	"io"
	"sync"
)

// CandidateRecord is one injection candidate as written to a sink.
type CandidateRecord struct {
	TaskID        string `json:"task_id"`
	SourceURL     string `json:"source_url"`
	URL           string `json:"url"`
	OriginalValue string `json:"original_value"`
}

// CandidateSink receives candidates as they are produced.
type CandidateSink interface {
	Emit(ctx context.Context, record CandidateRecord) error
}

// JSONLinesSink writes one JSON object per line. It is safe for concurrent
// use.
type JSONLinesSink struct {
	mu      sync.Mutex
	encoder *json.Encoder
	count   int
}

// NewJSONLinesSink creates a sink writing to w.
func NewJSONLinesSink(w io.Writer) *JSONLinesSink {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	return &JSONLinesSink{encoder: encoder}
}

// Emit implements CandidateSink.
func (s *JSONLinesSink) Emit(ctx context.Context, record CandidateRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.encoder.Encode(record); err != nil {
		return err
	}
	s.count++
	return nil
}

// Count returns how many records were written.
func (s *JSONLinesSink) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}
