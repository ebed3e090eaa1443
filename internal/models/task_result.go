package models

import (
	"encoding/json"
	"time"
)

// TaskStatus is the outcome a module assigns to a task.
type TaskStatus string

const (
	TaskStatusOK          TaskStatus = "OK"
	TaskStatusError       TaskStatus = "ERROR"
	TaskStatusInteresting TaskStatus = "INTERESTING"
)

// IsValid reports whether s is one of the known statuses.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusOK, TaskStatusError, TaskStatusInteresting:
		return true
	}
	return false
}

// HeaderReceiver is the header naming the module that produced a result.
const HeaderReceiver = "receiver"

// TaskResult is the stored outcome of one module run against one task. It
// is what reporters consume.
type TaskResult struct {
	ID                string            `json:"id"`
	Receiver          string            `json:"receiver"`
	TargetString      string            `json:"target_string"`
	Status            TaskStatus        `json:"status"`
	StatusReason      string            `json:"status_reason,omitempty"`
	Result            json.RawMessage   `json:"result,omitempty"`
	Payload           map[string]any    `json:"payload,omitempty"`
	PayloadPersistent map[string]any    `json:"payload_persistent,omitempty"`
	Headers           map[string]string `json:"headers,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
}

// UnmarshalJSON accepts records that only carry the receiver inside
// headers.
func (r *TaskResult) UnmarshalJSON(data []byte) error {
	type plain TaskResult
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*r = TaskResult(decoded)
	if r.Receiver == "" && r.Headers != nil {
		r.Receiver = r.Headers[HeaderReceiver]
	}
	return nil
}

// GetID implements Identifiable.
func (r TaskResult) GetID() string { return r.ID }

// GetTimestamp implements Timestamped.
func (r TaskResult) GetTimestamp() time.Time { return r.CreatedAt }

// IsInteresting reports whether the module flagged the target.
func (r TaskResult) IsInteresting() bool {
	return r.Status == TaskStatusInteresting
}

// DecodeResult unmarshals the module specific result body into v.
func (r TaskResult) DecodeResult(v any) error {
	if len(r.Result) == 0 {
		return json.Unmarshal([]byte("null"), v)
	}
	return json.Unmarshal(r.Result, v)
}

// PersistentString returns a string from the persistent payload, or "".
func (r TaskResult) PersistentString(key string) string {
	if r.PayloadPersistent == nil {
		return ""
	}
	s, _ := r.PayloadPersistent[key].(string)
	return s
}
