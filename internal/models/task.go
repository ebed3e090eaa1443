package models

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TaskType is the discriminator of a task payload.
type TaskType string

const (
	TaskTypeDomain              TaskType = "domain"
	TaskTypeDomainList          TaskType = "domain_list"
	TaskTypeSubdomainBruteforce TaskType = "subdomain_bruteforce"
	TaskTypeService             TaskType = "service"
	TaskTypeWebApp              TaskType = "webapp"
)

// WebApplication identifies the software detected behind a WebAppTask.
type WebApplication string

const (
	WebAppUnknown   WebApplication = "unknown"
	WebAppWordPress WebApplication = "wordpress"
	WebAppMoodle    WebApplication = "moodle"
)

// Task is a typed task payload. The set of variants is closed: only the
// types in this file implement it, so a type switch over them is exhaustive.
type Task interface {
	Validator
	TaskType() TaskType
	isTask()
}

// DomainTask asks modules to examine a single domain.
type DomainTask struct {
	Domain string `json:"domain"`
}

// DomainListTask carries several domains at once.
type DomainListTask struct {
	Domains []string `json:"domains"`
}

// SubdomainBruteforceTask asks for subdomain enumeration of Domain.
type SubdomainBruteforceTask struct {
	Domain string `json:"domain"`
}

// ServiceTask points at a network service.
type ServiceTask struct {
	Host    string `json:"host"`
	Port    int    `json:"port"`
	Service string `json:"service"`
}

// WebAppTask points at a web application root URL.
type WebAppTask struct {
	URL    string         `json:"url"`
	WebApp WebApplication `json:"webapp"`
}

func (DomainTask) TaskType() TaskType              { return TaskTypeDomain }
func (DomainListTask) TaskType() TaskType          { return TaskTypeDomainList }
func (SubdomainBruteforceTask) TaskType() TaskType { return TaskTypeSubdomainBruteforce }
func (ServiceTask) TaskType() TaskType             { return TaskTypeService }
func (WebAppTask) TaskType() TaskType              { return TaskTypeWebApp }

func (DomainTask) isTask()              {}
func (DomainListTask) isTask()          {}
func (SubdomainBruteforceTask) isTask() {}
func (ServiceTask) isTask()             {}
func (WebAppTask) isTask()              {}

// TargetString renders the human readable target of a task.
func TargetString(t Task) string {
	switch v := t.(type) {
	case DomainTask:
		return v.Domain
	case DomainListTask:
		if len(v.Domains) == 0 {
			return ""
		}
		return fmt.Sprintf("%s (+%d)", v.Domains[0], len(v.Domains)-1)
	case SubdomainBruteforceTask:
		return v.Domain
	case ServiceTask:
		return fmt.Sprintf("%s:%d", v.Host, v.Port)
	case WebAppTask:
		return v.URL
	default:
		return ""
	}
}

// Validate checks the fields a module needs before it can run the task.
func (t DomainTask) Validate() error {
	if strings.TrimSpace(t.Domain) == "" {
		return fmt.Errorf("domain task has an empty domain")
	}
	return nil
}

func (t DomainListTask) Validate() error {
	if len(t.Domains) == 0 {
		return fmt.Errorf("domain list task has no domains")
	}
	return nil
}

func (t SubdomainBruteforceTask) Validate() error {
	if strings.TrimSpace(t.Domain) == "" {
		return fmt.Errorf("subdomain bruteforce task has an empty domain")
	}
	return nil
}

func (t ServiceTask) Validate() error {
	if strings.TrimSpace(t.Host) == "" {
		return fmt.Errorf("service task has an empty host")
	}
	if t.Port <= 0 || t.Port > 65535 {
		return fmt.Errorf("service task port %d out of range", t.Port)
	}
	return nil
}

func (t WebAppTask) Validate() error {
	u, err := url.Parse(t.URL)
	if err != nil {
		return &URLValidationError{URL: t.URL, Message: err.Error()}
	}
	if u.Scheme == "" || u.Host == "" {
		return &URLValidationError{URL: t.URL, Message: "missing scheme or host"}
	}
	return nil
}

// TaskEnvelope is a task together with its routing metadata. Receiver is
// empty for tasks that have not been routed yet.
type TaskEnvelope struct {
	ID        string
	Receiver  string
	Task      Task
	CreatedAt time.Time
}

// NewTaskEnvelope wraps a task with a fresh identifier.
func NewTaskEnvelope(task Task) TaskEnvelope {
	return TaskEnvelope{
		ID:        uuid.NewString(),
		Task:      task,
		CreatedAt: time.Now().UTC(),
	}
}

// GetID implements Identifiable.
func (e TaskEnvelope) GetID() string { return e.ID }

// GetTimestamp implements Timestamped.
func (e TaskEnvelope) GetTimestamp() time.Time { return e.CreatedAt }

// Validate implements Validator.
func (e TaskEnvelope) Validate() error {
	if e.Task == nil {
		return fmt.Errorf("task envelope %s has no task", e.ID)
	}
	return e.Task.Validate()
}

type taskEnvelopeWire struct {
	ID        string          `json:"id,omitempty"`
	Receiver  string          `json:"receiver,omitempty"`
	Type      TaskType        `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// MarshalJSON writes the envelope with a "type" discriminator.
func (e TaskEnvelope) MarshalJSON() ([]byte, error) {
	if e.Task == nil {
		return nil, fmt.Errorf("task envelope %s has no task", e.ID)
	}
	payload, err := json.Marshal(e.Task)
	if err != nil {
		return nil, err
	}
	return json.Marshal(taskEnvelopeWire{
		ID:        e.ID,
		Receiver:  e.Receiver,
		Type:      e.Task.TaskType(),
		Payload:   payload,
		CreatedAt: e.CreatedAt,
	})
}

// UnmarshalJSON decodes the payload into the variant named by "type".
// Missing identifiers and timestamps are filled in.
func (e *TaskEnvelope) UnmarshalJSON(data []byte) error {
	var wire taskEnvelopeWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	task, err := decodeTask(wire.Type, wire.Payload)
	if err != nil {
		return err
	}

	e.ID = wire.ID
	e.Receiver = wire.Receiver
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.CreatedAt = wire.CreatedAt
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	e.Task = task
	return nil
}

func decodeTask(taskType TaskType, payload json.RawMessage) (Task, error) {
	switch taskType {
	case TaskTypeDomain:
		return decodeVariant[DomainTask](payload)
	case TaskTypeDomainList:
		return decodeVariant[DomainListTask](payload)
	case TaskTypeSubdomainBruteforce:
		return decodeVariant[SubdomainBruteforceTask](payload)
	case TaskTypeService:
		return decodeVariant[ServiceTask](payload)
	case TaskTypeWebApp:
		return decodeVariant[WebAppTask](payload)
	default:
		return nil, fmt.Errorf("unknown task type '%s'", taskType)
	}
}

func decodeVariant[T Task](payload json.RawMessage) (Task, error) {
	var v T
	if len(payload) == 0 {
		return nil, fmt.Errorf("task of type '%s' has no payload", v.TaskType())
	}
	if err := json.Unmarshal(payload, &v); err != nil {
		return nil, fmt.Errorf("decoding '%s' payload: %w", v.TaskType(), err)
	}
	return v, nil
}
