package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskEnvelope_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Task
	}{
		{
			name:     "domain",
			input:    `{"type":"domain","payload":{"domain":"example.com"}}`,
			expected: DomainTask{Domain: "example.com"},
		},
		{
			name:     "domain list",
			input:    `{"type":"domain_list","payload":{"domains":["a.example.com","b.example.com"]}}`,
			expected: DomainListTask{Domains: []string{"a.example.com", "b.example.com"}},
		},
		{
			name:     "subdomain bruteforce",
			input:    `{"type":"subdomain_bruteforce","payload":{"domain":"example.com"}}`,
			expected: SubdomainBruteforceTask{Domain: "example.com"},
		},
		{
			name:     "service",
			input:    `{"type":"service","payload":{"host":"10.0.0.1","port":5900,"service":"vnc"}}`,
			expected: ServiceTask{Host: "10.0.0.1", Port: 5900, Service: "vnc"},
		},
		{
			name:     "webapp",
			input:    `{"type":"webapp","payload":{"url":"https://example.com/","webapp":"unknown"}}`,
			expected: WebAppTask{URL: "https://example.com/", WebApp: WebAppUnknown},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var envelope TaskEnvelope
			require.NoError(t, json.Unmarshal([]byte(tt.input), &envelope))
			assert.Equal(t, tt.expected, envelope.Task)
			assert.Equal(t, tt.expected.TaskType(), envelope.Task.TaskType())
			assert.NotEmpty(t, envelope.ID, "missing id is generated")
			assert.False(t, envelope.CreatedAt.IsZero(), "missing timestamp is filled")
		})
	}
}

func TestTaskEnvelope_UnmarshalJSON_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "unknown type", input: `{"type":"carrier_pigeon","payload":{}}`},
		{name: "missing type", input: `{"payload":{"domain":"example.com"}}`},
		{name: "missing payload", input: `{"type":"domain"}`},
		{name: "wrong payload shape", input: `{"type":"service","payload":{"port":"not-a-number"}}`},
		{name: "not json", input: `type=domain`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var envelope TaskEnvelope
			assert.Error(t, json.Unmarshal([]byte(tt.input), &envelope))
		})
	}
}

func TestTaskEnvelope_RoundTripKeepsMetadata(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	original := TaskEnvelope{
		ID:        "6f1c1f44-7d3c-4a39-9d55-0f3f7e1c2b10",
		Receiver:  "injection_points",
		Task:      WebAppTask{URL: "https://example.com/app", WebApp: WebAppUnknown},
		CreatedAt: created,
	}

	data, err := json.Marshal(original)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"webapp"`)

	var decoded TaskEnvelope
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, original, decoded)
}

func TestTaskEnvelope_MarshalWithoutTask(t *testing.T) {
	_, err := json.Marshal(TaskEnvelope{ID: "x"})
	assert.Error(t, err)
}

func TestTask_Validate(t *testing.T) {
	tests := []struct {
		name    string
		task    Task
		wantErr bool
	}{
		{name: "valid domain", task: DomainTask{Domain: "example.com"}},
		{name: "blank domain", task: DomainTask{Domain: "  "}, wantErr: true},
		{name: "empty domain list", task: DomainListTask{}, wantErr: true},
		{name: "valid bruteforce", task: SubdomainBruteforceTask{Domain: "example.com"}},
		{name: "valid service", task: ServiceTask{Host: "example.com", Port: 443}},
		{name: "service port zero", task: ServiceTask{Host: "example.com"}, wantErr: true},
		{name: "service port too big", task: ServiceTask{Host: "example.com", Port: 70000}, wantErr: true},
		{name: "valid webapp", task: WebAppTask{URL: "https://example.com/"}},
		{name: "webapp without scheme", task: WebAppTask{URL: "example.com/"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.task.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTaskEnvelope_ValidateWebAppURL(t *testing.T) {
	envelope := NewTaskEnvelope(WebAppTask{URL: "not a url"})
	err := envelope.Validate()
	require.Error(t, err)

	var urlErr *URLValidationError
	assert.ErrorAs(t, err, &urlErr)
	assert.Equal(t, "not a url", urlErr.URL)
}

func TestTargetString(t *testing.T) {
	tests := []struct {
		task     Task
		expected string
	}{
		{DomainTask{Domain: "example.com"}, "example.com"},
		{DomainListTask{Domains: []string{"a.example.com", "b.example.com", "c.example.com"}}, "a.example.com (+2)"},
		{DomainListTask{}, ""},
		{SubdomainBruteforceTask{Domain: "example.com"}, "example.com"},
		{ServiceTask{Host: "10.0.0.1", Port: 5900}, "10.0.0.1:5900"},
		{WebAppTask{URL: "https://example.com/"}, "https://example.com/"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, TargetString(tt.task))
		})
	}
}
