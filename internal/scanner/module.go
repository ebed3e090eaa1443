package scanner

import (
	"context"

	"github.com/aleister1102/artemis-extras/internal/models"
)

// Result is what a module run produces for one task. It is turned into a
// models.TaskResult by the Dispatcher.
type Result struct {
	Status       models.TaskStatus
	StatusReason string
	Data         any
	// Emitted counts the items the module streamed to its sink.
	Emitted int
}

// Module is a unit of work that consumes tasks of the types it accepts.
type Module interface {
	Identity() string
	Accepts(task models.Task) bool
	Run(ctx context.Context, envelope models.TaskEnvelope) Result
}

// ResultStore persists module results.
type ResultStore interface {
	SaveTaskResult(ctx context.Context, result models.TaskResult) error
}

func errorResult(err error) Result {
	return Result{Status: models.TaskStatusError, StatusReason: err.Error()}
}
