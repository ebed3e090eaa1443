package scanner

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aleister1102/artemis-extras/internal/common/errorwrapper"
	"github.com/aleister1102/artemis-extras/internal/metrics"
	"github.com/aleister1102/artemis-extras/internal/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Dispatcher routes tasks to the modules that accept them and stores what
// they return.
type Dispatcher struct {
	modules  []Module
	store    ResultStore
	recorder *metrics.Recorder
	logger   zerolog.Logger
}

// NewDispatcher creates a dispatcher. store and recorder may be nil.
func NewDispatcher(store ResultStore, recorder *metrics.Recorder, logger zerolog.Logger, modules ...Module) *Dispatcher {
	return &Dispatcher{
		modules:  modules,
		store:    store,
		recorder: recorder,
		logger:   logger.With().Str("component", "Dispatcher").Logger(),
	}
}

// Dispatch runs every accepting module on envelope. A task no module accepts
// is reported with errorwrapper.ErrUnsupportedTask.
func (d *Dispatcher) Dispatch(ctx context.Context, envelope models.TaskEnvelope) ([]models.TaskResult, error) {
	if err := envelope.Validate(); err != nil {
		return nil, errorwrapper.WrapError(err, "invalid task")
	}

	var results []models.TaskResult
	for _, module := range d.modules {
		if !module.Accepts(envelope.Task) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return results, err
		}

		moduleLogger := d.logger.With().Str("receiver", module.Identity()).Str("task_id", envelope.ID).Logger()
		moduleLogger.Debug().Str("target", models.TargetString(envelope.Task)).Msg("Running module")

		result := module.Run(ctx, envelope)
		taskResult, err := d.toTaskResult(module.Identity(), envelope, result)
		if err != nil {
			return results, err
		}

		d.recorder.ObserveTask(taskResult.Receiver, string(taskResult.Status))
		d.recorder.ObserveCandidates(taskResult.Receiver, result.Emitted)

		if d.store != nil {
			if err := d.store.SaveTaskResult(ctx, taskResult); err != nil {
				return results, errorwrapper.WrapError(err, "failed to save task result")
			}
		}

		if taskResult.Status == models.TaskStatusError {
			moduleLogger.Warn().Str("reason", taskResult.StatusReason).Msg("Module failed")
		}
		results = append(results, taskResult)
	}

	if len(results) == 0 {
		return nil, fmt.Errorf("%w: no module accepts %s tasks", errorwrapper.ErrUnsupportedTask, envelope.Task.TaskType())
	}
	return results, nil
}

func (d *Dispatcher) toTaskResult(receiver string, envelope models.TaskEnvelope, result Result) (models.TaskResult, error) {
	var body json.RawMessage
	if result.Data != nil {
		encoded, err := json.Marshal(result.Data)
		if err != nil {
			return models.TaskResult{}, errorwrapper.WrapError(err, "failed to encode module result")
		}
		body = encoded
	}

	payload, err := taskPayload(envelope.Task)
	if err != nil {
		return models.TaskResult{}, err
	}

	return models.TaskResult{
		ID:           uuid.NewString(),
		Receiver:     receiver,
		TargetString: models.TargetString(envelope.Task),
		Status:       result.Status,
		StatusReason: result.StatusReason,
		Result:       body,
		Payload:      payload,
		Headers: map[string]string{
			models.HeaderReceiver: receiver,
			"type":                string(envelope.Task.TaskType()),
			"task_id":             envelope.ID,
		},
		CreatedAt: time.Now().UTC(),
	}, nil
}

func taskPayload(task models.Task) (map[string]any, error) {
	encoded, err := json.Marshal(task)
	if err != nil {
		return nil, errorwrapper.WrapError(err, "failed to encode task payload")
	}
	var payload map[string]any
	if err := json.Unmarshal(encoded, &payload); err != nil {
		return nil, errorwrapper.WrapError(err, "failed to decode task payload")
	}
	return payload, nil
}
