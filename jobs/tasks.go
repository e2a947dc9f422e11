package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskStageChanged fans out purchase-order stage transitions to
	// downstream consumers (notifications, reporting feeds).
	TaskStageChanged = "purchasing:stage_changed"
)

// StageChangedPayload carries one stage transition.
type StageChangedPayload struct {
	OrderID     int64     `json:"orderId"`
	OrderNumber string    `json:"orderNumber"`
	From        string    `json:"from"`
	To          string    `json:"to"`
	Kind        string    `json:"kind"`
	ActorID     *int64    `json:"actorId,omitempty"`
	At          time.Time `json:"at"`
}

// NewStageChangedTask constructs an Asynq task.
func NewStageChangedTask(payload StageChangedPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskStageChanged, data), nil
}

// NewStageChangedHandler processes TaskStageChanged tasks.
func NewStageChangedHandler(logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload StageChangedPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		logger.Info("purchase order stage changed",
			slog.Int64("order_id", payload.OrderID),
			slog.String("order_number", payload.OrderNumber),
			slog.String("from", payload.From),
			slog.String("to", payload.To),
			slog.String("kind", payload.Kind),
		)
		// Placeholder: deliver to the notification gateway once it exposes
		// a stage-change webhook.
		return nil
	}
}
