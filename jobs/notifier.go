package jobs

import (
	"context"

	"github.com/seaboard-ops/seaboard/internal/purchasing"
)

// Notifier enqueues stage-changed tasks for asynchronous fan-out. It
// implements the workflow's notifier port.
type Notifier struct {
	client *Client
}

// NewNotifier constructs a Notifier over an Asynq client.
func NewNotifier(client *Client) *Notifier {
	return &Notifier{client: client}
}

// StageChanged enqueues the transition for background delivery.
func (n *Notifier) StageChanged(ctx context.Context, evt purchasing.StageChangedEvent) error {
	if n == nil || n.client == nil {
		return nil
	}
	_, err := n.client.EnqueueStageChanged(ctx, StageChangedPayload{
		OrderID:     evt.OrderID,
		OrderNumber: evt.OrderNumber,
		From:        string(evt.From),
		To:          string(evt.To),
		Kind:        string(evt.Kind),
		ActorID:     evt.ActorID,
		At:          evt.At,
	})
	return err
}
