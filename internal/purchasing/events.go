package purchasing

import (
	"context"
	"time"
)

// StageChangedEvent describes a completed transition for downstream
// consumers (notifications, search reindex).
type StageChangedEvent struct {
	OrderID     int64
	OrderNumber string
	From        Stage
	To          Stage
	Kind        TransitionKind
	ActorID     *int64
	At          time.Time
}

// NotifierPort publishes stage-change events. Implemented by the jobs queue
// client; nil disables publishing.
type NotifierPort interface {
	StageChanged(ctx context.Context, evt StageChangedEvent) error
}
