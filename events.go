package engine

// #region imports
import (
	"time"

	"github.com/danielpatrickdp/masking-engine/go-engine/internal/prompt"
	"github.com/danielpatrickdp/masking-engine/go-engine/internal/transition"
)

// #endregion imports

// #region kinds

// EventKind names a subscribable event stream.
type EventKind string

const (
	KindTransition      EventKind = "transition"
	KindPromptDelivered EventKind = "prompt_delivered"
)

// #endregion kinds

// #region events

// Event is a notification delivered to subscribers.
type Event interface {
	EventKind() EventKind
	Timestamp() time.Time
}

// TransitionEvent wraps a detected behavioral-state transition.
type TransitionEvent struct {
	Transition transition.Event
}

func (e TransitionEvent) EventKind() EventKind { return KindTransition }
func (e TransitionEvent) Timestamp() time.Time { return e.Transition.At }

// PromptDelivered announces a prompt that cleared its delay and the rate
// limits at fire time.
type PromptDelivered struct {
	Record prompt.Record
}

func (e PromptDelivered) EventKind() EventKind { return KindPromptDelivered }
func (e PromptDelivered) Timestamp() time.Time { return e.Record.DeliveredAt }

// #endregion events
