package deliver

import (
	"log/slog"
	"time"

	"github.com/pingline/pingline/internal/presence"
)

// Event is the payload forwarded to a recipient's live connection for
// one chat message. It is ephemeral: persistence happens on the
// separate REST path, not here.
type Event struct {
	SenderID  string    `json:"senderId"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// Sender forwards an event to a single live connection. The realtime
// hub implements it; tests substitute a fake.
type Sender interface {
	Send(connID string, event Event) error
}

// Router forwards chat messages to the recipient's live connection,
// if any. Delivery is strictly best-effort: an offline recipient or a
// failed transport send drops the event without surfacing an error to
// the sender. Recipients catch up through the REST history fetch.
type Router struct {
	registry *presence.Registry
	sender   Sender
	logger   *slog.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewRouter creates a delivery router on top of a presence registry
// and a transport sender.
func NewRouter(registry *presence.Registry, sender Sender, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		registry: registry,
		sender:   sender,
		logger:   logger,
		now:      time.Now,
	}
}

// Route delivers text from sender to recipient's live connection. The
// timestamp is assigned here, at routing time. A lookup miss and a
// transport send failure are both normal drops, never errors.
func (r *Router) Route(senderID, recipientID, text string) {
	connID, ok := r.registry.Lookup(recipientID)
	if !ok {
		r.logger.Debug("recipient offline, dropping live event",
			"sender", senderID,
			"recipient", recipientID,
		)
		return
	}

	event := Event{
		SenderID:  senderID,
		Message:   text,
		CreatedAt: r.now(),
	}

	if err := r.sender.Send(connID, event); err != nil {
		// A connection closing between lookup and send is
		// indistinguishable from the recipient being offline.
		r.logger.Debug("live delivery failed, dropping event",
			"recipient", recipientID,
			"conn", connID,
			"error", err,
		)
	}
}
