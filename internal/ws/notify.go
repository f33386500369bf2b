package ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

type Event struct {
	Type      string `json:"type"`
	Data      any    `json:"data"`
	Timestamp string `json:"timestamp"`
}

// Notifier publishes events through a Hub.
type Notifier struct {
	hub *Hub
	now func() time.Time
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub, now: time.Now}
}

func (n *Notifier) Publish(_ context.Context, userID uuid.UUID, eventType string, data any) error {
	if n == nil || n.hub == nil {
		return nil
	}
	b, err := json.Marshal(Event{
		Type:      eventType,
		Data:      data,
		Timestamp: n.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return errors.Wrapf(err, "encode %s event", eventType)
	}
	n.hub.SendTo(userID, b)
	return nil
}
