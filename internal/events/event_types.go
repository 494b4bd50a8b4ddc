package events

import "time"

// EventType names the auth milestones published on the dispatcher.
type EventType string

const (
	EventUserRegistered  EventType = "user.registered"
	EventLoginSucceeded  EventType = "user.login_succeeded"
	EventTokenRefreshed  EventType = "user.token_refreshed"
	EventPasswordChanged EventType = "user.password_changed"
)

// Event carries the audit record for one auth milestone.
type Event struct {
	Type       EventType
	Username   string
	OccurredAt time.Time
	Metadata   map[string]string
}

// NewEvent stamps an event with the current time.
func NewEvent(eventType EventType, username string, metadata map[string]string) Event {
	return Event{
		Type:       eventType,
		Username:   username,
		OccurredAt: time.Now().UTC(),
		Metadata:   metadata,
	}
}
