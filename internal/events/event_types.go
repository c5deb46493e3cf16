package events

import "time"

// EventType names the auth lifecycle events published by the service.
type EventType string

const (
	EventUserRegistered EventType = "user.registered"
	EventUserLoggedIn   EventType = "user.logged_in"
	EventTokenRefreshed EventType = "token.refreshed"
)

// Event is a published auth lifecycle event.
type Event struct {
	Type       EventType
	UserID     string
	Email      string
	OccurredAt time.Time
}

// NewEvent stamps an event with the current time.
func NewEvent(eventType EventType, userID, email string) Event {
	return Event{
		Type:       eventType,
		UserID:     userID,
		Email:      email,
		OccurredAt: time.Now(),
	}
}
