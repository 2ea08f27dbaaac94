package core

import "fmt"

// EventType represents the type of change observed in a store.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change to a stored key.
type Event struct {
	Type      EventType `json:"type"`
	Key       string    `json:"key"`
	Timestamp int64     `json:"timestamp"` // Unix milliseconds
}

func (e Event) String() string {
	return fmt.Sprintf("%s %s", e.Type, e.Key)
}
