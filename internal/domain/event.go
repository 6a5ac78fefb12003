// Package domain contains the core data structures and domain logic for the application.
package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// PushEventType is the event stream type that signifies a code push to a branch.
// It is the only event type with meaning to the activity check; every other
// type still parses and is carried inert.
const PushEventType = "PushEvent"

// Event is a single item from a user's public event stream.
// Events are immutable once constructed and live only for one fetch+classify cycle.
type Event struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	CreatedAt time.Time      `json:"created_at"`
	Actor     map[string]any `json:"actor,omitempty"`
	Payload   map[string]any `json:"payload,omitempty"`
}

// rawEvent mirrors the API item with pointer fields so that an absent field
// is distinguishable from a zero value.
type rawEvent struct {
	ID        *string        `json:"id"`
	Type      *string        `json:"type"`
	CreatedAt *string        `json:"created_at"`
	Actor     map[string]any `json:"actor"`
	Payload   map[string]any `json:"payload"`
}

// ParseEvent validates one raw event stream item. The page number is used only
// for diagnostic context. Any schema violation (missing required field, wrong
// primitive type, unparseable timestamp) yields an error; the page-level caller
// drops the item with a warning and keeps processing the rest of the page.
func ParseEvent(raw json.RawMessage, page int) (Event, error) {
	var item rawEvent
	if err := json.Unmarshal(raw, &item); err != nil {
		return Event{}, fmt.Errorf("event on page %d does not match the expected shape: %w", page, err)
	}
	if item.ID == nil {
		return Event{}, fmt.Errorf("event on page %d is missing required field %q", page, "id")
	}
	if item.Type == nil {
		return Event{}, fmt.Errorf("event on page %d is missing required field %q", page, "type")
	}
	if item.CreatedAt == nil {
		return Event{}, fmt.Errorf("event on page %d is missing required field %q", page, "created_at")
	}
	createdAt, err := ParseTimestamp(*item.CreatedAt)
	if err != nil {
		return Event{}, fmt.Errorf("event %s on page %d: %w", *item.ID, page, err)
	}
	return Event{
		ID:        *item.ID,
		Type:      *item.Type,
		CreatedAt: createdAt,
		Actor:     item.Actor,
		Payload:   item.Payload,
	}, nil
}

// ParseTimestamp accepts RFC 3339 instants (a trailing "Z" or an explicit
// numeric offset). A value without any zone information is assumed to already
// be in UTC and is labeled as such rather than converted.
func ParseTimestamp(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02T15:04:05", value); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unsupported timestamp %q", value)
}
