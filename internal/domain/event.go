package domain

import (
	"context"
	"fmt"
	"strconv"
)

// EventType is the closed set of event kinds. The numeric value is the
// persisted type tag.
type EventType int

const (
	Webinar EventType = iota
	Conference
	Workshop
)

// String returns the display name of the event type.
func (t EventType) String() string {
	switch t {
	case Webinar:
		return "Webinar"
	case Conference:
		return "Conference"
	case Workshop:
		return "Workshop"
	default:
		return "EventType(" + strconv.Itoa(int(t)) + ")"
	}
}

// Valid reports whether t is one of the known event types.
func (t EventType) Valid() bool {
	return t >= Webinar && t <= Workshop
}

// ParseEventType parses a persisted type tag ("0", "1" or "2").
func ParseEventType(tag string) (EventType, error) {
	n, err := strconv.Atoi(tag)
	if err != nil || !EventType(n).Valid() {
		return 0, fmt.Errorf("%w: unknown event type %q", ErrValidation, tag)
	}
	return EventType(n), nil
}

// Event is a scheduled webinar, conference or workshop and its roster.
// Attendees are kept in registration order.
type Event struct {
	Type        EventType  `json:"type"`
	Title       string     `json:"title"`
	Host        string     `json:"host"`
	Description string     `json:"description"`
	DateTime    string     `json:"date_time"`
	Platform    string     `json:"platform"`
	Capacity    int        `json:"capacity"`
	Attendees   []Attendee `json:"attendees"`
}

// NewEvent returns an Event with no attendees.
func NewEvent(typ EventType, title, host, description, dateTime, platform string, capacity int) *Event {
	return &Event{
		Type:        typ,
		Title:       title,
		Host:        host,
		Description: description,
		DateTime:    dateTime,
		Platform:    platform,
		Capacity:    capacity,
	}
}

// AttendeeCount returns the number of registrations.
func (e *Event) AttendeeCount() int {
	return len(e.Attendees)
}

// AddAttendee appends a registration without checking capacity. It is meant
// for rebuilding stored rosters; new registrations go through SignUp.
func (e *Event) AddAttendee(a Attendee) {
	e.Attendees = append(e.Attendees, a)
}

// SignUp registers a snapshot of user on the event and returns a confirmation
// message. A full event is left untouched and ErrCapacityExceeded is returned.
func (e *Event) SignUp(user *UserProfile) (string, error) {
	if user == nil {
		return "", fmt.Errorf("%w: user details are not available for sign up", ErrValidation)
	}
	if len(e.Attendees) >= e.Capacity {
		return "", fmt.Errorf("%w for %s: %s", ErrCapacityExceeded, e.Type, e.Title)
	}
	e.Attendees = append(e.Attendees, NewAttendeeFromProfile(user))
	return fmt.Sprintf("Signed up for %s: %s on %s. See you there!", e.Type, e.Title, e.DateTime), nil
}

// EventRepository persists the whole catalog. Load returns the stored events in
// order plus any records that had to be skipped; a missing store is empty, not
// an error. Save replaces the stored catalog in full.
type EventRepository interface {
	Load(ctx context.Context) ([]*Event, []SkippedRecord, error)
	Save(ctx context.Context, events []*Event) error
}

// SkippedRecord describes stored data that could not be read back.
type SkippedRecord struct {
	Line   int
	Reason string
}
