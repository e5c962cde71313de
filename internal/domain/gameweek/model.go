package gameweek

import (
	"errors"
	"fmt"
	"time"
)

const (
	FirstGameweek = 1
	LastGameweek  = 38
)

var ErrInvalidGameweek = errors.New("invalid gameweek")

// Status is the resolved lifecycle stage of a gameweek.
type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusLive      Status = "live"
	StatusCompleted Status = "completed"
)

func (s Status) rank() int {
	switch s {
	case StatusLive:
		return 1
	case StatusCompleted:
		return 2
	default:
		return 0
	}
}

// Event is the provider's metadata for one gameweek.
type Event struct {
	ID           int
	Finished     bool
	IsCurrent    bool
	DataChecked  bool
	DeadlineTime time.Time
}

// ValidateGameweek rejects ids outside [1,38]. Values are never clamped.
func ValidateGameweek(gameweek int) error {
	if gameweek < FirstGameweek || gameweek > LastGameweek {
		return fmt.Errorf("%w: %d is outside [%d,%d]", ErrInvalidGameweek, gameweek, FirstGameweek, LastGameweek)
	}
	return nil
}

// FindEvent returns the event with the given id and the event that follows it.
func FindEvent(events []Event, gameweek int) (Event, *Event, bool) {
	var (
		current Event
		found   bool
		next    *Event
	)
	for idx := range events {
		switch events[idx].ID {
		case gameweek:
			current = events[idx]
			found = true
		case gameweek + 1:
			item := events[idx]
			next = &item
		}
	}
	return current, next, found
}
