// Package scheduling answers which visit times can be offered for a date.
package scheduling

import (
	"strings"
	"time"

	pkgerrors "github.com/ecoelite/booking-backend/pkg/errors"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	MessageNoDate      = "no date provided"
	MessageInvalidDate = "invalid date format"
)

var defaultSlots = []string{"09:00", "11:00", "13:00", "15:00", "17:00"}

// DefaultSlots returns a copy of the fixed daily slot list.
func DefaultSlots() []string {
	return append([]string(nil), defaultSlots...)
}

// AvailableTimesResponse is the GET /available-times payload.
type AvailableTimesResponse struct {
	Times []string `json:"times"`
}

// AvailableTimes returns the slots for rawDate. Every valid date gets the same
// five slots; availability is not computed from existing bookings.
func AvailableTimes(rawDate string) (*AvailableTimesResponse, error) {
	if _, err := ParseDate(rawDate); err != nil {
		return nil, err
	}
	return &AvailableTimesResponse{Times: DefaultSlots()}, nil
}

// ParseDate parses a YYYY-MM-DD calendar date as UTC midnight.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, MessageNoDate)
	}
	date, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, MessageInvalidDate)
	}
	return date, nil
}

// ParseTime validates an HH:MM wall-clock time and returns it normalized.
func ParseTime(raw string) (string, error) {
	t, err := time.Parse(TimeLayout, strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	return t.Format(TimeLayout), nil
}

// FormatStoredTime renders a time column ("14:00" or "14:00:00") as HH:MM.
func FormatStoredTime(stored string) string {
	if len(stored) >= len(TimeLayout) {
		return stored[:len(TimeLayout)]
	}
	return stored
}

// Today returns the calendar date of now in loc, as UTC midnight so it compares
// directly with ParseDate results.
func Today(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := now.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
