package api

import (
	"errors"
	"strings"
	"time"
)

var errInvalidBirthDate = errors.New("birth_date must be YYYY-MM-DD or RFC3339")

// parseBirthDate accepts a calendar date in the handler location or a full timestamp.
func parseBirthDate(raw string, location *time.Location) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if parsed, err := time.ParseInLocation(exportDateLayout, value, location); err == nil {
		return parsed, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Time{}, errInvalidBirthDate
}

func parseOptionalTimestamp(raw string) (*time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
