package services

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrExportFromDateInvalid = errors.New("export invalid from date")
	ErrExportToDateInvalid   = errors.New("export invalid to date")
	ErrExportRangeInvalid    = errors.New("export invalid range")
)

// ParseExportRange turns YYYY-MM-DD bounds into an inclusive end-time window.
// The upper bound covers the whole of the last day.
func ParseExportRange(rawFrom string, rawTo string, location *time.Location) (*time.Time, *time.Time, error) {
	if location == nil {
		location = time.UTC
	}
	fromRaw := strings.TrimSpace(rawFrom)
	toRaw := strings.TrimSpace(rawTo)

	var from *time.Time
	if fromRaw != "" {
		parsedFrom, err := time.ParseInLocation(exportDateLayout, fromRaw, location)
		if err != nil {
			return nil, nil, ErrExportFromDateInvalid
		}
		normalizedFrom := DateAtLocation(parsedFrom, location)
		from = &normalizedFrom
	}

	var to *time.Time
	if toRaw != "" {
		parsedTo, err := time.ParseInLocation(exportDateLayout, toRaw, location)
		if err != nil {
			return nil, nil, ErrExportToDateInvalid
		}
		_, nextDay := DayRange(parsedTo, location)
		normalizedTo := nextDay.Add(-time.Second)
		to = &normalizedTo
	}

	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, ErrExportRangeInvalid
	}

	return from, to, nil
}
