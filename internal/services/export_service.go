package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/terraincognita07/lullaby/internal/models"
)

const (
	exportDateLayout  = "2006-01-02"
	exportClockLayout = "15:04"

	ExportFormatVersion = 1
)

var ErrUnsupportedExportVersion = errors.New("unsupported export version")

var ExportCSVHeaders = []string{
	"Date",
	"Child",
	"Start",
	"End",
	"Duration minutes",
	"Quality",
	"Mood",
	"Notes",
}

type ExportStoreReader interface {
	Snapshot(ctx context.Context) (StoreSnapshot, error)
	ListChildren(ctx context.Context) ([]models.ChildProfile, error)
	LoadSessions(ctx context.Context, filter SessionFilter) ([]models.SleepSession, error)
}

type ExportService struct {
	store    ExportStoreReader
	location *time.Location
}

// ExportDocument is the full JSON backup of the store.
type ExportDocument struct {
	Version       int                   `json:"version"`
	ExportedAt    time.Time             `json:"exported_at"`
	ActiveChildID string                `json:"active_child_id,omitempty"`
	Children      []models.ChildProfile `json:"children"`
	Sessions      []models.SleepSession `json:"sessions"`
}

type ExportSummary struct {
	TotalSessions int
	HasData       bool
	DateFrom      string
	DateTo        string
}

type ExportCSVRow struct {
	Date            string
	Child           string
	Start           string
	End             string
	DurationMinutes int64
	Quality         *int
	Mood            string
	Notes           string
}

func NewExportService(store ExportStoreReader, location *time.Location) *ExportService {
	if location == nil {
		location = time.UTC
	}
	return &ExportService{
		store:    store,
		location: location,
	}
}

func (service *ExportService) BuildDocument(ctx context.Context, now time.Time) (ExportDocument, error) {
	snapshot, err := service.store.Snapshot(ctx)
	if err != nil {
		return ExportDocument{}, err
	}

	document := ExportDocument{
		Version:       ExportFormatVersion,
		ExportedAt:    now.UTC().Truncate(time.Second),
		ActiveChildID: snapshot.ActiveChildID,
		Children:      snapshot.Children,
		Sessions:      snapshot.Sessions,
	}
	if document.Children == nil {
		document.Children = []models.ChildProfile{}
	}
	if document.Sessions == nil {
		document.Sessions = []models.SleepSession{}
	}
	return document, nil
}

func DecodeDocument(data []byte) (ExportDocument, error) {
	var document ExportDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return ExportDocument{}, fmt.Errorf("decode export: %w", err)
	}
	if document.Version != ExportFormatVersion {
		return ExportDocument{}, fmt.Errorf("%w: %d", ErrUnsupportedExportVersion, document.Version)
	}
	return document, nil
}

func (service *ExportService) BuildSummary(ctx context.Context, childID string, from *time.Time, to *time.Time) (ExportSummary, error) {
	sessions, err := service.store.LoadSessions(ctx, SessionFilter{ChildID: childID, From: from, To: to})
	if err != nil {
		return ExportSummary{}, err
	}
	if len(sessions) == 0 {
		return ExportSummary{}, nil
	}

	first := sessions[0].StartTime
	last := sessions[0].StartTime
	for _, session := range sessions[1:] {
		if session.StartTime.Before(first) {
			first = session.StartTime
		}
		if session.StartTime.After(last) {
			last = session.StartTime
		}
	}

	return ExportSummary{
		TotalSessions: len(sessions),
		HasData:       true,
		DateFrom:      DateAtLocation(first, service.location).Format(exportDateLayout),
		DateTo:        DateAtLocation(last, service.location).Format(exportDateLayout),
	}, nil
}

// BuildCSVRows lists sessions oldest first with wall-clock times in the service location.
func (service *ExportService) BuildCSVRows(ctx context.Context, childID string, from *time.Time, to *time.Time) ([]ExportCSVRow, error) {
	sessions, err := service.store.LoadSessions(ctx, SessionFilter{ChildID: childID, From: from, To: to})
	if err != nil {
		return nil, err
	}
	children, err := service.store.ListChildren(ctx)
	if err != nil {
		return nil, err
	}

	childNames := make(map[string]string, len(children))
	for _, child := range children {
		childNames[child.ID] = child.Name
	}

	rows := make([]ExportCSVRow, 0, len(sessions))
	for index := len(sessions) - 1; index >= 0; index-- {
		session := sessions[index]
		start := session.StartTime.In(service.location)
		end := session.EndTime.In(service.location)
		rows = append(rows, ExportCSVRow{
			Date:            start.Format(exportDateLayout),
			Child:           childNames[session.ChildID],
			Start:           start.Format(exportClockLayout),
			End:             end.Format(exportClockLayout),
			DurationMinutes: int64(session.Duration() / time.Minute),
			Quality:         session.Quality,
			Mood:            session.Mood,
			Notes:           session.Notes,
		})
	}
	return rows, nil
}

func (row ExportCSVRow) Columns() []string {
	quality := ""
	if row.Quality != nil {
		quality = strconv.Itoa(*row.Quality)
	}
	return []string{
		row.Date,
		row.Child,
		row.Start,
		row.End,
		strconv.FormatInt(row.DurationMinutes, 10),
		quality,
		row.Mood,
		row.Notes,
	}
}
