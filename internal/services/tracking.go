package services

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/terraincognita07/lullaby/internal/models"
)

var (
	ErrTrackingNotFound = errors.New("no sleep tracking in progress")
	ErrTrackingActive   = errors.New("sleep tracking already in progress")
)

// SleepTracking is an in-progress session. It becomes a SleepSession only once Finish is called.
type SleepTracking struct {
	ChildID   string    `json:"child_id"`
	StartTime time.Time `json:"start_time"`
	Quality   *int      `json:"quality,omitempty"`
	Notes     string    `json:"notes"`
	Mood      string    `json:"mood"`
}

type TrackingUpdate struct {
	Quality *int
	Notes   *string
	Mood    *string
}

func StartTracking(childID string, start time.Time) (SleepTracking, error) {
	childID = strings.TrimSpace(childID)
	if childID == "" {
		return SleepTracking{}, ErrSessionChildRequired
	}
	if start.IsZero() {
		return SleepTracking{}, ErrInvalidSessionRange
	}
	return SleepTracking{ChildID: childID, StartTime: start}, nil
}

func (tracking SleepTracking) Apply(update TrackingUpdate) (SleepTracking, error) {
	if update.Quality != nil {
		if err := validateSleepQuality(update.Quality); err != nil {
			return tracking, err
		}
		quality := *update.Quality
		tracking.Quality = &quality
	}
	if update.Notes != nil {
		tracking.Notes = strings.TrimSpace(*update.Notes)
	}
	if update.Mood != nil {
		mood := strings.ToLower(strings.TrimSpace(*update.Mood))
		if !models.IsKnownMood(mood) {
			return tracking, ErrInvalidSleepMood
		}
		tracking.Mood = mood
	}
	return tracking, nil
}

func (tracking SleepTracking) Elapsed(now time.Time) time.Duration {
	return Elapsed(now, tracking.StartTime)
}

// Finish turns the tracking into an immutable session with a fresh id.
func (tracking SleepTracking) Finish(end time.Time) (models.SleepSession, error) {
	session := models.SleepSession{
		ID:        uuid.NewString(),
		ChildID:   tracking.ChildID,
		StartTime: tracking.StartTime,
		EndTime:   end,
		Quality:   tracking.Quality,
		Notes:     tracking.Notes,
		Mood:      tracking.Mood,
	}
	session = normalizeSleepSession(session)
	if err := ValidateSleepSession(session); err != nil {
		return models.SleepSession{}, err
	}
	return session, nil
}

// TrackingRegistry holds at most one in-progress tracking per child. It is memory-only.
type TrackingRegistry struct {
	mu       sync.Mutex
	trackers map[string]SleepTracking
}

func NewTrackingRegistry() *TrackingRegistry {
	return &TrackingRegistry{trackers: make(map[string]SleepTracking)}
}

func (registry *TrackingRegistry) Start(childID string, start time.Time) (SleepTracking, error) {
	tracking, err := StartTracking(childID, start)
	if err != nil {
		return SleepTracking{}, err
	}

	registry.mu.Lock()
	defer registry.mu.Unlock()
	if _, exists := registry.trackers[tracking.ChildID]; exists {
		return SleepTracking{}, ErrTrackingActive
	}
	registry.trackers[tracking.ChildID] = tracking
	return tracking, nil
}

func (registry *TrackingRegistry) Get(childID string) (SleepTracking, error) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	tracking, exists := registry.trackers[childID]
	if !exists {
		return SleepTracking{}, ErrTrackingNotFound
	}
	return tracking, nil
}

func (registry *TrackingRegistry) Update(childID string, update TrackingUpdate) (SleepTracking, error) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	tracking, exists := registry.trackers[childID]
	if !exists {
		return SleepTracking{}, ErrTrackingNotFound
	}
	updated, err := tracking.Apply(update)
	if err != nil {
		return SleepTracking{}, err
	}
	registry.trackers[childID] = updated
	return updated, nil
}

// Stop finalizes the tracking and hands the session to persist. The tracking is only
// dropped once persist succeeds, so a failed save can be retried.
func (registry *TrackingRegistry) Stop(childID string, end time.Time, persist func(models.SleepSession) (models.SleepSession, error)) (models.SleepSession, error) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	tracking, exists := registry.trackers[childID]
	if !exists {
		return models.SleepSession{}, ErrTrackingNotFound
	}
	session, err := tracking.Finish(end)
	if err != nil {
		return models.SleepSession{}, err
	}
	if persist != nil {
		session, err = persist(session)
		if err != nil {
			return models.SleepSession{}, err
		}
	}
	delete(registry.trackers, childID)
	return session, nil
}

func (registry *TrackingRegistry) Discard(childID string) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	delete(registry.trackers, childID)
}
