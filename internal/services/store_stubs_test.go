package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/terraincognita07/lullaby/internal/models"
)

type stubChildRepo struct {
	profiles map[string]models.ChildProfile
	saveErr  error
}

func newStubChildRepo() *stubChildRepo {
	return &stubChildRepo{profiles: make(map[string]models.ChildProfile)}
}

func (stub *stubChildRepo) List(context.Context) ([]models.ChildProfile, error) {
	result := make([]models.ChildProfile, 0, len(stub.profiles))
	for _, profile := range stub.profiles {
		result = append(result, profile)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (stub *stubChildRepo) FindByID(_ context.Context, childID string) (models.ChildProfile, bool, error) {
	profile, ok := stub.profiles[childID]
	return profile, ok, nil
}

func (stub *stubChildRepo) Save(_ context.Context, profile *models.ChildProfile) error {
	if stub.saveErr != nil {
		return stub.saveErr
	}
	stub.profiles[profile.ID] = *profile
	return nil
}

func (stub *stubChildRepo) DeleteWithSessions(_ context.Context, childID string) (bool, error) {
	if _, ok := stub.profiles[childID]; !ok {
		return false, nil
	}
	delete(stub.profiles, childID)
	return true, nil
}

type stubSessionRepo struct {
	sessions map[string]models.SleepSession
	listErr  error
}

func newStubSessionRepo() *stubSessionRepo {
	return &stubSessionRepo{sessions: make(map[string]models.SleepSession)}
}

func (stub *stubSessionRepo) List(_ context.Context, childID string, endFrom *time.Time, endTo *time.Time) ([]models.SleepSession, error) {
	if stub.listErr != nil {
		return nil, stub.listErr
	}
	result := make([]models.SleepSession, 0, len(stub.sessions))
	for _, session := range stub.sessions {
		if childID != "" && session.ChildID != childID {
			continue
		}
		if endFrom != nil && session.EndTime.Before(*endFrom) {
			continue
		}
		if endTo != nil && session.EndTime.After(*endTo) {
			continue
		}
		result = append(result, session)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].StartTime.Equal(result[j].StartTime) {
			return result[i].ID < result[j].ID
		}
		return result[i].StartTime.After(result[j].StartTime)
	})
	return result, nil
}

func (stub *stubSessionRepo) FindByID(_ context.Context, sessionID string) (models.SleepSession, bool, error) {
	session, ok := stub.sessions[sessionID]
	return session, ok, nil
}

func (stub *stubSessionRepo) Save(_ context.Context, session *models.SleepSession) error {
	stub.sessions[session.ID] = *session
	return nil
}

func (stub *stubSessionRepo) DeleteByID(_ context.Context, sessionID string) error {
	delete(stub.sessions, sessionID)
	return nil
}

type stubSettingStore struct {
	mu     sync.Mutex
	values map[string]string
	getErr error
}

func newStubSettingStore() *stubSettingStore {
	return &stubSettingStore{values: make(map[string]string)}
}

func (stub *stubSettingStore) Get(_ context.Context, key string) (string, bool, error) {
	if stub.getErr != nil {
		return "", false, stub.getErr
	}
	stub.mu.Lock()
	defer stub.mu.Unlock()
	value, ok := stub.values[key]
	return value, ok, nil
}

func (stub *stubSettingStore) Set(_ context.Context, key string, value string) error {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	stub.values[key] = value
	return nil
}

func (stub *stubSettingStore) Delete(_ context.Context, key string) error {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	delete(stub.values, key)
	return nil
}

var errStubStorage = errors.New("storage unavailable")

type fixedClock struct {
	now time.Time
}

func (clock *fixedClock) Now() time.Time {
	return clock.now
}

func (clock *fixedClock) Advance(step time.Duration) {
	clock.now = clock.now.Add(step)
}

func newStubSessionStore(clock *fixedClock) (*SessionStore, *stubChildRepo, *stubSessionRepo, *stubSettingStore) {
	children := newStubChildRepo()
	sessions := newStubSessionRepo()
	settings := newStubSettingStore()
	store := NewSessionStore(children, sessions, settings, nil)
	store.now = clock.Now
	return store, children, sessions, settings
}

func intPointer(value int) *int {
	return &value
}

func testSession(childID string, start time.Time, duration time.Duration, quality *int) models.SleepSession {
	return models.SleepSession{
		ChildID:   childID,
		StartTime: start,
		EndTime:   start.Add(duration),
		Quality:   quality,
	}
}
