package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/terraincognita07/lullaby/internal/models"
	"go.uber.org/zap"
)

type ChildProfileRepository interface {
	List(ctx context.Context) ([]models.ChildProfile, error)
	FindByID(ctx context.Context, childID string) (models.ChildProfile, bool, error)
	Save(ctx context.Context, profile *models.ChildProfile) error
	DeleteWithSessions(ctx context.Context, childID string) (bool, error)
}

type SleepSessionRepository interface {
	List(ctx context.Context, childID string, endFrom *time.Time, endTo *time.Time) ([]models.SleepSession, error)
	FindByID(ctx context.Context, sessionID string) (models.SleepSession, bool, error)
	Save(ctx context.Context, session *models.SleepSession) error
	DeleteByID(ctx context.Context, sessionID string) error
}

// SessionStore owns child profiles, sleep sessions and the active child pointer.
// Every operation runs under one mutex.
type SessionStore struct {
	mu       sync.Mutex
	children ChildProfileRepository
	sessions SleepSessionRepository
	settings SettingStore
	logger   *zap.Logger
	now      func() time.Time
}

type SessionFilter struct {
	ChildID string
	From    *time.Time
	To      *time.Time
}

type ChildProfileUpdate struct {
	Name           *string
	BirthDate      *time.Time
	Avatar         *string
	SleepGoalHours *float64
	Notes          *string
	FavoriteSounds *[]string
	Routine        *[]models.RoutineActivity
}

type StoreSnapshot struct {
	ActiveChildID string
	Children      []models.ChildProfile
	Sessions      []models.SleepSession
}

func NewSessionStore(children ChildProfileRepository, sessions SleepSessionRepository, settings SettingStore, logger *zap.Logger) *SessionStore {
	return &SessionStore{
		children: children,
		sessions: sessions,
		settings: settings,
		logger:   loggerOrNop(logger),
		now:      time.Now,
	}
}

func (store *SessionStore) SaveChild(ctx context.Context, profile models.ChildProfile) (models.ChildProfile, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.saveChildLocked(ctx, profile)
}

func (store *SessionStore) saveChildLocked(ctx context.Context, profile models.ChildProfile) (models.ChildProfile, error) {
	now := store.now()
	profile = normalizeChildProfile(profile)
	if err := ValidateChildProfile(profile, now); err != nil {
		return models.ChildProfile{}, err
	}

	if strings.TrimSpace(profile.ID) == "" {
		profile.ID = uuid.NewString()
	} else {
		existing, found, err := store.children.FindByID(ctx, profile.ID)
		if err != nil {
			return models.ChildProfile{}, fmt.Errorf("load child %s: %w", profile.ID, err)
		}
		if found {
			profile.CreatedAt = existing.CreatedAt
		}
	}
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now.UTC()
	}
	profile.UpdatedAt = now.UTC()

	if err := store.children.Save(ctx, &profile); err != nil {
		return models.ChildProfile{}, fmt.Errorf("save child %s: %w", profile.ID, err)
	}

	activeID, err := store.activeChildIDLocked(ctx)
	if err != nil {
		return models.ChildProfile{}, err
	}
	if activeID == "" {
		if err := store.settings.Set(ctx, models.SettingActiveChildID, profile.ID); err != nil {
			return models.ChildProfile{}, fmt.Errorf("activate child %s: %w", profile.ID, err)
		}
	}

	store.logger.Debug("child profile saved", zap.String("child_id", profile.ID))
	return profile, nil
}

// UpdateChild applies only the non-nil fields of update.
func (store *SessionStore) UpdateChild(ctx context.Context, childID string, update ChildProfileUpdate) (models.ChildProfile, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	profile, found, err := store.children.FindByID(ctx, childID)
	if err != nil {
		return models.ChildProfile{}, fmt.Errorf("load child %s: %w", childID, err)
	}
	if !found {
		return models.ChildProfile{}, ErrChildNotFound
	}

	if update.Name != nil {
		profile.Name = *update.Name
	}
	if update.BirthDate != nil {
		profile.BirthDate = *update.BirthDate
	}
	if update.Avatar != nil {
		profile.Avatar = *update.Avatar
	}
	if update.SleepGoalHours != nil {
		// Zero only means "use the default" when a profile is created.
		if *update.SleepGoalHours <= 0 {
			return models.ChildProfile{}, errors.Join(ErrInvalidChildProfile, ErrInvalidSleepGoal)
		}
		profile.SleepGoalHours = *update.SleepGoalHours
	}
	if update.Notes != nil {
		profile.Notes = *update.Notes
	}
	if update.FavoriteSounds != nil {
		profile.FavoriteSounds = *update.FavoriteSounds
	}
	if update.Routine != nil {
		profile.Routine = *update.Routine
	}

	return store.saveChildLocked(ctx, profile)
}

// DeleteChild removes the profile and its sessions. An unknown id is a no-op.
// When the active child is deleted the oldest remaining profile becomes active.
func (store *SessionStore) DeleteChild(ctx context.Context, childID string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	deleted, err := store.children.DeleteWithSessions(ctx, childID)
	if err != nil {
		return fmt.Errorf("delete child %s: %w", childID, err)
	}
	if !deleted {
		return nil
	}

	activeID, err := store.activeChildIDLocked(ctx)
	if err != nil {
		return err
	}
	if activeID != childID {
		return nil
	}

	remaining, err := store.children.List(ctx)
	if err != nil {
		return fmt.Errorf("list children: %w", err)
	}
	if len(remaining) == 0 {
		return store.clearActiveChildLocked(ctx)
	}
	if err := store.settings.Set(ctx, models.SettingActiveChildID, remaining[0].ID); err != nil {
		return fmt.Errorf("reassign active child: %w", err)
	}
	store.logger.Info("active child reassigned", zap.String("deleted_child_id", childID), zap.String("child_id", remaining[0].ID))
	return nil
}

func (store *SessionStore) ListChildren(ctx context.Context) ([]models.ChildProfile, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	profiles, err := store.children.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}
	return profiles, nil
}

func (store *SessionStore) FindChild(ctx context.Context, childID string) (models.ChildProfile, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.findChildLocked(ctx, childID)
}

func (store *SessionStore) findChildLocked(ctx context.Context, childID string) (models.ChildProfile, error) {
	profile, found, err := store.children.FindByID(ctx, childID)
	if err != nil {
		return models.ChildProfile{}, fmt.Errorf("load child %s: %w", childID, err)
	}
	if !found {
		return models.ChildProfile{}, ErrChildNotFound
	}
	return profile, nil
}

// SaveSleepSession upserts a finished session. The owning child must exist.
func (store *SessionStore) SaveSleepSession(ctx context.Context, session models.SleepSession) (models.SleepSession, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	session = normalizeSleepSession(session)
	if err := ValidateSleepSession(session); err != nil {
		return models.SleepSession{}, err
	}
	if _, err := store.findChildLocked(ctx, session.ChildID); err != nil {
		return models.SleepSession{}, err
	}

	if strings.TrimSpace(session.ID) == "" {
		session.ID = uuid.NewString()
	} else {
		existing, found, err := store.sessions.FindByID(ctx, session.ID)
		if err != nil {
			return models.SleepSession{}, fmt.Errorf("load session %s: %w", session.ID, err)
		}
		if found {
			session.CreatedAt = existing.CreatedAt
		}
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = store.now().UTC()
	}

	if err := store.sessions.Save(ctx, &session); err != nil {
		return models.SleepSession{}, fmt.Errorf("save session %s: %w", session.ID, err)
	}
	return session, nil
}

func (store *SessionStore) DeleteSleepSession(ctx context.Context, sessionID string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if err := store.sessions.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session %s: %w", sessionID, err)
	}
	return nil
}

// LoadSessions returns sessions newest-first, optionally narrowed to one child and an
// inclusive end-time window.
func (store *SessionStore) LoadSessions(ctx context.Context, filter SessionFilter) ([]models.SleepSession, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	sessions, err := store.sessions.List(ctx, strings.TrimSpace(filter.ChildID), filter.From, filter.To)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

func (store *SessionStore) SetActiveChild(ctx context.Context, childID string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if _, err := store.findChildLocked(ctx, childID); err != nil {
		return err
	}
	if err := store.settings.Set(ctx, models.SettingActiveChildID, childID); err != nil {
		return fmt.Errorf("set active child: %w", err)
	}
	return nil
}

// GetActiveChild returns nil when no child is active or the pointer is stale.
func (store *SessionStore) GetActiveChild(ctx context.Context) (*models.ChildProfile, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	activeID, err := store.activeChildIDLocked(ctx)
	if err != nil || activeID == "" {
		return nil, err
	}
	profile, err := store.findChildLocked(ctx, activeID)
	if errors.Is(err, ErrChildNotFound) {
		store.logger.Warn("active child pointer is stale", zap.String("child_id", activeID))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (store *SessionStore) ClearActiveChild(ctx context.Context) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.clearActiveChildLocked(ctx)
}

func (store *SessionStore) Snapshot(ctx context.Context) (StoreSnapshot, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	children, err := store.children.List(ctx)
	if err != nil {
		return StoreSnapshot{}, fmt.Errorf("list children: %w", err)
	}
	sessions, err := store.sessions.List(ctx, "", nil, nil)
	if err != nil {
		return StoreSnapshot{}, fmt.Errorf("list sessions: %w", err)
	}
	activeID, err := store.activeChildIDLocked(ctx)
	if err != nil {
		return StoreSnapshot{}, err
	}
	return StoreSnapshot{
		ActiveChildID: activeID,
		Children:      children,
		Sessions:      sessions,
	}, nil
}

func (store *SessionStore) activeChildIDLocked(ctx context.Context) (string, error) {
	value, found, err := store.settings.Get(ctx, models.SettingActiveChildID)
	if err != nil {
		return "", fmt.Errorf("load active child: %w", err)
	}
	if !found {
		return "", nil
	}
	return strings.TrimSpace(value), nil
}

func (store *SessionStore) clearActiveChildLocked(ctx context.Context) error {
	if err := store.settings.Delete(ctx, models.SettingActiveChildID); err != nil {
		return fmt.Errorf("clear active child: %w", err)
	}
	return nil
}
