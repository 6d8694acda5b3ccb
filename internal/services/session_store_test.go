package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/terraincognita07/lullaby/internal/models"
)

func newTestClock() *fixedClock {
	return &fixedClock{now: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)}
}

func TestSaveChildAssignsIdentityAndActivatesFirstChild(t *testing.T) {
	clock := newTestClock()
	store, _, _, settings := newStubSessionStore(clock)
	ctx := context.Background()

	saved, err := store.SaveChild(ctx, models.ChildProfile{
		Name:           "  Mia ",
		BirthDate:      clock.now.AddDate(0, -2, 0),
		FavoriteSounds: []string{"rain", "rain", " "},
	})
	if err != nil {
		t.Fatalf("SaveChild() unexpected error: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("expected generated child id")
	}
	if saved.Name != "Mia" {
		t.Fatalf("expected trimmed name, got %q", saved.Name)
	}
	if saved.SleepGoalHours != models.DefaultSleepGoalHours {
		t.Fatalf("expected default sleep goal, got %v", saved.SleepGoalHours)
	}
	if len(saved.FavoriteSounds) != 1 || saved.FavoriteSounds[0] != "rain" {
		t.Fatalf("expected deduplicated sounds, got %#v", saved.FavoriteSounds)
	}
	if settings.values[models.SettingActiveChildID] != saved.ID {
		t.Fatalf("expected first child to become active, got %q", settings.values[models.SettingActiveChildID])
	}

	second, err := store.SaveChild(ctx, models.ChildProfile{Name: "Leo", BirthDate: clock.now.AddDate(-1, 0, 0)})
	if err != nil {
		t.Fatalf("SaveChild() second child unexpected error: %v", err)
	}
	if settings.values[models.SettingActiveChildID] != saved.ID {
		t.Fatalf("expected active child to stay %q after %q was added", saved.ID, second.ID)
	}
}

func TestSaveChildRejectsInvalidProfiles(t *testing.T) {
	clock := newTestClock()
	store, _, _, _ := newStubSessionStore(clock)

	tests := []struct {
		name    string
		profile models.ChildProfile
		want    error
	}{
		{name: "blank name", profile: models.ChildProfile{Name: " ", BirthDate: clock.now.AddDate(0, -1, 0)}, want: ErrChildNameRequired},
		{name: "future birth date", profile: models.ChildProfile{Name: "Mia", BirthDate: clock.now.Add(time.Hour)}, want: ErrBirthDateInFuture},
		{name: "negative goal", profile: models.ChildProfile{Name: "Mia", BirthDate: clock.now.AddDate(0, -1, 0), SleepGoalHours: -1}, want: ErrInvalidSleepGoal},
		{
			name: "bad routine time",
			profile: models.ChildProfile{
				Name:      "Mia",
				BirthDate: clock.now.AddDate(0, -1, 0),
				Routine:   []models.RoutineActivity{{Name: "Bath", TimeOfDay: "7pm"}},
			},
			want: ErrInvalidRoutineTime,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := store.SaveChild(context.Background(), testCase.profile)
			if !errors.Is(err, ErrInvalidChildProfile) || !errors.Is(err, testCase.want) {
				t.Fatalf("expected %v, got %v", testCase.want, err)
			}
		})
	}
}

func TestSaveChildUpsertKeepsCreatedAt(t *testing.T) {
	clock := newTestClock()
	store, children, _, _ := newStubSessionStore(clock)
	ctx := context.Background()

	saved, err := store.SaveChild(ctx, models.ChildProfile{Name: "Mia", BirthDate: clock.now.AddDate(0, -3, 0)})
	if err != nil {
		t.Fatalf("SaveChild() unexpected error: %v", err)
	}
	clock.Advance(time.Hour)

	saved.Name = "Mia Rose"
	updated, err := store.SaveChild(ctx, saved)
	if err != nil {
		t.Fatalf("SaveChild() upsert unexpected error: %v", err)
	}
	if !updated.CreatedAt.Equal(saved.CreatedAt) {
		t.Fatalf("expected created_at %s to be preserved, got %s", saved.CreatedAt, updated.CreatedAt)
	}
	if !updated.UpdatedAt.Equal(clock.now) {
		t.Fatalf("expected updated_at %s, got %s", clock.now, updated.UpdatedAt)
	}
	if len(children.profiles) != 1 {
		t.Fatalf("expected one stored profile, got %d", len(children.profiles))
	}
}

func TestUpdateChildAppliesOnlyProvidedFields(t *testing.T) {
	clock := newTestClock()
	store, _, _, _ := newStubSessionStore(clock)
	ctx := context.Background()

	saved, err := store.SaveChild(ctx, models.ChildProfile{Name: "Mia", Avatar: "🐣", BirthDate: clock.now.AddDate(0, -3, 0)})
	if err != nil {
		t.Fatalf("SaveChild() unexpected error: %v", err)
	}

	goal := 15.5
	updated, err := store.UpdateChild(ctx, saved.ID, ChildProfileUpdate{SleepGoalHours: &goal})
	if err != nil {
		t.Fatalf("UpdateChild() unexpected error: %v", err)
	}
	if updated.SleepGoalHours != goal || updated.Name != "Mia" || updated.Avatar != "🐣" {
		t.Fatalf("unexpected partial update result: %#v", updated)
	}

	if _, err := store.UpdateChild(ctx, "missing", ChildProfileUpdate{SleepGoalHours: &goal}); !errors.Is(err, ErrChildNotFound) {
		t.Fatalf("expected ErrChildNotFound, got %v", err)
	}
}

func TestUpdateChildRejectsZeroSleepGoal(t *testing.T) {
	clock := newTestClock()
	store, children, _, _ := newStubSessionStore(clock)
	ctx := context.Background()

	saved, err := store.SaveChild(ctx, models.ChildProfile{Name: "Mia", BirthDate: clock.now.AddDate(0, -3, 0), SleepGoalHours: 13})
	if err != nil {
		t.Fatalf("SaveChild() unexpected error: %v", err)
	}

	zero := 0.0
	_, err = store.UpdateChild(ctx, saved.ID, ChildProfileUpdate{SleepGoalHours: &zero})
	if !errors.Is(err, ErrInvalidChildProfile) || !errors.Is(err, ErrInvalidSleepGoal) {
		t.Fatalf("expected ErrInvalidSleepGoal, got %v", err)
	}
	if stored := children.profiles[saved.ID]; stored.SleepGoalHours != 13 {
		t.Fatalf("expected stored goal to stay 13, got %v", stored.SleepGoalHours)
	}
}

func TestDeleteChildCascadesAndReassignsActiveChild(t *testing.T) {
	clock := newTestClock()
	store, _, _, settings := newStubSessionStore(clock)
	ctx := context.Background()

	first, err := store.SaveChild(ctx, models.ChildProfile{Name: "Mia", BirthDate: clock.now.AddDate(0, -3, 0)})
	if err != nil {
		t.Fatalf("SaveChild() first unexpected error: %v", err)
	}
	clock.Advance(time.Minute)
	second, err := store.SaveChild(ctx, models.ChildProfile{Name: "Leo", BirthDate: clock.now.AddDate(-2, 0, 0)})
	if err != nil {
		t.Fatalf("SaveChild() second unexpected error: %v", err)
	}
	clock.Advance(time.Minute)
	third, err := store.SaveChild(ctx, models.ChildProfile{Name: "Ada", BirthDate: clock.now.AddDate(-1, 0, 0)})
	if err != nil {
		t.Fatalf("SaveChild() third unexpected error: %v", err)
	}

	if _, err := store.SaveSleepSession(ctx, testSession(first.ID, clock.now.Add(-3*time.Hour), time.Hour, nil)); err != nil {
		t.Fatalf("SaveSleepSession() unexpected error: %v", err)
	}

	if err := store.DeleteChild(ctx, first.ID); err != nil {
		t.Fatalf("DeleteChild() unexpected error: %v", err)
	}
	if got := settings.values[models.SettingActiveChildID]; got != second.ID {
		t.Fatalf("expected oldest remaining child %q to become active, got %q (third=%q)", second.ID, got, third.ID)
	}

	if err := store.DeleteChild(ctx, "missing"); err != nil {
		t.Fatalf("DeleteChild() for unknown id should be a no-op, got %v", err)
	}

	if err := store.DeleteChild(ctx, second.ID); err != nil {
		t.Fatalf("DeleteChild() second unexpected error: %v", err)
	}
	if err := store.DeleteChild(ctx, third.ID); err != nil {
		t.Fatalf("DeleteChild() third unexpected error: %v", err)
	}
	active, err := store.GetActiveChild(ctx)
	if err != nil {
		t.Fatalf("GetActiveChild() unexpected error: %v", err)
	}
	if active != nil {
		t.Fatalf("expected no active child after deleting all, got %#v", active)
	}
}

func TestSaveSleepSessionValidatesAndNormalizes(t *testing.T) {
	clock := newTestClock()
	store, _, _, _ := newStubSessionStore(clock)
	ctx := context.Background()

	child, err := store.SaveChild(ctx, models.ChildProfile{Name: "Mia", BirthDate: clock.now.AddDate(0, -3, 0)})
	if err != nil {
		t.Fatalf("SaveChild() unexpected error: %v", err)
	}

	moscow := time.FixedZone("MSK", 3*60*60)
	start := time.Date(2026, 3, 9, 22, 15, 30, 500, moscow)
	saved, err := store.SaveSleepSession(ctx, models.SleepSession{
		ChildID:   child.ID,
		StartTime: start,
		EndTime:   start.Add(90 * time.Minute),
		Quality:   intPointer(7),
		Mood:      " Calm ",
	})
	if err != nil {
		t.Fatalf("SaveSleepSession() unexpected error: %v", err)
	}
	if saved.StartTime.Location() != time.UTC || saved.StartTime.Nanosecond() != 0 {
		t.Fatalf("expected UTC second-precision start, got %s", saved.StartTime.Format(time.RFC3339Nano))
	}
	if saved.DurationSeconds != 90*60 || saved.Mood != models.MoodCalm {
		t.Fatalf("unexpected normalized session: %#v", saved)
	}

	tests := []struct {
		name    string
		session models.SleepSession
		want    error
	}{
		{name: "end before start", session: models.SleepSession{ChildID: child.ID, StartTime: start, EndTime: start.Add(-time.Minute)}, want: ErrInvalidSessionRange},
		{name: "quality above range", session: testSession(child.ID, start, time.Hour, intPointer(11)), want: ErrInvalidSleepQuality},
		{name: "quality below range", session: testSession(child.ID, start, time.Hour, intPointer(0)), want: ErrInvalidSleepQuality},
		{name: "unknown mood", session: models.SleepSession{ChildID: child.ID, StartTime: start, EndTime: start, Mood: "grumpy"}, want: ErrInvalidSleepMood},
		{name: "unknown child", session: testSession("missing", start, time.Hour, nil), want: ErrChildNotFound},
	}
	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			if _, err := store.SaveSleepSession(ctx, testCase.session); !errors.Is(err, testCase.want) {
				t.Fatalf("expected %v, got %v", testCase.want, err)
			}
		})
	}
}

func TestLoadSessionsFiltersByChildAndWindow(t *testing.T) {
	clock := newTestClock()
	store, _, _, _ := newStubSessionStore(clock)
	ctx := context.Background()

	mia, _ := store.SaveChild(ctx, models.ChildProfile{Name: "Mia", BirthDate: clock.now.AddDate(0, -3, 0)})
	leo, _ := store.SaveChild(ctx, models.ChildProfile{Name: "Leo", BirthDate: clock.now.AddDate(-2, 0, 0)})

	base := clock.now.Add(-48 * time.Hour)
	for index := 0; index < 3; index++ {
		if _, err := store.SaveSleepSession(ctx, testSession(mia.ID, base.Add(time.Duration(index)*12*time.Hour), time.Hour, nil)); err != nil {
			t.Fatalf("SaveSleepSession() unexpected error: %v", err)
		}
	}
	if _, err := store.SaveSleepSession(ctx, testSession(leo.ID, base, time.Hour, nil)); err != nil {
		t.Fatalf("SaveSleepSession() unexpected error: %v", err)
	}

	all, err := store.LoadSessions(ctx, SessionFilter{})
	if err != nil {
		t.Fatalf("LoadSessions() unexpected error: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 sessions, got %d", len(all))
	}

	from := base.Add(12 * time.Hour).Add(time.Hour)
	windowed, err := store.LoadSessions(ctx, SessionFilter{ChildID: mia.ID, From: &from})
	if err != nil {
		t.Fatalf("LoadSessions() unexpected error: %v", err)
	}
	if len(windowed) != 2 {
		t.Fatalf("expected inclusive window to keep 2 sessions, got %d", len(windowed))
	}
	if !windowed[0].StartTime.After(windowed[1].StartTime) {
		t.Fatalf("expected newest-first order, got %s then %s", windowed[0].StartTime, windowed[1].StartTime)
	}
}

func TestActiveChildPointer(t *testing.T) {
	clock := newTestClock()
	store, children, _, settings := newStubSessionStore(clock)
	ctx := context.Background()

	mia, _ := store.SaveChild(ctx, models.ChildProfile{Name: "Mia", BirthDate: clock.now.AddDate(0, -3, 0)})
	leo, _ := store.SaveChild(ctx, models.ChildProfile{Name: "Leo", BirthDate: clock.now.AddDate(-2, 0, 0)})

	if err := store.SetActiveChild(ctx, "missing"); !errors.Is(err, ErrChildNotFound) {
		t.Fatalf("expected ErrChildNotFound, got %v", err)
	}
	if err := store.SetActiveChild(ctx, leo.ID); err != nil {
		t.Fatalf("SetActiveChild() unexpected error: %v", err)
	}
	active, err := store.GetActiveChild(ctx)
	if err != nil || active == nil || active.ID != leo.ID {
		t.Fatalf("expected active child %q, got %#v err=%v", leo.ID, active, err)
	}

	delete(children.profiles, leo.ID)
	active, err = store.GetActiveChild(ctx)
	if err != nil || active != nil {
		t.Fatalf("expected stale pointer to resolve to nil, got %#v err=%v", active, err)
	}

	if err := store.ClearActiveChild(ctx); err != nil {
		t.Fatalf("ClearActiveChild() unexpected error: %v", err)
	}
	if _, ok := settings.values[models.SettingActiveChildID]; ok {
		t.Fatal("expected active child setting to be removed")
	}

	snapshot, err := store.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot() unexpected error: %v", err)
	}
	if snapshot.ActiveChildID != "" || len(snapshot.Children) != 1 || snapshot.Children[0].ID != mia.ID {
		t.Fatalf("unexpected snapshot: %#v", snapshot)
	}
}

func TestLoadSessionsWrapsRepositoryErrors(t *testing.T) {
	clock := newTestClock()
	store, _, sessions, _ := newStubSessionStore(clock)
	sessions.listErr = errStubStorage

	if _, err := store.LoadSessions(context.Background(), SessionFilter{}); !errors.Is(err, errStubStorage) {
		t.Fatalf("expected wrapped storage error, got %v", err)
	}
}
