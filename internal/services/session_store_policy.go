package services

import (
	"errors"
	"strings"
	"time"

	"github.com/terraincognita07/lullaby/internal/models"
)

var (
	ErrChildNotFound        = errors.New("child not found")
	ErrInvalidChildProfile  = errors.New("invalid child profile")
	ErrChildNameRequired    = errors.New("child name is required")
	ErrBirthDateInFuture    = errors.New("birth date is in the future")
	ErrInvalidSleepGoal     = errors.New("sleep goal must be positive")
	ErrInvalidSleepSession  = errors.New("invalid sleep session")
	ErrSessionChildRequired = errors.New("sleep session child is required")
	ErrInvalidSessionRange  = errors.New("sleep session ends before it starts")
	ErrInvalidSleepQuality  = errors.New("sleep quality must be between 1 and 10")
	ErrInvalidSleepMood     = errors.New("unknown sleep mood")
	ErrInvalidRoutineTime   = errors.New("routine time must be HH:MM")
)

const (
	maxChildSleepGoalHours   = 24.0
	routineTimeOfDayLayout   = "15:04"
	childNameMaxLength       = 64
	childAvatarMaxCharacters = 8
)

func ValidateChildProfile(profile models.ChildProfile, now time.Time) error {
	name := strings.TrimSpace(profile.Name)
	if name == "" || len([]rune(name)) > childNameMaxLength {
		return errors.Join(ErrInvalidChildProfile, ErrChildNameRequired)
	}
	if len([]rune(profile.Avatar)) > childAvatarMaxCharacters {
		return ErrInvalidChildProfile
	}
	if profile.BirthDate.IsZero() || profile.BirthDate.After(now) {
		return errors.Join(ErrInvalidChildProfile, ErrBirthDateInFuture)
	}
	if profile.SleepGoalHours <= 0 || profile.SleepGoalHours > maxChildSleepGoalHours {
		return errors.Join(ErrInvalidChildProfile, ErrInvalidSleepGoal)
	}
	for _, activity := range profile.Routine {
		if strings.TrimSpace(activity.Name) == "" {
			return ErrInvalidChildProfile
		}
		if _, err := time.Parse(routineTimeOfDayLayout, activity.TimeOfDay); err != nil {
			return errors.Join(ErrInvalidChildProfile, ErrInvalidRoutineTime)
		}
	}
	return nil
}

func ValidateSleepSession(session models.SleepSession) error {
	if strings.TrimSpace(session.ChildID) == "" {
		return errors.Join(ErrInvalidSleepSession, ErrSessionChildRequired)
	}
	if session.StartTime.IsZero() || session.EndTime.IsZero() || session.EndTime.Before(session.StartTime) {
		return errors.Join(ErrInvalidSleepSession, ErrInvalidSessionRange)
	}
	if err := validateSleepQuality(session.Quality); err != nil {
		return err
	}
	if !models.IsKnownMood(session.Mood) {
		return errors.Join(ErrInvalidSleepSession, ErrInvalidSleepMood)
	}
	return nil
}

func validateSleepQuality(quality *int) error {
	if quality == nil {
		return nil
	}
	if *quality < models.MinSleepQuality || *quality > models.MaxSleepQuality {
		return errors.Join(ErrInvalidSleepSession, ErrInvalidSleepQuality)
	}
	return nil
}

func normalizeChildProfile(profile models.ChildProfile) models.ChildProfile {
	profile.Name = strings.TrimSpace(profile.Name)
	profile.Avatar = strings.TrimSpace(profile.Avatar)
	profile.Notes = strings.TrimSpace(profile.Notes)
	profile.BirthDate = profile.BirthDate.UTC()
	if profile.SleepGoalHours == 0 {
		profile.SleepGoalHours = models.DefaultSleepGoalHours
	}

	sounds := make([]string, 0, len(profile.FavoriteSounds))
	seen := make(map[string]struct{}, len(profile.FavoriteSounds))
	for _, sound := range profile.FavoriteSounds {
		trimmed := strings.TrimSpace(sound)
		if trimmed == "" {
			continue
		}
		if _, duplicate := seen[trimmed]; duplicate {
			continue
		}
		seen[trimmed] = struct{}{}
		sounds = append(sounds, trimmed)
	}
	profile.FavoriteSounds = sounds

	if profile.Routine == nil {
		profile.Routine = []models.RoutineActivity{}
	}
	return profile
}

func normalizeSleepSession(session models.SleepSession) models.SleepSession {
	session.ChildID = strings.TrimSpace(session.ChildID)
	session.StartTime = session.StartTime.UTC().Truncate(time.Second)
	session.EndTime = session.EndTime.UTC().Truncate(time.Second)
	session.Notes = strings.TrimSpace(session.Notes)
	session.Mood = strings.ToLower(strings.TrimSpace(session.Mood))
	session.DurationSeconds = int64(session.Duration() / time.Second)
	return session
}
