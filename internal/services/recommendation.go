package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

type RecommendationCategory string

const (
	CategorySchedule    RecommendationCategory = "schedule"
	CategoryEnvironment RecommendationCategory = "environment"
	CategoryFeeding     RecommendationCategory = "feeding"
	CategoryHealth      RecommendationCategory = "health"
	CategoryRoutine     RecommendationCategory = "routine"
)

type Priority int

const (
	PriorityLow Priority = iota + 1
	PriorityMedium
	PriorityHigh
	PriorityCritical
)

var ErrActionUnavailable = errors.New("recommendation has no runnable action")

func (priority Priority) String() string {
	switch priority {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	case PriorityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

func ParsePriority(raw string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "low":
		return PriorityLow, nil
	case "medium":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	case "critical":
		return PriorityCritical, nil
	default:
		return 0, fmt.Errorf("unknown priority %q", raw)
	}
}

func (priority Priority) MarshalJSON() ([]byte, error) {
	return json.Marshal(priority.String())
}

func (priority *Priority) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParsePriority(raw)
	if err != nil {
		return err
	}
	*priority = parsed
	return nil
}

type Recommendation struct {
	ID          string                 `json:"id"`
	Key         string                 `json:"key"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Category    RecommendationCategory `json:"category"`
	Priority    Priority               `json:"priority"`
	Action      *RecommendationAction  `json:"action,omitempty"`
	Conditions  []string               `json:"conditions"`
}

// RecommendationAction is a quick action attached to a recommendation, e.g. playing a sound.
type RecommendationAction struct {
	Label   string `json:"label"`
	SoundID string `json:"sound_id"`
	perform func(ctx context.Context) error
}

func (action *RecommendationAction) Perform(ctx context.Context) error {
	if action == nil || action.perform == nil {
		return ErrActionUnavailable
	}
	return action.perform(ctx)
}
