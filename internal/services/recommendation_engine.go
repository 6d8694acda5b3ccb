package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/terraincognita07/lullaby/internal/models"
	"go.uber.org/zap"
)

const recommendationHistoryWindow = 30 * 24 * time.Hour

var (
	ErrRecommendationNotFound = errors.New("recommendation not found")

	recommendationNamespace = uuid.MustParse("6f1c3a52-8d4e-4f0b-9a57-2e3b1c7d9e40")
)

type RecommendationSessionReader interface {
	FindChild(ctx context.Context, childID string) (models.ChildProfile, error)
	LoadSessions(ctx context.Context, filter SessionFilter) ([]models.SleepSession, error)
}

type SoundPlayer interface {
	Play(ctx context.Context, soundID string) error
}

type Translator interface {
	Translate(language string, key string) string
	Translatef(language string, key string, args ...any) string
}

type RecommendationEngine struct {
	sessions   RecommendationSessionReader
	settings   SettingStore
	player     SoundPlayer
	translator Translator
	location   *time.Location
	logger     *zap.Logger

	// readMu serializes read-modify-write of the read recommendation list.
	readMu sync.Mutex
}

func NewRecommendationEngine(sessions RecommendationSessionReader, settings SettingStore, player SoundPlayer, translator Translator, location *time.Location, logger *zap.Logger) *RecommendationEngine {
	if location == nil {
		location = time.UTC
	}
	return &RecommendationEngine{
		sessions:   sessions,
		settings:   settings,
		player:     player,
		translator: translator,
		location:   location,
		logger:     loggerOrNop(logger),
	}
}

// RecommendationID is stable for a child and rule so that read marks survive regeneration.
func RecommendationID(childID string, ruleKey string) string {
	return uuid.NewSHA1(recommendationNamespace, []byte(childID+":"+ruleKey)).String()
}

func (engine *RecommendationEngine) Generate(ctx context.Context, childID string, language string, now time.Time) ([]Recommendation, error) {
	profile, err := engine.sessions.FindChild(ctx, childID)
	if err != nil {
		return nil, err
	}

	from := now.Add(-recommendationHistoryWindow)
	sessions, err := engine.sessions.LoadSessions(ctx, SessionFilter{ChildID: childID, From: &from, To: &now})
	if err != nil {
		return nil, err
	}

	readIDs, err := engine.readSet(ctx)
	if err != nil {
		return nil, err
	}

	all := engine.GenerateFor(profile, sessions, language, now)
	visible := make([]Recommendation, 0, len(all))
	for _, recommendation := range all {
		if _, read := readIDs[recommendation.ID]; read {
			continue
		}
		visible = append(visible, recommendation)
	}
	return visible, nil
}

// GenerateFor evaluates the age band and sleep pattern rules without touching storage.
// The result is sorted by priority, highest first; equal priorities keep rule order.
func (engine *RecommendationEngine) GenerateFor(profile models.ChildProfile, sessions []models.SleepSession, language string, now time.Time) []Recommendation {
	band := AgeBandFor(profile.AgeInMonths(now))

	drafts := make([]recommendationDraft, 0, len(band.drafts)+6)
	for _, draft := range band.drafts {
		draft.conditions = append([]string{band.condition()}, draft.conditions...)
		drafts = append(drafts, draft)
	}
	drafts = append(drafts, scheduleDrafts(band, summarizeWeek(sessions, now, engine.location))...)
	drafts = append(drafts, qualityDrafts(summarizeQuality(sessions, engine.location))...)

	recommendations := make([]Recommendation, 0, len(drafts))
	for _, draft := range drafts {
		recommendations = append(recommendations, engine.build(profile.ID, draft, language))
	}
	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].Priority > recommendations[j].Priority
	})
	return recommendations
}

func (engine *RecommendationEngine) MarkRead(ctx context.Context, recommendationID string) error {
	engine.readMu.Lock()
	defer engine.readMu.Unlock()

	readIDs, err := engine.readList(ctx)
	if err != nil {
		return err
	}
	for _, existing := range readIDs {
		if existing == recommendationID {
			return nil
		}
	}
	return writeJSONSetting(ctx, engine.settings, models.SettingReadRecommendations, append(readIDs, recommendationID))
}

func (engine *RecommendationEngine) ClearRead(ctx context.Context) error {
	engine.readMu.Lock()
	defer engine.readMu.Unlock()

	if err := engine.settings.Delete(ctx, models.SettingReadRecommendations); err != nil {
		return fmt.Errorf("clear read recommendations: %w", err)
	}
	return nil
}

func (engine *RecommendationEngine) PerformAction(ctx context.Context, childID string, recommendationID string, language string, now time.Time) (Recommendation, error) {
	recommendations, err := engine.Generate(ctx, childID, language, now)
	if err != nil {
		return Recommendation{}, err
	}
	for _, recommendation := range recommendations {
		if recommendation.ID != recommendationID {
			continue
		}
		if err := recommendation.Action.Perform(ctx); err != nil {
			return recommendation, err
		}
		engine.logger.Info("recommendation action performed",
			zap.String("child_id", childID),
			zap.String("rule", recommendation.Key),
			zap.String("sound_id", recommendation.Action.SoundID),
		)
		return recommendation, nil
	}
	return Recommendation{}, ErrRecommendationNotFound
}

func (engine *RecommendationEngine) build(childID string, draft recommendationDraft, language string) Recommendation {
	prefix := "recommendation." + draft.key
	recommendation := Recommendation{
		ID:          RecommendationID(childID, draft.key),
		Key:         draft.key,
		Title:       engine.translate(language, prefix+".title"),
		Description: engine.translatef(language, prefix+".description", draft.args...),
		Category:    draft.category,
		Priority:    draft.priority,
		Conditions:  draft.conditions,
	}
	if recommendation.Conditions == nil {
		recommendation.Conditions = []string{}
	}
	if draft.soundID != "" {
		recommendation.Action = engine.playAction(draft.soundID, language)
	}
	return recommendation
}

func (engine *RecommendationEngine) playAction(soundID string, language string) *RecommendationAction {
	action := &RecommendationAction{
		Label:   engine.translatef(language, "action.play_sound", engine.translate(language, "sound."+soundID)),
		SoundID: soundID,
	}
	if engine.player != nil {
		player := engine.player
		action.perform = func(ctx context.Context) error {
			return player.Play(ctx, soundID)
		}
	}
	return action
}

func (engine *RecommendationEngine) translate(language string, key string) string {
	if engine.translator == nil {
		return key
	}
	return engine.translator.Translate(language, key)
}

func (engine *RecommendationEngine) translatef(language string, key string, args ...any) string {
	if engine.translator == nil {
		return key
	}
	return engine.translator.Translatef(language, key, args...)
}

// readList must be called with readMu held.
func (engine *RecommendationEngine) readList(ctx context.Context) ([]string, error) {
	var readIDs []string
	found, err := readJSONSetting(ctx, engine.settings, engine.logger, models.SettingReadRecommendations, &readIDs)
	if err != nil {
		return nil, err
	}
	if !found || readIDs == nil {
		return []string{}, nil
	}
	return readIDs, nil
}

func (engine *RecommendationEngine) readSet(ctx context.Context) (map[string]struct{}, error) {
	engine.readMu.Lock()
	readIDs, err := engine.readList(ctx)
	engine.readMu.Unlock()
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(readIDs))
	for _, id := range readIDs {
		set[id] = struct{}{}
	}
	return set, nil
}
