package audio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/terraincognita07/lullaby/internal/models"
	"go.uber.org/zap"
)

var ErrUnknownSound = errors.New("unknown sound")

type SettingStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}

// NowPlaying is what the device shell polls to know which loop to run.
type NowPlaying struct {
	SoundID   string    `json:"sound_id"`
	File      string    `json:"file"`
	Loop      bool      `json:"loop"`
	StartedAt time.Time `json:"started_at"`
}

// QueuePlayer does not produce audio itself. It records the requested sound so the
// device shell can pick it up.
type QueuePlayer struct {
	mu       sync.Mutex
	settings SettingStore
	logger   *zap.Logger
	now      func() time.Time
}

func NewQueuePlayer(settings SettingStore, logger *zap.Logger) *QueuePlayer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueuePlayer{settings: settings, logger: logger, now: time.Now}
}

func (player *QueuePlayer) Play(ctx context.Context, soundID string) error {
	sound, ok := Lookup(soundID)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSound, soundID)
	}

	player.mu.Lock()
	defer player.mu.Unlock()

	current := NowPlaying{
		SoundID:   sound.ID,
		File:      sound.File,
		Loop:      sound.Loopable,
		StartedAt: player.now().UTC().Truncate(time.Second),
	}
	serialized, err := json.Marshal(current)
	if err != nil {
		return fmt.Errorf("encode now playing: %w", err)
	}
	if err := player.settings.Set(ctx, models.SettingNowPlaying, string(serialized)); err != nil {
		return fmt.Errorf("store now playing: %w", err)
	}
	player.logger.Info("sound queued", zap.String("sound_id", sound.ID))
	return nil
}

func (player *QueuePlayer) Stop(ctx context.Context) error {
	player.mu.Lock()
	defer player.mu.Unlock()

	if err := player.settings.Delete(ctx, models.SettingNowPlaying); err != nil {
		return fmt.Errorf("clear now playing: %w", err)
	}
	return nil
}

// Current returns nil when nothing is playing. A malformed record counts as nothing.
func (player *QueuePlayer) Current(ctx context.Context) (*NowPlaying, error) {
	player.mu.Lock()
	defer player.mu.Unlock()

	raw, found, err := player.settings.Get(ctx, models.SettingNowPlaying)
	if err != nil {
		return nil, fmt.Errorf("load now playing: %w", err)
	}
	if !found || raw == "" {
		return nil, nil
	}
	var current NowPlaying
	if err := json.Unmarshal([]byte(raw), &current); err != nil {
		player.logger.Warn("discarding malformed now playing record", zap.Error(err))
		return nil, nil
	}
	return &current, nil
}
