package services

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

type SettingStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}

// readJSONSetting decodes a stored setting into target. A value that fails to decode is
// treated as absent: it is logged and reported as not found instead of failing the caller.
func readJSONSetting(ctx context.Context, settings SettingStore, logger *zap.Logger, key string, target any) (bool, error) {
	raw, found, err := settings.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("load setting %s: %w", key, err)
	}
	if !found || raw == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), target); err != nil {
		logger.Warn("discarding malformed setting", zap.String("key", key), zap.Error(err))
		return false, nil
	}
	return true, nil
}

func writeJSONSetting(ctx context.Context, settings SettingStore, key string, value any) error {
	serialized, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode setting %s: %w", key, err)
	}
	if err := settings.Set(ctx, key, string(serialized)); err != nil {
		return fmt.Errorf("store setting %s: %w", key, err)
	}
	return nil
}

func loggerOrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
