package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"gorm.io/datatypes"

	"evently/internal/models"
	"evently/internal/repository"
)

const (
	FeatureHitRecording = "feature.hit_recording"
	FeatureStaleSweep   = "feature.stale_sweep"
	FeatureViewCache    = "feature.view_cache"
)

func DefaultFeatureSwitches() map[string]bool {
	return map[string]bool{
		FeatureHitRecording: true,
		FeatureStaleSweep:   true,
		FeatureViewCache:    true,
	}
}

// SystemSettingsService stores operational switches in the database so they
// can be flipped without a redeploy.
type SystemSettingsService struct {
	Repo repository.Repository
}

func (s *SystemSettingsService) EnsureDefaultSwitches(ctx context.Context) error {
	if s == nil || s.Repo == nil {
		return nil
	}
	now := time.Now().UTC()
	for key, enabled := range DefaultFeatureSwitches() {
		existing, err := s.Repo.GetSystemSettingByKey(ctx, key)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		raw, _ := json.Marshal(enabled)
		item := &models.SystemSetting{
			Key:         key,
			Value:       datatypes.JSON(raw),
			Description: "feature switch",
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.Repo.UpsertSystemSetting(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

func (s *SystemSettingsService) IsEnabled(ctx context.Context, key string, fallback bool) bool {
	if s == nil || s.Repo == nil {
		return fallback
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}
	item, err := s.Repo.GetSystemSettingByKey(ctx, key)
	if err != nil || item == nil || len(item.Value) == 0 {
		return fallback
	}
	var enabled bool
	if err := json.Unmarshal(item.Value, &enabled); err != nil {
		return fallback
	}
	return enabled
}

func (s *SystemSettingsService) List(ctx context.Context) ([]models.SystemSetting, error) {
	if s == nil || s.Repo == nil {
		return nil, nil
	}
	return s.Repo.ListSystemSettings(ctx)
}

// Set stores a raw JSON value under the given key.
func (s *SystemSettingsService) Set(ctx context.Context, key string, value json.RawMessage) (*models.SystemSetting, error) {
	if s == nil || s.Repo == nil {
		return nil, nil
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, Validationf("setting key must not be empty")
	}
	if !json.Valid(value) {
		return nil, Validationf("setting value must be valid JSON")
	}
	existing, err := s.Repo.GetSystemSettingByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, NotFoundf("setting %q not found", key)
	}
	existing.Value = datatypes.JSON(value)
	existing.UpdatedAt = time.Now().UTC()
	if err := s.Repo.UpsertSystemSetting(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}
