// Package settings exposes per guild runtime configuration persisted in the
// store. An unset key means the corresponding feature is disabled for that
// guild; quota enforcement is opt-in.
package settings

import (
	"context"
	"errors"
	"strconv"

	"github.com/dsemenov-dev/dutymeter/internal/database"
	"github.com/dsemenov-dev/dutymeter/internal/domain"
)

type Settings struct {
	repository domain.SettingsRepository
}

func NewSettings(repository domain.SettingsRepository) Settings {
	return Settings{repository: repository}
}

// Get returns the raw value and whether the key is set for the guild.
func (s Settings) Get(ctx context.Context, guildID string, key string) (int64, bool, error) {
	value, errGet := s.repository.Get(ctx, guildID, key)
	if errGet != nil {
		if errors.Is(errGet, database.ErrNoResult) {
			return 0, false, nil
		}

		return 0, false, errGet
	}

	return value, true, nil
}

func (s Settings) Set(ctx context.Context, guildID string, key string, value int64) error {
	return s.repository.Set(ctx, guildID, key, value)
}

func (s Settings) Delete(ctx context.Context, guildID string, key string) error {
	return s.repository.Delete(ctx, guildID, key)
}

func (s Settings) QuotaAmount(ctx context.Context, guildID string) (int64, bool, error) {
	return s.Get(ctx, guildID, domain.KeyQuotaAmount)
}

// AdminRole returns the configured staff role as a platform role ID.
func (s Settings) AdminRole(ctx context.Context, guildID string) (string, bool, error) {
	value, found, errGet := s.Get(ctx, guildID, domain.KeyAdminRole)
	if errGet != nil || !found {
		return "", found, errGet
	}

	return strconv.FormatInt(value, 10), true, nil
}

// LogChannel returns the configured audit log channel ID.
func (s Settings) LogChannel(ctx context.Context, guildID string) (string, bool, error) {
	value, found, errGet := s.Get(ctx, guildID, domain.KeyLogChannel)
	if errGet != nil || !found {
		return "", found, errGet
	}

	return strconv.FormatInt(value, 10), true, nil
}

// SetSnowflake stores a platform snowflake ID (role, channel) under key.
func (s Settings) SetSnowflake(ctx context.Context, guildID string, key string, snowflake string) error {
	value, errParse := strconv.ParseInt(snowflake, 10, 64)
	if errParse != nil {
		return errors.Join(errParse, domain.ErrInvalidParameter)
	}

	return s.Set(ctx, guildID, key, value)
}
