package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV", "ENV", "TIMEZONE", "STORAGE_DRIVER", "DATABASE_URL",
		"TELEGRAM_API_TOKEN", "TELEGRAM_ENABLED", "REWARDS_FLASHCARD_XP", "REMINDERS_SCHEDULE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/quranlingo")
	t.Setenv("TELEGRAM_API_TOKEN", "token")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, DriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, "assets/data/curriculum.json", cfg.CurriculumPath)
	assert.Equal(t, 20, cfg.DB.MaxConnections)
	assert.Equal(t, 30*time.Second, cfg.DB.MaxConnLifetime)
	assert.Equal(t, Rewards{ReviewKnownXP: 1, ReviewSessionBonusXP: 5, FlashcardXP: 5}, cfg.Rewards)
	assert.Equal(t, "0 9 * * *", cfg.Reminders.Schedule)
	assert.Equal(t, time.UTC, cfg.Location())

	dsn, err := cfg.DB.DSN()
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/quranlingo", dsn)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_DRIVER", DriverMemory)
	t.Setenv("TELEGRAM_ENABLED", "false")
	t.Setenv("TIMEZONE", "UTC+3")
	t.Setenv("REWARDS_FLASHCARD_XP", "8")
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.False(t, cfg.Telegram.Enabled)
	assert.Equal(t, 8, cfg.Rewards.FlashcardXP)

	_, offset := time.Date(2024, 1, 1, 0, 0, 0, 0, cfg.Location()).Zone()
	assert.Equal(t, 3*60*60, offset)
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr error
	}{
		{
			name:    "postgres without url",
			env:     map[string]string{"TELEGRAM_API_TOKEN": "token"},
			wantErr: ErrMissingEnvironmentVariables,
		},
		{
			name:    "telegram without token",
			env:     map[string]string{"STORAGE_DRIVER": DriverMemory},
			wantErr: ErrMissingEnvironmentVariables,
		},
		{
			name:    "unknown driver",
			env:     map[string]string{"STORAGE_DRIVER": "mongo", "TELEGRAM_ENABLED": "false"},
			wantErr: ErrUnknownStorageDriver,
		},
		{
			name:    "bad timezone",
			env:     map[string]string{"STORAGE_DRIVER": DriverMemory, "TELEGRAM_ENABLED": "false", "TIMEZONE": "Mars/Olympus"},
			wantErr: ErrInvalidTimezone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
