package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("BACKUP_WEEKDAY", "")
	t.Setenv("BACKUP_CRON_SCHEDULE", "")

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "8080", cfg.Server.Port)
	require.Equal(t, BackendFile, cfg.Storage.Backend)
	require.Equal(t, time.Monday, cfg.Backup.Weekday)
	require.Equal(t, "1 0 * * *", cfg.Backup.CronSchedule)
	require.Equal(t, 480*time.Minute, cfg.Auth.TokenTTL)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "cassandra")

	_, err := Load("")
	require.Error(t, err)
}

func TestLoadRequiresMongoURIForMongoBackend(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", BackendMongo)
	t.Setenv("MONGODB_URI", "")

	_, err := Load("")
	require.Error(t, err)
}

func TestLoadParsesWeekdayCaseInsensitively(t *testing.T) {
	t.Setenv("BACKUP_WEEKDAY", "friday")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, time.Friday, cfg.Backup.Weekday)
}

func TestLoadRejectsInvalidWeekday(t *testing.T) {
	t.Setenv("BACKUP_WEEKDAY", "Someday")

	_, err := Load("")
	require.Error(t, err)
}
