package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backend identifiers accepted by STORAGE_BACKEND.
const (
	BackendFile   = "file"
	BackendMongo  = "mongo"
	BackendMemory = "memory"
)

// Config represents the full application configuration surface.
type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	MongoDB  MongoDBConfig
	Backup   BackupConfig
	Auth     AuthConfig
	Telegram TelegramConfig
	Sheets   SheetsConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// StorageConfig selects the record store backend.
type StorageConfig struct {
	Backend string
	DataDir string
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// BackupConfig holds scheduler and archive settings.
type BackupConfig struct {
	Dir          string
	Weekday      time.Weekday
	CronSchedule string
}

// AuthConfig contains token signing and seed account options.
type AuthConfig struct {
	Secret        string
	TokenTTL      time.Duration
	AdminEmail    string
	AdminPassword string
}

// TelegramConfig contains credentials for the backup delivery bot.
type TelegramConfig struct {
	BotToken    string
	GroupChatID string
	BaseURL     string
}

// SheetsConfig contains configuration for the optional spreadsheet mirror.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	weekday, err := parseWeekday(getenvWithDefault("BACKUP_WEEKDAY", "Monday"))
	if err != nil {
		return nil, err
	}

	tokenTTLMinutes, err := strconv.Atoi(getenvWithDefault("ACCESS_TOKEN_TTL_MINUTES", "480"))
	if err != nil || tokenTTLMinutes < 1 {
		tokenTTLMinutes = 480
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Storage: StorageConfig{
			Backend: getenvWithDefault("STORAGE_BACKEND", BackendFile),
			DataDir: getenvWithDefault("DATA_DIR", "data"),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "uniformledger"),
		},
		Backup: BackupConfig{
			Dir:     getenvWithDefault("BACKUP_DIR", "backups"),
			Weekday: weekday,
			// Daily check at 00:01; the job itself decides whether today is backup day.
			CronSchedule: getenvWithDefault("BACKUP_CRON_SCHEDULE", "1 0 * * *"),
		},
		Auth: AuthConfig{
			Secret:        strings.TrimSpace(os.Getenv("AUTH_SECRET")),
			TokenTTL:      time.Duration(tokenTTLMinutes) * time.Minute,
			AdminEmail:    getenvWithDefault("ADMIN_EMAIL", "admin@local"),
			AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		},
		Telegram: TelegramConfig{
			BotToken:    os.Getenv("TELEGRAM_BOT_TOKEN"),
			GroupChatID: os.Getenv("TELEGRAM_GROUP_CHAT_ID"),
			BaseURL:     getenvWithDefault("TELEGRAM_BASE_URL", "https://api.telegram.org"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("SHEETS_SPREADSHEET_ID"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch c.Storage.Backend {
	case BackendFile, BackendMongo, BackendMemory:
	default:
		return fmt.Errorf("STORAGE_BACKEND must be one of %s, %s or %s", BackendFile, BackendMongo, BackendMemory)
	}

	if c.Storage.Backend == BackendFile && c.Storage.DataDir == "" {
		return errors.New("DATA_DIR must be provided for the file backend")
	}

	if c.Storage.Backend == BackendMongo {
		if c.MongoDB.URI == "" {
			return errors.New("MONGODB_URI must be provided for the mongo backend")
		}
		if c.MongoDB.DBName == "" {
			return errors.New("MONGODB_DB_NAME must not be empty")
		}
	}

	if c.Backup.Dir == "" {
		return errors.New("BACKUP_DIR must be provided")
	}

	if c.Backup.CronSchedule == "" {
		return errors.New("BACKUP_CRON_SCHEDULE must be provided")
	}

	if c.Telegram.BotToken != "" && c.Telegram.GroupChatID == "" {
		return errors.New("TELEGRAM_GROUP_CHAT_ID must be provided when TELEGRAM_BOT_TOKEN is set")
	}

	if c.Sheets.CredentialsPath != "" && c.Sheets.SpreadsheetID == "" {
		return errors.New("SHEETS_SPREADSHEET_ID must be provided when SHEETS_CREDENTIALS_PATH is set")
	}

	return nil
}

func parseWeekday(value string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), value) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("BACKUP_WEEKDAY %q is not a weekday name", value)
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
