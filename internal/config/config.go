package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

type Config struct {
	AppPort  string
	DbDriver string
	// DatabaseURL is the DSN for postgres and sqlite3; mysql uses the Db* fields.
	DatabaseURL string
	DbHost      string
	DbPort      string
	DbUser      string
	DbPassword  string
	DbName      string
	DbParams    string

	SlackBotToken      string
	SlackSigningSecret string
	SlackAPIURL        string

	Location          *time.Location
	DefaultLanguage   string
	TranslationFolder string
	ReminderInterval  time.Duration
	TrustedProxies    []string
}

func LoadConfig() *Config {
	_ = godotenv.Load(".env")

	return &Config{
		AppPort:            getEnv("APP_PORT", "8080"),
		DbDriver:           getEnv("DB_DRIVER", DriverMySQL),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		DbHost:             getEnv("MYSQL_HOST", "db"),
		DbPort:             getEnv("MYSQL_PORT", "3306"),
		DbUser:             getEnv("MYSQL_USER", "taskbot"),
		DbPassword:         getEnv("MYSQL_PASSWORD", "taskbot"),
		DbName:             getEnv("MYSQL_DATABASE", "taskbot"),
		DbParams:           getEnv("MYSQL_PARAMS", "parseTime=true"),
		SlackBotToken:      getEnv("SLACK_BOT_TOKEN", ""),
		SlackSigningSecret: getEnv("SLACK_SIGNING_SECRET", ""),
		SlackAPIURL:        getEnv("SLACK_API_URL", ""),
		Location:           parseLocation(getEnv("APP_TIMEZONE", "Asia/Tokyo")),
		DefaultLanguage:    getEnv("DEFAULT_LANGUAGE", "ja"),
		TranslationFolder:  getEnv("TRANSLATION_FOLDER", ""),
		ReminderInterval:   parseDuration(getEnv("REMINDER_INTERVAL", "1m"), time.Minute),
		TrustedProxies:     parseTrustedProxies(os.Getenv("TRUSTED_PROXIES")),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func parseLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		zap.L().Warn("unknown APP_TIMEZONE, using JST", zap.String("timezone", name), zap.Error(err))
		return time.FixedZone("JST", 9*60*60)
	}
	return loc
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		zap.L().Warn("invalid duration, using default", zap.String("value", value), zap.Duration("default", fallback))
		return fallback
	}
	return d
}

func parseTrustedProxies(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	proxies := make([]string, 0, len(parts))
	for _, part := range parts {
		proxy := strings.TrimSpace(part)
		if proxy == "" {
			continue
		}
		proxies = append(proxies, proxy)
	}

	if len(proxies) == 0 {
		return nil
	}

	return proxies
}
