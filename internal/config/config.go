// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/abhisek/maturity/internal/llm"
	"github.com/abhisek/maturity/internal/report"
)

// Store backends.
const (
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

type Config struct {
	// DBPath is the SQLite file. Empty means the default data dir.
	DBPath        string
	Store         string
	RedisURL      string
	QuestionsPath string

	ReportDir  string
	ChromePath string
	PDFTimeout time.Duration
	S3         report.S3Config

	MailerLiteAPIKey      string
	MailerLiteGroupID     string
	SalesforceInstanceURL string
	SalesforceAccessToken string

	Addr       string
	CORSOrigin string

	LLM llm.Config
}

// Load reads the process environment.
func Load() Config {
	return load(os.Getenv)
}

func load(env func(string) string) Config {
	return Config{
		DBPath:        getenv(env, "MATURITY_DB", ""),
		Store:         getenv(env, "MATURITY_STORE", StoreSQLite),
		RedisURL:      getenv(env, "MATURITY_REDIS_URL", "redis://localhost:6379/0"),
		QuestionsPath: getenv(env, "MATURITY_QUESTIONS", ""),

		ReportDir:  getenv(env, "MATURITY_REPORT_DIR", ""),
		ChromePath: getenv(env, "MATURITY_CHROME_PATH", ""),
		PDFTimeout: time.Duration(getenvInt(env, "MATURITY_PDF_TIMEOUT_SECONDS", 30)) * time.Second,
		S3: report.S3Config{
			Endpoint:  getenv(env, "MATURITY_S3_ENDPOINT", ""),
			AccessKey: getenv(env, "MATURITY_S3_ACCESS_KEY", ""),
			SecretKey: getenv(env, "MATURITY_S3_SECRET_KEY", ""),
			Bucket:    getenv(env, "MATURITY_S3_BUCKET", ""),
			Region:    getenv(env, "MATURITY_S3_REGION", ""),
			UseSSL:    getenvBool(env, "MATURITY_S3_USE_SSL", true),
		},

		MailerLiteAPIKey:      getenv(env, "MAILERLITE_API_KEY", ""),
		MailerLiteGroupID:     getenv(env, "MAILERLITE_GROUP_ID", ""),
		SalesforceInstanceURL: getenv(env, "SALESFORCE_INSTANCE_URL", ""),
		SalesforceAccessToken: getenv(env, "SALESFORCE_ACCESS_TOKEN", ""),

		Addr:       getenv(env, "MATURITY_ADDR", ":8080"),
		CORSOrigin: getenv(env, "MATURITY_CORS_ORIGIN", "*"),

		LLM: llm.LoadConfig(env),
	}
}

// Validate rejects settings that cannot be acted on.
func (c Config) Validate() error {
	switch c.Store {
	case StoreSQLite, StoreRedis:
	default:
		return fmt.Errorf("unknown store %q (want %s or %s)", c.Store, StoreSQLite, StoreRedis)
	}
	if c.PDFTimeout <= 0 {
		return fmt.Errorf("pdf timeout must be positive")
	}
	if c.LLM.Enabled() {
		if err := c.LLM.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func getenv(env func(string) string, key, fallback string) string {
	value := env(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(env func(string) string, key string, fallback int) int {
	parsed, err := strconv.Atoi(env(key))
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvBool(env func(string) string, key string, fallback bool) bool {
	parsed, err := strconv.ParseBool(env(key))
	if err != nil {
		return fallback
	}
	return parsed
}
