package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	DB        DBConfig
	Assistant AssistantConfig
	RateLimit RateLimitConfig
	S3        S3Config
	Email     EmailConfig
	Company   CompanyConfig
	CORS      CORSConfig
	Log       LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// AssistantConfig holds the chat assistant's model settings.
type AssistantConfig struct {
	APIKey          string        `mapstructure:"api_key"`
	Model           string        `mapstructure:"model"`
	BaseURL         string        `mapstructure:"base_url"`
	TimeoutSecs     int           `mapstructure:"timeout_secs"`
	HistoryLimit    int           `mapstructure:"history_limit"`
	ConversationTTL time.Duration `mapstructure:"conversation_ttl"`
}

// RateLimitConfig holds per-IP chat rate limiting settings.
type RateLimitConfig struct {
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// S3Config holds the invoice document archive settings.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// EmailConfig holds email delivery settings. CopyRecipients are the
// accountant addresses included on every invoice send.
type EmailConfig struct {
	Provider       string   `mapstructure:"provider"`
	Region         string   `mapstructure:"region"`
	FromAddress    string   `mapstructure:"from_address"`
	FromName       string   `mapstructure:"from_name"`
	CopyRecipients []string `mapstructure:"copy_recipients"`
}

// CompanyConfig holds the issuing company's details printed on invoices.
type CompanyConfig struct {
	Name        string `mapstructure:"name"`
	Address     string `mapstructure:"address"`
	TaxID       string `mapstructure:"tax_id"`
	Email       string `mapstructure:"email"`
	Phone       string `mapstructure:"phone"`
	BankName    string `mapstructure:"bank_name"`
	BankAccount string `mapstructure:"bank_account"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the FAKTURA_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FAKTURA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "faktura")
	v.SetDefault("db.password", "faktura_secret")
	v.SetDefault("db.name", "faktura_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// Assistant defaults
	v.SetDefault("assistant.api_key", "")
	v.SetDefault("assistant.model", "anthropic/claude-sonnet-4")
	v.SetDefault("assistant.base_url", "")
	v.SetDefault("assistant.timeout_secs", 30)
	v.SetDefault("assistant.history_limit", 10)
	v.SetDefault("assistant.conversation_ttl", "1h")

	// Rate limit defaults
	v.SetDefault("rate_limit.requests", 20)
	v.SetDefault("rate_limit.window", "60s")

	// S3 defaults
	v.SetDefault("s3.region", "eu-central-1")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.endpoint", "")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "eu-central-1")
	v.SetDefault("email.from_address", "rechnung@example.com")
	v.SetDefault("email.from_name", "Faktura")
	v.SetDefault("email.copy_recipients", "")

	// Company defaults
	v.SetDefault("company.name", "")
	v.SetDefault("company.address", "")
	v.SetDefault("company.tax_id", "")
	v.SetDefault("company.email", "")
	v.SetDefault("company.phone", "")
	v.SetDefault("company.bank_name", "")
	v.SetDefault("company.bank_account", "")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                "FAKTURA_SERVER_PORT",
		"server.read_timeout":        "FAKTURA_SERVER_READ_TIMEOUT",
		"server.write_timeout":       "FAKTURA_SERVER_WRITE_TIMEOUT",
		"server.environment":         "FAKTURA_SERVER_ENVIRONMENT",
		"db.host":                    "FAKTURA_DB_HOST",
		"db.port":                    "FAKTURA_DB_PORT",
		"db.user":                    "FAKTURA_DB_USER",
		"db.password":                "FAKTURA_DB_PASSWORD",
		"db.name":                    "FAKTURA_DB_NAME",
		"db.sslmode":                 "FAKTURA_DB_SSLMODE",
		"db.max_open":                "FAKTURA_DB_MAX_OPEN",
		"db.max_idle":                "FAKTURA_DB_MAX_IDLE",
		"assistant.api_key":          "FAKTURA_ASSISTANT_API_KEY",
		"assistant.model":            "FAKTURA_ASSISTANT_MODEL",
		"assistant.base_url":         "FAKTURA_ASSISTANT_BASE_URL",
		"assistant.timeout_secs":     "FAKTURA_ASSISTANT_TIMEOUT_SECS",
		"assistant.history_limit":    "FAKTURA_ASSISTANT_HISTORY_LIMIT",
		"assistant.conversation_ttl": "FAKTURA_ASSISTANT_CONVERSATION_TTL",
		"rate_limit.requests":        "FAKTURA_RATE_LIMIT_REQUESTS",
		"rate_limit.window":          "FAKTURA_RATE_LIMIT_WINDOW",
		"s3.region":                  "FAKTURA_S3_REGION",
		"s3.bucket":                  "FAKTURA_S3_BUCKET",
		"s3.endpoint":                "FAKTURA_S3_ENDPOINT",
		"s3.access_key":              "FAKTURA_S3_ACCESS_KEY",
		"s3.secret_key":              "FAKTURA_S3_SECRET_KEY",
		"email.provider":             "FAKTURA_EMAIL_PROVIDER",
		"email.region":               "FAKTURA_EMAIL_REGION",
		"email.from_address":         "FAKTURA_EMAIL_FROM_ADDRESS",
		"email.from_name":            "FAKTURA_EMAIL_FROM_NAME",
		"email.copy_recipients":      "FAKTURA_EMAIL_COPY_RECIPIENTS",
		"company.name":               "FAKTURA_COMPANY_NAME",
		"company.address":            "FAKTURA_COMPANY_ADDRESS",
		"company.tax_id":             "FAKTURA_COMPANY_TAX_ID",
		"company.email":              "FAKTURA_COMPANY_EMAIL",
		"company.phone":              "FAKTURA_COMPANY_PHONE",
		"company.bank_name":          "FAKTURA_COMPANY_BANK_NAME",
		"company.bank_account":       "FAKTURA_COMPANY_BANK_ACCOUNT",
		"log.level":                  "FAKTURA_LOG_LEVEL",
		"log.format":                 "FAKTURA_LOG_FORMAT",
		"cors.allowed_origins":       "FAKTURA_CORS_ALLOWED_ORIGINS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if FAKTURA_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("FAKTURA_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.Assistant = AssistantConfig{
		APIKey:          v.GetString("assistant.api_key"),
		Model:           v.GetString("assistant.model"),
		BaseURL:         v.GetString("assistant.base_url"),
		TimeoutSecs:     v.GetInt("assistant.timeout_secs"),
		HistoryLimit:    v.GetInt("assistant.history_limit"),
		ConversationTTL: v.GetDuration("assistant.conversation_ttl"),
	}
	cfg.RateLimit = RateLimitConfig{
		Requests: v.GetInt("rate_limit.requests"),
		Window:   v.GetDuration("rate_limit.window"),
	}
	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Bucket:    v.GetString("s3.bucket"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
	}
	cfg.Email = EmailConfig{
		Provider:       v.GetString("email.provider"),
		Region:         v.GetString("email.region"),
		FromAddress:    v.GetString("email.from_address"),
		FromName:       v.GetString("email.from_name"),
		CopyRecipients: splitList(v.GetString("email.copy_recipients")),
	}
	cfg.Company = CompanyConfig{
		Name:        v.GetString("company.name"),
		Address:     v.GetString("company.address"),
		TaxID:       v.GetString("company.tax_id"),
		Email:       v.GetString("company.email"),
		Phone:       v.GetString("company.phone"),
		BankName:    v.GetString("company.bank_name"),
		BankAccount: v.GetString("company.bank_account"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitList(v.GetString("cors.allowed_origins")),
	}

	return cfg, nil
}

// splitList parses a comma-separated env value into a trimmed slice.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
