package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	OpenAI  OpenAIConfig
	Storage StorageConfig
	Archive ArchiveConfig
	SMTP    SMTPConfig
	Twilio  TwilioConfig
	Logging LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string
	Environment     string
	ShutdownTimeout time.Duration
}

// OpenAIConfig holds OpenAI API configuration. An empty APIKey is allowed:
// the server then runs in offline mode and every analysis returns an empty
// result.
type OpenAIConfig struct {
	APIKey      string
	VisionModel string
	TTSModel    string
	TTSVoice    string
}

// StorageConfig holds the embedded user database configuration
type StorageConfig struct {
	Dir string
}

// ArchiveConfig holds Azure Blob Storage configuration for report PDFs.
// Optional; when incomplete, archived-report retrieval is disabled.
type ArchiveConfig struct {
	AccountName string
	AccountKey  string
	Container   string
}

// SMTPConfig holds outbound report mail configuration. Optional.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// TwilioConfig holds WhatsApp notification configuration. Optional.
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	From       string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string // json or console
}

// Load reads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// Read from environment variables
	v.AutomaticEnv()

	// Bind specific environment variables
	bindEnvVars(v)

	// Unmarshal into config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.shutdowntimeout", 30*time.Second)

	// OpenAI defaults
	v.SetDefault("openai.visionmodel", "gpt-4o")
	v.SetDefault("openai.ttsmodel", "tts-1")
	v.SetDefault("openai.ttsvoice", "alloy")

	// Storage defaults
	v.SetDefault("storage.dir", "./data/users")

	// Archive defaults
	v.SetDefault("archive.container", "health-reports")

	// SMTP defaults
	v.SetDefault("smtp.port", 587)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// bindEnvVars binds environment variables to config keys
func bindEnvVars(v *viper.Viper) {
	// Server
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.environment", "ENV", "ENVIRONMENT")

	// OpenAI
	v.BindEnv("openai.apikey", "OPENAI_API_KEY")
	v.BindEnv("openai.visionmodel", "OPENAI_VISION_MODEL")
	v.BindEnv("openai.ttsmodel", "OPENAI_TTS_MODEL")
	v.BindEnv("openai.ttsvoice", "OPENAI_TTS_VOICE")

	// Storage
	v.BindEnv("storage.dir", "STORAGE_DIR")

	// Archive
	v.BindEnv("archive.accountname", "AZURE_STORAGE_ACCOUNT_NAME")
	v.BindEnv("archive.accountkey", "AZURE_STORAGE_ACCOUNT_KEY")
	v.BindEnv("archive.container", "AZURE_STORAGE_REPORT_CONTAINER")

	// SMTP
	v.BindEnv("smtp.host", "SMTP_HOST")
	v.BindEnv("smtp.port", "SMTP_PORT")
	v.BindEnv("smtp.username", "SMTP_USERNAME", "SMTP_USER")
	v.BindEnv("smtp.password", "SMTP_PASSWORD", "SMTP_PASS")
	v.BindEnv("smtp.from", "SMTP_FROM")

	// Twilio
	v.BindEnv("twilio.accountsid", "TWILIO_ACCOUNT_SID")
	v.BindEnv("twilio.authtoken", "TWILIO_AUTH_TOKEN")
	v.BindEnv("twilio.from", "TWILIO_WHATSAPP_FROM")

	// Logging
	v.BindEnv("logging.level", "LOG_LEVEL")
	v.BindEnv("logging.format", "LOG_FORMAT")
}

// Validate checks if the configuration is valid. Delivery and archive
// settings are optional providers and are only validated for internal
// consistency, never for presence.
func (c *Config) Validate() error {
	if c.Storage.Dir == "" {
		return fmt.Errorf("storage.dir is required")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}

	if c.SMTP.Host != "" && c.SMTP.From == "" {
		return fmt.Errorf("smtp.from is required when smtp.host is set")
	}

	if c.Twilio.AccountSID != "" && (c.Twilio.AuthToken == "" || c.Twilio.From == "") {
		return fmt.Errorf("twilio.authtoken and twilio.from are required when twilio.accountsid is set")
	}

	if c.Archive.AccountName != "" && c.Archive.AccountKey == "" {
		return fmt.Errorf("archive.accountkey is required when archive.accountname is set")
	}

	return nil
}

// ArchiveConfigured reports whether blob archiving can be enabled.
func (c *Config) ArchiveConfigured() bool {
	return c.Archive.AccountName != "" && c.Archive.AccountKey != "" && c.Archive.Container != ""
}
