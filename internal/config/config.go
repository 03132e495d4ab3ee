package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type TelegramConfig struct {
	BotToken        string        `mapstructure:"bot_token"`
	APIBaseURL      string        `mapstructure:"api_base_url"`
	EntryChatID     int64         `mapstructure:"entry_chat_id"`
	MainChatID      int64         `mapstructure:"main_chat_id"`
	AuditChatID     int64         `mapstructure:"audit_chat_id"`
	EntryChannelURL string        `mapstructure:"entry_channel_url"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
}

type DispatchConfig struct {
	QueueSize int `mapstructure:"queue_size"`
	Workers   int `mapstructure:"workers"`
}

type VerificationConfig struct {
	// ReissuePolicy is "always" (every confirm mints a fresh link) or
	// "single" (one grant per user; repeats re-serve the recorded link).
	ReissuePolicy string `mapstructure:"reissue_policy"`
}

type AdminConfig struct {
	Email        string `mapstructure:"email"`
	PasswordHash string `mapstructure:"password_hash"`
}

type Config struct {
	ServerPort    string             `mapstructure:"server_port"`
	PublicURL     string             `mapstructure:"public_url"`
	WebhookSecret string             `mapstructure:"webhook_secret"`
	JWTSecret     string             `mapstructure:"jwt_secret"`
	Admin         AdminConfig        `mapstructure:"admin"`
	Telegram      TelegramConfig     `mapstructure:"telegram"`
	Dispatch      DispatchConfig     `mapstructure:"dispatch"`
	Verification  VerificationConfig `mapstructure:"verification"`
}

// Load reads the configuration from a YAML file and returns a Config instance.
func Load() *Config {
	v := viper.New()

	// Look for config in the current directory and ./config
	v.AddConfigPath(".")
	v.SetConfigName("config")
	v.AddConfigPath("./config")
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		log.Fatalf("Error reading config file: %v", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		log.Fatalf("Error unmarshalling config: %v", err)
	}

	// Fallback defaults
	if config.ServerPort == "" {
		config.ServerPort = "8080"
	}
	if config.Telegram.APIBaseURL == "" {
		config.Telegram.APIBaseURL = "https://api.telegram.org"
	}
	if config.Telegram.RequestTimeout == 0 {
		config.Telegram.RequestTimeout = 10 * time.Second
	}
	if config.Dispatch.QueueSize == 0 {
		config.Dispatch.QueueSize = 64
	}
	if config.Dispatch.Workers == 0 {
		config.Dispatch.Workers = 4
	}
	if config.Verification.ReissuePolicy == "" {
		config.Verification.ReissuePolicy = "always"
	}

	if config.Telegram.BotToken == "" {
		log.Fatal("Telegram bot token must be set in the config file")
	}
	if config.Telegram.EntryChatID == 0 || config.Telegram.MainChatID == 0 {
		log.Fatal("Entry and main chat IDs must be set in the config file")
	}
	if config.JWTSecret == "" {
		log.Fatal("JWT secret must be set in the config file")
	}
	if p := config.Verification.ReissuePolicy; p != "always" && p != "single" {
		log.Fatalf("Invalid reissue policy %q: must be \"always\" or \"single\"", p)
	}

	return &config
}
