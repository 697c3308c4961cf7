package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

var (
	// ErrConfigMissing is returned when a required credential is absent.
	ErrConfigMissing = errors.New("missing required environment variables")
	ErrInvalidChatID = errors.New("invalid TELEGRAM_CHAT_ID")
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	PracticumToken string `envconfig:"PRACTICUM_TOKEN"`
	TelegramToken  string `envconfig:"TELEGRAM_TOKEN"`
	TelegramChatID string `envconfig:"TELEGRAM_CHAT_ID"` // numeric id or @channel

	Endpoint       string        `envconfig:"PRACTICUM_ENDPOINT" default:"https://practicum.yandex.ru/api/user_api/homework_statuses/"`
	RetryPeriod    time.Duration `envconfig:"RETRY_PERIOD" default:"10m"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"10s"`
	TelegramAPI    string        `envconfig:"TELEGRAM_API_ENDPOINT"` // empty: tgbotapi default

	SuppressRepeatedErrors bool `envconfig:"SUPPRESS_REPEATED_ERRORS" default:"false"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`     // debug|info|warn|error
	LogFormat string `envconfig:"LOG_FORMAT" default:"console"` // console|json
	HTTPAddr  string `envconfig:"HTTP_ADDR" default:":8080"`    // healthz + metrics, empty disables
}

// Load reads an optional dotenv file and then environment variables into Config.
// Token presence is not checked here; see CheckTokens.
func Load() (Config, error) {
	var cfg Config
	if err := loadDotEnv(); err != nil {
		return cfg, err
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// loadDotEnv reads ENV_FILE, or .env when unset. Only the implicit .env may be
// absent. Variables already present in the environment are never overridden.
func loadDotEnv() error {
	path := strings.TrimSpace(os.Getenv("ENV_FILE"))
	explicit := path != ""
	if !explicit {
		path = ".env"
	}
	err := godotenv.Load(path)
	if err == nil || (!explicit && errors.Is(err, fs.ErrNotExist)) {
		return nil
	}
	return fmt.Errorf("load %s: %w", path, err)
}

// Missing lists the names of required variables that are unset or empty.
func (c Config) Missing() []string {
	var names []string
	if strings.TrimSpace(c.PracticumToken) == "" {
		names = append(names, "PRACTICUM_TOKEN")
	}
	if strings.TrimSpace(c.TelegramToken) == "" {
		names = append(names, "TELEGRAM_TOKEN")
	}
	if strings.TrimSpace(c.TelegramChatID) == "" {
		names = append(names, "TELEGRAM_CHAT_ID")
	}
	return names
}

// CheckTokens reports whether all three required credentials are present.
func (c Config) CheckTokens() bool {
	return len(c.Missing()) == 0
}

// Validate returns an error wrapping ErrConfigMissing that names every missing
// variable, or ErrInvalidChatID when the chat is neither numeric nor @channel.
func (c Config) Validate() error {
	if missing := c.Missing(); len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrConfigMissing, strings.Join(missing, ", "))
	}
	chat := strings.TrimSpace(c.TelegramChatID)
	if strings.HasPrefix(chat, "@") && len(chat) > 1 {
		return nil
	}
	if _, err := strconv.ParseInt(chat, 10, 64); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidChatID, chat)
	}
	return nil
}
