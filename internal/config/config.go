package config

import (
	"fmt"
	"regexp"
	"time"

	"github.com/caarlos0/env/v9"
)

const (
	ModePolling = "polling"
	ModeWebhook = "webhook"
)

// Telegram only accepts these characters in a webhook secret token.
var webhookSecretPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,256}$`)

type Config struct {
	TelegramToken string   `env:"API_TOKEN,required,notEmpty"`
	BotMode       string   `env:"BOT_MODE" envDefault:"polling"`
	BotDebug      bool     `env:"BOT_DEBUG" envDefault:"false"`
	WebhookURL    string   `env:"WEBHOOK_URL"`
	WebhookPath   string   `env:"WEBHOOK_PATH" envDefault:"/webhook"`
	WebhookSecret string   `env:"WEBHOOK_SECRET"`
	HTTPPort      int      `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel      string   `env:"LOG_LEVEL" envDefault:"info"`
	Database      Database `envPrefix:"DB_"`
}

type Database struct {
	Host           string        `env:"HOST,required,notEmpty"`
	Port           int           `env:"PORT" envDefault:"5432"`
	User           string        `env:"USER,required,notEmpty"`
	Password       string        `env:"PASSWORD"`
	Name           string        `env:"NAME,required,notEmpty"`
	SSLMode        string        `env:"SSLMODE" envDefault:"disable"`
	MaxOpenConns   int           `env:"MAX_OPEN_CONNS" envDefault:"10"`
	ConnectTimeout time.Duration `env:"CONNECT_TIMEOUT" envDefault:"2m"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadDatabase reads only the DB_* variables, for tools that never talk to
// Telegram.
func LoadDatabase() (*Database, error) {
	var db Database
	if err := env.ParseWithOptions(&db, env.Options{Prefix: "DB_"}); err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	return &db, nil
}

// Validate checks the fields whose requirement depends on other fields.
func (c *Config) Validate() error {
	switch c.BotMode {
	case ModePolling:
	case ModeWebhook:
		if c.WebhookURL == "" {
			return fmt.Errorf("WEBHOOK_URL is required in %s mode", ModeWebhook)
		}
	default:
		return fmt.Errorf("unknown BOT_MODE %q", c.BotMode)
	}

	if c.WebhookSecret != "" && !webhookSecretPattern.MatchString(c.WebhookSecret) {
		return fmt.Errorf("WEBHOOK_SECRET must be 1-256 characters of A-Z, a-z, 0-9, _ or -")
	}

	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP_PORT %d", c.HTTPPort)
	}
	return nil
}

// ListenAddr is the address the webhook server binds to.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// WebhookEndpoint joins the public base URL with the webhook path.
func (c *Config) WebhookEndpoint() string {
	return c.WebhookURL + c.WebhookPath
}

// DSN is the lib/pq connection string.
func (d *Database) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host,
		d.Port,
		d.User,
		d.Password,
		d.Name,
		d.SSLMode,
	)
}
