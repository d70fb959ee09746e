package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

var ErrMissingSecret = errors.New("JWT_SECRET must be set")

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Sadaqa"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Driver   string `envconfig:"DB_DRIVER" default:"postgres"`
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"sadaqa"`
		MongoURI string `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	}

	Server struct {
		Timeout     time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		CORSOrigins []string      `envconfig:"CORS_ORIGINS" default:"http://localhost:3000"`
	}

	Auth struct {
		JWTSecret     string        `envconfig:"JWT_SECRET" required:"true"`
		TokenTTL      time.Duration `envconfig:"TOKEN_TTL" default:"12h"`
		AdminEmail    string        `envconfig:"ADMIN_EMAIL"`
		AdminPassword string        `envconfig:"ADMIN_PASSWORD"`
	}

	Notify struct {
		// SMS is "twilio" or "console". Email is "sendgrid" or "console".
		SMS   string `envconfig:"NOTIFY_SMS" default:"console"`
		Email string `envconfig:"NOTIFY_EMAIL" default:"console"`

		TwilioAccountSID string `envconfig:"TWILIO_ACCOUNT_SID"`
		TwilioAuthToken  string `envconfig:"TWILIO_AUTH_TOKEN"`
		TwilioFrom       string `envconfig:"TWILIO_FROM"`

		SendgridKey  string `envconfig:"SENDGRID_API_KEY"`
		SendgridHost string `envconfig:"SENDGRID_HOST" default:"https://api.sendgrid.com"`
		FromName     string `envconfig:"EMAIL_FROM_NAME" default:"Mosque Donations"`
		FromEmail    string `envconfig:"EMAIL_FROM"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	switch cfg.DB.Driver {
	case DriverPostgres, DriverMongo:
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DB.Driver)
	}

	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		return nil, ErrMissingSecret
	}

	return &cfg, nil
}
