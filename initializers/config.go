package initializers

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
	"github.com/joho/godotenv"
)

// Config holds the complete application configuration. It is built once at
// start-up from defaults, config.yaml and the environment, and is read-only
// afterwards.
type Config struct {
	Addr             string         `default:"0.0.0.0:5000" env:"ADDR" usage:"API server listen address"`
	DatabaseDriver   string         `default:"postgres" env:"DATABASE_DRIVER" usage:"Database driver: postgres, mysql or sqlite"`
	DatabaseURI      string         `env:"DATABASE_URI" usage:"Database connection string (DATABASE_URI or DATABASE_URL)"`
	DatabaseMaxConns int            `default:"10" env:"DATABASE_MAX_CONNS" usage:"Maximum open database connections"`
	JWTSecret        string         `env:"JWT_SECRET" usage:"HMAC secret for bearer tokens"`
	TokenTTL         time.Duration  `default:"1h" env:"TOKEN_TTL" usage:"Bearer token lifetime"`
	AdminEmail       string         `env:"ADMIN_EMAIL" usage:"Mailbox copied on every order confirmation"`
	SMTP             SMTPConfig     `env:"SMTP"`
	PayPal           PayPalConfig   `env:"PAYPAL"`
	S3               S3Config       `env:"S3"`
	RabbitMQ         RabbitMQConfig `env:"RABBITMQ"`
	CORS             CORSConfig     `env:"CORS"`
	Graceful         GracefulConfig `env:"GRACEFUL"`
}

// SMTPConfig describes the outgoing mail relay.
type SMTPConfig struct {
	Host     string `default:"smtp.gmail.com" env:"HOST"`
	Port     int    `default:"587" env:"PORT"`
	Username string `env:"USERNAME" usage:"Relay login, defaults to ADMIN_EMAIL"`
	Password string `env:"PASSWORD" usage:"Relay password (ADMIN_PASSWORD is accepted too)"`
	From     string `env:"FROM" usage:"Sender address, defaults to ADMIN_EMAIL"`
}

// PayPalConfig holds the REST credentials for order settlement.
type PayPalConfig struct {
	ClientID     string        `env:"CLIENT_ID"`
	ClientSecret string        `env:"CLIENT_SECRET"`
	BaseURL      string        `default:"https://api-m.paypal.com" env:"BASE_URL"`
	Currency     string        `default:"USD" env:"CURRENCY"`
	Timeout      time.Duration `default:"30s" env:"TIMEOUT"`
}

// S3Config enables product image uploads when Bucket is set.
type S3Config struct {
	Bucket string `env:"BUCKET"`
	Prefix string `default:"products" env:"PREFIX"`
}

// RabbitMQConfig enables order event publication when URI is set.
type RabbitMQConfig struct {
	URI   string `env:"URI"`
	Queue string `default:"orders" env:"QUEUE"`
}

type CORSConfig struct {
	Origins []string `default:"*" env:"ORIGINS"`
}

type GracefulConfig struct {
	ShutdownTimeout time.Duration `default:"15s" env:"SHUTDOWN_TIMEOUT"`
}

// LoadEnv loads a .env file when one is present.
func LoadEnv() {
	_ = godotenv.Load()
}

// LoadConfig loads configuration from defaults, YAML config files and
// environment variables, then applies platform defaults and validates it.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		SkipFlags:          true,
		AllowUnknownEnvs:   true,
		AllowUnknownFields: true,
		Files:              []string{"config.yaml", "/etc/treats/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first missing or inconsistent setting.
func (c *Config) Validate() error {
	switch {
	case c.DatabaseURI == "":
		return errors.New("database URI is required: set DATABASE_URI or DATABASE_URL")
	case c.DatabaseDriver != DriverPostgres && c.DatabaseDriver != DriverMySQL && c.DatabaseDriver != DriverSQLite:
		return errors.Errorf("unsupported database driver %q", c.DatabaseDriver)
	case c.JWTSecret == "":
		return errors.New("JWT_SECRET is required")
	case c.TokenTTL <= 0:
		return errors.New("token TTL must be positive")
	}
	return nil
}

// applyPlatformDefaults maps the conventional variable names used by hosting
// platforms and by earlier deployments onto the configuration.
func (c *Config) applyPlatformDefaults() {
	if c.DatabaseURI == "" {
		c.DatabaseURI = os.Getenv("DATABASE_URL")
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:5000" {
		c.Addr = "0.0.0.0:" + port
	}
	if c.SMTP.Password == "" {
		c.SMTP.Password = os.Getenv("ADMIN_PASSWORD")
	}
	if c.SMTP.Username == "" {
		c.SMTP.Username = c.AdminEmail
	}
	if c.SMTP.From == "" {
		c.SMTP.From = c.AdminEmail
	}
}
