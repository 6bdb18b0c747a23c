package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Store drivers selectable with STORE_DRIVER.
const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

// JWTConfig defines issuer/secret/audience for owner token verification.
type JWTConfig struct {
	Issuer   string
	Audience string
	Secret   []byte
}

// Config holds runtime configuration shared across the application.
type Config struct {
	Addr              string
	StoreDriver       string
	MongoURI          string
	MongoDatabase     string
	ProfileCollection string
	CounterCollection string
	Timeout           time.Duration
	PublicOrigin      string
	MediaBaseURL      string
	AllowedOrigins    []string
	JWT               JWTConfig
	PromptPoolSize    int
	PromptSampleSize  int
	RedirectDelay     time.Duration
	QRPixelSize       int
	QRMargin          int
	// PromptSeed fixes the prompt sampling sequence; zero seeds from crypto/rand.
	PromptSeed uint64
	ServerLog  *log.Logger
}

// environment is the raw shape decoded by caarlos0/env before normalisation.
type environment struct {
	Addr              string        `env:"HTTP_ADDR" envDefault:":8080"`
	StoreDriver       string        `env:"STORE_DRIVER" envDefault:"mongo"`
	MongoURI          string        `env:"MONGO_URI" envDefault:"mongodb://mongo:27017"`
	MongoDatabase     string        `env:"MONGO_DB" envDefault:"qr-review"`
	ProfileCollection string        `env:"PROFILE_COLLECTION" envDefault:"profiles"`
	CounterCollection string        `env:"COUNTER_COLLECTION" envDefault:"stats"`
	Timeout           time.Duration `env:"MONGO_CONNECT_TIMEOUT" envDefault:"10s"`
	PublicOrigin      string        `env:"PUBLIC_ORIGIN" envDefault:"http://localhost:8080"`
	MediaBaseURL      string        `env:"MEDIA_BASE_URL"`
	AllowedOrigins    []string      `env:"API_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	JWTSecret         string        `env:"AUTH_JWT_SECRET"`
	JWTIssuer         string        `env:"AUTH_JWT_ISSUER" envDefault:"qr-review-auth"`
	JWTAudience       string        `env:"AUTH_JWT_AUDIENCE"`
	PromptPoolSize    int           `env:"PROMPT_POOL_SIZE" envDefault:"50"`
	PromptSampleSize  int           `env:"PROMPT_SAMPLE_SIZE" envDefault:"3"`
	RedirectDelay     time.Duration `env:"REDIRECT_DELAY" envDefault:"800ms"`
	QRPixelSize       int           `env:"QR_PIXEL_SIZE" envDefault:"8"`
	QRMargin          int           `env:"QR_MARGIN" envDefault:"4"`
	PromptSeed        uint64        `env:"PROMPT_SEED"`
}

// Load reads environment variables and returns a fully populated Config.
// 設定不備は起動時に致命的エラーとして扱う。
func Load() Config {
	cfg, err := Parse(nil)
	if err != nil {
		log.Fatal(err)
	}

	cfg.ServerLog.Printf("loaded config: driver=%q publicOrigin=%q db=%q", cfg.StoreDriver, cfg.PublicOrigin, cfg.MongoDatabase)
	return cfg
}

// Parse decodes environ, or the process environment when environ is nil, and validates the result.
func Parse(environ map[string]string) (Config, error) {
	var raw environment
	opts := env.Options{}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&raw, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg := Config{
		Addr:              strings.TrimSpace(raw.Addr),
		StoreDriver:       strings.ToLower(strings.TrimSpace(raw.StoreDriver)),
		MongoURI:          strings.TrimSpace(raw.MongoURI),
		MongoDatabase:     strings.TrimSpace(raw.MongoDatabase),
		ProfileCollection: strings.TrimSpace(raw.ProfileCollection),
		CounterCollection: strings.TrimSpace(raw.CounterCollection),
		Timeout:           raw.Timeout,
		PublicOrigin:      strings.TrimRight(strings.TrimSpace(raw.PublicOrigin), "/"),
		MediaBaseURL:      strings.TrimSpace(raw.MediaBaseURL),
		AllowedOrigins:    cleanList(raw.AllowedOrigins, []string{"*"}),
		JWT: JWTConfig{
			Issuer:   strings.TrimSpace(raw.JWTIssuer),
			Audience: strings.TrimSpace(raw.JWTAudience),
			Secret:   []byte(strings.TrimSpace(raw.JWTSecret)),
		},
		PromptPoolSize:   raw.PromptPoolSize,
		PromptSampleSize: raw.PromptSampleSize,
		RedirectDelay:    raw.RedirectDelay,
		QRPixelSize:      raw.QRPixelSize,
		QRMargin:         raw.QRMargin,
		PromptSeed:       raw.PromptSeed,
		ServerLog:        log.New(os.Stdout, "[qr-review-api] ", log.LstdFlags|log.Lshortfile),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var errs []error
	if len(c.JWT.Secret) == 0 {
		errs = append(errs, errors.New("AUTH_JWT_SECRET must be configured"))
	}
	if c.StoreDriver != DriverMongo && c.StoreDriver != DriverMemory {
		errs = append(errs, fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", DriverMongo, DriverMemory, c.StoreDriver))
	}
	if c.PublicOrigin == "" {
		errs = append(errs, errors.New("PUBLIC_ORIGIN must be configured"))
	}
	if c.PromptPoolSize < 1 {
		errs = append(errs, fmt.Errorf("PROMPT_POOL_SIZE must be positive, got %d", c.PromptPoolSize))
	}
	if c.PromptSampleSize < 1 || c.PromptSampleSize > c.PromptPoolSize {
		errs = append(errs, fmt.Errorf("PROMPT_SAMPLE_SIZE must be between 1 and %d, got %d", c.PromptPoolSize, c.PromptSampleSize))
	}
	if c.RedirectDelay < 0 {
		errs = append(errs, fmt.Errorf("REDIRECT_DELAY must not be negative, got %s", c.RedirectDelay))
	}
	if c.QRPixelSize < 1 {
		errs = append(errs, fmt.Errorf("QR_PIXEL_SIZE must be positive, got %d", c.QRPixelSize))
	}
	if c.QRMargin < 0 {
		errs = append(errs, fmt.Errorf("QR_MARGIN must not be negative, got %d", c.QRMargin))
	}
	return errors.Join(errs...)
}

func cleanList(values []string, fallback []string) []string {
	cleaned := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value != "" {
			cleaned = append(cleaned, value)
		}
	}
	if len(cleaned) == 0 {
		return fallback
	}
	return cleaned
}
