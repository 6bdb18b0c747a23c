package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(map[string]string{"AUTH_JWT_SECRET": "secret"})
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, DriverMongo, cfg.StoreDriver)
	assert.Equal(t, "qr-review", cfg.MongoDatabase)
	assert.Equal(t, "profiles", cfg.ProfileCollection)
	assert.Equal(t, "stats", cfg.CounterCollection)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, []byte("secret"), cfg.JWT.Secret)
	assert.Equal(t, "qr-review-auth", cfg.JWT.Issuer)
	assert.Equal(t, 50, cfg.PromptPoolSize)
	assert.Equal(t, 3, cfg.PromptSampleSize)
	assert.Equal(t, 800*time.Millisecond, cfg.RedirectDelay)
	assert.Equal(t, 8, cfg.QRPixelSize)
	assert.Equal(t, 4, cfg.QRMargin)
	assert.Zero(t, cfg.PromptSeed)
	assert.NotNil(t, cfg.ServerLog)
}

func TestParseNormalisesValues(t *testing.T) {
	cfg, err := Parse(map[string]string{
		"AUTH_JWT_SECRET":     " secret ",
		"STORE_DRIVER":        "Memory",
		"PUBLIC_ORIGIN":       "https://app.example/",
		"API_ALLOWED_ORIGINS": " https://a.example , ,https://b.example",
		"PROMPT_SEED":         "42",
		"REDIRECT_DELAY":      "1s",
	})
	require.NoError(t, err)

	assert.Equal(t, DriverMemory, cfg.StoreDriver)
	assert.Equal(t, "https://app.example", cfg.PublicOrigin)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, []byte("secret"), cfg.JWT.Secret)
	assert.Equal(t, uint64(42), cfg.PromptSeed)
	assert.Equal(t, time.Second, cfg.RedirectDelay)
}

func TestParseRejectsInvalidConfiguration(t *testing.T) {
	cases := map[string]map[string]string{
		"missing secret":     {"HTTP_ADDR": ":9090"},
		"unknown driver":     {"AUTH_JWT_SECRET": "s", "STORE_DRIVER": "redis"},
		"sample above pool":  {"AUTH_JWT_SECRET": "s", "PROMPT_POOL_SIZE": "2", "PROMPT_SAMPLE_SIZE": "3"},
		"zero pixel size":    {"AUTH_JWT_SECRET": "s", "QR_PIXEL_SIZE": "0"},
		"negative margin":    {"AUTH_JWT_SECRET": "s", "QR_MARGIN": "-1"},
		"malformed duration": {"AUTH_JWT_SECRET": "s", "REDIRECT_DELAY": "soon"},
	}
	for name, environ := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(environ)
			assert.Error(t, err)
		})
	}
}
