package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("FRED_API_KEY", "")

	cfg, err := LoadConfig()
	assert.NoError(t, err)
	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Empty(t, cfg.FredAPIKey)
	assert.Equal(t, "Asia/Seoul", cfg.Timezone)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("FRED_API_KEY", "abc123")

	cfg, err := LoadConfig()
	assert.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "abc123", cfg.FredAPIKey)
}

func TestLocationFallsBackToUTC(t *testing.T) {
	cfg := &Config{Timezone: "Not/AZone"}
	assert.Equal(t, "UTC", cfg.Location().String())
}
