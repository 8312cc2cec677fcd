package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg := LoadConfig()

	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, 45*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "USD", cfg.FX.BaseCurrency)
	assert.Equal(t, "data/fx_rates.csv", cfg.FX.RatesFile)
	assert.Equal(t, "https://api.exchangerate-api.com/v4/latest", cfg.FX.APIURL)
	assert.Equal(t, 5*time.Second, cfg.FX.APITimeout)
	assert.Equal(t, 0.01, cfg.Match.Tolerance)
	assert.Equal(t, "pdftoppm", cfg.Raster.PdftoppmPath)
	assert.Equal(t, 200, cfg.Raster.DPI)
	assert.Equal(t, 1, cfg.Extract.Workers)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("BASE_CURRENCY", "eur")
	t.Setenv("MATCH_TOLERANCE", "0.5")
	t.Setenv("RASTER_DPI", "300")
	t.Setenv("EXTRACT_WORKERS", "4")
	t.Setenv("FX_API_TIMEOUT", "10s")

	cfg := LoadConfig()

	assert.Equal(t, "eur", cfg.FX.BaseCurrency)
	assert.Equal(t, 0.5, cfg.Match.Tolerance)
	assert.Equal(t, 300, cfg.Raster.DPI)
	assert.Equal(t, 4, cfg.Extract.Workers)
	assert.Equal(t, 10*time.Second, cfg.FX.APITimeout)
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr string
	}{
		{
			name:    "missing api key",
			mutate:  func(cfg *Config) { cfg.LLM.APIKey = "" },
			wantErr: "OPENAI_API_KEY",
		},
		{
			name:    "bad base currency",
			mutate:  func(cfg *Config) { cfg.FX.BaseCurrency = "DOLLARS" },
			wantErr: "BASE_CURRENCY",
		},
		{
			name:    "negative tolerance",
			mutate:  func(cfg *Config) { cfg.Match.Tolerance = -0.01 },
			wantErr: "MATCH_TOLERANCE",
		},
		{
			name:    "zero dpi",
			mutate:  func(cfg *Config) { cfg.Raster.DPI = 0 },
			wantErr: "RASTER_DPI",
		},
		{
			name:    "zero workers",
			mutate:  func(cfg *Config) { cfg.Extract.Workers = 0 },
			wantErr: "EXTRACT_WORKERS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("OPENAI_API_KEY", "sk-test")
			cfg := LoadConfig()
			tt.mutate(cfg)

			err := cfg.Validate()

			assert.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
