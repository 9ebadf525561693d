package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotEmpty(t, cfg.Data.IADDir)
	assert.NotEmpty(t, cfg.Catalog.CachePath)
	assert.Equal(t, 100000, cfg.Sample.Count)
	assert.Equal(t, 0.1, cfg.Sample.OffsetSigma)
	assert.Equal(t, "info", cfg.Logging.Level)

	assert.NoError(t, validateConfig(cfg))
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"default", func(c *Config) {}, true},
		{"empty IAD dir", func(c *Config) { c.Data.IADDir = "" }, false},
		{"negative workers", func(c *Config) { c.Evaluate.Workers = -1 }, false},
		{"zero workers", func(c *Config) { c.Evaluate.Workers = 0 }, true},
		{"zero sample count", func(c *Config) { c.Sample.Count = 0 }, false},
		{"negative offset sigma", func(c *Config) { c.Sample.OffsetSigma = -0.1 }, false},
		{"zero offset sigma", func(c *Config) { c.Sample.OffsetSigma = 0 }, true},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, false},
		{"empty log level", func(c *Config) { c.Logging.Level = "" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := validateConfig(cfg)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestConfigYAMLRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Catalog.VizierURL = "http://localhost:8080/asu-tsv"
	cfg.Evaluate.Workers = 4
	cfg.Sample.Seed = 42

	data, err := yaml.Marshal(cfg)
	assert.NoError(t, err)

	var got Config
	assert.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, *cfg, got)
}
