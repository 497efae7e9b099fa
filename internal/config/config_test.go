package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() Config {
	return Config{
		Storage:       Storage{Backend: "file", Dir: "logs"},
		Extraction:    Extraction{Engine: "rule"},
		Normalization: Normalization{FallbackCurrency: " eur "},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		expectErr bool
	}{
		{name: "configuração padrão", mutate: func(c *Config) {}},
		{name: "backend desconhecido", mutate: func(c *Config) { c.Storage.Backend = "s3" }, expectErr: true},
		{name: "motor desconhecido", mutate: func(c *Config) { c.Extraction.Engine = "gpt" }, expectErr: true},
		{name: "gemini sem chave", mutate: func(c *Config) { c.Extraction.Engine = "gemini" }, expectErr: true},
		{
			name: "gemini com chave",
			mutate: func(c *Config) {
				c.Extraction.Engine = "gemini"
				c.Gemini.APIKey = "key"
			},
		},
		{name: "moeda padrão inválida", mutate: func(c *Config) { c.Normalization.FallbackCurrency = "EURO" }, expectErr: true},
		{name: "epsilon negativo", mutate: func(c *Config) { c.Normalization.RateEpsilon = "-0.001" }, expectErr: true},
		{name: "epsilon não numérico", mutate: func(c *Config) { c.Normalization.RateEpsilon = "abc" }, expectErr: true},
		{
			name: "cron inválido com agendamento habilitado",
			mutate: func(c *Config) {
				c.PriceSync.Enabled = true
				c.PriceSync.CronSchedule = "todo dia"
			},
			expectErr: true,
		},
		{
			name: "cron inválido ignorado com agendamento desabilitado",
			mutate: func(c *Config) {
				c.PriceSync.Enabled = false
				c.PriceSync.CronSchedule = "todo dia"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, "EUR", cfg.Normalization.FallbackCurrency)
		})
	}
}

func TestColumnSynonyms_AsMap(t *testing.T) {
	synonyms := ColumnSynonyms{
		Rate:          []string{"Preis", "Tarif"},
		EffectiveFrom: []string{"Gültig ab"},
	}

	assert.Equal(t, map[string][]string{
		"rate":           {"Preis", "Tarif"},
		"effective_from": {"Gültig ab"},
	}, synonyms.AsMap())
}

func TestNormalization_Epsilon(t *testing.T) {
	eps, err := Normalization{}.Epsilon()
	assert.NoError(t, err)
	assert.True(t, eps.IsZero())

	eps, err = Normalization{RateEpsilon: " 0.0001 "}.Epsilon()
	assert.NoError(t, err)
	assert.Equal(t, "0.0001", eps.String())
}

func TestBuildDSN(t *testing.T) {
	assert.Equal(t, "postgres://u:p@localhost:5432/prices", buildDSN(Database{Driver: "postgres", User: "u", Password: "p", URL: "localhost:5432/prices"}))
	assert.Equal(t, "/tmp/prices.db", buildDSN(Database{Driver: "sqlite", URL: "/tmp/prices.db"}))
}
