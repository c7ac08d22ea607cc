package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalYAML = `
environment: test
clickhouse:
  host: localhost
pipeline:
  tickers:
    - AAA.NS
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	c, err := Load(writeConfig(t, minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, "info", c.Logging.Level)
	assert.Equal(t, "console", c.Logging.Format)
	assert.Equal(t, "stdout", c.Logging.Output)
	assert.Equal(t, "models", c.Trainer.ModelDir)
	assert.Equal(t, 5*time.Minute, c.Trainer.Budget)
	assert.Equal(t, "^NSEI", c.Pipeline.Benchmark)
	assert.Equal(t, 100000.0, c.Backtest.InitialCash)
	assert.Equal(t, 0.002, c.Backtest.Commission)
}

func TestLoadExplicitValuesWin(t *testing.T) {
	c, err := Load(writeConfig(t, `
environment: production
logging:
  level: debug
  format: json
clickhouse:
  host: ch.internal
  port: 9000
  database: stockpulse
pipeline:
  benchmark: "^GSPC"
  tickers: [AAPL, MSFT]
trainer:
  budget: 90s
backtest:
  initial_cash: 50000
  commission: 0.001
`))
	require.NoError(t, err)

	assert.Equal(t, "debug", c.Logging.Level)
	assert.Equal(t, "json", c.Logging.Format)
	assert.Equal(t, "^GSPC", c.Pipeline.Benchmark)
	assert.Equal(t, []string{"AAPL", "MSFT"}, c.Pipeline.Tickers)
	assert.Equal(t, 90*time.Second, c.Trainer.Budget)
	assert.Equal(t, 50000.0, c.Backtest.InitialCash)
	assert.Equal(t, 0.001, c.Backtest.Commission)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"missing environment", `
clickhouse: {host: localhost}
pipeline: {tickers: [AAA]}
`},
		{"no tickers", `
environment: test
clickhouse: {host: localhost}
`},
		{"missing clickhouse host", `
environment: test
pipeline: {tickers: [AAA]}
`},
		{"commission out of range", `
environment: test
clickhouse: {host: localhost}
pipeline: {tickers: [AAA]}
backtest: {commission: 1.5}
`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("NEWS_API_KEY", "env-key")
	t.Setenv("TICKERS", "X.NS,Y.NS")
	t.Setenv("BENCHMARK", "^BSESN")
	t.Setenv("MODEL_DIR", "/var/lib/models")

	c, err := LoadWithEnv(writeConfig(t, minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, "env-key", c.NewsAPI.APIKey)
	assert.Equal(t, []string{"X.NS", "Y.NS"}, c.Pipeline.Tickers)
	assert.Equal(t, "^BSESN", c.Pipeline.Benchmark)
	assert.Equal(t, "/var/lib/models", c.Trainer.ModelDir)
}
