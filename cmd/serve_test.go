package cmd

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMetricsTestCmd(t *testing.T, args ...string) (*cobra.Command, *MetricsConfig) {
	t.Helper()
	cfg := &MetricsConfig{}
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().BoolVar(&cfg.Enabled, "metrics-enabled", true, "")
	cmd.Flags().StringVar(&cfg.Addr, "metrics-addr", ":9090", "")
	require.NoError(t, cmd.Flags().Parse(args))
	return cmd, cfg
}

func TestLoadMetricsEnvVars(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		env         map[string]string
		wantEnabled bool
		wantAddr    string
	}{
		{
			name:        "defaults",
			wantEnabled: true,
			wantAddr:    ":9090",
		},
		{
			name:        "env applies when flags unset",
			env:         map[string]string{"METRICS_ENABLED": "false", "METRICS_ADDR": ":9191"},
			wantEnabled: false,
			wantAddr:    ":9191",
		},
		{
			name:        "flags win over env",
			args:        []string{"--metrics-enabled=true", "--metrics-addr=:7000"},
			env:         map[string]string{"METRICS_ENABLED": "false", "METRICS_ADDR": ":9191"},
			wantEnabled: true,
			wantAddr:    ":7000",
		},
		{
			name:        "invalid env keeps default",
			env:         map[string]string{"METRICS_ENABLED": "maybe"},
			wantEnabled: true,
			wantAddr:    ":9090",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("METRICS_ENABLED", "")
			t.Setenv("METRICS_ADDR", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cmd, cfg := newMetricsTestCmd(t, tt.args...)
			loadMetricsEnvVars(cmd, cfg)

			assert.Equal(t, tt.wantEnabled, cfg.Enabled)
			assert.Equal(t, tt.wantAddr, cfg.Addr)
		})
	}
}

func TestRunServe_UnsupportedTransport(t *testing.T) {
	err := runServe(serveOptions{transport: "sse"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported transport type: sse")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(&buf, true, logFormatJSON)
	require.NoError(t, err)

	logger.Debug("hello", "bot_id", "b1")
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "DEBUG", entry["level"])

	buf.Reset()
	logger, err = newLogger(&buf, false, logFormatText)
	require.NoError(t, err)
	logger.Debug("hidden")
	assert.Empty(t, buf.String())

	_, err = newLogger(&buf, false, "xml")
	assert.Error(t, err)
}
