package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/linseg/pkg/config"
)

const (
	testPort      = 9000
	testEnvPort   = 9090
	testBodyLimit = 4_000_000
	testEpsilon   = 1e-6
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "linseg.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, config.Default(), cfg)
	assert.True(t, cfg.Editor.AllowResizeNeighbour)
	assert.False(t, cfg.Editor.KeepZeroLength)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Zero(t, cfg.Server.DrainDelay)
	assert.Equal(t, config.FormatTable, cfg.Output.Format)
	assert.Equal(t, config.FormatText, cfg.Logging.Format)

	limit, err := cfg.Server.BodyLimit()
	require.NoError(t, err)
	assert.Equal(t, int64(testBodyLimit), limit)
}

func TestLoadConfig_FromFile(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
editor:
  allow_resize_neighbour: false
  keep_zero_length: true
  epsilon: 0.000001
server:
  host: 127.0.0.1
  port: 9000
  max_body_size: 64KiB
  read_timeout: 2s
  drain_delay: 3s
logging:
  level: debug
  format: json
observability:
  otlp_endpoint: collector:4317
  sample_ratio: 0.25
output:
  format: yaml
  color: false
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.False(t, cfg.Editor.AllowResizeNeighbour)
	assert.True(t, cfg.Editor.KeepZeroLength)
	assert.InDelta(t, testEpsilon, cfg.Editor.Epsilon, 0)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, testPort, cfg.Server.Port)
	assert.Equal(t, 2*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 3*time.Second, cfg.Server.DrainDelay)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, config.FormatJSON, cfg.Logging.Format)
	assert.Equal(t, "collector:4317", cfg.Observability.OTLPEndpoint)
	assert.InDelta(t, 0.25, cfg.Observability.SampleRatio, 0)
	assert.Equal(t, config.FormatYAML, cfg.Output.Format)
	assert.False(t, cfg.Output.Color)

	limit, err := cfg.Server.BodyLimit()
	require.NoError(t, err)
	assert.Equal(t, int64(64*1024), limit)
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("LINSEG_SERVER_PORT", "9090")
	t.Setenv("LINSEG_EDITOR_ALLOW_RESIZE_NEIGHBOUR", "false")

	cfg, err := config.LoadConfig(writeConfig(t, "server:\n  port: 9000\n"))
	require.NoError(t, err)

	assert.Equal(t, testEnvPort, cfg.Server.Port)
	assert.False(t, cfg.Editor.AllowResizeNeighbour)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    error
	}{
		{name: "port zero", content: "server:\n  port: 0\n", want: config.ErrInvalidPort},
		{name: "port too large", content: "server:\n  port: 70000\n", want: config.ErrInvalidPort},
		{name: "negative epsilon", content: "editor:\n  epsilon: -1\n", want: config.ErrInvalidEpsilon},
		{name: "bad body size", content: "server:\n  max_body_size: lots\n", want: config.ErrInvalidBodyLimit},
		{name: "zero body size", content: "server:\n  max_body_size: 0B\n", want: config.ErrInvalidBodyLimit},
		{name: "log format", content: "logging:\n  format: xml\n", want: config.ErrInvalidFormat},
		{name: "output format", content: "output:\n  format: csv\n", want: config.ErrInvalidFormat},
		{name: "sample ratio", content: "observability:\n  sample_ratio: 2\n", want: config.ErrInvalidSampleRatio},
		{name: "negative drain delay", content: "server:\n  drain_delay: -1s\n", want: config.ErrInvalidDrainDelay},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := config.LoadConfig(writeConfig(t, tt.content))
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(writeConfig(t, "server: [unclosed\n"))
	require.Error(t, err)
}
