package config

import (
	"bytes"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv removes every variable the config reads so tests see a clean slate.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"FFMPEG_PATH", "FFPROBE_PATH",
		"ASSETS_DIR", "OUTPUT_DIR", "TEMP_DIR",
		"S3_BUCKET", "S3_REGION", "S3_PREFIX",
		"AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY",
		"LOG_FORMAT", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "ffmpeg", cfg.FFmpegPath)
	assert.Equal(t, "ffprobe", cfg.FFprobePath)
	assert.Equal(t, ".", cfg.AssetsDir)
	assert.Equal(t, ".", cfg.OutputDir)
	assert.Equal(t, "/tmp/assetforge", cfg.TempDir)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.S3Enabled())
}

func TestLoad_CustomValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("FFMPEG_PATH", "/opt/ffmpeg/bin/ffmpeg")
	t.Setenv("FFPROBE_PATH", "/opt/ffmpeg/bin/ffprobe")
	t.Setenv("ASSETS_DIR", "/srv/site/assets")
	t.Setenv("OUTPUT_DIR", "/srv/site/public")
	t.Setenv("TEMP_DIR", "/var/tmp/assetforge")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/opt/ffmpeg/bin/ffmpeg", cfg.FFmpegPath)
	assert.Equal(t, "/opt/ffmpeg/bin/ffprobe", cfg.FFprobePath)
	assert.Equal(t, "/srv/site/assets", cfg.AssetsDir)
	assert.Equal(t, "/srv/site/public", cfg.OutputDir)
	assert.Equal(t, "/var/tmp/assetforge", cfg.TempDir)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_S3(t *testing.T) {
	t.Run("bucket and region enable S3", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("S3_BUCKET", "my-site-assets")
		t.Setenv("S3_REGION", "us-east-1")

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.S3Enabled())
	})

	t.Run("bucket without region is rejected", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("S3_BUCKET", "my-site-assets")

		_, err := Load()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrS3RegionRequired)
	})
}

func TestValidate(t *testing.T) {
	t.Run("empty output dir", func(t *testing.T) {
		cfg := &Config{}
		assert.ErrorIs(t, cfg.Validate(), ErrOutputDirRequired)
	})

	t.Run("consistent config passes", func(t *testing.T) {
		cfg := &Config{OutputDir: "."}
		assert.NoError(t, cfg.Validate())
	})
}

func TestNewLogger(t *testing.T) {
	t.Run("text format", func(t *testing.T) {
		cfg := &Config{LogFormat: "text", LogLevel: "info"}
		logger := cfg.NewLogger()
		require.NotNil(t, logger)
	})

	t.Run("json format", func(t *testing.T) {
		cfg := &Config{LogFormat: "json", LogLevel: "debug"}
		logger := cfg.NewLogger()
		require.NotNil(t, logger)
		assert.True(t, logger.Enabled(nil, slog.LevelDebug))
	})
}

func TestString_MasksCredentials(t *testing.T) {
	cfg := &Config{
		OutputDir:          "/srv/site/public",
		AWSAccessKeyID:     "AKIAEXAMPLE",
		AWSSecretAccessKey: "secret",
	}

	var buf bytes.Buffer
	buf.WriteString(cfg.String())

	assert.NotContains(t, buf.String(), "AKIAEXAMPLE")
	assert.NotContains(t, buf.String(), "secret")
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, parseLogLevel(tc.in), "level %q", tc.in)
	}
}
