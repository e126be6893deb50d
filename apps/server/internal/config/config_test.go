package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"ADDR", "ALLOWED_ORIGINS", "GAME_CONFIG", "VAKHAAI_COUNTDOWN",
		"ROUND_END_DELAY", "CARRY_OVER_HANDS", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":3003", cfg.Addr)
	assert.Empty(t, cfg.AllowedOrigins)
	assert.Equal(t, DefaultRules(), cfg.Rules)
	assert.Equal(t, 5, cfg.Rules.CountdownTicks)
	assert.Equal(t, 3*time.Second, cfg.Rules.RoundEndDelay)
	assert.False(t, cfg.Rules.CarryOverHands)
}

func TestFromEnv_FileThenEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "rules.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"countdown_seconds": 7,
		"countdown_interval_ms": 250,
		"round_end_delay_ms": 1500,
		"carry_over_hands": true
	}`), 0o644))

	t.Setenv("GAME_CONFIG", path)
	t.Setenv("VAKHAAI_COUNTDOWN", "3")
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:5173, https://ladis.example")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Rules.CountdownTicks)
	assert.Equal(t, 250*time.Millisecond, cfg.Rules.CountdownInterval)
	assert.Equal(t, 1500*time.Millisecond, cfg.Rules.RoundEndDelay)
	assert.True(t, cfg.Rules.CarryOverHands)
	assert.Equal(t, []string{"http://localhost:5173", "https://ladis.example"}, cfg.AllowedOrigins)

	t.Setenv("CARRY_OVER_HANDS", "false")
	t.Setenv("ROUND_END_DELAY", "10ms")
	cfg, err = FromEnv()
	require.NoError(t, err)
	assert.False(t, cfg.Rules.CarryOverHands)
	assert.Equal(t, 10*time.Millisecond, cfg.Rules.RoundEndDelay)
}

func TestFromEnv_RejectsBadValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("ROUND_END_DELAY", "soon")
	_, err := FromEnv()
	assert.Error(t, err)

	clearEnv(t)
	t.Setenv("CARRY_OVER_HANDS", "maybe")
	_, err = FromEnv()
	assert.Error(t, err)

	clearEnv(t)
	t.Setenv("GAME_CONFIG", filepath.Join(t.TempDir(), "missing.json"))
	_, err = FromEnv()
	assert.ErrorContains(t, err, "failed to read game config")
}

func TestLoadRules_RejectsNegative(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"round_end_delay_ms": -1}`), 0o644))
	_, err := LoadRules(path, DefaultRules())
	assert.Error(t, err)
}

func TestOriginAllowed(t *testing.T) {
	open := Server{}
	assert.True(t, open.OriginAllowed("https://anything"))

	strict := Server{AllowedOrigins: []string{"https://ladis.example"}}
	assert.True(t, strict.OriginAllowed("https://LADIS.example"))
	assert.False(t, strict.OriginAllowed("https://evil.example"))
	assert.True(t, strict.OriginAllowed(""))
}

func TestConfigureLogger(t *testing.T) {
	clearEnv(t)
	logger := logrus.New()
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")
	require.NoError(t, ConfigureLogger(logger))
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)

	t.Setenv("LOG_FORMAT", "xml")
	assert.Error(t, ConfigureLogger(logger))
	t.Setenv("LOG_FORMAT", "")
	t.Setenv("LOG_LEVEL", "loud")
	assert.Error(t, ConfigureLogger(logger))
}
