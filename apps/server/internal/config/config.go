package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultAddr              = ":3003"
	defaultCountdownTicks    = 5
	defaultCountdownInterval = time.Second
	defaultRoundEndDelay     = 3 * time.Second
)

// Rules are the per-room timing and dealing knobs.
type Rules struct {
	CountdownTicks    int
	CountdownInterval time.Duration
	RoundEndDelay     time.Duration
	CarryOverHands    bool
}

// rulesFile mirrors the optional GAME_CONFIG JSON document. Zero fields keep
// the defaults.
type rulesFile struct {
	CountdownSeconds    int   `json:"countdown_seconds"`
	CountdownIntervalMs int   `json:"countdown_interval_ms"`
	RoundEndDelayMs     int   `json:"round_end_delay_ms"`
	CarryOverHands      *bool `json:"carry_over_hands"`
}

type Server struct {
	Addr           string
	AllowedOrigins []string
	Rules          Rules
}

func DefaultRules() Rules {
	return Rules{
		CountdownTicks:    defaultCountdownTicks,
		CountdownInterval: defaultCountdownInterval,
		RoundEndDelay:     defaultRoundEndDelay,
	}
}

// FromEnv builds the server configuration: defaults, then the GAME_CONFIG
// file if set, then individual env overrides.
func FromEnv() (Server, error) {
	cfg := Server{
		Addr:           envStringOrDefault("ADDR", defaultAddr),
		AllowedOrigins: splitList(os.Getenv("ALLOWED_ORIGINS")),
		Rules:          DefaultRules(),
	}

	if path := strings.TrimSpace(os.Getenv("GAME_CONFIG")); path != "" {
		rules, err := LoadRules(path, cfg.Rules)
		if err != nil {
			return Server{}, err
		}
		cfg.Rules = rules
	}

	cfg.Rules.CountdownTicks = envIntOrDefault("VAKHAAI_COUNTDOWN", cfg.Rules.CountdownTicks)
	if raw := strings.TrimSpace(os.Getenv("ROUND_END_DELAY")); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d < 0 {
			return Server{}, fmt.Errorf("invalid ROUND_END_DELAY %q", raw)
		}
		cfg.Rules.RoundEndDelay = d
	}
	if raw := strings.TrimSpace(os.Getenv("CARRY_OVER_HANDS")); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return Server{}, fmt.Errorf("invalid CARRY_OVER_HANDS %q", raw)
		}
		cfg.Rules.CarryOverHands = v
	}
	return cfg, nil
}

// LoadRules overlays the JSON rules file at path onto base.
func LoadRules(path string, base Rules) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("failed to read game config: %w", err)
	}
	var f rulesFile
	if err := json.Unmarshal(data, &f); err != nil {
		return Rules{}, fmt.Errorf("failed to unmarshal game config: %w", err)
	}

	rules := base
	if f.CountdownSeconds < 0 || f.CountdownIntervalMs < 0 || f.RoundEndDelayMs < 0 {
		return Rules{}, fmt.Errorf("game config: negative durations are not allowed")
	}
	if f.CountdownSeconds > 0 {
		rules.CountdownTicks = f.CountdownSeconds
	}
	if f.CountdownIntervalMs > 0 {
		rules.CountdownInterval = time.Duration(f.CountdownIntervalMs) * time.Millisecond
	}
	if f.RoundEndDelayMs > 0 {
		rules.RoundEndDelay = time.Duration(f.RoundEndDelayMs) * time.Millisecond
	}
	if f.CarryOverHands != nil {
		rules.CarryOverHands = *f.CarryOverHands
	}
	return rules, nil
}

// ConfigureLogger applies LOG_LEVEL and LOG_FORMAT to logger.
func ConfigureLogger(logger *logrus.Logger) error {
	level := logrus.InfoLevel
	if raw := strings.TrimSpace(os.Getenv("LOG_LEVEL")); raw != "" {
		parsed, err := logrus.ParseLevel(raw)
		if err != nil {
			return fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
		level = parsed
	}
	logger.SetLevel(level)

	switch strings.ToLower(strings.TrimSpace(os.Getenv("LOG_FORMAT"))) {
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("invalid LOG_FORMAT %q", os.Getenv("LOG_FORMAT"))
	}
	return nil
}

// OriginAllowed reports whether origin may open a websocket. An empty list
// allows every origin.
func (s Server) OriginAllowed(origin string) bool {
	if len(s.AllowedOrigins) == 0 || origin == "" {
		return true
	}
	for _, o := range s.AllowedOrigins {
		if strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}

func envStringOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envIntOrDefault(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
