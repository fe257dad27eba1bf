package ratelimit

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment variables read by LoadConfig. Rates are written "limit/window",
// for example "60/1m"; a limit of 0 disables limiting for that scope.
const (
	EnvEnabled         = "RATE_LIMIT_ENABLED"
	EnvDefault         = "RATE_LIMIT_DEFAULT"
	EnvRecommendations = "RATE_LIMIT_RECOMMENDATIONS"
	EnvTranscripts     = "RATE_LIMIT_TRANSCRIPTS"
	EnvCleanup         = "RATE_LIMIT_CLEANUP_INTERVAL"
	EnvWhitelist       = "RATE_LIMIT_WHITELIST"
	EnvBlacklist       = "RATE_LIMIT_BLACKLIST"
)

// EndpointConfig is the rate applied to one route. A Path ending in "/"
// matches every path below it; an empty Method matches any method.
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int
	Window time.Duration
	Burst  int // defaults to Limit when 0
	Env    string
}

// DefaultEndpointConfigs returns the per-route rates used when the environment
// does not override them.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Each upload may be a multi-page PDF
		{Path: "/api/parse-transcript", Method: "POST", Limit: 30, Window: time.Minute, Burst: 5, Env: EnvTranscripts},
		// Fans out to every eligible course of a department
		{Path: "/api/recommendations", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10, Env: EnvRecommendations},
	}
}

// LoadConfig builds the limiter configuration from the environment. Values that
// do not parse keep their defaults.
func LoadConfig() *Config {
	if enabled, err := strconv.ParseBool(os.Getenv(EnvEnabled)); err == nil && !enabled {
		return &Config{Enabled: false}
	}

	cfg := &Config{
		Enabled:         true,
		DefaultLimit:    1000,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		Whitelist:       clientSet(os.Getenv(EnvWhitelist)),
		Blacklist:       clientSet(os.Getenv(EnvBlacklist)),
		EndpointConfigs: DefaultEndpointConfigs(),
	}

	if limit, window, err := ParseRate(os.Getenv(EnvDefault)); err == nil {
		cfg.DefaultLimit, cfg.DefaultWindow = limit, window
	}
	if d, err := time.ParseDuration(os.Getenv(EnvCleanup)); err == nil && d > 0 {
		cfg.CleanupInterval = d
	}
	for i := range cfg.EndpointConfigs {
		ec := &cfg.EndpointConfigs[i]
		limit, window, err := ParseRate(os.Getenv(ec.Env))
		if err != nil {
			continue
		}
		ec.Limit, ec.Window = limit, window
		if ec.Burst > limit {
			ec.Burst = limit
		}
	}
	return cfg
}

// ParseRate parses "limit/window" such as "60/1m". A bare window unit like
// "60/m" or "10/s" means one of that unit.
func ParseRate(s string) (int, time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, fmt.Errorf("empty rate")
	}
	limitPart, windowPart, ok := strings.Cut(s, "/")
	if !ok {
		return 0, 0, fmt.Errorf("rate %q must be limit/window", s)
	}

	limit, err := strconv.Atoi(strings.TrimSpace(limitPart))
	if err != nil || limit < 0 {
		return 0, 0, fmt.Errorf("rate %q has an invalid limit", s)
	}

	windowPart = strings.TrimSpace(windowPart)
	if windowPart != "" && !strings.ContainsAny(windowPart[:1], "0123456789") {
		windowPart = "1" + windowPart
	}
	window, err := time.ParseDuration(windowPart)
	if err != nil || window <= 0 {
		return 0, 0, fmt.Errorf("rate %q has an invalid window", s)
	}
	return limit, window, nil
}

// clientSet splits a comma-separated list of client IDs.
func clientSet(list string) map[string]bool {
	set := make(map[string]bool)
	for _, id := range strings.Split(list, ",") {
		if id = strings.TrimSpace(id); id != "" {
			set[id] = true
		}
	}
	return set
}
