package ratelimit

import (
	"testing"
	"time"
)

func clearRateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvEnabled, EnvDefault, EnvRecommendations, EnvTranscripts,
		EnvCleanup, EnvWhitelist, EnvBlacklist,
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearRateEnv(t)

	config := LoadConfig()
	if !config.Enabled {
		t.Fatal("expected rate limiting to be enabled by default")
	}
	if config.DefaultLimit != 1000 || config.DefaultWindow != time.Minute {
		t.Errorf("unexpected default rate %d/%v", config.DefaultLimit, config.DefaultWindow)
	}
	if config.CleanupInterval != 5*time.Minute {
		t.Errorf("expected 5m cleanup interval, got %v", config.CleanupInterval)
	}
	if len(config.Whitelist) != 0 || len(config.Blacklist) != 0 {
		t.Errorf("expected empty client lists, got %v %v", config.Whitelist, config.Blacklist)
	}

	recs := MatchEndpoint("/api/recommendations", "POST", config.EndpointConfigs)
	if recs == nil || recs.Limit != 60 || recs.Burst != 10 {
		t.Errorf("unexpected recommendations config %+v", recs)
	}
}

func TestLoadConfig_FromEnv(t *testing.T) {
	clearRateEnv(t)
	t.Setenv(EnvDefault, "25/30s")
	t.Setenv(EnvTranscripts, "3/m")
	t.Setenv(EnvRecommendations, "lots")
	t.Setenv(EnvCleanup, "not-a-duration")
	t.Setenv(EnvWhitelist, " 10.0.0.1 , ,10.0.0.2")
	t.Setenv(EnvBlacklist, "192.168.1.9")

	config := LoadConfig()
	if config.DefaultLimit != 25 || config.DefaultWindow != 30*time.Second {
		t.Errorf("unexpected default rate %d/%v", config.DefaultLimit, config.DefaultWindow)
	}
	if config.CleanupInterval != 5*time.Minute {
		t.Errorf("invalid duration should keep the default, got %v", config.CleanupInterval)
	}

	transcripts := MatchEndpoint("/api/parse-transcript", "POST", config.EndpointConfigs)
	if transcripts.Limit != 3 || transcripts.Window != time.Minute || transcripts.Burst != 3 {
		t.Errorf("expected 3/1m with burst capped at 3, got %+v", transcripts)
	}
	recs := MatchEndpoint("/api/recommendations", "POST", config.EndpointConfigs)
	if recs.Limit != 60 {
		t.Errorf("invalid override should keep the default, got %+v", recs)
	}

	if len(config.Whitelist) != 2 || !config.Whitelist["10.0.0.1"] || !config.Whitelist["10.0.0.2"] {
		t.Errorf("unexpected whitelist %v", config.Whitelist)
	}
	if !config.Blacklist["192.168.1.9"] {
		t.Errorf("unexpected blacklist %v", config.Blacklist)
	}
}

func TestLoadConfig_EndpointOverrideDisablesLimit(t *testing.T) {
	clearRateEnv(t)
	t.Setenv(EnvRecommendations, "0/1m")

	limiter := NewLimiter(LoadConfig())
	defer limiter.Stop()

	for i := 0; i < 50; i++ {
		if allowed, _ := limiter.Allow("client", "/api/recommendations", "POST"); !allowed {
			t.Fatalf("request %d limited with a zero override", i+1)
		}
	}
}

func TestLoadConfig_Disabled(t *testing.T) {
	clearRateEnv(t)
	t.Setenv(EnvEnabled, "false")

	if LoadConfig().Enabled {
		t.Error("expected rate limiting to be disabled")
	}
}

func TestParseRate(t *testing.T) {
	tests := []struct {
		in         string
		wantLimit  int
		wantWindow time.Duration
		wantErr    bool
	}{
		{"60/1m", 60, time.Minute, false},
		{" 10 / s ", 10, time.Second, false},
		{"100/h", 100, time.Hour, false},
		{"0/1m", 0, time.Minute, false},
		{"", 0, 0, true},
		{"60", 0, 0, true},
		{"-1/1m", 0, 0, true},
		{"x/1m", 0, 0, true},
		{"5/", 0, 0, true},
		{"5/0s", 0, 0, true},
		{"5/fortnight", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			limit, window, err := ParseRate(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %d/%v", limit, window)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if limit != tt.wantLimit || window != tt.wantWindow {
				t.Errorf("got %d/%v, want %d/%v", limit, window, tt.wantLimit, tt.wantWindow)
			}
		})
	}
}

func TestMatchEndpoint(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/api/recommendations", Method: "POST", Limit: 60, Window: time.Minute},
		{Path: "/api/", Limit: 500, Window: time.Minute},
		{Path: "/api/professors/", Method: "GET", Limit: 100, Window: time.Minute},
	}

	tests := []struct {
		name      string
		path      string
		method    string
		wantLimit int
		wantNil   bool
	}{
		{"exact", "/api/recommendations", "POST", 60, false},
		{"exact path, other method falls to prefix", "/api/recommendations", "GET", 500, false},
		{"longest prefix", "/api/professors/resolve", "GET", 100, false},
		{"any-method prefix", "/api/professors/resolve", "DELETE", 500, false},
		{"health unlimited", "/health", "GET", 0, false},
		{"metrics unlimited", "/metrics", "GET", 0, false},
		{"health POST is not special", "/health", "POST", 0, true},
		{"no match", "/other", "GET", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if tt.wantNil {
				if got != nil {
					t.Errorf("expected no match, got %+v", got)
				}
				return
			}
			if got == nil {
				t.Fatal("expected a match")
			}
			if got.Limit != tt.wantLimit {
				t.Errorf("expected limit %d, got %d", tt.wantLimit, got.Limit)
			}
		})
	}
}
