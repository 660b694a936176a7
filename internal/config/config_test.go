package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			t.Fatalf("default config invalid: %v", verr.Problems)
		}
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestDefaultRuleOrder(t *testing.T) {
	rules := DefaultRules()
	want := []string{"social-engineering-keywords", "raw-ip-address", "insecure-scheme"}
	if len(rules) != len(want) {
		t.Fatalf("expected %d rules, got %d", len(want), len(rules))
	}
	for i, id := range want {
		if rules[i].ID != id {
			t.Fatalf("rules[%d] expected %q, got %q", i, id, rules[i].ID)
		}
	}
}

func TestParseKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte("configVersion: 1\nkeywords: [paypal, wallet]\nserver:\n  listen: \":9999\"\n"))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(cfg.Keywords) != 2 || cfg.Keywords[0] != "paypal" {
		t.Fatalf("expected keywords replaced, got %v", cfg.Keywords)
	}
	if cfg.Server.Listen != ":9999" {
		t.Fatalf("expected listen override, got %q", cfg.Server.Listen)
	}
	if cfg.Server.ReadHeaderTimeout != 5*time.Second {
		t.Fatalf("expected default read header timeout, got %v", cfg.Server.ReadHeaderTimeout)
	}
	if len(cfg.Rules) != 3 {
		t.Fatalf("expected default rules kept, got %d", len(cfg.Rules))
	}
}

func TestLoadResolvesBaseDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "phishguard.yaml")
	if err := os.WriteFile(path, []byte("configVersion: 1\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.BaseDir() != dir {
		t.Fatalf("expected base dir %q, got %q", dir, cfg.BaseDir())
	}
	if got := cfg.ResolvePath("words.txt"); got != filepath.Join(dir, "words.txt") {
		t.Fatalf("unexpected resolved path %q", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("PHISHGUARD_KEYWORDS", "Paypal, wallet")
	t.Setenv("PHISHGUARD_SERVER_LISTEN", "127.0.0.1:7070")
	t.Setenv("PHISHGUARD_CACHE_SIZE", "0")
	t.Setenv("PHISHGUARD_PRESENTER_DELAY", "250ms")
	t.Setenv("PHISHGUARD_LOGGING_LEVEL", "DEBUG")
	t.Setenv("PHISHGUARD_RATELIMIT_ENABLED", "true")
	t.Setenv("PHISHGUARD_RATELIMIT_MAX_CLIENTS", "500")
	t.Setenv("PHISHGUARD_UNKNOWN", "ignored")

	cfg := Default()
	if err := ApplyEnv(cfg); err != nil {
		t.Fatalf("ApplyEnv error: %v", err)
	}

	if strings.Join(cfg.Keywords, ",") != "paypal,wallet" {
		t.Fatalf("unexpected keywords %v", cfg.Keywords)
	}
	if cfg.Server.Listen != "127.0.0.1:7070" {
		t.Fatalf("unexpected listen %q", cfg.Server.Listen)
	}
	if cfg.Cache.Size != 0 {
		t.Fatalf("expected cache disabled, got %d", cfg.Cache.Size)
	}
	if cfg.Presenter.Delay != 250*time.Millisecond {
		t.Fatalf("unexpected delay %v", cfg.Presenter.Delay)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected level %q", cfg.Logging.Level)
	}
	if !cfg.RateLimit.Enabled {
		t.Fatal("expected rate limit enabled")
	}
	if cfg.RateLimit.MaxClients != 500 {
		t.Fatalf("unexpected max clients %d", cfg.RateLimit.MaxClients)
	}
}

func TestValidateProblems(t *testing.T) {
	cfg := Default()
	cfg.ConfigVersion = 2
	cfg.Keywords = nil
	cfg.Server.Listen = "not-an-address"
	cfg.Logging.Level = "loud"
	cfg.Rules = append(cfg.Rules,
		Rule{ID: "raw-ip-address", Input: InputRaw, Reason: "dup", Match: RuleMatch{Type: MatchRegex, Pattern: "("}},
		Rule{ID: "odd", Input: "sideways", Reason: "x", Match: RuleMatch{Type: MatchPrefix}},
	)

	err := cfg.Validate()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	joined := strings.Join(verr.Problems, "\n")
	for _, want := range []string{
		"configVersion failed eq=1 validation",
		"keywords failed required validation",
		"server.listen failed hostname_port validation",
		"logging.level failed oneof=debug info warn error validation",
		`rules[3].id "raw-ip-address" is duplicated`,
		"rules[3].match.pattern invalid",
		"rules[4].input failed oneof=raw normalized validation",
		"rules[4].match.pattern is required for prefix",
	} {
		if !strings.Contains(joined, want) {
			t.Fatalf("expected problem %q in:\n%s", want, joined)
		}
	}
}

func TestValidateConditionalSections(t *testing.T) {
	cfg := Default()
	cfg.RateLimit = RateLimitConfig{Enabled: true}
	cfg.Metrics = MetricsConfig{Enabled: true, Listen: ""}
	cfg.Rules[0].Match.PatternsFile = "does-not-exist.txt"

	err := cfg.Validate()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Problems) != 4 {
		t.Fatalf("expected 4 problems, got %v", verr.Problems)
	}
}

func TestSampleConfigMatchesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "configs", "phishguard.yaml"))
	if err != nil {
		t.Fatalf("load sample: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sample config invalid: %v", err)
	}

	defaults := Default()
	if len(cfg.Rules) != len(defaults.Rules) {
		t.Fatalf("expected %d rules, got %d", len(defaults.Rules), len(cfg.Rules))
	}
	for i, rule := range cfg.Rules {
		want := defaults.Rules[i]
		if rule.ID != want.ID || rule.Reason != want.Reason || rule.Input != want.Input {
			t.Fatalf("rule %d: got %+v, want %+v", i, rule, want)
		}
		if rule.Match.Type != want.Match.Type || rule.Match.Pattern != want.Match.Pattern {
			t.Fatalf("rule %d match: got %+v, want %+v", i, rule.Match, want.Match)
		}
	}
	if strings.Join(cfg.Keywords, ",") != strings.Join(defaults.Keywords, ",") {
		t.Fatalf("keywords differ: %v", cfg.Keywords)
	}
}
