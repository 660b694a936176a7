package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "PHISHGUARD_"

// envKeys maps supported environment variables to koanf paths.
var envKeys = map[string]string{
	"KEYWORDS":                   "keywords",
	"SERVER_LISTEN":              "server.listen",
	"SERVER_READ_HEADER_TIMEOUT": "server.readheadertimeout",
	"SERVER_MAX_BODY_BYTES":      "server.maxbodybytes",
	"CACHE_SIZE":                 "cache.size",
	"RATELIMIT_ENABLED":          "ratelimit.enabled",
	"RATELIMIT_RPS":              "ratelimit.rps",
	"RATELIMIT_BURST":            "ratelimit.burst",
	"RATELIMIT_MAX_CLIENTS":      "ratelimit.maxclients",
	"RISK_KEYWORDS":              "risk.keywords",
	"PRESENTER_DELAY":            "presenter.delay",
	"LOGGING_ENV":                "logging.env",
	"LOGGING_LEVEL":              "logging.level",
	"METRICS_ENABLED":            "metrics.enabled",
	"METRICS_LISTEN":             "metrics.listen",
}

var listKeys = map[string]bool{
	"keywords":      true,
	"risk.keywords": true,
}

// envLoader is a var so tests can swap the provider.
var envLoader = func(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			path, ok := envKeys[strings.TrimPrefix(key, envPrefix)]
			if !ok {
				return "", nil
			}
			value = strings.TrimSpace(value)
			if listKeys[path] {
				return path, splitList(value)
			}
			return path, value
		},
	}), nil)
}

func splitList(value string) []string {
	parts := strings.FieldsFunc(value, func(r rune) bool {
		return r == ' ' || r == ','
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.ToLower(p))
	}
	return out
}

// ApplyEnv overlays PHISHGUARD_* environment variables onto cfg.
func ApplyEnv(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}

	k := koanf.New(".")
	if err := envLoader(k); err != nil {
		return fmt.Errorf("load env: %w", err)
	}

	if k.Exists("keywords") {
		cfg.Keywords = k.Strings("keywords")
	}
	if k.Exists("risk.keywords") {
		cfg.Risk.Keywords = k.Strings("risk.keywords")
	}
	if k.Exists("server.listen") {
		cfg.Server.Listen = k.String("server.listen")
	}
	if k.Exists("server.readheadertimeout") {
		cfg.Server.ReadHeaderTimeout = k.Duration("server.readheadertimeout")
	}
	if k.Exists("server.maxbodybytes") {
		cfg.Server.MaxBodyBytes = k.Int64("server.maxbodybytes")
	}
	if k.Exists("cache.size") {
		cfg.Cache.Size = k.Int("cache.size")
	}
	if k.Exists("ratelimit.enabled") {
		cfg.RateLimit.Enabled = k.Bool("ratelimit.enabled")
	}
	if k.Exists("ratelimit.rps") {
		cfg.RateLimit.RPS = k.Float64("ratelimit.rps")
	}
	if k.Exists("ratelimit.burst") {
		cfg.RateLimit.Burst = k.Int("ratelimit.burst")
	}
	if k.Exists("ratelimit.maxclients") {
		cfg.RateLimit.MaxClients = k.Int("ratelimit.maxclients")
	}
	if k.Exists("presenter.delay") {
		cfg.Presenter.Delay = k.Duration("presenter.delay")
	}
	if k.Exists("logging.env") {
		cfg.Logging.Env = k.String("logging.env")
	}
	if k.Exists("logging.level") {
		cfg.Logging.Level = strings.ToLower(k.String("logging.level"))
	}
	if k.Exists("metrics.enabled") {
		cfg.Metrics.Enabled = k.Bool("metrics.enabled")
	}
	if k.Exists("metrics.listen") {
		cfg.Metrics.Listen = k.String("metrics.listen")
	}

	return nil
}
