package config

import "time"

const (
	ReasonKeywords       = "Suspicious keywords detected (Social Engineering)."
	ReasonRawIP          = "Raw IP address usage detected (High Risk)."
	ReasonInsecureScheme = "Unsecured connection (HTTP)."
)

// RawIPPattern finds a dotted quad anywhere in the input. Octets are not
// range checked: 999.999.999.999 matches.
const RawIPPattern = `\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}`

// DefaultKeywords returns the flagged substrings used by the keyword rule.
func DefaultKeywords() []string {
	return []string{"free", "prize", "login", "bank", "verify", "ngrok", "secure-account", "update-now"}
}

// DefaultRules returns the built-in rule table in evaluation order. The
// keyword rule reads the top-level keyword list.
func DefaultRules() []Rule {
	return []Rule{
		{
			ID:     "social-engineering-keywords",
			Input:  InputNormalized,
			Reason: ReasonKeywords,
			Score:  20,
			Tags:   []string{"social-engineering"},
			Match:  RuleMatch{Type: MatchKeywords},
		},
		{
			ID:     "raw-ip-address",
			Input:  InputRaw,
			Reason: ReasonRawIP,
			Score:  50,
			Tags:   []string{"raw-ip"},
			Match:  RuleMatch{Type: MatchRegex, Pattern: RawIPPattern},
		},
		{
			ID:     "insecure-scheme",
			Input:  InputNormalized,
			Reason: ReasonInsecureScheme,
			Score:  10,
			Tags:   []string{"transport"},
			Match:  RuleMatch{Type: MatchPrefix, Pattern: "http://"},
		},
	}
}

func Default() *Config {
	return &Config{
		ConfigVersion: 1,
		Keywords:      DefaultKeywords(),
		Rules:         DefaultRules(),
		Server: ServerConfig{
			Listen:            ":8080",
			ReadHeaderTimeout: 5 * time.Second,
			MaxBodyBytes:      64 << 10,
		},
		Cache:     CacheConfig{Size: 1024},
		RateLimit: RateLimitConfig{Enabled: false, RPS: 5, Burst: 10, MaxClients: 10000},
		Presenter: PresenterConfig{Delay: 1500 * time.Millisecond},
		Logging:   LoggingConfig{Env: "prod", Level: "info"},
		Metrics:   MetricsConfig{Enabled: false, Listen: ":9090"},
	}
}
