package config

import "time"

type Config struct {
	ConfigVersion int             `yaml:"configVersion" validate:"eq=1"`
	Keywords      []string        `yaml:"keywords" validate:"required,min=1,dive,required"`
	Rules         []Rule          `yaml:"rules" validate:"required,min=1,dive"`
	Server        ServerConfig    `yaml:"server"`
	Cache         CacheConfig     `yaml:"cache"`
	RateLimit     RateLimitConfig `yaml:"rateLimit"`
	Risk          RiskConfig      `yaml:"risk"`
	Presenter     PresenterConfig `yaml:"presenter"`
	Logging       LoggingConfig   `yaml:"logging"`
	Metrics       MetricsConfig   `yaml:"metrics"`

	baseDir string `yaml:"-"`
}

type ServerConfig struct {
	Listen            string        `yaml:"listen" validate:"required,hostname_port"`
	ReadHeaderTimeout time.Duration `yaml:"readHeaderTimeout" validate:"gt=0"`
	MaxBodyBytes      int64         `yaml:"maxBodyBytes" validate:"gt=0"`
}

type CacheConfig struct {
	// Size <= 0 disables verdict caching.
	Size int `yaml:"size"`
}

type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled"`
	RPS     float64 `yaml:"rps"`
	Burst   int     `yaml:"burst"`
	// MaxClients caps tracked client buckets; <= 0 uses the limiter default.
	MaxClients int `yaml:"maxClients"`
}

type RiskConfig struct {
	Keywords []string `yaml:"keywords" validate:"dive,required"`
}

type PresenterConfig struct {
	Delay time.Duration `yaml:"delay" validate:"gte=0"`
}

// Rule is the declarative form of a classification rule. Order in the
// config is evaluation order.
type Rule struct {
	ID     string    `yaml:"id" validate:"required"`
	Input  string    `yaml:"input" validate:"oneof=raw normalized"`
	Reason string    `yaml:"reason" validate:"required"`
	Score  int       `yaml:"score" validate:"gte=0"`
	Tags   []string  `yaml:"tags"`
	Match  RuleMatch `yaml:"match"`
}

type RuleMatch struct {
	Type         string   `yaml:"type" validate:"oneof=keywords regex prefix contains"`
	Pattern      string   `yaml:"pattern"`
	Patterns     []string `yaml:"patterns"`
	PatternsFile string   `yaml:"patternsFile"`
}

type LoggingConfig struct {
	Env   string `yaml:"env" validate:"oneof=dev prod"`
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

const (
	InputRaw        = "raw"
	InputNormalized = "normalized"
)

const (
	MatchKeywords = "keywords"
	MatchRegex    = "regex"
	MatchPrefix   = "prefix"
	MatchContains = "contains"
)

func (c *Config) BaseDir() string {
	return c.baseDir
}

func (c *Config) ResolvePath(path string) string {
	return c.resolvePath(path)
}
