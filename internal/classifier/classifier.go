// Package classifier decides whether a URL string looks suspicious using an
// ordered table of heuristic rules. The first matching rule wins.
package classifier

import (
	"fmt"

	"github.com/phishguard/phishguard/internal/config"
	"github.com/phishguard/phishguard/internal/normalize"
	"github.com/phishguard/phishguard/internal/rules"
)

// Classifier is immutable after construction and safe for concurrent use.
type Classifier struct {
	engine *rules.Engine
}

func New(engine *rules.Engine) *Classifier {
	if engine == nil {
		engine = &rules.Engine{}
	}
	return &Classifier{engine: engine}
}

// FromConfig compiles the rule table in cfg.
func FromConfig(cfg *config.Config) (*Classifier, error) {
	engine, err := rules.Build(cfg)
	if err != nil {
		return nil, fmt.Errorf("build rules: %w", err)
	}
	return New(engine), nil
}

// Classify never fails: empty and malformed input yield a verdict like any
// other string.
func (c *Classifier) Classify(url string) Verdict {
	m, ok := c.engine.First(normalize.Apply(url))
	if !ok {
		return Verdict{Kind: Safe}
	}

	reason := m.Reason
	if reason == "" {
		reason = "Matched rule " + m.RuleID + "."
	}
	return Verdict{
		Kind:     Suspicious,
		Reason:   reason,
		RuleID:   m.RuleID,
		Evidence: m.Evidence,
	}
}

// Explain evaluates every rule, ignoring precedence, so callers can see all
// conditions that hold for url.
func (c *Classifier) Explain(url string) rules.Result {
	return c.engine.Evaluate(normalize.Apply(url))
}

// Rules returns the rule table in evaluation order.
func (c *Classifier) Rules() []rules.Rule {
	return append([]rules.Rule(nil), c.engine.Rules...)
}

var std = mustDefault()

func mustDefault() *Classifier {
	c, err := FromConfig(config.Default())
	if err != nil {
		panic(fmt.Sprintf("classifier: default rules: %v", err))
	}
	return c
}

// Default returns the classifier built from the built-in rule table.
func Default() *Classifier {
	return std
}

// Classify runs the built-in rule table.
func Classify(url string) Verdict {
	return std.Classify(url)
}
