package rules

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/phishguard/phishguard/internal/config"
)

// Build compiles the configured rule table. An empty table falls back to
// the built-in rules.
func Build(cfg *config.Config) (*Engine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	table := cfg.Rules
	if len(table) == 0 {
		table = config.DefaultRules()
	}

	rules := make([]Rule, 0, len(table))
	for _, raw := range table {
		compiled, err := compileRule(raw, cfg)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", raw.ID, err)
		}
		rules = append(rules, compiled)
	}

	return &Engine{Rules: rules}, nil
}

func compileRule(raw config.Rule, cfg *config.Config) (Rule, error) {
	input := Input(raw.Input)
	switch input {
	case InputRaw, InputNormalized:
	default:
		return Rule{}, fmt.Errorf("unknown input %q", raw.Input)
	}

	if raw.Reason == "" {
		return Rule{}, fmt.Errorf("reason is required")
	}

	pattern := raw.Match.Pattern
	if input == InputNormalized {
		pattern = strings.ToLower(pattern)
	}

	var matcher Matcher
	var err error
	switch MatchType(raw.Match.Type) {
	case MatchKeywords:
		patterns, readErr := keywordPatterns(raw.Match, cfg)
		if readErr != nil {
			return Rule{}, readErr
		}
		if input == InputNormalized {
			patterns = lowerAll(patterns)
		}
		matcher, err = NewAhoMatcher(patterns)
	case MatchRegex:
		if raw.Match.Pattern == "" {
			return Rule{}, fmt.Errorf("regex pattern is required")
		}
		// Regex patterns are taken verbatim; lowering would change escapes like \D.
		matcher, err = NewRegexMatcher(raw.Match.Pattern)
	case MatchPrefix:
		matcher, err = NewPrefixMatcher(pattern)
	case MatchContains:
		matcher, err = NewContainsMatcher(pattern)
	default:
		return Rule{}, fmt.Errorf("unknown match type %q", raw.Match.Type)
	}
	if err != nil {
		return Rule{}, err
	}

	return Rule{
		ID:      raw.ID,
		Input:   input,
		Reason:  raw.Reason,
		Score:   raw.Score,
		Tags:    append([]string(nil), raw.Tags...),
		Matcher: matcher,
	}, nil
}

// keywordPatterns prefers inline patterns, then a patterns file, then the
// top-level keyword list.
func keywordPatterns(match config.RuleMatch, cfg *config.Config) ([]string, error) {
	if len(match.Patterns) > 0 {
		return append([]string(nil), match.Patterns...), nil
	}
	if match.PatternsFile != "" {
		return readPatterns(cfg.ResolvePath(match.PatternsFile))
	}
	if len(cfg.Keywords) > 0 {
		return append([]string(nil), cfg.Keywords...), nil
	}
	return nil, fmt.Errorf("keywords are required")
}

func lowerAll(patterns []string) []string {
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, strings.ToLower(p))
	}
	return out
}

func readPatterns(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	var patterns []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return patterns, nil
}
