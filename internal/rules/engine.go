package rules

import "github.com/phishguard/phishguard/internal/normalize"

// Engine holds an ordered, immutable rule table. It is safe for concurrent use
// once built.
type Engine struct {
	Rules []Rule
}

// First returns the first rule in table order that matches. Rules after it
// are not evaluated.
func (e *Engine) First(in normalize.Result) (Match, bool) {
	if e == nil {
		return Match{}, false
	}
	for _, rule := range e.Rules {
		if m, ok := evaluate(rule, in); ok {
			return m, true
		}
	}
	return Match{}, false
}

// Evaluate runs every rule and reports all matches with their summed score.
func (e *Engine) Evaluate(in normalize.Result) Result {
	result := Result{}
	if e == nil {
		return result
	}

	for _, rule := range e.Rules {
		m, ok := evaluate(rule, in)
		if !ok {
			continue
		}
		result.Score += m.Score
		result.Matches = append(result.Matches, m)
	}

	return result
}

func evaluate(rule Rule, in normalize.Result) (Match, bool) {
	if rule.Matcher == nil {
		return Match{}, false
	}
	input, ok := selectInput(in, rule.Input)
	if !ok {
		return Match{}, false
	}

	matched, evidence := rule.Matcher.Match(input)
	if !matched {
		return Match{}, false
	}

	return Match{
		RuleID:   rule.ID,
		Input:    rule.Input,
		Reason:   rule.Reason,
		Score:    rule.Score,
		Tags:     append([]string(nil), rule.Tags...),
		Evidence: evidence,
	}, true
}

func selectInput(in normalize.Result, input Input) (string, bool) {
	switch input {
	case InputRaw:
		return in.Raw, true
	case InputNormalized:
		return in.Normalized, true
	default:
		return "", false
	}
}
