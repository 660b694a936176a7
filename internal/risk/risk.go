// Package risk produces an additive risk report for a URL. Unlike the
// classifier it evaluates every signal and scores them together.
package risk

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/phishguard/phishguard/internal/rules"
)

var ErrInvalidURL = errors.New("invalid URL format")

type Level string

const (
	LevelSafe       Level = "Safe"
	LevelSuspicious Level = "Suspicious"
	LevelDangerous  Level = "Dangerous"
)

const (
	maxScore = 100

	rawIPScore     = 50
	keywordScore   = 20
	atSignScore    = 40
	subdomainScore = 10
	lengthScore    = 10

	maxHostDots   = 3
	maxURLLength  = 75
	suspiciousMin = 30
	dangerousMin  = 70
)

var controlStripper = strings.NewReplacer("\t", "", "\r", "", "\n", "")

var hostIPPattern = regexp.MustCompile(`^\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}$`)

// DefaultKeywords is the broader word list used for scoring.
func DefaultKeywords() []string {
	return []string{
		"login", "verify", "update", "secure", "bank",
		"account", "signin", "confirm", "wallet", "free",
		"prize", "bonus", "paypal", "netflix", "amazon",
	}
}

type Report struct {
	URL       string   `json:"url"`
	RiskScore int      `json:"risk_score"`
	Verdict   Level    `json:"verdict"`
	Flags     []string `json:"flags"`
}

// Assessor is immutable after construction and safe for concurrent use.
type Assessor struct {
	keywords *rules.AhoMatcher
}

// New builds an Assessor. A nil or empty list selects DefaultKeywords.
func New(keywords []string) (*Assessor, error) {
	if len(keywords) == 0 {
		keywords = DefaultKeywords()
	}
	lowered := make([]string, 0, len(keywords))
	for _, k := range keywords {
		lowered = append(lowered, strings.ToLower(k))
	}
	matcher, err := rules.NewAhoMatcher(lowered)
	if err != nil {
		return nil, fmt.Errorf("risk keywords: %w", err)
	}
	return &Assessor{keywords: matcher}, nil
}

// Assess scores raw. A scheme is assumed when raw has neither http:// nor
// https://. Only an unbalanced IPv6 bracket in the host returns an error.
func (a *Assessor) Assess(raw string) (Report, error) {
	target := raw
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		target = "http://" + target
	}

	authority, err := splitAuthority(target)
	if err != nil {
		return Report{}, err
	}

	score := 0
	flags := []string{}

	if hostIPPattern.MatchString(authority) {
		score += rawIPScore
		flags = append(flags, "URL uses raw IP address")
	}

	if found := a.keywords.MatchAll(strings.ToLower(target)); len(found) > 0 {
		score += keywordScore * len(found)
		flags = append(flags, fmt.Sprintf("Suspicious keywords found: [%s]", strings.Join(found, ", ")))
	}

	if strings.Contains(target, "@") {
		score += atSignScore
		flags = append(flags, "Contains '@' symbol (Obfuscation technique)")
	}

	if dots := strings.Count(authority, "."); dots > maxHostDots {
		score += subdomainScore
		flags = append(flags, fmt.Sprintf("High number of subdomains (%d dots)", dots))
	}

	if utf8.RuneCountInString(target) > maxURLLength {
		score += lengthScore
		flags = append(flags, "URL is suspiciously long")
	}

	if score > maxScore {
		score = maxScore
	}

	return Report{
		URL:       target,
		RiskScore: score,
		Verdict:   levelFor(score),
		Flags:     flags,
	}, nil
}

// splitAuthority returns everything between "://" and the first '/', '?' or
// '#', userinfo included. Spaces and stray escapes are kept as-is; only an
// unbalanced IPv6 bracket is rejected.
func splitAuthority(target string) (string, error) {
	_, rest, ok := strings.Cut(target, "://")
	if !ok {
		return "", nil
	}
	rest = controlStripper.Replace(rest)
	if i := strings.IndexAny(rest, "/?#"); i >= 0 {
		rest = rest[:i]
	}
	if strings.Contains(rest, "[") != strings.Contains(rest, "]") {
		return "", fmt.Errorf("%w: unbalanced brackets in host %q", ErrInvalidURL, rest)
	}
	return rest, nil
}

func levelFor(score int) Level {
	switch {
	case score > dangerousMin:
		return LevelDangerous
	case score > suspiciousMin:
		return LevelSuspicious
	default:
		return LevelSafe
	}
}
