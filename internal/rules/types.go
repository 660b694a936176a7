package rules

// Input selects which view of the URL a rule reads.
type Input string

type MatchType string

const (
	InputRaw        Input = "raw"
	InputNormalized Input = "normalized"
)

const (
	MatchKeywords MatchType = "keywords"
	MatchRegex    MatchType = "regex"
	MatchPrefix   MatchType = "prefix"
	MatchContains MatchType = "contains"
)

type Rule struct {
	ID      string
	Input   Input
	Reason  string
	Score   int
	Tags    []string
	Matcher Matcher
}

type Match struct {
	RuleID   string   `json:"rule"`
	Input    Input    `json:"input"`
	Reason   string   `json:"reason"`
	Score    int      `json:"score"`
	Tags     []string `json:"tags,omitempty"`
	Evidence string   `json:"evidence"`
}

type Result struct {
	Score   int
	Matches []Match
}

// Matcher returns true if the input matches and a short evidence snippet
// (max 64 bytes) of what matched.
type Matcher interface {
	Match(input string) (bool, string)
}
