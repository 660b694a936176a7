package rules

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

const maxEvidence = 64

// evidence clips s to maxEvidence bytes without splitting a rune.
func evidence(s string) string {
	if len(s) <= maxEvidence {
		return s
	}
	cut := maxEvidence
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// RegexMatcher matches anywhere in the input; patterns are not anchored.
type RegexMatcher struct {
	re *regexp.Regexp
}

func NewRegexMatcher(pattern string) (*RegexMatcher, error) {
	if pattern == "" {
		return nil, errors.New("regex pattern is required")
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return &RegexMatcher{re: re}, nil
}

func (m *RegexMatcher) Match(input string) (bool, string) {
	found := m.re.FindString(input)
	if found == "" && !m.re.MatchString(input) {
		return false, ""
	}
	return true, evidence(found)
}

type PrefixMatcher struct {
	prefix string
}

func NewPrefixMatcher(prefix string) (*PrefixMatcher, error) {
	if prefix == "" {
		return nil, errors.New("prefix is required")
	}
	return &PrefixMatcher{prefix: prefix}, nil
}

func (m *PrefixMatcher) Match(input string) (bool, string) {
	if strings.HasPrefix(input, m.prefix) {
		return true, evidence(m.prefix)
	}
	return false, ""
}

type ContainsMatcher struct {
	needle string
}

func NewContainsMatcher(needle string) (*ContainsMatcher, error) {
	if needle == "" {
		return nil, errors.New("pattern is required")
	}
	return &ContainsMatcher{needle: needle}, nil
}

func (m *ContainsMatcher) Match(input string) (bool, string) {
	if strings.Contains(input, m.needle) {
		return true, evidence(m.needle)
	}
	return false, ""
}
