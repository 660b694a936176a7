package rules

import "errors"

// AhoMatcher finds any of a fixed set of byte patterns in a single pass.
// Patterns keep their declared order; duplicates collapse to the first.
type AhoMatcher struct {
	nodes    []ahoNode
	patterns []string
}

type ahoNode struct {
	next map[byte]int
	fail int
	out  []int // indexes into patterns
}

func NewAhoMatcher(patterns []string) (*AhoMatcher, error) {
	if len(patterns) == 0 {
		return nil, errors.New("patterns are required")
	}

	m := &AhoMatcher{nodes: []ahoNode{{next: map[byte]int{}, fail: 0}}}
	seen := make(map[string]struct{}, len(patterns))
	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}
		if _, dup := seen[pattern]; dup {
			continue
		}
		seen[pattern] = struct{}{}
		m.patterns = append(m.patterns, pattern)
		m.insert(pattern, len(m.patterns)-1)
	}

	if len(m.patterns) == 0 {
		return nil, errors.New("no non-empty patterns")
	}

	m.link()
	return m, nil
}

func (m *AhoMatcher) insert(pattern string, idx int) {
	current := 0
	for i := 0; i < len(pattern); i++ {
		b := pattern[i]
		next, ok := m.nodes[current].next[b]
		if !ok {
			m.nodes = append(m.nodes, ahoNode{next: map[byte]int{}, fail: 0})
			next = len(m.nodes) - 1
			m.nodes[current].next[b] = next
		}
		current = next
	}
	m.nodes[current].out = append(m.nodes[current].out, idx)
}

// link computes failure transitions breadth first.
func (m *AhoMatcher) link() {
	queue := make([]int, 0, len(m.nodes))
	for _, next := range m.nodes[0].next {
		m.nodes[next].fail = 0
		queue = append(queue, next)
	}

	for len(queue) > 0 {
		state := queue[0]
		queue = queue[1:]

		for b, next := range m.nodes[state].next {
			fail := m.nodes[state].fail
			for fail != 0 {
				if _, ok := m.nodes[fail].next[b]; ok {
					break
				}
				fail = m.nodes[fail].fail
			}
			if target, ok := m.nodes[fail].next[b]; ok && target != next {
				m.nodes[next].fail = target
			} else {
				m.nodes[next].fail = 0
			}
			m.nodes[next].out = append(m.nodes[next].out, m.nodes[m.nodes[next].fail].out...)
			queue = append(queue, next)
		}
	}
}

func (m *AhoMatcher) step(state int, b byte) int {
	for state != 0 {
		if next, ok := m.nodes[state].next[b]; ok {
			return next
		}
		state = m.nodes[state].fail
	}
	if next, ok := m.nodes[0].next[b]; ok {
		return next
	}
	return 0
}

// Match stops at the first position where any pattern ends.
func (m *AhoMatcher) Match(input string) (bool, string) {
	state := 0
	for i := 0; i < len(input); i++ {
		state = m.step(state, input[i])
		if out := m.nodes[state].out; len(out) > 0 {
			return true, evidence(m.patterns[out[0]])
		}
	}
	return false, ""
}

// MatchAll returns every distinct pattern present in input, in pattern order.
func (m *AhoMatcher) MatchAll(input string) []string {
	found := make([]bool, len(m.patterns))
	count := 0
	state := 0
	for i := 0; i < len(input) && count < len(m.patterns); i++ {
		state = m.step(state, input[i])
		for _, idx := range m.nodes[state].out {
			if !found[idx] {
				found[idx] = true
				count++
			}
		}
	}

	if count == 0 {
		return nil
	}
	out := make([]string, 0, count)
	for idx, ok := range found {
		if ok {
			out = append(out, m.patterns[idx])
		}
	}
	return out
}

// Patterns returns the deduplicated pattern list.
func (m *AhoMatcher) Patterns() []string {
	return append([]string(nil), m.patterns...)
}
