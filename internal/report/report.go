package report

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/phishguard/phishguard/internal/classifier"
)

const maxEvidence = 64

// Entry is one classified URL, written as a single JSON object per line.
type Entry struct {
	URL      string `json:"url"`
	Verdict  string `json:"verdict"`
	Reason   string `json:"reason,omitempty"`
	RuleID   string `json:"rule,omitempty"`
	Evidence string `json:"evidence,omitempty"`
}

type Summary struct {
	Total      int         `json:"total"`
	Safe       int         `json:"safe"`
	Suspicious int         `json:"suspicious"`
	TopRules   []CountItem `json:"top_rules"`
	TopReasons []CountItem `json:"top_reasons"`
}

type CountItem struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

func NewEntry(url string, v classifier.Verdict) Entry {
	e := Entry{
		URL:      url,
		Verdict:  v.Kind.String(),
		Reason:   v.Reason,
		RuleID:   v.RuleID,
		Evidence: v.Evidence,
	}
	if len(e.Evidence) > maxEvidence {
		e.Evidence = e.Evidence[:maxEvidence]
	}
	return e
}

// Entries pairs urls with their verdicts; both slices must be the same length.
func Entries(urls []string, verdicts []classifier.Verdict) []Entry {
	n := len(urls)
	if len(verdicts) < n {
		n = len(verdicts)
	}
	out := make([]Entry, n)
	for i := 0; i < n; i++ {
		out[i] = NewEntry(urls[i], verdicts[i])
	}
	return out
}

// ReadJSONL loads entries previously written by WriteJSONL.
func ReadJSONL(r io.Reader) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(text), &e); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func WriteJSONL(w io.Writer, entries []Entry) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, e := range entries {
		if err := enc.Encode(e); err != nil {
			return err
		}
	}
	return nil
}

func Summarize(entries []Entry) Summary {
	var summary Summary
	if len(entries) == 0 {
		return summary
	}

	ruleCounts := map[string]int{}
	reasonCounts := map[string]int{}

	for _, e := range entries {
		summary.Total++
		switch e.Verdict {
		case classifier.Suspicious.String():
			summary.Suspicious++
			if e.RuleID != "" {
				ruleCounts[e.RuleID]++
			}
			if e.Reason != "" {
				reasonCounts[e.Reason]++
			}
		default:
			summary.Safe++
		}
	}

	summary.TopRules = topCounts(ruleCounts, 5)
	summary.TopReasons = topCounts(reasonCounts, 5)

	return summary
}

func topCounts(counts map[string]int, n int) []CountItem {
	items := make([]CountItem, 0, len(counts))
	for key, count := range counts {
		items = append(items, CountItem{Key: key, Count: count})
	}
	if len(items) == 0 {
		return nil
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Count == items[j].Count {
			return items[i].Key < items[j].Key
		}
		return items[i].Count > items[j].Count
	})

	if len(items) > n {
		items = items[:n]
	}
	return items
}

func RenderText(summary Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total: %d\n", summary.Total)
	fmt.Fprintf(&b, "Safe: %d\n", summary.Safe)
	fmt.Fprintf(&b, "Suspicious: %d\n", summary.Suspicious)

	writeCounts(&b, "Top rules", summary.TopRules)
	writeCounts(&b, "Top reasons", summary.TopReasons)

	return b.String()
}

func RenderMarkdown(summary Summary) string {
	var b strings.Builder
	b.WriteString("# PhishGuard Report\n\n")
	b.WriteString("## Totals\n\n")
	fmt.Fprintf(&b, "- Total: %d\n", summary.Total)
	fmt.Fprintf(&b, "- Safe: %d\n", summary.Safe)
	fmt.Fprintf(&b, "- Suspicious: %d\n\n", summary.Suspicious)

	writeCountsMarkdown(&b, "Top rules", summary.TopRules)
	writeCountsMarkdown(&b, "Top reasons", summary.TopReasons)

	return b.String()
}

func RenderJSON(summary Summary) ([]byte, error) {
	return json.MarshalIndent(summary, "", "  ")
}

func writeCounts(b *strings.Builder, title string, items []CountItem) {
	if len(items) == 0 {
		fmt.Fprintf(b, "%s: none\n", title)
		return
	}
	fmt.Fprintf(b, "%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "- %s: %d\n", item.Key, item.Count)
	}
}

func writeCountsMarkdown(b *strings.Builder, title string, items []CountItem) {
	b.WriteString("## ")
	b.WriteString(title)
	b.WriteString("\n\n")
	if len(items) == 0 {
		b.WriteString("- none\n\n")
		return
	}
	for _, item := range items {
		fmt.Fprintf(b, "- %s: %d\n", item.Key, item.Count)
	}
	b.WriteString("\n")
}

// WriteOutput writes content to path, or to w when path is empty.
func WriteOutput(w io.Writer, path string, content []byte) error {
	if path == "" {
		_, err := io.Copy(w, bytes.NewReader(content))
		return err
	}
	return os.WriteFile(path, content, 0o600)
}
