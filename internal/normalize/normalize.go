package normalize

import "strings"

// Result carries the raw input next to its case-folded form so rules can pick
// whichever view they were written against.
type Result struct {
	Raw        string
	Normalized string
}

func Apply(input string) Result {
	return Result{Raw: input, Normalized: strings.ToLower(input)}
}
