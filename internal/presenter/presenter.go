// Package presenter turns classifier verdicts into what a front end shows.
// It owns the simulated scan delay; the classifier itself never waits.
package presenter

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/phishguard/phishguard/internal/classifier"
)

var ErrEmptyInput = errors.New("please enter a URL")

const (
	ThreatTitle  = "⚠️ THREAT DETECTED"
	SafeTitle    = "✅ LINK VERIFIED SAFE"
	SafeDetail   = "No known threats found in local database."
	ThreatColor  = "#FF0033"
	SafeColor    = "#00FF41"
	ScanningText = "SCANNING..."
)

type View struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Color  string `json:"color"`
	Threat bool   `json:"threat"`
}

// Classifier is the subset of *classifier.Classifier the presenter needs.
type Classifier interface {
	Classify(url string) classifier.Verdict
}

type Presenter struct {
	Classifier Classifier
	Delay      time.Duration
}

func New(c Classifier, delay time.Duration) *Presenter {
	if c == nil {
		c = classifier.Default()
	}
	return &Presenter{Classifier: c, Delay: delay}
}

// Scan waits out the configured delay, then classifies url. Cancelling ctx
// abandons the scan without touching the classifier.
func (p *Presenter) Scan(ctx context.Context, url string) (View, error) {
	if url == "" {
		return View{}, ErrEmptyInput
	}

	if p.Delay > 0 {
		timer := time.NewTimer(p.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return View{}, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return View{}, err
	}

	return Render(p.Classifier.Classify(url)), nil
}

func Render(v classifier.Verdict) View {
	if v.IsSuspicious() {
		return View{Title: ThreatTitle, Detail: v.Reason, Color: ThreatColor, Threat: true}
	}
	return View{Title: SafeTitle, Detail: SafeDetail, Color: SafeColor}
}

// LooksLikeLink reports whether clipboard text is worth pre-filling.
func LooksLikeLink(text string) bool {
	return strings.Contains(text, "http") || strings.Contains(text, "www")
}
