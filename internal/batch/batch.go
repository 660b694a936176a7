// Package batch classifies lists of URLs concurrently.
package batch

import (
	"bufio"
	"context"
	"io"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/phishguard/phishguard/internal/classifier"
)

type Classifier interface {
	Classify(url string) classifier.Verdict
}

// ReadURLs returns one URL per non-blank line. Lines starting with # are
// comments. Surrounding whitespace is trimmed.
func ReadURLs(r io.Reader) ([]string, error) {
	var urls []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return urls, nil
}

// Run classifies urls with at most workers goroutines. Verdicts line up with
// urls by index. It stops early only when ctx is done.
func Run(ctx context.Context, c Classifier, urls []string, workers int) ([]classifier.Verdict, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	verdicts := make([]classifier.Verdict, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, u := range urls {
		if err := gctx.Err(); err != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			verdicts[i] = c.Classify(u)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return verdicts, nil
}
