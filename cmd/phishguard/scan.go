package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/phishguard/phishguard/internal/batch"
	"github.com/phishguard/phishguard/internal/classifier"
	"github.com/phishguard/phishguard/internal/report"
)

func newScanCmd() *cobra.Command {
	var configPath string
	var inputPath string
	var format string
	var outPath string
	var workers int

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Classify a list of URLs, one per line",
		RunE: func(cmd *cobra.Command, args []string) error {
			if inputPath == "" {
				return errors.New("input path is required")
			}
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			c, err := classifier.FromConfig(cfg)
			if err != nil {
				return err
			}

			urls, err := readURLList(cmd.InOrStdin(), inputPath)
			if err != nil {
				return err
			}
			verdicts, err := batch.Run(cmd.Context(), c, urls, workers)
			if err != nil {
				return err
			}
			entries := report.Entries(urls, verdicts)

			content, err := renderEntries(entries, format)
			if err != nil {
				return err
			}
			return report.WriteOutput(cmd.OutOrStdout(), outPath, content)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file (default built-in rules)")
	cmd.Flags().StringVar(&inputPath, "in", "", "File with one URL per line, or - for stdin")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text|md|json|jsonl")
	cmd.Flags().StringVar(&outPath, "out", "", "Output file path (default stdout)")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent classifiers (default GOMAXPROCS)")

	return cmd
}

func readURLList(stdin io.Reader, path string) ([]string, error) {
	if path == "-" {
		return batch.ReadURLs(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()
	return batch.ReadURLs(f)
}

func renderEntries(entries []report.Entry, format string) ([]byte, error) {
	if format == "jsonl" {
		var buf bytes.Buffer
		if err := report.WriteJSONL(&buf, entries); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return renderSummary(report.Summarize(entries), format)
}

func renderSummary(summary report.Summary, format string) ([]byte, error) {
	switch format {
	case "", "text":
		return []byte(report.RenderText(summary)), nil
	case "md":
		return []byte(report.RenderMarkdown(summary)), nil
	case "json":
		return report.RenderJSON(summary)
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}
