package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/phishguard/phishguard/internal/classifier"
	"github.com/phishguard/phishguard/internal/presenter"
	"github.com/phishguard/phishguard/internal/risk"
	"github.com/phishguard/phishguard/internal/rules"
)

type checkOutput struct {
	URL       string         `json:"url"`
	View      presenter.View `json:"view"`
	Rule      string         `json:"rule,omitempty"`
	Evidence  string         `json:"evidence,omitempty"`
	Matches   []rules.Match  `json:"matches,omitempty"`
	Score     *int           `json:"score,omitempty"`
	Risk      *risk.Report   `json:"risk,omitempty"`
	RiskError string         `json:"risk_error,omitempty"`
}

func newCheckCmd() *cobra.Command {
	var configPath string
	var explain bool
	var withRisk bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "check <url>",
		Short: "Classify a single URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			c, err := classifier.FromConfig(cfg)
			if err != nil {
				return err
			}

			url := args[0]
			verdict := c.Classify(url)
			out := checkOutput{
				URL:      url,
				View:     presenter.Render(verdict),
				Rule:     verdict.RuleID,
				Evidence: verdict.Evidence,
			}

			if explain {
				result := c.Explain(url)
				out.Matches = result.Matches
				out.Score = &result.Score
			}

			if withRisk {
				assessor, err := risk.New(cfg.Risk.Keywords)
				if err != nil {
					return err
				}
				if rep, err := assessor.Assess(url); err != nil {
					out.RiskError = err.Error()
				} else {
					out.Risk = &rep
				}
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetEscapeHTML(false)
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}
			return writeCheckText(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file (default built-in rules)")
	cmd.Flags().BoolVar(&explain, "explain", false, "List every rule that matches, not only the first")
	cmd.Flags().BoolVar(&withRisk, "risk", false, "Include the additive risk report")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of text")

	return cmd
}

func writeCheckText(w io.Writer, out checkOutput) error {
	if _, err := fmt.Fprintf(w, "%s\n%s\n", out.View.Title, out.View.Detail); err != nil {
		return err
	}
	if out.Rule != "" {
		if _, err := fmt.Fprintf(w, "rule: %s (evidence %q)\n", out.Rule, out.Evidence); err != nil {
			return err
		}
	}

	if out.Score != nil {
		if _, err := fmt.Fprintf(w, "\nmatching rules (score %d):\n", *out.Score); err != nil {
			return err
		}
		if len(out.Matches) == 0 {
			if _, err := fmt.Fprintln(w, "  none"); err != nil {
				return err
			}
		}
		for _, m := range out.Matches {
			if _, err := fmt.Fprintf(w, "  - %s [%s] +%d %q\n", m.RuleID, m.Input, m.Score, m.Evidence); err != nil {
				return err
			}
		}
	}

	switch {
	case out.Risk != nil:
		if _, err := fmt.Fprintf(w, "\nrisk: %s (%d/100)\n", out.Risk.Verdict, out.Risk.RiskScore); err != nil {
			return err
		}
		for _, flag := range out.Risk.Flags {
			if _, err := fmt.Fprintf(w, "  - %s\n", flag); err != nil {
				return err
			}
		}
	case out.RiskError != "":
		if _, err := fmt.Fprintf(w, "\nrisk: %s\n", out.RiskError); err != nil {
			return err
		}
	}
	return nil
}
