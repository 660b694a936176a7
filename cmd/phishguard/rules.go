package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/phishguard/phishguard/internal/classifier"
)

func newRulesCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Print the effective rule table in evaluation order",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			c, err := classifier.FromConfig(cfg)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "#\tID\tINPUT\tSCORE\tTAGS\tREASON")
			for i, rule := range c.Rules() {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\n",
					i+1, rule.ID, rule.Input, rule.Score, strings.Join(rule.Tags, ","), rule.Reason)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file (default built-in rules)")

	return cmd
}
