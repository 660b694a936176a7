package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/phishguard/phishguard/internal/classifier"
	"github.com/phishguard/phishguard/internal/presenter"
)

func newConsoleCmd() *cobra.Command {
	var configPath string
	var delay time.Duration

	cmd := &cobra.Command{
		Use:   "console",
		Short: "Interactive scanner reading one URL per line",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			c, err := classifier.FromConfig(cfg)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("delay") {
				delay = cfg.Presenter.Delay
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runConsole(ctx, presenter.New(c, delay), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file (default built-in rules)")
	cmd.Flags().DurationVar(&delay, "delay", 0, "Simulated scan delay (default presenter.delay)")

	return cmd
}

func runConsole(ctx context.Context, p *presenter.Presenter, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprintln(out, "Paste a link and press enter. Ctrl-D quits.")

	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line != "" && !presenter.LooksLikeLink(line) {
			fmt.Fprintln(out, "(that does not look like a link, scanning anyway)")
		}
		if line != "" {
			fmt.Fprintln(out, presenter.ScanningText)
		}

		view, err := p.Scan(ctx, line)
		switch {
		case errors.Is(err, presenter.ErrEmptyInput):
			fmt.Fprintln(out, err)
			continue
		case errors.Is(err, context.Canceled):
			return nil
		case err != nil:
			return err
		}
		fmt.Fprintf(out, "%s\n%s\n\n", view.Title, view.Detail)
	}
}
