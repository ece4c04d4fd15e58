package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hamed0406/statusmap/internal/config"
	"github.com/hamed0406/statusmap/internal/domain"
	"github.com/hamed0406/statusmap/internal/logging"
	"github.com/hamed0406/statusmap/internal/notify"
	"github.com/hamed0406/statusmap/internal/poller"
	"github.com/hamed0406/statusmap/internal/reconcile"
	"github.com/hamed0406/statusmap/internal/search"
)

var (
	statusURL string
	timeout   time.Duration
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	root := &cobra.Command{
		Use:           "statusmap",
		Short:         "Watch and query the status map from a terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&statusURL, "url", cfg.StatusURL, "status endpoint (snapshot JSON)")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "HTTP timeout")

	root.AddCommand(watchCmd(cfg), showCmd(), searchCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func watchCmd(cfg config.Config) *cobra.Command {
	var (
		interval time.Duration
		recovery bool
		quiet    bool
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll the status endpoint and ring on every host that goes DOWN",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.NewConsole(cfg.LogLevel)
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			bell := notify.NewBell(cmd.OutOrStdout())
			bell.Quiet = quiet
			memory := reconcile.NewMemory()
			memory.KeepStale = !cfg.PruneStaleHosts

			p := poller.New(logger, poller.NewHTTPSource(statusURL, timeout), memory, bell, poller.Config{
				Interval:        interval,
				AlertOnRecovery: recovery,
			})
			logger.Info("watch_start", zap.String("url", statusURL), zap.Duration("interval", interval))
			p.Run(ctx)
			return nil
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", cfg.PollInterval, "poll interval")
	cmd.Flags().BoolVar(&recovery, "recovery", cfg.AlertOnRecovery, "also ring when a host recovers")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "print alerts without the terminal bell")
	return cmd
}

func showCmd() *cobra.Command {
	var downOnly bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print every host with its effective status and duration",
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := fetchRows(cmd.Context())
			if err != nil {
				return err
			}
			if downOnly {
				kept := rows[:0]
				for _, r := range rows {
					if r.Status != domain.StatusUp {
						kept = append(kept, r)
					}
				}
				rows = kept
			}
			printRows(cmd.OutOrStdout(), rows, time.Now())
			fmt.Fprintf(cmd.OutOrStdout(), "\nworst: %s\n", reconcile.WorstRow(rows))
			return nil
		},
	}
	cmd.Flags().BoolVar(&downOnly, "problems", false, "only hosts that are not UP")
	return cmd
}

func searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search TERM [SELECTION]",
		Short: `Find hosts by name or host; SELECTION is "all", "first N", "1,3" or "2-4"`,
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := fetchRows(cmd.Context())
			if err != nil {
				return err
			}
			matches := search.Find(rows, args[0])
			out := cmd.OutOrStdout()
			if len(matches) == 0 {
				fmt.Fprintf(out, "No results for %q.\n", args[0])
				return nil
			}
			fmt.Fprintf(out, "%d result(s) for %q:\n%s\n", len(matches), args[0], strings.Join(search.Listing(matches), "\n"))
			if len(args) == 2 {
				picked := search.Select(matches, args[1])
				fmt.Fprintln(out)
				rs := make([]reconcile.Row, 0, len(picked))
				for _, m := range picked {
					rs = append(rs, m.Row)
				}
				printRows(out, rs, time.Now())
			}
			return nil
		},
	}
}

func fetchRows(ctx context.Context) ([]reconcile.Row, error) {
	items, err := poller.NewHTTPSource(statusURL, timeout).Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return reconcile.BuildRows(items, time.Now().Unix()), nil
}

func printRows(w io.Writer, rows []reconcile.Row, now time.Time) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tHOST\tSTATUS\tDURATION\tLAST DOWN")
	for _, r := range rows {
		lastDown := "never"
		if r.LastTimeDownMS > 0 {
			lastDown = humanize.RelTime(time.UnixMilli(r.LastTimeDownMS), now, "ago", "from now")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s: %s\t%s\n", r.Name, r.Host, r.Status, r.Duration.Label, r.DurationText, lastDown)
	}
	_ = tw.Flush()
}
