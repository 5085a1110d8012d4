package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"timed-quiz/internal/domain"
)

// NewLeaderboardCmd shows or clears the configured leaderboard.
func NewLeaderboardCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show or clear the leaderboard",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the top scores",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLeaderboard(cmd.Context(), *configPath, func(ctx context.Context, d *deps) error {
				store, err := d.leaderboardStore(ctx)
				if err != nil {
					return err
				}
				entries, err := store.Load(ctx)
				if err != nil {
					return err
				}
				printLeaderboard(cmd.OutOrStdout(), entries)
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove every leaderboard entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLeaderboard(cmd.Context(), *configPath, func(ctx context.Context, d *deps) error {
				store, err := d.leaderboardStore(ctx)
				if err != nil {
					return err
				}
				if err := store.Clear(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "leaderboard cleared")
				return nil
			})
		},
	})
	return cmd
}

func withLeaderboard(ctx context.Context, configPath string, fn func(context.Context, *deps) error) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	d := newDeps(cfg)
	defer d.Close()
	return fn(ctx, d)
}

func printLeaderboard(out io.Writer, entries []domain.LeaderboardEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(out, "no scores yet")
		return
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tNAME\tSCORE\tDATE")
	for i, e := range entries {
		fmt.Fprintf(w, "%d\t%s\t%d/%d\t%s\n", i+1, e.Name, e.Score, e.Total, e.Timestamp.Local().Format(time.DateTime))
	}
	_ = w.Flush()
}
