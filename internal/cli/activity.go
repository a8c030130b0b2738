package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dalemusser/syncadmin/internal/app/system/dategroup"
	"github.com/dalemusser/syncadmin/internal/app/system/feed"
	"github.com/dalemusser/syncadmin/internal/app/system/syncapi"
	"github.com/dalemusser/syncadmin/internal/domain/models"
	"github.com/spf13/cobra"
)

func newActivityCmd(app *cliApp) *cobra.Command {
	var (
		pages int
		limit int
	)

	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show recent file activity grouped by day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.requireToken(); err != nil {
				return err
			}
			if pages < 1 {
				return fmt.Errorf("--pages must be at least 1")
			}

			p := feed.NewActivityPager(app.api,
				feed.WithLimit(limit),
				feed.WithName("cli_activity"),
				feed.WithLogger(app.log))
			defer p.Unmount()

			for i := 0; i < pages; i++ {
				if err := p.LoadNext(cmd.Context()); err != nil {
					return fmt.Errorf("load activity: %s", syncapi.Message(err))
				}
				if p.Snapshot().Done {
					break
				}
			}

			snap := p.Snapshot()
			if snap.Empty {
				fmt.Fprintln(app.out, "No activity yet.")
				return nil
			}
			printActivity(app.out, snap.Items, time.Now())
			if !snap.Done {
				fmt.Fprintf(app.out, "\nMore entries available; rerun with --pages %d.\n", snap.Pages+1)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&pages, "pages", 1, "number of pages to load")
	cmd.Flags().IntVar(&limit, "limit", feed.DefaultLimit, "entries per page")
	return cmd
}

func printActivity(out io.Writer, entries []models.ActivityEntry, now time.Time) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for i, g := range dategroup.ByDay(entries, now) {
		if i > 0 {
			fmt.Fprintln(tw)
		}
		fmt.Fprintln(tw, g.Label)
		for _, e := range g.Entries {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n",
				e.CreatedAt.UTC().Format("15:04"), e.Username, e.Action, e.ResourcePath)
		}
	}
	_ = tw.Flush()
}
