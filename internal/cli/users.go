package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"
	"text/tabwriter"

	"github.com/dalemusser/syncadmin/internal/app/system/badges"
	"github.com/dalemusser/syncadmin/internal/app/system/search"
	"github.com/dalemusser/syncadmin/internal/app/system/syncapi"
	"github.com/dalemusser/syncadmin/internal/domain/models"
	"github.com/spf13/cobra"
)

func newUsersCmd(app *cliApp) *cobra.Command {
	var (
		filter      string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "users",
		Short: "List accounts with their group memberships",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.requireToken(); err != nil {
				return err
			}
			all, err := app.api.ListUsers(cmd.Context())
			if err != nil {
				return fmt.Errorf("list users: %s", syncapi.Message(err))
			}
			shown := search.FilterUsers(all, filter)
			if len(shown) == 0 {
				fmt.Fprintln(app.out, "No users match.")
				return nil
			}

			ids := make([]int, len(shown))
			for i, u := range shown {
				ids[i] = u.ID
			}
			var (
				mu     sync.Mutex
				labels = make(map[int]string, len(ids))
			)
			badges.NewLoader(app.api, concurrency, app.log).Load(cmd.Context(), ids, func(b badges.Badge) {
				mu.Lock()
				labels[b.UserID] = b.Label()
				mu.Unlock()
			})

			printUsers(app.out, shown, labels)
			if len(shown) != len(all) {
				fmt.Fprintf(app.out, "\n%d of %d users shown.\n", len(shown), len(all))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "fuzzy filter on username")
	cmd.Flags().IntVar(&concurrency, "concurrency", badges.DefaultConcurrency, "membership requests in flight")

	cmd.AddCommand(newUsersDeleteCmd(app))
	return cmd
}

func printUsers(out io.Writer, users []models.User, labels map[int]string) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSERNAME\tADMIN\tGROUPS")
	for _, u := range users {
		admin := ""
		if u.IsAdmin {
			admin = "yes"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", u.ID, u.Username, admin, labels[u.ID])
	}
	_ = tw.Flush()
}

func newUsersDeleteCmd(app *cliApp) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <user-id>",
		Short: "Delete an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireToken(); err != nil {
				return err
			}
			id, err := parseID("user id", args[0])
			if err != nil {
				return err
			}

			label := "#" + strconv.Itoa(id)
			if all, err := app.api.ListUsers(cmd.Context()); err == nil {
				for _, u := range all {
					if u.ID == id {
						label = fmt.Sprintf("%s (#%d)", u.Username, id)
					}
				}
			}
			if !app.confirm.Confirm(cmd.Context(), fmt.Sprintf("Delete user %s? This cannot be undone.", label)) {
				fmt.Fprintln(app.errOut, "Cancelled.")
				return nil
			}

			if err := app.api.DeleteUser(cmd.Context(), id); err != nil {
				app.notify.Error(syncapi.Message(err))
				return errReported
			}
			app.notify.Success(fmt.Sprintf("Deleted user %s.", label))
			return nil
		},
	}
}

func parseID(what, s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, errors.New(what + " must be a positive integer")
	}
	return id, nil
}
