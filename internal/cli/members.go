package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dalemusser/syncadmin/internal/app/system/membership"
	"github.com/dalemusser/syncadmin/internal/domain/models"
	"github.com/spf13/cobra"
)

func newMembersCmd(app *cliApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "members",
		Short: "Inspect and edit one user's group memberships",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list <user-id>",
			Short: "Show memberships and the groups the user can join",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ed, err := app.openEditor(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				defer ed.Close()
				printMemberships(app.out, ed.Snapshot(), true)
				return nil
			},
		},
		newMembersAddCmd(app),
		&cobra.Command{
			Use:   "remove <user-id> <group>",
			Short: "Remove the user from a group",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return app.editMembership(cmd.Context(), args[0], func(ctx context.Context, ed *membership.Editor) error {
					gid, err := resolveMember(ed.Snapshot(), args[1])
					if err != nil {
						return err
					}
					return ed.Remove(ctx, gid)
				})
			},
		},
		&cobra.Command{
			Use:   "role <user-id> <group> <role>",
			Short: "Change the user's role in a group",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				return app.editMembership(cmd.Context(), args[0], func(ctx context.Context, ed *membership.Editor) error {
					gid, err := resolveMember(ed.Snapshot(), args[1])
					if err != nil {
						return err
					}
					return ed.ChangeRole(ctx, gid, models.Role(strings.ToLower(args[2])))
				})
			},
		},
	)
	return cmd
}

func newMembersAddCmd(app *cliApp) *cobra.Command {
	var role string
	cmd := &cobra.Command{
		Use:   "add <user-id> <group>",
		Short: "Add the user to a group",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.editMembership(cmd.Context(), args[0], func(ctx context.Context, ed *membership.Editor) error {
				gid, err := resolveGroup(ed.Snapshot().Available, args[1])
				if err != nil {
					return err
				}
				return ed.Add(ctx, gid, models.Role(strings.ToLower(role)))
			})
		},
	}
	cmd.Flags().StringVar(&role, "role", string(models.RoleViewer), "role to grant: viewer, editor or admin")
	return cmd
}

// openEditor loads the memberships of the user named by arg.
func (a *cliApp) openEditor(ctx context.Context, arg string) (*membership.Editor, error) {
	if err := a.requireToken(); err != nil {
		return nil, err
	}
	userID, err := parseID("user id", arg)
	if err != nil {
		return nil, err
	}
	ed := membership.NewEditor(a.api, userID,
		membership.WithNotifier(a.notify),
		membership.WithConfirmer(a.confirm),
		membership.WithLogger(a.log))
	if err := ed.Open(ctx); err != nil {
		ed.Close()
		return nil, errReported
	}
	return ed, nil
}

// editMembership opens an editor, runs one mutation and prints the
// resulting memberships.
func (a *cliApp) editMembership(ctx context.Context, arg string, fn func(context.Context, *membership.Editor) error) error {
	ed, err := a.openEditor(ctx, arg)
	if err != nil {
		return err
	}
	defer ed.Close()

	if err := fn(ctx, ed); err != nil {
		if errors.Is(err, errArgument) {
			return err
		}
		return errReported
	}
	printMemberships(a.out, ed.Snapshot(), false)
	return nil
}

var errArgument = errors.New("argument")

// resolveGroup finds a group by id or by case-insensitive name.
func resolveGroup(groups []models.Group, arg string) (int, error) {
	if id, err := strconv.Atoi(arg); err == nil {
		return id, nil
	}
	for _, g := range groups {
		if strings.EqualFold(g.Name, arg) {
			return g.ID, nil
		}
	}
	return 0, fmt.Errorf("%w: no available group named %q", errArgument, arg)
}

// resolveMember finds one of the user's current groups by id or name.
func resolveMember(snap membership.Snapshot, arg string) (int, error) {
	if id, err := strconv.Atoi(arg); err == nil {
		return id, nil
	}
	for _, m := range snap.Memberships {
		if strings.EqualFold(m.GroupName, arg) {
			return m.GroupID, nil
		}
	}
	return 0, fmt.Errorf("%w: the user is not in a group named %q", errArgument, arg)
}

func printMemberships(out io.Writer, snap membership.Snapshot, withAvailable bool) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	if snap.Empty {
		fmt.Fprintf(tw, "User #%d is not in any group.\n", snap.UserID)
	} else {
		fmt.Fprintln(tw, "GROUP ID\tGROUP\tROLE")
		for _, m := range snap.Memberships {
			fmt.Fprintf(tw, "%d\t%s\t%s\n", m.GroupID, m.GroupName, m.Role)
		}
	}
	if withAvailable {
		fmt.Fprintln(tw)
		if !snap.CanAdd {
			fmt.Fprintln(tw, "No other groups available.")
		} else {
			fmt.Fprintln(tw, "Available:")
			for _, g := range snap.Available {
				fmt.Fprintf(tw, "  %d\t%s\n", g.ID, g.Name)
			}
		}
	}
	_ = tw.Flush()
}
