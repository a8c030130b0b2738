package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dalemusser/syncadmin/internal/app/system/syncapi"
	"github.com/spf13/cobra"
)

// DeviceName identifies tokens issued to this client on the server.
const DeviceName = "syncadminctl"

func newLoginCmd(app *cliApp) *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "login --username <name>",
		Short: "Exchange credentials for an API token",
		Long: "Reads the password from the first line of standard input and prints\n" +
			"an export line for SYNCADMIN_TOKEN.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(username) == "" {
				return errors.New("--username is required")
			}
			fmt.Fprint(app.errOut, "Password: ")
			password, err := app.confirm.readLine()
			fmt.Fprintln(app.errOut)
			if err != nil || password == "" {
				return errors.New("no password given")
			}

			res, err := app.api.Login(cmd.Context(), username, password, DeviceName)
			if err != nil {
				return errors.New(syncapi.Message(err))
			}
			if !res.User.IsAdmin {
				fmt.Fprintf(app.errOut, "warning: %s is not an administrator; admin commands will be refused\n", res.User.Username)
			}
			fmt.Fprintf(app.out, "export SYNCADMIN_TOKEN=%s\n", res.Token)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "account name")
	return cmd
}
