package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Aun-shahid/TherapEase/internal/output"
)

func NewLogoutCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and clear stored tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := output.NewFormatter(os.Stdout)

			if !deps.App.Session.Authenticated() {
				formatter.Info("Not logged in")
				return nil
			}

			deps.App.Session.Logout(cmd.Context())
			formatter.Success("Logged out")
			return nil
		},
	}
}
