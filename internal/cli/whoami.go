package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Aun-shahid/TherapEase/internal/output"
)

func NewWhoamiCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := output.NewFormatter(os.Stdout)

			if !deps.App.Session.Authenticated() {
				formatter.Info("Not logged in. Run 'therapease login' first")
				return nil
			}

			user, err := deps.App.Session.Profile(cmd.Context())
			if err != nil {
				return err
			}

			formatter.User(user)
			return nil
		},
	}
}
