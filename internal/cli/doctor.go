package cli

import (
	"net/http"
	"os"
	"os/exec"
	"time"

	"github.com/spf13/cobra"

	"github.com/Aun-shahid/TherapEase/internal/output"
)

func NewDoctorCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check prerequisites",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := output.NewFormatter(os.Stdout)
			ok := true

			if _, err := exec.LookPath("ffmpeg"); err != nil {
				f.SetupCheck("ffmpeg", false, "not found. Install it with your package manager")
				ok = false
			} else {
				f.SetupCheck("ffmpeg", true, "installed")
			}

			hc := &http.Client{Timeout: 5 * time.Second}
			resp, err := hc.Get(deps.Config.APIBaseURL + "/authenticator/profile/")
			if err != nil {
				f.SetupCheck("Backend", false, deps.Config.APIBaseURL+" unreachable")
				ok = false
			} else {
				resp.Body.Close()
				f.SetupCheck("Backend", true, deps.Config.APIBaseURL)
			}

			if deps.App.Session.Authenticated() {
				f.SetupCheck("Session", true, "logged in")
			} else {
				f.SetupCheck("Session", false, "not logged in. Run 'therapease login'")
			}

			f.SetupCheck("Sessions directory", true, deps.Config.SessionsDir)

			if ok {
				f.Success("\nAll prerequisites met. Ready to record!")
			} else {
				f.Warning("\nSome prerequisites are missing.")
			}
			return nil
		},
	}
}
