package cli

import (
	"github.com/spf13/cobra"

	"github.com/Aun-shahid/TherapEase/config"
	"github.com/Aun-shahid/TherapEase/internal/app"
	"github.com/Aun-shahid/TherapEase/internal/version"
)

type Dependencies struct {
	App    *app.App
	Config *config.Config
}

func NewRootCmd(deps *Dependencies) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "therapease",
		Short: "Record therapy sessions and analyze them",
		Long:  "A CLI client for the TherapEase backend: record or upload session audio, run transcription, speaker recognition and sentiment analysis, and turn the results into session statistics.",
	}

	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(version.Full() + "\n")

	rootCmd.AddCommand(NewLoginCmd(deps))
	rootCmd.AddCommand(NewLogoutCmd(deps))
	rootCmd.AddCommand(NewWhoamiCmd(deps))
	rootCmd.AddCommand(NewRecordCmd(deps))
	rootCmd.AddCommand(NewAnalyzeCmd(deps))
	rootCmd.AddCommand(NewDoctorCmd(deps))

	return rootCmd
}
