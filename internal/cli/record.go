package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Aun-shahid/TherapEase/internal/output"
)

func NewRecordCmd(deps *Dependencies) *cobra.Command {
	var analyzeKind string
	var exportReport bool

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record session audio from the microphone",
		Long:  "Record from the default microphone until Enter is pressed. With --analyze the recording is submitted for analysis right away.",
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := output.NewFormatter(os.Stdout)

			if err := deps.App.Capture.StartCapture(); err != nil {
				return err
			}
			formatter.RecordingStarted()

			// Block until Enter.
			bufio.NewReader(os.Stdin).ReadString('\n')

			artifact, err := deps.App.Capture.StopCapture()
			if err != nil {
				return err
			}
			if artifact == nil {
				formatter.Warning("Nothing was recorded")
				return nil
			}
			formatter.RecordingStopped(artifact.Path)

			if analyzeKind == "" {
				return nil
			}
			kind, ok := kindsByName[strings.ToLower(analyzeKind)]
			if !ok {
				return fmt.Errorf("unknown analysis %q: choose transcribe, diarize or sentiment", analyzeKind)
			}
			return runAnalysis(cmd.Context(), deps, formatter, kind, exportReport)
		},
	}

	cmd.Flags().StringVarP(&analyzeKind, "analyze", "a", "", "Analyze the recording when done (transcribe|diarize|sentiment)")
	cmd.Flags().BoolVar(&exportReport, "report", false, "Export the aggregated statistics as .xlsx")

	return cmd
}
