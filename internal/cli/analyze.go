package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Aun-shahid/TherapEase/internal/analysis"
	"github.com/Aun-shahid/TherapEase/internal/output"
	"github.com/Aun-shahid/TherapEase/internal/pipeline"
	"github.com/Aun-shahid/TherapEase/internal/report"
)

var kindsByName = map[string]analysis.Kind{
	"transcribe": analysis.KindTranscribe,
	"diarize":    analysis.KindDiarize,
	"sentiment":  analysis.KindSentiment,
}

func NewAnalyzeCmd(deps *Dependencies) *cobra.Command {
	var exportReport bool

	cmd := &cobra.Command{
		Use:   "analyze <transcribe|diarize|sentiment> <audio-file>",
		Short: "Run one analysis over a session audio file",
		Long:  "Upload a session recording (mp3, mp4, mpeg, m4a, wav or webm) to the TherapEase backend and print the aggregated result.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := output.NewFormatter(os.Stdout)

			kind, ok := kindsByName[strings.ToLower(args[0])]
			if !ok {
				return fmt.Errorf("unknown analysis %q: choose transcribe, diarize or sentiment", args[0])
			}

			if _, err := deps.App.Capture.SelectFile(args[1]); err != nil {
				return err
			}

			return runAnalysis(cmd.Context(), deps, formatter, kind, exportReport)
		},
	}

	cmd.Flags().BoolVar(&exportReport, "report", false, "Export the aggregated statistics as .xlsx")

	return cmd
}

// runAnalysis drives the pipeline for the current artifact and renders the
// outcome. Shared by the analyze and record commands.
func runAnalysis(ctx context.Context, deps *Dependencies, formatter *output.Formatter, kind analysis.Kind, exportReport bool) error {
	formatter.Analyzing(kind)

	outcome, err := deps.App.Pipeline.Run(ctx, kind)
	if err != nil {
		return err
	}

	renderOutcome(formatter, outcome)

	if exportReport {
		name := fmt.Sprintf("%s-%s-%s.xlsx",
			strings.TrimSuffix(outcome.Artifact, filepath.Ext(outcome.Artifact)),
			kind, time.Now().Format("20060102-150405"))
		path := filepath.Join(deps.Config.SessionsDir, name)
		if err := report.Write(path, outcome); err != nil {
			return fmt.Errorf("exporting report: %w", err)
		}
		formatter.ReportSaved(path)
	}

	return nil
}

func renderOutcome(formatter *output.Formatter, outcome *pipeline.Outcome) {
	switch outcome.Kind {
	case analysis.KindTranscribe:
		formatter.Transcript(outcome.Transcript)
	case analysis.KindDiarize:
		formatter.Conversation(outcome.Diarized)
		formatter.SpeakerShares(outcome.Shares)
	case analysis.KindSentiment:
		formatter.SentimentSummary(outcome.Sentiment)
	}
}
