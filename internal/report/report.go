package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/Aun-shahid/TherapEase/internal/analysis"
	"github.com/Aun-shahid/TherapEase/internal/pipeline"
)

// Write saves the aggregated statistics of a pipeline run as an .xlsx
// workbook at path. Sheets are included only when the run produced their data.
func Write(path string, outcome *pipeline.Outcome) error {
	f := excelize.NewFile()
	defer f.Close()

	wrote := false

	if len(outcome.Shares) > 0 {
		if err := writeShares(f, outcome); err != nil {
			return err
		}
		wrote = true
	}
	if outcome.Sentiment != nil {
		if err := writeSentiment(f, outcome); err != nil {
			return err
		}
		wrote = true
	}
	if len(outcome.Annotated) > 0 {
		if err := writeUtterances(f, outcome.Annotated); err != nil {
			return err
		}
		wrote = true
	}
	if outcome.Transcript != "" {
		if err := writeTranscript(f, outcome.Transcript); err != nil {
			return err
		}
		wrote = true
	}
	if !wrote {
		return fmt.Errorf("nothing to export for this run")
	}

	// Drop the default sheet excelize creates.
	f.DeleteSheet("Sheet1")

	return f.SaveAs(path)
}

func writeShares(f *excelize.File, outcome *pipeline.Outcome) error {
	const sheet = "Speaker Shares"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []any{"Speaker", "Utterances", "Share %", "Color"}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}
	for i, s := range outcome.Shares {
		row := []any{s.Speaker, s.UtteranceCount, s.Percentage, s.DisplayColor}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func writeSentiment(f *excelize.File, outcome *pipeline.Outcome) error {
	const sheet = "Emotional Pattern"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	s := outcome.Sentiment
	rows := [][]any{
		{"Bucket", "Share %"},
		{"Positive", s.Pattern.PositivePct},
		{"Neutral", s.Pattern.NeutralPct},
		{"Mixed", s.Pattern.MixedPct},
		{"Negative", s.Pattern.NegativePct},
		{},
		{"Overall", string(s.Overall)},
		{"Confidence", s.Confidence},
	}
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell := fmt.Sprintf("A%d", i+1)
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return err
		}
	}
	return nil
}

func writeUtterances(f *excelize.File, annotated []analysis.AnnotatedUtterance) error {
	const sheet = "Utterances"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []any{"Speaker", "Utterance", "Emotion", "Intensity", "Analysis"}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}
	for i, u := range annotated {
		row := []any{u.Speaker, u.Utterance, u.SentimentData.PrimaryEmotion,
			u.SentimentData.EmotionIntensity, u.SentimentData.BriefAnalysis}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func writeTranscript(f *excelize.File, transcript string) error {
	const sheet = "Transcript"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	return f.SetCellValue(sheet, "A1", transcript)
}
