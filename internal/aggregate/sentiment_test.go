package aggregate

import (
	"testing"

	"github.com/Aun-shahid/TherapEase/internal/analysis"
	"github.com/Aun-shahid/TherapEase/internal/faults"
)

func annotated(emotions ...string) []analysis.AnnotatedUtterance {
	var out []analysis.AnnotatedUtterance
	for _, e := range emotions {
		out = append(out, analysis.AnnotatedUtterance{
			Speaker:       "Patient",
			Utterance:     "...",
			SentimentData: analysis.SentimentData{PrimaryEmotion: e, EmotionIntensity: 3},
		})
	}
	return out
}

func TestClassifyEmotion(t *testing.T) {
	tests := []struct {
		emotion string
		want    Bucket
	}{
		{"joy", BucketPositive},
		{"happiness", BucketPositive},
		{"Joy", BucketPositive},
		{"neutral", BucketNeutral},
		{"NEUTRAL", BucketNeutral},
		{"anxiety", BucketNegative},
		{"fear", BucketNegative},
		{"anger", BucketMixed},
		{"sadness", BucketMixed},
		{"", BucketMixed},
		{" joy ", BucketPositive},
	}
	for _, tt := range tests {
		if got := ClassifyEmotion(tt.emotion); got != tt.want {
			t.Errorf("ClassifyEmotion(%q) = %s, want %s", tt.emotion, got, tt.want)
		}
	}
}

func TestSentiment_EvenSplit(t *testing.T) {
	summary, err := Sentiment(annotated("joy", "anxiety", "neutral", "anger"))
	if err != nil {
		t.Fatalf("Sentiment failed: %v", err)
	}

	want := EmotionalPattern{PositivePct: 25, NeutralPct: 25, MixedPct: 25, NegativePct: 25}
	if summary.Pattern != want {
		t.Errorf("Pattern = %+v, want %+v", summary.Pattern, want)
	}
	if summary.Overall != OverallNeutral {
		t.Errorf("Overall = %s, want Neutral on a 25/25 tie", summary.Overall)
	}
}

func TestSentiment_OverallVerdicts(t *testing.T) {
	tests := []struct {
		name     string
		emotions []string
		want     Overall
	}{
		{"positive wins", []string{"joy", "joy", "anxiety"}, OverallPositive},
		{"negative wins", []string{"fear", "anxiety", "happiness"}, OverallNegative},
		{"zero-zero tie", []string{"anger", "sadness"}, OverallNeutral},
	}
	for _, tt := range tests {
		summary, err := Sentiment(annotated(tt.emotions...))
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if summary.Overall != tt.want {
			t.Errorf("%s: Overall = %s, want %s", tt.name, summary.Overall, tt.want)
		}
	}
}

func TestSentiment_SumWithinTolerance(t *testing.T) {
	summary, err := Sentiment(annotated("joy", "anxiety", "neutral", "anger", "joy", "fear", "sadness"))
	if err != nil {
		t.Fatal(err)
	}

	p := summary.Pattern
	sum := p.PositivePct + p.NeutralPct + p.MixedPct + p.NegativePct
	if sum < 96 || sum > 104 {
		t.Errorf("pattern sum = %d, want within 100±4", sum)
	}
}

func TestSentiment_EmptyList(t *testing.T) {
	_, err := Sentiment(nil)
	if !faults.Is(err, faults.CodeEmptyResultSet) {
		t.Fatalf("err = %v, want EMPTY_RESULT_SET", err)
	}
}

func TestSentiment_ConfidenceIsMeanIntensity(t *testing.T) {
	list := []analysis.AnnotatedUtterance{
		{Speaker: "Patient", SentimentData: analysis.SentimentData{PrimaryEmotion: "anxiety", EmotionIntensity: 5}},
		{Speaker: "Patient", SentimentData: analysis.SentimentData{PrimaryEmotion: "fear", EmotionIntensity: 3}},
	}

	summary, err := Sentiment(list)
	if err != nil {
		t.Fatal(err)
	}
	// Mean intensity 4 scales to 80.
	if summary.Confidence != 80 {
		t.Errorf("Confidence = %d, want 80", summary.Confidence)
	}
}

func TestSentiment_DetailedAnalysis(t *testing.T) {
	list := []analysis.AnnotatedUtterance{
		{Speaker: "Patient", SentimentData: analysis.SentimentData{
			PrimaryEmotion: "anxiety", EmotionIntensity: 4, BriefAnalysis: "persistent worry"}},
		{Speaker: "Therapist", SentimentData: analysis.SentimentData{
			PrimaryEmotion: "neutral", EmotionIntensity: 2}},
		{Speaker: "Patient", SentimentData: analysis.SentimentData{
			PrimaryEmotion: "joy", EmotionIntensity: 3, BriefAnalysis: "moment of relief"}},
	}

	summary, err := Sentiment(list)
	if err != nil {
		t.Fatal(err)
	}

	want := "Patient: persistent worry\n\nPatient: moment of relief"
	if summary.DetailedAnalysis != want {
		t.Errorf("DetailedAnalysis = %q, want %q", summary.DetailedAnalysis, want)
	}
}
