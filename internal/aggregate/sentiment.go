package aggregate

import (
	"fmt"
	"math"
	"strings"

	"github.com/Aun-shahid/TherapEase/internal/analysis"
	"github.com/Aun-shahid/TherapEase/internal/faults"
)

// Bucket is the closed set of emotion categories.
type Bucket string

const (
	BucketPositive Bucket = "positive"
	BucketNeutral  Bucket = "neutral"
	BucketMixed    Bucket = "mixed"
	BucketNegative Bucket = "negative"
)

// Overall is the conversation-level verdict.
type Overall string

const (
	OverallPositive Overall = "Positive"
	OverallNeutral  Overall = "Neutral"
	OverallNegative Overall = "Negative"
)

// ClassifyEmotion maps a free-text primary emotion into a bucket. The keyword
// table lives here and nowhere else; anything unrecognized is mixed.
func ClassifyEmotion(emotion string) Bucket {
	switch strings.ToLower(strings.TrimSpace(emotion)) {
	case "joy", "happiness":
		return BucketPositive
	case "neutral":
		return BucketNeutral
	case "anxiety", "fear":
		return BucketNegative
	default:
		return BucketMixed
	}
}

// EmotionalPattern holds the four bucket percentages. They should sum to 100
// within rounding tolerance but are not normalized.
type EmotionalPattern struct {
	PositivePct int
	NeutralPct  int
	MixedPct    int
	NegativePct int
}

// SentimentSummary is the user-facing reduction of an annotated conversation.
type SentimentSummary struct {
	Pattern          EmotionalPattern
	Overall          Overall
	Confidence       int // 0..100
	DetailedAnalysis string
}

// Sentiment reduces the full annotated utterance list into bucket shares, an
// overall verdict, a confidence score and the concatenated per-utterance
// analysis. Always recomputed from the complete list.
func Sentiment(annotated []analysis.AnnotatedUtterance) (*SentimentSummary, error) {
	if len(annotated) == 0 {
		return nil, faults.NewEmptyResultSet("analyzed conversation")
	}

	counts := make(map[Bucket]int)
	intensitySum := 0
	var details []string
	for _, u := range annotated {
		counts[ClassifyEmotion(u.SentimentData.PrimaryEmotion)]++
		intensitySum += u.SentimentData.EmotionIntensity
		if brief := strings.TrimSpace(u.SentimentData.BriefAnalysis); brief != "" {
			details = append(details, fmt.Sprintf("%s: %s", u.Speaker, brief))
		}
	}

	total := len(annotated)
	pattern := EmotionalPattern{
		PositivePct: roundPct(counts[BucketPositive], total),
		NeutralPct:  roundPct(counts[BucketNeutral], total),
		MixedPct:    roundPct(counts[BucketMixed], total),
		NegativePct: roundPct(counts[BucketNegative], total),
	}

	return &SentimentSummary{
		Pattern:          pattern,
		Overall:          overall(pattern),
		Confidence:       confidence(intensitySum, total),
		DetailedAnalysis: strings.Join(details, "\n\n"),
	}, nil
}

// overall resolves ties, including 0/0, to neutral.
func overall(p EmotionalPattern) Overall {
	switch {
	case p.PositivePct > p.NegativePct:
		return OverallPositive
	case p.NegativePct > p.PositivePct:
		return OverallNegative
	default:
		return OverallNeutral
	}
}

// confidence is the mean emotion intensity scaled to 0..100. Intensities are
// 1..5 on the wire; out-of-range values are clamped rather than rejected.
func confidence(intensitySum, total int) int {
	mean := float64(intensitySum) / float64(total)
	score := int(math.Round(mean * 20))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
