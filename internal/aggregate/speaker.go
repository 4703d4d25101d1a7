package aggregate

import (
	"math"

	"github.com/Aun-shahid/TherapEase/internal/analysis"
	"github.com/Aun-shahid/TherapEase/internal/faults"
)

// palette cycles through display colors in the order speakers are first
// encountered, so the mapping is stable across repeated runs on the same
// conversation.
var palette = []string{
	"#4F8EF7", // blue
	"#34C759", // green
	"#FF9500", // orange
	"#AF52DE", // purple
	"#FF2D55", // pink
	"#5AC8FA", // teal
	"#FFCC00", // yellow
	"#8E8E93", // gray
}

// SpeakerShare is the derived per-speaker talk share. Percentages are
// recomputed from the full utterance list on every aggregation, never patched.
type SpeakerShare struct {
	Speaker        string
	UtteranceCount int
	Percentage     int // 0..100, rounded half away from zero
	DisplayColor   string
}

// SpeakerShares groups a chronological utterance list by speaker and computes
// each speaker's share of the conversation. Percentages are not normalized to
// sum exactly to 100; rounding drift up to the number of speakers is expected.
func SpeakerShares(utterances []analysis.Utterance) ([]SpeakerShare, error) {
	if len(utterances) == 0 {
		return nil, faults.NewEmptyResultSet("diarized conversation")
	}

	counts := make(map[string]int)
	var order []string
	for _, u := range utterances {
		if _, seen := counts[u.Speaker]; !seen {
			order = append(order, u.Speaker)
		}
		counts[u.Speaker]++
	}

	shares := make([]SpeakerShare, 0, len(order))
	for i, speaker := range order {
		shares = append(shares, SpeakerShare{
			Speaker:        speaker,
			UtteranceCount: counts[speaker],
			Percentage:     roundPct(counts[speaker], len(utterances)),
			DisplayColor:   palette[i%len(palette)],
		})
	}
	return shares, nil
}

// roundPct rounds half away from zero.
func roundPct(count, total int) int {
	return int(math.Round(100 * float64(count) / float64(total)))
}
