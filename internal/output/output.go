package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/Aun-shahid/TherapEase/internal/aggregate"
	"github.com/Aun-shahid/TherapEase/internal/analysis"
	"github.com/Aun-shahid/TherapEase/internal/session"
)

type Formatter struct {
	w io.Writer
}

func NewFormatter(w io.Writer) *Formatter {
	return &Formatter{w: w}
}

func (f *Formatter) Error(msg string) {
	fmt.Fprintf(f.w, "❌ %s\n", msg)
}

func (f *Formatter) Info(msg string) {
	fmt.Fprintf(f.w, "ℹ️  %s\n", msg)
}

func (f *Formatter) Success(msg string) {
	fmt.Fprintf(f.w, "✅ %s\n", msg)
}

func (f *Formatter) Warning(msg string) {
	fmt.Fprintf(f.w, "⚠️  %s\n", msg)
}

func (f *Formatter) RecordingStarted() {
	fmt.Fprintf(f.w, "🎙️  Recording... press Enter to stop\n")
}

func (f *Formatter) RecordingStopped(artifact string) {
	fmt.Fprintf(f.w, "⏹️  Recording saved: %s\n", artifact)
}

func (f *Formatter) Analyzing(kind analysis.Kind) {
	fmt.Fprintf(f.w, "🔎 Running %s analysis...\n", kind)
}

func (f *Formatter) Transcript(text string) {
	fmt.Fprintf(f.w, "\n📝 Transcript\n\n%s\n", text)
}

func (f *Formatter) Conversation(utterances []analysis.Utterance) {
	fmt.Fprintf(f.w, "\n💬 Conversation\n\n")
	for _, u := range utterances {
		fmt.Fprintf(f.w, "  %s: %s\n", u.Speaker, u.Utterance)
	}
}

func (f *Formatter) SpeakerShares(shares []aggregate.SpeakerShare) {
	fmt.Fprintf(f.w, "\n🗣️  Speaker shares\n\n")
	for _, s := range shares {
		fmt.Fprintf(f.w, "  %-12s %3d%%  (%d utterances)  %s\n",
			s.Speaker, s.Percentage, s.UtteranceCount, s.DisplayColor)
	}
}

func (f *Formatter) SentimentSummary(s *aggregate.SentimentSummary) {
	fmt.Fprintf(f.w, "\n💭 Emotional pattern\n\n")
	fmt.Fprintf(f.w, "  Positive %3d%%  %s\n", s.Pattern.PositivePct, bar(s.Pattern.PositivePct))
	fmt.Fprintf(f.w, "  Neutral  %3d%%  %s\n", s.Pattern.NeutralPct, bar(s.Pattern.NeutralPct))
	fmt.Fprintf(f.w, "  Mixed    %3d%%  %s\n", s.Pattern.MixedPct, bar(s.Pattern.MixedPct))
	fmt.Fprintf(f.w, "  Negative %3d%%  %s\n", s.Pattern.NegativePct, bar(s.Pattern.NegativePct))
	fmt.Fprintf(f.w, "\n  Overall: %s (confidence %d%%)\n", s.Overall, s.Confidence)
	if s.DetailedAnalysis != "" {
		fmt.Fprintf(f.w, "\n🧠 Analysis\n\n%s\n", indent(s.DetailedAnalysis))
	}
}

func (f *Formatter) User(u *session.User) {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		name = u.Username
	}
	fmt.Fprintf(f.w, "👤 %s <%s>", name, u.Email)
	if u.UserType != "" {
		fmt.Fprintf(f.w, " (%s)", u.UserType)
	}
	fmt.Fprintln(f.w)
}

func (f *Formatter) ReportSaved(path string) {
	fmt.Fprintf(f.w, "\n📁 Report saved: %s\n", path)
}

func (f *Formatter) SetupCheck(name string, ok bool, detail string) {
	if ok {
		fmt.Fprintf(f.w, "  ✅ %s: %s\n", name, detail)
	} else {
		fmt.Fprintf(f.w, "  ❌ %s: %s\n", name, detail)
	}
}

func bar(pct int) string {
	n := pct / 5
	if n < 0 {
		n = 0
	}
	if n > 20 {
		n = 20
	}
	return strings.Repeat("█", n)
}

func indent(text string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = "  " + l
		}
	}
	return strings.Join(lines, "\n")
}
