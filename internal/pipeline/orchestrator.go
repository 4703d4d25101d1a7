package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/Aun-shahid/TherapEase/internal/aggregate"
	"github.com/Aun-shahid/TherapEase/internal/analysis"
	"github.com/Aun-shahid/TherapEase/internal/audio"
	"github.com/Aun-shahid/TherapEase/internal/faults"
)

// State gates user feedback while an analysis runs.
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StateDone    State = "done"
	StateFailed  State = "failed"
)

// Analyzer issues one remote analysis. Satisfied by analysis.Client.
type Analyzer interface {
	Analyze(ctx context.Context, kind analysis.Kind, artifact *audio.Artifact) (*analysis.Result, error)
}

// Outcome is the aggregated output of one pipeline run. Fields are populated
// according to Kind.
type Outcome struct {
	Kind       analysis.Kind
	Artifact   string
	Transcript string
	Diarized   []analysis.Utterance
	Shares     []aggregate.SpeakerShare
	Annotated  []analysis.AnnotatedUtterance
	Sentiment  *aggregate.SentimentSummary
}

// Orchestrator wires the capture controller's current artifact through the
// analysis client and the aggregator. At most one run at a time; a run
// started while another is in flight is rejected, not queued.
type Orchestrator struct {
	capture  *audio.Controller
	analyzer Analyzer
	log      *logrus.Entry

	mu    sync.Mutex
	state State
}

func NewOrchestrator(capture *audio.Controller, analyzer Analyzer, log *logrus.Entry) *Orchestrator {
	return &Orchestrator{
		capture:  capture,
		analyzer: analyzer,
		log:      log.WithField("component", "pipeline"),
		state:    StateIdle,
	}
}

// State returns the current pipeline state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Run drives one analysis of the current artifact end to end.
func (o *Orchestrator) Run(ctx context.Context, kind analysis.Kind) (*Outcome, error) {
	o.mu.Lock()
	if o.state == StateRunning {
		o.mu.Unlock()
		return nil, faults.NewAlreadyRunning()
	}
	o.state = StateRunning
	o.mu.Unlock()

	outcome, err := o.run(ctx, kind)

	o.mu.Lock()
	if err != nil {
		o.state = StateFailed
	} else {
		o.state = StateDone
	}
	o.mu.Unlock()

	return outcome, err
}

func (o *Orchestrator) run(ctx context.Context, kind analysis.Kind) (*Outcome, error) {
	artifact := o.capture.Current()
	if artifact == nil {
		return nil, fmt.Errorf("no audio selected: record a session or select a file first")
	}

	result, err := o.analyzer.Analyze(ctx, kind, artifact)
	if err != nil {
		o.log.WithFields(logrus.Fields{"kind": string(kind), "error": err.Error()}).Warn("analysis failed")
		return nil, err
	}

	outcome := &Outcome{Kind: kind, Artifact: artifact.Name()}
	switch kind {
	case analysis.KindTranscribe:
		outcome.Transcript = result.Transcript

	case analysis.KindDiarize:
		outcome.Diarized = result.Diarized
		shares, err := aggregate.SpeakerShares(result.Diarized)
		if err != nil {
			return nil, err
		}
		outcome.Shares = shares

	case analysis.KindSentiment:
		outcome.Annotated = result.Annotated
		summary, err := aggregate.Sentiment(result.Annotated)
		if err != nil {
			return nil, err
		}
		outcome.Sentiment = summary

	default:
		return nil, fmt.Errorf("unknown analysis kind %q", kind)
	}

	return outcome, nil
}
