package app

import (
	"github.com/Aun-shahid/TherapEase/config"
	"github.com/Aun-shahid/TherapEase/internal/analysis"
	"github.com/Aun-shahid/TherapEase/internal/audio"
	"github.com/Aun-shahid/TherapEase/internal/logger"
	"github.com/Aun-shahid/TherapEase/internal/pipeline"
	"github.com/Aun-shahid/TherapEase/internal/session"
)

type App struct {
	Session  *session.Manager
	Capture  *audio.Controller
	Pipeline *pipeline.Orchestrator
}

func New(cfg *config.Config) (*App, error) {
	log := logger.New()

	sessionMgr := session.NewManager(cfg.APIBaseURL, cfg.StateDir, log.Entry)
	capture := audio.NewController(audio.NewRecorder(), cfg.StateDir, log.Entry)
	client := analysis.NewClient(cfg.APIBaseURL, sessionMgr, log.Entry)
	orchestrator := pipeline.NewOrchestrator(capture, client, log.Entry)

	return &App{
		Session:  sessionMgr,
		Capture:  capture,
		Pipeline: orchestrator,
	}, nil
}
