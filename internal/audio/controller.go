package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Aun-shahid/TherapEase/internal/faults"
)

// Controller owns the single current artifact and the recording state machine:
// Idle -> Recording -> Idle(withArtifact), or Idle -> Idle(withArtifact) via
// SelectFile. Two concurrent recordings are never permitted.
type Controller struct {
	recorder *Recorder
	stateDir string
	log      *logrus.Entry

	current   *Artifact
	recording *recordingAttempt
}

type recordingAttempt struct {
	path      string
	startedAt time.Time
}

func NewController(recorder *Recorder, stateDir string, log *logrus.Entry) *Controller {
	return &Controller{
		recorder: recorder,
		stateDir: stateDir,
		log:      log.WithField("component", "capture"),
	}
}

// StartCapture begins an exclusive recording session.
func (c *Controller) StartCapture() error {
	if c.recording != nil {
		return faults.NewDeviceUnavailable("a recording is already in progress", nil)
	}

	if err := c.recorder.CheckFFmpeg(); err != nil {
		return faults.NewDeviceUnavailable("recording backend unavailable", err)
	}

	now := time.Now()
	path := filepath.Join(c.stateDir, fmt.Sprintf("capture-%s.wav", now.Format("20060102-150405")))
	if err := c.recorder.Start(path); err != nil {
		return faults.NewDeviceUnavailable("could not start recording", err)
	}

	c.recording = &recordingAttempt{path: path, startedAt: now}
	c.log.WithField("path", path).Info("recording started")
	return nil
}

// StopCapture finalizes the current recording into the current artifact and
// releases the recorder. While idle it is a no-op and returns the existing
// artifact, if any. A stop before any audio was written discards the attempt.
func (c *Controller) StopCapture() (*Artifact, error) {
	if c.recording == nil {
		return c.current, nil
	}

	attempt := c.recording
	c.recording = nil

	if err := c.recorder.Stop(); err != nil {
		return nil, faults.NewDeviceUnavailable("could not stop recording", err)
	}

	info, err := os.Stat(attempt.path)
	if err != nil || info.Size() == 0 {
		// Nothing was captured. Discard the attempt.
		os.Remove(attempt.path)
		c.log.Info("recording discarded, no audio captured")
		return c.current, nil
	}

	artifact := &Artifact{
		Path:     attempt.path,
		MimeType: "audio/wav",
		Origin:   OriginRecorded,
		Duration: time.Since(attempt.startedAt).Round(time.Second),
	}
	c.setCurrent(artifact)
	c.log.WithFields(logrus.Fields{
		"path":     artifact.Path,
		"duration": artifact.Duration.String(),
	}).Info("recording finished")
	return artifact, nil
}

// SelectFile validates the file against the allow-list and makes it the
// current artifact. On rejection the current artifact is untouched.
func (c *Controller) SelectFile(path string) (*Artifact, error) {
	mime, err := mimeForFile(path)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("audio file: %w", err)
	}

	artifact := &Artifact{
		Path:     path,
		MimeType: mime,
		Origin:   OriginUploaded,
	}
	c.setCurrent(artifact)
	c.log.WithField("path", path).Info("audio file selected")
	return artifact, nil
}

// Current returns the current artifact, or nil when none has been acquired.
func (c *Controller) Current() *Artifact {
	return c.current
}

// Recording reports whether a capture session is active.
func (c *Controller) Recording() bool {
	return c.recording != nil
}

// setCurrent replaces the current artifact, releasing the previous one's
// transient resource first.
func (c *Controller) setCurrent(a *Artifact) {
	if c.current != nil {
		c.current.release()
	}
	c.current = a
}
