package audio

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"time"
)

// Recorder manages ffmpeg-based mic recording.
type Recorder struct {
	cmd *exec.Cmd
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) CheckFFmpeg() error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return fmt.Errorf("ffmpeg not found. Install it with your package manager")
	}
	return nil
}

// Start records from the default input device into outputPath as 16kHz mono
// WAV. Returns once the ffmpeg process is running.
func (r *Recorder) Start(outputPath string) error {
	if r.cmd != nil {
		return fmt.Errorf("recorder already running")
	}

	args := []string{
		"-f", inputFormat(),
		"-i", inputDevice(),
		"-ac", "1",
		"-ar", "16000",
		"-y",
		outputPath,
	}
	cmd := exec.Command("ffmpeg", args...)

	// Log stderr for diagnostics
	logPath := outputPath + ".ffmpeg.log"
	if logFile, err := os.Create(logPath); err == nil {
		cmd.Stderr = logFile
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting ffmpeg: %w", err)
	}

	r.cmd = cmd
	return nil
}

// Stop interrupts ffmpeg so it finalizes the WAV header, then waits for exit.
func (r *Recorder) Stop() error {
	if r.cmd == nil {
		return nil
	}
	cmd := r.cmd
	r.cmd = nil

	if err := cmd.Process.Signal(os.Interrupt); err != nil {
		_ = cmd.Process.Kill()
	}

	done := make(chan struct{})
	go func() {
		_ = cmd.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		_ = cmd.Process.Kill()
		<-done
	}
	return nil
}

// Running reports whether an ffmpeg process is active.
func (r *Recorder) Running() bool {
	return r.cmd != nil
}

func inputFormat() string {
	if runtime.GOOS == "darwin" {
		return "avfoundation"
	}
	return "alsa"
}

func inputDevice() string {
	if runtime.GOOS == "darwin" {
		return ":default"
	}
	return "default"
}
