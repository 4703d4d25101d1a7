package audio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Aun-shahid/TherapEase/internal/faults"
	"github.com/Aun-shahid/TherapEase/internal/logger"
)

func writeAudioFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("RIFFxxxxWAVE"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestController(t *testing.T) *Controller {
	t.Helper()
	return NewController(NewRecorder(), t.TempDir(), logger.New().Entry)
}

func TestSelectFile_AllowedExtensions(t *testing.T) {
	dir := t.TempDir()
	c := newTestController(t)

	for _, name := range []string{"a.mp3", "b.mp4", "c.mpeg", "d.m4a", "e.wav", "f.webm", "g.WAV"} {
		path := writeAudioFile(t, dir, name)
		if _, err := c.SelectFile(path); err != nil {
			t.Errorf("SelectFile(%s) failed: %v", name, err)
		}
	}
}

func TestSelectFile_RejectsUnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	c := newTestController(t)

	path := writeAudioFile(t, dir, "session.mov")
	_, err := c.SelectFile(path)
	if !faults.Is(err, faults.CodeUnsupportedFormat) {
		t.Fatalf("err = %v, want UNSUPPORTED_FORMAT", err)
	}
}

func TestSelectFile_RejectionLeavesCurrentArtifact(t *testing.T) {
	dir := t.TempDir()
	c := newTestController(t)

	good := writeAudioFile(t, dir, "intake.wav")
	if _, err := c.SelectFile(good); err != nil {
		t.Fatal(err)
	}

	bad := writeAudioFile(t, dir, "session.mov")
	if _, err := c.SelectFile(bad); err == nil {
		t.Fatal("expected rejection")
	}

	if c.Current() == nil || c.Current().Path != good {
		t.Errorf("current artifact changed after rejected select, got %+v", c.Current())
	}
}

func TestSelectFile_MissingFile(t *testing.T) {
	c := newTestController(t)

	if _, err := c.SelectFile(filepath.Join(t.TempDir(), "nope.wav")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestSelectFile_ReplacingRecordedArtifactDeletesTempWav(t *testing.T) {
	dir := t.TempDir()
	c := newTestController(t)

	// Simulate a finished recording owning a temp WAV.
	recorded := writeAudioFile(t, dir, "capture-20250101-120000.wav")
	c.setCurrent(&Artifact{Path: recorded, MimeType: "audio/wav", Origin: OriginRecorded})

	next := writeAudioFile(t, dir, "followup.mp3")
	if _, err := c.SelectFile(next); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(recorded); !os.IsNotExist(err) {
		t.Error("recorded temp WAV should be removed when replaced")
	}
	if c.Current().Path != next {
		t.Errorf("current = %q, want %q", c.Current().Path, next)
	}
}

func TestSelectFile_ReplacingUploadedArtifactKeepsFile(t *testing.T) {
	dir := t.TempDir()
	c := newTestController(t)

	first := writeAudioFile(t, dir, "first.wav")
	if _, err := c.SelectFile(first); err != nil {
		t.Fatal(err)
	}
	second := writeAudioFile(t, dir, "second.wav")
	if _, err := c.SelectFile(second); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(first); err != nil {
		t.Error("user-selected file must not be deleted on replacement")
	}
}

func TestStopCapture_IdleIsNoOp(t *testing.T) {
	c := newTestController(t)

	artifact, err := c.StopCapture()
	if err != nil {
		t.Fatalf("StopCapture while idle returned error: %v", err)
	}
	if artifact != nil {
		t.Errorf("artifact = %+v, want nil", artifact)
	}
}

func TestMimeForFile(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"a.mp3", "audio/mpeg"},
		{"a.m4a", "audio/mp4"},
		{"a.webm", "audio/webm"},
	}
	for _, tt := range tests {
		got, err := mimeForFile(tt.name)
		if err != nil {
			t.Errorf("mimeForFile(%s) error: %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("mimeForFile(%s) = %q, want %q", tt.name, got, tt.want)
		}
	}

	if _, err := mimeForFile("a.flac"); !faults.Is(err, faults.CodeUnsupportedFormat) {
		t.Errorf("flac should be rejected, got %v", err)
	}
}
