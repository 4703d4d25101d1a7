package audio

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Aun-shahid/TherapEase/internal/faults"
)

// Origin says how an artifact was acquired.
type Origin string

const (
	OriginRecorded Origin = "recorded"
	OriginUploaded Origin = "uploaded"
)

// Artifact is a single captured or selected audio unit, ready for analysis.
// The controller owns it until it is handed to the pipeline; read-only after.
type Artifact struct {
	Path     string
	MimeType string
	Origin   Origin
	Duration time.Duration // 0 when unknown
}

// Name returns the artifact's base file name.
func (a *Artifact) Name() string {
	return filepath.Base(a.Path)
}

// release frees the transient resource behind a replaced artifact. Recorded
// artifacts live in the state dir as temp WAVs and are deleted; uploaded
// files belong to the user and are left alone.
func (a *Artifact) release() {
	if a.Origin == OriginRecorded {
		os.Remove(a.Path)
	}
}

// mimeByExtension maps the documented allow-list to upload content types.
var mimeByExtension = map[string]string{
	".mp3":  "audio/mpeg",
	".mp4":  "audio/mp4",
	".mpeg": "audio/mpeg",
	".m4a":  "audio/mp4",
	".wav":  "audio/wav",
	".webm": "audio/webm",
}

func mimeForFile(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	mime, ok := mimeByExtension[ext]
	if !ok {
		return "", faults.NewUnsupportedFormat(filepath.Base(path))
	}
	return mime, nil
}
