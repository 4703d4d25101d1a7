package analysis

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/Aun-shahid/TherapEase/internal/audio"
	"github.com/Aun-shahid/TherapEase/internal/faults"
	"github.com/Aun-shahid/TherapEase/internal/logger"
)

// plainDoer sends without session handling, for exercising the client alone.
type plainDoer struct{}

func (plainDoer) Do(req *http.Request) (*http.Response, error) {
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, faults.NewNetworkFailure(err)
	}
	return resp, nil
}

func testArtifact(t *testing.T) *audio.Artifact {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.wav")
	if err := os.WriteFile(path, []byte("RIFFxxxxWAVEdata"), 0o644); err != nil {
		t.Fatal(err)
	}
	return &audio.Artifact{Path: path, MimeType: "audio/wav", Origin: audio.OriginUploaded}
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	return NewClient(baseURL, plainDoer{}, logger.New().Entry)
}

func TestAnalyze_TranscribeObjectShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/speech/transcribe/audio" {
			t.Errorf("path = %s", r.URL.Path)
		}
		mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mediaType != "multipart/form-data" {
			t.Errorf("content type = %q", r.Header.Get("Content-Type"))
		}
		reader, err := r.MultipartReader()
		if err != nil {
			t.Fatalf("multipart: %v", err)
		}
		part, err := reader.NextPart()
		if err != nil {
			t.Fatalf("no part: %v", err)
		}
		if part.FormName() != "audio_file" {
			t.Errorf("field = %q, want audio_file", part.FormName())
		}
		if ct := part.Header.Get("Content-Type"); ct != "audio/wav" {
			t.Errorf("part content type = %q, want audio/wav", ct)
		}
		data, _ := io.ReadAll(part)
		if string(data) != "RIFFxxxxWAVEdata" {
			t.Errorf("uploaded bytes = %q", data)
		}
		fmt.Fprint(w, `{"transcribed_text": "How are you feeling today?"}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	result, err := c.Analyze(context.Background(), KindTranscribe, testArtifact(t))
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if result.Transcript != "How are you feeling today?" {
		t.Errorf("Transcript = %q", result.Transcript)
	}
}

func TestAnalyze_TranscribeBareString(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `"I have been sleeping badly."`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	result, err := c.Analyze(context.Background(), KindTranscribe, testArtifact(t))
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if result.Transcript != "I have been sleeping badly." {
		t.Errorf("Transcript = %q", result.Transcript)
	}
}

func TestAnalyze_Diarize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/speech/speaker_recognition/audio" {
			t.Errorf("path = %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"diarized_conversation": [
			{"speaker": "Therapist", "utterance": "Hello, how are you feeling today?"},
			{"speaker": "Patient", "utterance": "Not great, honestly."}
		]}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	result, err := c.Analyze(context.Background(), KindDiarize, testArtifact(t))
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(result.Diarized) != 2 {
		t.Fatalf("utterances = %d, want 2", len(result.Diarized))
	}
	if result.Diarized[0].Speaker != "Therapist" || result.Diarized[1].Speaker != "Patient" {
		t.Errorf("speakers = %+v", result.Diarized)
	}
}

func TestAnalyze_Sentiment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/speech/sentiment_analysis/audio" {
			t.Errorf("path = %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"analyzed_conversation": [
			{"speaker": "Patient", "utterance": "I can't stop worrying.",
			 "sentiment_data": {"primary_emotion": "anxiety", "emotion_intensity": 4,
			                    "brief_analysis": "persistent worry", "therapeutic_significance": "monitor"}}
		]}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	result, err := c.Analyze(context.Background(), KindSentiment, testArtifact(t))
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(result.Annotated) != 1 {
		t.Fatalf("utterances = %d, want 1", len(result.Annotated))
	}
	got := result.Annotated[0].SentimentData
	if got.PrimaryEmotion != "anxiety" || got.EmotionIntensity != 4 {
		t.Errorf("sentiment = %+v", got)
	}
}

func TestAnalyze_EmptyDiarizationIsMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"diarized_conversation": []}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.Analyze(context.Background(), KindDiarize, testArtifact(t))
	if !faults.Is(err, faults.CodeMalformedResponse) {
		t.Fatalf("err = %v, want MALFORMED_RESPONSE", err)
	}
}

func TestAnalyze_MissingFieldsAreMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"diarized_conversation": [{"speaker": "", "utterance": "hello"}]}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.Analyze(context.Background(), KindDiarize, testArtifact(t))
	if !faults.Is(err, faults.CodeMalformedResponse) {
		t.Fatalf("err = %v, want MALFORMED_RESPONSE", err)
	}
}

func TestAnalyze_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.Analyze(context.Background(), KindDiarize, testArtifact(t))
	if !faults.Is(err, faults.CodeServerError) {
		t.Fatalf("err = %v, want SERVER_ERROR", err)
	}
}

func TestAnalyze_IndependentCallsAreNotDeduplicated(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, `{"diarized_conversation": [{"speaker": "A", "utterance": "hi"}]}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	artifact := testArtifact(t)
	for i := 0; i < 2; i++ {
		if _, err := c.Analyze(context.Background(), KindDiarize, artifact); err != nil {
			t.Fatalf("Analyze %d failed: %v", i, err)
		}
	}
	if n := calls.Load(); n != 2 {
		t.Errorf("calls = %d, want 2 (no caching across calls)", n)
	}
}
