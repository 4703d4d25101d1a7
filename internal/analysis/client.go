package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"github.com/Aun-shahid/TherapEase/internal/audio"
	"github.com/Aun-shahid/TherapEase/internal/faults"
)

// uploadField is the single multipart field the speech endpoints read.
const uploadField = "audio_file"

var endpoints = map[Kind]string{
	KindTranscribe: "/speech/transcribe/audio",
	KindDiarize:    "/speech/speaker_recognition/audio",
	KindSentiment:  "/speech/sentiment_analysis/audio",
}

// Doer sends an authenticated HTTP request. Satisfied by the session manager.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client issues the three remote speech analyses. Each call is a standalone
// upload; nothing is cached or deduplicated across calls.
type Client struct {
	baseURL string
	doer    Doer
	log     *logrus.Entry
}

func NewClient(baseURL string, doer Doer, log *logrus.Entry) *Client {
	return &Client{
		baseURL: baseURL,
		doer:    doer,
		log:     log.WithField("component", "analysis"),
	}
}

// Analyze uploads the artifact to the endpoint for kind and returns a typed
// result. Connection-level failures are retried briefly; HTTP failures are
// terminal here (401 recovery already happened inside the session manager).
func (c *Client) Analyze(ctx context.Context, kind Kind, artifact *audio.Artifact) (*Result, error) {
	path, ok := endpoints[kind]
	if !ok {
		return nil, fmt.Errorf("unknown analysis kind %q", kind)
	}

	body, contentType, err := buildUpload(artifact)
	if err != nil {
		return nil, err
	}

	log := c.log.WithFields(logrus.Fields{"kind": string(kind), "artifact": artifact.Name()})
	log.Info("submitting audio for analysis")
	start := time.Now()

	var resp *http.Response
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", contentType)

		resp, err = c.doer.Do(req)
		if err != nil {
			if faults.Is(err, faults.CodeNetworkFailure) {
				return err
			}
			return backoff.Permanent(err)
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 15 * time.Second
	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		log.WithField("error", err.Error()).Warn("analysis request failed")
		return nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, faults.NewNetworkFailure(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, faults.NewServerError(resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	result, err := decode(kind, payload)
	if err != nil {
		return nil, err
	}

	log.WithField("duration_ms", time.Since(start).Milliseconds()).Info("analysis complete")
	return result, nil
}

// buildUpload serializes the artifact as a single-part multipart body with the
// artifact's own content type on the part.
func buildUpload(artifact *audio.Artifact) ([]byte, string, error) {
	file, err := os.Open(artifact.Path)
	if err != nil {
		return nil, "", fmt.Errorf("opening audio file: %w", err)
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name=%q; filename=%q`, uploadField, artifact.Name()))
	header.Set("Content-Type", artifact.MimeType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, "", fmt.Errorf("reading audio file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}

	return buf.Bytes(), writer.FormDataContentType(), nil
}

// decode validates the payload against the expected schema for kind. On any
// mismatch the payload is discarded and a typed failure returned; corrupt
// data never reaches aggregation.
func decode(kind Kind, payload []byte) (*Result, error) {
	switch kind {
	case KindTranscribe:
		var obj transcribeResponse
		if err := json.Unmarshal(payload, &obj); err == nil && obj.TranscribedText != "" {
			return &Result{Kind: kind, Transcript: obj.TranscribedText}, nil
		}
		// The endpoint may also return the transcript as a bare JSON string.
		var text string
		if err := json.Unmarshal(payload, &text); err != nil || text == "" {
			return nil, faults.NewMalformedResponse("transcription response has no text", err)
		}
		return &Result{Kind: kind, Transcript: text}, nil

	case KindDiarize:
		var obj diarizeResponse
		if err := json.Unmarshal(payload, &obj); err != nil {
			return nil, faults.NewMalformedResponse("diarization response is not valid JSON", err)
		}
		if len(obj.DiarizedConversation) == 0 {
			return nil, faults.NewMalformedResponse("diarization response has no utterances", nil)
		}
		for i, u := range obj.DiarizedConversation {
			if u.Speaker == "" || u.Utterance == "" {
				return nil, faults.NewMalformedResponse(
					fmt.Sprintf("diarization utterance %d missing speaker or text", i), nil)
			}
		}
		return &Result{Kind: kind, Diarized: obj.DiarizedConversation}, nil

	case KindSentiment:
		var obj sentimentResponse
		if err := json.Unmarshal(payload, &obj); err != nil {
			return nil, faults.NewMalformedResponse("sentiment response is not valid JSON", err)
		}
		if len(obj.AnalyzedConversation) == 0 {
			return nil, faults.NewMalformedResponse("sentiment response has no utterances", nil)
		}
		for i, u := range obj.AnalyzedConversation {
			if u.Speaker == "" || u.SentimentData.PrimaryEmotion == "" {
				return nil, faults.NewMalformedResponse(
					fmt.Sprintf("sentiment utterance %d missing speaker or emotion", i), nil)
			}
		}
		return &Result{Kind: kind, Annotated: obj.AnalyzedConversation}, nil
	}
	return nil, fmt.Errorf("unknown analysis kind %q", kind)
}
