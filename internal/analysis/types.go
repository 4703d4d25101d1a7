package analysis

// Kind selects one of the three speech analyses.
type Kind string

const (
	KindTranscribe Kind = "transcribe"
	KindDiarize    Kind = "diarize"
	KindSentiment  Kind = "sentiment"
)

// Utterance is one speaker turn from the diarized conversation, in
// chronological order.
type Utterance struct {
	Speaker   string `json:"speaker"`
	Utterance string `json:"utterance"`
}

// SentimentData is the per-utterance emotional annotation.
type SentimentData struct {
	PrimaryEmotion          string `json:"primary_emotion"`
	EmotionIntensity        int    `json:"emotion_intensity"`
	BriefAnalysis           string `json:"brief_analysis,omitempty"`
	TherapeuticSignificance string `json:"therapeutic_significance,omitempty"`
}

// AnnotatedUtterance pairs an utterance with its sentiment annotation.
type AnnotatedUtterance struct {
	Speaker       string        `json:"speaker"`
	Utterance     string        `json:"utterance"`
	SentimentData SentimentData `json:"sentiment_data"`
}

// Result is the typed outcome of one analysis call. Exactly one of the three
// payload fields is populated, matching Kind.
type Result struct {
	Kind       Kind
	Transcript string
	Diarized   []Utterance
	Annotated  []AnnotatedUtterance
}

// Wire shapes of the speech endpoints.

type transcribeResponse struct {
	TranscribedText string `json:"transcribed_text"`
}

type diarizeResponse struct {
	DiarizedConversation []Utterance `json:"diarized_conversation"`
}

type sentimentResponse struct {
	AnalyzedConversation []AnnotatedUtterance `json:"analyzed_conversation"`
}
