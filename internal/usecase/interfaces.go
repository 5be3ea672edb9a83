package usecase

import "context"

// ResearchClient is the AI research service (Perplexity). Two calls per lead:
// a free-text research completion, then a structured extraction of that text.
type ResearchClient interface {
	Research(ctx context.Context, prompt string) (string, error)
	ExtractAnalysis(ctx context.Context, analysisText string) (*ParsedAnalysis, error)
}

// TranscriptionClient is the speech-to-text service (Deepgram).
type TranscriptionClient interface {
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
}

// PhotoStorage persists admin-uploaded photos and returns a public URL.
type PhotoStorage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// EmailService sends the best-effort follow-up after a first capture.
type EmailService interface {
	SendFollowUp(name, email string) error
}

// AnalysisEnqueuer hands a lead to the analysis queue.
type AnalysisEnqueuer interface {
	PublishAnalysis(ctx context.Context, leadID string) error
}
