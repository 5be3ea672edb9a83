package usecase

type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	_, ok := err.(*DomainError)
	return ok
}

// Error codes shared across the API surface.
const (
	CodeValidationError     = "VALIDATION_ERROR"
	CodeLeadNotFound        = "LEAD_NOT_FOUND"
	CodeUnsupportedEncoding = "UNSUPPORTED_ENCODING"
	CodeTranscriptionFailed = "TRANSCRIPTION_FAILED"
	CodeUploadFailed        = "UPLOAD_FAILED"
	CodeAnalysisFailed      = "ANALYSIS_FAILED"
	CodeUnauthorized        = "UNAUTHORIZED"
)
