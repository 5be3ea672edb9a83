package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/bitmind-ai/leadbooth/internal/infra/http/middleware"
	"github.com/bitmind-ai/leadbooth/internal/infra/integration/deepgram"
	"github.com/bitmind-ai/leadbooth/internal/usecase"
)

// 16MB covers a 2 minute WAV recording with headroom.
const maxAudioBytes = 16 << 20

type TranscribeHandler struct {
	Transcriber usecase.TranscriptionClient
}

func NewTranscribeHandler(transcriber usecase.TranscriptionClient) *TranscribeHandler {
	return &TranscribeHandler{Transcriber: transcriber}
}

// Handle accepts multipart form data with an "audio" file and its "mimeType",
// checks the encoding whitelist, and proxies to the speech-to-text service.
func (h *TranscribeHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxAudioBytes); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_UPLOAD", "Invalid multipart form")
		return
	}

	file, _, err := r.FormFile("audio")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_UPLOAD", "No audio file provided")
		return
	}
	defer file.Close()

	mimeType := r.FormValue("mimeType")
	if !deepgram.IsSupportedMimeType(mimeType) {
		writeError(w, http.StatusBadRequest, usecase.CodeUnsupportedEncoding,
			fmt.Sprintf("Unsupported audio format: %s. Supported formats are: %s",
				mimeType, strings.Join(deepgram.SupportedMimeTypes(), ", ")))
		return
	}

	audio, err := io.ReadAll(io.LimitReader(file, maxAudioBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_UPLOAD", "Failed to read audio")
		return
	}

	text, err := h.Transcriber.Transcribe(r.Context(), audio, mimeType)
	if err != nil {
		middleware.RecordTranscription("failed")
		middleware.RecordIntegrationError("deepgram")
		writeError(w, http.StatusInternalServerError, usecase.CodeTranscriptionFailed,
			"Failed to transcribe audio: "+err.Error())
		return
	}

	middleware.RecordTranscription("ok")
	writeJSON(w, http.StatusOK, map[string]string{"text": text})
}
