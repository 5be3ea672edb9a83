package tests

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/bitmind-ai/leadbooth/internal/infra/http/handlers"
	"github.com/bitmind-ai/leadbooth/internal/usecase"
)

func multipartAudioRequest(t *testing.T, audio []byte, mimeType string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("audio", "recording")
	assert.NoError(t, err)
	_, err = part.Write(audio)
	assert.NoError(t, err)
	assert.NoError(t, w.WriteField("mimeType", mimeType))
	assert.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/transcribe", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestTranscribeReturnsText(t *testing.T) {
	transcriber := new(MockTranscriptionClient)
	transcriber.On("Transcribe", mock.Anything, []byte("fakewav"), "audio/wav").Return("hello from the booth", nil)

	h := handlers.NewTranscribeHandler(transcriber)
	rec := httptest.NewRecorder()
	h.Handle(rec, multipartAudioRequest(t, []byte("fakewav"), "audio/wav"))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "hello from the booth", resp["text"])
}

func TestTranscribeRejectsUnsupportedMimeType(t *testing.T) {
	transcriber := new(MockTranscriptionClient)

	h := handlers.NewTranscribeHandler(transcriber)
	rec := httptest.NewRecorder()
	h.Handle(rec, multipartAudioRequest(t, []byte("flacdata"), "audio/flac"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), usecase.CodeUnsupportedEncoding)
	assert.Contains(t, rec.Body.String(), "audio/wav") // error lists what is supported
	transcriber.AssertNotCalled(t, "Transcribe", mock.Anything, mock.Anything, mock.Anything)
}

func TestTranscribeUpstreamFailure(t *testing.T) {
	transcriber := new(MockTranscriptionClient)
	transcriber.On("Transcribe", mock.Anything, mock.Anything, mock.Anything).Return("", assert.AnError)

	h := handlers.NewTranscribeHandler(transcriber)
	rec := httptest.NewRecorder()
	h.Handle(rec, multipartAudioRequest(t, []byte("fakewav"), "audio/webm"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), usecase.CodeTranscriptionFailed)
}

func TestTranscribeRequiresAudioFile(t *testing.T) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	assert.NoError(t, w.WriteField("mimeType", "audio/wav"))
	assert.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/transcribe", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())

	h := handlers.NewTranscribeHandler(new(MockTranscriptionClient))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
