package deepgram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.deepgram.com"

// mimeEncodings maps the audio types we accept to Deepgram encodings.
// Fixed whitelist; anything else is rejected before we touch the API.
var mimeEncodings = map[string]string{
	"audio/webm": "webm",
	"audio/mp4":  "mp4",
	"audio/wav":  "wav",
	"audio/ogg":  "ogg",
	"audio/mpeg": "mp3",
}

// IsSupportedMimeType reports whether the transcription whitelist accepts t.
func IsSupportedMimeType(t string) bool {
	_, ok := mimeEncodings[t]
	return ok
}

// SupportedMimeTypes returns the whitelist, sorted for stable error messages.
func SupportedMimeTypes() []string {
	out := make([]string, 0, len(mimeEncodings))
	for t := range mimeEncodings {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		// Transcription of a 2 minute clip can take a while.
		http: &http.Client{Timeout: 120 * time.Second},
	}
}

// Transcribe sends the raw audio to Deepgram and returns the transcript.
// An empty transcript (no speech detected) is an error, matching how the
// admin console treats silence.
func (c *Client) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if !IsSupportedMimeType(mimeType) {
		return "", fmt.Errorf("unsupported audio format: %s", mimeType)
	}

	url := fmt.Sprintf(
		"%s/v1/listen?model=nova-2&smart_format=true&language=en&punctuate=true&mimetype=%s",
		c.baseURL, mimeType,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(audio))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Token "+c.apiKey)
	req.Header.Set("Content-Type", mimeType)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("deepgram request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		var apiErr errorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.ErrMsg != "" {
			return "", fmt.Errorf("deepgram error (status %d): %s", resp.StatusCode, apiErr.ErrMsg)
		}
		return "", fmt.Errorf("deepgram error (status %d): %s", resp.StatusCode, string(body))
	}

	var out transcriptionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode deepgram response: %w", err)
	}

	if len(out.Results.Channels) == 0 || len(out.Results.Channels[0].Alternatives) == 0 {
		return "", fmt.Errorf("no transcript returned")
	}

	transcript := strings.TrimSpace(out.Results.Channels[0].Alternatives[0].Transcript)
	if transcript == "" {
		return "", fmt.Errorf("no transcript returned: the audio might be too quiet or contain no speech")
	}

	return transcript, nil
}
