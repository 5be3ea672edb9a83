// Manual probe for the recorder + transcription path. Pipe raw PCM in (mono,
// 48kHz, 16-bit, e.g. from arecord or sox) and it records for the given
// duration, wraps the audio and sends it to the running API:
//
//	arecord -f S16_LE -r 48000 -c 1 -t raw | go run ./sample/record-and-transcribe -seconds 5
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"time"

	"github.com/bitmind-ai/leadbooth/internal/recorder"
)

func main() {
	apiURL := flag.String("api", "http://localhost:8080", "API base URL")
	seconds := flag.Int("seconds", 5, "how long to record")
	flag.Parse()

	rec := recorder.New(&recorder.ReaderSource{R: os.Stdin}, recorder.Options{})
	defer rec.Close()

	ctx := context.Background()

	if err := rec.Start(ctx); err != nil {
		log.Fatalf("start failed: %v", err)
	}
	log.Printf("recording for %ds...", *seconds)
	time.Sleep(time.Duration(*seconds) * time.Second)

	recording, err := rec.Stop(ctx)
	if err != nil {
		log.Fatalf("stop failed: %v", err)
	}
	log.Printf("captured %d bytes as %s", len(recording.Data), recording.MimeType)

	text, err := transcribe(*apiURL, recording)
	if err != nil {
		log.Fatalf("transcription failed: %v", err)
	}
	fmt.Println(text)
}

func transcribe(apiURL string, rec *recorder.Recording) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("audio", "recording")
	if err != nil {
		return "", err
	}
	if _, err := part.Write(rec.Data); err != nil {
		return "", err
	}
	if err := mw.WriteField("mimeType", rec.MimeType); err != nil {
		return "", err
	}
	mw.Close()

	resp, err := http.Post(apiURL+"/api/transcribe", mw.FormDataContentType(), &body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, string(raw))
	}
	return string(raw), nil
}
