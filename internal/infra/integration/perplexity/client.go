package perplexity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bitmind-ai/leadbooth/internal/usecase"
)

const (
	defaultBaseURL = "https://api.perplexity.ai"
	model          = "sonar-pro"
)

const researchSystemPrompt = `You are a lead analysis expert for BitMind, a company building decentralized Deepfake Detection Systems leveraging the Bittensor Network.
Analyze the given lead information and provide:
1. Their background and relevance to AI/blockchain
2. Potential collaboration opportunities with BitMind
3. Suggested identity categories (investor, developer, student, founder, potential_partner, other)
4. A relevance score (0-100) based on their potential value to BitMind
Format with clear sections.`

const extractSystemPrompt = `Parse the following lead analysis and return a JSON object with:
{
  "relevanceScore": number (1-5, rounded to nearest integer),
  "suggestedIdentities": string[] (from: ["investor", "developer", "student", "founder", "potential_partner", "other"]),
  "analysis": string (summary of key points)
}`

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 90 * time.Second},
	}
}

// Research runs the first pipeline call: free-text research over the lead.
func (c *Client) Research(ctx context.Context, prompt string) (string, error) {
	return c.complete(ctx, chatRequest{
		Model: model,
		Messages: []message{
			{Role: "system", Content: researchSystemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.2,
		TopP:        0.9,
	})
}

// ExtractAnalysis runs the second call: the same service parses its own
// research output into the structured shape we persist.
func (c *Client) ExtractAnalysis(ctx context.Context, analysisText string) (*usecase.ParsedAnalysis, error) {
	content, err := c.complete(ctx, chatRequest{
		Model: model,
		Messages: []message{
			{Role: "system", Content: extractSystemPrompt},
			{Role: "user", Content: analysisText},
		},
		Temperature: 0.1,
	})
	if err != nil {
		return nil, err
	}

	var parsed usecase.ParsedAnalysis
	if err := json.Unmarshal([]byte(stripCodeFence(content)), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse analysis JSON: %w", err)
	}
	return &parsed, nil
}

func (c *Client) complete(ctx context.Context, payload chatRequest) (string, error) {
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("perplexity request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("perplexity error (status %d): %s", resp.StatusCode, string(body))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode perplexity response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("perplexity returned no choices")
	}

	return out.Choices[0].Message.Content, nil
}

// stripCodeFence unwraps ```json ... ``` fences the model sometimes adds.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
