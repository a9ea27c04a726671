package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/phtrivia/phtrivia-backend/internal/models"
)

// Client talks to an OpenAI-compatible chat endpoint to draft trivia
// questions for admin review.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient creates the client. The API key comes from the environment
// so it never sits in the main config struct.
func NewClient(baseURL, model string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  os.Getenv("AI_API_KEY"),
		model:   model,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// questionDraft is the JSON shape the model is asked to produce.
type questionDraft struct {
	Text         string   `json:"text"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
	Points       int64    `json:"points"`
}

const draftSystemPrompt = `You write multiple-choice trivia questions. ` +
	`Respond with a JSON array only, no prose. Each element: ` +
	`{"text": string, "options": [4 strings], "correct_index": int, "points": int between 10 and 100}.`

// DraftQuestions asks the model for count draft questions on a topic.
// Drafts carry no IDs; they exist only until an admin accepts them.
func (c *Client) DraftQuestions(ctx context.Context, topic string, count int) ([]models.Question, error) {
	prompt := fmt.Sprintf("Write %d trivia questions about: %s", count, topic)

	reqBody, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: draftSystemPrompt},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("ai: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("ai: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ai: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ai: unexpected status %d", resp.StatusCode)
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return nil, fmt.Errorf("ai: decode response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return nil, fmt.Errorf("ai: empty response")
	}

	drafts, err := parseDrafts(chat.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	questions := make([]models.Question, 0, len(drafts))
	for _, d := range drafts {
		if strings.TrimSpace(d.Text) == "" || len(d.Options) < 2 {
			continue
		}
		if d.CorrectIndex < 0 || d.CorrectIndex >= len(d.Options) {
			continue
		}
		points := d.Points
		if points <= 0 {
			points = 10
		}

		q := models.Question{
			Text:   strings.TrimSpace(d.Text),
			Points: points,
		}
		for i, text := range d.Options {
			q.Options = append(q.Options, models.Option{
				Text:      strings.TrimSpace(text),
				IsCorrect: i == d.CorrectIndex,
			})
		}
		questions = append(questions, q)
	}

	if len(questions) == 0 {
		return nil, fmt.Errorf("ai: no usable drafts in response")
	}
	return questions, nil
}

// parseDrafts reads the model output, tolerating a ```json fence.
func parseDrafts(content string) ([]questionDraft, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var drafts []questionDraft
	if err := json.Unmarshal([]byte(content), &drafts); err != nil {
		return nil, fmt.Errorf("ai: parse drafts: %w", err)
	}
	return drafts, nil
}
