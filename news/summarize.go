package news

import (
	"context"
	"fmt"
	"math"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"inquiry-relay/models"
)

const (
	systemPrompt = "You are a financial news assistant. Summarize and format the following news into 5 concise headlines for a ticker tape. Each headline should be separated by ' | '."
	userPrompt   = "Here are the latest financial news stories:\n"
)

// Summarizer condenses headlines into a single ticker line with a chat
// completion model.
type Summarizer struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
}

type SummarizerOptions struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float32
}

func NewSummarizer(opts SummarizerOptions) *Summarizer {
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	return &Summarizer{
		client:      openai.NewClientWithConfig(cfg),
		model:       opts.Model,
		maxTokens:   opts.MaxTokens,
		temperature: opts.Temperature,
	}
}

func (s *Summarizer) Summarize(ctx context.Context, headlines []models.Headline) (string, error) {
	// go-openai omits a zero temperature, which the API reads as its default
	temperature := s.temperature
	if temperature == 0 {
		temperature = math.SmallestNonzeroFloat32
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt + FormatHeadlines(headlines)},
		},
		MaxTokens:   s.maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to summarize news: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptySummary
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// FormatHeadlines renders "title: snippet" lines.
func FormatHeadlines(headlines []models.Headline) string {
	lines := make([]string, 0, len(headlines))
	for _, h := range headlines {
		lines = append(lines, h.Title+": "+h.Snippet)
	}
	return strings.Join(lines, "\n")
}
