package llm

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

const openAIFallback = "I am unable to answer at the moment."

const openAIPersona = "You are a mysterious Ouija board answering questions with brief, mystical responses."

// OpenAIClient asks a chat-completion backend for a single-shot answer.
// A non-empty base URL points it at any OpenAI-compatible server.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

func NewOpenAI(apiKey, baseURL, model string, timeout time.Duration) *OpenAIClient {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	config.HTTPClient = &http.Client{Timeout: timeout}
	return &OpenAIClient{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

func (c *OpenAIClient) Generate(ctx context.Context, question string) string {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: openAIPersona},
			{Role: openai.ChatMessageRoleUser, Content: question},
		},
	})
	if err != nil {
		log.Printf("openai: chat completion failed: %v", err)
		return openAIFallback
	}
	if len(resp.Choices) == 0 {
		log.Printf("openai: response carried no choices")
		return openAIFallback
	}

	result := strings.TrimSpace(resp.Choices[0].Message.Content)
	if result == "" {
		return openAIFallback
	}
	return result
}
