package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
)

const ollamaFallback = "The spirits cannot answer at this time. Try again later."

const ollamaPersona = "Pretend that you are a Ouija board. As a mystical Ouija board, " +
	"answer the following question in a short answer. " +
	"Respond without using any actions, such as *smiles*, *laughs*, or any text within asterisks. " +
	"If the question is a yes or no question, answer with a yes or a no. " +
	"Ensure your answer sounds mystical. Question: %s"

// OllamaClient talks to an Ollama generate endpoint in streaming mode.
type OllamaClient struct {
	url       string
	model     string
	maxTokens int
	client    *http.Client
}

type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

type ollamaOptions struct {
	NumPredict int `json:"num_predict"`
}

// ollamaChunk is one line of the newline-delimited response stream.
type ollamaChunk struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

func NewOllama(url, model string, maxTokens int, timeout time.Duration) *OllamaClient {
	return &OllamaClient{
		url:       url,
		model:     model,
		maxTokens: maxTokens,
		client:    &http.Client{Timeout: timeout},
	}
}

// Generate streams the model output and concatenates the chunks in arrival
// order. Transport and protocol failures degrade to the fallback text.
func (c *OllamaClient) Generate(ctx context.Context, question string) string {
	payload := ollamaRequest{
		Model:   c.model,
		Prompt:  fmt.Sprintf(ollamaPersona, question),
		Stream:  true,
		Options: ollamaOptions{NumPredict: c.maxTokens},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("ollama: marshal request: %v", err)
		return ollamaFallback
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		log.Printf("ollama: build request: %v", err)
		return ollamaFallback
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		log.Printf("ollama: request failed: %v", err)
		return ollamaFallback
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("ollama: unexpected status %s", resp.Status)
		return ollamaFallback
	}

	var answer strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var chunk ollamaChunk
		if err := json.Unmarshal(line, &chunk); err != nil {
			// Skip malformed lines, keep whatever streamed so far.
			continue
		}
		answer.WriteString(chunk.Response)
		if chunk.Done {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		log.Printf("ollama: reading stream: %v", err)
		return ollamaFallback
	}

	result := strings.TrimSpace(answer.String())
	if result == "" {
		return ollamaFallback
	}
	return result
}
