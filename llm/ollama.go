// Ollama Provider implementation using go-openai library.
//
// Information Hiding:
// - Uses the OpenAI-compatible API exposed by a local Ollama server
// - Default model is the Mistral instruct build the knowledge base was
//   tuned against
// - Streaming via go-openai library

package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	openai "github.com/sashabaranov/go-openai"

	"fitcoach/model"
)

const defaultOllamaBaseURL = "http://localhost:11434/v1"

// OllamaProvider implements the Provider interface for a local Ollama
// server. Ollama does not check the bearer token, so any non-empty API
// key is accepted.
type OllamaProvider struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
}

// NewOllamaProvider creates a new Ollama provider. The base URL can be
// overridden with OLLAMA_BASE_URL.
func NewOllamaProvider(apiKey, model string, maxTokens uint32, temperature float32) *OllamaProvider {
	baseURL := os.Getenv("OLLAMA_BASE_URL")
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}

	config := openai.DefaultConfig(apiKey)
	config.BaseURL = baseURL

	return &OllamaProvider{
		client:      openai.NewClientWithConfig(config),
		model:       model,
		maxTokens:   int(maxTokens),
		temperature: temperature,
	}
}

// Name returns the provider name.
func (p *OllamaProvider) Name() string {
	return "ollama"
}

// Model returns the current model.
func (p *OllamaProvider) Model() string {
	return p.model
}

// Generate sends a chat completion request.
func (p *OllamaProvider) Generate(ctx context.Context, messages []model.Message) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    convertToOpenAIMessages(messages),
		MaxTokens:   p.maxTokens,
		Temperature: p.temperature,
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// GenerateStream streams a chat completion.
func (p *OllamaProvider) GenerateStream(ctx context.Context, messages []model.Message, chunks chan<- string) error {
	req := openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    convertToOpenAIMessages(messages),
		MaxTokens:   p.maxTokens,
		Temperature: p.temperature,
		Stream:      true,
	}

	stream, err := p.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return fmt.Errorf("stream creation failed: %w", err)
	}
	defer stream.Close()

	for {
		response, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("stream recv failed: %w", err)
		}

		if len(response.Choices) > 0 {
			content := response.Choices[0].Delta.Content
			if content != "" {
				select {
				case chunks <- content:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	}
}

// Verify OllamaProvider implements Provider
var _ Provider = (*OllamaProvider)(nil)
