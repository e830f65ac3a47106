// Security tests for LLM providers to ensure error messages don't leak API keys.
package llm

import (
	"context"
	"strings"
	"testing"
	"time"

	"fitcoach/model"
)

// TestOpenAIErrorNoAPIKeyLeak verifies OpenAI errors don't contain API keys
func TestOpenAIErrorNoAPIKeyLeak(t *testing.T) {
	// Use intentionally invalid API key
	testKey := "sk-test-invalid-key-12345xyz"
	provider := NewOpenAIProvider(testKey, "gpt-4o-mini", 100, 0.7)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := provider.Generate(ctx, []model.Message{
		model.UserMessage("test"),
	})

	if err == nil {
		t.Skip("Expected error with invalid API key, but got success - skipping leak test")
	}

	errStr := err.Error()
	if strings.Contains(errStr, testKey) {
		t.Errorf("OpenAI error message leaked API key: %v", errStr)
	}

	if strings.Contains(errStr, "Authorization:") {
		t.Errorf("OpenAI error exposed Authorization header: %v", errStr)
	}
}

// TestAnthropicErrorNoAPIKeyLeak verifies Anthropic errors don't contain API keys
func TestAnthropicErrorNoAPIKeyLeak(t *testing.T) {
	testKey := "sk-ant-REDACTED"
	provider := NewAnthropicProvider(testKey, "claude-sonnet-4-20250514", 100, 0.7)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := provider.Generate(ctx, []model.Message{
		model.UserMessage("test"),
	})

	if err == nil {
		t.Skip("Expected error with invalid API key, but got success - skipping leak test")
	}

	errStr := err.Error()
	if strings.Contains(errStr, testKey) {
		t.Errorf("Anthropic error message leaked API key: %v", errStr)
	}

	if strings.Contains(errStr, "x-api-key:") || strings.Contains(errStr, "X-API-Key:") {
		t.Errorf("Anthropic error exposed API key header: %v", errStr)
	}
}

// TestStreamErrorNoAPIKeyLeak verifies streaming errors don't leak API keys
func TestStreamErrorNoAPIKeyLeak(t *testing.T) {
	testKey := "sk-test-invalid-key-12345xyz"
	provider := NewOpenAIProvider(testKey, "gpt-4o-mini", 100, 0.7)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	chunks := make(chan string, 10)
	err := provider.GenerateStream(ctx, []model.Message{
		model.UserMessage("test"),
	}, chunks)

	if err == nil {
		t.Skip("Expected error with invalid API key, but got success - skipping leak test")
	}

	if strings.Contains(err.Error(), testKey) {
		t.Errorf("Stream error message leaked API key: %v", err)
	}
}

func TestParseProviderType(t *testing.T) {
	tests := []struct {
		input   string
		want    ProviderType
		wantErr bool
	}{
		{"ollama", ProviderOllama, false},
		{"mistral", ProviderOllama, false},
		{"", ProviderOllama, false},
		{"openai", ProviderOpenAI, false},
		{"GPT", ProviderOpenAI, false},
		{"claude", ProviderAnthropic, false},
		{"google", ProviderGemini, false},
		{"mainframe", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseProviderType(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseProviderType(%q): expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseProviderType(%q): unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseProviderType(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestConvertDropsToolResults(t *testing.T) {
	messages := []model.Message{
		model.SystemMessage("sys"),
		model.UserMessage("hi"),
		model.ToolResultMessage("internal context", nil),
		model.AssistantMessage("hello"),
	}

	converted := convertToOpenAIMessages(messages)
	if len(converted) != 3 {
		t.Fatalf("expected 3 messages after conversion, got %d", len(converted))
	}
	for _, m := range converted {
		if m.Role == string(model.RoleToolResult) {
			t.Errorf("tool-result message leaked into provider request")
		}
	}
}
