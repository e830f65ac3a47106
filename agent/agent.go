// Per-turn conversation control flow.
//
// One turn runs the sequential pipeline
// Deciding -> Retrieving -> Composing -> Done, with a direct
// Deciding -> Done exit when the history holds no user message.
//
// Information Hiding:
// - Retrieval coordination hidden
// - Prompt assembly hidden
// - Streaming delivery hidden behind the event channel

package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"fitcoach/llm"
	"fitcoach/model"
	"fitcoach/rag"
)

// ErrGenerationUnavailable is returned when the language model cannot
// produce the turn's answer. Unlike retrieval failures it is fatal for
// the turn: no assistant message is committed.
var ErrGenerationUnavailable = errors.New("language model unavailable")

// Event is one unit of a turn's output stream: either a text fragment
// of the answer or a batch of media recommendations. The two arrive
// independently; recommendation availability never blocks text
// delivery.
type Event struct {
	Fragment        string
	Recommendations map[string]model.Recommendation
}

// Agent orchestrates one conversation turn: it decides on retrieval,
// grounds the draft answer on retrieved context and streams the final
// reply. Each RunTurn invocation owns its in-flight message sequence;
// concurrent turns share nothing but the vector index behind the
// retriever.
type Agent struct {
	client    *llm.Client
	retriever *rag.Retriever
	logger    *slog.Logger
}

// New creates an agent from a language-model provider and a retriever.
func New(provider llm.Provider, retriever *rag.Retriever, logger *slog.Logger) *Agent {
	if logger == nil {
		logger = slog.Default()
	}
	return &Agent{
		client:    llm.NewClient(provider),
		retriever: retriever,
		logger:    logger,
	}
}

// RunTurn executes one conversation turn over the given history,
// sending Events to the caller-owned channel as they become available.
// It returns the final assistant message, the accumulated
// recommendation map and the elapsed time.
//
// A history without a user message is a no-op turn: zero events, empty
// recommendation map, no error. Retrieval failures degrade the turn to
// an ungrounded answer; only language-model failure aborts it.
func (a *Agent) RunTurn(ctx context.Context, history []model.Message, events chan<- Event) (model.TurnResult, error) {
	start := time.Now()

	// Deciding: find the question to answer.
	question, ok := lastUserMessage(history)
	if !ok {
		a.logger.Debug("no user message in history, skipping turn")
		return model.TurnResult{
			Recommendations: map[string]model.Recommendation{},
			DurationMs:      uint64(time.Since(start).Milliseconds()),
		}, nil
	}

	// Retrieving: ground the turn on the knowledge base. Failures are
	// non-fatal and leave the context empty.
	contextText, recommendations, err := a.retriever.Retrieve(ctx, question)
	if err != nil {
		a.logger.Warn("retrieval failed, answering ungrounded", "error", err)
		contextText = ""
		recommendations = nil
	}

	if len(recommendations) > 0 {
		if err := sendEvent(ctx, events, Event{Recommendations: recommendations}); err != nil {
			return model.TurnResult{}, err
		}
	}

	draft, err := a.client.Generate(ctx, []model.Message{
		model.UserMessage(groundingPrompt(contextText, question)),
	})
	if err != nil {
		return model.TurnResult{}, fmt.Errorf("%w: grounding: %v", ErrGenerationUnavailable, err)
	}

	sequence := make([]model.Message, 0, len(history)+1)
	sequence = append(sequence, history...)
	sequence = append(sequence, model.ToolResultMessage(draft, recommendations))

	// Composing: fold the grounded evidence into the system instruction
	// and stream the final answer over the filtered history.
	docsContent, merged := collectEvidence(sequence)
	prompt := append(
		[]model.Message{model.SystemMessage(composingSystemPrompt(docsContent))},
		filterHistory(history)...,
	)

	answer, err := a.streamAnswer(ctx, prompt, events)
	if err != nil {
		return model.TurnResult{}, err
	}

	return model.TurnResult{
		Message:         model.AssistantMessage(answer),
		Recommendations: merged,
		DurationMs:      uint64(time.Since(start).Milliseconds()),
	}, nil
}

// streamAnswer runs the streaming completion, forwarding fragments to
// the event channel in arrival order while accumulating the full text.
func (a *Agent) streamAnswer(ctx context.Context, prompt []model.Message, events chan<- Event) (string, error) {
	chunks := make(chan string, 64)
	errCh := make(chan error, 1)
	go func() {
		defer close(chunks)
		errCh <- a.client.GenerateStream(ctx, prompt, chunks)
	}()

	var answer strings.Builder
	for chunk := range chunks {
		answer.WriteString(chunk)
		if err := sendEvent(ctx, events, Event{Fragment: chunk}); err != nil {
			// Drain so the producer goroutine can finish.
			for range chunks {
			}
			<-errCh
			return "", err
		}
	}

	if err := <-errCh; err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationUnavailable, err)
	}
	return answer.String(), nil
}

// lastUserMessage scans the history from the end backward for the most
// recent user message.
func lastUserMessage(history []model.Message) (string, bool) {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == model.RoleUser {
			return history[i].Content, true
		}
	}
	return "", false
}

// collectEvidence gathers the tool-result messages produced since the
// most recent user message, concatenating their content in original
// order and unioning their artifacts (later entries win on id
// collision).
func collectEvidence(sequence []model.Message) (string, map[string]model.Recommendation) {
	start := 0
	for i := len(sequence) - 1; i >= 0; i-- {
		if sequence[i].Role == model.RoleUser {
			start = i + 1
			break
		}
	}

	var docsContent strings.Builder
	merged := make(map[string]model.Recommendation)
	for _, msg := range sequence[start:] {
		if msg.Role != model.RoleToolResult {
			continue
		}
		docsContent.WriteString(msg.Content)
		for id, rec := range msg.Artifact {
			merged[id] = rec
		}
	}
	return docsContent.String(), merged
}

// filterHistory keeps user and system messages plus assistant messages
// that did not defer to retrieval, excluding intermediate
// grounding-only turns from the final prompt.
func filterHistory(history []model.Message) []model.Message {
	filtered := make([]model.Message, 0, len(history))
	for _, msg := range history {
		switch msg.Role {
		case model.RoleUser, model.RoleSystem:
			filtered = append(filtered, msg)
		case model.RoleAssistant:
			if !msg.RequestsTools() {
				filtered = append(filtered, msg)
			}
		}
	}
	return filtered
}

func sendEvent(ctx context.Context, events chan<- Event, event Event) error {
	select {
	case events <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
