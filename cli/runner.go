// Command execution for CLI commands.
//
// Information Hiding:
// - Coaching pipeline setup hidden
// - Session persistence wiring hidden
// - Output formatting hidden

package cli

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/google/uuid"

	"fitcoach/agent"
	"fitcoach/config"
	"fitcoach/embedding"
	"fitcoach/llm"
	"fitcoach/model"
	"fitcoach/rag"
	"fitcoach/storage"
	"fitcoach/vectorstore/qdrant"
)

// Options holds CLI execution options.
type Options struct {
	Provider string
	DBPath   string
	Session  string
	Verbose  bool
}

// DefaultOptions returns default CLI options.
func DefaultOptions() Options {
	return Options{
		DBPath: ".fitcoach/fitcoach.db",
	}
}

// Questions shown at the start of a chat session, matching the coaching
// knowledge base's strongest topics.
var quickQuestions = []string{
	"Comment faire un squat correctement ?",
	"Que manger avant l'entraînement ?",
	"Comment perdre du poids durablement ?",
	"Comment éviter les blessures en musculation ?",
}

// coach bundles the wired conversation pipeline.
type coach struct {
	agent    *agent.Agent
	settings config.Settings
	logger   *slog.Logger
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// buildCoach wires provider, embedder, index, retriever and agent from
// settings.
func buildCoach(opts Options) (*coach, error) {
	settings, err := config.New(opts.Provider)
	if err != nil {
		return nil, err
	}
	logger := newLogger(opts.Verbose)

	providerType, err := llm.ParseProviderType(settings.LLM.Provider)
	if err != nil {
		return nil, err
	}
	provider, err := llm.NewProviderBuilder(providerType).
		Model(settings.LLM.Model).
		MaxTokens(settings.LLM.MaxTokens).
		Temperature(float32(settings.LLM.Temperature)).
		FromEnv()
	if err != nil {
		return nil, err
	}

	retriever := rag.NewRetriever(buildEmbedder(settings), buildIndex(settings), logger)

	return &coach{
		agent:    agent.New(provider, retriever, logger),
		settings: settings,
		logger:   logger,
	}, nil
}

func buildEmbedder(settings config.Settings) *embedding.OpenAIEmbedder {
	apiKey := os.Getenv("EMBEDDING_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		// Local OpenAI-compatible endpoints accept any token.
		apiKey = "local"
	}
	return embedding.NewOpenAIEmbedder(embedding.Config{
		APIKey:    apiKey,
		BaseURL:   settings.Embedding.BaseURL,
		Model:     settings.Embedding.Model,
		Dimension: settings.Embedding.Dimension,
	})
}

func buildIndex(settings config.Settings) *qdrant.Index {
	return qdrant.New(qdrant.Config{
		URL:        settings.Index.URL,
		APIKey:     settings.Index.APIKey,
		Collection: settings.Index.Collection,
	})
}

// Seed loads the knowledge-base dataset into the vector index.
// Idempotent: does nothing when the collection already exists.
func Seed(ctx context.Context, datasetPath string, opts Options) error {
	settings, err := config.New(opts.Provider)
	if err != nil {
		return err
	}
	logger := newLogger(opts.Verbose)

	if datasetPath == "" {
		datasetPath = settings.Dataset.Path
	}

	seeder := rag.NewSeeder(buildEmbedder(settings), buildIndex(settings), logger)
	count, err := seeder.SeedFromFile(ctx, datasetPath)
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}

	if count == 0 {
		fmt.Printf("Collection '%s' already seeded, nothing to do.\n", settings.Index.Collection)
	} else {
		fmt.Printf("Seeded %d documents into collection '%s'.\n", count, settings.Index.Collection)
	}
	return nil
}

// Ask answers a single question without session persistence.
func Ask(ctx context.Context, question string, opts Options) error {
	c, err := buildCoach(opts)
	if err != nil {
		return err
	}

	history := []model.Message{model.UserMessage(question)}
	_, err = runTurn(ctx, c.agent, history)
	return err
}

// Chat starts an interactive coaching session.
func Chat(ctx context.Context, opts Options) error {
	c, err := buildCoach(opts)
	if err != nil {
		return err
	}

	store, err := storage.OpenSqlite(opts.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	session := opts.Session
	if session == "" {
		session = uuid.NewString()
	}

	history, err := store.Load(ctx, session)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	if len(history) > 0 {
		fmt.Printf("Resuming session '%s' (%d messages)\n\n", session, len(history))
	} else {
		fmt.Printf("Session '%s'. Quelques questions pour démarrer :\n", session)
		for _, q := range quickQuestions {
			fmt.Printf("  - %s\n", q)
		}
		fmt.Println()
	}

	fmt.Println("Posez votre question. Type 'exit' to quit.")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			break
		}

		history = append(history, model.UserMessage(input))

		result, err := runTurn(ctx, c.agent, history)
		if err != nil {
			fmt.Fprintf(os.Stderr, "\nError: %v\n\n", err)
			// Roll back the uncommitted user message.
			history = history[:len(history)-1]
			continue
		}

		history = append(history, result.Message)
		if err := store.Save(ctx, session, history); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to save history: %v\n", err)
		}
	}

	return scanner.Err()
}

// Sessions lists persisted coaching sessions.
func Sessions(ctx context.Context, opts Options) error {
	store, err := storage.OpenSqlite(opts.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	sessions, err := store.ListSessions(ctx)
	if err != nil {
		return err
	}

	if len(sessions) == 0 {
		fmt.Println("No sessions.")
		return nil
	}
	for _, s := range sessions {
		fmt.Println(s)
	}
	return nil
}

// runTurn executes one turn, printing streamed fragments as they arrive
// and the video recommendations after the answer.
func runTurn(ctx context.Context, a *agent.Agent, history []model.Message) (model.TurnResult, error) {
	events := make(chan agent.Event, 64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for event := range events {
			if event.Fragment != "" {
				fmt.Print(event.Fragment)
			}
		}
	}()

	result, err := a.RunTurn(ctx, history, events)
	close(events)
	<-done
	if err != nil {
		return model.TurnResult{}, err
	}

	fmt.Println()
	printRecommendations(result.Recommendations)
	fmt.Println()
	return result, nil
}

func printRecommendations(recommendations map[string]model.Recommendation) {
	if len(recommendations) == 0 {
		return
	}

	ids := make([]string, 0, len(recommendations))
	for id := range recommendations {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Println("\nVidéos recommandées :")
	for _, id := range ids {
		rec := recommendations[id]
		fmt.Printf("  - %s: %s\n", rec.Title, rec.VideoURL)
	}
}
