package storage

import (
	"context"
	"path/filepath"
	"testing"

	"fitcoach/model"
)

func newTestSqlite(t *testing.T) *SqliteStorage {
	t.Helper()
	storage, err := NewSqliteInMemory()
	if err != nil {
		t.Fatalf("NewSqliteInMemory failed: %v", err)
	}
	t.Cleanup(func() { storage.Close() })
	return storage
}

func TestSqliteSaveAndLoad(t *testing.T) {
	storage := newTestSqlite(t)
	ctx := context.Background()

	messages := []model.Message{
		model.UserMessage("Comment faire un squat ?"),
		model.AssistantMessage("Gardez le dos droit."),
	}

	if err := storage.Save(ctx, "test-session", messages); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := storage.Load(ctx, "test-session")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(loaded) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(loaded))
	}
	if loaded[0].Role != model.RoleUser || loaded[0].Content != "Comment faire un squat ?" {
		t.Errorf("unexpected first message: %+v", loaded[0])
	}
	if loaded[1].Role != model.RoleAssistant {
		t.Errorf("unexpected second message role: %s", loaded[1].Role)
	}
}

func TestSqliteRoundTripsArtifacts(t *testing.T) {
	storage := newTestSqlite(t)
	ctx := context.Background()

	recommendations := map[string]model.Recommendation{
		"vid_0": {
			ID:           "vid_0",
			Title:        "Squat technique",
			VideoURL:     "https://youtube.com/watch?v=abc123",
			ThumbnailURL: "https://img.youtube.com/vi/abc123/maxresdefault.jpg",
		},
	}

	grounding := model.AssistantMessage("je consulte la base")
	grounding.RequestedTools = []string{"retrieve"}

	messages := []model.Message{
		model.UserMessage("Comment faire un squat ?"),
		grounding,
		model.ToolResultMessage("contexte récupéré", recommendations),
		model.AssistantMessage("Voici comment faire."),
	}

	if err := storage.Save(ctx, "session-with-artifacts", messages); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := storage.Load(ctx, "session-with-artifacts")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(loaded))
	}

	if got := loaded[1].RequestedTools; len(got) != 1 || got[0] != "retrieve" {
		t.Errorf("requested tools not round-tripped: %v", got)
	}
	if !loaded[1].RequestsTools() {
		t.Error("loaded grounding message lost its tool request")
	}

	toolResult := loaded[2]
	if toolResult.Role != model.RoleToolResult {
		t.Fatalf("expected tool_result role, got %s", toolResult.Role)
	}
	rec, ok := toolResult.Artifact["vid_0"]
	if !ok {
		t.Fatalf("artifact not round-tripped: %v", toolResult.Artifact)
	}
	if rec != recommendations["vid_0"] {
		t.Errorf("recommendation changed across round trip: %+v", rec)
	}

	// Plain messages come back with no artifact at all.
	if loaded[3].Artifact != nil {
		t.Errorf("expected nil artifact on plain assistant message, got %v", loaded[3].Artifact)
	}
}

func TestSqliteSaveOverwritesHistory(t *testing.T) {
	storage := newTestSqlite(t)
	ctx := context.Background()

	first := []model.Message{
		model.UserMessage("premier"),
		model.AssistantMessage("réponse"),
	}
	if err := storage.Save(ctx, "test-session", first); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	second := []model.Message{
		model.UserMessage("second"),
	}
	if err := storage.Save(ctx, "test-session", second); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := storage.Load(ctx, "test-session")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded) != 1 {
		t.Errorf("expected history replaced with 1 message, got %d", len(loaded))
	}
	if loaded[0].Content != "second" {
		t.Errorf("expected 'second', got '%s'", loaded[0].Content)
	}
}

func TestSqliteLoadNonexistentSession(t *testing.T) {
	storage := newTestSqlite(t)

	loaded, err := storage.Load(context.Background(), "nonexistent")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded == nil {
		t.Error("expected empty slice, got nil")
	}
	if len(loaded) != 0 {
		t.Errorf("expected 0 messages, got %d", len(loaded))
	}
}

func TestSqliteDeleteSession(t *testing.T) {
	storage := newTestSqlite(t)
	ctx := context.Background()

	if err := storage.Save(ctx, "test-session", []model.Message{model.UserMessage("Test")}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := storage.Delete(ctx, "test-session"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	exists, err := storage.Exists(ctx, "test-session")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Error("expected session to not exist after deletion")
	}

	loaded, err := storage.Load(ctx, "test-session")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded) != 0 {
		t.Errorf("expected messages removed with session, got %d", len(loaded))
	}
}

func TestSqliteListSessions(t *testing.T) {
	storage := newTestSqlite(t)
	ctx := context.Background()

	msg := []model.Message{model.UserMessage("Test")}
	if err := storage.Save(ctx, "session-1", msg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := storage.Save(ctx, "session-2", msg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	sessions, err := storage.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(sessions) != 2 {
		t.Errorf("expected 2 sessions, got %d", len(sessions))
	}
}

func TestSqlitePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coach.db")
	ctx := context.Background()

	storage, err := OpenSqlite(path)
	if err != nil {
		t.Fatalf("OpenSqlite failed: %v", err)
	}
	if err := storage.Save(ctx, "persistent", []model.Message{model.UserMessage("bonjour")}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := storage.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := OpenSqlite(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	loaded, err := reopened.Load(ctx, "persistent")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded) != 1 || loaded[0].Content != "bonjour" {
		t.Errorf("history did not survive reopen: %v", loaded)
	}
}
