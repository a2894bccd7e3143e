package profile

import (
	"context"
	"strings"
	"testing"

	"briefcast/internal/core"
	"briefcast/internal/definition"
)

type memoryCache struct {
	values map[string]string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: make(map[string]string)}
}

func (m *memoryCache) Get(ctx context.Context, key string) (string, bool, error) {
	value, ok := m.values[key]
	return value, ok, nil
}

func (m *memoryCache) Set(ctx context.Context, key, value string) error {
	m.values[key] = value
	return nil
}

type mockCompleter struct {
	response   string
	callCount  int
	lastPrompt string
}

func (m *mockCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	m.callCount++
	m.lastPrompt = prompt
	return m.response, nil
}

type mockPreferences struct {
	items     []core.LibraryItem
	callCount int
}

func (m *mockPreferences) Preferences(ctx context.Context, userID string, selectors []definition.Selector) ([]core.LibraryItem, error) {
	m.callCount++
	return m.items, nil
}

func testDefinition() *definition.Definition {
	return &definition.Definition{
		PreferenceSelectors: []definition.Selector{{Query: "is:read", Count: 5}},
		Prompts: definition.Prompts{
			Profile: "Describe a reader who saved:\n{{titles}}",
		},
	}
}

func TestResolveComputesAndCaches(t *testing.T) {
	cache := newMemoryCache()
	llm := &mockCompleter{response: "Likes distributed systems."}
	prefs := &mockPreferences{items: []core.LibraryItem{
		{ID: "1", Title: "Raft Explained"},
		{ID: "2", Title: "Paxos Made Simple"},
	}}

	resolver := NewResolver(cache, llm, prefs)

	got, err := resolver.Resolve(context.Background(), "user-1", testDefinition())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if got != "Likes distributed systems." {
		t.Errorf("Unexpected profile: %q", got)
	}

	if !strings.Contains(llm.lastPrompt, "Raft Explained") || !strings.Contains(llm.lastPrompt, "Paxos Made Simple") {
		t.Errorf("Expected item titles in prompt, got: %q", llm.lastPrompt)
	}

	if _, ok := cache.values[cacheKeyPrefix+"user-1"]; !ok {
		t.Error("Expected profile to be written to cache")
	}
}

func TestResolveCacheHitSkipsRecomputation(t *testing.T) {
	cache := newMemoryCache()
	llm := &mockCompleter{response: "Fresh profile"}
	prefs := &mockPreferences{items: []core.LibraryItem{{ID: "1", Title: "One"}}}

	resolver := NewResolver(cache, llm, prefs)

	first, err := resolver.Resolve(context.Background(), "user-1", testDefinition())
	if err != nil {
		t.Fatalf("First resolve failed: %v", err)
	}

	second, err := resolver.Resolve(context.Background(), "user-1", testDefinition())
	if err != nil {
		t.Fatalf("Second resolve failed: %v", err)
	}

	if first != second {
		t.Errorf("Expected identical profiles, got %q and %q", first, second)
	}
	if llm.callCount != 1 {
		t.Errorf("Expected 1 LLM call across both resolves, got %d", llm.callCount)
	}
	if prefs.callCount != 1 {
		t.Errorf("Expected 1 preference retrieval across both resolves, got %d", prefs.callCount)
	}
}

func TestResolveDistinctUsersComputeSeparately(t *testing.T) {
	cache := newMemoryCache()
	llm := &mockCompleter{response: "profile"}
	prefs := &mockPreferences{items: []core.LibraryItem{{ID: "1", Title: "One"}}}

	resolver := NewResolver(cache, llm, prefs)

	if _, err := resolver.Resolve(context.Background(), "user-1", testDefinition()); err != nil {
		t.Fatalf("Resolve user-1 failed: %v", err)
	}
	if _, err := resolver.Resolve(context.Background(), "user-2", testDefinition()); err != nil {
		t.Fatalf("Resolve user-2 failed: %v", err)
	}

	if llm.callCount != 2 {
		t.Errorf("Expected 2 LLM calls for distinct users, got %d", llm.callCount)
	}
}
