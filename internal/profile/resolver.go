package profile

import (
	"context"
	"fmt"
	"strings"

	"briefcast/internal/core"
	"briefcast/internal/definition"
	"briefcast/internal/logger"
)

const cacheKeyPrefix = "briefcast:profile:"

// Completer is the LLM surface profile resolution needs.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// PreferenceFetcher retrieves the items used as profile evidence.
type PreferenceFetcher interface {
	Preferences(ctx context.Context, userID string, selectors []definition.Selector) ([]core.LibraryItem, error)
}

// Resolver resolves the free-text reading profile for a user.
type Resolver struct {
	cache     Cache
	llm       Completer
	retriever PreferenceFetcher
}

// NewResolver creates a profile resolver.
func NewResolver(cache Cache, llm Completer, retriever PreferenceFetcher) *Resolver {
	return &Resolver{cache: cache, llm: llm, retriever: retriever}
}

// Resolve returns the user's reading profile, computing and caching it on
// first use. Concurrent calls for the same uncached user may both compute;
// the cache write is last-write-wins and both results are equivalent, so no
// single-flight coordination is applied.
func (r *Resolver) Resolve(ctx context.Context, userID string, def *definition.Definition) (string, error) {
	key := cacheKeyPrefix + userID

	cached, found, err := r.cache.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("profile cache lookup failed: %w", err)
	}
	if found {
		logger.Debug("Profile cache hit", "user_id", userID)
		return cached, nil
	}

	items, err := r.retriever.Preferences(ctx, userID, def.PreferenceSelectors)
	if err != nil {
		return "", fmt.Errorf("failed to retrieve preference items: %w", err)
	}

	titles := make([]string, 0, len(items))
	for _, item := range items {
		titles = append(titles, item.Title)
	}

	prompt := definition.RenderPrompt(def.Prompts.Profile, map[string]string{
		"titles": strings.Join(titles, "\n"),
	})

	profile, err := r.llm.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to generate profile: %w", err)
	}
	profile = strings.TrimSpace(profile)

	if err := r.cache.Set(ctx, key, profile); err != nil {
		return "", fmt.Errorf("failed to cache profile: %w", err)
	}

	logger.Info("Computed user profile", "user_id", userID, "preference_items", len(items))
	return profile, nil
}
