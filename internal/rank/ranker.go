package rank

import (
	"context"
	"fmt"
	"strings"

	"briefcast/internal/core"
	"briefcast/internal/definition"
	"briefcast/internal/logger"
)

// JSONCompleter is the LLM surface ranking needs: a completion constrained
// to JSON, decoded into a typed structure.
type JSONCompleter interface {
	CompleteJSON(ctx context.Context, prompt string, out any) error
}

// rankResponse is the structure the ranking prompt instructs the model to
// produce. Entries arrive in rank order; no local re-sorting is applied.
type rankResponse struct {
	RankedItems []rankEntry `json:"rankedItems"`
}

type rankEntry struct {
	ID    string `json:"id"`
	Topic string `json:"topic"`
}

// Ranker asks the LLM to order candidates against a user profile and assign
// each a topic label.
type Ranker struct {
	llm JSONCompleter
}

// NewRanker creates a ranker over the given LLM client.
func NewRanker(llm JSONCompleter) *Ranker {
	return &Ranker{llm: llm}
}

// Rank sends the candidate list and profile to the LLM and returns the
// response joined back to the candidate items, in the model's order. A
// response that is not parsable JSON is a hard failure; entries referencing
// unknown item ids are dropped.
func (r *Ranker) Rank(ctx context.Context, candidates []core.LibraryItem, profile string, def *definition.Definition) ([]core.RankedItem, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	var listing strings.Builder
	byID := make(map[string]core.LibraryItem, len(candidates))
	for _, item := range candidates {
		byID[item.ID] = item
		fmt.Fprintf(&listing, "%s: %s\n", item.ID, item.Title)
	}

	prompt := definition.RenderPrompt(def.Prompts.Rank, map[string]string{
		"candidates": listing.String(),
		"profile":    profile,
	})

	var resp rankResponse
	if err := r.llm.CompleteJSON(ctx, prompt, &resp); err != nil {
		return nil, fmt.Errorf("ranking failed: %w", err)
	}

	ranked := make([]core.RankedItem, 0, len(resp.RankedItems))
	for _, entry := range resp.RankedItems {
		item, ok := byID[entry.ID]
		if !ok {
			logger.Warn("Ranking referenced unknown item id", "id", entry.ID)
			continue
		}
		ranked = append(ranked, core.RankedItem{
			Topic: entry.Topic,
			Item:  item,
		})
	}

	return ranked, nil
}
