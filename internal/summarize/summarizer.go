package summarize

import (
	"context"
	"fmt"

	"briefcast/internal/core"
	"briefcast/internal/definition"
)

// BatchCompleter is the LLM surface summarization needs: one logical batch
// call whose result slice has the same length and order as the prompts.
type BatchCompleter interface {
	CompleteBatch(ctx context.Context, prompts []string) ([]string, error)
}

// Summarizer generates summaries for the selected items in one batched call.
type Summarizer struct {
	llm BatchCompleter
}

// NewSummarizer creates a summarizer over the given LLM client.
func NewSummarizer(llm BatchCompleter) *Summarizer {
	return &Summarizer{llm: llm}
}

// Summarize issues a single batch with one prompt per item and assigns each
// response to its item by position. The batch ordering contract is what
// makes the positional assignment valid; any replacement LLM backend must
// preserve it.
func (s *Summarizer) Summarize(ctx context.Context, items []core.RankedItem, def *definition.Definition) error {
	if len(items) == 0 {
		return nil
	}

	prompts := make([]string, len(items))
	for i, item := range items {
		prompts[i] = definition.RenderPrompt(def.Prompts.Summarize, map[string]string{
			"title":   item.Item.Title,
			"author":  item.Item.Author,
			"content": item.Item.MarkdownContent,
		})
	}

	summaries, err := s.llm.CompleteBatch(ctx, prompts)
	if err != nil {
		return fmt.Errorf("batch summarization failed: %w", err)
	}
	if len(summaries) != len(items) {
		return fmt.Errorf("summarization returned %d results for %d items", len(summaries), len(items))
	}

	for i := range items {
		items[i].Summary = summaries[i]
	}
	return nil
}
