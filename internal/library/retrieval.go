package library

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"briefcast/internal/core"
	"briefcast/internal/definition"
	"briefcast/internal/markdown"
)

// Retriever runs the selector-driven preference and candidate phases.
type Retriever struct {
	search SearchClient
}

// NewRetriever creates a retriever over the given search client.
func NewRetriever(search SearchClient) *Retriever {
	return &Retriever{search: search}
}

// Preferences retrieves the items representing what the user already likes.
// Each selector runs as an independent search (titles and metadata only);
// results are flattened in selector order and deduplicated by item id. A
// failure in any selector fails the whole phase.
func (r *Retriever) Preferences(ctx context.Context, userID string, selectors []definition.Selector) ([]core.LibraryItem, error) {
	items, err := r.runSelectors(ctx, userID, selectors, false)
	if err != nil {
		return nil, fmt.Errorf("preference retrieval failed: %w", err)
	}
	return items, nil
}

// Candidates retrieves the items that may go into today's digest. Content is
// requested in full and, after deduplication, each item's HTML content is
// converted to markdown.
func (r *Retriever) Candidates(ctx context.Context, userID string, selectors []definition.Selector) ([]core.LibraryItem, error) {
	items, err := r.runSelectors(ctx, userID, selectors, true)
	if err != nil {
		return nil, fmt.Errorf("candidate retrieval failed: %w", err)
	}

	for i := range items {
		md, err := markdown.HTMLToMarkdown(items[i].Content)
		if err != nil {
			return nil, fmt.Errorf("failed to convert content of item %s: %w", items[i].ID, err)
		}
		items[i].MarkdownContent = md
	}

	return items, nil
}

// runSelectors fans out one search per selector, preserving selector order
// in the flattened result.
func (r *Retriever) runSelectors(ctx context.Context, userID string, selectors []definition.Selector, includeContent bool) ([]core.LibraryItem, error) {
	results := make([][]core.LibraryItem, len(selectors))

	g, gctx := errgroup.WithContext(ctx)
	for i, sel := range selectors {
		g.Go(func() error {
			items, err := r.search.Search(gctx, sel.Query, sel.Count, includeContent, userID)
			if err != nil {
				return fmt.Errorf("selector %q: %w", sel.Query, err)
			}
			results[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var flat []core.LibraryItem
	for _, items := range results {
		flat = append(flat, items...)
	}
	return core.DedupeItems(flat), nil
}
