package digest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"briefcast/internal/core"
	"briefcast/internal/definition"
	"briefcast/internal/logger"
	"briefcast/internal/rank"
)

// DefinitionLoader fetches the digest definition that drives a run.
type DefinitionLoader interface {
	Load(ctx context.Context) (*definition.Definition, error)
}

// CandidateFetcher retrieves the items eligible for today's digest.
type CandidateFetcher interface {
	Candidates(ctx context.Context, userID string, selectors []definition.Selector) ([]core.LibraryItem, error)
}

// ProfileResolver produces the user's preference profile text.
type ProfileResolver interface {
	Resolve(ctx context.Context, userID string, def *definition.Definition) (string, error)
}

// ItemRanker orders candidates by fit and assigns topics.
type ItemRanker interface {
	Rank(ctx context.Context, candidates []core.LibraryItem, profile string, def *definition.Definition) ([]core.RankedItem, error)
}

// ItemSummarizer fills in summaries for the selected items.
type ItemSummarizer interface {
	Summarize(ctx context.Context, items []core.RankedItem, def *definition.Definition) error
}

// SpeechNarrator turns summaries into audio files.
type SpeechNarrator interface {
	Narrate(ctx context.Context, items []core.RankedItem) ([]core.SpeechFile, error)
}

// DigestWriter persists the completed digest.
type DigestWriter interface {
	WriteDigest(digest core.Digest) error
}

// Job runs the full digest pipeline for one user. Every step must succeed;
// a failure anywhere aborts the run and nothing is persisted.
type Job struct {
	definitions DefinitionLoader
	library     CandidateFetcher
	profiles    ProfileResolver
	ranker      ItemRanker
	summarizer  ItemSummarizer
	narrator    SpeechNarrator
	store       DigestWriter
}

// NewJob wires the pipeline together.
func NewJob(
	definitions DefinitionLoader,
	library CandidateFetcher,
	profiles ProfileResolver,
	ranker ItemRanker,
	summarizer ItemSummarizer,
	narrator SpeechNarrator,
	store DigestWriter,
) *Job {
	return &Job{
		definitions: definitions,
		library:     library,
		profiles:    profiles,
		ranker:      ranker,
		summarizer:  summarizer,
		narrator:    narrator,
		store:       store,
	}
}

// Run executes one digest run for the given user and returns the digest
// that was persisted.
func (j *Job) Run(ctx context.Context, userID string) (*core.Digest, error) {
	log := logger.Get()

	def, err := j.definitions.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load digest definition: %w", err)
	}
	log.Info("Loaded digest definition", "name", def.Name, "user_id", userID)

	candidates, err := j.library.Candidates(ctx, userID, def.CandidateSelectors)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve candidates: %w", err)
	}
	log.Info("Retrieved candidates", "count", len(candidates))

	profile, err := j.profiles.Resolve(ctx, userID, def)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user profile: %w", err)
	}

	ranked, err := j.ranker.Rank(ctx, candidates, profile, def)
	if err != nil {
		return nil, fmt.Errorf("failed to rank candidates: %w", err)
	}

	selected := rank.DiversifiedSelect(ranked)
	log.Info("Selected items", "ranked", len(ranked), "selected", len(selected))

	if err := j.summarizer.Summarize(ctx, selected, def); err != nil {
		return nil, fmt.Errorf("failed to summarize items: %w", err)
	}

	title := BuildTitle(selected)
	narratable := FilterSummaries(selected)
	log.Info("Filtered summaries", "summarized", len(selected), "kept", len(narratable))

	speechFiles, err := j.narrator.Narrate(ctx, narratable)
	if err != nil {
		return nil, fmt.Errorf("failed to narrate summaries: %w", err)
	}

	result := core.Digest{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       title,
		Content:     placeholderContent,
		AudioURLs:   []string{},
		State:       core.DigestStateCompleted,
		SpeechFiles: speechFiles,
		CreatedAt:   time.Now().UTC(),
	}

	if err := j.store.WriteDigest(result); err != nil {
		return nil, fmt.Errorf("failed to persist digest: %w", err)
	}
	log.Info("Digest completed", "digest_id", result.ID, "user_id", userID, "speech_files", len(speechFiles))

	return &result, nil
}
