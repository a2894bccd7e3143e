package digest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"briefcast/internal/core"
	"briefcast/internal/definition"
)

type stubDefinitionLoader struct {
	def *definition.Definition
	err error
}

func (s *stubDefinitionLoader) Load(ctx context.Context) (*definition.Definition, error) {
	return s.def, s.err
}

type stubCandidateFetcher struct {
	items []core.LibraryItem
	err   error
}

func (s *stubCandidateFetcher) Candidates(ctx context.Context, userID string, selectors []definition.Selector) ([]core.LibraryItem, error) {
	return s.items, s.err
}

type stubProfileResolver struct {
	profile string
	err     error
}

func (s *stubProfileResolver) Resolve(ctx context.Context, userID string, def *definition.Definition) (string, error) {
	return s.profile, s.err
}

// stubRanker assigns each candidate its own topic so diversified selection
// keeps every item, in input order.
type stubRanker struct {
	err error
}

func (s *stubRanker) Rank(ctx context.Context, candidates []core.LibraryItem, profile string, def *definition.Definition) ([]core.RankedItem, error) {
	if s.err != nil {
		return nil, s.err
	}
	ranked := make([]core.RankedItem, len(candidates))
	for i, c := range candidates {
		ranked[i] = core.RankedItem{Topic: fmt.Sprintf("topic-%d", i), Item: c}
	}
	return ranked, nil
}

// stubSummarizer writes summaries keyed by item id, defaulting to a long
// passing summary for ids it does not know.
type stubSummarizer struct {
	byID map[string]string
	err  error
}

func (s *stubSummarizer) Summarize(ctx context.Context, items []core.RankedItem, def *definition.Definition) error {
	if s.err != nil {
		return s.err
	}
	for i := range items {
		if summary, ok := s.byID[items[i].Item.ID]; ok {
			items[i].Summary = summary
		} else {
			items[i].Summary = strings.Repeat("s", 150)
		}
	}
	return nil
}

type stubNarrator struct {
	err error
}

func (s *stubNarrator) Narrate(ctx context.Context, items []core.RankedItem) ([]core.SpeechFile, error) {
	if s.err != nil {
		return nil, s.err
	}
	files := make([]core.SpeechFile, len(items))
	for i, item := range items {
		files[i] = core.SpeechFile{
			ItemID:      item.Item.ID,
			Title:       item.Item.Title,
			AudioPath:   "audio/" + item.Item.ID + ".mp3",
			MimeType:    "audio/mpeg",
			GeneratedAt: time.Now().UTC(),
		}
	}
	return files, nil
}

type recordingWriter struct {
	digests []core.Digest
	err     error
}

func (r *recordingWriter) WriteDigest(digest core.Digest) error {
	if r.err != nil {
		return r.err
	}
	r.digests = append(r.digests, digest)
	return nil
}

func candidateItems(n int) []core.LibraryItem {
	items := make([]core.LibraryItem, n)
	for i := range items {
		items[i] = core.LibraryItem{
			ID:    fmt.Sprintf("item-%d", i),
			Title: fmt.Sprintf("Title %d", i),
		}
	}
	return items
}

func testDef() *definition.Definition {
	return &definition.Definition{
		Name:               "daily",
		CandidateSelectors: []definition.Selector{{Query: "saved:true", Count: 20}},
		Prompts: definition.Prompts{
			Profile:   "profile {{titles}}",
			Rank:      "rank {{candidates}} {{profile}}",
			Summarize: "summarize {{title}}",
		},
	}
}

func newTestJob(writer *recordingWriter, summarizer *stubSummarizer) *Job {
	return NewJob(
		&stubDefinitionLoader{def: testDef()},
		&stubCandidateFetcher{items: candidateItems(3)},
		&stubProfileResolver{profile: "likes systems articles"},
		&stubRanker{},
		summarizer,
		&stubNarrator{},
		writer,
	)
}

func TestRunPersistsCompletedDigest(t *testing.T) {
	writer := &recordingWriter{}
	job := newTestJob(writer, &stubSummarizer{})

	got, err := job.Run(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(writer.digests) != 1 {
		t.Fatalf("expected 1 persisted digest, got %d", len(writer.digests))
	}
	persisted := writer.digests[0]

	if persisted.ID != got.ID {
		t.Errorf("returned digest id %q differs from persisted %q", got.ID, persisted.ID)
	}
	if persisted.UserID != "user-1" {
		t.Errorf("UserID = %q", persisted.UserID)
	}
	if persisted.State != core.DigestStateCompleted {
		t.Errorf("State = %q, want %q", persisted.State, core.DigestStateCompleted)
	}
	if persisted.Content != placeholderContent {
		t.Errorf("Content = %q", persisted.Content)
	}
	if len(persisted.AudioURLs) != 0 {
		t.Errorf("AudioURLs should start empty, got %v", persisted.AudioURLs)
	}
	if len(persisted.SpeechFiles) != 3 {
		t.Errorf("expected 3 speech files, got %d", len(persisted.SpeechFiles))
	}
	if persisted.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
}

func TestRunGeneratesFreshIDPerRun(t *testing.T) {
	writer := &recordingWriter{}
	job := newTestJob(writer, &stubSummarizer{})

	first, err := job.Run(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	second, err := job.Run(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}

	if first.ID == second.ID {
		t.Errorf("expected distinct digest ids, both %q", first.ID)
	}
}

func TestRunTitleIncludesFilteredOutItems(t *testing.T) {
	writer := &recordingWriter{}
	// item-1 gets a summary of exactly 100 characters and is dropped from
	// narration, but its title still belongs in the digest title.
	summarizer := &stubSummarizer{byID: map[string]string{
		"item-1": strings.Repeat("x", 100),
	}}
	job := newTestJob(writer, summarizer)

	got, err := job.Run(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(got.SpeechFiles) != 2 {
		t.Fatalf("expected 2 speech files after filtering, got %d", len(got.SpeechFiles))
	}
	for _, file := range got.SpeechFiles {
		if file.ItemID == "item-1" {
			t.Error("filtered item should not have a speech file")
		}
	}
	if !strings.Contains(got.Title, "Title 1") {
		t.Errorf("title should include filtered-out item title, got %q", got.Title)
	}
}

func TestRunAbortsWithoutPersistingOnFailure(t *testing.T) {
	tests := []struct {
		name string
		job  func(writer *recordingWriter) *Job
	}{
		{"definition load fails", func(w *recordingWriter) *Job {
			return NewJob(&stubDefinitionLoader{err: errors.New("boom")}, &stubCandidateFetcher{}, &stubProfileResolver{}, &stubRanker{}, &stubSummarizer{}, &stubNarrator{}, w)
		}},
		{"candidate retrieval fails", func(w *recordingWriter) *Job {
			return NewJob(&stubDefinitionLoader{def: testDef()}, &stubCandidateFetcher{err: errors.New("boom")}, &stubProfileResolver{}, &stubRanker{}, &stubSummarizer{}, &stubNarrator{}, w)
		}},
		{"profile resolution fails", func(w *recordingWriter) *Job {
			return NewJob(&stubDefinitionLoader{def: testDef()}, &stubCandidateFetcher{items: candidateItems(2)}, &stubProfileResolver{err: errors.New("boom")}, &stubRanker{}, &stubSummarizer{}, &stubNarrator{}, w)
		}},
		{"ranking fails", func(w *recordingWriter) *Job {
			return NewJob(&stubDefinitionLoader{def: testDef()}, &stubCandidateFetcher{items: candidateItems(2)}, &stubProfileResolver{}, &stubRanker{err: errors.New("boom")}, &stubSummarizer{}, &stubNarrator{}, w)
		}},
		{"summarization fails", func(w *recordingWriter) *Job {
			return NewJob(&stubDefinitionLoader{def: testDef()}, &stubCandidateFetcher{items: candidateItems(2)}, &stubProfileResolver{}, &stubRanker{}, &stubSummarizer{err: errors.New("boom")}, &stubNarrator{}, w)
		}},
		{"narration fails", func(w *recordingWriter) *Job {
			return NewJob(&stubDefinitionLoader{def: testDef()}, &stubCandidateFetcher{items: candidateItems(2)}, &stubProfileResolver{}, &stubRanker{}, &stubSummarizer{}, &stubNarrator{err: errors.New("boom")}, w)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writer := &recordingWriter{}
			if _, err := tt.job(writer).Run(context.Background(), "user-1"); err == nil {
				t.Fatal("expected error, got nil")
			}
			if len(writer.digests) != 0 {
				t.Errorf("no digest should be persisted on failure, got %d", len(writer.digests))
			}
		})
	}
}

func TestRunPersistenceFailurePropagates(t *testing.T) {
	writer := &recordingWriter{err: errors.New("disk full")}
	job := newTestJob(writer, &stubSummarizer{})

	if _, err := job.Run(context.Background(), "user-1"); err == nil {
		t.Fatal("expected error, got nil")
	}
}
