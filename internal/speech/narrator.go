package speech

import (
	"context"
	"fmt"
	"time"

	"briefcast/internal/core"
	"briefcast/internal/markdown"
)

// AudioGenerator is the synthesis surface the narrator depends on.
type AudioGenerator interface {
	GenerateAudio(ctx context.Context, text string, filename string) (string, error)
}

// Narrator turns item summaries into speech files, one per item.
type Narrator struct {
	tts AudioGenerator
}

// NewNarrator creates a narrator over the given TTS client.
func NewNarrator(tts AudioGenerator) *Narrator {
	return &Narrator{tts: tts}
}

// Narrate synthesizes one speech file per item, in input order. Summaries
// are markdown; they are rendered to HTML with literal tags escaped so any
// markup the model emitted is spoken as text, then flattened to plain text
// before synthesis.
func (n *Narrator) Narrate(ctx context.Context, items []core.RankedItem) ([]core.SpeechFile, error) {
	files := make([]core.SpeechFile, 0, len(items))

	for _, item := range items {
		rendered := markdown.ToHTML(item.Summary, markdown.Options{EscapeHTMLTags: true})
		text, err := markdown.HTMLToText(rendered)
		if err != nil {
			return nil, fmt.Errorf("failed to prepare speech text for item %s: %w", item.Item.ID, err)
		}

		audioPath, err := n.tts.GenerateAudio(ctx, text, item.Item.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to synthesize audio for item %s: %w", item.Item.ID, err)
		}

		files = append(files, core.SpeechFile{
			ItemID:      item.Item.ID,
			Title:       item.Item.Title,
			AudioPath:   audioPath,
			MimeType:    "audio/mpeg",
			GeneratedAt: time.Now().UTC(),
		})
	}

	return files, nil
}
