package core

import "time"

// LibraryItem represents a saved article retrieved from the user's library
// via the search service.
type LibraryItem struct {
	ID              string    `json:"id"`               // Unique identifier assigned by the library
	Title           string    `json:"title"`            // Article title
	Author          string    `json:"author"`           // Article author (may be empty)
	SiteName        string    `json:"site_name"`        // Publishing site
	URL             string    `json:"url"`              // Original article URL
	Content         string    `json:"content"`          // Readable HTML content (only when requested)
	MarkdownContent string    `json:"markdown_content"` // Content converted to markdown, derived after retrieval
	ReadState       string    `json:"read_state"`       // e.g. "unread", "reading", "completed"
	SavedAt         time.Time `json:"saved_at"`         // When the user saved the item
	UpdatedAt       time.Time `json:"updated_at"`       // Last library update to the item
	WordCount       int       `json:"word_count"`       // Word count reported by the library
	HasHighlights   bool      `json:"has_highlights"`   // Whether the user highlighted this item
}

// RankedItem pairs a library item with the topic label assigned during
// ranking. Summary is filled in later by the summarization step.
type RankedItem struct {
	Topic   string      `json:"topic"`   // LLM-assigned topic label
	Summary string      `json:"summary"` // Generated summary, empty until summarization runs
	Item    LibraryItem `json:"item"`    // The underlying library item
}

// SpeechFile is an audio artifact produced from one summary.
type SpeechFile struct {
	ItemID      string    `json:"item_id"`      // Library item the audio narrates
	Title       string    `json:"title"`        // Item title, for display alongside the audio
	AudioPath   string    `json:"audio_path"`   // Location of the generated audio file
	MimeType    string    `json:"mime_type"`    // e.g. "audio/mpeg"
	GeneratedAt time.Time `json:"generated_at"` // When the audio was generated
}

// DigestStateCompleted is the only state a persisted digest ever carries:
// the job either writes a completed digest or writes nothing.
const DigestStateCompleted = "completed"

// Digest is the final composed artifact for one user and one run.
type Digest struct {
	ID          string       `json:"id"`           // Fresh unique id per run
	UserID      string       `json:"user_id"`      // Owner of the digest
	Title       string       `json:"title"`        // Computed from summarized item titles
	Content     string       `json:"content"`      // Fixed placeholder; the digest body is the audio
	AudioURLs   []string     `json:"audio_urls"`   // Always empty at creation; populated by a later upload step
	State       string       `json:"state"`        // DigestStateCompleted
	SpeechFiles []SpeechFile `json:"speech_files"` // One per item that survived filtering
	CreatedAt   time.Time    `json:"created_at"`   // When the digest was assembled
}

// DedupeItems returns items with duplicate IDs removed, preserving the
// order of first occurrence. Every retrieval phase runs its merged results
// through this before handing them downstream.
func DedupeItems(items []LibraryItem) []LibraryItem {
	seen := make(map[string]bool, len(items))
	out := make([]LibraryItem, 0, len(items))
	for _, item := range items {
		if seen[item.ID] {
			continue
		}
		seen[item.ID] = true
		out = append(out, item)
	}
	return out
}
