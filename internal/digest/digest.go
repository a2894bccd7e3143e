package digest

import (
	"strings"
	"unicode/utf8"

	"briefcast/internal/core"
)

// minSummaryLength is the quality gate for narration: a summary must be
// strictly longer than this many characters to earn a speech file.
// TODO: replace with a real quality check instead of a length cutoff.
const minSummaryLength = 100

// titlePrefix labels every generated digest title.
const titlePrefix = "Today's audio digest: "

// placeholderContent fills the digest content field. The digest body is the
// audio; the text column exists only for schema compatibility.
const placeholderContent = "Audio digest - see speech files"

// FilterSummaries keeps the items whose summaries pass the length gate.
// Order is preserved.
func FilterSummaries(items []core.RankedItem) []core.RankedItem {
	kept := make([]core.RankedItem, 0, len(items))
	for _, item := range items {
		if utf8.RuneCountInString(item.Summary) > minSummaryLength {
			kept = append(kept, item)
		}
	}
	return kept
}

// BuildTitle builds the digest title from the full summarized set, before
// the length filter runs, so items the filter later drops still appear in
// the title.
func BuildTitle(items []core.RankedItem) string {
	titles := make([]string, 0, len(items))
	for _, item := range items {
		titles = append(titles, item.Item.Title)
	}
	return titlePrefix + strings.Join(titles, ", ")
}
