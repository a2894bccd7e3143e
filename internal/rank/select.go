package rank

import "briefcast/internal/core"

const (
	// maxSelected caps how many items one digest covers.
	maxSelected = 5
	// topicCap limits how many items of the same topic may be selected.
	topicCap = 2
)

// DiversifiedSelect picks up to maxSelected items from the ranked list while
// keeping at most topicCap items per topic, then regroups the selection by
// topic in first-seen order. The regrouping deliberately trades strict rank
// order for contiguous topic clusters: within a topic the relative rank
// order is preserved, but a lower-ranked item of an earlier topic comes
// before a higher-ranked item of a later topic.
func DiversifiedSelect(ranked []core.RankedItem) []core.RankedItem {
	counts := make(map[string]int)
	selected := make([]core.RankedItem, 0, maxSelected)
	var rankedTopics []string

	for _, item := range ranked {
		if len(selected) >= maxSelected {
			break
		}
		counts[item.Topic]++
		if counts[item.Topic] > topicCap {
			continue
		}
		if counts[item.Topic] == 1 {
			rankedTopics = append(rankedTopics, item.Topic)
		}
		selected = append(selected, item)
	}

	out := make([]core.RankedItem, 0, len(selected))
	for _, topic := range rankedTopics {
		for _, item := range selected {
			if item.Topic == topic {
				out = append(out, item)
			}
		}
	}
	return out
}
