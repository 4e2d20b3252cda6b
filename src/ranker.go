package main

import "sort"

// DefaultTop is the number of entries reported per table.
const DefaultTop = 10

// Ranked is one key and its count in a top-N listing.
type Ranked struct {
	Key   string
	Count int
}

// Top returns at most limit entries of t, highest count first. Equal counts
// keep the order in which their keys were first seen.
func Top(t *FrequencyTable, limit int) []Ranked {
	if t == nil || limit <= 0 || t.Len() == 0 {
		return []Ranked{}
	}

	items := make([]Ranked, 0, t.Len())
	for _, key := range t.order {
		items = append(items, Ranked{Key: key, Count: t.counts[key]})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Count > items[j].Count
	})

	if len(items) > limit {
		items = items[:limit]
	}

	return items
}
