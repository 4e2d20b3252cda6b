package main

// FrequencyTable counts occurrences per key and remembers the order in which
// keys were first seen.
type FrequencyTable struct {
	counts map[string]int
	order  []string
}

// NewFrequencyTable returns an empty table.
func NewFrequencyTable() *FrequencyTable {
	return &FrequencyTable{counts: make(map[string]int)}
}

// Inc adds one occurrence of key.
func (t *FrequencyTable) Inc(key string) {
	if _, ok := t.counts[key]; !ok {
		t.order = append(t.order, key)
	}
	t.counts[key]++
}

// Count returns the occurrences of key, zero when unseen.
func (t *FrequencyTable) Count(key string) int {
	return t.counts[key]
}

// Len returns the number of distinct keys.
func (t *FrequencyTable) Len() int {
	return len(t.order)
}

// Total returns the sum of all counts.
func (t *FrequencyTable) Total() int {
	total := 0
	for _, count := range t.counts {
		total += count
	}
	return total
}

// Aggregator owns the per-run counters fed by parsed entries.
type Aggregator struct {
	parsed     int
	addresses  *FrequencyTable
	notFound   *FrequencyTable
	userAgents *FrequencyTable
}

// NewAggregator returns an Aggregator with empty tables.
func NewAggregator() *Aggregator {
	return &Aggregator{
		addresses:  NewFrequencyTable(),
		notFound:   NewFrequencyTable(),
		userAgents: NewFrequencyTable(),
	}
}

// Observe accounts for one parsed entry.
func (a *Aggregator) Observe(entry Entry) {
	a.parsed++
	a.addresses.Inc(entry.ClientAddr)
	if entry.Status == 404 {
		a.notFound.Inc(entry.Path)
	}
	a.userAgents.Inc(entry.UserAgent)
}

// Parsed returns the number of observed entries.
func (a *Aggregator) Parsed() int {
	return a.parsed
}

// Addresses returns the client address table.
func (a *Aggregator) Addresses() *FrequencyTable { return a.addresses }

// NotFound returns the 404 URL table.
func (a *Aggregator) NotFound() *FrequencyTable { return a.notFound }

// UserAgents returns the user agent table.
func (a *Aggregator) UserAgents() *FrequencyTable { return a.userAgents }

// Snapshot is the immutable result of one analysis pass.
type Snapshot struct {
	File          string
	SizeBytes     int64
	ParsedLines   int
	TopAddresses  []Ranked
	Top404URLs    []Ranked
	TopUserAgents []Ranked
}

// Snapshot ranks each table and freezes the result.
func (a *Aggregator) Snapshot(file string, size int64, limit int) Snapshot {
	return Snapshot{
		File:          file,
		SizeBytes:     size,
		ParsedLines:   a.parsed,
		TopAddresses:  Top(a.addresses, limit),
		Top404URLs:    Top(a.notFound, limit),
		TopUserAgents: Top(a.userAgents, limit),
	}
}
