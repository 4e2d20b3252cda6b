package main

import (
	"fmt"
	"reflect"
	"testing"
)

func tableOf(keys ...string) *FrequencyTable {
	t := NewFrequencyTable()
	for _, k := range keys {
		t.Inc(k)
	}
	return t
}

func TestTopOrdersByCountDescending(t *testing.T) {
	table := tableOf("a", "b", "b", "c", "c", "c")

	got := Top(table, 10)
	want := []Ranked{{"c", 3}, {"b", 2}, {"a", 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Top = %+v; want %+v", got, want)
	}
}

func TestTopTiesKeepFirstSeenOrder(t *testing.T) {
	table := tableOf("zeta", "alpha", "mid", "alpha", "zeta", "mid", "last")

	got := Top(table, 10)
	want := []Ranked{{"zeta", 2}, {"alpha", 2}, {"mid", 2}, {"last", 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Top = %+v; want %+v", got, want)
	}
}

func TestTopBoundary(t *testing.T) {
	large := NewFrequencyTable()
	for i := 0; i < 25; i++ {
		for j := 0; j <= i; j++ {
			large.Inc(fmt.Sprintf("k%02d", i))
		}
	}

	tests := []struct {
		name  string
		table *FrequencyTable
		limit int
		want  int
	}{
		{"fewer keys than limit", tableOf("a", "b", "c"), 10, 3},
		{"more keys than limit", large, 10, 10},
		{"limit one", large, 1, 1},
		{"empty table", NewFrequencyTable(), 10, 0},
		{"zero limit", large, 0, 0},
		{"negative limit", large, -1, 0},
		{"nil table", nil, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Top(tt.table, tt.limit)
			if got == nil {
				t.Fatalf("Top returned nil slice")
			}
			if len(got) != tt.want {
				t.Fatalf("len(Top) = %d; want %d", len(got), tt.want)
			}
		})
	}

	if top := Top(large, 1); top[0].Key != "k24" || top[0].Count != 25 {
		t.Fatalf("unexpected leader: %+v", top[0])
	}
}

func TestTopDoesNotMutateTable(t *testing.T) {
	table := tableOf("b", "a", "a")
	_ = Top(table, 1)

	if table.order[0] != "b" || table.order[1] != "a" {
		t.Fatalf("Top reordered the table: %v", table.order)
	}
	if table.Count("a") != 2 || table.Count("b") != 1 {
		t.Fatalf("Top changed counts")
	}
}
