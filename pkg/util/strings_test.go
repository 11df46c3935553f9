package util

import (
	"reflect"
	"testing"
)

func TestSplitCommaSeparated(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"", 0},
		{"espcsw03", 1},
		{"espcsw03,espcsw04", 2},
		{"espcsw03, espcsw04, , core-b", 3},
	}

	for _, tt := range tests {
		got := SplitCommaSeparated(tt.input)
		if len(got) != tt.want {
			t.Errorf("SplitCommaSeparated(%q) = %v (len %d), want len %d", tt.input, got, len(got), tt.want)
		}
	}
}

func TestShortName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"sw1", "sw1"},
		{"sw1.corp.example", "sw1"},
		{"core-a.lab", "core-a"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := ShortName(tt.input); got != tt.want {
			t.Errorf("ShortName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestJoinSorted(t *testing.T) {
	in := []string{"sw2", "core1", "sw1"}
	if got := JoinSorted(in); got != "core1, sw1, sw2" {
		t.Errorf("JoinSorted(%v) = %q", in, got)
	}
	if in[0] != "sw2" {
		t.Error("JoinSorted mutated its input")
	}
	if got := JoinSorted(nil); got != "" {
		t.Errorf("JoinSorted(nil) = %q, want empty", got)
	}
}

func TestSortedKeys(t *testing.T) {
	got := SortedKeys(map[string]int{"b": 1, "a": 2, "c": 3})
	if !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("SortedKeys = %v", got)
	}
}
