package util

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// maxExpandSpan bounds how many IDs a single "A-B" or "A to B" token may
// expand to. Anything wider is treated as malformed text and ignored.
const maxExpandSpan = 1 << 16

// Interval is an inclusive range of VLAN IDs.
type Interval struct {
	Low  int `json:"low" yaml:"low"`
	High int `json:"high" yaml:"high"`
}

// Label renders the interval as "S-E", or "S" when it holds a single ID.
func (iv Interval) Label() string {
	return formatRange(iv.Low, iv.High)
}

// Contains reports whether v lies inside the interval.
func (iv Interval) Contains(v int) bool {
	return v >= iv.Low && v <= iv.High
}

// Overlaps reports whether the two intervals share at least one ID.
func (iv Interval) Overlaps(other Interval) bool {
	return !(other.High < iv.Low || other.Low > iv.High)
}

var (
	commentRe  = regexp.MustCompile(`#[^\n]*`)
	tokenSepRe = regexp.MustCompile(`[,\s]+`)
)

// ExpandVLANTokens expands a free-form VLAN list expression into a set.
// Supported tokens:
//   - "10"        -> {10}
//   - "12-14"     -> {12, 13, 14}
//   - "20 to 22"  -> {20, 21, 22}
//
// Text after '#' on a line is a comment. Unrecognized tokens, including the
// keyword "all", are skipped silently.
func ExpandVLANTokens(expr string) VLANSet {
	vids := NewVLANSet()
	expr = commentRe.ReplaceAllString(expr, "")
	toks := tokenSepRe.Split(strings.TrimSpace(expr), -1)

	for i := 0; i < len(toks); i++ {
		tok := toks[i]
		switch {
		case isDigits(tok):
			if v, err := strconv.Atoi(tok); err == nil {
				vids.Add(v)
			}
		case strings.EqualFold(tok, "to"):
			if i == 0 || i+1 >= len(toks) || !isDigits(toks[i-1]) || !isDigits(toks[i+1]) {
				continue
			}
			a, errA := strconv.Atoi(toks[i-1])
			b, errB := strconv.Atoi(toks[i+1])
			if errA == nil && errB == nil && a <= b && b-a < maxExpandSpan {
				vids.AddRange(a, b)
			}
			i++ // "A to B" consumes B
		default:
			if iv, ok := ParseDashRange(tok); ok && iv.High-iv.Low < maxExpandSpan {
				vids.AddRange(iv.Low, iv.High)
			}
		}
	}
	return vids
}

// ParseDashRange parses an "A-B" token. It fails unless both sides are bare
// integers and A <= B.
func ParseDashRange(tok string) (Interval, bool) {
	lo, hi, found := strings.Cut(tok, "-")
	if !found || !isDigits(lo) || !isDigits(hi) {
		return Interval{}, false
	}
	a, err := strconv.Atoi(lo)
	if err != nil {
		return Interval{}, false
	}
	b, err := strconv.Atoi(hi)
	if err != nil || a > b {
		return Interval{}, false
	}
	return Interval{Low: a, High: b}, true
}

// MergeIntervals returns the minimal sorted set of disjoint intervals covering
// the same IDs. Overlapping and adjacent intervals are coalesced.
func MergeIntervals(in []Interval) []Interval {
	if len(in) == 0 {
		return nil
	}

	sorted := make([]Interval, len(in))
	copy(sorted, in)
	SortIntervals(sorted)

	merged := []Interval{sorted[0]}
	for _, iv := range sorted[1:] {
		last := &merged[len(merged)-1]
		if iv.Low <= last.High+1 {
			if iv.High > last.High {
				last.High = iv.High
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

// PointsToSegments coalesces a set of IDs into maximal runs of consecutive
// values.
func PointsToSegments(points []int) []Interval {
	if len(points) == 0 {
		return nil
	}

	pts := make([]int, len(points))
	copy(pts, points)
	sort.Ints(pts)
	pts = dedupInts(pts)

	var segs []Interval
	start, prev := pts[0], pts[0]
	for _, p := range pts[1:] {
		if p == prev+1 {
			prev = p
			continue
		}
		segs = append(segs, Interval{Low: start, High: prev})
		start, prev = p, p
	}
	return append(segs, Interval{Low: start, High: prev})
}

// SubtractPoints removes every listed ID from the intervals, splitting each
// interval into the sub-ranges that survive. Points outside every interval
// are ignored.
func SubtractPoints(in []Interval, points []int) []Interval {
	pts := make([]int, len(points))
	copy(pts, points)
	sort.Ints(pts)
	pts = dedupInts(pts)

	var out []Interval
	for _, iv := range in {
		cur := iv.Low
		for i := sort.SearchInts(pts, iv.Low); i < len(pts) && pts[i] <= iv.High; i++ {
			p := pts[i]
			if p != cur {
				out = append(out, Interval{Low: cur, High: p - 1})
			}
			cur = p + 1
		}
		if cur <= iv.High {
			out = append(out, Interval{Low: cur, High: iv.High})
		}
	}
	return out
}

// SortIntervals orders intervals by low bound, then high bound.
func SortIntervals(ivs []Interval) {
	sort.Slice(ivs, func(i, j int) bool {
		if ivs[i].Low != ivs[j].Low {
			return ivs[i].Low < ivs[j].Low
		}
		return ivs[i].High < ivs[j].High
	})
}

// ExpandIntervals returns every ID covered by the intervals, sorted and
// deduplicated.
func ExpandIntervals(ivs []Interval) []int {
	set := NewVLANSet()
	for _, iv := range ivs {
		set.AddRange(iv.Low, iv.High)
	}
	return set.Sorted()
}

// CompactRange compacts a list of integers into range notation
// [1, 2, 3, 5, 7, 8, 9] -> "1-3,5,7-9"
func CompactRange(values []int) string {
	segs := PointsToSegments(values)
	parts := make([]string, len(segs))
	for i, s := range segs {
		parts[i] = s.Label()
	}
	return strings.Join(parts, ",")
}

func formatRange(start, end int) string {
	if start == end {
		return strconv.Itoa(start)
	}
	return fmt.Sprintf("%d-%d", start, end)
}

func dedupInts(sorted []int) []int {
	if len(sorted) == 0 {
		return sorted
	}
	result := []int{sorted[0]}
	for i := 1; i < len(sorted); i++ {
		if sorted[i] != sorted[i-1] {
			result = append(result, sorted[i])
		}
	}
	return result
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
