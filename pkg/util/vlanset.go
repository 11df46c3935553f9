package util

import (
	"encoding/json"
	"sort"
)

// VLANSet is a set of VLAN IDs.
type VLANSet map[int]bool

// NewVLANSet creates a set holding the given IDs.
func NewVLANSet(ids ...int) VLANSet {
	s := make(VLANSet, len(ids))
	for _, id := range ids {
		s[id] = true
	}
	return s
}

// Add inserts an ID.
func (s VLANSet) Add(id int) {
	s[id] = true
}

// AddRange inserts every ID in [lo, hi]. hi may be math.MaxInt.
func (s VLANSet) AddRange(lo, hi int) {
	if lo > hi {
		return
	}
	for v := lo; ; v++ {
		s[v] = true
		if v == hi {
			return
		}
	}
}

// Has reports membership.
func (s VLANSet) Has(id int) bool {
	return s[id]
}

// Merge adds every member of other to s.
func (s VLANSet) Merge(other VLANSet) {
	for id := range other {
		s[id] = true
	}
}

// Union returns a new set holding the members of s and other.
func (s VLANSet) Union(other VLANSet) VLANSet {
	out := s.Clone()
	out.Merge(other)
	return out
}

// Minus returns a new set holding the members of s not in other.
func (s VLANSet) Minus(other VLANSet) VLANSet {
	out := NewVLANSet()
	for id := range s {
		if !other[id] {
			out[id] = true
		}
	}
	return out
}

// Clone returns a copy of the set. A nil set clones to an empty one.
func (s VLANSet) Clone() VLANSet {
	out := make(VLANSet, len(s))
	for id := range s {
		out[id] = true
	}
	return out
}

// IntersectsInterval reports whether any member lies inside iv.
func (s VLANSet) IntersectsInterval(iv Interval) bool {
	if iv.High-iv.Low+1 < len(s) {
		for v := iv.Low; v <= iv.High; v++ {
			if s[v] {
				return true
			}
		}
		return false
	}
	for id := range s {
		if iv.Contains(id) {
			return true
		}
	}
	return false
}

// Sorted returns the members in ascending order.
func (s VLANSet) Sorted() []int {
	out := make([]int, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

// MarshalJSON renders the set as a sorted array.
func (s VLANSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON reads a set from an array of IDs.
func (s *VLANSet) UnmarshalJSON(data []byte) error {
	var ids []int
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = NewVLANSet(ids...)
	return nil
}

// MarshalYAML renders the set as a sorted sequence.
func (s VLANSet) MarshalYAML() (interface{}, error) {
	return s.Sorted(), nil
}
