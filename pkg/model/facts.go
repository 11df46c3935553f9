// Package model defines the per-device VLAN fact sheet and the report rows
// produced by an audit run.
package model

import (
	"encoding/json"

	"github.com/newtron-network/vlanaudit/pkg/util"
)

// DeviceFacts is everything extracted about VLANs from one device's
// configuration dumps.
type DeviceFacts struct {
	// DeclaredSingles are VLAN IDs declared on their own ("vlan 10", or a
	// bare ID in a "The VLANs include:" list).
	DeclaredSingles util.VLANSet `json:"declared_singles" yaml:"declared_singles"`

	// DeclaredRanges are declared ranges as written. They may overlap and
	// repeat; use NormalizedRanges for algebra.
	DeclaredRanges []util.Interval `json:"declared_ranges" yaml:"declared_ranges"`

	VLANNames map[int]string `json:"vlan_names" yaml:"vlan_names"`

	// SVI maps VLAN ID to the IPv4 addresses bound to its VLAN interface.
	SVI map[int]IPSet `json:"svi" yaml:"svi"`

	// Access holds VLANs used untagged (access VLAN, PVID, hybrid untagged).
	Access util.VLANSet `json:"access" yaml:"access"`

	// TrunkRules is keyed by interface name.
	TrunkRules map[string]*TrunkRule `json:"trunk_rules" yaml:"trunk_rules"`
}

// TrunkRule captures the tagging directives of one trunk or hybrid port.
type TrunkRule struct {
	Trunk        bool         `json:"trunk" yaml:"trunk"`
	AllFlag      bool         `json:"all" yaml:"all"`
	Exceptions   util.VLANSet `json:"exceptions" yaml:"exceptions"`
	AllowList    util.VLANSet `json:"allow_list" yaml:"allow_list"`
	HybridTagged util.VLANSet `json:"hybrid_tagged" yaml:"hybrid_tagged"`
}

// NewDeviceFacts creates an empty fact sheet with all maps allocated.
func NewDeviceFacts() *DeviceFacts {
	return &DeviceFacts{
		DeclaredSingles: util.NewVLANSet(),
		VLANNames:       make(map[int]string),
		SVI:             make(map[int]IPSet),
		Access:          util.NewVLANSet(),
		TrunkRules:      make(map[string]*TrunkRule),
	}
}

// NewTrunkRule creates an empty rule with all sets allocated.
func NewTrunkRule() *TrunkRule {
	return &TrunkRule{
		Exceptions:   util.NewVLANSet(),
		AllowList:    util.NewVLANSet(),
		HybridTagged: util.NewVLANSet(),
	}
}

// Tagged returns the VLANs explicitly tagged on the port. Exceptions are not
// subtracted.
func (r *TrunkRule) Tagged() util.VLANSet {
	return r.AllowList.Union(r.HybridTagged)
}

// Clone returns a deep copy of the rule.
func (r *TrunkRule) Clone() *TrunkRule {
	return &TrunkRule{
		Trunk:        r.Trunk,
		AllFlag:      r.AllFlag,
		Exceptions:   r.Exceptions.Clone(),
		AllowList:    r.AllowList.Clone(),
		HybridTagged: r.HybridTagged.Clone(),
	}
}

// Merge folds other into r. Flags are OR-ed and sets unioned, so merging is
// order-independent.
func (r *TrunkRule) Merge(other *TrunkRule) {
	if other == nil {
		return
	}
	r.Trunk = r.Trunk || other.Trunk
	r.AllFlag = r.AllFlag || other.AllFlag
	r.Exceptions.Merge(other.Exceptions)
	r.AllowList.Merge(other.AllowList)
	r.HybridTagged.Merge(other.HybridTagged)
}

// Clone returns a deep copy of the fact sheet.
func (f *DeviceFacts) Clone() *DeviceFacts {
	out := NewDeviceFacts()
	out.DeclaredSingles.Merge(f.DeclaredSingles)
	out.DeclaredRanges = append(out.DeclaredRanges, f.DeclaredRanges...)
	for vid, name := range f.VLANNames {
		out.VLANNames[vid] = name
	}
	for vid, ips := range f.SVI {
		for ip := range ips {
			out.AddSVI(vid, ip)
		}
	}
	out.Access.Merge(f.Access)
	for name, r := range f.TrunkRules {
		out.TrunkRules[name] = r.Clone()
	}
	return out
}

// AddSVI records an IP bound to a VLAN interface.
func (f *DeviceFacts) AddSVI(vid int, ip string) {
	if f.SVI[vid] == nil {
		f.SVI[vid] = NewIPSet()
	}
	f.SVI[vid].Add(ip)
}

// SVIVLANs returns the VLANs that have a VLAN interface.
func (f *DeviceFacts) SVIVLANs() util.VLANSet {
	s := util.NewVLANSet()
	for vid := range f.SVI {
		s.Add(vid)
	}
	return s
}

// HostVLANs returns the VLANs this device uses locally (SVI or access).
func (f *DeviceFacts) HostVLANs() util.VLANSet {
	s := f.SVIVLANs()
	s.Merge(f.Access)
	return s
}

// NormalizedRanges returns the declared ranges merged into disjoint runs.
func (f *DeviceFacts) NormalizedRanges() []util.Interval {
	return util.MergeIntervals(f.DeclaredRanges)
}

// Declares reports whether vid is declared on this device, either alone or
// inside a range.
func (f *DeviceFacts) Declares(vid int) bool {
	if f.DeclaredSingles.Has(vid) {
		return true
	}
	for _, iv := range f.DeclaredRanges {
		if iv.Contains(vid) {
			return true
		}
	}
	return false
}

// HasAllTrunk reports whether any port permits all VLANs.
func (f *DeviceFacts) HasAllTrunk() bool {
	for _, r := range f.TrunkRules {
		if r.AllFlag {
			return true
		}
	}
	return false
}

// ExplicitTrunk returns the union of explicitly tagged VLANs across ports.
func (f *DeviceFacts) ExplicitTrunk() util.VLANSet {
	s := util.NewVLANSet()
	for _, r := range f.TrunkRules {
		s.Merge(r.AllowList)
		s.Merge(r.HybridTagged)
	}
	return s
}

// IPSet is a set of IP address strings.
type IPSet map[string]bool

// NewIPSet creates a set holding the given addresses.
func NewIPSet(ips ...string) IPSet {
	s := make(IPSet, len(ips))
	for _, ip := range ips {
		s[ip] = true
	}
	return s
}

// Add inserts an address.
func (s IPSet) Add(ip string) {
	s[ip] = true
}

// Sorted returns the addresses in numeric order.
func (s IPSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for ip := range s {
		out = append(out, ip)
	}
	return util.SortIPs(out)
}

// MarshalJSON renders the set as a sorted array.
func (s IPSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON reads a set from an array of addresses.
func (s *IPSet) UnmarshalJSON(data []byte) error {
	var ips []string
	if err := json.Unmarshal(data, &ips); err != nil {
		return err
	}
	*s = NewIPSet(ips...)
	return nil
}

// MarshalYAML renders the set as a sorted sequence.
func (s IPSet) MarshalYAML() (interface{}, error) {
	return s.Sorted(), nil
}
