// Package fleet folds per-file fact sheets into one sheet per device and
// derives the fleet-wide VLAN views the classifier works from.
package fleet

import (
	"sort"

	"github.com/newtron-network/vlanaudit/pkg/model"
	"github.com/newtron-network/vlanaudit/pkg/util"
)

// MergeFacts returns the combination of two fact sheets for the same device.
// Neither input is modified. Sets are unioned, declared ranges concatenated
// and sorted, SVI address sets unioned and trunk rules for the same interface
// merged. For VLAN names, b overwrites a.
func MergeFacts(a, b *model.DeviceFacts) *model.DeviceFacts {
	switch {
	case a == nil && b == nil:
		return model.NewDeviceFacts()
	case a == nil:
		return b.Clone()
	case b == nil:
		return a.Clone()
	}

	out := a.Clone()
	out.DeclaredSingles.Merge(b.DeclaredSingles)
	out.DeclaredRanges = append(out.DeclaredRanges, b.DeclaredRanges...)
	util.SortIntervals(out.DeclaredRanges)
	for vid, name := range b.VLANNames {
		out.VLANNames[vid] = name
	}
	for vid, ips := range b.SVI {
		for ip := range ips {
			out.AddSVI(vid, ip)
		}
	}
	out.Access.Merge(b.Access)
	for name, r := range b.TrunkRules {
		if existing := out.TrunkRules[name]; existing != nil {
			existing.Merge(r)
		} else {
			out.TrunkRules[name] = r.Clone()
		}
	}
	return out
}

// Fleet accumulates fact sheets by device identity. It is not safe for
// concurrent use; extraction may run in parallel, accumulation does not.
type Fleet struct {
	facts map[string]*model.DeviceFacts
	files map[string][]string
}

// New creates an empty fleet.
func New() *Fleet {
	return &Fleet{
		facts: make(map[string]*model.DeviceFacts),
		files: make(map[string][]string),
	}
}

// Add merges a fragment into the device's accumulated facts. source names
// the file it came from and may be empty.
func (f *Fleet) Add(device, source string, facts *model.DeviceFacts) {
	f.facts[device] = MergeFacts(f.facts[device], facts)
	if source != "" {
		f.files[device] = append(f.files[device], source)
	}
}

// Devices returns the device identities in sorted order.
func (f *Fleet) Devices() []string {
	return util.SortedKeys(f.facts)
}

// Facts returns the accumulated sheet for a device, or nil.
func (f *Fleet) Facts(device string) *model.DeviceFacts {
	return f.facts[device]
}

// Sources returns the files that contributed to a device, in the order they
// were added.
func (f *Fleet) Sources(device string) []string {
	return f.files[device]
}

// Len returns the number of devices.
func (f *Fleet) Len() int {
	return len(f.facts)
}

// View holds the fleet-wide sets derived from the accumulated facts. It is a
// snapshot: later Adds do not change it.
type View struct {
	AllDevices       []string
	Facts            map[string]*model.DeviceFacts
	DevAllTrunk      map[string]bool
	DevExplicitTrunk map[string]util.VLANSet

	// UsedByHosts holds every VLAN with an SVI or access binding anywhere.
	UsedByHosts util.VLANSet

	// MergedDeclaredRanges is the union of every device's declared ranges.
	MergedDeclaredRanges []util.Interval

	// ExplicitTrunkOnlyPoints are explicitly tagged VLANs no host uses.
	ExplicitTrunkOnlyPoints util.VLANSet
}

// View derives the fleet-wide sets.
func (f *Fleet) View() *View {
	v := &View{
		AllDevices:              f.Devices(),
		Facts:                   make(map[string]*model.DeviceFacts, len(f.facts)),
		DevAllTrunk:             make(map[string]bool, len(f.facts)),
		DevExplicitTrunk:        make(map[string]util.VLANSet, len(f.facts)),
		UsedByHosts:             util.NewVLANSet(),
		ExplicitTrunkOnlyPoints: util.NewVLANSet(),
	}

	var declared []util.Interval
	explicit := util.NewVLANSet()
	for _, dev := range v.AllDevices {
		facts := f.facts[dev].Clone()
		v.Facts[dev] = facts
		v.DevAllTrunk[dev] = facts.HasAllTrunk()
		v.DevExplicitTrunk[dev] = facts.ExplicitTrunk()
		v.UsedByHosts.Merge(facts.HostVLANs())
		declared = append(declared, facts.NormalizedRanges()...)
		explicit.Merge(v.DevExplicitTrunk[dev])
	}
	v.MergedDeclaredRanges = util.MergeIntervals(declared)
	v.ExplicitTrunkOnlyPoints = explicit.Minus(v.UsedByHosts)
	return v
}

// AnyAllTrunk reports whether any device carries an all-VLAN trunk.
func (v *View) AnyAllTrunk() bool {
	for _, all := range v.DevAllTrunk {
		if all {
			return true
		}
	}
	return false
}

// AllTrunkDevices returns the devices with an all-VLAN trunk, sorted.
func (v *View) AllTrunkDevices() []string {
	var out []string
	for _, dev := range v.AllDevices {
		if v.DevAllTrunk[dev] {
			out = append(out, dev)
		}
	}
	return out
}

// UnusedSegments returns the declared VLANs that no host uses and no trunk
// explicitly tags, as maximal runs.
func (v *View) UnusedSegments() []util.Interval {
	remove := v.UsedByHosts.Union(v.ExplicitTrunkOnlyPoints)
	return util.SubtractPoints(v.MergedDeclaredRanges, remove.Sorted())
}

// TransitSegments returns the explicitly tagged VLANs no host uses, as
// maximal runs.
func (v *View) TransitSegments() []util.Interval {
	return util.PointsToSegments(v.ExplicitTrunkOnlyPoints.Sorted())
}

// DevicesDeclaring returns the devices whose normalized declared ranges
// overlap iv, sorted.
func (v *View) DevicesDeclaring(iv util.Interval) []string {
	var out []string
	for _, dev := range v.AllDevices {
		for _, r := range v.Facts[dev].NormalizedRanges() {
			if r.Overlaps(iv) {
				out = append(out, dev)
				break
			}
		}
	}
	return out
}

// DevicesTagging returns the devices whose explicit trunk set intersects iv,
// sorted.
func (v *View) DevicesTagging(iv util.Interval) []string {
	var out []string
	for _, dev := range v.AllDevices {
		if v.DevExplicitTrunk[dev].IntersectsInterval(iv) {
			out = append(out, dev)
		}
	}
	return out
}

// UnionSorted merges device lists into one sorted list without duplicates.
func UnionSorted(lists ...[]string) []string {
	seen := make(map[string]bool)
	for _, l := range lists {
		for _, d := range l {
			seen[d] = true
		}
	}
	out := make([]string, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}
