// Package classify applies the VLAN disposition rules to a fleet view and
// builds every row collection of an audit report.
//
// Three kinds of global rows are produced:
//
//   - unused declared segments: Yellow/Verify when any device has an
//     all-VLAN trunk (the range may be carried in transit), else
//     Red/Delete_Candidate
//   - transit-only segments (explicitly tagged, never used by a host):
//     always Yellow/Verify
//   - one row per in-use VLAN: Green/Described when some device names it,
//     else White/In_Use
//
// Classification is a pure function of the view and the role resolver.
package classify

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/newtron-network/vlanaudit/pkg/fleet"
	"github.com/newtron-network/vlanaudit/pkg/model"
	"github.com/newtron-network/vlanaudit/pkg/util"
)

// UnknownDescription labels in-use VLANs no device names.
const UnknownDescription = "Unknown"

// allTaggedThreshold is the explicit tagged count above which a device's
// trunk summary reads "ALL".
const allTaggedThreshold = 2000

// RoleResolver maps a device to its role.
type RoleResolver interface {
	Resolve(device string) model.Role
}

// Meta carries run metadata copied into the report summary.
type Meta struct {
	RunID       string
	GeneratedAt time.Time
	InputDir    string
}

// Classifier builds report rows from a fleet view.
type Classifier struct {
	view  *fleet.View
	roles RoleResolver
	cache map[string]model.Role
}

// New creates a classifier.
func New(view *fleet.View, roles RoleResolver) *Classifier {
	return &Classifier{view: view, roles: roles, cache: make(map[string]model.Role)}
}

// Classify produces the complete report.
func (c *Classifier) Classify(meta Meta) *model.Report {
	r := &model.Report{
		Roles:   c.RoleRows(),
		Global:  c.GlobalRows(),
		Devices: c.DeviceSummary(),
		Detail:  c.DeviceDetail(),
	}
	r.MatrixColumns, r.Matrix = c.Matrix()

	r.Summary = model.Summary{
		RunID:         meta.RunID,
		GeneratedAt:   meta.GeneratedAt,
		InputDir:      meta.InputDir,
		DevicesParsed: len(c.view.AllDevices),
		GlobalRows:    len(r.Global),
		ColorCounts:   make(map[model.Color]int, len(model.Colors)),
	}
	for _, col := range model.Colors {
		r.Summary.ColorCounts[col] = 0
	}
	for _, row := range r.Global {
		r.Summary.ColorCounts[row.Color]++
	}
	return r
}

func (c *Classifier) role(device string) model.Role {
	if r, ok := c.cache[device]; ok {
		return r
	}
	r := c.roles.Resolve(device)
	c.cache[device] = r
	return r
}

func (c *Classifier) count(devices []string) model.RoleCounts {
	var rc model.RoleCounts
	for _, d := range devices {
		rc.Add(c.role(d))
	}
	return rc
}

// RoleRows lists every device with its resolved role, in device order.
func (c *Classifier) RoleRows() []model.RoleRow {
	rows := make([]model.RoleRow, 0, len(c.view.AllDevices))
	for _, dev := range c.view.AllDevices {
		rows = append(rows, model.RoleRow{Device: dev, Role: c.role(dev)})
	}
	return rows
}

// GlobalRows returns unused, transit-only and in-use rows ordered by color
// name, then VLAN bounds.
func (c *Classifier) GlobalRows() []model.GlobalRow {
	var rows []model.GlobalRow
	rows = append(rows, c.unusedRows()...)
	rows = append(rows, c.transitRows()...)
	rows = append(rows, c.inUseRows()...)

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Color != b.Color {
			return a.Color < b.Color
		}
		if a.VLANs.Low != b.VLANs.Low {
			return a.VLANs.Low < b.VLANs.Low
		}
		return a.VLANs.High < b.VLANs.High
	})
	return rows
}

func (c *Classifier) unusedRows() []model.GlobalRow {
	allTrunk := c.view.AllTrunkDevices()
	color, note := model.ColorRed, "no usage observed"
	if len(allTrunk) > 0 {
		color, note = model.ColorYellow, "transit via trunk ALL possible"
	}

	var rows []model.GlobalRow
	for _, seg := range c.view.UnusedSegments() {
		declaring := c.view.DevicesDeclaring(seg)
		rows = append(rows, model.GlobalRow{
			VLANs:         seg,
			VLANID:        seg.Label(),
			Color:         color,
			Category:      model.CategoryFor(color),
			Description:   fmt.Sprintf("Declared by range %d-%d; unused; %s", seg.Low, seg.High, note),
			Devices:       c.count(fleet.UnionSorted(declaring, allTrunk)),
			TaggedDevices: allTrunk,
			SeenDevices:   declaring,
		})
	}
	return rows
}

func (c *Classifier) transitRows() []model.GlobalRow {
	var rows []model.GlobalRow
	for _, seg := range c.view.TransitSegments() {
		tagging := c.view.DevicesTagging(seg)
		rows = append(rows, model.GlobalRow{
			VLANs:         seg,
			VLANID:        seg.Label(),
			Color:         model.ColorYellow,
			Category:      model.CategoryVerify,
			Description:   fmt.Sprintf("Transit only (explicit trunk), %d-%d", seg.Low, seg.High),
			Devices:       c.count(tagging),
			TaggedDevices: tagging,
		})
	}
	return rows
}

// tags reports whether dev tags vid, explicitly or through an all-VLAN trunk.
func (c *Classifier) tags(dev string, vid int) bool {
	return c.view.DevAllTrunk[dev] || c.view.DevExplicitTrunk[dev].Has(vid)
}

func (c *Classifier) inUseRows() []model.GlobalRow {
	var rows []model.GlobalRow
	for _, vid := range c.view.UsedByHosts.Sorted() {
		var sviDevs, accDevs, tagDevs, seen []string
		ips := model.NewIPSet()
		desc := ""
		for _, dev := range c.view.AllDevices {
			f := c.view.Facts[dev]
			if set, ok := f.SVI[vid]; ok {
				sviDevs = append(sviDevs, dev)
				for ip := range set {
					ips.Add(ip)
				}
			}
			if f.Access.Has(vid) {
				accDevs = append(accDevs, dev)
			}
			if c.tags(dev, vid) {
				tagDevs = append(tagDevs, dev)
			}
			if f.Declares(vid) {
				seen = append(seen, dev)
			}
			if desc == "" {
				desc = f.VLANNames[vid]
			}
		}

		color := model.ColorGreen
		if desc == "" {
			desc, color = UnknownDescription, model.ColorWhite
		}
		rows = append(rows, model.GlobalRow{
			VLANs:         util.Interval{Low: vid, High: vid},
			VLANID:        strconv.Itoa(vid),
			Color:         color,
			Category:      model.CategoryFor(color),
			Description:   desc,
			Devices:       c.count(fleet.UnionSorted(sviDevs, accDevs, tagDevs)),
			SVIDevices:    sviDevs,
			AccessDevices: accDevs,
			TaggedDevices: tagDevs,
			SeenDevices:   seen,
			SVIIPs:        ips.Sorted(),
		})
	}
	return rows
}

// deviceVLANs returns the VLANs a device uses or explicitly tags.
func (c *Classifier) deviceVLANs(dev string) util.VLANSet {
	return c.view.Facts[dev].HostVLANs().Union(c.view.DevExplicitTrunk[dev])
}

// DeviceSummary returns one row per device ordered by role, then device.
func (c *Classifier) DeviceSummary() []model.DeviceSummaryRow {
	rows := make([]model.DeviceSummaryRow, 0, len(c.view.AllDevices))
	for _, dev := range c.view.AllDevices {
		explicit := len(c.view.DevExplicitTrunk[dev])
		tagged := strconv.Itoa(explicit)
		if c.view.DevAllTrunk[dev] || explicit > allTaggedThreshold {
			tagged = model.TaggedAll
		}
		rows = append(rows, model.DeviceSummaryRow{
			Device:       dev,
			Role:         c.role(dev),
			VLANsDefined: len(c.deviceVLANs(dev)),
			SVICount:     len(c.view.Facts[dev].SVI),
			TaggedTrunk:  tagged,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Role != rows[j].Role {
			return rows[i].Role < rows[j].Role
		}
		return rows[i].Device < rows[j].Device
	})
	return rows
}

// DeviceDetail returns one row per (device, VLAN) the device uses or tags,
// ordered by device, then VLAN.
func (c *Classifier) DeviceDetail() []model.DeviceVLANRow {
	var rows []model.DeviceVLANRow
	for _, dev := range c.view.AllDevices {
		f := c.view.Facts[dev]
		for _, vid := range c.deviceVLANs(dev).Sorted() {
			set, hasSVI := f.SVI[vid]
			row := model.DeviceVLANRow{
				Device:    dev,
				Role:      c.role(dev),
				VLAN:      vid,
				HasSVI:    hasSVI,
				HasAccess: f.Access.Has(vid),
				Tagged:    c.tags(dev, vid),
				VLANName:  f.VLANNames[vid],
			}
			if hasSVI {
				row.SVIIPs = set.Sorted()
			}
			rows = append(rows, row)
		}
	}
	return rows
}

// Matrix returns the VLAN x device grid for in-use VLANs. Cells join the
// S (SVI), A (access) and T (tagged) flags with "+".
func (c *Classifier) Matrix() ([]model.MatrixColumn, []model.MatrixRow) {
	cols := make([]model.MatrixColumn, 0, len(c.view.AllDevices))
	for _, dev := range c.view.AllDevices {
		cols = append(cols, model.MatrixColumn{Device: dev, Role: c.role(dev)})
	}

	var rows []model.MatrixRow
	for _, vid := range c.view.UsedByHosts.Sorted() {
		row := model.MatrixRow{VLAN: vid, Cells: make([]string, len(cols))}
		for i, col := range cols {
			row.Cells[i] = c.flags(col.Device, vid)
		}
		rows = append(rows, row)
	}
	return cols, rows
}

func (c *Classifier) flags(dev string, vid int) string {
	f := c.view.Facts[dev]
	cell := ""
	add := func(flag string) {
		if cell != "" {
			cell += "+"
		}
		cell += flag
	}
	if _, ok := f.SVI[vid]; ok {
		add(model.FlagSVI)
	}
	if f.Access.Has(vid) {
		add(model.FlagAccess)
	}
	if c.tags(dev, vid) {
		add(model.FlagTagged)
	}
	return cell
}
