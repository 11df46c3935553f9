package model

import (
	"time"

	"github.com/newtron-network/vlanaudit/pkg/util"
)

// Color drives row coloring in rendered reports.
type Color string

const (
	ColorGreen  Color = "Green"
	ColorWhite  Color = "White"
	ColorYellow Color = "Yellow"
	ColorRed    Color = "Red"
)

// Colors lists every color in report order.
var Colors = []Color{ColorGreen, ColorWhite, ColorYellow, ColorRed}

// Category is the audit disposition of a VLAN or VLAN range.
type Category string

const (
	CategoryDescribed       Category = "Described"
	CategoryInUse           Category = "In_Use"
	CategoryVerify          Category = "Verify"
	CategoryDeleteCandidate Category = "Delete_Candidate"
)

// CategoryFor returns the disposition paired with a color.
func CategoryFor(c Color) Category {
	switch c {
	case ColorGreen:
		return CategoryDescribed
	case ColorWhite:
		return CategoryInUse
	case ColorRed:
		return CategoryDeleteCandidate
	default:
		return CategoryVerify
	}
}

// Role is a device's position in the switching hierarchy.
type Role string

const (
	RoleCore        Role = "Core"
	RoleAggregation Role = "Aggregation"
	RoleAccess      Role = "Access"
)

// RoleCounts breaks a device set down by role.
type RoleCounts struct {
	Total       int `json:"total"`
	Core        int `json:"core"`
	Aggregation int `json:"aggregation"`
	Access      int `json:"access"`
}

// Add counts one device with the given role.
func (c *RoleCounts) Add(r Role) {
	c.Total++
	switch r {
	case RoleCore:
		c.Core++
	case RoleAggregation:
		c.Aggregation++
	default:
		c.Access++
	}
}

// GlobalRow is one line of the per-VLAN global view. In-use VLANs get a row
// each; unused and transit-only VLANs are grouped into ranges.
type GlobalRow struct {
	VLANs       util.Interval `json:"vlans"`
	VLANID      string        `json:"vlan_id"`
	Color       Color         `json:"color"`
	Category    Category      `json:"usage_category"`
	Description string        `json:"description"`
	Devices     RoleCounts    `json:"devices"`

	SVIDevices    []string `json:"devices_with_svi"`
	AccessDevices []string `json:"devices_with_access"`
	TaggedDevices []string `json:"devices_with_tagged_trunk"`
	SeenDevices   []string `json:"devices_with_vlan_config"`
	SVIIPs        []string `json:"svi_ips"`
}

// TaggedAll marks a device whose trunks carry every VLAN.
const TaggedAll = "ALL"

// DeviceSummaryRow summarizes one device.
type DeviceSummaryRow struct {
	Device       string `json:"device"`
	Role         Role   `json:"role"`
	VLANsDefined int    `json:"vlans_defined"`
	SVICount     int    `json:"svi_count"`
	// TaggedTrunk is a count, or TaggedAll.
	TaggedTrunk string `json:"tagged_trunk_vlans"`
}

// DeviceVLANRow is one (device, VLAN) pair the device uses or tags.
type DeviceVLANRow struct {
	Device    string   `json:"device"`
	Role      Role     `json:"role"`
	VLAN      int      `json:"vlan_id"`
	HasSVI    bool     `json:"svi"`
	SVIIPs    []string `json:"svi_ips"`
	HasAccess bool     `json:"access"`
	Tagged    bool     `json:"tagged"`
	VLANName  string   `json:"vlan_name"`
}

// Matrix cell flags.
const (
	FlagSVI    = "S"
	FlagAccess = "A"
	FlagTagged = "T"
)

// MatrixColumn identifies one device column of the VLAN x device matrix.
type MatrixColumn struct {
	Device string `json:"device"`
	Role   Role   `json:"role"`
}

// Header renders the column heading, e.g. "sw1 [Access]".
func (c MatrixColumn) Header() string {
	return c.Device + " [" + string(c.Role) + "]"
}

// MatrixRow holds one in-use VLAN's flags per device, in column order.
// Cells are "" when the device neither uses nor tags the VLAN.
type MatrixRow struct {
	VLAN  int      `json:"vlan_id"`
	Cells []string `json:"cells"`
}

// RoleRow records the resolved role of a device.
type RoleRow struct {
	Device string `json:"device"`
	Role   Role   `json:"role"`
}

// Summary carries run metadata and per-color totals.
type Summary struct {
	RunID         string        `json:"run_id"`
	GeneratedAt   time.Time     `json:"generated_at"`
	InputDir      string        `json:"input_dir,omitempty"`
	DevicesParsed int           `json:"devices_parsed"`
	GlobalRows    int           `json:"per_vlan_global_rows"`
	ColorCounts   map[Color]int `json:"color_counts"`
}

// Report is the complete output of an audit run.
type Report struct {
	Summary       Summary            `json:"summary"`
	Roles         []RoleRow          `json:"roles"`
	Global        []GlobalRow        `json:"per_vlan_global"`
	Devices       []DeviceSummaryRow `json:"per_device_summary"`
	Detail        []DeviceVLANRow    `json:"per_device_vlan_detail"`
	MatrixColumns []MatrixColumn     `json:"matrix_columns"`
	Matrix        []MatrixRow        `json:"matrix"`
}
