package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/newtron-network/vlanaudit/pkg/model"
	"github.com/newtron-network/vlanaudit/pkg/util"
)

// A lineRule recognizes one directive family on a single configuration line
// and records what it finds. Lines matched by no rule contribute nothing.
type lineRule struct {
	name  string
	re    *regexp.Regexp
	apply func(f *model.DeviceFacts, m []string)
}

// deviceRules run against every non-negated line of a dump.
var deviceRules = []lineRule{
	{
		name:  "vlan-to-range",
		re:    regexp.MustCompile(`(?i)^vlan\s+(\d+)\s+to\s+(\d+)`),
		apply: addDeclaredRange,
	},
	{
		name:  "vlan-dash-range",
		re:    regexp.MustCompile(`(?i)^vlan\s+(\d+)-(\d+)`),
		apply: addDeclaredRange,
	},
	{
		name:  "vlan-single",
		re:    regexp.MustCompile(`(?i)^vlan\s+(\d+)\s*$`),
		apply: addDeclaredSingle,
	},
	{
		name:  "port-access",
		re:    regexp.MustCompile(`(?i)port\s+(?:access|default)\s+vlan\s+(\d+)`),
		apply: addAccess,
	},
	{
		name:  "port-hybrid-pvid",
		re:    regexp.MustCompile(`(?i)port\s+hybrid\s+pvid\s+vlan\s+(\d+)`),
		apply: addAccess,
	},
	{
		name:  "port-hybrid-untagged",
		re:    regexp.MustCompile(`(?i)port\s+hybrid\s+untagged\s+vlan\s+([^#]+)`),
		apply: addAccessList,
	},
	{
		name:  "svi-brief-row",
		re:    regexp.MustCompile(`(?i)^Vlan(?:-interface)?\s*(\d+)\s+\S+\s+\S+\s+(\d{1,3}(?:\.\d{1,3}){3})\b`),
		apply: addSVIRow,
	},
}

// portState accumulates the directives of one interface block. Permit
// expressions are resolved once the whole block is read, because the
// link-type line may follow them.
type portState struct {
	trunk   bool
	permits []string
	undo    util.VLANSet
	hybrid  util.VLANSet
	ips     []string
}

// A portRule recognizes one directive family inside an interface block.
type portRule struct {
	name  string
	re    *regexp.Regexp
	apply func(p *portState, m []string)
}

var portRules = []portRule{
	{
		name:  "link-type-trunk",
		re:    regexp.MustCompile(`(?i)port\s+link-type\s+trunk\b`),
		apply: func(p *portState, _ []string) { p.trunk = true },
	},
	{
		name: "trunk-permit",
		re:   regexp.MustCompile(`(?i)port\s+trunk\s+permit\s+vlan\s+([^#]+)`),
		apply: func(p *portState, m []string) {
			p.permits = append(p.permits, strings.TrimSpace(m[1]))
		},
	},
	{
		name: "hybrid-tagged",
		re:   regexp.MustCompile(`(?i)port\s+hybrid\s+tagged\s+vlan\s+([^#]+)`),
		apply: func(p *portState, m []string) {
			p.hybrid.Merge(util.ExpandVLANTokens(m[1]))
		},
	},
	{
		name: "ip-address",
		re:   regexp.MustCompile(`(?i)ip\s+address\s+(\d{1,3}(?:\.\d{1,3}){3})(?:/\d+|\s+\d{1,3}(?:\.\d{1,3}){3}|\s+\d+)`),
		apply: func(p *portState, m []string) {
			p.ips = append(p.ips, m[1])
		},
	},
}

// undoPortRules run only against negated ("undo ...") lines.
var undoPortRules = []portRule{
	{
		name: "undo-trunk-permit",
		re:   regexp.MustCompile(`(?i)^undo\s+port\s+trunk\s+permit\s+vlan\s+([^#]+)`),
		apply: func(p *portState, m []string) {
			p.undo.Merge(util.ExpandVLANTokens(m[1]))
		},
	},
}

var allVLANsRe = regexp.MustCompile(`\b2\s+to\s+4094\b`)

// permitsAll reports whether a permit expression stands for every VLAN.
func permitsAll(expr string) bool {
	return strings.HasPrefix(strings.ToLower(expr), "all") || allVLANsRe.MatchString(expr)
}

// rule resolves the accumulated block state. The second return is false when
// the block is neither a trunk nor carries hybrid tagged VLANs.
func (p *portState) rule() (*model.TrunkRule, bool) {
	r := model.NewTrunkRule()
	r.Trunk = p.trunk
	if p.trunk {
		for _, expr := range p.permits {
			if permitsAll(expr) {
				r.AllFlag = true
				continue
			}
			r.AllowList.Merge(util.ExpandVLANTokens(expr))
		}
		r.Exceptions.Merge(p.undo)
	}
	r.HybridTagged.Merge(p.hybrid)
	return r, p.trunk || len(r.HybridTagged) > 0
}

func isUndo(line string) bool {
	fields := strings.Fields(line)
	return len(fields) > 0 && strings.EqualFold(fields[0], "undo")
}

func applyDeviceRules(f *model.DeviceFacts, line string) {
	if isUndo(line) {
		return
	}
	for _, r := range deviceRules {
		if m := r.re.FindStringSubmatch(line); m != nil {
			r.apply(f, m)
		}
	}
}

func applyPortRules(p *portState, line string) {
	trimmed := strings.TrimSpace(line)
	rules := portRules
	if isUndo(trimmed) {
		rules = undoPortRules
	}
	for _, r := range rules {
		if m := r.re.FindStringSubmatch(trimmed); m != nil {
			r.apply(p, m)
		}
	}
}

func addDeclaredRange(f *model.DeviceFacts, m []string) {
	a, errA := strconv.Atoi(m[1])
	b, errB := strconv.Atoi(m[2])
	if errA != nil || errB != nil || a > b {
		return
	}
	f.DeclaredRanges = append(f.DeclaredRanges, util.Interval{Low: a, High: b})
}

func addDeclaredSingle(f *model.DeviceFacts, m []string) {
	if v, err := strconv.Atoi(m[1]); err == nil {
		f.DeclaredSingles.Add(v)
	}
}

func addAccess(f *model.DeviceFacts, m []string) {
	if v, err := strconv.Atoi(m[1]); err == nil {
		f.Access.Add(v)
	}
}

func addAccessList(f *model.DeviceFacts, m []string) {
	f.Access.Merge(util.ExpandVLANTokens(m[1]))
}

func addSVIRow(f *model.DeviceFacts, m []string) {
	v, err := strconv.Atoi(m[1])
	if err != nil || !util.IsValidIPv4(m[2]) {
		return
	}
	f.AddSVI(v, m[2])
}
