package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/newtron-network/vlanaudit/pkg/model"
	"github.com/newtron-network/vlanaudit/pkg/util"
)

// A scanner handles a construct that spans several lines.
type scanner struct {
	name string
	scan func(lines []string, f *model.DeviceFacts)
}

var scanners = []scanner{
	{name: "declared-list", scan: scanDeclaredLists},
	{name: "vlan-block", scan: scanVLANBlocks},
	{name: "interface-block", scan: scanInterfaceBlocks},
	{name: "port-table", scan: scanPortTables},
}

// maxListLines caps how many continuation lines a declared-VLAN sentence may
// span.
const maxListLines = 40

var (
	declaredLeadRe = regexp.MustCompile(`(?:The VLANs include|The following VLANs exist):\s*(.*)$`)
	vlanHeaderRe   = regexp.MustCompile(`(?i)^vlan\s+(\d+)(?:\s+to\s+\d+)?\s*$`)
	vlanNameRe     = regexp.MustCompile(`(?i)^\s*name\s+(.+)$`)
	vlanDescRe     = regexp.MustCompile(`(?i)^\s*description\s+(.+)$`)
	ifaceHeaderRe  = regexp.MustCompile(`^interface\s+(\S+)\s*$`)
	sviNameRe      = regexp.MustCompile(`^Vlan(?:-interface)?(\d+)$`)
	portTableRe    = regexp.MustCompile(`Interface\s+Link\s+Speed.*Type\s+PVID`)
)

// scanDeclaredLists reads "The VLANs include: 1(default), 10, 20-30" style
// sentences. The list continues on following lines until a blank line or a
// prompt.
func scanDeclaredLists(lines []string, f *model.DeviceFacts) {
	for i, line := range lines {
		m := declaredLeadRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		chunk := m[1]
		for j := i + 1; j < len(lines) && j <= i+maxListLines; j++ {
			next := strings.TrimSpace(lines[j])
			if next == "" || strings.HasPrefix(next, "<") {
				break
			}
			chunk += " " + next
		}
		chunk = strings.ReplaceAll(chunk, "(default)", " ")

		for _, tok := range strings.FieldsFunc(chunk, isListSep) {
			if v, err := strconv.Atoi(tok); err == nil && isBareInt(tok) {
				f.DeclaredSingles.Add(v)
			} else if iv, ok := util.ParseDashRange(tok); ok {
				f.DeclaredRanges = append(f.DeclaredRanges, iv)
			}
		}
	}
}

// scanVLANBlocks picks up VLAN labels. A block starts at a "vlan N" line and
// runs until the next line that starts in column one. The first "name" line
// wins; "description" is the fallback.
func scanVLANBlocks(lines []string, f *model.DeviceFacts) {
	for i := 0; i < len(lines); i++ {
		m := vlanHeaderRe.FindStringSubmatch(lines[i])
		if m == nil {
			continue
		}
		vid, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}

		end := i + 1
		for end < len(lines) && !startsTopLevel(lines[end]) {
			end++
		}

		var name, desc string
		for _, body := range lines[i+1 : end] {
			if nm := vlanNameRe.FindStringSubmatch(body); nm != nil && name == "" {
				name = strings.TrimSpace(nm[1])
			}
			if dm := vlanDescRe.FindStringSubmatch(body); dm != nil && desc == "" {
				desc = strings.TrimSpace(dm[1])
			}
		}
		switch {
		case name != "":
			f.VLANNames[vid] = name
		case desc != "":
			f.VLANNames[vid] = desc
		}
		i = end - 1
	}
}

// scanInterfaceBlocks reads each "interface X" block up to the next line
// starting with "interface". VLAN interfaces contribute SVI addresses; trunk
// and hybrid ports contribute tagging rules.
func scanInterfaceBlocks(lines []string, f *model.DeviceFacts) {
	for i := 0; i < len(lines); i++ {
		m := ifaceHeaderRe.FindStringSubmatch(lines[i])
		if m == nil {
			continue
		}
		name := m[1]

		end := i + 1
		for end < len(lines) && !strings.HasPrefix(lines[end], "interface") {
			end++
		}

		p := &portState{undo: util.NewVLANSet(), hybrid: util.NewVLANSet()}
		for _, body := range lines[i+1 : end] {
			applyPortRules(p, body)
		}

		if sm := sviNameRe.FindStringSubmatch(name); sm != nil {
			if vid, err := strconv.Atoi(sm[1]); err == nil {
				for _, ip := range p.ips {
					if util.IsValidIPv4(ip) {
						f.AddSVI(vid, ip)
					}
				}
			}
		}

		if rule, ok := p.rule(); ok {
			if existing := f.TrunkRules[name]; existing != nil {
				existing.Merge(rule)
			} else {
				f.TrunkRules[name] = rule
			}
		}
		i = end - 1
	}
}

// scanPortTables reads "display interface brief" style tables. Trunk rows are
// skipped; for access and hybrid rows the last integer column is the PVID.
// Column layouts vary between releases, so this is a heuristic: rows it
// cannot make sense of are dropped.
func scanPortTables(lines []string, f *model.DeviceFacts) {
	for i := 0; i < len(lines); i++ {
		if !portTableRe.MatchString(lines[i]) {
			continue
		}
		j := i + 1
		for ; j < len(lines); j++ {
			row := strings.TrimSpace(lines[j])
			if row == "" || strings.HasPrefix(row, "<") {
				break
			}
			if pvid, ok := rowPVID(strings.Fields(row)); ok {
				f.Access.Add(pvid)
			}
		}
		i = j
	}
}

// minPortTableColumns is the narrowest row scanPortTables will read.
const minPortTableColumns = 6

func rowPVID(cols []string) (int, bool) {
	if len(cols) < minPortTableColumns {
		return 0, false
	}
	for _, c := range cols {
		if c == "A" || c == "H" || c == "T" {
			if c == "T" {
				return 0, false
			}
			break
		}
	}
	for k := len(cols) - 1; k >= 0; k-- {
		if isBareInt(cols[k]) {
			if v, err := strconv.Atoi(cols[k]); err == nil {
				return v, true
			}
		}
	}
	return 0, false
}

func startsTopLevel(line string) bool {
	return line != "" && line[0] != ' ' && line[0] != '\t'
}

func isListSep(r rune) bool {
	return r == ',' || r == ' ' || r == '\t'
}

func isBareInt(s string) bool {
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
