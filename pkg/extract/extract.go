// Package extract turns raw switch configuration dumps into per-device VLAN
// fact sheets.
//
// Extraction is purely textual: a fixed table of single-line rules plus a few
// scanners for multi-line constructs (VLAN blocks, interface blocks, port
// summary tables). Unrecognized input is ignored.
package extract

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/newtron-network/vlanaudit/pkg/model"
	"github.com/newtron-network/vlanaudit/pkg/util"
)

var (
	promptRe  = regexp.MustCompile(`<([A-Za-z0-9\-._]+)>`)
	sysnameRe = regexp.MustCompile(`(?mi)^\s*sysname\s+([A-Za-z0-9\-_.]+)`)
)

// Identity derives the device name for a dump. The first CLI prompt
// ("<sw1.example.net>") wins, then a "sysname" line; both are cut at the first
// dot. Failing both, the file name without its extension is used as is.
func Identity(text, fileName string) string {
	if m := promptRe.FindStringSubmatch(text); m != nil {
		return util.ShortName(m[1])
	}
	if m := sysnameRe.FindStringSubmatch(text); m != nil {
		return util.ShortName(m[1])
	}
	base := filepath.Base(fileName)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Extract parses one dump. It returns ok=false when the text holds nothing
// but whitespace; any other input yields a (possibly empty) fact sheet.
func Extract(text, fileName string) (device string, facts *model.DeviceFacts, ok bool) {
	if strings.TrimSpace(text) == "" {
		return "", nil, false
	}

	lines := splitLines(text)
	facts = model.NewDeviceFacts()

	for _, line := range lines {
		applyDeviceRules(facts, line)
	}
	for _, s := range scanners {
		s.scan(lines, facts)
	}

	return Identity(text, fileName), facts, true
}

func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, "\r")
	}
	return lines
}
