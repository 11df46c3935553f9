package util

import (
	"net/netip"
	"regexp"
	"sort"
)

var dottedQuadRe = regexp.MustCompile(`^\d{1,3}(?:\.\d{1,3}){3}$`)

// IsValidIPv4 checks if a string is a dotted-quad IPv4 address
func IsValidIPv4(ipStr string) bool {
	if !dottedQuadRe.MatchString(ipStr) {
		return false
	}
	addr, err := netip.ParseAddr(ipStr)
	return err == nil && addr.Is4()
}

// SortIPs returns the addresses in numeric order. Strings that do not parse
// as IP addresses sort after the valid ones, lexically.
func SortIPs(ips []string) []string {
	out := make([]string, len(ips))
	copy(out, ips)
	sort.SliceStable(out, func(i, j int) bool {
		a, errA := netip.ParseAddr(out[i])
		b, errB := netip.ParseAddr(out[j])
		switch {
		case errA == nil && errB == nil:
			return a.Less(b)
		case errA == nil:
			return true
		case errB == nil:
			return false
		default:
			return out[i] < out[j]
		}
	})
	return out
}
