// Package role resolves each device's position (Core, Aggregation, Access)
// in the switching hierarchy.
package role

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/newtron-network/vlanaudit/pkg/model"
	"github.com/newtron-network/vlanaudit/pkg/util"
)

// Defaults used when the caller configures nothing.
var (
	DefaultCoreNames    = []string{"espcsw03"}
	DefaultAggSubstring = "espac"
)

// Resolver decides device roles. Resolution order: explicit role map (exact
// device name), core name list (case-insensitive), aggregation substring
// (case-insensitive), else Access.
type Resolver struct {
	roleMap   map[string]model.Role
	coreNames map[string]bool
	aggSubstr string
}

// NewResolver creates a resolver. An empty aggSubstring disables the
// substring rule; roleMap may be nil.
func NewResolver(coreNames []string, aggSubstring string, roleMap map[string]model.Role) *Resolver {
	r := &Resolver{
		roleMap:   roleMap,
		coreNames: make(map[string]bool, len(coreNames)),
		aggSubstr: strings.ToLower(strings.TrimSpace(aggSubstring)),
	}
	for _, n := range coreNames {
		if n = strings.TrimSpace(n); n != "" {
			r.coreNames[strings.ToLower(n)] = true
		}
	}
	return r
}

// Resolve returns the role of a device.
func (r *Resolver) Resolve(device string) model.Role {
	if role, ok := r.roleMap[device]; ok {
		return role
	}
	lower := strings.ToLower(device)
	if r.coreNames[lower] {
		return model.RoleCore
	}
	if r.aggSubstr != "" && strings.Contains(lower, r.aggSubstr) {
		return model.RoleAggregation
	}
	return model.RoleAccess
}

// ParseRole normalizes a role name case-insensitively.
func ParseRole(s string) (model.Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "core":
		return model.RoleCore, nil
	case "aggregation", "agg":
		return model.RoleAggregation, nil
	case "access":
		return model.RoleAccess, nil
	}
	return "", fmt.Errorf("unknown role %q (want Core, Aggregation or Access)", s)
}

// LoadRoleMap reads a device-to-role mapping from a YAML or JSON file:
//
//	espcsw03: Core
//	espac01: aggregation
//
// Every entry is checked; all problems are reported together.
func LoadRoleMap(path string) (map[string]model.Role, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading role map: %w", err)
	}

	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing role map %s: %w: %v", path, util.ErrInvalidConfig, err)
	}

	roles := make(map[string]model.Role, len(raw))
	vb := &util.ValidationBuilder{}
	for _, dev := range util.SortedKeys(raw) {
		if strings.TrimSpace(dev) == "" {
			vb.AddErrorf("empty device name")
			continue
		}
		role, err := ParseRole(raw[dev])
		if err != nil {
			vb.AddErrorf("device %s: %v", dev, err)
			continue
		}
		roles[dev] = role
	}
	if err := vb.Build(); err != nil {
		return nil, fmt.Errorf("validating role map %s: %w", path, err)
	}
	return roles, nil
}
