package role

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newtron-network/vlanaudit/internal/testutil"
	"github.com/newtron-network/vlanaudit/pkg/model"
	"github.com/newtron-network/vlanaudit/pkg/util"
)

func TestResolver_Resolve(t *testing.T) {
	r := NewResolver([]string{"ESPCSW03", " core2 "}, "EspAc", map[string]model.Role{
		"espac99": model.RoleAccess,
		"Edge1":   model.RoleCore,
	})

	tests := []struct {
		device string
		want   model.Role
	}{
		{"espcsw03", model.RoleCore},
		{"EspCsw03", model.RoleCore},
		{"core2", model.RoleCore},
		{"espac01", model.RoleAggregation},
		{"site-ESPAC-7", model.RoleAggregation},
		{"espac99", model.RoleAccess},
		{"Edge1", model.RoleCore},
		{"edge1", model.RoleAccess},
		{"sw1", model.RoleAccess},
	}
	for _, tt := range tests {
		t.Run(tt.device, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(tt.device))
		})
	}
}

func TestResolver_EmptySubstring(t *testing.T) {
	r := NewResolver(nil, "", nil)
	assert.Equal(t, model.RoleAccess, r.Resolve("espac01"))
}

func TestParseRole(t *testing.T) {
	for in, want := range map[string]model.Role{
		"Core": model.RoleCore, "CORE": model.RoleCore,
		" aggregation ": model.RoleAggregation, "agg": model.RoleAggregation,
		"access": model.RoleAccess,
	} {
		got, err := ParseRole(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseRole("distribution")
	assert.Error(t, err)
}

func TestLoadRoleMap(t *testing.T) {
	dir := testutil.WriteFiles(t, t.TempDir(), map[string]string{
		"roles.yaml": "espcsw03: core\nespac01: Aggregation\n",
		"roles.json": `{"sw1": "ACCESS", "sw2": "Core"}`,
		"bad.yaml":   "sw1: distribution\nsw2: spine\nsw3: access\n",
		"junk.yaml":  "- just\n- a list\n",
	})

	roles, err := LoadRoleMap(filepath.Join(dir, "roles.yaml"))
	require.NoError(t, err)
	assert.Equal(t, map[string]model.Role{"espcsw03": model.RoleCore, "espac01": model.RoleAggregation}, roles)

	roles, err = LoadRoleMap(filepath.Join(dir, "roles.json"))
	require.NoError(t, err)
	assert.Equal(t, map[string]model.Role{"sw1": model.RoleAccess, "sw2": model.RoleCore}, roles)

	_, err = LoadRoleMap(filepath.Join(dir, "bad.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, util.ErrValidationFailed))
	var ve *util.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Len(t, ve.Errors, 2)

	_, err = LoadRoleMap(filepath.Join(dir, "junk.yaml"))
	assert.True(t, errors.Is(err, util.ErrInvalidConfig))

	_, err = LoadRoleMap(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
