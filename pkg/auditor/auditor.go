// Package auditor runs the whole audit pipeline: load dumps, merge facts per
// device, derive the fleet view and classify.
package auditor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/newtron-network/vlanaudit/pkg/classify"
	"github.com/newtron-network/vlanaudit/pkg/extract"
	"github.com/newtron-network/vlanaudit/pkg/fleet"
	"github.com/newtron-network/vlanaudit/pkg/model"
	"github.com/newtron-network/vlanaudit/pkg/role"
	"github.com/newtron-network/vlanaudit/pkg/util"
)

// Options configures an audit run.
type Options struct {
	// InputDir holds the configuration dumps.
	InputDir string

	// Workers bounds parallel file extraction; < 1 means one per CPU.
	Workers int

	CoreNames    []string
	AggSubstring string

	// RoleMapPath optionally names a YAML/JSON device-to-role file.
	RoleMapPath string

	// RunID is generated when empty.
	RunID string

	// Now defaults to time.Now.
	Now func() time.Time
}

// Run executes the audit and returns the report. Only boundary failures
// (unreadable input, bad role map, cancellation) produce an error.
func Run(ctx context.Context, opts Options) (*model.Report, error) {
	if opts.InputDir == "" {
		return nil, fmt.Errorf("input directory is required: %w", util.ErrInvalidConfig)
	}
	if opts.RunID == "" {
		opts.RunID = uuid.New().String()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	var roleMap map[string]model.Role
	if opts.RoleMapPath != "" {
		m, err := role.LoadRoleMap(opts.RoleMapPath)
		if err != nil {
			return nil, err
		}
		roleMap = m
	}
	resolver := role.NewResolver(opts.CoreNames, opts.AggSubstring, roleMap)

	log := util.WithFields(map[string]interface{}{"run": opts.RunID, "input": opts.InputDir})
	log.Info("Starting VLAN audit")

	frags, err := extract.LoadDir(ctx, opts.InputDir, opts.Workers)
	if err != nil {
		return nil, err
	}

	fl := fleet.New()
	for _, fr := range frags {
		fl.Add(fr.Device, fr.Path, fr.Facts)
	}
	if fl.Len() == 0 {
		log.Warn("No configuration dumps found")
	}
	for _, dev := range fl.Devices() {
		if srcs := fl.Sources(dev); len(srcs) > 1 {
			util.WithDevice(dev).Debugf("Merged %d files", len(srcs))
		}
	}

	view := fl.View()
	report := classify.New(view, resolver).Classify(classify.Meta{
		RunID:       opts.RunID,
		GeneratedAt: opts.Now(),
		InputDir:    opts.InputDir,
	})

	log.WithFields(map[string]interface{}{
		"devices": report.Summary.DevicesParsed,
		"rows":    report.Summary.GlobalRows,
	}).Info("VLAN audit complete")
	return report, nil
}
