package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/newtron-network/vlanaudit/pkg/extract"
	"github.com/newtron-network/vlanaudit/pkg/fleet"
	"github.com/newtron-network/vlanaudit/pkg/model"
	"github.com/newtron-network/vlanaudit/pkg/util"
)

func newFactsCmd() *cobra.Command {
	var asJSON, asYAML bool

	cmd := &cobra.Command{
		Use:   "facts FILE...",
		Short: "Show the VLAN facts extracted from dump files",
		Long: `Extract VLAN facts from the given files and print them per device.

Files naming the same device are merged exactly as 'run' merges them.
Useful for checking what the extractor saw before trusting a report.

Examples:
  vlanaudit facts dumps/espcsw03.cfg
  vlanaudit facts dumps/sw1.cfg dumps/sw1.log --yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			facts, err := collectFacts(args)
			if err != nil {
				return err
			}
			if asJSON || !asYAML {
				return writeFactsJSON(cmd.OutOrStdout(), facts)
			}
			return writeFactsYAML(cmd.OutOrStdout(), facts)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "JSON output (default)")
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "YAML output")
	cmd.MarkFlagsMutuallyExclusive("json", "yaml")
	return cmd
}

// collectFacts extracts each file and merges fragments per device.
// Whitespace-only files are skipped with a warning.
func collectFacts(paths []string) (map[string]*model.DeviceFacts, error) {
	fl := fleet.New()
	for _, path := range paths {
		frag, ok, err := extract.ExtractFile(path)
		if err != nil {
			return nil, err
		}
		if !ok {
			util.WithFile(path).Warn("No content, skipped")
			continue
		}
		fl.Add(frag.Device, frag.Path, frag.Facts)
	}

	out := make(map[string]*model.DeviceFacts, fl.Len())
	for _, dev := range fl.Devices() {
		out[dev] = fl.Facts(dev)
	}
	return out, nil
}

func writeFactsJSON(w io.Writer, facts map[string]*model.DeviceFacts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(facts)
}

func writeFactsYAML(w io.Writer, facts map[string]*model.DeviceFacts) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(facts); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return enc.Close()
}
