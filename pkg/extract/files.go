package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/newtron-network/vlanaudit/pkg/model"
	"github.com/newtron-network/vlanaudit/pkg/util"
)

// Extensions lists the file suffixes LoadDir reads. Matching is
// case-insensitive.
var Extensions = []string{".cfg", ".log", ".txt"}

// Fragment is the result of extracting one input file.
type Fragment struct {
	Path   string
	Device string
	Facts  *model.DeviceFacts
}

// HasDumpExtension reports whether name carries one of Extensions.
func HasDumpExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// ExtractFile reads and extracts a single file. ok is false for files that
// hold only whitespace.
func ExtractFile(path string) (Fragment, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Fragment{}, false, fmt.Errorf("reading %s: %w", path, err)
	}
	device, facts, ok := Extract(string(data), filepath.Base(path))
	if !ok {
		util.WithFile(path).Debug("Skipping empty file")
		return Fragment{}, false, nil
	}
	util.WithFile(path).WithFields(map[string]interface{}{
		"device":   device,
		"declared": len(facts.DeclaredSingles) + len(facts.DeclaredRanges),
		"svi":      len(facts.SVI),
		"access":   len(facts.Access),
		"trunks":   len(facts.TrunkRules),
	}).Debug("Extracted facts")
	return Fragment{Path: path, Device: device, Facts: facts}, true, nil
}

// LoadDir extracts every dump file directly under dir. Files are read by at
// most workers goroutines (runtime.NumCPU() when workers < 1); fragments come
// back in file-name order regardless of completion order.
func LoadDir(ctx context.Context, dir string, workers int) ([]Fragment, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading input directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !HasDumpExtension(e.Name()) {
			util.WithFile(e.Name()).Debug("Skipping file with unrecognized extension")
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)

	if workers < 1 {
		workers = runtime.NumCPU()
	}

	results := make([]Fragment, len(paths))
	found := make([]bool, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			frag, ok, err := ExtractFile(path)
			if err != nil {
				return err
			}
			results[i], found[i] = frag, ok
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]Fragment, 0, len(paths))
	for i := range results {
		if found[i] {
			out = append(out, results[i])
		}
	}
	return out, nil
}
