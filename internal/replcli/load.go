package replcli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LoadDir walks dir for *.wgsl files and returns them as the
// {path → source} dictionary a module.Registry is built from (spec.md
// §1: file-system loading is explicitly the driver's job, not the
// core's). Keys are the file's path relative to dir with the .wgsl
// extension stripped and OS separators normalized to "/", so an import
// of `./shapes/circle` matches a file at <dir>/shapes/circle.wgsl.
func LoadDir(dir string) (map[string]string, error) {
	out := map[string]string{}
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".wgsl" {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		key := strings.TrimSuffix(filepath.ToSlash(rel), ".wgsl")
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("replcli: read %s: %w", path, err)
		}
		out[key] = string(data)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("replcli: walk %s: %w", dir, err)
	}
	return out, nil
}

// sortedKeys returns m's keys sorted, for deterministic listing output.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
