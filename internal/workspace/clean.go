package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Clean removes the artifact paths matching patterns underneath root and
// returns the paths it actually removed. Patterns are resolved relative to
// root and may contain glob metacharacters. Absent targets are skipped
// silently so repeated cleans are no-ops.
func Clean(root string, patterns []string) ([]string, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve project root: %w", err)
	}

	targets, err := resolveTargets(root, patterns)
	if err != nil {
		return nil, err
	}

	removed := make([]string, 0, len(targets))
	for _, target := range targets {
		if _, err := os.Lstat(target); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return removed, fmt.Errorf("stat %s: %w", target, err)
		}
		if err := os.RemoveAll(target); err != nil {
			return removed, fmt.Errorf("remove %s: %w", target, err)
		}
		removed = append(removed, target)
	}
	return removed, nil
}

// resolveTargets expands patterns against root and rejects anything that
// would reach outside it or delete root itself.
func resolveTargets(root string, patterns []string) ([]string, error) {
	seen := make(map[string]struct{})
	var targets []string
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		if filepath.IsAbs(pattern) {
			return nil, fmt.Errorf("clean pattern %q must be relative to the project root", pattern)
		}
		matches, err := filepath.Glob(filepath.Join(root, pattern))
		if err != nil {
			return nil, fmt.Errorf("clean pattern %q: %w", pattern, err)
		}
		for _, match := range matches {
			resolved := filepath.Clean(match)
			if resolved == root {
				return nil, fmt.Errorf("clean pattern %q resolves to the project root", pattern)
			}
			if !strings.HasPrefix(resolved, root+string(filepath.Separator)) {
				return nil, fmt.Errorf("clean pattern %q escapes the project root", pattern)
			}
			if _, ok := seen[resolved]; ok {
				continue
			}
			seen[resolved] = struct{}{}
			targets = append(targets, resolved)
		}
	}
	sort.Strings(targets)
	return targets, nil
}
