package manifest

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// Requirement is a single pinned dependency from a requirements manifest.
type Requirement struct {
	Name string
	Spec string
}

// String renders the requirement the way the manifest file carries it.
func (r Requirement) String() string {
	if r.Spec == "" {
		return r.Name
	}
	return r.Name + r.Spec
}

// Parse reads a requirements manifest. Comments, blank lines, and option
// lines (-r, --index-url and friends) are skipped; duplicate names keep the
// last entry, matching pip's behaviour of later lines winning.
func Parse(r io.Reader) ([]Requirement, error) {
	scanner := bufio.NewScanner(r)
	byName := make(map[string]Requirement)
	var order []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
			continue
		}
		if idx := strings.Index(line, " #"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}
		req := splitRequirement(line)
		if req.Name == "" {
			continue
		}
		key := normalizeName(req.Name)
		if _, ok := byName[key]; !ok {
			order = append(order, key)
		}
		byName[key] = req
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan manifest: %w", err)
	}
	requirements := make([]Requirement, 0, len(order))
	for _, key := range order {
		requirements = append(requirements, byName[key])
	}
	return requirements, nil
}

// Load parses the manifest file at path. A missing file yields an empty
// manifest rather than an error; the first build of a project has none.
func Load(path string) ([]Requirement, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer file.Close()
	return Parse(file)
}

// Changes summarizes the difference between two manifests.
type Changes struct {
	Added   []Requirement
	Removed []Requirement
	Changed []Change
}

// Change records a requirement whose version spec moved.
type Change struct {
	Name string
	Old  string
	New  string
}

// Empty reports whether the regeneration left the manifest unchanged.
func (c Changes) Empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0 && len(c.Changed) == 0
}

// Diff compares two manifests by normalized name.
func Diff(old, updated []Requirement) Changes {
	oldByName := make(map[string]Requirement, len(old))
	for _, req := range old {
		oldByName[normalizeName(req.Name)] = req
	}
	newByName := make(map[string]Requirement, len(updated))
	for _, req := range updated {
		newByName[normalizeName(req.Name)] = req
	}

	var changes Changes
	for key, req := range newByName {
		previous, ok := oldByName[key]
		if !ok {
			changes.Added = append(changes.Added, req)
			continue
		}
		if previous.Spec != req.Spec {
			changes.Changed = append(changes.Changed, Change{Name: req.Name, Old: previous.Spec, New: req.Spec})
		}
	}
	for key, req := range oldByName {
		if _, ok := newByName[key]; !ok {
			changes.Removed = append(changes.Removed, req)
		}
	}

	sort.Slice(changes.Added, func(i, j int) bool { return changes.Added[i].Name < changes.Added[j].Name })
	sort.Slice(changes.Removed, func(i, j int) bool { return changes.Removed[i].Name < changes.Removed[j].Name })
	sort.Slice(changes.Changed, func(i, j int) bool { return changes.Changed[i].Name < changes.Changed[j].Name })
	return changes
}

var specMarkers = []string{"==", ">=", "<=", "~=", "!=", ">", "<", "==="}

func splitRequirement(line string) Requirement {
	// Environment markers and extras stay attached to the spec; only the
	// distribution name matters for diffing.
	earliest := -1
	for _, marker := range specMarkers {
		if idx := strings.Index(line, marker); idx >= 0 && (earliest == -1 || idx < earliest) {
			earliest = idx
		}
	}
	if bracket := strings.IndexByte(line, '['); bracket >= 0 && (earliest == -1 || bracket < earliest) {
		earliest = bracket
	}
	if earliest == -1 {
		return Requirement{Name: strings.TrimSpace(line)}
	}
	return Requirement{
		Name: strings.TrimSpace(line[:earliest]),
		Spec: strings.TrimSpace(line[earliest:]),
	}
}

// normalizeName applies the PEP 503 name normalization rules.
func normalizeName(name string) string {
	lowered := strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	b.Grow(len(lowered))
	previousDash := false
	for _, r := range lowered {
		if r == '-' || r == '_' || r == '.' {
			if !previousDash {
				b.WriteByte('-')
			}
			previousDash = true
			continue
		}
		previousDash = false
		b.WriteRune(r)
	}
	return b.String()
}
