// Package model defines the data carried between the conversion pipeline,
// adapters and controllers.
package model

import (
	"sort"
	"strings"
)

// Path represents a file system path.
type Path string

// MappingRow is one de-para entry: a literal AMPscript snippet and the AJO
// Liquid text that replaces it. A blank Target means "detect and report only".
type MappingRow struct {
	Source string
	Target string
}

// MappingTable is the externally supplied de-para sheet. Row order at rest is
// irrelevant; substitution order is derived via BySpecificity.
type MappingTable []MappingRow

// BySpecificity returns the rows ordered longest-trimmed-source first, so a
// long multi-token snippet is always replaced before any shorter sub-pattern
// it contains. The receiver is not modified.
func (t MappingTable) BySpecificity() MappingTable {
	ordered := make(MappingTable, len(t))
	copy(ordered, t)

	sort.SliceStable(ordered, func(i, j int) bool {
		return len(strings.TrimSpace(ordered[i].Source)) > len(strings.TrimSpace(ordered[j].Source))
	})

	return ordered
}

// VariableMapping maps a lowercase AMPscript variable name to the AJO
// expression that replaces it (an identifier, a dotted profile/context path,
// or an arbitrary expression).
type VariableMapping map[string]string

// Resolve returns the expression to use for an @var reference, or the raw
// name when there is no mapping. Use Lookup when the caller must distinguish
// a miss from a mapping that happens to equal the name (a let-bound local).
func (vm VariableMapping) Resolve(name string) string {
	if expr, ok := vm.Lookup(name); ok {
		return expr
	}

	return name
}

// Lookup returns the mapped expression for a name (case-folded) and whether
// one exists.
func (vm VariableMapping) Lookup(name string) (string, bool) {
	expr, ok := vm[strings.ToLower(name)]
	return expr, ok
}

// CoveredSet holds lowercase variable names known to have some destination on
// the AJO side, even when no clean expression could be extracted. It only
// grows during a run; membership suppresses unmapped-variable warnings.
type CoveredSet map[string]struct{}

// Add inserts a name (case-folded).
func (cs CoveredSet) Add(name string) {
	cs[strings.ToLower(name)] = struct{}{}
}

// Has reports whether a name (case-folded) is covered.
func (cs CoveredSet) Has(name string) bool {
	_, ok := cs[strings.ToLower(name)]
	return ok
}

// WarningLog is the ordered list of variable names seen inside conditions
// without coverage at the time of the sighting. Duplicates are expected; the
// final report is produced by Unmapped.
type WarningLog []string

// Unmapped finalizes the log: case-folds, subtracts covered names,
// de-duplicates and sorts.
func (wl WarningLog) Unmapped(covered CoveredSet) []string {
	seen := make(map[string]struct{})

	var names []string

	for _, w := range wl {
		low := strings.ToLower(w)
		if covered.Has(low) {
			continue
		}

		if _, dup := seen[low]; dup {
			continue
		}

		seen[low] = struct{}{}
		names = append(names, low)
	}

	sort.Strings(names)

	return names
}
