// Package domain implements the AMPscript → Liquid conversion pipeline.
package domain

import (
	"regexp"
	"strings"

	m "ampliquid.dev/pkg/ampliquid/internal/model"
)

var (
	varRefRe = regexp.MustCompile(`@(\w+)`)

	// Target-side shapes an expression can be extracted from, tried in order.
	letDeclRe   = regexp.MustCompile(`(?is){%\s*let\s+([A-Za-z_]\w*)\s*=\s*\(?\s*(.*?)\s*\)?\s*%}`)
	printExprRe = regexp.MustCompile(`(?s){{\s*(.*?)\s*}}`)
	pathRefRe   = regexp.MustCompile(`(?i)\b(?:profile|context)\.[A-Za-z0-9_.\[\]]+`)
)

// reservedHelpers are grammatical helper variables, e.g. the article @the.
// They must never receive an automatic mapping: their handling depends on the
// article/entity pattern in the block converter, not on direct substitution.
var reservedHelpers = map[string]struct{}{
	"the": {},
}

// coverageHints are target-cell substrings that show the row has *some*
// destination even when no clean expression could be extracted.
var coverageHints = []string{"profile.", "context.", "fragment", "{{", "{%"}

// ExtractVariableExpressions learns variable mappings from the de-para table.
//
// A row's expression is only trusted when its source side references exactly
// one distinct variable; a row combining two (e.g. @the@PlanLegalName) cannot
// be attributed to either without corrupting the single-variable form
// elsewhere. Rows that fail that test but still hint at a destination mark
// their variables as covered so they are not reported as unmapped.
func ExtractVariableExpressions(table m.MappingTable) (m.VariableMapping, m.CoveredSet) {
	mapping := make(m.VariableMapping)
	covered := make(m.CoveredSet)

	for _, row := range table {
		vars := varRefRe.FindAllStringSubmatch(row.Source, -1)
		if len(vars) == 0 {
			continue
		}

		unique := make(map[string]struct{})
		for _, ref := range vars {
			unique[strings.ToLower(ref[1])] = struct{}{}
		}

		singleVar := len(unique) == 1
		expr := extractExpression(row.Target)

		for _, ref := range vars {
			low := strings.ToLower(ref[1])
			if _, reserved := reservedHelpers[low]; reserved {
				continue
			}

			switch {
			case expr != "" && singleVar:
				mapping[low] = expr
				covered.Add(low)
			case hintsDestination(row.Target):
				// The AJO side suggests a destination; do not warn about the
				// variable even though no clean expression was learned.
				covered.Add(low)
			}
		}
	}

	return mapping, covered
}

// extractExpression pulls a candidate Liquid expression out of a target cell:
// the bound name of a {% let %}, the inner text of a {{ }} print, or a
// profile./context. path taken verbatim. Empty when none match.
func extractExpression(target string) string {
	if let := letDeclRe.FindStringSubmatch(target); let != nil {
		return strings.TrimSpace(let[1])
	}

	if print := printExprRe.FindStringSubmatch(target); print != nil {
		return strings.TrimSpace(print[1])
	}

	if path := pathRefRe.FindString(target); path != "" {
		return strings.TrimSpace(path)
	}

	return ""
}

func hintsDestination(target string) bool {
	for _, hint := range coverageHints {
		if strings.Contains(target, hint) {
			return true
		}
	}

	return false
}
