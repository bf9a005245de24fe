package domain

import (
	"regexp"
	"strings"

	m "ampliquid.dev/pkg/ampliquid/internal/model"
)

var (
	wsRunRe  = regexp.MustCompile(`\s+`)
	equalsRe = regexp.MustCompile(`\s*=\s*`)
)

// BuildFlexPattern compiles a de-para source snippet into a forgiving,
// case-insensitive matcher: any whitespace run in the snippet matches any
// (possibly empty) whitespace run in the document, and an equals sign
// tolerates surrounding whitespace. All other characters match literally.
func BuildFlexPattern(snippet string) *regexp.Regexp {
	trimmed := strings.TrimSpace(snippet)

	var b strings.Builder

	b.WriteString(`(?is)`)

	for i, part := range wsRunRe.Split(trimmed, -1) {
		if i > 0 {
			b.WriteString(`\s*`)
		}

		for j, piece := range equalsRe.Split(part, -1) {
			if j > 0 {
				b.WriteString(`\s*=\s*`)
			}

			b.WriteString(regexp.QuoteMeta(piece))
		}
	}

	return regexp.MustCompile(b.String())
}

// SubstituteTable applies the de-para table over the whole document,
// longest-trimmed-source first so a long snippet is never corrupted by a
// shorter sub-pattern of itself. Rows with a blank target are counted as
// found but not substituted.
func SubstituteTable(doc string, table m.MappingTable) (out string, found, replaced int) {
	out = doc

	for _, row := range table.BySpecificity() {
		source := strings.TrimSpace(row.Source)
		if source == "" {
			continue
		}

		pattern := BuildFlexPattern(source)

		matches := len(pattern.FindAllStringIndex(out, -1))
		if matches == 0 {
			continue
		}

		found += matches

		target := strings.TrimSpace(row.Target)
		if target == "" {
			continue
		}

		out = pattern.ReplaceAllLiteralString(out, target)
		replaced += matches
	}

	return out, found, replaced
}
