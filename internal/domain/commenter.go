package domain

import (
	"regexp"
	"strings"

	m "ampliquid.dev/pkg/ampliquid/internal/model"
)

// attrTokenRe matches an HTML attribute whose value is exactly one AMPscript
// print token, for either quote style. A comment cannot legally live inside
// an attribute value, so these must be extracted before the residual sweep.
var attrTokenRe = regexp.MustCompile(`(?s)(\s[\w:-]+\s*=\s*)("%%=.*?=%%"|'%%=.*?=%%')`)

// residualRe matches every AMPscript construct the earlier passes may have
// left behind: print tokens, %%[ ... ]%% blocks (including unbalanced IFs the
// block converter refused), and server-side script blocks.
var residualRe = regexp.MustCompile(
	`(?is)(%%=.+?=%%|%%\[[\s\S]*?\]%%|<script[^>]*\brunat=['"]server['"][^>]*>[\s\S]*?</script>)`,
)

// hoistLetRe finds {% let ... %} declarations inside a fragment that is about
// to be commented out. They are re-emitted live: later content may depend on
// the binding.
var hoistLetRe = regexp.MustCompile(`(?is){%\s*let\s+[^%]+%}`)

// CommentResidual produces the final, well-formed document.
//
// Phase A empties any attribute whose whole value is a print token and parks
// the token in an adjacent comment. Phase B comments out every remaining
// AMPscript fragment, hoisting embedded {% let %} bindings out of the comment
// first; a fragment that was pure bindings produces no comment at all.
//
// Every commented fragment is recorded with the 1-based line of its first
// character, computed from cumulative newline counts in the text the phase
// scanned.
func CommentResidual(doc string) (string, []m.CommentedFragment) {
	var fragments []m.CommentedFragment

	// Phase A: attribute neutralization.
	var a strings.Builder

	last := 0

	for _, loc := range attrTokenRe.FindAllStringSubmatchIndex(doc, -1) {
		prefix := doc[loc[2]:loc[3]]
		quoted := doc[loc[4]:loc[5]]
		quote := quoted[:1]
		token := quoted[1 : len(quoted)-1]

		a.WriteString(doc[last:loc[0]])
		a.WriteString(prefix + quote + quote + " <!-- " + token + " -->")
		fragments = append(fragments, m.CommentedFragment{Line: lineAt(doc, loc[0]), Snippet: token})
		last = loc[1]
	}

	a.WriteString(doc[last:])
	doc = a.String()

	// Phase B: residual sweep with let-hoisting.
	var b strings.Builder

	last = 0

	for _, loc := range residualRe.FindAllStringIndex(doc, -1) {
		full := doc[loc[0]:loc[1]]
		line := lineAt(doc, loc[0])

		if insideComment(doc, loc[0], loc[1]) {
			continue
		}

		b.WriteString(doc[last:loc[0]])
		last = loc[1]

		if strings.HasPrefix(full, "%%=") {
			// Attribute-held tokens were neutralized in Phase A; anything
			// still here can be commented inline.
			b.WriteString("<!-- " + full + " -->")
			fragments = append(fragments, m.CommentedFragment{Line: line, Snippet: full})

			continue
		}

		for _, let := range hoistLetRe.FindAllString(full, -1) {
			b.WriteString(let)
		}

		cleaned := hoistLetRe.ReplaceAllString(full, "")
		if strings.TrimSpace(cleaned) == "" {
			continue
		}

		b.WriteString("<!-- " + cleaned + " -->")
		fragments = append(fragments, m.CommentedFragment{Line: line, Snippet: strings.TrimSpace(cleaned)})
	}

	b.WriteString(doc[last:])

	return b.String(), fragments
}

// insideComment reports whether the match at [start,end) already sits inside
// a comment written by the attribute phase.
func insideComment(text string, start, end int) bool {
	return strings.HasSuffix(text[:start], "<!-- ") &&
		strings.HasPrefix(text[end:], " -->")
}

// lineAt returns the 1-based line number of byte offset pos. Stable for
// fragments spanning multiple lines: the recorded line is the start line.
func lineAt(text string, pos int) int {
	return strings.Count(text[:pos], "\n") + 1
}
