package domain

import (
	"regexp"
	"strings"

	m "ampliquid.dev/pkg/ampliquid/internal/model"
)

// Translation is the outcome of one condition conversion attempt: either a
// Liquid opening tag, or a passthrough diagnostic comment carrying the
// original condition text and the reason it was kept.
type Translation struct {
	Text        string
	Passthrough bool
	Reason      string
}

// Recognized AMPscript condition forms. Order matters: the later patterns are
// textually looser and would otherwise pre-empt the earlier, more specific
// ones (NOT EMPTY before EMPTY in particular).
var (
	condNotEmptyRe = regexp.MustCompile(`(?i)not\s*empty\s*\(\s*@(\w+)\s*\)`)
	condEmptyRe    = regexp.MustCompile(`(?i)empty\s*\(\s*@(\w+)\s*\)`)
	condContainsRe = regexp.MustCompile(`(?i)contains\s*\(\s*@(\w+)\s*,\s*['"]([^'"]+)['"]\s*\)`)
	condCompareRe  = regexp.MustCompile(`(?i)@(\w+)\s*(==|!=)\s*['"]([^'"]+)['"]`)
	condTruthyRe   = regexp.MustCompile(`(?i)^\s*@(\w+)\s*$`)
)

// alwaysSafeVars are common identity fields that never require an explicit
// mapping, so references to them are not reported as unmapped.
var alwaysSafeVars = map[string]struct{}{
	"email":     {},
	"firstname": {},
	"lastname":  {},
	"country":   {},
}

// TranslateCondition converts a single AMPscript condition into a Liquid
// opening tag. Its only side effects are the declared accumulators: it may
// append referenced-but-uncovered variable names to warnings and may mark a
// variable covered when resolving it yields a real expression.
//
// Unknown syntax degrades to a passthrough comment so nothing is silently
// dropped.
func TranslateCondition(cond string, warnings *m.WarningLog, mapping m.VariableMapping, covered m.CoveredSet) Translation {
	trimmed := strings.TrimSpace(cond)

	for _, ref := range varRefRe.FindAllStringSubmatch(trimmed, -1) {
		name := ref[1]
		if covered.Has(name) {
			continue
		}

		if _, safe := alwaysSafeVars[strings.ToLower(name)]; safe {
			continue
		}

		*warnings = append(*warnings, name)
	}

	// Resolving a variable inside a condition is itself evidence of coverage.
	learn := func(name string) string {
		expr, ok := mapping.Lookup(name)
		if !ok {
			return name
		}

		covered.Add(name)

		return expr
	}

	if sub := condNotEmptyRe.FindStringSubmatch(trimmed); sub != nil {
		return translated("{% if length(" + learn(sub[1]) + ") > 0 %}")
	}

	if sub := condEmptyRe.FindStringSubmatch(trimmed); sub != nil {
		return translated("{% if length(" + learn(sub[1]) + ") == 0 %}")
	}

	if sub := condContainsRe.FindStringSubmatch(trimmed); sub != nil {
		return translated("{% if contains(" + learn(sub[1]) + ", '" + sub[2] + "') %}")
	}

	if sub := condCompareRe.FindStringSubmatch(trimmed); sub != nil {
		return translated("{% if " + learn(sub[1]) + " " + sub[2] + " '" + sub[3] + "' %}")
	}

	if sub := condTruthyRe.FindStringSubmatch(trimmed); sub != nil {
		return translated("{% if " + learn(sub[1]) + " %}")
	}

	if rest, ok := cutElseif(trimmed); ok {
		inner := TranslateCondition(rest, warnings, mapping, covered)
		inner.Text = strings.Replace(inner.Text, "{% if", "{% elseif", 1)

		return inner
	}

	return Translation{
		Text:        "<!-- Untranslated condition: " + cond + " -->",
		Passthrough: true,
		Reason:      "unrecognized condition syntax",
	}
}

func translated(text string) Translation {
	return Translation{Text: text}
}

func cutElseif(cond string) (string, bool) {
	const keyword = "elseif "
	if len(cond) < len(keyword) || !strings.EqualFold(cond[:len(keyword)], keyword) {
		return "", false
	}

	return strings.TrimSpace(cond[len(keyword):]), true
}
