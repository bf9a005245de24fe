package domain

import (
	"regexp"
	"strings"

	m "ampliquid.dev/pkg/ampliquid/internal/model"
)

// ifBlockRe matches one flat %%[ IF ... ]%% region. The trailing THEN is
// optional and has no semantic effect; the ELSE arm may be absent entirely.
// Nesting is not part of the source corpus, so a single non-overlapping scan
// is sufficient; an IF with no matching ENDIF simply never matches and is
// later picked up by the commenting pass.
var ifBlockRe = regexp.MustCompile(
	`(?is)%%\[\s*IF\s+(.+?)(?:\s+THEN)?\s*\]%%(.*?)((?:%%\[\s*ELSE\s*\]%%(.*?))?)%%\[\s*ENDIF\s*\]%%`,
)

var printTokenRe = regexp.MustCompile(`(?i)%%=v\(@(\w+)\)=%%`)

// thePlanPairRe matches the article print immediately followed by the plan
// name print: a fixed pair, recognized independently of the de-para table.
var thePlanPairRe = regexp.MustCompile(`(?i)%%=v\(@the\)=%%\s*%%=v\(@planname\)=%%`)

const thePlanLiquid = "{% if PlanLegalName startsWith 'THE' %}" +
	"{{ PlanLegalName }}" +
	"{% else %}the {{ PlanLegalName }}{%/if%}"

// ConvertIfBlocks rewrites every %%[ IF ... ]%% ... %%[ ENDIF ]%% region to
// Liquid. Conditions go through TranslateCondition; prints inside the region
// are substituted immediately (only when mapped) so the article special case
// sees them before the global print sweep runs.
func ConvertIfBlocks(doc string, warnings *m.WarningLog, mapping m.VariableMapping, covered m.CoveredSet) string {
	var out strings.Builder

	last := 0

	for _, loc := range ifBlockRe.FindAllStringSubmatchIndex(doc, -1) {
		out.WriteString(doc[last:loc[0]])
		out.WriteString(convertBlock(doc, loc, warnings, mapping, covered))
		last = loc[1]
	}

	out.WriteString(doc[last:])

	return out.String()
}

func convertBlock(doc string, loc []int, warnings *m.WarningLog, mapping m.VariableMapping, covered m.CoveredSet) string {
	cond := strings.TrimSpace(group(doc, loc, 1))
	thenBlock := group(doc, loc, 2)
	elseBlock := group(doc, loc, 4)

	opening := TranslateCondition(cond, warnings, mapping, covered).Text

	// Article agreement for the plan name: the de-para table cannot express
	// it because the choice between "the X" and bare "X" depends on the
	// resolved value at send time. Remaining prints in the branch are left
	// for the global sweep.
	if thePlanPairRe.MatchString(thenBlock) {
		thenBlock = thePlanPairRe.ReplaceAllString(thenBlock, thePlanLiquid)
	} else {
		thenBlock = substituteMappedPrints(thenBlock, mapping)
		elseBlock = substituteMappedPrints(elseBlock, mapping)
	}

	var b strings.Builder

	b.WriteString(opening)
	b.WriteString(thenBlock)

	// An empty else arm is omitted rather than emitted as an empty block.
	if strings.TrimSpace(elseBlock) != "" {
		b.WriteString("{% else %}")
		b.WriteString(elseBlock)
	}

	b.WriteString("{%/if%}")

	return b.String()
}

// substituteMappedPrints converts %%=v(@var)=%% to {{ expr }} only when the
// variable has a learned mapping; unmapped tokens stay as-is so the
// commenting pass can surface them for review.
func substituteMappedPrints(text string, mapping m.VariableMapping) string {
	return printTokenRe.ReplaceAllStringFunc(text, func(token string) string {
		name := printTokenRe.FindStringSubmatch(token)[1]

		expr, ok := mapping.Lookup(name)
		if !ok {
			return token
		}

		return "{{ " + expr + " }}"
	})
}

// group returns the text of submatch n from a FindAllStringSubmatchIndex
// location, or "" when the group did not participate.
func group(doc string, loc []int, n int) string {
	if loc[2*n] < 0 {
		return ""
	}

	return doc[loc[2*n]:loc[2*n+1]]
}
