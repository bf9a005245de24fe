package domain

import (
	"time"

	m "ampliquid.dev/pkg/ampliquid/internal/model"
)

// Pipeline runs the enumerated pass sequence over documents. The mapping
// table and the inferred variable knowledge are computed once and shared
// read-only, so one Pipeline may convert many documents concurrently; the
// warning/coverage accumulators are created per call.
type Pipeline struct {
	table   m.MappingTable
	mapping m.VariableMapping
	covered m.CoveredSet
}

// NewPipeline builds a Pipeline for a de-para table, running variable
// inference up front.
func NewPipeline(table m.MappingTable) *Pipeline {
	mapping, covered := ExtractVariableExpressions(table)

	return &Pipeline{table: table, mapping: mapping, covered: covered}
}

// Variables exposes the inferred variable mapping (used by the mappings
// inspection command).
func (p *Pipeline) Variables() (m.VariableMapping, m.CoveredSet) {
	return p.mapping, p.covered
}

// Convert transforms one document and returns the final text plus the run
// log. The pass order is a contract: block conversion, table substitution,
// global print substitution, then safe commenting with hoisting.
func (p *Pipeline) Convert(doc string) (string, m.RunLog) {
	warnings := m.WarningLog{}

	// Per-document copies: condition translation extends the mapping and the
	// covered set, and documents must not see each other's resolutions.
	mapping := make(m.VariableMapping, len(p.mapping))
	for k, v := range p.mapping {
		mapping[k] = v
	}

	covered := make(m.CoveredSet, len(p.covered))
	for k := range p.covered {
		covered[k] = struct{}{}
	}

	out := ConvertIfBlocks(doc, &warnings, mapping, covered)

	out, found, replaced := SubstituteTable(out, p.table)

	out = ReplaceMappedPrints(out, mapping)

	out, fragments := CommentResidual(out)

	return out, m.RunLog{
		StartedAt:     time.Now(),
		MatchesFound:  found,
		Substitutions: replaced,
		Commented:     fragments,
		Variables:     mapping,
		Unmapped:      warnings.Unmapped(covered),
	}
}
