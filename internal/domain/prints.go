package domain

import (
	m "ampliquid.dev/pkg/ampliquid/internal/model"
)

// ReplaceMappedPrints is the global print sweep: every %%=v(@var)=%% left in
// the document becomes {{ expr }} when a mapping exists. It runs after block
// conversion so region-local substitution (and the article special case) has
// already happened; unmapped tokens stay put for the commenting pass.
func ReplaceMappedPrints(doc string, mapping m.VariableMapping) string {
	return substituteMappedPrints(doc, mapping)
}
