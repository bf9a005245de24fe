package model

import "time"

// RunLog is the structured outcome of converting a single document. The four
// reporting artifacts (MatchesFound, Substitutions, Commented, Variables plus
// the Unmapped list) are a stable contract consumed by the console UI and the
// Excel logbook regardless of how either renders them.
type RunLog struct {
	Input     Path
	Output    Path
	Mapping   Path
	StartedAt time.Time

	// MatchesFound counts every de-para pattern occurrence, including rows
	// whose blank target makes them report-only.
	MatchesFound int

	// Substitutions counts replacements actually applied by the table pass.
	Substitutions int

	// Commented lists residual AMPscript wrapped in comments, attribute
	// extractions first, then the remaining fragments in document order.
	Commented []CommentedFragment

	// Variables is the finalized variable→expression mapping used for prints.
	Variables VariableMapping

	// Unmapped is the finalized warning report: variables referenced in
	// conditions with no known destination (case-folded, sorted, unique).
	Unmapped []string
}
