package model

// CommentedFragment records a residual AMPscript snippet that could not be
// converted and was wrapped in an HTML comment. Line is the 1-based line of
// the fragment's first character in the document the commenting pass received.
type CommentedFragment struct {
	Line    int
	Snippet string
}
