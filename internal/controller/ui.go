// Package controller provides the console front-ends that render conversion
// progress and reports.
package controller

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	m "ampliquid.dev/pkg/ampliquid/internal/model"
)

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	ModeConvert StartMode = iota
	ModeInspect
)

// StartOption is a functional option for Start.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode      StartMode
	documents int
}

// WithConvertMode sets the UI to document conversion mode.
func WithConvertMode(documents int) StartOption {
	return func(c *StartConfig) {
		c.mode = ModeConvert
		c.documents = documents
	}
}

// WithInspectMode sets the UI to mapping inspection mode.
func WithInspectMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeInspect
	}
}

// UI is the interface the workflow drives to report progress and results.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	Start(ctx context.Context, options ...StartOption) error
	Close(ctx context.Context)
	Wait(ctx context.Context) // Wait for the UI to finish rendering.
	DisplayDocumentStarted(ctx context.Context, input m.Path, workerID int)
	DisplayRunReport(ctx context.Context, log m.RunLog, logbook m.Path) error
	DisplayVariables(ctx context.Context, vars m.VariableMapping, covered m.CoveredSet) error
	DisplayBatchSummary(ctx context.Context, logs []m.RunLog) error
}

// NewUI picks the TUI when stdout is an interactive terminal and the plain
// console UI otherwise (pipes, CI).
func NewUI(cmd *cobra.Command, tty bool) UI {
	if tty {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether f is attached to a terminal.
func IsTTY(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
