package controller

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "ampliquid.dev/pkg/ampliquid/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	warnStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	dimStyle   = lipgloss.NewStyle().Faint(true)
)

// SimpleUI implements UI using cobra Command's writer: plain sequential
// output suitable for pipes and CI logs.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, _ ...StartOption) error {
	return ctx.Err()
}

// Close finalizes the UI.
func (s *SimpleUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// Wait blocks until the UI is closed (no-op for SimpleUI).
func (s *SimpleUI) Wait(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// DisplayDocumentStarted announces that a worker picked up a document.
func (s *SimpleUI) DisplayDocumentStarted(ctx context.Context, input m.Path, workerID int) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("%s\n", dimStyle.Render(fmt.Sprintf("converting %s (worker %d)", input, workerID)))
}

// DisplayRunReport prints the per-document report: counters, the logbook
// location and the unmapped-variable warnings with remediation hints.
func (s *SimpleUI) DisplayRunReport(ctx context.Context, log m.RunLog, logbook m.Path) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("\n%s\n", titleStyle.Render("==== SFMC → AJO (report) ===="))
	s.printf("%s", renderRunTable(log, logbook))

	if len(log.Unmapped) > 0 {
		s.printf("\n%s\n", warnStyle.Render("Unmapped variables detected:"))

		for _, name := range log.Unmapped {
			s.printf("  - @%s  → set profile.%s or context.%s in AJO (or add to mapping sheet)\n", name, name, name)
		}
	}

	return nil
}

func renderRunTable(log m.RunLog, logbook m.Path) string {
	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT})

	table.Append([]string{"Input", string(log.Input)})
	table.Append([]string{"Output", string(log.Output)})
	table.Append([]string{"Mapping", string(log.Mapping)})
	table.Append([]string{"SFMC matches", fmt.Sprintf("%d", log.MatchesFound)})
	table.Append([]string{"Substitutions", fmt.Sprintf("%d", log.Substitutions)})
	table.Append([]string{"Commented AMPScript", fmt.Sprintf("%d", len(log.Commented))})

	if logbook != "" {
		table.Append([]string{"Excel log", string(logbook)})
	}

	table.Render()

	return buf.String()
}

// DisplayVariables prints the inferred variable→expression table and the
// covered-only names (known destination, no clean expression).
func (s *SimpleUI) DisplayVariables(ctx context.Context, vars m.VariableMapping, covered m.CoveredSet) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("\n%s\n", titleStyle.Render("Inferred variable mappings"))

	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"SFMC @var", "AJO expression"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT})

	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		table.Append([]string{"@" + name, vars[name]})
	}

	table.SetFooter([]string{fmt.Sprintf("Total %d", len(names)), ""})
	table.Render()
	s.printf("%s", buf.String())

	var coveredOnly []string

	for name := range covered {
		if _, mapped := vars[name]; !mapped {
			coveredOnly = append(coveredOnly, name)
		}
	}

	sort.Strings(coveredOnly)

	if len(coveredOnly) > 0 {
		s.printf("\nCovered without an expression (handled elsewhere on the AJO side):\n")

		for _, name := range coveredOnly {
			s.printf("  - @%s\n", name)
		}
	}

	return nil
}

// DisplayBatchSummary prints one row per converted document plus totals.
func (s *SimpleUI) DisplayBatchSummary(ctx context.Context, logs []m.RunLog) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("\n%s\n", titleStyle.Render("Batch summary"))

	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Document", "Matches", "Substitutions", "Commented", "Unmapped"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER, tablewriter.ALIGN_CENTER,
	})

	var found, replaced, commented int

	for _, log := range logs {
		table.Append([]string{
			string(log.Input),
			fmt.Sprintf("%d", log.MatchesFound),
			fmt.Sprintf("%d", log.Substitutions),
			fmt.Sprintf("%d", len(log.Commented)),
			fmt.Sprintf("%d", len(log.Unmapped)),
		})

		found += log.MatchesFound
		replaced += log.Substitutions
		commented += len(log.Commented)
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total %d file(s)", len(logs)),
		fmt.Sprintf("%d", found),
		fmt.Sprintf("%d", replaced),
		fmt.Sprintf("%d", commented),
		"",
	})

	table.Render()
	s.printf("%s", buf.String())

	return nil
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
