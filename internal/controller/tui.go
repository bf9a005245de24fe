package controller

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	m "ampliquid.dev/pkg/ampliquid/internal/model"
)

var (
	tuiHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)
	tuiDoneStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	tuiWarnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// TUI implements UI with Bubble Tea: a spinner and a live per-document
// status list while a batch converts, then the final report.
type TUI struct {
	output  io.Writer
	program *tea.Program
	done    chan struct{}
}

// NewTUI creates a new TUI writing to output.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// Start launches the Bubble Tea program in convert mode. Inspect mode output
// is short and static, so no program is started and the display methods
// print directly.
func (t *TUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cfg := StartConfig{}
	for _, opt := range options {
		opt(&cfg)
	}

	if cfg.mode != ModeConvert {
		return nil
	}

	t.program = tea.NewProgram(newConvertModel(cfg.documents), tea.WithOutput(t.output))
	t.done = make(chan struct{})

	go func() {
		defer close(t.done)

		_, _ = t.program.Run()
	}()

	return nil
}

// Close asks the program to quit after the current frame.
func (t *TUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}

	if t.program != nil {
		t.program.Quit()
	}
}

// Wait blocks until the program has finished rendering.
func (t *TUI) Wait(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}

	if t.done != nil {
		<-t.done
	}
}

// DisplayDocumentStarted marks a document as in flight.
func (t *TUI) DisplayDocumentStarted(ctx context.Context, input m.Path, workerID int) {
	if err := ctx.Err(); err != nil {
		return
	}

	if t.program != nil {
		t.program.Send(documentStartedMsg{input: input, worker: workerID})
	}
}

// DisplayRunReport records a finished document in the live list.
func (t *TUI) DisplayRunReport(ctx context.Context, log m.RunLog, logbook m.Path) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if t.program == nil {
		_, err := fmt.Fprint(t.output, renderRunTable(log, logbook))
		return err
	}

	t.program.Send(runReportMsg{log: log, logbook: logbook})

	return nil
}

// DisplayVariables prints the inference table directly; inspect mode never
// runs the interactive program.
func (t *TUI) DisplayVariables(ctx context.Context, vars m.VariableMapping, covered m.CoveredSet) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var b strings.Builder

	b.WriteString(tuiHeaderStyle.Render("ampliquid · inferred variable mappings") + "\n\n")

	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintf(&b, "  @%-24s %s\n", name, vars[name])
	}

	var coveredOnly []string

	for name := range covered {
		if _, mapped := vars[name]; !mapped {
			coveredOnly = append(coveredOnly, name)
		}
	}

	sort.Strings(coveredOnly)

	if len(coveredOnly) > 0 {
		b.WriteString("\n  covered, no expression: @" + strings.Join(coveredOnly, ", @") + "\n")
	}

	_, err := fmt.Fprint(t.output, b.String())

	return err
}

// DisplayBatchSummary pushes the final totals into the model.
func (t *TUI) DisplayBatchSummary(ctx context.Context, logs []m.RunLog) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if t.program != nil {
		t.program.Send(batchSummaryMsg{logs: logs})
	}

	return nil
}

type documentStartedMsg struct {
	input  m.Path
	worker int
}

type runReportMsg struct {
	log     m.RunLog
	logbook m.Path
}

type batchSummaryMsg struct {
	logs []m.RunLog
}

type documentStatus struct {
	input   m.Path
	done    bool
	log     m.RunLog
	logbook m.Path
}

// convertModel is the Bubble Tea model for a conversion run.
type convertModel struct {
	spin     spinner.Model
	total    int
	order    []m.Path
	statuses map[m.Path]*documentStatus
	summary  []m.RunLog
	finished bool
	quitting bool
}

func newConvertModel(total int) convertModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))

	return convertModel{
		spin:     s,
		total:    total,
		statuses: make(map[m.Path]*documentStatus),
	}
}

func (cm convertModel) Init() tea.Cmd {
	return cm.spin.Tick
}

func (cm convertModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			cm.quitting = true
			return cm, tea.Quit
		}

		return cm, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		cm.spin, cmd = cm.spin.Update(msg)

		return cm, cmd

	case documentStartedMsg:
		if _, seen := cm.statuses[msg.input]; !seen {
			cm.order = append(cm.order, msg.input)
			cm.statuses[msg.input] = &documentStatus{input: msg.input}
		}

		return cm, nil

	case runReportMsg:
		status, seen := cm.statuses[msg.log.Input]
		if !seen {
			cm.order = append(cm.order, msg.log.Input)
			status = &documentStatus{input: msg.log.Input}
			cm.statuses[msg.log.Input] = status
		}

		status.done = true
		status.log = msg.log
		status.logbook = msg.logbook

		return cm, nil

	case batchSummaryMsg:
		cm.summary = msg.logs
		cm.finished = true

		return cm, nil
	}

	return cm, nil
}

func (cm convertModel) View() string {
	var b strings.Builder

	b.WriteString(tuiHeaderStyle.Render("ampliquid · SFMC → AJO") + "\n\n")

	if cm.finished {
		b.WriteString(tuiDoneStyle.Render(fmt.Sprintf("  converted %d document(s)", len(cm.summary))) + "\n\n")
	} else {
		fmt.Fprintf(&b, "  %s converting %d document(s)\n\n", cm.spin.View(), cm.total)
	}

	for _, input := range cm.order {
		status := cm.statuses[input]

		if !status.done {
			fmt.Fprintf(&b, "  %s %s\n", cm.spin.View(), input)
			continue
		}

		line := fmt.Sprintf("  %s %s → %s  (%d subs, %d commented",
			tuiDoneStyle.Render("✓"), input, status.log.Output,
			status.log.Substitutions, len(status.log.Commented))

		if n := len(status.log.Unmapped); n > 0 {
			line += tuiWarnStyle.Render(fmt.Sprintf(", %d unmapped", n))
		}

		b.WriteString(line + ")\n")
	}

	if cm.finished {
		var found, replaced int

		for _, log := range cm.summary {
			found += log.MatchesFound
			replaced += log.Substitutions
		}

		fmt.Fprintf(&b, "\n  matches: %d   substitutions: %d\n", found, replaced)
	}

	return b.String()
}
