package domain

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"ampliquid.dev/pkg/ampliquid/internal/adapter"
	"ampliquid.dev/pkg/ampliquid/internal/controller"
	m "ampliquid.dev/pkg/ampliquid/internal/model"
)

// ConvertArgs carries everything a conversion run needs.
type ConvertArgs struct {
	Inputs  []m.Path
	Mapping m.Path

	// Output is the output file for a single input, or the output directory
	// for a batch. Empty derives "<stem>_ajo.html" next to each input.
	Output m.Path

	// LogDir is where the Excel logbook lands. ExcelLog false skips it.
	LogDir   m.Path
	ExcelLog bool

	// Threads is the number of parallel workers for batch conversion.
	Threads int
}

// MappingsArgs carries the inputs of the mapping inspection workflow.
type MappingsArgs struct {
	Mapping m.Path
}

// Workflow drives full conversion runs end to end.
type Workflow interface {
	Convert(ctx context.Context, args ConvertArgs) error
	Mappings(ctx context.Context, args MappingsArgs) error
}

type workflow struct {
	docs    adapter.DocumentStore
	tables  adapter.MappingStore
	logbook adapter.LogbookStore
	ui      controller.UI
}

// NewWorkflow creates a Workflow with the provided dependencies.
func NewWorkflow(
	docs adapter.DocumentStore,
	tables adapter.MappingStore,
	logbook adapter.LogbookStore,
	ui controller.UI,
) Workflow {
	return &workflow{docs: docs, tables: tables, logbook: logbook, ui: ui}
}

// Convert loads the mapping table once, then runs the pass pipeline over
// every input document with a bounded worker pool. The table and the
// inferred variable knowledge are immutable across workers; warning and
// coverage accumulators are per document.
func (w *workflow) Convert(ctx context.Context, args ConvertArgs) error {
	if len(args.Inputs) == 0 {
		return fmt.Errorf("no input documents given")
	}

	table, err := w.tables.LoadTable(args.Mapping)
	if err != nil {
		slog.Error("Failed to load mapping table", "path", args.Mapping, "error", err)
		return err
	}

	pipeline := NewPipeline(table)

	if err := w.ui.Start(ctx, controller.WithConvertMode(len(args.Inputs))); err != nil {
		slog.Error("Failed to start UI", "error", err)
		return err
	}

	threads := args.Threads
	if threads < 1 {
		threads = 1
	}

	logs := make([]m.RunLog, len(args.Inputs))

	var mu sync.Mutex

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(threads)

	for i, input := range args.Inputs {
		group.Go(func() error {
			w.ui.DisplayDocumentStarted(groupCtx, input, i%threads)

			log, err := w.convertOne(groupCtx, pipeline, input, args)
			if err != nil {
				return err
			}

			mu.Lock()
			logs[i] = log
			mu.Unlock()

			return nil
		})
	}

	err = group.Wait()

	if err == nil && len(args.Inputs) > 1 {
		err = w.ui.DisplayBatchSummary(ctx, logs)
	}

	w.ui.Close(ctx)
	w.ui.Wait(ctx)

	return err
}

func (w *workflow) convertOne(ctx context.Context, pipeline *Pipeline, input m.Path, args ConvertArgs) (m.RunLog, error) {
	doc, err := w.docs.ReadDocument(input)
	if err != nil {
		slog.Error("Failed to read document", "path", input, "error", err)
		return m.RunLog{}, err
	}

	out, log := pipeline.Convert(doc)

	log.Input = input
	log.Mapping = args.Mapping
	log.Output = outputPathFor(input, args.Output, len(args.Inputs))

	if err := w.docs.WriteDocument(log.Output, out); err != nil {
		slog.Error("Failed to write document", "path", log.Output, "error", err)
		return m.RunLog{}, err
	}

	var logbookPath m.Path

	if args.ExcelLog {
		logbookPath, err = w.logbook.Write(args.LogDir, log)
		if err != nil {
			slog.Error("Failed to write logbook", "dir", args.LogDir, "error", err)
			return m.RunLog{}, err
		}
	}

	slog.Info("Converted document",
		"input", log.Input,
		"output", log.Output,
		"matches", log.MatchesFound,
		"substitutions", log.Substitutions,
		"commented", len(log.Commented),
		"unmapped", len(log.Unmapped),
	)

	return log, w.ui.DisplayRunReport(ctx, log, logbookPath)
}

// outputPathFor resolves where a converted document goes: the explicit file
// for a single input, inside the directory for a batch, or "<stem>_ajo.html"
// next to the input when nothing was given.
func outputPathFor(input, output m.Path, inputs int) m.Path {
	if output != "" {
		if inputs == 1 {
			return output
		}

		return m.Path(filepath.Join(string(output), filepath.Base(string(input))))
	}

	ext := filepath.Ext(string(input))
	stem := strings.TrimSuffix(string(input), ext)

	if ext == "" {
		ext = ".html"
	}

	return m.Path(stem + "_ajo" + ext)
}

// Mappings runs variable inference only and shows what the table teaches.
func (w *workflow) Mappings(ctx context.Context, args MappingsArgs) error {
	table, err := w.tables.LoadTable(args.Mapping)
	if err != nil {
		slog.Error("Failed to load mapping table", "path", args.Mapping, "error", err)
		return err
	}

	if err := w.ui.Start(ctx, controller.WithInspectMode()); err != nil {
		return err
	}

	mapping, covered := ExtractVariableExpressions(table)

	err = w.ui.DisplayVariables(ctx, mapping, covered)

	w.ui.Close(ctx)
	w.ui.Wait(ctx)

	return err
}
