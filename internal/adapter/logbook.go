package adapter

import (
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	m "ampliquid.dev/pkg/ampliquid/internal/model"
)

// LogbookStore persists the structured run log.
type LogbookStore interface {
	// Write renders the run log and returns the path it was written to.
	Write(dir m.Path, log m.RunLog) (m.Path, error)
}

// ExcelLogbookStore writes the run log as a styled workbook with four
// sheets: Summary, Variables, Unmapped_Variables and Commented_AMPScript.
type ExcelLogbookStore struct{}

// NewExcelLogbookStore creates an ExcelLogbookStore.
func NewExcelLogbookStore() *ExcelLogbookStore {
	return &ExcelLogbookStore{}
}

// monthAbbrevs gives English month abbreviations regardless of OS locale.
var monthAbbrevs = [...]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// LogFileName builds the workbook filename for a run. stem distinguishes
// documents within a batch; it may be empty.
func LogFileName(at time.Time, stem string) string {
	if stem != "" {
		stem = "_" + stem
	}

	return fmt.Sprintf("Output_Log%s_%d_%s_%02d_%02dh%02dmin.xlsx",
		stem, at.Year(), monthAbbrevs[at.Month()-1], at.Day(), at.Hour(), at.Minute())
}

// Write renders the workbook into dir.
func (s *ExcelLogbookStore) Write(dir m.Path, log m.RunLog) (m.Path, error) {
	book := excelize.NewFile()
	defer book.Close()

	styles, err := newLogbookStyles(book)
	if err != nil {
		return "", fmt.Errorf("logbook styles: %w", err)
	}

	if err := s.writeSummary(book, styles, log); err != nil {
		return "", err
	}

	if err := s.writeVariables(book, styles, log.Variables); err != nil {
		return "", err
	}

	if err := s.writeUnmapped(book, styles, log.Unmapped); err != nil {
		return "", err
	}

	if err := s.writeCommented(book, styles, log.Commented); err != nil {
		return "", err
	}

	stem := ""
	if log.Input != "" {
		base := filepath.Base(string(log.Input))
		stem = base[:len(base)-len(filepath.Ext(base))]
	}

	path := m.Path(filepath.Join(string(dir), LogFileName(log.StartedAt, stem)))

	if err := book.SaveAs(string(path)); err != nil {
		return "", fmt.Errorf("write logbook %s: %w", path, err)
	}

	return path, nil
}

// logbookStyles holds the style IDs shared by every sheet: bold white header
// on a steel-blue fill, thin light borders, wrapped left-aligned cells.
type logbookStyles struct {
	header int
	cell   int
}

func newLogbookStyles(book *excelize.File) (logbookStyles, error) {
	thin := []excelize.Border{
		{Type: "top", Style: 1, Color: "D9D9D9"},
		{Type: "bottom", Style: 1, Color: "D9D9D9"},
		{Type: "left", Style: 1, Color: "D9D9D9"},
		{Type: "right", Style: 1, Color: "D9D9D9"},
	}

	header, err := book.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4F81BD"}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thin,
	})
	if err != nil {
		return logbookStyles{}, err
	}

	cell, err := book.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "top", WrapText: true},
		Border:    thin,
	})
	if err != nil {
		return logbookStyles{}, err
	}

	return logbookStyles{header: header, cell: cell}, nil
}

func (s *ExcelLogbookStore) writeSummary(book *excelize.File, styles logbookStyles, log m.RunLog) error {
	const sheet = "Summary"

	if err := book.SetSheetName(book.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("logbook sheet %s: %w", sheet, err)
	}

	rows := [][]any{
		{"Run datetime", log.StartedAt.Format("2006-01-02T15:04:05")},
		{"Input HTML", string(log.Input)},
		{"Output HTML", string(log.Output)},
		{"Mapping table", string(log.Mapping)},
		{"SFMC matches found", log.MatchesFound},
		{"Substitutions (table)", log.Substitutions},
		{"AMPScript blocks commented", len(log.Commented)},
	}

	return fillSheet(book, sheet, styles, []string{"Key", "Value"}, rows, []float64{28, 120})
}

func (s *ExcelLogbookStore) writeVariables(book *excelize.File, styles logbookStyles, vars m.VariableMapping) error {
	const sheet = "Variables"

	if _, err := book.NewSheet(sheet); err != nil {
		return fmt.Errorf("logbook sheet %s: %w", sheet, err)
	}

	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}

	sort.Strings(names)

	rows := make([][]any, 0, len(names))
	for _, name := range names {
		rows = append(rows, []any{"@" + name, vars[name]})
	}

	return fillSheet(book, sheet, styles, []string{"SFMC @var", "AJO expression used"}, rows, []float64{28, 120})
}

func (s *ExcelLogbookStore) writeUnmapped(book *excelize.File, styles logbookStyles, unmapped []string) error {
	const sheet = "Unmapped_Variables"

	if _, err := book.NewSheet(sheet); err != nil {
		return fmt.Errorf("logbook sheet %s: %w", sheet, err)
	}

	rows := make([][]any, 0, len(unmapped))
	for _, name := range unmapped {
		hint := fmt.Sprintf("Define profile.%s or context.%s in AJO (or add to mapping sheet)", name, name)
		rows = append(rows, []any{"@" + name, hint})
	}

	return fillSheet(book, sheet, styles, []string{"SFMC @var", "Action"}, rows, []float64{28, 120})
}

func (s *ExcelLogbookStore) writeCommented(book *excelize.File, styles logbookStyles, fragments []m.CommentedFragment) error {
	const sheet = "Commented_AMPScript"

	if _, err := book.NewSheet(sheet); err != nil {
		return fmt.Errorf("logbook sheet %s: %w", sheet, err)
	}

	rows := make([][]any, 0, len(fragments))
	for _, fragment := range fragments {
		rows = append(rows, []any{fragment.Line, fragment.Snippet})
	}

	return fillSheet(book, sheet, styles, []string{"Line", "Snippet"}, rows, []float64{10, 150})
}

// fillSheet writes the header and data rows, applies styles and column
// widths, and freezes the header row.
func fillSheet(book *excelize.File, sheet string, styles logbookStyles, headers []string, rows [][]any, widths []float64) error {
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}

		if err := book.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
	}

	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}

			if err := book.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}

	lastHeader, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}

	if err := book.SetCellStyle(sheet, "A1", lastHeader, styles.header); err != nil {
		return err
	}

	if len(rows) > 0 {
		lastCell, err := excelize.CoordinatesToCellName(len(headers), len(rows)+1)
		if err != nil {
			return err
		}

		if err := book.SetCellStyle(sheet, "A2", lastCell, styles.cell); err != nil {
			return err
		}
	}

	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}

		if err := book.SetColWidth(sheet, col, col, width); err != nil {
			return err
		}
	}

	return book.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
