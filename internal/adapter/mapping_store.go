package adapter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	m "ampliquid.dev/pkg/ampliquid/internal/model"
)

// MappingStore loads the externally supplied de-para table.
type MappingStore interface {
	LoadTable(path m.Path) (m.MappingTable, error)
}

// FileMappingStore reads the de-para table from an .xlsx workbook or a
// .yaml/.yml file, picked by extension.
type FileMappingStore struct{}

// NewFileMappingStore creates a FileMappingStore.
func NewFileMappingStore() *FileMappingStore {
	return &FileMappingStore{}
}

// LoadTable reads the mapping file. Rows with a blank source cell are
// discarded here, before the pipeline runs; blank target cells are preserved
// as blank strings (detect-and-report-only rows).
func (s *FileMappingStore) LoadTable(path m.Path) (m.MappingTable, error) {
	switch strings.ToLower(filepath.Ext(string(path))) {
	case ".xlsx":
		return s.loadWorkbook(path)
	case ".yaml", ".yml":
		return s.loadYAML(path)
	default:
		return nil, fmt.Errorf("mapping table %s: unsupported format (want .xlsx, .yaml or .yml)", path)
	}
}

func (s *FileMappingStore) loadWorkbook(path m.Path) (m.MappingTable, error) {
	book, err := excelize.OpenFile(string(path))
	if err != nil {
		return nil, fmt.Errorf("open mapping table %s: %w", path, err)
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("mapping table %s: workbook has no sheets", path)
	}

	rows, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read mapping table %s: %w", path, err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("mapping table %s: sheet %q is empty (want SFMC and AJO columns)", path, sheets[0])
	}

	sourceCol, targetCol := pickColumns(rows[0])

	var table m.MappingTable

	for _, row := range rows[1:] {
		source := cellAt(row, sourceCol)
		if strings.TrimSpace(source) == "" {
			continue
		}

		table = append(table, m.MappingRow{Source: source, Target: cellAt(row, targetCol)})
	}

	return table, nil
}

// pickColumns resolves the SFMC and AJO columns even if the headers change
// slightly: case-insensitive substring match, first/second column fallback.
func pickColumns(header []string) (sourceCol, targetCol int) {
	sourceCol, targetCol = 0, 1

	for i, cell := range header {
		low := strings.ToLower(strings.TrimSpace(cell))

		switch {
		case strings.Contains(low, "sfmc"):
			sourceCol = i
		case strings.Contains(low, "ajo"):
			targetCol = i
		}
	}

	return sourceCol, targetCol
}

func cellAt(row []string, col int) string {
	if col >= len(row) {
		return ""
	}

	return row[col]
}

// mappingRowYAML is the on-disk shape of one YAML table entry.
type mappingRowYAML struct {
	Source string `yaml:"source"`
	Target string `yaml:"target"`
}

func (s *FileMappingStore) loadYAML(path m.Path) (m.MappingTable, error) {
	raw, err := os.ReadFile(string(path))
	if err != nil {
		return nil, fmt.Errorf("read mapping table %s: %w", path, err)
	}

	var rows []mappingRowYAML
	if err := yaml.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("parse mapping table %s: %w (want a list of {source, target} entries)", path, err)
	}

	var table m.MappingTable

	for _, row := range rows {
		if strings.TrimSpace(row.Source) == "" {
			continue
		}

		table = append(table, m.MappingRow{Source: row.Source, Target: row.Target})
	}

	return table, nil
}
