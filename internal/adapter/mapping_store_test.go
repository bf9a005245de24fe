package adapter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	m "ampliquid.dev/pkg/ampliquid/internal/model"
)

func TestFileMappingStoreYAML(t *testing.T) {
	t.Parallel()

	store := NewFileMappingStore()

	t.Run("loads the welcome example table", func(t *testing.T) {
		table, err := store.LoadTable(m.Path(filepath.Join("..", "..", "examples", "welcome", "depara.yaml")))

		require.NoError(t, err)
		require.Len(t, table, 3)
		assert.Equal(t, `%%=v(@firstName)=%%`, table[1].Source)
		assert.Equal(t, `{{ profile.person.name.firstName }}`, table[1].Target)
		assert.Empty(t, table[2].Target)
	})

	t.Run("drops rows with a blank source", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "table.yml")
		content := "- source: ''\n  target: 'x'\n- source: 'a'\n  target: 'b'\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		table, err := store.LoadTable(m.Path(path))

		require.NoError(t, err)
		require.Len(t, table, 1)
		assert.Equal(t, "a", table[0].Source)
	})

	t.Run("rejects malformed YAML with the path in the error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.yaml")
		require.NoError(t, os.WriteFile(path, []byte("source: not-a-list"), 0o644))

		_, err := store.LoadTable(m.Path(path))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "broken.yaml")
	})
}

func TestFileMappingStoreWorkbook(t *testing.T) {
	t.Parallel()

	store := NewFileMappingStore()

	writeWorkbook := func(t *testing.T, header []string, rows [][]string) string {
		t.Helper()

		book := excelize.NewFile()
		defer book.Close()

		sheet := book.GetSheetName(0)
		require.NoError(t, book.SetSheetRow(sheet, "A1", &header))

		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+2)
			require.NoError(t, err)
			require.NoError(t, book.SetSheetRow(sheet, cell, &row))
		}

		path := filepath.Join(t.TempDir(), "depara.xlsx")
		require.NoError(t, book.SaveAs(path))

		return path
	}

	t.Run("reads source and target by header name", func(t *testing.T) {
		path := writeWorkbook(t,
			[]string{"Notes", "SFMC snippet", "AJO replacement"},
			[][]string{
				{"n1", "%%=v(@x)=%%", "{{ profile.x }}"},
				{"n2", "%%=v(@y)=%%", ""},
			})

		table, err := store.LoadTable(m.Path(path))

		require.NoError(t, err)
		require.Len(t, table, 2)
		assert.Equal(t, "%%=v(@x)=%%", table[0].Source)
		assert.Equal(t, "{{ profile.x }}", table[0].Target)
		assert.Empty(t, table[1].Target)
	})

	t.Run("falls back to the first two columns without known headers", func(t *testing.T) {
		path := writeWorkbook(t,
			[]string{"From", "To"},
			[][]string{{"a", "b"}})

		table, err := store.LoadTable(m.Path(path))

		require.NoError(t, err)
		require.Len(t, table, 1)
		assert.Equal(t, m.MappingRow{Source: "a", Target: "b"}, table[0])
	})

	t.Run("skips blank source rows", func(t *testing.T) {
		path := writeWorkbook(t,
			[]string{"SFMC", "AJO"},
			[][]string{{"", "orphan"}, {"keep", "kept"}})

		table, err := store.LoadTable(m.Path(path))

		require.NoError(t, err)
		require.Len(t, table, 1)
		assert.Equal(t, "keep", table[0].Source)
	})

	t.Run("open errors carry the path", func(t *testing.T) {
		_, err := store.LoadTable(m.Path(filepath.Join(t.TempDir(), "missing.xlsx")))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing.xlsx")
	})
}

func TestFileMappingStoreUnsupportedFormat(t *testing.T) {
	t.Parallel()

	_, err := NewFileMappingStore().LoadTable("depara.csv")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}
