package artifact

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Columns: []string{"Sale ID", "Product", "Quantity", "Total Amount"},
		Rows: [][]string{
			{"1", "Amoxicillin", "2", "25.00"},
			{"2", "Ibuprofen", "1", "8.00"},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	store := NewStore(t.TempDir())

	path, err := store.Write(sampleDataset(), "csv", "sales_summary", 42)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(filepath.Base(path), "sales_summary_42_"))
	assert.True(t, strings.HasSuffix(path, ".csv"))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Sale ID,Product,Quantity,Total Amount", lines[0])
	assert.Equal(t, "1,Amoxicillin,2,25.00", lines[1])
}

func TestWriteXLSX(t *testing.T) {
	store := NewStore(t.TempDir())

	path, err := store.Write(sampleDataset(), "xlsx", "product_analysis", 7)
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(path, ".xlsx"))
	assert.True(t, store.Exists(path))
	assert.Greater(t, store.Size(path), int64(0))
}

func TestWritePDF(t *testing.T) {
	store := NewStore(t.TempDir())

	path, err := store.Write(sampleDataset(), "pdf", "monthly_report", 9)
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(path, ".pdf"))
	assert.Greater(t, store.Size(path), int64(0))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "%PDF"), "expected a PDF header")
}

func TestWriteCreatesStorageDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "reports")
	store := NewStore(dir)

	path, err := store.Write(sampleDataset(), "csv", "sales_summary", 1)
	require.NoError(t, err)
	assert.True(t, store.Exists(path))
}

func TestExistsAndSizeOnMissingPath(t *testing.T) {
	store := NewStore(t.TempDir())

	assert.False(t, store.Exists(""))
	assert.False(t, store.Exists(filepath.Join(t.TempDir(), "nope.csv")))
	assert.Zero(t, store.Size(filepath.Join(t.TempDir(), "nope.csv")))
}

func TestRemoveIsIdempotent(t *testing.T) {
	store := NewStore(t.TempDir())

	path, err := store.Write(sampleDataset(), "csv", "sales_summary", 3)
	require.NoError(t, err)

	require.NoError(t, store.Remove(path))
	assert.False(t, store.Exists(path))

	// Already gone and blank paths are fine.
	assert.NoError(t, store.Remove(path))
	assert.NoError(t, store.Remove(""))
}
