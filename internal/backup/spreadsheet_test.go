package backup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/example/reviewbox/pkg/models"
)

func TestManager_ImportSpreadsheet_CSV(t *testing.T) {
	t.Parallel()

	mgr, backend := newTestManager(t, staticConfirm(true))

	csv := "level,type,id,text,translation\n" +
		"a1,vocab,1,cat,кот\n" +
		"b1,sentence,2,Birds of a feather flock together.,\n" +
		"z9,vocab,3,bogus,\n" +
		",,,,\n"
	path := filepath.Join(t.TempDir(), "items.csv")
	require.NoError(t, os.WriteFile(path, []byte(csv), 0644))

	cfg := DefaultSpreadsheetConfig()
	cfg.FilePath = path

	result, err := mgr.ImportSpreadsheet(cfg)
	require.NoError(t, err)

	assert.Equal(t, 4, result.TotalProcessed)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 0, result.Updated)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "unknown level")

	store, err := backend.Load()
	require.NoError(t, err)
	require.Len(t, store, 2)

	item := store["a1_vocab_1"]
	assert.Equal(t, map[string]interface{}{"text": "cat", "translation": "кот"}, item.Data)
	assert.Equal(t, 0, item.ReviewCount)
}

func TestManager_ImportSpreadsheet_CSVUpdatesExisting(t *testing.T) {
	t.Parallel()

	mgr, backend := newTestManager(t, staticConfirm(true))
	seedStore(t, backend)

	csv := "level,type,id,text,translation\n" +
		"a1,vocab,1,cat,gato\n"
	path := filepath.Join(t.TempDir(), "items.csv")
	require.NoError(t, os.WriteFile(path, []byte(csv), 0644))

	cfg := DefaultSpreadsheetConfig()
	cfg.FilePath = path

	result, err := mgr.ImportSpreadsheet(cfg)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 1, result.Updated)

	store, err := backend.Load()
	require.NoError(t, err)
	item := store["a1_vocab_1"]
	// Re-imports are payload-only updates: scheduling state survives
	assert.Equal(t, "gato", item.Data["translation"])
	assert.Equal(t, 2, item.ReviewCount)
	assert.Equal(t, testBase.AddDate(0, 0, 7), item.NextReviewDate)
}

func TestManager_ImportSpreadsheet_Excel(t *testing.T) {
	t.Parallel()

	f := excelize.NewFile()
	rows := [][]interface{}{
		{"level", "type", "id", "text", "translation"},
		{"a2", "vocab", 10, "dog", "собака"},
		{"c1", "sentence", 11, "The die is cast.", ""},
	}
	for i, row := range rows {
		for j, val := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Sheet1", cell, val))
		}
	}
	path := filepath.Join(t.TempDir(), "items.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	mgr, backend := newTestManager(t, staticConfirm(true))

	cfg := DefaultSpreadsheetConfig()
	cfg.FilePath = path

	result, err := mgr.ImportSpreadsheet(cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalProcessed)
	assert.Equal(t, 2, result.Created)
	assert.Empty(t, result.Errors)

	store, err := backend.Load()
	require.NoError(t, err)
	require.Len(t, store, 2)
	assert.Equal(t, models.TypeSentence, store["c1_sentence_11"].Type)
}

func TestManager_ImportSpreadsheet_MissingFile(t *testing.T) {
	t.Parallel()

	mgr, _ := newTestManager(t, staticConfirm(true))

	cfg := DefaultSpreadsheetConfig()
	cfg.FilePath = filepath.Join(t.TempDir(), "nope.xlsx")

	_, err := mgr.ImportSpreadsheet(cfg)
	assert.Error(t, err)
}
