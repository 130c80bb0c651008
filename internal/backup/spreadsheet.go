package backup

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/example/reviewbox/pkg/models"
)

// SpreadsheetConfig defines where item fields live in an imported
// Excel or CSV file
type SpreadsheetConfig struct {
	FilePath          string // Path to the Excel or CSV file
	LevelColumn       string // Column with the level (a1..c2)
	TypeColumn        string // Column with the item type (vocab/sentence)
	IDColumn          string // Column with the numeric item id
	TextColumn        string // Column with the text
	TranslationColumn string // Column with the translation
	SheetName         string // Name of the sheet to import
	StartRow          int    // The row to start importing from (1-based index)
}

// DefaultSpreadsheetConfig returns the default column layout
func DefaultSpreadsheetConfig() SpreadsheetConfig {
	return SpreadsheetConfig{
		LevelColumn:       "A",
		TypeColumn:        "B",
		IDColumn:          "C",
		TextColumn:        "D",
		TranslationColumn: "E",
		SheetName:         "Sheet1",
		StartRow:          2, // Skip the header row
	}
}

// ImportResult holds the result of a spreadsheet import
type ImportResult struct {
	TotalProcessed int
	Created        int
	Updated        int
	Skipped        int
	Errors         []string
}

// ImportSpreadsheet bulk-saves items from an Excel or CSV file. Rows
// run through the scheduler one by one, so a row whose key already
// exists is a payload-only update.
func (m *Manager) ImportSpreadsheet(cfg SpreadsheetConfig) (*ImportResult, error) {
	var rows [][]string
	var err error

	ext := strings.ToLower(filepath.Ext(cfg.FilePath))
	if ext == ".csv" {
		rows, err = readCSVRows(cfg.FilePath)
	} else {
		rows, err = readExcelRows(cfg.FilePath, cfg.SheetName)
	}
	if err != nil {
		return nil, err
	}

	// Snapshot once so created vs updated can be told apart
	existing, err := m.sched.Snapshot()
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Errors: make([]string, 0)}
	for i, row := range rows {
		if i < cfg.StartRow-1 {
			continue
		}
		result.TotalProcessed++

		if err := m.importRow(row, cfg, existing, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
		}
	}

	return result, nil
}

// importRow parses and saves a single spreadsheet row
func (m *Manager) importRow(row []string, cfg SpreadsheetConfig, existing models.Store, result *ImportResult) error {
	level := models.Level(strings.ToLower(cellValue(row, cfg.LevelColumn)))
	typ := models.ItemType(strings.ToLower(cellValue(row, cfg.TypeColumn)))
	idRaw := strings.TrimSpace(cellValue(row, cfg.IDColumn))
	text := strings.TrimSpace(cellValue(row, cfg.TextColumn))
	translation := strings.TrimSpace(cellValue(row, cfg.TranslationColumn))

	if level == "" && typ == "" && idRaw == "" {
		result.Skipped++
		return nil
	}
	if !level.Valid() {
		return fmt.Errorf("unknown level %q", level)
	}
	if !typ.Valid() {
		return fmt.Errorf("unknown item type %q", typ)
	}
	id, err := strconv.Atoi(idRaw)
	if err != nil {
		return fmt.Errorf("bad item id %q", idRaw)
	}
	if text == "" {
		result.Skipped++
		return nil
	}

	data := map[string]interface{}{"text": text}
	if translation != "" {
		data["translation"] = translation
	}

	if err := m.sched.SaveItem(level, typ, id, data); err != nil {
		return err
	}

	key := models.ItemKey(level, typ, id)
	if _, ok := existing[key]; ok {
		result.Updated++
	} else {
		result.Created++
		existing[key] = models.ReviewItem{Level: level, Type: typ, ID: id}
	}
	return nil
}

// readExcelRows loads all rows from one sheet of an Excel file
func readExcelRows(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return rows, nil
}

// readCSVRows loads all records from a CSV file
func readCSVRows(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// cellValue picks the value of the given column letter out of a row,
// tolerating short rows
func cellValue(row []string, column string) string {
	if column == "" {
		return ""
	}
	n, err := excelize.ColumnNameToNumber(column)
	if err != nil || n-1 >= len(row) {
		return ""
	}
	return row[n-1]
}
