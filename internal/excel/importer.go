package excel

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/engtrainer/internal/logger"
	"github.com/example/engtrainer/pkg/models"
	"github.com/xuri/excelize/v2"
)

// CSVHeader is the column layout of a catalog CSV file
var CSVHeader = []string{"english", "russian", "ipa", "example"}

// ImportConfig defines the spreadsheet layout
type ImportConfig struct {
	EnglishColumn string // Column with the english term
	RussianColumn string // Column with the translation
	IPAColumn     string // Column with the pronunciation
	ExampleColumn string // Column with the example sentence
	SheetName     string // Sheet to read; empty means the first sheet
	StartRow      int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		EnglishColumn: "A",
		RussianColumn: "B",
		IPAColumn:     "C",
		ExampleColumn: "D",
		StartRow:      2, // By default, start from the second row (skip header)
	}
}

// ImportResult holds the words read from a file and the rows that were rejected
type ImportResult struct {
	Words  []models.Word
	Errors []string
}

// ReadWords reads words from a CSV or Excel file
func ReadWords(path string, config ImportConfig) (*ImportResult, error) {
	if isCSV(path) {
		return readCSV(path)
	}
	return readExcel(path, config)
}

// readCSV reads a catalog CSV. Columns are located by the header row;
// files without a known header are read positionally.
func readCSV(path string) (*ImportResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	result := &ImportResult{Errors: make([]string, 0)}
	columns := positionalColumns()
	rowNum := 0

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		rowNum++

		if rowNum == 1 {
			if header, ok := headerColumns(row); ok {
				columns = header
				continue
			}
		}
		if isBlank(row) {
			continue
		}

		w, err := wordFromRow(row, columns)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}
		result.Words = append(result.Words, w)
	}
	return result, nil
}

// readExcel imports words from an Excel file
func readExcel(path string, config ImportConfig) (*ImportResult, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := config.SheetName
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}

	columns := map[string]int{
		"english": columnToIndex(config.EnglishColumn),
		"russian": columnToIndex(config.RussianColumn),
		"ipa":     columnToIndex(config.IPAColumn),
		"example": columnToIndex(config.ExampleColumn),
	}
	result := &ImportResult{Errors: make([]string, 0)}

	for i, row := range rows {
		// Skip header rows
		if i < config.StartRow-1 || isBlank(row) {
			continue
		}
		w, err := wordFromRow(row, columns)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
			continue
		}
		result.Words = append(result.Words, w)
	}
	return result, nil
}

// FileCatalog is a word list stored in a CSV or Excel file
type FileCatalog struct {
	Path   string
	Config ImportConfig

	log      *logger.Logger
	rejected []string
}

// NewFileCatalog creates a catalog backed by path
func NewFileCatalog(path string) *FileCatalog {
	return &FileCatalog{Path: path, Config: DefaultImportConfig(), log: logger.Nop()}
}

// WithLogger sets where rejected rows are reported
func (c *FileCatalog) WithLogger(log *logger.Logger) *FileCatalog {
	c.log = log
	return c
}

// Rejected lists the rows the last LoadWords skipped
func (c *FileCatalog) Rejected() []string {
	return c.rejected
}

// LoadWords reads the catalog. A missing CSV file is created from the
// starter dictionary first.
func (c *FileCatalog) LoadWords(_ context.Context) ([]models.Word, error) {
	if _, err := os.Stat(c.Path); errors.Is(err, os.ErrNotExist) && isCSV(c.Path) {
		if err := WriteStarter(c.Path); err != nil {
			return nil, err
		}
	}
	result, err := ReadWords(c.Path, c.Config)
	if err != nil {
		return nil, err
	}
	c.rejected = result.Errors
	if len(result.Errors) > 0 {
		c.log.Warn("skipped catalog rows", "path", c.Path, "count", len(result.Errors), "rows", result.Errors)
	}
	return result.Words, nil
}

// AppendWords adds words to the end of the file
func (c *FileCatalog) AppendWords(_ context.Context, words []models.Word) error {
	if isCSV(c.Path) {
		return appendCSV(c.Path, words)
	}
	return appendExcel(c.Path, c.Config, words)
}

func appendCSV(path string, words []models.Word) error {
	needsHeader := false
	if info, err := os.Stat(path); errors.Is(err, os.ErrNotExist) || (err == nil && info.Size() == 0) {
		needsHeader = true
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if needsHeader {
		if err := writer.Write(CSVHeader); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}
	for _, w := range words {
		if err := writer.Write([]string{w.English, w.Russian, w.IPA, w.Example}); err != nil {
			return fmt.Errorf("failed to write word %s: %w", w.English, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func appendExcel(path string, config ImportConfig, words []models.Word) error {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := config.SheetName
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("failed to get rows: %w", err)
	}

	next := len(rows) + 1
	for _, w := range words {
		values := map[string]string{
			config.EnglishColumn: w.English,
			config.RussianColumn: w.Russian,
			config.IPAColumn:     w.IPA,
			config.ExampleColumn: w.Example,
		}
		for column, value := range values {
			if column == "" {
				continue
			}
			if err := f.SetCellValue(sheet, fmt.Sprintf("%s%d", strings.ToUpper(column), next), value); err != nil {
				return fmt.Errorf("failed to write word %s: %w", w.English, err)
			}
		}
		next++
	}
	if err := f.Save(); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}
	return nil
}

func wordFromRow(row []string, columns map[string]int) (models.Word, error) {
	cell := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx < 0 || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	w := models.Word{
		English: cell("english"),
		Russian: cell("russian"),
		IPA:     cell("ipa"),
		Example: cell("example"),
	}
	if w.English == "" {
		return w, fmt.Errorf("word cannot be empty")
	}
	if w.Russian == "" {
		return w, fmt.Errorf("translation cannot be empty")
	}
	return w, nil
}

// headerColumns maps known header names to their positions
func headerColumns(row []string) (map[string]int, bool) {
	columns := make(map[string]int)
	for i, name := range row {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		for _, known := range CSVHeader {
			if name == known {
				columns[known] = i
			}
		}
	}
	_, hasEnglish := columns["english"]
	_, hasRussian := columns["russian"]
	return columns, hasEnglish && hasRussian
}

func positionalColumns() map[string]int {
	columns := make(map[string]int, len(CSVHeader))
	for i, name := range CSVHeader {
		columns[name] = i
	}
	return columns
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func isCSV(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".csv"
}

// Helper function to convert Excel column letter to index
func columnToIndex(column string) int {
	if column == "" {
		return -1
	}
	column = strings.ToUpper(column)
	index := 0
	for i := 0; i < len(column); i++ {
		index = index*26 + int(column[i]-'A'+1)
	}
	return index - 1
}
