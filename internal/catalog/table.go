package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/abhisek/cramkit/internal/store"
)

// requiredColumns of tabular catalogs. A "prompt" column is optional.
var requiredColumns = []string{"id", "topic", "category", "weight", "difficulty"}

// ParseCSV reads a CSV catalog whose first row is the header.
func ParseCSV(r io.Reader) (*Document, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, store.InvalidInput("catalog", "read CSV: %v", err)
	}
	return parseTable(rows)
}

// ParseXLSX reads a catalog from a worksheet. An empty sheet name selects
// the first sheet of the workbook.
func ParseXLSX(r io.Reader, sheet string) (*Document, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, store.InvalidInput("catalog", "open workbook: %v", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, store.InvalidInput("catalog", "workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, store.InvalidInput("sheet", "read sheet %q: %v", sheet, err)
	}
	return parseTable(rows)
}

func parseTable(rows [][]string) (*Document, error) {
	if len(rows) == 0 {
		return nil, store.InvalidInput("catalog", "missing header row")
	}

	cols, err := headerIndex(rows[0])
	if err != nil {
		return nil, err
	}

	doc := &Document{}
	for i, row := range rows[1:] {
		line := i + 2
		if blankRow(row) {
			continue
		}
		it, err := parseRow(row, cols, line)
		if err != nil {
			return nil, err
		}
		doc.Items = append(doc.Items, it)
	}

	if err := doc.validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

func headerIndex(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, store.InvalidInput("header", "missing column %q", name)
		}
	}
	return cols, nil
}

func parseRow(row []string, cols map[string]int, line int) (store.LearningItem, error) {
	cell := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	weight, err := intCell(cell("weight"), 1)
	if err != nil {
		return store.LearningItem{}, store.InvalidInput("weight", "row %d: %v", line, err)
	}
	difficulty, err := intCell(cell("difficulty"), 1)
	if err != nil {
		return store.LearningItem{}, store.InvalidInput("difficulty", "row %d: %v", line, err)
	}

	it := store.LearningItem{
		ID:         cell("id"),
		Topic:      cell("topic"),
		Category:   cell("category"),
		Weight:     weight,
		Difficulty: difficulty,
		Prompt:     cell("prompt"),
	}

	if it.ID == "" || it.Topic == "" || it.Category == "" {
		return store.LearningItem{}, store.InvalidInput("catalog", "row %d: id, topic and category are required", line)
	}
	return it, nil
}

func intCell(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q is not an integer", s)
	}
	return n, nil
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
