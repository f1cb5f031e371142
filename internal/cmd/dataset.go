package cmd

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/chenjieyouge/vgrid/internal/grid/column"
	"github.com/chenjieyouge/vgrid/internal/grid/datasource"
)

var headerCaser = cases.Title(language.English)

// loadCSV reads a CSV file into rows keyed by its header line, inferring
// each column's DataType from its first non-empty cell, so no
// user-authored schema is required.
func loadCSV(path string) ([]column.Column, []datasource.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("%s has no rows", path)
	}

	header := records[0]
	rows := make([]datasource.Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(datasource.Row, len(header))
		for i, key := range header {
			if i >= len(rec) {
				continue
			}
			row[key] = inferCell(rec[i])
		}
		rows = append(rows, row)
	}

	columns := make([]column.Column, len(header))
	for i, key := range header {
		columns[i] = column.Column{
			Key:         key,
			Title:       headerCaser.String(strings.ReplaceAll(key, "_", " ")),
			DataType:    inferColumnType(rows, key),
			SummaryType: column.SummaryNone,
			Flex:        1,
			MinWidth:    8,
		}
	}
	return columns, rows, nil
}

func inferCell(raw string) any {
	if raw == "" {
		return ""
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return raw
}

func inferColumnType(rows []datasource.Row, key string) column.DataType {
	for _, row := range rows {
		switch v := row[key].(type) {
		case float64:
			return column.DataTypeNumber
		case bool:
			return column.DataTypeBoolean
		case string:
			if v != "" {
				return column.DataTypeString
			}
		}
	}
	return column.DataTypeString
}
