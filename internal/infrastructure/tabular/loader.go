package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// LoadCSV reads an entire CSV stream into a Table. A UTF-8 BOM on the first
// header is stripped; ragged rows are tolerated.
func LoadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("tabular: read csv: %w", err)
	}
	if len(records) == 0 {
		return &Table{}, nil
	}

	headers := records[0]
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], "\uFEFF")
	}

	return &Table{Headers: headers, Rows: records[1:]}, nil
}

// LoadXLSX reads the first sheet of an XLSX stream into a Table.
func LoadXLSX(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("tabular: open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return &Table{}, nil
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("tabular: read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return &Table{}, nil
	}

	return &Table{Headers: rows[0], Rows: rows[1:]}, nil
}

// LoadFile loads a CSV or XLSX file by extension.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("tabular: open %s: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xls":
		return LoadXLSX(f)
	default:
		return LoadCSV(f)
	}
}
