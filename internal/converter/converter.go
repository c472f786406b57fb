package converter

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/nconklindev/xlsx2vcf/internal/types"

	"github.com/xuri/excelize/v2"
)

var (
	ErrEmptyFile         = errors.New("empty file")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrNoSheets          = errors.New("workbook has no sheets")
)

// zipMagic prefixes every OOXML workbook (xlsx, xlsm, xltx).
var zipMagic = []byte("PK\x03\x04")

// Decode turns raw file bytes into the grid of the first sheet, one row per
// source row and one cell per column. No header inference is done here.
func Decode(data []byte) (types.Table, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}

	if bytes.HasPrefix(data, zipMagic) {
		return decodeXLSX(data)
	}

	// Anything that is not a workbook must at least be readable text
	if bytes.IndexByte(data, 0) >= 0 || !utf8.Valid(data) {
		return nil, ErrUnsupportedFormat
	}
	return decodeCSV(data)
}

func decodeXLSX(data []byte) (types.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, ErrNoSheets
	}

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheetName, err)
	}

	table := make(types.Table, 0, len(rows))
	for rowIdx, row := range rows {
		cells := make(types.Row, len(row))
		for colIdx, raw := range row {
			if raw == "" {
				continue
			}

			cellName, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err != nil {
				return nil, err
			}
			cellType, err := f.GetCellType(sheetName, cellName)
			if err != nil {
				return nil, fmt.Errorf("cell %s: %w", cellName, err)
			}
			cells[colIdx] = classify(raw, cellType)
		}
		table = append(table, cells)
	}

	return table, nil
}

// classify maps a raw stored value onto a typed cell. Numbers, dates and
// untyped cells are numeric when they parse as such.
func classify(raw string, cellType excelize.CellType) types.Cell {
	switch cellType {
	case excelize.CellTypeBool:
		return types.Boolean(raw == "1" || strings.EqualFold(raw, "true"))
	case excelize.CellTypeUnset, excelize.CellTypeNumber, excelize.CellTypeDate:
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			return types.Number(n)
		}
	}
	return types.String(raw)
}

func decodeCSV(data []byte) (types.Table, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	table := make(types.Table, 0, len(records))
	for _, record := range records {
		cells := make(types.Row, len(record))
		for i, field := range record {
			if field != "" {
				cells[i] = types.String(field)
			}
		}
		table = append(table, cells)
	}

	return table, nil
}

// FilterRows drops rows that have no cells or only blank cells.
func FilterRows(t types.Table) types.Table {
	filtered := make(types.Table, 0, len(t))
	for _, row := range t {
		if len(row) > 0 && hasValue(row) {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

func hasValue(row types.Row) bool {
	for _, cell := range row {
		if !cell.IsBlank() {
			return true
		}
	}
	return false
}
