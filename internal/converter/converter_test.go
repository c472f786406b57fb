package converter

import (
	"errors"
	"reflect"
	"testing"

	"github.com/nconklindev/xlsx2vcf/internal/types"

	"github.com/xuri/excelize/v2"
)

// workbookBytes builds an in-memory xlsx whose first sheet holds rows.
// nil values leave the cell unset.
func workbookBytes(t *testing.T, rows [][]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for r, row := range rows {
		for c, v := range row {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatal(err)
			}
			if err := f.SetCellValue("Sheet1", cell, v); err != nil {
				t.Fatalf("SetCellValue(%s): %v", cell, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}
	return buf.Bytes()
}

func strRow(cells ...string) types.Row {
	row := make(types.Row, len(cells))
	for i, c := range cells {
		row[i] = types.String(c)
	}
	return row
}

func TestDecode_XLSX(t *testing.T) {
	data := workbookBytes(t, [][]any{
		{"Name", "Phone"},
		{"Alice", 5551234567},
		{"Bob", "555-987-6543", true},
	})

	table, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if len(table) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(table))
	}

	if table[0][0] != types.String("Name") {
		t.Errorf("Expected 'Name', got %+v", table[0][0])
	}
	if table[1][1] != types.Number(5551234567) {
		t.Errorf("Expected number 5551234567, got %+v", table[1][1])
	}
	if table[1][1].Text() != "5551234567" {
		t.Errorf("Expected text 5551234567, got %q", table[1][1].Text())
	}
	if table[2][1] != types.String("555-987-6543") {
		t.Errorf("Expected string phone, got %+v", table[2][1])
	}
	if table[2][2] != types.Boolean(true) {
		t.Errorf("Expected bool true, got %+v", table[2][2])
	}
}

func TestDecode_XLSXOnlyFirstSheet(t *testing.T) {
	f := excelize.NewFile()
	f.SetCellValue("Sheet1", "A1", "First")
	if _, err := f.NewSheet("Other"); err != nil {
		t.Fatal(err)
	}
	f.SetCellValue("Other", "A1", "Second")
	f.SetCellValue("Other", "A2", "More")
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}
	f.Close()

	table, err := Decode(buf.Bytes())
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(table) != 1 || table[0][0].Text() != "First" {
		t.Errorf("Expected only first sheet, got %+v", table)
	}
}

func TestDecode_XLSXHoles(t *testing.T) {
	data := workbookBytes(t, [][]any{
		{nil, "Phone"},
		{},
		{"Carl", nil, "x"},
	})

	table, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if table[0][0].Kind != types.CellEmpty {
		t.Errorf("Expected empty leading cell, got %+v", table[0][0])
	}

	last := table[len(table)-1]
	if len(last) != 3 || last[1].Kind != types.CellEmpty {
		t.Errorf("Expected hole in middle of last row, got %+v", last)
	}
}

func TestDecode_CSV(t *testing.T) {
	data := []byte("\xef\xbb\xbfName,Phone\nAlice,5551234567\n\"Smith, Bob\",,extra\n")

	table, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	want := types.Table{
		strRow("Name", "Phone"),
		strRow("Alice", "5551234567"),
		{types.String("Smith, Bob"), types.Empty(), types.String("extra")},
	}
	if !reflect.DeepEqual(table, want) {
		t.Errorf("Decode() = %+v; want %+v", table, want)
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   []byte
		wantErr error
	}{
		{"Empty input", nil, ErrEmptyFile},
		{"Binary garbage", []byte{0x00, 0x01, 0xfe, 0xff}, ErrUnsupportedFormat},
		{"Invalid UTF-8", []byte{'a', 0xc3, 0x28}, ErrUnsupportedFormat},
		{"Truncated zip", []byte("PK\x03\x04not really a workbook"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.input)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Decode() error = %v; want %v", err, tt.wantErr)
			}
		})
	}
}

func TestFilterRows(t *testing.T) {
	input := types.Table{
		{},
		strRow("Name", "Phone"),
		{types.Empty(), types.String("")},
		{types.Empty(), types.String("5551234567")},
		strRow(""),
		{types.Number(0)},
	}

	got := FilterRows(input)
	want := types.Table{
		strRow("Name", "Phone"),
		{types.Empty(), types.String("5551234567")},
		{types.Number(0)},
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("FilterRows() = %+v; want %+v", got, want)
	}
}

func TestFilterRows_Idempotent(t *testing.T) {
	tables := []types.Table{
		nil,
		{{}, strRow("", "")},
		{strRow("Alice", "5551234567"), {}, strRow("Bob")},
		{{types.Empty(), types.Boolean(false)}, {types.Empty()}},
	}

	for _, table := range tables {
		once := FilterRows(table)
		twice := FilterRows(once)
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("FilterRows not idempotent: %+v then %+v", once, twice)
		}
	}
}
