package types

import "strconv"

type CellKind int

const (
	CellEmpty CellKind = iota
	CellString
	CellNumber
	CellBool
)

// Cell is a single decoded spreadsheet value.
type Cell struct {
	Kind CellKind
	Str  string
	Num  float64
	Bool bool
}

func Empty() Cell { return Cell{} }

func String(s string) Cell { return Cell{Kind: CellString, Str: s} }

func Number(n float64) Cell { return Cell{Kind: CellNumber, Num: n} }

func Boolean(b bool) Cell { return Cell{Kind: CellBool, Bool: b} }

// IsBlank reports whether the cell is absent or an empty string.
func (c Cell) IsBlank() bool {
	return c.Kind == CellEmpty || (c.Kind == CellString && c.Str == "")
}

// Text returns the cell coerced to text. Empty cells become "".
func (c Cell) Text() string {
	switch c.Kind {
	case CellString:
		return c.Str
	case CellNumber:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	case CellBool:
		return strconv.FormatBool(c.Bool)
	}
	return ""
}

// Truthy reports whether the value would display at all in a preview.
// Zero, false and empty values are not truthy.
func (c Cell) Truthy() bool {
	switch c.Kind {
	case CellString:
		return c.Str != ""
	case CellNumber:
		return c.Num != 0 && c.Num == c.Num
	case CellBool:
		return c.Bool
	}
	return false
}

type Row []Cell

type Table []Row

// Contact is one name/phone pair eligible for encoding.
type Contact struct {
	Name  string
	Phone string
}

type StatusKind string

const (
	StatusInfo    StatusKind = "info"
	StatusSuccess StatusKind = "success"
	StatusError   StatusKind = "error"
)

type Status struct {
	Text string
	Kind StatusKind
}

func Info(text string) Status { return Status{Text: text, Kind: StatusInfo} }

func Success(text string) Status { return Status{Text: text, Kind: StatusSuccess} }

func Error(text string) Status { return Status{Text: text, Kind: StatusError} }

// Download is an encoded blob ready to be materialized as a file.
type Download struct {
	Filename string
	MIMEType string
	Body     []byte
}

// Result is the outcome of one ingest run. The presentation layer maps it
// onto the status line, the counter, the preview and the download action.
type Result struct {
	RunID  string
	Status Status

	// Table and Preview are nil/empty when the pipeline stopped before
	// the preview stage.
	Table   Table
	Preview string

	Heading  bool
	Contacts []Contact
	VCard    string

	// ReportedCount is the filtered row count minus the heading row.
	// It can differ from len(Contacts).
	ReportedCount int
	Counter       string

	Download *Download
}

// DownloadEnabled reports whether the run produced something to save.
func (r Result) DownloadEnabled() bool {
	return r.Download != nil
}

// Width returns the number of cells in the widest row.
func (t Table) Width() int {
	w := 0
	for _, row := range t {
		if len(row) > w {
			w = len(row)
		}
	}
	return w
}
