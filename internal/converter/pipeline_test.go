package converter

import (
	"context"
	"strings"
	"testing"

	"github.com/nconklindev/xlsx2vcf/internal/logging"
	"github.com/nconklindev/xlsx2vcf/internal/types"
)

func TestIngest_RoundTrip(t *testing.T) {
	data := workbookBytes(t, [][]any{
		{"Name", "Phone"},
		{"Alice", "5551234567"},
		{"Bob", "5559876543"},
	})

	res := Ingest(context.Background(), data)

	if res.Status != types.Success("Successfully processed 2 contacts") {
		t.Errorf("Status = %+v", res.Status)
	}
	if res.Counter != "2 contacts" {
		t.Errorf("Counter = %q; want %q", res.Counter, "2 contacts")
	}
	if !res.Heading {
		t.Error("Expected first row to be a heading")
	}
	if len(res.Contacts) != 2 {
		t.Fatalf("Expected 2 contacts, got %d", len(res.Contacts))
	}
	if !res.DownloadEnabled() {
		t.Fatal("Expected download to be enabled")
	}
	if res.Download.Filename != "contacts.vcf" {
		t.Errorf("Filename = %q", res.Download.Filename)
	}
	if res.Download.MIMEType != "text/vcard" {
		t.Errorf("MIMEType = %q", res.Download.MIMEType)
	}

	body := string(res.Download.Body)
	alice := strings.Index(body, "FN:Alice\nTEL;TYPE=CELL:5551234567\n")
	bob := strings.Index(body, "FN:Bob\nTEL;TYPE=CELL:5559876543\n")
	if alice < 0 || bob < 0 || alice > bob {
		t.Errorf("Expected Alice then Bob blocks, got %q", body)
	}
	if strings.Count(body, "BEGIN:VCARD\nVERSION:3.0\n") != 2 || strings.Count(body, "END:VCARD\n\n") != 2 {
		t.Errorf("Expected two well-formed blocks, got %q", body)
	}

	// The preview shows every row, the heading row included
	if !strings.Contains(res.Preview, "<td>Name</td>") {
		t.Errorf("Preview is missing the heading row: %s", res.Preview)
	}
	if res.RunID == "" {
		t.Error("Expected a run ID")
	}
}

func TestIngest_EmptyAfterFilter(t *testing.T) {
	data := workbookBytes(t, [][]any{
		{"", nil},
		{nil, ""},
	})

	res := Ingest(context.Background(), data)

	if res.Status != types.Error("No data found in the Excel file") {
		t.Errorf("Status = %+v", res.Status)
	}
	if res.Table != nil || res.Preview != "" {
		t.Error("Expected no preview")
	}
	if res.DownloadEnabled() {
		t.Error("Expected download to stay disabled")
	}
	if res.Counter != "" {
		t.Errorf("Expected counter untouched, got %q", res.Counter)
	}
}

func TestIngest_SingleCellNoContacts(t *testing.T) {
	res := Ingest(context.Background(), workbookBytes(t, [][]any{{"X"}}))

	if res.Status != types.Error("No valid contacts found in the Excel file") {
		t.Errorf("Status = %+v", res.Status)
	}
	if res.DownloadEnabled() {
		t.Error("Expected download to be disabled")
	}
	if len(res.Contacts) != 0 {
		t.Errorf("Expected no contacts, got %+v", res.Contacts)
	}
	if res.Preview == "" {
		t.Error("Expected preview to be rendered before the contacts stage")
	}
}

func TestIngest_ReportedCountDivergesFromContacts(t *testing.T) {
	data := workbookBytes(t, [][]any{
		{"Name", "Phone"},
		{"Carl", ""},
	})

	res := Ingest(context.Background(), data)

	if res.ReportedCount != 1 {
		t.Errorf("ReportedCount = %d; want 1", res.ReportedCount)
	}
	if len(res.Contacts) != 0 {
		t.Errorf("Expected 0 encoded contacts, got %d", len(res.Contacts))
	}
	if res.DownloadEnabled() {
		t.Error("Expected download to be disabled")
	}
	if res.Status != types.Success("Successfully processed 1 contacts") {
		t.Errorf("Status = %+v", res.Status)
	}
	if res.Counter != "1 contacts" {
		t.Errorf("Counter = %q; want %q", res.Counter, "1 contacts")
	}
}

func TestIngest_ProcessingErrors(t *testing.T) {
	inputs := map[string][]byte{
		"empty":   nil,
		"binary":  {0x00, 0x10, 0x20},
		"bad zip": []byte("PK\x03\x04definitely not a workbook"),
	}

	for name, data := range inputs {
		t.Run(name, func(t *testing.T) {
			res := Ingest(context.Background(), data)
			if res.Status != types.Error(MsgProcessingError) {
				t.Errorf("Status = %+v", res.Status)
			}
			if res.Preview != "" || res.DownloadEnabled() {
				t.Error("Expected pipeline to stop before preview")
			}
		})
	}
}

func TestIngest_CSV(t *testing.T) {
	res := Ingest(context.Background(), []byte("Alice,5551234567\nBob,5559876543\n"))

	if res.Heading {
		t.Error("Expected no heading row")
	}
	if res.Status != types.Success("Successfully processed 2 contacts") {
		t.Errorf("Status = %+v", res.Status)
	}
}

func TestIngest_KeepsRunIDFromContext(t *testing.T) {
	ctx, id := logging.WithRun(context.Background())

	res := Ingest(ctx, []byte("Alice,5551234567\n"))
	if res.RunID != id {
		t.Errorf("RunID = %q; want %q", res.RunID, id)
	}
}
