package converter

import (
	"context"
	"fmt"

	"github.com/nconklindev/xlsx2vcf/internal/logging"
	"github.com/nconklindev/xlsx2vcf/internal/types"
)

// Status messages shown to the user.
const (
	MsgReady           = "Ready to upload your Excel file"
	MsgDropHint        = "Drop file to upload"
	MsgReadError       = "Error reading file"
	MsgNoData          = "No data found in the Excel file"
	MsgProcessingError = "Error processing file. Please make sure it is a valid Excel file."
	MsgNoContacts      = "No valid contacts found in the Excel file"
)

const (
	DownloadFilename = "contacts.vcf"
	DownloadMIMEType = "text/vcard"
)

func ProcessingStatus(filename string) types.Status {
	return types.Info(fmt.Sprintf("Processing: %s...", filename))
}

func SuccessStatus(count int) types.Status {
	return types.Success(fmt.Sprintf("Successfully processed %d contacts", count))
}

func CounterText(count int) string {
	return fmt.Sprintf("%d contacts", count)
}

// Ingest runs the whole pipeline on the bytes of one uploaded file. It never
// returns an error: every failure is folded into the result status and the
// detail is logged.
func Ingest(ctx context.Context, data []byte) (res types.Result) {
	ctx, runID := logging.EnsureRun(ctx)
	logger := logging.FromContext(ctx)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("decoder panicked", "panic", r)
			res = types.Result{RunID: runID, Status: types.Error(MsgProcessingError)}
		}
	}()

	res.RunID = runID

	raw, err := Decode(data)
	if err != nil {
		logger.Error("failed to decode file", "error", err, "bytes", len(data))
		res.Status = types.Error(MsgProcessingError)
		return res
	}

	table := FilterRows(raw)
	if len(table) == 0 {
		logger.Info("no data rows", "raw_rows", len(raw))
		res.Status = types.Error(MsgNoData)
		return res
	}

	res.Table = table
	res.Preview = RenderPreview(table)
	res.Heading = IsHeadingRow(table[0])
	res.Contacts, res.VCard = EncodeContacts(table)
	res.ReportedCount = ReportedCount(table)
	res.Counter = CounterText(res.ReportedCount)

	if len(res.Contacts) > 0 {
		res.Download = &types.Download{
			Filename: DownloadFilename,
			MIMEType: DownloadMIMEType,
			Body:     []byte(res.VCard),
		}
	}

	// The success message reports filtered rows, not encoded contacts, so a
	// run can claim N processed while offering nothing to download.
	if len(res.Contacts) == 0 && res.ReportedCount == 0 {
		res.Status = types.Error(MsgNoContacts)
	} else {
		res.Status = SuccessStatus(res.ReportedCount)
	}

	logger.Info("file processed",
		"rows", len(table),
		"heading", res.Heading,
		"contacts", len(res.Contacts),
		"reported", res.ReportedCount,
	)
	if len(res.Contacts) != res.ReportedCount {
		logger.Warn("reported count differs from encoded contacts",
			"reported", res.ReportedCount,
			"contacts", len(res.Contacts),
		)
	}

	return res
}
