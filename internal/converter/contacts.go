package converter

import (
	"regexp"
	"strings"

	"github.com/nconklindev/xlsx2vcf/internal/types"
)

// phoneRun matches the shortest digit run that still looks like a phone number.
var phoneRun = regexp.MustCompile(`\d{5,}`)

// IsHeadingRow reports whether a row looks like column labels rather than
// a contact. A row is a heading when it has fewer than two cells or its
// second cell has no run of five or more digits.
func IsHeadingRow(row types.Row) bool {
	if len(row) < 2 {
		return true
	}
	return !phoneRun.MatchString(row[1].Text())
}

// StartIndex returns the first row that can hold a contact.
func StartIndex(t types.Table) int {
	if len(t) > 1 && IsHeadingRow(t[0]) {
		return 1
	}
	return 0
}

// EncodeContacts collects every row with a non-empty name and phone and
// serializes them as consecutive vCard blocks in row order.
func EncodeContacts(t types.Table) ([]types.Contact, string) {
	var (
		contacts []types.Contact
		sb       strings.Builder
	)

	for i := StartIndex(t); i < len(t); i++ {
		row := t[i]
		if len(row) < 2 {
			continue
		}

		name := strings.TrimSpace(row[0].Text())
		phone := strings.TrimSpace(row[1].Text())
		if name == "" || phone == "" {
			continue
		}

		c := types.Contact{Name: name, Phone: phone}
		contacts = append(contacts, c)
		sb.WriteString(FormatVCard(c))
	}

	return contacts, sb.String()
}

// FormatVCard renders one VCARD 3.0 block followed by a blank line.
func FormatVCard(c types.Contact) string {
	return "BEGIN:VCARD\n" +
		"VERSION:3.0\n" +
		"FN:" + c.Name + "\n" +
		"TEL;TYPE=CELL:" + c.Phone + "\n" +
		"END:VCARD\n" +
		"\n"
}

// ReportedCount is the number shown to the user after a run: every
// filtered row except a detected heading row. Rows that failed to encode
// are still counted.
func ReportedCount(t types.Table) int {
	if len(t) == 0 {
		return 0
	}
	if IsHeadingRow(t[0]) {
		return len(t) - 1
	}
	return len(t)
}
