package admin

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/frenchcercle/cercle/internal/models"
)

// byte order mark so spreadsheet tools detect UTF-8
const bom = "\uFEFF"

// ExportHeader is the fixed column order of the CSV export
var ExportHeader = []string{"ID", "First Name", "Last Name", "Email", "Course", "Level", "Type", "Status", "Date"}

// ExportFilename names the download for the given day
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("registrants_%s.csv", now.Format(models.DateLayout))
}

// WriteCSV writes the BOM, the header and one row per registrant. Every
// field is double-quoted; embedded quotes are doubled. Values a spreadsheet
// would read as a formula are prefixed with a single quote.
func WriteCSV(w io.Writer, registrants []models.Registrant) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(bom); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	if err := writeRow(bw, ExportHeader); err != nil {
		return err
	}
	for _, r := range registrants {
		row := []string{
			cell(r.ID),
			cell(r.FirstName),
			cell(r.LastName),
			cell(r.Email),
			cell(r.CourseInterest),
			cell(r.Level),
			cell(string(r.Mode)),
			cell(string(r.Status)),
			cell(r.SubmittedDate),
		}
		if err := writeRow(bw, row); err != nil {
			return err
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

// cell neutralizes formula triggers in registrant supplied text
func cell(v string) string {
	if v != "" && strings.ContainsRune("=+-@\t\r", rune(v[0])) {
		return "'" + v
	}
	return v
}

func writeRow(w *bufio.Writer, fields []string) error {
	for i, f := range fields {
		if i > 0 {
			w.WriteByte(',')
		}
		w.WriteByte('"')
		w.WriteString(strings.ReplaceAll(f, `"`, `""`))
		w.WriteByte('"')
	}
	if _, err := w.WriteString("\r\n"); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}
