package console

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// ErrNoDataRows is returned when an upload has no usable data rows.
var ErrNoDataRows = errors.New("file must have a header row and at least one data row")

// Upload is a parsed CSV upload.
type Upload struct {
	Columns []string
	Rows    [][]string
	// Skipped counts data lines whose width differed from the header.
	Skipped int
}

// ParseUpload splits an uploaded file on newlines and commas. Quoted fields
// are not interpreted: one leading and one trailing quote character is
// stripped from each cell. Lines with a different width than the header are
// skipped.
func ParseUpload(text string) (*Upload, error) {
	text = strings.TrimPrefix(text, "\ufeff")

	lines := make([]string, 0)
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) < 2 {
		return nil, ErrNoDataRows
	}

	up := &Upload{Columns: splitLine(lines[0])}
	for _, line := range lines[1:] {
		values := splitLine(line)
		if len(values) != len(up.Columns) {
			up.Skipped++
			continue
		}
		up.Rows = append(up.Rows, values)
	}
	if len(up.Rows) == 0 {
		return nil, ErrNoDataRows
	}
	return up, nil
}

func splitLine(line string) []string {
	parts := strings.Split(strings.TrimRight(line, "\r"), ",")
	for i, p := range parts {
		parts[i] = stripQuote(strings.TrimSpace(p))
	}
	return parts
}

func stripQuote(s string) string {
	const quotes = `"'|`
	if s != "" && strings.ContainsRune(quotes, rune(s[0])) {
		s = s[1:]
	}
	if s != "" && strings.ContainsRune(quotes, rune(s[len(s)-1])) {
		s = s[:len(s)-1]
	}
	return s
}

// WithoutID drops an "id" column (any case) and its values, since ids are
// generated by the target table.
func (u *Upload) WithoutID() *Upload {
	idx := -1
	for i, c := range u.Columns {
		if strings.EqualFold(c, "id") {
			idx = i
			break
		}
	}
	if idx < 0 {
		return u
	}

	out := &Upload{Skipped: u.Skipped}
	out.Columns = append(append([]string{}, u.Columns[:idx]...), u.Columns[idx+1:]...)
	for _, row := range u.Rows {
		out.Rows = append(out.Rows, append(append([]string{}, row[:idx]...), row[idx+1:]...))
	}
	return out
}

// WriteCSV writes a header and one line per row with RFC 4180 quoting.
// NULLs become empty cells.
func WriteCSV(w io.Writer, columns []string, rows []map[string]interface{}) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	record := make([]string, len(columns))
	for _, row := range rows {
		for i, col := range columns {
			record[i] = FormatCell(row[col])
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// FormatCell renders a scanned database value as CSV text.
func FormatCell(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case time.Time:
		return val.Format(time.RFC3339)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

// FileName builds a download name from a label, replacing anything that is
// not an ASCII letter or digit.
func FileName(label string, now time.Time) string {
	var b strings.Builder
	for _, r := range label {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		b.WriteString("query_results")
	}
	return fmt.Sprintf("%s_%d.csv", b.String(), now.UnixMilli())
}
