package importer

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// excelEpochOffset is the day count between the Excel serial epoch
// (1900 system) and the Unix epoch.
const excelEpochOffset = 25569

const dateLayout = "2006-01-02"

// sheetReader exposes one worksheet as header-keyed rows.
type sheetReader struct {
	header map[string]int
	rows   [][]string
}

func openSheet(r io.Reader, sheetName string) (*sheetReader, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	// Fall back to the first sheet when the named one is absent, so a
	// single-sheet export is importable regardless of its sheet name.
	target := sheets[0]
	for _, s := range sheets {
		if s == sheetName {
			target = s
			break
		}
	}

	rows, err := f.GetRows(target)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", target, err)
	}
	if len(rows) == 0 {
		return &sheetReader{header: map[string]int{}}, nil
	}

	header := make(map[string]int, len(rows[0]))
	for i, cell := range rows[0] {
		header[strings.TrimSpace(cell)] = i
	}

	return &sheetReader{header: header, rows: rows[1:]}, nil
}

func (s *sheetReader) requireColumns(names ...string) error {
	for _, name := range names {
		if _, ok := s.header[name]; !ok {
			return fmt.Errorf("missing column %q", name)
		}
	}
	return nil
}

func (s *sheetReader) cell(row []string, column string) string {
	idx, ok := s.header[column]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseFloat(raw string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", raw)
	}
	return v, nil
}

func parseInt(raw string) (int, error) {
	v, err := parseFloat(raw)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

// parseDate accepts either an ISO date string or an Excel serial
// number, which is how date cells come back from raw sheet reads.
func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	if d, err := time.Parse(dateLayout, raw); err == nil {
		return d, nil
	}
	if d, err := time.Parse("2006/01/02", raw); err == nil {
		return d, nil
	}

	serial, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
	}
	d := time.Unix(int64((serial-excelEpochOffset)*86400), 0).UTC()
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC), nil
}

func parseOptionalDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := parseDate(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
