package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	enc "github.com/MrJamesThe3rd/sadaqa/internal/encoding"
)

// record is one CSV row with the line it started on.
type record struct {
	line  int
	cells []string
}

// readTable decodes the input to UTF-8 and reads every CSV record. The
// delimiter is sniffed from the first lines so both comma and semicolon
// exports from spreadsheet tools are accepted. Blank lines are skipped.
func readTable(r io.Reader) ([]record, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var records []record

	for {
		cells, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}

		line, _ := reader.FieldPos(0)
		records = append(records, record{line: line, cells: cells})
	}

	return records, nil
}

// sniffLines is how many leading lines are inspected for the delimiter.
const sniffLines = 5

func sniffDelimiter(data []byte) rune {
	var commas, semicolons int

	rest := data
	for range sniffLines {
		var line []byte

		line, rest, _ = bytes.Cut(rest, []byte("\n"))
		commas += bytes.Count(line, []byte(","))
		semicolons += bytes.Count(line, []byte(";"))
	}

	if semicolons > commas {
		return ';'
	}

	return ','
}

// normalize folds a header cell so "Full Name", "full_name" and "fullName"
// compare equal.
func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "_", "", "-", "", ".", "").Replace(s)
}

// colIndex maps a profile field to its column in the row.
type colIndex map[string]int

// detectHeader finds the first row that carries every required column of the
// profile and returns the column mapping and the row index.
func detectHeader(p *profile, rows []record) (colIndex, int, bool) {
	for rowIdx, rec := range rows {
		row := rec.cells
		cells := make(map[string]int, len(row))

		for i, cell := range row {
			if name := normalize(cell); name != "" {
				if _, seen := cells[name]; !seen {
					cells[name] = i
				}
			}
		}

		cols := make(colIndex)

		for field, aliases := range p.columns {
			for _, alias := range aliases {
				if i, ok := cells[alias]; ok {
					cols[field] = i
					break
				}
			}
		}

		if p.matches(cols) {
			return cols, rowIdx, true
		}
	}

	return nil, 0, false
}

// cell returns the trimmed value of a field, or "" when the column is absent.
func (c colIndex) cell(row []string, field string) string {
	idx, ok := c[field]
	if !ok || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

var dateLayouts = []string{
	time.DateOnly,
	time.RFC3339,
	"02/01/2006",
	"02-01-2006",
	"2006/01/02",
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}

	return true
}
