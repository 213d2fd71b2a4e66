// Package batch reads the CSV files operators upload to create clusters in
// bulk. Files are comma or semicolon separated, may start with a UTF-8 BOM
// and may carry a header row naming the IMEI, model, status and manufacturer
// columns.
package batch

import (
	"bufio"
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"warehouse/internal/imei"
)

// Record is one non-blank row. Line is 1-based.
type Record struct {
	Line         int
	IMEI         string
	Model        string
	Status       string
	Manufacturer string
}

type columns struct {
	imei, model, status, manufacturer int
}

var headerNames = map[string]string{
	"imei":         "imei",
	"modelo":       "model",
	"model":        "model",
	"status":       "status",
	"fabricante":   "manufacturer",
	"manufacturer": "manufacturer",
}

// Read parses every row of r. The first row is a header when its first cell
// has no digit. Rows whose IMEI cell is blank are skipped. IMEIs are returned
// as written (trimmed), not validated.
func Read(r io.Reader) ([]Record, error) {
	br := bufio.NewReader(r)
	cr := csv.NewReader(br)
	cr.Comma = sniffSeparator(br)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	cols := columns{imei: 0, model: -1, status: -1, manufacturer: -1}
	var out []Record
	for first := true; ; first = false {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		if first {
			rec[0] = strings.TrimPrefix(rec[0], "\uFEFF")
			if imei.Normalize(rec[0]) == "" {
				cols = headerColumns(rec)
				continue
			}
		}
		v := cell(rec, cols.imei)
		if v == "" {
			continue
		}
		line, _ := cr.FieldPos(0)
		out = append(out, Record{
			Line:         line,
			IMEI:         v,
			Model:        cell(rec, cols.model),
			Status:       cell(rec, cols.status),
			Manufacturer: cell(rec, cols.manufacturer),
		})
	}
}

func headerColumns(header []string) columns {
	cols := columns{imei: 0, model: -1, status: -1, manufacturer: -1}
	for i, h := range header {
		switch headerNames[strings.ToLower(strings.TrimSpace(h))] {
		case "imei":
			cols.imei = i
		case "model":
			cols.model = i
		case "status":
			cols.status = i
		case "manufacturer":
			cols.manufacturer = i
		}
	}
	return cols
}

func cell(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

// sniffSeparator picks ';' when the first line uses it and no commas.
func sniffSeparator(br *bufio.Reader) rune {
	peek, _ := br.Peek(4096)
	first := string(peek)
	if i := strings.IndexAny(first, "\r\n"); i >= 0 {
		first = first[:i]
	}
	if strings.Contains(first, ";") && !strings.Contains(first, ",") {
		return ';'
	}
	return ','
}
