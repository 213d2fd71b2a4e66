package report

import (
	"bufio"
	"io"
	"strings"

	"warehouse/internal/domain"
)

const (
	bom       = "\uFEFF"
	separator = ";"
)

var header = []string{"IMEI", "Modelo", "Status", "Fabricante"}

// WriteCSV writes the cluster's devices as a BOM-prefixed, semicolon
// separated spreadsheet. Lines end in "\n" and the last line has no
// terminator.
func WriteCSV(w io.Writer, c domain.Cluster) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(bom); err != nil {
		return err
	}
	writeRow(bw, header)
	for _, d := range Details(c) {
		bw.WriteString("\n")
		writeRow(bw, []string{d.IMEI, d.Model, d.Status, d.Manufacturer})
	}
	return bw.Flush()
}

func writeRow(bw *bufio.Writer, fields []string) {
	for i, f := range fields {
		if i > 0 {
			bw.WriteString(separator)
		}
		bw.WriteString(escape(f))
	}
}

// escape doubles quotes and wraps the value when it holds a separator, a
// quote or a line break. Commas are quoted too so the file also opens
// cleanly with comma-separated locales.
func escape(v string) string {
	v = strings.ReplaceAll(v, `"`, `""`)
	if strings.ContainsAny(v, "\n\r,;\"") {
		return `"` + v + `"`
	}
	return v
}
