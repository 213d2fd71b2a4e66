package label

import (
	"io"

	"warehouse/internal/batch"
	"warehouse/internal/imei"
)

// Row is one IMEI cell of a batch file. Line is 1-based.
type Row struct {
	Line  int
	Value string
}

// LintReport classifies the IMEIs of a batch file.
type LintReport struct {
	Valid      []Row
	Invalid    []Row
	Duplicates []Row
}

// OK reports whether the batch has at least one IMEI and no invalid ones.
func (r LintReport) OK() bool { return len(r.Invalid) == 0 && len(r.Valid) > 0 }

// Lint checks every IMEI of a batch file before it is uploaded.
func Lint(r io.Reader) (LintReport, error) {
	recs, err := batch.Read(r)
	if err != nil {
		return LintReport{}, err
	}
	var rep LintReport
	seen := map[string]bool{}
	for _, rec := range recs {
		row := Row{Line: rec.Line, Value: rec.IMEI}
		switch {
		case !imei.Valid(rec.IMEI):
			rep.Invalid = append(rep.Invalid, row)
		case seen[rec.IMEI]:
			rep.Duplicates = append(rep.Duplicates, row)
		default:
			seen[rec.IMEI] = true
			rep.Valid = append(rep.Valid, row)
		}
	}
	return rep, nil
}
