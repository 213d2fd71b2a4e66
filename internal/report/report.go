package report

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
	"text/tabwriter"

	"warehouse/internal/domain"
)

const (
	// NoStatus and NoModel label devices the API returned without that field.
	NoStatus = "SEM_STATUS"
	NoModel  = "SEM_MODELO"
)

// Count is one row of a summary.
type Count struct {
	Key string
	N   int
}

// Summary tallies a cluster's devices.
type Summary struct {
	ByStatus []Count
	ByModel  []Count
}

// Normalize fills the fields the API may omit. requested is the ID the
// operator asked for.
func Normalize(c domain.Cluster, requested domain.ClusterID) domain.Cluster {
	if c.ID == "" {
		c.ID = requested
	}
	if c.Name == "" {
		c.Name = c.AltName
	}
	if c.Name == "" {
		c.Name = "Cluster " + c.ID.String()
	}
	if c.Details == nil {
		c.Details = map[string]domain.IMEIDetail{}
	}
	if c.TotalIMEIs == 0 {
		c.TotalIMEIs = len(c.Details)
	}
	return c
}

// Details returns the cluster's devices ordered by IMEI, then by map key.
func Details(c domain.Cluster) []domain.IMEIDetail {
	keys := make([]string, 0, len(c.Details))
	for k := range c.Details {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := c.Details[keys[i]], c.Details[keys[j]]
		if a.IMEI != b.IMEI {
			return a.IMEI < b.IMEI
		}
		return keys[i] < keys[j]
	})
	out := make([]domain.IMEIDetail, len(keys))
	for i, k := range keys {
		out[i] = c.Details[k]
	}
	return out
}

// IMEIs lists the non-empty IMEIs of the cluster in Details order.
func IMEIs(c domain.Cluster) []string {
	var out []string
	for _, d := range Details(c) {
		if d.IMEI != "" {
			out = append(out, d.IMEI)
		}
	}
	return out
}

// Summarize counts devices per status and per model.
func Summarize(c domain.Cluster) Summary {
	status := map[string]int{}
	model := map[string]int{}
	for _, d := range c.Details {
		status[orDefault(d.Status, NoStatus)]++
		model[orDefault(d.Model, NoModel)]++
	}
	return Summary{ByStatus: sorted(status), ByModel: sorted(model)}
}

// IsActive reports whether a status reads as active ("ATIVO", "Ativo - loja", ...).
func IsActive(status string) bool {
	return strings.Contains(strings.ToLower(status), "ativo")
}

var unsafeName = regexp.MustCompile(`[\\/:*?"<>|]+`)

// FileName is the export file name for c.
func FileName(c domain.Cluster) string {
	base := c.Name
	if base == "" {
		base = c.ID.String()
	}
	if base == "" {
		base = "imeis"
	}
	base = SafeName(base)
	if base == "" {
		base = "imeis"
	}
	return base + ".csv"
}

// SafeName replaces runs of characters that are not allowed in file names.
func SafeName(s string) string {
	return strings.TrimSpace(unsafeName.ReplaceAllString(s, "_"))
}

// PrintSummary writes a human-readable view of c.
func PrintSummary(w io.Writer, c domain.Cluster) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Cluster:\t%s (%s)\n", c.Name, c.ID)
	if c.Description != "" {
		fmt.Fprintf(tw, "Description:\t%s\n", c.Description)
	}
	fmt.Fprintf(tw, "Total IMEIs:\t%d\n", c.TotalIMEIs)

	details := Details(c)
	if len(details) > 0 {
		s := Summarize(c)
		fmt.Fprintln(tw, "\nBy status:")
		for _, cnt := range s.ByStatus {
			fmt.Fprintf(tw, "  %s\t%d\n", cnt.Key, cnt.N)
		}
		fmt.Fprintln(tw, "\nBy model:")
		for _, cnt := range s.ByModel {
			fmt.Fprintf(tw, "  %s\t%d\n", cnt.Key, cnt.N)
		}
		fmt.Fprintln(tw, "\nIMEI\tModel\tStatus\tActive")
		for _, d := range details {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%t\n",
				d.IMEI, orDefault(d.Model, "-"), orDefault(d.Status, NoStatus), IsActive(d.Status))
		}
	}
	return tw.Flush()
}

func sorted(m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for k, n := range m {
		out = append(out, Count{Key: k, N: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
