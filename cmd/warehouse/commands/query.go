package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"warehouse/internal/report"
	"warehouse/internal/services/query"
)

// query <input>...: each input is a cluster ID or the text decoded from a
// QR label (URL or JSON).
func queryCmd(e *env) *cobra.Command {
	var (
		exportDir string
		parallel  int
	)
	cmd := &cobra.Command{
		Use:   "query <cluster-id|scanned-text>...",
		Short: "Look clusters up and summarize their IMEIs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clusters, err := e.wire.Query.LookupMany(e.ctx(cmd), args, parallel)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, c := range clusters {
				if i > 0 {
					fmt.Fprintln(out)
				}
				if err := report.PrintSummary(out, c); err != nil {
					return err
				}
				if exportDir == "" {
					continue
				}
				path, err := e.wire.Query.Export(c, exportDir)
				if err != nil {
					return err
				}
				e.log.Debug("exported", zap.String("cluster_id", c.ID.String()), zap.String("path", path))
				fmt.Fprintf(out, "Exported: %s\n", path)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&exportDir, "export", "e", "", "write each cluster's IMEIs as CSV into this directory")
	cmd.Flags().IntVar(&parallel, "parallel", query.DefaultParallel, "concurrent lookups")
	return cmd
}
