package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"warehouse/internal/domain"
)

func qrCmd(e *env) *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "qr <cluster-id>",
		Short: "Download a cluster's QR label as PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := e.wire.Labels.QRCode(e.ctx(cmd), domain.ClusterID(args[0]), outDir)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory")
	return cmd
}
