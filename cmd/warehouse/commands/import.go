package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"warehouse/internal/domain"
)

// import <file> --name N: upload a batch and let the API create the cluster.
func importCmd(e *env) *cobra.Command {
	var req domain.ImportRequest
	cmd := &cobra.Command{
		Use:   "import <file.csv|file.zip> --name <name>",
		Short: "Upload a CSV or ZIP batch as a new cluster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Path = args[0]
			outcome, err := e.wire.Labels.Import(e.ctx(cmd), e.cfg.Passphrase, req)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, outcome.Result.Text())
			if id := outcome.Result.ClusterID; id != "" {
				fmt.Fprintf(out, "Cluster: %s (%s)\n", id, outcome.Result.ClusterName)
			}
			switch {
			case outcome.QRErr != nil:
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: QR download failed: %v\n", outcome.QRErr)
			case outcome.QRPath != "":
				fmt.Fprintf(out, "QR code: %s\n", outcome.QRPath)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&req.Name, "name", "n", "", "cluster name")
	cmd.Flags().StringVarP(&req.Description, "description", "d", "", "cluster description")
	cmd.Flags().BoolVar(&req.FetchQR, "qr", false, "download the QR label of the created cluster")
	cmd.Flags().StringVarP(&req.OutDir, "out", "o", ".", "directory for the QR label")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}
