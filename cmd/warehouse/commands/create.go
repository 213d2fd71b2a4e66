package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"warehouse/internal/domain"
	"warehouse/internal/validation"
)

// create --name N imei...: create a cluster and optionally fetch its label.
func createCmd(e *env) *cobra.Command {
	var (
		name, description, outDir string
		withQR                    bool
	)
	cmd := &cobra.Command{
		Use:   "create --name <name> <imei>...",
		Short: "Create a cluster from one or more IMEIs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := e.ctx(cmd)
			c, err := e.wire.Labels.Create(ctx, e.cfg.Passphrase, domain.CreateClusterRequest{
				Name:        name,
				Description: description,
				IMEIs:       args,
			})
			var verrs *validation.Errors
			if errors.As(err, &verrs) {
				for _, m := range verrs.Messages() {
					fmt.Fprintln(cmd.ErrOrStderr(), m)
				}
				return errors.New("cluster not created")
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cluster created.\nID: %s\nName: %s\n", c.ID, orName(c, name))

			if withQR {
				path, err := e.wire.Labels.QRCode(ctx, c.ID, outDir)
				if err != nil {
					return fmt.Errorf("cluster %s created but QR download failed: %w", c.ID, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "QR code: %s\n", path)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "cluster name")
	cmd.Flags().StringVarP(&description, "description", "d", "", "cluster description")
	cmd.Flags().BoolVar(&withQR, "qr", false, "download the QR label after creating")
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "directory for the QR label")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func orName(c domain.Cluster, fallback string) string {
	switch {
	case c.Name != "":
		return c.Name
	case c.AltName != "":
		return c.AltName
	default:
		return fallback
	}
}
