package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"warehouse/internal/domain"
)

// history [cluster-id]: list journaled clusters, or show one.
func historyCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "history [cluster-id]",
		Short: "List clusters created from this machine",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 1 {
				entry, ok, err := e.wire.Journal.Find(e.cfg.Passphrase, domain.ClusterID(args[0]))
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("cluster %s is not in the journal", args[0])
				}
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintf(tw, "Cluster:\t%s\n", entry.ClusterID)
				fmt.Fprintf(tw, "Name:\t%s\n", entry.Name)
				if entry.Description != "" {
					fmt.Fprintf(tw, "Description:\t%s\n", entry.Description)
				}
				fmt.Fprintf(tw, "Source:\t%s\n", entry.Source)
				fmt.Fprintf(tw, "Created:\t%s\n", entry.CreatedAt.Local().Format(time.DateTime))
				if entry.QRPath != "" {
					fmt.Fprintf(tw, "QR code:\t%s\n", entry.QRPath)
				}
				if len(entry.IMEIs) > 0 {
					fmt.Fprintf(tw, "IMEIs:\t%s\n", strings.Join(entry.IMEIs, " "))
				}
				return tw.Flush()
			}

			entries, err := e.wire.Journal.List(e.cfg.Passphrase)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(out, "no clusters yet")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CREATED\tCLUSTER\tNAME\tSOURCE\tIMEIS")
			for _, en := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n",
					en.CreatedAt.Local().Format(time.DateTime), en.ClusterID, en.Name, en.Source, len(en.IMEIs))
			}
			return tw.Flush()
		},
	}
}
