package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"warehouse/internal/imei"
	"warehouse/internal/services/label"
)

var errInvalidIMEIs = errors.New("invalid IMEIs found")

// validate [imei...] [--file batch.csv]: check IMEIs without touching the API.
func validateCmd(e *env) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "validate [imei...]",
		Short: "Check IMEIs locally (Luhn check digit)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && file == "" {
				return fmt.Errorf("give IMEIs as arguments or a CSV with --file")
			}
			out := cmd.OutOrStdout()
			bad := 0
			for _, arg := range args {
				v := imei.Normalize(arg)
				if imei.Valid(v) {
					fmt.Fprintf(out, "%s\tvalid\n", v)
					continue
				}
				bad++
				if len(v) == imei.Length {
					d, _ := imei.CheckDigit(v[:imei.BodyLength])
					fmt.Fprintf(out, "%s\tinvalid (check digit should be %d)\n", arg, d)
				} else {
					fmt.Fprintf(out, "%s\tinvalid (%d digits, want %d)\n", arg, len(v), imei.Length)
				}
			}

			if file != "" {
				f, err := os.Open(file)
				if err != nil {
					return err
				}
				defer f.Close()
				rep, err := label.Lint(f)
				if err != nil {
					return fmt.Errorf("read %s: %w", file, err)
				}
				for _, r := range rep.Invalid {
					fmt.Fprintf(out, "%s:%d: invalid IMEI %q\n", file, r.Line, r.Value)
				}
				for _, r := range rep.Duplicates {
					fmt.Fprintf(out, "%s:%d: duplicate IMEI %s\n", file, r.Line, r.Value)
				}
				fmt.Fprintf(out, "%s: %d valid, %d invalid, %d duplicate\n",
					file, len(rep.Valid), len(rep.Invalid), len(rep.Duplicates))
				if len(rep.Valid)+len(rep.Invalid)+len(rep.Duplicates) == 0 {
					return fmt.Errorf("%s: no IMEIs found", file)
				}
				bad += len(rep.Invalid)
			}

			if bad > 0 {
				return errInvalidIMEIs
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "CSV file to check")
	return cmd
}
