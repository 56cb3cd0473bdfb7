package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/uk-gov-mirror/ministryofjustice.licences/pkg/document"
)

func newDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <before.json> <after.json>",
		Short: "Show a unified diff between two licence documents",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			before, err := readLicence(cmd, args[0])
			if err != nil {
				return err
			}
			after, err := readLicence(cmd, args[1])
			if err != nil {
				return err
			}
			diff := document.Diff(args[0], args[1], before, after)
			if diff == "" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "no changes")
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), diff)
			return err
		},
	}
}
