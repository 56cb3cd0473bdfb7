package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/models"
	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/workflow"
)

func newLabelCmd() *cobra.Command {
	var stage, role string
	cmd := &cobra.Command{
		Use:   "label <licence.json|->",
		Short: "Print the case-list status label of a licence",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := parseStage(stage)
			if err != nil {
				return err
			}
			r, err := parseRole(role)
			if err != nil {
				return err
			}
			licence, err := readLicence(cmd, args[0])
			if err != nil {
				return err
			}
			status := workflow.Classify(licence, st)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), workflow.StatusLabel(&status, r))
			return err
		},
	}
	cmd.Flags().StringVar(&stage, "stage", string(models.StageEligibility), "licence stage")
	cmd.Flags().StringVar(&role, "role", string(models.RoleCA), "viewing role")
	return cmd
}
