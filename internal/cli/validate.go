package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/forms"
	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/models"
	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/workflow"
)

// ErrInvalidLicence is returned when a licence fails group validation, so the exit code is non-zero.
var ErrInvalidLicence = errors.New("licence is invalid")

func newValidateCmd() *cobra.Command {
	var stage, group, formsFile string
	cmd := &cobra.Command{
		Use:   "validate <licence.json|->",
		Short: "Validate a licence against a form group",
		Long: `Validate a licence against a form group. Without --group the group is derived
from the licence's stage and decisions.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := parseStage(stage)
			if err != nil {
				return err
			}
			registry, err := forms.LoadRegistryFile(formsFile)
			if err != nil {
				return fmt.Errorf("load forms: %w", err)
			}
			licence, err := readLicence(cmd, args[0])
			if err != nil {
				return err
			}
			if group == "" {
				group = forms.GroupName(workflow.Classify(licence, st))
			}
			validator, err := forms.NewValidator(registry, nil)
			if err != nil {
				return err
			}
			errs, err := validator.ValidateGroup(licence, group)
			if err != nil {
				return err
			}
			if len(errs) == 0 {
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: valid\n", group)
				return err
			}
			if err := printJSON(cmd, errs); err != nil {
				return err
			}
			return fmt.Errorf("%s: %w", group, ErrInvalidLicence)
		},
	}
	cmd.Flags().StringVar(&stage, "stage", string(models.StageProcessingRO), "licence stage")
	cmd.Flags().StringVar(&group, "group", "", "validation group, e.g. ELIGIBILITY or PROCESSING_RO")
	cmd.Flags().StringVar(&formsFile, "forms", "", "forms YAML replacing the embedded forms")
	return cmd
}
