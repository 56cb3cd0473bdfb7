package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/models"
	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/tasklist"
	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/workflow"
)

func newTaskListCmd() *cobra.Command {
	var (
		stage       string
		role        string
		catalogs    string
		postRelease bool
	)
	cmd := &cobra.Command{
		Use:   "tasklist <licence.json|->",
		Short: "Render the task list a role sees for a licence",
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
			engine, err := tasklist.LoadFile(catalogs)
			if err != nil {
				return fmt.Errorf("load catalogs: %w", err)
			}
			licence, err := readLicence(cmd, args[0])
			if err != nil {
				return err
			}

			status := workflow.Classify(licence, st)
			version := workflow.VersionInfo{IsNewVersion: true}
			list := engine.Build(r, postRelease, status, version, workflow.AllowedTransition(status, r))
			return printJSON(cmd, list)
		},
	}
	cmd.Flags().StringVar(&stage, "stage", string(models.StageEligibility), "licence stage")
	cmd.Flags().StringVar(&role, "role", string(models.RoleCA), "viewing role (CA, RO, DM)")
	cmd.Flags().StringVar(&catalogs, "catalogs", "", "catalog YAML replacing the embedded catalogs")
	cmd.Flags().BoolVar(&postRelease, "post-release", false, "render the variation task list")
	return cmd
}
