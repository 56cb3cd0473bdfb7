package cli

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"

	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/models"
	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/workflow"
)

func newClassifyCmd() *cobra.Command {
	var stage string
	cmd := &cobra.Command{
		Use:   "classify <licence.json|->",
		Short: "Print the decisions and task states of a licence",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := parseStage(stage)
			if err != nil {
				return err
			}
			licence, err := readLicence(cmd, args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, workflow.Classify(licence, st))
		},
	}
	cmd.Flags().StringVar(&stage, "stage", string(models.StageEligibility), "licence stage")
	return cmd
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(pretty.Pretty(raw))
	return err
}
