// Package cli implements licencectl, the operator tool for inspecting licence documents offline.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/models"
)

// VersionInfo is stamped into the binary at build time.
type VersionInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCmd builds the command tree.
func NewRootCmd(info VersionInfo) *cobra.Command {
	root := &cobra.Command{
		Use:   "licencectl",
		Short: "Inspect HDC licence documents",
		Long: `licencectl classifies licence documents, renders the task list a role would see,
resolves status labels, validates form groups and diffs licence versions. Every command
reads licence JSON from a file, or from stdin when the path is "-".`,
		Version:       fmt.Sprintf("%s (%s, %s)", info.Version, info.Commit, info.Date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newClassifyCmd(),
		newTaskListCmd(),
		newLabelCmd(),
		newValidateCmd(),
		newDiffCmd(),
		newTokenCmd(),
	)
	return root
}

// Execute runs the CLI against the process arguments.
func Execute(info VersionInfo) error {
	root := NewRootCmd(info)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "error:", err)
		return err
	}
	return nil
}

func readLicence(cmd *cobra.Command, path string) (models.Licence, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read licence: %w", err)
	}
	return models.Licence(data), nil
}

func parseStage(raw string) (models.Stage, error) {
	stage := models.Stage(raw)
	if !stage.Valid() {
		return "", fmt.Errorf("unknown stage %q", raw)
	}
	return stage, nil
}

func parseRole(raw string) (models.UserRole, error) {
	role := models.UserRole(raw)
	if !role.Valid() {
		return "", fmt.Errorf("unknown role %q", raw)
	}
	return role, nil
}
