package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-jot/pkg/workspace"
)

func NewNotebookCmd(mgr **workspace.Manager) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notebook",
		Short: "Inspect notebooks of the current workspace",
	}

	cmd.AddCommand(newNotebookExistsCmd(mgr))

	return cmd
}

func newNotebookExistsCmd(mgr **workspace.Manager) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exists NOTEBOOK...",
		Short: "Report whether a notebook exists",
		Long: `Print true if the last NOTEBOOK segment is a directory directly under the
current workspace, false otherwise. Parent segments are not checked.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, notebook := splitNoteArgs(append([]string{""}, args...))
			ok, err := (*mgr).NotebookExists(notebook)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ok)
			return nil
		},
	}

	return cmd
}
