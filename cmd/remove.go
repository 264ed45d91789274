package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-jot/pkg/workspace"
)

func NewRemoveCmd(mgr **workspace.Manager) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rm TITLE NOTEBOOK...",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete a note",
		Long: `Delete TITLE.md from a notebook of the current workspace.

There is no confirmation. The notebook directory is kept even when it becomes empty.

Examples:
  jot rm todo inbox
  jot rm "sprint plan" work/projects`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := *mgr
			title, notebook := splitNoteArgs(args)
			_, err := m.DeleteNote(title, notebook)
			return err
		},
	}

	return cmd
}
