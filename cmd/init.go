package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-jot/pkg/workspace"
)

func NewInitCmd(mgr **workspace.Manager) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init NOTES_FOLDER",
		Short: "Set the folder that holds your workspaces",
		Long: `Store NOTES_FOLDER as the notes folder in the configuration file.

Every directory directly under it is a workspace. Follow up with
'jot switch NAME' to pick the current workspace.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := *mgr

			folder, err := homedir.Expand(args[0])
			if err != nil {
				return fmt.Errorf("resolve notes folder: %w", err)
			}
			folder, err = filepath.Abs(folder)
			if err != nil {
				return fmt.Errorf("resolve notes folder: %w", err)
			}
			if err := m.SetNotesFolder(folder); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Notes folder set to %s\n", folder)
			if _, err := m.CurrentWorkspace(); err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), "\nNo workspace selected yet. Try 'jot switch NAME'.")
			}
			return nil
		},
	}

	return cmd
}
