package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-jot/pkg/workspace"
)

func NewSwitchCmd(mgr **workspace.Manager) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "switch WORKSPACE",
		Short: "Change the current workspace",
		Long: `Make WORKSPACE the current workspace.

If no directory named WORKSPACE exists under the notes folder you are asked first.
The directory itself is created with the first note added to it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return (*mgr).SwitchWorkspace(args[0])
		},
	}

	return cmd
}
