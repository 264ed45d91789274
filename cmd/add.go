package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-jot/pkg/workspace"
)

func NewAddCmd(mgr **workspace.Manager) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add TITLE NOTEBOOK...",
		Short: "Create a note",
		Long: `Create an empty note named TITLE.md in a notebook of the current workspace.

Notebooks may be nested; give each level as its own argument or join them with '/'.
If the notebook does not exist yet you are asked before it is created.
An existing note with the same title is emptied.

Examples:
  jot add todo inbox
  jot add "sprint plan" work projects
  jot add retro work/meetings`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := *mgr // Dereference the pointer to get the manager instance
			title, notebook := splitNoteArgs(args)
			_, err := m.CreateNote(title, notebook)
			return err
		},
	}

	return cmd
}

// splitNoteArgs returns the title and the notebook segments. A segment
// containing '/' is split into several.
func splitNoteArgs(args []string) (string, []string) {
	if len(args) == 0 {
		return "", nil
	}

	var notebook []string
	for _, arg := range args[1:] {
		notebook = append(notebook, strings.Split(arg, "/")...)
	}
	return args[0], notebook
}
