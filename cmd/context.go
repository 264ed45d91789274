package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-jot/pkg/workspace"
)

func NewContextCmd(mgr **workspace.Manager) *cobra.Command {
	var contextJSON bool

	cmd := &cobra.Command{
		Use:   "context",
		Short: "Show the configuration in use",
		Long: `Display the configuration file, current workspace and notes folder.

This is useful for integration with other tools like Neovim.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := *mgr
			cfg := m.Config()

			if contextJSON {
				output := map[string]any{
					"config_file":  m.ConfigPath(),
					"workspace":    cfg.Workspace,
					"notes_folder": cfg.NotesFolder,
				}

				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(output)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config File:  %s\n", m.ConfigPath())
			fmt.Fprintf(out, "Workspace:    %s\n", orUnset(cfg.Workspace))
			fmt.Fprintf(out, "Notes Folder: %s\n", orUnset(cfg.NotesFolder))
			return nil
		},
	}

	cmd.Flags().BoolVar(&contextJSON, "json", false, "Output as JSON")

	return cmd
}

func orUnset(v string) string {
	if v == "" {
		return "(not set)"
	}
	return v
}
