package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-jot/cmd/config"
	"github.com/mattsolo1/grove-jot/pkg/workspace"
)

var currentStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208"))

func NewWorkspaceCmd(mgr **workspace.Manager, settings **config.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "workspace",
		Aliases: []string{"ws"},
		Short:   "Inspect workspaces",
		Long:    `Show the current workspace and the workspaces under the notes folder.`,
	}

	cmd.AddCommand(
		newWorkspaceCurrentCmd(mgr),
		newWorkspaceListCmd(mgr),
		newWorkspaceExistsCmd(mgr),
		newWorkspaceRecentCmd(settings),
		newWorkspaceForgetCmd(settings),
	)

	return cmd
}

func newWorkspaceCurrentCmd(mgr **workspace.Manager) *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Print the current workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := (*mgr).CurrentWorkspace()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), name)
			return nil
		},
	}
}

func newWorkspaceListCmd(mgr **workspace.Manager) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List workspaces under the notes folder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := *mgr

			names, err := m.ListWorkspaces()
			if err != nil {
				return err
			}

			current := m.Config().Workspace
			out := cmd.OutOrStdout()
			for _, name := range names {
				if name == current {
					fmt.Fprintln(out, currentStyle.Render("* "+name))
				} else {
					fmt.Fprintln(out, "  "+name)
				}
			}
			return nil
		},
	}
}

func newWorkspaceExistsCmd(mgr **workspace.Manager) *cobra.Command {
	return &cobra.Command{
		Use:   "exists WORKSPACE",
		Short: "Report whether a workspace exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := (*mgr).WorkspaceExists(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ok)
			return nil
		},
	}
}

func newWorkspaceRecentCmd(settings **config.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "recent",
		Short: "List recently used workspaces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := config.OpenHistory(*settings)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer h.Close()

			entries, err := h.List()
			if err != nil {
				return fmt.Errorf("list history: %w", err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "WORKSPACE\tNOTES\tLAST USED\tNOTES FOLDER")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", e.Name, e.Notes, e.LastUsed.Local().Format("2006-01-02 15:04"), e.NotesFolder)
			}
			return w.Flush()
		},
	}
}

func newWorkspaceForgetCmd(settings **config.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "forget WORKSPACE",
		Short: "Remove a workspace from the usage history",
		Long: `Drop WORKSPACE from the history shown by 'jot workspace recent'.

The workspace directory and its notes are left alone.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := config.OpenHistory(*settings)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer h.Close()

			e, err := h.Get(args[0])
			if err != nil {
				return err
			}
			if err := h.Remove(e.Name); err != nil {
				return fmt.Errorf("forget %s: %w", e.Name, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Forgot workspace '%s' (%d notes recorded)\n", e.Name, e.Notes)
			return nil
		},
	}
}
