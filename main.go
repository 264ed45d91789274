package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-jot/cmd"
	"github.com/mattsolo1/grove-jot/cmd/config"
	"github.com/mattsolo1/grove-jot/pkg/workspace"
)

type cli struct {
	root     *cobra.Command
	mgr      *workspace.Manager
	settings *config.Settings
	closeFn  func() error
}

func newCLI() *cli {
	c := &cli{}

	c.root = &cobra.Command{
		Use:          "jot",
		Short:        "Organize notes into workspaces and notebooks",
		SilenceUsage: true,
	}
	config.AddGlobalFlags(c.root)

	c.root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// This runs once before any subcommand
		var err error
		c.settings, err = config.Load(cmd.Flags())
		if err != nil {
			return err
		}

		c.mgr, c.closeFn, err = config.InitManager(c.settings, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		return err
	}

	// Add subcommands
	c.root.AddCommand(cmd.NewAddCmd(&c.mgr))
	c.root.AddCommand(cmd.NewRemoveCmd(&c.mgr))
	c.root.AddCommand(cmd.NewSwitchCmd(&c.mgr))
	c.root.AddCommand(cmd.NewWorkspaceCmd(&c.mgr, &c.settings))
	c.root.AddCommand(cmd.NewNotebookCmd(&c.mgr))
	c.root.AddCommand(cmd.NewContextCmd(&c.mgr))
	c.root.AddCommand(cmd.NewInitCmd(&c.mgr))
	c.root.AddCommand(cmd.NewVersionCmd())

	return c
}

// Execute runs the command line and releases the history database,
// whether or not the command succeeded.
func (c *cli) Execute() error {
	err := c.root.Execute()
	if cerr := c.close(); err == nil {
		err = cerr
	}
	return err
}

func (c *cli) close() error {
	if c.closeFn == nil {
		return nil
	}
	err := c.closeFn()
	c.closeFn = nil
	return err
}

func main() {
	if err := newCLI().Execute(); err != nil {
		os.Exit(1)
	}
}
