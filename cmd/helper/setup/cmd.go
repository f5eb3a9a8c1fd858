// Package setupcmd implements the `helper setup` command.
package setupcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/helper/cmd/helper/shared"
	"github.com/go-ports/helper/internal/setup"
)

// Command implements `helper setup`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	configDir string
	project   bool
	remove    bool
}

// New creates the setup command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "setup <claude-code|cursor|codex>",
		Short: "Register the helper MCP server with a coding agent",
		Example: `  helper setup claude-code --project
  helper setup cursor
  helper setup codex --remove`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(setup.ClaudeCode), string(setup.Cursor), string(setup.Codex)},
		RunE:      c.run,
	}

	f := c.cmd.Flags()
	f.StringVar(&c.configDir, "config-dir", "", "Path to the agent's dot directory (e.g. ~/.cursor)")
	f.BoolVar(&c.project, "project", false, "Configure the current project instead of the user profile")
	f.BoolVar(&c.remove, "remove", false, "Remove the helper server instead of adding it")

	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, args []string) error {
	agent, err := setup.ParseAgent(args[0])
	if err != nil {
		return err
	}
	dir := c.configDir
	if dir == "" {
		dir = setup.DefaultDir(agent, c.project)
	}
	path := setup.ConfigPath(agent, dir, c.project)

	var res setup.Result
	if c.remove {
		res, err = setup.Uninstall(agent, path)
	} else {
		res, err = setup.Install(agent, path, setup.DefaultServer(c.ctx.Home))
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.Message)
	return nil
}
