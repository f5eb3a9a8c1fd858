// Package initcmd implements the `helper init` command.
package initcmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/go-ports/helper/cmd/helper/shared"
	"github.com/go-ports/helper/internal/config"
)

// Command implements `helper init`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the init command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "init",
		Short: "Create the helper home and a starter config.yaml",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	home := c.ctx.ResolvedHome()
	if err := os.MkdirAll(home, 0o755); err != nil {
		return fmt.Errorf("init: %w", err)
	}
	cfgPath := filepath.Join(home, config.FileName)
	if _, err := os.Stat(cfgPath); errors.Is(err, fs.ErrNotExist) {
		if err := os.WriteFile(cfgPath, []byte(config.Starter), 0o600); err != nil {
			return fmt.Errorf("init: %w", err)
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Helper home initialized at %s\n", home)
	return nil
}
