// Package addcmd implements the `helper add` command.
package addcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/helper/cmd/helper/shared"
	"github.com/go-ports/helper/internal/service"
)

// Command implements `helper add`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	name  string
	phone string
}

// New creates the add command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "add",
		Short: "Add a contact, optionally with a first phone number",
		Example: `  helper add --name Ann
  helper add -n Ann -p "+38 (095) 123-45-67"`,
		Args: cobra.NoArgs,
		RunE: c.run,
	}

	f := c.cmd.Flags()
	f.StringVarP(&c.name, "name", "n", "", "Contact name (required)")
	f.StringVarP(&c.phone, "phone", "p", "", "Phone number")
	_ = c.cmd.MarkFlagRequired("name")

	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	svc, err := service.New(c.ctx.Home)
	if err != nil {
		return err
	}
	defer svc.Close()

	if _, err := svc.AddContact(c.name, c.phone); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "The contact '%s' has been added\n", c.name)
	return nil
}
