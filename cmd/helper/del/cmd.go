// Package delcmd implements the `helper del` command.
package delcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/helper/cmd/helper/shared"
	"github.com/go-ports/helper/internal/service"
)

// Command implements `helper del`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	name  string
	phone string
	email string
}

// New creates the del command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "del",
		Short: "Delete a contact, or one of its phone numbers or emails",
		Example: `  helper del -n Ann
  helper del -n Ann -p 380951234567
  helper del -n Ann -e ann@example.com`,
		Args: cobra.NoArgs,
		RunE: c.run,
	}

	f := c.cmd.Flags()
	f.StringVarP(&c.name, "name", "n", "", "Contact name (required)")
	f.StringVarP(&c.phone, "phone", "p", "", "Phone number to delete")
	f.StringVarP(&c.email, "email", "e", "", "Email to delete")
	_ = c.cmd.MarkFlagRequired("name")
	c.cmd.MarkFlagsMutuallyExclusive("phone", "email")

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

	out := cmd.OutOrStdout()
	switch {
	case c.phone != "":
		if err := svc.DeletePhone(c.name, c.phone); err != nil {
			return err
		}
		fmt.Fprintf(out, "The phone number '%s' was successfully deleted from the '%s' contact.\n", c.phone, c.name)
	case c.email != "":
		if err := svc.DeleteEmail(c.name, c.email); err != nil {
			return err
		}
		fmt.Fprintf(out, "The email '%s' was successfully deleted from the '%s' contact.\n", c.email, c.name)
	default:
		if err := svc.DeleteContact(c.name); err != nil {
			return err
		}
		fmt.Fprintf(out, "The contact '%s' has been deleted.\n", c.name)
	}
	return nil
}
