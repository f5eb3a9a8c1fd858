// Package changecmd implements the `helper change` command.
package changecmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/helper/cmd/helper/shared"
	"github.com/go-ports/helper/internal/render"
	"github.com/go-ports/helper/internal/service"
)

// Command implements `helper change`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	name     string
	phone    string
	email    string
	replace  string
	birthday string
}

// New creates the change command.
//
// --phone alone adds a number, --phone with --replace swaps it; --email
// behaves the same way. --birthday sets or overwrites the birthday.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "change",
		Short: "Add or change a contact's phone, email or birthday",
		Example: `  helper change -n Ann -p 380951234567
  helper change -n Ann -p 380951234567 -r 380667654321
  helper change -n Ann -e ann@example.com
  helper change -n Ann -e ann@example.com -r ann@work.com
  helper change -n Ann -b 10-06-1990`,
		Args: cobra.NoArgs,
		RunE: c.run,
	}

	f := c.cmd.Flags()
	f.StringVarP(&c.name, "name", "n", "", "Contact name (required)")
	f.StringVarP(&c.phone, "phone", "p", "", "Phone number to add, or to replace with --replace")
	f.StringVarP(&c.email, "email", "e", "", "Email to add, or to replace with --replace")
	f.StringVarP(&c.replace, "replace", "r", "", "New value for --phone or --email")
	f.StringVarP(&c.birthday, "birthday", "b", "", "Date of birth as DD-MM-YYYY")
	_ = c.cmd.MarkFlagRequired("name")
	c.cmd.MarkFlagsMutuallyExclusive("phone", "email", "birthday")

	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	if c.phone == "" && c.email == "" && c.birthday == "" {
		return errors.New("change: one of --phone, --email or --birthday is required")
	}
	if c.replace != "" && c.birthday != "" {
		return errors.New("change: --replace only applies to --phone or --email")
	}

	svc, err := service.New(c.ctx.Home)
	if err != nil {
		return err
	}
	defer svc.Close()

	out := cmd.OutOrStdout()
	switch {
	case c.phone != "" && c.replace == "":
		p, err := svc.AddPhone(c.name, c.phone)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "The phone number '%s' has been successfully added to the '%s' contact.\n", render.Phone(&p), c.name)
	case c.phone != "":
		if err := svc.ChangePhone(c.name, c.phone, c.replace); err != nil {
			return err
		}
		fmt.Fprintf(out, "The contact '%s' has been updated with the new phone number: %s\n", c.name, c.replace)
	case c.email != "" && c.replace == "":
		if err := svc.AddEmail(c.name, c.email); err != nil {
			return err
		}
		fmt.Fprintf(out, "The email '%s' has been successfully added to the '%s' contact.\n", c.email, c.name)
	case c.email != "":
		if err := svc.ChangeEmail(c.name, c.email, c.replace); err != nil {
			return err
		}
		fmt.Fprintf(out, "The contact '%s' has been updated with the new email: %s\n", c.name, c.replace)
	default:
		if err := svc.SetBirthday(c.name, c.birthday); err != nil {
			return err
		}
		fmt.Fprintf(out, "The birthday '%s' has been added to the '%s' contact.\n", c.birthday, c.name)
	}
	return nil
}
