// Package searchcmd implements the `helper search` command.
package searchcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/helper/cmd/helper/shared"
	showcmd "github.com/go-ports/helper/cmd/helper/show"
	"github.com/go-ports/helper/internal/contacts"
	"github.com/go-ports/helper/internal/render"
	"github.com/go-ports/helper/internal/service"
)

// Command implements `helper search`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	format string
}

// New creates the search command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "search <criteria>",
		Short: "Search contacts by phone digits or by name letters",
		Args:  cobra.ExactArgs(1),
		RunE:  c.run,
	}
	c.cmd.Flags().StringVar(&c.format, "format", shared.FormatTable, "Output format: table | json")
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, args []string) error {
	if err := shared.CheckFormat(c.format); err != nil {
		return err
	}

	svc, err := service.New(c.ctx.Home)
	if err != nil {
		return err
	}
	defer svc.Close()

	recs, found, err := svc.Search(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if c.format == shared.FormatJSON {
		payload := map[string]any{
			"found":    found,
			"contacts": render.ContactViews(recs, svc.Now()),
		}
		if !found {
			payload["message"] = contacts.NoMatchesMessage(args[0])
		}
		return shared.WriteJSON(out, payload)
	}

	if found {
		if err := showcmd.Write(cmd, c.format, recs, svc.Now()); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(out, contacts.NoMatchesMessage(args[0]))
	}
	fmt.Fprintf(out, "%d contacts were found based on your search criteria!\n", len(recs))
	return nil
}
