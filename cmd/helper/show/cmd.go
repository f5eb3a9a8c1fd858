// Package showcmd implements the `helper show` command.
package showcmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/go-ports/helper/cmd/helper/shared"
	"github.com/go-ports/helper/internal/models"
	"github.com/go-ports/helper/internal/render"
	"github.com/go-ports/helper/internal/service"
)

// Command implements `helper show`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	format string
}

// New creates the show command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "show <name|all>",
		Short: "Show one contact, or every contact with `all`",
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

	var recs []*models.Record
	if args[0] == "all" {
		recs, err = svc.Contacts()
	} else {
		var rec *models.Record
		rec, err = svc.Contact(args[0])
		recs = []*models.Record{rec}
	}
	if err != nil {
		return err
	}
	return Write(cmd, c.format, recs, svc.Now())
}

// Write prints recs as a table or as a JSON array of contact views.
func Write(cmd *cobra.Command, format string, recs []*models.Record, now time.Time) error {
	out := cmd.OutOrStdout()
	if format == shared.FormatJSON {
		return shared.WriteJSON(out, render.ContactViews(recs, now))
	}
	fmt.Fprintln(out, render.ContactsTable(recs, now))
	return nil
}
