// Package birthcmd implements the `helper birth` command.
package birthcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/helper/cmd/helper/shared"
	showcmd "github.com/go-ports/helper/cmd/helper/show"
	"github.com/go-ports/helper/internal/service"
	"github.com/go-ports/helper/internal/validation"
)

// Command implements `helper birth`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	days   string
	format string
}

// New creates the birth command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "birth",
		Short: "List contacts with a birthday within the next N days",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}

	f := c.cmd.Flags()
	f.StringVarP(&c.days, "days", "d", "", "Window in days (default: birthdays.default_days from config)")
	f.StringVar(&c.format, "format", shared.FormatTable, "Output format: table | json")

	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	if err := shared.CheckFormat(c.format); err != nil {
		return err
	}
	days := -1
	if c.days != "" {
		n, err := validation.DaysInterval(c.days)
		if err != nil {
			return err
		}
		days = n
	}

	svc, err := service.New(c.ctx.Home)
	if err != nil {
		return err
	}
	defer svc.Close()

	if days < 0 {
		days = svc.Config.Birthdays.DefaultDays
	}
	recs, err := svc.UpcomingBirthdays(days)
	if err != nil {
		return err
	}
	if len(recs) == 0 && c.format == shared.FormatTable {
		fmt.Fprintf(cmd.OutOrStdout(), "No users have a birthday within the next %d days.\n", days)
		return nil
	}
	return showcmd.Write(cmd, c.format, recs, svc.Now())
}
