// Package sortcmd implements the `helper sort` command.
package sortcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/helper/cmd/helper/shared"
	"github.com/go-ports/helper/internal/service"
	"github.com/go-ports/helper/internal/sorter"
)

// Command implements `helper sort`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	dir     string
	verbose bool
}

// New creates the sort command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "sort",
		Short: "Sort the files of a directory into category folders",
		Long: `Moves every file below --dir into a category folder chosen by its
extension, then removes the folders left empty. Files whose destination name
is already taken stay where they are.`,
		Args: cobra.NoArgs,
		RunE: c.run,
	}

	f := c.cmd.Flags()
	f.StringVarP(&c.dir, "dir", "d", "", "Directory to sort (required)")
	f.BoolVarP(&c.verbose, "verbose", "v", false, "Print every move")
	_ = c.cmd.MarkFlagRequired("dir")

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

	res, err := svc.SortFiles(cmd.Context(), c.dir)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if c.verbose {
		for _, m := range res.Moves {
			fmt.Fprintf(out, "  %s -> %s\n", m.From, m.To)
		}
	}
	for _, b := range sorter.Buckets {
		if n := res.Count(b); n > 0 {
			fmt.Fprintf(out, "  %-10s %d\n", b, n)
		}
	}
	fmt.Fprintln(out, res.Summary())
	fmt.Fprintf(out, "Directory %s has been sorted successfully!\n", c.dir)
	return nil
}
