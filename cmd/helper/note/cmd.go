// Package notecmd implements the `helper note` command group.
package notecmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/helper/cmd/helper/shared"
	"github.com/go-ports/helper/internal/notes"
	"github.com/go-ports/helper/internal/render"
	"github.com/go-ports/helper/internal/service"
)

// Command implements `helper note`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the note command group.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "note",
		Short: "Manage tagged notes",
		Long: `Notes are filed under their tags. A tag labels at most one note across the
whole store; notes added without tags are filed under #notag, #notag1, ...`,
	}
	c.cmd.AddCommand(
		newAdd(ctx),
		newFind(ctx),
		newShow(ctx),
		newDel(ctx),
		newEdit(ctx),
	)
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

// withService opens the service for the duration of fn.
func withService(ctx *shared.Context, fn func(svc *service.Service) error) error {
	svc, err := service.New(ctx.Home)
	if err != nil {
		return err
	}
	defer svc.Close()
	return fn(svc)
}

func writeNotes(cmd *cobra.Command, format string, ns []notes.Note) error {
	out := cmd.OutOrStdout()
	if format == shared.FormatJSON {
		return shared.WriteJSON(out, render.NoteViews(ns))
	}
	fmt.Fprintln(out, render.NotesTable(ns))
	return nil
}

// ---------------------------------------------------------------------------
// note add
// ---------------------------------------------------------------------------

func newAdd(ctx *shared.Context) *cobra.Command {
	var (
		tags []string
		text string
	)
	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Add a note",
		Example: `  helper note add -t "#work" -t "#todo" --text "ship the release"`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(ctx, func(svc *service.Service) error {
				key, err := svc.AddNote(tags, text)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Note added under %s\n", key)
				return nil
			})
		},
	}
	cmd.Flags().StringArrayVarP(&tags, "tag", "t", nil, "Tag (repeatable)")
	cmd.Flags().StringVar(&text, "text", "", "Note text (required)")
	_ = cmd.MarkFlagRequired("text")
	return cmd
}

// ---------------------------------------------------------------------------
// note find
// ---------------------------------------------------------------------------

func newFind(ctx *shared.Context) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "find <keyword>",
		Short: "Find notes whose tags or text contain keyword",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := shared.CheckFormat(format); err != nil {
				return err
			}
			return withService(ctx, func(svc *service.Service) error {
				found, err := svc.FindNotes(args[0])
				if err != nil {
					return err
				}
				if len(found) == 0 && format == shared.FormatTable {
					fmt.Fprintf(cmd.OutOrStdout(), "Nothing was found for parameter %q.\n", args[0])
					return nil
				}
				return writeNotes(cmd, format, found)
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", shared.FormatTable, "Output format: table | json")
	return cmd
}

// ---------------------------------------------------------------------------
// note show
// ---------------------------------------------------------------------------

func newShow(ctx *shared.Context) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show every note ordered by tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := shared.CheckFormat(format); err != nil {
				return err
			}
			return withService(ctx, func(svc *service.Service) error {
				all, err := svc.Notes()
				if err != nil {
					return err
				}
				if len(all) == 0 && format == shared.FormatTable {
					fmt.Fprintln(cmd.OutOrStdout(), "No notes yet.")
					return nil
				}
				return writeNotes(cmd, format, all)
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", shared.FormatTable, "Output format: table | json")
	return cmd
}

// ---------------------------------------------------------------------------
// note del
// ---------------------------------------------------------------------------

func newDel(ctx *shared.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "del <tag>",
		Short: "Delete the note carrying tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(ctx, func(svc *service.Service) error {
				if err := svc.DeleteNote(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Note with tag %q deleted!\n", args[0])
				return nil
			})
		},
	}
}

// ---------------------------------------------------------------------------
// note edit
// ---------------------------------------------------------------------------

func newEdit(ctx *shared.Context) *cobra.Command {
	var (
		tags []string
		text string
	)
	cmd := &cobra.Command{
		Use:     "edit <tag>",
		Short:   "Replace the note carrying tag with new tags and text",
		Example: `  helper note edit "#todo" -t "#done" --text "released"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(ctx, func(svc *service.Service) error {
				if err := svc.EditNote(args[0], tags, text); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Note with tag %q replaced by %s\n", args[0], notes.Tags(tags))
				return nil
			})
		},
	}
	cmd.Flags().StringArrayVarP(&tags, "tag", "t", nil, "New tag (repeatable)")
	cmd.Flags().StringVar(&text, "text", "", "New note text")
	return cmd
}
