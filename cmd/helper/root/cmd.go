// Package rootcmd wires the root cobra.Command for the helper CLI binary.
package rootcmd

import (
	"github.com/spf13/cobra"

	addcmd "github.com/go-ports/helper/cmd/helper/add"
	birthcmd "github.com/go-ports/helper/cmd/helper/birth"
	changecmd "github.com/go-ports/helper/cmd/helper/change"
	configcmd "github.com/go-ports/helper/cmd/helper/config"
	delcmd "github.com/go-ports/helper/cmd/helper/del"
	initcmd "github.com/go-ports/helper/cmd/helper/init"
	mcpcmd "github.com/go-ports/helper/cmd/helper/mcp"
	notecmd "github.com/go-ports/helper/cmd/helper/note"
	searchcmd "github.com/go-ports/helper/cmd/helper/search"
	setupcmd "github.com/go-ports/helper/cmd/helper/setup"
	"github.com/go-ports/helper/cmd/helper/shared"
	showcmd "github.com/go-ports/helper/cmd/helper/show"
	sortcmd "github.com/go-ports/helper/cmd/helper/sort"
	versioncmd "github.com/go-ports/helper/cmd/helper/version"
)

// New creates and returns the root cobra.Command for the helper CLI.
func New() *cobra.Command {
	ctx := &shared.Context{}

	root := &cobra.Command{
		Use:           "helper",
		Short:         "Personal helper: address book, tagged notes and a file sorter",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return unknownCommand(cmd, args[0])
		},
	}

	root.PersistentFlags().StringVar(
		&ctx.Home, "home", "",
		"Override helper home directory (default: $HELPER_HOME env → persisted config → ~/.helper)",
	)

	root.AddCommand(
		initcmd.New(ctx).Cmd(),
		versioncmd.New(ctx).Cmd(),
		configcmd.New(ctx).Cmd(),
		addcmd.New(ctx).Cmd(),
		changecmd.New(ctx).Cmd(),
		delcmd.New(ctx).Cmd(),
		showcmd.New(ctx).Cmd(),
		searchcmd.New(ctx).Cmd(),
		birthcmd.New(ctx).Cmd(),
		sortcmd.New(ctx).Cmd(),
		notecmd.New(ctx).Cmd(),
		mcpcmd.New(ctx).Cmd(),
		setupcmd.New(ctx).Cmd(),
	)

	return root
}
