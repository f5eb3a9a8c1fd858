package rootcmd

import (
	"fmt"

	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"
)

func unknownCommand(root *cobra.Command, name string) error {
	if s := suggest(name, commandNames(root)); s != "" {
		return fmt.Errorf("unknown command %q for %q\n\nDid you mean this?\n\t%s", name, root.Name(), s)
	}
	return fmt.Errorf("unknown command %q for %q", name, root.Name())
}

func commandNames(root *cobra.Command) []string {
	var names []string
	for _, sub := range root.Commands() {
		if sub.IsAvailableCommand() {
			names = append(names, sub.Name())
		}
	}
	return names
}

// suggest picks the best fuzzy match for name. Typos that are not a
// subsequence of any command fall back to counting characters that sit at the
// same position, so "nite" still suggests "note".
func suggest(name string, names []string) string {
	if matches := fuzzy.Find(name, names); len(matches) > 0 {
		return matches[0].Str
	}

	best, bestCount := "", 0
	for _, n := range names {
		count := 0
		for i := 0; i < len(n) && i < len(name); i++ {
			if n[i] == name[i] {
				count++
			}
		}
		if count > bestCount {
			best, bestCount = n, count
		}
	}
	return best
}
