// Package shared holds the context passed to all CLI commands.
package shared

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/go-ports/helper/internal/config"
)

// Output formats accepted by the listing commands.
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// Context carries global CLI state (flags set on the root command).
type Context struct {
	// Home overrides the helper home directory.
	// When empty, resolution falls through to HELPER_HOME env var → persisted config → ~/.helper.
	Home string
}

// ResolvedHome returns the --home override or the resolved default.
func (c *Context) ResolvedHome() string {
	if c.Home != "" {
		return c.Home
	}
	return config.GetHome()
}

// CheckFormat rejects anything but table or json.
func CheckFormat(format string) error {
	if format != FormatTable && format != FormatJSON {
		return fmt.Errorf("unknown format %q (want %q or %q)", format, FormatTable, FormatJSON)
	}
	return nil
}

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
