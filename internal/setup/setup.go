// Package setup registers the helper MCP server with coding agents
// (Claude Code, Cursor, Codex) by editing their MCP configuration files.
package setup

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// ServerName is the key the helper server is registered under.
const ServerName = "helper"

// Agent names a supported coding agent.
type Agent string

// Supported agents.
const (
	ClaudeCode Agent = "claude-code"
	Cursor     Agent = "cursor"
	Codex      Agent = "codex"
)

// Agents lists every supported agent.
var Agents = []Agent{ClaudeCode, Cursor, Codex}

// ErrUnknownAgent is returned by ParseAgent.
var ErrUnknownAgent = errors.New("unknown agent")

// ParseAgent validates an agent name.
func ParseAgent(s string) (Agent, error) {
	for _, a := range Agents {
		if string(a) == s {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w %q (want one of %v)", ErrUnknownAgent, s, Agents)
}

// Result reports what Install or Uninstall did.
type Result struct {
	Changed bool
	Message string
}

// Server is the launch command written into agent configs.
type Server struct {
	Command string
	Args    []string
}

// DefaultServer launches `helper mcp`, pinning the home directory when home
// is not empty.
func DefaultServer(home string) Server {
	args := []string{"mcp"}
	if home != "" {
		args = []string{"--home", home, "mcp"}
	}
	return Server{Command: "helper", Args: args}
}

// ---------------------------------------------------------------------------
// Paths
// ---------------------------------------------------------------------------

// DefaultDir returns the agent's dot directory below the user home, or below
// the working directory when project is set.
//
//revive:disable:flag-parameter
func DefaultDir(agent Agent, project bool) string {
	base, _ := os.UserHomeDir()
	if project {
		base, _ = os.Getwd()
	}
	return filepath.Join(base, "."+strings.TrimSuffix(string(agent), "-code"))
}

// ConfigPath returns the file agent reads its MCP servers from, given its dot
// directory. Claude Code keeps the list next to the directory rather than
// inside it: .mcp.json for a project, .claude.json globally.
func ConfigPath(agent Agent, dir string, project bool) string {
	switch agent {
	case ClaudeCode:
		if project {
			return filepath.Join(filepath.Dir(dir), ".mcp.json")
		}
		return filepath.Join(filepath.Dir(dir), ".claude.json")
	case Codex:
		return filepath.Join(dir, "config.toml")
	default:
		return filepath.Join(dir, "mcp.json")
	}
}

//revive:enable:flag-parameter

// ---------------------------------------------------------------------------
// Install / Uninstall
// ---------------------------------------------------------------------------

// Install registers srv in the agent config at path. An existing helper
// entry is left untouched.
func Install(agent Agent, path string, srv Server) (Result, error) {
	var (
		added bool
		err   error
	)
	if agent == Codex {
		added, err = installTOML(path, srv)
	} else {
		added, err = installJSON(path, srv)
	}
	if err != nil {
		return Result{}, fmt.Errorf("setup.Install %s: %w", agent, err)
	}
	if !added {
		return Result{Message: "Already installed in " + path}, nil
	}
	return Result{Changed: true, Message: "Installed helper MCP server in " + path}, nil
}

// Uninstall removes the helper entry from the agent config at path.
func Uninstall(agent Agent, path string) (Result, error) {
	var (
		removed bool
		err     error
	)
	if agent == Codex {
		removed, err = uninstallTOML(path)
	} else {
		removed, err = uninstallJSON(path)
	}
	if err != nil {
		return Result{}, fmt.Errorf("setup.Uninstall %s: %w", agent, err)
	}
	if !removed {
		return Result{Message: "Nothing to remove in " + path}, nil
	}
	return Result{Changed: true, Message: "Removed helper MCP server from " + path}, nil
}

// ---------------------------------------------------------------------------
// JSON mcpServers (Claude Code, Cursor)
// ---------------------------------------------------------------------------

const (
	serversKey = "mcpServers"
	entryKey   = serversKey + "." + ServerName
)

func readOptional(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return data, err
}

func writeConfig(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644) // #nosec G306 -- agent MCP configs hold no secrets
}

func installJSON(path string, srv Server) (bool, error) {
	data, err := readOptional(path)
	if err != nil {
		return false, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		data = []byte("{}")
	}
	if !gjson.ValidBytes(data) {
		return false, fmt.Errorf("%s is not valid JSON", path)
	}
	if gjson.GetBytes(data, entryKey).Exists() {
		return false, nil
	}

	out, err := sjson.SetBytes(data, entryKey, map[string]any{
		"type":    "stdio",
		"command": srv.Command,
		"args":    srv.Args,
	})
	if err != nil {
		return false, err
	}
	return true, writeConfig(path, pretty.Pretty(out))
}

func uninstallJSON(path string) (bool, error) {
	data, err := readOptional(path)
	if err != nil || data == nil {
		return false, err
	}
	if !gjson.ValidBytes(data) {
		return false, fmt.Errorf("%s is not valid JSON", path)
	}
	if !gjson.GetBytes(data, entryKey).Exists() {
		return false, nil
	}

	out, err := sjson.DeleteBytes(data, entryKey)
	if err != nil {
		return false, err
	}
	if servers := gjson.GetBytes(out, serversKey); servers.IsObject() && len(servers.Map()) == 0 {
		if out, err = sjson.DeleteBytes(out, serversKey); err != nil {
			return false, err
		}
	}
	if len(gjson.ParseBytes(out).Map()) == 0 {
		return true, os.Remove(path)
	}
	return true, writeConfig(path, pretty.Pretty(out))
}

// ---------------------------------------------------------------------------
// TOML mcp_servers (Codex)
// ---------------------------------------------------------------------------

const tomlHeader = "[mcp_servers." + ServerName + "]"

func hasTOMLServer(data []byte) (bool, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return false, err
	}
	servers, _ := doc["mcp_servers"].(map[string]any)
	_, ok := servers[ServerName]
	return ok, nil
}

func tomlSection(srv Server) string {
	quoted := make([]string, len(srv.Args))
	for i, a := range srv.Args {
		quoted[i] = strconv.Quote(a)
	}
	return fmt.Sprintf("\n%s\ncommand = %s\nargs = [%s]\n", tomlHeader, strconv.Quote(srv.Command), strings.Join(quoted, ", "))
}

// installTOML appends the server table as text so the rest of the file,
// comments included, stays as the user wrote it.
func installTOML(path string, srv Server) (bool, error) {
	data, err := readOptional(path)
	if err != nil {
		return false, err
	}
	has, err := hasTOMLServer(data)
	if err != nil {
		return false, fmt.Errorf("%s: %w", path, err)
	}
	if has {
		return false, nil
	}
	content := strings.TrimRight(string(data), "\n")
	if content != "" {
		content += "\n"
	}
	return true, writeConfig(path, []byte(content+tomlSection(srv)))
}

// uninstallTOML drops the server table header and its key-value lines up to
// the next table header.
func uninstallTOML(path string) (bool, error) {
	data, err := readOptional(path)
	if err != nil || data == nil {
		return false, err
	}
	has, err := hasTOMLServer(data)
	if err != nil {
		return false, fmt.Errorf("%s: %w", path, err)
	}
	if !has {
		return false, nil
	}

	lines := strings.Split(string(data), "\n")
	kept := make([]string, 0, len(lines))
	inSection := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == tomlHeader {
			inSection = true
			continue
		}
		if inSection && strings.HasPrefix(trimmed, "[") {
			inSection = false
		}
		if !inSection {
			kept = append(kept, line)
		}
	}
	cleaned := strings.TrimRight(strings.Join(kept, "\n"), "\n") + "\n"
	return true, writeConfig(path, []byte(cleaned))
}
