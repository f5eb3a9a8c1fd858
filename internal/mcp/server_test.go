// Each test wires the real MCP server in-process via the mcp-go
// InProcessTransport, backed by a fresh service.Service rooted at a
// temporary directory.
package mcp_test

import (
	"context"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/go-ports/helper/internal/checkers"
	internalmcp "github.com/go-ports/helper/internal/mcp"
	"github.com/go-ports/helper/internal/service"
)

var fixedNow = time.Date(2023, time.June, 5, 10, 0, 0, 0, time.UTC)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// newMCPClient returns a started, initialised in-process client together with
// the service behind it so tests can seed data directly.
func newMCPClient(c *qt.C) (*mcpclient.Client, *service.Service) {
	c.TB.Helper()

	svc, err := service.New(c.TB.TempDir())
	c.Assert(err, qt.IsNil)
	c.TB.Cleanup(func() { _ = svc.Close() })
	svc.Clock = func() time.Time { return fixedNow }

	cl, err := mcpclient.NewInProcessClient(internalmcp.NewServer(svc))
	c.Assert(err, qt.IsNil)
	c.TB.Cleanup(func() { _ = cl.Close() })

	c.Assert(cl.Start(context.Background()), qt.IsNil)

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{Name: "helper-test", Version: "0.0.1"}
	_, err = cl.Initialize(context.Background(), initReq)
	c.Assert(err, qt.IsNil)

	return cl, svc
}

func call(c *qt.C, cl *mcpclient.Client, name string, args map[string]any) *mcp.CallToolResult {
	c.TB.Helper()

	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	result, err := cl.CallTool(context.Background(), req)
	c.Assert(err, qt.IsNil)
	c.Assert(result.Content, qt.HasLen, 1)
	return result
}

func textOf(c *qt.C, result *mcp.CallToolResult) string {
	c.TB.Helper()

	tc, ok := mcp.AsTextContent(result.Content[0])
	c.Assert(ok, qt.IsTrue)
	return tc.Text
}

// callTool invokes a tool that is expected to succeed and returns its text.
func callTool(c *qt.C, cl *mcpclient.Client, name string, args map[string]any) string {
	c.TB.Helper()

	result := call(c, cl, name, args)
	c.Assert(result.IsError, qt.IsFalse, qt.Commentf("%s: %s", name, textOf(c, result)))
	return textOf(c, result)
}

// callToolError invokes a tool that is expected to fail and returns the
// error text.
func callToolError(c *qt.C, cl *mcpclient.Client, name string, args map[string]any) string {
	c.TB.Helper()

	result := call(c, cl, name, args)
	c.Assert(result.IsError, qt.IsTrue, qt.Commentf("%s: %s", name, textOf(c, result)))
	return textOf(c, result)
}

func seedContacts(c *qt.C, svc *service.Service) {
	c.TB.Helper()

	_, err := svc.AddContact("Ann", "+380951234567")
	c.Assert(err, qt.IsNil)
	c.Assert(svc.SetBirthday("Ann", "10-06-1990"), qt.IsNil)
	c.Assert(svc.AddEmail("Ann", "ann@example.com"), qt.IsNil)

	_, err = svc.AddContact("Bob", "+111222333")
	c.Assert(err, qt.IsNil)
}

// ---------------------------------------------------------------------------
// ListTools
// ---------------------------------------------------------------------------

func TestListTools(t *testing.T) {
	c := qt.New(t)
	cl, _ := newMCPClient(c)

	result, err := cl.ListTools(context.Background(), mcp.ListToolsRequest{})
	c.Assert(err, qt.IsNil)

	names := make([]string, 0, len(result.Tools))
	for _, tool := range result.Tools {
		names = append(names, tool.Name)
	}
	for _, want := range []string{
		"contact_search", "contact_show", "contact_birthdays",
		"note_add", "note_find", "note_list", "note_delete", "note_edit",
	} {
		c.Assert(names, qt.Contains, want)
	}
	c.Assert(names, qt.HasLen, 8)
}

// ---------------------------------------------------------------------------
// Contacts
// ---------------------------------------------------------------------------

func TestContactSearch(t *testing.T) {
	c := qt.New(t)
	cl, svc := newMCPClient(c)
	seedContacts(c, svc)

	c.Run("by phone digits", func(c *qt.C) {
		text := callTool(c, cl, "contact_search", map[string]any{"criteria": "0951"})
		c.Assert(text, checkers.JSONPathEquals("$.found"), true)
		c.Assert(text, checkers.JSONPathLen("$.contacts"), 1)
		c.Assert(text, checkers.JSONPathEquals("$.contacts[0].name"), "Ann")
		c.Assert(text, checkers.JSONPathEquals("$.contacts[0].days_to_birthday"), float64(5))
	})

	c.Run("by name letters", func(c *qt.C) {
		text := callTool(c, cl, "contact_search", map[string]any{"criteria": "BO"})
		c.Assert(text, checkers.JSONPathLen("$.contacts"), 1)
		c.Assert(text, checkers.JSONPathEquals("$.contacts[0].phones[0]"), "+111222333")
	})

	c.Run("no matches", func(c *qt.C) {
		text := callTool(c, cl, "contact_search", map[string]any{"criteria": "zed"})
		c.Assert(text, checkers.JSONPathEquals("$.found"), false)
		c.Assert(text, checkers.JSONPathLen("$.contacts"), 0)
		c.Assert(text, checkers.JSONPathEquals("$.message"), "According to this 'zed' criterion, no matches were found")
	})

	c.Run("mixed criteria rejected", func(c *qt.C) {
		msg := callToolError(c, cl, "contact_search", map[string]any{"criteria": "a1"})
		c.Assert(msg, qt.Contains, "only numbers or letters")
	})
}

func TestContactShow(t *testing.T) {
	c := qt.New(t)
	cl, svc := newMCPClient(c)
	seedContacts(c, svc)

	text := callTool(c, cl, "contact_show", map[string]any{})
	c.Assert(text, checkers.JSONPathLen("$.contacts"), 2)
	c.Assert(text, checkers.JSONPathEquals("$.contacts[0].name"), "Ann")
	c.Assert(text, checkers.JSONPathEquals("$.contacts[1].name"), "Bob")

	text = callTool(c, cl, "contact_show", map[string]any{"name": "Ann"})
	c.Assert(text, checkers.JSONPathEquals("$.emails[0]"), "ann@example.com")
	c.Assert(text, checkers.JSONPathEquals("$.birthday"), "10-06-1990")

	msg := callToolError(c, cl, "contact_show", map[string]any{"name": "Zoe"})
	c.Assert(msg, qt.Equals, "not found: the contact 'Zoe' was not found")
}

func TestContactBirthdays(t *testing.T) {
	c := qt.New(t)
	cl, svc := newMCPClient(c)
	seedContacts(c, svc)

	text := callTool(c, cl, "contact_birthdays", map[string]any{"days": 3})
	c.Assert(text, checkers.JSONPathLen("$.contacts"), 0)

	text = callTool(c, cl, "contact_birthdays", map[string]any{"days": 5})
	c.Assert(text, checkers.JSONPathLen("$.contacts"), 1)
	c.Assert(text, checkers.JSONPathEquals("$.contacts[0].name"), "Ann")

	text = callTool(c, cl, "contact_birthdays", map[string]any{})
	c.Assert(text, checkers.JSONPathEquals("$.days"), float64(7))
	c.Assert(text, checkers.JSONPathLen("$.contacts"), 1)
}

// ---------------------------------------------------------------------------
// Notes
// ---------------------------------------------------------------------------

func TestNoteAdd(t *testing.T) {
	c := qt.New(t)
	cl, _ := newMCPClient(c)

	text := callTool(c, cl, "note_add", map[string]any{"tags": []any{"#work", " #todo "}, "text": "ship it"})
	c.Assert(text, checkers.JSONPathEquals("$.action"), "created")
	c.Assert(text, checkers.JSONPathEquals("$.tags"), []any{"#work", "#todo"})

	c.Run("untagged notes probe #notag", func(c *qt.C) {
		text := callTool(c, cl, "note_add", map[string]any{"text": "first"})
		c.Assert(text, checkers.JSONPathEquals("$.tags"), []any{"#notag"})
		text = callTool(c, cl, "note_add", map[string]any{"tags": []any{}, "text": "second"})
		c.Assert(text, checkers.JSONPathEquals("$.tags"), []any{"#notag1"})
	})

	c.Run("tag already used", func(c *qt.C) {
		msg := callToolError(c, cl, "note_add", map[string]any{"tags": []any{"#todo"}, "text": "again"})
		c.Assert(msg, qt.Contains, "tag already in notes")
	})
}

func TestNoteFindAndList(t *testing.T) {
	c := qt.New(t)
	cl, _ := newMCPClient(c)

	callTool(c, cl, "note_add", map[string]any{"tags": []any{"#b"}, "text": "buy milk"})
	callTool(c, cl, "note_add", map[string]any{"tags": []any{"#a"}, "text": "call mom"})

	text := callTool(c, cl, "note_find", map[string]any{"keyword": "milk"})
	c.Assert(text, checkers.JSONPathLen("$.notes"), 1)
	c.Assert(text, checkers.JSONPathEquals("$.notes[0].tags[0]"), "#b")

	text = callTool(c, cl, "note_list", map[string]any{})
	c.Assert(text, checkers.JSONPathEquals("$.total"), float64(2))
	c.Assert(text, checkers.JSONPathEquals("$.notes[0].text"), "call mom")
	c.Assert(text, checkers.JSONPathEquals("$.notes[1].text"), "buy milk")
}

func TestNoteDelete(t *testing.T) {
	c := qt.New(t)
	cl, _ := newMCPClient(c)

	callTool(c, cl, "note_add", map[string]any{"tags": []any{"#a", "#b"}, "text": "x"})

	text := callTool(c, cl, "note_delete", map[string]any{"tag": "#b"})
	c.Assert(text, checkers.JSONPathEquals("$.tag"), "#b")

	text = callTool(c, cl, "note_list", map[string]any{})
	c.Assert(text, checkers.JSONPathLen("$.notes"), 0)

	msg := callToolError(c, cl, "note_delete", map[string]any{"tag": "#a"})
	c.Assert(msg, qt.Contains, "note not found")
}

func TestNoteEdit(t *testing.T) {
	c := qt.New(t)
	cl, _ := newMCPClient(c)

	callTool(c, cl, "note_add", map[string]any{"tags": []any{"#a"}, "text": "old"})
	callTool(c, cl, "note_add", map[string]any{"tags": []any{"#b"}, "text": "other"})

	text := callTool(c, cl, "note_edit", map[string]any{"tag": "#a", "new_tags": []any{"#c"}, "text": "new"})
	c.Assert(text, checkers.JSONPathEquals("$.tags"), []any{"#c"})

	text = callTool(c, cl, "note_find", map[string]any{"keyword": "new"})
	c.Assert(text, checkers.JSONPathEquals("$.notes[0].tags"), []any{"#c"})

	c.Run("missing tag", func(c *qt.C) {
		msg := callToolError(c, cl, "note_edit", map[string]any{"tag": "#zz", "new_tags": []any{"#d"}})
		c.Assert(msg, qt.Contains, "no editable tag")
	})

	c.Run("no new tags", func(c *qt.C) {
		msg := callToolError(c, cl, "note_edit", map[string]any{"tag": "#c", "new_tags": []any{"  "}})
		c.Assert(msg, qt.Contains, "no name of new tag")
	})

	c.Run("new tag taken", func(c *qt.C) {
		msg := callToolError(c, cl, "note_edit", map[string]any{"tag": "#c", "new_tags": []any{"#b"}})
		c.Assert(msg, qt.Contains, "tag already in notes")
	})
}
