// Package mcp provides the stdio MCP server exposing contact and note tools to
// agents.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/go-ports/helper/internal/buildinfo"
	"github.com/go-ports/helper/internal/contacts"
	"github.com/go-ports/helper/internal/render"
	"github.com/go-ports/helper/internal/service"
)

const searchDescription = `Search the address book. Criteria made only of digits match any part of a contact's phone numbers; criteria made only of letters match any part of the contact name, case-insensitively.`

const birthdaysDescription = `List contacts whose birthday falls within the next N days (default from config). Each contact carries days_to_birthday.`

const noteAddDescription = `Add a note. Every tag may label only one note across the whole store; a note without tags is filed under #notag, #notag1, ...`

const noteEditDescription = `Replace the note carrying tag with new tags and text. The new tags must not label any existing note, including the one being replaced.`

// NewServer creates and registers all helper tools on a new MCP server.
// It is separate from Serve so that tests can obtain a configured server
// without committing to the stdio transport.
func NewServer(svc *service.Service) *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer("helper", buildinfo.Version)
	registerContactTools(s, svc)
	registerNoteTools(s, svc)
	return s
}

// Serve starts the stdio MCP server rooted at home, blocking until stdin closes.
func Serve(_ context.Context, home string) error {
	svc, err := service.New(home)
	if err != nil {
		return fmt.Errorf("mcp: init service: %w", err)
	}
	defer svc.Close()

	return mcpserver.ServeStdio(NewServer(svc))
}

func registerContactTools(s *mcpserver.MCPServer, svc *service.Service) {
	s.AddTool(mcp.NewTool("contact_search",
		mcp.WithDescription(searchDescription),
		mcp.WithString("criteria",
			mcp.Description("Digits or letters to look for."),
			mcp.Required(),
		),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleContactSearch(ctx, svc, req)
	})

	s.AddTool(mcp.NewTool("contact_show",
		mcp.WithDescription("Show one contact by exact name, or every contact when name is omitted."),
		mcp.WithString("name",
			mcp.Description("Contact name. Omit to list all contacts."),
		),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleContactShow(ctx, svc, req)
	})

	s.AddTool(mcp.NewTool("contact_birthdays",
		mcp.WithDescription(birthdaysDescription),
		mcp.WithNumber("days",
			mcp.Description("Window in days."),
		),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleContactBirthdays(ctx, svc, req)
	})
}

func registerNoteTools(s *mcpserver.MCPServer, svc *service.Service) {
	s.AddTool(mcp.NewTool("note_add",
		mcp.WithDescription(noteAddDescription),
		mcp.WithArray("tags",
			mcp.Description("Tags, e.g. #work."),
			mcp.WithStringItems(),
		),
		mcp.WithString("text",
			mcp.Description("Note text."),
			mcp.Required(),
		),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleNoteAdd(ctx, svc, req)
	})

	s.AddTool(mcp.NewTool("note_find",
		mcp.WithDescription("Find notes whose tags or text contain keyword."),
		mcp.WithString("keyword",
			mcp.Description("Substring to look for."),
			mcp.Required(),
		),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleNoteFind(ctx, svc, req)
	})

	s.AddTool(mcp.NewTool("note_list",
		mcp.WithDescription("List every note ordered by tags."),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleNoteList(ctx, svc, req)
	})

	s.AddTool(mcp.NewTool("note_delete",
		mcp.WithDescription("Delete the note carrying tag."),
		mcp.WithString("tag",
			mcp.Description("One of the note's tags."),
			mcp.Required(),
		),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleNoteDelete(ctx, svc, req)
	})

	s.AddTool(mcp.NewTool("note_edit",
		mcp.WithDescription(noteEditDescription),
		mcp.WithString("tag",
			mcp.Description("One of the tags of the note to replace."),
			mcp.Required(),
		),
		mcp.WithArray("new_tags",
			mcp.Description("Replacement tags."),
			mcp.WithStringItems(),
			mcp.Required(),
		),
		mcp.WithString("text",
			mcp.Description("Replacement text."),
		),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleNoteEdit(ctx, svc, req)
	})
}

// ---------------------------------------------------------------------------
// Contact handlers
// ---------------------------------------------------------------------------

func handleContactSearch(_ context.Context, svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	criteria := strings.TrimSpace(req.GetString("criteria", ""))
	recs, found, err := svc.Search(criteria)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	payload := map[string]any{
		"found":    found,
		"contacts": render.ContactViews(recs, svc.Now()),
	}
	if !found {
		payload["message"] = contacts.NoMatchesMessage(criteria)
	}
	return jsonResult(payload)
}

func handleContactShow(_ context.Context, svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := strings.TrimSpace(req.GetString("name", ""))
	if name == "" {
		recs, err := svc.Contacts()
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(map[string]any{"contacts": render.ContactViews(recs, svc.Now())})
	}

	rec, err := svc.Contact(name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(render.NewContactView(rec, svc.Now()))
}

func handleContactBirthdays(_ context.Context, svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	days := req.GetInt("days", -1)
	if days < 0 {
		days = svc.Config.Birthdays.DefaultDays
	}
	recs, err := svc.UpcomingBirthdays(days)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{
		"days":     days,
		"contacts": render.ContactViews(recs, svc.Now()),
	})
}

// ---------------------------------------------------------------------------
// Note handlers
// ---------------------------------------------------------------------------

func handleNoteAdd(_ context.Context, svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tags := cleanTags(req.GetStringSlice("tags", make([]string, 0)))
	key, err := svc.AddNote(tags, req.GetString("text", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{"action": "created", "tags": []string(key)})
}

func handleNoteFind(_ context.Context, svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	found, err := svc.FindNotes(req.GetString("keyword", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{"notes": render.NoteViews(found)})
}

func handleNoteList(_ context.Context, svc *service.Service, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	all, err := svc.Notes()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{"total": len(all), "notes": render.NoteViews(all)})
}

func handleNoteDelete(_ context.Context, svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tag := strings.TrimSpace(req.GetString("tag", ""))
	if err := svc.DeleteNote(tag); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{"action": "deleted", "tag": tag})
}

func handleNoteEdit(_ context.Context, svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tag := strings.TrimSpace(req.GetString("tag", ""))
	newTags := cleanTags(req.GetStringSlice("new_tags", make([]string, 0)))
	if err := svc.EditNote(tag, newTags, req.GetString("text", "")); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{"action": "edited", "tags": newTags})
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

// cleanTags trims every tag and drops the empty ones.
func cleanTags(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, t := range raw {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
