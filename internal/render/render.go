// Package render formats contacts and notes for the terminal and for JSON
// consumers.
package render

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/go-ports/helper/internal/models"
	"github.com/go-ports/helper/internal/notes"
)

// Empty fills cells that have no value.
const Empty = "-"

// ContactHeaders are the contact table columns.
var ContactHeaders = []string{"Contact Name", "Phone Number", "Email", "Birthday", "Days to Birthday"}

// NoteHeaders are the note table columns.
var NoteHeaders = []string{"Tags", "Text"}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)

var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// Phone renders stored digits in international form.
func Phone(p *models.Phone) string { return "+" + p.Digits() }

// ---------------------------------------------------------------------------
// Views
// ---------------------------------------------------------------------------

// ContactView is the JSON shape of one contact.
type ContactView struct {
	Name           string   `json:"name"`
	Phones         []string `json:"phones"`
	Emails         []string `json:"emails"`
	Birthday       string   `json:"birthday,omitempty"`
	DaysToBirthday *int     `json:"days_to_birthday,omitempty"`
}

// NewContactView converts r, computing the birthday countdown from now.
func NewContactView(r *models.Record, now time.Time) ContactView {
	v := ContactView{
		Name:   r.Name(),
		Phones: make([]string, 0, len(r.Phones)),
		Emails: make([]string, 0, len(r.Emails)),
	}
	for _, p := range r.Phones {
		v.Phones = append(v.Phones, Phone(p))
	}
	for _, e := range r.Emails {
		v.Emails = append(v.Emails, e.Address())
	}
	if b := r.Identity.Birthday; b != nil {
		v.Birthday = b.String()
	}
	if days, ok := r.DaysToBirthday(now); ok {
		v.DaysToBirthday = &days
	}
	return v
}

// ContactViews converts every record.
func ContactViews(recs []*models.Record, now time.Time) []ContactView {
	out := make([]ContactView, len(recs))
	for i, r := range recs {
		out[i] = NewContactView(r, now)
	}
	return out
}

// NoteView is the JSON shape of one note.
type NoteView struct {
	Tags []string `json:"tags"`
	Text string   `json:"text"`
}

// NoteViews converts notes.
func NoteViews(ns []notes.Note) []NoteView {
	out := make([]NoteView, len(ns))
	for i, n := range ns {
		out[i] = NoteView{Tags: n.Tags, Text: n.Text}
	}
	return out
}

// ---------------------------------------------------------------------------
// Tables
// ---------------------------------------------------------------------------

// ContactRow returns the table cells for one contact.
func ContactRow(v ContactView) []string {
	days := Empty
	if v.DaysToBirthday != nil {
		days = strconv.Itoa(*v.DaysToBirthday)
	}
	return []string{
		v.Name,
		orEmpty(strings.Join(v.Phones, "\n")),
		orEmpty(strings.Join(v.Emails, "\n")),
		orEmpty(v.Birthday),
		days,
	}
}

// ContactsTable renders records as a bordered table.
func ContactsTable(recs []*models.Record, now time.Time) string {
	rows := make([][]string, 0, len(recs))
	for _, v := range ContactViews(recs, now) {
		rows = append(rows, ContactRow(v))
	}
	return newTable(ContactHeaders, rows)
}

// NotesTable renders notes as a bordered table.
func NotesTable(ns []notes.Note) string {
	rows := make([][]string, 0, len(ns))
	for _, n := range ns {
		rows = append(rows, []string{n.Tags.String(), orEmpty(n.Text)})
	}
	return newTable(NoteHeaders, rows)
}

func newTable(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.String()
}

func orEmpty(s string) string {
	if s == "" {
		return Empty
	}
	return s
}
