// Package notes implements the tag-keyed note store.
//
// Every note is keyed by an ordered list of tags. A tag string labels at most
// one note across the whole store; a reverse index from tag to note keeps
// that check constant-time.
package notes

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/go-ports/helper/internal/codec"
)

// DefaultTag is assigned to notes added without tags.
const DefaultTag = "#notag"

var (
	// ErrNotFound is returned when no note carries the requested tag.
	ErrNotFound = errors.New("note not found")
	// ErrAlreadyExists is returned when a tag already labels another note.
	ErrAlreadyExists = errors.New("tag already in notes")
	// ErrNoNewTags is returned by Edit when no replacement tags are given.
	ErrNoNewTags = errors.New("no name of new tag")
	// ErrNoEditableTag is returned by Edit when the tag to edit is unknown.
	ErrNoEditableTag = fmt.Errorf("no editable tag: %w", ErrNotFound)
)

// Tags is the ordered key of a note.
type Tags []string

// String joins the tags with ", ".
func (t Tags) String() string { return strings.Join(t, ", ") }

// Contains reports whether tag is one of t.
func (t Tags) Contains(tag string) bool { return slices.Contains(t, tag) }

// Note is one tags-to-text entry.
type Note struct {
	Tags Tags
	Text string
}

func (n *Note) clone() Note {
	return Note{Tags: slices.Clone(n.Tags), Text: n.Text}
}

// Store holds notes in insertion order. It is not safe for concurrent use.
type Store struct {
	notes []*Note
	owner map[string]*Note // tag -> note carrying it
}

// New returns an empty Store.
func New() *Store {
	return &Store{owner: make(map[string]*Note)}
}

// Len returns the number of notes.
func (s *Store) Len() int { return len(s.notes) }

// HasTag reports whether tag labels a note.
func (s *Store) HasTag(tag string) bool {
	_, ok := s.owner[tag]
	return ok
}

// AddNote stores text under tags and returns the key used. Without tags the
// note gets the first free key of #notag, #notag1, #notag2, ... A non-empty
// tag list is rejected with ErrAlreadyExists when any of its tags already
// labels a note.
func (s *Store) AddNote(tags []string, text string) (Tags, error) {
	if len(tags) == 0 {
		key := Tags{s.freeDefaultTag()}
		s.insert(key, text)
		return slices.Clone(key), nil
	}
	if t, clash := s.firstTaken(tags); clash {
		return nil, fmt.Errorf("%w: %q", ErrAlreadyExists, t)
	}
	key := Tags(slices.Clone(tags))
	s.insert(key, text)
	return slices.Clone(key), nil
}

// Find returns, in insertion order, the notes whose tags or text contain keyword.
func (s *Store) Find(keyword string) []Note {
	var out []Note
	for _, n := range s.notes {
		if strings.Contains(n.Text, keyword) || slices.ContainsFunc(n.Tags, func(t string) bool {
			return strings.Contains(t, keyword)
		}) {
			out = append(out, n.clone())
		}
	}
	return out
}

// All returns every note in insertion order.
func (s *Store) All() []Note {
	out := make([]Note, len(s.notes))
	for i, n := range s.notes {
		out[i] = n.clone()
	}
	return out
}

// ShowAllSorted returns every note ordered by its tags, compared element-wise.
func (s *Store) ShowAllSorted() []Note {
	out := s.All()
	slices.SortStableFunc(out, func(a, b Note) int {
		return slices.Compare(a.Tags, b.Tags)
	})
	return out
}

// Delete removes the first note carrying tag. At most one note is removed.
func (s *Store) Delete(tag string) error {
	n, ok := s.owner[tag]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, tag)
	}
	s.remove(n)
	return nil
}

// Edit replaces the note carrying tag with a note keyed by newTags. newTags
// must not label any stored note, the one being replaced included.
func (s *Store) Edit(tag string, newTags []string, newText string) error {
	n, ok := s.owner[tag]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNoEditableTag, tag)
	}
	if len(newTags) == 0 {
		return ErrNoNewTags
	}
	if t, clash := s.firstTaken(newTags); clash {
		return fmt.Errorf("%w: %q", ErrAlreadyExists, t)
	}
	s.remove(n)
	s.insert(Tags(slices.Clone(newTags)), newText)
	return nil
}

// ---------------------------------------------------------------------------
// Persistence
// ---------------------------------------------------------------------------

// Save overwrites path with every note.
func (s *Store) Save(path string) error {
	data, err := codec.EncodeNotes(s.Docs())
	if err != nil {
		return fmt.Errorf("notes.Save: %w", err)
	}
	return codec.WriteFileAtomic(path, data, 0o600)
}

// Load replaces the store contents with the notes stored at path. A missing
// file leaves the store empty and is not an error.
func (s *Store) Load(path string) error {
	s.reset()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("notes.Load: %w", err)
	}
	docs, err := codec.DecodeNotes(data)
	if err != nil {
		return fmt.Errorf("notes.Load %s: %w", path, err)
	}
	return s.Restore(docs)
}

// Docs returns the persisted form of every note, in insertion order.
func (s *Store) Docs() []codec.NoteDoc {
	docs := make([]codec.NoteDoc, len(s.notes))
	for i, n := range s.notes {
		docs[i] = codec.NoteDoc{Tags: slices.Clone(n.Tags), Text: n.Text}
	}
	return docs
}

// Restore replaces the store contents with docs. Documents breaking tag
// uniqueness are rejected and leave the store empty.
func (s *Store) Restore(docs []codec.NoteDoc) error {
	s.reset()
	for _, d := range docs {
		if t, clash := s.firstTaken(d.Tags); clash {
			s.reset()
			return fmt.Errorf("notes.Restore: %w: %q", ErrAlreadyExists, t)
		}
		s.insert(Tags(slices.Clone(d.Tags)), d.Text)
	}
	return nil
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

func (s *Store) reset() {
	s.notes = nil
	s.owner = make(map[string]*Note)
}

func (s *Store) insert(key Tags, text string) {
	n := &Note{Tags: key, Text: text}
	s.notes = append(s.notes, n)
	for _, t := range key {
		s.owner[t] = n
	}
}

func (s *Store) remove(n *Note) {
	for _, t := range n.Tags {
		delete(s.owner, t)
	}
	s.notes = slices.DeleteFunc(s.notes, func(x *Note) bool { return x == n })
}

// firstTaken returns the first of tags already labelling a note.
func (s *Store) firstTaken(tags []string) (string, bool) {
	for _, t := range tags {
		if _, ok := s.owner[t]; ok {
			return t, true
		}
	}
	return "", false
}

func (s *Store) freeDefaultTag() string {
	tag := DefaultTag
	for i := 1; s.HasTag(tag); i++ {
		tag = DefaultTag + strconv.Itoa(i)
	}
	return tag
}
