// Package contacts implements the name-keyed contact directory.
package contacts

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/go-ports/helper/internal/codec"
	"github.com/go-ports/helper/internal/models"
)

var (
	// ErrNotFound is returned when a name has no record.
	ErrNotFound = errors.New("contact not found")
	// ErrFileNotFound is returned by LoadFromFile when the file is missing.
	ErrFileNotFound = errors.New("file not found")
)

// Directory maps names to records. Iteration order is name ascending.
// A Directory is not safe for concurrent use.
type Directory struct {
	records map[string]*models.Record
	names   []string // sorted keys of records
}

// New returns an empty Directory.
func New() *Directory {
	return &Directory{records: make(map[string]*models.Record)}
}

// Len returns the number of records.
func (d *Directory) Len() int { return len(d.names) }

// Contains reports whether name has a record.
func (d *Directory) Contains(name string) bool {
	_, ok := d.records[name]
	return ok
}

// Get returns the record stored under name.
func (d *Directory) Get(name string) (*models.Record, error) {
	r, ok := d.records[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return r, nil
}

// Add stores r under its identity name, replacing any record with that name.
// Records with an empty name are ignored. Rejecting duplicates is the caller's
// job (check Contains first).
func (d *Directory) Add(r *models.Record) {
	name := r.Name()
	if name == "" {
		return
	}
	if _, exists := d.records[name]; !exists {
		d.names = append(d.names, name)
		sort.Strings(d.names)
	}
	d.records[name] = r
}

// Delete removes the record stored under name.
func (d *Directory) Delete(name string) error {
	if _, ok := d.records[name]; !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	delete(d.records, name)
	i := sort.SearchStrings(d.names, name)
	d.names = append(d.names[:i], d.names[i+1:]...)
	return nil
}

// Names returns the record names in ascending order.
func (d *Directory) Names() []string {
	out := make([]string, len(d.names))
	copy(out, d.names)
	return out
}

// Records returns the records in name-ascending order.
func (d *Directory) Records() []*models.Record {
	out := make([]*models.Record, len(d.names))
	for i, n := range d.names {
		out[i] = d.records[n]
	}
	return out
}

// Search returns a new Directory with the records matching criteria.
// All-digit criteria match as a substring of any phone number; anything else
// matches as a substring of the lower-cased name. found is false when nothing
// matched; NoMatchesMessage describes that case for display.
func (d *Directory) Search(criteria string) (result *Directory, found bool) {
	result = New()
	byPhone := isDigits(criteria)
	for _, r := range d.Records() {
		if byPhone {
			for _, p := range r.Phones {
				if strings.Contains(p.Digits(), criteria) {
					result.Add(r)
					break
				}
			}
			continue
		}
		if strings.Contains(strings.ToLower(r.Name()), criteria) {
			result.Add(r)
		}
	}
	return result, result.Len() > 0
}

// NoMatchesMessage is the human-readable marker for an empty search.
func NoMatchesMessage(criteria string) string {
	return fmt.Sprintf("According to this '%s' criterion, no matches were found", criteria)
}

// UpcomingBirthdays returns the records whose next birthday is at most days
// away from now. Records without a birthday are skipped.
func (d *Directory) UpcomingBirthdays(now time.Time, days int) *Directory {
	result := New()
	for _, r := range d.Records() {
		if n, ok := r.DaysToBirthday(now); ok && n <= days {
			result.Add(r)
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Persistence
// ---------------------------------------------------------------------------

// SaveToFile overwrites path with the full directory.
func (d *Directory) SaveToFile(path string) error {
	data, err := codec.EncodeContacts(ToDocs(d))
	if err != nil {
		return fmt.Errorf("contacts.SaveToFile: %w", err)
	}
	return codec.WriteFileAtomic(path, data, 0o600)
}

// LoadFromFile merges the records stored at path into d. Records already in d
// with the same name are replaced.
func (d *Directory) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w %s", ErrFileNotFound, path)
	}
	if err != nil {
		return fmt.Errorf("contacts.LoadFromFile: %w", err)
	}
	docs, err := codec.DecodeContacts(data)
	if err != nil {
		return fmt.Errorf("contacts.LoadFromFile %s: %w", path, err)
	}
	return d.Merge(docs)
}

// Merge adds the records described by docs.
func (d *Directory) Merge(docs []codec.ContactDoc) error {
	for _, doc := range docs {
		r, err := FromDoc(doc)
		if err != nil {
			return err
		}
		d.Add(r)
	}
	return nil
}

// ToDocs converts the directory to its persisted form, in name order.
func ToDocs(d *Directory) []codec.ContactDoc {
	docs := make([]codec.ContactDoc, 0, d.Len())
	for _, r := range d.Records() {
		docs = append(docs, ToDoc(r))
	}
	return docs
}

// ToDoc converts a record to its persisted form.
func ToDoc(r *models.Record) codec.ContactDoc {
	doc := codec.ContactDoc{Name: r.Name()}
	if b := r.Identity.Birthday; b != nil {
		doc.Birthday = b.String()
	}
	for _, p := range r.Phones {
		doc.Phones = append(doc.Phones, p.Digits())
	}
	for _, e := range r.Emails {
		doc.Emails = append(doc.Emails, e.Address())
	}
	return doc
}

// FromDoc rebuilds a record from its persisted form.
func FromDoc(doc codec.ContactDoc) (*models.Record, error) {
	r := models.NewRecord(models.Identity{Name: doc.Name})
	if doc.Birthday != "" {
		if err := r.SetBirthday(doc.Birthday); err != nil {
			return nil, fmt.Errorf("contacts.FromDoc %q: %w", doc.Name, err)
		}
	}
	for _, p := range doc.Phones {
		r.AddPhone(models.NewPhone(p))
	}
	for _, e := range doc.Emails {
		r.AddEmail(models.NewEmail(e))
	}
	return r, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
