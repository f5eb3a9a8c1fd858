// Package service implements the Service orchestrator that wires together
// configuration, storage, validation, the contact directory, the note store and
// the file sorter.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-ports/helper/internal/config"
	"github.com/go-ports/helper/internal/contacts"
	"github.com/go-ports/helper/internal/models"
	"github.com/go-ports/helper/internal/notes"
	"github.com/go-ports/helper/internal/sorter"
	"github.com/go-ports/helper/internal/validation"
)

var (
	// ErrExists is wrapped when a contact, phone or email is already present.
	ErrExists = errors.New("already exists")
	// ErrMissing is wrapped when a contact, phone or email is absent.
	ErrMissing = errors.New("not found")
)

// Service orchestrates all contact and note operations. Every operation loads
// the full snapshot, applies one change and saves the snapshot back.
type Service struct {
	Home   string
	Config *config.HelperConfig
	// Clock returns the current time; tests replace it.
	Clock func() time.Time

	backend backend
	mu      sync.Mutex
}

// New initialises a Service rooted at home.
// If home is empty it is resolved via config.GetHome.
func New(home string) (*Service, error) {
	if home == "" {
		home = config.GetHome()
	}
	if err := os.MkdirAll(home, 0o755); err != nil {
		return nil, fmt.Errorf("service.New: create home: %w", err)
	}

	cfg, err := config.Load(filepath.Join(home, config.FileName))
	if err != nil {
		return nil, fmt.Errorf("service.New: load config: %w", err)
	}

	b, err := openBackend(home, cfg.Storage.Backend)
	if err != nil {
		return nil, fmt.Errorf("service.New: open %s backend: %w", cfg.Storage.Backend, err)
	}
	if cfg.Storage.Backend == config.BackendSQLite {
		if _, err := os.Stat(filepath.Join(home, ContactsFile)); err == nil {
			slog.Warn("service.New: storage.backend is sqlite, ignoring "+ContactsFile, "home", home)
		}
	}

	return &Service{
		Home:    home,
		Config:  cfg,
		Clock:   time.Now,
		backend: b,
	}, nil
}

// Close releases all resources held by the service.
func (s *Service) Close() error {
	return s.backend.close()
}

// Now returns the service clock reading.
func (s *Service) Now() time.Time { return s.Clock() }

// ---------------------------------------------------------------------------
// Internal helpers
// ---------------------------------------------------------------------------

func missingContact(name string) error {
	return fmt.Errorf("%w: the contact '%s' was not found", ErrMissing, validation.Title(name))
}

// withDirectory loads the directory, runs fn and saves when fn reports a change.
func (s *Service) withDirectory(op string, fn func(d *contacts.Directory) (changed bool, err error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.backend.loadContacts()
	if err != nil {
		return fmt.Errorf("%s: load contacts: %w", op, err)
	}
	changed, err := fn(d)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	if err := s.backend.saveContacts(d); err != nil {
		return fmt.Errorf("%s: save contacts: %w", op, err)
	}
	return nil
}

// withContact runs fn on the named record and saves the directory.
func (s *Service) withContact(op, name string, fn func(r *models.Record) error) error {
	return s.withDirectory(op, func(d *contacts.Directory) (bool, error) {
		r, err := d.Get(name)
		if err != nil {
			return false, missingContact(name)
		}
		if err := fn(r); err != nil {
			return false, err
		}
		return true, nil
	})
}

// withNotes loads the note store, runs fn and saves when fn succeeds and
// reports a change.
func (s *Service) withNotes(op string, fn func(st *notes.Store) (changed bool, err error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.backend.loadNotes()
	if err != nil {
		return fmt.Errorf("%s: load notes: %w", op, err)
	}
	changed, err := fn(st)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	if err := s.backend.saveNotes(st); err != nil {
		return fmt.Errorf("%s: save notes: %w", op, err)
	}
	return nil
}

func parsePhone(raw string) (models.Phone, error) {
	digits := validation.SanitizePhone(raw)
	if err := validation.Phone(digits); err != nil {
		return models.Phone{}, err
	}
	return models.NewPhone(digits), nil
}

func parseEmail(raw string) (models.Email, error) {
	address := strings.ToLower(strings.TrimSpace(raw))
	if err := validation.Email(address); err != nil {
		return models.Email{}, err
	}
	return models.NewEmail(address), nil
}

// ---------------------------------------------------------------------------
// Contacts
// ---------------------------------------------------------------------------

// AddContact creates a contact, optionally with a first phone number.
func (s *Service) AddContact(name, phone string) (*models.Record, error) {
	if err := validation.Name(name); err != nil {
		return nil, err
	}
	r := models.NewRecord(models.Identity{Name: name})
	if phone != "" {
		p, err := parsePhone(phone)
		if err != nil {
			return nil, err
		}
		r.AddPhone(p)
	}

	err := s.withDirectory("AddContact", func(d *contacts.Directory) (bool, error) {
		if d.Contains(name) {
			return false, fmt.Errorf("%w: the contact '%s' already exists in the address book", ErrExists, validation.Title(name))
		}
		d.Add(r)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Contact returns the named contact.
func (s *Service) Contact(name string) (*models.Record, error) {
	var rec *models.Record
	err := s.withDirectory("Contact", func(d *contacts.Directory) (bool, error) {
		r, err := d.Get(name)
		if err != nil {
			return false, missingContact(name)
		}
		rec = r
		return false, nil
	})
	return rec, err
}

// Contacts returns every contact, name ascending.
func (s *Service) Contacts() ([]*models.Record, error) {
	var recs []*models.Record
	err := s.withDirectory("Contacts", func(d *contacts.Directory) (bool, error) {
		recs = d.Records()
		return false, nil
	})
	return recs, err
}

// DeleteContact removes the named contact.
func (s *Service) DeleteContact(name string) error {
	return s.withDirectory("DeleteContact", func(d *contacts.Directory) (bool, error) {
		if err := d.Delete(name); err != nil {
			return false, missingContact(name)
		}
		return true, nil
	})
}

// AddPhone appends a phone number to the named contact and returns it sanitized.
func (s *Service) AddPhone(name, phone string) (models.Phone, error) {
	p, err := parsePhone(phone)
	if err != nil {
		return models.Phone{}, err
	}
	err = s.withContact("AddPhone", name, func(r *models.Record) error {
		if r.HasPhone(p) {
			return fmt.Errorf("%w: the phone number '%s' already exists in the '%s' contact", ErrExists, p.Digits(), validation.Title(name))
		}
		r.AddPhone(p)
		return nil
	})
	return p, err
}

// ChangePhone replaces oldPhone with newPhone on the named contact.
func (s *Service) ChangePhone(name, oldPhone, newPhone string) error {
	oldP, err := parsePhone(oldPhone)
	if err != nil {
		return err
	}
	newP, err := parsePhone(newPhone)
	if err != nil {
		return err
	}
	return s.withContact("ChangePhone", name, func(r *models.Record) error {
		if !r.HasPhone(oldP) {
			return fmt.Errorf("%w: contact's phone '%s' was not found in the '%s' contact", ErrMissing, oldP.Digits(), validation.Title(name))
		}
		if r.HasPhone(newP) {
			return fmt.Errorf("%w: the phone number '%s' already exists in the '%s' contact", ErrExists, newP.Digits(), validation.Title(name))
		}
		r.ChangePhone(oldP, newP)
		return nil
	})
}

// DeletePhone removes a phone number from the named contact.
func (s *Service) DeletePhone(name, phone string) error {
	p := models.NewPhone(validation.SanitizePhone(phone))
	return s.withContact("DeletePhone", name, func(r *models.Record) error {
		if !r.DeletePhone(p) {
			return fmt.Errorf("%w: contact's phone '%s' was not found in the '%s' contact", ErrMissing, p.Digits(), validation.Title(name))
		}
		return nil
	})
}

// AddEmail appends an email address to the named contact.
func (s *Service) AddEmail(name, email string) error {
	e, err := parseEmail(email)
	if err != nil {
		return err
	}
	return s.withContact("AddEmail", name, func(r *models.Record) error {
		if r.HasEmail(e) {
			return fmt.Errorf("%w: the email '%s' already exists in the '%s' contact", ErrExists, e.Address(), validation.Title(name))
		}
		r.AddEmail(e)
		return nil
	})
}

// ChangeEmail replaces oldEmail with newEmail on the named contact.
func (s *Service) ChangeEmail(name, oldEmail, newEmail string) error {
	oldE := models.NewEmail(strings.ToLower(strings.TrimSpace(oldEmail)))
	newE, err := parseEmail(newEmail)
	if err != nil {
		return err
	}
	return s.withContact("ChangeEmail", name, func(r *models.Record) error {
		if !r.HasEmail(oldE) {
			return fmt.Errorf("%w: contact's email '%s' was not found in the '%s' contact", ErrMissing, oldE.Address(), validation.Title(name))
		}
		if r.HasEmail(newE) {
			return fmt.Errorf("%w: the email '%s' already exists in the '%s' contact", ErrExists, newE.Address(), validation.Title(name))
		}
		r.ChangeEmail(oldE, newE)
		return nil
	})
}

// DeleteEmail removes an email address from the named contact.
func (s *Service) DeleteEmail(name, email string) error {
	e := models.NewEmail(strings.ToLower(strings.TrimSpace(email)))
	return s.withContact("DeleteEmail", name, func(r *models.Record) error {
		if !r.DeleteEmail(e) {
			return fmt.Errorf("%w: contact's email '%s' was not found in the '%s' contact", ErrMissing, e.Address(), validation.Title(name))
		}
		return nil
	})
}

// SetBirthday stores a DD-MM-YYYY birthday, which must lie in the past.
func (s *Service) SetBirthday(name, date string) error {
	if err := validation.Birthday(date, s.Now()); err != nil {
		return err
	}
	return s.withContact("SetBirthday", name, func(r *models.Record) error {
		return r.SetBirthday(date)
	})
}

// Search returns the contacts matching criteria, which is lower-cased first.
// found is false when nothing matched.
func (s *Service) Search(criteria string) (recs []*models.Record, found bool, err error) {
	criteria = strings.ToLower(criteria)
	if err := validation.Criteria(criteria); err != nil {
		return nil, false, err
	}
	err = s.withDirectory("Search", func(d *contacts.Directory) (bool, error) {
		var hits *contacts.Directory
		hits, found = d.Search(criteria)
		recs = hits.Records()
		return false, nil
	})
	return recs, found, err
}

// UpcomingBirthdays returns contacts whose birthday is at most days away.
// A negative days uses the configured default window.
func (s *Service) UpcomingBirthdays(days int) ([]*models.Record, error) {
	if days < 0 {
		days = s.Config.Birthdays.DefaultDays
	}
	now := s.Now()
	var recs []*models.Record
	err := s.withDirectory("UpcomingBirthdays", func(d *contacts.Directory) (bool, error) {
		recs = d.UpcomingBirthdays(now, days).Records()
		return false, nil
	})
	return recs, err
}

// ---------------------------------------------------------------------------
// Notes
// ---------------------------------------------------------------------------

// AddNote stores a note and returns the tags it was filed under.
func (s *Service) AddNote(tags []string, text string) (notes.Tags, error) {
	if err := validation.Tags(tags); err != nil {
		return nil, err
	}
	var key notes.Tags
	err := s.withNotes("AddNote", func(st *notes.Store) (bool, error) {
		var err error
		key, err = st.AddNote(tags, text)
		return err == nil, err
	})
	return key, err
}

// FindNotes returns the notes whose tags or text contain keyword.
func (s *Service) FindNotes(keyword string) ([]notes.Note, error) {
	var found []notes.Note
	err := s.withNotes("FindNotes", func(st *notes.Store) (bool, error) {
		found = st.Find(keyword)
		return false, nil
	})
	return found, err
}

// Notes returns every note ordered by tags.
func (s *Service) Notes() ([]notes.Note, error) {
	var all []notes.Note
	err := s.withNotes("Notes", func(st *notes.Store) (bool, error) {
		all = st.ShowAllSorted()
		return false, nil
	})
	return all, err
}

// DeleteNote removes the note carrying tag.
func (s *Service) DeleteNote(tag string) error {
	return s.withNotes("DeleteNote", func(st *notes.Store) (bool, error) {
		err := st.Delete(tag)
		return err == nil, err
	})
}

// EditNote replaces the note carrying tag.
func (s *Service) EditNote(tag string, newTags []string, newText string) error {
	if err := validation.Tags(newTags); err != nil {
		return err
	}
	return s.withNotes("EditNote", func(st *notes.Store) (bool, error) {
		err := st.Edit(tag, newTags, newText)
		return err == nil, err
	})
}

// ---------------------------------------------------------------------------
// Files
// ---------------------------------------------------------------------------

// SortFiles sorts the files below dir into bucket folders.
func (s *Service) SortFiles(ctx context.Context, dir string) (*sorter.Result, error) {
	if err := validation.SortDir(dir); err != nil {
		return nil, err
	}
	res, err := sorter.Sort(ctx, dir)
	if err != nil {
		return res, fmt.Errorf("SortFiles: %w", err)
	}
	if len(res.Skipped) > 0 {
		slog.Warn("SortFiles: some files were left in place", "dir", dir, "skipped", len(res.Skipped))
	}
	return res, nil
}
