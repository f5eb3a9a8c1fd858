package service

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/go-ports/helper/internal/config"
	"github.com/go-ports/helper/internal/contacts"
	"github.com/go-ports/helper/internal/db"
	"github.com/go-ports/helper/internal/notes"
)

// File names inside the helper home.
const (
	ContactsFile = "contacts.yaml"
	NotesFile    = "notes.yaml"
	DBFile       = "helper.db"
)

// backend loads and saves whole snapshots.
type backend interface {
	loadContacts() (*contacts.Directory, error)
	saveContacts(*contacts.Directory) error
	loadNotes() (*notes.Store, error)
	saveNotes(*notes.Store) error
	close() error
}

func openBackend(home, kind string) (backend, error) {
	switch kind {
	case config.BackendSQLite:
		database, err := db.Open(filepath.Join(home, DBFile))
		if err != nil {
			return nil, err
		}
		return &sqliteBackend{db: database}, nil
	case config.BackendFile, "":
		return &fileBackend{
			contactsPath: filepath.Join(home, ContactsFile),
			notesPath:    filepath.Join(home, NotesFile),
		}, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", kind)
	}
}

// ---------------------------------------------------------------------------
// YAML files
// ---------------------------------------------------------------------------

type fileBackend struct {
	contactsPath string
	notesPath    string
}

func (b *fileBackend) loadContacts() (*contacts.Directory, error) {
	d := contacts.New()
	err := d.LoadFromFile(b.contactsPath)
	if err != nil && !errors.Is(err, contacts.ErrFileNotFound) {
		return nil, err
	}
	return d, nil
}

func (b *fileBackend) saveContacts(d *contacts.Directory) error {
	return d.SaveToFile(b.contactsPath)
}

func (b *fileBackend) loadNotes() (*notes.Store, error) {
	s := notes.New()
	if err := s.Load(b.notesPath); err != nil {
		return nil, err
	}
	return s, nil
}

func (b *fileBackend) saveNotes(s *notes.Store) error {
	return s.Save(b.notesPath)
}

func (b *fileBackend) close() error { return nil }

// ---------------------------------------------------------------------------
// SQLite
// ---------------------------------------------------------------------------

type sqliteBackend struct {
	db *db.DB
}

func (b *sqliteBackend) loadContacts() (*contacts.Directory, error) {
	docs, err := b.db.LoadDirectory()
	if err != nil {
		return nil, err
	}
	d := contacts.New()
	if err := d.Merge(docs); err != nil {
		return nil, err
	}
	return d, nil
}

func (b *sqliteBackend) saveContacts(d *contacts.Directory) error {
	return b.db.SaveDirectory(contacts.ToDocs(d))
}

func (b *sqliteBackend) loadNotes() (*notes.Store, error) {
	docs, err := b.db.LoadNotes()
	if err != nil {
		return nil, err
	}
	s := notes.New()
	if err := s.Restore(docs); err != nil {
		return nil, err
	}
	return s, nil
}

func (b *sqliteBackend) saveNotes(s *notes.Store) error {
	return b.db.SaveNotes(s.Docs())
}

func (b *sqliteBackend) close() error { return b.db.Close() }
