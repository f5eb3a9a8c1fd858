// Package codec defines the versioned YAML documents the contact book and the
// note store are persisted as, and the atomic file write both use.
package codec

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Version is the current document version written by Encode*.
const Version = 1

// ErrUnsupportedVersion is returned when a document carries an unknown version.
var ErrUnsupportedVersion = errors.New("unsupported document version")

// ContactDoc is the persisted form of one contact record.
type ContactDoc struct {
	Name     string   `yaml:"name"`
	Birthday string   `yaml:"birthday,omitempty"` // DD-MM-YYYY
	Phones   []string `yaml:"phones,omitempty"`
	Emails   []string `yaml:"emails,omitempty"`
}

// ContactsFile is the top-level contacts document.
type ContactsFile struct {
	Version  int          `yaml:"version"`
	Contacts []ContactDoc `yaml:"contacts"`
}

// NoteDoc is the persisted form of one note.
type NoteDoc struct {
	Tags []string `yaml:"tags"`
	Text string   `yaml:"text"`
}

// NotesFile is the top-level notes document.
type NotesFile struct {
	Version int       `yaml:"version"`
	Notes   []NoteDoc `yaml:"notes"`
}

// EncodeContacts marshals contacts into a versioned document.
func EncodeContacts(contacts []ContactDoc) ([]byte, error) {
	if contacts == nil {
		contacts = make([]ContactDoc, 0)
	}
	return yaml.Marshal(ContactsFile{Version: Version, Contacts: contacts})
}

// DecodeContacts parses a contacts document.
func DecodeContacts(data []byte) ([]ContactDoc, error) {
	var f ContactsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("codec.DecodeContacts: %w", err)
	}
	if err := checkVersion(f.Version); err != nil {
		return nil, fmt.Errorf("codec.DecodeContacts: %w", err)
	}
	return f.Contacts, nil
}

// EncodeNotes marshals notes into a versioned document.
func EncodeNotes(notes []NoteDoc) ([]byte, error) {
	if notes == nil {
		notes = make([]NoteDoc, 0)
	}
	return yaml.Marshal(NotesFile{Version: Version, Notes: notes})
}

// DecodeNotes parses a notes document.
func DecodeNotes(data []byte) ([]NoteDoc, error) {
	var f NotesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("codec.DecodeNotes: %w", err)
	}
	if err := checkVersion(f.Version); err != nil {
		return nil, fmt.Errorf("codec.DecodeNotes: %w", err)
	}
	return f.Notes, nil
}

// An empty file decodes to version 0 and is treated as an empty document.
func checkVersion(v int) error {
	if v == 0 || v == Version {
		return nil
	}
	return fmt.Errorf("%w: %d", ErrUnsupportedVersion, v)
}

// tempPrefix names the temporary files created by WriteFileAtomic.
const tempPrefix = ".helper-tmp-"

// WriteFileAtomic writes data to a temp file next to path, syncs it and renames
// it over path, so readers never observe a partially written file.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("codec.WriteFileAtomic: create dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, tempPrefix+"*")
	if err != nil {
		return fmt.Errorf("codec.WriteFileAtomic: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("codec.WriteFileAtomic: write: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("codec.WriteFileAtomic: sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("codec.WriteFileAtomic: close: %w", err)
	}
	if err := os.Chmod(tmp.Name(), perm); err != nil {
		return fmt.Errorf("codec.WriteFileAtomic: chmod: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("codec.WriteFileAtomic: rename to %s: %w", path, err)
	}
	return nil
}
