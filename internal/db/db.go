// Package db persists contact and note snapshots in SQLite.
package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver with database/sql

	"github.com/go-ports/helper/internal/codec"
)

// Meta keys written on every save.
const (
	MetaSchemaVersion   = "schema_version"
	MetaContactsSavedAt = "contacts_saved_at"
	MetaNotesSavedAt    = "notes_saved_at"
)

// ErrSchemaVersion is returned when the database was written by a newer schema.
var ErrSchemaVersion = errors.New("unsupported schema version")

// DB wraps a *sql.DB with the path it was opened from.
type DB struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Open opens (or creates) the SQLite database at path and initialises the schema.
func Open(path string) (*DB, error) {
	sqldb, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("db.Open: %w", err)
	}
	d := &DB{db: sqldb, path: path, now: time.Now}
	if err := d.createSchema(); err != nil {
		_ = sqldb.Close()
		return nil, fmt.Errorf("db.Open createSchema: %w", err)
	}
	return d, nil
}

// Path returns the database file path.
func (d *DB) Path() string { return d.path }

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// ---------------------------------------------------------------------------
// Schema
// ---------------------------------------------------------------------------

func (d *DB) createSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS contacts (
			id       INTEGER PRIMARY KEY AUTOINCREMENT,
			name     TEXT UNIQUE NOT NULL,
			birthday TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS phones (
			contact_id INTEGER NOT NULL REFERENCES contacts(id) ON DELETE CASCADE,
			position   INTEGER NOT NULL,
			digits     TEXT NOT NULL,
			PRIMARY KEY (contact_id, position)
		)`,
		`CREATE TABLE IF NOT EXISTS emails (
			contact_id INTEGER NOT NULL REFERENCES contacts(id) ON DELETE CASCADE,
			position   INTEGER NOT NULL,
			address    TEXT NOT NULL,
			PRIMARY KEY (contact_id, position)
		)`,
		`CREATE TABLE IF NOT EXISTS notes (
			id       INTEGER PRIMARY KEY AUTOINCREMENT,
			position INTEGER NOT NULL,
			text     TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS note_tags (
			note_id  INTEGER NOT NULL REFERENCES notes(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			tag      TEXT UNIQUE NOT NULL,
			PRIMARY KEY (note_id, position)
		)`,
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}

	for _, s := range stmts {
		if _, err := d.db.Exec(s); err != nil {
			return fmt.Errorf("createSchema exec: %w\nSQL: %s", err, s)
		}
	}

	val, ok, err := d.GetMeta(MetaSchemaVersion)
	if err != nil {
		return err
	}
	if !ok {
		return d.SetMeta(MetaSchemaVersion, strconv.Itoa(codec.Version))
	}
	if v, err := strconv.Atoi(val); err != nil || v > codec.Version {
		return fmt.Errorf("%w: %q", ErrSchemaVersion, val)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Contacts
// ---------------------------------------------------------------------------

// SaveDirectory replaces every stored contact with docs in one transaction.
func (d *DB) SaveDirectory(docs []codec.ContactDoc) error {
	return d.inTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM contacts`); err != nil {
			return err
		}
		for _, doc := range docs {
			var birthday any
			if doc.Birthday != "" {
				birthday = doc.Birthday
			}
			res, err := tx.Exec(`INSERT INTO contacts (name, birthday) VALUES (?, ?)`, doc.Name, birthday)
			if err != nil {
				return fmt.Errorf("insert contact %q: %w", doc.Name, err)
			}
			id, err := res.LastInsertId()
			if err != nil {
				return err
			}
			for i, p := range doc.Phones {
				if _, err := tx.Exec(`INSERT INTO phones (contact_id, position, digits) VALUES (?, ?, ?)`, id, i, p); err != nil {
					return fmt.Errorf("insert phone: %w", err)
				}
			}
			for i, e := range doc.Emails {
				if _, err := tx.Exec(`INSERT INTO emails (contact_id, position, address) VALUES (?, ?, ?)`, id, i, e); err != nil {
					return fmt.Errorf("insert email: %w", err)
				}
			}
		}
		return setMetaTx(tx, MetaContactsSavedAt, d.now().UTC().Format(time.RFC3339))
	}, "SaveDirectory")
}

// LoadDirectory returns every stored contact, name ascending.
func (d *DB) LoadDirectory() ([]codec.ContactDoc, error) {
	rows, err := d.db.Query(`SELECT id, name, COALESCE(birthday, '') FROM contacts ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("LoadDirectory: %w", err)
	}
	var (
		docs []codec.ContactDoc
		byID = make(map[int64]int)
	)
	for rows.Next() {
		var (
			id  int64
			doc codec.ContactDoc
		)
		if err := rows.Scan(&id, &doc.Name, &doc.Birthday); err != nil {
			rows.Close()
			return nil, err
		}
		byID[id] = len(docs)
		docs = append(docs, doc)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = d.eachSlot(`SELECT contact_id, digits FROM phones ORDER BY contact_id, position`, func(id int64, v string) {
		if i, ok := byID[id]; ok {
			docs[i].Phones = append(docs[i].Phones, v)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("LoadDirectory phones: %w", err)
	}
	err = d.eachSlot(`SELECT contact_id, address FROM emails ORDER BY contact_id, position`, func(id int64, v string) {
		if i, ok := byID[id]; ok {
			docs[i].Emails = append(docs[i].Emails, v)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("LoadDirectory emails: %w", err)
	}
	return docs, nil
}

// ---------------------------------------------------------------------------
// Notes
// ---------------------------------------------------------------------------

// SaveNotes replaces every stored note with docs in one transaction. The
// UNIQUE constraint on note_tags.tag rejects snapshots that reuse a tag.
func (d *DB) SaveNotes(docs []codec.NoteDoc) error {
	return d.inTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM notes`); err != nil {
			return err
		}
		for pos, doc := range docs {
			res, err := tx.Exec(`INSERT INTO notes (position, text) VALUES (?, ?)`, pos, doc.Text)
			if err != nil {
				return fmt.Errorf("insert note: %w", err)
			}
			id, err := res.LastInsertId()
			if err != nil {
				return err
			}
			for i, tag := range doc.Tags {
				if _, err := tx.Exec(`INSERT INTO note_tags (note_id, position, tag) VALUES (?, ?, ?)`, id, i, tag); err != nil {
					return fmt.Errorf("insert tag %q: %w", tag, err)
				}
			}
		}
		return setMetaTx(tx, MetaNotesSavedAt, d.now().UTC().Format(time.RFC3339))
	}, "SaveNotes")
}

// LoadNotes returns every stored note in insertion order.
func (d *DB) LoadNotes() ([]codec.NoteDoc, error) {
	rows, err := d.db.Query(`SELECT id, text FROM notes ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("LoadNotes: %w", err)
	}
	var (
		docs []codec.NoteDoc
		byID = make(map[int64]int)
	)
	for rows.Next() {
		var (
			id  int64
			doc codec.NoteDoc
		)
		if err := rows.Scan(&id, &doc.Text); err != nil {
			rows.Close()
			return nil, err
		}
		byID[id] = len(docs)
		docs = append(docs, doc)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = d.eachSlot(`SELECT note_id, tag FROM note_tags ORDER BY note_id, position`, func(id int64, v string) {
		if i, ok := byID[id]; ok {
			docs[i].Tags = append(docs[i].Tags, v)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("LoadNotes tags: %w", err)
	}
	return docs, nil
}

// ---------------------------------------------------------------------------
// Meta
// ---------------------------------------------------------------------------

// GetMeta returns the value for key, or ("", false, nil) if not set.
func (d *DB) GetMeta(key string) (string, bool, error) {
	var val string
	err := d.db.QueryRow(`SELECT value FROM meta WHERE key = ?`, key).Scan(&val)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// SetMeta upserts a key-value pair in the meta table.
func (d *DB) SetMeta(key, value string) error {
	_, err := d.db.Exec(
		`INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)`, key, value,
	)
	return err
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func setMetaTx(tx *sql.Tx, key, value string) error {
	_, err := tx.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)`, key, value)
	return err
}

// inTx runs fn in a transaction, committing on success.
func (d *DB) inTx(fn func(*sql.Tx) error, op string) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("%s begin: %w", op, err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s commit: %w", op, err)
	}
	return nil
}

// eachSlot scans (owner id, value) rows.
func (d *DB) eachSlot(query string, fn func(id int64, v string)) error {
	rows, err := d.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			id int64
			v  string
		)
		if err := rows.Scan(&id, &v); err != nil {
			return err
		}
		fn(id, v)
	}
	return rows.Err()
}
