package contacts_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/helper/internal/contacts"
	"github.com/go-ports/helper/internal/models"
)

// newRecord returns a record named name carrying the given phones.
func newRecord(name string, phones ...string) *models.Record {
	r := models.NewRecord(models.Identity{Name: name})
	for _, p := range phones {
		r.AddPhone(models.NewPhone(p))
	}
	return r
}

// ---------------------------------------------------------------------------
// Add / Get / Delete
// ---------------------------------------------------------------------------

func TestAddGet_HappyPath(t *testing.T) {
	c := qt.New(t)

	for _, name := range []string{"Ann", "bob", "Олена", "A"} {
		d := contacts.New()
		r := newRecord(name)
		d.Add(r)

		got, err := d.Get(name)
		c.Assert(err, qt.IsNil)
		c.Assert(got, qt.Equals, r)
		c.Assert(got.Name(), qt.Equals, name)
		c.Assert(d.Contains(name), qt.IsTrue)
	}
}

func TestAdd_EmptyNameIsIgnored(t *testing.T) {
	c := qt.New(t)

	d := contacts.New()
	d.Add(newRecord(""))
	c.Assert(d.Len(), qt.Equals, 0)
}

func TestAdd_OverwritesSameName(t *testing.T) {
	c := qt.New(t)

	d := contacts.New()
	d.Add(newRecord("Ann", "111111"))
	second := newRecord("Ann", "222222")
	d.Add(second)

	c.Assert(d.Len(), qt.Equals, 1)
	got, err := d.Get("Ann")
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, second)
}

func TestAdd_IterationIsNameAscending(t *testing.T) {
	c := qt.New(t)

	d := contacts.New()
	d.Add(newRecord("Bob"))
	d.Add(newRecord("Ann"))
	d.Add(newRecord("Carl"))
	d.Add(newRecord("Abe"))

	c.Assert(d.Names(), qt.DeepEquals, []string{"Abe", "Ann", "Bob", "Carl"})
	recs := d.Records()
	c.Assert(recs[0].Name(), qt.Equals, "Abe")
	c.Assert(recs[3].Name(), qt.Equals, "Carl")
}

func TestGet_NotFound(t *testing.T) {
	c := qt.New(t)

	_, err := contacts.New().Get("nobody")
	c.Assert(errors.Is(err, contacts.ErrNotFound), qt.IsTrue)
}

func TestDelete(t *testing.T) {
	c := qt.New(t)

	d := contacts.New()
	d.Add(newRecord("Ann"))
	d.Add(newRecord("Bob"))

	c.Assert(d.Delete("Ann"), qt.IsNil)
	c.Assert(d.Names(), qt.DeepEquals, []string{"Bob"})

	err := d.Delete("Ann")
	c.Assert(errors.Is(err, contacts.ErrNotFound), qt.IsTrue)
}

// ---------------------------------------------------------------------------
// Search
// ---------------------------------------------------------------------------

func TestSearch_HappyPath(t *testing.T) {
	c := qt.New(t)

	d := contacts.New()
	d.Add(newRecord("Ann", "380951234567"))
	d.Add(newRecord("Bob", "380671112233", "380959999999"))
	d.Add(newRecord("Joanna"))

	cases := []struct {
		name      string
		criteria  string
		wantNames []string
	}{
		{"phone prefix", "38095", []string{"Ann", "Bob"}},
		{"phone infix", "1112", []string{"Bob"}},
		{"name substring against lower-cased name", "ann", []string{"Ann", "Joanna"}},
		{"upper-case criteria does not match lower-cased names", "ANN", nil},
	}

	for _, tc := range cases {
		c.Run(tc.name, func(c *qt.C) {
			got, found := d.Search(tc.criteria)
			if tc.wantNames == nil {
				c.Assert(found, qt.IsFalse)
				return
			}
			c.Assert(found, qt.IsTrue)
			c.Assert(got.Names(), qt.DeepEquals, tc.wantNames)
		})
	}
}

func TestSearch_NoMatches(t *testing.T) {
	c := qt.New(t)

	d := contacts.New()
	d.Add(newRecord("Ann", "380951234567"))

	got, found := d.Search("zz")
	c.Assert(found, qt.IsFalse)
	c.Assert(got.Len(), qt.Equals, 0)
	c.Assert(contacts.NoMatchesMessage("zz"), qt.Equals, "According to this 'zz' criterion, no matches were found")
}

func TestSearch_ResultSharesRecords(t *testing.T) {
	c := qt.New(t)

	d := contacts.New()
	r := newRecord("Ann", "380951234567")
	d.Add(r)

	got, found := d.Search("38095")
	c.Assert(found, qt.IsTrue)
	hit, err := got.Get("Ann")
	c.Assert(err, qt.IsNil)
	c.Assert(hit, qt.Equals, r)
}

// ---------------------------------------------------------------------------
// UpcomingBirthdays
// ---------------------------------------------------------------------------

func TestUpcomingBirthdays(t *testing.T) {
	c := qt.New(t)

	d := contacts.New()
	soon := newRecord("Soon")
	c.Assert(soon.SetBirthday("10-06-1990"), qt.IsNil)
	later := newRecord("Later")
	c.Assert(later.SetBirthday("10-09-1990"), qt.IsNil)
	d.Add(soon)
	d.Add(later)
	d.Add(newRecord("NoBirthday"))

	now := time.Date(2023, time.June, 5, 12, 0, 0, 0, time.UTC)
	got := d.UpcomingBirthdays(now, 5)
	c.Assert(got.Names(), qt.DeepEquals, []string{"Soon"})

	got = d.UpcomingBirthdays(now, 4)
	c.Assert(got.Len(), qt.Equals, 0)
}

// ---------------------------------------------------------------------------
// Persistence
// ---------------------------------------------------------------------------

func TestSaveLoad_Roundtrip(t *testing.T) {
	c := qt.New(t)

	path := filepath.Join(t.TempDir(), "contacts.yaml")

	d := contacts.New()
	ann := newRecord("Ann", "380951234567", "380671112233")
	ann.AddEmail(models.NewEmail("ann@example.com"))
	c.Assert(ann.SetBirthday("29-02-1996"), qt.IsNil)
	d.Add(ann)
	d.Add(newRecord("Bob"))
	c.Assert(d.SaveToFile(path), qt.IsNil)

	loaded := contacts.New()
	c.Assert(loaded.LoadFromFile(path), qt.IsNil)
	c.Assert(loaded.Names(), qt.DeepEquals, []string{"Ann", "Bob"})

	got, err := loaded.Get("Ann")
	c.Assert(err, qt.IsNil)
	c.Assert(contacts.ToDoc(got), qt.DeepEquals, contacts.ToDoc(ann))
}

func TestLoadFromFile_MergesIntoExisting(t *testing.T) {
	c := qt.New(t)

	path := filepath.Join(t.TempDir(), "contacts.yaml")
	saved := contacts.New()
	saved.Add(newRecord("Bob", "222222"))
	c.Assert(saved.SaveToFile(path), qt.IsNil)

	d := contacts.New()
	d.Add(newRecord("Ann"))
	d.Add(newRecord("Bob", "111111"))
	c.Assert(d.LoadFromFile(path), qt.IsNil)

	c.Assert(d.Names(), qt.DeepEquals, []string{"Ann", "Bob"})
	bob, err := d.Get("Bob")
	c.Assert(err, qt.IsNil)
	c.Assert(bob.Phones[0].Digits(), qt.Equals, "222222")
}

func TestLoadFromFile_Missing(t *testing.T) {
	c := qt.New(t)

	path := filepath.Join(t.TempDir(), "missing.yaml")
	err := contacts.New().LoadFromFile(path)
	c.Assert(errors.Is(err, contacts.ErrFileNotFound), qt.IsTrue)
	c.Assert(err, qt.ErrorMatches, "file not found .*missing.yaml")
}

func TestLoadFromFile_BadBirthday(t *testing.T) {
	c := qt.New(t)

	path := filepath.Join(t.TempDir(), "contacts.yaml")
	err := os.WriteFile(path, []byte("version: 1\ncontacts:\n  - name: Ann\n    birthday: 1996-02-29\n"), 0o600)
	c.Assert(err, qt.IsNil)

	c.Assert(contacts.New().LoadFromFile(path), qt.IsNotNil)
}
