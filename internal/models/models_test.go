package models_test

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/helper/internal/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 30, 0, 0, time.UTC)
}

// ---------------------------------------------------------------------------
// Value types
// ---------------------------------------------------------------------------

func TestPhoneEquals_HappyPath(t *testing.T) {
	c := qt.New(t)

	cases := []struct {
		name string
		a, b models.Phone
		want bool
	}{
		{"same digits", models.NewPhone("380951234567"), models.NewPhone("380951234567"), true},
		{"different digits", models.NewPhone("380951234567"), models.NewPhone("380951234568"), false},
		{"unset vs set", models.Phone{}, models.NewPhone("123"), false},
		{"set vs unset", models.NewPhone("123"), models.Phone{}, false},
		{"unset never equals unset", models.Phone{}, models.Phone{}, false},
		{"empty digits are unset", models.NewPhone(""), models.NewPhone(""), false},
	}

	for _, tc := range cases {
		c.Run(tc.name, func(c *qt.C) {
			c.Assert(tc.a.Equals(tc.b), qt.Equals, tc.want)
		})
	}
}

func TestEmailEquals_HappyPath(t *testing.T) {
	c := qt.New(t)

	c.Assert(models.NewEmail("a@b.io").Equals(models.NewEmail("a@b.io")), qt.IsTrue)
	c.Assert(models.NewEmail("a@b.io").Equals(models.NewEmail("c@b.io")), qt.IsFalse)
	c.Assert(models.Email{}.Equals(models.Email{}), qt.IsFalse)
	c.Assert(models.Email{}.IsSet(), qt.IsFalse)
}

func TestParseDate(t *testing.T) {
	c := qt.New(t)

	d, err := models.ParseDate("29-02-1996")
	c.Assert(err, qt.IsNil)
	c.Assert(d, qt.Equals, models.Date{Year: 1996, Month: time.February, Day: 29})
	c.Assert(d.String(), qt.Equals, "29-02-1996")

	_, err = models.ParseDate("1996-02-29")
	c.Assert(err, qt.IsNotNil)
	_, err = models.ParseDate("29-02-1995")
	c.Assert(err, qt.IsNotNil)
}

// ---------------------------------------------------------------------------
// Record phones / emails
// ---------------------------------------------------------------------------

func TestRecordPhones_HappyPath(t *testing.T) {
	c := qt.New(t)

	c.Run("add allows duplicates", func(c *qt.C) {
		r := models.NewRecord(models.Identity{Name: "Ann"})
		r.AddPhone(models.NewPhone("111111"))
		r.AddPhone(models.NewPhone("111111"))
		c.Assert(r.Phones, qt.HasLen, 2)
	})

	c.Run("change mutates the first matching slot in place", func(c *qt.C) {
		r := models.NewRecord(models.Identity{Name: "Ann"})
		r.AddPhone(models.NewPhone("111111"))
		r.AddPhone(models.NewPhone("222222"))
		r.AddPhone(models.NewPhone("111111"))
		slot := r.Phones[0]

		c.Assert(r.ChangePhone(models.NewPhone("111111"), models.NewPhone("999999")), qt.IsTrue)
		c.Assert(r.Phones[0], qt.Equals, slot)
		c.Assert(slot.Digits(), qt.Equals, "999999")
		c.Assert(r.Phones[2].Digits(), qt.Equals, "111111")
	})

	c.Run("change without match is a no-op", func(c *qt.C) {
		r := models.NewRecord(models.Identity{Name: "Ann"})
		r.AddPhone(models.NewPhone("111111"))
		c.Assert(r.ChangePhone(models.NewPhone("333333"), models.NewPhone("999999")), qt.IsFalse)
		c.Assert(r.Phones[0].Digits(), qt.Equals, "111111")
	})

	c.Run("delete removes only the first match", func(c *qt.C) {
		r := models.NewRecord(models.Identity{Name: "Ann"})
		r.AddPhone(models.NewPhone("111111"))
		r.AddPhone(models.NewPhone("222222"))
		r.AddPhone(models.NewPhone("111111"))

		c.Assert(r.DeletePhone(models.NewPhone("111111")), qt.IsTrue)
		c.Assert(r.Phones, qt.HasLen, 2)
		c.Assert(r.Phones[0].Digits(), qt.Equals, "222222")
		c.Assert(r.DeletePhone(models.NewPhone("444444")), qt.IsFalse)
		c.Assert(r.Phones, qt.HasLen, 2)
	})

	c.Run("unset phone never matches a slot", func(c *qt.C) {
		r := models.NewRecord(models.Identity{Name: "Ann"})
		r.AddPhone(models.Phone{})
		c.Assert(r.HasPhone(models.Phone{}), qt.IsFalse)
		c.Assert(r.DeletePhone(models.Phone{}), qt.IsFalse)
	})
}

func TestRecordEmails_HappyPath(t *testing.T) {
	c := qt.New(t)

	r := models.NewRecord(models.Identity{Name: "Bob"})
	r.AddEmail(models.NewEmail("bob@old.io"))
	r.AddEmail(models.NewEmail("bob@work.io"))

	c.Assert(r.HasEmail(models.NewEmail("bob@work.io")), qt.IsTrue)
	c.Assert(r.ChangeEmail(models.NewEmail("bob@old.io"), models.NewEmail("bob@new.io")), qt.IsTrue)
	c.Assert(r.Emails[0].Address(), qt.Equals, "bob@new.io")
	c.Assert(r.DeleteEmail(models.NewEmail("bob@work.io")), qt.IsTrue)
	c.Assert(r.Emails, qt.HasLen, 1)
	c.Assert(r.DeleteEmail(models.NewEmail("bob@work.io")), qt.IsFalse)
}

// ---------------------------------------------------------------------------
// DaysToBirthday
// ---------------------------------------------------------------------------

func TestDaysToBirthday_HappyPath(t *testing.T) {
	c := qt.New(t)

	cases := []struct {
		name     string
		birthday string
		now      time.Time
		want     int
	}{
		{"later this year", "05-06-1990", day(2023, time.January, 5), 151},
		{"tomorrow", "06-06-1990", day(2023, time.June, 5), 1},
		{"tomorrow late in the evening", "06-06-1990", time.Date(2023, time.June, 5, 23, 59, 0, 0, time.UTC), 1},
		{"already passed rolls to next year", "05-01-1990", day(2023, time.June, 5), 214},
		{"today rolls to next year", "05-06-1990", day(2023, time.June, 5), 366},
		{"feb 29 in non-leap year uses feb 28", "29-02-2000", day(2023, time.February, 1), 27},
		{"feb 29 in leap year uses feb 29", "29-02-2000", day(2024, time.February, 1), 28},
		{"feb 29 passed in non-leap year rolls to leap feb 29", "29-02-2000", day(2023, time.March, 1), 365},
		{"feb 29 passed in leap year rolls to non-leap feb 28", "29-02-2000", day(2024, time.March, 1), 364},
		{"feb 28 of non-leap year is the celebration day", "29-02-2000", day(2023, time.February, 28), 366},
	}

	for _, tc := range cases {
		c.Run(tc.name, func(c *qt.C) {
			r := models.NewRecord(models.Identity{Name: "Ann"})
			c.Assert(r.SetBirthday(tc.birthday), qt.IsNil)

			got, ok := r.DaysToBirthday(tc.now)
			c.Assert(ok, qt.IsTrue)
			c.Assert(got, qt.Equals, tc.want)
		})
	}
}

func TestDaysToBirthday_NoBirthday(t *testing.T) {
	c := qt.New(t)

	r := models.NewRecord(models.Identity{Name: "Ann"})
	_, ok := r.DaysToBirthday(day(2023, time.June, 5))
	c.Assert(ok, qt.IsFalse)
}

func TestDaysToBirthday_StoredValueUnchanged(t *testing.T) {
	c := qt.New(t)

	r := models.NewRecord(models.Identity{Name: "Ann"})
	c.Assert(r.SetBirthday("29-02-2000"), qt.IsNil)
	_, _ = r.DaysToBirthday(day(2023, time.February, 1))
	c.Assert(r.Identity.Birthday.Day, qt.Equals, 29)
}

// The next-year fallback is never corrected further; with calendar-date
// arithmetic it is always at least 365.
func TestDaysToBirthday_NextYearFallbackIsPositive(t *testing.T) {
	c := qt.New(t)

	start := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
	r := models.NewRecord(models.Identity{Name: "Ann"})
	c.Assert(r.SetBirthday("31-12-1990"), qt.IsNil)
	for i := 0; i < 731; i++ {
		now := start.AddDate(0, 0, i)
		got, ok := r.DaysToBirthday(now)
		c.Assert(ok, qt.IsTrue)
		c.Assert(got > 0, qt.IsTrue, qt.Commentf("now=%s", now))
	}
}
