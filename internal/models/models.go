// Package models defines the core data types of the contact book.
package models

import (
	"fmt"
	"time"
)

// DateLayout is the user-facing birthday format (DD-MM-YYYY).
const DateLayout = "02-01-2006"

// ---------------------------------------------------------------------------
// Value types
// ---------------------------------------------------------------------------

// Phone wraps a sanitized digit string. The zero value is "unset".
type Phone struct {
	digits string
}

// NewPhone wraps digits without validating them.
func NewPhone(digits string) Phone { return Phone{digits: digits} }

// Digits returns the wrapped digit string ("" when unset).
func (p Phone) Digits() string { return p.digits }

// IsSet reports whether the phone carries a value.
func (p Phone) IsSet() bool { return p.digits != "" }

// Equals reports structural equality. An unset phone never equals anything,
// another unset phone included.
func (p Phone) Equals(other Phone) bool {
	return p.IsSet() && other.IsSet() && p.digits == other.digits
}

// Email wraps a lowercase address. The zero value is "unset".
type Email struct {
	address string
}

// NewEmail wraps address without validating it.
func NewEmail(address string) Email { return Email{address: address} }

// Address returns the wrapped address ("" when unset).
func (e Email) Address() string { return e.address }

// IsSet reports whether the email carries a value.
func (e Email) IsSet() bool { return e.address != "" }

// Equals reports structural equality. An unset email never equals anything.
func (e Email) Equals(other Email) bool {
	return e.IsSet() && other.IsSet() && e.address == other.address
}

// Date is a calendar date without a time component.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses a DD-MM-YYYY string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("models.ParseDate: %w", err)
	}
	return DateOf(t), nil
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// String renders the date as DD-MM-YYYY.
func (d Date) String() string {
	return fmt.Sprintf("%02d-%02d-%04d", d.Day, int(d.Month), d.Year)
}

// Time returns midnight UTC of the date.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// daysUntil returns the whole number of days from d to other.
func (d Date) daysUntil(other Date) int {
	return int(other.Time().Sub(d.Time()).Hours() / 24)
}

// IsLeapYear reports whether year has a February 29th.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// Identity is the named owner of a Record.
type Identity struct {
	Name     string
	Birthday *Date
}

// ---------------------------------------------------------------------------
// Record
// ---------------------------------------------------------------------------

// Record aggregates one identity with its phone numbers and emails.
// Phones and Emails are pointer slots: changing a value mutates the slot in place.
type Record struct {
	Identity Identity
	Phones   []*Phone
	Emails   []*Email
}

// NewRecord creates a Record owning identity.
func NewRecord(identity Identity) *Record {
	return &Record{Identity: identity}
}

// Name is a shorthand for r.Identity.Name.
func (r *Record) Name() string { return r.Identity.Name }

// AddPhone appends p. Duplicates are the caller's concern.
func (r *Record) AddPhone(p Phone) {
	r.Phones = append(r.Phones, &p)
}

// AddEmail appends e. Duplicates are the caller's concern.
func (r *Record) AddEmail(e Email) {
	r.Emails = append(r.Emails, &e)
}

// HasPhone reports whether any slot structurally equals p.
func (r *Record) HasPhone(p Phone) bool {
	return r.phoneIndex(p) >= 0
}

// HasEmail reports whether any slot structurally equals e.
func (r *Record) HasEmail(e Email) bool {
	return r.emailIndex(e) >= 0
}

// ChangePhone rewrites the first slot equal to old with the digits of repl.
// It returns false when no slot matched.
func (r *Record) ChangePhone(old, repl Phone) bool {
	i := r.phoneIndex(old)
	if i < 0 {
		return false
	}
	r.Phones[i].digits = repl.digits
	return true
}

// ChangeEmail rewrites the first slot equal to old with the address of repl.
func (r *Record) ChangeEmail(old, repl Email) bool {
	i := r.emailIndex(old)
	if i < 0 {
		return false
	}
	r.Emails[i].address = repl.address
	return true
}

// DeletePhone removes the first slot equal to p.
func (r *Record) DeletePhone(p Phone) bool {
	i := r.phoneIndex(p)
	if i < 0 {
		return false
	}
	r.Phones = append(r.Phones[:i], r.Phones[i+1:]...)
	return true
}

// DeleteEmail removes the first slot equal to e.
func (r *Record) DeleteEmail(e Email) bool {
	i := r.emailIndex(e)
	if i < 0 {
		return false
	}
	r.Emails = append(r.Emails[:i], r.Emails[i+1:]...)
	return true
}

// SetBirthday parses a DD-MM-YYYY string and stores it on the identity.
func (r *Record) SetBirthday(s string) error {
	d, err := ParseDate(s)
	if err != nil {
		return err
	}
	r.Identity.Birthday = &d
	return nil
}

// DaysToBirthday returns the number of days from now's calendar date to the
// next birthday. A February 29th birthday is celebrated on February 28th in
// non-leap years; the clamp is evaluated on every call. When this year's
// occurrence is today or already past, the count to next year's occurrence is
// returned as is. ok is false when no birthday is set.
func (r *Record) DaysToBirthday(now time.Time) (days int, ok bool) {
	b := r.Identity.Birthday
	if b == nil {
		return 0, false
	}
	today := DateOf(now)
	feb29 := b.Month == time.February && b.Day == 29

	day := b.Day
	if feb29 && !IsLeapYear(today.Year) {
		day = 28
	}
	next := Date{Year: today.Year, Month: b.Month, Day: day}
	if n := today.daysUntil(next); n > 0 {
		return n, true
	}

	next.Year = today.Year + 1
	if feb29 {
		if IsLeapYear(next.Year) {
			next.Day = 29
		} else {
			next.Day = 28
		}
	}
	return today.daysUntil(next), true
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

func (r *Record) phoneIndex(p Phone) int {
	for i, slot := range r.Phones {
		if slot.Equals(p) {
			return i
		}
	}
	return -1
}

func (r *Record) emailIndex(e Email) int {
	for i, slot := range r.Emails {
		if slot.Equals(e) {
			return i
		}
	}
	return -1
}
