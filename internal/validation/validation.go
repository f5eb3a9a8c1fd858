// Package validation checks user input before it reaches the contact
// directory or the note store.
package validation

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/go-ports/helper/internal/models"
)

// ErrInvalid is wrapped by every *Error.
var ErrInvalid = errors.New("invalid input")

// Error describes one rejected input.
type Error struct {
	Field string // "name", "phone", ...
	Value string
	Msg   string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return ErrInvalid }

func invalid(field, value, format string, args ...any) error {
	return &Error{Field: field, Value: value, Msg: fmt.Sprintf(format, args...)}
}

const (
	minNameLen   = 1
	maxNameLen   = 49
	minPhoneLen  = 6
	maxPhoneLen  = 18
	phoneJunkSet = "(), -+x."
)

var (
	nameRunes = buildNameRunes()
	emailRe   = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_.]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9.-]+`)
	titler    = cases.Title(language.Und)
)

func buildNameRunes() map[rune]bool {
	const cyrillic = "абвгґдеєёжзиіїйклмнопрстуфхцчшщъыьэюя. ʼ"
	set := make(map[rune]bool)
	for _, s := range []string{
		"abcdefghijklmnopqrstuvwxyz",
		"ABCDEFGHIJKLMNOPQRSTUVWXYZ",
		cyrillic,
		strings.ToUpper(cyrillic),
	} {
		for _, r := range s {
			set[r] = true
		}
	}
	return set
}

// Title renders a contact name the way messages display it.
func Title(name string) string { return titler.String(name) }

// Name accepts Latin and Cyrillic letters, '.', ' ' and 'ʼ', 1..49 characters.
func Name(name string) error {
	for _, r := range name {
		if !nameRunes[r] {
			return invalid("name", name, "contact's name can only contain letters, but got '%s'", Title(name))
		}
	}
	if n := utf8.RuneCountInString(name); n < minNameLen || n > maxNameLen {
		return invalid("name", name, "name length must be between %d and %d, but got '%s'", minNameLen, maxNameLen, Title(name))
	}
	return nil
}

// SanitizePhone strips whitespace and the punctuation people type into phone
// numbers. The result is not validated.
func SanitizePhone(raw string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(phoneJunkSet, r) || r == '\t' || r == '\n' {
			return -1
		}
		return r
	}, raw)
}

// Phone checks a sanitized phone: digits only, 6..18 of them.
func Phone(digits string) error {
	for _, r := range digits {
		if r < '0' || r > '9' {
			return invalid("phone", digits, "contact's phone can only contain digits, but got '%s'", digits)
		}
	}
	if n := len(digits); n < minPhoneLen || n > maxPhoneLen {
		return invalid("phone", digits, "contact's phone must be between %d and %d digits, but got '%s'", minPhoneLen, maxPhoneLen, digits)
	}
	return nil
}

// Email matches the address prefix against a permissive pattern.
func Email(address string) error {
	if !emailRe.MatchString(address) {
		return invalid("email", address, "invalid '%s' email address", address)
	}
	return nil
}

// Birthday checks the DD-MM-YYYY format and that the date lies before now.
func Birthday(s string, now time.Time) error {
	d, err := models.ParseDate(s)
	if err != nil {
		return invalid("birthday", s, "incorrect date format: '%s', should be in the format DD-MM-YYYY", s)
	}
	if !d.Time().Before(models.DateOf(now).Time()) {
		return invalid("birthday", s, "birthday '%s' must be in the past", d)
	}
	return nil
}

// Criteria accepts search input made only of digits or only of letters.
func Criteria(criteria string) error {
	if criteria != "" && (allRunes(criteria, isDigit) || allRunes(criteria, isLetter)) {
		return nil
	}
	return invalid("criteria", criteria, "criteria '%s' must be only numbers or letters", criteria)
}

// Tags rejects empty and repeated tags within one note key.
func Tags(tags []string) error {
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		if strings.TrimSpace(t) == "" {
			return invalid("tag", t, "tags must not be empty")
		}
		if seen[t] {
			return invalid("tag", t, "tag '%s' is repeated", t)
		}
		seen[t] = true
	}
	return nil
}

// DaysInterval parses a non-negative day count.
func DaysInterval(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, invalid("days", s, "days interval must be a non-negative integer, but got '%s'", s)
	}
	return n, nil
}

// SortDir checks that path names an existing directory.
func SortDir(path string) error {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return invalid("dir", path, "'%s' is not an existing directory", path)
	}
	return nil
}

func allRunes(s string, pred func(rune) bool) bool {
	for _, r := range s {
		if !pred(r) {
			return false
		}
	}
	return true
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isLetter(r rune) bool { return unicode.IsLetter(r) }
