// Package models defines the core data types for the library catalog.
package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownStatus is returned when a string does not name a known Status.
var ErrUnknownStatus = errors.New("unknown status")

// Status is the availability state of a book.
type Status uint8

const (
	// StatusAvailable is the default state of a newly added book.
	StatusAvailable Status = iota
	// StatusIssued marks a book as lent out.
	StatusIssued
)

// statusNames holds the canonical display string of every Status, indexed by
// value. The same strings are written to the catalog file.
var statusNames = [...]string{
	StatusAvailable: "available",
	StatusIssued:    "issued",
}

// StatusValues returns the canonical strings of all statuses in declaration order.
func StatusValues() []string {
	out := make([]string, len(statusNames))
	copy(out, statusNames[:])
	return out
}

// String returns the canonical display string.
func (s Status) String() string {
	if s.Valid() {
		return statusNames[s]
	}
	return fmt.Sprintf("Status(%d)", uint8(s))
}

// Valid reports whether s is one of the declared statuses.
func (s Status) Valid() bool { return int(s) < len(statusNames) }

// ParseStatus maps a canonical display string back to its Status.
// Matching is exact; any other string yields ErrUnknownStatus.
func ParseStatus(v string) (Status, error) {
	for i, name := range statusNames {
		if name == v {
			return Status(i), nil
		}
	}
	return 0, fmt.Errorf("%w %q: must be one of %s", ErrUnknownStatus, v, strings.Join(statusNames[:], ", "))
}

// Book is a single catalog entry. Only Status changes after construction.
type Book struct {
	ID     int
	Title  string
	Author string
	Year   int
	Status Status
}

// NewBook returns an available book with the given fields.
func NewBook(id int, title, author string, year int) Book {
	return Book{ID: id, Title: title, Author: author, Year: year, Status: StatusAvailable}
}

// WithStatus returns a copy of b with its status replaced.
func (b Book) WithStatus(s Status) Book {
	b.Status = s
	return b
}

// Record returns the persisted form of b.
func (b Book) Record() Record {
	return Record{
		ID:     b.ID,
		Title:  b.Title,
		Author: b.Author,
		Year:   b.Year,
		Status: b.Status.String(),
	}
}

// String renders b the way the CLI logs it.
func (b Book) String() string {
	return fmt.Sprintf("Book(id=%d, title=%q, author=%q, year=%d, status=%s)",
		b.ID, b.Title, b.Author, b.Year, b.Status)
}

// Record is one element of the catalog file. Status holds the canonical
// display string rather than the numeric value.
type Record struct {
	ID     int    `json:"id" yaml:"id"`
	Title  string `json:"title" yaml:"title"`
	Author string `json:"author" yaml:"author"`
	Year   int    `json:"year" yaml:"year"`
	Status string `json:"status" yaml:"status"`
}

// Book converts r back into a Book, rejecting unknown status strings.
func (r Record) Book() (Book, error) {
	s, err := ParseStatus(r.Status)
	if err != nil {
		return Book{}, err
	}
	return Book{ID: r.ID, Title: r.Title, Author: r.Author, Year: r.Year, Status: s}, nil
}

// Records converts books into their persisted form, preserving order.
func Records(books []Book) []Record {
	out := make([]Record, len(books))
	for i, b := range books {
		out[i] = b.Record()
	}
	return out
}
