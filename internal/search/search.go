// Package search implements exact-match catalog queries over a single field.
package search

import (
	"github.com/go-ports/library/internal/models"
)

// Field names the book attribute a query is applied to.
type Field string

// Fields in priority order: when several criteria are given only the first
// populated one is applied.
const (
	FieldNone   Field = ""
	FieldTitle  Field = "title"
	FieldAuthor Field = "author"
	FieldYear   Field = "year"
)

// Criteria holds the optional search values. A nil pointer means the
// criterion was not supplied; an empty string is a supplied (and matchable)
// value.
type Criteria struct {
	Title  *string
	Author *string
	Year   *int
}

// ByTitle returns criteria matching only on title.
func ByTitle(v string) Criteria { return Criteria{Title: &v} }

// ByAuthor returns criteria matching only on author.
func ByAuthor(v string) Criteria { return Criteria{Author: &v} }

// ByYear returns criteria matching only on publication year.
func ByYear(v int) Criteria { return Criteria{Year: &v} }

// Empty reports whether no criterion was supplied.
func (c Criteria) Empty() bool {
	return c.Title == nil && c.Author == nil && c.Year == nil
}

// Field returns the criterion that will be applied: title, then author, then
// year. FieldNone is returned for empty criteria.
func (c Criteria) Field() Field {
	switch {
	case c.Title != nil:
		return FieldTitle
	case c.Author != nil:
		return FieldAuthor
	case c.Year != nil:
		return FieldYear
	}
	return FieldNone
}

// Matches reports whether b satisfies the applied criterion using
// case-sensitive exact equality. Empty criteria match nothing.
func (c Criteria) Matches(b models.Book) bool {
	switch c.Field() {
	case FieldTitle:
		return b.Title == *c.Title
	case FieldAuthor:
		return b.Author == *c.Author
	case FieldYear:
		return b.Year == *c.Year
	}
	return false
}

// Filter returns the books matching c in their original order. The result is
// never nil.
func Filter(books []models.Book, c Criteria) []models.Book {
	out := make([]models.Book, 0)
	if c.Empty() {
		return out
	}
	for _, b := range books {
		if c.Matches(b) {
			out = append(out, b)
		}
	}
	return out
}
