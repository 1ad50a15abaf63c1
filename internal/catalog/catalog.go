// Package catalog implements the in-memory book catalog backed by a JSON file.
//
// A Catalog is loaded once, mutated by its methods, and rewritten in full
// after every successful mutation. It is not safe for concurrent use and
// takes no file lock; concurrent processes race on the file.
package catalog

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/go-ports/library/internal/config"
	"github.com/go-ports/library/internal/models"
	"github.com/go-ports/library/internal/search"
)

// Catalog is an ordered collection of books plus the set of their ids.
// ids always holds exactly the ID of every element of books.
type Catalog struct {
	path  string
	books []models.Book
	ids   map[int]struct{}
}

// Open loads the catalog file named by cfg.File. A missing file yields an
// empty catalog. Any record that cannot be decoded aborts the load with an
// error matching ErrMalformedRecord.
func Open(cfg *config.Config) (*Catalog, error) {
	if cfg == nil || strings.TrimSpace(cfg.File) == "" {
		return nil, errors.New("catalog.Open: no catalog file configured")
	}
	c := &Catalog{path: cfg.File}
	books, err := c.read()
	if err != nil {
		return nil, err
	}
	c.setBooks(books)
	return c, nil
}

// Path returns the backing file path.
func (c *Catalog) Path() string { return c.path }

// List returns the books in catalog order. The slice is shared with the
// catalog and must not be modified.
func (c *Catalog) List() []models.Book { return c.books }

// Get returns the book with the given id.
func (c *Catalog) Get(id int) (models.Book, bool) {
	if _, ok := c.ids[id]; !ok {
		return models.Book{}, false
	}
	return c.books[c.index(id)], true
}

// Add appends a new available book and persists the catalog. year must parse
// as an integer; title and author must not be blank.
func (c *Catalog) Add(title, author, year string) (models.Book, error) {
	if strings.TrimSpace(title) == "" {
		return models.Book{}, &InputError{Field: "title", Value: title, Err: errRequired}
	}
	if strings.TrimSpace(author) == "" {
		return models.Book{}, &InputError{Field: "author", Value: author, Err: errRequired}
	}
	y, err := ParseYear(year)
	if err != nil {
		return models.Book{}, err
	}

	id, err := c.nextID()
	if err != nil {
		return models.Book{}, fmt.Errorf("catalog.Add: %w", err)
	}
	book := models.NewBook(id, title, author, y)
	next := make([]models.Book, 0, len(c.books)+1)
	next = append(next, c.books...)
	next = append(next, book)
	if err := c.commit(next); err != nil {
		return models.Book{}, fmt.Errorf("catalog.Add: %w", err)
	}
	return book, nil
}

// Delete removes the book with the given id and persists the catalog.
// An unknown id is not an error: found is false and nothing is written.
func (c *Catalog) Delete(id int) (book models.Book, found bool, err error) {
	if _, ok := c.ids[id]; !ok {
		slog.Info("book not found", "id", id)
		return models.Book{}, false, nil
	}
	i := c.index(id)
	book = c.books[i]
	if err := c.commit(without(c.books, i)); err != nil {
		return models.Book{}, true, fmt.Errorf("catalog.Delete: %w", err)
	}
	return book, true, nil
}

// Search returns the books matching the first populated criterion (title,
// then author, then year) by exact equality. Empty criteria return an empty,
// non-nil result.
func (c *Catalog) Search(crit search.Criteria) []models.Book {
	if crit.Empty() {
		slog.Info("nothing found")
	}
	return search.Filter(c.books, crit)
}

// SetStatus replaces the status of the book with the given id. The book is
// moved to the end of the catalog, as if deleted and added again with the
// same id. An unknown id is not an error: found is false and nothing is
// written. status must be a canonical status string.
func (c *Catalog) SetStatus(id int, status string) (book models.Book, found bool, err error) {
	s, err := models.ParseStatus(status)
	if err != nil {
		return models.Book{}, false, &InputError{Field: "status", Value: status, Err: err}
	}
	if _, ok := c.ids[id]; !ok {
		slog.Info("book not found", "id", id)
		return models.Book{}, false, nil
	}
	i := c.index(id)
	book = c.books[i].WithStatus(s)
	next := append(without(c.books, i), book)
	if err := c.commit(next); err != nil {
		return models.Book{}, true, fmt.Errorf("catalog.SetStatus: %w", err)
	}
	return book, true, nil
}

// Save rewrites the whole catalog file.
func (c *Catalog) Save() error {
	return c.write(c.books)
}

// ParseYear parses a publication year supplied as text.
func ParseYear(v string) (int, error) {
	y, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, &InputError{Field: "year", Value: v, Err: errNotInt}
	}
	return y, nil
}

// ParseID parses a book id supplied as text.
func ParseID(v string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, &InputError{Field: "id", Value: v, Err: errNotInt}
	}
	return id, nil
}

// ---------------------------------------------------------------------------
// internal helpers
// ---------------------------------------------------------------------------

// nextID is one more than the largest id in use, or 1 for an empty catalog.
func (c *Catalog) nextID() (int, error) {
	highest := 0
	for id := range c.ids {
		if id > highest {
			highest = id
		}
	}
	if highest == math.MaxInt {
		return 0, ErrIDsExhausted
	}
	return highest + 1, nil
}

// index returns the position of id, which must be present.
func (c *Catalog) index(id int) int {
	for i, b := range c.books {
		if b.ID == id {
			return i
		}
	}
	panic(fmt.Sprintf("catalog: id %d in id set but not in books", id))
}

// commit persists books and, only once the write succeeded, makes them the
// catalog contents.
func (c *Catalog) commit(books []models.Book) error {
	if err := c.write(books); err != nil {
		return err
	}
	c.setBooks(books)
	return nil
}

func (c *Catalog) setBooks(books []models.Book) {
	c.books = books
	c.ids = make(map[int]struct{}, len(books))
	for _, b := range books {
		c.ids[b.ID] = struct{}{}
	}
}

// without returns a copy of books with element i removed.
func without(books []models.Book, i int) []models.Book {
	out := make([]models.Book, 0, len(books))
	out = append(out, books[:i]...)
	return append(out, books[i+1:]...)
}
