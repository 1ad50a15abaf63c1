// Package service implements the library service that wires together
// configuration, the catalog, the SQLite search mirror, and markdown export.
package service

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/go-ports/library/internal/catalog"
	"github.com/go-ports/library/internal/config"
	"github.com/go-ports/library/internal/db"
	"github.com/go-ports/library/internal/markdown"
	"github.com/go-ports/library/internal/models"
	"github.com/go-ports/library/internal/search"
)

// Service orchestrates all library operations. Its methods are safe for
// concurrent use; calls are serialised on a single mutex.
type Service struct {
	Config *config.Config

	catalog *catalog.Catalog
	index   *db.DB
	mu      sync.Mutex
}

// New loads the catalog named by cfg. A nil cfg is resolved with
// config.Resolve.
func New(cfg *config.Config) (*Service, error) {
	if cfg == nil {
		resolved, _, err := config.Resolve("")
		if err != nil {
			return nil, fmt.Errorf("service.New: load config: %w", err)
		}
		cfg = resolved
	}

	cat, err := catalog.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("service.New: %w", err)
	}
	return &Service{Config: cfg, catalog: cat}, nil
}

// Close releases the search mirror if it was opened.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index == nil {
		return nil
	}
	err := s.index.Close()
	s.index = nil
	return err
}

// ---------------------------------------------------------------------------
// Catalog operations
// ---------------------------------------------------------------------------

// Add creates a book and persists the catalog.
func (s *Service) Add(title, author, year string) (models.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	book, err := s.catalog.Add(title, author, year)
	if err != nil {
		return models.Book{}, err
	}
	s.syncIndex()
	return book, nil
}

// Delete removes a book by id. found is false when no such book exists.
func (s *Service) Delete(id int) (models.Book, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	book, found, err := s.catalog.Delete(id)
	if err != nil || !found {
		return book, found, err
	}
	s.syncIndex()
	return book, true, nil
}

// SetStatus changes the status of a book by id. found is false when no such
// book exists.
func (s *Service) SetStatus(id int, status string) (models.Book, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	book, found, err := s.catalog.SetStatus(id, status)
	if err != nil || !found {
		return book, found, err
	}
	s.syncIndex()
	return book, true, nil
}

// Search runs an exact-match query against the catalog.
func (s *Service) Search(crit search.Criteria) []models.Book {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.Search(crit)
}

// List returns a copy of all books in catalog order.
func (s *Service) List() []models.Book {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Get returns one book by id.
func (s *Service) Get(id int) (models.Book, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.Get(id)
}

// snapshot copies the catalog contents. Callers hold mu.
func (s *Service) snapshot() []models.Book {
	books := s.catalog.List()
	out := make([]models.Book, len(books))
	copy(out, books)
	return out
}

// ---------------------------------------------------------------------------
// Search mirror
// ---------------------------------------------------------------------------

// Find runs a case-insensitive substring query over titles and authors. The
// mirror is rebuilt first when it does not match the catalog.
func (s *Service) Find(query string, limit int) ([]models.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.openIndex()
	if err != nil {
		return nil, fmt.Errorf("Find: %w", err)
	}
	books := s.catalog.List()
	stale, err := idx.Stale(books)
	if err != nil {
		slog.Warn("Find: stale check failed", "err", err)
	}
	if stale {
		if err := idx.Rebuild(books); err != nil {
			return nil, fmt.Errorf("Find: rebuild: %w", err)
		}
	}
	return idx.Find(query, limit)
}

// Reindex rebuilds the search mirror and returns the number of books in it.
func (s *Service) Reindex() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.openIndex()
	if err != nil {
		return 0, fmt.Errorf("Reindex: %w", err)
	}
	if err := idx.Rebuild(s.catalog.List()); err != nil {
		return 0, fmt.Errorf("Reindex: %w", err)
	}
	return idx.Count()
}

// openIndex returns the mirror, opening it on first use. Callers hold mu.
func (s *Service) openIndex() (*db.DB, error) {
	if s.index != nil {
		return s.index, nil
	}
	idx, err := db.Open(s.Config.IndexPath())
	if err != nil {
		return nil, err
	}
	s.index = idx
	return idx, nil
}

// syncIndex refreshes an existing mirror after a mutation. A mirror that was
// never created is left alone; Find builds it on demand. Failures are logged
// and never fail the mutation. Callers hold mu.
func (s *Service) syncIndex() {
	if s.index == nil {
		if _, err := os.Stat(s.Config.IndexPath()); errors.Is(err, fs.ErrNotExist) {
			return
		}
	}
	idx, err := s.openIndex()
	if err != nil {
		slog.Warn("syncIndex: open", "err", err)
		return
	}
	if err := idx.Rebuild(s.catalog.List()); err != nil {
		slog.Warn("syncIndex: rebuild", "err", err)
	}
}

// ---------------------------------------------------------------------------
// Export
// ---------------------------------------------------------------------------

// Export writes the catalog as a Markdown reading list to w.
func (s *Service) Export(w io.Writer) error {
	s.mu.Lock()
	books := s.snapshot()
	s.mu.Unlock()

	if _, err := io.WriteString(w, markdown.Render(books, time.Now().UTC())); err != nil {
		return fmt.Errorf("Export: %w", err)
	}
	return nil
}
