package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/go-ports/library/internal/models"
)

// fileRecord mirrors models.Record with pointer fields so that absent keys
// can be told apart from zero values.
type fileRecord struct {
	ID     *int    `json:"id"`
	Title  *string `json:"title"`
	Author *string `json:"author"`
	Year   *int    `json:"year"`
	Status *string `json:"status"`
}

// read loads and validates every record of the backing file.
func (c *Catalog) read() ([]models.Book, error) {
	data, err := os.ReadFile(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Info("catalog empty", "path", c.path)
		return make([]models.Book, 0), nil
	}
	if err != nil {
		return nil, fmt.Errorf("catalog.Open: %w", err)
	}
	books, err := decode(c.path, data)
	if err != nil {
		return nil, fmt.Errorf("catalog.Open: %w", err)
	}
	slog.Debug("catalog loaded", "path", c.path, "books", len(books))
	return books, nil
}

// decode turns the file contents into books. The first bad record aborts
// decoding; no record is ever skipped.
func decode(path string, data []byte) ([]models.Book, error) {
	if !utf8.Valid(data) {
		return nil, &RecordError{Path: path, Index: -1, Field: "encoding", Err: errEncoding}
	}
	var raw []fileRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &RecordError{Path: path, Index: -1, Field: "json", Err: err}
	}

	books := make([]models.Book, 0, len(raw))
	seen := make(map[int]struct{}, len(raw))
	for i, r := range raw {
		b, err := r.book()
		if err != nil {
			var re *RecordError
			if errors.As(err, &re) {
				re.Path, re.Index = path, i
			}
			return nil, err
		}
		if _, dup := seen[b.ID]; dup {
			return nil, &RecordError{Path: path, Index: i, Field: "id", Err: fmt.Errorf("%w %d", errDuplicate, b.ID)}
		}
		seen[b.ID] = struct{}{}
		books = append(books, b)
	}
	return books, nil
}

func (r fileRecord) book() (models.Book, error) {
	bad := func(field string, err error) (models.Book, error) {
		return models.Book{}, &RecordError{Field: field, Err: err}
	}
	switch {
	case r.ID == nil:
		return bad("id", errMissing)
	case *r.ID <= 0:
		return bad("id", errNotPos)
	case r.Title == nil:
		return bad("title", errMissing)
	case strings.TrimSpace(*r.Title) == "":
		return bad("title", errRequired)
	case r.Author == nil:
		return bad("author", errMissing)
	case strings.TrimSpace(*r.Author) == "":
		return bad("author", errRequired)
	case r.Year == nil:
		return bad("year", errMissing)
	case r.Status == nil:
		return bad("status", errMissing)
	}
	s, err := models.ParseStatus(*r.Status)
	if err != nil {
		return bad("status", err)
	}
	return models.Book{ID: *r.ID, Title: *r.Title, Author: *r.Author, Year: *r.Year, Status: s}, nil
}

// encode renders books as an indented JSON array terminated by a newline.
func encode(books []models.Book) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(models.Records(books)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// write replaces the backing file with books. The new content goes to a
// temporary file in the same directory which is then renamed over the
// target.
func (c *Catalog) write(books []models.Book) error {
	data, err := encode(books)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(c.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", c.path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", c.path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil { // #nosec G302 -- the catalog holds no secrets
		return fmt.Errorf("chmod %s: %w", c.path, err)
	}
	if err := os.Rename(tmpName, c.path); err != nil {
		return fmt.Errorf("replace %s: %w", c.path, err)
	}
	slog.Debug("catalog saved", "path", c.path, "books", len(books))
	return nil
}
