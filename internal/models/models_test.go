package models_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/library/internal/models"
)

func TestParseStatus_HappyPath(t *testing.T) {
	c := qt.New(t)

	tests := []struct {
		in   string
		want models.Status
	}{
		{"available", models.StatusAvailable},
		{"issued", models.StatusIssued},
	}
	for _, tt := range tests {
		c.Run(tt.in, func(c *qt.C) {
			got, err := models.ParseStatus(tt.in)
			c.Assert(err, qt.IsNil)
			c.Assert(got, qt.Equals, tt.want)
			c.Assert(got.String(), qt.Equals, tt.in)
		})
	}
}

func TestParseStatus_FailurePath(t *testing.T) {
	c := qt.New(t)

	for _, in := range []string{"", "Available", "ISSUED", "lost", " issued"} {
		c.Run(in, func(c *qt.C) {
			_, err := models.ParseStatus(in)
			c.Assert(err, qt.ErrorIs, models.ErrUnknownStatus)
		})
	}
}

func TestStatusValues(t *testing.T) {
	c := qt.New(t)

	c.Assert(models.StatusValues(), qt.DeepEquals, []string{"available", "issued"})

	// Callers must not be able to mutate the canonical names.
	vals := models.StatusValues()
	vals[0] = "changed"
	c.Assert(models.StatusAvailable.String(), qt.Equals, "available")
}

func TestStatus_InvalidValue(t *testing.T) {
	c := qt.New(t)

	s := models.Status(7)
	c.Assert(s.Valid(), qt.IsFalse)
	c.Assert(s.String(), qt.Equals, "Status(7)")
}

func TestNewBook_DefaultsToAvailable(t *testing.T) {
	c := qt.New(t)

	b := models.NewBook(1, "Dune", "Herbert", 1965)
	c.Assert(b.Status, qt.Equals, models.StatusAvailable)

	issued := b.WithStatus(models.StatusIssued)
	c.Assert(issued.Status, qt.Equals, models.StatusIssued)
	c.Assert(b.Status, qt.Equals, models.StatusAvailable)
	c.Assert(issued.ID, qt.Equals, b.ID)
}

func TestRecord(t *testing.T) {
	c := qt.New(t)

	b := models.NewBook(3, "Solaris", "Lem", 1961).WithStatus(models.StatusIssued)
	r := b.Record()
	c.Assert(r, qt.DeepEquals, models.Record{ID: 3, Title: "Solaris", Author: "Lem", Year: 1961, Status: "issued"})

	back, err := r.Book()
	c.Assert(err, qt.IsNil)
	c.Assert(back, qt.DeepEquals, b)

	r.Status = "lost"
	_, err = r.Book()
	c.Assert(err, qt.ErrorIs, models.ErrUnknownStatus)
}

func TestBook_String(t *testing.T) {
	c := qt.New(t)

	b := models.NewBook(1, "Dune", "Herbert", 1965)
	c.Assert(b.String(), qt.Equals, `Book(id=1, title="Dune", author="Herbert", year=1965, status=available)`)
}
