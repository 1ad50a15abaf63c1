package shared

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/go-ports/library/internal/models"
)

// Output formats accepted by --format.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatText = "text"
)

var formats = []string{FormatJSON, FormatYAML, FormatText}

// CheckFormat rejects anything other than the supported output formats.
func CheckFormat(format string) error {
	if slices.Contains(formats, format) {
		return nil
	}
	return fmt.Errorf("invalid format %q: must be one of %s", format, strings.Join(formats, ", "))
}

// FormatUsage is the help text shared by every --format flag.
func FormatUsage() string {
	return "Output format: " + strings.Join(formats, " | ")
}

// RecordJSON renders one book as a single-line JSON object.
func RecordJSON(b models.Book) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(b.Record()); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// WriteBooks prints books to w in the requested format. The json format
// prints one object per line; yaml prints a single sequence.
func WriteBooks(w io.Writer, format string, books []models.Book) error {
	switch format {
	case FormatJSON:
		for _, b := range books {
			line, err := RecordJSON(b)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, line)
		}
	case FormatYAML:
		if len(books) == 0 {
			return nil
		}
		out, err := yaml.Marshal(models.Records(books))
		if err != nil {
			return err
		}
		fmt.Fprint(w, string(out))
	case FormatText:
		for _, b := range books {
			fmt.Fprintln(w, b.String())
		}
	default:
		return CheckFormat(format)
	}
	return nil
}
