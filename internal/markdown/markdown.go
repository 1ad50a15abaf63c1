// Package markdown renders the catalog as a Markdown reading list.
package markdown

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/go-ports/library/internal/models"
)

// frontmatter is the YAML header of an exported reading list.
type frontmatter struct {
	Generated string `yaml:"generated"`
	Total     int    `yaml:"total"`
	Available int    `yaml:"available"`
	Issued    int    `yaml:"issued"`
}

// sections lists the status headings in output order.
var sections = []struct {
	status  models.Status
	heading string
}{
	{models.StatusAvailable, "Available"},
	{models.StatusIssued, "Issued"},
}

// RenderItem produces the bullet line for one book.
func RenderItem(b models.Book) string {
	return fmt.Sprintf("- **%s** by %s (%d) - #%d", escape(b.Title), escape(b.Author), b.Year, b.ID)
}

// Render produces the full document: front-matter with counts, then one
// section per status holding the books in catalog order. Empty sections
// are omitted.
func Render(books []models.Book, now time.Time) string {
	grouped := make(map[models.Status][]models.Book, len(sections))
	for _, b := range books {
		grouped[b.Status] = append(grouped[b.Status], b)
	}

	fm := frontmatter{
		Generated: now.Format(time.RFC3339),
		Total:     len(books),
		Available: len(grouped[models.StatusAvailable]),
		Issued:    len(grouped[models.StatusIssued]),
	}
	// A struct of strings and ints always marshals.
	head, _ := yaml.Marshal(fm)

	var sb strings.Builder
	sb.WriteString("---\n")
	sb.Write(head)
	sb.WriteString("---\n\n# Library\n")

	if len(books) == 0 {
		sb.WriteString("\n_The catalog is empty._\n")
		return sb.String()
	}

	for _, sec := range sections {
		list := grouped[sec.status]
		if len(list) == 0 {
			continue
		}
		sb.WriteString("\n## ")
		sb.WriteString(sec.heading)
		sb.WriteString("\n\n")
		for _, b := range list {
			sb.WriteString(RenderItem(b))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

var mdEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	`*`, `\*`,
	`_`, `\_`,
	`[`, `\[`,
	`]`, `\]`,
	`#`, `\#`,
)

// escape backslash-escapes characters with inline Markdown meaning.
func escape(s string) string { return mdEscaper.Replace(s) }
