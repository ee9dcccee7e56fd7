package digest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"notiondigest/pkg/metadata"
)

// WriteStatus reports what Write did to the output file.
type WriteStatus string

// Write outcomes.
const (
	StatusCreated   WriteStatus = "created"
	StatusUpdated   WriteStatus = "updated"
	StatusUnchanged WriteStatus = "unchanged"
)

// WriteOptions select the optional decorations around the digest body.
type WriteOptions struct {
	Sign        bool
	FrontMatter bool
	// Force rewrites the file even when its body is unchanged.
	Force bool
}

// Writer stores digests as <dir>/<week>.md.
type Writer struct {
	now  func() time.Time
	dir  string
	opts WriteOptions
}

// NewWriter creates a writer rooted at dir.
func NewWriter(dir string, opts WriteOptions) *Writer {
	return &Writer{
		now:  time.Now,
		dir:  dir,
		opts: opts,
	}
}

// Path returns where the digest for week is written.
func (w *Writer) Path(week string) string {
	return filepath.Join(w.dir, FileName(week))
}

// Write creates the output directory if needed and writes doc, overwriting any previous digest.
// A file that already matches doc and the current options is left alone.
func (w *Writer) Write(doc *Document) (string, WriteStatus, error) {
	path := w.Path(doc.Week)

	if w.dir != "" {
		if err := os.MkdirAll(w.dir, 0o755); err != nil {
			return path, "", fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	status := StatusCreated

	existing, err := os.ReadFile(path)
	switch {
	case err == nil:
		status = StatusUpdated

		if !w.opts.Force && w.upToDate(string(existing), doc) {
			return path, StatusUnchanged, nil
		}
	case !errors.Is(err, fs.ErrNotExist):
		return path, "", fmt.Errorf("failed to read existing digest: %w", err)
	}

	rendered, err := w.Render(doc)
	if err != nil {
		return path, "", err
	}

	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return path, "", fmt.Errorf("failed to write digest: %w", err)
	}

	return path, status, nil
}

// Render returns the file contents for doc with the configured decorations.
func (w *Writer) Render(doc *Document) (string, error) {
	out := doc.Content
	now := w.now()

	if w.opts.FrontMatter {
		header, err := RenderFrontMatter(FrontMatter{
			GeneratedAt: now.UTC(),
			Week:        doc.Week,
			Tags:        doc.Tags,
			Entries:     doc.Entries,
		})
		if err != nil {
			return "", err
		}

		out = header + out
	}

	if w.opts.Sign {
		out = metadata.SignAt(out, metadata.Metadata{Week: doc.Week, Entries: doc.Entries}, now)
	}

	return out + "\n", nil
}

// upToDate reports whether existing already holds doc rendered with the current options.
// Only the generation timestamps may differ.
func (w *Writer) upToDate(existing string, doc *Document) bool {
	meta, clean := metadata.Extract(existing)
	if (meta != nil) != w.opts.Sign {
		return false
	}

	if meta != nil {
		if _, err := metadata.Verify(existing); err != nil {
			return false
		}

		if meta.Week != doc.Week || meta.Entries != doc.Entries {
			return false
		}
	}

	fm, body, err := SplitFrontMatter(clean)
	if err != nil || (fm != nil) != w.opts.FrontMatter {
		return false
	}

	if fm != nil && (fm.Week != doc.Week || fm.Entries != doc.Entries || !slices.Equal(fm.Tags, doc.Tags)) {
		return false
	}

	return strings.TrimSpace(body) == strings.TrimSpace(doc.Content)
}
