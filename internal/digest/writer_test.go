package digest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notiondigest/pkg/metadata"
)

func fixedWriter(dir string, opts WriteOptions) *Writer {
	w := NewWriter(dir, opts)
	w.now = func() time.Time { return time.Date(2025, 5, 26, 9, 0, 0, 0, time.UTC) }

	return w
}

func sampleDoc() *Document {
	return &Document{
		Week:    "2025-W21",
		Content: "## tech\n\n### A\n\n[A](https://a)",
		Tags:    []string{"tech"},
		Entries: 1,
	}
}

func TestWriter_CreateThenUpdate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Notes", "Weekly")
	w := fixedWriter(dir, WriteOptions{})

	path, status, err := w.Write(sampleDoc())
	require.NoError(t, err)
	assert.Equal(t, StatusCreated, status)
	assert.Equal(t, filepath.Join(dir, "2025-W21.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sampleDoc().Content+"\n", string(data))

	doc := sampleDoc()
	doc.Content += "\n\nNew body"

	_, status, err = w.Write(doc)
	require.NoError(t, err)
	assert.Equal(t, StatusUpdated, status)

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "New body")
}

func TestWriter_Unchanged(t *testing.T) {
	w := fixedWriter(t.TempDir(), WriteOptions{FrontMatter: true, Sign: true})

	_, status, err := w.Write(sampleDoc())
	require.NoError(t, err)
	assert.Equal(t, StatusCreated, status)

	_, status, err = w.Write(sampleDoc())
	require.NoError(t, err)
	assert.Equal(t, StatusUnchanged, status)

	w.opts.Force = true
	_, status, err = w.Write(sampleDoc())
	require.NoError(t, err)
	assert.Equal(t, StatusUpdated, status)
}

func TestWriter_RenderDecorations(t *testing.T) {
	w := fixedWriter(t.TempDir(), WriteOptions{FrontMatter: true, Sign: true})

	out, err := w.Render(sampleDoc())
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(out, "---\n"))

	meta, err := metadata.Verify(out)
	require.NoError(t, err)
	assert.Equal(t, "2025-W21", meta.Week)
	assert.Equal(t, 1, meta.Entries)

	_, clean := metadata.Extract(out)
	fm, body, err := SplitFrontMatter(clean)
	require.NoError(t, err)
	require.NotNil(t, fm)
	assert.Equal(t, "2025-W21", fm.Week)
	assert.Equal(t, 1, fm.Entries)
	assert.Equal(t, []string{"tech"}, fm.Tags)
	assert.True(t, fm.GeneratedAt.Equal(w.now()))
	assert.Equal(t, sampleDoc().Content, strings.TrimSpace(body))
}

func TestSplitFrontMatter_None(t *testing.T) {
	fm, body, err := SplitFrontMatter("## tech")
	require.NoError(t, err)
	assert.Nil(t, fm)
	assert.Equal(t, "## tech", body)
}

func TestWriter_OptionChangesRewriteFile(t *testing.T) {
	dir := t.TempDir()

	path, status, err := fixedWriter(dir, WriteOptions{}).Write(sampleDoc())
	require.NoError(t, err)
	assert.Equal(t, StatusCreated, status)

	decorated := fixedWriter(dir, WriteOptions{Sign: true, FrontMatter: true})

	_, status, err = decorated.Write(sampleDoc())
	require.NoError(t, err)
	assert.Equal(t, StatusUpdated, status)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "---\n"))

	_, err = metadata.Verify(string(data))
	require.NoError(t, err)

	// Same options again: only the timestamps would change.
	decorated.now = func() time.Time { return time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC) }

	_, status, err = decorated.Write(sampleDoc())
	require.NoError(t, err)
	assert.Equal(t, StatusUnchanged, status)

	_, status, err = fixedWriter(dir, WriteOptions{}).Write(sampleDoc())
	require.NoError(t, err)
	assert.Equal(t, StatusUpdated, status)

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sampleDoc().Content+"\n", string(data))
}

func TestWriter_StaleDecorationsRewriteFile(t *testing.T) {
	tests := []struct {
		name   string
		opts   WriteOptions
		mutate func(string) string
	}{
		{
			name: "signature no longer matches",
			opts: WriteOptions{Sign: true},
			mutate: func(s string) string {
				return strings.Replace(s, "HASH: ", "HASH: 0", 1)
			},
		},
		{
			name: "front matter entry count differs",
			opts: WriteOptions{FrontMatter: true},
			mutate: func(s string) string {
				return strings.Replace(s, "entries: 1", "entries: 7", 1)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := fixedWriter(t.TempDir(), tt.opts)

			path, _, err := w.Write(sampleDoc())
			require.NoError(t, err)

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			require.NoError(t, os.WriteFile(path, []byte(tt.mutate(string(data))), 0o644))

			_, status, err := w.Write(sampleDoc())
			require.NoError(t, err)
			assert.Equal(t, StatusUpdated, status)
		})
	}
}
