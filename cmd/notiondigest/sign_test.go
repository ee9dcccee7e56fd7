package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notiondigest/pkg/metadata"
)

const sampleDigest = "## tech\n\n### A\n\n[A](https://a)\n\n| k | v |\n| - | - |\n| long key | 1 |\n"

func TestSign_ThenVerify(t *testing.T) {
	env := newTestEnv(t, "http://127.0.0.1:0", "key")

	path := filepath.Join(t.TempDir(), "2025-W21.md")
	require.NoError(t, os.WriteFile(path, []byte(sampleDigest), 0o644))

	out, _, err := execute(t, "--config", env.cfgPath, "sign", path)
	require.NoError(t, err)
	assert.Equal(t, path+" signed\n", out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	meta, err := metadata.Verify(string(data))
	require.NoError(t, err)
	assert.Equal(t, "2025-W21", meta.Week)
	assert.Equal(t, 1, meta.Entries)

	out, _, err = execute(t, "--config", env.cfgPath, "verify", path)
	require.NoError(t, err)
	assert.Contains(t, out, "1 entries in 1 groups (signed)")
}

func TestSign_RejectsInvalidDigest(t *testing.T) {
	env := newTestEnv(t, "http://127.0.0.1:0", "key")

	path := filepath.Join(t.TempDir(), "bad.md")
	require.NoError(t, os.WriteFile(path, []byte("just text\n"), 0o644))

	_, _, err := execute(t, "--config", env.cfgPath, "sign", path)
	require.Error(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "just text\n", string(data), "file left untouched")
}

func TestFormat_DryRunThenWriteKeepsSignatureValid(t *testing.T) {
	env := newTestEnv(t, "http://127.0.0.1:0", "key")

	dir := t.TempDir()
	path := filepath.Join(dir, "2025-W21.md")
	signed := metadata.Sign(sampleDigest, metadata.Metadata{Week: "2025-W21", Entries: 1})
	require.NoError(t, os.WriteFile(path, []byte(signed+"\n"), 0o644))

	out, _, err := execute(t, "--config", env.cfgPath, "format", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "would format "+path)
	assert.Contains(t, out, "1 scanned, 1 changed")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, signed+"\n", string(data), "dry run does not write")

	out, _, err = execute(t, "--config", env.cfgPath, "format", "--write", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "formatted "+path)

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "| long key | 1   |")

	meta, err := metadata.Verify(string(data))
	require.NoError(t, err)
	assert.Equal(t, "2025-W21", meta.Week)

	out, _, err = execute(t, "--config", env.cfgPath, "format", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "1 scanned, 0 changed")
}
