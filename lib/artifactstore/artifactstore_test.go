package artifactstore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitizeIllegalCharacters(t *testing.T) {
	out := Sanitize(`Dr: Ada/Lovelace\*`)
	require.NotContains(t, out, ":")
	require.NotContains(t, out, "/")
	require.NotContains(t, out, `\`)
	require.NotContains(t, out, "*")
}

func TestSanitizeCollapsesWhitespace(t *testing.T) {
	require.Equal(t, "a b c", Sanitize("a \t b\n\nc"))
}

func TestSanitizeCollapsesDotRuns(t *testing.T) {
	require.Equal(t, "a.b", Sanitize("a...b"))
}

func TestSanitizeTruncates(t *testing.T) {
	out := Sanitize(strings.Repeat("x", 400))
	require.Len(t, out, 180)
}

func TestSaveSkipsExistingFile(t *testing.T) {
	dir := t.TempDir()

	skipped, err := Save(dir, "paper.txt", "original")
	require.NoError(t, err)
	require.False(t, skipped)

	skipped, err = Save(dir, "paper.txt", "overwrite attempt")
	require.NoError(t, err)
	require.True(t, skipped)

	content, err := os.ReadFile(filepath.Join(dir, "paper.txt"))
	require.NoError(t, err)
	require.Equal(t, "original", string(content))
}

func TestSaveCreatesParentDirectories(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "deeper")

	skipped, err := Save(dir, "doc.txt", "hello")
	require.NoError(t, err)
	require.False(t, skipped)

	content, err := os.ReadFile(filepath.Join(dir, "doc.txt"))
	require.NoError(t, err)
	require.Equal(t, "hello", string(content))
}

func TestDeriveTitle(t *testing.T) {
	title := DeriveTitle(
		"<html><head><title>  Attention Is All You Need </title></head><body></body></html>",
		"https://example.org/paper.pdf",
	)
	require.Equal(t, "Attention Is All You Need", title)
}

func TestDeriveTitleFallsBackToURL(t *testing.T) {
	title := DeriveTitle("<html><head></head><body></body></html>", "https://example.org/papers/attention")
	require.Equal(t, "attention", title)
}

func TestDeriveTitleFallsBackToHost(t *testing.T) {
	title := DeriveTitle("", "https://example.org/")
	require.Equal(t, "example.org", title)
}
