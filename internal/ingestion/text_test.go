package ingestion

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanText_PreserveMarkdownHeadings(t *testing.T) {
	input := "# Title\n## Subtitle\nContent here"
	result := CleanText(input)

	assert.Contains(t, result, "# Title")
	assert.Contains(t, result, "## Subtitle")
	assert.Contains(t, result, "Content here")
}

func TestCleanText_PreserveBulletLists(t *testing.T) {
	input := "- Item 1\n- Item 2\n* Item 3"
	result := CleanText(input)

	assert.Contains(t, result, "- Item 1")
	assert.Contains(t, result, "- Item 2")
	assert.Contains(t, result, "* Item 3")
}

func TestCleanText_NormalizeWhitespace(t *testing.T) {
	input := "Line    with    multiple    spaces"
	result := CleanText(input)

	assert.Contains(t, result, "Line with multiple spaces")
	assert.NotContains(t, result, "    ") // Should not have 4 spaces
}

func TestCleanText_RemoveExcessiveBlankLines(t *testing.T) {
	input := "Line 1\n\n\n\n\nLine 2"
	result := CleanText(input)

	// Should have max 2 consecutive newlines
	assert.NotContains(t, result, "\n\n\n\n")
	// But should preserve up to 2
	assert.Contains(t, result, "\n\n")
}

func TestCleanText_NormalizeLineEndings(t *testing.T) {
	input := "Line 1\r\nLine 2\rLine 3\nLine 4"
	result := CleanText(input)

	// All should be normalized to LF
	assert.NotContains(t, result, "\r\n")
	assert.NotContains(t, result, "\r")
	assert.Contains(t, result, "\n")
}

func TestCleanText_DeterministicOutput(t *testing.T) {
	input := "Test content   with   spaces\n\n\nMultiple   blank   lines"
	result1 := CleanText(input)
	result2 := CleanText(input)

	// Same input should produce identical output
	assert.Equal(t, result1, result2)
}

func TestCleanText_EmptyInput(t *testing.T) {
	result := CleanText("")
	assert.Empty(t, result)
}

func TestCleanText_OnlyWhitespace(t *testing.T) {
	result := CleanText("   \n  \n  ")
	assert.Empty(t, result)
}

func TestCleanText_SpecialCharacters(t *testing.T) {
	input := "Test with émojis 🚀 and spéciàl chàracters"
	result := CleanText(input)

	assert.Contains(t, result, "émojis")
	assert.Contains(t, result, "🚀")
	assert.Contains(t, result, "spéciàl chàracters")
}

func TestCleanText_PreserveIndentation(t *testing.T) {
	input := "    Indented line\n  Less indented"
	result := CleanText(input)

	// Should preserve relative indentation
	assert.Contains(t, result, "Indented")
	assert.Contains(t, result, "Less indented")
}

func TestCleanText_PreserveUnicodeBullets(t *testing.T) {
	result := CleanText("• Led   migration\n  · Mentored two engineers")

	assert.Contains(t, result, "• Led   migration")
	assert.Contains(t, result, "  · Mentored two engineers")
}

func TestCleanText_DropsNulBytes(t *testing.T) {
	assert.Equal(t, "Jane Doe", CleanText("Jane\x00 Doe"))
}

func TestIngestFromFile_Success(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "resume.txt")
	err := os.WriteFile(testFile, []byte("# Jane Doe\n\nSoftware   engineer"), 0644)
	require.NoError(t, err)

	doc, err := IngestFromFile(testFile)
	require.NoError(t, err)

	assert.Equal(t, "resume.txt", doc.Filename)
	assert.Equal(t, FormatText, doc.Format)
	assert.Equal(t, "# Jane Doe\n\nSoftware engineer", doc.Text)
	assert.Len(t, doc.Metadata.Hash, 64)
	assert.NotEmpty(t, doc.Metadata.Timestamp)
}

func TestIngestFromFile_FileNotFound(t *testing.T) {
	doc, err := IngestFromFile("/nonexistent/file.txt")

	assert.Error(t, err)
	assert.Nil(t, doc)
	assert.Contains(t, err.Error(), "file not found")
}

func TestIngestFromFile_HashUniqueness(t *testing.T) {
	tmpDir := t.TempDir()

	testFile1 := filepath.Join(tmpDir, "test1.txt")
	testFile2 := filepath.Join(tmpDir, "test2.txt")

	require.NoError(t, os.WriteFile(testFile1, []byte("Content 1"), 0644))
	require.NoError(t, os.WriteFile(testFile2, []byte("Content 2"), 0644))

	doc1, err := IngestFromFile(testFile1)
	require.NoError(t, err)
	doc1Again, err := IngestFromFile(testFile1)
	require.NoError(t, err)
	doc2, err := IngestFromFile(testFile2)
	require.NoError(t, err)

	assert.Equal(t, doc1.Metadata.Hash, doc1Again.Metadata.Hash)
	assert.NotEqual(t, doc1.Metadata.Hash, doc2.Metadata.Hash)
}
