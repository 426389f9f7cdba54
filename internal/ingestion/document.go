// Package ingestion turns uploaded résumé files into plain text.
package ingestion

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// MaxFileSize is the largest upload accepted, in bytes.
const MaxFileSize = 10 << 20

// Format is a supported upload format.
type Format string

// Format constants
const (
	FormatText Format = "txt"
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

// ErrNoText is returned when a readable file yields no text.
var ErrNoText = errors.New("no readable text in document")

// UnsupportedFormatError reports an upload that is not txt, pdf or docx, or
// that could not be parsed as its declared format.
type UnsupportedFormatError struct {
	Filename string
	Message  string
	Cause    error
}

func (e *UnsupportedFormatError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("unsupported file %q: %s: %v", e.Filename, e.Message, e.Cause)
	}
	return fmt.Sprintf("unsupported file %q: %s", e.Filename, e.Message)
}

func (e *UnsupportedFormatError) Unwrap() error {
	return e.Cause
}

// Document is an ingested upload.
type Document struct {
	Filename string
	Format   Format
	Text     string
	Metadata *Metadata
}

var (
	pdfMagic  = []byte("%PDF-")
	zipMagic  = []byte("PK\x03\x04")
	xmlTagRe  = regexp.MustCompile(`<[^>]+>`)
	paraEndRe = regexp.MustCompile(`</w:p>|<w:br[^>]*/>|<w:cr[^>]*/>`)
	tabRe     = regexp.MustCompile(`<w:tab[^>]*/>`)
)

// DetectFormat picks the format from the file extension, falling back to the
// leading bytes when the extension is missing or unknown.
func DetectFormat(filename string, data []byte) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt", ".text", ".md":
		return FormatText, nil
	case ".pdf":
		return FormatPDF, nil
	case ".docx":
		return FormatDOCX, nil
	}

	switch {
	case bytes.HasPrefix(data, pdfMagic):
		return FormatPDF, nil
	case bytes.HasPrefix(data, zipMagic):
		return FormatDOCX, nil
	case filepath.Ext(filename) == "" && utf8.Valid(data):
		return FormatText, nil
	}
	return "", &UnsupportedFormatError{Filename: filename, Message: "expected PDF, DOCX or TXT"}
}

// Extract reads the text of an uploaded file.
func Extract(filename string, data []byte) (*Document, error) {
	if len(data) > MaxFileSize {
		return nil, &UnsupportedFormatError{
			Filename: filename,
			Message:  fmt.Sprintf("file exceeds %d bytes", MaxFileSize),
		}
	}

	format, err := DetectFormat(filename, data)
	if err != nil {
		return nil, err
	}

	var text string
	switch format {
	case FormatText:
		if !utf8.Valid(data) {
			return nil, &UnsupportedFormatError{Filename: filename, Message: "text file is not valid UTF-8"}
		}
		text = string(data)
	case FormatPDF:
		text, err = extractPDFText(data)
	case FormatDOCX:
		text, err = extractDocxText(data)
	}
	if err != nil {
		return nil, &UnsupportedFormatError{Filename: filename, Message: "failed to read " + string(format), Cause: err}
	}

	text = CleanText(text)
	if text == "" {
		return nil, ErrNoText
	}

	return &Document{
		Filename: filename,
		Format:   format,
		Text:     text,
		Metadata: NewMetadata(filename, format, data),
	}, nil
}

// ExtractText is Extract returning only the text.
func ExtractText(filename string, data []byte) (string, error) {
	doc, err := Extract(filename, data)
	if err != nil {
		return "", err
	}
	return doc.Text, nil
}

func extractPDFText(data []byte) (text string, err error) {
	// The PDF reader panics on some malformed cross-reference tables
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(pageText)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer func() { _ = doc.Close() }()

	return docxXMLToText(doc.Editable().GetContent()), nil
}

// docxXMLToText flattens WordprocessingML into lines of text.
func docxXMLToText(content string) string {
	content = paraEndRe.ReplaceAllString(content, "\n")
	content = tabRe.ReplaceAllString(content, "\t")
	content = xmlTagRe.ReplaceAllString(content, "")
	return html.UnescapeString(content)
}
