package document

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

var (
	// ErrUnsupportedType is returned for files that are neither PDF, DOCX nor plain text.
	ErrUnsupportedType = errors.New("unsupported file type")
	// ErrEmptyText is returned when a document decodes to blank text.
	ErrEmptyText = errors.New("could not extract text from the document")
)

// Supported lists the accepted file extensions.
var Supported = []string{".pdf", ".docx", ".txt"}

// Extract returns the plain text of a resume document. The decoder is chosen
// by the file extension.
func Extract(filename string, data []byte) (string, error) {
	var (
		text string
		err  error
	)

	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".pdf":
		text, err = extractPDF(data)
	case ".docx":
		text, err = extractDocx(data)
	case ".txt":
		text = string(data)
	default:
		return "", fmt.Errorf("%w: %q, expected one of %s", ErrUnsupportedType, ext, strings.Join(Supported, ", "))
	}

	if err != nil {
		return "", err
	}

	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyText
	}

	return text, nil
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("reading pdf: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("reading pdf page %d: %w", i, err)
		}

		b.WriteString(text)
		b.WriteString("\n")
	}

	return b.String(), nil
}

func extractDocx(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("reading docx: %w", err)
	}
	defer doc.Close()

	return stripXML(doc.Editable().GetContent()), nil
}

// stripXML turns the raw document.xml body into text: paragraphs become
// lines, tabs are kept, every other tag is dropped and entities are decoded.
func stripXML(content string) string {
	content = strings.ReplaceAll(content, "</w:p>", "\n")
	content = strings.ReplaceAll(content, "<w:tab/>", "\t")

	var b strings.Builder
	b.Grow(len(content))

	inTag := false
	for _, r := range content {
		switch {
		case r == '<':
			inTag = true
		case r == '>' && inTag:
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}

	return html.UnescapeString(b.String())
}
