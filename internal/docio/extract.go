package docio

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	godocx "github.com/fumiama/go-docx"
	"github.com/ledongthuc/pdf"
)

// Extract pulls plain text from a template document of the given format.
// The result preserves paragraph breaks; an effectively empty result is an error.
func Extract(data []byte, f Format) (string, error) {
	var (
		text string
		err  error
	)
	switch f {
	case FormatDOCX:
		text, err = extractDOCX(data)
	case FormatPDF:
		text, err = extractPDF(data)
	case FormatTXT, FormatMD:
		text, err = extractText(data)
	default:
		return "", ErrUnsupportedFormat
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyDocument
	}
	return text, nil
}

// extractDOCX walks the document body and stringifies paragraphs and tables.
func extractDOCX(data []byte) (string, error) {
	doc, err := godocx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse docx: %w", err)
	}

	var sb strings.Builder
	for _, item := range doc.Document.Body.Items {
		switch item.(type) {
		case *godocx.Paragraph, *godocx.Table:
			sb.WriteString(fmt.Sprint(item))
			sb.WriteString("\n")
		}
	}
	return sb.String(), nil
}

func extractPDF(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse pdf: %w", err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	b, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return string(b), nil
}

func extractText(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("text file is not valid UTF-8")
	}
	return string(data), nil
}
