package docio

// Package docio provides thin file-format I/O for the transform pipeline:
// format detection, text extraction from uploaded templates, and rendering
// of the pipeline's markdown result into the supported output formats.
// All heavy parsing is delegated to external libraries.

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
)

// Format identifies one of the supported document formats.
type Format string

const (
	FormatDOCX Format = "docx"
	FormatPDF  Format = "pdf"
	FormatTXT  Format = "txt"
	FormatMD   Format = "md"
)

var (
	// ErrUnsupportedFormat is returned for extensions or content outside the supported set.
	ErrUnsupportedFormat = errors.New("unsupported document format")
	// ErrEmptyDocument is returned when extraction produces no text.
	ErrEmptyDocument = errors.New("document contains no extractable text")
)

var pdfMagic = []byte("%PDF-")
var zipMagic = []byte("PK\x03\x04")

// ParseFormat parses a user-supplied format name ("docx", "pdf", "txt", "md").
// An empty name selects markdown.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return FormatMD, nil
	case FormatDOCX:
		return FormatDOCX, nil
	case FormatPDF:
		return FormatPDF, nil
	case FormatTXT:
		return FormatTXT, nil
	case FormatMD, "markdown":
		return FormatMD, nil
	default:
		return "", ErrUnsupportedFormat
	}
}

// DetectFormat determines the format of an uploaded file from its filename
// extension, falling back to content sniffing when the extension is missing
// entirely: PDF magic, ZIP magic (DOCX container), otherwise plain text.
func DetectFormat(filename string, head []byte) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".docx":
		return FormatDOCX, nil
	case ".pdf":
		return FormatPDF, nil
	case ".txt":
		return FormatTXT, nil
	case ".md", ".markdown":
		return FormatMD, nil
	case "":
		// fall through to sniffing
	default:
		return "", ErrUnsupportedFormat
	}

	switch {
	case bytes.HasPrefix(head, pdfMagic):
		return FormatPDF, nil
	case bytes.HasPrefix(head, zipMagic):
		return FormatDOCX, nil
	case len(bytes.TrimSpace(head)) > 0:
		return FormatTXT, nil
	}
	return "", ErrUnsupportedFormat
}

// Ext returns the canonical file extension for the format, with leading dot.
func (f Format) Ext() string {
	return "." + string(f)
}

// ContentType returns the MIME type used when storing or serving the format.
func (f Format) ContentType() string {
	switch f {
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case FormatPDF:
		return "application/pdf"
	case FormatMD:
		return "text/markdown; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}
