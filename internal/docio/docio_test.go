package docio

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"docx", FormatDOCX, false},
		{"PDF", FormatPDF, false},
		{"txt", FormatTXT, false},
		{"md", FormatMD, false},
		{"markdown", FormatMD, false},
		{"", FormatMD, false},
		{"odt", "", true},
	}

	for _, tt := range tests {
		t.Run("input "+tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		head     []byte
		want     Format
		wantErr  bool
	}{
		{"docx extension", "report.docx", nil, FormatDOCX, false},
		{"pdf extension", "report.pdf", nil, FormatPDF, false},
		{"txt extension", "notes.TXT", nil, FormatTXT, false},
		{"markdown extension", "readme.md", nil, FormatMD, false},
		{"pdf magic no extension", "upload", []byte("%PDF-1.7 trailer"), FormatPDF, false},
		{"zip magic no extension", "upload", []byte("PK\x03\x04rest"), FormatDOCX, false},
		{"plain text fallback", "upload", []byte("just words"), FormatTXT, false},
		{"unknown binary", "blob.bin", []byte{0x00, 0x01, 0xff}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFormat(tt.filename, tt.head)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatContentType(t *testing.T) {
	assert.Equal(t, "application/pdf", FormatPDF.ContentType())
	assert.Equal(t, "text/markdown; charset=utf-8", FormatMD.ContentType())
	assert.Equal(t, ".docx", FormatDOCX.Ext())
}

func TestExtractText(t *testing.T) {
	got, err := Extract([]byte("hello\nworld"), FormatTXT)
	assert.NoError(t, err)
	assert.Equal(t, "hello\nworld", got)
}

func TestExtractEmpty(t *testing.T) {
	_, err := Extract([]byte("   \n "), FormatMD)
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestExtractInvalidUTF8(t *testing.T) {
	_, err := Extract([]byte{0xff, 0xfe, 0x00}, FormatTXT)
	assert.Error(t, err)
}

func TestParseBlocks(t *testing.T) {
	src := []byte("# Title\n\nA paragraph\nwith a wrap.\n\n- one\n- two\n\n1. first\n2. second\n\n```\ncode line\n```\n\n---\n")

	blocks := parseBlocks(src)
	if assert.Len(t, blocks, 6) {
		assert.Equal(t, blockHeading, blocks[0].kind)
		assert.Equal(t, 1, blocks[0].level)
		assert.Equal(t, "Title", blocks[0].text)

		assert.Equal(t, blockParagraph, blocks[1].kind)
		assert.Equal(t, "A paragraph with a wrap.", blocks[1].text)

		assert.Equal(t, blockList, blocks[2].kind)
		assert.False(t, blocks[2].ordered)
		assert.Equal(t, []string{"one", "two"}, blocks[2].items)

		assert.Equal(t, blockList, blocks[3].kind)
		assert.True(t, blocks[3].ordered)

		assert.Equal(t, blockCode, blocks[4].kind)
		assert.Equal(t, "code line", blocks[4].text)

		assert.Equal(t, blockRule, blocks[5].kind)
	}
}

func TestRenderMarkdownPassthrough(t *testing.T) {
	out, err := Render("# Title\n\nbody", FormatMD)
	assert.NoError(t, err)
	assert.Equal(t, "# Title\n\nbody", string(out))
}

func TestRenderTXT(t *testing.T) {
	out, err := Render("# Title\n\n- one\n- two", FormatTXT)
	assert.NoError(t, err)
	assert.Contains(t, string(out), "Title\n")
	assert.Contains(t, string(out), "- one\n")
	assert.Contains(t, string(out), "- two\n")
}

func TestRenderDOCX(t *testing.T) {
	out, err := Render("# Title\n\nSome body text.\n\n1. first\n2. second", FormatDOCX)
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "PK"), "docx output should be a zip archive")
}

func TestRenderPDF(t *testing.T) {
	out, err := Render("# Title\n\nSome body text.\n\n```\ncode\n```", FormatPDF)
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "%PDF-"), "pdf output should carry the pdf magic")
}

func TestRenderUnsupported(t *testing.T) {
	_, err := Render("x", Format("odt"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestRenderHTML(t *testing.T) {
	out, err := RenderHTML("# Title\n\nbody")
	assert.NoError(t, err)
	assert.Contains(t, string(out), "<h1>Title</h1>")
	assert.Contains(t, string(out), "<p>body</p>")
}
