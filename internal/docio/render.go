package docio

import (
	"bytes"
	"fmt"
	"strings"

	godocx "github.com/fumiama/go-docx"
	"github.com/go-pdf/fpdf"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"
)

// The assembler agent returns markdown. Rendering walks the goldmark AST
// instead of guessing at line prefixes, so headings, lists and code blocks
// survive the trip into DOCX and PDF.

type blockKind int

const (
	blockHeading blockKind = iota
	blockParagraph
	blockList
	blockCode
	blockRule
)

type block struct {
	kind    blockKind
	level   int
	ordered bool
	text    string
	items   []string
}

var markdown = goldmark.New()

// Render converts the pipeline's markdown result into the requested format.
func Render(md string, f Format) ([]byte, error) {
	switch f {
	case FormatMD:
		return []byte(md), nil
	case FormatTXT:
		return renderTXT(parseBlocks([]byte(md))), nil
	case FormatDOCX:
		return renderDOCX(parseBlocks([]byte(md)))
	case FormatPDF:
		return renderPDF(parseBlocks([]byte(md)))
	default:
		return nil, ErrUnsupportedFormat
	}
}

// RenderHTML converts markdown to HTML for the UI preview pane.
func RenderHTML(md string) ([]byte, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(md), &buf); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	return buf.Bytes(), nil
}

func parseBlocks(source []byte) []block {
	root := markdown.Parser().Parse(gmtext.NewReader(source))

	var blocks []block
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		switch v := n.(type) {
		case *ast.Heading:
			blocks = append(blocks, block{kind: blockHeading, level: v.Level, text: nodeText(v, source)})
		case *ast.Paragraph, *ast.TextBlock, *ast.Blockquote:
			if t := nodeText(n, source); t != "" {
				blocks = append(blocks, block{kind: blockParagraph, text: t})
			}
		case *ast.List:
			b := block{kind: blockList, ordered: v.IsOrdered()}
			for li := v.FirstChild(); li != nil; li = li.NextSibling() {
				b.items = append(b.items, nodeText(li, source))
			}
			blocks = append(blocks, b)
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			blocks = append(blocks, block{kind: blockCode, text: rawLines(n, source)})
		case *ast.ThematicBreak:
			blocks = append(blocks, block{kind: blockRule})
		}
	}
	return blocks
}

// nodeText flattens all inline text beneath a node.
func nodeText(n ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := c.(*ast.Text); ok {
			sb.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}

func rawLines(n ast.Node, source []byte) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(source))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func renderTXT(blocks []block) []byte {
	var sb strings.Builder
	for i, b := range blocks {
		if i > 0 {
			sb.WriteString("\n")
		}
		switch b.kind {
		case blockHeading:
			sb.WriteString(b.text)
			sb.WriteString("\n")
		case blockParagraph, blockCode:
			sb.WriteString(b.text)
			sb.WriteString("\n")
		case blockList:
			for j, item := range b.items {
				if b.ordered {
					fmt.Fprintf(&sb, "%d. %s\n", j+1, item)
				} else {
					fmt.Fprintf(&sb, "- %s\n", item)
				}
			}
		case blockRule:
			sb.WriteString("----------------------------------------\n")
		}
	}
	return []byte(sb.String())
}

// docxHeadingSize maps a markdown heading level to a run size in half-points.
func docxHeadingSize(level int) string {
	switch level {
	case 1:
		return "44"
	case 2:
		return "36"
	case 3:
		return "30"
	default:
		return "26"
	}
}

func renderDOCX(blocks []block) ([]byte, error) {
	w := godocx.New().WithDefaultTheme()
	for _, b := range blocks {
		switch b.kind {
		case blockHeading:
			w.AddParagraph().AddText(b.text).Size(docxHeadingSize(b.level)).Bold()
		case blockParagraph:
			w.AddParagraph().AddText(b.text)
		case blockList:
			for j, item := range b.items {
				marker := "• "
				if b.ordered {
					marker = fmt.Sprintf("%d. ", j+1)
				}
				w.AddParagraph().AddText(marker + item)
			}
		case blockCode:
			for _, line := range strings.Split(b.text, "\n") {
				w.AddParagraph().AddText(line)
			}
		case blockRule:
			w.AddParagraph().AddText(strings.Repeat("—", 20))
		}
	}

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write docx: %w", err)
	}
	return buf.Bytes(), nil
}

func renderPDF(blocks []block) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	tr := doc.UnicodeTranslatorFromDescriptor("")
	doc.AddPage()

	for _, b := range blocks {
		switch b.kind {
		case blockHeading:
			size := 18.0 - 2.0*float64(b.level)
			if size < 11 {
				size = 11
			}
			doc.SetFont("Helvetica", "B", size)
			doc.MultiCell(0, 8, tr(b.text), "", "L", false)
			doc.Ln(2)
		case blockParagraph:
			doc.SetFont("Helvetica", "", 11)
			doc.MultiCell(0, 5.5, tr(b.text), "", "L", false)
			doc.Ln(2)
		case blockList:
			doc.SetFont("Helvetica", "", 11)
			for j, item := range b.items {
				marker := "- "
				if b.ordered {
					marker = fmt.Sprintf("%d. ", j+1)
				}
				doc.MultiCell(0, 5.5, tr(marker+item), "", "L", false)
			}
			doc.Ln(2)
		case blockCode:
			doc.SetFont("Courier", "", 10)
			doc.MultiCell(0, 5, tr(b.text), "", "L", false)
			doc.Ln(2)
		case blockRule:
			_, y := doc.GetXY()
			w, _ := doc.GetPageSize()
			l, _, r, _ := doc.GetMargins()
			doc.Line(l, y, w-r, y)
			doc.Ln(4)
		}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
