package extractor

import (
	"bytes"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownExtractor flattens Markdown to plain text using goldmark.
// Heading text is emitted on its own line; label documents exported as
// Markdown keep their "1. 제목" numbering inside the heading text, so
// the segmenter still recognizes them.
type MarkdownExtractor struct{}

func (e *MarkdownExtractor) Extract(r io.Reader, filename string) (string, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	md := goldmark.New()
	reader := text.NewReader(src)
	doc := md.Parser().Parse(reader)

	var lines []string
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			if t := string(node.Text(src)); t != "" {
				lines = append(lines, t)
			}
		default:
			if t := blockText(n, src); t != "" {
				lines = append(lines, strings.Split(t, "\n")...)
			}
		}
	}
	return strings.Join(lines, "\n"), nil
}

// blockText gets the text content of a goldmark AST node. Nodes with
// children are flattened through their inline text; childless blocks
// (code blocks, HTML blocks) fall back to their raw source lines.
func blockText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.FirstChild() == nil {
		if n.Type() == ast.TypeBlock {
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				buf.Write(seg.Value(src))
			}
		}
		return strings.TrimSpace(buf.String())
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
			continue
		}
		s := blockText(c, src)
		if s == "" {
			continue
		}
		if c.Type() == ast.TypeBlock && buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(s)
	}
	return strings.TrimSpace(buf.String())
}
