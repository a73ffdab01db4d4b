package cli

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

var mdParser = goldmark.New(goldmark.WithExtensions(extension.GFM)).Parser()

// plainParagraphs parses a markdown body and returns the plain text of each
// top-level paragraph and heading. HTML blocks such as the bot's <details>
// sections and fenced code are dropped.
func plainParagraphs(body string) []string {
	src := []byte(body)
	doc := mdParser.Parse(text.NewReader(src))

	var out []string
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch n.Kind() {
		case ast.KindParagraph, ast.KindHeading:
		default:
			continue
		}

		if s := inlineText(n, src); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// inlineText concatenates the text segments below n. Soft line breaks become spaces.
func inlineText(n ast.Node, src []byte) string {
	var b strings.Builder

	_ = ast.Walk(n, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := child.(*ast.Text); ok {
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(b.String())
}
