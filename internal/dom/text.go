package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// TextContent concatenates the text below n with whitespace runs collapsed.
// Script and style bodies are skipped.
func TextContent(n *html.Node) string {
	if n == nil {
		return ""
	}
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			buf.WriteString(n.Data)
			return
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.Join(strings.Fields(buf.String()), " ")
}

// Title returns the text of the document's <title>, or "".
func Title(doc *html.Node) string {
	if t := findElement(doc, "title"); t != nil {
		return TextContent(t)
	}
	return ""
}
