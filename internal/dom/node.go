// Package dom adapts golang.org/x/net/html trees to the outline engine.
package dom

import (
	"strings"

	"github.com/rehierl/html-outliner/internal/outline"
	"golang.org/x/net/html"
)

// Node wraps an *html.Node. It is a comparable value, so two Nodes wrapping
// the same *html.Node are equal.
type Node struct {
	n *html.Node
}

var (
	_ outline.Node   = Node{}
	_ outline.Texter = Node{}
)

// Wrap returns n as an outline.Node, or a nil interface when n is nil.
func Wrap(n *html.Node) outline.Node {
	if n == nil {
		return nil
	}
	return Node{n: n}
}

// Unwrap returns the *html.Node behind an outline.Node produced by Wrap.
func Unwrap(n outline.Node) (*html.Node, bool) {
	d, ok := n.(Node)
	if !ok {
		return nil, false
	}
	return d.n, true
}

// HTML returns the wrapped node.
func (d Node) HTML() *html.Node { return d.n }

func (d Node) IsElement() bool { return d.n.Type == html.ElementNode }

// IsHidden reports the presence of the hidden attribute, whatever its value.
func (d Node) IsHidden() bool {
	if d.n.Type != html.ElementNode {
		return false
	}
	for _, a := range d.n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, "hidden") {
			return true
		}
	}
	return false
}

func (d Node) TagName() string {
	if d.n.Type != html.ElementNode {
		return ""
	}
	return d.n.Data
}

func (d Node) FirstChild() outline.Node  { return Wrap(d.n.FirstChild) }
func (d Node) NextSibling() outline.Node { return Wrap(d.n.NextSibling) }
func (d Node) Parent() outline.Node      { return Wrap(d.n.Parent) }

func (d Node) Text() string { return TextContent(d.n) }
