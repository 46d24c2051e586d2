package dom

import (
	"errors"
	"fmt"

	"github.com/antchfx/xpath"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrNoMatch is returned when an expression selects no element.
var ErrNoMatch = errors.New("no element matches")

// DefaultRoot selects the document body.
const DefaultRoot = "//body"

// Select evaluates an XPath expression against doc and returns the first
// element it selects in document order.
func Select(doc *html.Node, expr string) (*html.Node, error) {
	if doc == nil {
		return nil, fmt.Errorf("select %q: nil document", expr)
	}
	x, err := xpath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compile xpath %q: %w", expr, err)
	}
	iter := x.Select(newNavigator(doc))
	for iter.MoveNext() {
		nav, ok := iter.Current().(*navigator)
		if !ok || nav.attr >= 0 {
			continue
		}
		if nav.cur.Type == html.ElementNode {
			return nav.cur, nil
		}
	}
	return nil, fmt.Errorf("select %q: %w", expr, ErrNoMatch)
}

// Body returns the <body> element, which html.Parse always synthesizes for
// full documents.
func Body(doc *html.Node) (*html.Node, error) {
	if b := findAtom(doc, atom.Body); b != nil {
		return b, nil
	}
	return nil, fmt.Errorf("body: %w", ErrNoMatch)
}

func findAtom(n *html.Node, a atom.Atom) *html.Node {
	if n == nil {
		return nil
	}
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if f := findAtom(c, a); f != nil {
			return f
		}
	}
	return nil
}

func findElement(n *html.Node, tag string) *html.Node {
	return findAtom(n, atom.Lookup([]byte(tag)))
}

// navigator implements xpath.NodeNavigator over an *html.Node tree.
// attr is the index of the current attribute, or -1 on the node itself.
type navigator struct {
	root, cur *html.Node
	attr      int
}

func newNavigator(root *html.Node) *navigator {
	return &navigator{root: root, cur: root, attr: -1}
}

func (n *navigator) NodeType() xpath.NodeType {
	if n.attr >= 0 {
		return xpath.AttributeNode
	}
	switch n.cur.Type {
	case html.ElementNode:
		return xpath.ElementNode
	case html.TextNode:
		return xpath.TextNode
	case html.CommentNode:
		return xpath.CommentNode
	default:
		// Document and doctype nodes.
		return xpath.RootNode
	}
}

func (n *navigator) LocalName() string {
	if n.attr >= 0 {
		return n.cur.Attr[n.attr].Key
	}
	return n.cur.Data
}

func (n *navigator) Prefix() string { return "" }

func (n *navigator) Value() string {
	switch {
	case n.attr >= 0:
		return n.cur.Attr[n.attr].Val
	case n.cur.Type == html.ElementNode, n.cur.Type == html.DocumentNode:
		return TextContent(n.cur)
	}
	return n.cur.Data
}

func (n *navigator) Copy() xpath.NodeNavigator {
	cp := *n
	return &cp
}

func (n *navigator) MoveToRoot() {
	n.cur = n.root
	n.attr = -1
}

func (n *navigator) MoveToParent() bool {
	if n.attr >= 0 {
		n.attr = -1
		return true
	}
	if n.cur == n.root || n.cur.Parent == nil {
		return false
	}
	n.cur = n.cur.Parent
	return true
}

func (n *navigator) MoveToNextAttribute() bool {
	if n.cur.Type != html.ElementNode || n.attr+1 >= len(n.cur.Attr) {
		return false
	}
	n.attr++
	return true
}

func (n *navigator) MoveToChild() bool {
	if n.attr >= 0 || n.cur.FirstChild == nil {
		return false
	}
	n.cur = n.cur.FirstChild
	return true
}

func (n *navigator) MoveToFirst() bool {
	if n.attr >= 0 || n.cur.PrevSibling == nil || n.cur == n.root {
		return false
	}
	for n.cur.PrevSibling != nil {
		n.cur = n.cur.PrevSibling
	}
	return true
}

func (n *navigator) MoveToNext() bool {
	if n.attr >= 0 || n.cur == n.root || n.cur.NextSibling == nil {
		return false
	}
	n.cur = n.cur.NextSibling
	return true
}

func (n *navigator) MoveToPrevious() bool {
	if n.attr >= 0 || n.cur == n.root || n.cur.PrevSibling == nil {
		return false
	}
	n.cur = n.cur.PrevSibling
	return true
}

func (n *navigator) MoveTo(other xpath.NodeNavigator) bool {
	o, ok := other.(*navigator)
	if !ok || o.root != n.root {
		return false
	}
	n.cur = o.cur
	n.attr = o.attr
	return true
}
