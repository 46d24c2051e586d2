// Package doctree turns an outline into a titled tree that can be rendered,
// serialized and checked without holding on to the parsed document.
package doctree

import (
	"fmt"
	"io"
	"strings"

	"github.com/rehierl/html-outliner/internal/outline"
)

// DocTree is the root of an outlined document.
type DocTree struct {
	Title    string     `json:"title"`    // Document title (from <title> or filename)
	Root     string     `json:"root"`     // Tag of the element the outline belongs to
	Children []*DocNode `json:"sections"` // Top-level sections
}

// DocNode is one section of the outline.
type DocNode struct {
	Title    string     `json:"title"`              // Heading text, or "Untitled <tag>"
	Tag      string     `json:"tag"`                // Heading tag, or the tag that opened the section
	Rank     int        `json:"rank,omitempty"`     // 1 for h1; 0 for implied headings
	Implied  bool       `json:"implied,omitempty"`  // Section closed without a heading
	Children []*DocNode `json:"sections,omitempty"` // Sub-sections
}

// FromOutline converts o. Heading titles use the heading's text when the
// node implements outline.Texter.
func FromOutline(o outline.Outline, title string) *DocTree {
	tree := &DocTree{Title: title}
	if owner := o.Owner(); owner != nil {
		tree.Root = strings.ToLower(owner.TagName())
	}
	for _, s := range o.Sections() {
		tree.Children = append(tree.Children, fromSection(s))
	}
	return tree
}

func fromSection(s outline.Section) *DocNode {
	node := &DocNode{}
	if h := s.Heading(); h != nil {
		node.Tag = strings.ToLower(h.TagName())
		node.Rank = s.Rank()
		if tx, ok := h.(outline.Texter); ok {
			node.Title = strings.TrimSpace(tx.Text())
		}
	} else {
		node.Tag = strings.ToLower(s.StartingNode().TagName())
		node.Implied = true
		node.Title = "Untitled " + node.Tag
	}
	for _, sub := range s.SubSections() {
		node.Children = append(node.Children, fromSection(sub))
	}
	return node
}

// Walk visits every node depth-first. Depth is 0 for top-level sections and
// breadcrumb holds the titles of the node's ancestors. Returning false from
// fn skips the node's children.
func (t *DocTree) Walk(fn func(n *DocNode, depth int, breadcrumb []string) bool) {
	for _, child := range t.Children {
		walk(child, 0, nil, fn)
	}
}

func walk(n *DocNode, depth int, breadcrumb []string, fn func(*DocNode, int, []string) bool) {
	if !fn(n, depth, breadcrumb) {
		return
	}
	bc := make([]string, len(breadcrumb), len(breadcrumb)+1)
	copy(bc, breadcrumb)
	bc = append(bc, n.Title)
	for _, child := range n.Children {
		walk(child, depth+1, bc, fn)
	}
}

// Count returns the number of sections in the tree.
func (t *DocTree) Count() int {
	n := 0
	t.Walk(func(*DocNode, int, []string) bool {
		n++
		return true
	})
	return n
}

// Render writes one line per section, indented two spaces per level:
//
//	Manual
//	  h1 Manual
//	    h2 Setup
//	    section (untitled)
func Render(w io.Writer, tree *DocTree) error {
	var b strings.Builder
	if tree.Title != "" {
		b.WriteString(tree.Title)
		b.WriteByte('\n')
	}
	tree.Walk(func(n *DocNode, depth int, _ []string) bool {
		b.WriteString(strings.Repeat("  ", depth+1))
		if n.Implied {
			fmt.Fprintf(&b, "%s (untitled)\n", n.Tag)
		} else {
			fmt.Fprintf(&b, "%s %s\n", n.Tag, n.Title)
		}
		return true
	})
	_, err := io.WriteString(w, b.String())
	return err
}
