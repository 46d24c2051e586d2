package outline

import (
	"fmt"
	"strings"
)

// tnode is a minimal in-memory tree for exercising the engine without HTML
// parsing.
type tnode struct {
	tag      string
	text     string
	hidden   bool
	parent   *tnode
	children []*tnode
	index    int

	// descents counts FirstChild calls across the whole tree.
	descents *int
}

func el(tag string, children ...*tnode) *tnode {
	n := &tnode{tag: tag}
	for i, c := range children {
		c.parent = n
		c.index = i
	}
	n.children = children
	return n
}

func txt(s string) *tnode { return &tnode{text: s} }

func h(level int, text string) *tnode { return el(fmt.Sprintf("h%d", level), txt(text)) }

func hide(n *tnode) *tnode {
	n.hidden = true
	return n
}

// counted attaches one shared FirstChild counter to every node below n.
func counted(n *tnode) *int {
	c := new(int)
	var walk func(*tnode)
	walk = func(x *tnode) {
		x.descents = c
		for _, ch := range x.children {
			walk(ch)
		}
	}
	walk(n)
	return c
}

func (n *tnode) IsElement() bool { return n.tag != "" }
func (n *tnode) IsHidden() bool  { return n.hidden }
func (n *tnode) TagName() string { return n.tag }

func (n *tnode) FirstChild() Node {
	if n.descents != nil {
		*n.descents++
	}
	if len(n.children) == 0 {
		return nil
	}
	return n.children[0]
}

func (n *tnode) NextSibling() Node {
	if n.parent == nil || n.index+1 >= len(n.parent.children) {
		return nil
	}
	return n.parent.children[n.index+1]
}

func (n *tnode) Parent() Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *tnode) Text() string {
	if n.tag == "" {
		return n.text
	}
	var sb strings.Builder
	for _, c := range n.children {
		if !c.hidden {
			sb.WriteString(c.Text())
		}
	}
	return sb.String()
}

// shape renders an outline compactly: headings by text, "~" for implied
// headings, sub-sections in brackets. "A[B C] D" is two top-level sections,
// the first holding B and C.
func shape(o Outline) string {
	return shapeOf(o.Sections())
}

func shapeOf(secs []Section) string {
	parts := make([]string, 0, len(secs))
	for _, s := range secs {
		label := "?"
		switch {
		case s.HasImpliedHeading():
			label = "~"
		case s.Heading() != nil:
			label = s.Heading().(Texter).Text()
		}
		if subs := s.SubSections(); len(subs) > 0 {
			label += "[" + shapeOf(subs) + "]"
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, " ")
}
