package doctree

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rehierl/html-outliner/internal/dom"
	"github.com/rehierl/html-outliner/internal/outline"
	"golang.org/x/net/html"
)

func buildTree(t *testing.T, src string) *DocTree {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	body, err := dom.Body(doc)
	if err != nil {
		t.Fatalf("body: %v", err)
	}
	o, err := outline.Build(dom.Wrap(body), outline.DefaultOptions())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return FromOutline(o, "Manual")
}

func TestFromOutline(t *testing.T) {
	tree := buildTree(t, `<h1>Manual</h1><h2> Setup </h2><section><p>x</p></section><h2>Usage</h2>`)

	if tree.Root != "body" {
		t.Errorf("expected root body, got %q", tree.Root)
	}
	if len(tree.Children) != 1 {
		t.Fatalf("expected 1 top-level section, got %d", len(tree.Children))
	}

	top := tree.Children[0]
	if top.Title != "Manual" || top.Tag != "h1" || top.Rank != 1 || top.Implied {
		t.Errorf("unexpected top section: %+v", top)
	}
	if len(top.Children) != 3 {
		t.Fatalf("expected 3 sub-sections, got %d", len(top.Children))
	}
	if top.Children[0].Title != "Setup" {
		t.Errorf("expected trimmed title %q, got %q", "Setup", top.Children[0].Title)
	}

	untitled := top.Children[1]
	if !untitled.Implied || untitled.Title != "Untitled section" || untitled.Tag != "section" || untitled.Rank != 0 {
		t.Errorf("unexpected implied section: %+v", untitled)
	}
	if tree.Count() != 4 {
		t.Errorf("expected 4 sections, got %d", tree.Count())
	}
}

func TestFromOutline_Empty(t *testing.T) {
	tree := FromOutline(outline.Outline{}, "empty")
	if tree.Title != "empty" || len(tree.Children) != 0 || tree.Root != "" {
		t.Errorf("unexpected tree for empty outline: %+v", tree)
	}
}

func TestWalkBreadcrumbs(t *testing.T) {
	tree := buildTree(t, `<h1>A</h1><h2>B</h2><h3>C</h3><h2>D</h2>`)

	var got []string
	tree.Walk(func(n *DocNode, depth int, bc []string) bool {
		got = append(got, strings.Join(append(bc, n.Title), " > "))
		return n.Title != "B"
	})
	want := []string{"A", "A > B", "A > D"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRender(t *testing.T) {
	tree := buildTree(t, `<h1>Manual</h1><h2>Setup</h2><article></article>`)

	var buf bytes.Buffer
	if err := Render(&buf, tree); err != nil {
		t.Fatalf("render: %v", err)
	}
	want := "Manual\n  h1 Manual\n    h2 Setup\n    article (untitled)\n"
	if buf.String() != want {
		t.Errorf("render mismatch:\ngot:\n%s\nwant:\n%s", buf.String(), want)
	}
}
