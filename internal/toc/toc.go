// Package toc flattens an outline tree into numbered table-of-contents
// entries.
package toc

import (
	"strconv"
	"strings"

	"github.com/rehierl/html-outliner/internal/doctree"
)

// Entry is one line of the table of contents.
type Entry struct {
	Number     string   `json:"number"` // Dotted section number, e.g. "1.2.1"
	Index      int      `json:"index"`  // Sequence number within the document
	Depth      int      `json:"depth"`  // 0 for top-level sections
	Title      string   `json:"title"`
	Tag        string   `json:"tag"`
	Implied    bool     `json:"implied,omitempty"`
	Breadcrumb []string `json:"breadcrumb,omitempty"` // Titles of the enclosing sections
}

// Config controls flattening.
type Config struct {
	MaxDepth    int  // Deepest level to emit, counting top-level as 1. 0 means unlimited.
	SkipImplied bool // Drop untitled sections. Their sub-sections are still listed.
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{MaxDepth: 0, SkipImplied: false}
}

// Flatten walks a DocTree and produces entries in document order.
func Flatten(tree *doctree.DocTree, cfg Config) []Entry {
	if cfg.MaxDepth < 0 {
		cfg.MaxDepth = 0
	}

	var entries []Entry
	index := 0
	for i, child := range tree.Children {
		index = walkNode(child, []int{i + 1}, nil, cfg, &entries, index)
	}
	return entries
}

// walkNode recursively visits DocNodes. number is the node's position path.
func walkNode(node *doctree.DocNode, number []int, breadcrumb []string, cfg Config, entries *[]Entry, index int) int {
	depth := len(number) - 1
	if cfg.MaxDepth > 0 && depth >= cfg.MaxDepth {
		return index
	}

	if !(cfg.SkipImplied && node.Implied) {
		*entries = append(*entries, Entry{
			Number:     formatNumber(number),
			Index:      index,
			Depth:      depth,
			Title:      node.Title,
			Tag:        node.Tag,
			Implied:    node.Implied,
			Breadcrumb: copyBreadcrumb(breadcrumb),
		})
		index++
	}

	var bc []string
	bc = append(bc, breadcrumb...)
	bc = append(bc, node.Title)

	for i, child := range node.Children {
		next := make([]int, len(number), len(number)+1)
		copy(next, number)
		index = walkNode(child, append(next, i+1), bc, cfg, entries, index)
	}
	return index
}

func formatNumber(number []int) string {
	parts := make([]string, len(number))
	for i, n := range number {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ".")
}

func copyBreadcrumb(bc []string) []string {
	if len(bc) == 0 {
		return nil
	}
	out := make([]string, len(bc))
	copy(out, bc)
	return out
}

// Render formats entries as an indented, numbered list.
func Render(entries []Entry) string {
	var b strings.Builder
	for _, e := range entries {
		b.WriteString(strings.Repeat("  ", e.Depth))
		b.WriteString(e.Number)
		b.WriteString(" ")
		b.WriteString(e.Title)
		b.WriteString("\n")
	}
	return b.String()
}
