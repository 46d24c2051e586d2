package outline

import (
	"fmt"
	"strings"
)

const pathTextMax = 16

// Path renders the location of n below root, e.g. "body / section / h1(Intro)".
// Headings and text nodes include a short excerpt of their text when the node
// implements Texter.
func Path(n, root Node) string {
	var parts []string
	for cur := n; cur != nil; cur = cur.Parent() {
		parts = append(parts, pathSegment(cur))
		if cur == root {
			break
		}
	}
	if len(parts) == 0 {
		return "empty path"
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, " / ")
}

func pathSegment(n Node) string {
	if !n.IsElement() {
		if tx, ok := n.(Texter); ok {
			return fmt.Sprintf("#text(%s)", excerpt(tx.Text()))
		}
		return "#node"
	}
	tag := strings.ToLower(n.TagName())
	if tx, ok := n.(Texter); ok && isHeadingTag(tag) {
		return fmt.Sprintf("%s(%s)", tag, excerpt(tx.Text()))
	}
	return tag
}

func isHeadingTag(tag string) bool {
	return len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6'
}

func excerpt(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) > pathTextMax {
		return string(r[:pathTextMax]) + "..."
	}
	return s
}
