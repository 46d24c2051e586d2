package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rehierl/html-outliner/internal/doctree"
	"github.com/rehierl/html-outliner/internal/lint"
)

var (
	// titleStyle for document titles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	// dimStyle for tags and other metadata
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	// impliedStyle for sections without a heading
	impliedStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("244"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))
)

// printTree writes the outline one section per line, indented by depth.
func printTree(w io.Writer, tree *doctree.DocTree) {
	if tree.Title != "" {
		fmt.Fprintln(w, titleStyle.Render(tree.Title))
	}
	tree.Walk(func(n *doctree.DocNode, depth int, _ []string) bool {
		indent := strings.Repeat("  ", depth+1)
		if n.Implied {
			fmt.Fprintf(w, "%s%s\n", indent, impliedStyle.Render("("+n.Title+")"))
		} else {
			fmt.Fprintf(w, "%s%s %s\n", indent, dimStyle.Render(n.Tag), n.Title)
		}
		return true
	})
}

func printFindings(w io.Writer, path string, findings []lint.Finding) {
	for _, f := range findings {
		sev := infoStyle.Render(string(f.Severity))
		if f.Severity == lint.SeverityWarning {
			sev = warnStyle.Render(string(f.Severity))
		}
		where := ""
		if len(f.Breadcrumb) > 0 {
			where = " " + dimStyle.Render(strings.Join(f.Breadcrumb, " > ")+":")
		}
		fmt.Fprintf(w, "%s: %s [%s]%s %s\n", path, sev, f.Rule, where, f.Message)
	}
}
