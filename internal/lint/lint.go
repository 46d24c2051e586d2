// Package lint checks the heading structure of an outlined document.
package lint

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/rehierl/html-outliner/internal/doctree"
)

// Rule names.
const (
	RuleUntitledSection  = "untitled-section"
	RuleSkippedLevel     = "skipped-level"
	RuleMultipleTopLevel = "multiple-top-level"
	RuleEmptyHeading     = "empty-heading"
	RuleLongHeading      = "long-heading"
)

// Severity of a finding.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

var severities = map[string]Severity{
	RuleUntitledSection:  SeverityWarning,
	RuleSkippedLevel:     SeverityWarning,
	RuleMultipleTopLevel: SeverityInfo,
	RuleEmptyHeading:     SeverityWarning,
	RuleLongHeading:      SeverityInfo,
}

// Finding is one problem found in a tree.
type Finding struct {
	Rule       string   `json:"rule"`
	Severity   Severity `json:"severity"`
	Message    string   `json:"message"`
	Breadcrumb []string `json:"breadcrumb,omitempty"`
}

func (f Finding) String() string {
	if len(f.Breadcrumb) == 0 {
		return fmt.Sprintf("%s [%s] %s", f.Severity, f.Rule, f.Message)
	}
	return fmt.Sprintf("%s [%s] %s: %s", f.Severity, f.Rule, strings.Join(f.Breadcrumb, " > "), f.Message)
}

// Config selects the rules to run.
type Config struct {
	Disabled    map[string]bool // Rule names to skip.
	MaxTitleLen int             // Longest heading text, in characters, before long-heading fires.
}

// DefaultConfig enables every rule.
func DefaultConfig() Config {
	return Config{MaxTitleLen: 120}
}

// Rules returns every rule name, sorted.
func Rules() []string {
	names := make([]string, 0, len(severities))
	for name := range severities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRule reports whether name is a known rule.
func IsRule(name string) bool {
	_, ok := severities[name]
	return ok
}

// Check runs the enabled rules over tree and returns findings in document
// order.
func Check(tree *doctree.DocTree, cfg Config) []Finding {
	if cfg.MaxTitleLen <= 0 {
		cfg.MaxTitleLen = 120
	}
	c := checker{cfg: cfg}

	if len(tree.Children) > 1 {
		c.add(RuleMultipleTopLevel, nil,
			fmt.Sprintf("%d top-level sections; a document usually has one", len(tree.Children)))
	}

	tree.Walk(func(n *doctree.DocNode, _ int, bc []string) bool {
		c.checkNode(n, bc)
		return true
	})
	return c.findings
}

type checker struct {
	cfg      Config
	findings []Finding
}

func (c *checker) add(rule string, breadcrumb []string, msg string) {
	if c.cfg.Disabled[rule] {
		return
	}
	c.findings = append(c.findings, Finding{
		Rule:       rule,
		Severity:   severities[rule],
		Message:    msg,
		Breadcrumb: copyBreadcrumb(breadcrumb),
	})
}

func (c *checker) checkNode(n *doctree.DocNode, bc []string) {
	here := append(copyBreadcrumb(bc), n.Title)

	if n.Implied {
		c.add(RuleUntitledSection, here, fmt.Sprintf("<%s> has no heading", n.Tag))
	} else {
		text := strings.TrimSpace(n.Title)
		switch {
		case text == "":
			c.add(RuleEmptyHeading, here, fmt.Sprintf("<%s> has no text", n.Tag))
		case utf8.RuneCountInString(text) > c.cfg.MaxTitleLen:
			c.add(RuleLongHeading, here,
				fmt.Sprintf("heading is %d characters, limit %d", utf8.RuneCountInString(text), c.cfg.MaxTitleLen))
		}
	}

	if n.Implied || n.Rank == 0 {
		return
	}
	for _, child := range n.Children {
		if child.Implied || child.Rank == 0 {
			continue
		}
		if child.Rank > n.Rank+1 {
			c.add(RuleSkippedLevel, append(copyBreadcrumb(here), child.Title),
				fmt.Sprintf("<%s> follows <%s>, skipping %d level(s)", child.Tag, n.Tag, child.Rank-n.Rank-1))
		}
	}
}

func copyBreadcrumb(bc []string) []string {
	if len(bc) == 0 {
		return nil
	}
	out := make([]string, len(bc))
	copy(out, bc)
	return out
}
