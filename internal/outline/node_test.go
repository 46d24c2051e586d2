package outline

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	c := NewClassifier(DefaultOptions())
	tests := []struct {
		node     *tnode
		wantKind Kind
		wantRank int
	}{
		{txt("x"), KindNonElement, 0},
		{hide(el("section")), KindHidden, 0},
		{hide(el("p")), KindHidden, 0},
		{el("body"), KindSectioningRoot, 0},
		{el("TD"), KindSectioningRoot, 0},
		{el("aside"), KindSectioningContent, 0},
		{el("h1"), KindHeading, 1},
		{el("H4"), KindHeading, 4},
		{el("h6"), KindHeading, 6},
		{el("header"), KindOther, 0},
		{el("div"), KindOther, 0},
	}
	for _, tt := range tests {
		kind, rank := c.Classify(tt.node)
		assert.Equal(t, tt.wantKind, kind, "%s", tt.node.tag)
		assert.Equal(t, tt.wantRank, rank, "%s", tt.node.tag)
	}
	kind, _ := c.Classify(nil)
	assert.Equal(t, KindNonElement, kind)
}

func TestClassify_HiddenDisabled(t *testing.T) {
	opts := DefaultOptions()
	opts.IgnoreHiddenElements = false
	c := NewClassifier(opts)

	kind, rank := c.Classify(hide(el("h2")))
	assert.Equal(t, KindHeading, kind)
	assert.Equal(t, 2, rank)
}

func TestClassify_CustomPatterns(t *testing.T) {
	opts := DefaultOptions()
	opts.Heading = regexp.MustCompile(`(?i)^(?:h[1-6]|hgroup)$`)
	opts.SectioningContent = regexp.MustCompile(`(?i)^(?:section|main)$`)
	c := NewClassifier(opts)

	kind, rank := c.Classify(el("hgroup"))
	assert.Equal(t, KindHeading, kind)
	assert.Equal(t, 1, rank, "heading tags without a level rank as h1")

	kind, _ = c.Classify(el("main"))
	assert.Equal(t, KindSectioningContent, kind)
	kind, _ = c.Classify(el("article"))
	assert.Equal(t, KindOther, kind)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "sectioning-root", KindSectioningRoot.String())
	assert.Equal(t, "heading", KindHeading.String())
	assert.Equal(t, "unknown", Kind(42).String())
}
