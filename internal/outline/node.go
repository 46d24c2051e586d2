package outline

// Node is a read-only view of one node in the input tree.
//
// Implementations must be comparable: the engine uses == to recognise the node
// that pushed a context and the root it started from. Methods returning a Node
// return a nil interface (not a typed nil) when there is no such node.
type Node interface {
	IsElement() bool
	IsHidden() bool
	TagName() string
	FirstChild() Node
	NextSibling() Node
	Parent() Node
}

// Texter is implemented by nodes that can report their text content. It is
// only used to make error paths readable.
type Texter interface {
	Text() string
}

// Kind is the classification of a node as seen by the outline engine.
type Kind int

const (
	KindNonElement Kind = iota
	KindHidden
	KindSectioningRoot
	KindSectioningContent
	KindHeading
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindNonElement:
		return "non-element"
	case KindHidden:
		return "hidden"
	case KindSectioningRoot:
		return "sectioning-root"
	case KindSectioningContent:
		return "sectioning-content"
	case KindHeading:
		return "heading"
	case KindOther:
		return "other"
	}
	return "unknown"
}

// Classifier maps nodes to a Kind using the patterns in Options.
type Classifier struct {
	opts Options
}

// NewClassifier returns a classifier for opts. Options are not validated here.
func NewClassifier(opts Options) Classifier {
	return Classifier{opts: opts}
}

// Classify returns the node's kind and, for headings, its rank (1 for h1 up
// to 6 for h6). Rank is 0 for everything else.
func (c Classifier) Classify(n Node) (Kind, int) {
	if n == nil || !n.IsElement() {
		return KindNonElement, 0
	}
	if c.opts.IgnoreHiddenElements && n.IsHidden() {
		return KindHidden, 0
	}
	tag := n.TagName()
	switch {
	case c.opts.SectioningRoot.MatchString(tag):
		return KindSectioningRoot, 0
	case c.opts.SectioningContent.MatchString(tag):
		return KindSectioningContent, 0
	case c.opts.Heading.MatchString(tag):
		return KindHeading, headingRank(tag)
	}
	return KindOther, 0
}

// headingRank reads the level from tags like "h3". Heading tags selected by a
// custom pattern that carry no level rank as h1.
func headingRank(tag string) int {
	if len(tag) == 2 && (tag[0] == 'h' || tag[0] == 'H') && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 1
}
