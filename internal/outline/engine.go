package outline

import (
	"fmt"
	"log/slog"
)

// Builder computes outlines. It holds no per-call state, so a single Builder
// may serve concurrent Build calls.
type Builder struct {
	opts       Options
	classifier Classifier
	log        *slog.Logger
}

// NewBuilder validates opts. A nil logger discards everything.
func NewBuilder(opts Options, log *slog.Logger) (*Builder, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Builder{
		opts:       opts,
		classifier: NewClassifier(opts),
		log:        log,
	}, nil
}

// Build is a shorthand for NewBuilder(opts, nil) followed by Build(root).
func Build(root Node, opts Options) (Outline, error) {
	b, err := NewBuilder(opts, nil)
	if err != nil {
		return Outline{}, err
	}
	return b.Build(root)
}

// Options returns the options the builder was created with.
func (b *Builder) Options() Options { return b.opts }

// Build walks the subtree below root and returns root's outline.
//
// Invariant violations are bugs in this package, not input errors; they
// panic with an *Error of code CodeInvariant.
func (b *Builder) Build(root Node) (Outline, error) {
	if err := b.validateRoot(root); err != nil {
		return Outline{}, err
	}

	t := &traversal{
		b:       b,
		tree:    &Tree{},
		root:    root,
		outline: noOutline,
		section: noSection,
		result:  noOutline,
	}
	if err := t.run(); err != nil {
		return Outline{}, err
	}

	out := Outline{tree: t.tree, id: t.result}
	b.log.Debug("outline built",
		"root", root.TagName(),
		"sections", out.Len(),
		"outlines", len(t.tree.outlines),
	)
	return out, nil
}

func (b *Builder) validateRoot(root Node) error {
	if root == nil {
		return newError(CodeInvalidRoot, "root is nil")
	}
	if !root.IsElement() {
		return newError(CodeInvalidRoot, "root is not an element")
	}
	if root.IsHidden() {
		return newError(CodeInvalidRoot, fmt.Sprintf("root <%s> is hidden", root.TagName()))
	}
	switch kind, _ := b.classifier.Classify(root); kind {
	case KindSectioningRoot, KindSectioningContent:
		return nil
	default:
		return newError(CodeInvalidRoot, fmt.Sprintf("root <%s> is not a sectioning element", root.TagName()))
	}
}

// traversal is the complete mutable state of one Build call.
type traversal struct {
	b     *Builder
	tree  *Tree
	root  Node
	node  Node
	stack contextStack

	outline OutlineID
	section SectionID
	result  OutlineID
}

// run visits every node below root: pre-order enter, post-order exit, using
// the first-child/next-sibling/parent links instead of recursion.
func (t *traversal) run() error {
	t.node = t.root
	for {
		skip, err := t.enter(t.node)
		if err != nil {
			t.reset()
			return err
		}
		if !skip {
			if child := t.node.FirstChild(); child != nil {
				t.node = child
				continue
			}
		}

		for {
			if err := t.exit(t.node); err != nil {
				t.reset()
				return err
			}
			if t.node == t.root {
				t.finish()
				return nil
			}
			if next := t.node.NextSibling(); next != nil {
				t.node = next
				break
			}
			t.node = t.node.Parent()
			if t.node == nil {
				panic(t.violation("walk left the root's subtree"))
			}
		}
	}
}

func (t *traversal) reset() {
	t.stack.reset()
	t.node = nil
	t.outline = noOutline
	t.section = noSection
	t.result = noOutline
	t.tree = nil
}

func (t *traversal) finish() {
	t.node = nil
	t.section = noSection
	if !t.b.opts.VerifyInvariants {
		return
	}
	t.check(t.stack.empty(), "context stack not empty after walk")
	t.check(t.result != noOutline, "walk finished without an outline")
	t.check(t.outline == t.result, "current outline is not the root outline")
	t.verifyTree()
}

// enter reports whether the children of n should be skipped.
func (t *traversal) enter(n Node) (bool, error) {
	kind, rank := t.b.classifier.Classify(n)

	if !t.stack.empty() {
		ignore, err := t.contextEnter(n, kind)
		if err != nil || ignore {
			return t.skipChildren(), err
		}
	}

	switch kind {
	case KindNonElement, KindOther:
	case KindHidden:
		t.enterHidden(n)
	case KindSectioningRoot:
		t.enterSectioningRoot(n)
	case KindSectioningContent:
		t.enterSectioningContent(n)
	case KindHeading:
		t.enterHeading(n, rank)
	default:
		panic(t.violation(fmt.Sprintf("unhandled node kind %s", kind)))
	}
	return t.skipChildren(), nil
}

func (t *traversal) exit(n Node) error {
	if !t.stack.empty() && t.contextExit(n) {
		return nil
	}

	kind, _ := t.b.classifier.Classify(n)
	switch kind {
	case KindNonElement, KindOther:
	case KindHidden:
		t.exitHidden(n)
	case KindSectioningRoot:
		t.exitSectioningRoot(n)
	case KindSectioningContent:
		t.exitSectioningContent(n)
	case KindHeading:
		t.exitHeading(n)
	default:
		panic(t.violation(fmt.Sprintf("unhandled node kind %s", kind)))
	}
	return nil
}

func (t *traversal) skipChildren() bool {
	return t.b.opts.SkipIgnoredSubtrees && t.stack.state() == stateIgnore
}

// contextEnter reports whether n lies inside an ignored subtree.
func (t *traversal) contextEnter(n Node, kind Kind) (bool, error) {
	top, _ := t.stack.top()
	switch top.state {
	case stateIgnore:
		return true, nil
	case stateHeading:
		switch kind {
		case KindSectioningRoot, KindSectioningContent, KindHeading:
			msg := fmt.Sprintf("<%s> inside heading <%s>", n.TagName(), top.node.TagName())
			if t.b.opts.VerifyValidHTML {
				return false, &Error{Code: CodeInvalidHTML, Message: msg, Path: Path(n, t.root)}
			}
			t.b.log.Debug("invalid html, continuing", "problem", msg, "path", Path(n, t.root))
		}
	}
	return false, nil
}

// contextExit reports whether n lies strictly inside an ignored subtree.
// The node that pushed the innermost context is never ignored here: its
// exit handler owns the pop.
func (t *traversal) contextExit(n Node) bool {
	top, _ := t.stack.top()
	if top.node == n {
		return false
	}
	return top.state == stateIgnore
}

func (t *traversal) enterHidden(n Node) {
	t.push(n, stateIgnore)
}

func (t *traversal) exitHidden(n Node) {
	c := t.pop(n, stateIgnore)
	t.check(c.outline == t.outline, "hidden element changed the current outline")
	t.check(c.section == t.section, "hidden element changed the current section")
}

func (t *traversal) enterSectioningRoot(n Node) {
	if t.stack.empty() {
		t.enterRoot(n, stateSectioningRoot)
		return
	}
	if t.b.opts.IgnoreInnerSectioningRoots {
		t.push(n, stateIgnore)
		return
	}
	// The open section stays open: whatever follows the inner root still
	// belongs to it.
	t.push(n, stateSectioningRoot)
	t.openOutline(n)
}

func (t *traversal) exitSectioningRoot(n Node) {
	if top, _ := t.stack.top(); top.state == stateIgnore {
		c := t.pop(n, stateIgnore)
		t.check(c.outline == t.outline, "ignored sectioning root changed the current outline")
		t.check(c.section == t.section, "ignored sectioning root changed the current section")
		return
	}

	t.tree.imply(t.section)
	c := t.pop(n, stateSectioningRoot)
	if c.isRoot() {
		return
	}
	t.check(c.outline != t.outline, "inner sectioning root shares the enclosing outline")
	// The inner outline is dropped; it never contributes to its ancestors.
	t.outline = c.outline
	t.section = c.section
}

func (t *traversal) enterSectioningContent(n Node) {
	if t.stack.empty() {
		t.enterRoot(n, stateSectioningContent)
		return
	}
	// Sectioning content always ends the section in front of it.
	t.tree.imply(t.section)
	t.push(n, stateSectioningContent)
	t.openOutline(n)
}

func (t *traversal) exitSectioningContent(n Node) {
	t.tree.imply(t.section)
	inner := t.outline
	c := t.pop(n, stateSectioningContent)
	if c.isRoot() {
		return
	}
	t.check(c.outline != inner, "sectioning content shares the enclosing outline")

	t.outline = c.outline
	last, ok := t.tree.lastSection(t.outline)
	if !ok {
		panic(t.violation("enclosing outline has no sections"))
	}
	t.section = last

	for _, s := range t.tree.outline(inner).sections {
		if err := t.tree.addSubSection(last, s); err != nil {
			panic(t.wrap(err))
		}
		sd := t.tree.section(s)
		sd.merged = true
		sd.outline = noOutline
	}
}

func (t *traversal) enterRoot(n Node, st state) {
	t.check(n == t.root, "first sectioning element is not the root")
	t.stack.push(context{node: n, state: st, outline: noOutline, section: noSection})
	t.openOutline(n)
	t.result = t.outline
}

func (t *traversal) enterHeading(n Node, rank int) {
	if t.tree.section(t.section).state == headingUnset {
		// First heading of the section, whatever its rank.
		if err := t.tree.setHeading(t.section, n, rank); err != nil {
			panic(t.wrap(err))
		}
		t.push(n, stateHeading)
		return
	}

	last, ok := t.tree.lastSection(t.outline)
	if !ok {
		panic(t.violation("current outline has no sections"))
	}
	t.check(last == t.section || t.tree.isAncestor(last, t.section),
		"last top-level section is not on the current section's chain")

	ld := t.tree.section(last)
	if ld.state == headingImplied || rank <= ld.rank {
		t.section = t.addTopLevel(n, rank)
		t.push(n, stateHeading)
		return
	}

	candidate := t.section
	for {
		cd := t.tree.section(candidate)
		t.check(cd.state == headingExplicit, "heading placement reached a section without a heading")
		if rank > cd.rank {
			s := t.newHeadingSection(n, rank)
			if err := t.tree.addSubSection(candidate, s); err != nil {
				panic(t.wrap(err))
			}
			t.section = s
			break
		}
		if cd.parent == noSection {
			t.check(candidate == last, "heading placement left the current outline")
			t.section = t.addTopLevel(n, rank)
			break
		}
		candidate = cd.parent
	}
	t.push(n, stateHeading)
}

func (t *traversal) exitHeading(n Node) {
	c := t.pop(n, stateHeading)
	t.check(c.outline == t.outline, "heading changed the current outline")
	if t.b.opts.VerifyValidHTML {
		t.check(c.section == t.section, "heading changed the current section")
	}
	// The heading's section stays current for the content that follows.
}

func (t *traversal) openOutline(owner Node) {
	o := t.tree.newOutline(owner)
	s := t.tree.newSection(owner)
	t.tree.addSection(o, s)
	t.outline = o
	t.section = s
}

func (t *traversal) newHeadingSection(n Node, rank int) SectionID {
	s := t.tree.newSection(n)
	if err := t.tree.setHeading(s, n, rank); err != nil {
		panic(t.wrap(err))
	}
	return s
}

func (t *traversal) addTopLevel(n Node, rank int) SectionID {
	s := t.newHeadingSection(n, rank)
	t.tree.addSection(t.outline, s)
	return s
}

func (t *traversal) push(n Node, st state) {
	t.stack.push(context{node: n, state: st, outline: t.outline, section: t.section})
}

func (t *traversal) pop(n Node, want state) context {
	c, err := t.stack.pop()
	if err != nil {
		panic(t.wrap(err))
	}
	t.check(c.node == n, "popped context belongs to another node")
	t.check(c.state == want, fmt.Sprintf("popped %s context, want %s", c.state, want))
	return c
}

func (t *traversal) check(ok bool, msg string) {
	if ok || !t.b.opts.VerifyInvariants {
		return
	}
	panic(t.violation(msg))
}

func (t *traversal) violation(msg string) *Error {
	e := &Error{Code: CodeInvariant, Message: msg}
	if t.node != nil {
		e.Path = Path(t.node, t.root)
	}
	return e
}

func (t *traversal) wrap(err error) *Error {
	if e, ok := err.(*Error); ok {
		return t.violation(e.Message)
	}
	return t.violation(err.Error())
}
