package outline

// SectionID and OutlineID index into the arena of one Build call.
type (
	SectionID int
	OutlineID int
)

const (
	noSection SectionID = -1
	noOutline OutlineID = -1
)

type headingState uint8

const (
	headingUnset headingState = iota
	headingImplied
	headingExplicit
)

type sectionData struct {
	start   Node
	state   headingState
	heading Node
	rank    int
	subs    []SectionID
	parent  SectionID
	outline OutlineID
	merged  bool
}

type outlineData struct {
	owner    Node
	sections []SectionID
}

// Tree owns every section and outline created during one Build call.
type Tree struct {
	sections []sectionData
	outlines []outlineData
}

func (t *Tree) newOutline(owner Node) OutlineID {
	t.outlines = append(t.outlines, outlineData{owner: owner})
	return OutlineID(len(t.outlines) - 1)
}

func (t *Tree) newSection(start Node) SectionID {
	t.sections = append(t.sections, sectionData{
		start:   start,
		parent:  noSection,
		outline: noOutline,
	})
	return SectionID(len(t.sections) - 1)
}

func (t *Tree) section(id SectionID) *sectionData { return &t.sections[id] }
func (t *Tree) outline(id OutlineID) *outlineData { return &t.outlines[id] }

// addSection appends s as a top-level section of o.
func (t *Tree) addSection(o OutlineID, s SectionID) {
	od := t.outline(o)
	od.sections = append(od.sections, s)
	t.section(s).outline = o
}

// addSubSection appends child below parent. A section is re-parented at most
// once and only while it is still a top-level section of some outline.
func (t *Tree) addSubSection(parent, child SectionID) error {
	cd := t.section(child)
	if cd.parent != noSection {
		return newError(CodeInvariant, "section already has a parent section")
	}
	pd := t.section(parent)
	pd.subs = append(pd.subs, child)
	cd.parent = parent
	return nil
}

func (t *Tree) lastSection(o OutlineID) (SectionID, bool) {
	secs := t.outline(o).sections
	if len(secs) == 0 {
		return noSection, false
	}
	return secs[len(secs)-1], true
}

func (t *Tree) setHeading(s SectionID, heading Node, rank int) error {
	sd := t.section(s)
	if sd.state != headingUnset {
		return newError(CodeInvariant, "section heading assigned twice")
	}
	sd.state = headingExplicit
	sd.heading = heading
	sd.rank = rank
	return nil
}

// imply marks an unset heading as implied; it never overwrites.
func (t *Tree) imply(s SectionID) {
	sd := t.section(s)
	if sd.state == headingUnset {
		sd.state = headingImplied
	}
}

// isAncestor reports whether a is a strict ancestor of s.
func (t *Tree) isAncestor(a, s SectionID) bool {
	for p := t.section(s).parent; p != noSection; p = t.section(p).parent {
		if p == a {
			return true
		}
	}
	return false
}

// Outline is the ordered forest of top-level sections of one sectioning
// element. The zero value is an empty outline.
type Outline struct {
	tree *Tree
	id   OutlineID
}

// Owner is the sectioning element the outline belongs to.
func (o Outline) Owner() Node {
	if o.tree == nil {
		return nil
	}
	return o.tree.outline(o.id).owner
}

// Sections returns the top-level sections in document order.
func (o Outline) Sections() []Section {
	if o.tree == nil {
		return nil
	}
	ids := o.tree.outline(o.id).sections
	out := make([]Section, len(ids))
	for i, id := range ids {
		out[i] = Section{tree: o.tree, id: id}
	}
	return out
}

// Len is the number of sections in the outline, nested ones included.
func (o Outline) Len() int {
	n := 0
	o.Walk(func(Section, int) bool {
		n++
		return true
	})
	return n
}

// Walk visits every section depth-first in document order. Depth is 0 for
// top-level sections. Returning false from fn skips the section's children.
func (o Outline) Walk(fn func(s Section, depth int) bool) {
	var walk func(secs []Section, depth int)
	walk = func(secs []Section, depth int) {
		for _, s := range secs {
			if fn(s, depth) {
				walk(s.SubSections(), depth+1)
			}
		}
	}
	walk(o.Sections(), 0)
}

// Equal reports whether both outlines have the same shape and every pair of
// corresponding sections has the same heading node (or both are implied).
func (o Outline) Equal(other Outline) bool {
	return equalSections(o.Sections(), other.Sections())
}

func equalSections(a, b []Section) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].HasImpliedHeading() != b[i].HasImpliedHeading() {
			return false
		}
		if a[i].Heading() != b[i].Heading() {
			return false
		}
		if !equalSections(a[i].SubSections(), b[i].SubSections()) {
			return false
		}
	}
	return true
}

// Section is one entry of an outline.
type Section struct {
	tree *Tree
	id   SectionID
}

func (s Section) data() *sectionData { return s.tree.section(s.id) }

// ID is the section's index in its arena.
func (s Section) ID() SectionID { return s.id }

// StartingNode is the sectioning element or heading that opened the section.
func (s Section) StartingNode() Node { return s.data().start }

// Heading is the section's heading element, or nil when the heading is
// implied.
func (s Section) Heading() Node {
	d := s.data()
	if d.state != headingExplicit {
		return nil
	}
	return d.heading
}

// HasImpliedHeading reports that the section closed without a heading.
func (s Section) HasImpliedHeading() bool { return s.data().state == headingImplied }

// Rank is the heading level (1 for h1), or 0 for implied headings.
func (s Section) Rank() int {
	d := s.data()
	if d.state != headingExplicit {
		return 0
	}
	return d.rank
}

// SubSections returns the nested sections in document order.
func (s Section) SubSections() []Section {
	ids := s.data().subs
	out := make([]Section, len(ids))
	for i, id := range ids {
		out[i] = Section{tree: s.tree, id: id}
	}
	return out
}

// Parent returns the enclosing section, if any.
func (s Section) Parent() (Section, bool) {
	p := s.data().parent
	if p == noSection {
		return Section{}, false
	}
	return Section{tree: s.tree, id: p}, true
}
