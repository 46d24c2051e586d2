package outline

import "fmt"

// verifyTree checks the finished root outline: every section has a heading,
// back-references agree with ownership, and sub-sections placed by heading
// rank are strictly finer than their parent.
func (t *traversal) verifyTree() {
	od := t.tree.outline(t.result)
	for _, s := range od.sections {
		sd := t.tree.section(s)
		t.check(sd.parent == noSection, "top-level section has a parent section")
		t.check(sd.outline == t.result, "top-level section points at another outline")
		t.verifySection(s)
	}
}

func (t *traversal) verifySection(s SectionID) {
	sd := t.tree.section(s)
	t.check(sd.state != headingUnset, "section finished without a heading")
	for _, sub := range sd.subs {
		cd := t.tree.section(sub)
		t.check(cd.parent == s, "sub-section points at another parent")
		if !cd.merged && sd.state == headingExplicit && cd.state == headingExplicit {
			t.check(cd.rank > sd.rank,
				fmt.Sprintf("sub-section rank %d is not finer than parent rank %d", cd.rank, sd.rank))
		}
		t.verifySection(sub)
	}
}
