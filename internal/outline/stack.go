package outline

type state uint8

const (
	stateStart state = iota
	stateIgnore
	stateSectioningRoot
	stateSectioningContent
	stateHeading
)

func (s state) String() string {
	switch s {
	case stateStart:
		return "start"
	case stateIgnore:
		return "ignore"
	case stateSectioningRoot:
		return "sectioning-root"
	case stateSectioningContent:
		return "sectioning-content"
	case stateHeading:
		return "heading"
	}
	return "unknown"
}

// context is the snapshot saved when a node changes state. outline and
// section are the values to restore when node is exited; both are unset for
// the root element's context.
type context struct {
	node    Node
	state   state
	outline OutlineID
	section SectionID
}

func (c context) isRoot() bool { return c.outline == noOutline }

type contextStack struct {
	items []context
}

func (s *contextStack) push(c context) { s.items = append(s.items, c) }

func (s *contextStack) pop() (context, error) {
	if len(s.items) == 0 {
		return context{}, newError(CodeInvariant, "pop on empty context stack")
	}
	c := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return c, nil
}

func (s *contextStack) top() (context, bool) {
	if len(s.items) == 0 {
		return context{}, false
	}
	return s.items[len(s.items)-1], true
}

func (s *contextStack) empty() bool { return len(s.items) == 0 }

func (s *contextStack) depth() int { return len(s.items) }

func (s *contextStack) reset() { s.items = s.items[:0] }

// state is the state established by the innermost context.
func (s *contextStack) state() state {
	c, ok := s.top()
	if !ok {
		return stateStart
	}
	return c.state
}
