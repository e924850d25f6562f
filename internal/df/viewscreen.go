package df

import "github.com/f3rmion/dfscope/internal/layout"

// maxScreenDepth bounds the walk down the viewscreen stack.
const maxScreenDepth = 32

// onScreen reports whether any screen on the target's UI stack is an
// instance of the class whose vtable lives at the named global.
func (s *session) onScreen(vtableGlobal string) bool {
	want := s.global(vtableGlobal)
	child := s.off(layout.Viewscreen, "child")

	screen := s.global("gview")
	for range maxScreenDepth {
		screen = s.r.Ptr(screen + child)
		if screen == 0 {
			return false
		}
		if s.r.Ptr(screen) == want {
			return true
		}
	}
	return false
}
