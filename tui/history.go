// Package tui provides a Bubble Tea heads-up display that runs an Antares
// level on a live clock.
package tui

// History is a fixed-size ring of submitted commands with cursor-based
// navigation.
type History struct {
	ring   []string
	start  int // index of the oldest entry
	n      int
	cursor int // -1 = not navigating, else offset from the oldest entry
}

// NewHistory creates a history ring holding at most max commands.
func NewHistory(max int) *History {
	if max < 1 {
		max = 1
	}
	return &History{ring: make([]string, max), cursor: -1}
}

// Len returns the number of stored commands.
func (h *History) Len() int { return h.n }

func (h *History) at(i int) string {
	return h.ring[(h.start+i)%len(h.ring)]
}

// Push adds a command. Consecutive duplicates are skipped; when full the
// oldest command is overwritten.
func (h *History) Push(cmd string) {
	if h.n > 0 && h.at(h.n-1) == cmd {
		return
	}
	if h.n < len(h.ring) {
		h.ring[(h.start+h.n)%len(h.ring)] = cmd
		h.n++
		return
	}
	h.ring[h.start] = cmd
	h.start = (h.start + 1) % len(h.ring)
}

// Prev returns the previous (older) command, stopping at the oldest.
func (h *History) Prev() (string, bool) {
	if h.n == 0 {
		return "", false
	}
	switch {
	case h.cursor == -1:
		h.cursor = h.n - 1
	case h.cursor > 0:
		h.cursor--
	}
	return h.at(h.cursor), true
}

// Next returns the next (newer) command. It returns ("", false) when
// moving past the newest, which ends navigation.
func (h *History) Next() (string, bool) {
	if h.cursor == -1 {
		return "", false
	}
	h.cursor++
	if h.cursor >= h.n {
		h.cursor = -1
		return "", false
	}
	return h.at(h.cursor), true
}

// ResetCursor ends navigation.
func (h *History) ResetCursor() {
	h.cursor = -1
}
