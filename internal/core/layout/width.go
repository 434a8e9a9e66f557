package layout

import "github.com/mattn/go-runewidth"

// runeWidth returns the display width of r. Control and combining runes take
// no columns; tabs take tab columns.
func runeWidth(r rune, tab int) int {
	if r == '\t' {
		return tab
	}
	w := runewidth.RuneWidth(r)
	if w < 0 {
		return 0
	}
	return w
}

// stringWidth returns the display width of s.
func stringWidth(s string, tab int) int {
	w := 0
	for _, r := range s {
		w += runeWidth(r, tab)
	}
	return w
}

// indexAtWidth returns the byte index of the first rune in s that starts at
// or after column col.
func indexAtWidth(s string, col, tab int) int {
	w := 0
	for i, r := range s {
		rw := runeWidth(r, tab)
		if w >= col || w+rw > col {
			return i
		}
		w += rw
	}
	return len(s)
}

// wrap breaks s into byte ranges no wider than width columns, preferring
// to break after a space. Spaces may hang past the edge. An empty string
// yields a single empty range.
func wrap(s string, width, tab int) [][2]int {
	if width < 1 {
		width = 1
	}

	var out [][2]int
	start, col, brk := 0, 0, -1
	for i, r := range s {
		rw := runeWidth(r, tab)
		if r == ' ' {
			col += rw
			brk = i + 1
			continue
		}

		if col+rw > width && i > start {
			if brk > start {
				out = append(out, [2]int{start, brk})
				start = brk
			} else {
				out = append(out, [2]int{start, i})
				start = i
			}
			col = stringWidth(s[start:i], tab)
			brk = -1
		}
		col += rw
	}

	return append(out, [2]int{start, len(s)})
}
