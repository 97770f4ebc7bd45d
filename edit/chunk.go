package edit

import (
	"sort"
	"unicode/utf8"
)

type chunk struct {
	start, end   int
	original     string
	content      string
	intro, outro string
	edited       bool

	prev, next *chunk
}

func newChunk(start, end int, content string) *chunk {
	return &chunk{
		start:    start,
		end:      end,
		original: content,
		content:  content,
	}
}

// split cuts the chunk at pos and returns the second half, which inherits the outro.
func (c *chunk) split(pos int) *chunk {
	i := pos - c.start
	before, after := c.original[:i], c.original[i:]

	n := newChunk(pos, c.end, after)
	n.outro = c.outro
	c.outro = ""
	c.original = before
	c.end = pos
	if c.edited {
		n.content = ""
		n.edited = true
		c.content = ""
	} else {
		c.content = before
	}

	n.next = c.next
	if n.next != nil {
		n.next.prev = n
	}
	n.prev = c
	c.next = n
	return n
}

////////////////////////////////////////////////////////////////

// locator converts byte offsets into zero-based lines and UTF-16 columns.
type locator struct {
	src   string
	lines []int
}

func newLocator(src string) *locator {
	lines := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			lines = append(lines, i+1)
		}
	}
	return &locator{src, lines}
}

// Locate returns the zero-based line and UTF-16 column of offset.
func (l *locator) Locate(offset int) (int, int) {
	line := sort.Search(len(l.lines), func(i int) bool {
		return offset < l.lines[i]
	}) - 1
	col := 0
	for _, r := range l.src[l.lines[line]:offset] {
		col += utf16Len(r)
	}
	return line, col
}

func utf16Len(r rune) int {
	if 0x10000 <= r && r != utf8.RuneError {
		return 2
	}
	return 1
}
