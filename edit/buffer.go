// Package edit is a text buffer over an original source that records range edits (overwrite, remove, insert, move) and renders the result together with a source map.
package edit

import (
	"fmt"
	"strings"

	"github.com/tdewolff/squash/sourcemap"
)

// Buffer holds the original text as a linked list of chunks. Every edit splits chunks at its boundaries, so a chunk never straddles an edit boundary.
// Text inserted at a position belongs to the chunk on its side: AppendLeft attaches to the chunk ending at the position, PrependRight to the chunk starting there.
type Buffer struct {
	original     string
	intro, outro string

	first, last  *chunk
	byStart      map[int]*chunk
	byEnd        map[int]*chunk
	lastSearched *chunk

	anchors map[int]bool
	err     error
}

// New returns a new Buffer for src.
func New(src string) *Buffer {
	c := newChunk(0, len(src), src)
	return &Buffer{
		original:     src,
		first:        c,
		last:         c,
		byStart:      map[int]*chunk{0: c},
		byEnd:        map[int]*chunk{len(src): c},
		lastSearched: c,
		anchors:      map[int]bool{},
	}
}

// Original returns the original text.
func (b *Buffer) Original() string {
	return b.original
}

// Err returns the first edit that could not be applied, or nil.
func (b *Buffer) Err() error {
	return b.err
}

func (b *Buffer) fail(format string, args ...interface{}) {
	if b.err == nil {
		b.err = fmt.Errorf(format, args...)
	}
}

// AddAnchor registers an original position at which the source map gets a mapping, even when the position is inside an unedited chunk.
func (b *Buffer) AddAnchor(pos int) {
	b.anchors[pos] = true
}

// AppendLeft inserts text at pos, after any text previously appended to the left of pos.
func (b *Buffer) AppendLeft(pos int, text string) {
	if !b.split(pos) {
		return
	}
	if c, ok := b.byEnd[pos]; ok {
		c.outro += text
	} else {
		b.intro += text
	}
}

// PrependRight inserts text at pos, before any text previously prepended to the right of pos.
func (b *Buffer) PrependRight(pos int, text string) {
	if !b.split(pos) {
		return
	}
	if c, ok := b.byStart[pos]; ok {
		c.intro = text + c.intro
	} else {
		b.outro = text + b.outro
	}
}

// Overwrite replaces the original text in [start,end) by text. Insertions at the outer boundaries are kept, insertions inside the range are dropped.
func (b *Buffer) Overwrite(start, end int, text string) {
	if end <= start {
		b.fail("cannot overwrite empty range %d-%d", start, end)
		return
	} else if !b.split(start) || !b.split(end) {
		return
	}

	first := b.byStart[start]
	first.content = text
	first.edited = true
	if first.end < end {
		first.outro = ""
	}
	for c := first; c.end < end; {
		c = b.byStart[c.end]
		c.content = ""
		c.edited = true
		c.intro = ""
		if c.end < end {
			c.outro = ""
		}
	}
}

// Remove removes [start,end) together with all text inserted into its chunks.
func (b *Buffer) Remove(start, end int) {
	if end <= start {
		return
	} else if !b.split(start) || !b.split(end) {
		return
	}

	for c := b.byStart[start]; c != nil; {
		c.content = ""
		c.edited = true
		c.intro = ""
		c.outro = ""
		if end <= c.end {
			break
		}
		c = b.byStart[c.end]
	}
}

// Move moves [start,end) so that it is rendered at pos.
func (b *Buffer) Move(start, end, pos int) {
	if end <= start || start <= pos && pos <= end {
		return
	} else if !b.split(start) || !b.split(end) || !b.split(pos) {
		return
	}

	first := b.byStart[start]
	last := b.byEnd[end]
	oldLeft := first.prev
	oldRight := last.next

	newRight := b.byStart[pos]
	if newRight == nil && last == b.last {
		return
	}

	// unlink
	if oldLeft != nil {
		oldLeft.next = oldRight
	} else {
		b.first = oldRight
	}
	if oldRight != nil {
		oldRight.prev = oldLeft
	} else {
		b.last = oldLeft
	}

	// relink
	newLeft := b.last
	if newRight != nil {
		newLeft = newRight.prev
	}
	first.prev = newLeft
	last.next = newRight
	if newLeft != nil {
		newLeft.next = first
	} else {
		b.first = first
	}
	if newRight != nil {
		newRight.prev = last
	} else {
		b.last = last
	}
}

// String renders the edited text.
func (b *Buffer) String() string {
	sb := strings.Builder{}
	sb.Grow(len(b.original))
	sb.WriteString(b.intro)
	for c := b.first; c != nil; c = c.next {
		sb.WriteString(c.intro)
		sb.WriteString(c.content)
		sb.WriteString(c.outro)
	}
	sb.WriteString(b.outro)
	return sb.String()
}

// split makes sure a chunk starts or ends at pos.
func (b *Buffer) split(pos int) bool {
	if pos < 0 || len(b.original) < pos {
		b.fail("position %d out of range", pos)
		return false
	} else if _, ok := b.byStart[pos]; ok {
		return true
	} else if _, ok := b.byEnd[pos]; ok {
		return true
	}

	c := b.lastSearched
	forward := c.end < pos
	for c != nil {
		if c.start < pos && pos < c.end {
			break
		}
		if forward {
			c = b.byStart[c.end]
		} else {
			c = b.byEnd[c.start]
		}
	}
	if c == nil {
		b.fail("no chunk contains position %d", pos)
		return false
	} else if c.edited && c.content != "" {
		b.fail("cannot split chunk %d-%d at %d, it has already been edited", c.start, c.end, pos)
		return false
	}

	n := c.split(pos)
	b.byEnd[pos] = c
	b.byStart[pos] = n
	b.byEnd[n.end] = n
	if c == b.last {
		b.last = n
	}
	b.lastSearched = c
	return true
}

// MapOptions control the generated source map.
type MapOptions struct {
	File           string
	Source         string
	IncludeContent bool
}

// Map generates a source map from the edited text back to the original.
func (b *Buffer) Map(o MapOptions) *sourcemap.SourceMap {
	sm := sourcemap.New(o.File, []string{o.Source})
	if o.IncludeContent {
		sm.SourcesContent = []string{b.original}
	}

	loc := newLocator(b.original)
	g := generated{sm: sm}
	g.advance(b.intro)
	for c := b.first; c != nil; c = c.next {
		g.advance(c.intro)
		if c.content != "" {
			line, col := loc.Locate(c.start)
			if c.edited {
				g.add(line, col)
				g.advance(c.content)
			} else {
				g.addUnedited(c, b.anchors, line, col)
			}
		}
		g.advance(c.outro)
	}
	return sm
}

type generated struct {
	sm        *sourcemap.SourceMap
	line, col int
}

func (g *generated) add(srcLine, srcCol int) {
	if n := len(g.sm.Mappings); 0 < n {
		last := g.sm.Mappings[n-1]
		if int(last.DstLine) == g.line && int(last.DstCol) == g.col {
			return
		}
	}
	g.sm.Add(0, srcLine, srcCol, g.line, g.col, "")
}

func (g *generated) advance(s string) {
	for _, r := range s {
		if r == '\n' {
			g.line++
			g.col = 0
		} else {
			g.col += utf16Len(r)
		}
	}
}

func (g *generated) addUnedited(c *chunk, anchors map[int]bool, srcLine, srcCol int) {
	first := true
	for i, r := range c.content {
		if first || anchors[c.start+i] {
			g.add(srcLine, srcCol)
		}
		first = false
		if r == '\n' {
			g.line++
			g.col = 0
			srcLine++
			srcCol = 0
			first = true
		} else {
			n := utf16Len(r)
			g.col += n
			srcCol += n
		}
	}
}
