package edit

import (
	"testing"

	"github.com/tdewolff/test"
)

func TestBuffer(t *testing.T) {
	var editTests = []struct {
		src      string
		edit     func(*Buffer)
		expected string
	}{
		{"abcdef", func(b *Buffer) {}, "abcdef"},
		{"abcdef", func(b *Buffer) { b.Overwrite(1, 3, "X") }, "aXdef"},
		{"abcdef", func(b *Buffer) { b.Remove(0, 6) }, ""},
		{"abcdef", func(b *Buffer) { b.Remove(1, 2); b.Remove(4, 5) }, "acdf"},
		{"abcdef", func(b *Buffer) { b.AppendLeft(3, "1"); b.AppendLeft(3, "2") }, "abc12def"},
		{"abcdef", func(b *Buffer) { b.PrependRight(3, "1"); b.PrependRight(3, "2") }, "abc21def"},
		{"abcdef", func(b *Buffer) { b.PrependRight(3, "("); b.AppendLeft(3, ")") }, "abc)(def"},
		{"abcdef", func(b *Buffer) { b.AppendLeft(0, "<"); b.PrependRight(6, ">") }, "<abcdef>"},
		{"abcdef", func(b *Buffer) { b.PrependRight(2, "("); b.Overwrite(2, 4, "X") }, "ab(Xef"},
		{"abcdef", func(b *Buffer) { b.AppendLeft(4, ")"); b.Overwrite(2, 4, "X") }, "abX)ef"},
		{"abcdef", func(b *Buffer) { b.AppendLeft(3, "!"); b.Overwrite(2, 4, "X") }, "abXef"},
		{"abcdef", func(b *Buffer) { b.PrependRight(2, "("); b.Remove(2, 4) }, "abef"},
		{"abcdef", func(b *Buffer) { b.AppendLeft(2, "("); b.Remove(2, 4) }, "ab(ef"},
		{"abcdef", func(b *Buffer) { b.Remove(1, 4); b.Overwrite(2, 3, "X") }, "aXef"},
		{"abcdef", func(b *Buffer) { b.Move(0, 2, 6) }, "cdefab"},
		{"abcdef", func(b *Buffer) { b.Move(4, 6, 0) }, "efabcd"},
		{"abcdef", func(b *Buffer) { b.Move(3, 5, 1) }, "adebcf"},
		{"abcdef", func(b *Buffer) { b.Move(0, 2, 4); b.Move(4, 6, 0) }, "cdefab"},
		{"abcdef", func(b *Buffer) { b.Move(0, 2, 4); b.Overwrite(0, 2, "X") }, "cdXef"},
	}
	for _, tt := range editTests {
		t.Run(tt.expected, func(t *testing.T) {
			b := New(tt.src)
			tt.edit(b)
			test.Error(t, b.Err())
			test.String(t, b.String(), tt.expected)
		})
	}
}

func TestBufferErrors(t *testing.T) {
	b := New("abcdef")
	b.Overwrite(1, 4, "X")
	b.Remove(2, 3)
	test.That(t, b.Err() != nil, "splitting an overwritten chunk")
	test.String(t, b.String(), "aXef")

	b = New("abc")
	b.Overwrite(1, 1, "X")
	test.That(t, b.Err() != nil, "empty overwrite")

	b = New("abc")
	b.Remove(1, 7)
	test.That(t, b.Err() != nil, "out of range")
}

func TestBufferMap(t *testing.T) {
	b := New("var  a = 1;\nvar b;")
	b.Overwrite(3, 5, " ")
	b.Remove(6, 7)
	b.Remove(8, 9)
	b.Remove(11, 12)
	b.AddAnchor(16)

	test.String(t, b.String(), "var a=1;var b;")
	sm := b.Map(MapOptions{File: "out.js", Source: "in.js", IncludeContent: true})
	test.T(t, sm.File, "out.js")
	test.T(t, sm.SourcesContent, []string{"var  a = 1;\nvar b;"})

	m := sm.Find(0, 4)
	test.That(t, m != nil)
	test.T(t, m.SrcLine, int32(0))
	test.T(t, m.SrcCol, int32(5))

	m = sm.Find(0, 8)
	test.That(t, m != nil)
	test.T(t, m.SrcLine, int32(1))
	test.T(t, m.SrcCol, int32(0))

	m = sm.Find(0, 12)
	test.That(t, m != nil)
	test.T(t, m.SrcLine, int32(1))
	test.T(t, m.SrcCol, int32(4), "anchor")
}

func TestLocator(t *testing.T) {
	l := newLocator("ab\ncdé\U0001F600x\n")
	var locTests = []struct {
		offset    int
		line, col int
	}{
		{0, 0, 0},
		{2, 0, 2},
		{3, 1, 0},
		{5, 1, 2},
		{7, 1, 3},
		{11, 1, 5},
		{13, 2, 0},
	}
	for _, tt := range locTests {
		line, col := l.Locate(tt.offset)
		test.T(t, line, tt.line, "line of", tt.offset)
		test.T(t, col, tt.col, "column of", tt.offset)
	}
}
