package sourcemap

import (
	"encoding/json"
	"testing"

	"github.com/tdewolff/test"
)

func TestVLQ(t *testing.T) {
	var vlqTests = []struct {
		val      int32
		expected string
	}{
		{0, "A"},
		{1, "C"},
		{-1, "D"},
		{15, "e"},
		{16, "gB"},
		{-16, "hB"},
		{123, "2H"},
		{-2147483647, "//////D"},
	}
	for _, tt := range vlqTests {
		t.Run(tt.expected, func(t *testing.T) {
			b := WriteVLQ(nil, tt.val)
			test.String(t, string(b), tt.expected)

			val, n, ok := ReadVLQ(b, 0)
			test.That(t, ok)
			test.T(t, n, len(b))
			test.T(t, val, tt.val)
		})
	}

	_, _, ok := ReadVLQ([]byte("g"), 0)
	test.That(t, !ok, "unterminated continuation")
	_, _, ok = ReadVLQ([]byte("!"), 0)
	test.That(t, !ok, "invalid digit")
}

func TestMappings(t *testing.T) {
	sm := New("out.js", []string{"in.js"})
	sm.Add(0, 0, 0, 0, 0, "")
	sm.Add(0, 0, 9, 0, 4, "")
	sm.Add(0, 2, 2, 1, 0, "foo")
	sm.Add(0, 3, 0, 3, 7, "foo")

	mappings := EncodeMappings(sm.Mappings)
	test.String(t, mappings, "AAAA,IAAS;AAEPA;;OACFA")

	decoded, err := DecodeMappings(mappings)
	test.Error(t, err)
	test.T(t, len(decoded), len(sm.Mappings))
	for i := range decoded {
		test.T(t, decoded[i], sm.Mappings[i])
	}

	_, err = DecodeMappings("AA")
	test.T(t, err, ErrMappings)
}

func TestFind(t *testing.T) {
	sm := New("", []string{"in.js"})
	sm.Add(0, 0, 0, 0, 0, "")
	sm.Add(0, 1, 4, 0, 10, "")
	sm.Add(0, 2, 0, 1, 0, "")

	m := sm.Find(0, 3)
	test.That(t, m != nil)
	test.T(t, m.SrcLine, int32(1))
	test.T(t, m.SrcCol, int32(4))
	test.That(t, sm.Find(0, 11) == nil, "past the last segment of the line")
	test.That(t, sm.Find(5, 0) == nil, "no such line")
}

func TestJSON(t *testing.T) {
	sm := New("out.js", []string{"in.js"})
	sm.SourcesContent = []string{"var a = \" \";"}
	sm.Add(0, 0, 0, 0, 0, "")

	b, err := json.Marshal(sm)
	test.Error(t, err)
	test.String(t, string(b), `{"version":3,"file":"out.js","sources":["in.js"],"sourcesContent":["var a = \" \";"],"names":[],"mappings":"AAAA"}`)

	sm2 := &SourceMap{}
	test.Error(t, json.Unmarshal(b, sm2))
	test.T(t, sm2.File, "out.js")
	test.T(t, len(sm2.Mappings), 1)
	test.String(t, sm.URL()[:29], "data:application/json;charset")
}
