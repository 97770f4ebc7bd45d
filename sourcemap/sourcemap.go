// Package sourcemap holds the version 3 source map model and its Base64 VLQ mapping codec.
package sourcemap

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"sort"
)

// ErrMappings is returned when the mappings field cannot be decoded.
var ErrMappings = errors.New("invalid source map mappings")

// Mapping maps a position in the generated code to a position in a source. Lines and columns are zero-based, columns count UTF-16 code units.
type Mapping struct {
	DstLine, DstCol int32
	Src             int32
	SrcLine, SrcCol int32
	Name            int32 // -1 when no name is attached
}

// SourceMap is a version 3 source map.
type SourceMap struct {
	File           string
	Sources        []string
	SourcesContent []string
	Names          []string
	Mappings       []Mapping
}

// New returns a new SourceMap for the given output file and sources.
func New(file string, sources []string) *SourceMap {
	return &SourceMap{
		File:    file,
		Sources: sources,
	}
}

// Add adds a mapping, mappings must be added in generated order.
func (sm *SourceMap) Add(src, srcLine, srcCol, dstLine, dstCol int, name string) {
	iName := int32(-1)
	if name != "" {
		iName = int32(len(sm.Names))
		for i, n := range sm.Names {
			if n == name {
				iName = int32(i)
				break
			}
		}
		if iName == int32(len(sm.Names)) {
			sm.Names = append(sm.Names, name)
		}
	}
	sm.Mappings = append(sm.Mappings, Mapping{
		DstLine: int32(dstLine),
		DstCol:  int32(dstCol),
		Src:     int32(src),
		SrcLine: int32(srcLine),
		SrcCol:  int32(srcCol),
		Name:    iName,
	})
}

// Find returns the first mapping on the generated line at or after the generated column, or nil.
func (sm *SourceMap) Find(line, col int) *Mapping {
	i := sort.Search(len(sm.Mappings), func(i int) bool {
		m := sm.Mappings[i]
		return int(m.DstLine) > line || int(m.DstLine) == line && int(m.DstCol) >= col
	})
	if i < len(sm.Mappings) && int(sm.Mappings[i].DstLine) == line {
		return &sm.Mappings[i]
	}
	return nil
}

type jsonMap struct {
	Version        int      `json:"version"`
	File           string   `json:"file,omitempty"`
	Sources        []string `json:"sources"`
	SourcesContent []string `json:"sourcesContent,omitempty"`
	Names          []string `json:"names"`
	Mappings       string   `json:"mappings"`
}

// MarshalJSON implements json.Marshaler.
func (sm *SourceMap) MarshalJSON() ([]byte, error) {
	m := jsonMap{
		Version:        3,
		File:           sm.File,
		Sources:        sm.Sources,
		SourcesContent: sm.SourcesContent,
		Names:          sm.Names,
		Mappings:       EncodeMappings(sm.Mappings),
	}
	if m.Sources == nil {
		m.Sources = []string{}
	}
	if m.Names == nil {
		m.Names = []string{}
	}
	return json.Marshal(m)
}

// UnmarshalJSON implements json.Unmarshaler.
func (sm *SourceMap) UnmarshalJSON(b []byte) error {
	m := jsonMap{}
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	mappings, err := DecodeMappings(m.Mappings)
	if err != nil {
		return err
	}
	sm.File = m.File
	sm.Sources = m.Sources
	sm.SourcesContent = m.SourcesContent
	sm.Names = m.Names
	sm.Mappings = mappings
	return nil
}

// Write writes the source map as JSON to w.
func (sm *SourceMap) Write(w io.Writer) error {
	b, err := sm.MarshalJSON()
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

func (sm *SourceMap) String() string {
	b, _ := sm.MarshalJSON()
	return string(b)
}

// URL returns the source map as a base64 data URI, suitable for a sourceMappingURL comment.
func (sm *SourceMap) URL() string {
	b, _ := sm.MarshalJSON()
	return "data:application/json;charset=utf-8;base64," + base64.StdEncoding.EncodeToString(b)
}

// EncodeMappings encodes the mappings into the semicolon and comma separated Base64 VLQ format.
// Mappings must be sorted by generated line and column.
func EncodeMappings(mappings []Mapping) string {
	var b []byte
	var prevSrc, prevSrcLine, prevSrcCol, prevName, prevDstLine, prevDstCol int32
	for i, mapping := range mappings {
		if prevDstLine != mapping.DstLine {
			b = append(b, bytes.Repeat([]byte(";"), int(mapping.DstLine-prevDstLine))...)
			prevDstLine = mapping.DstLine
			prevDstCol = 0
		} else if i != 0 {
			b = append(b, ',')
		}
		b = WriteVLQ(b, mapping.DstCol-prevDstCol)
		prevDstCol = mapping.DstCol
		b = WriteVLQ(b, mapping.Src-prevSrc)
		prevSrc = mapping.Src
		b = WriteVLQ(b, mapping.SrcLine-prevSrcLine)
		prevSrcLine = mapping.SrcLine
		b = WriteVLQ(b, mapping.SrcCol-prevSrcCol)
		prevSrcCol = mapping.SrcCol
		if mapping.Name != -1 {
			b = WriteVLQ(b, mapping.Name-prevName)
			prevName = mapping.Name
		}
	}
	return string(b)
}

// DecodeMappings decodes the Base64 VLQ mappings format. Segments with only a generated column are skipped.
func DecodeMappings(s string) ([]Mapping, error) {
	var mappings []Mapping
	var src, srcLine, srcCol, name, dstLine, dstCol int32
	b := []byte(s)
	for i := 0; i < len(b); {
		switch b[i] {
		case ';':
			dstLine++
			dstCol = 0
			i++
			continue
		case ',':
			i++
			continue
		}

		var fields [5]int32
		n := 0
		for i < len(b) && b[i] != ',' && b[i] != ';' {
			if n == len(fields) {
				return nil, ErrMappings
			}
			v, j, ok := ReadVLQ(b, i)
			if !ok {
				return nil, ErrMappings
			}
			fields[n] = v
			n++
			i = j
		}
		if n != 1 && n != 4 && n != 5 {
			return nil, ErrMappings
		}
		dstCol += fields[0]
		if n == 1 {
			continue
		}
		src += fields[1]
		srcLine += fields[2]
		srcCol += fields[3]
		mapping := Mapping{
			DstLine: dstLine,
			DstCol:  dstCol,
			Src:     src,
			SrcLine: srcLine,
			SrcCol:  srcCol,
			Name:    -1,
		}
		if n == 5 {
			name += fields[4]
			mapping.Name = name
		}
		mappings = append(mappings, mapping)
	}
	return mappings, nil
}
