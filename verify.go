package squash

import (
	"errors"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/t14raptor/go-fast/parser"
	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/squash/estree"
	"github.com/tdewolff/squash/sourcemap"
)

// check parses the generated code again. If it is invalid, the statement of the input that reproduces the failure by itself is searched for.
func check(src, code string, sm *sourcemap.SourceMap, o Options) error {
	if _, err := estree.Parse(code); err != nil {
		offset := -1
		var syntaxErr *estree.Error
		if errors.As(err, &syntaxErr) {
			offset = sourceOffset(src, code, sm, syntaxErr.Offset)
		}
		return &InternalError{
			Message: "generated code does not parse: " + err.Error(),
			Output:  code,
			Repro:   reproduce(src, offset, o, invalid),
		}
	}

	// scripts are parsed by a second, independent parser
	if _, err := parser.ParseFile(src); err == nil {
		if _, err := parser.ParseFile(code); err != nil {
			return &InternalError{
				Message: "generated code does not parse: " + err.Error(),
				Output:  code,
				Repro:   reproduce(src, -1, o, crossInvalid),
			}
		}
	}
	return nil
}

func invalid(code string) bool {
	_, err := estree.Parse(code)
	return err != nil
}

func crossInvalid(code string) bool {
	_, err := parser.ParseFile(code)
	return err != nil
}

// reproduce minifies the statements around the failure point of the input one at a time, from the innermost outwards, and returns the first one that fails by itself.
func reproduce(src string, offset int, o Options, fails func(string) bool) *Repro {
	ast, err := estree.Parse(src)
	if err != nil {
		return nil
	}

	noMap := false
	for _, id := range zoomOut(ast, zoomIn(ast, offset)) {
		n := ast.Node(id)
		input := deindent(src[n.Start:n.End])
		res, err := Minify(input, Options{AllowDangerousEval: o.AllowDangerousEval, SourceMap: &noMap})
		if err != nil || !fails(res.Code) {
			continue
		}
		line, col, _ := parse.Position(strings.NewReader(src), n.Start)
		return &Repro{
			Input:  input,
			Output: res.Code,
			Offset: n.Start,
			Line:   line,
			Column: col,
		}
	}
	return nil
}

// zoomIn returns the innermost node containing the source offset, or the root if the offset is unknown.
func zoomIn(ast *estree.AST, offset int) estree.NodeID {
	if offset < 0 {
		return ast.Root
	}
	best := ast.Root
	for i := 1; i < ast.Len(); i++ {
		n := ast.Node(estree.NodeID(i))
		if n.Data == nil || offset < n.Start || n.End <= offset {
			continue
		}
		if b := ast.Node(best); n.End-n.Start < b.End-b.Start {
			best = estree.NodeID(i)
		}
	}
	return best
}

// zoomOut returns the statements containing a node, innermost first. For the root it returns the top-level statements.
func zoomOut(ast *estree.AST, id estree.NodeID) []estree.NodeID {
	if id == ast.Root {
		return ast.Data(ast.Root).(*estree.Program).Body
	}

	inner := ast.Node(id)
	stmts := []estree.NodeID{}
	for i := 1; i < ast.Len(); i++ {
		n := ast.Node(estree.NodeID(i))
		if n.Data == nil || estree.NodeID(i) == ast.Root || inner.Start < n.Start || n.End < inner.End {
			continue
		}
		if typ := n.Data.Type(); strings.HasSuffix(typ, "Statement") || strings.HasSuffix(typ, "Declaration") {
			stmts = append(stmts, estree.NodeID(i))
		}
	}
	sort.SliceStable(stmts, func(i, j int) bool {
		a, b := ast.Node(stmts[i]), ast.Node(stmts[j])
		return a.End-a.Start < b.End-b.Start
	})
	return stmts
}

// sourceOffset maps a byte offset of the generated code back to a byte offset of the input, it returns -1 when there is no mapping before it.
func sourceOffset(src, code string, sm *sourcemap.SourceMap, offset int) int {
	offset = min(offset, len(code))
	line := strings.Count(code[:offset], "\n")
	col := utf16Count(code[strings.LastIndexByte(code[:offset], '\n')+1 : offset])

	i := sort.Search(len(sm.Mappings), func(i int) bool {
		m := sm.Mappings[i]
		return line < int(m.DstLine) || line == int(m.DstLine) && col < int(m.DstCol)
	})
	if i == 0 {
		return -1
	}
	m := sm.Mappings[i-1]

	pos := 0
	for k := int32(0); k < m.SrcLine; k++ {
		nl := strings.IndexByte(src[pos:], '\n')
		if nl == -1 {
			return -1
		}
		pos += nl + 1
	}
	for n := int32(0); n < m.SrcCol && pos < len(src); {
		r, size := utf8.DecodeRuneInString(src[pos:])
		if r == '\n' {
			break
		}
		n += int32(utf16Len(r))
		pos += size
	}
	return pos
}

func utf16Len(r rune) int {
	if 0xFFFF < r {
		return 2
	}
	return 1
}

func utf16Count(s string) int {
	n := 0
	for _, r := range s {
		n += utf16Len(r)
	}
	return n
}

// deindent removes the indentation that all lines but the first have in common.
func deindent(s string) string {
	lines := strings.Split(s, "\n")
	prefix, found := "", false
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if !found {
			prefix, found = indent, true
			continue
		}
		i := 0
		for i < len(prefix) && i < len(indent) && prefix[i] == indent[i] {
			i++
		}
		prefix = prefix[:i]
	}
	if prefix == "" {
		return s
	}
	for i := 1; i < len(lines); i++ {
		lines[i] = strings.TrimPrefix(lines[i], prefix)
	}
	return strings.Join(lines, "\n")
}
