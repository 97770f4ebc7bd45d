package squash

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/squash/estree"
	"github.com/tdewolff/squash/js"
)

// ErrorKind classifies a CompileError.
type ErrorKind string

// ErrorKind values.
const (
	SyntaxError   ErrorKind = "SyntaxError"
	SemanticError ErrorKind = "SemanticError"
)

// CompileError is an error in the input, either a syntax error or a semantic error found during analysis. Line and Column are one-based.
type CompileError struct {
	Kind    ErrorKind
	Message string
	Offset  int
	Line    int
	Column  int
	Width   int
	Snippet string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s (%d:%d)", e.Message, e.Line, e.Column)
}

func newCompileError(kind ErrorKind, src, msg string, start, end int) *CompileError {
	line, col, _ := parse.Position(strings.NewReader(src), start)
	width := end - start
	if width < 1 {
		width = 1
	}
	if nl := strings.IndexByte(src[start:], '\n'); nl != -1 && nl < width {
		width = max(nl, 1)
	}
	return &CompileError{
		Kind:    kind,
		Message: msg,
		Offset:  start,
		Line:    line,
		Column:  col,
		Width:   width,
		Snippet: snippet(src, line, col, width),
	}
}

// snippet returns the source lines around line, numbered, with carets under the error.
func snippet(src string, line, col, width int) string {
	lines := strings.Split(src, "\n")
	first, last := max(line-3, 0), min(line+2, len(lines))
	numWidth := len(strconv.Itoa(last))

	sb := strings.Builder{}
	for i := first; i < last; i++ {
		num := strconv.Itoa(i + 1)
		sb.WriteString(strings.Repeat(" ", numWidth-len(num)))
		sb.WriteString(num)
		sb.WriteString(" : ")
		sb.WriteString(strings.ReplaceAll(strings.TrimRight(lines[i], "\r"), "\t", "  "))
		sb.WriteByte('\n')
		if i+1 == line {
			prefix := []rune(lines[i])
			indent := numWidth + 3
			for _, r := range prefix[:min(col-1, len(prefix))] {
				if r == '\t' {
					indent += 2
				} else {
					indent++
				}
			}
			sb.WriteString(strings.Repeat(" ", indent))
			sb.WriteString(strings.Repeat("^", width))
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// Repro is the smallest statement of the input that reproduces an internal error by itself.
type Repro struct {
	Input  string
	Output string
	Offset int
	Line   int
	Column int
}

// InternalError is a defect of the minifier: the generated code is invalid or the edits conflict.
type InternalError struct {
	Message string
	Output  string
	Repro   *Repro
}

func (e *InternalError) Error() string {
	if e.Repro != nil {
		return fmt.Sprintf("internal error: %s, reproduced by %q at %d:%d", e.Message, e.Repro.Input, e.Repro.Line, e.Repro.Column)
	}
	return "internal error: " + e.Message
}

// toError converts the errors of the parser and the compiler into the errors returned by Minify.
func toError(src string, err error) error {
	var syntaxErr *estree.Error
	var semanticErr *js.Error
	var internalErr *js.InternalError
	if errors.As(err, &syntaxErr) {
		return newCompileError(SyntaxError, src, syntaxErr.Message, syntaxErr.Offset, syntaxErr.Offset+1)
	} else if errors.As(err, &semanticErr) {
		return newCompileError(SemanticError, src, semanticErr.Message, semanticErr.Start, semanticErr.End)
	} else if errors.As(err, &internalErr) {
		return &InternalError{Message: internalErr.Error()}
	}
	return err
}
