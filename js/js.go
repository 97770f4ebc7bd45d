// Package js is the JavaScript minifying compiler. It rewrites the original source text in place: scopes and declarations are resolved, unused declarations and dead branches are left out, expressions are folded, and identifiers are mangled.
package js

import (
	"github.com/tdewolff/squash/edit"
	"github.com/tdewolff/squash/estree"
)

// Options are the compiler options.
type Options struct {
	AllowDangerousEval bool // deoptimize scopes with a direct eval instead of failing
}

// nodeInfo holds the per-node state of all passes, indexed by NodeID.
type nodeInfo struct {
	skip  bool
	scope *Scope // scope the node is in
	own   *Scope // scope the node creates

	// identifiers
	decl      *Declaration // declaration of a declaring identifier
	ref       *Declaration // declaration an identifier resolves to
	declarer  estree.NodeID
	duplicate bool
	shadowed  bool
	counted   bool
	alias     string

	// declarations
	activated   bool
	sideEffects bool

	// constant evaluation
	val       Value
	evaluated bool

	// generation
	parens    bool
	bang      bool
	newParens bool
	folded    bool
	text      string
	stmt      stmtInfo
}

// Program is the compilation context of one source text, it is threaded through all passes.
type Program struct {
	ast   *estree.AST
	src   string
	code  *edit.Buffer
	opts  Options
	info  []nodeInfo
	scope *Scope

	chars    CharFreq
	alphabet string
	deferred []estree.NodeID
}

// NewProgram returns a Program for ast. The AST is modified by the analysis: parenthesized expressions are unlinked from the tree.
func NewProgram(ast *estree.AST, o Options) *Program {
	return &Program{
		ast:  ast,
		src:  ast.Src,
		code: edit.New(ast.Src),
		opts: o,
		info: make([]nodeInfo, ast.Len()),
	}
}

// Analyse decorates the tree, builds the scope tree and runs the activation pass, which decides what is reachable and used.
func (p *Program) Analyse() (err error) {
	defer p.recover(&err)
	p.decorate(p.ast.Root, estree.NoNode, 0)
	p.scope = newScope(p, nil, false)
	p.attach(p.ast.Root, p.scope)
	p.initialiseProgram()
	return nil
}

// Generate orders the mangling alphabet and emits all edits into the buffer.
func (p *Program) Generate() (err error) {
	defer p.recover(&err)
	p.alphabet = p.chars.Alphabet()
	p.program()
	if err := p.code.Err(); err != nil {
		return &InternalError{err.Error(), 0}
	}
	return nil
}

// Code returns the edit buffer holding the output.
func (p *Program) Code() *edit.Buffer {
	return p.code
}

// Scope returns the root scope.
func (p *Program) Scope() *Scope {
	return p.scope
}

// Chars returns the character frequencies of the retained output.
func (p *Program) Chars() CharFreq {
	return p.chars
}

// Minify analyses and generates ast, and returns the edited buffer.
func Minify(ast *estree.AST, o Options) (*edit.Buffer, error) {
	p := NewProgram(ast, o)
	if err := p.Analyse(); err != nil {
		return nil, err
	} else if err := p.Generate(); err != nil {
		return nil, err
	}
	return p.code, nil
}

func (p *Program) recover(err *error) {
	if r := recover(); r != nil {
		a, ok := r.(abort)
		if !ok {
			panic(r)
		}
		*err = a.err
	}
}

// fail aborts the current pass with a semantic error at node id.
func (p *Program) fail(id estree.NodeID, msg string) {
	n := p.ast.Node(id)
	panic(abort{&Error{msg, n.Start, n.End}})
}

// internal aborts the current pass with an internal error at node id.
func (p *Program) internal(id estree.NodeID, msg string) {
	panic(abort{&InternalError{msg, p.ast.Node(id).Start}})
}

func (p *Program) addWord(word string) {
	p.chars.AddWord(word)
}
