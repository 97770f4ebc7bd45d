package js

import (
	"github.com/tdewolff/squash/estree"
)

// Declaration kinds.
const (
	VarDecl                = "var"
	LetDecl                = "let"
	ConstDecl              = "const"
	ParamDecl              = "param"
	ClassDecl              = "class"
	FunctionDecl           = "function"
	ImportDecl             = "import"
	CatchDecl              = "catch"
	FunctionExpressionDecl = "FunctionExpression"
)

// Declaration is a binding in a scope. Activated only ever goes from false to true.
type Declaration struct {
	Name       string
	Kind       string
	Node       estree.NodeID // declaring identifier
	Activated  bool
	Instances  []estree.NodeID
	Duplicates []estree.NodeID
	Alias      string

	scope *Scope
}

// Scope is a function or block scope.
type Scope struct {
	Parent        *Scope
	IsBlock       bool
	FunctionScope *Scope
	CanMangle     bool
	UseStrict     bool

	Declarations    map[string]*Declaration
	References      map[string]bool
	VarDeclarations []string // var names declared in this block, hoisted if the block is removed
	HoistedVars     []string // var names of removed blocks that must still be declared
	BlockScoped     map[string][]*Declaration

	order   []string
	deopted bool
	mangled bool
	p       *Program
}

func newScope(p *Program, parent *Scope, block bool) *Scope {
	s := &Scope{
		Parent:       parent,
		IsBlock:      block,
		CanMangle:    parent != nil,
		Declarations: map[string]*Declaration{},
		References:   map[string]bool{},
		p:            p,
	}
	if parent != nil {
		s.UseStrict = parent.UseStrict
	}
	s.FunctionScope = s
	for s.FunctionScope.IsBlock {
		s.FunctionScope = s.FunctionScope.Parent
	}
	if !block {
		s.BlockScoped = map[string][]*Declaration{}
	}
	return s
}

func addName(list []string, name string) []string {
	for _, item := range list {
		if item == name {
			return list
		}
	}
	return append(list, name)
}

func isLexical(kind string) bool {
	return kind == LetDecl || kind == ConstDecl
}

// AddDeclaration registers the binding of identifier id. A var in a block scope is hoisted to the parent scope.
func (s *Scope) AddDeclaration(id estree.NodeID, kind string) {
	name := s.p.ast.Data(id).(*estree.Identifier).Name
	if kind == VarDecl && s.IsBlock {
		s.VarDeclarations = addName(s.VarDeclarations, name)
		s.Parent.AddDeclaration(id, kind)
		return
	}

	if existing, ok := s.Declarations[name]; ok {
		if existing.Kind == FunctionExpressionDecl {
			s.p.info[existing.Node].shadowed = true
		} else if isLexical(kind) || isLexical(existing.Kind) {
			s.p.fail(id, name+" is already declared")
		} else {
			s.p.info[id].decl = existing
			s.p.info[id].duplicate = true
			if existing.Activated {
				s.p.activateLater(id)
			} else {
				existing.Duplicates = append(existing.Duplicates, id)
			}
			return
		}
	} else {
		s.order = append(s.order, name)
	}

	decl := &Declaration{
		Name:      name,
		Kind:      kind,
		Node:      id,
		Activated: s.Parent == nil && kind != FunctionDecl && kind != ClassDecl,
		scope:     s,
	}
	s.Declarations[name] = decl
	s.p.info[id].decl = decl
	if s.IsBlock {
		s.FunctionScope.BlockScoped[name] = append(s.FunctionScope.BlockScoped[name], decl)
	}
	if kind == ParamDecl {
		decl.Instances = append(decl.Instances, id)
		s.p.info[id].ref = decl
		s.p.info[id].counted = true
	}
}

// AddReference records a use of identifier id, activating the declaration it resolves to on first use. Unresolved names bubble up as free references. Adding the same identifier twice has no effect.
func (s *Scope) AddReference(id estree.NodeID) {
	if s.p.info[id].counted {
		return
	}
	s.p.info[id].counted = true
	s.reference(id, s.p.ast.Data(id).(*estree.Identifier).Name)
}

func (s *Scope) reference(id estree.NodeID, name string) {
	if decl, ok := s.Declarations[name]; ok {
		decl.Instances = append(decl.Instances, id)
		s.p.info[id].ref = decl
		if !decl.Activated {
			decl.Activated = true
			s.p.activate(decl.Node)
			for _, dupe := range decl.Duplicates {
				s.p.activate(dupe)
			}
		}
		return
	}
	s.References[name] = true
	if s.Parent != nil {
		s.Parent.reference(id, name)
	}
}

// Contains returns true if name is declared in this scope or one of its ancestors.
func (s *Scope) Contains(name string) bool {
	return s.FindDeclaration(name) != nil
}

// FindDeclaration resolves name in this scope or one of its ancestors.
func (s *Scope) FindDeclaration(name string) *Declaration {
	for ; s != nil; s = s.Parent {
		if decl, ok := s.Declarations[name]; ok {
			return decl
		}
	}
	return nil
}

// Deopt disables mangling for this scope and its ancestors, and activates all their declarations.
func (s *Scope) Deopt() {
	if s.deopted {
		return
	}
	s.deopted = true
	s.CanMangle = false
	if s.Parent != nil {
		s.Parent.Deopt()
	}
	for _, name := range s.order {
		if decl := s.Declarations[name]; !decl.Activated {
			decl.Activated = true
			s.p.activate(decl.Node)
			for _, dupe := range decl.Duplicates {
				s.p.activate(dupe)
			}
		}
	}
}
