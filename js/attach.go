package js

import (
	"github.com/tdewolff/squash/estree"
)

// attach builds the scope tree: every node gets the scope it is in, scope-creating nodes get their own scope, and all bindings are declared.
func (p *Program) attach(id estree.NodeID, scope *Scope) {
	if id == estree.NoNode {
		return
	}
	p.info[id].scope = scope

	switch n := p.ast.Data(id).(type) {
	case *estree.Program:
		p.info[id].own = scope
		scope.UseStrict = p.hasUseStrict(n.Body)
		p.attachList(n.Body, scope)
	case *estree.FunctionDeclaration:
		if n.ID != estree.NoNode {
			p.info[n.ID].scope = scope
			scope.AddDeclaration(n.ID, FunctionDecl)
		}
		p.attachFunction(id, &n.Function, scope)
	case *estree.FunctionExpression:
		p.attachFunction(id, &n.Function, scope)
	case *estree.ArrowFunctionExpression:
		p.attachFunction(id, &n.Function, scope)
	case *estree.ClassDeclaration:
		if n.ID != estree.NoNode {
			p.info[n.ID].scope = scope
			scope.AddDeclaration(n.ID, ClassDecl)
		}
		p.attach(n.SuperClass, scope)
		p.attach(n.Body, scope)
	case *estree.ClassExpression:
		if n.ID != estree.NoNode {
			own := newScope(p, scope, true)
			p.info[id].own = own
			p.info[n.ID].scope = own
			own.AddDeclaration(n.ID, ClassDecl)
			own.AddReference(n.ID)
			scope = own
		}
		p.attach(n.SuperClass, scope)
		p.attach(n.Body, scope)
	case *estree.BlockStatement:
		own := newScope(p, scope, true)
		p.info[id].own = own
		p.attachList(n.Body, own)
	case *estree.CatchClause:
		own := newScope(p, scope, true)
		p.info[id].own = own
		if n.Param != estree.NoNode {
			p.attach(n.Param, own)
			for _, name := range p.bindingNames(n.Param) {
				own.AddDeclaration(name, CatchDecl)
			}
		}
		// the body shares the scope of the clause
		body := p.ast.Data(n.Body).(*estree.BlockStatement)
		p.info[n.Body].scope = own
		p.info[n.Body].own = own
		p.attachList(body.Body, own)
	case *estree.ForStatement, *estree.ForInStatement, *estree.ForOfStatement, *estree.SwitchStatement:
		own := newScope(p, scope, true)
		p.info[id].own = own
		if sw, ok := n.(*estree.SwitchStatement); ok {
			p.attach(sw.Discriminant, scope)
			p.attachList(sw.Cases, own)
		} else {
			p.attachList(p.children(id), own)
		}
	case *estree.VariableDeclaration:
		for _, declarator := range n.Declarations {
			d := p.ast.Data(declarator).(*estree.VariableDeclarator)
			p.info[declarator].scope = scope
			p.attach(d.ID, scope)
			p.attach(d.Init, scope)
			if d.Init != estree.NoNode && p.mightHaveSideEffects(d.Init) {
				p.info[declarator].sideEffects = true
			}
			for _, name := range p.bindingNames(d.ID) {
				scope.AddDeclaration(name, n.Kind)
			}
		}
	case *estree.ImportDeclaration:
		p.attachList(p.children(id), scope)
		for _, spec := range n.Specifiers {
			var local estree.NodeID
			switch s := p.ast.Data(spec).(type) {
			case *estree.ImportSpecifier:
				local = s.Local
			case *estree.ImportDefaultSpecifier:
				local = s.Local
			case *estree.ImportNamespaceSpecifier:
				local = s.Local
			}
			scope.AddDeclaration(local, ImportDecl)
		}
	default:
		p.attachList(p.children(id), scope)
	}
}

func (p *Program) attachList(list []estree.NodeID, scope *Scope) {
	for _, id := range list {
		p.attach(id, scope)
	}
}

// attachFunction creates the scope of a function: a function expression's own name is declared first so that parameters and variables can shadow it.
func (p *Program) attachFunction(id estree.NodeID, f *estree.Function, parent *Scope) {
	own := newScope(p, parent, false)
	p.info[id].own = own
	if _, ok := p.ast.Data(id).(*estree.FunctionExpression); ok && f.ID != estree.NoNode {
		p.info[f.ID].scope = own
		own.AddDeclaration(f.ID, FunctionExpressionDecl)
		own.AddReference(f.ID)
	}
	for _, param := range f.Params {
		p.attach(param, own)
		for _, name := range p.bindingNames(param) {
			own.AddDeclaration(name, ParamDecl)
		}
	}

	if f.Expression {
		p.attach(f.Body, own)
		return
	}
	body := p.ast.Data(f.Body).(*estree.BlockStatement)
	p.info[f.Body].scope = own
	p.info[f.Body].own = own
	if p.hasUseStrict(body.Body) {
		own.UseStrict = true
	}
	p.attachList(body.Body, own)
}

// hasUseStrict returns true if the directive prologue contains "use strict".
func (p *Program) hasUseStrict(body []estree.NodeID) bool {
	for _, stmt := range body {
		n, ok := p.ast.Data(stmt).(*estree.ExpressionStatement)
		if !ok || n.Directive == "" {
			return false
		} else if n.Directive == "use strict" {
			return true
		}
	}
	return false
}

// bindingNames returns the identifiers bound by a binding target.
func (p *Program) bindingNames(id estree.NodeID) []estree.NodeID {
	var names []estree.NodeID
	var extract func(estree.NodeID)
	extract = func(id estree.NodeID) {
		switch n := p.ast.Data(id).(type) {
		case *estree.Identifier:
			names = append(names, id)
		case *estree.ObjectPattern:
			for _, prop := range n.Properties {
				extract(prop)
			}
		case *estree.Property:
			extract(n.Value)
		case *estree.ArrayPattern:
			for _, elem := range n.Elements {
				if elem != estree.NoNode {
					extract(elem)
				}
			}
		case *estree.AssignmentPattern:
			extract(n.Left)
		case *estree.RestElement:
			extract(n.Argument)
		}
	}
	extract(id)
	return names
}
