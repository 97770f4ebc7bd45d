package js

import (
	"github.com/tdewolff/squash/estree"
)

// stmt generates a statement and records how it can be joined with its neighbours.
func (p *Program) stmt(id estree.NodeID) stmtInfo {
	n := p.ast.Node(id)
	s := stmtInfo{first: p.src[n.Start], needsSemi: true, rhs: n.End}
	switch d := p.ast.Data(id).(type) {
	case *estree.ExpressionStatement:
		s = p.expressionStatement(id, d)
	case *estree.VariableDeclaration:
		s = p.declaration(id, d, false)
	case *estree.FunctionDeclaration:
		p.function(id, &d.Function)
		s.needsSemi = false
	case *estree.ClassDeclaration:
		p.class(id, &d.Class)
		s.needsSemi = false
	case *estree.BlockStatement:
		s = p.body(id)
	case *estree.EmptyStatement:
		s = stmtInfo{removed: true}
	case *estree.ReturnStatement:
		p.jump(id, "return", d.Argument)
	case *estree.ThrowStatement:
		p.jump(id, "throw", d.Argument)
	case *estree.BreakStatement:
		p.jump(id, "break", d.Label)
	case *estree.ContinueStatement:
		p.jump(id, "continue", d.Label)
	case *estree.DebuggerStatement:
		p.layout(n.Start, n.End, "debugger")
	case *estree.IfStatement:
		s = p.ifStatement(id, d)
	case *estree.WhileStatement:
		p.child(d.Test, 0)
		s = enclosing(p.loopBody(d.Body), 'w')
		p.layout(n.Start, n.End, "while(", d.Test, ")", d.Body)
	case *estree.DoWhileStatement:
		body := p.loopBody(d.Body)
		p.child(d.Test, 0)
		if body.needsSemi {
			p.code.AppendLeft(p.rhs(d.Body), ";")
		}
		do := "do"
		if isIdentChar(body.first) {
			do += " "
		}
		p.layout(n.Start, n.End, do, d.Body, "while(", d.Test, ")")
	case *estree.ForStatement:
		p.info[id].own.Mangle(p.alphabet)
		init := p.forInit(d.Init)
		p.child(d.Test, 0)
		p.child(d.Update, 0)
		s = enclosing(p.loopBody(d.Body), 'f')
		p.layout(n.Start, n.End, "for(", init, ";", d.Test, ";", d.Update, ")", d.Body)
	case *estree.ForInStatement:
		s = p.forIn(id, d.Left, d.Right, d.Body, "in", 0)
	case *estree.ForOfStatement:
		s = p.forIn(id, d.Left, d.Right, d.Body, "of", 2)
	case *estree.LabeledStatement:
		s = enclosing(p.loopBody(d.Body), p.src[n.Start])
		p.layout(n.Start, n.End, d.Label, ":", d.Body)
	case *estree.WithStatement:
		p.child(d.Object, 0)
		s = enclosing(p.loopBody(d.Body), 'w')
		p.layout(n.Start, n.End, "with(", d.Object, ")", d.Body)
	case *estree.SwitchStatement:
		p.switchStatement(id, d)
		s.needsSemi = false
	case *estree.TryStatement:
		p.tryStatement(id, d)
		s.needsSemi = false
	case *estree.ImportDeclaration:
		p.importDeclaration(id, d)
	case *estree.ExportNamedDeclaration:
		s = p.exportNamed(id, d)
	case *estree.ExportDefaultDeclaration:
		s = p.exportDefault(id, d)
	case *estree.ExportAllDeclaration:
		items := []interface{}{"export*"}
		if d.Exported != estree.NoNode {
			items = append(items, "as ", d.Exported, " from")
		} else {
			items = append(items, "from")
		}
		p.layout(n.Start, n.End, append(items, d.Source)...)
	default:
		p.internal(id, "cannot generate statement "+p.ast.Type(id))
	}
	if !s.removed && s.rhs == 0 {
		s.rhs = n.End
	}
	p.info[id].stmt = s
	return s
}

func (p *Program) expressionStatement(id estree.NodeID, d *estree.ExpressionStatement) stmtInfo {
	expr := d.Expression
	p.child(expr, 0)
	if p.startsAmbiguously(expr) {
		if p.isIIFE(expr) {
			// the value is discarded, so !function(){}() behaves like (function(){})()
			p.code.PrependRight(p.ast.Node(expr).Start, "!")
			p.info[expr].bang = true
		} else {
			p.wrap(expr)
		}
	}
	n := p.ast.Node(id)
	p.layout(n.Start, n.End, expr)
	return stmtInfo{expr: true, prec: p.prec(expr), first: p.firstChar(expr), needsSemi: true, rhs: n.End}
}

// isIIFE returns true for a call of a function expression.
func (p *Program) isIIFE(id estree.NodeID) bool {
	if _, ok := p.ast.Data(p.passthrough(id)).(*estree.CallExpression); !ok {
		return false
	}
	_, ok := p.ast.Data(p.leftmost(id)).(*estree.FunctionExpression)
	return ok
}

// jump generates return, throw, break and continue.
func (p *Program) jump(id estree.NodeID, keyword string, arg estree.NodeID) {
	n := p.ast.Node(id)
	if arg == estree.NoNode {
		p.layout(n.Start, n.End, keyword)
		return
	} else if p.isIdentifier(arg) && (keyword == "break" || keyword == "continue") {
		p.layout(n.Start, n.End, keyword+" ", arg)
		return
	}
	p.child(arg, 0)
	p.layout(n.Start, n.End, p.spaced(keyword, arg), arg)
}

// declaration generates a var, let or const declaration. Declarators that are not needed are left out.
func (p *Program) declaration(id estree.NodeID, d *estree.VariableDeclaration, head bool) stmtInfo {
	var items []interface{}
	headEnd := 0
	for _, declarator := range d.Declarations {
		if p.info[declarator].skip {
			continue
		}
		dd := p.ast.Data(declarator).(*estree.VariableDeclarator)
		p.gen(dd.ID)
		dn := p.ast.Node(declarator)
		if dd.Init != estree.NoNode {
			p.child(dd.Init, 2)
			if head && p.containsIn(dd.Init) {
				p.wrap(dd.Init)
			}
			p.layout(dn.Start, dn.End, dd.ID, "=", dd.Init)
		} else {
			p.layout(dn.Start, dn.End, dd.ID)
		}

		if len(items) == 0 {
			items = append(items, p.spaced(d.Kind, dd.ID))
			headEnd = dn.Start
		} else {
			items = append(items, ",")
		}
		items = append(items, declarator)
	}
	if len(items) == 0 {
		return stmtInfo{removed: true}
	}

	n := p.ast.Node(id)
	p.layout(n.Start, n.End, items...)
	return stmtInfo{first: d.Kind[0], needsSemi: true, rhs: n.End, varKind: d.Kind, headEnd: headEnd}
}

// loopBody generates the body of a loop or labeled statement, an empty body is output as a semicolon.
func (p *Program) loopBody(id estree.NodeID) stmtInfo {
	s := p.body(id)
	if s.removed {
		n := p.ast.Node(id)
		p.gap(n.Start, n.End, ";", false)
		s = stmtInfo{first: ';', rhs: n.End}
		p.info[id].stmt = s
	}
	return s
}

// enclosing returns the join info of a statement that ends with body, such as a loop or a labeled statement. It is never an expression or a declaration, whatever its body is.
func enclosing(body stmtInfo, first byte) stmtInfo {
	return stmtInfo{
		first:     first,
		needsSemi: body.needsSemi,
		openIf:    body.openIf,
		moved:     body.moved,
		rhs:       body.rhs,
	}
}

func (p *Program) forInit(init estree.NodeID) estree.NodeID {
	if init == estree.NoNode {
		return init
	} else if d, ok := p.ast.Data(init).(*estree.VariableDeclaration); ok {
		if p.declaration(init, d, true).removed {
			return estree.NoNode
		}
		return init
	}
	p.child(init, 0)
	if p.containsIn(init) {
		p.wrap(init)
	}
	return init
}

// forIn generates for-in and for-of statements.
func (p *Program) forIn(id, left, right, body estree.NodeID, keyword string, prec int) stmtInfo {
	p.info[id].own.Mangle(p.alphabet)
	last := left
	if d, ok := p.ast.Data(left).(*estree.VariableDeclaration); ok {
		p.declaration(left, d, true)
		last = p.ast.Data(d.Declarations[len(d.Declarations)-1]).(*estree.VariableDeclarator).ID
	} else {
		p.gen(left)
	}
	p.child(right, prec)
	s := enclosing(p.loopBody(body), 'f')

	if isIdentChar(p.lastChar(last)) {
		keyword = " " + keyword
	}
	n := p.ast.Node(id)
	p.layout(n.Start, n.End, "for(", left, p.spaced(keyword, right), right, ")", body)
	return s
}

func (p *Program) switchStatement(id estree.NodeID, d *estree.SwitchStatement) {
	p.info[id].own.Mangle(p.alphabet)
	p.child(d.Discriminant, 0)
	items := []interface{}{"switch(", d.Discriminant, "){"}
	for i, c := range d.Cases {
		sc := p.ast.Data(c).(*estree.SwitchCase)
		cn := p.ast.Node(c)
		units := p.list(sc.Consequent)
		if sc.Test != estree.NoNode {
			p.child(sc.Test, 0)
			t := p.ast.Node(sc.Test)
			p.gap(cn.Start, t.Start, p.spaced("case", sc.Test), true)
			p.emitList(t.End, cn.End, ":", "", units, ";", "")
		} else {
			p.emitList(cn.Start, cn.End, "default:", "", units, ";", "")
		}
		if i < len(d.Cases)-1 && len(units) != 0 {
			if last := p.info[units[len(units)-1]].stmt; last.needsSemi {
				p.code.AppendLeft(last.rhs, ";")
			}
		}
		items = append(items, c)
	}
	items = append(items, "}")
	n := p.ast.Node(id)
	p.layout(n.Start, n.End, items...)
}

func (p *Program) tryStatement(id estree.NodeID, d *estree.TryStatement) {
	p.braced(d.Block)
	items := []interface{}{"try", d.Block}
	if d.Handler != estree.NoNode {
		h := p.ast.Data(d.Handler).(*estree.CatchClause)
		p.info[d.Handler].own.Mangle(p.alphabet)
		p.gen(h.Param)
		p.braced(h.Body)
		hn := p.ast.Node(d.Handler)
		if h.Param != estree.NoNode {
			p.layout(hn.Start, hn.End, "catch(", h.Param, ")", h.Body)
		} else {
			p.layout(hn.Start, hn.End, "catch", h.Body)
		}
		items = append(items, d.Handler)
	}
	if d.Finalizer != estree.NoNode {
		p.braced(d.Finalizer)
		items = append(items, "finally", d.Finalizer)
	}
	n := p.ast.Node(id)
	p.layout(n.Start, n.End, items...)
}

func (p *Program) importDeclaration(id estree.NodeID, d *estree.ImportDeclaration) {
	n := p.ast.Node(id)
	if len(d.Specifiers) == 0 {
		p.layout(n.Start, n.End, "import", d.Source)
		return
	}

	items := []interface{}{"import"}
	var named []estree.NodeID
	ident := false // the last item ends in an identifier
	for _, spec := range d.Specifiers {
		switch s := p.ast.Data(spec).(type) {
		case *estree.ImportDefaultSpecifier:
			items = append(items, " ", spec)
			ident = true
		case *estree.ImportNamespaceSpecifier:
			sn := p.ast.Node(spec)
			p.layout(sn.Start, sn.End, "*as ", s.Local)
			if ident {
				items = append(items, ",")
			}
			items = append(items, spec)
			ident = true
		case *estree.ImportSpecifier:
			p.alias(spec, s.Imported, s.Local)
			named = append(named, spec)
		}
	}
	if len(named) != 0 {
		if ident {
			items = append(items, ",")
		}
		items = append(items, "{")
		for i, spec := range named {
			if 0 < i {
				items = append(items, ",")
			}
			items = append(items, spec)
		}
		items = append(items, "}")
		ident = false
	}
	if ident {
		items = append(items, " from")
	} else {
		items = append(items, "from")
	}
	p.layout(n.Start, n.End, append(items, d.Source)...)
}

// alias lays out an import or export specifier of the form a as b.
func (p *Program) alias(id, name, local estree.NodeID) {
	n := p.ast.Node(id)
	if name == local {
		p.layout(n.Start, n.End, local)
		return
	}
	p.layout(n.Start, n.End, name, " as ", local)
}

func (p *Program) exportNamed(id estree.NodeID, d *estree.ExportNamedDeclaration) stmtInfo {
	n := p.ast.Node(id)
	if d.Declaration != estree.NoNode {
		s := p.stmt(d.Declaration)
		p.layout(n.Start, n.End, "export ", d.Declaration)
		return stmtInfo{first: 'e', needsSemi: s.needsSemi, rhs: p.rhs(d.Declaration)}
	}

	items := []interface{}{"export{"}
	for i, spec := range d.Specifiers {
		if 0 < i {
			items = append(items, ",")
		}
		s := p.ast.Data(spec).(*estree.ExportSpecifier)
		p.alias(spec, s.Local, s.Exported)
		items = append(items, spec)
	}
	items = append(items, "}")
	if d.Source != estree.NoNode {
		items = append(items, "from", d.Source)
	}
	p.layout(n.Start, n.End, items...)
	return stmtInfo{first: 'e', needsSemi: true, rhs: n.End}
}

func (p *Program) exportDefault(id estree.NodeID, d *estree.ExportDefaultDeclaration) stmtInfo {
	n := p.ast.Node(id)
	decl := d.Declaration
	switch p.ast.Data(decl).(type) {
	case *estree.FunctionDeclaration, *estree.ClassDeclaration:
		p.stmt(decl)
		p.layout(n.Start, n.End, "export default ", decl)
		return stmtInfo{first: 'e', rhs: n.End}
	}
	p.child(decl, 2)
	if p.startsAmbiguously(decl) {
		p.wrap(decl)
	}
	p.layout(n.Start, n.End, p.spaced("export default", decl), decl)
	return stmtInfo{first: 'e', needsSemi: true, rhs: n.End}
}
