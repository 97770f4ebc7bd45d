package js

import (
	"strings"

	"github.com/tdewolff/squash/estree"
)

// stmtInfo describes the generated text of a statement, which its statement list needs for joining it with its neighbours.
type stmtInfo struct {
	removed   bool
	expr      bool // output is an expression that can be joined by commas or logical operators
	prec      int
	first     byte
	needsSemi bool
	openIf    bool // ends with an if without else
	moved     bool // contains a moved part, so it cannot be moved itself
	rhs       int  // position after which a separator is appended
	varKind   string
	headEnd   int // end of the var, let or const keyword region
}

func (p *Program) program() {
	body := p.ast.Data(p.ast.Root).(*estree.Program).Body
	units := p.list(body)
	prefix := p.prologue(p.scope, units)
	p.emitList(0, len(p.src), "", "", units, ";", prefix)
}

// list generates a statement list and returns the statements that have output.
func (p *Program) list(stmts []estree.NodeID) []estree.NodeID {
	units := make([]estree.NodeID, 0, len(stmts))
	for _, id := range stmts {
		if p.info[id].skip {
			continue
		}
		var s stmtInfo
		if _, ok := p.ast.Data(id).(*estree.BlockStatement); ok {
			s = p.body(id)
		} else {
			s = p.stmt(id)
		}
		if !s.removed {
			units = append(units, id)
		}
	}
	return units
}

// emitList joins the generated statements between start and end by separators. Consecutive declarations of the same kind are merged.
func (p *Program) emitList(start, end int, head, tail string, units []estree.NodeID, sep, prefix string) {
	if len(units) == 0 {
		p.gap(start, end, head+prefix+tail, true)
		return
	}

	first := p.ast.Node(units[0])
	if prefix != "" {
		p.code.PrependRight(first.Start, prefix)
	}
	p.gap(start, first.Start, head, true)
	for i := 1; i < len(units); i++ {
		prev, cur := &p.info[units[i-1]].stmt, &p.info[units[i]].stmt
		pn, cn := p.ast.Node(units[i-1]), p.ast.Node(units[i])
		p.gap(pn.End, cn.Start, "", false)
		if sep == ";" && prev.varKind != "" && prev.varKind == cur.varKind && !prev.moved {
			p.code.Overwrite(cn.Start, cur.headEnd, ",")
		} else if sep != ";" || prev.needsSemi {
			p.code.AppendLeft(prev.rhs, sep)
		}
	}
	last := p.ast.Node(units[len(units)-1])
	p.gap(last.End, end, tail, false)
}

// body generates the body of a control statement. Blocks lose their braces when possible: a single statement is unwrapped and expression statements are joined into a sequence.
func (p *Program) body(id estree.NodeID) stmtInfo {
	if id == estree.NoNode || p.info[id].skip {
		return stmtInfo{removed: true}
	}
	block, ok := p.ast.Data(id).(*estree.BlockStatement)
	if !ok {
		return p.stmt(id)
	}

	own := p.info[id].own
	own.Mangle(p.alphabet)
	units := p.list(block.Body)
	n := p.ast.Node(id)
	var s stmtInfo
	switch {
	case len(units) == 0:
		s = stmtInfo{removed: true}
	case p.hasLexical(own):
		p.emitList(n.Start, n.End, "{", "}", units, ";", "")
		s = stmtInfo{first: '{', rhs: n.End}
	case len(units) == 1:
		p.emitList(n.Start, n.End, "", "", units, ";", "")
		s = p.info[units[0]].stmt
	case p.allExpr(units):
		p.emitList(n.Start, n.End, "", "", units, ",", "")
		s = stmtInfo{
			expr:      true,
			prec:      0,
			first:     p.info[units[0]].stmt.first,
			needsSemi: true,
			rhs:       p.info[units[len(units)-1]].stmt.rhs,
		}
		for _, u := range units {
			s.moved = s.moved || p.info[u].stmt.moved
		}
	default:
		p.emitList(n.Start, n.End, "{", "}", units, ";", "")
		s = stmtInfo{first: '{', rhs: n.End}
	}
	p.info[id].stmt = s
	return s
}

// braced generates a block that keeps its braces, such as the blocks of a try statement.
func (p *Program) braced(id estree.NodeID) {
	p.info[id].own.Mangle(p.alphabet)
	units := p.list(p.ast.Data(id).(*estree.BlockStatement).Body)
	n := p.ast.Node(id)
	p.emitList(n.Start, n.End, "{", "}", units, ";", "")
}

// functionBody generates the block of a function, including its prologue.
func (p *Program) functionBody(id estree.NodeID, scope *Scope) {
	units := p.list(p.ast.Data(id).(*estree.BlockStatement).Body)
	prefix := p.prologue(scope, units)
	n := p.ast.Node(id)
	p.emitList(n.Start, n.End, "{", "}", units, ";", prefix)
}

// prologue returns the text that starts a function or program body: the use strict directive where it is not inherited, and the declarations of the vars whose declarations were removed. Those are appended to the first var declaration if there is one.
func (p *Program) prologue(scope *Scope, units []estree.NodeID) string {
	prefix := ""
	if scope.UseStrict && (scope.Parent == nil || !scope.Parent.UseStrict) {
		prefix = `"use strict";`
	}

	var names []string
	for _, name := range scope.HoistedVars {
		if decl := scope.Declarations[name]; decl != nil && decl.Activated {
			if decl.Alias != "" {
				name = decl.Alias
			}
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return prefix
	}
	vars := strings.Join(names, ",")
	for _, u := range units {
		if s := p.info[u].stmt; s.varKind == VarDecl {
			p.code.AppendLeft(s.rhs, ","+vars)
			return prefix
		}
	}
	return prefix + "var " + vars + ";"
}

// hasLexical returns true if a block declares bindings that would leak into the enclosing scope without braces.
func (p *Program) hasLexical(scope *Scope) bool {
	for _, decl := range scope.Declarations {
		if decl.Kind != VarDecl && decl.Activated {
			return true
		}
	}
	return false
}

func (p *Program) allExpr(units []estree.NodeID) bool {
	for _, u := range units {
		if !p.info[u].stmt.expr {
			return false
		}
	}
	return true
}

// ifStatement turns if statements into logical or conditional expressions when both branches are expressions.
func (p *Program) ifStatement(id estree.NodeID, d *estree.IfStatement) stmtInfo {
	n := p.ast.Node(id)
	if test := p.value(d.Test); test.Known() {
		live := d.Consequent
		if !test.Truthy() {
			live = d.Alternate
		}
		s := p.body(live)
		if !s.removed {
			l := p.ast.Node(live)
			p.gap(n.Start, l.Start, "", true)
			p.gap(l.End, n.End, "", false)
		}
		return s
	}

	cons := p.body(d.Consequent)
	alt := p.body(d.Alternate)
	test, not := d.Test, estree.NoNode
	if u, ok := p.ast.Data(test).(*estree.UnaryExpression); ok && u.Operator == "!" {
		not = u.Argument
	}

	switch {
	case cons.removed && alt.removed:
		if p.sideEffectFree(test) {
			return stmtInfo{removed: true}
		}
		p.child(test, 0)
		if p.startsAmbiguously(test) {
			p.wrap(test)
		}
		p.layout(n.Start, n.End, test)
		return stmtInfo{expr: true, prec: p.prec(test), first: p.firstChar(test), needsSemi: true, rhs: n.End}
	case cons.expr && alt.removed:
		if not != estree.NoNode {
			return p.logicalIf(id, not, d.Consequent, "||")
		}
		return p.logicalIf(id, test, d.Consequent, "&&")
	case cons.removed && alt.expr:
		if not != estree.NoNode {
			return p.logicalIf(id, not, d.Alternate, "&&")
		}
		return p.logicalIf(id, test, d.Alternate, "||")
	case cons.expr && alt.expr:
		return p.conditionalIf(id, d, not, alt.moved)
	}
	if s, ok := p.jumpIf(id, d); ok {
		return s
	}

	p.child(test, 0)
	if cons.removed {
		c := p.ast.Node(d.Consequent)
		p.gap(c.Start, c.End, ";", false)
		cons = stmtInfo{first: ';', rhs: c.End}
		p.info[d.Consequent].stmt = cons
	}
	if alt.removed {
		p.layout(n.Start, n.End, "if(", test, ")", d.Consequent)
		return stmtInfo{first: 'i', needsSemi: cons.needsSemi, openIf: true, rhs: p.rhs(d.Consequent), moved: cons.moved}
	}

	if cons.openIf {
		// dangling else
		p.code.PrependRight(p.ast.Node(d.Consequent).Start, "{")
		p.code.AppendLeft(p.rhs(d.Consequent), "}")
	} else if cons.needsSemi {
		p.code.AppendLeft(p.rhs(d.Consequent), ";")
	}
	elseWord := "else"
	if isIdentChar(alt.first) {
		elseWord += " "
	}
	p.layout(n.Start, n.End, "if(", test, ")", d.Consequent, elseWord, d.Alternate)
	return stmtInfo{first: 'i', needsSemi: alt.needsSemi, openIf: alt.openIf, rhs: p.rhs(d.Alternate), moved: cons.moved || alt.moved}
}

// logicalIf outputs test&&branch or test||branch.
func (p *Program) logicalIf(id, test, branch estree.NodeID, op string) stmtInfo {
	prec := binaryPrec[op]
	p.child(test, prec)
	if p.startsAmbiguously(test) {
		p.wrap(test)
	}
	p.require(branch, prec+1)

	n, t, b := p.ast.Node(id), p.ast.Node(test), p.ast.Node(branch)
	p.gap(n.Start, t.Start, "", true)
	p.gap(t.End, b.Start, op, false)
	p.gap(b.End, n.End, "", false)
	return stmtInfo{
		expr:      true,
		prec:      prec,
		first:     p.firstChar(test),
		needsSemi: true,
		rhs:       p.rhs(branch),
		moved:     p.info[branch].stmt.moved,
	}
}

// conditionalIf outputs test?consequent:alternate. A negated test is dropped by swapping the branches.
func (p *Program) conditionalIf(id estree.NodeID, d *estree.IfStatement, not estree.NodeID, altMoved bool) stmtInfo {
	n, c, a := p.ast.Node(id), p.ast.Node(d.Consequent), p.ast.Node(d.Alternate)
	test := d.Test
	if not != estree.NoNode && !altMoved {
		test = not
	}
	p.child(test, 5)
	if p.startsAmbiguously(test) {
		p.wrap(test)
	}
	p.require(d.Consequent, 2)
	p.require(d.Alternate, 2)

	t := p.ast.Node(test)
	s := stmtInfo{expr: true, prec: 4, first: p.firstChar(test), needsSemi: true}
	p.gap(n.Start, t.Start, "", true)
	p.gap(t.End, c.Start, "?", false)
	if test == not {
		p.gap(c.End, a.Start, "", false)
		p.gap(a.End, n.End, "", false)
		p.code.Move(a.Start, a.End, c.Start)
		p.code.PrependRight(c.Start, ":")
		s.rhs = p.rhs(d.Consequent)
		s.moved = true
		return s
	}
	p.gap(c.End, a.Start, ":", false)
	p.gap(a.End, n.End, "", false)
	s.rhs = p.rhs(d.Alternate)
	s.moved = p.info[d.Consequent].stmt.moved || altMoved
	return s
}

// jumpIf outputs return test?a:b for an if statement that returns or throws in both branches.
func (p *Program) jumpIf(id estree.NodeID, d *estree.IfStatement) (stmtInfo, bool) {
	var keyword string
	var x, y estree.NodeID
	switch cons := p.ast.Data(d.Consequent).(type) {
	case *estree.ReturnStatement:
		alt, ok := p.ast.Data(d.Alternate).(*estree.ReturnStatement)
		if !ok {
			return stmtInfo{}, false
		}
		keyword, x, y = "return", cons.Argument, alt.Argument
	case *estree.ThrowStatement:
		alt, ok := p.ast.Data(d.Alternate).(*estree.ThrowStatement)
		if !ok {
			return stmtInfo{}, false
		}
		keyword, x, y = "throw", cons.Argument, alt.Argument
	default:
		return stmtInfo{}, false
	}
	if x == estree.NoNode || y == estree.NoNode {
		return stmtInfo{}, false
	}

	p.child(d.Test, 5)
	p.require(x, 2)
	p.require(y, 2)
	n := p.ast.Node(id)
	p.layout(n.Start, n.End, p.spaced(keyword, d.Test), d.Test, "?", x, ":", y)
	return stmtInfo{first: keyword[0], needsSemi: true, rhs: n.End}, true
}
