package js

import (
	"github.com/tdewolff/squash/estree"
)

const evalMessage = "Use of direct eval prevents effective minification and can introduce security vulnerabilities. Use `allowDangerousEval: true` if you know what you're doing"

func (p *Program) initialiseProgram() {
	for len(p.deferred) != 0 {
		id := p.deferred[0]
		p.deferred = p.deferred[1:]
		p.activate(id)
	}
	p.info[p.ast.Root].skip = false
	p.initialiseList(p.ast.Data(p.ast.Root).(*estree.Program).Body, false)
}

// activate initialises the declaring construct of identifier id after its declaration has been referenced for the first time.
func (p *Program) activate(id estree.NodeID) {
	cur := id
	for {
		parent := p.ast.Node(cur).Parent
		switch n := p.ast.Data(parent).(type) {
		case *estree.VariableDeclarator:
			if n.ID == cur {
				p.initialise(parent)
			}
			return
		case *estree.FunctionDeclaration:
			if n.ID == cur {
				p.initialiseFunction(parent, &n.Function)
			}
			return
		case *estree.ClassDeclaration:
			if n.ID == cur {
				p.initialiseClass(parent, &n.Class)
			}
			return
		case *estree.ObjectPattern, *estree.ArrayPattern, *estree.RestElement, *estree.Property:
		case *estree.AssignmentPattern:
			if n.Left != cur {
				return
			}
		default:
			return
		}
		cur = parent
	}
}

// activateLater activates a duplicate declaration once the analysis has started.
func (p *Program) activateLater(id estree.NodeID) {
	p.deferred = append(p.deferred, id)
}

// initialise marks a node as needed and recursively initialises what it needs. Each node is initialised at most once.
func (p *Program) initialise(id estree.NodeID) {
	if id == estree.NoNode || !p.info[id].skip {
		return
	}
	info := &p.info[id]
	info.skip = false

	switch n := p.ast.Data(id).(type) {
	case *estree.ExpressionStatement:
		if n.Directive != "" || p.sideEffectFree(n.Expression) {
			info.skip = true
			return
		}
		p.initialise(n.Expression)
	case *estree.EmptyStatement:
		info.skip = true
	case *estree.BlockStatement:
		p.initialiseList(n.Body, false)
	case *estree.VariableDeclaration:
		p.addWord(n.Kind)
		eager := p.declaredAtTop(id, n.Kind) || p.isExported(id) || p.isLoopHead(id)
		for _, declarator := range n.Declarations {
			if eager || p.info[declarator].sideEffects {
				p.initialise(declarator)
			}
		}
	case *estree.VariableDeclarator:
		p.info[p.ast.Node(id).Parent].skip = false
		p.initialise(n.ID)
		p.initialise(n.Init)
	case *estree.FunctionDeclaration:
		// function declarations are activated by references or exports
		info.skip = true
		if p.isExported(id) {
			p.initialiseFunction(id, &n.Function)
		}
	case *estree.ClassDeclaration:
		info.skip = true
		if p.isExported(id) {
			p.initialiseClass(id, &n.Class)
		}
	case *estree.FunctionExpression:
		info.skip = true
		p.initialiseFunction(id, &n.Function)
	case *estree.ArrowFunctionExpression:
		info.skip = true
		p.initialiseFunction(id, &n.Function)
	case *estree.ClassExpression:
		info.skip = true
		p.initialiseClass(id, &n.Class)
	case *estree.IfStatement:
		p.addWord("if")
		if test := p.value(n.Test); test.Known() {
			live, dead := n.Consequent, n.Alternate
			if !test.Truthy() {
				live, dead = dead, live
			}
			p.initialise(live)
			p.hoistVars(dead)
		} else {
			p.initialise(n.Test)
			p.initialise(n.Consequent)
			p.initialise(n.Alternate)
		}
	case *estree.ConditionalExpression:
		if p.value(id).Known() {
			return
		} else if test := p.value(n.Test); test.Known() {
			if test.Truthy() {
				p.initialise(n.Consequent)
			} else {
				p.initialise(n.Alternate)
			}
		} else {
			p.initialise(n.Test)
			p.initialise(n.Consequent)
			p.initialise(n.Alternate)
		}
	case *estree.LogicalExpression:
		if p.value(id).Known() {
			return
		} else if p.value(n.Left).Known() {
			p.initialise(n.Right)
		} else {
			p.initialise(n.Left)
			p.initialise(n.Right)
		}
	case *estree.SwitchStatement:
		if len(n.Cases) == 0 {
			if _, ok := p.ast.Data(n.Discriminant).(*estree.Identifier); ok || p.value(n.Discriminant).Known() {
				info.skip = true
				return
			}
		}
		p.addWord("switch")
		p.initialise(n.Discriminant)
		for _, c := range n.Cases {
			p.initialise(c)
		}
	case *estree.SwitchCase:
		if n.Test == estree.NoNode {
			p.addWord("default")
		} else {
			p.addWord("case")
			p.initialise(n.Test)
		}
		p.initialiseList(n.Consequent, false)
	case *estree.ReturnStatement:
		p.addWord("return")
		p.initialise(n.Argument)
	case *estree.ThrowStatement:
		p.addWord("throw")
		p.initialise(n.Argument)
	case *estree.BreakStatement:
		p.addWord("break")
		p.initialise(n.Label)
	case *estree.ContinueStatement:
		p.addWord("continue")
		p.initialise(n.Label)
	case *estree.Identifier:
		p.initialiseIdentifier(id, n)
	case *estree.Literal:
		if n.Kind != estree.BooleanLiteral {
			p.addWord(n.Raw)
		}
	case *estree.CallExpression:
		if p.value(id).Known() {
			return
		}
		if callee, ok := p.ast.Data(n.Callee).(*estree.Identifier); ok && callee.Name == "eval" && !info.scope.Contains("eval") {
			if !p.opts.AllowDangerousEval {
				p.fail(id, evalMessage)
			}
			info.scope.Deopt()
		}
		p.initialiseChildren(id)
	case *estree.AssignmentExpression:
		p.initialiseChildren(id)
		p.checkWritable(n.Left, n.Left)
	case *estree.UpdateExpression:
		p.initialiseChildren(id)
		p.checkWritable(n.Argument, id)
	case *estree.ImportDeclaration:
		p.addWord("import")
		p.initialiseChildren(id)
	case *estree.ExportNamedDeclaration, *estree.ExportDefaultDeclaration, *estree.ExportAllDeclaration:
		p.addWord("export")
		p.initialiseChildren(id)
	default:
		if p.isExpression(id) && p.value(id).Known() {
			return
		}
		p.initialiseChildren(id)
	}
}

func (p *Program) initialiseChildren(id estree.NodeID) {
	for _, child := range p.children(id) {
		p.initialise(child)
	}
}

// initialiseList initialises a statement list up to the first statement that breaks execution. Declarations after that point are only hoisted.
func (p *Program) initialiseList(list []estree.NodeID, body bool) {
	broken := false
	for i, stmt := range list {
		if broken {
			switch p.ast.Data(stmt).(type) {
			case *estree.FunctionDeclaration, *estree.ClassDeclaration:
			default:
				p.hoistVars(stmt)
			}
			continue
		}
		p.initialise(stmt)
		if p.breaks(stmt) {
			broken = true
			if ret, ok := p.ast.Data(stmt).(*estree.ReturnStatement); ok && body && ret.Argument == estree.NoNode && i == len(list)-1 {
				p.info[stmt].skip = true
			}
		}
	}
}

func (p *Program) initialiseFunction(id estree.NodeID, f *estree.Function) {
	if !p.info[id].skip {
		return
	}
	p.info[id].skip = false
	if _, ok := p.ast.Data(id).(*estree.ArrowFunctionExpression); !ok {
		p.addWord("function")
	}
	if _, ok := p.ast.Data(id).(*estree.FunctionDeclaration); ok {
		p.initialise(f.ID)
	}
	for _, param := range f.Params {
		p.initialise(param)
	}
	if f.Expression {
		p.initialise(f.Body)
		return
	}
	p.info[f.Body].skip = false
	p.initialiseList(p.ast.Data(f.Body).(*estree.BlockStatement).Body, true)
}

func (p *Program) initialiseClass(id estree.NodeID, c *estree.Class) {
	if !p.info[id].skip {
		return
	}
	p.info[id].skip = false
	p.addWord("class")
	if _, ok := p.ast.Data(id).(*estree.ClassDeclaration); ok {
		p.initialise(c.ID)
	}
	if c.SuperClass != estree.NoNode {
		p.addWord("extends")
		p.initialise(c.SuperClass)
	}
	p.initialise(c.Body)
}

func (p *Program) initialiseIdentifier(id estree.NodeID, n *estree.Identifier) {
	parent := p.ast.Node(id).Parent
	switch m := p.ast.Data(parent).(type) {
	case *estree.FunctionExpression:
		if m.ID == id {
			return
		}
	case *estree.ClassExpression:
		if m.ID == id {
			return
		}
	}

	if !p.isReference(id) {
		p.addWord(n.Name)
		return
	} else if p.value(id).Known() {
		return
	}
	info := &p.info[id]
	info.scope.AddReference(id)
	if info.ref == nil || info.ref.scope.Parent == nil {
		p.addWord(n.Name)
	}
}

// checkWritable fails for assignments to constants. The error is reported at node at.
func (p *Program) checkWritable(target, at estree.NodeID) {
	if _, ok := p.ast.Data(target).(*estree.Identifier); !ok {
		return
	}
	if decl := p.info[target].ref; decl != nil && decl.Kind == ConstDecl {
		p.fail(at, decl.Name+" is read-only")
	}
}

// declaredAtTop returns true for declarations whose declarators are initialised eagerly, which are those in the root scope.
func (p *Program) declaredAtTop(id estree.NodeID, kind string) bool {
	scope := p.info[id].scope
	if kind == VarDecl {
		scope = scope.FunctionScope
	}
	return scope.Parent == nil
}

// isLoopHead returns true for the declaration in the head of a for, for-in or for-of statement.
func (p *Program) isLoopHead(id estree.NodeID) bool {
	switch n := p.ast.Data(p.ast.Node(id).Parent).(type) {
	case *estree.ForStatement:
		return n.Init == id
	case *estree.ForInStatement:
		return n.Left == id
	case *estree.ForOfStatement:
		return n.Left == id
	}
	return false
}

func (p *Program) isExported(id estree.NodeID) bool {
	switch p.ast.Data(p.ast.Node(id).Parent).(type) {
	case *estree.ExportNamedDeclaration, *estree.ExportDefaultDeclaration:
		return true
	}
	return false
}

// hoistVars records the var names declared in a subtree that will not be generated, their declarations must still exist if they are referenced elsewhere.
func (p *Program) hoistVars(id estree.NodeID) {
	if id == estree.NoNode {
		return
	}
	p.ast.Walk(id, func(id estree.NodeID) bool {
		switch n := p.ast.Data(id).(type) {
		case *estree.FunctionDeclaration, *estree.FunctionExpression, *estree.ArrowFunctionExpression, *estree.ClassDeclaration, *estree.ClassExpression:
			return false
		case *estree.VariableDeclaration:
			if n.Kind == VarDecl {
				scope := p.info[id].scope.FunctionScope
				for _, declarator := range n.Declarations {
					for _, name := range p.bindingNames(p.ast.Data(declarator).(*estree.VariableDeclarator).ID) {
						scope.HoistedVars = addName(scope.HoistedVars, p.ast.Data(name).(*estree.Identifier).Name)
					}
				}
			}
		}
		return true
	})
}

// breaks returns true if execution never continues after the statement.
func (p *Program) breaks(id estree.NodeID) bool {
	switch n := p.ast.Data(id).(type) {
	case *estree.ReturnStatement, *estree.BreakStatement, *estree.ContinueStatement, *estree.ThrowStatement:
		return true
	case *estree.BlockStatement:
		for _, stmt := range n.Body {
			if p.breaks(stmt) {
				return true
			}
		}
	case *estree.IfStatement:
		if test := p.value(n.Test); test.Known() {
			if test.Truthy() {
				return p.breaks(n.Consequent)
			}
			return n.Alternate != estree.NoNode && p.breaks(n.Alternate)
		}
		return n.Alternate != estree.NoNode && p.breaks(n.Consequent) && p.breaks(n.Alternate)
	}
	return false
}

// isExpression returns true for nodes that can be evaluated.
func (p *Program) isExpression(id estree.NodeID) bool {
	switch p.ast.Data(id).(type) {
	case *estree.Literal, *estree.Identifier, *estree.ArrayExpression, *estree.UnaryExpression, *estree.BinaryExpression, *estree.LogicalExpression, *estree.ConditionalExpression, *estree.SequenceExpression, *estree.MemberExpression, *estree.CallExpression, *estree.TemplateLiteral:
		return true
	}
	return false
}
