package js

import (
	"github.com/tdewolff/squash/estree"
)

// decorate links every node to its parent, sets its depth and registers its boundaries as source map anchors. Parenthesized expressions are unlinked, the generator adds parentheses where precedence requires them.
func (p *Program) decorate(id, parent estree.NodeID, depth int) {
	n := p.ast.Node(id)
	n.Parent = parent
	n.Depth = depth
	p.info[id].skip = true
	p.code.AddAnchor(n.Start)
	p.code.AddAnchor(n.End)

	for _, ref := range p.childRefs(id) {
		for {
			paren, ok := p.ast.Data(*ref).(*estree.ParenthesizedExpression)
			if !ok {
				break
			}
			*ref = paren.Expression
		}
		p.decorate(*ref, id, depth+1)
	}
}

// childRefs returns the child slots of a node in source order, absent children are left out. Shared nodes, such as the key and value of a shorthand property, are returned once.
func (p *Program) childRefs(id estree.NodeID) []*estree.NodeID {
	var refs []*estree.NodeID
	add := func(ids ...*estree.NodeID) {
		for _, ref := range ids {
			if *ref != estree.NoNode {
				refs = append(refs, ref)
			}
		}
	}
	addList := func(ids []estree.NodeID) {
		for i := range ids {
			add(&ids[i])
		}
	}
	addFunction := func(f *estree.Function) {
		add(&f.ID)
		addList(f.Params)
		add(&f.Body)
	}

	switch n := p.ast.Data(id).(type) {
	case *estree.Program:
		addList(n.Body)
	case *estree.ExpressionStatement:
		add(&n.Expression)
	case *estree.BlockStatement:
		addList(n.Body)
	case *estree.EmptyStatement, *estree.DebuggerStatement, *estree.ThisExpression, *estree.Super, *estree.Identifier, *estree.Literal, *estree.TemplateElement:
	case *estree.WithStatement:
		add(&n.Object, &n.Body)
	case *estree.ReturnStatement:
		add(&n.Argument)
	case *estree.LabeledStatement:
		add(&n.Label, &n.Body)
	case *estree.BreakStatement:
		add(&n.Label)
	case *estree.ContinueStatement:
		add(&n.Label)
	case *estree.IfStatement:
		add(&n.Test, &n.Consequent, &n.Alternate)
	case *estree.SwitchStatement:
		add(&n.Discriminant)
		addList(n.Cases)
	case *estree.SwitchCase:
		add(&n.Test)
		addList(n.Consequent)
	case *estree.ThrowStatement:
		add(&n.Argument)
	case *estree.TryStatement:
		add(&n.Block, &n.Handler, &n.Finalizer)
	case *estree.CatchClause:
		add(&n.Param, &n.Body)
	case *estree.WhileStatement:
		add(&n.Test, &n.Body)
	case *estree.DoWhileStatement:
		add(&n.Body, &n.Test)
	case *estree.ForStatement:
		add(&n.Init, &n.Test, &n.Update, &n.Body)
	case *estree.ForInStatement:
		add(&n.Left, &n.Right, &n.Body)
	case *estree.ForOfStatement:
		add(&n.Left, &n.Right, &n.Body)
	case *estree.FunctionDeclaration:
		addFunction(&n.Function)
	case *estree.FunctionExpression:
		addFunction(&n.Function)
	case *estree.ArrowFunctionExpression:
		addFunction(&n.Function)
	case *estree.VariableDeclaration:
		addList(n.Declarations)
	case *estree.VariableDeclarator:
		add(&n.ID, &n.Init)
	case *estree.ClassDeclaration:
		add(&n.ID, &n.SuperClass, &n.Body)
	case *estree.ClassExpression:
		add(&n.ID, &n.SuperClass, &n.Body)
	case *estree.ClassBody:
		addList(n.Body)
	case *estree.MethodDefinition:
		add(&n.Key, &n.Value)
	case *estree.ArrayExpression:
		addList(n.Elements)
	case *estree.ObjectExpression:
		addList(n.Properties)
	case *estree.Property:
		if n.Shorthand {
			add(&n.Value)
		} else {
			add(&n.Key, &n.Value)
		}
	case *estree.UnaryExpression:
		add(&n.Argument)
	case *estree.UpdateExpression:
		add(&n.Argument)
	case *estree.BinaryExpression:
		add(&n.Left, &n.Right)
	case *estree.LogicalExpression:
		add(&n.Left, &n.Right)
	case *estree.AssignmentExpression:
		add(&n.Left, &n.Right)
	case *estree.ConditionalExpression:
		add(&n.Test, &n.Consequent, &n.Alternate)
	case *estree.CallExpression:
		add(&n.Callee)
		addList(n.Arguments)
	case *estree.NewExpression:
		add(&n.Callee)
		addList(n.Arguments)
	case *estree.MemberExpression:
		add(&n.Object, &n.Property)
	case *estree.SequenceExpression:
		addList(n.Expressions)
	case *estree.YieldExpression:
		add(&n.Argument)
	case *estree.AwaitExpression:
		add(&n.Argument)
	case *estree.TemplateLiteral:
		for i := range n.Quasis {
			add(&n.Quasis[i])
			if i < len(n.Expressions) {
				add(&n.Expressions[i])
			}
		}
	case *estree.TaggedTemplateExpression:
		add(&n.Tag, &n.Quasi)
	case *estree.SpreadElement:
		add(&n.Argument)
	case *estree.RestElement:
		add(&n.Argument)
	case *estree.ObjectPattern:
		addList(n.Properties)
	case *estree.ArrayPattern:
		addList(n.Elements)
	case *estree.AssignmentPattern:
		add(&n.Left, &n.Right)
	case *estree.MetaProperty:
		add(&n.Meta, &n.Property)
	case *estree.ParenthesizedExpression:
		add(&n.Expression)
	case *estree.ImportDeclaration:
		addList(n.Specifiers)
		add(&n.Source)
	case *estree.ImportSpecifier:
		if n.Imported == n.Local {
			add(&n.Local)
		} else {
			add(&n.Imported, &n.Local)
		}
	case *estree.ImportDefaultSpecifier:
		add(&n.Local)
	case *estree.ImportNamespaceSpecifier:
		add(&n.Local)
	case *estree.ExportNamedDeclaration:
		add(&n.Declaration)
		addList(n.Specifiers)
		add(&n.Source)
	case *estree.ExportSpecifier:
		if n.Local == n.Exported {
			add(&n.Local)
		} else {
			add(&n.Local, &n.Exported)
		}
	case *estree.ExportDefaultDeclaration:
		add(&n.Declaration)
	case *estree.ExportAllDeclaration:
		add(&n.Exported, &n.Source)
	default:
		p.internal(id, "unknown node type "+p.ast.Type(id))
	}
	return refs
}

// children returns the child nodes after decoration.
func (p *Program) children(id estree.NodeID) []estree.NodeID {
	refs := p.childRefs(id)
	list := make([]estree.NodeID, len(refs))
	for i, ref := range refs {
		list[i] = *ref
	}
	return list
}
