package js

import (
	"math"
	"strings"

	"github.com/tdewolff/squash/estree"
)

// value returns the compile-time value of an expression, or Unknown. A known value implies the expression has no side effects.
func (p *Program) value(id estree.NodeID) Value {
	if id == estree.NoNode {
		return Unknown
	}
	info := &p.info[id]
	if !info.evaluated {
		info.val = p.evaluate(id)
		info.evaluated = true
	}
	return info.val
}

func (p *Program) evaluate(id estree.NodeID) Value {
	switch n := p.ast.Data(id).(type) {
	case *estree.Literal:
		switch n.Kind {
		case estree.StringLiteral:
			if !n.Lossy {
				return stringValue(n.Str)
			}
		case estree.NumberLiteral:
			return numberValue(n.Num)
		case estree.BooleanLiteral:
			return boolValue(n.Bool)
		case estree.NullLiteral:
			return nullValue()
		}
	case *estree.Identifier:
		if !p.isReference(id) || p.isAssignTarget(id) {
			return Unknown
		} else if scope := p.info[id].scope; scope == nil || scope.Contains(n.Name) {
			return Unknown
		}
		switch n.Name {
		case "undefined":
			return undefinedValue()
		case "Infinity":
			return numberValue(math.Inf(1))
		case "NaN":
			return numberValue(math.NaN())
		}
	case *estree.ArrayExpression:
		arr := make([]Value, len(n.Elements))
		for i, elem := range n.Elements {
			if elem == estree.NoNode {
				return Unknown
			} else if arr[i] = p.value(elem); !arr[i].Known() {
				return Unknown
			}
		}
		return Value{Kind: ArrayValue, Arr: arr}
	case *estree.UnaryExpression:
		return unaryOp(n.Operator, p.value(n.Argument))
	case *estree.BinaryExpression:
		return binaryOp(n.Operator, p.value(n.Left), p.value(n.Right))
	case *estree.LogicalExpression:
		return logicalOp(n.Operator, p.value(n.Left), func() Value {
			return p.value(n.Right)
		})
	case *estree.ConditionalExpression:
		if test := p.value(n.Test); test.Known() {
			if test.Truthy() {
				return p.value(n.Consequent)
			}
			return p.value(n.Alternate)
		}
	case *estree.SequenceExpression:
		for _, expr := range n.Expressions[:len(n.Expressions)-1] {
			if !p.value(expr).Known() {
				return Unknown
			}
		}
		return p.value(n.Expressions[len(n.Expressions)-1])
	case *estree.MemberExpression:
		if p.isAssignTarget(id) || p.isDeleted(id) {
			return Unknown
		} else if key, ok := p.memberKey(id); ok {
			return memberValue(p.value(n.Object), key)
		}
	case *estree.CallExpression:
		return p.evaluateCall(n)
	case *estree.TemplateLiteral:
		if _, ok := p.ast.Data(p.ast.Node(id).Parent).(*estree.TaggedTemplateExpression); ok {
			return Unknown
		}
		sb := strings.Builder{}
		for i, quasi := range n.Quasis {
			elem := p.ast.Data(quasi).(*estree.TemplateElement)
			if elem.Invalid {
				return Unknown
			}
			sb.WriteString(elem.Cooked)
			if i < len(n.Expressions) {
				s, ok := p.value(n.Expressions[i]).primitive().toString()
				if !ok {
					return Unknown
				}
				sb.WriteString(s)
			}
		}
		return stringValue(sb.String())
	}
	return Unknown
}

// memberKey returns the property name of a member expression when it is known.
func (p *Program) memberKey(id estree.NodeID) (string, bool) {
	n := p.ast.Data(id).(*estree.MemberExpression)
	if !n.Computed {
		return p.ast.Data(n.Property).(*estree.Identifier).Name, true
	}
	return propertyKey(p.value(n.Property))
}

func (p *Program) evaluateCall(n *estree.CallExpression) Value {
	member, ok := p.ast.Data(n.Callee).(*estree.MemberExpression)
	if !ok {
		return Unknown
	}
	name, ok := p.memberKey(n.Callee)
	if !ok {
		return Unknown
	}

	args := make([]Value, len(n.Arguments))
	for i, arg := range n.Arguments {
		if args[i] = p.value(arg); !args[i].Known() {
			return Unknown
		}
	}

	if obj, ok := p.ast.Data(member.Object).(*estree.Identifier); ok && obj.Name == "String" && !p.info[member.Object].scope.Contains("String") {
		if name == "fromCharCode" || name == "fromCodePoint" {
			return fromCharCode(name == "fromCodePoint", args)
		}
		return Unknown
	}
	obj := p.value(member.Object)
	if !obj.Known() {
		return Unknown
	}
	return callMethod(obj, name, args)
}

// sideEffectFree returns true for expressions whose evaluation has no observable effects.
func (p *Program) sideEffectFree(id estree.NodeID) bool {
	switch p.ast.Data(id).(type) {
	case *estree.Literal, *estree.FunctionExpression, *estree.ArrowFunctionExpression, *estree.ThisExpression:
		return true
	}
	return p.value(id).Known()
}

// mightHaveSideEffects is the conservative test used to decide whether an unused declarator's initializer must be kept.
func (p *Program) mightHaveSideEffects(id estree.NodeID) bool {
	switch p.ast.Data(id).(type) {
	case *estree.Identifier, *estree.Literal, *estree.FunctionExpression, *estree.ArrowFunctionExpression:
		return false
	}
	return true
}

////////////////////////////////////////////////////////////////

// isReference returns true if the identifier refers to a binding, as opposed to a property name, label or export name.
func (p *Program) isReference(id estree.NodeID) bool {
	parent := p.ast.Node(id).Parent
	switch n := p.ast.Data(parent).(type) {
	case *estree.MemberExpression:
		return n.Computed || n.Object == id
	case *estree.Property:
		return n.Computed || n.Value == id
	case *estree.MethodDefinition:
		return n.Computed
	case *estree.ExportSpecifier:
		return n.Local == id
	case *estree.ImportSpecifier:
		return n.Local == id
	case *estree.LabeledStatement, *estree.BreakStatement, *estree.ContinueStatement, *estree.MetaProperty:
		return false
	}
	return true
}

// isDeleted returns true if the expression is the operand of delete.
func (p *Program) isDeleted(id estree.NodeID) bool {
	n, ok := p.ast.Data(p.ast.Node(id).Parent).(*estree.UnaryExpression)
	return ok && n.Operator == "delete"
}

// isAssignTarget returns true if the identifier or member expression is written to.
func (p *Program) isAssignTarget(id estree.NodeID) bool {
	for {
		parent := p.ast.Node(id).Parent
		switch n := p.ast.Data(parent).(type) {
		case *estree.AssignmentExpression:
			return n.Left == id
		case *estree.UpdateExpression:
			return true
		case *estree.AssignmentPattern:
			if n.Left != id {
				return false
			}
		case *estree.ForInStatement:
			return n.Left == id
		case *estree.ForOfStatement:
			return n.Left == id
		case *estree.VariableDeclarator:
			return n.ID == id
		case *estree.ArrayPattern, *estree.ObjectPattern, *estree.RestElement:
		case *estree.Property:
			if n.Value != id {
				return false
			}
		case *estree.FunctionDeclaration:
			return n.Body != id
		case *estree.FunctionExpression:
			return n.Body != id
		case *estree.ArrowFunctionExpression:
			return n.Body != id
		case *estree.CatchClause, *estree.ClassDeclaration, *estree.ClassExpression:
			return true
		default:
			return false
		}
		id = parent
	}
}
