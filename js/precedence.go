package js

import (
	"github.com/tdewolff/squash/estree"
)

// binaryPrec is the precedence of binary and logical operators.
var binaryPrec = map[string]int{
	"??": 4,
	"||": 5,
	"&&": 6,
	"|":  7,
	"^":  8,
	"&":  9,
	"==": 10, "!=": 10, "===": 10, "!==": 10,
	"<": 11, ">": 11, "<=": 11, ">=": 11, "in": 11, "instanceof": 11,
	"<<": 12, ">>": 12, ">>>": 12,
	"+": 13, "-": 13,
	"*": 14, "/": 14, "%": 14,
	"**": 15,
}

// prec returns the precedence of the generated text of a node, which must have been generated already.
func (p *Program) prec(id estree.NodeID) int {
	info := &p.info[id]
	if info.parens {
		return 21
	} else if info.bang {
		return 16
	} else if info.folded {
		return valuePrecedence(p.value(id))
	} else if target := p.passthrough(id); target != id {
		return p.prec(target)
	}

	switch n := p.ast.Data(id).(type) {
	case *estree.SequenceExpression:
		return 0
	case *estree.SpreadElement, *estree.RestElement:
		return 1
	case *estree.YieldExpression:
		return 2
	case *estree.AssignmentExpression, *estree.ArrowFunctionExpression, *estree.AssignmentPattern:
		return 3
	case *estree.ConditionalExpression:
		return 4
	case *estree.LogicalExpression:
		return binaryPrec[n.Operator]
	case *estree.BinaryExpression:
		return binaryPrec[n.Operator]
	case *estree.UnaryExpression, *estree.AwaitExpression:
		return 16
	case *estree.UpdateExpression:
		if n.Prefix {
			return 16
		}
		return 17
	case *estree.CallExpression:
		return 18
	case *estree.NewExpression:
		if len(n.Arguments) != 0 || info.newParens {
			return 19
		}
		return 18
	case *estree.MemberExpression, *estree.TaggedTemplateExpression, *estree.MetaProperty:
		return 19
	}
	if info.stmt.expr {
		return info.stmt.prec
	}
	return 21
}

// passthrough returns the node whose text replaces the node entirely, such as the live branch of a conditional with a known test.
func (p *Program) passthrough(id estree.NodeID) estree.NodeID {
	if p.info[id].folded {
		return id
	}
	switch n := p.ast.Data(id).(type) {
	case *estree.ConditionalExpression:
		if test := p.value(n.Test); test.Known() {
			if test.Truthy() {
				return p.passthrough(n.Consequent)
			}
			return p.passthrough(n.Alternate)
		}
	case *estree.LogicalExpression:
		if left := p.value(n.Left); left.Known() && !shortCircuits(n.Operator, left) {
			return p.passthrough(n.Right)
		}
	}
	return id
}

// leftmost returns the node whose text starts the generated text of a node.
func (p *Program) leftmost(id estree.NodeID) estree.NodeID {
	for {
		info := &p.info[id]
		if info.parens || info.bang || info.folded {
			return id
		} else if target := p.passthrough(id); target != id {
			id = target
			continue
		}
		switch n := p.ast.Data(id).(type) {
		case *estree.CallExpression:
			id = n.Callee
		case *estree.MemberExpression:
			id = n.Object
		case *estree.TaggedTemplateExpression:
			id = n.Tag
		case *estree.BinaryExpression:
			id = n.Left
		case *estree.LogicalExpression:
			id = n.Left
		case *estree.AssignmentExpression:
			id = n.Left
		case *estree.ConditionalExpression:
			id = n.Test
		case *estree.SequenceExpression:
			id = n.Expressions[0]
		case *estree.UpdateExpression:
			if n.Prefix {
				return id
			}
			id = n.Argument
		default:
			return id
		}
	}
}

// startsAmbiguously returns true if the text of an expression cannot start an expression statement.
func (p *Program) startsAmbiguously(id estree.NodeID) bool {
	switch n := p.ast.Data(p.leftmost(id)).(type) {
	case *estree.ObjectExpression, *estree.ObjectPattern, *estree.FunctionExpression, *estree.ClassExpression:
		return true
	case *estree.Identifier:
		return n.Name == "let" && p.info[p.leftmost(id)].alias == ""
	}
	return false
}

// identText returns the generated text of an identifier.
func (p *Program) identText(id estree.NodeID) string {
	if alias := p.info[id].alias; alias != "" {
		return alias
	}
	return p.ast.Data(id).(*estree.Identifier).Name
}

// firstChar returns the first character of the generated text of a node.
func (p *Program) firstChar(id estree.NodeID) byte {
	info := &p.info[id]
	if info.parens {
		return '('
	} else if info.bang {
		return '!'
	} else if info.folded {
		return info.text[0]
	} else if target := p.passthrough(id); target != id {
		return p.firstChar(target)
	}

	switch n := p.ast.Data(id).(type) {
	case *estree.Identifier:
		return p.identText(id)[0]
	case *estree.Literal:
		return n.Raw[0]
	case *estree.UnaryExpression:
		return n.Operator[0]
	case *estree.UpdateExpression:
		if n.Prefix {
			return n.Operator[0]
		}
		return p.firstChar(n.Argument)
	case *estree.AwaitExpression:
		return 'a'
	case *estree.YieldExpression:
		return 'y'
	case *estree.NewExpression, *estree.MetaProperty:
		return p.ast.Src[p.ast.Node(id).Start]
	case *estree.FunctionExpression:
		if n.Async {
			return 'a'
		}
		return 'f'
	case *estree.ArrowFunctionExpression:
		if n.Async {
			return 'a'
		} else if len(n.Params) == 1 {
			if _, ok := p.ast.Data(n.Params[0]).(*estree.Identifier); ok {
				return p.firstChar(n.Params[0])
			}
		}
		return '('
	case *estree.ClassExpression:
		return 'c'
	case *estree.ThisExpression:
		return 't'
	case *estree.Super:
		return 's'
	case *estree.ArrayExpression, *estree.ArrayPattern:
		return '['
	case *estree.ObjectExpression, *estree.ObjectPattern:
		return '{'
	case *estree.TemplateLiteral:
		return '`'
	case *estree.SpreadElement, *estree.RestElement:
		return '.'
	case *estree.CallExpression, *estree.MemberExpression, *estree.TaggedTemplateExpression, *estree.BinaryExpression, *estree.LogicalExpression, *estree.AssignmentExpression, *estree.ConditionalExpression, *estree.SequenceExpression, *estree.AssignmentPattern:
		return p.firstChar(p.leftmostChild(id))
	}
	if info.stmt.expr {
		return info.stmt.first
	}
	return p.ast.Src[p.ast.Node(id).Start]
}

func (p *Program) leftmostChild(id estree.NodeID) estree.NodeID {
	switch n := p.ast.Data(id).(type) {
	case *estree.CallExpression:
		return n.Callee
	case *estree.MemberExpression:
		return n.Object
	case *estree.TaggedTemplateExpression:
		return n.Tag
	case *estree.BinaryExpression:
		return n.Left
	case *estree.LogicalExpression:
		return n.Left
	case *estree.AssignmentExpression:
		return n.Left
	case *estree.AssignmentPattern:
		return n.Left
	case *estree.ConditionalExpression:
		return n.Test
	case *estree.SequenceExpression:
		return n.Expressions[0]
	}
	return id
}

// lastChar returns the last character of the generated text of a node.
func (p *Program) lastChar(id estree.NodeID) byte {
	info := &p.info[id]
	if info.parens {
		return ')'
	} else if info.folded {
		return info.text[len(info.text)-1]
	} else if target := p.passthrough(id); target != id {
		return p.lastChar(target)
	}

	switch n := p.ast.Data(id).(type) {
	case *estree.Identifier:
		text := p.identText(id)
		return text[len(text)-1]
	case *estree.Literal:
		return n.Raw[len(n.Raw)-1]
	case *estree.UnaryExpression:
		return p.lastChar(n.Argument)
	case *estree.AwaitExpression:
		return p.lastChar(n.Argument)
	case *estree.SpreadElement:
		return p.lastChar(n.Argument)
	case *estree.RestElement:
		return p.lastChar(n.Argument)
	case *estree.YieldExpression:
		if n.Argument == estree.NoNode {
			return 'd'
		}
		return p.lastChar(n.Argument)
	case *estree.UpdateExpression:
		if n.Prefix {
			return p.lastChar(n.Argument)
		}
		return n.Operator[0]
	case *estree.BinaryExpression:
		return p.lastChar(n.Right)
	case *estree.LogicalExpression:
		return p.lastChar(n.Right)
	case *estree.AssignmentExpression:
		return p.lastChar(n.Right)
	case *estree.AssignmentPattern:
		return p.lastChar(n.Right)
	case *estree.ConditionalExpression:
		return p.lastChar(n.Alternate)
	case *estree.SequenceExpression:
		return p.lastChar(n.Expressions[len(n.Expressions)-1])
	case *estree.ArrowFunctionExpression:
		if n.Expression {
			return p.lastChar(n.Body)
		}
		return '}'
	case *estree.NewExpression:
		if len(n.Arguments) != 0 || info.newParens {
			return ')'
		}
		return p.lastChar(n.Callee)
	case *estree.CallExpression:
		return ')'
	case *estree.MemberExpression:
		if n.Computed {
			return ']'
		}
		return p.lastChar(n.Property)
	case *estree.MetaProperty:
		return p.lastChar(n.Property)
	case *estree.ThisExpression:
		return 's'
	case *estree.Super:
		return 'r'
	case *estree.ArrayExpression, *estree.ArrayPattern:
		return ']'
	case *estree.ObjectExpression, *estree.ObjectPattern, *estree.FunctionExpression, *estree.ClassExpression:
		return '}'
	case *estree.TemplateLiteral, *estree.TaggedTemplateExpression:
		return '`'
	}
	return p.ast.Src[p.ast.Node(id).End-1]
}

// isIdentChar returns true for characters that continue an identifier or a number.
func isIdentChar(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' || c == '_' || c == '$' || c == '\\' || 0x80 <= c
}

// spaced returns word followed by a space if the generated text of id would otherwise continue it.
func (p *Program) spaced(word string, id estree.NodeID) string {
	if isIdentChar(p.firstChar(id)) {
		return word + " "
	}
	return word
}

// binaryOperator returns the operator of a binary expression together with the spaces that keep it from gluing to its operands.
func (p *Program) binaryOperator(op string, left, right estree.NodeID) string {
	if isIdentChar(op[0]) {
		if isIdentChar(p.lastChar(left)) {
			op = " " + op
		}
		return p.spaced(op, right)
	}

	switch c := p.firstChar(right); {
	case (op == "+" || op == "-") && c == op[0]:
		op += " "
	case op == "/" && c == '/', op == "<" && c == '!':
		op += " "
	}
	return op
}
