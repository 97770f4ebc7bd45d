package js

import (
	"math"
	"strings"

	parsejs "github.com/tdewolff/parse/v2/js"
	"github.com/tdewolff/squash/estree"
)

// gap replaces the source text between start and end by s. Empty ranges insert s: after what precedes for inner gaps, before what follows when leading is set.
func (p *Program) gap(start, end int, s string, leading bool) {
	if end < start {
		return
	} else if start == end {
		if s == "" {
			return
		} else if leading {
			p.code.PrependRight(start, s)
		} else {
			p.code.AppendLeft(start, s)
		}
		return
	} else if p.src[start:end] == s {
		return
	}
	p.code.Overwrite(start, end, s)
}

// layout writes the text of the node spanning start to end: strings are output in between the given child nodes, and the remaining source text between the children is removed. Children must have been generated and wrapped before.
func (p *Program) layout(start, end int, items ...interface{}) {
	pos := start
	sb := strings.Builder{}
	for _, item := range items {
		switch v := item.(type) {
		case string:
			sb.WriteString(v)
		case estree.NodeID:
			if v == estree.NoNode {
				continue
			}
			n := p.ast.Node(v)
			p.gap(pos, n.Start, sb.String(), pos == start)
			sb.Reset()
			pos = n.End
		}
	}
	p.gap(pos, end, sb.String(), pos == start)
}

// wrap puts parentheses around the generated text of a node.
func (p *Program) wrap(id estree.NodeID) {
	info := &p.info[id]
	if info.parens {
		return
	}
	info.parens = true
	n := p.ast.Node(id)
	p.code.PrependRight(n.Start, "(")
	p.code.AppendLeft(p.rhs(id), ")")
}

// rhs returns the position after which text is appended to the generated text of a node. It differs from the node's end only when a part of the node was moved.
func (p *Program) rhs(id estree.NodeID) int {
	if rhs := p.info[id].stmt.rhs; rhs != 0 {
		return rhs
	}
	return p.ast.Node(id).End
}

// child generates a node in a slot that requires at least the given precedence.
func (p *Program) child(id estree.NodeID, required int) {
	if id == estree.NoNode {
		return
	}
	p.gen(id)
	p.require(id, required)
}

// require wraps a generated node in parentheses if its precedence is too low for its slot.
func (p *Program) require(id estree.NodeID, required int) {
	if p.prec(id) < required {
		p.wrap(id)
	}
}

// markNewParens makes a new expression without arguments output an empty argument list, which it needs as the callee or object of another expression.
func (p *Program) markNewParens(id estree.NodeID) {
	if n, ok := p.ast.Data(p.passthrough(id)).(*estree.NewExpression); ok && len(n.Arguments) == 0 {
		p.info[p.passthrough(id)].newParens = true
	}
}

// containsCall returns true if the callee of a new expression contains a call that would bind the argument list.
func (p *Program) containsCall(id estree.NodeID) bool {
	for {
		id = p.passthrough(id)
		if p.info[id].folded {
			return false
		}
		switch n := p.ast.Data(id).(type) {
		case *estree.CallExpression:
			return true
		case *estree.MemberExpression:
			id = n.Object
		case *estree.TaggedTemplateExpression:
			id = n.Tag
		default:
			return false
		}
	}
}

// containsIn returns true if the generated text of an expression contains an in operator outside of brackets, which is ambiguous in the head of a for statement.
func (p *Program) containsIn(id estree.NodeID) bool {
	if id == estree.NoNode || p.info[id].parens || p.info[id].folded {
		return false
	} else if target := p.passthrough(id); target != id {
		return p.containsIn(target)
	}
	switch n := p.ast.Data(id).(type) {
	case *estree.BinaryExpression:
		return n.Operator == "in" || p.containsIn(n.Left) || p.containsIn(n.Right)
	case *estree.LogicalExpression:
		return p.containsIn(n.Left) || p.containsIn(n.Right)
	case *estree.AssignmentExpression:
		return p.containsIn(n.Right)
	case *estree.ConditionalExpression:
		return p.containsIn(n.Test) || p.containsIn(n.Consequent) || p.containsIn(n.Alternate)
	case *estree.SequenceExpression:
		for _, expr := range n.Expressions {
			if p.containsIn(expr) {
				return true
			}
		}
	case *estree.UnaryExpression:
		return p.containsIn(n.Argument)
	case *estree.AwaitExpression:
		return p.containsIn(n.Argument)
	case *estree.YieldExpression:
		return p.containsIn(n.Argument)
	case *estree.ArrowFunctionExpression:
		return n.Expression && p.containsIn(n.Body)
	}
	return false
}

// generatedText returns the output text of a literal or identifier node.
func (p *Program) generatedText(id estree.NodeID) string {
	info := &p.info[id]
	if info.folded {
		return info.text
	}
	switch n := p.ast.Data(id).(type) {
	case *estree.Identifier:
		return p.identText(id)
	case *estree.Literal:
		return n.Raw
	}
	return ""
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || '9' < s[i] {
			return false
		}
	}
	return true
}

// isIdentifierName returns true if s can be written as a property name without quotes.
func isIdentifierName(s string) bool {
	return isASCII(s) && !reserved[s] && parsejs.AsIdentifierName([]byte(s))
}

// numericKey returns the number literal that denotes the same property name as s, if any.
func numericKey(s string) (string, bool) {
	if s == "" || s[0] == '-' {
		return "", false
	}
	f := stringToNumber(s)
	if math.IsNaN(f) || math.IsInf(f, 0) || numberToString(f) != s {
		return "", false
	}
	return minifyNumber(f), true
}
