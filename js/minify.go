package js

import (
	"math"

	"github.com/tdewolff/squash/estree"
)

// gen writes the minified text of an expression or pattern into the buffer. Its parent decides on parentheses.
func (p *Program) gen(id estree.NodeID) {
	if id == estree.NoNode || p.fold(id) {
		return
	} else if target := p.passthrough(id); target != id {
		p.gen(target)
		n, t := p.ast.Node(id), p.ast.Node(target)
		p.gap(n.Start, t.Start, "", true)
		p.gap(t.End, n.End, "", false)
		return
	}

	n := p.ast.Node(id)
	switch d := p.ast.Data(id).(type) {
	case *estree.Identifier, *estree.Literal, *estree.ThisExpression, *estree.Super, *estree.TemplateElement:
	case *estree.ArrayExpression:
		p.array(id, d.Elements)
	case *estree.ArrayPattern:
		p.array(id, d.Elements)
	case *estree.ObjectExpression:
		p.object(id, d.Properties)
	case *estree.ObjectPattern:
		p.object(id, d.Properties)
	case *estree.Property:
		p.property(id, d)
	case *estree.SpreadElement:
		p.child(d.Argument, 2)
		p.layout(n.Start, n.End, "...", d.Argument)
	case *estree.RestElement:
		p.gen(d.Argument)
		p.layout(n.Start, n.End, "...", d.Argument)
	case *estree.AssignmentPattern:
		p.gen(d.Left)
		p.child(d.Right, 2)
		p.layout(n.Start, n.End, d.Left, "=", d.Right)
	case *estree.FunctionExpression:
		p.function(id, &d.Function)
	case *estree.ArrowFunctionExpression:
		p.arrow(id, &d.Function)
	case *estree.ClassExpression:
		p.class(id, &d.Class)
	case *estree.ClassBody:
		items := []interface{}{"{"}
		for _, member := range d.Body {
			p.gen(member)
			items = append(items, member)
		}
		items = append(items, "}")
		p.layout(n.Start, n.End, items...)
	case *estree.MethodDefinition:
		fe := p.ast.Data(d.Value).(*estree.FunctionExpression)
		head := ""
		if d.Static {
			head = "static"
		}
		if d.Kind == "get" || d.Kind == "set" {
			head = joinWords(head, d.Kind)
		} else if fe.Async {
			head = joinWords(head, "async")
		}
		if fe.Generator {
			head += "*"
		}
		p.gen(d.Value)
		p.keyed(id, d.Key, d.Computed, head, "", d.Value)
	case *estree.UnaryExpression:
		p.child(d.Argument, 16)
		op := d.Operator
		if isIdentChar(op[0]) {
			op = p.spaced(op, d.Argument)
		} else if (op == "-" || op == "+") && p.firstChar(d.Argument) == op[0] {
			op += " "
		}
		p.layout(n.Start, n.End, op, d.Argument)
	case *estree.UpdateExpression:
		p.child(d.Argument, 18)
		if d.Prefix {
			p.layout(n.Start, n.End, d.Operator, d.Argument)
		} else {
			p.layout(n.Start, n.End, d.Argument, d.Operator)
		}
	case *estree.AwaitExpression:
		p.child(d.Argument, 16)
		p.layout(n.Start, n.End, p.spaced("await", d.Argument), d.Argument)
	case *estree.YieldExpression:
		if d.Argument == estree.NoNode {
			p.layout(n.Start, n.End, "yield")
			break
		}
		p.child(d.Argument, 2)
		if d.Delegate {
			p.layout(n.Start, n.End, "yield*", d.Argument)
		} else {
			p.layout(n.Start, n.End, p.spaced("yield", d.Argument), d.Argument)
		}
	case *estree.BinaryExpression:
		left, right := binaryPrec[d.Operator], binaryPrec[d.Operator]+1
		if d.Operator == "**" {
			left, right = 17, 15
		}
		p.child(d.Left, left)
		p.child(d.Right, right)
		p.layout(n.Start, n.End, d.Left, p.binaryOperator(d.Operator, d.Left, d.Right), d.Right)
	case *estree.LogicalExpression:
		p.logical(id, d)
	case *estree.AssignmentExpression:
		if p.compound(id, d) {
			break
		}
		p.gen(d.Left)
		p.child(d.Right, 2)
		p.layout(n.Start, n.End, d.Left, d.Operator, d.Right)
	case *estree.ConditionalExpression:
		p.child(d.Test, 5)
		p.child(d.Consequent, 2)
		p.child(d.Alternate, 2)
		p.layout(n.Start, n.End, d.Test, "?", d.Consequent, ":", d.Alternate)
	case *estree.SequenceExpression:
		items := []interface{}{}
		for i, expr := range d.Expressions {
			if 0 < i {
				items = append(items, ",")
			}
			p.child(expr, 0)
			items = append(items, expr)
		}
		p.layout(n.Start, n.End, items...)
	case *estree.CallExpression:
		p.markNewParens(d.Callee)
		p.child(d.Callee, 18)
		p.layout(n.Start, n.End, p.arguments(d.Callee, d.Arguments)...)
	case *estree.NewExpression:
		p.markNewParens(d.Callee)
		p.gen(d.Callee)
		if p.prec(d.Callee) < 19 || p.containsCall(d.Callee) {
			p.wrap(d.Callee)
		}
		if len(d.Arguments) == 0 && !p.info[id].newParens {
			p.layout(n.Start, n.End, p.spaced("new", d.Callee), d.Callee)
			break
		}
		items := append([]interface{}{p.spaced("new", d.Callee)}, p.arguments(d.Callee, d.Arguments)...)
		p.layout(n.Start, n.End, items...)
	case *estree.MemberExpression:
		p.member(id, d)
	case *estree.TemplateLiteral:
		items := []interface{}{"`"}
		for i, quasi := range d.Quasis {
			items = append(items, quasi)
			if i < len(d.Expressions) {
				p.child(d.Expressions[i], 0)
				items = append(items, "${", d.Expressions[i], "}")
			}
		}
		items = append(items, "`")
		p.layout(n.Start, n.End, items...)
	case *estree.TaggedTemplateExpression:
		p.markNewParens(d.Tag)
		p.child(d.Tag, 18)
		p.gen(d.Quasi)
		p.layout(n.Start, n.End, d.Tag, d.Quasi)
	case *estree.MetaProperty:
		p.layout(n.Start, n.End, d.Meta, ".", d.Property)
	default:
		p.internal(id, "cannot generate "+p.ast.Type(id))
	}
}

// fold replaces an expression with a known value by the shortest text for that value, unless the original is shorter.
func (p *Program) fold(id estree.NodeID) bool {
	info := &p.info[id]
	if info.folded {
		return true
	} else if !p.isExpression(id) {
		return false
	}
	v := p.value(id)
	if !v.Known() || hasNaN(v) && info.scope.Contains("NaN") {
		return false
	}
	text := stringify(v)
	original := p.ast.Text(id)
	if text == "" || len(original) < len(text) {
		return false
	}
	info.folded = true
	info.text = text
	if text != original {
		n := p.ast.Node(id)
		p.code.Overwrite(n.Start, n.End, text)
	}
	return true
}

func hasNaN(v Value) bool {
	if v.Kind == NumberValue {
		return math.IsNaN(v.Num)
	}
	for _, item := range v.Arr {
		if hasNaN(item) {
			return true
		}
	}
	return false
}

// arguments generates the arguments of a call and returns the layout items of the call.
func (p *Program) arguments(callee estree.NodeID, args []estree.NodeID) []interface{} {
	items := []interface{}{callee, "("}
	for i, arg := range args {
		if 0 < i {
			items = append(items, ",")
		}
		p.element(arg)
		items = append(items, arg)
	}
	return append(items, ")")
}

// element generates an array element, argument or property value.
func (p *Program) element(id estree.NodeID) {
	switch p.ast.Data(id).(type) {
	case *estree.SpreadElement, *estree.RestElement:
		p.gen(id)
	default:
		p.child(id, 2)
	}
}

func (p *Program) array(id estree.NodeID, elements []estree.NodeID) {
	items := []interface{}{"["}
	for i, elem := range elements {
		if 0 < i {
			items = append(items, ",")
		}
		if elem != estree.NoNode {
			p.element(elem)
			items = append(items, elem)
		}
	}
	if len(elements) != 0 && elements[len(elements)-1] == estree.NoNode {
		items = append(items, ",") // trailing hole
	}
	items = append(items, "]")
	n := p.ast.Node(id)
	p.layout(n.Start, n.End, items...)
}

func (p *Program) object(id estree.NodeID, props []estree.NodeID) {
	items := []interface{}{"{"}
	for i, prop := range props {
		if 0 < i {
			items = append(items, ",")
		}
		p.gen(prop)
		items = append(items, prop)
	}
	items = append(items, "}")
	n := p.ast.Node(id)
	p.layout(n.Start, n.End, items...)
}

func (p *Program) property(id estree.NodeID, d *estree.Property) {
	if d.Shorthand {
		p.gen(d.Value)
		n := p.ast.Node(id)
		p.layout(n.Start, n.End, d.Value)
		return
	} else if d.Method || d.Kind == "get" || d.Kind == "set" {
		fe := p.ast.Data(d.Value).(*estree.FunctionExpression)
		head := ""
		if d.Kind == "get" || d.Kind == "set" {
			head = d.Kind
		} else if fe.Async {
			head = "async"
		}
		if fe.Generator {
			head += "*"
		}
		p.gen(d.Value)
		p.keyed(id, d.Key, d.Computed, head, "", d.Value)
		return
	}
	p.element(d.Value)
	p.keyed(id, d.Key, d.Computed, "", ":", d.Value)
}

// keyed lays out a property or method: its head words, key, separator and value.
func (p *Program) keyed(id, key estree.NodeID, computed bool, head, sep string, value estree.NodeID) {
	n := p.ast.Node(id)
	if computed {
		p.child(key, 2)
		p.layout(n.Start, n.End, head+"[", key, "]"+sep, value)
		return
	}
	p.layout(n.Start, n.End, joinWords(head, p.keyText(key))+sep, value)
}

// keyText returns the shortest text of a property name.
func (p *Program) keyText(key estree.NodeID) string {
	switch n := p.ast.Data(key).(type) {
	case *estree.Identifier:
		return n.Name
	case *estree.Literal:
		switch n.Kind {
		case estree.StringLiteral:
			if n.Lossy {
				return n.Raw
			} else if isIdentifierName(n.Str) {
				return n.Str
			} else if num, ok := numericKey(n.Str); ok {
				return num
			}
			return quoteString(n.Str)
		case estree.NumberLiteral:
			if !math.IsInf(n.Num, 0) {
				return minifyNumber(n.Num)
			}
		}
		return n.Raw
	}
	return p.ast.Text(key)
}

// joinWords concatenates two pieces of code, separated by a space if they would otherwise form one token.
func joinWords(a, b string) string {
	if a == "" {
		return b
	} else if b != "" && isIdentChar(a[len(a)-1]) && isIdentChar(b[0]) {
		return a + " " + b
	}
	return a + b
}

func (p *Program) member(id estree.NodeID, d *estree.MemberExpression) {
	n := p.ast.Node(id)
	p.markNewParens(d.Object)
	p.child(d.Object, 18)
	dot := "."
	if !p.info[d.Object].parens && isDigits(p.generatedText(d.Object)) {
		dot = ".." // 1..toString()
	}
	if !d.Computed {
		p.layout(n.Start, n.End, d.Object, dot, d.Property)
		return
	}

	if key := p.value(d.Property); key.Kind == StringValue {
		if isIdentifierName(key.Str) {
			p.layout(n.Start, n.End, d.Object, dot+key.Str)
			return
		} else if num, ok := numericKey(key.Str); ok {
			p.layout(n.Start, n.End, d.Object, "["+num+"]")
			return
		}
	}
	p.child(d.Property, 0)
	p.layout(n.Start, n.End, d.Object, "[", d.Property, "]")
}

func (p *Program) logical(id estree.NodeID, d *estree.LogicalExpression) {
	var left, right int
	switch d.Operator {
	case "??":
		left, right = 7, 7
	case "||":
		left, right = 5, 6
	default:
		left, right = 6, 7
	}

	p.gen(d.Left)
	if inner, ok := p.ast.Data(p.passthrough(d.Left)).(*estree.LogicalExpression); !ok || inner.Operator != "??" || d.Operator != "??" {
		p.require(d.Left, left)
	}
	p.child(d.Right, right)
	n := p.ast.Node(id)
	p.layout(n.Start, n.End, d.Left, d.Operator, d.Right)
}

var compoundOps = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "%": true, "**": true,
	"<<": true, ">>": true, ">>>": true, "&": true, "^": true, "|": true,
}

// compound writes a=a+b as a+=b. It returns false if the assignment cannot be shortened.
func (p *Program) compound(id estree.NodeID, d *estree.AssignmentExpression) bool {
	if d.Operator != "=" || p.value(d.Right).Known() {
		return false
	}
	bin, ok := p.ast.Data(d.Right).(*estree.BinaryExpression)
	if !ok || !compoundOps[bin.Operator] {
		return false
	}

	rest := estree.NoNode
	if p.sameBinding(d.Left, bin.Left) {
		rest = bin.Right
	} else if commutative(bin.Operator) && p.sameBinding(d.Left, bin.Right) && p.value(bin.Left).Kind == NumberValue {
		rest = bin.Left
	} else {
		return false
	}

	p.child(rest, 2)
	n := p.ast.Node(id)
	p.layout(n.Start, n.End, d.Left, bin.Operator+"=", rest)
	return true
}

func commutative(op string) bool {
	return op == "*" || op == "&" || op == "^" || op == "|"
}

// sameBinding returns true if both nodes are identifiers referring to the same binding.
func (p *Program) sameBinding(a, b estree.NodeID) bool {
	x, ok := p.ast.Data(a).(*estree.Identifier)
	if !ok {
		return false
	}
	y, ok := p.ast.Data(b).(*estree.Identifier)
	return ok && x.Name == y.Name && p.info[a].ref == p.info[b].ref && !p.info[b].folded
}

// function generates a function declaration, function expression or method.
func (p *Program) function(id estree.NodeID, f *estree.Function) {
	own := p.info[id].own
	own.Mangle(p.alphabet)
	for _, param := range f.Params {
		p.gen(param)
	}
	p.functionBody(f.Body, own)

	var items []interface{}
	if p.isMethod(id) {
		items = append(items, "(")
	} else {
		head := "function"
		if f.Async {
			head = "async " + head
		}
		if f.Generator {
			head += "*"
		}
		name := f.ID
		if _, ok := p.ast.Data(id).(*estree.FunctionExpression); ok && !p.keepName(f) {
			name = estree.NoNode
		}
		if name != estree.NoNode && !f.Generator {
			head += " "
		}
		items = append(items, head, name, "(")
	}
	items = p.params(items, f.Params)
	items = append(items, ")", f.Body)
	n := p.ast.Node(id)
	p.layout(n.Start, n.End, items...)
}

func (p *Program) params(items []interface{}, params []estree.NodeID) []interface{} {
	for i, param := range params {
		if 0 < i {
			items = append(items, ",")
		}
		items = append(items, param)
	}
	return items
}

// keepName returns true if the name of a function expression is referenced from within.
func (p *Program) keepName(f *estree.Function) bool {
	if f.ID == estree.NoNode {
		return false
	}
	decl := p.info[f.ID].decl
	return decl != nil && decl.scope.Declarations[decl.Name] == decl && !p.info[f.ID].shadowed && 1 < len(decl.Instances)
}

func (p *Program) isMethod(id estree.NodeID) bool {
	switch n := p.ast.Data(p.ast.Node(id).Parent).(type) {
	case *estree.Property:
		return n.Value == id && (n.Method || n.Kind == "get" || n.Kind == "set")
	case *estree.MethodDefinition:
		return n.Value == id
	}
	return false
}

func (p *Program) arrow(id estree.NodeID, f *estree.Function) {
	own := p.info[id].own
	own.Mangle(p.alphabet)
	for _, param := range f.Params {
		p.gen(param)
	}
	if f.Expression {
		p.child(f.Body, 2)
		if lm := p.leftmost(f.Body); !p.info[lm].parens {
			if _, ok := p.ast.Data(lm).(*estree.ObjectExpression); ok {
				p.wrap(f.Body)
			}
		}
	} else {
		p.functionBody(f.Body, own)
	}

	head := ""
	if f.Async {
		head = "async"
	}
	var items []interface{}
	if len(f.Params) == 1 && p.isIdentifier(f.Params[0]) {
		if f.Async {
			head += " "
		}
		items = append(items, head, f.Params[0])
	} else {
		items = append(items, head+"(")
		items = p.params(items, f.Params)
		items = append(items, ")")
	}
	items = append(items, "=>", f.Body)
	n := p.ast.Node(id)
	p.layout(n.Start, n.End, items...)
}

func (p *Program) isIdentifier(id estree.NodeID) bool {
	_, ok := p.ast.Data(id).(*estree.Identifier)
	return ok
}

// class generates a class declaration or expression.
func (p *Program) class(id estree.NodeID, c *estree.Class) {
	if own := p.info[id].own; own != nil {
		own.Mangle(p.alphabet)
	}
	items := []interface{}{"class"}
	if c.ID != estree.NoNode {
		items = append(items, " ", c.ID)
	}
	if c.SuperClass != estree.NoNode {
		p.markNewParens(c.SuperClass)
		p.child(c.SuperClass, 18)
		items = append(items, p.spaced(" extends", c.SuperClass), c.SuperClass)
	}
	p.gen(c.Body)
	items = append(items, c.Body)
	n := p.ast.Node(id)
	p.layout(n.Start, n.End, items...)
}
