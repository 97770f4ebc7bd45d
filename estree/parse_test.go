package estree

import (
	"strings"
	"testing"

	"github.com/tdewolff/test"
)

func dump(a *AST, id NodeID) string {
	s := a.Type(id)
	switch n := a.Data(id).(type) {
	case *Identifier:
		s += ":" + n.Name
	case *Literal:
		s += ":" + n.Raw
	case *TemplateElement:
		s += ":" + n.Raw
	case *VariableDeclaration:
		s += ":" + n.Kind
	case *UnaryExpression:
		s += ":" + n.Operator
	case *UpdateExpression:
		s += ":" + n.Operator
	case *BinaryExpression:
		s += ":" + n.Operator
	case *LogicalExpression:
		s += ":" + n.Operator
	case *AssignmentExpression:
		s += ":" + n.Operator
	}
	if children := a.Children(id); 0 < len(children) {
		list := make([]string, len(children))
		for i, child := range children {
			list[i] = dump(a, child)
		}
		s += "(" + strings.Join(list, " ") + ")"
	}
	return s
}

func TestParse(t *testing.T) {
	var parseTests = []struct {
		js       string
		expected string
	}{
		{"a+b*c", "ExpressionStatement(BinaryExpression:+(Identifier:a BinaryExpression:*(Identifier:b Identifier:c)))"},
		{"a*b+c", "ExpressionStatement(BinaryExpression:+(BinaryExpression:*(Identifier:a Identifier:b) Identifier:c))"},
		{"a**b**c", "ExpressionStatement(BinaryExpression:**(Identifier:a BinaryExpression:**(Identifier:b Identifier:c)))"},
		{"a||b&&c", "ExpressionStatement(LogicalExpression:||(Identifier:a LogicalExpression:&&(Identifier:b Identifier:c)))"},
		{"(a,b)", "ExpressionStatement(ParenthesizedExpression(SequenceExpression(Identifier:a Identifier:b)))"},
		{"(a,b)=>a", "ExpressionStatement(ArrowFunctionExpression(Identifier:a Identifier:b Identifier:a))"},
		{"x=>{}", "ExpressionStatement(ArrowFunctionExpression(Identifier:x BlockStatement))"},
		{"async x=>x", "ExpressionStatement(ArrowFunctionExpression(Identifier:x Identifier:x))"},
		{"async(x)", "ExpressionStatement(CallExpression(Identifier:async Identifier:x))"},
		{"({a=1})=>a", "ExpressionStatement(ArrowFunctionExpression(ObjectPattern(Property(AssignmentPattern(Identifier:a Literal:1))) Identifier:a))"},
		{"(...a)=>a", "ExpressionStatement(ArrowFunctionExpression(RestElement(Identifier:a) Identifier:a))"},
		{"var {a,b:[c=1]}=d", "VariableDeclaration:var(VariableDeclarator(ObjectPattern(Property(Identifier:a) Property(Identifier:b ArrayPattern(AssignmentPattern(Identifier:c Literal:1)))) Identifier:d))"},
		{"[a,,b]=c", "ExpressionStatement(AssignmentExpression:=(ArrayPattern(Identifier:a Identifier:b) Identifier:c))"},
		{"a\n/b/g.test(c)", "ExpressionStatement(BinaryExpression:/(BinaryExpression:/(Identifier:a Identifier:b) CallExpression(MemberExpression(Identifier:g Identifier:test) Identifier:c)))"},
		{"x=/b/g", "ExpressionStatement(AssignmentExpression:=(Identifier:x Literal:/b/g))"},
		{"`a${b}c`", "ExpressionStatement(TemplateLiteral(TemplateElement:a Identifier:b TemplateElement:c))"},
		{"f`a`", "ExpressionStatement(TaggedTemplateExpression(Identifier:f TemplateLiteral(TemplateElement:a)))"},
		{"label:for(;;)break label", "LabeledStatement(Identifier:label ForStatement(BreakStatement(Identifier:label)))"},
		{"if(a)b;else c", "IfStatement(Identifier:a ExpressionStatement(Identifier:b) ExpressionStatement(Identifier:c))"},
		{"async function f(){await x}", "FunctionDeclaration(Identifier:f BlockStatement(ExpressionStatement(AwaitExpression(Identifier:x))))"},
		{"function*g(){yield* x}", "FunctionDeclaration(Identifier:g BlockStatement(ExpressionStatement(YieldExpression(Identifier:x))))"},
		{"import a,{b as c} from 'd'", "ImportDeclaration(ImportDefaultSpecifier(Identifier:a) ImportSpecifier(Identifier:b Identifier:c) Literal:'d')"},
		{"import * as ns from 'd'", "ImportDeclaration(ImportNamespaceSpecifier(Identifier:ns) Literal:'d')"},
		{"export {a as default}", "ExportNamedDeclaration(ExportSpecifier(Identifier:a Identifier:default))"},
		{"export default class{}", "ExportDefaultDeclaration(ClassDeclaration(ClassBody))"},
		{"export const a=1", "ExportNamedDeclaration(VariableDeclaration:const(VariableDeclarator(Identifier:a Literal:1)))"},
		{"new a.b(c)", "ExpressionStatement(NewExpression(MemberExpression(Identifier:a Identifier:b) Identifier:c))"},
		{"new a", "ExpressionStatement(NewExpression(Identifier:a))"},
		{"for(var k in o);", "ForInStatement(VariableDeclaration:var(VariableDeclarator(Identifier:k)) Identifier:o EmptyStatement)"},
		{"for(const x of y);", "ForOfStatement(VariableDeclaration:const(VariableDeclarator(Identifier:x)) Identifier:y EmptyStatement)"},
		{"for(a in b);", "ForInStatement(Identifier:a Identifier:b EmptyStatement)"},
		{"for(var i=0,n=('a' in b);i<n;i++);", "ForStatement(VariableDeclaration:var(VariableDeclarator(Identifier:i Literal:0) VariableDeclarator(Identifier:n ParenthesizedExpression(BinaryExpression:in(Literal:'a' Identifier:b)))) BinaryExpression:<(Identifier:i Identifier:n) UpdateExpression:++(Identifier:i) EmptyStatement)"},
		{"({a, get b(){}})", "ExpressionStatement(ParenthesizedExpression(ObjectExpression(Property(Identifier:a) Property(Identifier:b FunctionExpression(BlockStatement)))))"},
		{"({get:1,async(){}})", "ExpressionStatement(ParenthesizedExpression(ObjectExpression(Property(Identifier:get Literal:1) Property(Identifier:async FunctionExpression(BlockStatement)))))"},
		{"class A extends B{constructor(){super()}static get x(){}}", "ClassDeclaration(Identifier:A Identifier:B ClassBody(MethodDefinition(Identifier:constructor FunctionExpression(BlockStatement(ExpressionStatement(CallExpression(Super))))) MethodDefinition(Identifier:x FunctionExpression(BlockStatement))))"},
		{"return", "ReturnStatement"},
		{"return\na", "ReturnStatement ExpressionStatement(Identifier:a)"},
		{"a\n++b", "ExpressionStatement(Identifier:a) ExpressionStatement(UpdateExpression:++(Identifier:b))"},
		{"a?b:c", "ExpressionStatement(ConditionalExpression(Identifier:a Identifier:b Identifier:c))"},
		{"let[a]=b", "VariableDeclaration:let(VariableDeclarator(ArrayPattern(Identifier:a) Identifier:b))"},
		{"let+1", "ExpressionStatement(BinaryExpression:+(Identifier:let Literal:1))"},
		{"try{}catch(e){}finally{}", "TryStatement(BlockStatement CatchClause(Identifier:e BlockStatement) BlockStatement)"},
		{"switch(a){case 1:b;default:}", "SwitchStatement(Identifier:a SwitchCase(Literal:1 ExpressionStatement(Identifier:b)) SwitchCase)"},
		{"do;while(a)b", "DoWhileStatement(EmptyStatement Identifier:a) ExpressionStatement(Identifier:b)"},
		{"typeof a.b", "ExpressionStatement(UnaryExpression:typeof(MemberExpression(Identifier:a Identifier:b)))"},
		{"a[b](...c)", "ExpressionStatement(CallExpression(MemberExpression(Identifier:a Identifier:b) SpreadElement(Identifier:c)))"},
		{"new.target", "ExpressionStatement(MetaProperty(Identifier:new Identifier:target))"},
	}
	for _, tt := range parseTests {
		t.Run(tt.js, func(t *testing.T) {
			ast, err := Parse(tt.js)
			test.Error(t, err)
			program := ast.Data(ast.Root).(*Program)
			list := make([]string, len(program.Body))
			for i, stmt := range program.Body {
				list[i] = dump(ast, stmt)
			}
			test.String(t, strings.Join(list, " "), tt.expected)
		})
	}
}

func TestParseErrors(t *testing.T) {
	var errorTests = []struct {
		js     string
		offset int
	}{
		{"a b", 2},
		{"-x**2", 2},
		{"()", 2},
		{"if(a", 4},
		{"var", 3},
		{"a.?b", 2},
		{"}", 0},
		{"throw\na", 6},
	}
	for _, tt := range errorTests {
		t.Run(tt.js, func(t *testing.T) {
			_, err := Parse(tt.js)
			test.That(t, err != nil, "must fail")
			perr, ok := err.(*Error)
			test.That(t, ok, "must be a syntax error")
			test.T(t, perr.Offset, tt.offset)
		})
	}
}

func TestSpans(t *testing.T) {
	src := "'use strict';\nvar a = b +\n  c;"
	ast, err := Parse(src)
	test.Error(t, err)

	program := ast.Data(ast.Root).(*Program)
	test.T(t, len(program.Body), 2)
	test.String(t, ast.Data(program.Body[0]).(*ExpressionStatement).Directive, "use strict")
	test.String(t, ast.Text(program.Body[1]), "var a = b +\n  c;")

	decl := ast.Data(program.Body[1]).(*VariableDeclaration)
	declarator := ast.Data(decl.Declarations[0]).(*VariableDeclarator)
	test.String(t, ast.Text(declarator.Init), "b +\n  c")
	test.T(t, ast.Contains(ast.Root, strings.Index(src, "c;")), declarator.Init-1)

	line, col, _ := (&Error{"", strings.Index(src, "c;")}).Position(src)
	test.T(t, line, 3)
	test.T(t, col, 3)
}

func TestLiterals(t *testing.T) {
	var numberTests = []struct {
		raw      string
		expected float64
	}{
		{"0", 0},
		{"1.5e3", 1500},
		{".5", 0.5},
		{"0x1F", 31},
		{"0o17", 15},
		{"0b101", 5},
		{"017", 15},
		{"019", 19},
		{"1_000", 1000},
	}
	for _, tt := range numberTests {
		t.Run(tt.raw, func(t *testing.T) {
			f, bigint := parseNumber(tt.raw)
			test.That(t, !bigint)
			test.Float(t, f, tt.expected)
		})
	}

	var stringTests = []struct {
		raw      string
		expected string
		lossy    bool
	}{
		{`abc`, "abc", false},
		{`a\nb`, "a\nb", false},
		{`\x41B\u{43}`, "ABC", false},
		{`😀`, "\U0001F600", false},
		{`\ud83d`, "\uFFFD", true},
		{`\101\0`, "A\x00", false},
		{"a\\\nb", "ab", false},
		{`\'`, "'", false},
	}
	for _, tt := range stringTests {
		t.Run(tt.raw, func(t *testing.T) {
			s, lossy, invalid := decodeEscapes(tt.raw, false)
			test.That(t, !invalid)
			test.T(t, lossy, tt.lossy)
			test.String(t, s, tt.expected)
		})
	}

	_, _, invalid := decodeEscapes(`\1`, true)
	test.That(t, invalid, "octal escape in template")
}
