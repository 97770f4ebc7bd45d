// Package estree is an ESTree-shaped abstract syntax tree stored in an arena, together with a parser built on the tdewolff JavaScript lexer.
package estree

// NodeID addresses a node in the arena of an AST. The zero value is NoNode.
type NodeID int32

// NoNode is the absent node, eg. the alternate of an if statement without else.
const NoNode NodeID = 0

// Node is an AST node spanning the bytes [Start,End) of the source.
type Node struct {
	Start, End int
	Data       Data

	Parent NodeID
	Depth  int
}

// Data holds the kind-specific fields of a node.
type Data interface {
	Type() string
}

// AST is the arena of nodes of one source text.
type AST struct {
	Src   string
	Nodes []Node
	Root  NodeID
}

func newAST(src string) *AST {
	return &AST{
		Src:   src,
		Nodes: make([]Node, 1, len(src)/4+2),
	}
}

// Len returns the number of nodes including NoNode.
func (a *AST) Len() int {
	return len(a.Nodes)
}

// Node returns the node with the given ID.
func (a *AST) Node(id NodeID) *Node {
	return &a.Nodes[id]
}

// Data returns the kind-specific data of a node, it is nil for NoNode.
func (a *AST) Data(id NodeID) Data {
	return a.Nodes[id].Data
}

// Type returns the node's ESTree type name, or the empty string for NoNode.
func (a *AST) Type(id NodeID) string {
	if d := a.Nodes[id].Data; d != nil {
		return d.Type()
	}
	return ""
}

// Text returns the original source text of a node.
func (a *AST) Text(id NodeID) string {
	n := &a.Nodes[id]
	return a.Src[n.Start:n.End]
}

func (a *AST) add(start, end int, data Data) NodeID {
	a.Nodes = append(a.Nodes, Node{Start: start, End: end, Data: data})
	return NodeID(len(a.Nodes) - 1)
}

////////////////////////////////////////////////////////////////

type Program struct {
	Body []NodeID
}

type ExpressionStatement struct {
	Expression NodeID
	Directive  string // unquoted content of a prologue directive like "use strict"
}

type BlockStatement struct {
	Body []NodeID
}

type EmptyStatement struct{}

type DebuggerStatement struct{}

type WithStatement struct {
	Object, Body NodeID
}

type ReturnStatement struct {
	Argument NodeID
}

type LabeledStatement struct {
	Label, Body NodeID
}

type BreakStatement struct {
	Label NodeID
}

type ContinueStatement struct {
	Label NodeID
}

type IfStatement struct {
	Test, Consequent, Alternate NodeID
}

type SwitchStatement struct {
	Discriminant NodeID
	Cases        []NodeID
}

// SwitchCase is a case clause, Test is NoNode for the default clause.
type SwitchCase struct {
	Test       NodeID
	Consequent []NodeID
}

type ThrowStatement struct {
	Argument NodeID
}

type TryStatement struct {
	Block, Handler, Finalizer NodeID
}

type CatchClause struct {
	Param, Body NodeID
}

type WhileStatement struct {
	Test, Body NodeID
}

type DoWhileStatement struct {
	Body, Test NodeID
}

type ForStatement struct {
	Init, Test, Update, Body NodeID
}

type ForInStatement struct {
	Left, Right, Body NodeID
}

type ForOfStatement struct {
	Left, Right, Body NodeID
}

// Function is shared by function declarations, function expressions and arrow functions.
// Expression is set for arrow functions whose body is an expression instead of a block.
type Function struct {
	ID         NodeID
	Params     []NodeID
	Body       NodeID
	Generator  bool
	Async      bool
	Expression bool
}

type FunctionDeclaration struct {
	Function
}

type FunctionExpression struct {
	Function
}

type ArrowFunctionExpression struct {
	Function
}

type VariableDeclaration struct {
	Kind         string // var, let or const
	Declarations []NodeID
}

type VariableDeclarator struct {
	ID, Init NodeID
}

type Class struct {
	ID, SuperClass, Body NodeID
}

type ClassDeclaration struct {
	Class
}

type ClassExpression struct {
	Class
}

type ClassBody struct {
	Body []NodeID
}

type MethodDefinition struct {
	Key, Value NodeID
	Kind       string // constructor, method, get or set
	Computed   bool
	Static     bool
}

type ThisExpression struct{}

type Super struct{}

// ArrayExpression has NoNode elements for holes.
type ArrayExpression struct {
	Elements []NodeID
}

type ObjectExpression struct {
	Properties []NodeID
}

// Property is a property of an object literal or object pattern. For shorthand properties Key and Value are the same node.
type Property struct {
	Key, Value NodeID
	Kind       string // init, get or set
	Method     bool
	Shorthand  bool
	Computed   bool
}

type UnaryExpression struct {
	Operator string
	Argument NodeID
}

type UpdateExpression struct {
	Operator string
	Prefix   bool
	Argument NodeID
}

type BinaryExpression struct {
	Operator    string
	Left, Right NodeID
}

type LogicalExpression struct {
	Operator    string
	Left, Right NodeID
}

type AssignmentExpression struct {
	Operator    string
	Left, Right NodeID
}

type ConditionalExpression struct {
	Test, Consequent, Alternate NodeID
}

type CallExpression struct {
	Callee    NodeID
	Arguments []NodeID
}

// NewExpression has Parens set when an argument list, even an empty one, follows the callee.
type NewExpression struct {
	Callee    NodeID
	Arguments []NodeID
	Parens    bool
}

type MemberExpression struct {
	Object, Property NodeID
	Computed         bool
}

type SequenceExpression struct {
	Expressions []NodeID
}

type YieldExpression struct {
	Argument NodeID
	Delegate bool
}

type AwaitExpression struct {
	Argument NodeID
}

type TemplateLiteral struct {
	Quasis      []NodeID
	Expressions []NodeID
}

// TemplateElement spans the raw text between the template delimiters. Cooked is empty with Invalid set when the raw text has an invalid escape.
type TemplateElement struct {
	Raw     string
	Cooked  string
	Invalid bool
	Tail    bool
}

type TaggedTemplateExpression struct {
	Tag, Quasi NodeID
}

type SpreadElement struct {
	Argument NodeID
}

type RestElement struct {
	Argument NodeID
}

type ObjectPattern struct {
	Properties []NodeID
}

type ArrayPattern struct {
	Elements []NodeID
}

type AssignmentPattern struct {
	Left, Right NodeID
}

// MetaProperty is new.target or import.meta.
type MetaProperty struct {
	Meta, Property NodeID
}

type Identifier struct {
	Name string
}

// LiteralKind is the kind of value of a Literal.
type LiteralKind uint8

// LiteralKind values.
const (
	StringLiteral LiteralKind = iota
	NumberLiteral
	BigIntLiteral
	BooleanLiteral
	NullLiteral
	RegExpLiteral
)

// Literal is a string, number, bigint, boolean, null or regular expression literal.
// Lossy is set for strings whose value contains lone surrogates and cannot be held in a Go string.
type Literal struct {
	Kind  LiteralKind
	Raw   string
	Str   string
	Num   float64
	Bool  bool
	Lossy bool
}

type ParenthesizedExpression struct {
	Expression NodeID
}

type ImportDeclaration struct {
	Specifiers []NodeID
	Source     NodeID
}

// ImportSpecifier is `{a as b}`; for `{a}` Imported and Local are the same node.
type ImportSpecifier struct {
	Imported, Local NodeID
}

type ImportDefaultSpecifier struct {
	Local NodeID
}

type ImportNamespaceSpecifier struct {
	Local NodeID
}

type ExportNamedDeclaration struct {
	Declaration NodeID
	Specifiers  []NodeID
	Source      NodeID
}

// ExportSpecifier is `{a as b}`; for `{a}` Local and Exported are the same node.
type ExportSpecifier struct {
	Local, Exported NodeID
}

type ExportDefaultDeclaration struct {
	Declaration NodeID
}

type ExportAllDeclaration struct {
	Exported NodeID
	Source   NodeID
}

func (*Program) Type() string                  { return "Program" }
func (*ExpressionStatement) Type() string      { return "ExpressionStatement" }
func (*BlockStatement) Type() string           { return "BlockStatement" }
func (*EmptyStatement) Type() string           { return "EmptyStatement" }
func (*DebuggerStatement) Type() string        { return "DebuggerStatement" }
func (*WithStatement) Type() string            { return "WithStatement" }
func (*ReturnStatement) Type() string          { return "ReturnStatement" }
func (*LabeledStatement) Type() string         { return "LabeledStatement" }
func (*BreakStatement) Type() string           { return "BreakStatement" }
func (*ContinueStatement) Type() string        { return "ContinueStatement" }
func (*IfStatement) Type() string              { return "IfStatement" }
func (*SwitchStatement) Type() string          { return "SwitchStatement" }
func (*SwitchCase) Type() string               { return "SwitchCase" }
func (*ThrowStatement) Type() string           { return "ThrowStatement" }
func (*TryStatement) Type() string             { return "TryStatement" }
func (*CatchClause) Type() string              { return "CatchClause" }
func (*WhileStatement) Type() string           { return "WhileStatement" }
func (*DoWhileStatement) Type() string         { return "DoWhileStatement" }
func (*ForStatement) Type() string             { return "ForStatement" }
func (*ForInStatement) Type() string           { return "ForInStatement" }
func (*ForOfStatement) Type() string           { return "ForOfStatement" }
func (*FunctionDeclaration) Type() string      { return "FunctionDeclaration" }
func (*FunctionExpression) Type() string       { return "FunctionExpression" }
func (*ArrowFunctionExpression) Type() string  { return "ArrowFunctionExpression" }
func (*VariableDeclaration) Type() string      { return "VariableDeclaration" }
func (*VariableDeclarator) Type() string       { return "VariableDeclarator" }
func (*ClassDeclaration) Type() string         { return "ClassDeclaration" }
func (*ClassExpression) Type() string          { return "ClassExpression" }
func (*ClassBody) Type() string                { return "ClassBody" }
func (*MethodDefinition) Type() string         { return "MethodDefinition" }
func (*ThisExpression) Type() string           { return "ThisExpression" }
func (*Super) Type() string                    { return "Super" }
func (*ArrayExpression) Type() string          { return "ArrayExpression" }
func (*ObjectExpression) Type() string         { return "ObjectExpression" }
func (*Property) Type() string                 { return "Property" }
func (*UnaryExpression) Type() string          { return "UnaryExpression" }
func (*UpdateExpression) Type() string         { return "UpdateExpression" }
func (*BinaryExpression) Type() string         { return "BinaryExpression" }
func (*LogicalExpression) Type() string        { return "LogicalExpression" }
func (*AssignmentExpression) Type() string     { return "AssignmentExpression" }
func (*ConditionalExpression) Type() string    { return "ConditionalExpression" }
func (*CallExpression) Type() string           { return "CallExpression" }
func (*NewExpression) Type() string            { return "NewExpression" }
func (*MemberExpression) Type() string         { return "MemberExpression" }
func (*SequenceExpression) Type() string       { return "SequenceExpression" }
func (*YieldExpression) Type() string          { return "YieldExpression" }
func (*AwaitExpression) Type() string          { return "AwaitExpression" }
func (*TemplateLiteral) Type() string          { return "TemplateLiteral" }
func (*TemplateElement) Type() string          { return "TemplateElement" }
func (*TaggedTemplateExpression) Type() string { return "TaggedTemplateExpression" }
func (*SpreadElement) Type() string            { return "SpreadElement" }
func (*RestElement) Type() string              { return "RestElement" }
func (*ObjectPattern) Type() string            { return "ObjectPattern" }
func (*ArrayPattern) Type() string             { return "ArrayPattern" }
func (*AssignmentPattern) Type() string        { return "AssignmentPattern" }
func (*MetaProperty) Type() string             { return "MetaProperty" }
func (*Identifier) Type() string               { return "Identifier" }
func (*Literal) Type() string                  { return "Literal" }
func (*ParenthesizedExpression) Type() string  { return "ParenthesizedExpression" }
func (*ImportDeclaration) Type() string        { return "ImportDeclaration" }
func (*ImportSpecifier) Type() string          { return "ImportSpecifier" }
func (*ImportDefaultSpecifier) Type() string   { return "ImportDefaultSpecifier" }
func (*ImportNamespaceSpecifier) Type() string { return "ImportNamespaceSpecifier" }
func (*ExportNamedDeclaration) Type() string   { return "ExportNamedDeclaration" }
func (*ExportSpecifier) Type() string          { return "ExportSpecifier" }
func (*ExportDefaultDeclaration) Type() string { return "ExportDefaultDeclaration" }
func (*ExportAllDeclaration) Type() string     { return "ExportAllDeclaration" }

////////////////////////////////////////////////////////////////

// Children returns the child nodes of id in source order. Holes and absent optional children are left out.
func (a *AST) Children(id NodeID) []NodeID {
	var list []NodeID
	add := func(ids ...NodeID) {
		for _, child := range ids {
			if child != NoNode {
				list = append(list, child)
			}
		}
	}
	addFunction := func(f *Function) {
		add(f.ID)
		add(f.Params...)
		add(f.Body)
	}

	switch n := a.Nodes[id].Data.(type) {
	case *Program:
		add(n.Body...)
	case *ExpressionStatement:
		add(n.Expression)
	case *BlockStatement:
		add(n.Body...)
	case *WithStatement:
		add(n.Object, n.Body)
	case *ReturnStatement:
		add(n.Argument)
	case *LabeledStatement:
		add(n.Label, n.Body)
	case *BreakStatement:
		add(n.Label)
	case *ContinueStatement:
		add(n.Label)
	case *IfStatement:
		add(n.Test, n.Consequent, n.Alternate)
	case *SwitchStatement:
		add(n.Discriminant)
		add(n.Cases...)
	case *SwitchCase:
		add(n.Test)
		add(n.Consequent...)
	case *ThrowStatement:
		add(n.Argument)
	case *TryStatement:
		add(n.Block, n.Handler, n.Finalizer)
	case *CatchClause:
		add(n.Param, n.Body)
	case *WhileStatement:
		add(n.Test, n.Body)
	case *DoWhileStatement:
		add(n.Body, n.Test)
	case *ForStatement:
		add(n.Init, n.Test, n.Update, n.Body)
	case *ForInStatement:
		add(n.Left, n.Right, n.Body)
	case *ForOfStatement:
		add(n.Left, n.Right, n.Body)
	case *FunctionDeclaration:
		addFunction(&n.Function)
	case *FunctionExpression:
		addFunction(&n.Function)
	case *ArrowFunctionExpression:
		addFunction(&n.Function)
	case *VariableDeclaration:
		add(n.Declarations...)
	case *VariableDeclarator:
		add(n.ID, n.Init)
	case *ClassDeclaration:
		add(n.ID, n.SuperClass, n.Body)
	case *ClassExpression:
		add(n.ID, n.SuperClass, n.Body)
	case *ClassBody:
		add(n.Body...)
	case *MethodDefinition:
		add(n.Key, n.Value)
	case *ArrayExpression:
		add(n.Elements...)
	case *ObjectExpression:
		add(n.Properties...)
	case *Property:
		if n.Shorthand {
			add(n.Value)
		} else {
			add(n.Key, n.Value)
		}
	case *UnaryExpression:
		add(n.Argument)
	case *UpdateExpression:
		add(n.Argument)
	case *BinaryExpression:
		add(n.Left, n.Right)
	case *LogicalExpression:
		add(n.Left, n.Right)
	case *AssignmentExpression:
		add(n.Left, n.Right)
	case *ConditionalExpression:
		add(n.Test, n.Consequent, n.Alternate)
	case *CallExpression:
		add(n.Callee)
		add(n.Arguments...)
	case *NewExpression:
		add(n.Callee)
		add(n.Arguments...)
	case *MemberExpression:
		add(n.Object, n.Property)
	case *SequenceExpression:
		add(n.Expressions...)
	case *YieldExpression:
		add(n.Argument)
	case *AwaitExpression:
		add(n.Argument)
	case *TemplateLiteral:
		for i, quasi := range n.Quasis {
			add(quasi)
			if i < len(n.Expressions) {
				add(n.Expressions[i])
			}
		}
	case *TaggedTemplateExpression:
		add(n.Tag, n.Quasi)
	case *SpreadElement:
		add(n.Argument)
	case *RestElement:
		add(n.Argument)
	case *ObjectPattern:
		add(n.Properties...)
	case *ArrayPattern:
		add(n.Elements...)
	case *AssignmentPattern:
		add(n.Left, n.Right)
	case *MetaProperty:
		add(n.Meta, n.Property)
	case *ParenthesizedExpression:
		add(n.Expression)
	case *ImportDeclaration:
		add(n.Specifiers...)
		add(n.Source)
	case *ImportSpecifier:
		if n.Imported == n.Local {
			add(n.Local)
		} else {
			add(n.Imported, n.Local)
		}
	case *ImportDefaultSpecifier:
		add(n.Local)
	case *ImportNamespaceSpecifier:
		add(n.Local)
	case *ExportNamedDeclaration:
		add(n.Declaration)
		add(n.Specifiers...)
		add(n.Source)
	case *ExportSpecifier:
		if n.Local == n.Exported {
			add(n.Local)
		} else {
			add(n.Local, n.Exported)
		}
	case *ExportDefaultDeclaration:
		add(n.Declaration)
	case *ExportAllDeclaration:
		add(n.Exported, n.Source)
	}
	return list
}

// Walk calls f for id and all its descendants in source order, descending into the children of a node only when f returns true.
func (a *AST) Walk(id NodeID, f func(NodeID) bool) {
	if id == NoNode || !f(id) {
		return
	}
	for _, child := range a.Children(id) {
		a.Walk(child, f)
	}
}

// Contains returns the deepest node containing the byte offset pos, starting the search from id.
func (a *AST) Contains(id NodeID, pos int) NodeID {
	n := &a.Nodes[id]
	if pos < n.Start || n.End <= pos {
		return NoNode
	}
	for _, child := range a.Children(id) {
		if found := a.Contains(child, pos); found != NoNode {
			return found
		}
	}
	return id
}
