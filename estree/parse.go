package estree

import (
	"fmt"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/js"
)

// NestedExprLimit is the maximum nesting depth of expressions.
var NestedExprLimit = 1000

// Error is a syntax error at a byte offset of the source.
type Error struct {
	Message string
	Offset  int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at offset %d", e.Message, e.Offset)
}

// Position returns the one-based line and column of the error in src, together with the line's text.
func (e *Error) Position(src string) (int, int, string) {
	return parse.Position(strings.NewReader(src), e.Offset)
}

// Parser is the state of the recursive-descent parser. It keeps one token of lookahead so that the lexer can reparse a / as a regular expression.
type Parser struct {
	l   *js.Lexer
	r   *parse.Input
	ast *AST
	err error

	tt         js.TokenType
	data       []byte
	start, end int
	prevEnd    int
	prevLT     bool

	in, await, yield bool
	exprLevel        int
}

// Parse parses src as an ECMAScript module, allowing return statements at the top level, and returns its AST.
func Parse(src string) (*AST, error) {
	r := parse.NewInputString(src)
	p := &Parser{
		l:   js.NewLexer(r),
		r:   r,
		ast: newAST(src),
		in:  true,
	}

	p.next()
	body := p.parseStatementList(true)
	if !p.eof() {
		p.fail("statement")
	}
	if p.err != nil {
		return nil, p.err
	}
	p.ast.Root = p.ast.add(0, len(src), &Program{body})
	return p.ast, nil
}

func (p *Parser) next() {
	if p.err != nil {
		p.tt = js.ErrorToken
		return
	}
	p.prevEnd = p.end
	p.prevLT = false
	for {
		p.tt, p.data = p.l.Next()
		if p.tt == js.LineTerminatorToken || p.tt == js.CommentLineTerminatorToken {
			p.prevLT = true
		} else if p.tt != js.WhitespaceToken && p.tt != js.CommentToken {
			break
		}
	}
	p.end = p.r.Offset()
	p.start = p.end - len(p.data)
	if p.tt == js.ErrorToken {
		if err := p.l.Err(); err != io.EOF {
			msg := "syntax error"
			if perr, ok := err.(*parse.Error); ok {
				msg = perr.Message
			} else if err != nil {
				msg = err.Error()
			}
			p.err = &Error{msg, p.start}
		}
	}
}

func (p *Parser) eof() bool {
	return p.tt == js.ErrorToken && p.err == nil
}

func (p *Parser) token() string {
	if p.eof() {
		return "EOF"
	}
	return "'" + string(p.data) + "'"
}

func (p *Parser) failMessage(offset int, msg string, args ...interface{}) {
	if p.err == nil {
		p.err = &Error{fmt.Sprintf(msg, args...), offset}
	}
	p.tt = js.ErrorToken
}

func (p *Parser) fail(in string, expected ...js.TokenType) {
	if p.err != nil {
		p.tt = js.ErrorToken
		return
	}
	msg := "unexpected " + p.token()
	if 0 < len(expected) {
		names := make([]string, len(expected))
		for i, tt := range expected {
			names[i] = "'" + tt.String() + "'"
		}
		msg = "expected " + strings.Join(names, " or ") + " instead of " + p.token()
	}
	p.failMessage(p.start, "%s in %s", msg, in)
}

func (p *Parser) consume(in string, tt js.TokenType) bool {
	if p.tt != tt {
		p.fail(in, tt)
		return false
	}
	p.next()
	return true
}

// semicolon consumes the end of a statement, where a semicolon may be inserted automatically before a newline, a } or the end of the input.
func (p *Parser) semicolon(in string) {
	if p.tt == js.SemicolonToken {
		p.next()
	} else if !p.prevLT && p.tt != js.CloseBraceToken && !p.eof() {
		p.fail(in, js.SemicolonToken)
	}
}

// add appends a node that ends at the previously consumed token.
func (p *Parser) add(start int, data Data) NodeID {
	return p.ast.add(start, p.prevEnd, data)
}

func (p *Parser) isIdentifier(tt js.TokenType) bool {
	return js.IsIdentifier(tt) || tt == js.YieldToken && !p.yield || tt == js.AwaitToken && !p.await
}

////////////////////////////////////////////////////////////////

func (p *Parser) parseStatementList(directives bool) []NodeID {
	list := []NodeID{}
	for p.tt != js.CloseBraceToken && p.tt != js.ErrorToken {
		stmt := p.parseStatement()
		if directives {
			directives = p.markDirective(stmt)
		}
		list = append(list, stmt)
	}
	return list
}

func (p *Parser) markDirective(stmt NodeID) bool {
	exprStmt, ok := p.ast.Data(stmt).(*ExpressionStatement)
	if !ok {
		return false
	}
	lit, ok := p.ast.Data(exprStmt.Expression).(*Literal)
	if !ok || lit.Kind != StringLiteral || p.ast.Nodes[exprStmt.Expression].Start != p.ast.Nodes[stmt].Start {
		return false
	}
	exprStmt.Directive = lit.Raw[1 : len(lit.Raw)-1]
	return true
}

func (p *Parser) parseStatement() NodeID {
	start := p.start
	switch p.tt {
	case js.OpenBraceToken:
		return p.parseBlockStatement("block statement")
	case js.SemicolonToken:
		p.next()
		return p.add(start, &EmptyStatement{})
	case js.VarToken, js.ConstToken:
		kind := string(p.data)
		p.next()
		decl := p.parseVariableDeclaration(start, kind)
		p.semicolon("variable declaration")
		p.ast.Nodes[decl].End = p.prevEnd
		return decl
	case js.LetToken:
		p.next()
		if p.isIdentifier(p.tt) || p.tt == js.OpenBracketToken || p.tt == js.OpenBraceToken {
			decl := p.parseVariableDeclaration(start, "let")
			p.semicolon("let declaration")
			p.ast.Nodes[decl].End = p.prevEnd
			return decl
		}
		left := p.add(start, &Identifier{"let"})
		return p.parseExpressionStatement(start, p.parseExpressionSuffix(left, js.OpExpr, js.OpPrimary))
	case js.IfToken:
		p.next()
		if !p.consume("if statement", js.OpenParenToken) {
			return NoNode
		}
		test := p.parseExpression(js.OpExpr)
		if !p.consume("if statement", js.CloseParenToken) {
			return NoNode
		}
		consequent := p.parseStatement()
		alternate := NoNode
		if p.tt == js.ElseToken {
			p.next()
			alternate = p.parseStatement()
		}
		return p.add(start, &IfStatement{test, consequent, alternate})
	case js.ForToken:
		return p.parseForStatement()
	case js.WhileToken:
		p.next()
		if !p.consume("while statement", js.OpenParenToken) {
			return NoNode
		}
		test := p.parseExpression(js.OpExpr)
		if !p.consume("while statement", js.CloseParenToken) {
			return NoNode
		}
		body := p.parseStatement()
		return p.add(start, &WhileStatement{test, body})
	case js.DoToken:
		p.next()
		body := p.parseStatement()
		if !p.consume("do-while statement", js.WhileToken) || !p.consume("do-while statement", js.OpenParenToken) {
			return NoNode
		}
		test := p.parseExpression(js.OpExpr)
		if !p.consume("do-while statement", js.CloseParenToken) {
			return NoNode
		}
		if p.tt == js.SemicolonToken {
			p.next()
		}
		return p.add(start, &DoWhileStatement{body, test})
	case js.WithToken:
		p.next()
		if !p.consume("with statement", js.OpenParenToken) {
			return NoNode
		}
		object := p.parseExpression(js.OpExpr)
		if !p.consume("with statement", js.CloseParenToken) {
			return NoNode
		}
		body := p.parseStatement()
		return p.add(start, &WithStatement{object, body})
	case js.ReturnToken:
		p.next()
		arg := NoNode
		if !p.prevLT && p.tt != js.SemicolonToken && p.tt != js.CloseBraceToken && p.tt != js.ErrorToken {
			arg = p.parseExpression(js.OpExpr)
		}
		p.semicolon("return statement")
		return p.add(start, &ReturnStatement{arg})
	case js.BreakToken, js.ContinueToken:
		tt := p.tt
		p.next()
		label := NoNode
		if !p.prevLT && p.isIdentifier(p.tt) {
			label = p.parseIdentifier()
		}
		if tt == js.BreakToken {
			p.semicolon("break statement")
			return p.add(start, &BreakStatement{label})
		}
		p.semicolon("continue statement")
		return p.add(start, &ContinueStatement{label})
	case js.ThrowToken:
		p.next()
		if p.prevLT {
			p.failMessage(p.start, "unexpected newline in throw statement")
			return NoNode
		}
		arg := p.parseExpression(js.OpExpr)
		p.semicolon("throw statement")
		return p.add(start, &ThrowStatement{arg})
	case js.TryToken:
		return p.parseTryStatement()
	case js.SwitchToken:
		return p.parseSwitchStatement()
	case js.DebuggerToken:
		p.next()
		p.semicolon("debugger statement")
		return p.add(start, &DebuggerStatement{})
	case js.FunctionToken:
		p.next()
		f := p.parseFunction(false, true)
		return p.add(start, &FunctionDeclaration{f})
	case js.ClassToken:
		p.next()
		c := p.parseClass(true)
		return p.add(start, &ClassDeclaration{c})
	case js.AsyncToken:
		p.next()
		if p.tt == js.FunctionToken && !p.prevLT {
			p.next()
			f := p.parseFunction(true, true)
			return p.add(start, &FunctionDeclaration{f})
		}
		left, precLeft := p.parseAsyncExpression(start, js.OpExpr)
		return p.parseExpressionStatement(start, p.parseExpressionSuffix(left, js.OpExpr, precLeft))
	case js.ImportToken:
		p.next()
		if p.tt == js.DotToken {
			left := p.parseImportMeta(start)
			return p.parseExpressionStatement(start, p.parseExpressionSuffix(left, js.OpExpr, js.OpMember))
		}
		return p.parseImportDeclaration(start)
	case js.ExportToken:
		p.next()
		return p.parseExportDeclaration(start)
	}

	if p.isIdentifier(p.tt) {
		left := p.parseIdentifier()
		if p.tt == js.ColonToken {
			p.next()
			body := p.parseStatement()
			return p.add(start, &LabeledStatement{left, body})
		}
		return p.parseExpressionStatement(start, p.parseExpressionSuffix(left, js.OpExpr, js.OpPrimary))
	}
	return p.parseExpressionStatement(start, p.parseExpression(js.OpExpr))
}

func (p *Parser) parseExpressionStatement(start int, expr NodeID) NodeID {
	p.semicolon("expression")
	return p.add(start, &ExpressionStatement{Expression: expr})
}

func (p *Parser) parseBlockStatement(in string) NodeID {
	start := p.start
	if !p.consume(in, js.OpenBraceToken) {
		return NoNode
	}
	body := p.parseStatementList(false)
	if !p.consume(in, js.CloseBraceToken) {
		return NoNode
	}
	return p.add(start, &BlockStatement{body})
}

func (p *Parser) parseFunctionBody() NodeID {
	start := p.start
	if !p.consume("function body", js.OpenBraceToken) {
		return NoNode
	}
	prevIn := p.in
	p.in = true
	body := p.parseStatementList(true)
	p.in = prevIn
	if !p.consume("function body", js.CloseBraceToken) {
		return NoNode
	}
	return p.add(start, &BlockStatement{body})
}

// parseVariableDeclaration parses the declarator list following var, let or const. The declaration's span excludes the trailing semicolon until the caller extends it.
func (p *Parser) parseVariableDeclaration(start int, kind string) NodeID {
	decls := []NodeID{}
	for {
		declStart := p.start
		id := p.parseBindingTarget()
		init := NoNode
		if p.tt == js.EqToken {
			p.next()
			init = p.parseExpression(js.OpAssign)
		}
		decls = append(decls, p.add(declStart, &VariableDeclarator{id, init}))
		if p.tt != js.CommaToken {
			break
		}
		p.next()
	}
	return p.add(start, &VariableDeclaration{kind, decls})
}

func (p *Parser) parseForStatement() NodeID {
	start := p.start
	p.next()
	if p.tt == js.AwaitToken {
		p.fail("for statement", js.OpenParenToken)
		return NoNode
	} else if !p.consume("for statement", js.OpenParenToken) {
		return NoNode
	}

	init := NoNode
	isDecl := false
	prevIn := p.in
	p.in = false
	switch initStart := p.start; p.tt {
	case js.SemicolonToken:
	case js.VarToken, js.ConstToken:
		kind := string(p.data)
		p.next()
		init = p.parseVariableDeclaration(initStart, kind)
		isDecl = true
	case js.LetToken:
		p.next()
		if p.isIdentifier(p.tt) || p.tt == js.OpenBracketToken || p.tt == js.OpenBraceToken {
			init = p.parseVariableDeclaration(initStart, "let")
			isDecl = true
		} else {
			left := p.add(initStart, &Identifier{"let"})
			init = p.parseExpressionSuffix(left, js.OpExpr, js.OpPrimary)
		}
	default:
		init = p.parseExpression(js.OpExpr)
	}
	p.in = prevIn

	if p.tt == js.InToken || p.tt == js.OfToken {
		of := p.tt == js.OfToken
		if isDecl {
			if decl := p.ast.Data(init).(*VariableDeclaration); len(decl.Declarations) != 1 {
				p.failMessage(p.ast.Nodes[init].Start, "only one variable declaration allowed in for-in/of statement")
				return NoNode
			}
		} else {
			p.toPattern(init, false)
		}
		p.next()
		var right NodeID
		if of {
			right = p.parseExpression(js.OpAssign)
		} else {
			right = p.parseExpression(js.OpExpr)
		}
		if !p.consume("for statement", js.CloseParenToken) {
			return NoNode
		}
		body := p.parseStatement()
		if of {
			return p.add(start, &ForOfStatement{init, right, body})
		}
		return p.add(start, &ForInStatement{init, right, body})
	}

	if !p.consume("for statement", js.SemicolonToken) {
		return NoNode
	}
	test, update := NoNode, NoNode
	if p.tt != js.SemicolonToken {
		test = p.parseExpression(js.OpExpr)
	}
	if !p.consume("for statement", js.SemicolonToken) {
		return NoNode
	}
	if p.tt != js.CloseParenToken {
		update = p.parseExpression(js.OpExpr)
	}
	if !p.consume("for statement", js.CloseParenToken) {
		return NoNode
	}
	body := p.parseStatement()
	return p.add(start, &ForStatement{init, test, update, body})
}

func (p *Parser) parseTryStatement() NodeID {
	start := p.start
	p.next()
	block := p.parseBlockStatement("try statement")
	handler, finalizer := NoNode, NoNode
	if p.tt == js.CatchToken {
		catchStart := p.start
		p.next()
		param := NoNode
		if p.tt == js.OpenParenToken {
			p.next()
			param = p.parseBindingTarget()
			if !p.consume("catch clause", js.CloseParenToken) {
				return NoNode
			}
		}
		body := p.parseBlockStatement("catch clause")
		handler = p.add(catchStart, &CatchClause{param, body})
	}
	if p.tt == js.FinallyToken {
		p.next()
		finalizer = p.parseBlockStatement("finally clause")
	}
	if handler == NoNode && finalizer == NoNode {
		p.fail("try statement", js.CatchToken, js.FinallyToken)
		return NoNode
	}
	return p.add(start, &TryStatement{block, handler, finalizer})
}

func (p *Parser) parseSwitchStatement() NodeID {
	start := p.start
	p.next()
	if !p.consume("switch statement", js.OpenParenToken) {
		return NoNode
	}
	disc := p.parseExpression(js.OpExpr)
	if !p.consume("switch statement", js.CloseParenToken) || !p.consume("switch statement", js.OpenBraceToken) {
		return NoNode
	}
	cases := []NodeID{}
	for p.tt != js.CloseBraceToken && p.tt != js.ErrorToken {
		caseStart := p.start
		test := NoNode
		if p.tt == js.CaseToken {
			p.next()
			test = p.parseExpression(js.OpExpr)
		} else if p.tt == js.DefaultToken {
			p.next()
		} else {
			p.fail("switch statement", js.CaseToken, js.DefaultToken)
			return NoNode
		}
		if !p.consume("switch statement", js.ColonToken) {
			return NoNode
		}
		consequent := []NodeID{}
		for p.tt != js.CaseToken && p.tt != js.DefaultToken && p.tt != js.CloseBraceToken && p.tt != js.ErrorToken {
			consequent = append(consequent, p.parseStatement())
		}
		cases = append(cases, p.add(caseStart, &SwitchCase{test, consequent}))
	}
	if !p.consume("switch statement", js.CloseBraceToken) {
		return NoNode
	}
	return p.add(start, &SwitchStatement{disc, cases})
}

////////////////////////////////////////////////////////////////

func (p *Parser) parseImportDeclaration(start int) NodeID {
	specifiers := []NodeID{}
	if p.tt != js.StringToken {
		if p.isIdentifier(p.tt) {
			specStart := p.start
			local := p.parseIdentifier()
			specifiers = append(specifiers, p.add(specStart, &ImportDefaultSpecifier{local}))
			if p.tt == js.CommaToken {
				p.next()
			}
		}
		if p.tt == js.MulToken {
			specStart := p.start
			p.next()
			if !p.consume("import statement", js.AsToken) {
				return NoNode
			}
			local := p.parseBindingIdentifier("import statement")
			specifiers = append(specifiers, p.add(specStart, &ImportNamespaceSpecifier{local}))
		} else if p.tt == js.OpenBraceToken {
			p.next()
			for p.tt != js.CloseBraceToken && p.tt != js.ErrorToken {
				specStart := p.start
				imported := p.parseIdentifierName("import statement")
				local := imported
				if p.tt == js.AsToken {
					p.next()
					local = p.parseBindingIdentifier("import statement")
				}
				specifiers = append(specifiers, p.add(specStart, &ImportSpecifier{imported, local}))
				if p.tt != js.CloseBraceToken && !p.consume("import statement", js.CommaToken) {
					return NoNode
				}
			}
			if !p.consume("import statement", js.CloseBraceToken) {
				return NoNode
			}
		}
		if len(specifiers) == 0 {
			p.fail("import statement", js.StringToken, js.IdentifierToken, js.MulToken, js.OpenBraceToken)
			return NoNode
		} else if !p.consume("import statement", js.FromToken) {
			return NoNode
		}
	}
	source := p.parseStringLiteral("import statement")
	p.semicolon("import statement")
	return p.add(start, &ImportDeclaration{specifiers, source})
}

func (p *Parser) parseExportDeclaration(start int) NodeID {
	switch p.tt {
	case js.MulToken:
		p.next()
		exported := NoNode
		if p.tt == js.AsToken {
			p.next()
			exported = p.parseIdentifierName("export statement")
		}
		if !p.consume("export statement", js.FromToken) {
			return NoNode
		}
		source := p.parseStringLiteral("export statement")
		p.semicolon("export statement")
		return p.add(start, &ExportAllDeclaration{exported, source})
	case js.DefaultToken:
		p.next()
		declStart := p.start
		var decl NodeID
		switch p.tt {
		case js.FunctionToken:
			p.next()
			decl = p.add(declStart, &FunctionDeclaration{p.parseFunction(false, false)})
		case js.ClassToken:
			p.next()
			decl = p.add(declStart, &ClassDeclaration{p.parseClass(false)})
		case js.AsyncToken:
			p.next()
			if p.tt == js.FunctionToken && !p.prevLT {
				p.next()
				decl = p.add(declStart, &FunctionDeclaration{p.parseFunction(true, false)})
			} else {
				left, precLeft := p.parseAsyncExpression(declStart, js.OpAssign)
				decl = p.parseExpressionSuffix(left, js.OpAssign, precLeft)
				p.semicolon("export statement")
			}
		default:
			decl = p.parseExpression(js.OpAssign)
			p.semicolon("export statement")
		}
		return p.add(start, &ExportDefaultDeclaration{decl})
	case js.OpenBraceToken:
		p.next()
		specifiers := []NodeID{}
		for p.tt != js.CloseBraceToken && p.tt != js.ErrorToken {
			specStart := p.start
			local := p.parseIdentifierName("export statement")
			exported := local
			if p.tt == js.AsToken {
				p.next()
				exported = p.parseIdentifierName("export statement")
			}
			specifiers = append(specifiers, p.add(specStart, &ExportSpecifier{local, exported}))
			if p.tt != js.CloseBraceToken && !p.consume("export statement", js.CommaToken) {
				return NoNode
			}
		}
		if !p.consume("export statement", js.CloseBraceToken) {
			return NoNode
		}
		source := NoNode
		if p.tt == js.FromToken {
			p.next()
			source = p.parseStringLiteral("export statement")
		}
		p.semicolon("export statement")
		return p.add(start, &ExportNamedDeclaration{NoNode, specifiers, source})
	case js.VarToken, js.LetToken, js.ConstToken, js.FunctionToken, js.ClassToken, js.AsyncToken:
		decl := p.parseStatement()
		return p.add(start, &ExportNamedDeclaration{decl, nil, NoNode})
	}
	p.fail("export statement")
	return NoNode
}

////////////////////////////////////////////////////////////////

// parseFunction parses the function after the function keyword, the name is optional unless needID is set.
func (p *Parser) parseFunction(async, needID bool) (f Function) {
	f.Async = async
	if p.tt == js.MulToken {
		f.Generator = true
		p.next()
	}
	if p.isIdentifier(p.tt) {
		f.ID = p.parseIdentifier()
	} else if needID {
		p.fail("function declaration", js.IdentifierToken)
		return
	}

	prevAwait, prevYield := p.await, p.yield
	p.await, p.yield = f.Async, f.Generator
	f.Params = p.parseParams()
	f.Body = p.parseFunctionBody()
	p.await, p.yield = prevAwait, prevYield
	return
}

func (p *Parser) parseParams() []NodeID {
	if !p.consume("function parameters", js.OpenParenToken) {
		return nil
	}
	params := []NodeID{}
	for p.tt != js.CloseParenToken && p.tt != js.ErrorToken {
		if p.tt == js.EllipsisToken {
			start := p.start
			p.next()
			params = append(params, p.add(start, &RestElement{p.parseBindingTarget()}))
			break
		}
		params = append(params, p.parseBindingElement())
		if p.tt != js.CloseParenToken && !p.consume("function parameters", js.CommaToken) {
			return nil
		}
	}
	p.consume("function parameters", js.CloseParenToken)
	return params
}

// parseMethod parses the parameters and body of a method into a function expression starting at the parenthesis.
func (p *Parser) parseMethod(async, generator bool) NodeID {
	start := p.start
	f := Function{Async: async, Generator: generator}
	prevAwait, prevYield := p.await, p.yield
	p.await, p.yield = async, generator
	f.Params = p.parseParams()
	f.Body = p.parseFunctionBody()
	p.await, p.yield = prevAwait, prevYield
	return p.add(start, &FunctionExpression{f})
}

func (p *Parser) parseArrowFunction(start int, params []NodeID, async bool) NodeID {
	p.next() // =>
	f := Function{Params: params, Async: async}
	prevAwait, prevYield := p.await, p.yield
	p.await, p.yield = async, false
	if p.tt == js.OpenBraceToken {
		f.Body = p.parseFunctionBody()
	} else {
		f.Expression = true
		f.Body = p.parseExpression(js.OpAssign)
	}
	p.await, p.yield = prevAwait, prevYield
	return p.add(start, &ArrowFunctionExpression{f})
}

// parseClass parses the class after the class keyword, the name is optional unless needID is set.
func (p *Parser) parseClass(needID bool) (c Class) {
	if p.isIdentifier(p.tt) {
		c.ID = p.parseIdentifier()
	} else if needID {
		p.fail("class declaration", js.IdentifierToken)
		return
	}
	if p.tt == js.ExtendsToken {
		p.next()
		c.SuperClass = p.parseExpression(js.OpLHS)
	}

	start := p.start
	if !p.consume("class body", js.OpenBraceToken) {
		return
	}
	members := []NodeID{}
	for p.tt != js.CloseBraceToken && p.tt != js.ErrorToken {
		if p.tt == js.SemicolonToken {
			p.next()
			continue
		}
		members = append(members, p.parseMethodDefinition())
	}
	if !p.consume("class body", js.CloseBraceToken) {
		return
	}
	c.Body = p.add(start, &ClassBody{members})
	return
}

func (p *Parser) parseMethodDefinition() NodeID {
	h := p.parsePropertyHead(true)
	if p.tt != js.OpenParenToken {
		p.fail("method definition", js.OpenParenToken)
		return NoNode
	}
	value := p.parseMethod(h.async, h.generator)
	kind := h.kind
	if kind == "init" {
		kind = "method"
		if !h.static && !h.computed && p.propertyName(h.key) == "constructor" {
			kind = "constructor"
		}
	}
	return p.add(h.start, &MethodDefinition{h.key, value, kind, h.computed, h.static})
}

type propertyHead struct {
	start                    int
	static, async, generator bool
	kind                     string
	key                      NodeID
	computed                 bool
}

// parsePropertyHead parses the modifiers and key of a class member or object literal property. Modifier words followed by a parenthesis, colon, comma, brace or equal sign are the key instead.
func (p *Parser) parsePropertyHead(class bool) (h propertyHead) {
	h.start = p.start
	h.kind = "init"
	if class && p.tt == js.StaticToken {
		if h.key = p.parseModifier(); h.key != NoNode {
			return
		}
		h.static = true
	}
	if p.tt == js.AsyncToken {
		if h.key = p.parseModifier(); h.key != NoNode {
			return
		} else if p.prevLT {
			p.failMessage(p.start, "unexpected newline after async")
			return
		}
		h.async = true
	}
	if p.tt == js.MulToken {
		p.next()
		h.generator = true
	}
	if !h.async && !h.generator && (p.tt == js.GetToken || p.tt == js.SetToken) {
		kind := string(p.data)
		if h.key = p.parseModifier(); h.key != NoNode {
			return
		}
		h.kind = kind
	}
	h.key, h.computed = p.parsePropertyKey()
	return
}

func (p *Parser) parseModifier() NodeID {
	start, name := p.start, string(p.data)
	p.next()
	switch p.tt {
	case js.OpenParenToken, js.ColonToken, js.CommaToken, js.CloseBraceToken, js.EqToken, js.SemicolonToken:
		return p.add(start, &Identifier{name})
	}
	return NoNode
}

func (p *Parser) parsePropertyKey() (NodeID, bool) {
	start := p.start
	switch {
	case p.tt == js.OpenBracketToken:
		p.next()
		prevIn := p.in
		p.in = true
		key := p.parseExpression(js.OpAssign)
		p.in = prevIn
		if !p.consume("computed property name", js.CloseBracketToken) {
			return NoNode, true
		}
		return key, true
	case p.tt == js.StringToken:
		return p.parseStringLiteral("property name"), false
	case js.IsNumeric(p.tt):
		return p.parseLiteral(), false
	case js.IsIdentifierName(p.tt):
		name := string(p.data)
		p.next()
		return p.add(start, &Identifier{name}), false
	}
	p.fail("property name", js.IdentifierToken, js.StringToken, js.NumericToken, js.OpenBracketToken)
	return NoNode, false
}

// propertyName returns the static name of a non-computed key.
func (p *Parser) propertyName(key NodeID) string {
	switch n := p.ast.Data(key).(type) {
	case *Identifier:
		return n.Name
	case *Literal:
		if n.Kind == StringLiteral {
			return n.Str
		}
		return n.Raw
	}
	return ""
}

////////////////////////////////////////////////////////////////

func (p *Parser) parseIdentifier() NodeID {
	start, name := p.start, string(p.data)
	p.next()
	return p.add(start, &Identifier{name})
}

func (p *Parser) parseBindingIdentifier(in string) NodeID {
	if !p.isIdentifier(p.tt) {
		p.fail(in, js.IdentifierToken)
		return NoNode
	}
	return p.parseIdentifier()
}

func (p *Parser) parseIdentifierName(in string) NodeID {
	if !js.IsIdentifierName(p.tt) {
		p.fail(in, js.IdentifierToken)
		return NoNode
	}
	return p.parseIdentifier()
}

func (p *Parser) parseStringLiteral(in string) NodeID {
	if p.tt != js.StringToken {
		p.fail(in, js.StringToken)
		return NoNode
	}
	return p.parseLiteral()
}

func (p *Parser) parseLiteral() NodeID {
	start, raw := p.start, string(p.data)
	lit := &Literal{Raw: raw}
	switch tt := p.tt; {
	case tt == js.StringToken:
		lit.Kind = StringLiteral
		var invalid bool
		lit.Str, lit.Lossy, invalid = decodeEscapes(raw[1:len(raw)-1], false)
		if invalid {
			p.failMessage(start, "invalid escape sequence in string literal")
			return NoNode
		}
	case tt == js.TrueToken || tt == js.FalseToken:
		lit.Kind = BooleanLiteral
		lit.Bool = tt == js.TrueToken
	case tt == js.NullToken:
		lit.Kind = NullLiteral
	case tt == js.RegExpToken:
		lit.Kind = RegExpLiteral
	case js.IsNumeric(tt):
		var bigint bool
		lit.Num, bigint = parseNumber(raw)
		if bigint {
			lit.Kind = BigIntLiteral
		} else {
			lit.Kind = NumberLiteral
		}
	}
	p.next()
	return p.add(start, lit)
}

// parseBindingTarget parses a binding identifier or a destructuring pattern.
func (p *Parser) parseBindingTarget() NodeID {
	start := p.start
	switch {
	case p.isIdentifier(p.tt):
		return p.parseIdentifier()
	case p.tt == js.OpenBracketToken:
		p.next()
		elements := []NodeID{}
		for p.tt != js.CloseBracketToken && p.tt != js.ErrorToken {
			if p.tt == js.CommaToken {
				elements = append(elements, NoNode)
				p.next()
				continue
			}
			if p.tt == js.EllipsisToken {
				restStart := p.start
				p.next()
				elements = append(elements, p.add(restStart, &RestElement{p.parseBindingTarget()}))
			} else {
				elements = append(elements, p.parseBindingElement())
			}
			if p.tt != js.CloseBracketToken && !p.consume("array pattern", js.CommaToken) {
				return NoNode
			}
		}
		if !p.consume("array pattern", js.CloseBracketToken) {
			return NoNode
		}
		return p.add(start, &ArrayPattern{elements})
	case p.tt == js.OpenBraceToken:
		p.next()
		properties := []NodeID{}
		for p.tt != js.CloseBraceToken && p.tt != js.ErrorToken {
			propStart := p.start
			if p.tt == js.EllipsisToken {
				p.next()
				properties = append(properties, p.add(propStart, &RestElement{p.parseBindingIdentifier("object pattern")}))
			} else {
				isIdentifier := p.isIdentifier(p.tt)
				key, computed := p.parsePropertyKey()
				if p.tt == js.ColonToken {
					p.next()
					value := p.parseBindingElement()
					properties = append(properties, p.add(propStart, &Property{Key: key, Value: value, Kind: "init", Computed: computed}))
				} else if isIdentifier && !computed {
					value := key
					if p.tt == js.EqToken {
						p.next()
						prevIn := p.in
						p.in = true
						value = p.add(propStart, &AssignmentPattern{key, p.parseExpression(js.OpAssign)})
						p.in = prevIn
					}
					properties = append(properties, p.add(propStart, &Property{Key: key, Value: value, Kind: "init", Shorthand: true}))
				} else {
					p.fail("object pattern", js.ColonToken)
					return NoNode
				}
			}
			if p.tt != js.CloseBraceToken && !p.consume("object pattern", js.CommaToken) {
				return NoNode
			}
		}
		if !p.consume("object pattern", js.CloseBraceToken) {
			return NoNode
		}
		return p.add(start, &ObjectPattern{properties})
	}
	p.fail("binding pattern", js.IdentifierToken, js.OpenBracketToken, js.OpenBraceToken)
	return NoNode
}

func (p *Parser) parseBindingElement() NodeID {
	start := p.start
	target := p.parseBindingTarget()
	if p.tt != js.EqToken {
		return target
	}
	p.next()
	prevIn := p.in
	p.in = true
	def := p.parseExpression(js.OpAssign)
	p.in = prevIn
	return p.add(start, &AssignmentPattern{target, def})
}

// toPattern converts an expression that turned out to be an assignment target or arrow function parameter into a pattern.
func (p *Parser) toPattern(id NodeID, param bool) {
	node := &p.ast.Nodes[id]
	switch n := node.Data.(type) {
	case *Identifier, *AssignmentPattern, *RestElement, *ArrayPattern, *ObjectPattern:
	case *MemberExpression, *ParenthesizedExpression:
		if param {
			p.failMessage(node.Start, "invalid parameter")
		}
	case *ArrayExpression:
		for _, elem := range n.Elements {
			if spread, ok := p.ast.Data(elem).(*SpreadElement); ok {
				p.toPattern(spread.Argument, param)
				p.ast.Nodes[elem].Data = &RestElement{spread.Argument}
			} else if elem != NoNode {
				p.toPattern(elem, param)
			}
		}
		node.Data = &ArrayPattern{n.Elements}
	case *ObjectExpression:
		for _, prop := range n.Properties {
			switch m := p.ast.Data(prop).(type) {
			case *SpreadElement:
				p.toPattern(m.Argument, param)
				p.ast.Nodes[prop].Data = &RestElement{m.Argument}
			case *Property:
				if m.Method || m.Kind != "init" {
					p.failMessage(p.ast.Nodes[prop].Start, "invalid destructuring target")
					return
				} else if !m.Shorthand {
					p.toPattern(m.Value, param)
				}
			}
		}
		node.Data = &ObjectPattern{n.Properties}
	case *AssignmentExpression:
		if n.Operator != "=" {
			p.failMessage(node.Start, "invalid destructuring target")
			return
		}
		p.toPattern(n.Left, param)
		node.Data = &AssignmentPattern{n.Left, n.Right}
	default:
		p.failMessage(node.Start, "invalid destructuring target")
	}
}

////////////////////////////////////////////////////////////////

func (p *Parser) parseExpression(prec js.OpPrec) NodeID {
	p.exprLevel++
	defer func() { p.exprLevel-- }()
	if NestedExprLimit < p.exprLevel {
		p.failMessage(p.start, "too many nested expressions")
		return NoNode
	}

	// a / or /= at the start of an expression is a regular expression
	if p.tt == js.DivToken || p.tt == js.DivEqToken {
		p.tt, p.data = p.l.RegExp()
		if p.tt == js.ErrorToken {
			p.fail("regular expression")
			return NoNode
		}
		p.end = p.r.Offset()
		p.start = p.end - len(p.data)
	}

	start := p.start
	left := NoNode
	precLeft := js.OpPrimary
	switch tt := p.tt; {
	case p.isIdentifier(tt) && tt != js.AsyncToken:
		left = p.parseIdentifier()
	case js.IsNumeric(tt), tt == js.StringToken, tt == js.TrueToken, tt == js.FalseToken, tt == js.NullToken, tt == js.RegExpToken:
		left = p.parseLiteral()
	case tt == js.ThisToken:
		p.next()
		left = p.add(start, &ThisExpression{})
	case tt == js.OpenBracketToken:
		left = p.parseArrayLiteral()
	case tt == js.OpenBraceToken:
		left = p.parseObjectLiteral()
	case tt == js.OpenParenToken:
		if js.OpAssign < prec {
			// cannot be an arrow function
			p.next()
			prevIn := p.in
			p.in = true
			expr := p.parseExpression(js.OpExpr)
			p.in = prevIn
			if !p.consume("expression", js.CloseParenToken) {
				return NoNode
			}
			left = p.add(start, &ParenthesizedExpression{expr})
		} else {
			left, precLeft = p.parseParenthesized(start, prec, NoNode)
		}
	case tt == js.NotToken, tt == js.BitNotToken, tt == js.TypeofToken, tt == js.VoidToken, tt == js.DeleteToken, tt == js.AddToken, tt == js.SubToken:
		if js.OpUnary < prec {
			p.fail("expression")
			return NoNode
		}
		op := string(p.data)
		p.next()
		arg := p.parseExpression(js.OpUnary)
		left = p.add(start, &UnaryExpression{op, arg})
		precLeft = js.OpUnary
	case tt == js.IncrToken, tt == js.DecrToken:
		if js.OpUpdate < prec {
			p.fail("expression")
			return NoNode
		}
		op := string(p.data)
		p.next()
		arg := p.parseExpression(js.OpUnary)
		left = p.add(start, &UpdateExpression{op, true, arg})
		precLeft = js.OpUnary
	case tt == js.AwaitToken:
		if js.OpUnary < prec {
			p.fail("expression")
			return NoNode
		}
		p.next()
		arg := p.parseExpression(js.OpUnary)
		left = p.add(start, &AwaitExpression{arg})
		precLeft = js.OpUnary
	case tt == js.YieldToken:
		if js.OpAssign < prec {
			p.fail("expression")
			return NoNode
		}
		p.next()
		arg, delegate := NoNode, false
		if !p.prevLT {
			if p.tt == js.MulToken {
				p.next()
				delegate = true
				arg = p.parseExpression(js.OpAssign)
			} else if !p.endsExpression() {
				arg = p.parseExpression(js.OpAssign)
			}
		}
		left = p.add(start, &YieldExpression{arg, delegate})
		precLeft = js.OpAssign
	case tt == js.NewToken:
		p.next()
		if p.tt == js.DotToken {
			meta := p.add(start, &Identifier{"new"})
			p.next()
			if p.tt != js.TargetToken {
				p.fail("new.target expression", js.TargetToken)
				return NoNode
			}
			property := p.parseIdentifier()
			left = p.add(start, &MetaProperty{meta, property})
			precLeft = js.OpMember
			break
		}
		callee := p.parseExpression(js.OpNew)
		if p.tt == js.OpenParenToken {
			args := p.parseArguments()
			left = p.add(start, &NewExpression{callee, args, true})
			precLeft = js.OpMember
		} else {
			left = p.add(start, &NewExpression{callee, nil, false})
			precLeft = js.OpNew
		}
	case tt == js.ImportToken:
		p.next()
		if p.tt != js.DotToken {
			p.fail("import.meta expression", js.DotToken)
			return NoNode
		}
		left = p.parseImportMeta(start)
		precLeft = js.OpMember
	case tt == js.SuperToken:
		p.next()
		if p.tt != js.DotToken && p.tt != js.OpenBracketToken && p.tt != js.OpenParenToken {
			p.fail("super expression", js.OpenBracketToken, js.OpenParenToken, js.DotToken)
			return NoNode
		}
		left = p.add(start, &Super{})
	case tt == js.AsyncToken:
		p.next()
		prevIn := p.in
		p.in = true
		left, precLeft = p.parseAsyncExpression(start, prec)
		p.in = prevIn
	case tt == js.FunctionToken:
		p.next()
		prevIn := p.in
		p.in = true
		f := p.parseFunction(false, false)
		p.in = prevIn
		left = p.add(start, &FunctionExpression{f})
	case tt == js.ClassToken:
		p.next()
		prevIn := p.in
		p.in = true
		c := p.parseClass(false)
		p.in = prevIn
		left = p.add(start, &ClassExpression{c})
	case tt == js.TemplateToken, tt == js.TemplateStartToken:
		left = p.parseTemplateLiteral()
	default:
		p.fail("expression")
		return NoNode
	}
	return p.parseExpressionSuffix(left, prec, precLeft)
}

func (p *Parser) endsExpression() bool {
	switch p.tt {
	case js.CloseBraceToken, js.CloseBracketToken, js.CloseParenToken, js.ColonToken, js.CommaToken, js.SemicolonToken, js.TemplateMiddleToken, js.TemplateEndToken, js.ErrorToken:
		return true
	}
	return false
}

func (p *Parser) parseImportMeta(start int) NodeID {
	meta := p.add(start, &Identifier{"import"})
	p.next() // .
	if p.tt != js.MetaToken {
		p.fail("import.meta expression", js.MetaToken)
		return NoNode
	}
	property := p.parseIdentifier()
	return p.add(start, &MetaProperty{meta, property})
}

// parseExpressionSuffix continues an expression whose leftmost operand has been parsed, and which binds at least as strong as precLeft.
func (p *Parser) parseExpressionSuffix(left NodeID, prec, precLeft js.OpPrec) NodeID {
	start := p.ast.Nodes[left].Start
	for {
		switch tt := p.tt; tt {
		case js.EqToken, js.MulEqToken, js.DivEqToken, js.ModEqToken, js.ExpEqToken, js.AddEqToken, js.SubEqToken, js.LtLtEqToken, js.GtGtEqToken, js.GtGtGtEqToken, js.BitAndEqToken, js.BitXorEqToken, js.BitOrEqToken, js.AndEqToken, js.OrEqToken, js.NullishEqToken:
			if js.OpAssign < prec {
				return left
			} else if precLeft < js.OpLHS {
				p.fail("expression")
				return NoNode
			}
			op := string(p.data)
			if tt == js.EqToken {
				switch p.ast.Data(left).(type) {
				case *ArrayExpression, *ObjectExpression:
					p.toPattern(left, false)
				}
			}
			p.next()
			right := p.parseExpression(js.OpAssign)
			left = p.add(start, &AssignmentExpression{op, left, right})
			precLeft = js.OpAssign
		case js.LtToken, js.LtEqToken, js.GtToken, js.GtEqToken, js.InToken, js.InstanceofToken:
			if js.OpCompare < prec || !p.in && tt == js.InToken {
				return left
			} else if precLeft < js.OpCompare {
				p.fail("expression")
				return NoNode
			}
			left = p.parseBinary(start, left, js.OpShift)
			precLeft = js.OpCompare
		case js.EqEqToken, js.NotEqToken, js.EqEqEqToken, js.NotEqEqToken:
			if js.OpEquals < prec {
				return left
			} else if precLeft < js.OpEquals {
				p.fail("expression")
				return NoNode
			}
			left = p.parseBinary(start, left, js.OpCompare)
			precLeft = js.OpEquals
		case js.AndToken:
			if js.OpAnd < prec {
				return left
			} else if precLeft < js.OpAnd {
				p.fail("expression")
				return NoNode
			}
			left = p.parseLogical(start, left, js.OpBitOr)
			precLeft = js.OpAnd
		case js.OrToken:
			if js.OpOr < prec {
				return left
			} else if precLeft < js.OpOr {
				p.fail("expression")
				return NoNode
			}
			left = p.parseLogical(start, left, js.OpAnd)
			precLeft = js.OpOr
		case js.NullishToken:
			if js.OpCoalesce < prec {
				return left
			} else if precLeft < js.OpBitOr && precLeft != js.OpCoalesce {
				p.fail("expression")
				return NoNode
			}
			left = p.parseLogical(start, left, js.OpBitOr)
			precLeft = js.OpCoalesce
		case js.DotToken:
			if precLeft < js.OpCall {
				p.fail("expression")
				return NoNode
			}
			p.next()
			property := p.parseIdentifierName("dot expression")
			left = p.add(start, &MemberExpression{left, property, false})
			if precLeft < js.OpMember {
				precLeft = js.OpCall
			} else {
				precLeft = js.OpMember
			}
		case js.OpenBracketToken:
			if precLeft < js.OpCall {
				p.fail("expression")
				return NoNode
			}
			p.next()
			prevIn := p.in
			p.in = true
			property := p.parseExpression(js.OpExpr)
			p.in = prevIn
			if !p.consume("index expression", js.CloseBracketToken) {
				return NoNode
			}
			left = p.add(start, &MemberExpression{left, property, true})
			if precLeft < js.OpMember {
				precLeft = js.OpCall
			} else {
				precLeft = js.OpMember
			}
		case js.OpenParenToken:
			if js.OpCall < prec {
				return left
			} else if precLeft < js.OpCall {
				p.fail("expression")
				return NoNode
			}
			args := p.parseArguments()
			left = p.add(start, &CallExpression{left, args})
			precLeft = js.OpCall
		case js.TemplateToken, js.TemplateStartToken:
			if precLeft < js.OpCall {
				p.fail("expression")
				return NoNode
			}
			quasi := p.parseTemplateLiteral()
			left = p.add(start, &TaggedTemplateExpression{left, quasi})
			if precLeft < js.OpMember {
				precLeft = js.OpCall
			} else {
				precLeft = js.OpMember
			}
		case js.OptChainToken:
			p.failMessage(p.start, "optional chaining is not supported")
			return NoNode
		case js.IncrToken, js.DecrToken:
			if p.prevLT || js.OpUpdate < prec {
				return left
			} else if precLeft < js.OpLHS {
				p.fail("expression")
				return NoNode
			}
			op := string(p.data)
			p.next()
			left = p.add(start, &UpdateExpression{op, false, left})
			precLeft = js.OpUpdate
		case js.ExpToken:
			if js.OpExp < prec {
				return left
			} else if precLeft < js.OpUpdate {
				p.fail("expression")
				return NoNode
			}
			left = p.parseBinary(start, left, js.OpExp)
			precLeft = js.OpExp
		case js.MulToken, js.DivToken, js.ModToken:
			if js.OpMul < prec {
				return left
			} else if precLeft < js.OpMul {
				p.fail("expression")
				return NoNode
			}
			left = p.parseBinary(start, left, js.OpExp)
			precLeft = js.OpMul
		case js.AddToken, js.SubToken:
			if js.OpAdd < prec {
				return left
			} else if precLeft < js.OpAdd {
				p.fail("expression")
				return NoNode
			}
			left = p.parseBinary(start, left, js.OpMul)
			precLeft = js.OpAdd
		case js.LtLtToken, js.GtGtToken, js.GtGtGtToken:
			if js.OpShift < prec {
				return left
			} else if precLeft < js.OpShift {
				p.fail("expression")
				return NoNode
			}
			left = p.parseBinary(start, left, js.OpAdd)
			precLeft = js.OpShift
		case js.BitAndToken:
			if js.OpBitAnd < prec {
				return left
			} else if precLeft < js.OpBitAnd {
				p.fail("expression")
				return NoNode
			}
			left = p.parseBinary(start, left, js.OpEquals)
			precLeft = js.OpBitAnd
		case js.BitXorToken:
			if js.OpBitXor < prec {
				return left
			} else if precLeft < js.OpBitXor {
				p.fail("expression")
				return NoNode
			}
			left = p.parseBinary(start, left, js.OpBitAnd)
			precLeft = js.OpBitXor
		case js.BitOrToken:
			if js.OpBitOr < prec {
				return left
			} else if precLeft < js.OpBitOr {
				p.fail("expression")
				return NoNode
			}
			left = p.parseBinary(start, left, js.OpBitXor)
			precLeft = js.OpBitOr
		case js.QuestionToken:
			if js.OpAssign < prec {
				return left
			} else if precLeft < js.OpCoalesce {
				p.fail("expression")
				return NoNode
			}
			p.next()
			prevIn := p.in
			p.in = true
			consequent := p.parseExpression(js.OpAssign)
			p.in = prevIn
			if !p.consume("conditional expression", js.ColonToken) {
				return NoNode
			}
			alternate := p.parseExpression(js.OpAssign)
			left = p.add(start, &ConditionalExpression{left, consequent, alternate})
			precLeft = js.OpAssign
		case js.CommaToken:
			if js.OpExpr < prec {
				return left
			}
			p.next()
			if seq, ok := p.ast.Data(left).(*SequenceExpression); ok {
				seq.Expressions = append(seq.Expressions, p.parseExpression(js.OpAssign))
				p.ast.Nodes[left].End = p.prevEnd
			} else {
				left = p.add(start, &SequenceExpression{[]NodeID{left, p.parseExpression(js.OpAssign)}})
				p.ast.Nodes[left].End = p.prevEnd
			}
			precLeft = js.OpExpr
		case js.ArrowToken:
			if js.OpAssign < prec {
				return left
			} else if precLeft < js.OpPrimary || p.prevLT {
				p.fail("expression")
				return NoNode
			} else if _, ok := p.ast.Data(left).(*Identifier); !ok {
				p.fail("expression")
				return NoNode
			}
			left = p.parseArrowFunction(start, []NodeID{left}, false)
			precLeft = js.OpAssign
		default:
			return left
		}
	}
}

func (p *Parser) parseBinary(start int, left NodeID, precRight js.OpPrec) NodeID {
	op := string(p.data)
	p.next()
	right := p.parseExpression(precRight)
	return p.add(start, &BinaryExpression{op, left, right})
}

func (p *Parser) parseLogical(start int, left NodeID, precRight js.OpPrec) NodeID {
	op := string(p.data)
	p.next()
	right := p.parseExpression(precRight)
	return p.add(start, &LogicalExpression{op, left, right})
}

// parseParenthesized parses a parenthesized expression, an arrow function parameter list or, when async is set, the arguments of a call to async.
// The contents are parsed as expressions and converted into patterns once an arrow follows.
func (p *Parser) parseParenthesized(start int, prec js.OpPrec, async NodeID) (NodeID, js.OpPrec) {
	p.next() // (
	prevIn := p.in
	p.in = true
	list := []NodeID{}
	spread := false
	for p.tt != js.CloseParenToken && p.tt != js.ErrorToken {
		if p.tt == js.EllipsisToken {
			spreadStart := p.start
			p.next()
			list = append(list, p.add(spreadStart, &SpreadElement{p.parseExpression(js.OpAssign)}))
			spread = true
		} else {
			list = append(list, p.parseExpression(js.OpAssign))
		}
		if p.tt != js.CloseParenToken && !p.consume("expression", js.CommaToken) {
			return NoNode, js.OpPrimary
		}
	}
	p.in = prevIn
	if !p.consume("expression", js.CloseParenToken) {
		return NoNode, js.OpPrimary
	}

	if p.tt == js.ArrowToken && !p.prevLT && prec <= js.OpAssign {
		for _, param := range list {
			if s, ok := p.ast.Data(param).(*SpreadElement); ok {
				p.toPattern(s.Argument, true)
				p.ast.Nodes[param].Data = &RestElement{s.Argument}
			} else {
				p.toPattern(param, true)
			}
		}
		return p.parseArrowFunction(start, list, async != NoNode), js.OpAssign
	} else if async != NoNode {
		return p.add(start, &CallExpression{async, list}), js.OpCall
	} else if len(list) == 0 || spread {
		p.fail("arrow function", js.ArrowToken)
		return NoNode, js.OpPrimary
	}

	expr := list[0]
	if 1 < len(list) {
		exprStart := p.ast.Nodes[list[0]].Start
		expr = p.ast.add(exprStart, p.ast.Nodes[list[len(list)-1]].End, &SequenceExpression{list})
	}
	return p.add(start, &ParenthesizedExpression{expr}), js.OpPrimary
}

// parseAsyncExpression continues after the async keyword: an async function expression, an async arrow function, a call to a function named async or the identifier itself.
func (p *Parser) parseAsyncExpression(start int, prec js.OpPrec) (NodeID, js.OpPrec) {
	name := p.add(start, &Identifier{"async"})
	if p.prevLT {
		return name, js.OpPrimary
	}
	switch {
	case p.tt == js.FunctionToken:
		p.next()
		f := p.parseFunction(true, false)
		return p.add(start, &FunctionExpression{f}), js.OpPrimary
	case p.isIdentifier(p.tt) && prec <= js.OpAssign:
		param := p.parseIdentifier()
		if p.tt != js.ArrowToken || p.prevLT {
			p.fail("async arrow function", js.ArrowToken)
			return NoNode, js.OpPrimary
		}
		return p.parseArrowFunction(start, []NodeID{param}, true), js.OpAssign
	case p.tt == js.OpenParenToken:
		return p.parseParenthesized(start, prec, name)
	}
	return name, js.OpPrimary
}

func (p *Parser) parseArguments() []NodeID {
	p.next() // (
	prevIn := p.in
	p.in = true
	args := []NodeID{}
	for p.tt != js.CloseParenToken && p.tt != js.ErrorToken {
		if p.tt == js.EllipsisToken {
			start := p.start
			p.next()
			args = append(args, p.add(start, &SpreadElement{p.parseExpression(js.OpAssign)}))
		} else {
			args = append(args, p.parseExpression(js.OpAssign))
		}
		if p.tt != js.CloseParenToken && !p.consume("arguments", js.CommaToken) {
			break
		}
	}
	p.in = prevIn
	p.consume("arguments", js.CloseParenToken)
	return args
}

func (p *Parser) parseArrayLiteral() NodeID {
	start := p.start
	p.next()
	prevIn := p.in
	p.in = true
	elements := []NodeID{}
	for p.tt != js.CloseBracketToken && p.tt != js.ErrorToken {
		if p.tt == js.CommaToken {
			elements = append(elements, NoNode)
			p.next()
			continue
		}
		if p.tt == js.EllipsisToken {
			spreadStart := p.start
			p.next()
			elements = append(elements, p.add(spreadStart, &SpreadElement{p.parseExpression(js.OpAssign)}))
		} else {
			elements = append(elements, p.parseExpression(js.OpAssign))
		}
		if p.tt != js.CloseBracketToken && !p.consume("array literal", js.CommaToken) {
			break
		}
	}
	p.in = prevIn
	if !p.consume("array literal", js.CloseBracketToken) {
		return NoNode
	}
	return p.add(start, &ArrayExpression{elements})
}

func (p *Parser) parseObjectLiteral() NodeID {
	start := p.start
	p.next()
	prevIn := p.in
	p.in = true
	properties := []NodeID{}
	for p.tt != js.CloseBraceToken && p.tt != js.ErrorToken {
		properties = append(properties, p.parseProperty())
		if p.tt != js.CloseBraceToken && !p.consume("object literal", js.CommaToken) {
			break
		}
	}
	p.in = prevIn
	if !p.consume("object literal", js.CloseBraceToken) {
		return NoNode
	}
	return p.add(start, &ObjectExpression{properties})
}

func (p *Parser) parseProperty() NodeID {
	if p.tt == js.EllipsisToken {
		start := p.start
		p.next()
		return p.add(start, &SpreadElement{p.parseExpression(js.OpAssign)})
	}

	isIdentifier := p.isIdentifier(p.tt)
	h := p.parsePropertyHead(false)
	if h.kind != "init" || h.async || h.generator || p.tt == js.OpenParenToken {
		if p.tt != js.OpenParenToken {
			p.fail("method definition", js.OpenParenToken)
			return NoNode
		}
		value := p.parseMethod(h.async, h.generator)
		return p.add(h.start, &Property{Key: h.key, Value: value, Kind: h.kind, Method: h.kind == "init", Computed: h.computed})
	} else if p.tt == js.ColonToken {
		p.next()
		value := p.parseExpression(js.OpAssign)
		return p.add(h.start, &Property{Key: h.key, Value: value, Kind: "init", Computed: h.computed})
	} else if isIdentifier && !h.computed {
		value := h.key
		if p.tt == js.EqToken {
			// cover grammar for a shorthand default in a destructuring assignment or arrow parameters
			p.next()
			def := p.parseExpression(js.OpAssign)
			value = p.add(h.start, &AssignmentPattern{h.key, def})
		}
		return p.add(h.start, &Property{Key: h.key, Value: value, Kind: "init", Shorthand: true})
	}
	p.fail("object literal", js.ColonToken)
	return NoNode
}

func (p *Parser) parseTemplateLiteral() NodeID {
	start := p.start
	quasis, exprs := []NodeID{}, []NodeID{}
	for {
		tt := p.tt
		quasis = append(quasis, p.parseTemplateElement())
		if tt == js.TemplateToken || tt == js.TemplateEndToken || tt == js.ErrorToken {
			break
		}
		prevIn := p.in
		p.in = true
		exprs = append(exprs, p.parseExpression(js.OpExpr))
		p.in = prevIn
		if p.tt != js.TemplateMiddleToken && p.tt != js.TemplateEndToken {
			p.fail("template literal", js.TemplateToken)
			return NoNode
		}
	}
	return p.add(start, &TemplateLiteral{quasis, exprs})
}

func (p *Parser) parseTemplateElement() NodeID {
	start, end := p.start+1, p.end-1
	if p.tt == js.TemplateStartToken || p.tt == js.TemplateMiddleToken {
		end--
	} else if p.tt == js.ErrorToken {
		return NoNode
	}
	tail := p.tt == js.TemplateToken || p.tt == js.TemplateEndToken
	raw := p.ast.Src[start:end]
	cooked, _, invalid := decodeEscapes(raw, true)
	p.next()
	return p.ast.add(start, end, &TemplateElement{raw, cooked, invalid, tail})
}
