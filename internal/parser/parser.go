// Package parser implements recursive-descent syntax analysis for
// LOLCODE. There is no operator precedence to climb — every
// expression's shape is fully determined by its leading token — so
// the driver is a straight dispatch table rather than a Pratt parser.
// The parser aborts at the first unexpected token: it collects no
// diagnostics and never returns a partial tree.
package parser

import (
	"strconv"

	"lolcode/internal/ast"
	"lolcode/internal/cursor"
	"lolcode/internal/span"
	"lolcode/internal/token"
)

// Parser drives recursive-descent parsing over a token cursor. A
// Parser is owned by exactly one Parse call and is not reused.
type Parser struct {
	cur   *cursor.Cursor
	funcs map[string]int // declared function names -> arity
}

// Parse consumes a finished token stream (terminated by EOF) and
// returns the program root, or the single ParseError that aborted the
// parse. No partial tree is ever returned alongside an error.
func Parse(tokens []token.Token) (prog *ast.Main, err error) {
	p := &Parser{cur: cursor.New(tokens), funcs: make(map[string]int)}

	defer func() {
		if r := recover(); r != nil {
			if pe, ok := r.(*ParseError); ok {
				prog = nil
				err = pe
				return
			}
			panic(r)
		}
	}()

	prog = p.parseMain()
	return prog, nil
}

// ---- cursor conveniences ----

func (p *Parser) current() token.Token {
	return p.cur.Current()
}

func (p *Parser) check(kind token.Kind) bool {
	return p.cur.Check(kind)
}

func (p *Parser) accept(kind token.Kind) bool {
	_, ok := p.cur.Accept(kind)
	return ok
}

func (p *Parser) advance() token.Token {
	return p.cur.Advance()
}

func (p *Parser) expect(kind token.Kind) token.Token {
	tok, ok := p.cur.Accept(kind)
	if !ok {
		p.abort(kind)
	}
	return tok
}

func (p *Parser) abort(want token.Kind) {
	got := p.current()
	if got.Kind == token.EOF {
		panic(newParseError(UnexpectedEOF, "E2002", got, "unexpected end of file, expected %s", want))
	}
	panic(newParseError(UnexpectedToken, "E2001", got, "unexpected token %s %q, expected %s", got.Kind, got.Lexeme, want))
}

func (p *Parser) identifier() ast.Identifier {
	tok := p.expect(token.IDENT)
	return ast.Identifier{Image: tok.Lexeme, File: tok.File, Line: tok.Line(), Span: tok.Span}
}

// ---- program ----

func (p *Parser) parseMain() *ast.Main {
	start := p.current().Span.Start
	p.expect(token.HAI)
	p.expect(token.FLOAT)
	p.expect(token.NEWLINE)

	body := p.parseBlock()

	p.expect(token.KTHXBYE)
	p.cur.SkipNewlines()
	if !p.check(token.EOF) {
		p.abort(token.EOF)
	}

	return &ast.Main{NodeBase: nodeBase(start, p), Body: body}
}

func isBlockTerminator(kind token.Kind) bool {
	switch kind {
	case token.KTHXBYE, token.OIC, token.YARLY, token.NOWAI, token.MEBBE,
		token.OMG, token.OMGWTF, token.IM_OUTTA_YR, token.IF_U_SAY_SO, token.EOF:
		return true
	}
	return false
}

func (p *Parser) parseBlock() ast.Block {
	start := p.current().Span.Start
	var stmts []ast.Stmt
	for {
		p.cur.SkipNewlines()
		if isBlockTerminator(p.current().Kind) {
			break
		}
		stmts = append(stmts, p.parseStmt())
	}
	return ast.Block{Stmts: stmts, Span: spanTo(start, p.current().Span.Start)}
}

// ---- statements ----

func (p *Parser) parseStmt() ast.Stmt {
	switch p.current().Kind {
	case token.VISIBLE:
		return p.parsePrintStmt()
	case token.GIMMEH:
		return p.parseInputStmt()
	case token.ORLY:
		return p.parseIfStmt()
	case token.WTF:
		return p.parseSwitchStmt()
	case token.GTFO:
		return p.parseBreakStmt()
	case token.FOUND_YR:
		return p.parseReturnStmt()
	case token.IM_IN_YR:
		return p.parseLoopStmt()
	case token.HOW_IZ:
		return p.parseFuncDefStmt()
	case token.IDENT:
		return p.parseIdentLedStmt()
	default:
		if isExprStart(p.current().Kind) {
			start := p.current().Span.Start
			value := p.parseExpr()
			p.expect(token.NEWLINE)
			return &ast.ExprStmt{StmtBase: stmtBase(start, p), Value: value}
		}
		p.abort(token.IDENT)
		panic("unreachable")
	}
}

func (p *Parser) parsePrintStmt() ast.Stmt {
	start := p.current().Span.Start
	p.advance() // VISIBLE
	args := []ast.Expr{p.parseExpr()}
	for isExprStart(p.current().Kind) {
		args = append(args, p.parseExpr())
	}
	suppress := p.accept(token.BANG)
	p.expect(token.NEWLINE)
	return &ast.PrintStmt{StmtBase: stmtBase(start, p), Args: args, SuppressNewline: suppress}
}

func (p *Parser) parseInputStmt() ast.Stmt {
	start := p.current().Span.Start
	p.advance() // GIMMEH
	target := p.identifier()
	p.expect(token.NEWLINE)
	return &ast.InputStmt{StmtBase: stmtBase(start, p), Target: target}
}

func (p *Parser) parseIfStmt() ast.Stmt {
	start := p.current().Span.Start
	p.advance() // ORLY
	p.expect(token.NEWLINE)
	p.expect(token.YARLY)
	p.expect(token.NEWLINE)
	yes := p.parseBlock()

	var guards []ast.Expr
	var blocks []ast.Block
	for p.check(token.MEBBE) {
		p.advance()
		guards = append(guards, p.parseExpr())
		p.expect(token.NEWLINE)
		blocks = append(blocks, p.parseBlock())
	}

	var no *ast.Block
	if p.accept(token.NOWAI) {
		p.expect(token.NEWLINE)
		b := p.parseBlock()
		no = &b
	}

	p.expect(token.OIC)
	p.expect(token.NEWLINE)
	return &ast.IfThenElseStmt{StmtBase: stmtBase(start, p), Yes: yes, Guards: guards, Blocks: blocks, No: no}
}

func (p *Parser) parseSwitchStmt() ast.Stmt {
	start := p.current().Span.Start
	p.advance() // WTF
	p.expect(token.NEWLINE)

	var guards []ast.Expr
	var blocks []ast.Block
	for p.check(token.OMG) {
		p.advance()
		guards = append(guards, p.parseExpr())
		p.expect(token.NEWLINE)
		blocks = append(blocks, p.parseBlock())
	}
	if len(guards) == 0 {
		tok := p.current()
		panic(newParseError(MissingCase, "E2005", tok, "switch must have at least one OMG case"))
	}

	var def *ast.Block
	if p.accept(token.OMGWTF) {
		p.expect(token.NEWLINE)
		b := p.parseBlock()
		def = &b
	}

	p.expect(token.OIC)
	p.expect(token.NEWLINE)
	return &ast.SwitchStmt{StmtBase: stmtBase(start, p), Guards: guards, Blocks: blocks, Default: def}
}

func (p *Parser) parseBreakStmt() ast.Stmt {
	start := p.current().Span.Start
	p.advance() // GTFO
	p.expect(token.NEWLINE)
	return &ast.BreakStmt{StmtBase: stmtBase(start, p)}
}

func (p *Parser) parseReturnStmt() ast.Stmt {
	start := p.current().Span.Start
	p.advance() // FOUND_YR
	value := p.parseExpr()
	p.expect(token.NEWLINE)
	return &ast.ReturnStmt{StmtBase: stmtBase(start, p), Value: value}
}

func (p *Parser) parseLoopStmt() ast.Stmt {
	start := p.current().Span.Start
	p.advance() // IM_IN_YR
	name := p.identifier()

	var loopVar *ast.Identifier
	var update ast.Expr

	switch {
	case p.check(token.UPPIN) || p.check(token.NERFIN):
		isUp := p.check(token.UPPIN)
		p.advance()
		p.expect(token.YR)
		v := p.identifier()
		loopVar = &v
		kind := ast.Add
		if !isUp {
			kind = ast.Sub
		}
		one := &ast.ConstantExpr{ExprBase: exprBase(start, p), Value: ast.Constant{Kind: ast.ConstInteger, Integer: 1}}
		ref := &ast.IdentifierExpr{ExprBase: exprBase(start, p), Name: v}
		update = &ast.OpExpr{ExprBase: exprBase(start, p), Kind: kind, Operands: []ast.Expr{ref, one}}

	case p.check(token.IDENT) && p.funcArity(p.current().Lexeme) == 1:
		fn := p.identifier()
		p.expect(token.YR)
		v := p.identifier()
		loopVar = &v
		ref := &ast.IdentifierExpr{ExprBase: exprBase(start, p), Name: v}
		update = &ast.FuncCallExpr{ExprBase: exprBase(start, p), Scope: ast.Identifier{}, Name: fn, Args: []ast.Expr{ref}}
	}

	var guard *ast.LoopGuard
	switch {
	case p.check(token.TIL):
		p.advance()
		guard = &ast.LoopGuard{Kind: ast.Until, Cond: p.parseExpr()}
	case p.check(token.WILE):
		p.advance()
		guard = &ast.LoopGuard{Kind: ast.While, Cond: p.parseExpr()}
	}

	p.expect(token.NEWLINE)
	body := p.parseBlock()
	p.expect(token.IM_OUTTA_YR)
	closeTok := p.current()
	closeName := p.identifier()
	if closeName.Image != name.Image {
		panic(newParseError(MismatchedLoopName, "E2004", closeTok, "loop close name %q does not match open name %q", closeName.Image, name.Image))
	}
	p.expect(token.NEWLINE)

	return &ast.LoopStmt{StmtBase: stmtBase(start, p), Name: name, Var: loopVar, Update: update, Guard: guard, Body: body}
}

// funcArity returns the declared arity for name, or -1 if name is not
// a declared function.
func (p *Parser) funcArity(name string) int {
	if arity, ok := p.funcs[name]; ok {
		return arity
	}
	return -1
}

func (p *Parser) parseFuncDefStmt() ast.Stmt {
	start := p.current().Span.Start
	p.advance() // HOW_IZ
	scope := p.identifier()
	name := p.identifier()

	var params []ast.Identifier
	if p.check(token.YR) {
		p.advance()
		params = append(params, p.identifier())
		for p.accept(token.AN) {
			p.expect(token.YR)
			params = append(params, p.identifier())
		}
	}

	p.funcs[name.Image] = len(params)

	p.expect(token.NEWLINE)
	body := p.parseBlock()
	p.expect(token.IF_U_SAY_SO)
	p.expect(token.NEWLINE)

	return &ast.FuncDefStmt{StmtBase: stmtBase(start, p), Scope: scope, Name: name, Params: params, Body: body}
}

func (p *Parser) parseIdentLedStmt() ast.Stmt {
	start := p.current().Span.Start
	next := p.cur.Peek(1).Kind

	switch next {
	case token.IS_NOW_A:
		target := p.identifier()
		p.advance() // IS_NOW_A
		ty := p.parseType()
		p.expect(token.NEWLINE)
		return &ast.CastStmt{StmtBase: stmtBase(start, p), Target: target, NewType: ty}

	case token.R_NOOB:
		target := p.identifier()
		p.advance() // R_NOOB
		p.expect(token.NEWLINE)
		return &ast.DeallocationStmt{StmtBase: stmtBase(start, p), Target: target}

	case token.R:
		target := p.identifier()
		p.advance() // R
		value := p.parseExpr()
		p.expect(token.NEWLINE)
		return &ast.AssignmentStmt{StmtBase: stmtBase(start, p), Target: target, Value: value}

	case token.HAS_A:
		scope := p.identifier()
		p.advance() // HAS_A
		target := p.identifier()

		var init ast.Expr
		var declaredType *ast.Type
		if p.accept(token.ITZ) {
			if p.check(token.A) {
				p.advance()
				ty := p.parseType()
				declaredType = &ty
			} else {
				init = p.parseExpr()
			}
		}

		p.expect(token.NEWLINE)
		return &ast.DeclarationStmt{StmtBase: stmtBase(start, p), Scope: scope, Target: target, Init: init, DeclaredType: declaredType}

	default:
		value := p.parseExpr()
		p.expect(token.NEWLINE)
		return &ast.ExprStmt{StmtBase: stmtBase(start, p), Value: value}
	}
}

func (p *Parser) parseType() ast.Type {
	tok := p.current()
	var ty ast.Type
	switch tok.Kind {
	case token.NOOB:
		ty = ast.NOOB
	case token.TROOF:
		ty = ast.TROOF
	case token.NUMBR:
		ty = ast.NUMBR
	case token.NUMBAR:
		ty = ast.NUMBAR
	case token.YARN:
		ty = ast.YARN
	default:
		panic(newParseError(UnexpectedToken, "E2001", tok, "expected a type keyword, got %s %q", tok.Kind, tok.Lexeme))
	}
	p.advance()
	return ty
}

// ---- expressions ----

func isExprStart(kind token.Kind) bool {
	switch kind {
	case token.INTEGER, token.FLOAT, token.STRING, token.BOOLEAN,
		token.IT, token.MAEK, token.SMOOSH, token.ALL_OF, token.ANY_OF, token.NOT,
		token.SUM_OF, token.DIFF_OF, token.PRODUKT_OF, token.QUOSHUNT_OF, token.MOD_OF,
		token.BIGGR_OF, token.SMALLR_OF, token.BOTH_OF, token.EITHER_OF, token.WON_OF,
		token.BOTH_SAEM, token.DIFFRINT, token.IDENT:
		return true
	}
	return false
}

var binaryOpKinds = map[token.Kind]ast.OpKind{
	token.SUM_OF:      ast.Add,
	token.DIFF_OF:     ast.Sub,
	token.PRODUKT_OF:  ast.Mult,
	token.QUOSHUNT_OF: ast.Div,
	token.MOD_OF:      ast.Mod,
	token.BIGGR_OF:    ast.Max,
	token.SMALLR_OF:   ast.Min,
	token.BOTH_OF:     ast.And,
	token.EITHER_OF:   ast.Or,
	token.WON_OF:      ast.Xor,
	token.BOTH_SAEM:   ast.Eq,
	token.DIFFRINT:    ast.Neq,
}

func (p *Parser) parseExpr() ast.Expr {
	start := p.current().Span.Start
	tok := p.current()

	switch tok.Kind {
	case token.INTEGER:
		p.advance()
		v, _ := strconv.ParseInt(tok.Lexeme, 10, 64)
		return &ast.ConstantExpr{ExprBase: exprBase(start, p), Value: ast.Constant{Kind: ast.ConstInteger, Integer: v}}

	case token.FLOAT:
		p.advance()
		v, _ := strconv.ParseFloat(tok.Lexeme, 64)
		return &ast.ConstantExpr{ExprBase: exprBase(start, p), Value: ast.Constant{Kind: ast.ConstFloat, Float: v}}

	case token.STRING:
		p.advance()
		return &ast.ConstantExpr{ExprBase: exprBase(start, p), Value: ast.Constant{Kind: ast.ConstString, String: tok.Lexeme}}

	case token.BOOLEAN:
		p.advance()
		return &ast.ConstantExpr{ExprBase: exprBase(start, p), Value: ast.Constant{Kind: ast.ConstBoolean, Boolean: tok.Lexeme == "WIN"}}

	case token.IT:
		p.advance()
		return &ast.ImplicitVarExpr{ExprBase: exprBase(start, p)}

	case token.MAEK:
		p.advance()
		value := p.parseExpr()
		p.expect(token.A)
		ty := p.parseType()
		return &ast.CastExpr{ExprBase: exprBase(start, p), Value: value, NewType: ty}

	case token.SMOOSH:
		p.advance()
		operands := []ast.Expr{p.parseExpr()}
		for !p.check(token.MKAY) {
			p.accept(token.AN)
			operands = append(operands, p.parseExpr())
		}
		p.expect(token.MKAY)
		return &ast.OpExpr{ExprBase: exprBase(start, p), Kind: ast.Cat, Operands: operands}

	case token.ALL_OF:
		return p.parseNaryOp(start, ast.And)

	case token.ANY_OF:
		return p.parseNaryOp(start, ast.Or)

	case token.NOT:
		p.advance()
		operand := p.parseExpr()
		return &ast.OpExpr{ExprBase: exprBase(start, p), Kind: ast.Not, Operands: []ast.Expr{operand}}

	case token.IDENT:
		return p.parseIdentOrCall(start)
	}

	if opKind, ok := binaryOpKinds[tok.Kind]; ok {
		p.advance()
		left := p.parseExpr()
		p.accept(token.AN)
		right := p.parseExpr()
		return &ast.OpExpr{ExprBase: exprBase(start, p), Kind: opKind, Operands: []ast.Expr{left, right}}
	}

	p.abort(token.IDENT)
	panic("unreachable")
}

// parseNaryOp parses the ALL OF / ANY OF surface forms: at least two
// operands, each separated by an optional AN, closed by MKAY.
func (p *Parser) parseNaryOp(start span.Position, kind ast.OpKind) ast.Expr {
	p.advance() // ALL_OF / ANY_OF
	operands := []ast.Expr{p.parseExpr()}
	p.accept(token.AN)
	operands = append(operands, p.parseExpr())
	for !p.check(token.MKAY) {
		p.accept(token.AN)
		operands = append(operands, p.parseExpr())
	}
	p.expect(token.MKAY)
	return &ast.OpExpr{ExprBase: exprBase(start, p), Kind: kind, Operands: operands}
}

// parseIdentOrCall disambiguates a bare identifier reference from a
// function call: `Ident IZ Ident (YR Expr (AN YR Expr)*)? MKAY`.
func (p *Parser) parseIdentOrCall(start span.Position) ast.Expr {
	scope := p.identifier()
	if !p.check(token.IZ) {
		return &ast.IdentifierExpr{ExprBase: exprBase(start, p), Name: scope}
	}
	p.advance() // IZ
	name := p.identifier()

	var args []ast.Expr
	if p.check(token.YR) {
		p.advance()
		args = append(args, p.parseExpr())
		for p.check(token.AN) || p.check(token.YR) {
			p.accept(token.AN)
			p.expect(token.YR)
			args = append(args, p.parseExpr())
		}
	}
	p.expect(token.MKAY)

	return &ast.FuncCallExpr{ExprBase: exprBase(start, p), Scope: scope, Name: name, Args: args}
}
