package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"lolcode/internal/ast"
	"lolcode/internal/lexer"
)

func parseSource(t *testing.T, source string) *ast.Main {
	t.Helper()
	l := lexer.New(source, "t.lol")
	tokens, diags := l.Tokenize()
	require.Empty(t, diags, "unexpected lex diagnostics")

	prog, err := Parse(tokens)
	require.NoError(t, err)
	require.NotNil(t, prog)
	return prog
}

func parseSourceErr(t *testing.T, source string) *ParseError {
	t.Helper()
	l := lexer.New(source, "t.lol")
	tokens, _ := l.Tokenize()

	prog, err := Parse(tokens)
	require.Nil(t, prog, "a failed parse must never return a partial tree")
	require.Error(t, err)
	pe, ok := err.(*ParseError)
	require.True(t, ok, "error must be a *ParseError")
	return pe
}

func TestParseMinimalProgram(t *testing.T) {
	prog := parseSource(t, "HAI 1.2\nKTHXBYE\n")
	require.Empty(t, prog.Body.Stmts)
}

func TestParseMissingHaiAborts(t *testing.T) {
	pe := parseSourceErr(t, "KTHXBYE\n")
	require.Equal(t, UnexpectedToken, pe.Kind)
}

// S1-style scenario: declaration with a literal initializer.
func TestParseDeclarationWithInit(t *testing.T) {
	prog := parseSource(t, "HAI 1.2\nI HAS A X ITZ 5\nKTHXBYE\n")
	require.Len(t, prog.Body.Stmts, 1)

	decl, ok := prog.Body.Stmts[0].(*ast.DeclarationStmt)
	require.True(t, ok)
	require.Equal(t, "I", decl.Scope.Image)
	require.Equal(t, "X", decl.Target.Image)
	require.Nil(t, decl.DeclaredType)

	lit, ok := decl.Init.(*ast.ConstantExpr)
	require.True(t, ok)
	require.Equal(t, ast.ConstInteger, lit.Value.Kind)
	require.EqualValues(t, 5, lit.Value.Integer)
}

// Declaration with a type instead of an initializer is mutually exclusive.
func TestParseDeclarationWithType(t *testing.T) {
	prog := parseSource(t, "HAI 1.2\nI HAS A X ITZ A NUMBAR\nKTHXBYE\n")
	decl := prog.Body.Stmts[0].(*ast.DeclarationStmt)
	require.Nil(t, decl.Init)
	require.NotNil(t, decl.DeclaredType)
	require.Equal(t, ast.NUMBAR, *decl.DeclaredType)
}

func TestParseDeclarationBare(t *testing.T) {
	prog := parseSource(t, "HAI 1.2\nI HAS A X\nKTHXBYE\n")
	decl := prog.Body.Stmts[0].(*ast.DeclarationStmt)
	require.Nil(t, decl.Init)
	require.Nil(t, decl.DeclaredType)
}

func TestParseAssignment(t *testing.T) {
	prog := parseSource(t, "HAI 1.2\nX R 5\nKTHXBYE\n")
	asg := prog.Body.Stmts[0].(*ast.AssignmentStmt)
	require.Equal(t, "X", asg.Target.Image)
	lit := asg.Value.(*ast.ConstantExpr)
	require.EqualValues(t, 5, lit.Value.Integer)
}

func TestParseCastStmt(t *testing.T) {
	prog := parseSource(t, "HAI 1.2\nX IS NOW A YARN\nKTHXBYE\n")
	cast := prog.Body.Stmts[0].(*ast.CastStmt)
	require.Equal(t, "X", cast.Target.Image)
	require.Equal(t, ast.YARN, cast.NewType)
}

func TestParseDeallocation(t *testing.T) {
	prog := parseSource(t, "HAI 1.2\nX R NOOB\nKTHXBYE\n")
	dealloc := prog.Body.Stmts[0].(*ast.DeallocationStmt)
	require.Equal(t, "X", dealloc.Target.Image)
}

func TestParsePrintStmt(t *testing.T) {
	prog := parseSource(t, `HAI 1.2
VISIBLE "HELLO" X !
KTHXBYE
`)
	pr := prog.Body.Stmts[0].(*ast.PrintStmt)
	require.Len(t, pr.Args, 2)
	require.True(t, pr.SuppressNewline)
}

func TestParseBinaryOp(t *testing.T) {
	prog := parseSource(t, "HAI 1.2\nVISIBLE SUM OF 1 AN 2\nKTHXBYE\n")
	pr := prog.Body.Stmts[0].(*ast.PrintStmt)
	op := pr.Args[0].(*ast.OpExpr)
	require.Equal(t, ast.Add, op.Kind)
	require.Len(t, op.Operands, 2)
}

func TestParseBinaryOpOptionalAN(t *testing.T) {
	prog := parseSource(t, "HAI 1.2\nVISIBLE DIFF OF 5 2\nKTHXBYE\n")
	pr := prog.Body.Stmts[0].(*ast.PrintStmt)
	op := pr.Args[0].(*ast.OpExpr)
	require.Equal(t, ast.Sub, op.Kind)
	require.Len(t, op.Operands, 2)
}

func TestParseNaryAllOf(t *testing.T) {
	prog := parseSource(t, "HAI 1.2\nVISIBLE ALL OF WIN AN WIN AN FAIL MKAY\nKTHXBYE\n")
	pr := prog.Body.Stmts[0].(*ast.PrintStmt)
	op := pr.Args[0].(*ast.OpExpr)
	require.Equal(t, ast.And, op.Kind)
	require.Len(t, op.Operands, 3)
}

func TestParseSmoosh(t *testing.T) {
	prog := parseSource(t, `HAI 1.2
VISIBLE SMOOSH "A" AN "B" "C" MKAY
KTHXBYE
`)
	pr := prog.Body.Stmts[0].(*ast.PrintStmt)
	op := pr.Args[0].(*ast.OpExpr)
	require.Equal(t, ast.Cat, op.Kind)
	require.Len(t, op.Operands, 3)
}

func TestParseNotExpr(t *testing.T) {
	prog := parseSource(t, "HAI 1.2\nVISIBLE NOT WIN\nKTHXBYE\n")
	pr := prog.Body.Stmts[0].(*ast.PrintStmt)
	op := pr.Args[0].(*ast.OpExpr)
	require.Equal(t, ast.Not, op.Kind)
	require.Len(t, op.Operands, 1)
}

func TestParseImplicitVar(t *testing.T) {
	prog := parseSource(t, "HAI 1.2\nVISIBLE IT\nKTHXBYE\n")
	pr := prog.Body.Stmts[0].(*ast.PrintStmt)
	_, ok := pr.Args[0].(*ast.ImplicitVarExpr)
	require.True(t, ok)
}

func TestParseCastExpr(t *testing.T) {
	prog := parseSource(t, "HAI 1.2\nVISIBLE MAEK X A NUMBR\nKTHXBYE\n")
	pr := prog.Body.Stmts[0].(*ast.PrintStmt)
	cast := pr.Args[0].(*ast.CastExpr)
	require.Equal(t, ast.NUMBR, cast.NewType)
}

func TestParseFuncCall(t *testing.T) {
	prog := parseSource(t, `HAI 1.2
I HAS A X ITZ I IZ ADD YR 1 AN YR 2 MKAY
KTHXBYE
`)
	decl := prog.Body.Stmts[0].(*ast.DeclarationStmt)
	call := decl.Init.(*ast.FuncCallExpr)
	require.Equal(t, "I", call.Scope.Image)
	require.Equal(t, "ADD", call.Name.Image)
	require.Len(t, call.Args, 2)
}

func TestParseFuncCallNoArgs(t *testing.T) {
	prog := parseSource(t, "HAI 1.2\nI HAS A X ITZ I IZ GREET MKAY\nKTHXBYE\n")
	decl := prog.Body.Stmts[0].(*ast.DeclarationStmt)
	call := decl.Init.(*ast.FuncCallExpr)
	require.Empty(t, call.Args)
}

func TestParseIfThenElse(t *testing.T) {
	prog := parseSource(t, `HAI 1.2
ORLY
YARLY
VISIBLE 1
MEBBE WIN
VISIBLE 2
NOWAI
VISIBLE 3
OIC
KTHXBYE
`)
	ifStmt := prog.Body.Stmts[0].(*ast.IfThenElseStmt)
	require.Len(t, ifStmt.Yes.Stmts, 1)
	require.Len(t, ifStmt.Guards, 1)
	require.Len(t, ifStmt.Blocks, 1)
	require.NotNil(t, ifStmt.No)
}

func TestParseSwitch(t *testing.T) {
	prog := parseSource(t, `HAI 1.2
WTF?
OMG 1
VISIBLE "ONE"
OMG 2
VISIBLE "TWO"
OMGWTF
VISIBLE "OTHER"
OIC
KTHXBYE
`)
	sw := prog.Body.Stmts[0].(*ast.SwitchStmt)
	require.Len(t, sw.Guards, 2)
	require.Len(t, sw.Blocks, 2)
	require.NotNil(t, sw.Default)
}

func TestParseSwitchRequiresCase(t *testing.T) {
	pe := parseSourceErr(t, "HAI 1.2\nWTF?\nOIC\nKTHXBYE\n")
	require.Equal(t, MissingCase, pe.Kind)
}

func TestParseLoopWithUppinTil(t *testing.T) {
	prog := parseSource(t, `HAI 1.2
IM IN YR LOOP UPPIN YR I TIL BOTH SAEM I AN 10
VISIBLE I
IM OUTTA YR LOOP
KTHXBYE
`)
	loop := prog.Body.Stmts[0].(*ast.LoopStmt)
	require.Equal(t, "LOOP", loop.Name.Image)
	require.NotNil(t, loop.Var)
	require.Equal(t, "I", loop.Var.Image)

	update := loop.Update.(*ast.OpExpr)
	require.Equal(t, ast.Add, update.Kind)

	require.NotNil(t, loop.Guard)
	require.Equal(t, ast.Until, loop.Guard.Kind)
}

func TestParseLoopWithDeclaredFuncUpdate(t *testing.T) {
	prog := parseSource(t, `HAI 1.2
HOW IZ I DOUBLE YR X
FOUND YR PRODUKT OF X AN 2
IF U SAY SO
IM IN YR LOOP DOUBLE YR I WILE WIN
IM OUTTA YR LOOP
KTHXBYE
`)
	loop := prog.Body.Stmts[1].(*ast.LoopStmt)
	call := loop.Update.(*ast.FuncCallExpr)
	require.Equal(t, "DOUBLE", call.Name.Image)
	require.Len(t, call.Args, 1)
}

func TestParseLoopUpdateRejectsNonUnaryFunc(t *testing.T) {
	pe := parseSourceErr(t, `HAI 1.2
HOW IZ I ADD YR X AN YR Y
FOUND YR SUM OF X AN Y
IF U SAY SO
IM IN YR LOOP ADD YR I WILE WIN
IM OUTTA YR LOOP
KTHXBYE
`)
	require.Equal(t, UnexpectedToken, pe.Kind)
}

func TestParseLoopNoUpdate(t *testing.T) {
	prog := parseSource(t, "HAI 1.2\nIM IN YR LOOP\nGTFO\nIM OUTTA YR LOOP\nKTHXBYE\n")
	loop := prog.Body.Stmts[0].(*ast.LoopStmt)
	require.Nil(t, loop.Var)
	require.Nil(t, loop.Update)
	require.Nil(t, loop.Guard)
}

func TestParseLoopMismatchedNameAborts(t *testing.T) {
	pe := parseSourceErr(t, "HAI 1.2\nIM IN YR LOOP\nGTFO\nIM OUTTA YR OTHER\nKTHXBYE\n")
	require.Equal(t, MismatchedLoopName, pe.Kind)
}

func TestParseFuncDef(t *testing.T) {
	prog := parseSource(t, `HAI 1.2
HOW IZ I ADD YR X AN YR Y
FOUND YR SUM OF X AN Y
IF U SAY SO
KTHXBYE
`)
	def := prog.Body.Stmts[0].(*ast.FuncDefStmt)
	require.Equal(t, "ADD", def.Name.Image)
	require.Len(t, def.Params, 2)
	require.Equal(t, "X", def.Params[0].Image)
	require.Equal(t, "Y", def.Params[1].Image)
}

func TestParseFuncDefNoParams(t *testing.T) {
	prog := parseSource(t, "HAI 1.2\nHOW IZ I GREET\nVISIBLE \"HI\"\nIF U SAY SO\nKTHXBYE\n")
	def := prog.Body.Stmts[0].(*ast.FuncDefStmt)
	require.Empty(t, def.Params)
}

func TestParseGimmeh(t *testing.T) {
	prog := parseSource(t, "HAI 1.2\nGIMMEH X\nKTHXBYE\n")
	in := prog.Body.Stmts[0].(*ast.InputStmt)
	require.Equal(t, "X", in.Target.Image)
}

func TestParseExprStmtIsImplicitAssignment(t *testing.T) {
	prog := parseSource(t, "HAI 1.2\nSUM OF 1 AN 2\nKTHXBYE\n")
	_, ok := prog.Body.Stmts[0].(*ast.ExprStmt)
	require.True(t, ok)
}

func TestParseUnexpectedTokenCarriesLocation(t *testing.T) {
	pe := parseSourceErr(t, "HAI 1.2\nVISIBLE\nKTHXBYE\n")
	require.Equal(t, UnexpectedToken, pe.Kind)
	require.Equal(t, "t.lol", pe.Diag.File)
	require.Equal(t, 2, pe.Diag.Span.Start.Line)
}
