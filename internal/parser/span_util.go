package parser

import (
	"lolcode/internal/ast"
	"lolcode/internal/span"
)

func spanTo(start, end span.Position) span.Span {
	return span.Span{Start: start, End: end}
}

func nodeBase(start span.Position, p *Parser) ast.NodeBase {
	return ast.NodeBase{Span: spanTo(start, p.current().Span.Start)}
}

// stmtBase builds a StmtBase spanning from start to the cursor's
// current position (i.e. just past whatever was last consumed).
func stmtBase(start span.Position, p *Parser) ast.StmtBase {
	return ast.StmtBase{NodeBase: nodeBase(start, p)}
}

// exprBase builds an ExprBase spanning from start to the cursor's
// current position.
func exprBase(start span.Position, p *Parser) ast.ExprBase {
	return ast.ExprBase{NodeBase: nodeBase(start, p)}
}
