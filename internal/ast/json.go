package ast

import "lolcode/internal/span"

// NodeToMap converts an AST node to a map suitable for JSON
// serialization. Every node carries a "kind" tag so the resulting
// structure is a faithful tagged union.
func NodeToMap(node Node) map[string]interface{} {
	if node == nil {
		return nil
	}

	switch n := node.(type) {
	case *Main:
		return map[string]interface{}{
			"kind": "Main",
			"span": spanToMap(n.Span),
			"body": blockToMap(n.Body),
		}

	// ---- Expressions ----
	case *CastExpr:
		return m("CastExpr", n.Span, "value", NodeToMap(n.Value), "newType", n.NewType.String())
	case *ConstantExpr:
		return m("ConstantExpr", n.Span, "value", constantToMap(n.Value))
	case *IdentifierExpr:
		return m("IdentifierExpr", n.Span, "name", identifierToMap(n.Name))
	case *FuncCallExpr:
		return m("FuncCallExpr", n.Span,
			"scope", identifierToMap(n.Scope),
			"name", identifierToMap(n.Name),
			"args", exprSlice(n.Args))
	case *OpExpr:
		return m("OpExpr", n.Span, "op", n.Kind.String(), "operands", exprSlice(n.Operands))
	case *ImplicitVarExpr:
		return m("ImplicitVarExpr", n.Span)

	// ---- Statements ----
	case *CastStmt:
		return m("CastStmt", n.Span, "target", identifierToMap(n.Target), "newType", n.NewType.String())
	case *PrintStmt:
		return m("PrintStmt", n.Span, "args", exprSlice(n.Args), "suppressNewline", n.SuppressNewline)
	case *InputStmt:
		return m("InputStmt", n.Span, "target", identifierToMap(n.Target))
	case *AssignmentStmt:
		return m("AssignmentStmt", n.Span, "target", identifierToMap(n.Target), "value", NodeToMap(n.Value))
	case *DeclarationStmt:
		result := m("DeclarationStmt", n.Span,
			"scope", identifierToMap(n.Scope),
			"target", identifierToMap(n.Target))
		if n.Init != nil {
			result["init"] = NodeToMap(n.Init)
		}
		if n.DeclaredType != nil {
			result["declaredType"] = n.DeclaredType.String()
		}
		return result
	case *IfThenElseStmt:
		result := m("IfThenElseStmt", n.Span,
			"yes", blockToMap(n.Yes),
			"guards", exprSlice(n.Guards),
			"blocks", blockSlice(n.Blocks))
		if n.No != nil {
			result["no"] = blockToMap(*n.No)
		}
		return result
	case *SwitchStmt:
		result := m("SwitchStmt", n.Span, "guards", exprSlice(n.Guards), "blocks", blockSlice(n.Blocks))
		if n.Default != nil {
			result["default"] = blockToMap(*n.Default)
		}
		return result
	case *BreakStmt:
		return m("BreakStmt", n.Span)
	case *ReturnStmt:
		return m("ReturnStmt", n.Span, "value", NodeToMap(n.Value))
	case *LoopStmt:
		result := m("LoopStmt", n.Span, "name", identifierToMap(n.Name), "body", blockToMap(n.Body))
		if n.Var != nil {
			result["var"] = identifierToMap(*n.Var)
		}
		if n.Update != nil {
			result["update"] = NodeToMap(n.Update)
		}
		if n.Guard != nil {
			kind := "Until"
			if n.Guard.Kind == While {
				kind = "While"
			}
			result["guard"] = map[string]interface{}{"kind": kind, "cond": NodeToMap(n.Guard.Cond)}
		}
		return result
	case *DeallocationStmt:
		return m("DeallocationStmt", n.Span, "target", identifierToMap(n.Target))
	case *FuncDefStmt:
		return m("FuncDefStmt", n.Span,
			"scope", identifierToMap(n.Scope),
			"name", identifierToMap(n.Name),
			"params", identifierSlice(n.Params),
			"body", blockToMap(n.Body))
	case *ExprStmt:
		return m("ExprStmt", n.Span, "value", NodeToMap(n.Value))

	default:
		return map[string]interface{}{"kind": "Unknown"}
	}
}

// ---- helpers ----

func m(kind string, s span.Span, kvs ...interface{}) map[string]interface{} {
	result := map[string]interface{}{
		"kind": kind,
		"span": spanToMap(s),
	}
	for i := 0; i+1 < len(kvs); i += 2 {
		key := kvs[i].(string)
		result[key] = kvs[i+1]
	}
	return result
}

func spanToMap(s span.Span) map[string]interface{} {
	return map[string]interface{}{
		"start": map[string]interface{}{"offset": s.Start.Offset, "line": s.Start.Line, "column": s.Start.Column},
		"end":   map[string]interface{}{"offset": s.End.Offset, "line": s.End.Line, "column": s.End.Column},
	}
}

func identifierToMap(id Identifier) map[string]interface{} {
	return map[string]interface{}{
		"image": id.Image,
		"file":  id.File,
		"line":  id.Line,
	}
}

func identifierSlice(ids []Identifier) []interface{} {
	result := make([]interface{}, len(ids))
	for i, id := range ids {
		result[i] = identifierToMap(id)
	}
	return result
}

func constantToMap(c Constant) map[string]interface{} {
	switch c.Kind {
	case ConstInteger:
		return map[string]interface{}{"type": "NUMBR", "value": c.Integer}
	case ConstFloat:
		return map[string]interface{}{"type": "NUMBAR", "value": c.Float}
	case ConstBoolean:
		return map[string]interface{}{"type": "TROOF", "value": c.Boolean}
	case ConstString:
		return map[string]interface{}{"type": "YARN", "value": c.String}
	default:
		return map[string]interface{}{"type": "NOOB", "value": nil}
	}
}

func blockToMap(b Block) map[string]interface{} {
	return map[string]interface{}{"span": spanToMap(b.Span), "stmts": nodeSlice(b.Stmts)}
}

func blockSlice(blocks []Block) []interface{} {
	result := make([]interface{}, len(blocks))
	for i, b := range blocks {
		result[i] = blockToMap(b)
	}
	return result
}

func nodeSlice(nodes []Stmt) []interface{} {
	result := make([]interface{}, len(nodes))
	for i, n := range nodes {
		result[i] = NodeToMap(n)
	}
	return result
}

func exprSlice(exprs []Expr) []interface{} {
	result := make([]interface{}, len(exprs))
	for i, e := range exprs {
		result[i] = NodeToMap(e)
	}
	return result
}
