// Command lolcode is the CLI entry point for exercising the LOLCODE
// parser core against real source text.
//
// Usage:
//
//	lolcode tokens <file>            Print tokens
//	lolcode tokens <file> --json     Print tokens as JSON
//	lolcode parse  <file>            Print AST as JSON
//	lolcode repl                     Start interactive REPL
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"lolcode/internal/ast"
	"lolcode/internal/diag"
	"lolcode/internal/lexer"
	"lolcode/internal/parser"
	"lolcode/internal/token"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch command := os.Args[1]; command {
	case "tokens":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "error: missing file argument")
			os.Exit(1)
		}
		cmdTokens(readFile(os.Args[2]), os.Args[2], hasFlag("--json"))
	case "parse":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "error: missing file argument")
			os.Exit(1)
		}
		cmdParse(readFile(os.Args[2]), os.Args[2])
	case "repl":
		cmdRepl()
	default:
		fmt.Fprintf(os.Stderr, "error: unknown command '%s'\n", command)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  lolcode tokens <file> [--json]   Tokenize and print tokens")
	fmt.Fprintln(os.Stderr, "  lolcode parse  <file>            Parse and print AST (JSON)")
	fmt.Fprintln(os.Stderr, "  lolcode repl                      Start interactive REPL")
}

func readFile(filename string) string {
	source, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: cannot read file %s: %v\n", filename, err)
		os.Exit(1)
	}
	return string(source)
}

func hasFlag(flag string) bool {
	for _, arg := range os.Args[3:] {
		if arg == flag {
			return true
		}
	}
	return false
}

// ---- tokens command ----

func cmdTokens(source, filename string, jsonMode bool) {
	l := lexer.New(source, filename)
	tokens, diags := l.Tokenize()

	if jsonMode {
		printTokensJSON(tokens, diags)
	} else {
		printTokensText(tokens, diags)
	}

	if len(diags) > 0 {
		os.Exit(1)
	}
}

func printTokensText(tokens []token.Token, diags []diag.Diagnostic) {
	for _, tok := range tokens {
		lexeme := tok.Lexeme
		if tok.Kind == token.NEWLINE {
			lexeme = "\\n"
		}
		fmt.Printf("%-14s %-24q %d:%d\n", tok.Kind, lexeme, tok.Span.Start.Line, tok.Span.Start.Column)
	}
	printDiagsText(diags)
}

func printTokensJSON(tokens []token.Token, diags []diag.Diagnostic) {
	type tokenJSON struct {
		Kind   string `json:"kind"`
		Lexeme string `json:"lexeme"`
		Line   int    `json:"line"`
		Column int    `json:"column"`
		Offset int    `json:"offset"`
	}

	toks := make([]tokenJSON, len(tokens))
	for i, tok := range tokens {
		toks[i] = tokenJSON{
			Kind:   tok.Kind.String(),
			Lexeme: tok.Lexeme,
			Line:   tok.Span.Start.Line,
			Column: tok.Span.Start.Column,
			Offset: tok.Span.Start.Offset,
		}
	}

	printJSON(map[string]interface{}{
		"tokens":      toks,
		"diagnostics": diagsToSlice(diags),
	})
}

// ---- parse command ----

func cmdParse(source, filename string) {
	l := lexer.New(source, filename)
	tokens, lexDiags := l.Tokenize()
	if len(lexDiags) > 0 {
		printJSON(map[string]interface{}{"diagnostics": diagsToSlice(lexDiags)})
		os.Exit(1)
	}

	prog, err := parser.Parse(tokens)
	if err != nil {
		pe := err.(*parser.ParseError)
		printJSON(map[string]interface{}{"error": diagToMap(pe.Diag)})
		os.Exit(1)
	}

	printJSON(map[string]interface{}{"ast": ast.NodeToMap(prog)})
}

// ---- output helpers ----

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "error: JSON encoding failed: %v\n", err)
		os.Exit(1)
	}
}

func printDiagsText(diags []diag.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintln(os.Stderr, d.String())
	}
}

func diagToMap(d diag.Diagnostic) map[string]interface{} {
	result := map[string]interface{}{
		"code":     d.Code,
		"severity": d.Severity.String(),
		"message":  d.Message,
		"file":     d.File,
		"line":     d.Span.Start.Line,
		"column":   d.Span.Start.Column,
	}
	if d.Hint != "" {
		result["hint"] = d.Hint
	}
	return result
}

func diagsToSlice(diags []diag.Diagnostic) []map[string]interface{} {
	result := make([]map[string]interface{}, len(diags))
	for i, d := range diags {
		result[i] = diagToMap(d)
	}
	return result
}
