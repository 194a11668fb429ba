package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"lolcode/internal/ast"
	"lolcode/internal/diag"
	"lolcode/internal/lexer"
	"lolcode/internal/parser"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorGray   = "\033[90m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
)

var blockOpeners = []string{"ORLY", "WTF?", "IM IN YR", "HOW IZ"}
var blockClosers = []string{"OIC", "IM OUTTA YR", "IF U SAY SO"}

func blockDepthDelta(line string) int {
	delta := 0
	for _, kw := range blockOpeners {
		delta += strings.Count(line, kw)
	}
	for _, kw := range blockClosers {
		delta -= strings.Count(line, kw)
	}
	return delta
}

// cmdRepl runs an interactive, multi-line-aware REPL that lexes and
// parses each accumulated chunk and pretty-prints its AST. There is
// no interpreter in this module's scope, so the REPL inspects syntax
// rather than executing it.
func cmdRepl() {
	historyFile := ""
	if home, err := os.UserHomeDir(); err == nil {
		historyFile = filepath.Join(home, ".lolcode_history")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            colorGreen + "lolcode> " + colorReset,
		HistoryFile:       historyFile,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "readline init failed: %v\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	fmt.Fprintf(rl.Stdout(), "%s%slolcode REPL%s %s(type 'exit' or Ctrl+D to quit)%s\n\n",
		colorBold, colorCyan, colorReset, colorGray, colorReset)

	var accumulated strings.Builder
	depth := 0

	for {
		if depth > 0 {
			rl.SetPrompt(colorGray + "...         " + colorReset)
		} else {
			rl.SetPrompt(colorGreen + "lolcode> " + colorReset)
		}

		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				if depth > 0 {
					accumulated.Reset()
					depth = 0
					continue
				}
				fmt.Fprintf(rl.Stdout(), "\n%s(use 'exit' or Ctrl+D to quit)%s\n", colorGray, colorReset)
				continue
			}
			if err == io.EOF {
				fmt.Fprintln(rl.Stdout())
			}
			break
		}

		if depth == 0 && strings.TrimSpace(line) == "exit" {
			break
		}

		depth += blockDepthDelta(line)
		accumulated.WriteString(line)
		accumulated.WriteString("\n")

		if depth > 0 {
			continue
		}
		depth = 0

		body := accumulated.String()
		accumulated.Reset()

		if strings.TrimSpace(body) == "" {
			continue
		}

		source := "HAI 1.2\n" + body + "KTHXBYE\n"

		l := lexer.New(source, "<repl>")
		tokens, lexDiags := l.Tokenize()
		if len(lexDiags) > 0 {
			printDiagsColored(rl.Stderr(), lexDiags)
			continue
		}

		prog, perr := parser.Parse(tokens)
		if perr != nil {
			pe := perr.(*parser.ParseError)
			fmt.Fprintf(rl.Stderr(), "%s%s%s\n", colorRed, pe.Diag.String(), colorReset)
			continue
		}

		printASTColored(rl.Stdout(), prog)
	}
}

func printDiagsColored(w io.Writer, diags []diag.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintf(w, "%s%s%s\n", colorRed, d.String(), colorReset)
	}
}

func printASTColored(w io.Writer, prog *ast.Main) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(ast.NodeToMap(prog))
}
