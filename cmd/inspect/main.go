package main

import (
	"flag"
	"fmt"
	"os"

	"alloy/pkg/builder"
	"alloy/pkg/compiler"
	"alloy/pkg/grammar"
	"alloy/pkg/termui"
)

const sampleSource = `var total = 0;
for i in 10 {
    if i % 2 == 0 { continue; }
    total = total + i;
}
print total;
`

func main() {
	color := flag.Bool("color", termui.IsTerminal(os.Stdout), "colorize the disassembly")
	flag.Parse()

	src := sampleSource
	if flag.NArg() > 0 {
		data, err := os.ReadFile(flag.Arg(0))
		if err != nil {
			fmt.Fprintln(os.Stderr, "read error:", err)
			os.Exit(1)
		}
		src = string(data)
	}

	fmt.Printf("Source:\n%s\n", src)

	tokens, err := grammar.Lex(src)
	if err != nil {
		fmt.Fprintln(os.Stderr, "lex error:", err)
		os.Exit(1)
	}
	fmt.Printf("Tokens (%d)\n", len(tokens))
	for _, tok := range tokens {
		fmt.Println(" ", tok)
	}
	fmt.Println()

	tree, err := grammar.NewParser(tokens, src).ParseProgram()
	if err != nil {
		fmt.Fprintln(os.Stderr, "parse error:", err)
		os.Exit(1)
	}
	fmt.Println("Parse tree")
	fmt.Print(tree.Pretty())
	fmt.Println()

	stmts, err := builder.New().BuildProgram(tree)
	if err != nil {
		fmt.Fprintln(os.Stderr, "build error:", err)
		os.Exit(1)
	}
	fmt.Println("AST")
	for _, s := range stmts {
		fmt.Println(" ", s)
	}
	fmt.Println()

	c := compiler.New(compiler.DefaultOptions())
	for i, s := range stmts {
		if err := c.Compile(s); err != nil {
			fmt.Fprintf(os.Stderr, "compile error in statement %d: %v\n", i+1, err)
			os.Exit(1)
		}
	}
	symbols := c.Symbols().String()
	code := c.Finish()

	fmt.Println("Disassembly")
	fmt.Print(termui.Disassembly(code, *color))
	fmt.Println()
	fmt.Print(symbols)
}
