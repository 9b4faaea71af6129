package main

import (
	"bytes"
	"fmt"
	"os"

	"mepac/pkg/compiler"
	"mepac/pkg/config"
)

const testSource = `program demo;
integer a, b;
begin
  read(a);
  set b to a * 0b10;
  write(b)
end
`

func main() {
	src := testSource
	if len(os.Args) > 1 {
		data, err := os.ReadFile(os.Args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, "read error:", err)
			os.Exit(1)
		}
		src = string(data)
	}

	opts := config.Default()

	fmt.Printf("Source:\n%s\n", src)

	tokens := compiler.Lex(src, opts.MaxLexemeLength)
	fmt.Printf("Tokens (%d)\n", len(tokens))
	for _, tok := range tokens {
		fmt.Println(" ", tok)
	}
	fmt.Println()

	var listing bytes.Buffer
	res, err := compiler.Compile(src, &listing, opts)

	fmt.Println("Generated Listing")
	fmt.Print(listing.String())
	fmt.Println()

	if err != nil {
		fmt.Fprintln(os.Stderr, "translation error:", err)
		os.Exit(1)
	}
	fmt.Print(res.Symbols)
	fmt.Println()
}
