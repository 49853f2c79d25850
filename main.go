// Package main provides the entry point for thumbdis.
// thumbdis disassembles 16-bit Thumb instruction words into assembly text.
//
// For the full CLI, use: go run ./cmd/thumbdis
package main

import (
	"fmt"
	"io"
	"os"
)

func main() {
	printUsage(os.Stdout, len(os.Args) > 1)
}

func printUsage(w io.Writer, hasArgs bool) {
	fmt.Fprintln(w, "thumbdis - Thumb-16 disassembler")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Usage: thumbdis [options] <program.elf>")
	fmt.Fprintln(w, "       thumbdis -words [options] <hexword>...")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  -config    Path to configuration JSON file")
	fmt.Fprintln(w, "  -trace     Path to executed-address trace")
	fmt.Fprintln(w, "  -words     Treat arguments as hexadecimal instruction words")
	fmt.Fprintln(w, "  -dump      Dump decoded instruction fields (with -words)")
	fmt.Fprintln(w, "  -v         Verbose output")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'go run ./cmd/thumbdis' for the full CLI.")

	if hasArgs {
		fmt.Fprintln(w, "\nNote: You provided arguments. Use 'go run ./cmd/thumbdis' instead.")
	}
}
