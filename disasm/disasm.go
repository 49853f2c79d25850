// Package disasm renders Thumb-16 instruction words as assembly text.
//
// Text follows a fixed grammar: a mnemonic with an optional two-letter
// condition suffix, then ", "-separated operands. Memory operands are
// bracketed, immediates are '#'-prefixed and register lists are braced.
// Branch displacements carry an explicit sign before the '#'.
//
// Every 16-bit word disassembles to non-empty text. Words outside the
// supported encodings render as "UNKNOWN: <hex>".
//
// All functions in this package are pure and safe for concurrent use.
//
// Usage:
//
//	fmt.Println(disasm.Disassemble(0xB501)) // push {r0, lr}
package disasm

import "github.com/sarchlab/thumbdis/insts"

// Disassembler pairs a decoder with the formatters.
type Disassembler struct {
	decoder *insts.Decoder
}

// New creates a new Disassembler.
func New() *Disassembler {
	return &Disassembler{decoder: insts.NewDecoder()}
}

// Disassemble decodes word and renders it as assembly text.
func (d *Disassembler) Disassemble(word uint16) string {
	return Format(d.decoder.Decode(word))
}

// Decode exposes the decoded form of word, for callers that want both the
// fields and the text.
func (d *Disassembler) Decode(word uint16) *insts.Instruction {
	return d.decoder.Decode(word)
}

var std = New()

// Disassemble renders word using a package-level Disassembler.
func Disassemble(word uint16) string {
	return std.Disassemble(word)
}
