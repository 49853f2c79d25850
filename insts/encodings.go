package insts

import "fmt"

// encoding is one fixed bit-pattern template of the Thumb-16 encoding space.
type encoding struct {
	op     Op
	format Format
	mask   uint16
	value  uint16
}

// matches reports whether word satisfies the template's fixed bits.
func (e encoding) matches(word uint16) bool {
	return word&e.mask == e.value
}

// newEncoding builds a template from a 16-character pattern, bit 15 first.
// '0' and '1' are fixed bits; any other character is a field or don't-care
// bit. Malformed patterns panic since the table is static.
func newEncoding(op Op, format Format, pattern string) encoding {
	if len(pattern) != 16 {
		panic(fmt.Sprintf("insts: pattern %q for %v is not 16 bits", pattern, op))
	}

	e := encoding{op: op, format: format}
	for i := 0; i < 16; i++ {
		bit := uint16(1) << (15 - i)
		switch pattern[i] {
		case '0':
			e.mask |= bit
		case '1':
			e.mask |= bit
			e.value |= bit
		}
	}

	return e
}

// encodings is the dispatch table, in priority order. The first template
// that matches a word wins, so UDF and SVC must precede the conditional
// branch, whose condition field would otherwise swallow them.
var encodings = []encoding{
	// Shift (immediate), add, subtract, move and compare
	newEncoding(OpLSLImm, FormatShiftImm, "00000vvvvvmmmddd"),
	newEncoding(OpLSRImm, FormatShiftImm, "00001vvvvvmmmddd"),
	newEncoding(OpASRImm, FormatShiftImm, "00010vvvvvmmmddd"),
	newEncoding(OpADDReg, FormatAddSubReg, "0001100mmmnnnddd"),
	newEncoding(OpSUBReg, FormatAddSubReg, "0001101mmmnnnddd"),
	newEncoding(OpADDImm3, FormatAddSubImm3, "0001110vvvnnnddd"),
	newEncoding(OpSUBImm3, FormatAddSubImm3, "0001111vvvnnnddd"),
	newEncoding(OpMOVImm, FormatImm8, "00100dddvvvvvvvv"),
	newEncoding(OpCMPImm, FormatImm8, "00101nnnvvvvvvvv"),
	newEncoding(OpADDImm8, FormatImm8, "00110dddvvvvvvvv"),
	newEncoding(OpSUBImm8, FormatImm8, "00111dddvvvvvvvv"),

	// Data processing
	newEncoding(OpAND, FormatALU, "0100000000mmmddd"),
	newEncoding(OpEOR, FormatALU, "0100000001mmmddd"),
	newEncoding(OpLSLReg, FormatALU, "0100000010mmmddd"),
	newEncoding(OpLSRReg, FormatALU, "0100000011mmmddd"),
	newEncoding(OpASRReg, FormatALU, "0100000100mmmddd"),
	newEncoding(OpADC, FormatALU, "0100000101mmmddd"),
	newEncoding(OpSBC, FormatALU, "0100000110mmmddd"),
	newEncoding(OpROR, FormatALU, "0100000111mmmddd"),
	newEncoding(OpTST, FormatALU, "0100001000mmmnnn"),
	newEncoding(OpRSBImm, FormatALU, "0100001001nnnddd"),
	newEncoding(OpCMPReg, FormatALU, "0100001010mmmnnn"),
	newEncoding(OpCMN, FormatALU, "0100001011mmmnnn"),
	newEncoding(OpORR, FormatALU, "0100001100mmmddd"),
	newEncoding(OpBIC, FormatALU, "0100001110mmmddd"),
	newEncoding(OpMVN, FormatALU, "0100001111mmmddd"),

	// Special data and branch-exchange
	newEncoding(OpADDHi, FormatHiReg, "01000100Dmmmmddd"),
	newEncoding(OpCMPHi, FormatHiReg, "01000101Nmmmmnnn"),
	newEncoding(OpMOVHi, FormatHiReg, "01000110Dmmmmddd"),
	newEncoding(OpBX, FormatBranchExchange, "010001110mmmm000"),
	newEncoding(OpBLX, FormatBranchExchange, "010001111mmmm000"),

	// Load/store single data item
	newEncoding(OpLDRLit, FormatLoadLiteral, "01001tttvvvvvvvv"),
	newEncoding(OpSTRReg, FormatLoadStoreReg, "0101000mmmnnnttt"),
	newEncoding(OpSTRHReg, FormatLoadStoreReg, "0101001mmmnnnttt"),
	newEncoding(OpSTRBReg, FormatLoadStoreReg, "0101010mmmnnnttt"),
	newEncoding(OpLDRSBReg, FormatLoadStoreReg, "0101011mmmnnnttt"),
	newEncoding(OpLDRReg, FormatLoadStoreReg, "0101100mmmnnnttt"),
	newEncoding(OpLDRHReg, FormatLoadStoreReg, "0101101mmmnnnttt"),
	newEncoding(OpLDRBReg, FormatLoadStoreReg, "0101110mmmnnnttt"),
	newEncoding(OpLDRSHReg, FormatLoadStoreReg, "0101111mmmnnnttt"),
	newEncoding(OpSTRImm, FormatLoadStoreImm, "01100vvvvvnnnttt"),
	newEncoding(OpLDRImm, FormatLoadStoreImm, "01101vvvvvnnnttt"),
	newEncoding(OpSTRBImm, FormatLoadStoreImm, "01110vvvvvnnnttt"),
	newEncoding(OpLDRBImm, FormatLoadStoreImm, "01111vvvvvnnnttt"),
	newEncoding(OpSTRHImm, FormatLoadStoreImm, "10000vvvvvnnnttt"),
	newEncoding(OpLDRHImm, FormatLoadStoreImm, "10001vvvvvnnnttt"),
	newEncoding(OpSTRSP, FormatLoadStoreSP, "10010tttvvvvvvvv"),
	newEncoding(OpLDRSP, FormatLoadStoreSP, "10011tttvvvvvvvv"),

	// Generate relative address
	newEncoding(OpADR, FormatAddress, "10100dddvvvvvvvv"),
	newEncoding(OpADDSPImm8, FormatAddress, "10101dddvvvvvvvv"),

	// Miscellaneous
	newEncoding(OpADDSP, FormatAdjustSP, "101100000vvvvvvv"),
	newEncoding(OpSUBSP, FormatAdjustSP, "101100001vvvvvvv"),
	newEncoding(OpSXTH, FormatExtend, "1011001000mmmddd"),
	newEncoding(OpSXTB, FormatExtend, "1011001001mmmddd"),
	newEncoding(OpUXTH, FormatExtend, "1011001010mmmddd"),
	newEncoding(OpUXTB, FormatExtend, "1011001011mmmddd"),
	newEncoding(OpPUSH, FormatPushPop, "1011010Mxxxxxxxx"),
	newEncoding(OpPOP, FormatPushPop, "1011110Pxxxxxxxx"),
	newEncoding(OpSETEND, FormatSetEnd, "101101100101E000"),
	newEncoding(OpREV, FormatReverse, "1011101000mmmddd"),
	newEncoding(OpREV16, FormatReverse, "1011101001mmmddd"),
	newEncoding(OpREVSH, FormatReverse, "1011101011mmmddd"),

	// Load/store multiple
	newEncoding(OpSTMIA, FormatMultiple, "11000nnnxxxxxxxx"),
	newEncoding(OpLDMIA, FormatMultiple, "11001nnnxxxxxxxx"),

	// Exception generation and branches
	newEncoding(OpUDF, FormatException, "11011110vvvvvvvv"),
	newEncoding(OpSVC, FormatException, "11011111vvvvvvvv"),
	newEncoding(OpBCond, FormatBranchCond, "1101ccccvvvvvvvv"),
	newEncoding(OpB, FormatBranch, "11100vvvvvvvvvvv"),
}

// Encodings returns every supported encoding in dispatch priority order.
func Encodings() []Op {
	ops := make([]Op, len(encodings))
	for i, e := range encodings {
		ops[i] = e.op
	}
	return ops
}
