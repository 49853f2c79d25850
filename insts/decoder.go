// Package insts provides Thumb-16 instruction definitions and decoding.
package insts

// Op represents a Thumb-16 instruction encoding.
type Op uint8

// Thumb-16 encodings. Each value names exactly one template in the
// dispatch table.
const (
	OpUnknown Op = iota

	// Shift (immediate), add, subtract, move and compare
	OpLSLImm
	OpLSRImm
	OpASRImm
	OpADDReg  // ADD (register, T1)
	OpSUBReg  // SUB (register)
	OpADDImm3 // ADD (immediate, T1)
	OpSUBImm3 // SUB (immediate, T1)
	OpMOVImm
	OpCMPImm
	OpADDImm8 // ADD (immediate, T2)
	OpSUBImm8 // SUB (immediate, T2)

	// Data processing
	OpAND
	OpEOR
	OpLSLReg
	OpLSRReg
	OpASRReg
	OpADC
	OpSBC
	OpROR
	OpTST
	OpRSBImm
	OpCMPReg // CMP (register, T1)
	OpCMN
	OpORR
	OpBIC
	OpMVN

	// Special data and branch-exchange
	OpADDHi // ADD (register, T2)
	OpCMPHi // CMP (register, T2)
	OpMOVHi // MOV (register)
	OpBX
	OpBLX

	// Load/store single data item
	OpLDRLit
	OpSTRReg
	OpSTRHReg
	OpSTRBReg
	OpLDRSBReg
	OpLDRReg
	OpLDRHReg
	OpLDRBReg
	OpLDRSHReg
	OpSTRImm
	OpLDRImm
	OpSTRBImm
	OpLDRBImm
	OpSTRHImm
	OpLDRHImm
	OpSTRSP
	OpLDRSP

	// Generate relative address, adjust SP
	OpADR
	OpADDSPImm8 // ADD (SP plus immediate, T1)
	OpADDSP     // ADD (SP plus immediate, T2)
	OpSUBSP

	// Miscellaneous
	OpSXTH
	OpSXTB
	OpUXTH
	OpUXTB
	OpPUSH
	OpPOP
	OpSETEND
	OpREV
	OpREV16
	OpREVSH

	// Load/store multiple
	OpSTMIA
	OpLDMIA

	// Exception generation and branches
	OpUDF
	OpSVC
	OpBCond
	OpB

	numOps
)

var opNames = [numOps]string{
	OpUnknown:   "UNKNOWN",
	OpLSLImm:    "LSL (imm)",
	OpLSRImm:    "LSR (imm)",
	OpASRImm:    "ASR (imm)",
	OpADDReg:    "ADD (reg, T1)",
	OpSUBReg:    "SUB (reg)",
	OpADDImm3:   "ADD (imm, T1)",
	OpSUBImm3:   "SUB (imm, T1)",
	OpMOVImm:    "MOV (imm)",
	OpCMPImm:    "CMP (imm)",
	OpADDImm8:   "ADD (imm, T2)",
	OpSUBImm8:   "SUB (imm, T2)",
	OpAND:       "AND (reg)",
	OpEOR:       "EOR (reg)",
	OpLSLReg:    "LSL (reg)",
	OpLSRReg:    "LSR (reg)",
	OpASRReg:    "ASR (reg)",
	OpADC:       "ADC (reg)",
	OpSBC:       "SBC (reg)",
	OpROR:       "ROR (reg)",
	OpTST:       "TST (reg)",
	OpRSBImm:    "RSB (imm)",
	OpCMPReg:    "CMP (reg, T1)",
	OpCMN:       "CMN (reg)",
	OpORR:       "ORR (reg)",
	OpBIC:       "BIC (reg)",
	OpMVN:       "MVN (reg)",
	OpADDHi:     "ADD (reg, T2)",
	OpCMPHi:     "CMP (reg, T2)",
	OpMOVHi:     "MOV (reg)",
	OpBX:        "BX",
	OpBLX:       "BLX (reg)",
	OpLDRLit:    "LDR (literal)",
	OpSTRReg:    "STR (reg)",
	OpSTRHReg:   "STRH (reg)",
	OpSTRBReg:   "STRB (reg)",
	OpLDRSBReg:  "LDRSB (reg)",
	OpLDRReg:    "LDR (reg)",
	OpLDRHReg:   "LDRH (reg)",
	OpLDRBReg:   "LDRB (reg)",
	OpLDRSHReg:  "LDRSH (reg)",
	OpSTRImm:    "STR (imm, T1)",
	OpLDRImm:    "LDR (imm, T1)",
	OpSTRBImm:   "STRB (imm)",
	OpLDRBImm:   "LDRB (imm)",
	OpSTRHImm:   "STRH (imm)",
	OpLDRHImm:   "LDRH (imm)",
	OpSTRSP:     "STR (imm, T2)",
	OpLDRSP:     "LDR (imm, T2)",
	OpADR:       "ADR",
	OpADDSPImm8: "ADD (SP plus imm, T1)",
	OpADDSP:     "ADD (SP plus imm, T2)",
	OpSUBSP:     "SUB (SP minus imm)",
	OpSXTH:      "SXTH",
	OpSXTB:      "SXTB",
	OpUXTH:      "UXTH",
	OpUXTB:      "UXTB",
	OpPUSH:      "PUSH",
	OpPOP:       "POP",
	OpSETEND:    "SETEND",
	OpREV:       "REV",
	OpREV16:     "REV16",
	OpREVSH:     "REVSH",
	OpSTMIA:     "STMIA",
	OpLDMIA:     "LDMIA",
	OpUDF:       "UDF",
	OpSVC:       "SVC",
	OpBCond:     "B (T1)",
	OpB:         "B (T2)",
}

// String returns the encoding name.
func (o Op) String() string {
	if o >= numOps {
		return "UNKNOWN"
	}
	return opNames[o]
}

// Format represents an instruction encoding format. Encodings sharing a
// format bind the same fields from the same bit positions.
type Format uint8

// Instruction formats.
const (
	FormatUnknown        Format = iota
	FormatShiftImm              // imm5 | Rm | Rd
	FormatAddSubReg             // Rm | Rn | Rd
	FormatAddSubImm3            // imm3 | Rn | Rd
	FormatImm8                  // Rd/Rn | imm8
	FormatALU                   // Rm/Rn | Rd/Rn
	FormatHiReg                 // D/N | Rm | Rd/Rn
	FormatBranchExchange        // Rm
	FormatLoadLiteral           // Rt | imm8
	FormatLoadStoreReg          // Rm | Rn | Rt
	FormatLoadStoreImm          // imm5 | Rn | Rt
	FormatLoadStoreSP           // Rt | imm8
	FormatAddress               // Rd | imm8
	FormatAdjustSP              // imm7
	FormatExtend                // Rm | Rd
	FormatPushPop               // M/P | register_list
	FormatSetEnd                // E
	FormatReverse               // Rm | Rd
	FormatMultiple              // Rn | register_list
	FormatException             // imm8
	FormatBranchCond            // cond | imm8
	FormatBranch                // imm11
)

// Reg is an architectural register index, 0-15.
type Reg uint8

// Registers with dedicated roles.
const (
	RegSP Reg = 13
	RegLR Reg = 14
	RegPC Reg = 15
)

// RegList is a register list bitmask, bit n set when register n is a member.
type RegList uint16

// Has reports whether r is a member of the list.
func (l RegList) Has(r Reg) bool {
	return l&(1<<(r&0xF)) != 0
}

// With returns a copy of the list that also contains r.
func (l RegList) With(r Reg) RegList {
	return l | 1<<(r&0xF)
}

// Cond represents an ARM condition code.
type Cond uint8

// ARM condition codes.
const (
	CondEQ Cond = 0b0000 // Equal (Z == 1)
	CondNE Cond = 0b0001 // Not Equal (Z == 0)
	CondCS Cond = 0b0010 // Carry Set / Unsigned higher or same (C == 1)
	CondCC Cond = 0b0011 // Carry Clear / Unsigned lower (C == 0)
	CondMI Cond = 0b0100 // Minus / Negative (N == 1)
	CondPL Cond = 0b0101 // Plus / Positive or zero (N == 0)
	CondVS Cond = 0b0110 // Overflow (V == 1)
	CondVC Cond = 0b0111 // No overflow (V == 0)
	CondHI Cond = 0b1000 // Unsigned higher (C == 1 && Z == 0)
	CondLS Cond = 0b1001 // Unsigned lower or same (C == 0 || Z == 1)
	CondGE Cond = 0b1010 // Signed greater than or equal (N == V)
	CondLT Cond = 0b1011 // Signed less than (N != V)
	CondGT Cond = 0b1100 // Signed greater than (Z == 0 && N == V)
	CondLE Cond = 0b1101 // Signed less than or equal (Z == 1 || N != V)
	CondAL Cond = 0b1110 // Always (unconditional)
	CondNV Cond = 0b1111 // Reserved
)

var condNames = [16]string{
	"eq", "ne", "cs", "cc", "mi", "pl", "vs", "vc",
	"hi", "ls", "ge", "lt", "gt", "le", "al", "nv",
}

// String returns the lowercase mnemonic of the condition. Only the low four
// bits of c are significant.
func (c Cond) String() string {
	return condNames[c&0xF]
}

// Instruction represents a decoded Thumb-16 instruction.
//
// Register and immediate fields hold the raw encoded values. Scaling,
// sign extension and high-register merging are left to the consumer.
type Instruction struct {
	Op     Op     // Encoding
	Format Format // Field layout
	Word   uint16 // Raw instruction word

	Rd Reg // Destination register (low field for FormatHiReg)
	Rn Reg // First operand or base register
	Rm Reg // Second operand or index register
	Rt Reg // Transfer register for loads and stores

	// Imm is the unsigned encoded immediate, never wider than its field.
	Imm uint32

	Cond    Cond    // Condition code for conditional branches
	RegList RegList // Register list for PUSH/POP/STMIA/LDMIA

	// Flag is the encoding's single selector bit: D or N for high register
	// operations, M for PUSH, P for POP and E for SETEND.
	Flag bool
}

// Decoder decodes Thumb-16 machine code into instructions.
type Decoder struct{}

// NewDecoder creates a new Thumb-16 instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode decodes a 16-bit Thumb instruction word. A word that matches no
// template is returned with Op set to OpUnknown.
func (d *Decoder) Decode(word uint16) *Instruction {
	inst := &Instruction{Op: OpUnknown, Format: FormatUnknown, Word: word}

	for _, e := range encodings {
		if !e.matches(word) {
			continue
		}

		inst.Op = e.op
		inst.Format = e.format
		d.bindFields(word, inst)
		break
	}

	return inst
}

// bindFields extracts the fields of inst.Format from word.
func (d *Decoder) bindFields(word uint16, inst *Instruction) {
	switch inst.Format {
	case FormatShiftImm:
		inst.Imm = uint32(word>>6) & 0x1F // bits [10:6]
		inst.Rm = Reg(word>>3) & 0x7      // bits [5:3]
		inst.Rd = Reg(word) & 0x7         // bits [2:0]
	case FormatAddSubReg:
		inst.Rm = Reg(word>>6) & 0x7 // bits [8:6]
		inst.Rn = Reg(word>>3) & 0x7 // bits [5:3]
		inst.Rd = Reg(word) & 0x7    // bits [2:0]
	case FormatAddSubImm3:
		inst.Imm = uint32(word>>6) & 0x7 // bits [8:6]
		inst.Rn = Reg(word>>3) & 0x7     // bits [5:3]
		inst.Rd = Reg(word) & 0x7        // bits [2:0]
	case FormatImm8:
		d.bindImm8(word, inst)
	case FormatALU:
		d.bindALU(word, inst)
	case FormatHiReg:
		inst.Flag = word&(1<<7) != 0 // bit 7: D or N
		inst.Rm = Reg(word>>3) & 0xF // bits [6:3]
		if inst.Op == OpCMPHi {
			inst.Rn = Reg(word) & 0x7 // bits [2:0]
		} else {
			inst.Rd = Reg(word) & 0x7 // bits [2:0]
		}
	case FormatBranchExchange:
		inst.Rm = Reg(word>>3) & 0xF // bits [6:3]
	case FormatLoadLiteral, FormatLoadStoreSP:
		inst.Rt = Reg(word>>8) & 0x7 // bits [10:8]
		inst.Imm = uint32(word) & 0xFF
	case FormatLoadStoreReg:
		inst.Rm = Reg(word>>6) & 0x7 // bits [8:6]
		inst.Rn = Reg(word>>3) & 0x7 // bits [5:3]
		inst.Rt = Reg(word) & 0x7    // bits [2:0]
	case FormatLoadStoreImm:
		inst.Imm = uint32(word>>6) & 0x1F // bits [10:6]
		inst.Rn = Reg(word>>3) & 0x7      // bits [5:3]
		inst.Rt = Reg(word) & 0x7         // bits [2:0]
	case FormatAddress:
		inst.Rd = Reg(word>>8) & 0x7 // bits [10:8]
		inst.Imm = uint32(word) & 0xFF
	case FormatAdjustSP:
		inst.Imm = uint32(word) & 0x7F // bits [6:0]
	case FormatExtend, FormatReverse:
		inst.Rm = Reg(word>>3) & 0x7 // bits [5:3]
		inst.Rd = Reg(word) & 0x7    // bits [2:0]
	case FormatPushPop:
		inst.Flag = word&(1<<8) != 0 // bit 8: M or P
		inst.RegList = RegList(word & 0xFF)
	case FormatSetEnd:
		inst.Flag = word&(1<<3) != 0 // bit 3: E
	case FormatMultiple:
		inst.Rn = Reg(word>>8) & 0x7 // bits [10:8]
		inst.RegList = RegList(word & 0xFF)
	case FormatException:
		inst.Imm = uint32(word) & 0xFF
	case FormatBranchCond:
		inst.Cond = Cond(word>>8) & 0xF // bits [11:8]
		inst.Imm = uint32(word) & 0xFF
	case FormatBranch:
		inst.Imm = uint32(word) & 0x7FF // bits [10:0]
	}
}

// bindImm8 binds the 3-bit register and 8-bit immediate of MOV, CMP, ADD
// and SUB (immediate). CMP names its register Rn, the others Rd.
func (d *Decoder) bindImm8(word uint16, inst *Instruction) {
	r := Reg(word>>8) & 0x7 // bits [10:8]
	inst.Imm = uint32(word) & 0xFF

	if inst.Op == OpCMPImm {
		inst.Rn = r
	} else {
		inst.Rd = r
	}
}

// bindALU binds the two 3-bit register fields of the data processing group.
// Compare and test forms have no destination, and RSB reads its source from
// the upper field.
func (d *Decoder) bindALU(word uint16, inst *Instruction) {
	hi := Reg(word>>3) & 0x7 // bits [5:3]
	lo := Reg(word) & 0x7    // bits [2:0]

	switch inst.Op {
	case OpTST, OpCMPReg, OpCMN:
		inst.Rm = hi
		inst.Rn = lo
	case OpRSBImm:
		inst.Rn = hi
		inst.Rd = lo
	default:
		inst.Rm = hi
		inst.Rd = lo
	}
}
