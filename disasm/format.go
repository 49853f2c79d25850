package disasm

import (
	"fmt"

	"github.com/sarchlab/thumbdis/insts"
)

// CondSuffix returns the mnemonic suffix for condition c. AL is implicit
// and has no suffix.
func CondSuffix(c insts.Cond) string {
	if c&0xF == insts.CondAL {
		return ""
	}
	return c.String()
}

// Format renders a decoded instruction as assembly text. An instruction
// with no matching encoding renders as the fallback text of its word.
func Format(inst *insts.Instruction) string {
	switch inst.Op {
	// Shift (immediate), add, subtract, move and compare
	case insts.OpLSLImm:
		return regRegImm("lsls", inst.Rd, inst.Rm, inst.Imm)
	case insts.OpLSRImm:
		return regRegImm("lsrs", inst.Rd, inst.Rm, shiftAmount(inst.Imm))
	case insts.OpASRImm:
		return regRegImm("asrs", inst.Rd, inst.Rm, shiftAmount(inst.Imm))
	case insts.OpADDReg:
		return regRegReg("adds", inst.Rd, inst.Rn, inst.Rm)
	case insts.OpSUBReg:
		return regRegReg("subs", inst.Rd, inst.Rn, inst.Rm)
	case insts.OpADDImm3:
		return regRegImm("adds", inst.Rd, inst.Rn, inst.Imm)
	case insts.OpSUBImm3:
		return regRegImm("subs", inst.Rd, inst.Rn, inst.Imm)
	case insts.OpMOVImm:
		return regImm("movs", inst.Rd, inst.Imm)
	case insts.OpCMPImm:
		return regImm("cmp", inst.Rn, inst.Imm)
	case insts.OpADDImm8:
		return regImm("adds", inst.Rd, inst.Imm)
	case insts.OpSUBImm8:
		return regImm("subs", inst.Rd, inst.Imm)

	// Data processing
	case insts.OpAND:
		return regReg("ands", inst.Rd, inst.Rm)
	case insts.OpEOR:
		return regReg("eors", inst.Rd, inst.Rm)
	case insts.OpLSLReg:
		return regReg("lsls", inst.Rd, inst.Rm)
	case insts.OpLSRReg:
		return regReg("lsrs", inst.Rd, inst.Rm)
	case insts.OpASRReg:
		return regReg("asrs", inst.Rd, inst.Rm)
	case insts.OpADC:
		return regReg("adcs", inst.Rd, inst.Rm)
	case insts.OpSBC:
		return regReg("sbcs", inst.Rd, inst.Rm)
	case insts.OpROR:
		return regReg("rors", inst.Rd, inst.Rm)
	case insts.OpTST:
		return regReg("tst", inst.Rn, inst.Rm)
	case insts.OpRSBImm:
		// UAL spelling of NEGS <Rd>, <Rn>
		return regRegImm("rsbs", inst.Rd, inst.Rn, 0)
	case insts.OpCMPReg:
		return regReg("cmp", inst.Rn, inst.Rm)
	case insts.OpCMN:
		return regReg("cmn", inst.Rn, inst.Rm)
	case insts.OpORR:
		return regReg("orrs", inst.Rd, inst.Rm)
	case insts.OpBIC:
		return regReg("bics", inst.Rd, inst.Rm)
	case insts.OpMVN:
		return regReg("mvns", inst.Rd, inst.Rm)

	// Special data and branch-exchange
	case insts.OpADDHi:
		return regReg("add", hiReg(inst.Flag, inst.Rd), inst.Rm)
	case insts.OpCMPHi:
		return regReg("cmp", hiReg(inst.Flag, inst.Rn), inst.Rm)
	case insts.OpMOVHi:
		return regReg("mov", hiReg(inst.Flag, inst.Rd), inst.Rm)
	case insts.OpBX:
		return "bx " + RegName(inst.Rm)
	case insts.OpBLX:
		return "blx " + RegName(inst.Rm)

	// Load/store single data item
	case insts.OpLDRLit:
		return memImm("ldr", inst.Rt, insts.RegPC, scaleImm(inst.Imm, scaleWord))
	case insts.OpSTRReg:
		return memReg("str", inst.Rt, inst.Rn, inst.Rm)
	case insts.OpSTRHReg:
		return memReg("strh", inst.Rt, inst.Rn, inst.Rm)
	case insts.OpSTRBReg:
		return memReg("strb", inst.Rt, inst.Rn, inst.Rm)
	case insts.OpLDRSBReg:
		return memReg("ldrsb", inst.Rt, inst.Rn, inst.Rm)
	case insts.OpLDRReg:
		return memReg("ldr", inst.Rt, inst.Rn, inst.Rm)
	case insts.OpLDRHReg:
		return memReg("ldrh", inst.Rt, inst.Rn, inst.Rm)
	case insts.OpLDRBReg:
		return memReg("ldrb", inst.Rt, inst.Rn, inst.Rm)
	case insts.OpLDRSHReg:
		return memReg("ldrsh", inst.Rt, inst.Rn, inst.Rm)
	case insts.OpSTRImm:
		return memImm("str", inst.Rt, inst.Rn, scaleImm(inst.Imm, scaleWord))
	case insts.OpLDRImm:
		return memImm("ldr", inst.Rt, inst.Rn, scaleImm(inst.Imm, scaleWord))
	case insts.OpSTRBImm:
		return memImm("strb", inst.Rt, inst.Rn, scaleImm(inst.Imm, scaleByte))
	case insts.OpLDRBImm:
		return memImm("ldrb", inst.Rt, inst.Rn, scaleImm(inst.Imm, scaleByte))
	case insts.OpSTRHImm:
		return memImm("strh", inst.Rt, inst.Rn, scaleImm(inst.Imm, scaleHalfword))
	case insts.OpLDRHImm:
		return memImm("ldrh", inst.Rt, inst.Rn, scaleImm(inst.Imm, scaleHalfword))
	case insts.OpSTRSP:
		return memImm("str", inst.Rt, insts.RegSP, scaleImm(inst.Imm, scaleWord))
	case insts.OpLDRSP:
		return memImm("ldr", inst.Rt, insts.RegSP, scaleImm(inst.Imm, scaleWord))

	// Generate relative address, adjust SP
	case insts.OpADR:
		return fmt.Sprintf("adr %s, +#%d", RegName(inst.Rd), scaleImm(inst.Imm, scaleWord))
	case insts.OpADDSPImm8:
		return regRegImm("add", inst.Rd, insts.RegSP, scaleImm(inst.Imm, scaleWord))
	case insts.OpADDSP:
		return regRegImm("add", insts.RegSP, insts.RegSP, scaleImm(inst.Imm, scaleWord))
	case insts.OpSUBSP:
		return regRegImm("sub", insts.RegSP, insts.RegSP, scaleImm(inst.Imm, scaleWord))

	// Miscellaneous
	case insts.OpSXTH:
		return regReg("sxth", inst.Rd, inst.Rm)
	case insts.OpSXTB:
		return regReg("sxtb", inst.Rd, inst.Rm)
	case insts.OpUXTH:
		return regReg("uxth", inst.Rd, inst.Rm)
	case insts.OpUXTB:
		return regReg("uxtb", inst.Rd, inst.Rm)
	case insts.OpPUSH:
		return "push " + RegListString(pushList(inst.Flag, inst.RegList))
	case insts.OpPOP:
		return "pop " + RegListString(popList(inst.Flag, inst.RegList))
	case insts.OpSETEND:
		if inst.Flag {
			return "setend BE"
		}
		return "setend LE"
	case insts.OpREV:
		return regReg("rev", inst.Rd, inst.Rm)
	case insts.OpREV16:
		return regReg("rev16", inst.Rd, inst.Rm)
	case insts.OpREVSH:
		return regReg("revsh", inst.Rd, inst.Rm)

	// Load/store multiple
	case insts.OpSTMIA:
		return fmt.Sprintf("stm %s!, %s", RegName(inst.Rn), RegListString(inst.RegList))
	case insts.OpLDMIA:
		wb := ""
		if ldmWriteBack(inst.Rn, inst.RegList) {
			wb = "!"
		}
		return fmt.Sprintf("ldm %s%s, %s", RegName(inst.Rn), wb, RegListString(inst.RegList))

	// Exception generation and branches
	case insts.OpUDF:
		return "udf"
	case insts.OpSVC:
		return fmt.Sprintf("svc #%d", inst.Imm)
	case insts.OpBCond:
		return fmt.Sprintf("b%s %s", CondSuffix(inst.Cond), signedImm(branchOffset(inst.Imm, 8)))
	case insts.OpB:
		return "b " + signedImm(branchOffset(inst.Imm, 11))
	}

	return fallback(inst.Word)
}

// fallback renders a word that no encoding matches.
func fallback(word uint16) string {
	return fmt.Sprintf("UNKNOWN: %x", word)
}

func regReg(mnemonic string, a, b insts.Reg) string {
	return fmt.Sprintf("%s %s, %s", mnemonic, RegName(a), RegName(b))
}

func regRegReg(mnemonic string, a, b, c insts.Reg) string {
	return fmt.Sprintf("%s %s, %s, %s", mnemonic, RegName(a), RegName(b), RegName(c))
}

func regImm(mnemonic string, a insts.Reg, imm uint32) string {
	return fmt.Sprintf("%s %s, #%d", mnemonic, RegName(a), imm)
}

func regRegImm(mnemonic string, a, b insts.Reg, imm uint32) string {
	return fmt.Sprintf("%s %s, %s, #%d", mnemonic, RegName(a), RegName(b), imm)
}

// memReg renders a register-offset transfer, "ldr r0, [r1, r2]".
func memReg(mnemonic string, t, n, m insts.Reg) string {
	return fmt.Sprintf("%s %s, [%s, %s]", mnemonic, RegName(t), RegName(n), RegName(m))
}

// memImm renders an immediate-offset transfer, "ldr r0, [r1, #4]".
func memImm(mnemonic string, t, n insts.Reg, offset uint32) string {
	return fmt.Sprintf("%s %s, [%s, #%d]", mnemonic, RegName(t), RegName(n), offset)
}
