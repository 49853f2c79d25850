package disasm

import (
	"strings"

	"github.com/sarchlab/thumbdis/insts"
)

var regNames = [16]string{
	"r0", "r1", "r2", "r3", "r4", "r5", "r6", "r7",
	"r8", "r9", "r10", "r11", "r12", "sp", "lr", "pc",
}

// RegName returns the canonical name of register r.
func RegName(r insts.Reg) string {
	return regNames[r&0xF]
}

// RegListString renders a register list as "{r0, r4, lr}", members in
// ascending register order.
func RegListString(list insts.RegList) string {
	var sb strings.Builder

	sb.WriteByte('{')
	first := true
	for r := insts.Reg(0); r < 16; r++ {
		if !list.Has(r) {
			continue
		}
		if !first {
			sb.WriteString(", ")
		}
		sb.WriteString(RegName(r))
		first = false
	}
	sb.WriteByte('}')

	return sb.String()
}

// hiReg merges a high-register selector bit with a 3-bit low register field.
func hiReg(selector bool, low insts.Reg) insts.Reg {
	if selector {
		return low + 8
	}
	return low
}

// pushList returns the PUSH register list with LR added when the M bit is set.
func pushList(m bool, list insts.RegList) insts.RegList {
	if m {
		return list.With(insts.RegLR)
	}
	return list
}

// popList returns the POP register list with PC added when the P bit is set.
func popList(p bool, list insts.RegList) insts.RegList {
	if p {
		return list.With(insts.RegPC)
	}
	return list
}

// ldmWriteBack reports whether LDMIA updates its base register. A base that
// is itself loaded is not written back.
func ldmWriteBack(base insts.Reg, list insts.RegList) bool {
	return !list.Has(base)
}
