package disasm

import "strconv"

// Immediate scale factors, expressed as left shifts.
const (
	scaleByte     = 0
	scaleHalfword = 1
	scaleWord     = 2
)

// pcBias is the distance between a branch and the PC value it reads.
const pcBias = 4

// scaleImm scales an encoded offset by the access size.
func scaleImm(imm uint32, shift uint) uint32 {
	return imm << shift
}

// shiftAmount decodes the imm5 of LSR and ASR, where 0 encodes a shift by 32.
func shiftAmount(imm5 uint32) uint32 {
	if imm5 == 0 {
		return 32
	}
	return imm5
}

// signExtend sign-extends the low bits of v to 32 bits.
func signExtend(v uint32, bits uint) int32 {
	shift := 32 - bits
	return int32(v<<shift) >> shift
}

// branchOffset converts the immediate of a short branch into the
// displacement relative to the branch itself. The field counts halfwords
// and is fieldBits wide.
func branchOffset(imm uint32, fieldBits uint) int32 {
	return signExtend(imm<<1, fieldBits+1) + pcBias
}

// signedImm renders v as an explicit sign followed by "#magnitude".
func signedImm(v int32) string {
	if v < 0 {
		return "-#" + strconv.FormatInt(-int64(v), 10)
	}
	return "+#" + strconv.FormatInt(int64(v), 10)
}
