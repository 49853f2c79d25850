package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/thumbdis/insts"
)

var _ = Describe("Decoder", func() {
	var decoder *insts.Decoder

	BeforeEach(func() {
		decoder = insts.NewDecoder()
	})

	Describe("Shift, add, subtract, move and compare", func() {
		// LSRS R0, R1, #1    -> 0x0848
		// Encoding: 00001 | imm5=00001 | Rm=001 | Rd=000
		It("should decode LSR (imm)", func() {
			inst := decoder.Decode(0x0848)

			Expect(inst.Op).To(Equal(insts.OpLSRImm))
			Expect(inst.Format).To(Equal(insts.FormatShiftImm))
			Expect(inst.Imm).To(Equal(uint32(1)))
			Expect(inst.Rm).To(Equal(insts.Reg(1)))
			Expect(inst.Rd).To(Equal(insts.Reg(0)))
		})

		// ADDS R0, R1, #1    -> 0x1C48
		// Encoding: 0001110 | imm3=001 | Rn=001 | Rd=000
		It("should decode ADD (imm, T1)", func() {
			inst := decoder.Decode(0x1C48)

			Expect(inst.Op).To(Equal(insts.OpADDImm3))
			Expect(inst.Format).To(Equal(insts.FormatAddSubImm3))
			Expect(inst.Imm).To(Equal(uint32(1)))
			Expect(inst.Rn).To(Equal(insts.Reg(1)))
			Expect(inst.Rd).To(Equal(insts.Reg(0)))
		})

		// SUBS R0, R1, R2    -> 0x1A88
		// Encoding: 0001101 | Rm=010 | Rn=001 | Rd=000
		It("should decode SUB (reg)", func() {
			inst := decoder.Decode(0x1A88)

			Expect(inst.Op).To(Equal(insts.OpSUBReg))
			Expect(inst.Rm).To(Equal(insts.Reg(2)))
			Expect(inst.Rn).To(Equal(insts.Reg(1)))
			Expect(inst.Rd).To(Equal(insts.Reg(0)))
		})

		// CMP R3, #7         -> 0x2B07
		// Encoding: 00101 | Rn=011 | imm8=7
		It("should bind Rn for CMP (imm)", func() {
			inst := decoder.Decode(0x2B07)

			Expect(inst.Op).To(Equal(insts.OpCMPImm))
			Expect(inst.Rn).To(Equal(insts.Reg(3)))
			Expect(inst.Rd).To(Equal(insts.Reg(0)))
			Expect(inst.Imm).To(Equal(uint32(7)))
		})

		// MOVS R0, #42       -> 0x202A
		It("should bind Rd for MOV (imm)", func() {
			inst := decoder.Decode(0x202A)

			Expect(inst.Op).To(Equal(insts.OpMOVImm))
			Expect(inst.Rd).To(Equal(insts.Reg(0)))
			Expect(inst.Imm).To(Equal(uint32(42)))
		})
	})

	Describe("Data processing", func() {
		// TST R0, R1         -> 0x4208
		// Encoding: 0100001000 | Rm=001 | Rn=000
		It("should bind Rn and Rm for TST", func() {
			inst := decoder.Decode(0x4208)

			Expect(inst.Op).To(Equal(insts.OpTST))
			Expect(inst.Format).To(Equal(insts.FormatALU))
			Expect(inst.Rn).To(Equal(insts.Reg(0)))
			Expect(inst.Rm).To(Equal(insts.Reg(1)))
		})

		// RSBS R0, R1, #0    -> 0x4248
		// Encoding: 0100001001 | Rn=001 | Rd=000
		It("should bind Rn from the upper field for RSB", func() {
			inst := decoder.Decode(0x4248)

			Expect(inst.Op).To(Equal(insts.OpRSBImm))
			Expect(inst.Rn).To(Equal(insts.Reg(1)))
			Expect(inst.Rd).To(Equal(insts.Reg(0)))
		})

		// MULS R0, R1, R0    -> 0x4348
		It("should not match MUL", func() {
			inst := decoder.Decode(0x4348)

			Expect(inst.Op).To(Equal(insts.OpUnknown))
			Expect(inst.Format).To(Equal(insts.FormatUnknown))
			Expect(inst.Word).To(Equal(uint16(0x4348)))
		})
	})

	Describe("High register operations", func() {
		// ADD R10, R3        -> 0x449A
		// Encoding: 01000100 | D=1 | Rm=0011 | Rdn=010
		It("should bind the selector and the low field separately", func() {
			inst := decoder.Decode(0x449A)

			Expect(inst.Op).To(Equal(insts.OpADDHi))
			Expect(inst.Flag).To(BeTrue())
			Expect(inst.Rd).To(Equal(insts.Reg(2)))
			Expect(inst.Rm).To(Equal(insts.Reg(3)))
		})

		// CMP SP, R1         -> 0x458D
		It("should bind Rn for CMP (reg, T2)", func() {
			inst := decoder.Decode(0x458D)

			Expect(inst.Op).To(Equal(insts.OpCMPHi))
			Expect(inst.Flag).To(BeTrue())
			Expect(inst.Rn).To(Equal(insts.Reg(5)))
			Expect(inst.Rm).To(Equal(insts.Reg(1)))
		})

		// BX LR              -> 0x4770
		It("should decode BX", func() {
			inst := decoder.Decode(0x4770)

			Expect(inst.Op).To(Equal(insts.OpBX))
			Expect(inst.Rm).To(Equal(insts.RegLR))
		})

		// BLX R3             -> 0x4798
		It("should decode BLX (reg)", func() {
			inst := decoder.Decode(0x4798)

			Expect(inst.Op).To(Equal(insts.OpBLX))
			Expect(inst.Rm).To(Equal(insts.Reg(3)))
		})

		It("should reject BX with non-zero low bits", func() {
			Expect(decoder.Decode(0x4771).Op).To(Equal(insts.OpUnknown))
			Expect(decoder.Decode(0x4774).Op).To(Equal(insts.OpUnknown))
		})
	})

	Describe("Loads and stores", func() {
		// LDR R0, [PC, #4]   -> 0x4801
		It("should decode LDR (literal)", func() {
			inst := decoder.Decode(0x4801)

			Expect(inst.Op).To(Equal(insts.OpLDRLit))
			Expect(inst.Rt).To(Equal(insts.Reg(0)))
			Expect(inst.Imm).To(Equal(uint32(1)))
		})

		// LDRH R0, [R1, R2]  -> 0x5A88
		It("should decode LDRH (reg)", func() {
			inst := decoder.Decode(0x5A88)

			Expect(inst.Op).To(Equal(insts.OpLDRHReg))
			Expect(inst.Format).To(Equal(insts.FormatLoadStoreReg))
			Expect(inst.Rt).To(Equal(insts.Reg(0)))
			Expect(inst.Rn).To(Equal(insts.Reg(1)))
			Expect(inst.Rm).To(Equal(insts.Reg(2)))
		})

		// STRH R0, [R1, #6]  -> 0x80C8
		// Encoding: 10000 | imm5=00011 | Rn=001 | Rt=000
		It("should keep the immediate unscaled", func() {
			inst := decoder.Decode(0x80C8)

			Expect(inst.Op).To(Equal(insts.OpSTRHImm))
			Expect(inst.Imm).To(Equal(uint32(3)))
		})

		// LDR R3, [SP, #8]   -> 0x9B02
		It("should decode LDR (imm, T2)", func() {
			inst := decoder.Decode(0x9B02)

			Expect(inst.Op).To(Equal(insts.OpLDRSP))
			Expect(inst.Rt).To(Equal(insts.Reg(3)))
			Expect(inst.Imm).To(Equal(uint32(2)))
		})
	})

	Describe("Miscellaneous", func() {
		// SUB SP, SP, #8     -> 0xB082
		It("should decode SUB (SP minus imm)", func() {
			inst := decoder.Decode(0xB082)

			Expect(inst.Op).To(Equal(insts.OpSUBSP))
			Expect(inst.Imm).To(Equal(uint32(2)))
		})

		// PUSH {R0, LR}      -> 0xB501
		It("should bind the M bit and the low register list for PUSH", func() {
			inst := decoder.Decode(0xB501)

			Expect(inst.Op).To(Equal(insts.OpPUSH))
			Expect(inst.Flag).To(BeTrue())
			Expect(inst.RegList).To(Equal(insts.RegList(0x01)))
		})

		// POP {R4}           -> 0xBC10
		It("should bind the P bit for POP", func() {
			inst := decoder.Decode(0xBC10)

			Expect(inst.Op).To(Equal(insts.OpPOP))
			Expect(inst.Flag).To(BeFalse())
			Expect(inst.RegList).To(Equal(insts.RegList(0x10)))
		})

		It("should decode SETEND", func() {
			Expect(decoder.Decode(0xB658).Flag).To(BeTrue())
			Expect(decoder.Decode(0xB650).Flag).To(BeFalse())
			Expect(decoder.Decode(0xB650).Op).To(Equal(insts.OpSETEND))
		})

		It("should not match encodings outside the supported set", func() {
			// CBZ, BKPT, NOP, CPS and REV with op=10
			for _, word := range []uint16{0xB100, 0xBE00, 0xBF00, 0xB662, 0xBA88} {
				Expect(decoder.Decode(word).Op).To(Equal(insts.OpUnknown), "word %#04x", word)
			}
		})

		// LDMIA R0!, {R1}    -> 0xC802
		It("should decode LDMIA", func() {
			inst := decoder.Decode(0xC802)

			Expect(inst.Op).To(Equal(insts.OpLDMIA))
			Expect(inst.Rn).To(Equal(insts.Reg(0)))
			Expect(inst.RegList).To(Equal(insts.RegList(0x02)))
		})
	})

	Describe("Exceptions and branches", func() {
		It("should give UDF and SVC priority over B (T1)", func() {
			Expect(decoder.Decode(0xDE00).Op).To(Equal(insts.OpUDF))
			Expect(decoder.Decode(0xDF12).Op).To(Equal(insts.OpSVC))
			Expect(decoder.Decode(0xDF12).Imm).To(Equal(uint32(0x12)))
		})

		// BNE -8             -> 0xD1FA
		It("should decode B (T1)", func() {
			inst := decoder.Decode(0xD1FA)

			Expect(inst.Op).To(Equal(insts.OpBCond))
			Expect(inst.Format).To(Equal(insts.FormatBranchCond))
			Expect(inst.Cond).To(Equal(insts.CondNE))
			Expect(inst.Imm).To(Equal(uint32(0xFA)))
		})

		It("should never bind AL or NV to B (T1)", func() {
			for word := 0xD000; word <= 0xDFFF; word++ {
				inst := decoder.Decode(uint16(word))
				if inst.Op == insts.OpBCond {
					Expect(inst.Cond).To(BeNumerically("<", insts.CondAL))
				}
			}
		})

		// B +2               -> 0xE7FF
		It("should decode B (T2)", func() {
			inst := decoder.Decode(0xE7FF)

			Expect(inst.Op).To(Equal(insts.OpB))
			Expect(inst.Imm).To(Equal(uint32(0x7FF)))
		})

		It("should not match 32-bit prefixes", func() {
			Expect(decoder.Decode(0xE800).Op).To(Equal(insts.OpUnknown))
			Expect(decoder.Decode(0xF000).Op).To(Equal(insts.OpUnknown))
			Expect(decoder.Decode(0xF800).Op).To(Equal(insts.OpUnknown))
		})
	})

	Describe("Dispatch table", func() {
		It("should reach every encoding from some word", func() {
			seen := map[insts.Op]bool{}
			for word := 0; word <= 0xFFFF; word++ {
				seen[decoder.Decode(uint16(word)).Op] = true
			}

			for _, op := range insts.Encodings() {
				Expect(seen).To(HaveKey(op), "encoding %v is shadowed", op)
			}
		})

		It("should list each encoding once", func() {
			ops := insts.Encodings()
			unique := map[insts.Op]bool{}
			for _, op := range ops {
				unique[op] = true
			}

			Expect(unique).To(HaveLen(len(ops)))
			Expect(ops).To(HaveLen(68))
			Expect(ops).NotTo(ContainElement(insts.OpUnknown))
		})

		It("should keep every immediate inside its field width", func() {
			widths := map[insts.Format]uint32{
				insts.FormatShiftImm:     0x1F,
				insts.FormatAddSubImm3:   0x7,
				insts.FormatImm8:         0xFF,
				insts.FormatLoadLiteral:  0xFF,
				insts.FormatLoadStoreImm: 0x1F,
				insts.FormatLoadStoreSP:  0xFF,
				insts.FormatAddress:      0xFF,
				insts.FormatAdjustSP:     0x7F,
				insts.FormatException:    0xFF,
				insts.FormatBranchCond:   0xFF,
				insts.FormatBranch:       0x7FF,
			}

			for word := 0; word <= 0xFFFF; word++ {
				inst := decoder.Decode(uint16(word))
				if limit, ok := widths[inst.Format]; ok {
					Expect(inst.Imm).To(BeNumerically("<=", limit))
				}
				Expect(uint32(inst.RegList)).To(BeNumerically("<=", 0xFF))
			}
		})
	})
})
