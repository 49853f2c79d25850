// Package insts provides Thumb-16 instruction definitions and decoding.
//
// This package matches 16-bit Thumb instruction words against a fixed,
// priority-ordered set of encoding templates and binds the typed fields of
// the first template that matches. It supports:
//   - Shift, add, subtract, move and compare (immediate and register)
//   - Data processing on low registers (AND, EOR, ADC, SBC, ROR, ...)
//   - High register operations and branch-exchange (ADD, CMP, MOV, BX, BLX)
//   - Single loads and stores (literal, register offset, immediate offset, SP)
//   - Address generation and SP adjustment (ADR, ADD/SUB SP)
//   - Extend, reverse, SETEND, PUSH/POP, STMIA/LDMIA
//   - UDF, SVC and the conditional and unconditional short branches
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst := decoder.Decode(0x1C48) // ADDS R0, R1, #1
//	fmt.Printf("Op: %v, Rd: %d, Rn: %d, Imm: %d\n", inst.Op, inst.Rd, inst.Rn, inst.Imm)
package insts
