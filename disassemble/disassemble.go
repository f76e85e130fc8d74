// Package disassemble implements a disassembler for Intel 8080 opcodes.
package disassemble

import (
	"fmt"

	"github.com/jmchacon/i8080invaders/memory"
)

var regNames = [8]string{"B", "C", "D", "E", "H", "L", "M", "A"}
var rpNamesDAD = [4]string{"B", "D", "H", "SP"}
var rpNamesPUSHPOP = [4]string{"B", "D", "H", "PSW"}
var condNames = [8]string{"NZ", "Z", "NC", "C", "PO", "PE", "P", "M"}

var dupOpcodes = map[uint8]bool{
	0x08: true, 0x10: true, 0x18: true, 0x20: true, 0x28: true, 0x30: true, 0x38: true,
	0xCB: true, 0xD9: true, 0xDD: true, 0xED: true, 0xFD: true,
}

// Step disassembles the instruction at pc and returns its mnemonic text and
// the number of bytes it occupies. It does not follow jumps or calls; a JMP
// in memory disassembles as "JMP nnnn", nothing more.
func Step(pc uint16, r memory.Bank) (string, int) {
	op := r.Read(pc)

	if dupOpcodes[op] {
		return fmt.Sprintf("NOP*        ; dup of %.2X", op), 1
	}

	if op >= 0x40 && op <= 0x7F {
		if op == 0x76 {
			return "HLT", 1
		}
		dst := regNames[(op>>3)&7]
		src := regNames[op&7]
		return fmt.Sprintf("MOV  %s,%s", dst, src), 1
	}

	if op >= 0x80 && op <= 0xBF {
		names := [8]string{"ADD", "ADC", "SUB", "SBB", "ANA", "XRA", "ORA", "CMP"}
		mnem := names[(op>>3)&7]
		src := regNames[op&7]
		return fmt.Sprintf("%s  %s", mnem, src), 1
	}

	imm8 := func() uint8 { return r.Read(pc + 1) }
	imm16 := func() uint16 { return uint16(r.Read(pc+2))<<8 | uint16(r.Read(pc+1)) }

	switch op {
	case 0x00:
		return "NOP", 1
	case 0x01, 0x11, 0x21, 0x31:
		return fmt.Sprintf("LXI  %s,%.4X", rpNamesDAD[op>>4], imm16()), 3
	case 0x02:
		return "STAX B", 1
	case 0x12:
		return "STAX D", 1
	case 0x0A:
		return "LDAX B", 1
	case 0x1A:
		return "LDAX D", 1
	case 0x03, 0x13, 0x23, 0x33:
		return fmt.Sprintf("INX  %s", rpNamesDAD[op>>4]), 1
	case 0x0B, 0x1B, 0x2B, 0x3B:
		return fmt.Sprintf("DCX  %s", rpNamesDAD[op>>4]), 1
	case 0x04, 0x0C, 0x14, 0x1C, 0x24, 0x2C, 0x34, 0x3C:
		return fmt.Sprintf("INR  %s", regNames[(op>>3)&7]), 1
	case 0x05, 0x0D, 0x15, 0x1D, 0x25, 0x2D, 0x35, 0x3D:
		return fmt.Sprintf("DCR  %s", regNames[(op>>3)&7]), 1
	case 0x06, 0x0E, 0x16, 0x1E, 0x26, 0x2E, 0x36, 0x3E:
		return fmt.Sprintf("MVI  %s,%.2X", regNames[(op>>3)&7], imm8()), 2
	case 0x07:
		return "RLC", 1
	case 0x0F:
		return "RRC", 1
	case 0x17:
		return "RAL", 1
	case 0x1F:
		return "RAR", 1
	case 0x09, 0x19, 0x29, 0x39:
		return fmt.Sprintf("DAD  %s", rpNamesDAD[op>>4]), 1
	case 0x22:
		return fmt.Sprintf("SHLD %.4X", imm16()), 3
	case 0x2A:
		return fmt.Sprintf("LHLD %.4X", imm16()), 3
	case 0x32:
		return fmt.Sprintf("STA  %.4X", imm16()), 3
	case 0x3A:
		return fmt.Sprintf("LDA  %.4X", imm16()), 3
	case 0x27:
		return "DAA", 1
	case 0x2F:
		return "CMA", 1
	case 0x37:
		return "STC", 1
	case 0x3F:
		return "CMC", 1
	case 0xC0, 0xC8, 0xD0, 0xD8, 0xE0, 0xE8, 0xF0, 0xF8:
		return fmt.Sprintf("R%s", condNames[(op>>3)&7]), 1
	case 0xC9:
		return "RET", 1
	case 0xC1, 0xD1, 0xE1, 0xF1:
		return fmt.Sprintf("POP  %s", rpNamesPUSHPOP[(op>>4)&3]), 1
	case 0xC5, 0xD5, 0xE5, 0xF5:
		return fmt.Sprintf("PUSH %s", rpNamesPUSHPOP[(op>>4)&3]), 1
	case 0xC2, 0xCA, 0xD2, 0xDA, 0xE2, 0xEA, 0xF2, 0xFA:
		return fmt.Sprintf("J%s  %.4X", condNames[(op>>3)&7], imm16()), 3
	case 0xC3:
		return fmt.Sprintf("JMP  %.4X", imm16()), 3
	case 0xC4, 0xCC, 0xD4, 0xDC, 0xE4, 0xEC, 0xF4, 0xFC:
		return fmt.Sprintf("C%s  %.4X", condNames[(op>>3)&7], imm16()), 3
	case 0xCD:
		return fmt.Sprintf("CALL %.4X", imm16()), 3
	case 0xC7, 0xCF, 0xD7, 0xDF, 0xE7, 0xEF, 0xF7, 0xFF:
		return fmt.Sprintf("RST  %d", (op>>3)&7), 1
	case 0xC6:
		return fmt.Sprintf("ADI  %.2X", imm8()), 2
	case 0xCE:
		return fmt.Sprintf("ACI  %.2X", imm8()), 2
	case 0xD6:
		return fmt.Sprintf("SUI  %.2X", imm8()), 2
	case 0xDE:
		return fmt.Sprintf("SBI  %.2X", imm8()), 2
	case 0xE6:
		return fmt.Sprintf("ANI  %.2X", imm8()), 2
	case 0xEE:
		return fmt.Sprintf("XRI  %.2X", imm8()), 2
	case 0xF6:
		return fmt.Sprintf("ORI  %.2X", imm8()), 2
	case 0xFE:
		return fmt.Sprintf("CPI  %.2X", imm8()), 2
	case 0xE3:
		return "XTHL", 1
	case 0xEB:
		return "XCHG", 1
	case 0xE9:
		return "PCHL", 1
	case 0xF9:
		return "SPHL", 1
	case 0xD3:
		return fmt.Sprintf("OUT  %.2X", imm8()), 2
	case 0xDB:
		return fmt.Sprintf("IN   %.2X", imm8()), 2
	case 0xF3:
		return "DI", 1
	case 0xFB:
		return "EI", 1
	case 0x76:
		return "HLT", 1
	}

	return fmt.Sprintf("???  (%.2X)", op), 1
}
