// Package cpu implements the Intel 8080 instruction set: registers, flags,
// the opcode decode table, and host-driven interrupt delivery (spec.md §3,
// §4). It owns no notion of a video frame, a keyboard, or a shift register —
// those live in package invaders, which supplies the io.Bus and memory.Bank
// this core calls through.
package cpu

import (
	"fmt"
	"math/bits"

	"github.com/jmchacon/i8080invaders/io"
	"github.com/jmchacon/i8080invaders/irq"
	"github.com/jmchacon/i8080invaders/memory"
)

// Flag bit positions within F, per the table in spec.md §4.2. Bits 5, 3 and 1
// are not named flags: 5 and 3 always read 0, bit 1 always reads 1.
const (
	FlagC  uint8 = 1 << 0
	flag1  uint8 = 1 << 1
	FlagP  uint8 = 1 << 2
	flag3  uint8 = 1 << 3
	FlagAC uint8 = 1 << 4
	flag5  uint8 = 1 << 5
	FlagZ  uint8 = 1 << 6
	FlagS  uint8 = 1 << 7
)

// InvalidCPUState is returned by Init when given an unusable ChipDef, and by
// Tick if the decode table is ever asked to run an opcode it has no arm for
// (256 arms are defined; this should be unreachable).
type InvalidCPUState struct {
	Reason string
}

func (e InvalidCPUState) Error() string {
	return fmt.Sprintf("invalid cpu state: %s", e.Reason)
}

// Chip is one Intel 8080. The zero value is not usable; build one with Init.
type Chip struct {
	A, B, C, D, E, H, L, F uint8
	SP, PC                 uint16

	interruptsEnabled bool
	cycles            uint64

	mem memory.Bank
}

// ChipDef configures a Chip. Ram backs the entire 64 KiB address space the
// core executes and fetches operands against; the host is responsible for
// having loaded a ROM image into it before the first Tick.
type ChipDef struct {
	Ram memory.Bank
}

// Init builds a powered-on Chip per def.
func Init(def *ChipDef) (*Chip, error) {
	if def == nil || def.Ram == nil {
		return nil, InvalidCPUState{Reason: "ChipDef.Ram must be non-nil"}
	}
	c := &Chip{mem: def.Ram}
	c.PowerOn()
	return c, nil
}

// PowerOn resets every register, flag and the interrupt-enable latch to
// zero (F reads 0x02, since its bit 1 is fixed at one), per spec.md §4.1's "all registers and flags start at zero, interrupts
// disabled". It does not touch memory; the host re-loads ROM separately.
func (c *Chip) PowerOn() {
	c.A, c.B, c.C, c.D, c.E, c.H, c.L = 0, 0, 0, 0, 0, 0, 0
	c.setF(0)
	c.SP = 0
	c.PC = 0
	c.interruptsEnabled = false
	c.cycles = 0
}

// Cycles returns the running total of clock cycles Tick has charged.
func (c *Chip) Cycles() uint64 {
	return c.cycles
}

// InterruptsEnabled reports whether EI has run more recently than DI or an
// interrupt delivery.
func (c *Chip) InterruptsEnabled() bool {
	return c.interruptsEnabled
}

// GetFlag reports whether the named flag bit is set in F.
func (c *Chip) GetFlag(mask uint8) bool {
	return c.F&mask != 0
}

// SetFlag sets or clears the named flag bit in F. mask must be one of
// FlagC, FlagP, FlagAC, FlagZ, FlagS; the reserved bits are never touched
// through this path, which is what keeps F canonical (spec.md §4.2 invariant
// 2) without re-deriving it on every read.
func (c *Chip) SetFlag(mask uint8, v bool) {
	if v {
		c.F |= mask
	} else {
		c.F &^= mask
	}
}

// setF installs a raw flag byte (from POP PSW), forcing the reserved bits to
// their fixed values rather than trusting whatever was on the stack.
func (c *Chip) setF(v uint8) {
	c.F = (v & (FlagS | FlagZ | FlagAC | FlagP | FlagC)) | flag1
}

func (c *Chip) getBC() uint16 { return uint16(c.B)<<8 | uint16(c.C) }
func (c *Chip) setBC(v uint16) {
	c.B = uint8(v >> 8)
	c.C = uint8(v)
}

func (c *Chip) getDE() uint16 { return uint16(c.D)<<8 | uint16(c.E) }
func (c *Chip) setDE(v uint16) {
	c.D = uint8(v >> 8)
	c.E = uint8(v)
}

// GetHL returns the H:L register pair.
func (c *Chip) GetHL() uint16 { return uint16(c.H)<<8 | uint16(c.L) }

// SetHL installs the H:L register pair.
func (c *Chip) SetHL(v uint16) {
	c.H = uint8(v >> 8)
	c.L = uint8(v)
}

// GetBC returns the B:C register pair.
func (c *Chip) GetBC() uint16 { return c.getBC() }

// GetDE returns the D:E register pair.
func (c *Chip) GetDE() uint16 { return c.getDE() }

func (c *Chip) getPSW() uint16 { return uint16(c.A)<<8 | uint16(c.F) }
func (c *Chip) setPSW(v uint16) {
	c.A = uint8(v >> 8)
	c.setF(uint8(v))
}

// String renders a one-line register/flag dump for debug traces and test
// failure messages, in the vein of the teacher's Chip.String equivalent.
func (c *Chip) String() string {
	flagBit := func(set bool, ch byte) byte {
		if set {
			return ch
		}
		return '.'
	}
	flags := []byte{
		flagBit(c.GetFlag(FlagS), 'S'),
		flagBit(c.GetFlag(FlagZ), 'Z'),
		flagBit(c.GetFlag(FlagAC), 'A'),
		flagBit(c.GetFlag(FlagP), 'P'),
		flagBit(c.GetFlag(FlagC), 'C'),
	}
	return fmt.Sprintf("PC=%.4X SP=%.4X A=%.2X B=%.2X C=%.2X D=%.2X E=%.2X H=%.2X L=%.2X F=%s IE=%v",
		c.PC, c.SP, c.A, c.B, c.C, c.D, c.E, c.H, c.L, flags, c.interruptsEnabled)
}

func parityEven(v uint8) bool {
	return bits.OnesCount8(v)%2 == 0
}

// setZSP sets Z, S and P from result, per spec.md §4.3. Every instruction
// that touches these three touches them together.
func (c *Chip) setZSP(result uint8) {
	c.SetFlag(FlagZ, result == 0)
	c.SetFlag(FlagS, result&0x80 != 0)
	c.SetFlag(FlagP, parityEven(result))
}

// add implements the ADD-family flag and result computation shared by
// ADD/ADC/ADI/ACI: 8-bit sum with carry-in, setting Z/S/P/AC/C.
func (c *Chip) add(a, operand uint8, carryIn uint8) uint8 {
	ac := int(a&0x0F)+int(operand&0x0F)+int(carryIn) > 0x0F
	sum := int(a) + int(operand) + int(carryIn)
	res := uint8(sum)
	c.setZSP(res)
	c.SetFlag(FlagAC, ac)
	c.SetFlag(FlagC, sum > 0xFF)
	return res
}

// sub implements the SUB-family flag and result computation shared by
// SUB/SBB/SUI/SBI/CMP/CPI: C set on borrow, AC set when no half-borrow
// occurred (spec.md §4.3).
func (c *Chip) sub(a, operand uint8, carryIn uint8) uint8 {
	acNoBorrow := int(a&0x0F) >= int(operand&0x0F)+int(carryIn)
	diff := int(a) - int(operand) - int(carryIn)
	res := uint8(diff)
	c.setZSP(res)
	c.SetFlag(FlagAC, acNoBorrow)
	c.SetFlag(FlagC, diff < 0)
	return res
}

func (c *Chip) inr(v uint8) uint8 {
	ac := int(v&0x0F)+1 > 0x0F
	res := v + 1
	c.setZSP(res)
	c.SetFlag(FlagAC, ac)
	return res
}

func (c *Chip) dcr(v uint8) uint8 {
	acNoBorrow := int(v&0x0F) >= 1
	res := v - 1
	c.setZSP(res)
	c.SetFlag(FlagAC, acNoBorrow)
	return res
}

func (c *Chip) dad(rp uint16) {
	sum := uint32(c.GetHL()) + uint32(rp)
	c.SetHL(uint16(sum))
	c.SetFlag(FlagC, sum > 0xFFFF)
}

// getReg8/setReg8 implement the 3-bit register index used throughout the
// MOV and ALU matrices: 0-5 are B,C,D,E,H,L, 6 is memory through HL (the
// "M" pseudo-register), 7 is A (spec.md §4.4).
func (c *Chip) getReg8(idx uint8) uint8 {
	switch idx & 7 {
	case 0:
		return c.B
	case 1:
		return c.C
	case 2:
		return c.D
	case 3:
		return c.E
	case 4:
		return c.H
	case 5:
		return c.L
	case 6:
		return c.mem.Read(c.GetHL())
	default:
		return c.A
	}
}

func (c *Chip) setReg8(idx uint8, v uint8) {
	switch idx & 7 {
	case 0:
		c.B = v
	case 1:
		c.C = v
	case 2:
		c.D = v
	case 3:
		c.E = v
	case 4:
		c.H = v
	case 5:
		c.L = v
	case 6:
		c.mem.Write(c.GetHL(), v)
	default:
		c.A = v
	}
}

func (c *Chip) fetch8() uint8 {
	v := c.mem.Read(c.PC)
	c.PC++
	return v
}

func (c *Chip) fetch16() uint16 {
	lo := c.fetch8()
	hi := c.fetch8()
	return uint16(hi)<<8 | uint16(lo)
}

func (c *Chip) push16(v uint16) {
	c.SP -= 2
	c.mem.Write(c.SP, uint8(v))
	c.mem.Write(c.SP+1, uint8(v>>8))
}

func (c *Chip) pop16() uint16 {
	lo := c.mem.Read(c.SP)
	hi := c.mem.Read(c.SP + 1)
	c.SP += 2
	return uint16(hi)<<8 | uint16(lo)
}

// condTrue evaluates one of the eight 3-bit condition codes used by the
// conditional J/C/R opcodes: NZ,Z,NC,C,PO,PE,P,M in that index order.
func (c *Chip) condTrue(cc uint8) bool {
	switch cc & 7 {
	case 0:
		return !c.GetFlag(FlagZ)
	case 1:
		return c.GetFlag(FlagZ)
	case 2:
		return !c.GetFlag(FlagC)
	case 3:
		return c.GetFlag(FlagC)
	case 4:
		return !c.GetFlag(FlagP)
	case 5:
		return c.GetFlag(FlagP)
	case 6:
		return !c.GetFlag(FlagS)
	default:
		return c.GetFlag(FlagS)
	}
}

// Interrupt delivers an RST-equivalent interrupt at the given vector: it
// pushes PC and jumps to vector.Addr(), then clears the interrupt-enable
// latch exactly as DI would. A no-op if interrupts are currently disabled.
// No cycles are charged here; the frame driver accounts for interrupt
// delivery itself (spec.md §4.5). Interrupt must never be called from
// within Tick, so delivery is always between, never inside, instructions.
func (c *Chip) Interrupt(v irq.Vector) {
	if !c.interruptsEnabled {
		return
	}
	c.interruptsEnabled = false
	c.push16(c.PC)
	c.PC = v.Addr()
}

// Tick executes exactly one instruction at PC and returns the number of
// clock cycles it cost, per the table in spec.md §4.4. bus answers any
// IN/OUT the instruction performs.
func (c *Chip) Tick(bus io.Bus) (int, error) {
	op := c.fetch8()
	cycles, err := c.execute(op, bus)
	c.cycles += uint64(cycles)
	return cycles, err
}

func (c *Chip) execute(op uint8, bus io.Bus) (int, error) {
	switch {
	case op >= 0x40 && op <= 0x7F && op != 0x76:
		return c.execMOV(op)
	case op >= 0x80 && op <= 0xBF:
		return c.execALU(op)
	}

	switch op {
	case 0x00, 0x08, 0x10, 0x18, 0x20, 0x28, 0x30, 0x38, 0xCB, 0xD9, 0xDD, 0xED, 0xFD:
		// NOP and the undocumented duplicate opcodes: spec.md §3's
		// instruction-length table has no 2- or 3-byte entry for any of
		// these, so all twelve decode as a plain 1-byte, 4-cycle NOP.
		return 4, nil

	case 0x01: // LXI B,d16
		c.setBC(c.fetch16())
		return 10, nil
	case 0x11: // LXI D,d16
		c.setDE(c.fetch16())
		return 10, nil
	case 0x21: // LXI H,d16
		c.SetHL(c.fetch16())
		return 10, nil
	case 0x31: // LXI SP,d16
		c.SP = c.fetch16()
		return 10, nil

	case 0x02: // STAX B
		c.mem.Write(c.getBC(), c.A)
		return 7, nil
	case 0x12: // STAX D
		c.mem.Write(c.getDE(), c.A)
		return 7, nil
	case 0x0A: // LDAX B
		c.A = c.mem.Read(c.getBC())
		return 7, nil
	case 0x1A: // LDAX D
		c.A = c.mem.Read(c.getDE())
		return 7, nil

	case 0x03: // INX B
		c.setBC(c.getBC() + 1)
		return 5, nil
	case 0x13: // INX D
		c.setDE(c.getDE() + 1)
		return 5, nil
	case 0x23: // INX H
		c.SetHL(c.GetHL() + 1)
		return 5, nil
	case 0x33: // INX SP
		c.SP++
		return 5, nil
	case 0x0B: // DCX B
		c.setBC(c.getBC() - 1)
		return 5, nil
	case 0x1B: // DCX D
		c.setDE(c.getDE() - 1)
		return 5, nil
	case 0x2B: // DCX H
		c.SetHL(c.GetHL() - 1)
		return 5, nil
	case 0x3B: // DCX SP
		c.SP--
		return 5, nil

	case 0x04: // INR B
		c.B = c.inr(c.B)
		return 5, nil
	case 0x0C: // INR C
		c.C = c.inr(c.C)
		return 5, nil
	case 0x14: // INR D
		c.D = c.inr(c.D)
		return 5, nil
	case 0x1C: // INR E
		c.E = c.inr(c.E)
		return 5, nil
	case 0x24: // INR H
		c.H = c.inr(c.H)
		return 5, nil
	case 0x2C: // INR L
		c.L = c.inr(c.L)
		return 5, nil
	case 0x34: // INR M
		c.mem.Write(c.GetHL(), c.inr(c.mem.Read(c.GetHL())))
		return 10, nil
	case 0x3C: // INR A
		c.A = c.inr(c.A)
		return 5, nil

	case 0x05: // DCR B
		c.B = c.dcr(c.B)
		return 5, nil
	case 0x0D: // DCR C
		c.C = c.dcr(c.C)
		return 5, nil
	case 0x15: // DCR D
		c.D = c.dcr(c.D)
		return 5, nil
	case 0x1D: // DCR E
		c.E = c.dcr(c.E)
		return 5, nil
	case 0x25: // DCR H
		c.H = c.dcr(c.H)
		return 5, nil
	case 0x2D: // DCR L
		c.L = c.dcr(c.L)
		return 5, nil
	case 0x35: // DCR M
		c.mem.Write(c.GetHL(), c.dcr(c.mem.Read(c.GetHL())))
		return 10, nil
	case 0x3D: // DCR A
		c.A = c.dcr(c.A)
		return 5, nil

	case 0x06: // MVI B,d8
		c.B = c.fetch8()
		return 7, nil
	case 0x0E: // MVI C,d8
		c.C = c.fetch8()
		return 7, nil
	case 0x16: // MVI D,d8
		c.D = c.fetch8()
		return 7, nil
	case 0x1E: // MVI E,d8
		c.E = c.fetch8()
		return 7, nil
	case 0x26: // MVI H,d8
		c.H = c.fetch8()
		return 7, nil
	case 0x2E: // MVI L,d8
		c.L = c.fetch8()
		return 7, nil
	case 0x36: // MVI M,d8
		c.mem.Write(c.GetHL(), c.fetch8())
		return 10, nil
	case 0x3E: // MVI A,d8
		c.A = c.fetch8()
		return 7, nil

	case 0x07: // RLC
		bit7 := c.A&0x80 != 0
		c.A = c.A << 1
		if bit7 {
			c.A |= 0x01
		}
		c.SetFlag(FlagC, bit7)
		return 4, nil
	case 0x0F: // RRC
		bit0 := c.A&0x01 != 0
		c.A = c.A >> 1
		if bit0 {
			c.A |= 0x80
		}
		c.SetFlag(FlagC, bit0)
		return 4, nil
	case 0x17: // RAL
		bit7 := c.A&0x80 != 0
		carryIn := c.GetFlag(FlagC)
		c.A = c.A << 1
		if carryIn {
			c.A |= 0x01
		}
		c.SetFlag(FlagC, bit7)
		return 4, nil
	case 0x1F: // RAR
		bit0 := c.A&0x01 != 0
		carryIn := c.GetFlag(FlagC)
		c.A = c.A >> 1
		if carryIn {
			c.A |= 0x80
		}
		c.SetFlag(FlagC, bit0)
		return 4, nil

	case 0x09: // DAD B
		c.dad(c.getBC())
		return 10, nil
	case 0x19: // DAD D
		c.dad(c.getDE())
		return 10, nil
	case 0x29: // DAD H
		c.dad(c.GetHL())
		return 10, nil
	case 0x39: // DAD SP
		c.dad(c.SP)
		return 10, nil

	case 0x22: // SHLD a16
		addr := c.fetch16()
		c.mem.Write(addr, c.L)
		c.mem.Write(addr+1, c.H)
		return 16, nil
	case 0x2A: // LHLD a16
		addr := c.fetch16()
		c.L = c.mem.Read(addr)
		c.H = c.mem.Read(addr + 1)
		return 16, nil
	case 0x32: // STA a16
		c.mem.Write(c.fetch16(), c.A)
		return 13, nil
	case 0x3A: // LDA a16
		c.A = c.mem.Read(c.fetch16())
		return 13, nil

	case 0x27: // DAA
		// Decimal adjust is out of scope (spec.md §7); stubbed as a NOP at
		// the documented cycle cost and length.
		return 4, nil
	case 0x2F: // CMA
		c.A = ^c.A
		return 4, nil
	case 0x37: // STC
		c.SetFlag(FlagC, true)
		return 4, nil
	case 0x3F: // CMC
		c.SetFlag(FlagC, !c.GetFlag(FlagC))
		return 4, nil

	case 0x76: // HLT
		// Stubbed as a NOP (spec.md §7): the game's ROM never executes it.
		return 7, nil

	case 0xC0: // RNZ
		return c.condRet(c.condTrue(0))
	case 0xC8: // RZ
		return c.condRet(c.condTrue(1))
	case 0xD0: // RNC
		return c.condRet(c.condTrue(2))
	case 0xD8: // RC
		return c.condRet(c.condTrue(3))
	case 0xE0: // RPO
		return c.condRet(c.condTrue(4))
	case 0xE8: // RPE
		return c.condRet(c.condTrue(5))
	case 0xF0: // RP
		return c.condRet(c.condTrue(6))
	case 0xF8: // RM
		return c.condRet(c.condTrue(7))
	case 0xC9: // RET
		c.PC = c.pop16()
		return 10, nil

	case 0xC1: // POP B
		c.setBC(c.pop16())
		return 10, nil
	case 0xD1: // POP D
		c.setDE(c.pop16())
		return 10, nil
	case 0xE1: // POP H
		c.SetHL(c.pop16())
		return 10, nil
	case 0xF1: // POP PSW
		c.setPSW(c.pop16())
		return 10, nil

	case 0xC5: // PUSH B
		c.push16(c.getBC())
		return 11, nil
	case 0xD5: // PUSH D
		c.push16(c.getDE())
		return 11, nil
	case 0xE5: // PUSH H
		c.push16(c.GetHL())
		return 11, nil
	case 0xF5: // PUSH PSW
		c.push16(c.getPSW())
		return 11, nil

	case 0xC2: // JNZ a16
		return c.condJump(c.condTrue(0))
	case 0xCA: // JZ a16
		return c.condJump(c.condTrue(1))
	case 0xD2: // JNC a16
		return c.condJump(c.condTrue(2))
	case 0xDA: // JC a16
		return c.condJump(c.condTrue(3))
	case 0xE2: // JPO a16
		return c.condJump(c.condTrue(4))
	case 0xEA: // JPE a16
		return c.condJump(c.condTrue(5))
	case 0xF2: // JP a16
		return c.condJump(c.condTrue(6))
	case 0xFA: // JM a16
		return c.condJump(c.condTrue(7))
	case 0xC3: // JMP a16
		c.PC = c.fetch16()
		return 10, nil

	case 0xC4: // CNZ a16
		return c.condCall(c.condTrue(0))
	case 0xCC: // CZ a16
		return c.condCall(c.condTrue(1))
	case 0xD4: // CNC a16
		return c.condCall(c.condTrue(2))
	case 0xDC: // CC a16
		return c.condCall(c.condTrue(3))
	case 0xE4: // CPO a16
		return c.condCall(c.condTrue(4))
	case 0xEC: // CPE a16
		return c.condCall(c.condTrue(5))
	case 0xF4: // CP a16
		return c.condCall(c.condTrue(6))
	case 0xFC: // CM a16
		return c.condCall(c.condTrue(7))
	case 0xCD: // CALL a16
		addr := c.fetch16()
		c.push16(c.PC)
		c.PC = addr
		return 17, nil

	case 0xC7: // RST 0
		c.doRST(0)
		return 11, nil
	case 0xCF: // RST 1
		c.doRST(1)
		return 11, nil
	case 0xD7: // RST 2
		c.doRST(2)
		return 11, nil
	case 0xDF: // RST 3
		c.doRST(3)
		return 11, nil
	case 0xE7: // RST 4
		c.doRST(4)
		return 11, nil
	case 0xEF: // RST 5
		c.doRST(5)
		return 11, nil
	case 0xF7: // RST 6
		c.doRST(6)
		return 11, nil
	case 0xFF: // RST 7
		c.doRST(7)
		return 11, nil

	case 0xC6: // ADI d8
		c.A = c.add(c.A, c.fetch8(), 0)
		return 7, nil
	case 0xCE: // ACI d8
		c.A = c.add(c.A, c.fetch8(), carryBit(c.GetFlag(FlagC)))
		return 7, nil
	case 0xD6: // SUI d8
		c.A = c.sub(c.A, c.fetch8(), 0)
		return 7, nil
	case 0xDE: // SBI d8
		c.A = c.sub(c.A, c.fetch8(), carryBit(c.GetFlag(FlagC)))
		return 7, nil
	case 0xE6: // ANI d8
		operand := c.fetch8()
		ac := (c.A|operand)&0x08 != 0
		c.A &= operand
		c.setZSP(c.A)
		c.SetFlag(FlagC, false)
		c.SetFlag(FlagAC, ac)
		return 7, nil
	case 0xEE: // XRI d8
		c.A ^= c.fetch8()
		c.setZSP(c.A)
		c.SetFlag(FlagC, false)
		c.SetFlag(FlagAC, false)
		return 7, nil
	case 0xF6: // ORI d8
		c.A |= c.fetch8()
		c.setZSP(c.A)
		c.SetFlag(FlagC, false)
		c.SetFlag(FlagAC, false)
		return 7, nil
	case 0xFE: // CPI d8
		c.sub(c.A, c.fetch8(), 0)
		return 7, nil

	case 0xE3: // XTHL
		lo := c.mem.Read(c.SP)
		hi := c.mem.Read(c.SP + 1)
		c.mem.Write(c.SP, c.L)
		c.mem.Write(c.SP+1, c.H)
		c.L, c.H = lo, hi
		return 18, nil
	case 0xEB: // XCHG
		c.D, c.H = c.H, c.D
		c.E, c.L = c.L, c.E
		return 5, nil
	case 0xE9: // PCHL
		c.PC = c.GetHL()
		return 5, nil
	case 0xF9: // SPHL
		c.SP = c.GetHL()
		return 5, nil

	case 0xD3: // OUT d8
		bus.Output(c.fetch8(), c.A)
		return 10, nil
	case 0xDB: // IN d8
		c.A = bus.Input(c.fetch8())
		return 10, nil

	case 0xF3: // DI
		c.interruptsEnabled = false
		return 4, nil
	case 0xFB: // EI
		c.interruptsEnabled = true
		return 4, nil
	}

	return 0, InvalidCPUState{Reason: fmt.Sprintf("unreachable opcode %.2X", op)}
}

func carryBit(set bool) uint8 {
	if set {
		return 1
	}
	return 0
}

func (c *Chip) condRet(taken bool) (int, error) {
	if taken {
		c.PC = c.pop16()
		return 11, nil
	}
	return 5, nil
}

func (c *Chip) condJump(taken bool) (int, error) {
	addr := c.fetch16()
	if taken {
		c.PC = addr
	}
	return 10, nil
}

func (c *Chip) condCall(taken bool) (int, error) {
	addr := c.fetch16()
	if taken {
		c.push16(c.PC)
		c.PC = addr
		return 17, nil
	}
	return 11, nil
}

func (c *Chip) doRST(n uint8) {
	c.push16(c.PC)
	c.PC = irq.Vector(n).Addr()
}

// execMOV handles the 0x40-0x7F block: MOV dst,src for every (dst,src) pair
// of B,C,D,E,H,L,M,A, except 0x76 which is HLT (handled in execute).
func (c *Chip) execMOV(op uint8) (int, error) {
	dst := (op >> 3) & 7
	src := op & 7
	c.setReg8(dst, c.getReg8(src))
	if dst == 6 || src == 6 {
		return 7, nil
	}
	return 5, nil
}

// execALU handles the 0x80-0xBF block: an 8-bit ALU op (ADD,ADC,SUB,SBB,
// ANA,XRA,ORA,CMP in that bit-field order) against one of B,C,D,E,H,L,M,A.
func (c *Chip) execALU(op uint8) (int, error) {
	aluOp := (op >> 3) & 7
	src := op & 7
	operand := c.getReg8(src)
	cycles := 4
	if src == 6 {
		cycles = 7
	}
	switch aluOp {
	case 0: // ADD
		c.A = c.add(c.A, operand, 0)
	case 1: // ADC
		c.A = c.add(c.A, operand, carryBit(c.GetFlag(FlagC)))
	case 2: // SUB
		c.A = c.sub(c.A, operand, 0)
	case 3: // SBB
		c.A = c.sub(c.A, operand, carryBit(c.GetFlag(FlagC)))
	case 4: // ANA
		res := c.A & operand
		c.SetFlag(FlagAC, (c.A|operand)&0x08 != 0)
		c.A = res
		c.setZSP(c.A)
		c.SetFlag(FlagC, false)
	case 5: // XRA
		c.A ^= operand
		c.setZSP(c.A)
		c.SetFlag(FlagC, false)
		c.SetFlag(FlagAC, false)
	case 6: // ORA
		c.A |= operand
		c.setZSP(c.A)
		c.SetFlag(FlagC, false)
		c.SetFlag(FlagAC, false)
	case 7: // CMP
		c.sub(c.A, operand, 0)
	}
	return cycles, nil
}
