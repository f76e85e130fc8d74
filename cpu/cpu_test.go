package cpu

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/go-test/deep"

	"github.com/jmchacon/i8080invaders/irq"
	"github.com/jmchacon/i8080invaders/memory"
)

// stubBus answers IN with a fixed byte and records the last OUT it saw.
type stubBus struct {
	in       uint8
	lastPort uint8
	lastVal  uint8
	outCount int
}

func (s *stubBus) Input(port uint8) uint8 {
	s.lastPort = port
	return s.in
}

func (s *stubBus) Output(port uint8, val uint8) {
	s.lastPort = port
	s.lastVal = val
	s.outCount++
}

func newChip(t *testing.T) (*Chip, memory.Bank) {
	t.Helper()
	ram := memory.NewFlat()
	c, err := Init(&ChipDef{Ram: ram})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	return c, ram
}

func step(t *testing.T, c *Chip, ram memory.Bank, prog []uint8) (int, error) {
	t.Helper()
	ram.Load(0, prog)
	n, err := c.Tick(&stubBus{})
	if err != nil {
		t.Fatalf("Tick: %v\n%s", err, spew.Sdump(c))
	}
	return n, err
}

func TestPowerOnIsAllZero(t *testing.T) {
	c, _ := newChip(t)
	want := &Chip{F: flag1, mem: c.mem}
	if diff := deep.Equal(c, want); diff != nil {
		t.Errorf("PowerOn state mismatch: %v\n%s", diff, spew.Sdump(c))
	}
	if c.InterruptsEnabled() {
		t.Errorf("InterruptsEnabled() = true after PowerOn, want false")
	}
}

func TestFlagReservedBitsAlwaysCanonical(t *testing.T) {
	c, _ := newChip(t)
	c.setF(0xFF)
	if got, want := c.F&flag5, uint8(0); got != want {
		t.Errorf("bit5 = %.2X, want %.2X", got, want)
	}
	if got, want := c.F&flag3, uint8(0); got != want {
		t.Errorf("bit3 = %.2X, want %.2X", got, want)
	}
	if got, want := c.F&flag1, flag1; got != want {
		t.Errorf("bit1 = %.2X, want %.2X", got, want)
	}
}

func TestMOVMatrix(t *testing.T) {
	c, ram := newChip(t)
	c.B = 0x42
	// MOV C,B
	if _, err := step(t, c, ram, []uint8{0x48}); err != nil {
		t.Fatal(err)
	}
	if c.C != 0x42 {
		t.Errorf("C = %.2X, want 42", c.C)
	}
}

func TestMOVThroughMemory(t *testing.T) {
	c, ram := newChip(t)
	c.SetHL(0x3000)
	c.B = 0x99
	// MOV M,B
	if _, err := step(t, c, ram, []uint8{0x70}); err != nil {
		t.Fatal(err)
	}
	if got := ram.Read(0x3000); got != 0x99 {
		t.Errorf("mem[0x3000] = %.2X, want 99", got)
	}
}

func TestHLTIsNOP(t *testing.T) {
	c, ram := newChip(t)
	cycles, err := step(t, c, ram, []uint8{0x76})
	if err != nil {
		t.Fatal(err)
	}
	if cycles != 7 {
		t.Errorf("cycles = %d, want 7", cycles)
	}
	if c.PC != 1 {
		t.Errorf("PC = %.4X, want 0001 (HLT must not halt)", c.PC)
	}
}

func TestADDSetsCarryAndZero(t *testing.T) {
	c, ram := newChip(t)
	c.A = 0x80
	c.B = 0x80
	// ADD B
	cycles, err := step(t, c, ram, []uint8{0x80})
	if err != nil {
		t.Fatal(err)
	}
	if cycles != 4 {
		t.Errorf("cycles = %d, want 4", cycles)
	}
	if c.A != 0 {
		t.Errorf("A = %.2X, want 00", c.A)
	}
	if !c.GetFlag(FlagZ) || !c.GetFlag(FlagC) || c.GetFlag(FlagS) || c.GetFlag(FlagAC) {
		t.Errorf("flags after 0x80+0x80 = %s, want Z,C set, S,AC clear", c)
	}
}

func TestSUBSelfIsAlwaysZero(t *testing.T) {
	c, ram := newChip(t)
	c.A = 0x37
	// SUB A
	if _, err := step(t, c, ram, []uint8{0x97}); err != nil {
		t.Fatal(err)
	}
	if c.A != 0 {
		t.Errorf("A = %.2X, want 00", c.A)
	}
	if !c.GetFlag(FlagZ) || c.GetFlag(FlagC) || !c.GetFlag(FlagP) {
		t.Errorf("flags after SUB A = %s, want Z,P set, C clear", c)
	}
}

func TestINRWrapsAndSetsAuxCarry(t *testing.T) {
	c, ram := newChip(t)
	c.A = 0xFF
	c.SetFlag(FlagC, true)
	// INR A
	if _, err := step(t, c, ram, []uint8{0x3C}); err != nil {
		t.Fatal(err)
	}
	if c.A != 0 {
		t.Errorf("A = %.2X, want 00", c.A)
	}
	if !c.GetFlag(FlagZ) || !c.GetFlag(FlagAC) {
		t.Errorf("flags after INR 0xFF = %s, want Z,AC set", c)
	}
	if !c.GetFlag(FlagC) {
		t.Errorf("INR must not touch carry, but it was cleared")
	}
}

func TestDCRDoesNotTouchCarry(t *testing.T) {
	c, ram := newChip(t)
	c.B = 0x01
	c.SetFlag(FlagC, true)
	// DCR B
	if _, err := step(t, c, ram, []uint8{0x05}); err != nil {
		t.Fatal(err)
	}
	if c.B != 0 {
		t.Errorf("B = %.2X, want 00", c.B)
	}
	if !c.GetFlag(FlagC) {
		t.Errorf("DCR must not touch carry, but it was cleared")
	}
}

func TestDADSetsCarryOnly(t *testing.T) {
	c, ram := newChip(t)
	c.SetHL(0xFFFF)
	c.setBC(1)
	before := c.F
	// DAD B
	if _, err := step(t, c, ram, []uint8{0x09}); err != nil {
		t.Fatal(err)
	}
	if c.GetHL() != 0 {
		t.Errorf("HL = %.4X, want 0000", c.GetHL())
	}
	if !c.GetFlag(FlagC) {
		t.Errorf("DAD 0xFFFF+1 must set carry")
	}
	if c.F&^FlagC != before&^FlagC {
		t.Errorf("DAD touched a flag other than carry: before=%.2X after=%.2X", before, c.F)
	}
}

func TestLXIAndSTAXRoundTrip(t *testing.T) {
	c, ram := newChip(t)
	ram.Load(0, []uint8{
		0x01, 0x00, 0x30, // LXI B,0x3000
		0x3E, 0x7A, // MVI A,0x7A
		0x02, // STAX B
	})
	for i := 0; i < 3; i++ {
		if _, err := c.Tick(&stubBus{}); err != nil {
			t.Fatalf("Tick %d: %v", i, err)
		}
	}
	if got := ram.Read(0x3000); got != 0x7A {
		t.Errorf("mem[0x3000] = %.2X, want 7A", got)
	}
}

func TestPUSHPOPPSWRoundTripsCanonicalFlags(t *testing.T) {
	c, ram := newChip(t)
	c.A = 0xAB
	c.SetFlag(FlagZ, true)
	c.SetFlag(FlagC, true)
	c.SP = 0x4000
	ram.Load(0, []uint8{0xF5, 0xF1}) // PUSH PSW; POP PSW
	savedF := c.F
	if _, err := c.Tick(&stubBus{}); err != nil {
		t.Fatal(err)
	}
	c.A, c.F = 0, 0 // clobber before popping back
	if _, err := c.Tick(&stubBus{}); err != nil {
		t.Fatal(err)
	}
	if c.A != 0xAB {
		t.Errorf("A after PUSH/POP PSW = %.2X, want AB", c.A)
	}
	if c.F != savedF {
		t.Errorf("F after PUSH/POP PSW = %.2X, want %.2X", c.F, savedF)
	}
}

func TestConditionalJumpNotTakenStillAdvancesPastOperand(t *testing.T) {
	c, ram := newChip(t)
	c.SetFlag(FlagZ, false)
	ram.Load(0, []uint8{0xCA, 0x00, 0x10}) // JZ 0x1000, not taken
	if _, err := c.Tick(&stubBus{}); err != nil {
		t.Fatal(err)
	}
	if c.PC != 3 {
		t.Errorf("PC = %.4X, want 0003", c.PC)
	}
}

func TestCallAndRetRoundTrip(t *testing.T) {
	c, ram := newChip(t)
	c.SP = 0x4000
	ram.Load(0, []uint8{0xCD, 0x00, 0x10}) // CALL 0x1000
	ram.Load(0x1000, []uint8{0xC9})        // RET
	if _, err := c.Tick(&stubBus{}); err != nil {
		t.Fatal(err)
	}
	if c.PC != 0x1000 {
		t.Errorf("PC after CALL = %.4X, want 1000", c.PC)
	}
	if _, err := c.Tick(&stubBus{}); err != nil {
		t.Fatal(err)
	}
	if c.PC != 3 {
		t.Errorf("PC after RET = %.4X, want 0003", c.PC)
	}
}

func TestRSTPushesReturnAddressAndJumps(t *testing.T) {
	c, ram := newChip(t)
	c.SP = 0x4000
	c.PC = 0x0100
	ram.Load(0x0100, []uint8{0xCF}) // RST 1
	if _, err := c.Tick(&stubBus{}); err != nil {
		t.Fatal(err)
	}
	if c.PC != 8 {
		t.Errorf("PC after RST 1 = %.4X, want 0008", c.PC)
	}
	if got := ram.ReadWord(c.SP); got != 0x0101 {
		t.Errorf("pushed return addr = %.4X, want 0101", got)
	}
}

func TestInterruptNoOpWhenDisabled(t *testing.T) {
	c, _ := newChip(t)
	c.PC = 0x1234
	c.Interrupt(irq.MidScreen)
	if c.PC != 0x1234 {
		t.Errorf("PC moved despite interrupts disabled: %.4X", c.PC)
	}
}

func TestInterruptPushesPCAndClearsEnableLatch(t *testing.T) {
	c, ram := newChip(t)
	c.SP = 0x4000
	c.PC = 0x2000
	c.interruptsEnabled = true
	c.Interrupt(irq.VBlank)
	if c.PC != irq.VBlank.Addr() {
		t.Errorf("PC after Interrupt(VBlank) = %.4X, want %.4X", c.PC, irq.VBlank.Addr())
	}
	if c.InterruptsEnabled() {
		t.Errorf("InterruptsEnabled() = true after delivery, want false")
	}
	if got := ram.ReadWord(c.SP); got != 0x2000 {
		t.Errorf("pushed return addr = %.4X, want 2000", got)
	}
}

func TestEIThenDI(t *testing.T) {
	c, ram := newChip(t)
	ram.Load(0, []uint8{0xFB, 0xF3}) // EI; DI
	if _, err := c.Tick(&stubBus{}); err != nil {
		t.Fatal(err)
	}
	if !c.InterruptsEnabled() {
		t.Errorf("InterruptsEnabled() = false after EI")
	}
	if _, err := c.Tick(&stubBus{}); err != nil {
		t.Fatal(err)
	}
	if c.InterruptsEnabled() {
		t.Errorf("InterruptsEnabled() = true after DI")
	}
}

func TestINAndOUT(t *testing.T) {
	c, ram := newChip(t)
	bus := &stubBus{in: 0x5A}
	ram.Load(0, []uint8{0xDB, 0x01, 0x3E, 0x99, 0xD3, 0x02}) // IN 1; MVI A,99; OUT 2
	if _, err := c.Tick(bus); err != nil {
		t.Fatal(err)
	}
	if c.A != 0x5A {
		t.Errorf("A after IN 1 = %.2X, want 5A", c.A)
	}
	if _, err := c.Tick(bus); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Tick(bus); err != nil {
		t.Fatal(err)
	}
	if bus.lastPort != 2 || bus.lastVal != 0x99 {
		t.Errorf("OUT delivered port=%d val=%.2X, want port=2 val=99", bus.lastPort, bus.lastVal)
	}
}

func TestUndocumentedDuplicatesAreOneByteNOPs(t *testing.T) {
	dups := []uint8{0x08, 0x10, 0x18, 0x20, 0x28, 0x30, 0x38, 0xCB, 0xD9, 0xDD, 0xED, 0xFD}
	for _, op := range dups {
		c, ram := newChip(t)
		cycles, err := step(t, c, ram, []uint8{op})
		if err != nil {
			t.Fatalf("opcode %.2X: %v", op, err)
		}
		if cycles != 4 {
			t.Errorf("opcode %.2X cycles = %d, want 4", op, cycles)
		}
		if c.PC != 1 {
			t.Errorf("opcode %.2X PC = %.4X, want 0001", op, c.PC)
		}
	}
}

func TestXCHGAndXTHL(t *testing.T) {
	c, ram := newChip(t)
	c.SetHL(0x1234)
	c.D, c.E = 0x56, 0x78
	ram.Load(0, []uint8{0xEB}) // XCHG
	if _, err := c.Tick(&stubBus{}); err != nil {
		t.Fatal(err)
	}
	if c.GetHL() != 0x5678 || c.getDE() != 0x1234 {
		t.Errorf("XCHG: HL=%.4X DE=%.4X, want HL=5678 DE=1234", c.GetHL(), c.getDE())
	}

	c.SP = 0x5000
	ram.WriteWord(0x5000, 0xABCD)
	c.SetHL(0x1111)
	ram.Write(1, 0xE3) // XTHL
	c.PC = 1
	if _, err := c.Tick(&stubBus{}); err != nil {
		t.Fatal(err)
	}
	if c.GetHL() != 0xABCD {
		t.Errorf("XTHL: HL = %.4X, want ABCD", c.GetHL())
	}
	if got := ram.ReadWord(0x5000); got != 0x1111 {
		t.Errorf("XTHL: stack top = %.4X, want 1111", got)
	}
}

// End-to-end: a tight loop decrementing B to zero, exercising DCR, the Z
// flag, and a conditional jump together (spec.md §8's "countdown loop"
// scenario).
func TestCountdownLoopScenario(t *testing.T) {
	c, ram := newChip(t)
	c.B = 5
	ram.Load(0, []uint8{
		0x05,             // DCR B
		0xC2, 0x00, 0x00, // JNZ 0x0000
	})
	for i := 0; i < 100 && c.B != 0; i++ {
		if _, err := c.Tick(&stubBus{}); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
		if c.B != 0 {
			if _, err := c.Tick(&stubBus{}); err != nil {
				t.Fatalf("tick %d: %v", i, err)
			}
		}
	}
	if c.B != 0 {
		t.Fatalf("loop did not terminate, B = %d", c.B)
	}
	if c.PC != 1 {
		t.Errorf("PC after loop exit = %.4X, want 0001 (fell through JNZ)", c.PC)
	}
}
