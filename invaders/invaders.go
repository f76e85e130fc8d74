// Package invaders wires an Intel 8080 core to the Space Invaders cabinet:
// its memory map, its DIP switches, and the shift-register I/O bus behind
// ports 1-6 (spec.md §6). It is the "machine glue" collaborator spec.md §2
// describes, grounded on the teacher's atari2600.VCS/VCSDef/Init wiring.
package invaders

import (
	"errors"
	"fmt"

	"github.com/jmchacon/i8080invaders/cpu"
	"github.com/jmchacon/i8080invaders/irq"
	"github.com/jmchacon/i8080invaders/memory"
)

// Memory map constants (spec.md §6).
const (
	ROMStart     = 0x0000
	ROMSize      = 0x2000
	WorkRAMStart = 0x2000
	VRAMStart    = 0x2400
	VRAMEnd      = 0x3FFF
	VRAMWidth    = 32  // bytes per scanline
	VRAMHeight   = 224 // scanlines
)

// Cabinet is one Space Invaders machine: an 8080, its flat address space,
// and the shift-register I/O bus the core's IN/OUT instructions reach.
type Cabinet struct {
	CPU *cpu.Chip
	Ram memory.Bank
	IO  *ShiftRegister
}

// CabinetDef configures a Cabinet.
type CabinetDef struct {
	// ROM is the 8080 program image, copied to address 0x0000. Must be at
	// most ROMSize bytes (spec.md §6: the Space Invaders ROM is exactly
	// 8,192 bytes, but a shorter test image is also accepted).
	ROM []uint8

	// ShipsPerGame is a DIP switch: 3, 4, 5 or 6. Any other value (including
	// the zero value) defaults to 3.
	ShipsPerGame uint8
	// BonusLifeAt1000 selects the bonus-life DIP: true awards the extra
	// ship at 1000 points, false at 1500.
	BonusLifeAt1000 bool
	// CoinInfoOnDemo selects whether the "insert coin" legend is shown
	// during the demo screen.
	CoinInfoOnDemo bool
}

func shipsDIPBits(n uint8) uint8 {
	switch n {
	case 4:
		return 0x01
	case 5:
		return 0x02
	case 6:
		return 0x03
	default:
		return 0x00
	}
}

// Init builds a Cabinet with its ROM loaded and its DIP switches latched.
func Init(def *CabinetDef) (*Cabinet, error) {
	if def == nil {
		return nil, errors.New("invaders: CabinetDef must be non-nil")
	}
	if len(def.ROM) == 0 {
		return nil, errors.New("invaders: ROM image must be non-empty")
	}
	if len(def.ROM) > ROMSize {
		return nil, fmt.Errorf("invaders: ROM image is %d bytes, max %d", len(def.ROM), ROMSize)
	}

	ram := memory.NewFlat()
	ram.Load(ROMStart, def.ROM)

	dip2 := shipsDIPBits(def.ShipsPerGame)
	if !def.BonusLifeAt1000 {
		dip2 |= 0x08
	}
	if !def.CoinInfoOnDemo {
		dip2 |= 0x80
	}
	bus := newShiftRegister(dip2)

	c, err := cpu.Init(&cpu.ChipDef{Ram: ram})
	if err != nil {
		return nil, fmt.Errorf("invaders: %w", err)
	}
	return &Cabinet{CPU: c, Ram: ram, IO: bus}, nil
}

// Tick runs one 8080 instruction and returns its cycle cost.
func (c *Cabinet) Tick() (int, error) {
	return c.CPU.Tick(c.IO)
}

// Interrupt delivers an RST-equivalent interrupt to the CPU.
func (c *Cabinet) Interrupt(v irq.Vector) {
	c.CPU.Interrupt(v)
}

// PressKey and ReleaseKey latch a control-panel button on the shift
// register's input ports.
func (c *Cabinet) PressKey(k Key) { c.IO.PressKey(k) }

// ReleaseKey latches k as released.
func (c *Cabinet) ReleaseKey(k Key) { c.IO.ReleaseKey(k) }
