package invaders

import "fmt"

// UnknownPortError is panicked by ShiftRegister when the core issues an
// IN/OUT against a port the cabinet does not recognise. Per spec.md §7 this
// is the one error condition the I/O bus surfaces; the reference policy is
// to crash loudly rather than swallow it, since it signals either a core
// decode bug or a corrupt ROM image.
type UnknownPortError struct {
	Port      uint8
	Direction string
}

func (e UnknownPortError) Error() string {
	return fmt.Sprintf("invaders: unknown %s port %d", e.Direction, e.Port)
}

// Key names every button the cabinet's two control panels expose (spec.md
// §6's key-binding table). Tilt has no game-facing key binding and is not
// modelled here.
type Key int

const (
	Coin Key = iota
	Start1
	Start2
	Shoot1
	Left1
	Right1
	Shoot2
	Left2
	Right2
)

// ShiftRegister implements io.Bus for the Space Invaders cabinet: the 16-bit
// shift register behind port 3, the two control-panel input ports, and the
// ignored sound/watchdog output ports (spec.md §4.6).
type ShiftRegister struct {
	shift0, shift1 uint8
	offset         uint8

	port1Keys uint8 // coin, start1, start2, shoot1, left1, right1
	port2Keys uint8 // shoot2, left2, right2
	dip2      uint8 // ships-per-game, bonus-life, coin-info DIP bits of port 2
}

func newShiftRegister(dip2 uint8) *ShiftRegister {
	return &ShiftRegister{dip2: dip2}
}

// Input implements io.Bus.
func (s *ShiftRegister) Input(port uint8) uint8 {
	switch port {
	case 1:
		// Bit 3 is wired high, bit 7 low, on every cabinet (spec.md §4.6).
		return 0x08 | s.port1Keys
	case 2:
		return s.dip2 | s.port2Keys
	case 3:
		val := uint16(s.shift1)<<8 | uint16(s.shift0)
		return uint8(val >> (8 - s.offset))
	default:
		panic(UnknownPortError{Port: port, Direction: "input"})
	}
}

// Output implements io.Bus.
func (s *ShiftRegister) Output(port uint8, val uint8) {
	switch port {
	case 2:
		s.offset = val & 0x07
	case 3:
		// Sound bank 0; Non-goals (spec.md §1) exclude audio.
	case 4:
		s.shift0 = s.shift1
		s.shift1 = val
	case 5:
		// Sound bank 1; ignored for the same reason as port 3.
	case 6:
		// Watchdog; the core never stalls long enough to trip it.
	default:
		panic(UnknownPortError{Port: port, Direction: "output"})
	}
}

func setBit(reg *uint8, mask uint8, pressed bool) {
	if pressed {
		*reg |= mask
	} else {
		*reg &^= mask
	}
}

// PressKey latches k as held down.
func (s *ShiftRegister) PressKey(k Key) { s.setKey(k, true) }

// ReleaseKey latches k as released.
func (s *ShiftRegister) ReleaseKey(k Key) { s.setKey(k, false) }

func (s *ShiftRegister) setKey(k Key, pressed bool) {
	switch k {
	case Coin:
		setBit(&s.port1Keys, 0x01, pressed)
	case Start2:
		setBit(&s.port1Keys, 0x02, pressed)
	case Start1:
		setBit(&s.port1Keys, 0x04, pressed)
	case Shoot1:
		setBit(&s.port1Keys, 0x10, pressed)
	case Left1:
		setBit(&s.port1Keys, 0x20, pressed)
	case Right1:
		setBit(&s.port1Keys, 0x40, pressed)
	case Shoot2:
		setBit(&s.port2Keys, 0x10, pressed)
	case Left2:
		setBit(&s.port2Keys, 0x20, pressed)
	case Right2:
		setBit(&s.port2Keys, 0x40, pressed)
	}
}
