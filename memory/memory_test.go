package memory

import "testing"

func TestReadWriteByte(t *testing.T) {
	b := NewFlat()
	b.Write(0x1234, 0xAB)
	if got, want := b.Read(0x1234), uint8(0xAB); got != want {
		t.Errorf("Read(0x1234) = %.2X, want %.2X", got, want)
	}
	if got, want := b.Read(0x0000), uint8(0x00); got != want {
		t.Errorf("Read of never-written addr = %.2X, want %.2X", got, want)
	}
}

func TestReadWriteWord(t *testing.T) {
	b := NewFlat()
	b.WriteWord(0x2000, 0xBEEF)
	if got, want := b.Read(0x2000), uint8(0xEF); got != want {
		t.Errorf("low byte = %.2X, want %.2X", got, want)
	}
	if got, want := b.Read(0x2001), uint8(0xBE); got != want {
		t.Errorf("high byte = %.2X, want %.2X", got, want)
	}
	if got, want := b.ReadWord(0x2000), uint16(0xBEEF); got != want {
		t.Errorf("ReadWord(0x2000) = %.4X, want %.4X", got, want)
	}
}

func TestWordWrapAtTopOfAddressSpace(t *testing.T) {
	b := NewFlat()
	b.WriteWord(0xFFFF, 0x1234)
	if got, want := b.Read(0xFFFF), uint8(0x34); got != want {
		t.Errorf("low byte at 0xFFFF = %.2X, want %.2X", got, want)
	}
	if got, want := b.Read(0x0000), uint8(0x12); got != want {
		t.Errorf("high byte wrapped to 0x0000 = %.2X, want %.2X", got, want)
	}
}

func TestLoadWrapsAt64K(t *testing.T) {
	b := NewFlat()
	b.Load(0xFFFE, []uint8{0x11, 0x22, 0x33})
	if got, want := b.Read(0xFFFE), uint8(0x11); got != want {
		t.Errorf("Read(0xFFFE) = %.2X, want %.2X", got, want)
	}
	if got, want := b.Read(0xFFFF), uint8(0x22); got != want {
		t.Errorf("Read(0xFFFF) = %.2X, want %.2X", got, want)
	}
	if got, want := b.Read(0x0000), uint8(0x33); got != want {
		t.Errorf("Read(0x0000) (wrapped) = %.2X, want %.2X", got, want)
	}
}

func TestPowerOnZeroesMemory(t *testing.T) {
	b := NewFlat()
	b.Write(0x4000, 0xFF)
	b.PowerOn()
	if got, want := b.Read(0x4000), uint8(0x00); got != want {
		t.Errorf("Read(0x4000) after PowerOn = %.2X, want %.2X", got, want)
	}
}
