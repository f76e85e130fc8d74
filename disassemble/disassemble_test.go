package disassemble

import (
	"strings"
	"testing"

	"github.com/jmchacon/i8080invaders/memory"
)

func TestStep(t *testing.T) {
	tests := []struct {
		name    string
		bytes   []uint8
		want    string
		wantLen int
	}{
		{"NOP", []uint8{0x00}, "NOP", 1},
		{"LXI B", []uint8{0x01, 0x34, 0x12}, "LXI  B,1234", 3},
		{"MOV A,B", []uint8{0x78}, "MOV  A,B", 1},
		{"HLT", []uint8{0x76}, "HLT", 1},
		{"ADD M", []uint8{0x86}, "ADD  M", 1},
		{"CPI", []uint8{0xFE, 0x42}, "CPI  42", 2},
		{"JMP", []uint8{0xC3, 0x00, 0x20}, "JMP  2000", 3},
		{"CALL", []uint8{0xCD, 0x34, 0x12}, "CALL 1234", 3},
		{"RST 1", []uint8{0xCF}, "RST  1", 1},
		{"undocumented dup", []uint8{0xCB}, "NOP*", 1},
		{"OUT", []uint8{0xD3, 0x03}, "OUT  03", 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ram := memory.NewFlat()
			ram.Load(0, tc.bytes)
			got, n := Step(0, ram)
			if n != tc.wantLen {
				t.Errorf("length = %d, want %d", n, tc.wantLen)
			}
			if !strings.HasPrefix(got, tc.want) {
				t.Errorf("Step = %q, want prefix %q", got, tc.want)
			}
		})
	}
}
