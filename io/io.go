// Package io defines the narrow capability the 8080 core calls for IN/OUT
// instructions. The bus is opaque to the core: any side effect (shift
// register state, keyboard latches, sound stubs) lives entirely in the
// host's implementation (spec.md §4.6, §9).
package io

// Bus is implemented by a host machine to answer IN and OUT instructions.
// The core guarantees OUT supplies the accumulator as value and that IN's
// return value is loaded into the accumulator; the bus never sees register
// state beyond that.
type Bus interface {
	// Input returns the current value of the given input port.
	Input(port uint8) uint8
	// Output updates the given output port with value.
	Output(port uint8, value uint8)
}
