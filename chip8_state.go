// chip8_state.go - Machine state for the Chip-8 Engine

/*
 ██████╗██╗  ██╗██╗██████╗        █████╗     ███████╗███╗   ██╗ ██████╗ ██╗███╗   ██╗███████╗
██╔════╝██║  ██║██║██╔══██╗      ██╔══██╗    ██╔════╝████╗  ██║██╔════╝ ██║████╗  ██║██╔════╝
██║     ███████║██║██████╔╝█████╗╚█████╔╝    █████╗  ██╔██╗ ██║██║  ███╗██║██╔██╗ ██║█████╗
██║     ██╔══██║██║██╔═══╝ ╚════╝██╔══██╗    ██╔══╝  ██║╚██╗██║██║   ██║██║██║╚██╗██║██╔══╝
╚██████╗██║  ██║██║██║           ╚█████╔╝    ███████╗██║ ╚████║╚██████╔╝██║██║ ╚████║███████╗
 ╚═════╝╚═╝  ╚═╝╚═╝╚═╝            ╚════╝     ╚══════╝╚═╝  ╚═══╝ ╚═════╝ ╚═╝╚═╝  ╚═══╝╚══════╝

(c) 2026 Zayn Otley
https://github.com/IntuitionAmiga/Chip8Engine
License: GPLv3 or later
*/

/*
chip8_state.go - Machine State for the Chip-8 Engine

This module implements the aggregate machine snapshot at the heart of the
engine: 4KB of byte-addressable memory pre-seeded with the hex font sprites,
the sixteen data registers, the index register, program counter, call stack
and the two hardware timers.

The state is a plain value type. Every executed instruction consumes one
MachineState and produces the next; nothing mutates a snapshot in place, so
handing a state between the instruction loop and the 60Hz timer driver is a
single value assignment with no locking required.

The two bulk memory primitives (WriteRange/ReadRange) back the ROM loader, the
BCD store and the register spill/reload opcodes. Both fault on any range that
leaves the 4KB address space rather than wrapping or truncating.
*/

package main

import "fmt"

const (
	MEMORY_SIZE   = 0x1000
	PROGRAM_START = 0x200
	MAX_ROM_SIZE  = MEMORY_SIZE - PROGRAM_START

	NUM_REGISTERS = 16
	STACK_DEPTH   = 16

	// VF doubles as the carry/borrow/collision flag register.
	FLAG_REGISTER = 0xF
)

// MachineError is the fault type for the machine core. Every fault is fatal:
// a malformed instruction stream or a mis-driven engine has no recovery path.
type MachineError struct {
	Operation string // What operation was being attempted
	Details   string // Additional error context
	Err       error  // Underlying error if any
}

func (e *MachineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("machine %s failed: %s: %v", e.Operation, e.Details, e.Err)
	}
	return fmt.Sprintf("machine %s failed: %s", e.Operation, e.Details)
}

// MachineState is the complete snapshot of the virtual machine between two
// instructions. It is passed and returned by value everywhere.
type MachineState struct {
	Memory [MEMORY_SIZE]byte
	V      [NUM_REGISTERS]byte
	I      uint16
	PC     uint16
	SP     uint8
	Stack  [STACK_DEPTH]uint16

	DelayTimer byte
	SoundTimer byte

	// Redraw is raised by any opcode that touched the framebuffer and
	// lowered by the rendering collaborator once it has consumed a frame.
	Redraw bool
}

// NewMachineState returns a freshly booted machine: font sprites seeded at
// FONT_BASE, every register and timer zeroed, PC at the program start.
func NewMachineState() MachineState {
	var s MachineState
	copy(s.Memory[FONT_BASE:], fontSprites[:])
	s.PC = PROGRAM_START
	return s
}

// WriteRange copies data into memory starting at addr and returns the
// resulting state. The whole range must fit inside the address space.
func (s MachineState) WriteRange(addr uint16, data []byte) (MachineState, error) {
	end := int(addr) + len(data)
	if int(addr) >= MEMORY_SIZE || end > MEMORY_SIZE {
		return s, &MachineError{
			Operation: "memory write",
			Details:   fmt.Sprintf("range 0x%03X-0x%03X exceeds 0x%03X", addr, end-1, MEMORY_SIZE-1),
		}
	}
	copy(s.Memory[addr:], data)
	return s, nil
}

// ReadRange returns a copy of n bytes of memory starting at addr.
func (s MachineState) ReadRange(addr uint16, n int) ([]byte, error) {
	end := int(addr) + n
	if int(addr) >= MEMORY_SIZE || end > MEMORY_SIZE {
		return nil, &MachineError{
			Operation: "memory read",
			Details:   fmt.Sprintf("range 0x%03X-0x%03X exceeds 0x%03X", addr, end-1, MEMORY_SIZE-1),
		}
	}
	out := make([]byte, n)
	copy(out, s.Memory[addr:end])
	return out, nil
}

// LoadROM writes a program image at PROGRAM_START. Fonts and the reserved
// zone below 0x200 are left untouched. An image larger than the remaining
// address space is a fatal load error, not a truncation.
func (s MachineState) LoadROM(rom []byte) (MachineState, error) {
	if len(rom) > MAX_ROM_SIZE {
		return s, &MachineError{
			Operation: "ROM load",
			Details:   fmt.Sprintf("image is %d bytes, limit is %d", len(rom), MAX_ROM_SIZE),
		}
	}
	return s.WriteRange(PROGRAM_START, rom)
}

// FetchWord reads the two-byte instruction word at the program counter.
func (s MachineState) FetchWord() (uint16, error) {
	raw, err := s.ReadRange(s.PC, 2)
	if err != nil {
		return 0, &MachineError{Operation: "instruction fetch", Details: fmt.Sprintf("PC=0x%03X", s.PC), Err: err}
	}
	return uint16(raw[0])<<8 | uint16(raw[1]), nil
}

// TickTimers decrements each nonzero timer by one. Called by the external
// driver at 60Hz; instruction execution never touches the timers' countdown.
func (s MachineState) TickTimers() MachineState {
	if s.DelayTimer > 0 {
		s.DelayTimer--
	}
	if s.SoundTimer > 0 {
		s.SoundTimer--
	}
	return s
}
