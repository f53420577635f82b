// chip8_exec.go - Instruction execution engine for the Chip-8 Engine

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
chip8_exec.go - Instruction Execution Engine for the Chip-8 Engine

One handler per decoded opcode kind, each a pure transformation from the
current MachineState plus operands to the next MachineState. Register
arithmetic is modulo 256 with the wrap condition recorded in VF where the
instruction defines a carry/borrow; a flag write always lands after the data
write, so an instruction targeting VF with both leaves the flag value.

Straight-line instructions advance the program counter by one instruction
word, taken skips by two. Jump, call and return set it outright. wait-key is
a polling suspension: until the keypad collaborator reports a pressed key the
program counter is left where it is and the driver re-presents the same
instruction on its next step.

The framebuffer, keypad and random source are narrow external collaborator
interfaces; the engine owns no display or input state of its own.
*/

package main

import "fmt"

const instructionWordSize = 2

// Framebuffer is the rendering collaborator as seen by the engine: a
// monochrome pixel plane with XOR plotting. Only the clear-screen and draw
// opcodes touch it.
type Framebuffer interface {
	Width() int
	Height() int
	Pixel(x, y int) bool
	FlipPixel(x, y int)
	Clear()
}

// Keypad is the input collaborator. Key indices 0x0-0xF are the entire
// keyspace.
type Keypad interface {
	IsPressed(key byte) bool
	// PressedKey reports an arbitrary currently pressed key, if any.
	// wait-key consumes it; nothing else does.
	PressedKey() (byte, bool)
}

// RandomSource supplies the byte stream consumed by the rand opcode.
// Implementations should be seedable so tests can pin the outcome.
type RandomSource interface {
	Byte() byte
}

// Execute applies one decoded instruction to the machine state and returns
// the successor state. The caller owns persisting the result; the engine
// never retains a reference to either snapshot.
func Execute(s MachineState, op DecodedOp, fb Framebuffer, keys Keypad, rng RandomSource) (MachineState, error) {
	switch op.Kind {
	case OpClearScreen:
		fb.Clear()
		s.Redraw = true
		s.PC += instructionWordSize

	case OpReturn:
		if s.SP == 0 {
			return s, &MachineError{
				Operation: "subroutine return",
				Details:   fmt.Sprintf("call stack underflow at PC=0x%03X", s.PC),
			}
		}
		s.SP--
		s.PC = s.Stack[s.SP]

	case OpJump:
		s.PC = op.NNN

	case OpCall:
		if s.SP == STACK_DEPTH {
			return s, &MachineError{
				Operation: "subroutine call",
				Details:   fmt.Sprintf("call stack overflow at PC=0x%03X, target=0x%03X", s.PC, op.NNN),
			}
		}
		s.Stack[s.SP] = s.PC + instructionWordSize
		s.SP++
		s.PC = op.NNN

	case OpSkipEqImm:
		s.PC += skipDistance(s.V[op.X] == op.NN)

	case OpSkipNeqImm:
		s.PC += skipDistance(s.V[op.X] != op.NN)

	case OpSkipEqReg:
		s.PC += skipDistance(s.V[op.X] == s.V[op.Y])

	case OpLoadImm:
		s.V[op.X] = op.NN
		s.PC += instructionWordSize

	case OpAddImm:
		s.V[op.X] += op.NN
		s.PC += instructionWordSize

	case OpMove:
		s.V[op.X] = s.V[op.Y]
		s.PC += instructionWordSize

	case OpOr:
		s.V[op.X] |= s.V[op.Y]
		s.PC += instructionWordSize

	case OpAnd:
		s.V[op.X] &= s.V[op.Y]
		s.PC += instructionWordSize

	case OpXor:
		s.V[op.X] ^= s.V[op.Y]
		s.PC += instructionWordSize

	case OpAddReg:
		sum := uint16(s.V[op.X]) + uint16(s.V[op.Y])
		s.V[op.X] = byte(sum)
		s.V[FLAG_REGISTER] = flagByte(sum > 0xFF)
		s.PC += instructionWordSize

	case OpSubReg:
		noBorrow := s.V[op.X] >= s.V[op.Y]
		s.V[op.X] -= s.V[op.Y]
		s.V[FLAG_REGISTER] = flagByte(noBorrow)
		s.PC += instructionWordSize

	case OpShr:
		lsb := s.V[op.X] & 0x01
		s.V[op.X] >>= 1
		s.V[FLAG_REGISTER] = lsb
		s.PC += instructionWordSize

	case OpSubN:
		noBorrow := s.V[op.Y] >= s.V[op.X]
		s.V[op.X] = s.V[op.Y] - s.V[op.X]
		s.V[FLAG_REGISTER] = flagByte(noBorrow)
		s.PC += instructionWordSize

	case OpShl:
		msb := s.V[op.X] >> 7
		s.V[op.X] <<= 1
		s.V[FLAG_REGISTER] = msb
		s.PC += instructionWordSize

	case OpSkipNeqReg:
		s.PC += skipDistance(s.V[op.X] != s.V[op.Y])

	case OpSetIndex:
		s.I = op.NNN
		s.PC += instructionWordSize

	case OpJumpV0:
		s.PC = op.NNN + uint16(s.V[0])

	case OpRand:
		s.V[op.X] = rng.Byte() & op.NN
		s.PC += instructionWordSize

	case OpDraw:
		return executeDraw(s, op, fb)

	case OpSkipKey:
		s.PC += skipDistance(keys.IsPressed(s.V[op.X]))

	case OpSkipNotKey:
		s.PC += skipDistance(!keys.IsPressed(s.V[op.X]))

	case OpGetDelay:
		s.V[op.X] = s.DelayTimer
		s.PC += instructionWordSize

	case OpWaitKey:
		// Polling suspension: leave PC alone until a key is reported so the
		// driver keeps re-presenting this instruction at its normal rate.
		key, ok := keys.PressedKey()
		if !ok {
			return s, nil
		}
		s.V[op.X] = key
		s.PC += instructionWordSize

	case OpSetDelay:
		s.DelayTimer = s.V[op.X]
		s.PC += instructionWordSize

	case OpSetSound:
		s.SoundTimer = s.V[op.X]
		s.PC += instructionWordSize

	case OpAddIndex:
		s.I += uint16(s.V[op.X])
		s.PC += instructionWordSize

	case OpFontAddr:
		s.I = FONT_BASE + uint16(s.V[op.X])*FONT_GLYPH_SIZE
		s.PC += instructionWordSize

	case OpStoreBCD:
		v := s.V[op.X]
		next, err := s.WriteRange(s.I, []byte{v / 100, v / 10 % 10, v % 10})
		if err != nil {
			return s, err
		}
		s = next
		s.PC += instructionWordSize

	case OpStoreRegs:
		next, err := s.WriteRange(s.I, s.V[:op.X+1])
		if err != nil {
			return s, err
		}
		s = next
		s.PC += instructionWordSize

	case OpLoadRegs:
		values, err := s.ReadRange(s.I, int(op.X)+1)
		if err != nil {
			return s, err
		}
		copy(s.V[:op.X+1], values)
		s.PC += instructionWordSize

	default:
		return s, &MachineError{
			Operation: "instruction execute",
			Details:   fmt.Sprintf("no handler for opcode kind %d (word 0x%04X)", op.Kind, op.Word),
		}
	}
	return s, nil
}

// executeDraw XOR-plots an N-row sprite read from memory at I onto the
// framebuffer at (VX, VY), wrapping at both edges. VF reports whether any
// set pixel was erased.
func executeDraw(s MachineState, op DecodedOp, fb Framebuffer) (MachineState, error) {
	sprite, err := s.ReadRange(s.I, int(op.N))
	if err != nil {
		return s, err
	}

	width, height := fb.Width(), fb.Height()
	baseX := int(s.V[op.X]) % width
	baseY := int(s.V[op.Y]) % height

	collision := false
	for row, bits := range sprite {
		for col := 0; col < 8; col++ {
			if bits&(0x80>>col) == 0 {
				continue
			}
			x := (baseX + col) % width
			y := (baseY + row) % height
			if fb.Pixel(x, y) {
				collision = true
			}
			fb.FlipPixel(x, y)
		}
	}

	s.V[FLAG_REGISTER] = flagByte(collision)
	s.Redraw = true
	s.PC += instructionWordSize
	return s, nil
}

func skipDistance(taken bool) uint16 {
	if taken {
		return 2 * instructionWordSize
	}
	return instructionWordSize
}

func flagByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
