// chip8_decode.go - Instruction decoder for the Chip-8 Engine

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

package main

import "fmt"

// OpKind is the closed set of decoded instruction kinds. The execution
// engine switches exhaustively over it, so a kind without a handler is a
// compile-visible gap rather than a runtime surprise.
type OpKind int

const (
	OpClearScreen OpKind = iota // 00E0
	OpReturn                    // 00EE
	OpJump                      // 1NNN
	OpCall                      // 2NNN
	OpSkipEqImm                 // 3XNN
	OpSkipNeqImm                // 4XNN
	OpSkipEqReg                 // 5XY0
	OpLoadImm                   // 6XNN
	OpAddImm                    // 7XNN
	OpMove                      // 8XY0
	OpOr                        // 8XY1
	OpAnd                       // 8XY2
	OpXor                       // 8XY3
	OpAddReg                    // 8XY4
	OpSubReg                    // 8XY5
	OpShr                       // 8XY6
	OpSubN                      // 8XY7
	OpShl                       // 8XYE
	OpSkipNeqReg                // 9XY0
	OpSetIndex                  // ANNN
	OpJumpV0                    // BNNN
	OpRand                      // CXNN
	OpDraw                      // DXYN
	OpSkipKey                   // EX9E
	OpSkipNotKey                // EXA1
	OpGetDelay                  // FX07
	OpWaitKey                   // FX0A
	OpSetDelay                  // FX15
	OpSetSound                  // FX18
	OpAddIndex                  // FX1E
	OpFontAddr                  // FX29
	OpStoreBCD                  // FX33
	OpStoreRegs                 // FX55
	OpLoadRegs                  // FX65
)

// DecodedOp is one instruction word split into its nibble fields. Every field
// is extracted for every word; handlers read only the fields their encoding
// defines.
type DecodedOp struct {
	Kind OpKind
	Word uint16

	X   byte   // bits 8-11, register index
	Y   byte   // bits 4-7, register index
	N   byte   // bits 0-3, 4-bit immediate
	NN  byte   // bits 0-7, 8-bit immediate
	NNN uint16 // bits 0-11, 12-bit address
}

func decodeError(word uint16) error {
	return &MachineError{
		Operation: "instruction decode",
		Details:   fmt.Sprintf("unrecognised instruction word 0x%04X", word),
	}
}

// Decode splits a 16-bit instruction word into its operand fields and
// resolves the opcode kind from the family nibble. Families 0x0, 0x8, 0xE
// and 0xF are further discriminated by their low nibble or low byte. A word
// matching no defined pattern is a fatal decode fault, never a no-op.
func Decode(word uint16) (DecodedOp, error) {
	op := DecodedOp{
		Word: word,
		X:    byte(word >> 8 & 0x0F),
		Y:    byte(word >> 4 & 0x0F),
		N:    byte(word & 0x000F),
		NN:   byte(word & 0x00FF),
		NNN:  word & 0x0FFF,
	}

	switch word >> 12 {
	case 0x0:
		switch word {
		case 0x00E0:
			op.Kind = OpClearScreen
		case 0x00EE:
			op.Kind = OpReturn
		default:
			// 0NNN machine-code calls are not part of the instruction set
			// this engine implements.
			return op, decodeError(word)
		}
	case 0x1:
		op.Kind = OpJump
	case 0x2:
		op.Kind = OpCall
	case 0x3:
		op.Kind = OpSkipEqImm
	case 0x4:
		op.Kind = OpSkipNeqImm
	case 0x5:
		if op.N != 0 {
			return op, decodeError(word)
		}
		op.Kind = OpSkipEqReg
	case 0x6:
		op.Kind = OpLoadImm
	case 0x7:
		op.Kind = OpAddImm
	case 0x8:
		switch op.N {
		case 0x0:
			op.Kind = OpMove
		case 0x1:
			op.Kind = OpOr
		case 0x2:
			op.Kind = OpAnd
		case 0x3:
			op.Kind = OpXor
		case 0x4:
			op.Kind = OpAddReg
		case 0x5:
			op.Kind = OpSubReg
		case 0x6:
			op.Kind = OpShr
		case 0x7:
			op.Kind = OpSubN
		case 0xE:
			op.Kind = OpShl
		default:
			return op, decodeError(word)
		}
	case 0x9:
		if op.N != 0 {
			return op, decodeError(word)
		}
		op.Kind = OpSkipNeqReg
	case 0xA:
		op.Kind = OpSetIndex
	case 0xB:
		op.Kind = OpJumpV0
	case 0xC:
		op.Kind = OpRand
	case 0xD:
		op.Kind = OpDraw
	case 0xE:
		switch op.NN {
		case 0x9E:
			op.Kind = OpSkipKey
		case 0xA1:
			op.Kind = OpSkipNotKey
		default:
			return op, decodeError(word)
		}
	case 0xF:
		switch op.NN {
		case 0x07:
			op.Kind = OpGetDelay
		case 0x0A:
			op.Kind = OpWaitKey
		case 0x15:
			op.Kind = OpSetDelay
		case 0x18:
			op.Kind = OpSetSound
		case 0x1E:
			op.Kind = OpAddIndex
		case 0x29:
			op.Kind = OpFontAddr
		case 0x33:
			op.Kind = OpStoreBCD
		case 0x55:
			op.Kind = OpStoreRegs
		case 0x65:
			op.Kind = OpLoadRegs
		default:
			return op, decodeError(word)
		}
	}
	return op, nil
}
