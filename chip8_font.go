// chip8_font.go - Built-in font sprites for the Chip-8 Engine

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

const (
	FONT_BASE       = 0x000
	FONT_GLYPH_SIZE = 5
	FONT_GLYPHS     = 16
)

// fontSprites holds the sixteen 5-byte hex digit glyphs written to memory at
// FONT_BASE when a machine state is created. Programs address them through the
// font-addr opcode (FX29) and must never overwrite them.
var fontSprites = [FONT_GLYPHS * FONT_GLYPH_SIZE]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}
