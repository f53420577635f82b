// video_chip.go - Monochrome display chip for the Chip-8 Engine

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
video_chip.go - Display Chip for the Chip-8 Engine

The VideoChip owns the 64x32 monochrome pixel plane and is the rendering
collaborator of the instruction engine. The engine reaches it only through
the Framebuffer interface (pixel query, XOR plot, clear); the chip owns all
presentation concerns: converting the bit plane to RGBA, pacing frames at
60Hz, and pushing them to whichever VideoOutput backend was selected.

The redraw handshake is a latched dirty flag: the runner raises it when an
opcode signalled a framebuffer mutation and the refresh loop consumes it,
so unchanged frames cost nothing.
*/

package main

import (
	"fmt"
	"sync"
	"time"
)

const (
	DISPLAY_WIDTH  = 64
	DISPLAY_HEIGHT = 32

	REFRESH_RATE = 60
)

// Classic green phosphor on near-black.
var (
	pixelOnRGBA  = [4]byte{0x3C, 0xF0, 0x6C, 0xFF}
	pixelOffRGBA = [4]byte{0x10, 0x18, 0x10, 0xFF}
)

type VideoChip struct {
	mutex       sync.RWMutex
	output      VideoOutput
	enabled     bool
	pixels      [DISPLAY_HEIGHT][DISPLAY_WIDTH]bool
	frameBuffer []byte // RGBA conversion scratch, one byte quad per pixel
	dirty       bool
	done        chan struct{}
	stopOnce    sync.Once
}

func NewVideoChip(backend int) (*VideoChip, error) {
	output, err := NewVideoOutput(backend)
	if err != nil {
		return nil, fmt.Errorf("failed to create video output: %w", err)
	}
	return newVideoChipWithOutput(output), nil
}

func newVideoChipWithOutput(output VideoOutput) *VideoChip {
	chip := &VideoChip{
		output:      output,
		frameBuffer: make([]byte, DISPLAY_WIDTH*DISPLAY_HEIGHT*4),
		dirty:       true,
		done:        make(chan struct{}),
	}
	go chip.refreshLoop()
	return chip
}

func (chip *VideoChip) Start(scale int) error {
	chip.mutex.Lock()
	defer chip.mutex.Unlock()

	config := DisplayConfig{
		Width:       DISPLAY_WIDTH,
		Height:      DISPLAY_HEIGHT,
		Scale:       scale,
		RefreshRate: REFRESH_RATE,
	}
	if err := chip.output.SetDisplayConfig(config); err != nil {
		return err
	}
	if err := chip.output.Start(); err != nil {
		return err
	}
	chip.enabled = true
	return nil
}

func (chip *VideoChip) Stop() {
	chip.mutex.Lock()
	chip.enabled = false
	chip.mutex.Unlock()

	chip.stopOnce.Do(func() {
		close(chip.done)
	})
	if err := chip.output.Stop(); err != nil {
		return
	}
}

func (chip *VideoChip) Output() VideoOutput {
	return chip.output
}

// Width, Height, Pixel, FlipPixel and Clear are the engine-facing
// Framebuffer collaborator surface.

func (chip *VideoChip) Width() int  { return DISPLAY_WIDTH }
func (chip *VideoChip) Height() int { return DISPLAY_HEIGHT }

func (chip *VideoChip) Pixel(x, y int) bool {
	chip.mutex.RLock()
	defer chip.mutex.RUnlock()
	return chip.pixels[y][x]
}

func (chip *VideoChip) FlipPixel(x, y int) {
	chip.mutex.Lock()
	chip.pixels[y][x] = !chip.pixels[y][x]
	chip.mutex.Unlock()
}

func (chip *VideoChip) Clear() {
	chip.mutex.Lock()
	chip.pixels = [DISPLAY_HEIGHT][DISPLAY_WIDTH]bool{}
	chip.mutex.Unlock()
}

// SignalRedraw latches the redraw handshake raised by the instruction
// engine. The refresh loop consumes it on its next 60Hz tick.
func (chip *VideoChip) SignalRedraw() {
	chip.mutex.Lock()
	chip.dirty = true
	chip.mutex.Unlock()
}

// Snapshot returns a copy of the pixel plane, row-major.
func (chip *VideoChip) Snapshot() [DISPLAY_HEIGHT][DISPLAY_WIDTH]bool {
	chip.mutex.RLock()
	defer chip.mutex.RUnlock()
	return chip.pixels
}

func (chip *VideoChip) refreshLoop() {
	ticker := time.NewTicker(time.Second / REFRESH_RATE)
	defer ticker.Stop()

	for {
		select {
		case <-chip.done:
			return
		case <-ticker.C:
			chip.mutex.Lock()
			if !chip.enabled || !chip.dirty {
				chip.mutex.Unlock()
				continue
			}
			chip.rasterise()
			chip.dirty = false
			frame := chip.frameBuffer
			chip.mutex.Unlock()

			if err := chip.output.UpdateFrame(frame); err != nil {
				fmt.Printf("Error updating frame: %v\n", err)
			}
		}
	}
}

// rasterise converts the bit plane into the RGBA scratch buffer.
// Caller holds the write lock.
func (chip *VideoChip) rasterise() {
	idx := 0
	for y := 0; y < DISPLAY_HEIGHT; y++ {
		for x := 0; x < DISPLAY_WIDTH; x++ {
			rgba := pixelOffRGBA
			if chip.pixels[y][x] {
				rgba = pixelOnRGBA
			}
			copy(chip.frameBuffer[idx:idx+4], rgba[:])
			idx += 4
		}
	}
}
