//go:build !headless

// video_backend_ebiten.go - Ebiten video backend and keypad for the Chip-8 Engine

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

import (
	"fmt"
	"image/color"
	"sync"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// keypadKeys maps each hex keypad index 0x0-0xF onto the conventional
// 1234/QWER/ASDF/ZXCV block of a modern keyboard.
var keypadKeys = [16]ebiten.Key{
	0x0: ebiten.KeyX,
	0x1: ebiten.KeyDigit1,
	0x2: ebiten.KeyDigit2,
	0x3: ebiten.KeyDigit3,
	0x4: ebiten.KeyQ,
	0x5: ebiten.KeyW,
	0x6: ebiten.KeyE,
	0x7: ebiten.KeyA,
	0x8: ebiten.KeyS,
	0x9: ebiten.KeyD,
	0xA: ebiten.KeyZ,
	0xB: ebiten.KeyC,
	0xC: ebiten.KeyDigit4,
	0xD: ebiten.KeyR,
	0xE: ebiten.KeyF,
	0xF: ebiten.KeyV,
}

var keypadLabels = [16]string{
	"0", "1", "2", "3", "4", "5", "6", "7",
	"8", "9", "A", "B", "C", "D", "E", "F",
}

type EbitenOutput struct {
	running     bool
	window      *ebiten.Image
	width       int
	height      int
	scale       int
	fullscreen  bool
	frameBuffer []byte
	bufferMutex sync.RWMutex
	frameCount  uint64
	refreshRate int
	vsyncChan   chan struct{}
	done        chan struct{}

	keyState      [16]bool
	showStatusBar bool
}

func NewEbitenOutput() (VideoOutput, error) {
	return &EbitenOutput{
		width:         DISPLAY_WIDTH,
		height:        DISPLAY_HEIGHT,
		scale:         10,
		frameBuffer:   make([]byte, DISPLAY_WIDTH*DISPLAY_HEIGHT*4),
		refreshRate:   REFRESH_RATE,
		vsyncChan:     make(chan struct{}, 1),
		done:          make(chan struct{}),
		showStatusBar: true,
	}, nil
}

func (eo *EbitenOutput) Start() error {
	if eo.running {
		return nil
	}
	eo.bufferMutex.Lock()
	eo.done = make(chan struct{})
	eo.bufferMutex.Unlock()
	eo.running = true
	ebiten.SetWindowSize(eo.width*eo.scale, eo.height*eo.scale)
	ebiten.SetWindowTitle("Chip-8 Engine (c) 2026 Zayn Otley")
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetVsyncEnabled(true)

	go func() {
		defer func() {
			eo.running = false
			eo.bufferMutex.RLock()
			done := eo.done
			eo.bufferMutex.RUnlock()
			select {
			case <-done:
			default:
				close(done)
			}
		}()
		if err := ebiten.RunGame(eo); err != nil {
			fmt.Printf("Ebiten error: %v\n", err)
		}
	}()

	// Wait for first Draw call to ensure Ebiten is ready
	<-eo.vsyncChan
	return nil
}

func (eo *EbitenOutput) Stop() error {
	eo.running = false
	return nil
}

func (eo *EbitenOutput) Close() error {
	return eo.Stop()
}

func (eo *EbitenOutput) IsStarted() bool {
	return eo.running
}

// Done reports window teardown so the main loop can exit with the GUI.
func (eo *EbitenOutput) Done() <-chan struct{} {
	eo.bufferMutex.RLock()
	done := eo.done
	eo.bufferMutex.RUnlock()
	return done
}

func (eo *EbitenOutput) SetDisplayConfig(config DisplayConfig) error {
	eo.bufferMutex.Lock()
	defer eo.bufferMutex.Unlock()

	if config.Width > 0 {
		eo.width = config.Width
	}
	if config.Height > 0 {
		eo.height = config.Height
	}
	if config.Scale > 0 {
		eo.scale = config.Scale
	}
	newSize := eo.width * eo.height * 4
	if len(eo.frameBuffer) != newSize {
		eo.frameBuffer = make([]byte, newSize)
	}
	if !eo.fullscreen {
		ebiten.SetWindowSize(eo.width*eo.scale, eo.height*eo.scale)
	}
	if eo.window != nil {
		eo.window.Dispose()
		eo.window = nil
	}
	return nil
}

func (eo *EbitenOutput) GetDisplayConfig() DisplayConfig {
	return DisplayConfig{
		Width:       eo.width,
		Height:      eo.height,
		Scale:       eo.scale,
		RefreshRate: eo.refreshRate,
	}
}

func (eo *EbitenOutput) UpdateFrame(data []byte) error {
	eo.bufferMutex.Lock()
	copy(eo.frameBuffer, data)
	eo.bufferMutex.Unlock()
	return nil
}

func (eo *EbitenOutput) GetFrameCount() uint64 {
	return atomic.LoadUint64(&eo.frameCount)
}

func (eo *EbitenOutput) GetRefreshRate() int {
	return eo.refreshRate
}

// IsPressed and PressedKey make the Ebiten window double as the machine's
// keypad collaborator. Key state is polled once per Update tick and read
// from whichever goroutine runs the instruction loop.

func (eo *EbitenOutput) IsPressed(key byte) bool {
	if key > 0xF {
		return false
	}
	eo.bufferMutex.RLock()
	defer eo.bufferMutex.RUnlock()
	return eo.keyState[key]
}

func (eo *EbitenOutput) PressedKey() (byte, bool) {
	eo.bufferMutex.RLock()
	defer eo.bufferMutex.RUnlock()
	for k := byte(0); k < 16; k++ {
		if eo.keyState[k] {
			return k, true
		}
	}
	return 0, false
}

func (eo *EbitenOutput) Update() error {
	if ebiten.IsWindowBeingClosed() || !eo.running {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		eo.bufferMutex.Lock()
		eo.fullscreen = !eo.fullscreen
		ebiten.SetFullscreen(eo.fullscreen)
		if !eo.fullscreen {
			ebiten.SetWindowSize(eo.width*eo.scale, eo.height*eo.scale)
		}
		eo.bufferMutex.Unlock()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		eo.bufferMutex.Lock()
		eo.showStatusBar = !eo.showStatusBar
		eo.bufferMutex.Unlock()
	}

	var state [16]bool
	for k, key := range keypadKeys {
		state[k] = ebiten.IsKeyPressed(key)
	}
	eo.bufferMutex.Lock()
	eo.keyState = state
	eo.bufferMutex.Unlock()
	return nil
}

func (eo *EbitenOutput) Draw(screen *ebiten.Image) {
	if eo.window == nil {
		eo.window = ebiten.NewImage(eo.width, eo.height)
	}

	eo.bufferMutex.RLock()
	eo.window.WritePixels(eo.frameBuffer)
	showStatusBar := eo.showStatusBar
	scale := eo.scale
	eo.bufferMutex.RUnlock()

	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Scale(float64(scale), float64(scale))
	screen.DrawImage(eo.window, opts)

	if showStatusBar {
		eo.drawStatusBar(screen)
	}

	atomic.AddUint64(&eo.frameCount, 1)
	select {
	case eo.vsyncChan <- struct{}{}:
	default:
	}
}

func (eo *EbitenOutput) Layout(_, _ int) (int, int) {
	return eo.width * eo.scale, eo.height * eo.scale
}

func (eo *EbitenOutput) drawStatusBar(screen *ebiten.Image) {
	face := basicfont.Face7x13
	labelColor := color.RGBA{190, 190, 190, 255}
	offColor := color.RGBA{120, 120, 120, 255}
	onColor := color.RGBA{0, 220, 90, 255}

	barHeight := 18
	h := eo.height * eo.scale
	w := eo.width * eo.scale
	if barHeight >= h {
		return
	}
	y := h - barHeight
	ebitenutil.DrawRect(screen, 0, float64(y), float64(w), float64(barHeight), color.RGBA{0, 0, 0, 180})

	baseline := y + 13
	text.Draw(screen, "KEYS ", face, 6, baseline, labelColor)
	cursorX := 6 + text.BoundString(face, "KEYS ").Dx() + 6

	eo.bufferMutex.RLock()
	state := eo.keyState
	eo.bufferMutex.RUnlock()

	for k := 0; k < 16; k++ {
		c := offColor
		if state[k] {
			c = onColor
		}
		text.Draw(screen, keypadLabels[k], face, cursorX, baseline, c)
		cursorX += text.BoundString(face, keypadLabels[k]).Dx() + 6
	}

	legend := fmt.Sprintf("%0.0f FPS  F11 Fullscreen  F12 Status Bar", ebiten.ActualFPS())
	legendX := w - text.BoundString(face, legend).Dx() - 6
	if legendX < cursorX {
		legendX = cursorX
	}
	text.Draw(screen, legend, face, legendX, baseline, labelColor)
}
