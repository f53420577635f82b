//go:build !windows

// video_backend_terminal.go - ANSI terminal video backend and keypad for the Chip-8 Engine

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
video_backend_terminal.go - Terminal backend for the Chip-8 Engine

Renders each RGBA frame to stdout as half-block glyphs, two display rows per
terminal row, and doubles as the keypad collaborator. The terminal is put in
raw mode with stdin nonblocking so key reads never stall the instruction
loop. A terminal delivers key events rather than key state, so each received
byte latches its keypad key as pressed for a short hold window.

Ctrl+C or Escape closes the Done channel for the main loop to observe.
*/

package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"syscall"
	"time"

	"golang.org/x/term"
)

// A decoded key event keeps its key "held" this long.
const terminalKeyHold = 150 * time.Millisecond

// terminalKeyMap routes the 1234/QWER/ASDF/ZXCV block to keypad indices,
// mirroring the Ebiten backend's layout.
var terminalKeyMap = map[byte]byte{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

type TerminalOutput struct {
	mu          sync.RWMutex
	started     bool
	config      DisplayConfig
	out         io.Writer
	frameCount  uint64
	keyDeadline [16]time.Time

	fd           int
	oldTermState *term.State
	nonblockSet  bool

	stopCh   chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func NewTerminalOutput() (VideoOutput, error) {
	return newTerminalOutput(os.Stdout), nil
}

func newTerminalOutput(out io.Writer) *TerminalOutput {
	return &TerminalOutput{
		config: DisplayConfig{
			Width:       DISPLAY_WIDTH,
			Height:      DISPLAY_HEIGHT,
			Scale:       1,
			RefreshRate: REFRESH_RATE,
		},
		out:    out,
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

func (to *TerminalOutput) Start() error {
	to.mu.Lock()
	defer to.mu.Unlock()
	if to.started {
		return nil
	}

	to.fd = int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(to.fd)
	if err != nil {
		return &VideoError{Operation: "terminal start", Details: "failed to set raw mode", Err: err}
	}
	to.oldTermState = oldState

	if err := syscall.SetNonblock(to.fd, true); err != nil {
		_ = term.Restore(to.fd, to.oldTermState)
		to.oldTermState = nil
		return &VideoError{Operation: "terminal start", Details: "failed to set nonblocking stdin", Err: err}
	}
	to.nonblockSet = true

	// Hide cursor, clear screen.
	fmt.Fprint(to.out, "\x1b[?25l\x1b[2J")
	to.started = true

	go to.readKeys()
	return nil
}

func (to *TerminalOutput) Stop() error {
	to.mu.RLock()
	started := to.started
	to.mu.RUnlock()

	to.stopOnce.Do(func() {
		close(to.stopCh)
	})
	if !started {
		return nil
	}
	<-to.done

	to.mu.Lock()
	defer to.mu.Unlock()
	to.started = false
	if to.nonblockSet {
		_ = syscall.SetNonblock(to.fd, false)
		to.nonblockSet = false
	}
	if to.oldTermState != nil {
		_ = term.Restore(to.fd, to.oldTermState)
		to.oldTermState = nil
	}
	// Restore cursor and leave the frame on screen.
	fmt.Fprint(to.out, "\x1b[?25h\x1b[0m\n")
	return nil
}

func (to *TerminalOutput) Close() error {
	return to.Stop()
}

func (to *TerminalOutput) IsStarted() bool {
	to.mu.RLock()
	defer to.mu.RUnlock()
	return to.started
}

// Done is closed when the user quits from the keyboard (Ctrl+C or Escape).
func (to *TerminalOutput) Done() <-chan struct{} {
	return to.stopCh
}

func (to *TerminalOutput) SetDisplayConfig(config DisplayConfig) error {
	to.mu.Lock()
	defer to.mu.Unlock()
	if config.Width > 0 {
		to.config.Width = config.Width
	}
	if config.Height > 0 {
		to.config.Height = config.Height
	}
	return nil
}

func (to *TerminalOutput) GetDisplayConfig() DisplayConfig {
	to.mu.RLock()
	defer to.mu.RUnlock()
	return to.config
}

// UpdateFrame renders an RGBA buffer as half blocks: the upper pixel of each
// glyph comes from an even display row, the lower from the odd row beneath it.
func (to *TerminalOutput) UpdateFrame(buffer []byte) error {
	to.mu.Lock()
	defer to.mu.Unlock()
	if !to.started {
		return nil
	}

	width := to.config.Width
	height := to.config.Height
	if len(buffer) < width*height*4 {
		return &VideoError{
			Operation: "frame update",
			Details:   fmt.Sprintf("buffer is %d bytes, need %d", len(buffer), width*height*4),
		}
	}

	var sb strings.Builder
	sb.Grow(width*height*2 + 64)
	sb.WriteString("\x1b[H")
	for y := 0; y < height; y += 2 {
		for x := 0; x < width; x++ {
			top := pixelLit(buffer, width, x, y)
			bottom := false
			if y+1 < height {
				bottom = pixelLit(buffer, width, x, y+1)
			}
			switch {
			case top && bottom:
				sb.WriteString("\x1b[32m█")
			case top:
				sb.WriteString("\x1b[32m▀")
			case bottom:
				sb.WriteString("\x1b[32m▄")
			default:
				sb.WriteString("\x1b[0m ")
			}
		}
		sb.WriteString("\x1b[0m\r\n")
	}
	fmt.Fprint(to.out, sb.String())
	to.frameCount++
	return nil
}

// pixelLit treats any pixel brighter than the background as on; the chip
// renders a two-colour plane so checking the green channel is enough.
func pixelLit(buffer []byte, width, x, y int) bool {
	return buffer[(y*width+x)*4+1] > 0x40
}

func (to *TerminalOutput) GetFrameCount() uint64 {
	to.mu.RLock()
	defer to.mu.RUnlock()
	return to.frameCount
}

func (to *TerminalOutput) GetRefreshRate() int {
	return to.config.RefreshRate
}

func (to *TerminalOutput) IsPressed(key byte) bool {
	if key > 0xF {
		return false
	}
	to.mu.RLock()
	defer to.mu.RUnlock()
	return time.Now().Before(to.keyDeadline[key])
}

func (to *TerminalOutput) PressedKey() (byte, bool) {
	to.mu.RLock()
	defer to.mu.RUnlock()
	now := time.Now()
	for k := byte(0); k < 16; k++ {
		if now.Before(to.keyDeadline[k]) {
			return k, true
		}
	}
	return 0, false
}

func (to *TerminalOutput) latchKey(b byte) {
	if b >= 'A' && b <= 'Z' {
		b += 'a' - 'A'
	}
	key, ok := terminalKeyMap[b]
	if !ok {
		return
	}
	to.mu.Lock()
	to.keyDeadline[key] = time.Now().Add(terminalKeyHold)
	to.mu.Unlock()
}

func (to *TerminalOutput) readKeys() {
	defer close(to.done)
	buf := make([]byte, 1)
	eofReads := 0

	for {
		select {
		case <-to.stopCh:
			return
		default:
		}

		n, err := syscall.Read(to.fd, buf)
		if n > 0 {
			eofReads = 0
			b := buf[0]
			// Ctrl+C or Escape quits; raw mode no longer delivers SIGINT.
			if b == 0x03 || b == 0x1B {
				to.stopOnce.Do(func() {
					close(to.stopCh)
				})
				return
			}
			to.latchKey(b)
			continue
		}
		if err == syscall.EAGAIN || err == syscall.EWOULDBLOCK {
			eofReads = 0
			time.Sleep(5 * time.Millisecond)
			continue
		}
		if err != nil {
			to.stopOnce.Do(func() {
				close(to.stopCh)
			})
			return
		}
		// Zero bytes with a nil error is end of input, e.g. stdin redirected
		// from a closed pipe or file. Repeated reads confirm it is not a
		// transient wakeup, then the backend shuts down like a quit key.
		eofReads++
		if eofReads >= 3 {
			to.stopOnce.Do(func() {
				close(to.stopCh)
			})
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
}
