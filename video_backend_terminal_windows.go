//go:build windows

// video_backend_terminal_windows.go - Terminal backend, Windows stdin variant

package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"
)

const terminalKeyHold = 150 * time.Millisecond

var terminalKeyMap = map[byte]byte{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

// TerminalOutput on Windows uses blocking stdin reads; the console has no
// nonblocking mode, so the reader goroutine simply stays parked in Read
// until a key arrives or the process exits.
type TerminalOutput struct {
	mu          sync.RWMutex
	started     bool
	config      DisplayConfig
	out         io.Writer
	frameCount  uint64
	keyDeadline [16]time.Time

	fd           int
	oldTermState *term.State

	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewTerminalOutput() (VideoOutput, error) {
	return &TerminalOutput{
		config: DisplayConfig{
			Width:       DISPLAY_WIDTH,
			Height:      DISPLAY_HEIGHT,
			Scale:       1,
			RefreshRate: REFRESH_RATE,
		},
		out:    os.Stdout,
		stopCh: make(chan struct{}),
	}, nil
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

	fmt.Fprint(to.out, "\x1b[?25l\x1b[2J")
	to.started = true

	go to.readKeys()
	return nil
}

func (to *TerminalOutput) Stop() error {
	to.stopOnce.Do(func() {
		close(to.stopCh)
	})

	to.mu.Lock()
	defer to.mu.Unlock()
	if !to.started {
		return nil
	}
	to.started = false
	if to.oldTermState != nil {
		_ = term.Restore(to.fd, to.oldTermState)
		to.oldTermState = nil
	}
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
	buf := make([]byte, 1)
	for {
		select {
		case <-to.stopCh:
			return
		default:
		}

		n, err := os.Stdin.Read(buf)
		if n > 0 {
			b := buf[0]
			if b == 0x03 || b == 0x1B {
				to.stopOnce.Do(func() {
					close(to.stopCh)
				})
				return
			}
			to.latchKey(b)
		}
		if err != nil {
			// Includes io.EOF from redirected stdin: shut down like a quit key.
			to.stopOnce.Do(func() {
				close(to.stopCh)
			})
			return
		}
	}
}
