package main

import (
	"sync"
	"testing"
)

// testFramebuffer is an in-memory pixel plane standing in for the video chip.
type testFramebuffer struct {
	pixels [DISPLAY_HEIGHT][DISPLAY_WIDTH]bool
	clears int
}

func (fb *testFramebuffer) Width() int  { return DISPLAY_WIDTH }
func (fb *testFramebuffer) Height() int { return DISPLAY_HEIGHT }

func (fb *testFramebuffer) Pixel(x, y int) bool {
	return fb.pixels[y][x]
}

func (fb *testFramebuffer) FlipPixel(x, y int) {
	fb.pixels[y][x] = !fb.pixels[y][x]
}

func (fb *testFramebuffer) Clear() {
	fb.pixels = [DISPLAY_HEIGHT][DISPLAY_WIDTH]bool{}
	fb.clears++
}

func (fb *testFramebuffer) litCount() int {
	n := 0
	for y := range fb.pixels {
		for x := range fb.pixels[y] {
			if fb.pixels[y][x] {
				n++
			}
		}
	}
	return n
}

// testKeypad reports whatever key state the test poked in.
type testKeypad struct {
	down [16]bool
}

func (k *testKeypad) IsPressed(key byte) bool {
	return key <= 0xF && k.down[key]
}

func (k *testKeypad) PressedKey() (byte, bool) {
	for i := byte(0); i < 16; i++ {
		if k.down[i] {
			return i, true
		}
	}
	return 0, false
}

// fixedRandom always returns the same byte, pinning the rand opcode.
type fixedRandom struct {
	value byte
}

func (f fixedRandom) Byte() byte { return f.value }

type execRig struct {
	state MachineState
	fb    *testFramebuffer
	keys  *testKeypad
	rng   fixedRandom
}

func newExecRig() *execRig {
	return &execRig{
		state: NewMachineState(),
		fb:    &testFramebuffer{},
		keys:  &testKeypad{},
	}
}

// exec decodes and executes one instruction word against the rig's state,
// failing the test on any fault.
func (rig *execRig) exec(t *testing.T, word uint16) {
	t.Helper()
	op, err := Decode(word)
	if err != nil {
		t.Fatalf("decode 0x%04X: %v", word, err)
	}
	next, err := Execute(rig.state, op, rig.fb, rig.keys, rig.rng)
	if err != nil {
		t.Fatalf("execute 0x%04X: %v", word, err)
	}
	rig.state = next
}

// execErr decodes and executes one word, returning the execution fault.
func (rig *execRig) execErr(t *testing.T, word uint16) error {
	t.Helper()
	op, err := Decode(word)
	if err != nil {
		t.Fatalf("decode 0x%04X: %v", word, err)
	}
	next, err := Execute(rig.state, op, rig.fb, rig.keys, rig.rng)
	if err != nil {
		return err
	}
	rig.state = next
	return nil
}

// stubVideoOutput is a backend double recording pushed frames. The refresh
// loop pushes from its own goroutine, so access is mutex guarded.
type stubVideoOutput struct {
	mu      sync.Mutex
	started bool
	config  DisplayConfig
	frames  uint64
	last    []byte
}

func (s *stubVideoOutput) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = true
	return nil
}

func (s *stubVideoOutput) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = false
	return nil
}

func (s *stubVideoOutput) Close() error { return s.Stop() }

func (s *stubVideoOutput) IsStarted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

func (s *stubVideoOutput) SetDisplayConfig(config DisplayConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = config
	return nil
}

func (s *stubVideoOutput) GetDisplayConfig() DisplayConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config
}

func (s *stubVideoOutput) UpdateFrame(buffer []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames++
	s.last = append(s.last[:0], buffer...)
	return nil
}

func (s *stubVideoOutput) GetFrameCount() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

func (s *stubVideoOutput) GetRefreshRate() int { return REFRESH_RATE }

func (s *stubVideoOutput) lastFrame() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.last...)
}
