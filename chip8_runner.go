// chip8_runner.go - Execution driver wiring the machine core to its collaborators

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"
)

const defaultCyclesPerSecond = 700

type RunnerConfig struct {
	// CyclesPerSecond is the instruction rate; timers always tick at 60Hz
	// regardless.
	CyclesPerSecond int
}

// Runner owns the current MachineState value and drives it: fetch, decode,
// execute, swap. The swap is a single value assignment under the runner's
// lock, which is the whole state handoff between the instruction path and
// anyone inspecting the machine.
type Runner struct {
	mu    sync.Mutex
	state MachineState

	video *VideoChip
	keys  Keypad
	rng   RandomSource

	cyclesPerSecond int
	rom             []byte
	romName         string

	running  atomic.Bool
	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewRunner(video *VideoChip, keys Keypad, rng RandomSource, config RunnerConfig) *Runner {
	cps := config.CyclesPerSecond
	if cps <= 0 {
		cps = defaultCyclesPerSecond
	}
	return &Runner{
		state:           NewMachineState(),
		video:           video,
		keys:            keys,
		rng:             rng,
		cyclesPerSecond: cps,
		stopCh:          make(chan struct{}),
	}
}

// LoadProgram reads a ROM image and writes it into a freshly booted machine
// at the program start address.
func (r *Runner) LoadProgram(filename string) error {
	rom, err := os.ReadFile(filename)
	if err != nil {
		return err
	}

	state, err := NewMachineState().LoadROM(rom)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.state = state
	r.rom = rom
	r.romName = filepath.Base(filename)
	r.mu.Unlock()
	return nil
}

// Reset reboots the machine and reloads the last program image. The video
// backend keeps running.
func (r *Runner) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	state := NewMachineState()
	if len(r.rom) > 0 {
		// The stored image already loaded once, so the reload cannot fault.
		state, _ = state.LoadROM(r.rom)
	}
	r.state = state
	r.video.Clear()
	r.video.SignalRedraw()
}

// Step executes exactly one instruction: fetch the word at PC, decode it,
// run its handler and persist the returned snapshot. The redraw signal is
// forwarded to the video chip and lowered once the chip has latched it.
func (r *Runner) Step() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stepLocked()
}

func (r *Runner) stepLocked() error {
	word, err := r.state.FetchWord()
	if err != nil {
		return err
	}
	op, err := Decode(word)
	if err != nil {
		return err
	}
	next, err := Execute(r.state, op, r.video, r.keys, r.rng)
	if err != nil {
		return err
	}
	if next.Redraw {
		r.video.SignalRedraw()
		next.Redraw = false
	}
	r.state = next
	return nil
}

// Execute runs the cooperative machine loop: a 60Hz frame tick, a slice of
// instruction steps per frame, one timer decrement per frame. It returns on
// Stop or on the first fatal machine fault.
func (r *Runner) Execute() error {
	if !r.running.CompareAndSwap(false, true) {
		return nil
	}
	defer r.running.Store(false)

	cyclesPerFrame := r.cyclesPerSecond / REFRESH_RATE
	if cyclesPerFrame < 1 {
		cyclesPerFrame = 1
	}

	ticker := time.NewTicker(time.Second / REFRESH_RATE)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			return nil
		case <-ticker.C:
			r.mu.Lock()
			for i := 0; i < cyclesPerFrame; i++ {
				if err := r.stepLocked(); err != nil {
					pc := r.state.PC
					r.mu.Unlock()
					return fmt.Errorf("halted at PC=0x%03X: %w", pc, err)
				}
			}
			r.state = r.state.TickTimers()
			r.mu.Unlock()
		}
	}
}

func (r *Runner) Stop() {
	r.stopOnce.Do(func() {
		close(r.stopCh)
	})
}

func (r *Runner) IsRunning() bool {
	return r.running.Load()
}

// State returns a copy of the current machine snapshot.
func (r *Runner) State() MachineState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Runner) ROMName() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.romName
}
