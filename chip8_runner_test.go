package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newRunnerRig(t *testing.T, rom []byte) (*Runner, *VideoChip, *testKeypad) {
	t.Helper()

	chip := newVideoChipWithOutput(&stubVideoOutput{})
	t.Cleanup(chip.Stop)

	keys := &testKeypad{}
	runner := NewRunner(chip, keys, fixedRandom{value: 0x42}, RunnerConfig{})

	if rom != nil {
		path := filepath.Join(t.TempDir(), "test.ch8")
		if err := os.WriteFile(path, rom, 0o644); err != nil {
			t.Fatalf("write ROM: %v", err)
		}
		if err := runner.LoadProgram(path); err != nil {
			t.Fatalf("LoadProgram: %v", err)
		}
	}
	return runner, chip, keys
}

func TestRunnerLoadProgram(t *testing.T) {
	rom := []byte{0x60, 0x42, 0xA1, 0x23}
	runner, _, _ := newRunnerRig(t, rom)

	state := runner.State()
	if state.PC != PROGRAM_START {
		t.Fatalf("PC=0x%03X, want 0x%03X", state.PC, PROGRAM_START)
	}
	got, err := state.ReadRange(PROGRAM_START, len(rom))
	if err != nil {
		t.Fatalf("ReadRange: %v", err)
	}
	for i := range rom {
		if got[i] != rom[i] {
			t.Fatalf("memory[0x%03X]=0x%02X, want 0x%02X", PROGRAM_START+i, got[i], rom[i])
		}
	}
	if runner.ROMName() != "test.ch8" {
		t.Fatalf("ROMName=%q, want test.ch8", runner.ROMName())
	}
}

func TestRunnerStepExecutesInstructions(t *testing.T) {
	runner, _, _ := newRunnerRig(t, []byte{
		0x60, 0x42, // LD V0, 0x42
		0xA1, 0x23, // LD I, 0x123
	})

	if err := runner.Step(); err != nil {
		t.Fatalf("step 1: %v", err)
	}
	if err := runner.Step(); err != nil {
		t.Fatalf("step 2: %v", err)
	}

	state := runner.State()
	if state.V[0] != 0x42 {
		t.Fatalf("V0=0x%02X, want 0x42", state.V[0])
	}
	if state.I != 0x123 {
		t.Fatalf("I=0x%03X, want 0x123", state.I)
	}
	if state.PC != PROGRAM_START+4 {
		t.Fatalf("PC=0x%03X, want 0x%03X", state.PC, PROGRAM_START+4)
	}
}

func TestRunnerStepPropagatesDecodeFault(t *testing.T) {
	runner, _, _ := newRunnerRig(t, []byte{0xFF, 0xFF})

	if err := runner.Step(); err == nil {
		t.Fatalf("step over invalid word succeeded, want decode fault")
	}
}

func TestRunnerFreshBootHitsFetchFaultEventually(t *testing.T) {
	// A program of one straight-line instruction runs off into zeroed
	// memory, which decodes as the unimplemented 0NNN family.
	runner, _, _ := newRunnerRig(t, []byte{0x60, 0x01})

	if err := runner.Step(); err != nil {
		t.Fatalf("step 1: %v", err)
	}
	if err := runner.Step(); err == nil {
		t.Fatalf("step into zeroed memory succeeded, want decode fault")
	}
}

func TestRunnerReset(t *testing.T) {
	rom := []byte{0x60, 0x42, 0xA1, 0x23}
	runner, _, _ := newRunnerRig(t, rom)

	if err := runner.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	runner.Reset()

	state := runner.State()
	if state.PC != PROGRAM_START {
		t.Fatalf("PC=0x%03X after reset, want 0x%03X", state.PC, PROGRAM_START)
	}
	if state.V[0] != 0 {
		t.Fatalf("V0=0x%02X after reset, want 0", state.V[0])
	}
	got, _ := state.ReadRange(PROGRAM_START, len(rom))
	for i := range rom {
		if got[i] != rom[i] {
			t.Fatalf("ROM not reloaded: memory[0x%03X]=0x%02X, want 0x%02X",
				PROGRAM_START+i, got[i], rom[i])
		}
	}
}

func TestRunnerExecuteLoopAndStop(t *testing.T) {
	// Set the delay timer to 2 and spin; the 60Hz frame loop must count
	// it down while the instruction loop keeps running.
	runner, _, _ := newRunnerRig(t, []byte{
		0x6A, 0x02, // LD V10, 2
		0xFA, 0x15, // LD DT, V10
		0x12, 0x04, // JP 0x204
	})

	done := make(chan error, 1)
	go func() {
		done <- runner.Execute()
	}()

	deadline := time.Now().Add(2 * time.Second)
	for {
		state := runner.State()
		if state.PC == PROGRAM_START+4 && state.DelayTimer == 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("loop never settled: PC=0x%03X DT=%d", state.PC, state.DelayTimer)
		}
		time.Sleep(5 * time.Millisecond)
	}

	runner.Stop()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Execute returned fault: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("Execute did not return after Stop")
	}
}

func TestRunnerForwardsRedrawToVideoChip(t *testing.T) {
	runner, chip, _ := newRunnerRig(t, []byte{
		0xA2, 0x06, // LD I, 0x206
		0xD0, 0x11, // DRW V0, V1, 1
		0x12, 0x04, // JP 0x204
		0x80, 0x00, // sprite row 0b10000000 (also decodes, never executed)
	})

	if err := runner.Step(); err != nil {
		t.Fatalf("step 1: %v", err)
	}
	if err := runner.Step(); err != nil {
		t.Fatalf("step 2: %v", err)
	}

	if !chip.Pixel(0, 0) {
		t.Fatalf("pixel (0,0) not set after draw")
	}
	if runner.State().Redraw {
		t.Fatalf("Redraw still raised after video chip latched it")
	}
}
