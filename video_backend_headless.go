//go:build headless

// video_backend_headless.go - Headless video backend and keypad stub

package main

import (
	"sync"
	"sync/atomic"
)

type HeadlessVideoOutput struct {
	mu         sync.RWMutex
	started    bool
	config     DisplayConfig
	frameCount uint64

	// Keypad state settable by harness code while the instruction loop
	// polls it, so reads and writes go through the mutex.
	keyState [16]bool
}

func NewEbitenOutput() (VideoOutput, error) {
	return &HeadlessVideoOutput{config: DisplayConfig{
		Width:       DISPLAY_WIDTH,
		Height:      DISPLAY_HEIGHT,
		Scale:       1,
		RefreshRate: REFRESH_RATE,
	}}, nil
}

func (h *HeadlessVideoOutput) Start() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.started = true
	return nil
}

func (h *HeadlessVideoOutput) Stop() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.started = false
	return nil
}

func (h *HeadlessVideoOutput) Close() error {
	return h.Stop()
}

func (h *HeadlessVideoOutput) IsStarted() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.started
}

func (h *HeadlessVideoOutput) SetDisplayConfig(config DisplayConfig) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.config = config
	return nil
}

func (h *HeadlessVideoOutput) GetDisplayConfig() DisplayConfig {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.config
}

func (h *HeadlessVideoOutput) UpdateFrame(buffer []byte) error {
	atomic.AddUint64(&h.frameCount, 1)
	return nil
}

func (h *HeadlessVideoOutput) GetFrameCount() uint64 {
	return atomic.LoadUint64(&h.frameCount)
}

func (h *HeadlessVideoOutput) GetRefreshRate() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.config.RefreshRate == 0 {
		return REFRESH_RATE
	}
	return h.config.RefreshRate
}

func (h *HeadlessVideoOutput) SetKeyState(key byte, down bool) {
	if key > 0xF {
		return
	}
	h.mu.Lock()
	h.keyState[key] = down
	h.mu.Unlock()
}

func (h *HeadlessVideoOutput) IsPressed(key byte) bool {
	if key > 0xF {
		return false
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.keyState[key]
}

func (h *HeadlessVideoOutput) PressedKey() (byte, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for k := byte(0); k < 16; k++ {
		if h.keyState[k] {
			return k, true
		}
	}
	return 0, false
}
