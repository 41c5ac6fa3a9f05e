package driver

import (
	"context"
	"testing"
	"time"
)

func TestDummySystemRTAllocRTFree(t *testing.T) {
	s := NewDummySystem()
	buf := s.RTAlloc(128)
	if len(buf) != 128 {
		t.Fatalf("RTAlloc(128) len = %d, want 128", len(buf))
	}
	s.RTFree(buf)
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestDummyAudioDriverRunsProcessCallback(t *testing.T) {
	d := NewDummyAudioDriver()
	if err := d.Open(44100, 2, 64); err != nil {
		t.Fatalf("Open: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	called := make(chan struct{}, 1)
	go func() {
		d.Run(ctx, func(out [][]float32, frames int) {
			select {
			case called <- struct{}{}:
			default:
			}
		})
	}()

	select {
	case <-called:
	case <-time.After(2 * time.Second):
		t.Fatal("process callback was never invoked")
	}
	d.Close()
}

func TestDummyAudioDriverCloseStopsRun(t *testing.T) {
	d := NewDummyAudioDriver()
	d.Open(44100, 1, 64)
	done := make(chan struct{})
	go func() {
		d.Run(context.Background(), func(out [][]float32, frames int) {})
		close(done)
	}()
	d.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Close")
	}
}

func TestNullMIDIPollsEmpty(t *testing.T) {
	m := NewNullMIDI()
	if err := m.Connect("any"); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if msgs := m.Poll(); msgs != nil {
		t.Fatalf("Poll() = %v, want nil", msgs)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
