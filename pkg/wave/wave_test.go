package wave

import "testing"

func TestNewWaveOneShotZeroPadding(t *testing.T) {
	samples := []float32{1, 2, 3, 4}
	w := NewWave(samples, 44100, false)
	lvl := w.Levels[0]
	for i := 0; i < Pre; i++ {
		if lvl.Data[i] != 0 {
			t.Fatalf("pre-pad[%d] = %v, want 0 for one-shot wave", i, lvl.Data[i])
		}
	}
	for i := 0; i < Post; i++ {
		v := lvl.Data[Pre+lvl.Size+i]
		if v != 0 {
			t.Fatalf("post-pad[%d] = %v, want 0 for one-shot wave", i, v)
		}
	}
	for i, want := range samples {
		if got := lvl.Data[Pre+i]; got != want {
			t.Fatalf("sample[%d] = %v, want %v", i, got, want)
		}
	}
}

func TestNewWaveLoopedWrapPadding(t *testing.T) {
	samples := []float32{10, 20, 30, 40}
	w := NewWave(samples, 44100, true)
	lvl := w.Levels[0]
	// Pre-padding wraps from the tail of the cycle.
	for i := 0; i < Pre; i++ {
		src := lvl.Size - Pre + i
		want := samples[((src%lvl.Size)+lvl.Size)%lvl.Size]
		if got := lvl.Data[i]; got != want {
			t.Fatalf("looped pre-pad[%d] = %v, want %v (wrap of tail)", i, got, want)
		}
	}
	// Post-padding wraps from the head of the cycle.
	for i := 0; i < Post; i++ {
		want := samples[i%lvl.Size]
		if got := lvl.Data[Pre+lvl.Size+i]; got != want {
			t.Fatalf("looped post-pad[%d] = %v, want %v (wrap of head)", i, got, want)
		}
	}
}

func TestNewMipWaveLevelCount(t *testing.T) {
	samples := make([]float32, 4096)
	for i := range samples {
		samples[i] = 1
	}
	w := NewMipWave(samples, 44100, true)
	if len(w.Levels) != MipLevels {
		t.Fatalf("len(Levels) = %d, want %d", len(w.Levels), MipLevels)
	}
	for i := 1; i < len(w.Levels); i++ {
		if w.Levels[i].Size > w.Levels[i-1].Size {
			t.Fatalf("level %d size %d should not exceed level %d size %d", i, w.Levels[i].Size, i-1, w.Levels[i-1].Size)
		}
	}
}

func TestNormalizeScalesToUnityPeak(t *testing.T) {
	w := NewWave([]float32{0.1, -0.5, 0.25}, 44100, false)
	Normalize(w)
	lvl := w.Levels[0]
	peak := float32(0)
	for i := 0; i < lvl.Size; i++ {
		v := lvl.Data[Pre+i]
		if v < 0 {
			v = -v
		}
		if v > peak {
			peak = v
		}
	}
	if diff := peak - 1; diff > 1e-5 || diff < -1e-5 {
		t.Fatalf("peak after normalize = %v, want 1.0", peak)
	}
}

func TestMipLevelForPhaseIncrementMonotonic(t *testing.T) {
	samples := make([]float32, 4096)
	w := NewMipWave(samples, 44100, true)
	prev := 0
	for _, phinc := range []float64{0.5, 1.0, 2.0, 8.0, 64.0, 1000.0} {
		lvl := w.MipLevelForPhaseIncrement(phinc)
		if lvl < prev {
			t.Fatalf("mip level decreased for larger phase increment %v: got %d, had %d", phinc, lvl, prev)
		}
		prev = lvl
	}
}

func TestStreamWriteAfterCloseFails(t *testing.T) {
	s := NewStream(44100, false, false)
	s.Write([]float32{1, 2, 3})
	if _, err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := s.Write([]float32{4}); err == nil {
		t.Fatal("Write after Close should fail")
	}
}

func TestStreamEmptyYieldsOffWave(t *testing.T) {
	s := NewStream(44100, false, false)
	w, err := s.Close()
	if err != nil {
		t.Fatalf("Close: %v", err)
	}
	if w.Type != TypeOff {
		t.Fatalf("empty stream should close to TypeOff, got %v", w.Type)
	}
}

func TestDecodeI16Interleaved(t *testing.T) {
	// Two stereo frames: (16384, -16384), (8192, -8192) as little-endian
	// i16.
	data := []byte{
		0x00, 0x40, 0x00, 0xc0,
		0x00, 0x20, 0x00, 0xe0,
	}
	chans, err := Decode(data, FormatI16, 2, true)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(chans) != 2 || len(chans[0]) != 2 {
		t.Fatalf("unexpected shape: %d channels, %d frames", len(chans), len(chans[0]))
	}
	if diff := chans[0][0] - 0.5; diff > 1e-4 || diff < -1e-4 {
		t.Fatalf("left[0] = %v, want ~0.5", chans[0][0])
	}
	if diff := chans[1][0] + 0.5; diff > 1e-4 || diff < -1e-4 {
		t.Fatalf("right[0] = %v, want ~-0.5", chans[1][0])
	}
}

func TestDecodeRejectsUnevenByteCount(t *testing.T) {
	if _, err := Decode([]byte{1, 2, 3}, FormatI16, 1, true); err == nil {
		t.Fatal("expected error decoding an odd number of bytes as i16")
	}
}
