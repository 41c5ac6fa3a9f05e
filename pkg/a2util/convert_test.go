package a2util

import (
	"math"
	"testing"
)

func TestLinearDbRoundTrip(t *testing.T) {
	got := DbToLinear(LinearToDb(0.5))
	if diff := got - 0.5; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("round trip = %v, want 0.5", got)
	}
}

func TestLinearToDbZeroIsNegativeInfinity(t *testing.T) {
	if !math.IsInf(LinearToDb(0), -1) {
		t.Fatalf("LinearToDb(0) = %v, want -Inf", LinearToDb(0))
	}
}

func TestNoteToFrequencyA4(t *testing.T) {
	if got := NoteToFrequency(69); got != 440 {
		t.Fatalf("NoteToFrequency(69) = %v, want 440", got)
	}
}

func TestFrequencyToNoteRoundTrip(t *testing.T) {
	if got := FrequencyToNote(440); got != 69 {
		t.Fatalf("FrequencyToNote(440) = %v, want 69", got)
	}
}

func TestNoteToPitchIsZeroAtA4(t *testing.T) {
	if got := NoteToPitch(69); got != 0 {
		t.Fatalf("NoteToPitch(69) = %v, want 0", got)
	}
	if got := NoteToPitch(81); got != 1 {
		t.Fatalf("NoteToPitch(81) = %v, want 1 (one octave above A4)", got)
	}
}

func TestClamp(t *testing.T) {
	if Clamp(5, 0, 1) != 1 {
		t.Fatal("Clamp should cap at hi")
	}
	if Clamp(-5, 0, 1) != 0 {
		t.Fatal("Clamp should floor at lo")
	}
}

func TestSmoothstepEndpoints(t *testing.T) {
	if Smoothstep(0, 1, 0) != 0 {
		t.Fatal("Smoothstep(0) should be 0")
	}
	if Smoothstep(0, 1, 1) != 1 {
		t.Fatal("Smoothstep(1) should be 1")
	}
}

func TestVelocityAmpRoundTrip(t *testing.T) {
	if got := AmpToVelocity(VelocityToAmp(100)); got != 100 {
		t.Fatalf("round trip = %d, want 100", got)
	}
}
