package a2prop

import "testing"

func TestStringKnownAndUnknown(t *testing.T) {
	if PSampleRate.String() != "samplerate" {
		t.Fatalf("String() = %q, want samplerate", PSampleRate.String())
	}
	if ID(0xffff).String() != "unknown" {
		t.Fatalf("String() on an unmapped ID should be %q", "unknown")
	}
}

func TestReadOnly(t *testing.T) {
	if !PRefCount.ReadOnly() {
		t.Fatal("PRefCount should be read-only")
	}
	if !PActiveVoices.ReadOnly() {
		t.Fatal("every statistics property should be read-only")
	}
	if PSampleRate.ReadOnly() {
		t.Fatal("PSampleRate should be writable")
	}
}

func TestFormatValueUsesHzForSampleRate(t *testing.T) {
	if got := FormatValue(PSampleRate, 44100); got != "44.1 kHz" {
		t.Fatalf("FormatValue(PSampleRate, 44100) = %q, want 44.1 kHz", got)
	}
}

func TestFormatValueUsesDbForSilenceLevel(t *testing.T) {
	got := FormatValue(PSilenceLevel, 0)
	if got != "-∞ dB" {
		t.Fatalf("FormatValue(PSilenceLevel, 0) = %q, want -∞ dB", got)
	}
}

func TestFormatValueDefaultsToPlainInteger(t *testing.T) {
	if got := FormatValue(PActiveVoices, 7); got != "7" {
		t.Fatalf("FormatValue(PActiveVoices, 7) = %q, want 7", got)
	}
}
