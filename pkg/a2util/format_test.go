package a2util

import "testing"

func TestFormatDbNegativeInfinity(t *testing.T) {
	if got := FormatDb(0, 1); got != "-∞ dB" {
		t.Fatalf("FormatDb(0) = %q, want -∞ dB", got)
	}
}

func TestParseDbRoundTrip(t *testing.T) {
	linear, err := ParseDb(FormatDb(0.5, 4))
	if err != nil {
		t.Fatalf("ParseDb: %v", err)
	}
	if diff := linear - 0.5; diff > 1e-3 || diff < -1e-3 {
		t.Fatalf("round trip = %v, want ~0.5", linear)
	}
}

func TestFormatHzSwitchesToKilohertz(t *testing.T) {
	if got := FormatHz(44100, 1); got != "44.1 kHz" {
		t.Fatalf("FormatHz(44100) = %q, want 44.1 kHz", got)
	}
	if got := FormatHz(440, 0); got != "440 Hz" {
		t.Fatalf("FormatHz(440) = %q, want 440 Hz", got)
	}
}

func TestParseHzRoundTrip(t *testing.T) {
	hz, err := ParseHz("1.5 kHz")
	if err != nil {
		t.Fatalf("ParseHz: %v", err)
	}
	if hz != 1500 {
		t.Fatalf("ParseHz(1.5 kHz) = %v, want 1500", hz)
	}
}

func TestFormatNoteA4(t *testing.T) {
	if got := FormatNote(69); got != "A4" {
		t.Fatalf("FormatNote(69) = %q, want A4", got)
	}
}

func TestParseNoteRoundTrip(t *testing.T) {
	note, err := ParseNote(FormatNote(60))
	if err != nil {
		t.Fatalf("ParseNote: %v", err)
	}
	if note != 60 {
		t.Fatalf("round trip = %d, want 60", note)
	}
}
