package a2util

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatDb renders a linear gain value as a decibel string with the
// given number of decimal places.
func FormatDb(linear float64, precision int) string {
	db := LinearToDb(linear)
	if math.IsInf(db, -1) {
		return "-∞ dB"
	}
	return fmt.Sprintf("%.*f dB", precision, db)
}

// ParseDb parses a decibel string (e.g. "-6.0 dB") back to a linear gain.
func ParseDb(text string) (float64, error) {
	text = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), "dB"))
	if text == "-∞" || text == "-inf" {
		return 0, nil
	}
	db, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, err
	}
	return DbToLinear(db), nil
}

// FormatHz renders a frequency with Hz or kHz units depending on scale.
func FormatHz(freq float64, precision int) string {
	if freq >= 1000 {
		return fmt.Sprintf("%.*f kHz", precision, freq/1000)
	}
	return fmt.Sprintf("%.*f Hz", precision, freq)
}

// ParseHz parses a frequency string ("440 Hz" or "1.5 kHz") to Hz.
func ParseHz(text string) (float64, error) {
	text = strings.TrimSpace(text)
	lower := strings.ToLower(text)
	if strings.HasSuffix(lower, "khz") {
		v, err := strconv.ParseFloat(strings.TrimSpace(text[:len(text)-3]), 64)
		if err != nil {
			return 0, err
		}
		return v * 1000, nil
	}
	trimmed := strings.TrimSuffix(strings.TrimSuffix(text, "Hz"), "hz")
	return strconv.ParseFloat(strings.TrimSpace(trimmed), 64)
}

// FormatSeconds renders a duration in ms below one second, seconds above.
func FormatSeconds(seconds float64, precision int) string {
	if seconds < 1 {
		return fmt.Sprintf("%.*f ms", precision, seconds*1000)
	}
	return fmt.Sprintf("%.*f s", precision, seconds)
}

// ParseSeconds parses a duration string ("100 ms" or "1.5 s") to seconds.
func ParseSeconds(text string) (float64, error) {
	text = strings.TrimSpace(text)
	if strings.HasSuffix(text, "ms") {
		v, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(text, "ms")), 64)
		if err != nil {
			return 0, err
		}
		return v / 1000, nil
	}
	return strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(text, "s")), 64)
}

var noteNames = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// FormatNote renders a MIDI note number as a note name plus octave
// ("A4"), following the convention that note 69 (A4) is octave 4.
func FormatNote(note int) string {
	octave := note/12 - 1
	return fmt.Sprintf("%s%d", noteNames[((note%12)+12)%12], octave)
}

// ParseNote parses a note name ("A4", "C#3") to a MIDI note number.
func ParseNote(text string) (int, error) {
	text = strings.TrimSpace(text)
	if len(text) < 2 {
		return 0, fmt.Errorf("a2util: invalid note %q", text)
	}
	namePart, octavePart := text[:1], text[1:]
	if len(text) >= 3 && text[1] == '#' {
		namePart, octavePart = text[:2], text[2:]
	}
	octave, err := strconv.Atoi(octavePart)
	if err != nil {
		return 0, fmt.Errorf("a2util: invalid octave in %q: %w", text, err)
	}
	semitones := map[string]int{
		"C": 0, "C#": 1, "D": 2, "D#": 3, "E": 4, "F": 5,
		"F#": 6, "G": 7, "G#": 8, "A": 9, "A#": 10, "B": 11,
	}
	semitone, ok := semitones[strings.ToUpper(namePart)]
	if !ok {
		return 0, fmt.Errorf("a2util: invalid note name %q", namePart)
	}
	return (octave+1)*12 + semitone, nil
}
