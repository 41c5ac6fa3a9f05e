package timestamp

import "testing"

func TestDiffHalfModulusRule(t *testing.T) {
	// A small forward step is "later."
	if d := Diff(T(100), T(90)); d != 10 {
		t.Fatalf("Diff(100,90) = %d, want 10", d)
	}
	// A small backward step is "earlier."
	if d := Diff(T(90), T(100)); d != -10 {
		t.Fatalf("Diff(90,100) = %d, want -10", d)
	}
	// Wraparound: a is just after wrap, b is just before — a is "later"
	// by a small positive amount, not a huge negative one.
	a := T(5)
	b := T(0xfffffffb) // -5 as uint32
	if d := Diff(a, b); d != 10 {
		t.Fatalf("Diff across wrap = %d, want 10", d)
	}
}

func TestBeforeAfter(t *testing.T) {
	if !Before(T(10), T(20)) {
		t.Fatal("Before(10,20) should be true")
	}
	if !After(T(20), T(10)) {
		t.Fatal("After(20,10) should be true")
	}
	if Before(T(10), T(10)) || After(T(10), T(10)) {
		t.Fatal("equal timestamps are neither before nor after")
	}
}

func TestFromSecondsToSecondsRoundTrip(t *testing.T) {
	const sr = 44100
	for _, s := range []float64{0, 0.5, 1.0, 3.25, 10.0} {
		ts := FromSeconds(s, sr)
		got := ToSeconds(ts, sr)
		if diff := got - s; diff > 1.0/sr || diff < -1.0/sr {
			t.Fatalf("round trip for %v: got %v, diff %v exceeds one sample period", s, got, diff)
		}
	}
}

func TestBump(t *testing.T) {
	ts := T(100)
	next := Bump(ts, 5)
	if Diff(next, ts) < 5 {
		t.Fatalf("Bump should advance by at least 5 ticks, got diff %d", Diff(next, ts))
	}
	// Bump with a non-positive minimum still guarantees forward motion.
	next2 := Bump(ts, 0)
	if Diff(next2, ts) < 1 {
		t.Fatalf("Bump(ts,0) should still move forward, got diff %d", Diff(next2, ts))
	}
}

func TestNudgeClampsStepSize(t *testing.T) {
	current := T(0)
	target := T(100)
	next := Nudge(current, target, 10)
	if Diff(next, current) != 10 {
		t.Fatalf("Nudge should clamp to maxStep, got diff %d", Diff(next, current))
	}
	// Once within maxStep, Nudge lands exactly on target.
	next2 := Nudge(T(95), target, 10)
	if next2 != target {
		t.Fatalf("Nudge should reach target when within range, got %d want %d", next2, target)
	}
}

func TestNudgeNoOpWhenEqual(t *testing.T) {
	if got := Nudge(T(42), T(42), 10); got != T(42) {
		t.Fatalf("Nudge with equal current/target should be a no-op, got %d", got)
	}
}
