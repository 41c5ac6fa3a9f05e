// Package timestamp implements the engine's 24.8 fixed-point modular
// clock: a wrapping uint32 counter with 256 fractional steps per sample
// frame, used to schedule every message that
// crosses from the API thread into the audio thread.
//
// Because the counter wraps, "earlier" and "later" only make sense as a
// signed difference: Diff treats any difference whose magnitude exceeds
// half the modulus as having wrapped, matching a2_TSDiff's cast to a
// signed 32-bit int.
package timestamp

// T is a 24.8 fixed-point timestamp: the high 24 bits count whole
// ticks, the low 8 bits are the fractional part.
type T uint32

// Fractional bits of the timestamp representation.
const FracBits = 8

// FromSeconds converts a floating-point seconds value into a T, assuming
// a tick rate of one tick per sample at the given sample rate.
func FromSeconds(seconds float64, sampleRate int) T {
	ticks := seconds * float64(sampleRate)
	return T(int64(ticks*(1<<FracBits)+0.5)) & 0x7fffffff
}

// ToSeconds converts a T back to floating-point seconds at the given
// sample rate. It is not an exact inverse of FromSeconds across a wrap.
func ToSeconds(ts T, sampleRate int) float64 {
	return float64(int32(ts)) / float64(1<<FracBits) / float64(sampleRate)
}

// Diff computes a-b as a signed difference, handling wraparound: if the
// raw difference would be more than half the modulus in magnitude, it is
// assumed to have wrapped and the difference is interpreted the other
// way around. This mirrors a2_TSDiff's "(int)(a - b)" cast, since Go's
// conversion of a uint32 difference to int32 performs the same modular
// reduction.
func Diff(a, b T) int32 {
	return int32(a - b)
}

// Before reports whether a denotes a point in time strictly earlier than
// b, accounting for wraparound.
func Before(a, b T) bool {
	return Diff(a, b) < 0
}

// After reports whether a denotes a point in time strictly later than b,
// accounting for wraparound.
func After(a, b T) bool {
	return Diff(a, b) > 0
}

// Add advances a timestamp by a signed number of ticks (24.8 units).
func Add(ts T, ticks int32) T {
	return ts + T(ticks)
}

// Bump advances ts by at least minTicks, used to guarantee strictly
// increasing timestamps for messages that must not collide (mirrors
// a2_TimestampBump).
func Bump(ts T, minTicks int32) T {
	if minTicks < 1 {
		minTicks = 1
	}
	return ts + T(minTicks)
}

// Nudge performs slew-style drift correction: it moves "current" toward
// "target" by at most maxStep ticks per call, used by the engine to
// absorb small, gradual clock drift between the API and audio threads
// without causing an audible jump (mirrors a2_TimestampNudge).
func Nudge(current, target T, maxStep int32) T {
	d := Diff(target, current)
	if d == 0 {
		return current
	}
	if maxStep <= 0 {
		return target
	}
	if d > 0 {
		if d > maxStep {
			d = maxStep
		}
	} else {
		if d < -maxStep {
			d = -maxStep
		}
	}
	return current + T(d)
}
