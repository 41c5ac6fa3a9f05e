package engine

import (
	"sync/atomic"

	"github.com/olofson/audiality2-sub001/pkg/a2err"
	"github.com/olofson/audiality2-sub001/pkg/timestamp"
)

// Command is one timestamped message crossing from the API thread into
// the engine's processing loop: "send this register write (or voice
// control action) to this target at this point in time."
type Command struct {
	When   timestamp.T
	Target int32
	Reg    int32
	Value  int32 // raw Q16_16 bits; dispatch converts with unit.Q16_16(Value)
	Ramp   int32
	Kind   int32 // caller-defined: SetReg, Send, Kill, Spawn, ...
}

// CommandQueueCapacity bounds the ring buffer; a full queue indicates
// the API thread is producing commands faster than the audio thread can
// drain them, which should never happen under correct operation.
const CommandQueueCapacity = 4096

// CommandQueue is a single-producer/single-consumer ring buffer of
// Commands. The API thread calls Push; the audio thread calls PopReady,
// which only delivers commands due at or before a given timestamp,
// leaving later ones queued for a future buffer.
//
// Capacity is a power of two so the read/write cursors can be masked
// instead of computing a modulo, matching the fbdelay ring buffer's
// indexing style.
type CommandQueue struct {
	buf        [CommandQueueCapacity]Command
	writeIndex uint32 // atomically updated by the producer
	readIndex  uint32 // atomically updated by the consumer

	dropped uint64 // commands dropped because the queue was full
	late    uint64 // commands popped after their deadline had passed
}

const cqMask = CommandQueueCapacity - 1

// NewCommandQueue creates an empty queue.
func NewCommandQueue() *CommandQueue {
	return &CommandQueue{}
}

// Push enqueues a command. It returns a2err.BufOverflow if the queue is
// full; the caller (API thread) should treat that as backpressure, not
// silently drop the command itself.
func (q *CommandQueue) Push(c Command) error {
	w := atomic.LoadUint32(&q.writeIndex)
	r := atomic.LoadUint32(&q.readIndex)
	if w-r >= CommandQueueCapacity {
		atomic.AddUint64(&q.dropped, 1)
		return a2err.New(a2err.BufOverflow)
	}
	q.buf[w&cqMask] = c
	atomic.StoreUint32(&q.writeIndex, w+1)
	return nil
}

// PopReady drains every command whose When is not after `now` (within
// margin ticks of slack for minor scheduling jitter), calling handle for
// each in the order they were pushed. It stops at the first command
// still in the future, so commands queued behind it stay queued even if
// their own When has passed; they are not reordered by timestamp.
// A command popped more than margin ticks after its deadline is counted
// as late but still delivered — the engine runs it immediately rather
// than dropping it, matching the "late message" policy of best-effort
// delivery over silently losing a control change.
func (q *CommandQueue) PopReady(now timestamp.T, margin int32, handle func(Command, bool)) {
	r := q.readIndex
	w := atomic.LoadUint32(&q.writeIndex)
	for r != w {
		c := q.buf[r&cqMask]
		diff := timestamp.Diff(now, c.When)
		if diff < -margin {
			// Still scheduled for later than this buffer covers.
			break
		}
		late := diff > margin
		if late {
			atomic.AddUint64(&q.late, 1)
		}
		handle(c, late)
		r++
	}
	atomic.StoreUint32(&q.readIndex, r)
}

// Dropped returns the number of commands refused due to a full queue.
func (q *CommandQueue) Dropped() uint64 {
	return atomic.LoadUint64(&q.dropped)
}

// Late returns the number of commands delivered after their deadline
// plus margin had already passed.
func (q *CommandQueue) Late() uint64 {
	return atomic.LoadUint64(&q.late)
}

// Pending reports how many commands are currently queued, for
// diagnostics.
func (q *CommandQueue) Pending() int {
	w := atomic.LoadUint32(&q.writeIndex)
	return int(w - q.readIndex)
}
