// Package sim provides a deterministic host-side radio: a Clock and
// TransmissionEngine implementation that fires scheduled CSL windows
// synchronously from Tick. It is the stand-in for a real radio driver during
// development and testing.
package sim

import (
	"sync"
	"time"

	"github.com/bahubali-bg/openthread/mac"
	"github.com/bahubali-bg/openthread/protocol"
)

// Outcome decides the over-air result of a frame; nil means success.
type Outcome func(*protocol.TxFrame) error

// Radio implements mac.Clock and mac.TransmissionEngine. It holds a single
// pending window; a new scheduling request supersedes the previous one.
//
// The scheduler entry points are driven only from Tick, so the single-writer
// discipline the MAC expects holds as long as Update and Tick are called from
// the same loop.
type Radio struct {
	nowFn      func() uint64
	busSpeedHz uint32

	sched   *mac.Scheduler
	armed   bool
	fireAt  uint64
	outcome Outcome

	mu    sync.Mutex
	txLog ringBuffer
}

// New returns a radio on a wall-clock microsecond timebase and an 8 MHz bus.
func New() *Radio {
	start := time.Now()
	return &Radio{
		nowFn:      func() uint64 { return uint64(time.Since(start).Microseconds()) },
		busSpeedHz: 8_000_000,
	}
}

// NewWithClock returns a radio on a caller-controlled timebase, for tests.
func NewWithClock(nowFn func() uint64, busSpeedHz uint32) *Radio {
	return &Radio{nowFn: nowFn, busSpeedHz: busSpeedHz}
}

// Bind attaches the scheduler the radio calls back into. Needed because the
// radio and the scheduler reference each other.
func (r *Radio) Bind(s *mac.Scheduler) { r.sched = s }

// SetOutcome installs the per-frame outcome function (default: success).
func (r *Radio) SetOutcome(fn Outcome) { r.outcome = fn }

func (r *Radio) Now() uint64        { return r.nowFn() }
func (r *Radio) BusSpeedHz() uint32 { return r.busSpeedHz }

func (r *Radio) RequestCslWindow(delayMs uint32) {
	r.armed = true
	r.fireAt = r.nowFn() + uint64(delayMs)*1000
}

// Tick fires the pending window if it is due: frame request, encode, sent
// notification. An aborted frame request skips the window without side
// effects.
func (r *Radio) Tick() {
	if r.sched == nil || !r.armed || r.nowFn() < r.fireAt {
		return
	}
	r.armed = false

	var frame protocol.TxFrame
	if err := r.sched.HandleFrameRequest(&frame); err != nil {
		return
	}

	r.mu.Lock()
	r.txLog.push(frame.Encode())
	r.mu.Unlock()

	var txErr error
	if r.outcome != nil {
		txErr = r.outcome(&frame)
	}
	r.sched.HandleSentFrame(&frame, txErr)
}

// TxLog returns copies of the encoded frames transmitted so far, oldest
// first.
func (r *Radio) TxLog() [][]byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.txLog.snapshot()
}

const ringCapacity = 64

type ringBuffer struct {
	data       [ringCapacity][]byte
	head, tail int // head = next pop, tail = next push
	count      int
}

func (rb *ringBuffer) push(frame []byte) {
	if rb.count == ringCapacity {
		// Overwrite the oldest when the buffer is full to keep memory bounded
		rb.data[rb.tail] = nil
		rb.head = (rb.head + 1) % ringCapacity
		rb.count--
	}
	rb.data[rb.tail] = frame
	rb.tail = (rb.tail + 1) % ringCapacity
	rb.count++
}

func (rb *ringBuffer) snapshot() [][]byte {
	out := make([][]byte, rb.count)
	i := rb.head
	for c := 0; c < rb.count; c++ {
		frame := rb.data[i]
		cp := make([]byte, len(frame))
		copy(cp, frame)
		out[c] = cp
		i = (i + 1) % ringCapacity
	}
	return out
}
