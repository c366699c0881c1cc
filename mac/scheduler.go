// Package mac implements the CSL transmit scheduling core of the MAC
// sublayer: it picks which sleepy child to transmit a pending indirect frame
// to and times that transmission to land inside the child's receive window.
package mac

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/looplab/fsm"
	"go.uber.org/zap"

	"github.com/bahubali-bg/openthread/child"
	"github.com/bahubali-bg/openthread/logger"
	"github.com/bahubali-bg/openthread/metrics"
	"github.com/bahubali-bg/openthread/protocol"
)

// Scheduler drives CSL transmissions to sleepy children. It is a single-slot
// scheduler: at most one child/message pair is being scheduled or transmitted
// at any instant.
//
// The scheduler is invoked from three call sites that must never interleave:
// the periodic Update, the engine's frame request, and the engine's sent
// notification. The surrounding runtime is expected to serialize them.
type Scheduler struct {
	clock     Clock
	engine    TransmissionEngine
	children  *child.Table
	callbacks Callbacks
	log       *zap.SugaredLogger

	slot     *fsm.FSM
	target   child.Index
	inFlight *protocol.Message
	frameCtx FrameContext

	panChannel uint8

	// Minimum lead time in us between requesting a frame and the window
	// opening, rounded up to whole ten-symbol units.
	frameRequestAhead uint32
}

// NewScheduler wires a scheduler to its collaborators. The clock's bus speed
// is queried once, here, to size the frame request-ahead time.
func NewScheduler(clock Clock, engine TransmissionEngine, children *child.Table, callbacks Callbacks, panChannel uint8) *Scheduler {
	s := &Scheduler{
		clock:      clock,
		engine:     engine,
		children:   children,
		callbacks:  callbacks,
		log:        logger.For("csl"),
		slot:       newSlotFSM(),
		target:     child.None,
		panChannel: panChannel,
	}
	s.initFrameRequestAhead()
	return s
}

func (s *Scheduler) initFrameRequestAhead() {
	busSpeedHz := s.clock.BusSpeedHz()

	// longest frame on the bus is 127 bytes with some metadata, use 150
	// bytes for bus Tx time estimation
	var busTxTimeUs uint32
	if busSpeedHz != 0 {
		busTxTimeUs = (150*8*1000000 + busSpeedHz - 1) / busSpeedHz
	}

	ticks := (protocol.CslRequestAheadUs + busTxTimeUs + protocol.UsPerTenSymbols - 1) / protocol.UsPerTenSymbols
	s.frameRequestAhead = ticks * protocol.UsPerTenSymbols
}

// Update keeps the scheduler consistent with external changes: new messages
// queued, schedule parameters updated, a child removed. Safe to call
// periodically; it never races an in-progress transmission.
func (s *Scheduler) Update() {
	switch s.slot.Current() {
	case slotIdle, slotScheduled:
		s.reschedule()
	case slotInFlight:
		c := s.children.At(s.target)
		if c == nil || c.IndirectMessage() != s.inFlight {
			// The engine already started this tx; drop the target and wait
			// for the sent notification instead of double-driving the engine.
			s.target = child.None
			s.frameCtx.MessageNextOffset = 0
			s.mustFire(eventAbandon)
		}
	}
}

// Clear wipes all CSL scheduling state, used when the device detaches from
// the network.
func (s *Scheduler) Clear() {
	s.children.ForEach(func(_ child.Index, c *child.Child) {
		c.ClearCsl()
	})

	s.frameCtx.MessageNextOffset = 0
	s.target = child.None
	s.inFlight = nil
	s.slot.SetState(slotIdle)
}

// Idle reports whether no child is currently targeted.
func (s *Scheduler) Idle() bool { return s.slot.Current() == slotIdle }

// reschedule finds the child with the earliest upcoming receive window among
// all eligible children and asks the engine to fire at it. Must not be called
// while a transmission is in flight.
func (s *Scheduler) reschedule() {
	radioNow := s.clock.Now()
	minDelay := uint32(math.MaxUint32)
	best := child.None

	s.children.ForEach(func(ix child.Index, c *child.Child) {
		// A synchronized child always carries a nonzero period; a record
		// still being populated does not, and must not reach the modular
		// window math.
		if !c.CslSynchronized || c.CslPeriod == 0 || c.IndirectMessageCount() == 0 ||
			c.CslTxAttempts >= protocol.MaxCslTxAttempts {
			return
		}

		delay, _ := s.nextTransmissionDelay(c, radioNow)
		if delay < minDelay {
			minDelay = delay
			best = ix
		}
	})

	if best != child.None {
		s.engine.RequestCslWindow(minDelay / 1000)
		s.mustFire(eventSchedule)
		metrics.IncWindowRequested()
		s.log.Debugw("csl window requested",
			"rloc16", fmt.Sprintf("%04x", s.children.At(best).Rloc16),
			"delayUs", minDelay)
	} else if s.slot.Current() == slotScheduled {
		// No candidate left; the engine simply will not be asked to fire.
		s.mustFire(eventCancel)
	}

	s.target = best
}

// nextTransmissionDelay computes how far away the child's next receive window
// is, honoring the frame request-ahead lead time, plus the elapsed time from
// the child's anchor timestamp to that window. All arithmetic is modular in
// the wrapping radio clock domain.
func (s *Scheduler) nextTransmissionDelay(c *child.Child, radioNow uint64) (delay, delayFromLastRx uint32) {
	periodUs := uint64(c.CslPeriod) * protocol.UsPerTenSymbols
	firstTxWindow := c.LastRxTimestamp + uint64(c.CslPhase)*protocol.UsPerTenSymbols
	nextTxWindow := radioNow - (radioNow % periodUs) + (firstTxWindow % periodUs)

	for radioNow+uint64(s.frameRequestAhead) >= nextTxWindow {
		nextTxWindow += periodUs
	}

	return uint32(nextTxWindow - radioNow), uint32(nextTxWindow - c.LastRxTimestamp)
}

// HandleFrameRequest is called by the transmission engine at the moment it is
// ready to materialize the frame for the previously requested window.
// Returns protocol.ErrAbort when there is nothing to send, telling the engine
// to skip the window without side effects.
func (s *Scheduler) HandleFrameRequest(frame *protocol.TxFrame) error {
	c := s.children.At(s.target)
	if c == nil {
		return protocol.ErrAbort
	}

	if err := s.callbacks.PrepareFrameForChild(frame, &s.frameCtx, c); err != nil {
		return err
	}

	msg := c.IndirectMessage()
	if msg == nil {
		return protocol.ErrAbort
	}
	s.inFlight = msg
	s.mustFire(eventLaunch)

	if c.IndirectTxAttempts > 0 || c.CslTxAttempts > 0 {
		// A re-transmission of an indirect frame to a sleepy child must use
		// the same frame counter, key id, and data sequence number as the
		// previous attempt.
		frame.Retransmission = true
		frame.Sequence = c.IndirectDataSequenceNumber

		if frame.SecurityEnabled {
			frame.FrameCounter = c.IndirectFrameCounter
			frame.KeyID = c.IndirectKeyID
		}
	} else {
		frame.Retransmission = false
	}

	if c.CslChannel != 0 {
		frame.Channel = c.CslChannel
	} else {
		frame.Channel = s.panChannel
	}

	_, delayFromLastRx := s.nextTransmissionDelay(c, s.clock.Now())
	frame.TxDelay = delayFromLastRx
	frame.TxDelayBaseTime = uint32(c.LastRxTimestamp) // only the LSB part of the time is required
	frame.CsmaCaEnabled = false

	return nil
}

// HandleSentFrame is called by the transmission engine once the over-air
// attempt concludes. txErr is nil on success, or one of protocol.ErrNoAck,
// protocol.ErrChannelAccessFailure, protocol.ErrAbort; anything else is a
// contract violation and panics.
func (s *Scheduler) HandleSentFrame(frame *protocol.TxFrame, txErr error) {
	state := s.slot.Current()
	target := s.target
	s.inFlight = nil

	if state == slotOrphaned {
		// The result is no longer of interest to the upper layer.
		s.mustFire(eventComplete)
		return
	}
	if state != slotInFlight {
		// Stale notification; the slot was never launched.
		return
	}

	s.target = child.None
	s.mustFire(eventComplete)

	c := s.children.At(target)
	if c == nil {
		return
	}

	s.finishSentFrame(frame, txErr, c)
}

func (s *Scheduler) finishSentFrame(frame *protocol.TxFrame, txErr error, c *child.Child) {
	switch {
	case txErr == nil:
		c.CslTxAttempts = 0
		c.IndirectTxAttempts = 0
		metrics.IncTxOutcome(metrics.OutcomeSuccess)

	case errors.Is(txErr, protocol.ErrNoAck),
		errors.Is(txErr, protocol.ErrChannelAccessFailure),
		errors.Is(txErr, protocol.ErrAbort):

		if errors.Is(txErr, protocol.ErrNoAck) {
			c.CslTxAttempts++
			metrics.IncTxOutcome(metrics.OutcomeNoAck)
			s.log.Infow("csl tx to child failed",
				"rloc16", fmt.Sprintf("%04x", c.Rloc16),
				"attempt", c.CslTxAttempts,
				"max", protocol.MaxCslTxAttempts)
		} else if errors.Is(txErr, protocol.ErrChannelAccessFailure) {
			metrics.IncTxOutcome(metrics.OutcomeChannelAccessFailure)
		} else {
			metrics.IncTxOutcome(metrics.OutcomeAbort)
		}

		// Even if the CSL attempt count reaches max, the message is not
		// dropped until the indirect attempt count does. Persist the
		// retransmission identity and line up the next window.
		if !frame.Empty() {
			c.IndirectDataSequenceNumber = frame.Sequence

			if frame.SecurityEnabled {
				c.IndirectFrameCounter = frame.FrameCounter
				c.IndirectKeyID = frame.KeyID
			}
		}

		s.reschedule()
		return

	default:
		panic(fmt.Sprintf("csl scheduler: unexpected tx outcome: %v", txErr))
	}

	s.callbacks.HandleSentFrameToChild(frame, s.frameCtx, txErr, c)
}

// mustFire drives the slot state machine. A transition staying in place is
// fine; an invalid transition means a call-site contract was broken.
func (s *Scheduler) mustFire(event string) {
	err := s.slot.Event(context.Background(), event)
	if err == nil {
		return
	}

	var noTransition fsm.NoTransitionError
	if errors.As(err, &noTransition) {
		return
	}

	s.log.DPanicw("invalid slot transition",
		"event", event,
		"state", s.slot.Current(),
		"error", err)
}
