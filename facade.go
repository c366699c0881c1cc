// Package openthread provides a façade over the CSL transmit scheduling core
// of a mesh radio MAC sublayer: the child registry, the indirect frame
// sender, the scheduler, and a host-side simulated radio to drive them.
package openthread

import (
	"github.com/bahubali-bg/openthread/child"
	"github.com/bahubali-bg/openthread/driver/sim"
	"github.com/bahubali-bg/openthread/logger"
	"github.com/bahubali-bg/openthread/mac"
	"github.com/bahubali-bg/openthread/protocol"
	"github.com/bahubali-bg/openthread/sender"
)

// Re-export the types callers wire against.
type (
	Child          = child.Child
	ChildIndex     = child.Index
	ChildTable     = child.Table
	TxFrame        = protocol.TxFrame
	Message        = protocol.Message
	FrameContext   = mac.FrameContext
	Scheduler      = mac.Scheduler
	IndirectSender = sender.IndirectSender
)

// Error constants exposed in the public API
var (
	ErrAbort                = protocol.ErrAbort
	ErrNoAck                = protocol.ErrNoAck
	ErrChannelAccessFailure = protocol.ErrChannelAccessFailure
	ErrInvalidChannel       = protocol.ErrInvalidChannel
)

// NoChild is the null child handle.
const NoChild = child.None

// Stack wires the child table, indirect sender and CSL scheduler together.
// Radio is set only by NewStack; NewStackWithRadio leaves it nil and the
// caller owns the engine.
type Stack struct {
	Children  *child.Table
	Sender    *sender.IndirectSender
	Scheduler *mac.Scheduler
	Radio     *sim.Radio
}

// NewStack builds a stack backed by the host simulation radio.
func NewStack(cfg Config) (*Stack, error) {
	radio := sim.New()

	stack, err := NewStackWithRadio(cfg, radio, radio)
	if err != nil {
		return nil, err
	}

	stack.Radio = radio
	radio.Bind(stack.Scheduler)
	return stack, nil
}

// NewStackWithRadio builds a stack on custom clock and transmission engine
// implementations.
func NewStackWithRadio(cfg Config, clock mac.Clock, engine mac.TransmissionEngine) (*Stack, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger.Init(cfg.LogLevel)

	table := child.NewTable(cfg.ChildTableSize)
	snd := sender.NewIndirectSender()
	sched := mac.NewScheduler(clock, engine, table, snd, cfg.PanChannel)

	return &Stack{
		Children:  table,
		Sender:    snd,
		Scheduler: sched,
	}, nil
}

// Update refreshes scheduling; call it periodically from the loop that also
// drives the radio.
func (s *Stack) Update() { s.Scheduler.Update() }
