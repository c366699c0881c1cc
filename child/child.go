// Package child holds the per-child synchronization and message-queue state
// mutated by the CSL scheduler, and the table that owns the child records.
package child

import "github.com/bahubali-bg/openthread/protocol"

// Child is one sleepy device attached to this parent. The scheduler and the
// indirect sender read and mutate these fields directly; access is exclusive
// and non-reentrant during each call into the MAC.
type Child struct {
	Rloc16 uint16

	// CSL synchronization state. Period and phase are in ten-symbol units;
	// a zero channel means "use the PAN default".
	CslSynchronized bool
	CslPeriod       uint16
	CslPhase        uint16
	CslChannel      uint8
	CslTimeout      uint32
	LastRxTimestamp uint64 // radio clock, us, wrapping

	// Consecutive CSL-triggered tx failures. Capped at
	// protocol.MaxCslTxAttempts while the child remains a candidate.
	CslTxAttempts uint32

	// Retransmission identity of the in-progress indirect message. These must
	// stay byte-identical across retries of the same logical message.
	IndirectTxAttempts         uint32
	IndirectFrameCounter       uint32
	IndirectKeyID              uint8
	IndirectDataSequenceNumber uint8

	// Committed fragment offset into the head queued message.
	IndirectNextOffset int

	queue []*protocol.Message
}

// EnqueueMessage appends a message to the child's indirect queue.
func (c *Child) EnqueueMessage(m *protocol.Message) {
	c.queue = append(c.queue, m)
}

// DequeueMessage removes and returns the head of the indirect queue.
func (c *Child) DequeueMessage() *protocol.Message {
	if len(c.queue) == 0 {
		return nil
	}
	m := c.queue[0]
	c.queue = c.queue[1:]
	return m
}

// IndirectMessage returns the head of the indirect queue without removing it.
func (c *Child) IndirectMessage() *protocol.Message {
	if len(c.queue) == 0 {
		return nil
	}
	return c.queue[0]
}

func (c *Child) IndirectMessageCount() int { return len(c.queue) }

// ClearCsl invalidates the child's CSL schedule and attempt bookkeeping. The
// message queue is untouched; message lifetime belongs to the indirect sender.
func (c *Child) ClearCsl() {
	c.CslTxAttempts = 0
	c.CslSynchronized = false
	c.CslChannel = 0
	c.CslTimeout = 0
	c.CslPeriod = 0
	c.CslPhase = 0
	c.LastRxTimestamp = 0
}
