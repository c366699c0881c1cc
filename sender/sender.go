// Package sender implements the indirect frame sender: it owns the queued
// messages destined for sleepy children and builds the wire frames the CSL
// scheduler hands to the radio.
package sender

import (
	"go.uber.org/zap"

	"github.com/bahubali-bg/openthread/child"
	"github.com/bahubali-bg/openthread/logger"
	"github.com/bahubali-bg/openthread/mac"
	"github.com/bahubali-bg/openthread/protocol"
)

// IndirectSender prepares indirect frames and tracks message delivery. It
// implements mac.Callbacks.
type IndirectSender struct {
	log *zap.SugaredLogger

	dsn          uint8
	frameCounter uint32
	keyID        uint8
}

func NewIndirectSender() *IndirectSender {
	return &IndirectSender{
		log:   logger.For("sender"),
		keyID: 1,
	}
}

// EnqueueMessage queues a message for the child until its listening window.
func (s *IndirectSender) EnqueueMessage(c *child.Child, m *protocol.Message) {
	c.EnqueueMessage(m)
	s.log.Debugw("indirect message queued",
		"rloc16", c.Rloc16,
		"queued", c.IndirectMessageCount())
}

// PrepareFrameForChild populates frame with the next fragment of the child's
// head queued message. The tentative next fragment offset is recorded in ctx;
// it is committed only when the frame is reported sent.
func (s *IndirectSender) PrepareFrameForChild(frame *protocol.TxFrame, ctx *mac.FrameContext, c *child.Child) error {
	m := c.IndirectMessage()
	if m == nil {
		return protocol.ErrAbort
	}

	offset := c.IndirectNextOffset
	if offset > len(m.Payload) {
		offset = len(m.Payload)
	}
	end := offset + protocol.MaxPayloadSize
	if end > len(m.Payload) {
		end = len(m.Payload)
	}

	frame.DstShort = c.Rloc16
	frame.Payload = append([]byte(nil), m.Payload[offset:end]...)
	frame.SecurityEnabled = m.Security
	frame.FramePending = end < len(m.Payload) || c.IndirectMessageCount() > 1

	// Fresh identity; the scheduler overrides these for retransmissions.
	frame.Sequence = s.dsn
	s.dsn++
	if m.Security {
		frame.FrameCounter = s.frameCounter
		s.frameCounter++
		frame.KeyID = s.keyID
	}

	ctx.MessageNextOffset = end
	return nil
}

// HandleSentFrameToChild finalizes a concluded attempt for a prepared frame.
// The CSL scheduler invokes it only on success; a contention-based path may
// report terminal errors, which count against the indirect attempt limit.
func (s *IndirectSender) HandleSentFrameToChild(frame *protocol.TxFrame, ctx mac.FrameContext, txErr error, c *child.Child) {
	m := c.IndirectMessage()
	if m == nil {
		return
	}

	if txErr == nil {
		c.IndirectNextOffset = ctx.MessageNextOffset
		if c.IndirectNextOffset >= len(m.Payload) {
			c.DequeueMessage()
			c.IndirectNextOffset = 0
			c.IndirectTxAttempts = 0
			s.log.Debugw("indirect message delivered",
				"rloc16", c.Rloc16,
				"remaining", c.IndirectMessageCount())
		}
		return
	}

	c.IndirectTxAttempts++
	if c.IndirectTxAttempts >= protocol.MaxIndirectTxAttempts {
		c.DequeueMessage()
		c.IndirectNextOffset = 0
		c.IndirectTxAttempts = 0
		s.log.Infow("indirect message dropped",
			"rloc16", c.Rloc16,
			"attempts", protocol.MaxIndirectTxAttempts)
	}
}
