package mac

import (
	"github.com/bahubali-bg/openthread/child"
	"github.com/bahubali-bg/openthread/protocol"
)

// FrameContext is frame-builder continuation state tied 1:1 to the currently
// prepared frame. MessageNextOffset is the tentative fragment offset after
// this frame; the builder commits it to the child on success.
type FrameContext struct {
	MessageNextOffset int
}

// Callbacks is the capability pair the scheduler holds on the frame builder.
type Callbacks interface {
	// PrepareFrameForChild populates frame with payload and addressing for
	// the child's head queued message. Returns protocol.ErrAbort when no
	// message is available.
	PrepareFrameForChild(frame *protocol.TxFrame, ctx *FrameContext, c *child.Child) error

	// HandleSentFrameToChild is invoked when a prepared frame's transmission
	// concluded. The CSL scheduler calls it only with a nil error; retryable
	// failures are absorbed by rescheduling and stay invisible to the
	// builder.
	HandleSentFrameToChild(frame *protocol.TxFrame, ctx FrameContext, txErr error, c *child.Child)
}
