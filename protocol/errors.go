package protocol

import "errors"

var (
	// ErrAbort signals the transmission engine to skip the current window:
	// there is no target, or no message was available at build time.
	ErrAbort = errors.New("transmission aborted")

	// ErrNoAck reports that the frame was transmitted but never acknowledged.
	ErrNoAck = errors.New("no acknowledgment received")

	// ErrChannelAccessFailure reports that the frame never contended for the
	// channel.
	ErrChannelAccessFailure = errors.New("channel access failure")

	ErrInvalidChannel = errors.New("invalid channel (valid range: 11-26)")
)
