package protocol

// Message is an indirect MSDU queued for a sleepy child until its listening
// window. Payloads longer than MaxPayloadSize are sent as a sequence of
// frames; the frame builder tracks the fragment offset.
type Message struct {
	Security bool
	Payload  []byte
}
