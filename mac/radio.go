package mac

// Clock is the radio driver's timebase: a monotonic, wrapping, microsecond
// resolution counter. It is not wall time and must never be converted to one.
type Clock interface {
	Now() uint64

	// BusSpeedHz reports the host-to-radio bus speed, queried once at
	// initialization to size the frame request-ahead time. Zero means the
	// radio is memory mapped and bus transfer time is negligible.
	BusSpeedHz() uint32
}

// TransmissionEngine is the physical transmission side of the MAC. A
// scheduling request asks the engine to invoke the scheduler's
// HandleFrameRequest after approximately delayMs milliseconds, and to report
// the over-air outcome via HandleSentFrame. A new request supersedes any
// pending one.
type TransmissionEngine interface {
	RequestCslWindow(delayMs uint32)
}
