package protocol

// Generic radio & protocol constants (platform independent). All higher layers
// should depend on this file.
const (
	// Frame sizing
	// Layout on air:
	//   Length (1) | Flags (1) | Seq (1) | DstShort (2) | [FrameCounter (4) | KeyID (1)] | Payload | CRC32 (4)
	// Length counts everything after the length byte, i.e., total frame size minus 1.
	// The security block is present only when the security flag is set.

	LengthFieldSize    = 1
	FlagsFieldSize     = 1
	SequenceFieldSize  = 1
	AddressFieldSize   = 2
	SecurityHeaderSize = 5 // FrameCounter(4) + KeyID(1)
	CRCSize            = 4 // CRC32, little-endian

	// Header before the optional security block and payload
	FrameHeaderSize = LengthFieldSize + FlagsFieldSize + SequenceFieldSize + AddressFieldSize // 5 bytes

	// Total maximum frame length on air (PHY limit)
	MaxFrameSize = 127

	// Application-level payload allowance, assuming a secured frame
	MaxPayloadSize = MaxFrameSize - FrameHeaderSize - SecurityHeaderSize - CRCSize

	// 2.4 GHz O-QPSK channel page
	MinChannel        = 11
	MaxChannel        = 26
	DefaultPanChannel = 11

	// CSL timing. Period and phase are expressed in ten-symbol units; one
	// symbol is 16 us on the 2.4 GHz PHY.
	UsPerTenSymbols = 160

	// Minimum configured lead time between requesting a frame and the window
	// opening, before accounting for bus transfer time.
	CslRequestAheadUs = 2000

	// Consecutive CSL-triggered tx failures after which a child is skipped by
	// the scheduler. The message itself is only dropped once the indirect
	// attempt limit is reached.
	MaxCslTxAttempts      = 4
	MaxIndirectTxAttempts = 4

	// internal helper (bytes in the fixed header after the length byte)
	headerWithoutLen = FrameHeaderSize - LengthFieldSize
)

// Frame flag bits
const (
	flagSecurityEnabled = 0x01
	flagFramePending    = 0x02
)
