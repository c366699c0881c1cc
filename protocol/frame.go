package protocol

import (
	"encoding/binary"
	"hash/crc32"
)

// TxFrame is an outgoing link-layer frame. The fields up to Payload go on
// air; the remaining fields are radio metadata that accompanies the frame to
// the transmission engine but is never encoded.
type TxFrame struct {
	DstShort        uint16
	Sequence        uint8
	SecurityEnabled bool
	FramePending    bool
	FrameCounter    uint32
	KeyID           uint8
	Payload         []byte

	// Radio metadata
	Channel         uint8
	Retransmission  bool
	TxDelay         uint32 // us from TxDelayBaseTime to the receive window
	TxDelayBaseTime uint32 // low-order bits of the anchor timestamp
	CsmaCaEnabled   bool
}

// Empty reports whether the frame was never populated by a frame builder.
func (f *TxFrame) Empty() bool {
	return f.DstShort == 0 && len(f.Payload) == 0
}

// Encode serialises the on-air portion of the frame.
func (f *TxFrame) Encode() []byte {
	payload := f.Payload
	if len(payload) > MaxPayloadSize {
		payload = payload[:MaxPayloadSize]
	}

	bodyLen := headerWithoutLen + len(payload) + CRCSize // bytes after the length byte
	if f.SecurityEnabled {
		bodyLen += SecurityHeaderSize
	}

	data := make([]byte, LengthFieldSize+bodyLen)
	data[0] = byte(bodyLen)

	var flags byte
	if f.SecurityEnabled {
		flags |= flagSecurityEnabled
	}
	if f.FramePending {
		flags |= flagFramePending
	}
	data[1] = flags
	data[2] = f.Sequence
	binary.LittleEndian.PutUint16(data[3:5], f.DstShort)

	offset := FrameHeaderSize
	if f.SecurityEnabled {
		binary.LittleEndian.PutUint32(data[offset:offset+4], f.FrameCounter)
		data[offset+4] = f.KeyID
		offset += SecurityHeaderSize
	}

	copy(data[offset:], payload)
	offset += len(payload)

	crc := crc32.ChecksumIEEE(data[LengthFieldSize:offset])
	binary.LittleEndian.PutUint32(data[offset:offset+CRCSize], crc)

	return data
}

// DecodeFrame parses an on-air frame, returning nil when the buffer is
// malformed or the CRC does not match.
func DecodeFrame(data []byte) *TxFrame {
	if len(data) < FrameHeaderSize+CRCSize {
		return nil
	}

	bodyLen := int(data[0])
	if bodyLen == 0 || LengthFieldSize+bodyLen > len(data) {
		return nil
	}

	flags := data[1]
	f := &TxFrame{
		Sequence:        data[2],
		DstShort:        binary.LittleEndian.Uint16(data[3:5]),
		SecurityEnabled: flags&flagSecurityEnabled != 0,
		FramePending:    flags&flagFramePending != 0,
	}

	offset := FrameHeaderSize
	if f.SecurityEnabled {
		if LengthFieldSize+bodyLen < offset+SecurityHeaderSize+CRCSize {
			return nil
		}
		f.FrameCounter = binary.LittleEndian.Uint32(data[offset : offset+4])
		f.KeyID = data[offset+4]
		offset += SecurityHeaderSize
	}

	crcOffset := LengthFieldSize + bodyLen - CRCSize
	if crcOffset < offset {
		return nil
	}

	recvCRC := binary.LittleEndian.Uint32(data[crcOffset : crcOffset+CRCSize])
	if recvCRC != crc32.ChecksumIEEE(data[LengthFieldSize:crcOffset]) {
		return nil
	}

	if payloadLen := crcOffset - offset; payloadLen > 0 {
		f.Payload = make([]byte, payloadLen)
		copy(f.Payload, data[offset:crcOffset])
	}

	return f
}
