package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameEncodeDecode(t *testing.T) {
	tests := []struct {
		name  string
		frame TxFrame
	}{
		{
			name:  "empty payload",
			frame: TxFrame{DstShort: 0x5401, Sequence: 7},
		},
		{
			name:  "small payload",
			frame: TxFrame{DstShort: 0x5402, Sequence: 200, Payload: []byte{1, 2, 3, 4, 5}},
		},
		{
			name: "secured",
			frame: TxFrame{
				DstShort:        0x5403,
				Sequence:        42,
				SecurityEnabled: true,
				FrameCounter:    0xDEADBEEF,
				KeyID:           3,
				Payload:         []byte("hello child"),
			},
		},
		{
			name: "frame pending",
			frame: TxFrame{
				DstShort:     0x5404,
				Sequence:     1,
				FramePending: true,
				Payload:      make([]byte, MaxPayloadSize),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := tt.frame.Encode()
			require.LessOrEqual(t, len(data), MaxFrameSize)

			decoded := DecodeFrame(data)
			require.NotNil(t, decoded)

			assert.Equal(t, tt.frame.DstShort, decoded.DstShort)
			assert.Equal(t, tt.frame.Sequence, decoded.Sequence)
			assert.Equal(t, tt.frame.SecurityEnabled, decoded.SecurityEnabled)
			assert.Equal(t, tt.frame.FramePending, decoded.FramePending)
			if tt.frame.SecurityEnabled {
				assert.Equal(t, tt.frame.FrameCounter, decoded.FrameCounter)
				assert.Equal(t, tt.frame.KeyID, decoded.KeyID)
			}
			assert.Equal(t, len(tt.frame.Payload), len(decoded.Payload))
			if len(tt.frame.Payload) > 0 {
				assert.Equal(t, tt.frame.Payload, decoded.Payload)
			}
		})
	}
}

func TestDecodeFrameRejectsMalformed(t *testing.T) {
	valid := (&TxFrame{DstShort: 0x5401, Sequence: 9, Payload: []byte{1, 2, 3}}).Encode()

	t.Run("truncated", func(t *testing.T) {
		assert.Nil(t, DecodeFrame(valid[:FrameHeaderSize]))
	})

	t.Run("zero length byte", func(t *testing.T) {
		bad := append([]byte(nil), valid...)
		bad[0] = 0
		assert.Nil(t, DecodeFrame(bad))
	})

	t.Run("length beyond buffer", func(t *testing.T) {
		bad := append([]byte(nil), valid...)
		bad[0] = byte(len(bad) + 10)
		assert.Nil(t, DecodeFrame(bad))
	})

	t.Run("corrupt payload", func(t *testing.T) {
		bad := append([]byte(nil), valid...)
		bad[FrameHeaderSize] ^= 0xFF
		assert.Nil(t, DecodeFrame(bad))
	})

	t.Run("corrupt crc", func(t *testing.T) {
		bad := append([]byte(nil), valid...)
		bad[len(bad)-1] ^= 0xFF
		assert.Nil(t, DecodeFrame(bad))
	})
}

func TestFrameEmpty(t *testing.T) {
	var f TxFrame
	assert.True(t, f.Empty())

	f.DstShort = 0x5401
	assert.False(t, f.Empty())
}
