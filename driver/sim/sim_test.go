package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bahubali-bg/openthread/child"
	"github.com/bahubali-bg/openthread/mac"
	"github.com/bahubali-bg/openthread/protocol"
	"github.com/bahubali-bg/openthread/sender"
)

// End-to-end pipeline on a manual clock: table -> sender -> scheduler ->
// radio, driven by Tick.
func newPipeline(t *testing.T) (*Radio, *mac.Scheduler, *child.Table, *sender.IndirectSender, *uint64) {
	t.Helper()

	now := new(uint64)
	radio := NewWithClock(func() uint64 { return *now }, 0)
	table := child.NewTable(4)
	snd := sender.NewIndirectSender()
	sched := mac.NewScheduler(radio, radio, table, snd, protocol.DefaultPanChannel)
	radio.Bind(sched)
	return radio, sched, table, snd, now
}

func TestTickTransmitsAtWindow(t *testing.T) {
	radio, sched, table, snd, now := newPipeline(t)

	ix, err := table.Add(0x5401)
	require.NoError(t, err)
	c := table.At(ix)
	c.CslSynchronized = true
	c.CslPeriod = 100 // 16 ms
	snd.EnqueueMessage(c, &protocol.Message{Payload: []byte("wake up")})

	sched.Update()
	require.False(t, sched.Idle())

	// Not due yet.
	radio.Tick()
	assert.Empty(t, radio.TxLog())

	*now = 20_000
	radio.Tick()

	log := radio.TxLog()
	require.Len(t, log, 1)

	frame := protocol.DecodeFrame(log[0])
	require.NotNil(t, frame)
	assert.Equal(t, uint16(0x5401), frame.DstShort)
	assert.Equal(t, []byte("wake up"), frame.Payload)

	// Delivered: counters reset, queue drained, scheduler idle.
	assert.Zero(t, c.IndirectMessageCount())
	assert.Zero(t, c.CslTxAttempts)
	assert.True(t, sched.Idle())
}

func TestTickRetriesOnNoAck(t *testing.T) {
	radio, sched, table, snd, now := newPipeline(t)

	ix, err := table.Add(0x5401)
	require.NoError(t, err)
	c := table.At(ix)
	c.CslSynchronized = true
	c.CslPeriod = 100
	snd.EnqueueMessage(c, &protocol.Message{Payload: []byte{1}})

	failures := 0
	radio.SetOutcome(func(*protocol.TxFrame) error {
		if failures < 1 {
			failures++
			return protocol.ErrNoAck
		}
		return nil
	})

	sched.Update()

	*now = 20_000
	radio.Tick() // no-ack; scheduler requests the next window itself
	require.Equal(t, uint32(1), c.CslTxAttempts)
	require.Equal(t, 1, c.IndirectMessageCount())

	*now = 40_000
	radio.Tick() // retry succeeds

	log := radio.TxLog()
	require.Len(t, log, 2)

	first := protocol.DecodeFrame(log[0])
	retry := protocol.DecodeFrame(log[1])
	require.NotNil(t, first)
	require.NotNil(t, retry)
	assert.Equal(t, first.Sequence, retry.Sequence)

	assert.Zero(t, c.CslTxAttempts)
	assert.Zero(t, c.IndirectMessageCount())
}

func TestTickAbortSkipsWindow(t *testing.T) {
	radio, sched, table, snd, now := newPipeline(t)

	ix, err := table.Add(0x5401)
	require.NoError(t, err)
	c := table.At(ix)
	c.CslSynchronized = true
	c.CslPeriod = 100
	snd.EnqueueMessage(c, &protocol.Message{Payload: []byte{1}})

	sched.Update()

	// Message consumed by another path before the window fired; the frame
	// request aborts and nothing is transmitted.
	c.DequeueMessage()

	*now = 20_000
	radio.Tick()

	assert.Empty(t, radio.TxLog())
	assert.Zero(t, c.CslTxAttempts)
}
