package child

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bahubali-bg/openthread/protocol"
)

func TestTableAddAt(t *testing.T) {
	table := NewTable(4)

	a, err := table.Add(0x5401)
	require.NoError(t, err)
	b, err := table.Add(0x5402)
	require.NoError(t, err)

	assert.Equal(t, Index(0), a)
	assert.Equal(t, Index(1), b)
	assert.Equal(t, uint16(0x5401), table.At(a).Rloc16)
	assert.Equal(t, uint16(0x5402), table.At(b).Rloc16)
	assert.Equal(t, 2, table.Count())

	assert.Nil(t, table.At(None))
	assert.Nil(t, table.At(Index(2)))
	assert.Nil(t, table.At(Index(99)))
}

func TestTableFull(t *testing.T) {
	table := NewTable(1)

	_, err := table.Add(0x5401)
	require.NoError(t, err)

	ix, err := table.Add(0x5402)
	assert.ErrorIs(t, err, ErrTableFull)
	assert.Equal(t, None, ix)
}

func TestTableRemoveReusesSlot(t *testing.T) {
	table := NewTable(4)

	a, _ := table.Add(0x5401)
	_, _ = table.Add(0x5402)

	table.Remove(a)
	assert.Nil(t, table.At(a))
	assert.Equal(t, 1, table.Count())

	// Lowest free slot is claimed again.
	c, err := table.Add(0x5403)
	require.NoError(t, err)
	assert.Equal(t, a, c)
	assert.Equal(t, uint16(0x5403), table.At(c).Rloc16)
}

func TestTableIterationOrder(t *testing.T) {
	table := NewTable(4)

	for _, rloc := range []uint16{0x5401, 0x5402, 0x5403} {
		_, err := table.Add(rloc)
		require.NoError(t, err)
	}

	var seen []uint16
	table.ForEach(func(_ Index, c *Child) {
		seen = append(seen, c.Rloc16)
	})
	assert.Equal(t, []uint16{0x5401, 0x5402, 0x5403}, seen)
}

func TestChildQueue(t *testing.T) {
	var c Child

	assert.Nil(t, c.IndirectMessage())
	assert.Nil(t, c.DequeueMessage())
	assert.Equal(t, 0, c.IndirectMessageCount())

	m1 := &protocol.Message{Payload: []byte{1}}
	m2 := &protocol.Message{Payload: []byte{2}}
	c.EnqueueMessage(m1)
	c.EnqueueMessage(m2)

	assert.Equal(t, 2, c.IndirectMessageCount())
	assert.Same(t, m1, c.IndirectMessage())
	assert.Same(t, m1, c.DequeueMessage())
	assert.Same(t, m2, c.IndirectMessage())
}

func TestClearCsl(t *testing.T) {
	c := Child{
		Rloc16:          0x5401,
		CslSynchronized: true,
		CslPeriod:       3125,
		CslPhase:        40,
		CslChannel:      15,
		CslTimeout:      240,
		LastRxTimestamp: 123456,
		CslTxAttempts:   3,
	}
	c.EnqueueMessage(&protocol.Message{Payload: []byte{1}})

	c.ClearCsl()

	assert.False(t, c.CslSynchronized)
	assert.Zero(t, c.CslPeriod)
	assert.Zero(t, c.CslPhase)
	assert.Zero(t, c.CslChannel)
	assert.Zero(t, c.CslTimeout)
	assert.Zero(t, c.LastRxTimestamp)
	assert.Zero(t, c.CslTxAttempts)
	// queue survives; message lifetime is the sender's business
	assert.Equal(t, 1, c.IndirectMessageCount())
}
