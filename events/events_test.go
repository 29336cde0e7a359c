package events_test

import (
	"testing"

	"github.com/meridianhft/meridian/events"
	"github.com/meridianhft/meridian/types"
	"github.com/meridianhft/meridian/types/num"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventDispatch(t *testing.T) {
	instrument := types.MustInstrumentID("ETH/USD.SIM")

	quote, err := types.NewQuoteTick(
		instrument,
		num.MustPriceFromString("1.1"),
		num.MustPriceFromString("1.2"),
		num.MustQuantityFromString("1"),
		num.MustQuantityFromString("1"),
		1, 2,
	)
	require.NoError(t, err)

	e, err := events.New(quote)
	require.NoError(t, err)
	assert.Equal(t, events.QuoteEvent, e.Type())
	assert.Equal(t, instrument, e.InstrumentID())
	assert.Equal(t, uint64(1), e.TsEvent())
	assert.Equal(t, uint64(2), e.TsInit())

	// pointer payloads dispatch the same way
	e, err = events.New(&quote)
	require.NoError(t, err)
	assert.Equal(t, events.QuoteEvent, e.Type())

	order := types.MustBookOrder(1, types.SideBuy, num.MustPriceFromString("100"), num.MustQuantityFromString("5"))
	delta, err := types.NewOrderBookDelta(instrument, types.BookActionAdd, order, 1, 1, 2)
	require.NoError(t, err)
	e, err = events.New(delta)
	require.NoError(t, err)
	assert.Equal(t, events.BookDeltaEvent, e.Type())

	_, err = events.New("not an event")
	assert.ErrorIs(t, err, events.ErrUnsupportedEvent)
}
