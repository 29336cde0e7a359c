package datastore_test

import (
	"testing"

	"github.com/meridianhft/meridian/datastore"
	"github.com/meridianhft/meridian/types"
	"github.com/meridianhft/meridian/types/num"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rowInstrument = types.MustInstrumentID("ETH/USD.SIM")

func TestQuoteTickRowRoundTrip(t *testing.T) {
	q, err := types.NewQuoteTick(
		rowInstrument,
		num.MustPriceFromString("1.2345"),
		num.MustPriceFromString("1.23456"),
		num.MustQuantityFromString("100.5"),
		num.MustQuantityFromString("75"),
		1_000, 2_000,
	)
	require.NoError(t, err)

	row := datastore.QuoteTickToRow(q)
	assert.Equal(t, "ETH/USD.SIM", row.InstrumentID)
	assert.Equal(t, int64(1_234_500_000), row.BidRaw)
	assert.Equal(t, uint8(4), row.BidPrec)
	assert.Equal(t, uint8(5), row.AskPrec)

	back, err := datastore.QuoteTickFromRow(row)
	require.NoError(t, err)
	assert.True(t, back.Bid().Equal(q.Bid()))
	assert.True(t, back.Ask().Equal(q.Ask()))
	assert.Equal(t, q.TsEvent(), back.TsEvent())
	assert.Equal(t, q.TsInit(), back.TsInit())
}

func TestTradeTickRowRoundTrip(t *testing.T) {
	tid, err := types.NewTradeID("T-1")
	require.NoError(t, err)
	tick, err := types.NewTradeTick(
		rowInstrument,
		num.MustPriceFromString("100.25"),
		num.MustQuantityFromString("3"),
		types.AggressorSideSeller,
		tid,
		5, 6,
	)
	require.NoError(t, err)

	row := datastore.TradeTickToRow(tick)
	assert.Equal(t, int32(2), row.Aggressor)

	back, err := datastore.TradeTickFromRow(row)
	require.NoError(t, err)
	assert.Equal(t, tick.Aggressor(), back.Aggressor())
	assert.True(t, back.Price().Equal(tick.Price()))
	assert.Equal(t, "T-1", back.TradeID().Value())
}

func TestBarRowRoundTrip(t *testing.T) {
	bar, err := types.NewBar(
		types.MustBarType("ETH/USD.SIM-1-MINUTE-LAST-INTERNAL"),
		num.MustPriceFromString("10"),
		num.MustPriceFromString("12.5"),
		num.MustPriceFromString("9"),
		num.MustPriceFromString("11"),
		num.MustQuantityFromString("42"),
		60_000_000_000, 60_000_000_001,
	)
	require.NoError(t, err)

	row := datastore.BarToRow(bar)
	// the widest OHLC precision wins the shared column
	assert.Equal(t, uint8(1), row.PricePrec)

	back, err := datastore.BarFromRow(row)
	require.NoError(t, err)
	assert.True(t, back.High().Equal(bar.High()))
	assert.Equal(t, bar.BarType().String(), back.BarType().String())
}

func TestBookDeltaRowRoundTrip(t *testing.T) {
	order := types.MustBookOrder(7, types.SideSell, num.MustPriceFromString("101"), num.MustQuantityFromString("2"))
	delta, err := types.NewOrderBookDelta(rowInstrument, types.BookActionUpdate, order, 9, 10, 11)
	require.NoError(t, err)

	row := datastore.BookDeltaToRow(delta)
	back, err := datastore.BookDeltaFromRow(row)
	require.NoError(t, err)
	assert.Equal(t, types.BookActionUpdate, back.Action())
	got, ok := back.Order()
	require.True(t, ok)
	assert.Equal(t, uint64(7), got.OrderID())

	// CLEAR survives without order columns
	clr, err := types.NewClearDelta(rowInstrument, 10, 12, 13)
	require.NoError(t, err)
	row = datastore.BookDeltaToRow(clr)
	assert.Equal(t, uint64(0), row.OrderID)
	back, err = datastore.BookDeltaFromRow(row)
	require.NoError(t, err)
	assert.Equal(t, types.BookActionClear, back.Action())
	_, ok = back.Order()
	assert.False(t, ok)
}

func TestSchemasAreStable(t *testing.T) {
	quote := datastore.QuoteTickSchema()
	names := make([]string, len(quote))
	for i, c := range quote {
		names[i] = c.Name
	}
	assert.Equal(t, []string{
		"instrument_id", "bid_raw", "ask_raw", "bid_prec", "ask_prec",
		"bid_size_raw", "ask_size_raw", "bsz_prec", "asz_prec",
		"ts_event", "ts_init",
	}, names)

	assert.Len(t, datastore.TradeTickSchema(), 9)
	assert.Len(t, datastore.BarSchema(), 10)
	assert.Len(t, datastore.BookDeltaSchema(), 11)
}

func TestEventToRowDispatch(t *testing.T) {
	bar, err := types.NewBar(
		types.MustBarType("ETH/USD.SIM-1-MINUTE-LAST-INTERNAL"),
		num.MustPriceFromString("10"),
		num.MustPriceFromString("10"),
		num.MustPriceFromString("10"),
		num.MustPriceFromString("10"),
		num.MustQuantityFromString("1"),
		1, 2,
	)
	require.NoError(t, err)

	row, err := datastore.EventToRow(bar)
	require.NoError(t, err)
	_, ok := row.(datastore.BarRow)
	assert.True(t, ok)

	_, err = datastore.EventToRow(42)
	assert.Error(t, err)
}
