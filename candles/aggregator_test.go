// Copyright (C) 2023 Gobalsky Labs Limited
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package candles_test

import (
	"fmt"
	"testing"

	"github.com/meridianhft/meridian/candles"
	"github.com/meridianhft/meridian/logging"
	"github.com/meridianhft/meridian/types"
	"github.com/meridianhft/meridian/types/num"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secNs = uint64(1_000_000_000)

var aggInstrument = types.MustInstrumentID("AUD/USD.SIM")

func newAggregator(t *testing.T, barType string) *candles.Aggregator {
	t.Helper()
	a, err := candles.NewAggregator(
		logging.NewTestLogger(),
		candles.NewDefaultConfig(),
		types.MustBarType(barType),
		candles.WithClock(func() uint64 { return 1_000_000 * secNs }),
	)
	require.NoError(t, err)
	return a
}

func trade(t *testing.T, n int, price, size string, tsEvent uint64) types.TradeTick {
	t.Helper()
	tid, err := types.NewTradeID(fmt.Sprintf("T-%06d", n))
	require.NoError(t, err)
	tick, err := types.NewTradeTick(
		aggInstrument,
		num.MustPriceFromString(price),
		num.MustQuantityFromString(size),
		types.AggressorSideBuyer,
		tid,
		tsEvent, tsEvent,
	)
	require.NoError(t, err)
	return tick
}

func TestAggregator_RejectsExternalBarType(t *testing.T) {
	_, err := candles.NewAggregator(
		logging.NewTestLogger(),
		candles.NewDefaultConfig(),
		types.MustBarType("AUD/USD.SIM-1-MINUTE-LAST-EXTERNAL"),
	)
	assert.ErrorIs(t, err, candles.ErrExternalBarType)
}

func TestAggregator_TimeBars(t *testing.T) {
	a := newAggregator(t, "AUD/USD.SIM-1-MINUTE-LAST-INTERNAL")

	// ticks inside the first minute build, none close
	for i, tk := range []struct {
		price string
		ts    uint64
	}{
		{"10", 0},
		{"12", 30 * secNs},
		{"9", 45 * secNs},
	} {
		bars, err := a.OnTrade(trade(t, i, tk.price, "2", tk.ts))
		require.NoError(t, err)
		assert.Empty(t, bars, "tick %d", i)
	}

	// the tick past the boundary seals the bar and opens the next one
	bars, err := a.OnTrade(trade(t, 3, "11", "2", 61*secNs))
	require.NoError(t, err)
	require.Len(t, bars, 1)

	bar := bars[0]
	assert.Equal(t, "10", bar.Open().String())
	assert.Equal(t, "12", bar.High().String())
	assert.Equal(t, "9", bar.Low().String())
	assert.Equal(t, "9", bar.Close().String())
	assert.Equal(t, uint64(6_000_000_000), bar.Volume().Raw())
	assert.Equal(t, 60*secNs, bar.TsEvent())
	assert.GreaterOrEqual(t, bar.TsInit(), bar.TsEvent())
	assert.Equal(t, types.AggregationSourceInternal, bar.BarType().Source())

	// the 61s tick went into the second window
	bars, err = a.OnTrade(trade(t, 4, "13", "1", 121*secNs))
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, "11", bars[0].Open().String())
	assert.Equal(t, "11", bars[0].Close().String())
	assert.Equal(t, 120*secNs, bars[0].TsEvent())
}

func TestAggregator_TickBars(t *testing.T) {
	a := newAggregator(t, "AUD/USD.SIM-3-TICK-LAST-INTERNAL")

	bars, err := a.OnTrade(trade(t, 0, "10", "1", 1*secNs))
	require.NoError(t, err)
	assert.Empty(t, bars)
	bars, err = a.OnTrade(trade(t, 1, "11", "1", 2*secNs))
	require.NoError(t, err)
	assert.Empty(t, bars)

	bars, err = a.OnTrade(trade(t, 2, "9", "1", 3*secNs))
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, "10", bars[0].Open().String())
	assert.Equal(t, "11", bars[0].High().String())
	assert.Equal(t, "9", bars[0].Low().String())
	assert.Equal(t, "9", bars[0].Close().String())
	// counter bars stamp the closing tick's ts_event
	assert.Equal(t, 3*secNs, bars[0].TsEvent())

	// the counter reset
	bars, err = a.OnTrade(trade(t, 3, "10", "1", 4*secNs))
	require.NoError(t, err)
	assert.Empty(t, bars)
}

func TestAggregator_VolumeBars(t *testing.T) {
	a := newAggregator(t, "AUD/USD.SIM-10-VOLUME-LAST-INTERNAL")

	bars, err := a.OnTrade(trade(t, 0, "10", "4", 1*secNs))
	require.NoError(t, err)
	assert.Empty(t, bars)

	bars, err = a.OnTrade(trade(t, 1, "11", "6", 2*secNs))
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, uint64(10_000_000_000), bars[0].Volume().Raw())
}

func TestAggregator_ValueBars(t *testing.T) {
	// step 100 = close once 100 of notional has printed
	a := newAggregator(t, "AUD/USD.SIM-100-VALUE-LAST-INTERNAL")

	bars, err := a.OnTrade(trade(t, 0, "10", "4", 1*secNs)) // notional 40
	require.NoError(t, err)
	assert.Empty(t, bars)

	bars, err = a.OnTrade(trade(t, 1, "10", "7", 2*secNs)) // notional 110 total
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, uint64(11_000_000_000), bars[0].Volume().Raw())
}

func TestAggregator_QuoteBars(t *testing.T) {
	a := newAggregator(t, "AUD/USD.SIM-2-TICK-MID-INTERNAL")

	quote := func(bid, ask string, ts uint64) types.QuoteTick {
		q, err := types.NewQuoteTick(
			aggInstrument,
			num.MustPriceFromString(bid),
			num.MustPriceFromString(ask),
			num.MustQuantityFromString("1"),
			num.MustQuantityFromString("1"),
			ts, ts,
		)
		require.NoError(t, err)
		return q
	}

	bars, err := a.OnQuote(quote("1.0", "1.2", 1*secNs))
	require.NoError(t, err)
	assert.Empty(t, bars)

	bars, err = a.OnQuote(quote("1.2", "1.4", 2*secNs))
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, "1.1", bars[0].Open().String())
	assert.Equal(t, "1.3", bars[0].Close().String())

	// trades cannot feed MID bars
	_, err = a.OnTrade(trade(t, 0, "1.1", "1", 3*secNs))
	assert.ErrorIs(t, err, candles.ErrWrongTickKind)
}

func TestAggregator_QuotesRejectedOnLastBars(t *testing.T) {
	a := newAggregator(t, "AUD/USD.SIM-2-TICK-LAST-INTERNAL")

	q, err := types.NewQuoteTick(
		aggInstrument,
		num.MustPriceFromString("1.0"),
		num.MustPriceFromString("1.1"),
		num.MustQuantityFromString("1"),
		num.MustQuantityFromString("1"),
		1, 1,
	)
	require.NoError(t, err)
	_, err = a.OnQuote(q)
	assert.ErrorIs(t, err, candles.ErrWrongTickKind)
}
