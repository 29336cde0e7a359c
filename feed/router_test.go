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

package feed_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/meridianhft/meridian/feed"
	"github.com/meridianhft/meridian/logging"
	"github.com/meridianhft/meridian/matching"
	"github.com/meridianhft/meridian/types"
	"github.com/meridianhft/meridian/types/num"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBook(t *testing.T, instrument string) *matching.CachedOrderBook {
	t.Helper()
	return matching.NewCachedOrderBook(
		logging.NewTestLogger(),
		matching.NewDefaultConfig(),
		types.MustInstrumentID(instrument),
		types.BookTypeL3MBO,
	)
}

func addDelta(t *testing.T, instrument types.InstrumentID, id, seq uint64, price string) types.OrderBookDelta {
	t.Helper()
	order, err := types.NewBookOrder(id, types.SideBuy, num.MustPriceFromString(price), num.MustQuantityFromString("1"))
	require.NoError(t, err)
	delta, err := types.NewOrderBookDelta(instrument, types.BookActionAdd, order, seq, seq*1_000, seq*1_000)
	require.NoError(t, err)
	return delta
}

func TestRouterDeliversInOrderPerInstrument(t *testing.T) {
	ethBook := newBook(t, "ETH/USD.SIM")
	btcBook := newBook(t, "BTC/USD.SIM")

	router := feed.NewRouter(logging.NewTestLogger(), feed.NewDefaultConfig())
	require.NoError(t, router.Register(ethBook))
	require.NoError(t, router.Register(btcBook))
	require.NoError(t, router.Start(context.Background()))

	const n = 100
	for seq := uint64(1); seq <= n; seq++ {
		price := fmt.Sprintf("%d", 100+seq)
		require.NoError(t, router.Submit(addDelta(t, ethBook.InstrumentID(), seq, seq, price)))
		require.NoError(t, router.Submit(addDelta(t, btcBook.InstrumentID(), seq, seq, price)))
	}
	require.NoError(t, router.Close())

	// every delta applied in sequence order: none were stale
	assert.Equal(t, n, ethBook.BidOrderCount())
	assert.Equal(t, n, btcBook.BidOrderCount())
	assert.Equal(t, uint64(n), ethBook.LastUpdateID())
	assert.Equal(t, uint64(n), btcBook.LastUpdateID())
}

func TestRouterRejectsUnknownInstrument(t *testing.T) {
	router := feed.NewRouter(logging.NewTestLogger(), feed.NewDefaultConfig())
	book := newBook(t, "ETH/USD.SIM")
	require.NoError(t, router.Register(book))
	require.NoError(t, router.Start(context.Background()))
	defer router.Close()

	other := types.MustInstrumentID("SOL/USD.SIM")
	err := router.Submit(addDelta(t, other, 1, 1, "10"))
	assert.ErrorIs(t, err, feed.ErrUnknownInstrument)
}

func TestRouterForwardsRejectsAndRemovals(t *testing.T) {
	book := newBook(t, "ETH/USD.SIM")

	var mu sync.Mutex
	var rejected []error
	var removed []types.OrderBookDelta

	router := feed.NewRouter(
		logging.NewTestLogger(),
		feed.NewDefaultConfig(),
		feed.WithRejectHandler(func(_ types.OrderBookDelta, err error) {
			mu.Lock()
			rejected = append(rejected, err)
			mu.Unlock()
		}),
		feed.WithRemovedHandler(func(ds []types.OrderBookDelta) {
			mu.Lock()
			removed = append(removed, ds...)
			mu.Unlock()
		}),
	)
	require.NoError(t, router.Register(book))
	require.NoError(t, router.Start(context.Background()))

	instrument := book.InstrumentID()
	require.NoError(t, router.Submit(addDelta(t, instrument, 1, 1, "100")))
	// stale: same sequence again
	require.NoError(t, router.Submit(addDelta(t, instrument, 2, 1, "101")))

	// a crossing sell sweeps the resting bid
	order, err := types.NewBookOrder(3, types.SideSell, num.MustPriceFromString("99"), num.MustQuantityFromString("1"))
	require.NoError(t, err)
	cross, err := types.NewOrderBookDelta(instrument, types.BookActionAdd, order, 5, 5_000, 5_000)
	require.NoError(t, err)
	require.NoError(t, router.Submit(cross))

	require.NoError(t, router.Close())

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, rejected, 1)
	assert.ErrorIs(t, rejected[0], matching.ErrStaleDelta)
	require.Len(t, removed, 1)
	assert.Equal(t, types.BookActionDelete, removed[0].Action())

	// register after start is refused
	assert.ErrorIs(t, router.Register(newBook(t, "BTC/USD.SIM")), feed.ErrAlreadyStarted)
}
