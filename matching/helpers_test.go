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

package matching_test

import (
	"testing"

	"github.com/meridianhft/meridian/logging"
	"github.com/meridianhft/meridian/matching"
	"github.com/meridianhft/meridian/types"
	"github.com/meridianhft/meridian/types/num"

	"github.com/stretchr/testify/require"
)

var tstInstrument = types.MustInstrumentID("ETH/USD.SIM")

type tstOB struct {
	ob  *matching.CachedOrderBook
	log *logging.Logger
	seq uint64
	ts  uint64
}

func (t *tstOB) Finish() {
	t.log.Sync()
}

func getTestOrderBook(t *testing.T, bookType types.BookType) *tstOB {
	t.Helper()
	tob := tstOB{
		log: logging.NewTestLogger(),
	}
	tob.ob = matching.NewCachedOrderBook(tob.log, matching.NewDefaultConfig(), tstInstrument, bookType)
	return &tob
}

func (t *tstOB) nextSeq() uint64 {
	t.seq++
	return t.seq
}

func (t *tstOB) nextTs() uint64 {
	t.ts += 1_000
	return t.ts
}

func bookOrder(t *testing.T, id uint64, side types.Side, price, size string) types.BookOrder {
	t.Helper()
	o, err := types.NewBookOrder(id, side, num.MustPriceFromString(price), num.MustQuantityFromString(size))
	require.NoError(t, err)
	return o
}

// applyDelta builds and applies one delta, requiring success.
func (tob *tstOB) applyDelta(t *testing.T, action types.BookAction, order types.BookOrder) []types.OrderBookDelta {
	t.Helper()
	removed, err := tob.applyDeltaErr(t, action, order)
	require.NoError(t, err)
	return removed
}

// applyDeltaErr builds and applies one delta, returning the error.
func (tob *tstOB) applyDeltaErr(t *testing.T, action types.BookAction, order types.BookOrder) ([]types.OrderBookDelta, error) {
	t.Helper()
	ts := tob.nextTs()
	delta, err := types.NewOrderBookDelta(tstInstrument, action, order, tob.nextSeq(), ts, ts)
	require.NoError(t, err)
	return tob.ob.Apply(delta)
}

// applyClear applies a CLEAR delta.
func (tob *tstOB) applyClear(t *testing.T) {
	t.Helper()
	ts := tob.nextTs()
	delta, err := types.NewClearDelta(tstInstrument, tob.nextSeq(), ts, ts)
	require.NoError(t, err)
	_, err = tob.ob.Apply(delta)
	require.NoError(t, err)
}
