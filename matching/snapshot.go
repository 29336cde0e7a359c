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

package matching

import (
	"github.com/meridianhft/meridian/types"
	"github.com/meridianhft/meridian/types/num"
)

// DepthLevel is one aggregated row of a depth query, best first.
type DepthLevel struct {
	Price  num.Price
	Volume num.Quantity
	Orders int
}

// LevelSnapshot is one full level of a book snapshot: the price and the
// resting orders in priority order.
type LevelSnapshot struct {
	Side   types.Side
	Price  num.Price
	Orders []types.BookOrder
}

// BookSnapshot is a consistent full copy of the book between deltas.
type BookSnapshot struct {
	InstrumentID types.InstrumentID
	BookType     types.BookType
	Bids         []LevelSnapshot
	Asks         []LevelSnapshot
	LastUpdateID uint64
	TsLast       uint64
}

// Fill is one (price, size) slice consumed by a simulated taker order.
type Fill struct {
	Price num.Price
	Size  num.Quantity
}

// Depth returns the n best levels of one side, aggregated. n == 0
// returns an empty slice.
func (b *OrderBook) Depth(side types.Side, n int) []DepthLevel {
	out := make([]DepthLevel, 0, n)
	if n <= 0 {
		return out
	}
	b.ladder(side).ascend(func(l *PriceLevel) bool {
		out = append(out, DepthLevel{
			Price:  l.Price(),
			Volume: l.Volume(),
			Orders: l.OrderCount(),
		})
		return len(out) < n
	})
	return out
}

// Snapshot copies the whole book, both sides ordered best to worst.
func (b *OrderBook) Snapshot() BookSnapshot {
	snap := BookSnapshot{
		InstrumentID: b.instrumentID,
		BookType:     b.bookType,
		LastUpdateID: b.lastUpdateID,
		TsLast:       b.tsLast,
	}
	b.bids.ascend(func(l *PriceLevel) bool {
		snap.Bids = append(snap.Bids, LevelSnapshot{
			Side:   types.SideBuy,
			Price:  l.Price(),
			Orders: l.Orders(),
		})
		return true
	})
	b.asks.ascend(func(l *PriceLevel) bool {
		snap.Asks = append(snap.Asks, LevelSnapshot{
			Side:   types.SideSell,
			Price:  l.Price(),
			Orders: l.Orders(),
		})
		return true
	})
	return snap
}
