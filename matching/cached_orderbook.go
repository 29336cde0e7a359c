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
	"github.com/meridianhft/meridian/logging"
	"github.com/meridianhft/meridian/types"
	"github.com/meridianhft/meridian/types/num"
)

// CachedOrderBook wraps an OrderBook and memoizes the hot read path.
// The cache is invalidated on every successful write, so readers pay
// the ladder walk at most once per delta.
type CachedOrderBook struct {
	*OrderBook

	cache BookCache
}

// NewCachedOrderBook returns a cached book, same construction arguments
// as NewOrderBook.
func NewCachedOrderBook(log *logging.Logger, cfg Config, instrumentID types.InstrumentID, bookType types.BookType) *CachedOrderBook {
	return &CachedOrderBook{
		OrderBook: NewOrderBook(log, cfg, instrumentID, bookType),
	}
}

// Apply forwards to the wrapped book and invalidates on success.
func (b *CachedOrderBook) Apply(delta types.OrderBookDelta) ([]types.OrderBookDelta, error) {
	removed, err := b.OrderBook.Apply(delta)
	if err == nil {
		b.cache.Invalidate()
	}
	return removed, err
}

// Clear forwards and invalidates.
func (b *CachedOrderBook) Clear() {
	b.OrderBook.Clear()
	b.cache.Invalidate()
}

// ClearSide forwards and invalidates.
func (b *CachedOrderBook) ClearSide(side types.Side) {
	b.OrderBook.ClearSide(side)
	b.cache.Invalidate()
}

func (b *CachedOrderBook) BestBidPrice() (num.Price, error) {
	if v, err, ok := b.cache.bestBidPrice.Get(); ok {
		return v, err
	}
	v, err := b.OrderBook.BestBidPrice()
	b.cache.bestBidPrice.Set(v, err)
	return v, err
}

func (b *CachedOrderBook) BestAskPrice() (num.Price, error) {
	if v, err, ok := b.cache.bestAskPrice.Get(); ok {
		return v, err
	}
	v, err := b.OrderBook.BestAskPrice()
	b.cache.bestAskPrice.Set(v, err)
	return v, err
}

func (b *CachedOrderBook) BestBidVolume() (num.Quantity, error) {
	if v, err, ok := b.cache.bestBidVolume.Get(); ok {
		return v, err
	}
	v, err := b.OrderBook.BestBidVolume()
	b.cache.bestBidVolume.Set(v, err)
	return v, err
}

func (b *CachedOrderBook) BestAskVolume() (num.Quantity, error) {
	if v, err, ok := b.cache.bestAskVolume.Get(); ok {
		return v, err
	}
	v, err := b.OrderBook.BestAskVolume()
	b.cache.bestAskVolume.Set(v, err)
	return v, err
}

func (b *CachedOrderBook) Spread() (num.Price, error) {
	if v, err, ok := b.cache.spread.Get(); ok {
		return v, err
	}
	v, err := b.OrderBook.Spread()
	b.cache.spread.Set(v, err)
	return v, err
}

func (b *CachedOrderBook) Midpoint() (num.Price, error) {
	if v, err, ok := b.cache.midpoint.Get(); ok {
		return v, err
	}
	v, err := b.OrderBook.Midpoint()
	b.cache.midpoint.Set(v, err)
	return v, err
}
