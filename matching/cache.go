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

import "github.com/meridianhft/meridian/types/num"

// BookCache memoizes the derived top-of-book values between writes.
type BookCache struct {
	bestBidPrice  cachedPrice
	bestAskPrice  cachedPrice
	bestBidVolume cachedQuantity
	bestAskVolume cachedQuantity
	spread        cachedPrice
	midpoint      cachedPrice
}

type cachedPrice struct {
	valid bool
	value num.Price
	err   error
}

type cachedQuantity struct {
	valid bool
	value num.Quantity
	err   error
}

func (c *cachedPrice) Set(v num.Price, err error) {
	c.value = v
	c.err = err
	c.valid = true
}

func (c *cachedPrice) Invalidate() {
	c.valid = false
}

func (c *cachedPrice) Get() (num.Price, error, bool) {
	return c.value, c.err, c.valid
}

func (c *cachedQuantity) Set(v num.Quantity, err error) {
	c.value = v
	c.err = err
	c.valid = true
}

func (c *cachedQuantity) Invalidate() {
	c.valid = false
}

func (c *cachedQuantity) Get() (num.Quantity, error, bool) {
	return c.value, c.err, c.valid
}

// Invalidate drops every memoized value. Called after every successful
// write.
func (c *BookCache) Invalidate() {
	c.bestBidPrice.Invalidate()
	c.bestAskPrice.Invalidate()
	c.bestBidVolume.Invalidate()
	c.bestAskVolume.Invalidate()
	c.spread.Invalidate()
	c.midpoint.Invalidate()
}
