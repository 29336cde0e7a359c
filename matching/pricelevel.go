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

	"github.com/pkg/errors"
)

// PriceLevel holds every order resting at one price on one side, in
// arrival order. The aggregate volume is maintained incrementally on
// the raw values.
type PriceLevel struct {
	price  num.Price
	orders []types.BookOrder
	volume uint64
}

// NewPriceLevel returns an empty level at the given price.
func NewPriceLevel(price num.Price) *PriceLevel {
	return &PriceLevel{
		price:  price,
		orders: make([]types.BookOrder, 0, 4),
	}
}

func (l *PriceLevel) Price() num.Price { return l.price }

// VolumeRaw is the aggregate of order size raws at this level.
func (l *PriceLevel) VolumeRaw() uint64 { return l.volume }

// Volume is the aggregate size, at the widest precision of the resting
// orders.
func (l *PriceLevel) Volume() num.Quantity {
	q, err := num.QuantityFromRaw(l.volume, l.sizePrecision())
	if err != nil {
		// the aggregate was range-checked on every add
		panic(err)
	}
	return q
}

// Orders returns a copy of the resting orders in priority order.
func (l *PriceLevel) Orders() []types.BookOrder {
	out := make([]types.BookOrder, len(l.orders))
	copy(out, l.orders)
	return out
}

func (l *PriceLevel) OrderCount() int { return len(l.orders) }
func (l *PriceLevel) empty() bool     { return len(l.orders) == 0 }

func (l *PriceLevel) sizePrecision() uint8 {
	var p uint8
	for _, o := range l.orders {
		if sp := o.Size().Precision(); sp > p {
			p = sp
		}
	}
	return p
}

// addOrder appends at the back of the queue. A failure means the
// aggregate volume can no longer be represented; the caller poisons the
// book.
func (l *PriceLevel) addOrder(o types.BookOrder) error {
	if err := l.addVolume(o.Size().Raw()); err != nil {
		return err
	}
	l.orders = append(l.orders, o)
	return nil
}

// removeOrder removes the order at the given queue index.
func (l *PriceLevel) removeOrder(idx int) types.BookOrder {
	o := l.orders[idx]
	l.volume -= o.Size().Raw()
	copy(l.orders[idx:], l.orders[idx+1:])
	l.orders = l.orders[:len(l.orders)-1]
	return o
}

// findOrder returns the queue index of an order id.
func (l *PriceLevel) findOrder(orderID uint64) (int, bool) {
	for i := range l.orders {
		if l.orders[i].OrderID() == orderID {
			return i, true
		}
	}
	return -1, false
}

// replaceSize swaps the size of the order at idx, keeping its queue
// position.
func (l *PriceLevel) replaceSize(idx int, size num.Quantity) error {
	old := l.orders[idx].Size().Raw()
	l.volume -= old
	if err := l.addVolume(size.Raw()); err != nil {
		// restore before reporting, the caller decides whether to poison
		l.volume += old
		return err
	}
	l.orders[idx] = l.orders[idx].WithSize(size)
	return nil
}

func (l *PriceLevel) addVolume(raw uint64) error {
	next := l.volume + raw
	if next < l.volume || next > num.MaxQuantityPreScale*uint64(num.FixedScalar) {
		return errors.Wrapf(num.ErrOverflow, "level volume at %s", l.price)
	}
	l.volume = next
	return nil
}
