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

package types

import (
	"fmt"

	"github.com/meridianhft/meridian/types/num"

	"github.com/pkg/errors"
)

// BookOrder is one order resting on a book ladder.
type BookOrder struct {
	orderID uint64
	side    Side
	price   num.Price
	size    num.Quantity
}

func NewBookOrder(orderID uint64, side Side, price num.Price, size num.Quantity) (BookOrder, error) {
	if side != SideBuy && side != SideSell {
		return BookOrder{}, errors.Wrapf(ErrValidation, "book order side %s", side)
	}
	return BookOrder{orderID: orderID, side: side, price: price, size: size}, nil
}

// MustBookOrder is a fixture helper, panicking on bad input.
func MustBookOrder(orderID uint64, side Side, price num.Price, size num.Quantity) BookOrder {
	o, err := NewBookOrder(orderID, side, price, size)
	if err != nil {
		panic(err)
	}
	return o
}

func (o BookOrder) OrderID() uint64    { return o.orderID }
func (o BookOrder) Side() Side         { return o.side }
func (o BookOrder) Price() num.Price   { return o.price }
func (o BookOrder) Size() num.Quantity { return o.size }

// WithSize derives a copy at a different size; the original is
// untouched.
func (o BookOrder) WithSize(size num.Quantity) BookOrder {
	o.size = size
	return o
}

func (o BookOrder) String() string {
	return fmt.Sprintf("BookOrder(%d,%s,%s,%s)", o.orderID, o.side, o.price, o.size)
}

// OrderBookDelta is one change to an order book. CLEAR deltas carry no
// order.
type OrderBookDelta struct {
	instrumentID InstrumentID
	action       BookAction
	order        BookOrder
	hasOrder     bool
	sequence     uint64
	tsEvent      uint64
	tsInit       uint64
}

func NewOrderBookDelta(
	instrumentID InstrumentID,
	action BookAction,
	order BookOrder,
	sequence uint64,
	tsEvent, tsInit uint64,
) (OrderBookDelta, error) {
	if instrumentID.IsZero() {
		return OrderBookDelta{}, errors.Wrap(ErrValidation, "zero instrument id")
	}
	switch action {
	case BookActionAdd, BookActionUpdate, BookActionDelete:
	default:
		return OrderBookDelta{}, errors.Wrapf(ErrValidation, "delta action %s requires NewClearDelta", action)
	}
	if tsInit < tsEvent {
		return OrderBookDelta{}, errors.Wrapf(ErrValidation, "ts_init %d before ts_event %d", tsInit, tsEvent)
	}
	return OrderBookDelta{
		instrumentID: instrumentID,
		action:       action,
		order:        order,
		hasOrder:     true,
		sequence:     sequence,
		tsEvent:      tsEvent,
		tsInit:       tsInit,
	}, nil
}

// NewClearDelta builds a CLEAR for the whole book.
func NewClearDelta(instrumentID InstrumentID, sequence, tsEvent, tsInit uint64) (OrderBookDelta, error) {
	if instrumentID.IsZero() {
		return OrderBookDelta{}, errors.Wrap(ErrValidation, "zero instrument id")
	}
	if tsInit < tsEvent {
		return OrderBookDelta{}, errors.Wrapf(ErrValidation, "ts_init %d before ts_event %d", tsInit, tsEvent)
	}
	return OrderBookDelta{
		instrumentID: instrumentID,
		action:       BookActionClear,
		sequence:     sequence,
		tsEvent:      tsEvent,
		tsInit:       tsInit,
	}, nil
}

func (d OrderBookDelta) InstrumentID() InstrumentID { return d.instrumentID }
func (d OrderBookDelta) Action() BookAction         { return d.action }
func (d OrderBookDelta) Sequence() uint64           { return d.sequence }
func (d OrderBookDelta) TsEvent() uint64            { return d.tsEvent }
func (d OrderBookDelta) TsInit() uint64             { return d.tsInit }

// Order returns the payload order; ok is false on CLEAR deltas.
func (d OrderBookDelta) Order() (BookOrder, bool) {
	return d.order, d.hasOrder
}

func (d OrderBookDelta) String() string {
	if !d.hasOrder {
		return fmt.Sprintf("OrderBookDelta(%s,%s,seq=%d)", d.instrumentID, d.action, d.sequence)
	}
	return fmt.Sprintf("OrderBookDelta(%s,%s,%s,seq=%d)", d.instrumentID, d.action, d.order, d.sequence)
}
