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

// ErrValidation signals an event that failed construction-time
// validation. Event values are immutable once constructed, so this is
// the only place the invariants are enforced.
var ErrValidation = errors.New("validation failed")

// QuoteTick is a top-of-book quote update. bid <= ask and
// tsInit >= tsEvent hold for every constructed value.
type QuoteTick struct {
	instrumentID InstrumentID
	bid          num.Price
	ask          num.Price
	bidSize      num.Quantity
	askSize      num.Quantity
	tsEvent      uint64
	tsInit       uint64
}

func NewQuoteTick(
	instrumentID InstrumentID,
	bid, ask num.Price,
	bidSize, askSize num.Quantity,
	tsEvent, tsInit uint64,
) (QuoteTick, error) {
	if instrumentID.IsZero() {
		return QuoteTick{}, errors.Wrap(ErrValidation, "zero instrument id")
	}
	if bid.GT(ask) {
		return QuoteTick{}, errors.Wrapf(ErrValidation, "crossed quote %s > %s", bid, ask)
	}
	if tsInit < tsEvent {
		return QuoteTick{}, errors.Wrapf(ErrValidation, "ts_init %d before ts_event %d", tsInit, tsEvent)
	}
	return QuoteTick{
		instrumentID: instrumentID,
		bid:          bid,
		ask:          ask,
		bidSize:      bidSize,
		askSize:      askSize,
		tsEvent:      tsEvent,
		tsInit:       tsInit,
	}, nil
}

func (q QuoteTick) InstrumentID() InstrumentID { return q.instrumentID }
func (q QuoteTick) Bid() num.Price { return q.bid }
func (q QuoteTick) Ask() num.Price { return q.ask }
func (q QuoteTick) BidSize() num.Quantity { return q.bidSize }
func (q QuoteTick) AskSize() num.Quantity { return q.askSize }
func (q QuoteTick) TsEvent() uint64 { return q.tsEvent }
func (q QuoteTick) TsInit() uint64 { return q.tsInit }

// ExtractPrice projects the quote onto a single price stream. MID is
// computed at the wider of the two precisions.
func (q QuoteTick) ExtractPrice(pt PriceType) (num.Price, error) {
	switch pt {
	case PriceTypeBid:
		return q.bid, nil
	case PriceTypeAsk:
		return q.ask, nil
	case PriceTypeMid:
		return midPrice(q.bid, q.ask)
	default:
		return num.Price{}, errors.Wrapf(ErrValidation, "cannot extract %s from a quote", pt)
	}
}

// ExtractSize projects the quote onto the size stream matching pt.
func (q QuoteTick) ExtractSize(pt PriceType) (num.Quantity, error) {
	switch pt {
	case PriceTypeBid:
		return q.bidSize, nil
	case PriceTypeAsk:
		return q.askSize, nil
	case PriceTypeMid:
		return q.bidSize.Add(q.askSize)
	default:
		return num.Quantity{}, errors.Wrapf(ErrValidation, "cannot extract %s from a quote", pt)
	}
}

func (q QuoteTick) String() string {
	return fmt.Sprintf("QuoteTick(%s,%s,%s,%s,%s,%d)", q.instrumentID, q.bid, q.ask, q.bidSize, q.askSize, q.tsEvent)
}

// midPrice is (a + b) / 2 at the wider precision, truncating the odd
// half-unit toward zero.
func midPrice(bid, ask num.Price) (num.Price, error) {
	sum, err := bid.Add(ask)
	if err != nil {
		return num.Price{}, err
	}
	unit := int64(1)
	for p := sum.Precision(); p < num.FixedPrecision; p++ {
		unit *= 10
	}
	return num.PriceFromRaw(sum.Raw()/2/unit*unit, sum.Precision())
}

// TradeTick is a single execution report.
type TradeTick struct {
	instrumentID InstrumentID
	price        num.Price
	size         num.Quantity
	aggressor    AggressorSide
	tradeID      TradeID
	tsEvent      uint64
	tsInit       uint64
}

func NewTradeTick(
	instrumentID InstrumentID,
	price num.Price,
	size num.Quantity,
	aggressor AggressorSide,
	tradeID TradeID,
	tsEvent, tsInit uint64,
) (TradeTick, error) {
	if instrumentID.IsZero() {
		return TradeTick{}, errors.Wrap(ErrValidation, "zero instrument id")
	}
	if tradeID.IsZero() {
		return TradeTick{}, errors.Wrap(ErrValidation, "zero trade id")
	}
	if tsInit < tsEvent {
		return TradeTick{}, errors.Wrapf(ErrValidation, "ts_init %d before ts_event %d", tsInit, tsEvent)
	}
	return TradeTick{
		instrumentID: instrumentID,
		price:        price,
		size:         size,
		aggressor:    aggressor,
		tradeID:      tradeID,
		tsEvent:      tsEvent,
		tsInit:       tsInit,
	}, nil
}

func (t TradeTick) InstrumentID() InstrumentID { return t.instrumentID }
func (t TradeTick) Price() num.Price { return t.price }
func (t TradeTick) Size() num.Quantity { return t.size }
func (t TradeTick) Aggressor() AggressorSide { return t.aggressor }
func (t TradeTick) TradeID() TradeID { return t.tradeID }
func (t TradeTick) TsEvent() uint64 { return t.tsEvent }
func (t TradeTick) TsInit() uint64 { return t.tsInit }

func (t TradeTick) String() string {
	return fmt.Sprintf("TradeTick(%s,%s,%s,%s,%s,%d)", t.instrumentID, t.price, t.size, t.aggressor, t.tradeID, t.tsEvent)
}
