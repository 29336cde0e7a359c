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
	"github.com/meridianhft/meridian/metrics"
	"github.com/meridianhft/meridian/types"
	"github.com/meridianhft/meridian/types/num"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// OrderBook maintains the bid and ask ladders of one instrument under a
// stream of deltas. One owner applies deltas in sequence order; every
// operation is bounded and non-blocking, and readers see consistent
// state between deltas.
//
// Order id semantics follow the book granularity: L3 ids are venue
// order ids; L2 ids are synthetic level ids chosen by the feed; L1
// books re-key the single order per side to the side discriminant.
type OrderBook struct {
	log *logging.Logger
	cfg Config

	instrumentID types.InstrumentID
	bookType     types.BookType
	bids         *Ladder
	asks         *Ladder

	lastUpdateID uint64
	hasLineage   bool
	tsLast       uint64
	lastSide     types.Side
	poisoned     bool
}

// NewOrderBook returns an empty book.
func NewOrderBook(log *logging.Logger, cfg Config, instrumentID types.InstrumentID, bookType types.BookType) *OrderBook {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level)
	return &OrderBook{
		log:          log,
		cfg:          cfg,
		instrumentID: instrumentID,
		bookType:     bookType,
		bids:         NewLadder(types.SideBuy),
		asks:         NewLadder(types.SideSell),
	}
}

func (b *OrderBook) InstrumentID() types.InstrumentID { return b.instrumentID }
func (b *OrderBook) BookType() types.BookType         { return b.bookType }
func (b *OrderBook) TsLast() uint64                   { return b.tsLast }
func (b *OrderBook) LastUpdateID() uint64             { return b.lastUpdateID }

func (b *OrderBook) ladder(side types.Side) *Ladder {
	if side == types.SideBuy {
		return b.bids
	}
	return b.asks
}

// l1SyntheticID re-keys the single L1 order per side.
func l1SyntheticID(side types.Side) uint64 {
	return uint64(side)
}

// Apply dispatches a delta by action and returns the synthetic DELETE
// deltas produced by crossed-book resolution, if any. Synthetic deltas
// carry the sequence of the delta that triggered them; they describe
// removals already applied, not new lineage.
func (b *OrderBook) Apply(delta types.OrderBookDelta) ([]types.OrderBookDelta, error) {
	timer := metrics.NewTimeCounter(b.instrumentID.Value(), "matching", "OrderBook.Apply")
	defer timer.EngineTimeCounterAdd()

	removed, err := b.apply(delta)
	outcome := "ok"
	if err != nil {
		outcome = "rejected"
	}
	metrics.DeltaCounterInc(b.instrumentID.Value(), delta.Action().String(), outcome)
	b.updateGauges()
	return removed, err
}

func (b *OrderBook) apply(delta types.OrderBookDelta) ([]types.OrderBookDelta, error) {
	if b.poisoned {
		return nil, ErrBookInvalid
	}
	if !delta.InstrumentID().Equal(b.instrumentID) {
		return nil, errors.Wrapf(ErrInstrumentMismatch, "%s on book %s", delta.InstrumentID(), b.instrumentID)
	}

	// CLEAR resets the sequence lineage, so it skips the stale check:
	// a resubscription may legitimately restart numbering.
	if delta.Action() == types.BookActionClear {
		b.Clear()
		b.acceptDelta(delta)
		return nil, nil
	}

	if b.hasLineage && delta.Sequence() <= b.lastUpdateID {
		return nil, errors.Wrapf(ErrStaleDelta, "sequence %d, book at %d", delta.Sequence(), b.lastUpdateID)
	}

	order, ok := delta.Order()
	if !ok {
		return nil, ErrMissingOrder
	}

	var (
		removed []types.BookOrder
		err     error
	)
	switch delta.Action() {
	case types.BookActionAdd:
		removed, err = b.add(order)
	case types.BookActionUpdate:
		removed, err = b.update(order)
	case types.BookActionDelete:
		err = b.delete(order.OrderID(), order.Side())
	default:
		return nil, errors.Wrapf(types.ErrValidation, "delta action %s", delta.Action())
	}
	if err != nil {
		return nil, err
	}

	b.acceptDelta(delta)
	return b.syntheticDeletes(removed, delta), nil
}

func (b *OrderBook) acceptDelta(delta types.OrderBookDelta) {
	b.lastUpdateID = delta.Sequence()
	b.hasLineage = true
	if delta.TsEvent() > b.tsLast {
		b.tsLast = delta.TsEvent()
	}
}

func (b *OrderBook) syntheticDeletes(removed []types.BookOrder, trigger types.OrderBookDelta) []types.OrderBookDelta {
	if len(removed) == 0 {
		return nil
	}
	out := make([]types.OrderBookDelta, 0, len(removed))
	for _, o := range removed {
		d, err := types.NewOrderBookDelta(
			b.instrumentID, types.BookActionDelete, o,
			trigger.Sequence(), trigger.TsEvent(), trigger.TsInit(),
		)
		if err != nil {
			// removed orders came off the book, they cannot fail
			// re-validation
			b.poisoned = true
			b.log.Error("failed to build synthetic delete", zap.Error(err))
			return out
		}
		out = append(out, d)
	}
	return out
}

// add inserts an order. The returned slice holds orders removed from
// the stale side by crossed-book resolution.
func (b *OrderBook) add(order types.BookOrder) ([]types.BookOrder, error) {
	if order.Size().IsZero() {
		return nil, errors.Wrap(types.ErrValidation, "zero size add")
	}
	switch b.bookType {
	case types.BookTypeL1TBBO:
		// one level per side: a new price replaces the old top outright
		side := b.ladder(order.Side())
		side.clear()
		rekeyed := types.MustBookOrder(l1SyntheticID(order.Side()), order.Side(), order.Price(), order.Size())
		if err := b.insertChecked(side, rekeyed); err != nil {
			return nil, err
		}
		b.lastSide = order.Side()
		// a crossed L1 quote is accepted as-is: consumers treat it as a
		// stale snapshot
		return nil, nil
	case types.BookTypeL2MBP, types.BookTypeL3MBO:
		side := b.ladder(order.Side())
		if err := b.insertChecked(side, order); err != nil {
			return nil, err
		}
		b.lastSide = order.Side()
		return b.uncross(), nil
	default:
		return nil, errors.Wrapf(ErrBookTypeMismatch, "add on %s", b.bookType)
	}
}

// update amends an order in place where priority allows, or moves it.
func (b *OrderBook) update(order types.BookOrder) ([]types.BookOrder, error) {
	switch b.bookType {
	case types.BookTypeL1TBBO:
		// the top is the only order, an update is a replace
		return b.add(order)
	case types.BookTypeL2MBP:
		return b.updateL2(order)
	case types.BookTypeL3MBO:
		return b.updateL3(order)
	default:
		return nil, errors.Wrapf(ErrBookTypeMismatch, "update on %s", b.bookType)
	}
}

// updateL2 replaces the total size of a synthetic level order.
func (b *OrderBook) updateL2(order types.BookOrder) ([]types.BookOrder, error) {
	side := b.ladder(order.Side())
	level, ok := side.orderLevel(order.OrderID())
	if !ok {
		return nil, ErrUnknownOrderID
	}
	if order.Size().IsZero() {
		if _, err := side.removeOrder(order.OrderID()); err != nil {
			return nil, b.maybePoison(err)
		}
		b.lastSide = order.Side()
		return b.uncross(), nil
	}
	if level.Price().Equal(order.Price()) {
		idx, found := level.findOrder(order.OrderID())
		if !found {
			b.poisoned = true
			return nil, ErrBookInvalid
		}
		if err := level.replaceSize(idx, order.Size()); err != nil {
			b.poisoned = true
			return nil, err
		}
	} else {
		if _, err := side.removeOrder(order.OrderID()); err != nil {
			return nil, b.maybePoison(err)
		}
		if err := b.insertChecked(side, order); err != nil {
			return nil, err
		}
	}
	b.lastSide = order.Side()
	return b.uncross(), nil
}

// updateL3 applies the price-time priority rule: the order keeps its
// queue position only when the price is unchanged and the size did not
// increase; otherwise it goes to the tail of the new level.
func (b *OrderBook) updateL3(order types.BookOrder) ([]types.BookOrder, error) {
	side := b.ladder(order.Side())
	level, ok := side.orderLevel(order.OrderID())
	if !ok {
		return nil, ErrUnknownOrderID
	}
	if order.Size().IsZero() {
		if _, err := side.removeOrder(order.OrderID()); err != nil {
			return nil, b.maybePoison(err)
		}
		b.lastSide = order.Side()
		return b.uncross(), nil
	}

	idx, found := level.findOrder(order.OrderID())
	if !found {
		b.poisoned = true
		return nil, ErrBookInvalid
	}
	samePrice := level.Price().Equal(order.Price())
	grew := order.Size().GT(level.orders[idx].Size())

	if samePrice && !grew {
		if err := level.replaceSize(idx, order.Size()); err != nil {
			b.poisoned = true
			return nil, err
		}
	} else {
		if _, err := side.removeOrder(order.OrderID()); err != nil {
			return nil, b.maybePoison(err)
		}
		if err := b.insertChecked(side, order); err != nil {
			return nil, err
		}
	}
	b.lastSide = order.Side()
	return b.uncross(), nil
}

// delete removes an order from the given side.
func (b *OrderBook) delete(orderID uint64, side types.Side) error {
	ladder := b.ladder(side)
	if b.bookType == types.BookTypeL1TBBO {
		// the single resting order was re-keyed at insert, accept both
		// the synthetic id and a raw venue id for the same top
		if _, ok := ladder.orderLevel(orderID); !ok {
			orderID = l1SyntheticID(side)
		}
	}
	if _, err := ladder.removeOrder(orderID); err != nil {
		return b.maybePoison(err)
	}
	return nil
}

// insertChecked adds to the ladder, poisoning the book on aggregation
// overflow.
func (b *OrderBook) insertChecked(side *Ladder, order types.BookOrder) error {
	err := side.addOrder(order)
	if err == nil {
		return nil
	}
	if errors.Is(err, num.ErrOverflow) {
		b.poisoned = true
		b.log.Error("level aggregation overflow, book poisoned",
			zap.String("instrument", b.instrumentID.Value()),
			zap.Uint64("order-id", order.OrderID()),
		)
	}
	return err
}

// maybePoison converts ladder corruption into a poisoned book.
func (b *OrderBook) maybePoison(err error) error {
	if errors.Is(err, ErrBookInvalid) {
		b.poisoned = true
	}
	return err
}

// uncross removes crossing orders from the stale side, best first, FIFO
// within a level, until bid < ask again. The side written last is
// authoritative. L1 books never uncross.
func (b *OrderBook) uncross() []types.BookOrder {
	var removed []types.BookOrder
	stale := b.lastSide.Opposite()
	for {
		bestBid, errB := b.bids.BestPrice()
		bestAsk, errA := b.asks.BestPrice()
		if errB != nil || errA != nil || bestBid.LT(bestAsk) {
			break
		}
		staleLadder := b.ladder(stale)
		level, ok := staleLadder.bestLevel()
		if !ok {
			break
		}
		victim := level.orders[0]
		if _, err := staleLadder.removeOrder(victim.OrderID()); err != nil {
			b.poisoned = true
			break
		}
		if b.cfg.LogRemovedOrdersDebug && b.log.GetLevel() == logging.DebugLevel {
			b.log.Debug("removed crossing order",
				zap.String("instrument", b.instrumentID.Value()),
				zap.Uint64("order-id", victim.OrderID()),
				zap.String("price", victim.Price().String()),
			)
		}
		removed = append(removed, victim)
	}
	return removed
}

// Clear removes both sides. The sequence lineage survives until a CLEAR
// delta resets it through Apply.
func (b *OrderBook) Clear() {
	b.bids.clear()
	b.asks.clear()
	b.lastSide = types.SideUnspecified
	b.updateGauges()
}

// ClearSide removes one side only.
func (b *OrderBook) ClearSide(side types.Side) {
	b.ladder(side).clear()
	b.updateGauges()
}

// BestBidPrice returns the highest resting buy price.
func (b *OrderBook) BestBidPrice() (num.Price, error) {
	return b.bids.BestPrice()
}

// BestAskPrice returns the lowest resting sell price.
func (b *OrderBook) BestAskPrice() (num.Price, error) {
	return b.asks.BestPrice()
}

// BestBidVolume returns the aggregate size at the best bid.
func (b *OrderBook) BestBidVolume() (num.Quantity, error) {
	return b.bids.BestVolume()
}

// BestAskVolume returns the aggregate size at the best ask.
func (b *OrderBook) BestAskVolume() (num.Quantity, error) {
	return b.asks.BestVolume()
}

// Spread is best ask - best bid, at the wider precision.
func (b *OrderBook) Spread() (num.Price, error) {
	bid, err := b.bids.BestPrice()
	if err != nil {
		return num.Price{}, err
	}
	ask, err := b.asks.BestPrice()
	if err != nil {
		return num.Price{}, err
	}
	return ask.Sub(bid)
}

// Midpoint is (best bid + best ask) / 2 at the wider precision, truncating
// an odd half-unit toward zero.
func (b *OrderBook) Midpoint() (num.Price, error) {
	bid, err := b.bids.BestPrice()
	if err != nil {
		return num.Price{}, err
	}
	ask, err := b.asks.BestPrice()
	if err != nil {
		return num.Price{}, err
	}
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

// SimulateFills walks the opposite side best first and returns the
// (price, size) slices a taker order would consume, without touching
// the book. Within a level orders are consumed FIFO; the fill rows are
// aggregated per level.
func (b *OrderBook) SimulateFills(taker types.BookOrder) []Fill {
	opposite := b.ladder(taker.Side().Opposite())

	var acceptable func(levelPrice num.Price) bool
	if taker.Side() == types.SideBuy {
		acceptable = func(levelPrice num.Price) bool { return levelPrice.LTE(taker.Price()) }
	} else {
		acceptable = func(levelPrice num.Price) bool { return levelPrice.GTE(taker.Price()) }
	}

	var fills []Fill
	remaining := taker.Size().Raw()
	opposite.ascend(func(l *PriceLevel) bool {
		if remaining == 0 || !acceptable(l.Price()) {
			return false
		}
		var consumed uint64
		precision := uint8(0)
		for _, o := range l.orders {
			if remaining == 0 {
				break
			}
			take := o.Size().Raw()
			if take > remaining {
				take = remaining
			}
			consumed += take
			remaining -= take
			if sp := o.Size().Precision(); sp > precision {
				precision = sp
			}
		}
		if consumed > 0 {
			size, err := num.QuantityFromRaw(consumed, precision)
			if err != nil {
				// consumed never exceeds the level aggregate
				panic(err)
			}
			fills = append(fills, Fill{Price: l.Price(), Size: size})
		}
		return remaining > 0
	})
	return fills
}

// CheckIntegrity probes both ladders' index bijection, poisoning the
// book on any inconsistency.
func (b *OrderBook) CheckIntegrity() error {
	if b.poisoned {
		return ErrBookInvalid
	}
	if !b.bids.checkIndex() || !b.asks.checkIndex() {
		b.poisoned = true
		return ErrBookInvalid
	}
	return nil
}

// BidState and AskState expose the per-side ladder state machine.
func (b *OrderBook) BidState() LadderState { return b.bids.State() }
func (b *OrderBook) AskState() LadderState { return b.asks.State() }

func (b *OrderBook) BidLevelCount() int { return b.bids.LevelCount() }
func (b *OrderBook) AskLevelCount() int { return b.asks.LevelCount() }
func (b *OrderBook) BidOrderCount() int { return b.bids.OrderCount() }
func (b *OrderBook) AskOrderCount() int { return b.asks.OrderCount() }

func (b *OrderBook) updateGauges() {
	metrics.OrderGaugeSet(b.instrumentID.Value(), "BUY", float64(b.bids.OrderCount()))
	metrics.OrderGaugeSet(b.instrumentID.Value(), "SELL", float64(b.asks.OrderCount()))
}
