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

	"github.com/google/btree"
)

// btreeDegree is the branching factor of the level tree. Books rarely
// carry more than a few thousand levels, shallow trees behave well.
const btreeDegree = 16

// LadderState is the coarse state of one book side.
type LadderState int32

const (
	LadderStateEmpty       LadderState = 0
	LadderStateSingleLevel LadderState = 1
	LadderStateMultiLevel  LadderState = 2
)

func (s LadderState) String() string {
	switch s {
	case LadderStateSingleLevel:
		return "SINGLE_LEVEL"
	case LadderStateMultiLevel:
		return "MULTI_LEVEL"
	default:
		return "EMPTY"
	}
}

// Ladder is one side of the book: a price-ordered tree of levels plus
// an order id index into the containing level. The tree is ordered so
// its minimum is always the best price: descending raws for bids,
// ascending for asks.
type Ladder struct {
	side   types.Side
	levels *btree.BTreeG[*PriceLevel]
	index  map[uint64]*PriceLevel
}

// NewLadder returns an empty ladder for the given side.
func NewLadder(side types.Side) *Ladder {
	var less btree.LessFunc[*PriceLevel]
	if side == types.SideBuy {
		less = func(a, b *PriceLevel) bool { return a.price.Raw() > b.price.Raw() }
	} else {
		less = func(a, b *PriceLevel) bool { return a.price.Raw() < b.price.Raw() }
	}
	return &Ladder{
		side:   side,
		levels: btree.NewG(btreeDegree, less),
		index:  map[uint64]*PriceLevel{},
	}
}

func (s *Ladder) Side() types.Side { return s.side }

// State derives the ladder state from the live level count.
func (s *Ladder) State() LadderState {
	switch s.levels.Len() {
	case 0:
		return LadderStateEmpty
	case 1:
		return LadderStateSingleLevel
	default:
		return LadderStateMultiLevel
	}
}

func (s *Ladder) LevelCount() int { return s.levels.Len() }
func (s *Ladder) OrderCount() int { return len(s.index) }

// bestLevel is the minimum of the tree thanks to the side-reversed
// ordering.
func (s *Ladder) bestLevel() (*PriceLevel, bool) {
	return s.levels.Min()
}

// BestPrice returns the best price on the ladder.
func (s *Ladder) BestPrice() (num.Price, error) {
	l, ok := s.bestLevel()
	if !ok {
		return num.Price{}, ErrNoOrders
	}
	return l.price, nil
}

// BestVolume returns the aggregate size at the best price.
func (s *Ladder) BestVolume() (num.Quantity, error) {
	l, ok := s.bestLevel()
	if !ok {
		return num.Quantity{}, ErrNoOrders
	}
	return l.Volume(), nil
}

// getPriceLevelIfExists returns the level at the exact price, if any.
func (s *Ladder) getPriceLevelIfExists(price num.Price) (*PriceLevel, bool) {
	return s.levels.Get(&PriceLevel{price: price})
}

// getPriceLevel returns the level at the price, creating it when
// missing.
func (s *Ladder) getPriceLevel(price num.Price) *PriceLevel {
	if l, ok := s.levels.Get(&PriceLevel{price: price}); ok {
		return l
	}
	l := NewPriceLevel(price)
	s.levels.ReplaceOrInsert(l)
	return l
}

// dropLevelIfEmpty erases a level once its last order is gone. Empty
// levels never survive an operation.
func (s *Ladder) dropLevelIfEmpty(l *PriceLevel) {
	if l.empty() {
		s.levels.Delete(l)
	}
}

// addOrder inserts at the back of the price's queue.
func (s *Ladder) addOrder(o types.BookOrder) error {
	if _, ok := s.index[o.OrderID()]; ok {
		return ErrDuplicateOrderID
	}
	l := s.getPriceLevel(o.Price())
	if err := l.addOrder(o); err != nil {
		s.dropLevelIfEmpty(l)
		return err
	}
	s.index[o.OrderID()] = l
	return nil
}

// removeOrder removes an order wherever it rests.
func (s *Ladder) removeOrder(orderID uint64) (types.BookOrder, error) {
	l, ok := s.index[orderID]
	if !ok {
		return types.BookOrder{}, ErrUnknownOrderID
	}
	idx, ok := l.findOrder(orderID)
	if !ok {
		// the index said the order was here: the ladder is corrupt
		return types.BookOrder{}, ErrBookInvalid
	}
	o := l.removeOrder(idx)
	delete(s.index, orderID)
	s.dropLevelIfEmpty(l)
	return o, nil
}

// orderLevel resolves the level holding an order id.
func (s *Ladder) orderLevel(orderID uint64) (*PriceLevel, bool) {
	l, ok := s.index[orderID]
	return l, ok
}

// clear drops every level and index entry.
func (s *Ladder) clear() {
	s.levels.Clear(false)
	s.index = map[uint64]*PriceLevel{}
}

// ascend walks levels from best to worst until f returns false.
func (s *Ladder) ascend(f func(l *PriceLevel) bool) {
	s.levels.Ascend(func(l *PriceLevel) bool {
		return f(l)
	})
}

// checkIndex verifies the order id index and the level contents are in
// bijection. It is the ladder's internal consistency probe; a false
// return means the book must be poisoned.
func (s *Ladder) checkIndex() bool {
	seen := 0
	ok := true
	s.levels.Ascend(func(l *PriceLevel) bool {
		if l.empty() {
			ok = false
			return false
		}
		for _, o := range l.orders {
			indexed, found := s.index[o.OrderID()]
			if !found || indexed != l {
				ok = false
				return false
			}
			seen++
		}
		return true
	})
	return ok && seen == len(s.index)
}
