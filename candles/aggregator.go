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

package candles

import (
	"time"

	"github.com/meridianhft/meridian/logging"
	"github.com/meridianhft/meridian/metrics"
	"github.com/meridianhft/meridian/types"
	"github.com/meridianhft/meridian/types/num"

	"github.com/pkg/errors"
)

// ErrExternalBarType signals an attempt to aggregate into an EXTERNAL
// bar type. The aggregator only ever emits INTERNAL bars; EXTERNAL bars
// come off a venue and must not be synthesized.
var ErrExternalBarType = errors.New("aggregator cannot emit external bars")

// ErrWrongTickKind signals a tick kind the bar's price type cannot
// consume: trades feed LAST bars, quotes feed BID/ASK/MID bars.
var ErrWrongTickKind = errors.New("tick kind does not match bar price type")

// Aggregator builds bars of one BarType from a tick stream. One owner
// feeds it ticks in ts_event order; completed bars are returned as they
// close.
//
// TIME bars close lazily: at the first tick whose ts_event reaches the
// window boundary, the running bar is emitted with ts_event pinned to
// the boundary and the tick opens the next window. TICK, VOLUME and
// VALUE bars close the moment the running counter reaches the step,
// with ts_event of the closing tick.
type Aggregator struct {
	log     *logging.Logger
	barType types.BarType
	spec    types.BarSpecification
	now     func() uint64

	building bool
	open     num.Price
	high     num.Price
	low      num.Price
	last     num.Price
	volume   num.Quantity

	tickCount uint64
	valueRaw  uint64
	closeNs   uint64
}

// Option customises an Aggregator.
type Option func(*Aggregator)

// WithClock swaps the ts_init source, used by the backtest scheduler to
// stamp bars with simulated wall-clock time.
func WithClock(now func() uint64) Option {
	return func(a *Aggregator) {
		a.now = now
	}
}

// NewAggregator returns an aggregator for an INTERNAL bar type.
func NewAggregator(log *logging.Logger, cfg Config, barType types.BarType, opts ...Option) (*Aggregator, error) {
	if barType.Source() != types.AggregationSourceInternal {
		return nil, errors.Wrapf(ErrExternalBarType, "%s", barType)
	}
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level)
	a := &Aggregator{
		log:     log,
		barType: barType,
		spec:    barType.Spec(),
		now:     func() uint64 { return uint64(time.Now().UnixNano()) },
	}
	for _, o := range opts {
		o(a)
	}
	return a, nil
}

func (a *Aggregator) BarType() types.BarType { return a.barType }

// OnQuote feeds one quote tick. Only BID, ASK and MID bar types consume
// quotes.
func (a *Aggregator) OnQuote(q types.QuoteTick) ([]types.Bar, error) {
	if a.spec.PriceType == types.PriceTypeLast {
		return nil, errors.Wrap(ErrWrongTickKind, "quote into LAST bars")
	}
	price, err := q.ExtractPrice(a.spec.PriceType)
	if err != nil {
		return nil, err
	}
	size, err := q.ExtractSize(a.spec.PriceType)
	if err != nil {
		return nil, err
	}
	return a.applyTick(price, size, q.TsEvent())
}

// OnTrade feeds one trade tick. Only LAST bar types consume trades.
func (a *Aggregator) OnTrade(t types.TradeTick) ([]types.Bar, error) {
	if a.spec.PriceType != types.PriceTypeLast {
		return nil, errors.Wrapf(ErrWrongTickKind, "trade into %s bars", a.spec.PriceType)
	}
	return a.applyTick(t.Price(), t.Size(), t.TsEvent())
}

func (a *Aggregator) applyTick(price num.Price, size num.Quantity, tsEvent uint64) ([]types.Bar, error) {
	var out []types.Bar

	// time bars: a tick on or past the boundary seals the running bar
	// before it is applied
	if a.spec.Aggregation.IsTimeBased() && a.building && tsEvent >= a.closeNs {
		bar, err := a.emit(a.closeNs)
		if err != nil {
			return nil, err
		}
		out = append(out, bar)
	}

	if err := a.track(price, size, tsEvent); err != nil {
		return nil, err
	}

	closed, err := a.maybeCloseOnCount(tsEvent)
	if err != nil {
		return nil, err
	}
	out = append(out, closed...)
	return out, nil
}

// track folds one tick into the running bar, opening a fresh one first
// when needed.
func (a *Aggregator) track(price num.Price, size num.Quantity, tsEvent uint64) error {
	if !a.building {
		a.building = true
		a.open = price
		a.high = price
		a.low = price
		a.volume = num.Quantity{}
		a.tickCount = 0
		a.valueRaw = 0
		if tf := a.spec.TimeframeNs(); tf > 0 {
			a.closeNs = (tsEvent/tf)*tf + tf
		}
	}
	if price.GT(a.high) {
		a.high = price
	}
	if price.LT(a.low) {
		a.low = price
	}
	a.last = price

	vol, err := a.volume.Add(size)
	if err != nil {
		return err
	}
	a.volume = vol
	a.tickCount++

	if a.spec.Aggregation == types.BarAggregationValue {
		notional, err := price.MulQuantity(size)
		if err != nil {
			return err
		}
		if notional < 0 {
			return errors.Wrap(types.ErrValidation, "negative notional in value bar")
		}
		next := a.valueRaw + uint64(notional)
		if next < a.valueRaw {
			return errors.Wrap(num.ErrOverflow, "bar value accumulation")
		}
		a.valueRaw = next
	}
	return nil
}

// maybeCloseOnCount closes counter-driven bars once the step is
// reached.
func (a *Aggregator) maybeCloseOnCount(tsEvent uint64) ([]types.Bar, error) {
	var hit bool
	switch a.spec.Aggregation {
	case types.BarAggregationTick:
		hit = a.tickCount >= a.spec.Step
	case types.BarAggregationVolume:
		hit = a.volume.Raw() >= a.spec.Step*uint64(num.FixedScalar)
	case types.BarAggregationValue:
		hit = a.valueRaw >= a.spec.Step*uint64(num.FixedScalar)
	default:
		return nil, nil
	}
	if !hit {
		return nil, nil
	}
	bar, err := a.emit(tsEvent)
	if err != nil {
		return nil, err
	}
	return []types.Bar{bar}, nil
}

// emit seals the running bar. tsEvent is the window boundary for time
// bars and the closing tick's ts_event otherwise; ts_init is the emit
// wall-clock.
func (a *Aggregator) emit(tsEvent uint64) (types.Bar, error) {
	tsInit := a.now()
	if tsInit < tsEvent {
		// a simulated clock may lag the event stream; bars must still
		// satisfy ts_init >= ts_event
		tsInit = tsEvent
	}
	bar, err := types.NewBar(a.barType, a.open, a.high, a.low, a.last, a.volume, tsEvent, tsInit)
	if err != nil {
		return types.Bar{}, err
	}
	a.building = false
	metrics.BarCounterInc(a.barType.String())
	if a.log.GetLevel() == logging.DebugLevel {
		a.log.Debug(bar.String())
	}
	return bar, nil
}
