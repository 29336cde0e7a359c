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
	"strconv"
	"strings"
	"time"

	"github.com/meridianhft/meridian/types/num"

	"github.com/pkg/errors"
)

// BarSpecification is (step, aggregation, price type), e.g. 1-MINUTE-BID.
type BarSpecification struct {
	Step        uint64
	Aggregation BarAggregation
	PriceType   PriceType
}

func NewBarSpecification(step uint64, aggregation BarAggregation, priceType PriceType) (BarSpecification, error) {
	if step == 0 {
		return BarSpecification{}, errors.Wrap(ErrValidation, "zero bar step")
	}
	if aggregation == BarAggregationUnspecified {
		return BarSpecification{}, errors.Wrap(ErrValidation, "unspecified bar aggregation")
	}
	if priceType == PriceTypeUnspecified {
		return BarSpecification{}, errors.Wrap(ErrValidation, "unspecified price type")
	}
	return BarSpecification{Step: step, Aggregation: aggregation, PriceType: priceType}, nil
}

// TimeframeNs is the bar interval in nanoseconds for time-based
// aggregations, zero otherwise.
func (s BarSpecification) TimeframeNs() uint64 {
	var unit time.Duration
	switch s.Aggregation {
	case BarAggregationSecond:
		unit = time.Second
	case BarAggregationMinute:
		unit = time.Minute
	case BarAggregationHour:
		unit = time.Hour
	case BarAggregationDay:
		unit = 24 * time.Hour
	default:
		return 0
	}
	return s.Step * uint64(unit.Nanoseconds())
}

func (s BarSpecification) String() string {
	return fmt.Sprintf("%d-%s-%s", s.Step, s.Aggregation, s.PriceType)
}

// BarSpecificationFromString parses "STEP-AGGREGATION-PRICETYPE".
func BarSpecificationFromString(v string) (BarSpecification, error) {
	parts := strings.Split(v, "-")
	if len(parts) != 3 {
		return BarSpecification{}, errors.Wrapf(ErrValidation, "malformed bar specification %q", v)
	}
	step, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return BarSpecification{}, errors.Wrapf(ErrValidation, "bar step %q", parts[0])
	}
	aggregation, err := BarAggregationFromString(parts[1])
	if err != nil {
		return BarSpecification{}, err
	}
	priceType, err := PriceTypeFromString(parts[2])
	if err != nil {
		return BarSpecification{}, err
	}
	return NewBarSpecification(step, aggregation, priceType)
}

// BarType binds a specification to an instrument and an aggregation
// source, e.g. AUD/USD.SIM-1-MINUTE-BID-INTERNAL.
type BarType struct {
	instrumentID InstrumentID
	spec         BarSpecification
	source       AggregationSource
}

func NewBarType(instrumentID InstrumentID, spec BarSpecification, source AggregationSource) (BarType, error) {
	if instrumentID.IsZero() {
		return BarType{}, errors.Wrap(ErrValidation, "zero instrument id")
	}
	if source == AggregationSourceUnspecified {
		return BarType{}, errors.Wrap(ErrValidation, "unspecified aggregation source")
	}
	return BarType{instrumentID: instrumentID, spec: spec, source: source}, nil
}

func (b BarType) InstrumentID() InstrumentID { return b.instrumentID }
func (b BarType) Spec() BarSpecification { return b.spec }
func (b BarType) Source() AggregationSource { return b.source }

func (b BarType) String() string {
	return fmt.Sprintf("%s-%s-%s", b.instrumentID, b.spec, b.source)
}

// BarTypeFromString parses the String() form. The instrument id may
// itself contain dashes, so the four trailing dash-separated tokens are
// peeled off the right.
func BarTypeFromString(v string) (BarType, error) {
	parts := strings.Split(v, "-")
	if len(parts) < 5 {
		return BarType{}, errors.Wrapf(ErrValidation, "malformed bar type %q", v)
	}
	n := len(parts)
	instrumentID, err := InstrumentIDFromString(strings.Join(parts[:n-4], "-"))
	if err != nil {
		return BarType{}, err
	}
	spec, err := BarSpecificationFromString(strings.Join(parts[n-4:n-1], "-"))
	if err != nil {
		return BarType{}, err
	}
	source, err := AggregationSourceFromString(parts[n-1])
	if err != nil {
		return BarType{}, err
	}
	return NewBarType(instrumentID, spec, source)
}

// MustBarType is a fixture helper, panicking on bad input.
func MustBarType(v string) BarType {
	b, err := BarTypeFromString(v)
	if err != nil {
		panic(err)
	}
	return b
}

// Bar is one OHLCV aggregation window.
// low <= min(open, close) and max(open, close) <= high for every
// constructed value.
type Bar struct {
	barType BarType
	open    num.Price
	high    num.Price
	low     num.Price
	close   num.Price
	volume  num.Quantity
	tsEvent uint64
	tsInit  uint64
}

func NewBar(
	barType BarType,
	open, high, low, close num.Price,
	volume num.Quantity,
	tsEvent, tsInit uint64,
) (Bar, error) {
	if high.LT(open) || high.LT(close) || high.LT(low) {
		return Bar{}, errors.Wrapf(ErrValidation, "bar high %s below open/low/close", high)
	}
	if low.GT(open) || low.GT(close) {
		return Bar{}, errors.Wrapf(ErrValidation, "bar low %s above open/close", low)
	}
	if tsInit < tsEvent {
		return Bar{}, errors.Wrapf(ErrValidation, "ts_init %d before ts_event %d", tsInit, tsEvent)
	}
	return Bar{
		barType: barType,
		open:    open,
		high:    high,
		low:     low,
		close:   close,
		volume:  volume,
		tsEvent: tsEvent,
		tsInit:  tsInit,
	}, nil
}

func (b Bar) BarType() BarType { return b.barType }
func (b Bar) InstrumentID() InstrumentID { return b.barType.instrumentID }
func (b Bar) Open() num.Price { return b.open }
func (b Bar) High() num.Price { return b.high }
func (b Bar) Low() num.Price { return b.low }
func (b Bar) Close() num.Price { return b.close }
func (b Bar) Volume() num.Quantity { return b.volume }
func (b Bar) TsEvent() uint64 { return b.tsEvent }
func (b Bar) TsInit() uint64 { return b.tsInit }

func (b Bar) String() string {
	return fmt.Sprintf("Bar(%s,%s,%s,%s,%s,%s,%d)", b.barType, b.open, b.high, b.low, b.close, b.volume, b.tsEvent)
}
