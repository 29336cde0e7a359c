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

import "github.com/pkg/errors"

// ErrUnknownEnumValue signals a string that maps to no enum member.
// Conversions are exact and case-sensitive.
var ErrUnknownEnumValue = errors.New("unknown enum value")

// Side is the side of an order or ladder. The zero value is reserved for
// unspecified.
type Side int32

const (
	SideUnspecified Side = 0
	SideBuy         Side = 1
	SideSell        Side = 2
)

var sideName = map[Side]string{
	SideUnspecified: "UNSPECIFIED",
	SideBuy:         "BUY",
	SideSell:        "SELL",
}

var sideValue = map[string]Side{
	"UNSPECIFIED": SideUnspecified,
	"BUY":         SideBuy,
	"SELL":        SideSell,
}

func (s Side) String() string {
	if n, ok := sideName[s]; ok {
		return n
	}
	return "UNSPECIFIED"
}

// Opposite flips BUY and SELL; unspecified stays unspecified.
func (s Side) Opposite() Side {
	switch s {
	case SideBuy:
		return SideSell
	case SideSell:
		return SideBuy
	default:
		return SideUnspecified
	}
}

func SideFromString(s string) (Side, error) {
	if v, ok := sideValue[s]; ok {
		return v, nil
	}
	return SideUnspecified, errors.Wrapf(ErrUnknownEnumValue, "side %q", s)
}

// AggressorSide is the side that crossed the spread to execute a trade.
type AggressorSide int32

const (
	AggressorSideNone   AggressorSide = 0
	AggressorSideBuyer  AggressorSide = 1
	AggressorSideSeller AggressorSide = 2
)

var aggressorSideName = map[AggressorSide]string{
	AggressorSideNone:   "NONE",
	AggressorSideBuyer:  "BUYER",
	AggressorSideSeller: "SELLER",
}

var aggressorSideValue = map[string]AggressorSide{
	"NONE":   AggressorSideNone,
	"BUYER":  AggressorSideBuyer,
	"SELLER": AggressorSideSeller,
}

func (a AggressorSide) String() string {
	if n, ok := aggressorSideName[a]; ok {
		return n
	}
	return "NONE"
}

func AggressorSideFromString(s string) (AggressorSide, error) {
	if v, ok := aggressorSideValue[s]; ok {
		return v, nil
	}
	return AggressorSideNone, errors.Wrapf(ErrUnknownEnumValue, "aggressor side %q", s)
}

// BookAction drives the order book delta dispatch.
type BookAction int32

const (
	BookActionUnspecified BookAction = 0
	BookActionAdd         BookAction = 1
	BookActionUpdate      BookAction = 2
	BookActionDelete      BookAction = 3
	BookActionClear       BookAction = 4
)

var bookActionName = map[BookAction]string{
	BookActionUnspecified: "UNSPECIFIED",
	BookActionAdd:         "ADD",
	BookActionUpdate:      "UPDATE",
	BookActionDelete:      "DELETE",
	BookActionClear:       "CLEAR",
}

var bookActionValue = map[string]BookAction{
	"UNSPECIFIED": BookActionUnspecified,
	"ADD":         BookActionAdd,
	"UPDATE":      BookActionUpdate,
	"DELETE":      BookActionDelete,
	"CLEAR":       BookActionClear,
}

func (a BookAction) String() string {
	if n, ok := bookActionName[a]; ok {
		return n
	}
	return "UNSPECIFIED"
}

func BookActionFromString(s string) (BookAction, error) {
	if v, ok := bookActionValue[s]; ok {
		return v, nil
	}
	return BookActionUnspecified, errors.Wrapf(ErrUnknownEnumValue, "book action %q", s)
}

// BookType selects the granularity an order book maintains.
type BookType int32

const (
	BookTypeUnspecified BookType = 0
	// BookTypeL1TBBO keeps top-of-book best bid/offer only.
	BookTypeL1TBBO BookType = 1
	// BookTypeL2MBP aggregates by price, one synthetic order per level.
	BookTypeL2MBP BookType = 2
	// BookTypeL3MBO keeps every order, FIFO within a level.
	BookTypeL3MBO BookType = 3
)

var bookTypeName = map[BookType]string{
	BookTypeUnspecified: "UNSPECIFIED",
	BookTypeL1TBBO:      "L1_TBBO",
	BookTypeL2MBP:       "L2_MBP",
	BookTypeL3MBO:       "L3_MBO",
}

var bookTypeValue = map[string]BookType{
	"UNSPECIFIED": BookTypeUnspecified,
	"L1_TBBO":     BookTypeL1TBBO,
	"L2_MBP":      BookTypeL2MBP,
	"L3_MBO":      BookTypeL3MBO,
}

func (b BookType) String() string {
	if n, ok := bookTypeName[b]; ok {
		return n
	}
	return "UNSPECIFIED"
}

func BookTypeFromString(s string) (BookType, error) {
	if v, ok := bookTypeValue[s]; ok {
		return v, nil
	}
	return BookTypeUnspecified, errors.Wrapf(ErrUnknownEnumValue, "book type %q", s)
}

// BarAggregation is the dimension a bar accumulates over.
type BarAggregation int32

const (
	BarAggregationUnspecified BarAggregation = 0
	BarAggregationTick        BarAggregation = 1
	BarAggregationVolume      BarAggregation = 2
	BarAggregationValue       BarAggregation = 3
	BarAggregationSecond      BarAggregation = 4
	BarAggregationMinute      BarAggregation = 5
	BarAggregationHour        BarAggregation = 6
	BarAggregationDay         BarAggregation = 7
)

var barAggregationName = map[BarAggregation]string{
	BarAggregationUnspecified: "UNSPECIFIED",
	BarAggregationTick:        "TICK",
	BarAggregationVolume:      "VOLUME",
	BarAggregationValue:       "VALUE",
	BarAggregationSecond:      "SECOND",
	BarAggregationMinute:      "MINUTE",
	BarAggregationHour:        "HOUR",
	BarAggregationDay:         "DAY",
}

var barAggregationValue = map[string]BarAggregation{
	"UNSPECIFIED": BarAggregationUnspecified,
	"TICK":        BarAggregationTick,
	"VOLUME":      BarAggregationVolume,
	"VALUE":       BarAggregationValue,
	"SECOND":      BarAggregationSecond,
	"MINUTE":      BarAggregationMinute,
	"HOUR":        BarAggregationHour,
	"DAY":         BarAggregationDay,
}

func (a BarAggregation) String() string {
	if n, ok := barAggregationName[a]; ok {
		return n
	}
	return "UNSPECIFIED"
}

// IsTimeBased reports whether bars close on a wall-clock boundary rather
// than a running counter.
func (a BarAggregation) IsTimeBased() bool {
	switch a {
	case BarAggregationSecond, BarAggregationMinute, BarAggregationHour, BarAggregationDay:
		return true
	default:
		return false
	}
}

func BarAggregationFromString(s string) (BarAggregation, error) {
	if v, ok := barAggregationValue[s]; ok {
		return v, nil
	}
	return BarAggregationUnspecified, errors.Wrapf(ErrUnknownEnumValue, "bar aggregation %q", s)
}

// PriceType selects which price stream feeds an aggregation.
type PriceType int32

const (
	PriceTypeUnspecified PriceType = 0
	PriceTypeBid         PriceType = 1
	PriceTypeAsk         PriceType = 2
	PriceTypeMid         PriceType = 3
	PriceTypeLast        PriceType = 4
)

var priceTypeName = map[PriceType]string{
	PriceTypeUnspecified: "UNSPECIFIED",
	PriceTypeBid:         "BID",
	PriceTypeAsk:         "ASK",
	PriceTypeMid:         "MID",
	PriceTypeLast:        "LAST",
}

var priceTypeValue = map[string]PriceType{
	"UNSPECIFIED": PriceTypeUnspecified,
	"BID":         PriceTypeBid,
	"ASK":         PriceTypeAsk,
	"MID":         PriceTypeMid,
	"LAST":        PriceTypeLast,
}

func (p PriceType) String() string {
	if n, ok := priceTypeName[p]; ok {
		return n
	}
	return "UNSPECIFIED"
}

func PriceTypeFromString(s string) (PriceType, error) {
	if v, ok := priceTypeValue[s]; ok {
		return v, nil
	}
	return PriceTypeUnspecified, errors.Wrapf(ErrUnknownEnumValue, "price type %q", s)
}

// AggregationSource distinguishes bars synthesized locally from bars
// received off a venue.
type AggregationSource int32

const (
	AggregationSourceUnspecified AggregationSource = 0
	AggregationSourceExternal    AggregationSource = 1
	AggregationSourceInternal    AggregationSource = 2
)

var aggregationSourceName = map[AggregationSource]string{
	AggregationSourceUnspecified: "UNSPECIFIED",
	AggregationSourceExternal:    "EXTERNAL",
	AggregationSourceInternal:    "INTERNAL",
}

var aggregationSourceValue = map[string]AggregationSource{
	"UNSPECIFIED": AggregationSourceUnspecified,
	"EXTERNAL":    AggregationSourceExternal,
	"INTERNAL":    AggregationSourceInternal,
}

func (a AggregationSource) String() string {
	if n, ok := aggregationSourceName[a]; ok {
		return n
	}
	return "UNSPECIFIED"
}

func AggregationSourceFromString(s string) (AggregationSource, error) {
	if v, ok := aggregationSourceValue[s]; ok {
		return v, nil
	}
	return AggregationSourceUnspecified, errors.Wrapf(ErrUnknownEnumValue, "aggregation source %q", s)
}
