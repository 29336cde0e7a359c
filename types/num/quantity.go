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

package num

import (
	"github.com/pkg/errors"
)

// Quantity is a fixed-precision unsigned size.
type Quantity struct {
	raw       uint64
	precision uint8
}

// QuantityFromRaw wraps an already-scaled raw value.
func QuantityFromRaw(raw uint64, precision uint8) (Quantity, error) {
	if precision > FixedPrecision {
		return Quantity{}, errors.Wrapf(ErrPrecisionOutOfRange, "%d", precision)
	}
	if raw > maxQuantityRaw {
		return Quantity{}, errors.Wrapf(ErrOutOfRange, "raw quantity %d", raw)
	}
	return Quantity{raw: raw, precision: precision}, nil
}

// QuantityFromString parses a decimal string, inferring the precision
// from its fractional digits. Negative sizes are rejected.
func QuantityFromString(s string) (Quantity, error) {
	raw, precision, err := rawFromStringU(s)
	if err != nil {
		return Quantity{}, err
	}
	return QuantityFromRaw(raw, precision)
}

// QuantityFromFloat converts a float at the target precision, rounding
// half to even.
func QuantityFromFloat(f float64, precision uint8) (Quantity, error) {
	if f < 0 {
		return Quantity{}, errors.Wrapf(ErrOutOfRange, "negative quantity %v", f)
	}
	raw, err := rawFromFloatU(f, precision)
	if err != nil {
		return Quantity{}, err
	}
	return QuantityFromRaw(raw, precision)
}

// MustQuantityFromString is a fixture helper, panicking on bad input.
func MustQuantityFromString(s string) Quantity {
	q, err := QuantityFromString(s)
	if err != nil {
		panic(err)
	}
	return q
}

func (q Quantity) Raw() uint64      { return q.raw }
func (q Quantity) Precision() uint8 { return q.precision }
func (q Quantity) IsZero() bool     { return q.raw == 0 }

// Add returns q + other at the wider of the two precisions.
func (q Quantity) Add(other Quantity) (Quantity, error) {
	sum := q.raw + other.raw
	if sum < q.raw {
		return Quantity{}, ErrOverflow
	}
	return QuantityFromRaw(sum, maxPrecision(q.precision, other.precision))
}

// Sub returns q - other at the wider of the two precisions. Quantities
// are unsigned so underflow fails rather than wrapping.
func (q Quantity) Sub(other Quantity) (Quantity, error) {
	if other.raw > q.raw {
		return Quantity{}, errors.Wrap(ErrOutOfRange, "quantity underflow")
	}
	return QuantityFromRaw(q.raw-other.raw, maxPrecision(q.precision, other.precision))
}

func (q Quantity) Compare(other Quantity) int {
	switch {
	case q.raw < other.raw:
		return -1
	case q.raw > other.raw:
		return 1
	default:
		return 0
	}
}

func (q Quantity) Equal(other Quantity) bool { return q.raw == other.raw }
func (q Quantity) LT(other Quantity) bool    { return q.raw < other.raw }
func (q Quantity) GT(other Quantity) bool    { return q.raw > other.raw }

// HashCode folds (raw, precision) into a single hash key.
func (q Quantity) HashCode() uint64 {
	return q.raw*31 + uint64(q.precision)
}

// AsFloat is the analytics projection; storage stays on the raw integer.
func (q Quantity) AsFloat() float64 {
	f, _ := decimalFromRawU(q.raw).Float64()
	return f
}

func (q Quantity) AsDecimal() Decimal {
	return decimalFromRawU(q.raw)
}

func (q Quantity) String() string {
	return formatRawU(q.raw, q.precision)
}
