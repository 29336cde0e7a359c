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
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// Price is a fixed-precision signed price. The raw value is scaled by
// FixedScalar regardless of the declared precision, so raw values are
// directly comparable across precisions.
type Price struct {
	raw       int64
	precision uint8
}

// PriceFromRaw wraps an already-scaled raw value.
func PriceFromRaw(raw int64, precision uint8) (Price, error) {
	if precision > FixedPrecision {
		return Price{}, errors.Wrapf(ErrPrecisionOutOfRange, "%d", precision)
	}
	if raw > maxPriceRaw || raw < minPriceRaw {
		return Price{}, errors.Wrapf(ErrOutOfRange, "raw price %d", raw)
	}
	return Price{raw: raw, precision: precision}, nil
}

// PriceFromString parses a decimal string, inferring the precision from
// its fractional digits.
func PriceFromString(s string) (Price, error) {
	raw, precision, err := rawFromString(s)
	if err != nil {
		return Price{}, err
	}
	return PriceFromRaw(raw, precision)
}

// PriceFromStringWithPrecision parses a decimal string and checks it fits
// the declared precision exactly.
func PriceFromStringWithPrecision(s string, precision uint8) (Price, error) {
	p, err := PriceFromString(s)
	if err != nil {
		return Price{}, err
	}
	if p.precision > precision {
		return Price{}, errors.Wrapf(ErrPrecisionMismatch, "%q has %d fractional digits, declared %d", s, p.precision, precision)
	}
	p.precision = precision
	return p, nil
}

// PriceFromFloat converts a float at the target precision, rounding half
// to even.
func PriceFromFloat(f float64, precision uint8) (Price, error) {
	raw, err := rawFromFloat(f, precision)
	if err != nil {
		return Price{}, err
	}
	return PriceFromRaw(raw, precision)
}

// MustPriceFromString is a fixture helper, panicking on bad input.
func MustPriceFromString(s string) Price {
	p, err := PriceFromString(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Price) Raw() int64       { return p.raw }
func (p Price) Precision() uint8 { return p.precision }
func (p Price) IsZero() bool     { return p.raw == 0 }
func (p Price) IsPositive() bool { return p.raw > 0 }
func (p Price) IsNegative() bool { return p.raw < 0 }

// Add returns p + other at the wider of the two precisions.
func (p Price) Add(other Price) (Price, error) {
	raw, err := addInt64Checked(p.raw, other.raw)
	if err != nil {
		return Price{}, err
	}
	return PriceFromRaw(raw, maxPrecision(p.precision, other.precision))
}

// Sub returns p - other at the wider of the two precisions.
func (p Price) Sub(other Price) (Price, error) {
	raw, err := addInt64Checked(p.raw, -other.raw)
	if err != nil {
		return Price{}, err
	}
	return PriceFromRaw(raw, maxPrecision(p.precision, other.precision))
}

// MulQuantity multiplies the price by a quantity, returning a raw value
// at full 9 place precision. Callers re-wrap the result through
// MoneyFromRaw when a currency applies. The intermediate runs through a
// 256-bit integer so the product cannot wrap before the range check.
func (p Price) MulQuantity(q Quantity) (int64, error) {
	neg := p.raw < 0
	abs := uint64(p.raw)
	if neg {
		abs = uint64(-p.raw)
	}
	z := new(uint256.Int).Mul(uint256.NewInt(abs), uint256.NewInt(q.raw))
	z.Div(z, uint256.NewInt(uint64(FixedScalar)))
	if !z.IsUint64() || z.Uint64() > uint64(maxPriceRaw) {
		return 0, errors.Wrap(ErrOverflow, "price * quantity")
	}
	raw := int64(z.Uint64())
	if neg {
		raw = -raw
	}
	return raw, nil
}

// MulQuantityMoney multiplies the price by a quantity into a Money in the
// given currency.
func (p Price) MulQuantityMoney(q Quantity, currency *Currency) (Money, error) {
	raw, err := p.MulQuantity(q)
	if err != nil {
		return Money{}, err
	}
	return MoneyFromRaw(raw, currency)
}

// Compare orders on the raw value; the shared scalar makes raws directly
// comparable across precisions.
func (p Price) Compare(other Price) int {
	switch {
	case p.raw < other.raw:
		return -1
	case p.raw > other.raw:
		return 1
	default:
		return 0
	}
}

func (p Price) Equal(other Price) bool { return p.raw == other.raw }
func (p Price) LT(other Price) bool    { return p.raw < other.raw }
func (p Price) LTE(other Price) bool   { return p.raw <= other.raw }
func (p Price) GT(other Price) bool    { return p.raw > other.raw }
func (p Price) GTE(other Price) bool   { return p.raw >= other.raw }

// HashCode folds (raw, precision) into a single hash key.
func (p Price) HashCode() uint64 {
	return uint64(p.raw)*31 + uint64(p.precision)
}

// AsFloat is the analytics projection; storage stays on the raw integer.
func (p Price) AsFloat() float64 {
	f, _ := decimalFromRaw(p.raw).Float64()
	return f
}

func (p Price) AsDecimal() Decimal {
	return decimalFromRaw(p.raw)
}

func (p Price) String() string {
	return formatRaw(p.raw, p.precision)
}
