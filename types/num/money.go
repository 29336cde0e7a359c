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
	"strings"

	"github.com/pkg/errors"
)

// Money is a fixed-precision signed amount in a concrete currency. The
// display precision comes from the currency.
type Money struct {
	raw      int64
	currency *Currency
}

// MoneyFromRaw wraps an already-scaled raw value.
func MoneyFromRaw(raw int64, currency *Currency) (Money, error) {
	if currency == nil {
		return Money{}, errors.New("nil currency")
	}
	if raw > maxPriceRaw || raw < minPriceRaw {
		return Money{}, errors.Wrapf(ErrOutOfRange, "raw amount %d", raw)
	}
	return Money{raw: raw, currency: currency}, nil
}

// MoneyFromString parses "AMOUNT CODE", e.g. "100.50 USD". The amount
// must fit the currency precision.
func MoneyFromString(s string) (Money, error) {
	parts := strings.Fields(s)
	if len(parts) != 2 {
		return Money{}, errors.Errorf("malformed money string %q, want \"AMOUNT CODE\"", s)
	}
	currency, err := CurrencyFromCode(parts[1])
	if err != nil {
		return Money{}, err
	}
	raw, precision, err := rawFromString(parts[0])
	if err != nil {
		return Money{}, err
	}
	if precision > currency.precision {
		return Money{}, errors.Wrapf(ErrPrecisionMismatch, "%q has %d fractional digits, %s allows %d", parts[0], precision, currency.code, currency.precision)
	}
	return MoneyFromRaw(raw, currency)
}

// NewMoney converts a float at the currency precision, rounding half to
// even.
func NewMoney(f float64, currency *Currency) (Money, error) {
	if currency == nil {
		return Money{}, errors.New("nil currency")
	}
	raw, err := rawFromFloat(f, currency.precision)
	if err != nil {
		return Money{}, err
	}
	return MoneyFromRaw(raw, currency)
}

// MustMoneyFromString is a fixture helper, panicking on bad input.
func MustMoneyFromString(s string) Money {
	m, err := MoneyFromString(s)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) Raw() int64          { return m.raw }
func (m Money) Currency() *Currency { return m.currency }
func (m Money) Precision() uint8    { return m.currency.precision }
func (m Money) IsZero() bool        { return m.raw == 0 }
func (m Money) IsPositive() bool    { return m.raw > 0 }
func (m Money) IsNegative() bool    { return m.raw < 0 }

// Add returns m + other. Both operands must share a currency.
func (m Money) Add(other Money) (Money, error) {
	if !m.currency.Equal(other.currency) {
		return Money{}, errors.Wrapf(ErrCurrencyMismatch, "%s + %s", m.currency, other.currency)
	}
	raw, err := addInt64Checked(m.raw, other.raw)
	if err != nil {
		return Money{}, err
	}
	return MoneyFromRaw(raw, m.currency)
}

// Sub returns m - other. Both operands must share a currency.
func (m Money) Sub(other Money) (Money, error) {
	if !m.currency.Equal(other.currency) {
		return Money{}, errors.Wrapf(ErrCurrencyMismatch, "%s - %s", m.currency, other.currency)
	}
	raw, err := addInt64Checked(m.raw, -other.raw)
	if err != nil {
		return Money{}, err
	}
	return MoneyFromRaw(raw, m.currency)
}

// Compare orders amounts in the same currency; differing currencies fail.
func (m Money) Compare(other Money) (int, error) {
	if !m.currency.Equal(other.currency) {
		return 0, errors.Wrapf(ErrCurrencyMismatch, "%s vs %s", m.currency, other.currency)
	}
	switch {
	case m.raw < other.raw:
		return -1, nil
	case m.raw > other.raw:
		return 1, nil
	default:
		return 0, nil
	}
}

func (m Money) Equal(other Money) bool {
	return m.raw == other.raw && m.currency.Equal(other.currency)
}

// HashCode folds (raw, currency) into a single hash key.
func (m Money) HashCode() uint64 {
	h := uint64(m.raw) * 31
	for i := 0; i < len(m.currency.code); i++ {
		h = h*31 + uint64(m.currency.code[i])
	}
	return h
}

// AsFloat is the analytics projection; storage stays on the raw integer.
func (m Money) AsFloat() float64 {
	f, _ := decimalFromRaw(m.raw).Float64()
	return f
}

func (m Money) AsDecimal() Decimal {
	return decimalFromRaw(m.raw)
}

func (m Money) String() string {
	return formatRaw(m.raw, m.currency.precision) + " " + m.currency.code
}
