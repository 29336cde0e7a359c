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
	"math"
	"math/big"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Decimal is the arbitrary-precision decimal used on the conversion
// boundary. Raw storage is always the scaled 64-bit integer.
type Decimal = decimal.Decimal

const (
	// FixedPrecision is the maximum number of decimal places any raw
	// value can carry.
	FixedPrecision uint8 = 9

	// FixedScalar is the scaling factor between a human decimal and its
	// raw representation.
	FixedScalar int64 = 1_000_000_000

	// MaxPricePreScale is the largest absolute pre-scale price magnitude
	// that still fits a signed 64-bit raw value.
	MaxPricePreScale int64 = 9_223_372_036

	// MaxQuantityPreScale is the largest pre-scale quantity magnitude
	// that still fits an unsigned 64-bit raw value.
	MaxQuantityPreScale uint64 = 18_446_744_073
)

var (
	// ErrOutOfRange signals a value outside the representable raw range.
	ErrOutOfRange = errors.New("value out of range")
	// ErrOverflow signals a raw arithmetic overflow.
	ErrOverflow = errors.New("arithmetic overflow")
	// ErrPrecisionOutOfRange signals a precision outside 0..9.
	ErrPrecisionOutOfRange = errors.New("precision out of range")
	// ErrPrecisionMismatch signals operands or inputs whose declared
	// precisions are incompatible.
	ErrPrecisionMismatch = errors.New("precision mismatch")
	// ErrCurrencyMismatch signals money operands in different currencies.
	ErrCurrencyMismatch = errors.New("currency mismatch")
	// ErrInvalidDecimal signals an unparseable decimal string.
	ErrInvalidDecimal = errors.New("invalid decimal string")
)

var (
	decScalar = decimal.New(FixedScalar, 0)

	maxPriceRaw    = MaxPricePreScale * FixedScalar
	minPriceRaw    = -maxPriceRaw
	maxQuantityRaw = MaxQuantityPreScale * uint64(FixedScalar)
)

// precisionFromString infers the declared precision of a decimal string:
// the number of fractional digits, stripping trailing zeros only while
// above the 9 place maximum.
func precisionFromString(s string) (uint8, error) {
	idx := strings.IndexByte(s, '.')
	if idx < 0 {
		return 0, nil
	}
	frac := s[idx+1:]
	if i := strings.IndexAny(frac, "eE"); i >= 0 {
		// scientific notation defers to the decimal library exponent
		frac = frac[:i]
	}
	n := len(frac)
	for n > int(FixedPrecision) && frac[n-1] == '0' {
		n--
	}
	if n > int(FixedPrecision) {
		return 0, errors.Wrapf(ErrPrecisionOutOfRange, "%d fractional digits", n)
	}
	return uint8(n), nil
}

// rawFromDecimal converts a decimal to its scaled raw integer. The
// decimal must be exactly representable at 9 places.
func rawFromDecimal(d Decimal) (int64, error) {
	scaled := d.Mul(decScalar)
	if !scaled.IsInteger() {
		return 0, errors.Wrapf(ErrPrecisionOutOfRange, "%s exceeds %d decimal places", d.String(), FixedPrecision)
	}
	bi := scaled.BigInt()
	if !bi.IsInt64() {
		return 0, errors.Wrapf(ErrOutOfRange, "%s", d.String())
	}
	return bi.Int64(), nil
}

// rawFromDecimalU is the unsigned variant of rawFromDecimal; quantity
// raws span the full uint64 range, beyond what int64 can hold.
func rawFromDecimalU(d Decimal) (uint64, error) {
	scaled := d.Mul(decScalar)
	if !scaled.IsInteger() {
		return 0, errors.Wrapf(ErrPrecisionOutOfRange, "%s exceeds %d decimal places", d.String(), FixedPrecision)
	}
	bi := scaled.BigInt()
	if bi.Sign() < 0 || !bi.IsUint64() {
		return 0, errors.Wrapf(ErrOutOfRange, "%s", d.String())
	}
	return bi.Uint64(), nil
}

// rawFromString parses a canonical decimal string into (raw, precision).
func rawFromString(s string) (int64, uint8, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, 0, errors.Wrapf(ErrInvalidDecimal, "%q", s)
	}
	precision, err := precisionFromString(s)
	if err != nil {
		return 0, 0, err
	}
	raw, err := rawFromDecimal(d)
	if err != nil {
		return 0, 0, err
	}
	return raw, precision, nil
}

// rawFromStringU parses a canonical decimal string into an unsigned
// (raw, precision).
func rawFromStringU(s string) (uint64, uint8, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, 0, errors.Wrapf(ErrInvalidDecimal, "%q", s)
	}
	precision, err := precisionFromString(s)
	if err != nil {
		return 0, 0, err
	}
	raw, err := rawFromDecimalU(d)
	if err != nil {
		return 0, 0, err
	}
	return raw, precision, nil
}

// rawFromFloat converts a float to raw at the target precision, rounding
// half to even.
func rawFromFloat(f float64, precision uint8) (int64, error) {
	if precision > FixedPrecision {
		return 0, errors.Wrapf(ErrPrecisionOutOfRange, "%d", precision)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errors.Wrapf(ErrInvalidDecimal, "%v", f)
	}
	d := decimal.NewFromFloat(f).RoundBank(int32(precision))
	return rawFromDecimal(d)
}

// rawFromFloatU is the unsigned variant of rawFromFloat.
func rawFromFloatU(f float64, precision uint8) (uint64, error) {
	if precision > FixedPrecision {
		return 0, errors.Wrapf(ErrPrecisionOutOfRange, "%d", precision)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errors.Wrapf(ErrInvalidDecimal, "%v", f)
	}
	d := decimal.NewFromFloat(f).RoundBank(int32(precision))
	return rawFromDecimalU(d)
}

// decimalFromRaw rebuilds the decimal view of a raw value.
func decimalFromRaw(raw int64) Decimal {
	return decimal.New(raw, 0).Div(decScalar)
}

// decimalFromRawU rebuilds the decimal view of an unsigned raw value.
func decimalFromRawU(raw uint64) Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(raw), 0).Div(decScalar)
}

// formatRaw renders a raw value with exactly precision decimal places.
func formatRaw(raw int64, precision uint8) string {
	return decimalFromRaw(raw).StringFixed(int32(precision))
}

// formatRawU renders an unsigned raw value with exactly precision decimal
// places.
func formatRawU(raw uint64, precision uint8) string {
	return decimalFromRawU(raw).StringFixed(int32(precision))
}

func addInt64Checked(a, b int64) (int64, error) {
	sum := a + b
	if (a > 0 && b > 0 && sum < 0) || (a < 0 && b < 0 && sum >= 0) {
		return 0, ErrOverflow
	}
	return sum, nil
}

func maxPrecision(a, b uint8) uint8 {
	if a > b {
		return a
	}
	return b
}
