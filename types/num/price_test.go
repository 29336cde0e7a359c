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

package num_test

import (
	"testing"

	"github.com/meridianhft/meridian/types/num"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceFromString(t *testing.T) {
	t.Run("Parses with inferred precision", testPriceFromStringValid)
	t.Run("Rejects out of range values", testPriceFromStringOutOfRange)
	t.Run("Rejects excess fractional digits", testPriceFromStringTooPrecise)
	t.Run("Rejects malformed input", testPriceFromStringMalformed)
}

func testPriceFromStringValid(t *testing.T) {
	p, err := num.PriceFromString("1.23456")
	require.NoError(t, err)
	assert.Equal(t, int64(1_234_560_000), p.Raw())
	assert.Equal(t, uint8(5), p.Precision())
	assert.Equal(t, "1.23456", p.String())

	p, err = num.PriceFromString("1.234567890")
	require.NoError(t, err)
	assert.Equal(t, int64(1_234_567_890), p.Raw())
	assert.Equal(t, uint8(9), p.Precision())

	p, err = num.PriceFromString("-42")
	require.NoError(t, err)
	assert.Equal(t, int64(-42_000_000_000), p.Raw())
	assert.Equal(t, uint8(0), p.Precision())

	// trailing zeros beyond 9 places strip back into range
	p, err = num.PriceFromString("1.2300000000")
	require.NoError(t, err)
	assert.Equal(t, int64(1_230_000_000), p.Raw())
	assert.Equal(t, uint8(9), p.Precision())
}

func testPriceFromStringOutOfRange(t *testing.T) {
	_, err := num.PriceFromString("9223372037")
	require.Error(t, err)
	assert.ErrorIs(t, err, num.ErrOutOfRange)

	_, err = num.PriceFromString("-9223372037")
	require.Error(t, err)
	assert.ErrorIs(t, err, num.ErrOutOfRange)

	// the boundary itself is fine
	p, err := num.PriceFromString("9223372036")
	require.NoError(t, err)
	assert.Equal(t, int64(9_223_372_036_000_000_000), p.Raw())
}

func testPriceFromStringTooPrecise(t *testing.T) {
	_, err := num.PriceFromString("1.0000000001")
	require.Error(t, err)
	assert.ErrorIs(t, err, num.ErrPrecisionOutOfRange)
}

func testPriceFromStringMalformed(t *testing.T) {
	for _, s := range []string{"", "abc", "1.2.3", "--1"} {
		_, err := num.PriceFromString(s)
		assert.Error(t, err, s)
	}
}

func TestPriceFromFloat(t *testing.T) {
	// half-to-even at the target precision
	p, err := num.PriceFromFloat(1.25, 1)
	require.NoError(t, err)
	assert.Equal(t, "1.2", p.String())

	p, err = num.PriceFromFloat(1.35, 1)
	require.NoError(t, err)
	assert.Equal(t, "1.4", p.String())

	_, err = num.PriceFromFloat(1.0, 10)
	assert.ErrorIs(t, err, num.ErrPrecisionOutOfRange)
}

func TestPriceArithmetic(t *testing.T) {
	a := num.MustPriceFromString("100.00")
	b := num.MustPriceFromString("0.015")

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, "100.015", sum.String())
	assert.Equal(t, uint8(3), sum.Precision())

	diff, err := a.Sub(b)
	require.NoError(t, err)
	assert.Equal(t, "99.985", diff.String())

	max := num.MustPriceFromString("9223372036")
	_, err = max.Add(max)
	assert.ErrorIs(t, err, num.ErrOverflow)
}

func TestPriceMulQuantity(t *testing.T) {
	p := num.MustPriceFromString("100.50")
	q := num.MustQuantityFromString("2")

	raw, err := p.MulQuantity(q)
	require.NoError(t, err)
	assert.Equal(t, int64(201_000_000_000), raw)

	m, err := p.MulQuantityMoney(q, num.USD)
	require.NoError(t, err)
	assert.Equal(t, "201.00 USD", m.String())

	// a product beyond the raw range must fail, not wrap
	big := num.MustPriceFromString("9223372036")
	lots := num.MustQuantityFromString("1000000")
	_, err = big.MulQuantity(lots)
	assert.ErrorIs(t, err, num.ErrOverflow)
}

func TestPriceOrdering(t *testing.T) {
	// raw ordering is precision-independent: 1.2345 < 1.23456
	a := num.MustPriceFromString("1.2345")
	b := num.MustPriceFromString("1.23456")
	assert.True(t, a.LT(b))
	assert.True(t, b.GT(a))
	assert.Equal(t, -1, a.Compare(b))

	// equal raws compare equal regardless of declared precision
	c, err := num.PriceFromRaw(1_234_500_000, 4)
	require.NoError(t, err)
	d, err := num.PriceFromRaw(1_234_500_000, 9)
	require.NoError(t, err)
	assert.True(t, c.Equal(d))
	assert.Equal(t, 0, c.Compare(d))
	// the hash still distinguishes the declared precision
	assert.NotEqual(t, c.HashCode(), d.HashCode())
}

func TestPriceRawOrderingProperty(t *testing.T) {
	raws := []int64{-5_000_000_000, -1, 0, 1, 999_999_999, 1_000_000_000, 7_500_000_000}
	for i, ra := range raws {
		for j, rb := range raws {
			a, err := num.PriceFromRaw(ra, 9)
			require.NoError(t, err)
			b, err := num.PriceFromRaw(rb, 9)
			require.NoError(t, err)
			assert.Equal(t, i < j, a.LT(b), "raw %d vs %d", ra, rb)
		}
	}
}
