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

func TestQuantityFromString(t *testing.T) {
	q, err := num.QuantityFromString("5")
	require.NoError(t, err)
	assert.Equal(t, uint64(5_000_000_000), q.Raw())
	assert.Equal(t, uint8(0), q.Precision())

	q, err = num.QuantityFromString("0.000000001")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), q.Raw())
	assert.Equal(t, uint8(9), q.Precision())

	// quantities use the full unsigned range, past the signed price limit
	q, err = num.QuantityFromString("18446744073")
	require.NoError(t, err)
	assert.Equal(t, uint64(18_446_744_073_000_000_000), q.Raw())

	_, err = num.QuantityFromString("18446744074")
	assert.ErrorIs(t, err, num.ErrOutOfRange)

	_, err = num.QuantityFromString("-1")
	assert.ErrorIs(t, err, num.ErrOutOfRange)
}

func TestQuantityArithmetic(t *testing.T) {
	a := num.MustQuantityFromString("5")
	b := num.MustQuantityFromString("3")

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, "8", sum.String())

	diff, err := a.Sub(b)
	require.NoError(t, err)
	assert.Equal(t, "2", diff.String())

	_, err = b.Sub(a)
	assert.ErrorIs(t, err, num.ErrOutOfRange)

	max := num.MustQuantityFromString("18446744073")
	_, err = max.Add(max)
	assert.Error(t, err)
}

func TestQuantityFromFloat(t *testing.T) {
	q, err := num.QuantityFromFloat(2.5, 0)
	require.NoError(t, err)
	assert.Equal(t, "2", q.String()) // half to even

	q, err = num.QuantityFromFloat(3.5, 0)
	require.NoError(t, err)
	assert.Equal(t, "4", q.String())

	_, err = num.QuantityFromFloat(-1, 0)
	assert.ErrorIs(t, err, num.ErrOutOfRange)
}

func TestMoney(t *testing.T) {
	t.Run("Parses amount and code", testMoneyFromString)
	t.Run("Raw round-trips through the constructor", testMoneyRawRoundTrip)
	t.Run("Mixing currencies fails", testMoneyCurrencyMismatch)
}

func testMoneyFromString(t *testing.T) {
	m, err := num.MoneyFromString("100.50 USD")
	require.NoError(t, err)
	assert.Equal(t, int64(100_500_000_000), m.Raw())
	assert.Equal(t, "USD", m.Currency().Code())
	assert.Equal(t, "100.50 USD", m.String())

	// more fractional digits than the currency allows
	_, err = num.MoneyFromString("1.123 USD")
	assert.ErrorIs(t, err, num.ErrPrecisionMismatch)

	_, err = num.MoneyFromString("1.00 XXX")
	assert.ErrorIs(t, err, num.ErrUnknownCurrency)

	_, err = num.MoneyFromString("1.00")
	assert.Error(t, err)
}

func testMoneyRawRoundTrip(t *testing.T) {
	for _, raw := range []int64{0, 1, -1, 100_500_000_000, -42_000_000_000} {
		m, err := num.MoneyFromRaw(raw, num.USD)
		require.NoError(t, err)
		back, err := num.MoneyFromRaw(m.Raw(), m.Currency())
		require.NoError(t, err)
		assert.Equal(t, m.Raw(), back.Raw())
		assert.True(t, m.Equal(back))
	}
}

func testMoneyCurrencyMismatch(t *testing.T) {
	usd := num.MustMoneyFromString("1.00 USD")
	eur := num.MustMoneyFromString("1.00 EUR")

	_, err := usd.Add(eur)
	assert.ErrorIs(t, err, num.ErrCurrencyMismatch)
	_, err = usd.Sub(eur)
	assert.ErrorIs(t, err, num.ErrCurrencyMismatch)
	_, err = usd.Compare(eur)
	assert.ErrorIs(t, err, num.ErrCurrencyMismatch)

	sum, err := usd.Add(num.MustMoneyFromString("0.50 USD"))
	require.NoError(t, err)
	assert.Equal(t, "1.50 USD", sum.String())
}

func TestCurrencyRegistry(t *testing.T) {
	usd, err := num.CurrencyFromCode("USD")
	require.NoError(t, err)
	assert.Same(t, num.USD, usd)
	assert.Equal(t, uint16(840), usd.ISO4217())
	assert.Equal(t, num.CurrencyKindFiat, usd.Kind())

	// re-registering an existing code returns the interned instance
	again, err := num.RegisterCurrency("USD", 4, 840, "dollar", num.CurrencyKindFiat)
	require.NoError(t, err)
	assert.Same(t, usd, again)
	assert.Equal(t, uint8(2), again.Precision())

	_, err = num.CurrencyFromCode("ZZZ")
	assert.ErrorIs(t, err, num.ErrUnknownCurrency)
}
