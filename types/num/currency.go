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
	"sync"

	"github.com/pkg/errors"
)

// CurrencyKind partitions currencies into fiat and crypto assets.
type CurrencyKind int32

const (
	CurrencyKindUnspecified CurrencyKind = 0
	CurrencyKindFiat        CurrencyKind = 1
	CurrencyKindCrypto      CurrencyKind = 2
)

var currencyKindName = map[CurrencyKind]string{
	CurrencyKindUnspecified: "UNSPECIFIED",
	CurrencyKindFiat:        "FIAT",
	CurrencyKindCrypto:      "CRYPTO",
}

var currencyKindValue = map[string]CurrencyKind{
	"UNSPECIFIED": CurrencyKindUnspecified,
	"FIAT":        CurrencyKindFiat,
	"CRYPTO":      CurrencyKindCrypto,
}

func (k CurrencyKind) String() string {
	if s, ok := currencyKindName[k]; ok {
		return s
	}
	return "UNSPECIFIED"
}

// CurrencyKindFromString converts exactly and case-sensitively.
func CurrencyKindFromString(s string) (CurrencyKind, error) {
	if k, ok := currencyKindValue[s]; ok {
		return k, nil
	}
	return CurrencyKindUnspecified, errors.Errorf("unknown currency kind %q", s)
}

// ErrUnknownCurrency signals a code missing from the registry.
var ErrUnknownCurrency = errors.New("unknown currency code")

// Currency describes a settlement asset. Currencies are interned in a
// process-wide registry and compared by code.
type Currency struct {
	code      string
	precision uint8
	iso4217   uint16
	name      string
	kind      CurrencyKind
}

func (c *Currency) Code() string       { return c.code }
func (c *Currency) Precision() uint8   { return c.precision }
func (c *Currency) ISO4217() uint16    { return c.iso4217 }
func (c *Currency) Name() string       { return c.name }
func (c *Currency) Kind() CurrencyKind { return c.kind }
func (c *Currency) String() string     { return c.code }

// Equal compares by code.
func (c *Currency) Equal(other *Currency) bool {
	if c == other {
		return true
	}
	if c == nil || other == nil {
		return false
	}
	return c.code == other.code
}

// The registry is a process-wide singleton, seeded with the builtin set
// during package initialisation (not lazily on first use) and
// append-only afterwards.
var (
	currencyMu       sync.RWMutex
	currencyRegistry = map[string]*Currency{}
)

// RegisterCurrency adds a currency to the registry. Registering an
// existing code returns the already-interned instance untouched.
func RegisterCurrency(code string, precision uint8, iso4217 uint16, name string, kind CurrencyKind) (*Currency, error) {
	if code == "" {
		return nil, errors.New("empty currency code")
	}
	if precision > FixedPrecision {
		return nil, errors.Wrapf(ErrPrecisionOutOfRange, "%d", precision)
	}
	currencyMu.Lock()
	defer currencyMu.Unlock()
	if c, ok := currencyRegistry[code]; ok {
		return c, nil
	}
	c := &Currency{
		code:      code,
		precision: precision,
		iso4217:   iso4217,
		name:      name,
		kind:      kind,
	}
	currencyRegistry[code] = c
	return c, nil
}

// CurrencyFromCode looks up an interned currency.
func CurrencyFromCode(code string) (*Currency, error) {
	currencyMu.RLock()
	defer currencyMu.RUnlock()
	if c, ok := currencyRegistry[code]; ok {
		return c, nil
	}
	return nil, errors.Wrapf(ErrUnknownCurrency, "%q", code)
}

// MustCurrency is a fixture helper, panicking on unknown codes.
func MustCurrency(code string) *Currency {
	c, err := CurrencyFromCode(code)
	if err != nil {
		panic(err)
	}
	return c
}

func mustRegister(code string, precision uint8, iso4217 uint16, name string, kind CurrencyKind) *Currency {
	c, err := RegisterCurrency(code, precision, iso4217, name, kind)
	if err != nil {
		panic(err)
	}
	return c
}

// Builtin set. ISO 4217 numeric codes for fiat; zero for crypto assets.
var (
	USD  = mustRegister("USD", 2, 840, "United States dollar", CurrencyKindFiat)
	EUR  = mustRegister("EUR", 2, 978, "Euro", CurrencyKindFiat)
	GBP  = mustRegister("GBP", 2, 826, "British pound sterling", CurrencyKindFiat)
	JPY  = mustRegister("JPY", 0, 392, "Japanese yen", CurrencyKindFiat)
	AUD  = mustRegister("AUD", 2, 36, "Australian dollar", CurrencyKindFiat)
	CAD  = mustRegister("CAD", 2, 124, "Canadian dollar", CurrencyKindFiat)
	CHF  = mustRegister("CHF", 2, 756, "Swiss franc", CurrencyKindFiat)
	BTC  = mustRegister("BTC", 8, 0, "Bitcoin", CurrencyKindCrypto)
	ETH  = mustRegister("ETH", 8, 0, "Ether", CurrencyKindCrypto)
	USDT = mustRegister("USDT", 8, 0, "Tether", CurrencyKindCrypto)
	USDC = mustRegister("USDC", 8, 0, "USD Coin", CurrencyKindCrypto)
)
