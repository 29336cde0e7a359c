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
	"strings"
	"sync"
	"unicode"

	"github.com/pkg/errors"
)

// ErrInvalidIdentifier signals an identifier value that failed
// validation.
var ErrInvalidIdentifier = errors.New("invalid identifier")

// maxIdentifierLen bounds every identifier value.
const maxIdentifierLen = 36

// interner is a process-wide, append-only string intern pool. Entries
// are never invalidated, so handles stay valid for the process lifetime
// and identifier copies are pointer copies.
type interner struct {
	mu      sync.RWMutex
	entries map[string]*string
}

func newInterner() *interner {
	return &interner{entries: map[string]*string{}}
}

func (in *interner) intern(s string) *string {
	in.mu.RLock()
	h, ok := in.entries[s]
	in.mu.RUnlock()
	if ok {
		return h
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	if h, ok := in.entries[s]; ok {
		return h
	}
	h = &s
	in.entries[s] = h
	return h
}

func validateIdentifier(kind, s string) error {
	if s == "" {
		return errors.Wrapf(ErrInvalidIdentifier, "empty %s", kind)
	}
	if len(s) > maxIdentifierLen {
		return errors.Wrapf(ErrInvalidIdentifier, "%s %q longer than %d", kind, s, maxIdentifierLen)
	}
	for _, r := range s {
		if unicode.IsSpace(r) {
			return errors.Wrapf(ErrInvalidIdentifier, "%s %q contains whitespace", kind, s)
		}
	}
	return nil
}

// ident is the shared representation behind every identifier type: an
// opaque handle into the type's intern pool. Equality short-circuits on
// handle identity before falling back to content.
type ident struct {
	h *string
}

func (i ident) value() string {
	if i.h == nil {
		return ""
	}
	return *i.h
}

func (i ident) equal(other ident) bool {
	return i.h == other.h || i.value() == other.value()
}

func (i ident) isZero() bool { return i.h == nil }

// One pool per identifier type keeps unrelated namespaces apart.
var (
	traderIDPool      = newInterner()
	symbolPool        = newInterner()
	venuePool         = newInterner()
	instrumentIDPool  = newInterner()
	clientOrderIDPool = newInterner()
	venueOrderIDPool  = newInterner()
	positionIDPool    = newInterner()
	strategyIDPool    = newInterner()
	accountIDPool     = newInterner()
	tradeIDPool       = newInterner()
)

// TraderID identifies a trader across the platform.
type TraderID struct{ ident }

func NewTraderID(s string) (TraderID, error) {
	if err := validateIdentifier("trader id", s); err != nil {
		return TraderID{}, err
	}
	return TraderID{ident{traderIDPool.intern(s)}}, nil
}

func (id TraderID) Value() string { return id.value() }
func (id TraderID) String() string { return id.value() }
func (id TraderID) Equal(o TraderID) bool { return id.equal(o.ident) }
func (id TraderID) IsZero() bool { return id.isZero() }

// Symbol is the venue-local ticker symbol of an instrument.
type Symbol struct{ ident }

func NewSymbol(s string) (Symbol, error) {
	if err := validateIdentifier("symbol", s); err != nil {
		return Symbol{}, err
	}
	return Symbol{ident{symbolPool.intern(s)}}, nil
}

func (id Symbol) Value() string { return id.value() }
func (id Symbol) String() string { return id.value() }
func (id Symbol) Equal(o Symbol) bool { return id.equal(o.ident) }
func (id Symbol) IsZero() bool { return id.isZero() }

// Venue identifies a trading venue.
type Venue struct{ ident }

func NewVenue(s string) (Venue, error) {
	if err := validateIdentifier("venue", s); err != nil {
		return Venue{}, err
	}
	return Venue{ident{venuePool.intern(s)}}, nil
}

func (id Venue) Value() string { return id.value() }
func (id Venue) String() string { return id.value() }
func (id Venue) Equal(o Venue) bool { return id.equal(o.ident) }
func (id Venue) IsZero() bool { return id.isZero() }

// InstrumentID is "SYMBOL.VENUE", with exactly one dot separating the
// two parts.
type InstrumentID struct {
	ident
	symbol Symbol
	venue  Venue
}

func NewInstrumentID(symbol Symbol, venue Venue) (InstrumentID, error) {
	if symbol.IsZero() || venue.IsZero() {
		return InstrumentID{}, errors.Wrap(ErrInvalidIdentifier, "zero symbol or venue")
	}
	s := symbol.Value() + "." + venue.Value()
	return InstrumentID{
		ident:  ident{instrumentIDPool.intern(s)},
		symbol: symbol,
		venue:  venue,
	}, nil
}

// InstrumentIDFromString parses "SYMBOL.VENUE". Inputs without exactly
// one dot are rejected.
func InstrumentIDFromString(s string) (InstrumentID, error) {
	if strings.Count(s, ".") != 1 {
		return InstrumentID{}, errors.Wrapf(ErrInvalidIdentifier, "instrument id %q needs exactly one '.'", s)
	}
	idx := strings.IndexByte(s, '.')
	symbol, err := NewSymbol(s[:idx])
	if err != nil {
		return InstrumentID{}, err
	}
	venue, err := NewVenue(s[idx+1:])
	if err != nil {
		return InstrumentID{}, err
	}
	return NewInstrumentID(symbol, venue)
}

// MustInstrumentID is a fixture helper, panicking on bad input.
func MustInstrumentID(s string) InstrumentID {
	id, err := InstrumentIDFromString(s)
	if err != nil {
		panic(err)
	}
	return id
}

func (id InstrumentID) Value() string { return id.value() }
func (id InstrumentID) String() string { return id.value() }
func (id InstrumentID) Symbol() Symbol { return id.symbol }
func (id InstrumentID) Venue() Venue { return id.venue }
func (id InstrumentID) Equal(o InstrumentID) bool { return id.equal(o.ident) }
func (id InstrumentID) IsZero() bool { return id.isZero() }

// ClientOrderID identifies an order on the client side.
type ClientOrderID struct{ ident }

func NewClientOrderID(s string) (ClientOrderID, error) {
	if err := validateIdentifier("client order id", s); err != nil {
		return ClientOrderID{}, err
	}
	return ClientOrderID{ident{clientOrderIDPool.intern(s)}}, nil
}

func (id ClientOrderID) Value() string { return id.value() }
func (id ClientOrderID) String() string { return id.value() }
func (id ClientOrderID) Equal(o ClientOrderID) bool { return id.equal(o.ident) }
func (id ClientOrderID) IsZero() bool { return id.isZero() }

// VenueOrderID identifies an order on the venue side.
type VenueOrderID struct{ ident }

func NewVenueOrderID(s string) (VenueOrderID, error) {
	if err := validateIdentifier("venue order id", s); err != nil {
		return VenueOrderID{}, err
	}
	return VenueOrderID{ident{venueOrderIDPool.intern(s)}}, nil
}

func (id VenueOrderID) Value() string { return id.value() }
func (id VenueOrderID) String() string { return id.value() }
func (id VenueOrderID) Equal(o VenueOrderID) bool { return id.equal(o.ident) }
func (id VenueOrderID) IsZero() bool { return id.isZero() }

// PositionID identifies a position.
type PositionID struct{ ident }

func NewPositionID(s string) (PositionID, error) {
	if err := validateIdentifier("position id", s); err != nil {
		return PositionID{}, err
	}
	return PositionID{ident{positionIDPool.intern(s)}}, nil
}

func (id PositionID) Value() string { return id.value() }
func (id PositionID) String() string { return id.value() }
func (id PositionID) Equal(o PositionID) bool { return id.equal(o.ident) }
func (id PositionID) IsZero() bool { return id.isZero() }

// StrategyID identifies a strategy instance.
type StrategyID struct{ ident }

func NewStrategyID(s string) (StrategyID, error) {
	if err := validateIdentifier("strategy id", s); err != nil {
		return StrategyID{}, err
	}
	return StrategyID{ident{strategyIDPool.intern(s)}}, nil
}

func (id StrategyID) Value() string { return id.value() }
func (id StrategyID) String() string { return id.value() }
func (id StrategyID) Equal(o StrategyID) bool { return id.equal(o.ident) }
func (id StrategyID) IsZero() bool { return id.isZero() }

// AccountID identifies an account at a venue.
type AccountID struct{ ident }

func NewAccountID(s string) (AccountID, error) {
	if err := validateIdentifier("account id", s); err != nil {
		return AccountID{}, err
	}
	return AccountID{ident{accountIDPool.intern(s)}}, nil
}

func (id AccountID) Value() string { return id.value() }
func (id AccountID) String() string { return id.value() }
func (id AccountID) Equal(o AccountID) bool { return id.equal(o.ident) }
func (id AccountID) IsZero() bool { return id.isZero() }

// TradeID identifies an execution at a venue.
type TradeID struct{ ident }

func NewTradeID(s string) (TradeID, error) {
	if err := validateIdentifier("trade id", s); err != nil {
		return TradeID{}, err
	}
	return TradeID{ident{tradeIDPool.intern(s)}}, nil
}

func (id TradeID) Value() string { return id.value() }
func (id TradeID) String() string { return id.value() }
func (id TradeID) Equal(o TradeID) bool { return id.equal(o.ident) }
func (id TradeID) IsZero() bool { return id.isZero() }
