package events

import (
	"github.com/meridianhft/meridian/types"

	"github.com/pkg/errors"
)

// ErrUnsupportedEvent signals a payload the event layer does not know.
var ErrUnsupportedEvent = errors.New("unknown payload for event")

// Type tags every market-data event. The set is closed: persistence and
// wire handling switch over it exhaustively.
type Type int

const (
	// All is used by subscribers that want every event; it has no
	// payload of its own.
	All Type = iota
	QuoteEvent
	TradeEvent
	BarEvent
	BookDeltaEvent
)

var eventStrings = map[Type]string{
	All:            "ALL",
	QuoteEvent:     "Quote",
	TradeEvent:     "Trade",
	BarEvent:       "Bar",
	BookDeltaEvent: "BookDelta",
}

func (t Type) String() string {
	if s, ok := eventStrings[t]; ok {
		return s
	}
	return "UNKNOWN"
}

// Event is the common denominator all market-data events share.
type Event interface {
	Type() Type
	InstrumentID() types.InstrumentID
	TsEvent() uint64
	TsInit() uint64
}

// Base common denominator all events embed.
type Base struct {
	et Type
}

func (b Base) Type() Type { return b.et }

// Quote wraps a QuoteTick.
type Quote struct {
	Base
	QuoteTick types.QuoteTick
}

func NewQuoteEvent(q types.QuoteTick) *Quote {
	return &Quote{Base: Base{et: QuoteEvent}, QuoteTick: q}
}

func (e Quote) InstrumentID() types.InstrumentID { return e.QuoteTick.InstrumentID() }
func (e Quote) TsEvent() uint64                  { return e.QuoteTick.TsEvent() }
func (e Quote) TsInit() uint64                   { return e.QuoteTick.TsInit() }

// Trade wraps a TradeTick.
type Trade struct {
	Base
	TradeTick types.TradeTick
}

func NewTradeEvent(t types.TradeTick) *Trade {
	return &Trade{Base: Base{et: TradeEvent}, TradeTick: t}
}

func (e Trade) InstrumentID() types.InstrumentID { return e.TradeTick.InstrumentID() }
func (e Trade) TsEvent() uint64                  { return e.TradeTick.TsEvent() }
func (e Trade) TsInit() uint64                   { return e.TradeTick.TsInit() }

// Bar wraps a completed Bar.
type Bar struct {
	Base
	Bar types.Bar
}

func NewBarEvent(b types.Bar) *Bar {
	return &Bar{Base: Base{et: BarEvent}, Bar: b}
}

func (e Bar) InstrumentID() types.InstrumentID { return e.Bar.InstrumentID() }
func (e Bar) TsEvent() uint64                  { return e.Bar.TsEvent() }
func (e Bar) TsInit() uint64                   { return e.Bar.TsInit() }

// BookDelta wraps one order book delta.
type BookDelta struct {
	Base
	Delta types.OrderBookDelta
}

func NewBookDeltaEvent(d types.OrderBookDelta) *BookDelta {
	return &BookDelta{Base: Base{et: BookDeltaEvent}, Delta: d}
}

func (e BookDelta) InstrumentID() types.InstrumentID { return e.Delta.InstrumentID() }
func (e BookDelta) TsEvent() uint64                  { return e.Delta.TsEvent() }
func (e BookDelta) TsInit() uint64                   { return e.Delta.TsInit() }

// New is a generic constructor - based on the type of v, the specific
// event is returned.
func New(v interface{}) (Event, error) {
	switch tv := v.(type) {
	case types.QuoteTick:
		return NewQuoteEvent(tv), nil
	case *types.QuoteTick:
		return NewQuoteEvent(*tv), nil
	case types.TradeTick:
		return NewTradeEvent(tv), nil
	case *types.TradeTick:
		return NewTradeEvent(*tv), nil
	case types.Bar:
		return NewBarEvent(tv), nil
	case *types.Bar:
		return NewBarEvent(*tv), nil
	case types.OrderBookDelta:
		return NewBookDeltaEvent(tv), nil
	case *types.OrderBookDelta:
		return NewBookDeltaEvent(*tv), nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedEvent, "%T", v)
	}
}
