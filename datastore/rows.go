package datastore

import (
	"github.com/meridianhft/meridian/types"
	"github.com/meridianhft/meridian/types/num"

	"github.com/pkg/errors"
)

// The row types below are the flat columnar projection of the
// market-data events. Field order is the column order and both are part
// of the on-disk format: any change is a breaking format revision.

// QuoteTickRow is the flat form of a QuoteTick.
type QuoteTickRow struct {
	InstrumentID string
	BidRaw       int64
	AskRaw       int64
	BidPrec      uint8
	AskPrec      uint8
	BidSizeRaw   uint64
	AskSizeRaw   uint64
	BidSizePrec  uint8
	AskSizePrec  uint8
	TsEvent      uint64
	TsInit       uint64
}

// TradeTickRow is the flat form of a TradeTick.
type TradeTickRow struct {
	InstrumentID string
	PriceRaw     int64
	PricePrec    uint8
	SizeRaw      uint64
	SizePrec     uint8
	Aggressor    int32
	TradeID      string
	TsEvent      uint64
	TsInit       uint64
}

// BarRow is the flat form of a Bar.
type BarRow struct {
	BarType    string
	OpenRaw    int64
	HighRaw    int64
	LowRaw     int64
	CloseRaw   int64
	PricePrec  uint8
	VolumeRaw  uint64
	VolumePrec uint8
	TsEvent    uint64
	TsInit     uint64
}

// BookDeltaRow is the flat form of an OrderBookDelta. CLEAR rows carry
// zero order columns.
type BookDeltaRow struct {
	InstrumentID string
	Action       int32
	OrderID      uint64
	Side         int32
	PriceRaw     int64
	PricePrec    uint8
	SizeRaw      uint64
	SizePrec     uint8
	Sequence     uint64
	TsEvent      uint64
	TsInit       uint64
}

// Column is one entry of a row schema.
type Column struct {
	Name string
	Type string
}

// QuoteTickSchema is the stable column listing for QuoteTickRow.
func QuoteTickSchema() []Column {
	return []Column{
		{"instrument_id", "str"},
		{"bid_raw", "i64"},
		{"ask_raw", "i64"},
		{"bid_prec", "u8"},
		{"ask_prec", "u8"},
		{"bid_size_raw", "u64"},
		{"ask_size_raw", "u64"},
		{"bsz_prec", "u8"},
		{"asz_prec", "u8"},
		{"ts_event", "u64"},
		{"ts_init", "u64"},
	}
}

// TradeTickSchema is the stable column listing for TradeTickRow.
func TradeTickSchema() []Column {
	return []Column{
		{"instrument_id", "str"},
		{"price_raw", "i64"},
		{"price_prec", "u8"},
		{"size_raw", "u64"},
		{"size_prec", "u8"},
		{"aggressor", "i32"},
		{"trade_id", "str"},
		{"ts_event", "u64"},
		{"ts_init", "u64"},
	}
}

// BarSchema is the stable column listing for BarRow.
func BarSchema() []Column {
	return []Column{
		{"bar_type", "str"},
		{"open_raw", "i64"},
		{"high_raw", "i64"},
		{"low_raw", "i64"},
		{"close_raw", "i64"},
		{"price_prec", "u8"},
		{"volume_raw", "u64"},
		{"volume_prec", "u8"},
		{"ts_event", "u64"},
		{"ts_init", "u64"},
	}
}

// BookDeltaSchema is the stable column listing for BookDeltaRow.
func BookDeltaSchema() []Column {
	return []Column{
		{"instrument_id", "str"},
		{"action", "i32"},
		{"order_id", "u64"},
		{"side", "i32"},
		{"price_raw", "i64"},
		{"price_prec", "u8"},
		{"size_raw", "u64"},
		{"size_prec", "u8"},
		{"sequence", "u64"},
		{"ts_event", "u64"},
		{"ts_init", "u64"},
	}
}

// QuoteTickToRow projects a quote onto its row.
func QuoteTickToRow(q types.QuoteTick) QuoteTickRow {
	return QuoteTickRow{
		InstrumentID: q.InstrumentID().Value(),
		BidRaw:       q.Bid().Raw(),
		AskRaw:       q.Ask().Raw(),
		BidPrec:      q.Bid().Precision(),
		AskPrec:      q.Ask().Precision(),
		BidSizeRaw:   q.BidSize().Raw(),
		AskSizeRaw:   q.AskSize().Raw(),
		BidSizePrec:  q.BidSize().Precision(),
		AskSizePrec:  q.AskSize().Precision(),
		TsEvent:      q.TsEvent(),
		TsInit:       q.TsInit(),
	}
}

// QuoteTickFromRow rebuilds the quote, re-validating every invariant.
func QuoteTickFromRow(r QuoteTickRow) (types.QuoteTick, error) {
	instrument, err := types.InstrumentIDFromString(r.InstrumentID)
	if err != nil {
		return types.QuoteTick{}, err
	}
	bid, err := num.PriceFromRaw(r.BidRaw, r.BidPrec)
	if err != nil {
		return types.QuoteTick{}, err
	}
	ask, err := num.PriceFromRaw(r.AskRaw, r.AskPrec)
	if err != nil {
		return types.QuoteTick{}, err
	}
	bidSize, err := num.QuantityFromRaw(r.BidSizeRaw, r.BidSizePrec)
	if err != nil {
		return types.QuoteTick{}, err
	}
	askSize, err := num.QuantityFromRaw(r.AskSizeRaw, r.AskSizePrec)
	if err != nil {
		return types.QuoteTick{}, err
	}
	return types.NewQuoteTick(instrument, bid, ask, bidSize, askSize, r.TsEvent, r.TsInit)
}

// TradeTickToRow projects a trade onto its row.
func TradeTickToRow(t types.TradeTick) TradeTickRow {
	return TradeTickRow{
		InstrumentID: t.InstrumentID().Value(),
		PriceRaw:     t.Price().Raw(),
		PricePrec:    t.Price().Precision(),
		SizeRaw:      t.Size().Raw(),
		SizePrec:     t.Size().Precision(),
		Aggressor:    int32(t.Aggressor()),
		TradeID:      t.TradeID().Value(),
		TsEvent:      t.TsEvent(),
		TsInit:       t.TsInit(),
	}
}

// TradeTickFromRow rebuilds the trade.
func TradeTickFromRow(r TradeTickRow) (types.TradeTick, error) {
	instrument, err := types.InstrumentIDFromString(r.InstrumentID)
	if err != nil {
		return types.TradeTick{}, err
	}
	price, err := num.PriceFromRaw(r.PriceRaw, r.PricePrec)
	if err != nil {
		return types.TradeTick{}, err
	}
	size, err := num.QuantityFromRaw(r.SizeRaw, r.SizePrec)
	if err != nil {
		return types.TradeTick{}, err
	}
	tradeID, err := types.NewTradeID(r.TradeID)
	if err != nil {
		return types.TradeTick{}, err
	}
	return types.NewTradeTick(instrument, price, size, types.AggressorSide(r.Aggressor), tradeID, r.TsEvent, r.TsInit)
}

// BarToRow projects a bar onto its row. OHLC share one precision, the
// widest of the four.
func BarToRow(b types.Bar) BarRow {
	prec := b.Open().Precision()
	for _, p := range []num.Price{b.High(), b.Low(), b.Close()} {
		if p.Precision() > prec {
			prec = p.Precision()
		}
	}
	return BarRow{
		BarType:    b.BarType().String(),
		OpenRaw:    b.Open().Raw(),
		HighRaw:    b.High().Raw(),
		LowRaw:     b.Low().Raw(),
		CloseRaw:   b.Close().Raw(),
		PricePrec:  prec,
		VolumeRaw:  b.Volume().Raw(),
		VolumePrec: b.Volume().Precision(),
		TsEvent:    b.TsEvent(),
		TsInit:     b.TsInit(),
	}
}

// BarFromRow rebuilds the bar.
func BarFromRow(r BarRow) (types.Bar, error) {
	barType, err := types.BarTypeFromString(r.BarType)
	if err != nil {
		return types.Bar{}, err
	}
	open, err := num.PriceFromRaw(r.OpenRaw, r.PricePrec)
	if err != nil {
		return types.Bar{}, err
	}
	high, err := num.PriceFromRaw(r.HighRaw, r.PricePrec)
	if err != nil {
		return types.Bar{}, err
	}
	low, err := num.PriceFromRaw(r.LowRaw, r.PricePrec)
	if err != nil {
		return types.Bar{}, err
	}
	closePrice, err := num.PriceFromRaw(r.CloseRaw, r.PricePrec)
	if err != nil {
		return types.Bar{}, err
	}
	volume, err := num.QuantityFromRaw(r.VolumeRaw, r.VolumePrec)
	if err != nil {
		return types.Bar{}, err
	}
	return types.NewBar(barType, open, high, low, closePrice, volume, r.TsEvent, r.TsInit)
}

// BookDeltaToRow projects a delta onto its row.
func BookDeltaToRow(d types.OrderBookDelta) BookDeltaRow {
	row := BookDeltaRow{
		InstrumentID: d.InstrumentID().Value(),
		Action:       int32(d.Action()),
		Sequence:     d.Sequence(),
		TsEvent:      d.TsEvent(),
		TsInit:       d.TsInit(),
	}
	if order, ok := d.Order(); ok {
		row.OrderID = order.OrderID()
		row.Side = int32(order.Side())
		row.PriceRaw = order.Price().Raw()
		row.PricePrec = order.Price().Precision()
		row.SizeRaw = order.Size().Raw()
		row.SizePrec = order.Size().Precision()
	}
	return row
}

// BookDeltaFromRow rebuilds the delta.
func BookDeltaFromRow(r BookDeltaRow) (types.OrderBookDelta, error) {
	instrument, err := types.InstrumentIDFromString(r.InstrumentID)
	if err != nil {
		return types.OrderBookDelta{}, err
	}
	action := types.BookAction(r.Action)
	if action == types.BookActionClear {
		return types.NewClearDelta(instrument, r.Sequence, r.TsEvent, r.TsInit)
	}
	price, err := num.PriceFromRaw(r.PriceRaw, r.PricePrec)
	if err != nil {
		return types.OrderBookDelta{}, err
	}
	size, err := num.QuantityFromRaw(r.SizeRaw, r.SizePrec)
	if err != nil {
		return types.OrderBookDelta{}, err
	}
	order, err := types.NewBookOrder(r.OrderID, types.Side(r.Side), price, size)
	if err != nil {
		return types.OrderBookDelta{}, err
	}
	return types.NewOrderBookDelta(instrument, action, order, r.Sequence, r.TsEvent, r.TsInit)
}

// EventToRow projects any event onto its row type, returned as an
// untyped value the writer switches over.
func EventToRow(v interface{}) (interface{}, error) {
	switch tv := v.(type) {
	case types.QuoteTick:
		return QuoteTickToRow(tv), nil
	case types.TradeTick:
		return TradeTickToRow(tv), nil
	case types.Bar:
		return BarToRow(tv), nil
	case types.OrderBookDelta:
		return BookDeltaToRow(tv), nil
	default:
		return nil, errors.Errorf("no row projection for %T", v)
	}
}
