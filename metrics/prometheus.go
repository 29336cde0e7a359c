package metrics

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// Gauge ...
	Gauge instrument = iota
	// Counter ...
	Counter
	// Histogram ...
	Histogram
)

var (
	// ErrInstrumentNotSupported signals the specified instrument is not yet supported
	ErrInstrumentNotSupported = errors.New("instrument type unsupported")
	// ErrInstrumentTypeMismatch signal the type of the instrument is not expected
	ErrInstrumentTypeMismatch = errors.New("instrument is not of the expected type")
)

var (
	engineTime   *prometheus.CounterVec
	deltaCounter *prometheus.CounterVec
	orderGauge   *prometheus.GaugeVec
	barCounter   *prometheus.CounterVec
)

// abstract prometheus types
type instrument int

// combine all possible prometheus options + way to differentiate between regular or vector type
type instrumentOpts struct {
	opts    prometheus.Opts
	buckets []float64
	vectors []string
}

type mi struct {
	gaugeV     *prometheus.GaugeVec
	gauge      prometheus.Gauge
	counterV   *prometheus.CounterVec
	counter    prometheus.Counter
	histogramV *prometheus.HistogramVec
	histogram  prometheus.Histogram
}

// MetricInstrument - template interface for mi type return value - only mock if needed, and only mock the funcs you use
type MetricInstrument interface {
	Gauge() (prometheus.Gauge, error)
	GaugeVec() (*prometheus.GaugeVec, error)
	Counter() (prometheus.Counter, error)
	CounterVec() (*prometheus.CounterVec, error)
	Histogram() (prometheus.Histogram, error)
	HistogramVec() (*prometheus.HistogramVec, error)
}

// InstrumentOption - vararg for instrument options setting
type InstrumentOption func(o *instrumentOpts)

// Vectors - configuration used to create a vector of a given interface, slice of label names
func Vectors(labels ...string) InstrumentOption {
	return func(o *instrumentOpts) {
		o.vectors = labels
	}
}

// Help - set the help field on instrument
func Help(help string) InstrumentOption {
	return func(o *instrumentOpts) {
		o.opts.Help = help
	}
}

// Namespace - set namespace
func Namespace(ns string) InstrumentOption {
	return func(o *instrumentOpts) {
		o.opts.Namespace = ns
	}
}

// Subsystem - set subsystem
func Subsystem(s string) InstrumentOption {
	return func(o *instrumentOpts) {
		o.opts.Subsystem = s
	}
}

// Buckets - specific to histogram type
func Buckets(b []float64) InstrumentOption {
	return func(o *instrumentOpts) {
		o.buckets = b
	}
}

func addInstrument(t instrument, name string, opts ...InstrumentOption) (*mi, error) {
	ret := mi{}
	opt := instrumentOpts{
		opts: prometheus.Opts{
			Name: name,
		},
	}
	for _, o := range opts {
		o(&opt)
	}
	vec := len(opt.vectors) > 0
	switch t {
	case Gauge:
		o := opt.gauge()
		if vec {
			ret.gaugeV = prometheus.NewGaugeVec(o, opt.vectors)
			prometheus.MustRegister(ret.gaugeV)
		} else {
			ret.gauge = prometheus.NewGauge(o)
			prometheus.MustRegister(ret.gauge)
		}
	case Counter:
		o := opt.counter()
		if vec {
			ret.counterV = prometheus.NewCounterVec(o, opt.vectors)
			prometheus.MustRegister(ret.counterV)
		} else {
			ret.counter = prometheus.NewCounter(o)
			prometheus.MustRegister(ret.counter)
		}
	case Histogram:
		o := opt.histogram()
		if vec {
			ret.histogramV = prometheus.NewHistogramVec(o, opt.vectors)
			prometheus.MustRegister(ret.histogramV)
		} else {
			ret.histogram = prometheus.NewHistogram(o)
			prometheus.MustRegister(ret.histogram)
		}
	default:
		return nil, ErrInstrumentNotSupported
	}
	return &ret, nil
}

func (i instrumentOpts) gauge() prometheus.GaugeOpts {
	return prometheus.GaugeOpts(i.opts)
}

func (i instrumentOpts) counter() prometheus.CounterOpts {
	return prometheus.CounterOpts(i.opts)
}

func (i instrumentOpts) histogram() prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace: i.opts.Namespace,
		Subsystem: i.opts.Subsystem,
		Name:      i.opts.Name,
		Help:      i.opts.Help,
		Buckets:   i.buckets,
	}
}

func (m mi) Gauge() (prometheus.Gauge, error) {
	if m.gauge == nil {
		return nil, ErrInstrumentTypeMismatch
	}
	return m.gauge, nil
}

func (m mi) GaugeVec() (*prometheus.GaugeVec, error) {
	if m.gaugeV == nil {
		return nil, ErrInstrumentTypeMismatch
	}
	return m.gaugeV, nil
}

func (m mi) Counter() (prometheus.Counter, error) {
	if m.counter == nil {
		return nil, ErrInstrumentTypeMismatch
	}
	return m.counter, nil
}

func (m mi) CounterVec() (*prometheus.CounterVec, error) {
	if m.counterV == nil {
		return nil, ErrInstrumentTypeMismatch
	}
	return m.counterV, nil
}

func (m mi) Histogram() (prometheus.Histogram, error) {
	if m.histogram == nil {
		return nil, ErrInstrumentTypeMismatch
	}
	return m.histogram, nil
}

func (m mi) HistogramVec() (*prometheus.HistogramVec, error) {
	if m.histogramV == nil {
		return nil, ErrInstrumentTypeMismatch
	}
	return m.histogramV, nil
}

// Setup registers the market-data core instruments. Call once per
// process before any engine starts.
func Setup() error {
	h, err := addInstrument(
		Counter,
		"engine_seconds_total",
		Namespace("meridian"),
		Vectors("instrument", "engine", "fn"),
		Help("Total time spent in engine functions"),
	)
	if err != nil {
		return err
	}
	engineTime, err = h.CounterVec()
	if err != nil {
		return err
	}

	h, err = addInstrument(
		Counter,
		"book_deltas_total",
		Namespace("meridian"),
		Vectors("instrument", "action", "outcome"),
		Help("Order book deltas applied, by action and outcome"),
	)
	if err != nil {
		return err
	}
	deltaCounter, err = h.CounterVec()
	if err != nil {
		return err
	}

	h, err = addInstrument(
		Gauge,
		"book_orders",
		Namespace("meridian"),
		Vectors("instrument", "side"),
		Help("Resting orders per book side"),
	)
	if err != nil {
		return err
	}
	orderGauge, err = h.GaugeVec()
	if err != nil {
		return err
	}

	h, err = addInstrument(
		Counter,
		"bars_emitted_total",
		Namespace("meridian"),
		Vectors("bar_type"),
		Help("Bars emitted by the internal aggregator"),
	)
	if err != nil {
		return err
	}
	barCounter, err = h.CounterVec()
	return err
}

// DeltaCounterInc counts one applied delta.
func DeltaCounterInc(instrument, action, outcome string) {
	if deltaCounter == nil {
		return
	}
	deltaCounter.WithLabelValues(instrument, action, outcome).Inc()
}

// OrderGaugeSet tracks the resting order count on one book side.
func OrderGaugeSet(instrument, side string, n float64) {
	if orderGauge == nil {
		return
	}
	orderGauge.WithLabelValues(instrument, side).Set(n)
}

// BarCounterInc counts one emitted bar.
func BarCounterInc(barType string) {
	if barCounter == nil {
		return
	}
	barCounter.WithLabelValues(barType).Inc()
}

// TimeCounter holds a start time and the labels of the metric it feeds.
type TimeCounter struct {
	instrument string
	engine     string
	fn         string
	start      time.Time
}

// NewTimeCounter returns a new TimeCounter, with the start time already set.
func NewTimeCounter(instrument, engine, fn string) *TimeCounter {
	return &TimeCounter{
		instrument: instrument,
		engine:     engine,
		fn:         fn,
		start:      time.Now(),
	}
}

// EngineTimeCounterAdd adds the elapsed time to the per-engine time
// counter.
func (t *TimeCounter) EngineTimeCounterAdd() {
	if t == nil || engineTime == nil {
		return
	}
	engineTime.WithLabelValues(t.instrument, t.engine, t.fn).Add(time.Since(t.start).Seconds())
}
