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

package feed

import (
	"context"
	"hash/fnv"

	"github.com/meridianhft/meridian/logging"
	"github.com/meridianhft/meridian/matching"
	"github.com/meridianhft/meridian/types"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrUnknownInstrument signals a delta for an unregistered book.
	ErrUnknownInstrument = errors.New("no book registered for instrument")
	// ErrRouterClosed signals a submit after Close.
	ErrRouterClosed = errors.New("router closed")
	// ErrAlreadyStarted signals a Register or Start after Start.
	ErrAlreadyStarted = errors.New("router already started")
)

// Router delivers deltas to per-instrument book owners. Every
// instrument lives on exactly one shard, so deltas for one book are
// applied by a single goroutine in arrival order; parallelism exists
// only across instruments.
type Router struct {
	log *logging.Logger
	cfg Config

	books  map[string]*matching.CachedOrderBook
	shards []chan types.OrderBookDelta

	eg      *errgroup.Group
	started bool
	closed  bool

	// onRemoved receives the synthetic DELETE deltas produced by
	// crossed-book resolution. Optional.
	onRemoved func([]types.OrderBookDelta)
	// onReject receives deltas the book refused, with the reason.
	// Optional; rejections are logged either way.
	onReject func(types.OrderBookDelta, error)
}

// Option customises a Router.
type Option func(*Router)

// WithRemovedHandler forwards synthetic deletes to downstream
// consumers.
func WithRemovedHandler(f func([]types.OrderBookDelta)) Option {
	return func(r *Router) { r.onRemoved = f }
}

// WithRejectHandler observes rejected deltas.
func WithRejectHandler(f func(types.OrderBookDelta, error)) Option {
	return func(r *Router) { r.onReject = f }
}

// NewRouter returns a stopped router.
func NewRouter(log *logging.Logger, cfg Config, opts ...Option) *Router {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level)
	if cfg.Shards <= 0 {
		cfg.Shards = 1
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1
	}
	r := &Router{
		log:   log,
		cfg:   cfg,
		books: map[string]*matching.CachedOrderBook{},
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Register adds a book. All registration happens before Start.
func (r *Router) Register(book *matching.CachedOrderBook) error {
	if r.started {
		return ErrAlreadyStarted
	}
	r.books[book.InstrumentID().Value()] = book
	return nil
}

// Start spins up the shard workers.
func (r *Router) Start(ctx context.Context) error {
	if r.started {
		return ErrAlreadyStarted
	}
	r.started = true
	r.eg, ctx = errgroup.WithContext(ctx)
	r.shards = make([]chan types.OrderBookDelta, r.cfg.Shards)
	for i := range r.shards {
		ch := make(chan types.OrderBookDelta, r.cfg.QueueSize)
		r.shards[i] = ch
		r.eg.Go(func() error {
			return r.run(ctx, ch)
		})
	}
	return nil
}

func (r *Router) run(ctx context.Context, ch <-chan types.OrderBookDelta) error {
	for {
		select {
		case delta, ok := <-ch:
			if !ok {
				return nil
			}
			r.dispatch(delta)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (r *Router) dispatch(delta types.OrderBookDelta) {
	book, ok := r.books[delta.InstrumentID().Value()]
	if !ok {
		// registration is pre-start, so this is a producer bug
		r.log.Warn("delta for unregistered instrument",
			zap.String("instrument", delta.InstrumentID().Value()))
		return
	}
	removed, err := book.Apply(delta)
	if err != nil {
		r.log.Warn("delta rejected",
			zap.String("instrument", delta.InstrumentID().Value()),
			zap.String("action", delta.Action().String()),
			zap.Uint64("sequence", delta.Sequence()),
			zap.Error(err),
		)
		if r.onReject != nil {
			r.onReject(delta, err)
		}
		return
	}
	if len(removed) > 0 && r.onRemoved != nil {
		r.onRemoved(removed)
	}
}

// Submit queues a delta on its instrument's shard. Blocks when the
// shard buffer is full, preserving arrival order.
func (r *Router) Submit(delta types.OrderBookDelta) error {
	if !r.started {
		return errors.New("router not started")
	}
	if r.closed {
		return ErrRouterClosed
	}
	if _, ok := r.books[delta.InstrumentID().Value()]; !ok {
		return errors.Wrapf(ErrUnknownInstrument, "%s", delta.InstrumentID())
	}
	r.shards[r.shardFor(delta.InstrumentID())] <- delta
	return nil
}

func (r *Router) shardFor(instrument types.InstrumentID) int {
	h := fnv.New32a()
	h.Write([]byte(instrument.Value()))
	return int(h.Sum32() % uint32(len(r.shards)))
}

// Close drains the shards and waits for the workers.
func (r *Router) Close() error {
	if !r.started || r.closed {
		return nil
	}
	r.closed = true
	for _, ch := range r.shards {
		close(ch)
	}
	return r.eg.Wait()
}
