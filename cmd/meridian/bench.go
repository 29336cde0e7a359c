package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/meridianhft/meridian/candles"
	"github.com/meridianhft/meridian/matching"
	"github.com/meridianhft/meridian/metrics"
	"github.com/meridianhft/meridian/types"
	"github.com/meridianhft/meridian/types/num"
)

func benchCmd() *cobra.Command {
	var (
		instrument string
		deltas     int
		levels     int
		seed       int64
		withBars   bool
	)
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Pump random deltas through a book and report throughput",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, cfg, err := setupLogger()
			if err != nil {
				return err
			}
			defer log.AtExit()

			if err := metrics.Setup(); err != nil {
				return err
			}

			instrumentID, err := types.InstrumentIDFromString(instrument)
			if err != nil {
				return err
			}
			book := matching.NewCachedOrderBook(log, cfg.Matching, instrumentID, types.BookTypeL3MBO)

			var agg *candles.Aggregator
			if withBars {
				barType, err := types.NewBarType(
					instrumentID,
					types.BarSpecification{Step: 1000, Aggregation: types.BarAggregationTick, PriceType: types.PriceTypeLast},
					types.AggregationSourceInternal,
				)
				if err != nil {
					return err
				}
				agg, err = candles.NewAggregator(log, cfg.Candles, barType)
				if err != nil {
					return err
				}
			}

			rng := rand.New(rand.NewSource(seed))
			start := time.Now()
			var applied, rejected, removedTotal, bars int

			for i := 0; i < deltas; i++ {
				side := types.SideBuy
				base := 100 - rng.Intn(levels)
				if rng.Intn(2) == 1 {
					side = types.SideSell
					base = 101 + rng.Intn(levels)
				}
				price, err := num.PriceFromFloat(float64(base), 0)
				if err != nil {
					return err
				}
				size, err := num.QuantityFromFloat(float64(rng.Intn(250)+1), 0)
				if err != nil {
					return err
				}
				order, err := types.NewBookOrder(uint64(i+1), side, price, size)
				if err != nil {
					return err
				}
				ts := uint64(i+1) * 1_000
				delta, err := types.NewOrderBookDelta(instrumentID, types.BookActionAdd, order, uint64(i+1), ts, ts)
				if err != nil {
					return err
				}
				removed, err := book.Apply(delta)
				if err != nil {
					rejected++
					continue
				}
				applied++
				removedTotal += len(removed)

				if agg != nil {
					tradeID, err := types.NewTradeID(uuid.NewString())
					if err != nil {
						return err
					}
					tick, err := types.NewTradeTick(instrumentID, price, size, types.AggressorSideBuyer, tradeID, ts, ts)
					if err != nil {
						return err
					}
					emitted, err := agg.OnTrade(tick)
					if err != nil {
						return err
					}
					bars += len(emitted)
				}
			}

			elapsed := time.Since(start)
			log.Info("bench finished",
				zap.Int("deltas", deltas),
				zap.Int("applied", applied),
				zap.Int("rejected", rejected),
				zap.Int("uncross-removals", removedTotal),
				zap.Int("bars", bars),
				zap.Duration("elapsed", elapsed),
			)
			fmt.Printf("%d deltas in %s (%.0f deltas/s)\n",
				deltas, elapsed, float64(deltas)/elapsed.Seconds())

			bid, err := book.BestBidPrice()
			if err == nil {
				fmt.Printf("best bid %s\n", bid)
			}
			ask, err := book.BestAskPrice()
			if err == nil {
				fmt.Printf("best ask %s\n", ask)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&instrument, "instrument", "ETH/USD.SIM", "instrument id")
	cmd.Flags().IntVar(&deltas, "deltas", 100_000, "number of deltas to apply")
	cmd.Flags().IntVar(&levels, "levels", 50, "price levels per side")
	cmd.Flags().Int64Var(&seed, "seed", 42, "rng seed")
	cmd.Flags().BoolVar(&withBars, "bars", false, "also feed a tick bar aggregator")
	return cmd
}
