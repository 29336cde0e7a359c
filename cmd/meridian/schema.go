package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meridianhft/meridian/datastore"
)

func schemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the stable flat row schemas of the event types",
		Run: func(_ *cobra.Command, _ []string) {
			for _, s := range []struct {
				name    string
				columns []datastore.Column
			}{
				{"quote_tick", datastore.QuoteTickSchema()},
				{"trade_tick", datastore.TradeTickSchema()},
				{"bar", datastore.BarSchema()},
				{"book_delta", datastore.BookDeltaSchema()},
			} {
				fmt.Println(s.name)
				for _, c := range s.columns {
					fmt.Printf("  %-16s %s\n", c.Name, c.Type)
				}
			}
		},
	}
}
