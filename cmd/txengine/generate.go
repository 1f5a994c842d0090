package main

import (
	"context"
	"flag"
	"os"
	"time"

	"TxEngine/internal/ingestion"
	"TxEngine/internal/observability"

	"github.com/google/subcommands"
)

// generateCmd emits a synthetic transaction table for load testing.
type generateCmd struct {
	numEvents  int
	numClients uint
	seed       int64
}

func (*generateCmd) Name() string     { return "generate" }
func (*generateCmd) Synopsis() string { return "emit a synthetic transaction table" }
func (*generateCmd) Usage() string {
	return `generate [-n N] [-clients C] [-seed S]:
  Print N random transactions over C clients to stdout. The same seed
  reproduces the same stream; the default seed is the current time.
`
}

func (c *generateCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.numEvents, "n", 10_000, "number of events to generate")
	f.UintVar(&c.numClients, "clients", 100, "number of distinct clients")
	f.Int64Var(&c.seed, "seed", 0, "random seed (0 means time-based)")
}

func (c *generateCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	log := observability.NewLogger("generate")

	if c.numClients == 0 || c.numClients > 65535 {
		log.Error().Uint("clients", c.numClients).Msg("clients must be in 1..65535")
		return subcommands.ExitUsageError
	}

	seed := c.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	gen := ingestion.NewGenerator(uint16(c.numClients), seed)
	events := gen.Stream(c.numEvents)

	if err := ingestion.WriteEvents(os.Stdout, events); err != nil {
		log.Error().Err(err).Msg("write events")
		return subcommands.ExitFailure
	}

	log.Info().
		Int("events", len(events)).
		Uint("clients", c.numClients).
		Int64("seed", seed).
		Msg("stream generated")
	return subcommands.ExitSuccess
}
