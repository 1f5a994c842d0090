package main

import (
	"context"
	"flag"
	"os"
	"runtime"

	"TxEngine/internal/core"
	"TxEngine/internal/ingestion"
	"TxEngine/internal/observability"
	"TxEngine/internal/report"

	"github.com/google/subcommands"
)

// processCmd folds a transaction table into final account balances.
type processCmd struct {
	workers int
}

func (*processCmd) Name() string     { return "process" }
func (*processCmd) Synopsis() string { return "fold a transaction table into final account balances" }
func (*processCmd) Usage() string {
	return `process [-workers N] <transactions.csv>:
  Read the event stream from the given file and print one balance row per
  client to stdout. Logs and diagnostics go to stderr.
`
}

func (c *processCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.workers, "workers", runtime.NumCPU(), "ledger workers to run in parallel")
}

func (c *processCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	log := observability.NewLogger("txengine")

	if f.NArg() != 1 {
		log.Error().Msg("expected exactly one transactions file path")
		return subcommands.ExitUsageError
	}
	path := f.Arg(0)

	metrics := observability.NewMetrics()

	reader := ingestion.NewReader(observability.NewLogger("ingestion"), metrics)
	events, err := reader.ReadFile(path)
	if err != nil {
		log.Error().Err(err).Msg("read transactions")
		return subcommands.ExitFailure
	}

	engine := core.NewEngine(c.workers, observability.NewLogger("engine"), metrics)
	accounts := engine.Run(events)

	if err := report.WriteAccounts(os.Stdout, accounts); err != nil {
		log.Error().Err(err).Msg("write account table")
		return subcommands.ExitFailure
	}

	metrics.LogSummary(log)
	return subcommands.ExitSuccess
}
