package core

import (
	"runtime"
	"sync"

	"TxEngine/internal/event"
	"TxEngine/internal/ledger"
	"TxEngine/internal/observability"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Engine runs one ledger per client partition over a bounded worker pool
// and collects the resulting accounts.
//
// Partitions share no mutable state: each ledger exclusively owns its
// account and accepted-transaction log, so workers need no locking. The
// fan-in results channel is the only shared resource.
type Engine struct {
	workers int
	log     zerolog.Logger
	metrics *observability.Metrics
}

type clientPartition struct {
	clientID uint16
	events   []event.Event
}

// NewEngine creates an engine with the given parallelism.
// workers <= 0 selects one worker per CPU.
func NewEngine(workers int, log zerolog.Logger, metrics *observability.Metrics) *Engine {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Engine{
		workers: workers,
		log:     log.With().Str("run_id", uuid.NewString()).Logger(),
		metrics: metrics,
	}
}

// Run partitions the event stream, folds every partition through its own
// ledger and returns the final accounts. The computation is a batch: it
// runs to completion over the bounded input, with no cancellation
// semantics. Output order is unspecified.
func (e *Engine) Run(events []event.Event) []ledger.Account {
	partitions := Partition(events)
	if e.metrics != nil {
		e.metrics.Partitions.Set(float64(len(partitions)))
	}

	jobs := make(chan clientPartition)
	results := make(chan ledger.Account, len(partitions))

	var wg sync.WaitGroup
	for i := 0; i < e.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				led := ledger.New(job.clientID, e.log, e.metrics)
				results <- led.Fold(job.events)
			}
		}()
	}

	for clientID, clientEvents := range partitions {
		jobs <- clientPartition{clientID: clientID, events: clientEvents}
	}
	close(jobs)
	wg.Wait()
	close(results)

	accounts := make([]ledger.Account, 0, len(partitions))
	for account := range results {
		accounts = append(accounts, account)
	}

	if e.metrics != nil {
		e.metrics.Accounts.Set(float64(len(accounts)))
	}
	e.log.Info().
		Int("events", len(events)).
		Int("clients", len(accounts)).
		Int("workers", e.workers).
		Msg("run complete")

	return accounts
}
