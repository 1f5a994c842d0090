package ingestion

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"strconv"

	"TxEngine/internal/event"

	"github.com/shopspring/decimal"
)

// Generator produces a synthetic event stream for load testing.
//
// Deposits and withdrawals get fresh tx ids and random 4-decimal amounts;
// dispute, resolve and chargeback rows reference the client and tx id of a
// randomly chosen earlier event, so a realistic share of them lands on
// transactions the ledger actually accepted. A fixed seed reproduces the
// exact stream.
type Generator struct {
	rng        *rand.Rand
	numClients uint16
	emitted    []event.Event
	nextTxID   uint32
}

// Amounts are drawn in (0, 1000] at 4 decimal places.
const maxAmountUnits = 10_000_000

func NewGenerator(numClients uint16, seed int64) *Generator {
	if numClients == 0 {
		numClients = 1
	}
	return &Generator{
		rng:        rand.New(rand.NewSource(seed)),
		numClients: numClients,
	}
}

// Next produces one random event.
func (g *Generator) Next() event.Event {
	var evt event.Event

	if len(g.emitted) == 0 {
		evt = g.randomFunding(g.rng.Intn(2) == 0)
	} else {
		switch g.rng.Intn(5) {
		case 0:
			evt = g.randomFunding(true)
		case 1:
			evt = g.randomFunding(false)
		default:
			prior := g.emitted[g.rng.Intn(len(g.emitted))]
			refKinds := [...]event.Kind{event.KindDispute, event.KindResolve, event.KindChargeback}
			kind := refKinds[g.rng.Intn(len(refKinds))]
			evt = event.Event{
				Kind:     kind,
				ClientID: prior.ClientID,
				TxID:     prior.TxID,
			}
		}
	}

	evt.Sequence = uint64(len(g.emitted))
	g.emitted = append(g.emitted, evt)
	return evt
}

// Stream produces n random events.
func (g *Generator) Stream(n int) []event.Event {
	events := make([]event.Event, 0, n)
	for i := 0; i < n; i++ {
		events = append(events, g.Next())
	}
	return events
}

func (g *Generator) randomFunding(deposit bool) event.Event {
	kind := event.KindWithdrawal
	if deposit {
		kind = event.KindDeposit
	}
	g.nextTxID++
	return event.Event{
		Kind:      kind,
		ClientID:  uint16(g.rng.Intn(int(g.numClients))) + 1,
		TxID:      g.nextTxID,
		Amount:    decimal.New(g.rng.Int63n(maxAmountUnits)+1, -4),
		HasAmount: true,
	}
}

// WriteEvents serializes events back into the transaction table format,
// header included, so generated streams can be fed straight to the reader.
func WriteEvents(w io.Writer, events []event.Event) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"type", "client", "tx", "amount"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, evt := range events {
		amount := ""
		if evt.HasAmount {
			amount = evt.Amount.String()
		}
		record := []string{
			evt.Kind.String(),
			strconv.FormatUint(uint64(evt.ClientID), 10),
			strconv.FormatUint(uint64(evt.TxID), 10),
			amount,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write event %d: %w", evt.Sequence, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
