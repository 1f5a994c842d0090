package ingestion

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"TxEngine/internal/event"
	"TxEngine/internal/observability"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var expectedHeader = [4]string{"type", "client", "tx", "amount"}

// Reader turns the raw transaction table into validated events.
//
// Only two failures abort a run: an unreadable input and a malformed
// header. Every other defect is row-local: the row is dropped, counted
// and debug-logged, and never reaches the core.
type Reader struct {
	log     zerolog.Logger
	metrics *observability.Metrics
}

func NewReader(log zerolog.Logger, metrics *observability.Metrics) *Reader {
	return &Reader{log: log, metrics: metrics}
}

// ReadFile reads and validates the transaction table at path.
func (r *Reader) ReadFile(path string) ([]event.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open transactions file %q: %w", path, err)
	}
	defer f.Close()

	events, err := r.Read(f)
	if err != nil {
		return nil, fmt.Errorf("read transactions from %q: %w", path, err)
	}
	return events, nil
}

// Read consumes the whole table from src. Accepted rows get consecutive
// sequence numbers in arrival order; partitioning relies on that order
// downstream.
func (r *Reader) Read(src io.Reader) ([]event.Event, error) {
	cr := csv.NewReader(src)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	var events []event.Event
	var sequence uint64
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			r.drop("unreadable", record, err)
			continue
		}

		evt, ok := r.parseRecord(record, sequence)
		if !ok {
			continue
		}
		events = append(events, evt)
		sequence++
		if r.metrics != nil {
			r.metrics.RowsParsed.Inc()
		}
	}

	return events, nil
}

func checkHeader(header []string) error {
	if len(header) != len(expectedHeader) {
		return fmt.Errorf("malformed header: want %d columns, got %d", len(expectedHeader), len(header))
	}
	for i, want := range expectedHeader {
		got := strings.ToLower(strings.TrimSpace(header[i]))
		if got != want {
			return fmt.Errorf("malformed header: column %d is %q, want %q", i, header[i], want)
		}
	}
	return nil
}

// parseRecord validates one row. Deposits and withdrawals must carry an
// amount; dispute, resolve and chargeback must leave the amount column
// empty. The amount's sign is not checked here — a non-positive amount is
// a ledger rejection, not a parse failure.
func (r *Reader) parseRecord(record []string, sequence uint64) (event.Event, bool) {
	if len(record) != 4 {
		r.drop("arity", record, nil)
		return event.Event{}, false
	}

	kind, ok := event.ParseKind(strings.TrimSpace(record[0]))
	if !ok {
		r.drop("unknown_type", record, nil)
		return event.Event{}, false
	}

	clientID, err := strconv.ParseUint(strings.TrimSpace(record[1]), 10, 16)
	if err != nil {
		r.drop("bad_client", record, err)
		return event.Event{}, false
	}

	txID, err := strconv.ParseUint(strings.TrimSpace(record[2]), 10, 32)
	if err != nil {
		r.drop("bad_tx", record, err)
		return event.Event{}, false
	}

	evt := event.Event{
		Kind:     kind,
		ClientID: uint16(clientID),
		TxID:     uint32(txID),
		Sequence: sequence,
	}

	amountField := strings.TrimSpace(record[3])
	if kind.CarriesAmount() {
		if amountField == "" {
			r.drop("missing_amount", record, nil)
			return event.Event{}, false
		}
		amount, err := decimal.NewFromString(amountField)
		if err != nil {
			r.drop("bad_amount", record, err)
			return event.Event{}, false
		}
		evt.Amount = amount
		evt.HasAmount = true
	} else if amountField != "" {
		r.drop("unexpected_amount", record, nil)
		return event.Event{}, false
	}

	return evt, true
}

func (r *Reader) drop(reason string, record []string, err error) {
	r.log.Debug().
		Str("reason", reason).
		Strs("record", record).
		Err(err).
		Msg("row dropped")
	if r.metrics != nil {
		r.metrics.RowsDropped.WithLabelValues(reason).Inc()
	}
}
