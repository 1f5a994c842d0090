package ledger

import (
	"errors"

	"TxEngine/internal/event"
	"TxEngine/internal/observability"

	"github.com/rs/zerolog"
)

// Rejection reasons. Every rejection is local to the event that caused it:
// the ledger drops the event and keeps folding the rest of the stream.
var (
	ErrAccountLocked      = errors.New("account is locked")
	ErrMissingAmount      = errors.New("deposit or withdrawal carries no amount")
	ErrNonPositiveAmount  = errors.New("amount must be strictly positive")
	ErrInsufficientFunds  = errors.New("insufficient available funds")
	ErrUnknownTransaction = errors.New("referenced transaction was never accepted")
	ErrAlreadyDisputed    = errors.New("transaction is already under dispute")
	ErrChargedBack        = errors.New("transaction was already charged back")
	ErrNotUnderDispute    = errors.New("transaction is not under dispute")
	ErrUnknownKind        = errors.New("unknown event kind")
)

// Ledger folds one client's ordered event sequence into a final Account.
//
// It owns the account and the accepted-transaction log exclusively for the
// lifetime of the run; events must arrive in original sequence order. Only
// successfully applied events are recorded in the log, so a rejected
// deposit or withdrawal can never be referenced by a later dispute.
type Ledger struct {
	account  Account
	accepted map[uint32][]event.Event
	log      zerolog.Logger
	metrics  *observability.Metrics
}

// New creates a ledger for a single client.
func New(clientID uint16, log zerolog.Logger, metrics *observability.Metrics) *Ledger {
	return &Ledger{
		account:  NewAccount(clientID),
		accepted: make(map[uint32][]event.Event),
		log:      log.With().Uint16("client", clientID).Logger(),
		metrics:  metrics,
	}
}

// Account returns the current account state.
func (l *Ledger) Account() Account {
	return l.account
}

// Fold applies the client's events in order and returns the final account.
// Rejected events are logged at debug level and never abort the fold.
func (l *Ledger) Fold(events []event.Event) Account {
	for _, evt := range events {
		if err := l.Apply(evt); err != nil {
			l.log.Debug().
				Str("kind", evt.Kind.String()).
				Uint32("tx", evt.TxID).
				Uint64("seq", evt.Sequence).
				Err(err).
				Msg("event rejected")
			if l.metrics != nil {
				l.metrics.EventsRejected.WithLabelValues(evt.Kind.String(), rejectReason(err)).Inc()
			}
			continue
		}
		if l.metrics != nil {
			l.metrics.EventsApplied.WithLabelValues(evt.Kind.String()).Inc()
		}
	}
	return l.account
}

// Apply runs one event through the transition table. On success the event
// is recorded in the accepted-transaction log under its tx id.
func (l *Ledger) Apply(evt event.Event) error {
	var err error

	switch evt.Kind {
	case event.KindDeposit:
		err = l.applyDeposit(evt)
	case event.KindWithdrawal:
		err = l.applyWithdrawal(evt)
	case event.KindDispute:
		err = l.applyDispute(evt)
	case event.KindResolve:
		err = l.applyResolve(evt)
	case event.KindChargeback:
		err = l.applyChargeback(evt)
	default:
		err = ErrUnknownKind
	}

	if err != nil {
		return err
	}

	l.accepted[evt.TxID] = append(l.accepted[evt.TxID], evt)
	return nil
}

func (l *Ledger) applyDeposit(evt event.Event) error {
	if l.account.Locked {
		return ErrAccountLocked
	}
	if !evt.HasAmount {
		return ErrMissingAmount
	}

	amount := evt.Amount.Round(Precision)
	if !amount.IsPositive() {
		return ErrNonPositiveAmount
	}

	l.account.Available = l.account.Available.Add(amount)
	l.account.Total = l.account.Total.Add(amount)
	return nil
}

func (l *Ledger) applyWithdrawal(evt event.Event) error {
	if l.account.Locked {
		return ErrAccountLocked
	}
	if !evt.HasAmount {
		return ErrMissingAmount
	}

	amount := evt.Amount.Round(Precision)
	if !amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	if l.account.Available.LessThan(amount) {
		return ErrInsufficientFunds
	}

	l.account.Available = l.account.Available.Sub(amount)
	l.account.Total = l.account.Total.Sub(amount)
	return nil
}

// applyDispute holds the funds of a previously accepted transaction.
// A transaction with an accepted chargeback can never be disputed again,
// and a duplicate dispute is a no-op rejection, not a state change.
func (l *Ledger) applyDispute(evt event.Event) error {
	entries, ok := l.accepted[evt.TxID]
	if !ok {
		return ErrUnknownTransaction
	}
	if hasChargeback(entries) {
		return ErrChargedBack
	}
	if disputesOutstanding(entries) {
		return ErrAlreadyDisputed
	}

	initial, ok := initialTransaction(entries)
	if !ok {
		return ErrUnknownTransaction
	}

	amount := initial.Amount.Round(Precision)
	switch initial.Kind {
	case event.KindDeposit:
		l.account.Available = l.account.Available.Sub(amount)
		l.account.Held = l.account.Held.Add(amount)
	case event.KindWithdrawal:
		// Withdrawn funds are provisionally restored as held pending the
		// dispute's outcome, raising the total by the same amount.
		l.account.Held = l.account.Held.Add(amount)
		l.account.Total = l.account.Total.Add(amount)
	}
	return nil
}

func (l *Ledger) applyResolve(evt event.Event) error {
	entries, ok := l.accepted[evt.TxID]
	if !ok {
		return ErrUnknownTransaction
	}
	if !underDispute(entries) {
		return ErrNotUnderDispute
	}

	initial, ok := initialTransaction(entries)
	if !ok {
		return ErrUnknownTransaction
	}

	amount := initial.Amount.Round(Precision)
	switch initial.Kind {
	case event.KindDeposit:
		l.account.Available = l.account.Available.Add(amount)
		l.account.Held = l.account.Held.Sub(amount)
	case event.KindWithdrawal:
		l.account.Held = l.account.Held.Sub(amount)
		l.account.Total = l.account.Total.Sub(amount)
	}
	return nil
}

// applyChargeback settles a dispute against the client and freezes the
// account. The freeze blocks further deposits and withdrawals; dispute
// bookkeeping on transactions accepted before the freeze stays reachable.
func (l *Ledger) applyChargeback(evt event.Event) error {
	entries, ok := l.accepted[evt.TxID]
	if !ok {
		return ErrUnknownTransaction
	}
	if !underDispute(entries) {
		return ErrNotUnderDispute
	}

	initial, ok := initialTransaction(entries)
	if !ok {
		return ErrUnknownTransaction
	}

	amount := initial.Amount.Round(Precision)
	switch initial.Kind {
	case event.KindDeposit:
		l.account.Held = l.account.Held.Sub(amount)
		l.account.Total = l.account.Total.Sub(amount)
	case event.KindWithdrawal:
		// The disputed withdrawal is reversed: held funds return to the
		// client as available before the account freezes.
		l.account.Available = l.account.Available.Add(amount)
		l.account.Held = l.account.Held.Sub(amount)
	}

	if !l.account.Locked && l.metrics != nil {
		l.metrics.AccountsLocked.Inc()
	}
	l.account.Locked = true
	return nil
}

// disputesOutstanding reports whether more disputes than resolves have
// been accepted for the transaction.
func disputesOutstanding(entries []event.Event) bool {
	disputes, resolves := 0, 0
	for _, evt := range entries {
		switch evt.Kind {
		case event.KindDispute:
			disputes++
		case event.KindResolve:
			resolves++
		}
	}
	return disputes > resolves
}

func hasChargeback(entries []event.Event) bool {
	for _, evt := range entries {
		if evt.Kind == event.KindChargeback {
			return true
		}
	}
	return false
}

// underDispute reports whether the transaction is currently disputed:
// more accepted disputes than resolves, and no accepted chargeback.
func underDispute(entries []event.Event) bool {
	return disputesOutstanding(entries) && !hasChargeback(entries)
}

// initialTransaction returns the first accepted deposit or withdrawal
// recorded for a tx id.
func initialTransaction(entries []event.Event) (event.Event, bool) {
	for _, evt := range entries {
		if evt.Kind == event.KindDeposit || evt.Kind == event.KindWithdrawal {
			return evt, true
		}
	}
	return event.Event{}, false
}

// rejectReason maps a rejection error to a stable metric label.
func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrAccountLocked):
		return "locked"
	case errors.Is(err, ErrMissingAmount):
		return "missing_amount"
	case errors.Is(err, ErrNonPositiveAmount):
		return "non_positive_amount"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrUnknownTransaction):
		return "unknown_tx"
	case errors.Is(err, ErrAlreadyDisputed):
		return "already_disputed"
	case errors.Is(err, ErrChargedBack):
		return "charged_back"
	case errors.Is(err, ErrNotUnderDispute):
		return "not_under_dispute"
	default:
		return "unknown"
	}
}
