package event

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Kind discriminates the five transaction kinds in the input stream.
type Kind int32

const (
	KindUnknown Kind = iota
	KindDeposit
	KindWithdrawal
	KindDispute
	KindResolve
	KindChargeback
)

func (k Kind) String() string {
	switch k {
	case KindDeposit:
		return "deposit"
	case KindWithdrawal:
		return "withdrawal"
	case KindDispute:
		return "dispute"
	case KindResolve:
		return "resolve"
	case KindChargeback:
		return "chargeback"
	default:
		return "unknown"
	}
}

// ParseKind maps an input row's type field to a Kind.
// Matching is case-insensitive; callers are expected to have trimmed
// surrounding whitespace already.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(s) {
	case "deposit":
		return KindDeposit, true
	case "withdrawal":
		return KindWithdrawal, true
	case "dispute":
		return KindDispute, true
	case "resolve":
		return KindResolve, true
	case "chargeback":
		return KindChargeback, true
	default:
		return KindUnknown, false
	}
}

// Event is one validated transaction record.
//
// Amount is set only for deposits and withdrawals; dispute, resolve and
// chargeback reference a prior transaction by TxID and carry no amount.
// Sequence records original arrival order and must survive partitioning:
// events may be reordered across clients but never within one client.
type Event struct {
	Kind      Kind
	ClientID  uint16
	TxID      uint32
	Amount    decimal.Decimal
	HasAmount bool
	Sequence  uint64
}

// CarriesAmount reports whether this kind is required to carry an amount.
func (k Kind) CarriesAmount() bool {
	return k == KindDeposit || k == KindWithdrawal
}

// References reports whether this kind references a prior transaction
// instead of introducing a new one.
func (k Kind) References() bool {
	return k == KindDispute || k == KindResolve || k == KindChargeback
}
