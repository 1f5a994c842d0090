package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Precision is the fixed number of fractional digits all balance
// arithmetic is rounded to at the point of application.
const Precision = 4

// Account is the final balance record for one client.
// Invariant: Total == Available + Held at Precision, after every applied
// event. Locked is monotonic: once true it is never reset.
type Account struct {
	ClientID  uint16
	Available decimal.Decimal
	Held      decimal.Decimal
	Total     decimal.Decimal
	Locked    bool
}

// NewAccount creates an empty, unlocked account for a client.
func NewAccount(clientID uint16) Account {
	return Account{
		ClientID:  clientID,
		Available: decimal.Zero,
		Held:      decimal.Zero,
		Total:     decimal.Zero,
	}
}

// CheckInvariant verifies the balance conservation invariant.
func (a Account) CheckInvariant() error {
	if sum := a.Available.Add(a.Held); !a.Total.Equal(sum) {
		return fmt.Errorf("client %d: total %s != available %s + held %s",
			a.ClientID, a.Total, a.Available, a.Held)
	}
	return nil
}
