package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"TxEngine/internal/ledger"
)

// WriteAccounts serializes final balances as a table with one row per
// client. Decimal fields render at whatever precision they carry; row
// order follows the input slice, which carries no meaning.
func WriteAccounts(w io.Writer, accounts []ledger.Account) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"client_id", "available", "held", "total", "locked"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, account := range accounts {
		record := []string{
			strconv.FormatUint(uint64(account.ClientID), 10),
			account.Available.String(),
			account.Held.String(),
			account.Total.String(),
			strconv.FormatBool(account.Locked),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write account %d: %w", account.ClientID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
