package core

import "TxEngine/internal/event"

// Partition groups the full ordered event sequence by client id.
//
// Each client's sub-sequence retains the relative order of Sequence values
// from the input; this is the only ordering guarantee the ledgers rely on,
// and it must hold before any parallel fan-out. No event is dropped or
// duplicated here — duplicate tx ids pass through untouched, rejecting
// them is the ledger's responsibility.
func Partition(events []event.Event) map[uint16][]event.Event {
	partitions := make(map[uint16][]event.Event)
	for _, evt := range events {
		partitions[evt.ClientID] = append(partitions[evt.ClientID], evt)
	}
	return partitions
}
