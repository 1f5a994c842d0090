package event_test

import (
	"testing"

	"TxEngine/internal/event"
)

func TestParseKind_AllKinds(t *testing.T) {
	cases := map[string]event.Kind{
		"deposit":    event.KindDeposit,
		"withdrawal": event.KindWithdrawal,
		"dispute":    event.KindDispute,
		"resolve":    event.KindResolve,
		"chargeback": event.KindChargeback,
		"DEPOSIT":    event.KindDeposit,
		"Chargeback": event.KindChargeback,
	}

	for input, want := range cases {
		got, ok := event.ParseKind(input)
		if !ok || got != want {
			t.Errorf("ParseKind(%q) = %v, %v; want %v, true", input, got, ok, want)
		}
	}
}

func TestParseKind_Unknown(t *testing.T) {
	for _, input := range []string{"", "transfer", "dépôt", "deposit "} {
		if _, ok := event.ParseKind(input); ok {
			t.Errorf("ParseKind(%q) should fail", input)
		}
	}
}

func TestKind_String_RoundTrips(t *testing.T) {
	kinds := []event.Kind{
		event.KindDeposit, event.KindWithdrawal,
		event.KindDispute, event.KindResolve, event.KindChargeback,
	}
	for _, kind := range kinds {
		parsed, ok := event.ParseKind(kind.String())
		if !ok || parsed != kind {
			t.Errorf("kind %d does not round trip through %q", kind, kind.String())
		}
	}
}

func TestKind_Classification(t *testing.T) {
	if !event.KindDeposit.CarriesAmount() || !event.KindWithdrawal.CarriesAmount() {
		t.Error("deposit and withdrawal must carry amounts")
	}
	if event.KindDispute.CarriesAmount() {
		t.Error("dispute must not carry an amount")
	}
	for _, kind := range []event.Kind{event.KindDispute, event.KindResolve, event.KindChargeback} {
		if !kind.References() {
			t.Errorf("%s should reference a prior transaction", kind)
		}
	}
	if event.KindDeposit.References() {
		t.Error("deposit does not reference a prior transaction")
	}
}
