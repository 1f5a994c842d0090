package ingestion_test

import (
	"strings"
	"testing"

	"TxEngine/internal/event"
	"TxEngine/internal/ingestion"
	"TxEngine/internal/testutil"

	"github.com/rs/zerolog"
)

func newReader() *ingestion.Reader {
	return ingestion.NewReader(zerolog.Nop(), nil)
}

func read(t *testing.T, input string) []event.Event {
	t.Helper()
	events, err := newReader().Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return events
}

// ============================================================================
// Test: header handling
// ============================================================================

func TestRead_ValidHeader(t *testing.T) {
	events := read(t, "type,client,tx,amount\ndeposit,1,1,1.0\n")
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
}

func TestRead_HeaderCaseAndWhitespaceInsensitive(t *testing.T) {
	events := read(t, " Type , Client , TX , Amount \ndeposit,1,1,1.0\n")
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
}

func TestRead_MalformedHeader_Fails(t *testing.T) {
	_, err := newReader().Read(strings.NewReader("kind,client,tx,amount\n"))
	if err == nil {
		t.Fatal("expected error for wrong header column")
	}

	_, err = newReader().Read(strings.NewReader("type,client,tx\n"))
	if err == nil {
		t.Fatal("expected error for missing header column")
	}
}

func TestReadFile_MissingPath_Fails(t *testing.T) {
	_, err := newReader().ReadFile("testdata/does-not-exist.csv")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "does-not-exist.csv") {
		t.Errorf("error should name the path, got: %v", err)
	}
}

// ============================================================================
// Test: row validation
// ============================================================================

func TestRead_AllFiveKinds(t *testing.T) {
	input := `type,client,tx,amount
deposit,1,1,1.001
withdrawal,2,2,2.0002
dispute,3,3,
resolve,4,4,
chargeback,5,5,
`
	events := read(t, input)
	if len(events) != 5 {
		t.Fatalf("got %d events, want 5", len(events))
	}

	wantKinds := []event.Kind{
		event.KindDeposit, event.KindWithdrawal,
		event.KindDispute, event.KindResolve, event.KindChargeback,
	}
	for i, want := range wantKinds {
		if events[i].Kind != want {
			t.Errorf("event %d: got kind %s, want %s", i, events[i].Kind, want)
		}
		if events[i].Sequence != uint64(i) {
			t.Errorf("event %d: got sequence %d, want %d", i, events[i].Sequence, i)
		}
	}

	if !events[0].HasAmount || !events[0].Amount.Equal(testutil.Dec(t, "1.001")) {
		t.Errorf("deposit amount wrong: %+v", events[0])
	}
	if events[2].HasAmount {
		t.Error("dispute should carry no amount")
	}
}

func TestRead_MalformedRowsDropped(t *testing.T) {
	input := `type,client,tx,amount
deposit,1,1,1.001
bad line
chargeback,5,5
deposit,1,1,1.0,1.0
deposit,x,1,1.0
deposit,1,x,1.0
deposit,1,1,x
deposit,1,2,
dépôt,1,4,2.0
dispute,1,1,10000.0
withdrawal,2,2,2.0002
`
	events := read(t, input)
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2 (only the valid deposit and withdrawal)", len(events))
	}
	if events[0].Kind != event.KindDeposit || events[1].Kind != event.KindWithdrawal {
		t.Errorf("wrong survivors: %+v", events)
	}
	// Sequence numbers stay consecutive across dropped rows.
	if events[0].Sequence != 0 || events[1].Sequence != 1 {
		t.Errorf("sequences not consecutive: %d, %d", events[0].Sequence, events[1].Sequence)
	}
}

func TestRead_ClientAndTxRangeEnforced(t *testing.T) {
	input := `type,client,tx,amount
deposit,70000,1,1.0
deposit,1,5000000000,1.0
deposit,65535,4294967295,1.0
`
	events := read(t, input)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].ClientID != 65535 || events[0].TxID != 4294967295 {
		t.Errorf("boundary values mangled: %+v", events[0])
	}
}

func TestRead_FieldsTrimmed(t *testing.T) {
	events := read(t, "type,client,tx,amount\n  DEPOSIT , 1 , 7 , 3.5 \n")
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	evt := events[0]
	if evt.Kind != event.KindDeposit || evt.ClientID != 1 || evt.TxID != 7 {
		t.Errorf("trimmed row parsed wrong: %+v", evt)
	}
	if !evt.Amount.Equal(testutil.Dec(t, "3.5")) {
		t.Errorf("amount: got %s, want 3.5", evt.Amount)
	}
}

func TestRead_NegativeAmountPassesThrough(t *testing.T) {
	// Sign checks belong to the ledger, not the parser.
	events := read(t, "type,client,tx,amount\ndeposit,1,1,-500.0\n")
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if !events[0].Amount.IsNegative() {
		t.Errorf("amount should stay negative, got %s", events[0].Amount)
	}
}

func TestRead_EmptyBody(t *testing.T) {
	events := read(t, "type,client,tx,amount\n")
	if len(events) != 0 {
		t.Errorf("got %d events from empty body, want 0", len(events))
	}
}
