package consistency

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain/ledger"
)

func TestReplay_AppliesClampsInOrder(t *testing.T) {
	c := id.New()
	t0 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	events := []Event{
		// out of order on purpose
		{CounterpartyID: c, At: t0.Add(2 * time.Hour), Kind: EventReturn, ReturnType: ledger.ReturnCash, Amount: types.MustMoney("200")},
		{CounterpartyID: c, At: t0, Kind: EventCredit, Amount: types.MustMoney("300")},
		{CounterpartyID: c, At: t0.Add(time.Hour), Kind: EventPayment, Amount: types.MustMoney("250")},
	}

	got := Replay(events)
	// 300 − 250 = 50, then the CASH return is clamped to 50.
	assert.True(t, got[c].IsZero(), "got %s", got[c])
}

func TestReplay_CreditReturnMayGoNegative(t *testing.T) {
	c := id.New()
	t0 := time.Now()
	got := Replay([]Event{
		{CounterpartyID: c, At: t0, Kind: EventCredit, Amount: types.MustMoney("100")},
		{CounterpartyID: c, At: t0.Add(time.Minute), Kind: EventReturn, ReturnType: ledger.ReturnCredit, Amount: types.MustMoney("150")},
	})
	assert.True(t, got[c].Equal(types.MustMoney("-50")))
}
