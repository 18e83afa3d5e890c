package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	tm, err := time.Parse(OrderTimeLayout, s)
	require.NoError(t, err)
	return tm
}

func TestZeroSessionIsIdle(t *testing.T) {
	var s Session
	assert.Equal(t, Phase(""), s.Phase)
	assert.Equal(t, PhaseIdle, IdleSession().Phase)
}

func TestSessionVariantsRoundTrip(t *testing.T) {
	store := Store{Name: "50嵐 台北信義店", Distance: 120}

	cases := []Session{
		AtAwaitingLocation("五十嵐"),
		AtAwaitingStoreSelection("五十嵐", []Store{store}),
		AtAwaitingDrink("五十嵐", store),
		AtAwaitingHistoryStart(),
		AtAwaitingHistoryEnd("2024-04-01"),
		AtAwaitingStatsDecision("2024-04-01", "2024-04-30"),
	}

	for _, s := range cases {
		b, err := json.Marshal(s)
		require.NoError(t, err)

		var got Session
		require.NoError(t, json.Unmarshal(b, &got))
		assert.Equal(t, s.Phase, got.Phase)
		assert.JSONEq(t, string(s.Data), string(got.Data), string(s.Phase))
	}
}

func TestSessionSlotAccessors(t *testing.T) {
	store := Store{Name: "50嵐 台北信義店", Distance: 120}

	loc, err := AtAwaitingLocation("五十嵐").LocationSlots()
	require.NoError(t, err)
	assert.Equal(t, "五十嵐", loc.Brand)

	sel, err := AtAwaitingStoreSelection("五十嵐", []Store{store}).StoreSelectionSlots()
	require.NoError(t, err)
	assert.Len(t, sel.Stores, 1)

	drink, err := AtAwaitingDrink("五十嵐", store).DrinkSlots()
	require.NoError(t, err)
	assert.Equal(t, store, drink.SelectedStore)

	end, err := AtAwaitingHistoryEnd("2024-04-01").HistoryEndSlots()
	require.NoError(t, err)
	assert.Equal(t, "2024-04-01", end.Start)

	stats, err := AtAwaitingStatsDecision("2024-04-01", "2024-04-30").StatsDecisionSlots()
	require.NoError(t, err)
	assert.Equal(t, "2024-04-30", stats.End)
}

func TestSessionSlotAccessorRejectsWrongPhase(t *testing.T) {
	s := AtAwaitingLocation("五十嵐")

	_, err := s.StoreSelectionSlots()
	require.Error(t, err)

	var ce *CorruptSessionError
	assert.ErrorAs(t, err, &ce)
}

func TestSessionSlotAccessorRejectsMissingSlots(t *testing.T) {
	s := Session{Phase: PhaseAwaitingStoreSelection}

	_, err := s.StoreSelectionSlots()
	var ce *CorruptSessionError
	require.ErrorAs(t, err, &ce)

	// Empty required field inside the variant is also corrupt.
	s = newSession(PhaseAwaitingStoreSelection, StoreSelectionSlots{Brand: "五十嵐"})
	_, err = s.StoreSelectionSlots()
	assert.ErrorAs(t, err, &ce)
}

func TestOrderDateAndTimestampOrdering(t *testing.T) {
	early := NewOrder("u1", "五十嵐", "50嵐 台北信義店", "珍珠奶茶", 350, mustTime(t, "2024-04-02 09:00:00"))
	late := NewOrder("u1", "五十嵐", "50嵐 台北信義店", "四季春茶", 5, mustTime(t, "2024-04-10 18:30:00"))

	assert.Equal(t, "2024-04-02", early.Date())
	// Zero-padded timestamps compare lexicographically in time order.
	assert.Less(t, early.CreatedAt, late.CreatedAt)
}
