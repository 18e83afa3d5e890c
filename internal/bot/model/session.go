package model

import (
	"encoding/json"
	"fmt"
)

// Phase is the discrete step of a multi-turn flow a user is currently in.
// Idle is both the initial and the terminal phase.
type Phase string

const (
	PhaseIdle                   Phase = "idle"
	PhaseAwaitingLocation       Phase = "awaiting_location"
	PhaseAwaitingStoreSelection Phase = "awaiting_store_selection"
	PhaseAwaitingDrink          Phase = "awaiting_drink"
	PhaseAwaitingHistoryStart   Phase = "awaiting_history_start"
	PhaseAwaitingHistoryEnd     Phase = "awaiting_history_end"
	PhaseAwaitingStatsDecision  Phase = "awaiting_statistics_decision"
)

// IsHistory reports whether the phase belongs to the history-query flow.
func (p Phase) IsHistory() bool {
	switch p {
	case PhaseAwaitingHistoryStart, PhaseAwaitingHistoryEnd, PhaseAwaitingStatsDecision:
		return true
	}
	return false
}

// IsOrder reports whether the phase belongs to the order flow.
func (p Phase) IsOrder() bool {
	switch p {
	case PhaseAwaitingLocation, PhaseAwaitingStoreSelection, PhaseAwaitingDrink:
		return true
	}
	return false
}

// Per-phase slot variants. Each variant carries exactly the slots valid for
// its phase, so an illegal slot combination cannot be stored.

// LocationSlots holds the slots valid while waiting for a location share.
type LocationSlots struct {
	Brand string `json:"brand"`
}

// StoreSelectionSlots holds the slots valid while waiting for a store index.
// Stores keeps at most three candidates, sorted ascending by distance.
type StoreSelectionSlots struct {
	Brand  string  `json:"brand"`
	Stores []Store `json:"stores"`
}

// DrinkSlots holds the slots valid while waiting for a drink name.
type DrinkSlots struct {
	Brand         string `json:"brand"`
	SelectedStore Store  `json:"selected_store"`
}

// HistoryEndSlots holds the slots valid while waiting for an end date.
type HistoryEndSlots struct {
	Start string `json:"start"` // normalized YYYY-MM-DD
}

// StatsDecisionSlots holds the slots valid while waiting for the yes/no
// statistics answer.
type StatsDecisionSlots struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Session is the per-user dialogue state: the current phase tagged with the
// slot variant for that phase, encoded as a JSON envelope for persistence.
// The zero value is an Idle session.
type Session struct {
	Phase Phase           `json:"phase"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// ErrCorruptSession signals that the stored slot data does not match the
// phase it is tagged with. Callers degrade to "please restart", never crash.
type CorruptSessionError struct {
	Phase Phase
	Cause error
}

func (e *CorruptSessionError) Error() string {
	return fmt.Sprintf("corrupt session slots for phase %q: %v", e.Phase, e.Cause)
}

func (e *CorruptSessionError) Unwrap() error { return e.Cause }

// IdleSession returns the initial/terminal session.
func IdleSession() Session {
	return Session{Phase: PhaseIdle}
}

func newSession(phase Phase, slots any) Session {
	b, err := json.Marshal(slots)
	if err != nil {
		// All slot variants are plain structs; marshalling cannot fail.
		panic(err)
	}
	return Session{Phase: phase, Data: b}
}

// AtAwaitingLocation begins the order flow for the given brand.
func AtAwaitingLocation(brand string) Session {
	return newSession(PhaseAwaitingLocation, LocationSlots{Brand: brand})
}

// AtAwaitingStoreSelection stores the search results and waits for an index.
func AtAwaitingStoreSelection(brand string, stores []Store) Session {
	return newSession(PhaseAwaitingStoreSelection, StoreSelectionSlots{Brand: brand, Stores: stores})
}

// AtAwaitingDrink stores the chosen store and waits for a drink name.
func AtAwaitingDrink(brand string, store Store) Session {
	return newSession(PhaseAwaitingDrink, DrinkSlots{Brand: brand, SelectedStore: store})
}

// AtAwaitingHistoryStart waits for the start date of a history query.
func AtAwaitingHistoryStart() Session {
	return Session{Phase: PhaseAwaitingHistoryStart}
}

// AtAwaitingHistoryEnd stores the start date and waits for the end date.
func AtAwaitingHistoryEnd(start string) Session {
	return newSession(PhaseAwaitingHistoryEnd, HistoryEndSlots{Start: start})
}

// AtAwaitingStatsDecision stores the queried range and waits for 要/不要.
func AtAwaitingStatsDecision(start, end string) Session {
	return newSession(PhaseAwaitingStatsDecision, StatsDecisionSlots{Start: start, End: end})
}

func decodeSlots(s Session, want Phase, out any) error {
	if s.Phase != want {
		return &CorruptSessionError{Phase: s.Phase, Cause: fmt.Errorf("expected phase %q", want)}
	}
	if len(s.Data) == 0 {
		return &CorruptSessionError{Phase: s.Phase, Cause: fmt.Errorf("missing slot data")}
	}
	if err := json.Unmarshal(s.Data, out); err != nil {
		return &CorruptSessionError{Phase: s.Phase, Cause: err}
	}
	return nil
}

// LocationSlots decodes the AwaitingLocation variant.
func (s Session) LocationSlots() (LocationSlots, error) {
	var v LocationSlots
	if err := decodeSlots(s, PhaseAwaitingLocation, &v); err != nil {
		return LocationSlots{}, err
	}
	if v.Brand == "" {
		return LocationSlots{}, &CorruptSessionError{Phase: s.Phase, Cause: fmt.Errorf("empty brand slot")}
	}
	return v, nil
}

// StoreSelectionSlots decodes the AwaitingStoreSelection variant.
func (s Session) StoreSelectionSlots() (StoreSelectionSlots, error) {
	var v StoreSelectionSlots
	if err := decodeSlots(s, PhaseAwaitingStoreSelection, &v); err != nil {
		return StoreSelectionSlots{}, err
	}
	if v.Brand == "" || len(v.Stores) == 0 {
		return StoreSelectionSlots{}, &CorruptSessionError{Phase: s.Phase, Cause: fmt.Errorf("missing brand or stores slot")}
	}
	return v, nil
}

// DrinkSlots decodes the AwaitingDrink variant.
func (s Session) DrinkSlots() (DrinkSlots, error) {
	var v DrinkSlots
	if err := decodeSlots(s, PhaseAwaitingDrink, &v); err != nil {
		return DrinkSlots{}, err
	}
	if v.Brand == "" || v.SelectedStore.Name == "" {
		return DrinkSlots{}, &CorruptSessionError{Phase: s.Phase, Cause: fmt.Errorf("missing brand or selected store slot")}
	}
	return v, nil
}

// HistoryEndSlots decodes the AwaitingHistoryEnd variant.
func (s Session) HistoryEndSlots() (HistoryEndSlots, error) {
	var v HistoryEndSlots
	if err := decodeSlots(s, PhaseAwaitingHistoryEnd, &v); err != nil {
		return HistoryEndSlots{}, err
	}
	if v.Start == "" {
		return HistoryEndSlots{}, &CorruptSessionError{Phase: s.Phase, Cause: fmt.Errorf("empty start date slot")}
	}
	return v, nil
}

// StatsDecisionSlots decodes the AwaitingStatisticsDecision variant.
func (s Session) StatsDecisionSlots() (StatsDecisionSlots, error) {
	var v StatsDecisionSlots
	if err := decodeSlots(s, PhaseAwaitingStatsDecision, &v); err != nil {
		return StatsDecisionSlots{}, err
	}
	if v.Start == "" || v.End == "" {
		return StatsDecisionSlots{}, &CorruptSessionError{Phase: s.Phase, Cause: fmt.Errorf("missing date range slots")}
	}
	return v, nil
}
