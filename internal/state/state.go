// Package state owns the itinerary being edited. Changes go through
// Reduce, which returns a new State and never mutates the old one; Store
// serializes them for concurrent HTTP handlers.
package state

import (
	"fmt"
	"sync"
	"time"

	"stageplan/internal/model"
	"stageplan/internal/stages"
)

// State is an immutable snapshot. Revision increases with every applied
// action.
type State struct {
	Itinerary model.Itinerary
	Revision  uint64
}

// New returns the startup state: no name, one blank row.
func New() State {
	return State{Itinerary: model.NewItinerary()}
}

// Action is one user intent.
type Action interface {
	apply(it model.Itinerary) (model.Itinerary, error)
}

type SetName struct{ Name string }

type SetDescription struct{ Description string }

// SetDetails changes name and description in one step. Nil fields are kept.
type SetDetails struct {
	Name        *string
	Description *string
}

type UpdateField struct {
	Index int
	Field model.Field
	Value any
}

// AppendRow adds a row. Without Confirmed, an incomplete last row yields a
// *model.ValidationWarning and no change.
type AppendRow struct{ Confirmed bool }

type DeleteRow struct{ Index int }

// Replace swaps in an imported itinerary wholesale.
type Replace struct{ Itinerary model.Itinerary }

type ScheduleDates struct {
	Rule     string
	Start    time.Time
	RestDays []time.Time
}

func (a SetName) apply(it model.Itinerary) (model.Itinerary, error) {
	it.Name = a.Name
	return it, nil
}

func (a SetDescription) apply(it model.Itinerary) (model.Itinerary, error) {
	it.Description = a.Description
	return it, nil
}

func (a SetDetails) apply(it model.Itinerary) (model.Itinerary, error) {
	if a.Name != nil {
		it.Name = *a.Name
	}
	if a.Description != nil {
		it.Description = *a.Description
	}
	return it, nil
}

func (a UpdateField) apply(it model.Itinerary) (model.Itinerary, error) {
	events, err := stages.UpdateField(it.Events, a.Index, a.Field, a.Value)
	if err != nil {
		return it, err
	}
	it.Events = events
	return it, nil
}

func (a AppendRow) apply(it model.Itinerary) (model.Itinerary, error) {
	var warning *model.ValidationWarning
	confirm := func(w *model.ValidationWarning) bool {
		warning = w
		return a.Confirmed
	}
	events, added, err := stages.AppendRow(it.Events, confirm)
	if err != nil {
		return it, err
	}
	if !added {
		return it, warning
	}
	it.Events = events
	return it, nil
}

func (a DeleteRow) apply(it model.Itinerary) (model.Itinerary, error) {
	events, err := stages.DeleteRow(it.Events, a.Index)
	if err != nil {
		return it, err
	}
	it.Events = events
	return it, nil
}

func (a Replace) apply(model.Itinerary) (model.Itinerary, error) {
	return a.Itinerary.Clone(), nil
}

func (a ScheduleDates) apply(it model.Itinerary) (model.Itinerary, error) {
	events, err := stages.ScheduleDates(it.Events, a.Rule, a.Start, a.RestDays)
	if err != nil {
		return it, err
	}
	it.Events = events
	return it, nil
}

// Reduce applies action to s. On error s is returned unchanged.
func Reduce(s State, action Action) (State, error) {
	if action == nil {
		return s, fmt.Errorf("nil action")
	}
	it, err := action.apply(s.Itinerary.Clone())
	if err != nil {
		return s, err
	}
	it.Events = model.EnsureNotEmpty(it.Events)
	return State{Itinerary: it, Revision: s.Revision + 1}, nil
}

// Store holds the current State.
type Store struct {
	mu    sync.RWMutex
	state State
}

func NewStore(initial State) *Store {
	return &Store{state: initial}
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{Itinerary: s.state.Itinerary.Clone(), Revision: s.state.Revision}
}

func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Revision
}

// Dispatch reduces the current state with action and stores the result.
func (s *Store) Dispatch(action Action) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := Reduce(s.state, action)
	if err != nil {
		return State{Itinerary: s.state.Itinerary.Clone(), Revision: s.state.Revision}, err
	}
	s.state = next
	return State{Itinerary: next.Itinerary.Clone(), Revision: next.Revision}, nil
}
