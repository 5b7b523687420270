package conversation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
)

type mapStore struct {
	mu      sync.Mutex
	states  map[string]State
	deletes int
	saveErr error
}

func newMapStore() *mapStore {
	return &mapStore{states: make(map[string]State)}
}

func (s *mapStore) Load(_ context.Context, userID string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[userID]
	if !ok {
		return State{}, ErrNoConversation
	}
	return st, nil
}

func (s *mapStore) Save(_ context.Context, st State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.states[st.UserID] = st
	return nil
}

func (s *mapStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes++
	delete(s.states, userID)
	return nil
}

type sent struct {
	kind    ActionKind
	userID  string
	text    string
	choices []Choice
}

type recordingDelivery struct {
	msgs []sent
	err  error
}

func (d *recordingDelivery) Prompt(_ context.Context, userID, text string) error {
	d.msgs = append(d.msgs, sent{kind: ActionPrompt, userID: userID, text: text})
	return d.err
}

func (d *recordingDelivery) PromptWithChoices(_ context.Context, userID, text string, choices []Choice) error {
	d.msgs = append(d.msgs, sent{kind: ActionPromptWithChoices, userID: userID, text: text, choices: choices})
	return d.err
}

func (d *recordingDelivery) Deliver(_ context.Context, userID, text string) error {
	d.msgs = append(d.msgs, sent{kind: ActionDeliver, userID: userID, text: text})
	return d.err
}

func TestManagerFullRoute(t *testing.T) {
	m, _ := newTestMachine()
	store := newMapStore()
	mgr := NewManager(m, store)
	d := &recordingDelivery{}
	ctx := context.Background()

	steps := []struct {
		ev    Event
		stage Stage
	}{
		{CommandEvent(CommandWeather), StageAwaitingStartCity},
		{TextEvent("Paris"), StageAwaitingDays},
		{SelectionEvent("1"), StageAwaitingEndCity},
		{TextEvent("Berlin"), StageAwaitingIntermediateCities},
		{TextEvent("None"), StageIdle},
	}
	for _, s := range steps {
		st, err := mgr.Handle(ctx, "42", s.ev, d)
		if err != nil {
			t.Fatalf("Handle(%+v) returned error: %v", s.ev, err)
		}
		if st.Stage != s.stage {
			t.Fatalf("after %+v expected stage %s, got %s", s.ev, s.stage, st.Stage)
		}
	}

	if _, ok := store.states["42"]; ok {
		t.Errorf("expected conversation to be cleared after the report")
	}
	if store.deletes != 1 {
		t.Errorf("expected one delete, got %d", store.deletes)
	}

	last := d.msgs[len(d.msgs)-1]
	if last.kind != ActionDeliver || last.userID != "42" || !strings.Contains(last.text, "Paris -> Berlin") {
		t.Errorf("unexpected final message %+v", last)
	}

	st, err := mgr.State(ctx, "42")
	if err != nil || !st.IsIdle() {
		t.Errorf("expected idle state after completion, got %+v, %v", st, err)
	}
}

func TestManagerPersistsIntermediateState(t *testing.T) {
	m, _ := newTestMachine()
	store := newMapStore()
	mgr := NewManager(m, store)
	d := &recordingDelivery{}
	ctx := context.Background()

	if _, err := mgr.Handle(ctx, "7", CommandEvent(CommandWeather), d); err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.Handle(ctx, "7", TextEvent("Rome"), d); err != nil {
		t.Fatal(err)
	}

	st, err := mgr.State(ctx, "7")
	if err != nil {
		t.Fatal(err)
	}
	if st.Stage != StageAwaitingDays || st.StartCity != "rome" || st.UpdatedAt.IsZero() {
		t.Errorf("unexpected stored state %+v", st)
	}

	other, err := mgr.State(ctx, "8")
	if err != nil || !other.IsIdle() {
		t.Errorf("users must not share state, got %+v", other)
	}

	last := d.msgs[len(d.msgs)-1]
	if last.kind != ActionPromptWithChoices || len(last.choices) != 2 {
		t.Errorf("expected horizon selector, got %+v", last)
	}
}

func TestManagerIdleTextDoesNotTouchStore(t *testing.T) {
	m, _ := newTestMachine()
	store := newMapStore()
	mgr := NewManager(m, store)
	d := &recordingDelivery{}

	st, err := mgr.Handle(context.Background(), "1", TextEvent("hi"), d)
	if err != nil {
		t.Fatal(err)
	}
	if !st.IsIdle() || len(store.states) != 0 || store.deletes != 0 {
		t.Errorf("idle input must not create state")
	}
	if len(d.msgs) != 1 || d.msgs[0].text != msgIdleHint {
		t.Errorf("unexpected messages %+v", d.msgs)
	}
}

func TestManagerReportsStoreAndDeliveryErrors(t *testing.T) {
	m, _ := newTestMachine()
	store := newMapStore()
	store.saveErr = errors.New("disk full")
	mgr := NewManager(m, store)

	_, err := mgr.Handle(context.Background(), "1", CommandEvent(CommandWeather), &recordingDelivery{})
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Errorf("expected store error, got %v", err)
	}

	store.saveErr = nil
	d := &recordingDelivery{err: errors.New("chat closed")}
	_, err = mgr.Handle(context.Background(), "2", CommandEvent(CommandHelp), d)
	if err == nil || !strings.Contains(err.Error(), "chat closed") {
		t.Errorf("expected delivery error, got %v", err)
	}
}

func TestDispatchStopsAtFirstFailure(t *testing.T) {
	d := &recordingDelivery{err: errors.New("boom")}
	actions := []Action{prompt("a"), deliver("b")}

	if err := Dispatch(context.Background(), d, "1", actions); err == nil {
		t.Fatal("expected error")
	}
	if len(d.msgs) != 1 {
		t.Errorf("expected dispatch to stop after first failure, sent %d", len(d.msgs))
	}
}
