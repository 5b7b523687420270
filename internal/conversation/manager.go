package conversation

import (
	"context"
	"errors"
	"fmt"
	"time"

	logx "github.com/i474232898/weather-route-bot/pkg/logger"
)

// ErrNoConversation is returned by a Store when the user has no active route.
var ErrNoConversation = errors.New("no active conversation")

// Store holds one State per user (in-memory, Redis, ...).
type Store interface {
	Load(ctx context.Context, userID string) (State, error)
	Save(ctx context.Context, st State) error
	Delete(ctx context.Context, userID string) error
}

// Delivery is the chat transport used to reach the user.
type Delivery interface {
	Prompt(ctx context.Context, userID, text string) error
	PromptWithChoices(ctx context.Context, userID, text string, choices []Choice) error
	Deliver(ctx context.Context, userID, text string) error
}

// Manager owns the user-id -> State mapping: it loads the state, runs the
// machine, persists or clears the result and sends the produced actions.
//
// Inbound events of a single user must be serialized by the caller.
type Manager struct {
	machine *Machine
	store   Store
	now     func() time.Time
}

func NewManager(machine *Machine, store Store) *Manager {
	return &Manager{
		machine: machine,
		store:   store,
		now:     time.Now,
	}
}

// State returns the user's current state, or an idle state when none exists.
func (m *Manager) State(ctx context.Context, userID string) (State, error) {
	st, err := m.store.Load(ctx, userID)
	if errors.Is(err, ErrNoConversation) {
		return IdleState(userID), nil
	}
	if err != nil {
		return State{}, err
	}
	return st, nil
}

// Handle processes one inbound event for userID and delivers the resulting
// actions through d. The new state is returned.
func (m *Manager) Handle(ctx context.Context, userID string, ev Event, d Delivery) (State, error) {
	current, err := m.State(ctx, userID)
	if err != nil {
		return State{}, fmt.Errorf("load conversation: %w", err)
	}

	next, actions := m.machine.Step(ctx, current, ev)
	next.UserID = userID

	var storeErr error
	if next.IsIdle() {
		if !current.IsIdle() {
			storeErr = m.store.Delete(ctx, userID)
		}
	} else {
		if next.UpdatedAt.IsZero() {
			next.UpdatedAt = m.now()
		}
		storeErr = m.store.Save(ctx, next)
	}
	if storeErr != nil {
		logx.Error().Err(storeErr).Str("user_id", userID).Str("stage", string(next.Stage)).Msg("failed to persist conversation")
		storeErr = fmt.Errorf("persist conversation: %w", storeErr)
	}

	logx.Debug().
		Str("user_id", userID).
		Str("event", string(ev.Kind)).
		Str("from", string(current.Stage)).
		Str("to", string(next.Stage)).
		Int("actions", len(actions)).
		Msg("conversation step")

	return next, errors.Join(storeErr, Dispatch(ctx, d, userID, actions))
}

// Dispatch sends actions in order through d, stopping at the first failure.
func Dispatch(ctx context.Context, d Delivery, userID string, actions []Action) error {
	for _, a := range actions {
		var err error
		switch a.Kind {
		case ActionPrompt:
			err = d.Prompt(ctx, userID, a.Text)
		case ActionPromptWithChoices:
			err = d.PromptWithChoices(ctx, userID, a.Text, a.Choices)
		case ActionDeliver:
			err = d.Deliver(ctx, userID, a.Text)
		default:
			err = fmt.Errorf("unknown action kind %q", a.Kind)
		}
		if err != nil {
			return fmt.Errorf("deliver %s: %w", a.Kind, err)
		}
	}
	return nil
}
