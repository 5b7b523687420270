package conversation

import (
	"time"

	"github.com/google/uuid"
)

// Stage is the conversation's position in the route collection flow.
type Stage string

const (
	StageIdle                       Stage = "idle"
	StageAwaitingStartCity          Stage = "awaiting_start_city"
	StageAwaitingDays               Stage = "awaiting_days"
	StageAwaitingEndCity            Stage = "awaiting_end_city"
	StageAwaitingIntermediateCities Stage = "awaiting_intermediate_cities"
)

// State is the per-user record of a route being collected. City fields hold
// normalized (trimmed, lower-case) names.
//
// Invariants once set: EndCity != StartCity, and no IntermediateCities entry
// equals StartCity or EndCity.
type State struct {
	ID                 string    `json:"id,omitempty"`
	UserID             string    `json:"userId"`
	Stage              Stage     `json:"stage"`
	StartCity          string    `json:"startCity,omitempty"`
	EndCity            string    `json:"endCity,omitempty"`
	IntermediateCities []string  `json:"intermediateCities,omitempty"`
	Days               int       `json:"days,omitempty"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// IdleState is the absent/cleared state of a user.
func IdleState(userID string) State {
	return State{UserID: userID, Stage: StageIdle}
}

// newRouteState starts a fresh route collection with its own conversation id.
func newRouteState(userID string) State {
	return State{
		ID:     uuid.NewString(),
		UserID: userID,
		Stage:  StageAwaitingStartCity,
	}
}

// IsIdle reports whether no route is being collected.
func (s State) IsIdle() bool {
	return s.Stage == StageIdle || s.Stage == ""
}

// clone copies the state so transitions never share the intermediate slice.
func (s State) clone() State {
	if s.IntermediateCities != nil {
		s.IntermediateCities = append([]string(nil), s.IntermediateCities...)
	}
	return s
}
