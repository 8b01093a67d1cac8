package event

import "fmt"

// State is the lifecycle state of an event
type State string

const (
	StatePending   State = "PENDING"
	StatePublished State = "PUBLISHED"
	StateCanceled  State = "CANCELED"
	StateCompleted State = "COMPLETED"
)

// Valid reports whether s is a known state.
func (s State) Valid() bool {
	switch s {
	case StatePending, StatePublished, StateCanceled, StateCompleted:
		return true
	}
	return false
}

// Action is a requested state change
type Action string

const (
	ActionPublish      Action = "PUBLISH_EVENT"
	ActionReject       Action = "REJECT_EVENT"
	ActionComplete     Action = "COMPLETE_EVENT"
	ActionSendToReview Action = "SEND_TO_REVIEW"
	ActionCancelReview Action = "CANCEL_REVIEW"
)

// Role is the actor requesting a transition
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleInitiator Role = "initiator"
)

type transitionKey struct {
	from   State
	action Action
	role   Role
}

// transitions is the complete table of legal lifecycle changes.
var transitions = map[transitionKey]State{
	{StatePending, ActionPublish, RoleAdmin}:           StatePublished,
	{StatePending, ActionReject, RoleAdmin}:            StateCanceled,
	{StatePublished, ActionComplete, RoleAdmin}:        StateCompleted,
	{StatePending, ActionCancelReview, RoleInitiator}:  StateCanceled,
	{StateCanceled, ActionSendToReview, RoleInitiator}: StatePending,
}

// actionRoles lists which role may issue each action at all.
var actionRoles = map[Action]Role{
	ActionPublish:      RoleAdmin,
	ActionReject:       RoleAdmin,
	ActionComplete:     RoleAdmin,
	ActionSendToReview: RoleInitiator,
	ActionCancelReview: RoleInitiator,
}

// Transition returns the state reached by applying action from the given
// state on behalf of role. It has no side effects.
func Transition(from State, action Action, role Role) (State, error) {
	owner, ok := actionRoles[action]
	if !ok || owner != role {
		return from, fmt.Errorf("%w: %q for %s", ErrUnknownAction, action, role)
	}
	next, ok := transitions[transitionKey{from: from, action: action, role: role}]
	if !ok {
		return from, fmt.Errorf("%w: %s from %s", ErrInvalidTransition, action, from)
	}
	return next, nil
}
