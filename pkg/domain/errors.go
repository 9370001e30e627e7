package domain

import "errors"

// ErrContextNotFound is returned when a user's context cannot be found in the store.
var ErrContextNotFound = errors.New("context not found")

// ErrNoInput is returned when a session carries neither text nor voice input.
var ErrNoInput = errors.New("session carries neither text nor voice input")

// ErrEpsilonOverflow is returned when same-turn state chaining exceeds
// the configured hop limit, indicating a cycle in the rule tables.
var ErrEpsilonOverflow = errors.New("epsilon transition limit exceeded")

// ErrInactiveContext is returned by hosts that refuse turns for a
// deactivated context. The engine itself never checks activity.
var ErrInactiveContext = errors.New("context is deactivated")
