package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventTurnStart  EventType = "turn_start"
	EventTurnEnd    EventType = "turn_end"
	EventRuleMatch  EventType = "rule_match"
	EventTransition EventType = "transition"
	EventActionEmit EventType = "action_emit"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	UserID    string    `json:"user_id,omitempty"`
}

// TurnEvent marks the start or end of one turn resolution.
type TurnEvent struct {
	EventBase
	State    string `json:"state"`
	Intent   string `json:"intent,omitempty"`
	Messages int    `json:"messages,omitempty"`
	Hops     int    `json:"hops,omitempty"`
}

// RuleEvent reports the first rule that fired in a state.
type RuleEvent struct {
	EventBase
	State string `json:"state"`
	Rule  string `json:"rule"`
	Event string `json:"event,omitempty"`
}

// TransitionEvent reports a state change, including same-turn epsilon hops.
type TransitionEvent struct {
	EventBase
	From    string `json:"from"`
	To      string `json:"to"`
	Epsilon bool   `json:"epsilon,omitempty"`
}

// ActionEvent reports an emitted side-effect request.
type ActionEvent struct {
	EventBase
	ActionType string `json:"action_type"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnTurnStart  func(context.Context, *TurnEvent)
	OnTurnEnd    func(context.Context, *TurnEvent)
	OnRuleMatch  func(context.Context, *RuleEvent)
	OnTransition func(context.Context, *TransitionEvent)
	OnActionEmit func(context.Context, *ActionEvent)
}
