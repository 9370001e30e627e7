// Package nlu defines the wit.ai-shaped payload consumed by the engine
// and the normalizer that turns it into per-turn facts.
package nlu

import (
	"encoding/json"
	"fmt"
)

// Entity names recognized by the normalizer. Anything else is ignored.
const (
	EntityItem     = "item"
	EntityAmount   = "wit$amount_of_money"
	EntityNumber   = "wit$number"
	EntityDatetime = "wit$datetime"
)

// Trait names recognized by the normalizer.
const (
	TraitGreetings = "wit$greetings"
	TraitBye       = "wit$bye"
	TraitThanks    = "wit$thanks"
	TraitSentiment = "wit$sentiment"
)

// Intent is one ranked intent candidate.
type Intent struct {
	ID         string  `json:"id,omitempty"`
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// DatetimeBound is one end of a datetime interval.
type DatetimeBound struct {
	Value string `json:"value"`
	Grain string `json:"grain,omitempty"`
}

// Entity is one extracted span. Value is left loosely typed because the
// NLU service reports strings for datetimes and numbers for amounts.
type Entity struct {
	Name       string         `json:"name"`
	Role       string         `json:"role,omitempty"`
	Body       string         `json:"body,omitempty"`
	Type       string         `json:"type,omitempty"`
	Grain      string         `json:"grain,omitempty"`
	Value      any            `json:"value,omitempty"`
	From       *DatetimeBound `json:"from,omitempty"`
	To         *DatetimeBound `json:"to,omitempty"`
	Confidence float64        `json:"confidence,omitempty"`
}

// Trait is one detected trait candidate.
type Trait struct {
	ID         string  `json:"id,omitempty"`
	Value      string  `json:"value,omitempty"`
	Confidence float64 `json:"confidence"`
}

// TraitGroup tolerates both the array shape and the legacy
// single-object shape the NLU service has used over API versions.
type TraitGroup []Trait

func (g *TraitGroup) UnmarshalJSON(data []byte) error {
	var list []Trait
	if err := json.Unmarshal(data, &list); err == nil {
		*g = list
		return nil
	}
	var one Trait
	if err := json.Unmarshal(data, &one); err != nil {
		return fmt.Errorf("trait group is neither object nor array: %w", err)
	}
	*g = TraitGroup{one}
	return nil
}

// Payload is the parsed NLU response for one utterance. Missing
// sections stay nil and are treated as empty.
type Payload struct {
	Text     string                `json:"text,omitempty"`
	Intents  []Intent              `json:"intents"`
	Entities map[string][]Entity   `json:"entities"`
	Traits   map[string]TraitGroup `json:"traits"`

	// Raw preserves the upstream JSON bytes for diagnostics.
	Raw json.RawMessage `json:"-"`
}

// Decode parses a raw NLU response body, keeping the original bytes.
func Decode(data []byte) (*Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode nlu payload: %w", err)
	}
	p.Raw = append(json.RawMessage(nil), data...)
	return &p, nil
}
