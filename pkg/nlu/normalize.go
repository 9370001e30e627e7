package nlu

import (
	"sort"
	"strconv"
	"time"

	"github.com/mintaka-labs/pennywise/pkg/domain"
)

// Normalize converts a raw NLU payload into the per-turn fact set.
// It is a pure function: missing sections default to empty, and
// unparseable entity values are skipped rather than failing the turn.
func Normalize(p *Payload) domain.Facts {
	facts := domain.Facts{Sentiment: domain.SentimentNeutral}
	if p == nil {
		return facts
	}

	_, facts.Thanks = p.Traits[TraitThanks]
	greet, hasGreet := first(p.Traits[TraitGreetings])
	bye, hasBye := first(p.Traits[TraitBye])
	facts.Greetings, facts.Bye = hasGreet, hasBye
	if hasGreet && hasBye {
		// Strict greater-than: on equal confidence bye wins.
		if greet.Confidence > bye.Confidence {
			facts.Bye = false
		} else {
			facts.Greetings = false
		}
	}
	if s, ok := first(p.Traits[TraitSentiment]); ok && s.Value != "" {
		facts.Sentiment = s.Value
	}

	// Intents arrive pre-ranked; the top candidate is the intent.
	if len(p.Intents) > 0 {
		facts.Intent = p.Intents[0].Name
	}

	for _, e := range flatten(p.Entities) {
		switch {
		case e.Name == EntityItem && e.Type == "value":
			if v, ok := e.Value.(string); ok {
				facts.Item = v
			}
		case e.Name == EntityAmount && e.Type == "value":
			if v, ok := toFloat(e.Value); ok {
				facts.Money = &domain.Money{Body: e.Body, Value: v}
			}
		case e.Name == EntityNumber && e.Type == "value":
			// Numeric fallback, used only when no explicit currency
			// entity was found.
			if facts.Money != nil {
				continue
			}
			if v, ok := toFloat(e.Value); ok {
				facts.Money = &domain.Money{Body: e.Body, Value: v}
			}
		case e.Name == EntityDatetime:
			if iv, ok := parseInterval(e); ok {
				facts.Interval = iv
			} else if ts, ok := parseTime(e.Value); ok {
				facts.Moment = &domain.Moment{Grain: e.Grain, Value: ts}
			}
		}
	}

	return facts
}

func first(group TraitGroup) (Trait, bool) {
	if len(group) == 0 {
		return Trait{}, false
	}
	return group[0], true
}

// flatten merges the per-entity-name grouping into one list. Keys are
// visited in sorted order so repeated entities resolve deterministically
// (later entries of the same precedence overwrite earlier ones).
func flatten(groups map[string][]Entity) []Entity {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var entities []Entity
	for _, k := range keys {
		entities = append(entities, groups[k]...)
	}
	return entities
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func parseTime(v any) (time.Time, bool) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, false
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

func parseInterval(e Entity) (*domain.Interval, bool) {
	if e.From == nil || e.To == nil {
		return nil, false
	}
	from, okFrom := parseTime(e.From.Value)
	to, okTo := parseTime(e.To.Value)
	if !okFrom || !okTo {
		return nil, false
	}
	grain := e.From.Grain
	if grain == "" {
		grain = e.Grain
	}
	return &domain.Interval{Grain: grain, From: from, To: to}, true
}
