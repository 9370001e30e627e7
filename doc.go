/*
Package pennywise is a dialogue management engine for a conversational
expense-tracking assistant ("Penny").

It receives a user utterance already parsed into structured
intent/entity data by an NLU service, updates a per-user conversational
context, and produces reply text plus side-effect requests (e.g.,
"record this expense"). The core is a priority-ordered rule machine
with same-turn state chaining, multi-turn slot filling, a
timeout-guarded deletion confirmation, and saturating counters.

# Concept

Pennywise treats a conversation as a finite-state machine whose states
map to ordered lists of guarded rules. The engine owns the transition
logic and the durable context mutations, while your application
("Host") owns I/O: delivering replies, persisting contexts, and
applying emitted actions to the expense ledger. This Hexagonal
Architecture lets the engine be embedded in any surface: HTTP API,
chat CLI, or AI agent infrastructure.

# Key Features

  - Deterministic turns: the same context and facts always resolve the same way.
  - Pure engine: ledger writes and persistence happen in the host, driven by emitted actions.
  - Multi-turn slot filling for expenses (item, date, amount) with same-turn chaining.
  - Pluggable NLU, context store, ledger, and message catalog via ports.

# Usage

	package main

	import (
		"context"
		"log"
		"time"

		"github.com/mintaka-labs/pennywise"
		"github.com/mintaka-labs/pennywise/pkg/adapters/wit"
		"github.com/mintaka-labs/pennywise/pkg/domain"
	)

	func main() {
		bot, err := pennywise.New(wit.New("WIT_TOKEN"))
		if err != nil {
			log.Fatal(err)
		}

		result, err := bot.Process(context.Background(), domain.Session{
			UserID:    "user-1",
			Text:      "I spent 12 dollars on lunch today",
			Timestamp: time.Now(),
			Context:   *domain.NewContext("Ada"),
		})
		if err != nil {
			log.Fatal(err)
		}

		for _, msg := range result.Messages {
			log.Println(msg)
		}
		// Persist result.Context and apply result.Actions to the ledger.
	}
*/
package pennywise
