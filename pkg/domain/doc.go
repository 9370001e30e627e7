/*
Package domain contains the core domain models for the Pennywise engine.

It defines the fundamental entities of the conversation: the durable
per-user Context, the per-turn Facts derived from NLU output, the
Result bundle of a processed turn, and the Actions the engine asks the
host to apply. This package is kept pure and free of external
dependencies like I/O or persistence, following Hexagonal Architecture
principles.

# Key Entities

  - Context: Persisted per-user conversational state, carried across turns.
  - Facts: The per-turn-only interpretation of the NLU output.
  - Session: One inbound turn (text or voice) bound to a user's context.
  - Action: A requested durable side effect (e.g. record an expense).
  - Result: The outcome of one turn (context, replies, actions).
*/
package domain
