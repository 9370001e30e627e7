/*
Package ports defines the driven ports (interfaces) for the Pennywise engine.

These interfaces decouple the core logic from external implementations,
allowing the engine to work with various NLU providers, context stores,
expense ledgers, and message catalogs.

# Key Interfaces

  - Understander: Resolves text or voice input into a structured NLU payload.
  - Catalog: Supplies localized/variant reply strings by key.
  - ContextStore: Persists and loads per-user durable contexts.
  - Ledger: Records and queries expenses outside the engine.
  - DistributedLocker: Provides distributed locking for concurrent turn access.
*/
package ports
