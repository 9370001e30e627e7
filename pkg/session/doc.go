/*
Package session orchestrates access to per-user durable contexts.

The engine requires that turns for the same user never run
concurrently. The Manager enforces this with a reference-counted
per-user mutex, optionally backed by a distributed lock so replicas of
a host coordinate too.
*/
package session
