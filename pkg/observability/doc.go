/*
Package observability provides Prometheus collectors for the engine.

Metrics are fed through domain.LifecycleHooks, so the engine itself
stays free of any metrics dependency: hosts that want metrics build a
Metrics value and pass Metrics.Hooks() to the bot.
*/
package observability
