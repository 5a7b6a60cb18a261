/*
Package observability turns machine events into metrics and logs.

Both Metrics and LogHooks produce a domain.Hooks value that can be passed to
machine.WithHooks or session.WithHooks, and combined with domain.Hooks.Merge.
*/
package observability
