/*
Package observability provides Prometheus instrumentation for a bot.

It translates engine lifecycle hooks into counters and histograms: turns by
outcome, turn duration, dialog starts and ends, prompt retries, and stack
depth. Expose them over HTTP with promhttp.
*/
package observability
