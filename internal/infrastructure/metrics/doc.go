// Package metrics exposes expvar-published counters and gauges for the
// strategy graph compiler (validation runs, compile outcomes, rule
// registry churn). It intentionally avoids external dependencies and is
// consumed by the optional strategy-server for /debug/vars and /metrics
// endpoints.
package metrics
