package metrics

import (
	"expvar"
	"time"
)

// Validation metrics.
var (
	validationsTotal      = new(expvar.Int)
	validationErrorsTotal = new(expvar.Int)
	ruleFailuresTotal     = new(expvar.Int)
	rulesRegistered       = new(expvar.Int)
)

// Compile metrics (counters plus last-duration gauge keyed by outcome).
var (
	compilesTotal        = new(expvar.Int)
	compileFailuresTotal = new(expvar.Int)
	compileDurationMs    = expvar.NewMap("strategygraph_compile_duration_ms")
)

func init() {
	expvar.Publish("strategygraph_validations_total", validationsTotal)
	expvar.Publish("strategygraph_validation_errors_total", validationErrorsTotal)
	expvar.Publish("strategygraph_rule_failures_total", ruleFailuresTotal)
	expvar.Publish("strategygraph_rules_registered", rulesRegistered)
	expvar.Publish("strategygraph_compiles_total", compilesTotal)
	expvar.Publish("strategygraph_compile_failures_total", compileFailuresTotal)
}

// Validation helpers
func ValidationRun(errorCount int) {
	validationsTotal.Add(1)
	validationErrorsTotal.Add(int64(errorCount))
}
func RulePanicked()            { ruleFailuresTotal.Add(1) }
func SetRegisteredRules(n int) { rulesRegistered.Set(int64(n)) }

// Compile helpers
func CompileFinished(success bool, d time.Duration) {
	compilesTotal.Add(1)
	outcome := "success"
	if !success {
		compileFailuresTotal.Add(1)
		outcome = "failure"
	}
	setMapInt(compileDurationMs, outcome, d.Milliseconds())
}

// setMapInt replaces value for a key in an expvar.Map with an *expvar.Int set to v.
func setMapInt(m *expvar.Map, key string, v int64) {
	x := new(expvar.Int)
	x.Set(v)
	m.Set(key, x)
}
