package usecases

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/bigking1998/algo-trade-bot-sub010/internal/app/dto"
	"github.com/bigking1998/algo-trade-bot-sub010/internal/core/strategy"
)

// codeUnit is the structured intermediate representation of the generated
// strategy. Sections are accumulated as statement lists and rendered to
// text exactly once, so emission order never depends on string
// concatenation order.
type codeUnit struct {
	header      []string
	imports     map[string]struct{} // deduplicated, rendered sorted
	container   []string
	constructor []string
	initialize  []string
	execute     []string
	footer      []string
}

func newCodeUnit() *codeUnit {
	return &codeUnit{imports: make(map[string]struct{})}
}

// Render produces the final text. Sections appear in fixed order:
// header, imports, container, constructor, init routine, execution
// routine, footer.
func (u *codeUnit) Render() string {
	var b strings.Builder
	writeAll := func(lines []string) {
		for _, line := range lines {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	writeAll(u.header)
	if len(u.imports) > 0 {
		mods := make([]string, 0, len(u.imports))
		for mod := range u.imports {
			mods = append(mods, mod)
		}
		sort.Strings(mods)
		for _, mod := range mods {
			b.WriteString(fmt.Sprintf("const %s = require(%q);\n", identFromModule(mod), mod))
		}
		b.WriteString("\n")
	}
	writeAll(u.container)
	writeAll(u.constructor)
	writeAll(u.initialize)
	writeAll(u.execute)
	writeAll(u.footer)
	return b.String()
}

func identFromModule(mod string) string {
	parts := strings.Split(mod, "/")
	return sanitizeIdentifier(parts[len(parts)-1], "mod")
}

// sanitizeIdentifier folds a node label to a valid identifier: lower-cased,
// non-alphanumeric runes stripped, digit-leading names prefixed. fallback
// is used when nothing survives.
func sanitizeIdentifier(label, fallback string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(label) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	id := b.String()
	if id == "" {
		id = sanitizeFallback(fallback)
	}
	if id == "" {
		id = "node"
	}
	if unicode.IsDigit(rune(id[0])) {
		id = "n" + id
	}
	return id
}

func sanitizeFallback(fallback string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(fallback) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// identTable assigns a unique slot identifier per node, suffixing
// collisions deterministically in graph order. The suffix is checked
// against all assigned identifiers so a label that already looks suffixed
// (for example "foo" next to "foo2") cannot collide.
func identTable(g *strategy.Graph) map[string]string {
	idents := make(map[string]string, len(g.Nodes))
	assigned := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		base := sanitizeIdentifier(n.Label, n.ID)
		id := base
		for suffix := 2; assigned[id]; suffix++ {
			id = fmt.Sprintf("%s%d", base, suffix)
		}
		assigned[id] = true
		idents[n.ID] = id
	}
	return idents
}

// generator walks a validated, topologically ordered graph and fills the
// code unit. One generator instance serves a single compile call.
type generator struct {
	graph  *strategy.Graph
	order  []string
	deps   map[string][]string
	idents map[string]string

	unit     *codeUnit
	warnings []dto.CompilerIssue
}

func newGenerator(g *strategy.Graph, order []string, deps map[string][]string) *generator {
	return &generator{
		graph:  g,
		order:  order,
		deps:   deps,
		idents: identTable(g),
		unit:   newCodeUnit(),
	}
}

// generate emits every section. The caller has already established the
// graph is acyclic.
func (gen *generator) generate(now time.Time) {
	gen.emitHeader(now)
	gen.emitContainer()
	gen.emitConstructor()
	gen.emitInitialize()
	gen.emitExecute()
	gen.emitFooter()
}

func (gen *generator) emitHeader(now time.Time) {
	name := gen.graph.Name
	if name == "" {
		name = "strategy"
	}
	gen.unit.header = append(gen.unit.header,
		"// Generated strategy definition",
		fmt.Sprintf("// strategy: %s", name),
		fmt.Sprintf("// nodes: %d, edges: %d", len(gen.graph.Nodes), len(gen.graph.Edges)),
		fmt.Sprintf("// generated_at: %s", now.UTC().Format(time.RFC3339)),
		`"use strict";`,
		"",
	)
}

func (gen *generator) emitContainer() {
	gen.unit.container = append(gen.unit.container,
		"const strategy = {",
		fmt.Sprintf("  name: %q,", gen.graph.Name),
		"  slots: {},",
		"};",
		"",
	)
}

// emitConstructor declares one named slot per node.
func (gen *generator) emitConstructor() {
	gen.unit.constructor = append(gen.unit.constructor, "function construct() {")
	for _, id := range gen.order {
		node, ok := gen.graph.NodeByID(id)
		if !ok {
			continue
		}
		gen.unit.constructor = append(gen.unit.constructor,
			fmt.Sprintf("  strategy.slots.%s = null; // %s (%s)", gen.idents[id], node.Label, node.Kind))
	}
	gen.unit.constructor = append(gen.unit.constructor, "}", "")
}

// emitInitialize instantiates indicator nodes with their parameters as
// constructor arguments.
func (gen *generator) emitInitialize() {
	gen.unit.initialize = append(gen.unit.initialize, "function setup(ctx) {", "  construct();")
	for _, id := range gen.order {
		node, ok := gen.graph.NodeByID(id)
		if !ok || node.Kind != strategy.NodeKindIndicator {
			continue
		}
		gen.unit.imports["indicators"] = struct{}{}
		gen.unit.initialize = append(gen.unit.initialize,
			fmt.Sprintf("  strategy.slots.%s = ctx.indicator(%q, %s);",
				gen.idents[id], indicatorName(node), renderParams(node.Parameters)))
	}
	gen.unit.initialize = append(gen.unit.initialize, "}", "")
}

// emitExecute produces the per-bar routine: indicator updates in
// topological order, condition evaluation, then signal emission.
func (gen *generator) emitExecute() {
	out := &gen.unit.execute
	*out = append(*out, "function onBar(ctx, bar) {")

	for _, id := range gen.order {
		node, ok := gen.graph.NodeByID(id)
		if !ok || node.Kind != strategy.NodeKindIndicator {
			continue
		}
		*out = append(*out, fmt.Sprintf("  strategy.slots.%s.update(bar);", gen.idents[id]))
	}

	for _, id := range gen.order {
		node, ok := gen.graph.NodeByID(id)
		if !ok {
			continue
		}
		switch node.Kind {
		case strategy.NodeKindCondition:
			*out = append(*out, fmt.Sprintf("  const %s = %s;", gen.idents[id], gen.conditionExpr(node)))
		case strategy.NodeKindLogic:
			*out = append(*out, fmt.Sprintf("  const %s = %s;", gen.idents[id], gen.logicExpr(node)))
		}
	}

	*out = append(*out, "  const signals = [];")
	for _, id := range gen.order {
		node, ok := gen.graph.NodeByID(id)
		if !ok || node.Kind != strategy.NodeKindSignal {
			continue
		}
		guard := gen.signalGuard(node)
		*out = append(*out,
			fmt.Sprintf("  if (%s) {", guard),
			fmt.Sprintf("    signals.push({ id: %q, side: %q });", node.ID, signalSide(node)),
			"  }")
	}
	*out = append(*out, "  return signals;", "}", "")
}

func (gen *generator) emitFooter() {
	gen.unit.footer = append(gen.unit.footer,
		"module.exports = { strategy, setup, onBar };")
}

// valueRef renders a read of a dependency's current value.
func (gen *generator) valueRef(nodeID string) string {
	node, ok := gen.graph.NodeByID(nodeID)
	if !ok {
		return "undefined"
	}
	switch node.Kind {
	case strategy.NodeKindInput:
		return fmt.Sprintf("bar[%q]", inputField(node))
	case strategy.NodeKindIndicator, strategy.NodeKindMLModel, strategy.NodeKindCustomCode:
		return fmt.Sprintf("strategy.slots.%s.value", gen.idents[nodeID])
	case strategy.NodeKindCondition, strategy.NodeKindLogic:
		return gen.idents[nodeID]
	default:
		return fmt.Sprintf("strategy.slots.%s", gen.idents[nodeID])
	}
}

// conditionExpr translates a condition node through its operator template.
// Unknown operators degrade to an always-true stub: the stub is still
// syntactically valid, so it is a warning, never an error.
func (gen *generator) conditionExpr(node *strategy.Node) string {
	deps := gen.deps[node.ID]
	left, right := "0", "0"
	if len(deps) > 0 {
		left = gen.valueRef(deps[0])
	}
	if len(deps) > 1 {
		right = gen.valueRef(deps[1])
	} else if th, ok := numericParam(node.Parameters, "threshold"); ok {
		right = th
	}

	switch op := stringParam(node.Parameters, "operator"); op {
	case "gt", ">":
		return fmt.Sprintf("%s > %s", left, right)
	case "gte", ">=":
		return fmt.Sprintf("%s >= %s", left, right)
	case "lt", "<":
		return fmt.Sprintf("%s < %s", left, right)
	case "lte", "<=":
		return fmt.Sprintf("%s <= %s", left, right)
	case "eq", "==":
		return fmt.Sprintf("%s === %s", left, right)
	case "crossover":
		return fmt.Sprintf("ctx.crossover(%s, %s)", left, right)
	case "crossunder":
		return fmt.Sprintf("ctx.crossunder(%s, %s)", left, right)
	case "range":
		lower, _ := numericParamDefault(node.Parameters, "lower", "0")
		upper, _ := numericParamDefault(node.Parameters, "upper", "0")
		return fmt.Sprintf("(%s >= %s && %s <= %s)", left, lower, left, upper)
	default:
		gen.warnings = append(gen.warnings, dto.CompilerIssue{
			Kind:    dto.CompilerIssueSemantic,
			Message: fmt.Sprintf("condition %q has unknown operator %q; emitted always-true stub", node.ID, op),
			NodeID:  node.ID,
		})
		return "true"
	}
}

// logicExpr combines boolean dependencies with the node's combinator.
func (gen *generator) logicExpr(node *strategy.Node) string {
	deps := gen.deps[node.ID]
	if len(deps) == 0 {
		return "true"
	}
	refs := make([]string, 0, len(deps))
	for _, d := range deps {
		refs = append(refs, gen.valueRef(d))
	}
	switch stringParam(node.Parameters, "operator") {
	case "or":
		return strings.Join(refs, " || ")
	case "not":
		return "!(" + refs[0] + ")"
	default: // and
		return strings.Join(refs, " && ")
	}
}

// signalGuard conjoins a signal node's boolean dependencies.
func (gen *generator) signalGuard(node *strategy.Node) string {
	deps := gen.deps[node.ID]
	var refs []string
	for _, d := range deps {
		dep, ok := gen.graph.NodeByID(d)
		if !ok {
			continue
		}
		if dep.Kind == strategy.NodeKindCondition || dep.Kind == strategy.NodeKindLogic {
			refs = append(refs, gen.idents[d])
		}
	}
	if len(refs) == 0 {
		return "true"
	}
	return strings.Join(refs, " && ")
}

func indicatorName(node *strategy.Node) string {
	if name := stringParam(node.Parameters, "type"); name != "" {
		return name
	}
	return strings.ToLower(node.Label)
}

func inputField(node *strategy.Node) string {
	if f := stringParam(node.Parameters, "field"); f != "" {
		return f
	}
	return "close"
}

func signalSide(node *strategy.Node) string {
	if side := stringParam(node.Parameters, "side"); side != "" {
		return side
	}
	return "buy"
}

// renderParams renders a parameter map as a deterministic object literal
// (keys sorted) so identical graphs compile to identical text.
func renderParams(params map[string]interface{}) string {
	if len(params) == 0 {
		return "{}"
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", sanitizeIdentifier(k, "p"), renderValue(params[k])))
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

func renderValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return fmt.Sprintf("%q", val)
	case bool:
		return fmt.Sprintf("%t", val)
	case int, int32, int64:
		return fmt.Sprintf("%d", val)
	case float32, float64:
		return fmt.Sprintf("%v", val)
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%q", fmt.Sprintf("%v", val))
	}
}

func stringParam(params map[string]interface{}, key string) string {
	if params == nil {
		return ""
	}
	if s, ok := params[key].(string); ok {
		return s
	}
	return ""
}

func numericParam(params map[string]interface{}, key string) (string, bool) {
	if params == nil {
		return "", false
	}
	switch v := params[key].(type) {
	case int, int32, int64, float32, float64:
		return fmt.Sprintf("%v", v), true
	default:
		return "", false
	}
}

func numericParamDefault(params map[string]interface{}, key, def string) (string, bool) {
	if v, ok := numericParam(params, key); ok {
		return v, true
	}
	return def, false
}
