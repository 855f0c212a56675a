// Package strategygraph provides a minimal public façade for validating
// and compiling strategy graphs without importing internal packages. It
// re-exports the core graph types for convenience and exposes a Compiler
// with simple methods to validate, compile, and manage validation rules.
package strategygraph
