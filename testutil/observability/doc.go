// Package observability provides test spies for the Logger and MetricsCollector ports.
//
// This is testing infrastructure - not production code.
package observability
