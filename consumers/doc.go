// Package consumers maintains a registry of known API consumers and
// computes which of them are affected by a comparison report.
//
// The registry is a YAML document mapping consumer names to endpoint
// patterns (path glob plus method list). Impact analysis partitions a
// report's changes per consumer into breaking and non-breaking buckets
// and tracks endpoints that appeared or disappeared entirely.
package consumers
