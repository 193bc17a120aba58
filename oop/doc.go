// Package oop implements a runtime class model for dynamically typed Go
// values.
//
// This package contains:
//   - Class and interface descriptors with single inheritance
//   - Per-name method dispatch tables keyed by argument count
//   - Instance construction, including inline anonymous subclasses
//   - Super resolution through an explicit per-invocation Call
//   - Per-instance extension through a private derived descriptor
//   - Capability queries against a precomputed transitive closure
//
// Descriptors are not safe for concurrent mutation. A single object graph
// is expected to be driven by one goroutine at a time; independent graphs
// may run in parallel because no call state is shared between invocations.
package oop
