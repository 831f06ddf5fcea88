// Package compiler runs the whole pipeline: load, default, plan
// secrets, plan topology, assemble, validate, render. This is part of
// the Functional Core - Compile performs no I/O and shares no state
// between calls, so separate invocations (staging and prod, say) can
// run concurrently without coordination.
package compiler
