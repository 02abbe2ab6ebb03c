// Package segment generates and tracks the lifecycle of Infer long-running
// request IDs.
package segment

import (
	"fmt"
	"sync/atomic"
)

// Generator issues unique, monotonically-numbered request IDs scoped to a
// principal (the calling service or client identity).
type Generator struct {
	counter uint64
}

// New returns an empty Generator.
func New() *Generator {
	return &Generator{}
}

// Next returns the next request ID for principal.
func (g *Generator) Next(principal string) string {
	n := atomic.AddUint64(&g.counter, 1)
	return fmt.Sprintf("%s-infer-%d", principal, n)
}
