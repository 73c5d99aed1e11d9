package testfixtures

import (
	"fmt"
	"sync/atomic"

	"github.com/example/campus-booking/internal/persistence"
)

// IDGenerator hands out "<prefix>-1", "<prefix>-2", ... in place of UUIDs.
type IDGenerator struct {
	prefix  string
	counter atomic.Uint64
}

// NewIDGenerator returns a generator for prefix, "id" when empty.
func NewIDGenerator(prefix string) *IDGenerator {
	if prefix == "" {
		prefix = "id"
	}
	return &IDGenerator{prefix: prefix}
}

func (g *IDGenerator) Next() string {
	return fmt.Sprintf("%s-%d", g.prefix, g.counter.Add(1))
}

// NextFunc adapts the generator to the func() string the services take.
func (g *IDGenerator) NextFunc() func() string {
	if g == nil {
		return func() string { return "" }
	}
	return g.Next
}

// Peek returns the id the next call to Next will produce.
func (g *IDGenerator) Peek() persistence.ID {
	return persistence.ID(fmt.Sprintf("%s-%d", g.prefix, g.counter.Load()+1))
}
