// Package events holds the queue between event producers and the reducer.
package events

import (
	"sync"

	"liftbank/src/types"
)

// Channel is an append-only queue drained as one batch per tick. Publish may
// be called from any goroutine; only the control loop drains. Each published
// event is returned by exactly one DrainAll, in publish order.
type Channel struct {
	mtx    sync.Mutex
	events []types.Event
}

func NewChannel() *Channel {
	return &Channel{}
}

func (c *Channel) Publish(event types.Event) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.events = append(c.events, event)
}

// DrainAll removes and returns every queued event, leaving the channel empty.
func (c *Channel) DrainAll() []types.Event {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	batch := c.events
	c.events = nil
	return batch
}

func (c *Channel) Len() int {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return len(c.events)
}
