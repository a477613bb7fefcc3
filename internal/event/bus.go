// Package event provides the typed publish/subscribe bus that decouples game
// logic from its consumers (audio, UI, scoring, spawning, state machine).
package event

import (
	"reflect"
	"slices"
)

// Bus dispatches events to handlers subscribed by event type.
//
// Dispatch is synchronous and single-threaded: Publish calls every handler
// registered for the event's type, in subscription order, before returning.
// Handlers may subscribe, unsubscribe or publish while a dispatch is running.
// A handler closed during a dispatch is not called for the remainder of it,
// and a handler added during a dispatch first runs on the next Publish.
type Bus struct {
	handlers map[reflect.Type][]*Subscription
	nextID   uint64
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[reflect.Type][]*Subscription),
	}
}

// Subscription is the handle returned by Subscribe. Closing it removes the
// handler from the bus. Close is idempotent.
type Subscription struct {
	bus    *Bus
	typ    reflect.Type
	id     uint64
	fn     any
	closed bool
}

// Subscribe registers fn for every published event of type T.
func Subscribe[T any](b *Bus, fn func(T)) *Subscription {
	t := reflect.TypeFor[T]()
	b.nextID++
	sub := &Subscription{bus: b, typ: t, id: b.nextID, fn: fn}
	b.handlers[t] = append(b.handlers[t], sub)
	return sub
}

// Publish delivers ev to all handlers subscribed to T.
func Publish[T any](b *Bus, ev T) {
	subs := b.handlers[reflect.TypeFor[T]()]
	if len(subs) == 0 {
		return
	}
	// Close rebuilds the slice instead of mutating it, so this header stays a
	// stable snapshot for the whole dispatch.
	for _, sub := range subs {
		if sub.closed {
			continue
		}
		sub.fn.(func(T))(ev)
	}
}

// HandlerCount returns the number of live handlers for T.
func HandlerCount[T any](b *Bus) int {
	return len(b.handlers[reflect.TypeFor[T]()])
}

// Close unsubscribes the handler.
func (s *Subscription) Close() {
	if s == nil || s.closed {
		return
	}
	s.closed = true
	subs := s.bus.handlers[s.typ]
	kept := slices.DeleteFunc(slices.Clone(subs), func(o *Subscription) bool {
		return o.id == s.id
	})
	if len(kept) == 0 {
		delete(s.bus.handlers, s.typ)
		return
	}
	s.bus.handlers[s.typ] = kept
}

// Group collects subscriptions owned by one component so they can be
// released together on teardown.
type Group struct {
	subs []*Subscription
}

// Add records a subscription in the group.
func (g *Group) Add(s *Subscription) {
	g.subs = append(g.subs, s)
}

// Len returns the number of subscriptions held.
func (g *Group) Len() int {
	return len(g.subs)
}

// Close releases every subscription in the group.
func (g *Group) Close() {
	for _, s := range g.subs {
		s.Close()
	}
	g.subs = nil
}
