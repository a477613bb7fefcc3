// Package pool recycles fixed-identity objects between an idle queue and an
// active set so hot gameplay paths never allocate.
package pool

import (
	"go.uber.org/zap"
)

// Poolable is implemented by objects a Pool can recycle. Activate runs when
// the object is handed out, Deactivate when it is returned.
type Poolable interface {
	Activate()
	Deactivate()
}

// Item is the constraint on pooled types: pointer-like identity plus the
// lifecycle hooks.
type Item interface {
	comparable
	Poolable
}

// Releaser is the narrow handle a pooled object keeps to its owner so it
// can return itself without reaching into pool internals.
type Releaser[T any] interface {
	Release(x T) bool
}

// Pool hands out inactive instances, tracks which are active and returns
// them to an idle queue. The pool grows without limit when empty.
//
// A Pool is not safe for concurrent use; it is driven from the game loop.
type Pool[T Item] struct {
	name      string
	construct func(p *Pool[T]) T
	logger    *zap.Logger

	idle        []T         // FIFO queue, head at index 0
	active      []T         // Active set in insertion order
	activeIndex map[T]int   // Position of each active instance in active
	members     map[T]struct{}
	constructed int
}

// New creates an empty pool. construct builds one instance bound to the
// pool; it is called by Initialize and whenever Acquire finds the idle queue
// empty.
func New[T Item](name string, construct func(p *Pool[T]) T, logger *zap.Logger) *Pool[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pool[T]{
		name:        name,
		construct:   construct,
		logger:      logger.Named("pool").With(zap.String("pool", name)),
		activeIndex: make(map[T]int),
		members:     make(map[T]struct{}),
	}
}

// Initialize tops the idle queue up to size with freshly constructed,
// deactivated instances. Calling it again never discards instances.
func (p *Pool[T]) Initialize(size int) {
	added := 0
	for len(p.idle) < size {
		x := p.newInstance()
		x.Deactivate()
		p.idle = append(p.idle, x)
		added++
	}
	if added > 0 {
		p.logger.Debug("pool initialized", zap.Int("added", added), zap.Int("idle", len(p.idle)))
	}
}

// Acquire returns an activated instance, constructing one if the idle queue
// is empty. It never fails.
func (p *Pool[T]) Acquire() T {
	if len(p.idle) == 0 {
		p.idle = append(p.idle, p.newInstance())
		p.logger.Debug("pool grew", zap.Int("constructed", p.constructed))
	}

	x := p.idle[0]
	var zero T
	p.idle[0] = zero
	p.idle = p.idle[1:]

	p.activeIndex[x] = len(p.active)
	p.active = append(p.active, x)
	x.Activate()
	return x
}

// Release deactivates x and returns it to the idle queue. Releasing an
// instance that is not active is a contract violation: it is logged and
// ignored, and Release reports false.
func (p *Pool[T]) Release(x T) bool {
	i, ok := p.activeIndex[x]
	if !ok {
		_, member := p.members[x]
		p.logger.Warn("release of inactive instance ignored", zap.Bool("member", member))
		return false
	}

	last := len(p.active) - 1
	if i != last {
		moved := p.active[last]
		p.active[i] = moved
		p.activeIndex[moved] = i
	}
	var zero T
	p.active[last] = zero
	p.active = p.active[:last]
	delete(p.activeIndex, x)

	x.Deactivate()
	p.idle = append(p.idle, x)
	return true
}

// ReleaseAll releases every active instance and returns how many there
// were. The active set is snapshotted first since Release mutates it.
func (p *Pool[T]) ReleaseAll() int {
	snapshot := p.Active()
	for _, x := range snapshot {
		p.Release(x)
	}
	return len(snapshot)
}

// Active returns a copy of the active set.
func (p *Pool[T]) Active() []T {
	out := make([]T, len(p.active))
	copy(out, p.active)
	return out
}

// Each calls fn for a snapshot of the active set, so fn may release.
func (p *Pool[T]) Each(fn func(x T)) {
	for _, x := range p.Active() {
		fn(x)
	}
}

// IsActive reports whether x is currently handed out.
func (p *Pool[T]) IsActive(x T) bool {
	_, ok := p.activeIndex[x]
	return ok
}

// Name returns the pool name used in logs.
func (p *Pool[T]) Name() string { return p.name }

// Constructed returns the number of instances ever built by this pool.
func (p *Pool[T]) Constructed() int { return p.constructed }

// ActiveCount returns the number of active instances.
func (p *Pool[T]) ActiveCount() int { return len(p.active) }

// IdleCount returns the number of queued idle instances.
func (p *Pool[T]) IdleCount() int { return len(p.idle) }

func (p *Pool[T]) newInstance() T {
	x := p.construct(p)
	p.members[x] = struct{}{}
	p.constructed++
	return x
}
