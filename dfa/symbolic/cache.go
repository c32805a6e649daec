package symbolic

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/coregx/symregex/alphabet"
	"github.com/coregx/symregex/internal/conv"
	"github.com/coregx/symregex/pattern"
)

// Cache is the lazily built transition table of a symbolic automaton.
//
// States are interned pattern nodes. A transition q --atom--> q' is the
// derivative of q's node with respect to the atom, computed on first use and
// stored for every later scan.
//
// Two tiers hold the transitions:
//   - Dense: states with id < limit own a row of K entries in a flat array of
//     atomic words. Reads are lock-free.
//   - Overflow: states beyond the limit keep their rows in maps guarded by
//     mu. Reads take the read lock.
//
// Thread safety: all methods are safe for concurrent use. The only blocking
// region is mu held for a single derivative and insert. The pattern builder
// is only touched under mu.
//
// Memory management:
//   - Nothing is ever evicted; ids are never reused
//   - The dense table is allocated once, at construction
//   - Overflow rows are allocated one state at a time
type Cache struct {
	atoms  int
	limit  int
	solver alphabet.Solver

	// dense holds limit rows of atoms entries, row-major.
	dense []atomic.Uint32

	// denseInfo[id] is published before any transition refers to id.
	denseInfo []atomic.Pointer[stateInfo]

	// mu protects every field below, and the builder
	mu sync.RWMutex

	builder      *pattern.Builder
	ids          map[pattern.Node]StateID
	nextID       StateID
	overflow     map[StateID][]StateID
	overflowInfo map[StateID]*stateInfo

	transitions atomic.Int64

	logger   *slog.Logger
	overOnce sync.Once
}

// NewCache creates an empty cache over a frozen builder.
func NewCache(b *pattern.Builder, limit int, logger *slog.Logger) *Cache {
	solver := b.Solver()
	atoms := solver.AtomCount()
	return &Cache{
		atoms:        atoms,
		limit:        limit,
		solver:       solver,
		dense:        make([]atomic.Uint32, limit*atoms),
		denseInfo:    make([]atomic.Pointer[stateInfo], limit),
		builder:      b,
		ids:          make(map[pattern.Node]StateID),
		nextID:       firstState,
		overflow:     make(map[StateID][]StateID),
		overflowInfo: make(map[StateID]*stateInfo),
		logger:       logger,
	}
}

// Step returns the successor of q on atom, computing it if needed.
//
// Hot path: a single atomic load for dense states.
func (c *Cache) Step(q StateID, atom int) (StateID, *stateInfo) {
	if t, ok := c.Lookup(q, atom); ok {
		return t, c.info(t)
	}
	return c.compute(q, atom)
}

// StepSymbol is Step for the atom containing c.
func (c *Cache) StepSymbol(q StateID, u uint16) (StateID, *stateInfo) {
	return c.Step(q, c.solver.Classify(u))
}

// Lookup returns the stored successor of q on atom, if it has been computed.
func (c *Cache) Lookup(q StateID, atom int) (StateID, bool) {
	if int(q) < c.limit {
		t := StateID(c.dense[int(q)*c.atoms+atom].Load())
		return t, t != unknown
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lookupLocked(q, atom)
}

func (c *Cache) lookupLocked(q StateID, atom int) (StateID, bool) {
	if int(q) < c.limit {
		t := StateID(c.dense[int(q)*c.atoms+atom].Load())
		return t, t != unknown
	}
	t := c.overflow[q][atom]
	return t, t != unknown
}

// compute takes the derivative of q's node under the lock and publishes the
// resulting transition. A racing scan that got there first wins; both end up
// with the same state since nodes are interned.
func (c *Cache) compute(q StateID, atom int) (StateID, *stateInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t, ok := c.lookupLocked(q, atom); ok {
		return t, c.infoLocked(t)
	}

	d := c.builder.Derivative(c.infoLocked(q).node, atom)
	t, info := c.internLocked(d)
	if int(q) < c.limit {
		c.dense[int(q)*c.atoms+atom].Store(uint32(t))
	} else {
		c.overflow[q][atom] = t
	}
	c.transitions.Add(1)
	return t, info
}

// Intern returns the state of a node, creating it if needed.
func (c *Cache) Intern(n pattern.Node) StateID {
	c.mu.Lock()
	defer c.mu.Unlock()
	id, _ := c.internLocked(n)
	return id
}

// Build runs fn with exclusive access to the builder and interns the node it
// returns.
func (c *Cache) Build(fn func(b *pattern.Builder) pattern.Node) StateID {
	c.mu.Lock()
	defer c.mu.Unlock()
	id, _ := c.internLocked(fn(c.builder))
	return id
}

func (c *Cache) internLocked(n pattern.Node) (StateID, *stateInfo) {
	if id, ok := c.ids[n]; ok {
		return id, c.infoLocked(id)
	}

	id := c.nextID
	c.nextID = StateID(conv.IntToUint32(int(id) + 1))
	info := newStateInfo(c.builder, n)
	c.ids[n] = id

	if int(id) < c.limit {
		c.denseInfo[id].Store(info)
		return id, info
	}

	c.overOnce.Do(func() {
		c.logger.Info("symbolic: state cache overflow",
			slog.Int("dense_limit", c.limit),
			slog.Int("atoms", c.atoms))
	})
	c.overflowInfo[id] = info
	c.overflow[id] = make([]StateID, c.atoms)
	return id, info
}

// info returns the per-state data of a live state.
func (c *Cache) info(q StateID) *stateInfo {
	if int(q) < c.limit {
		return c.denseInfo[q].Load()
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.overflowInfo[q]
}

func (c *Cache) infoLocked(q StateID) *stateInfo {
	if int(q) < c.limit {
		return c.denseInfo[q].Load()
	}
	return c.overflowInfo[q]
}

// Node returns the pattern node a state stands for.
func (c *Cache) Node(q StateID) pattern.Node {
	return c.info(q).node
}

// Stats returns a snapshot of the cache size.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	states := int(c.nextID - firstState)
	dense := min(states, c.limit-int(firstState))
	return Stats{
		Atoms:          c.atoms,
		States:         states,
		DenseStates:    dense,
		OverflowStates: states - dense,
		Transitions:    int(c.transitions.Load()),
	}
}

// Stats describes the growth of a matcher's automaton.
type Stats struct {
	// Atoms is the number of atoms K of the alphabet partition.
	Atoms int
	// States is the number of states created so far.
	States int
	// DenseStates is the number of states with a lock-free table row.
	DenseStates int
	// OverflowStates is the number of states kept in the overflow maps.
	OverflowStates int
	// Transitions is the number of transitions computed so far.
	Transitions int
}
