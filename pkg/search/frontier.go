package search

// Discipline selects which end of the frontier Remove takes from
type Discipline int

const (
	// FIFO removes the earliest added node. Breadth-first search needs it.
	FIFO Discipline = iota
	// LIFO removes the most recently added node
	LIFO
)

func (d Discipline) String() string {
	if d == LIFO {
		return "lifo"
	}
	return "fifo"
}

// Frontier is the ordered set of discovered but unexpanded nodes.
// It stores arena handles and tracks which states it currently holds.
type Frontier struct {
	discipline Discipline
	arena      *arena
	items      []int
	head       int
	states     map[string]int
}

// NewQueueFrontier returns a first-in-first-out frontier
func NewQueueFrontier() *Frontier {
	return newFrontier(newArena(), FIFO)
}

// NewStackFrontier returns a last-in-first-out frontier
func NewStackFrontier() *Frontier {
	return newFrontier(newArena(), LIFO)
}

func newFrontier(a *arena, d Discipline) *Frontier {
	return &Frontier{
		discipline: d,
		arena:      a,
		items:      make([]int, 0, 64),
		states:     make(map[string]int),
	}
}

// Discipline reports the removal order of the frontier
func (f *Frontier) Discipline() Discipline {
	return f.discipline
}

// Push adds a root node for state and returns its handle
func (f *Frontier) Push(state string) int {
	h := f.arena.root(state)
	f.add(h)
	return h
}

// AddChild adds a node for state reached from the node at handle parent
// via action, and returns its handle. Parent must have come from this
// frontier.
func (f *Frontier) AddChild(parent int, action, state string) int {
	h := f.arena.child(parent, action, state)
	f.add(h)
	return h
}

func (f *Frontier) add(h int) {
	f.items = append(f.items, h)
	f.states[f.arena.node(h).State]++
}

// Path reconstructs the steps leading to the node at handle h
func (f *Frontier) Path(h int) Path {
	return f.arena.path(h)
}

// Created returns the number of nodes created over the frontier's lifetime
func (f *Frontier) Created() int {
	return f.arena.len()
}

// ContainsState reports whether any node in the frontier has the given state
func (f *Frontier) ContainsState(state string) bool {
	return f.states[state] > 0
}

// Remove takes the next node according to the frontier's discipline
func (f *Frontier) Remove() (Node, int, error) {
	if f.Empty() {
		return Node{}, noParent, ErrEmptyFrontier
	}

	var h int
	if f.discipline == LIFO {
		last := len(f.items) - 1
		h = f.items[last]
		f.items = f.items[:last]
	} else {
		h = f.items[f.head]
		f.head++
		// reclaim the consumed prefix once it dominates the slice
		if f.head > 1024 && f.head*2 > len(f.items) {
			f.items = append(f.items[:0], f.items[f.head:]...)
			f.head = 0
		}
	}

	n := f.arena.node(h)
	if f.states[n.State]--; f.states[n.State] <= 0 {
		delete(f.states, n.State)
	}
	return n, h, nil
}

// Empty reports whether the frontier holds no nodes
func (f *Frontier) Empty() bool {
	return f.Len() == 0
}

// Len returns the number of nodes waiting in the frontier
func (f *Frontier) Len() int {
	return len(f.items) - f.head
}
