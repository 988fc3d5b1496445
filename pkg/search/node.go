package search

// noParent marks the root of a search tree
const noParent = -1

// Node is one step of the exploration: State was reached from the node at
// handle Parent by way of the movie Action.
type Node struct {
	State  string
	Action string
	Parent int
	Depth  int
}

// arena owns every node created during one search. Handles are indices
// into nodes and stay valid until the arena is dropped.
type arena struct {
	nodes []Node
}

func newArena() *arena {
	return &arena{nodes: make([]Node, 0, 64)}
}

// root creates the parentless node for the source person
func (a *arena) root(state string) int {
	a.nodes = append(a.nodes, Node{State: state, Parent: noParent})
	return len(a.nodes) - 1
}

// child creates a node reached from parent via action
func (a *arena) child(parent int, action, state string) int {
	a.nodes = append(a.nodes, Node{
		State:  state,
		Action: action,
		Parent: parent,
		Depth:  a.nodes[parent].Depth + 1,
	})
	return len(a.nodes) - 1
}

func (a *arena) node(h int) Node {
	return a.nodes[h]
}

func (a *arena) len() int {
	return len(a.nodes)
}

// path walks parent handles from h back to the root and returns the
// (movie, person) steps in source to target order. The root contributes
// no step.
func (a *arena) path(h int) Path {
	path := make(Path, 0, a.nodes[h].Depth)
	for n := a.nodes[h]; n.Parent != noParent; n = a.nodes[n.Parent] {
		path = append(path, Step{MovieID: n.Action, PersonID: n.State})
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
