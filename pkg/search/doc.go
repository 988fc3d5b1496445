// Package search finds the shortest chain of shared movies between two
// people.
//
// The graph is implicit: people are vertices and two people are adjacent
// when they share a movie, which labels the edge. Search nodes live in an
// arena and refer to their parent by handle, so a whole search tree is
// released at once when ShortestPath returns.
//
// The driver is a breadth-first search over a FIFO frontier. A person is
// enqueued at most once: a neighbor is skipped when it has already been
// expanded or is waiting in the frontier. The target is checked when it is
// enqueued rather than when it is expanded, which returns one layer earlier
// without changing the path length.
package search
