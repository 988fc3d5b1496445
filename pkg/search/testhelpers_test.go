package search

import (
	"fmt"
	"sort"
)

// mapGraph is an in-memory Graph built from (person, movie) credits
type mapGraph struct {
	people map[string][]string
	casts  map[string][]string
}

func newMapGraph(people ...string) *mapGraph {
	g := &mapGraph{
		people: make(map[string][]string),
		casts:  make(map[string][]string),
	}
	for _, p := range people {
		g.people[p] = nil
	}
	return g
}

// star credits every listed person in movie, adding unknown people
func (g *mapGraph) star(movie string, people ...string) *mapGraph {
	for _, p := range people {
		g.people[p] = appendUnique(g.people[p], movie)
		g.casts[movie] = appendUnique(g.casts[movie], p)
	}
	return g
}

func (g *mapGraph) Exists(personID string) bool {
	_, ok := g.people[personID]
	return ok
}

func (g *mapGraph) MoviesOf(personID string) ([]string, error) {
	movies, ok := g.people[personID]
	if !ok {
		return nil, fmt.Errorf("no person %s", personID)
	}
	return movies, nil
}

func (g *mapGraph) CastOf(movieID string) ([]string, error) {
	cast, ok := g.casts[movieID]
	if !ok {
		return nil, fmt.Errorf("no movie %s", movieID)
	}
	return cast, nil
}

func appendUnique(list []string, v string) []string {
	for _, x := range list {
		if x == v {
			return list
		}
	}
	list = append(list, v)
	sort.Strings(list)
	return list
}

// exampleGraph: M1 stars {A, B}, M2 stars {B, C}; D is never credited
func exampleGraph() *mapGraph {
	return newMapGraph("D").star("M1", "A", "B").star("M2", "B", "C")
}

// validPath reports whether every step co-stars with the previous person
func validPath(g *mapGraph, source string, path Path) bool {
	prev := source
	for _, step := range path {
		cast := g.casts[step.MovieID]
		if !contains(cast, prev) || !contains(cast, step.PersonID) {
			return false
		}
		prev = step.PersonID
	}
	return true
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
