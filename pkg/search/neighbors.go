package search

import (
	"fmt"
)

// Graph is the read-only view of the dataset the search consumes
type Graph interface {
	// Exists reports whether the person identifier is known
	Exists(personID string) bool
	// MoviesOf returns the movies a person starred in
	MoviesOf(personID string) ([]string, error)
	// CastOf returns the people starring in a movie
	CastOf(movieID string) ([]string, error)
}

// Neighbor is one (movie, co-star) pair reachable from a person
type Neighbor struct {
	MovieID  string
	PersonID string
}

// Neighbors returns every (movie, co-star) pair for the movies personID
// starred in. The person appears as their own co-star; callers must not
// rely on self-exclusion. Pairs are unique and keep the order in which
// the graph lists movies and casts.
func Neighbors(g Graph, personID string) ([]Neighbor, error) {
	if !g.Exists(personID) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPerson, personID)
	}

	movies, err := g.MoviesOf(personID)
	if err != nil {
		return nil, fmt.Errorf("search: movies of %s: %w", personID, err)
	}

	seen := make(map[Neighbor]struct{})
	neighbors := make([]Neighbor, 0, len(movies)*4)
	for _, movieID := range movies {
		cast, err := g.CastOf(movieID)
		if err != nil {
			return nil, fmt.Errorf("search: cast of %s: %w", movieID, err)
		}
		for _, costar := range cast {
			nb := Neighbor{MovieID: movieID, PersonID: costar}
			if _, dup := seen[nb]; dup {
				continue
			}
			seen[nb] = struct{}{}
			neighbors = append(neighbors, nb)
		}
	}
	return neighbors, nil
}
