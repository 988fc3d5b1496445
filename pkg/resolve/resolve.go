// Package resolve maps typed names to person identifiers, asking a Chooser
// when several people share a name.
package resolve

import (
	"errors"
	"fmt"

	"github.com/dd0wney/cluso-degrees/pkg/dataset"
)

var (
	// ErrPersonNotFound is returned when no person has the given name
	ErrPersonNotFound = errors.New("resolve: person not found")

	// ErrAmbiguousName is returned when a shared name was not narrowed to one of its people
	ErrAmbiguousName = errors.New("resolve: ambiguous name")
)

// Candidate is one person sharing the requested name
type Candidate struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Birth string `json:"birth"`
}

// Directory is the part of the dataset store name resolution reads
type Directory interface {
	PeopleNamed(name string) []string
	Person(personID string) (dataset.Person, error)
}

// Chooser picks one candidate identifier for a shared name
type Chooser interface {
	Choose(name string, candidates []Candidate) (string, error)
}

// ChooserFunc adapts a function to the Chooser interface
type ChooserFunc func(name string, candidates []Candidate) (string, error)

func (f ChooserFunc) Choose(name string, candidates []Candidate) (string, error) {
	return f(name, candidates)
}

// Resolver turns names into person identifiers
type Resolver struct {
	dir     Directory
	chooser Chooser
}

// NewResolver creates a resolver. A nil chooser makes every shared name
// fail with ErrAmbiguousName.
func NewResolver(dir Directory, chooser Chooser) *Resolver {
	return &Resolver{dir: dir, chooser: chooser}
}

// Candidates lists everyone with the given name, compared case-insensitively
func (r *Resolver) Candidates(name string) ([]Candidate, error) {
	ids := r.dir.PeopleNamed(name)
	candidates := make([]Candidate, 0, len(ids))
	for _, id := range ids {
		p, err := r.dir.Person(id)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, Candidate{ID: p.ID, Name: p.Name, Birth: p.Birth})
	}
	return candidates, nil
}

// Resolve returns the single person identifier for name
func (r *Resolver) Resolve(name string) (string, error) {
	candidates, err := r.Candidates(name)
	if err != nil {
		return "", err
	}

	switch len(candidates) {
	case 0:
		return "", fmt.Errorf("%w: %q", ErrPersonNotFound, name)
	case 1:
		return candidates[0].ID, nil
	}

	if r.chooser == nil {
		return "", fmt.Errorf("%w: %q matches %d people", ErrAmbiguousName, name, len(candidates))
	}

	chosen, err := r.chooser.Choose(name, candidates)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrAmbiguousName, name, err)
	}
	for _, c := range candidates {
		if c.ID == chosen {
			return chosen, nil
		}
	}
	return "", fmt.Errorf("%w: %q is not one of the people named %q", ErrAmbiguousName, chosen, name)
}
