package dataset

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Store holds people, movies and the lowercased name index.
// It is populated once at startup and read concurrently afterwards.
type Store struct {
	people map[string]*Person
	movies map[string]*Movie
	names  map[string]map[string]struct{}

	credits int
	mu      sync.RWMutex
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		people: make(map[string]*Person),
		movies: make(map[string]*Movie),
		names:  make(map[string]map[string]struct{}),
	}
}

// AddPerson registers a person and indexes their name case-insensitively
func (s *Store) AddPerson(id, name, birth string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.people[id]; exists {
		return fmt.Errorf("%w: person %s", ErrDuplicateID, id)
	}

	s.people[id] = &Person{
		ID:     id,
		Name:   name,
		Birth:  birth,
		Movies: make(map[string]struct{}),
	}

	key := nameKey(name)
	ids, ok := s.names[key]
	if !ok {
		ids = make(map[string]struct{})
		s.names[key] = ids
	}
	ids[id] = struct{}{}
	return nil
}

// AddMovie registers a movie with an empty cast
func (s *Store) AddMovie(id, title, year string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.movies[id]; exists {
		return fmt.Errorf("%w: movie %s", ErrDuplicateID, id)
	}

	s.movies[id] = &Movie{
		ID:    id,
		Title: title,
		Year:  year,
		Stars: make(map[string]struct{}),
	}
	return nil
}

// AddStar links a person and a movie in both directions.
// Both must already be present.
func (s *Store) AddStar(personID, movieID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	person, ok := s.people[personID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPerson, personID)
	}
	movie, ok := s.movies[movieID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownMovie, movieID)
	}

	if _, linked := person.Movies[movieID]; !linked {
		s.credits++
	}
	person.Movies[movieID] = struct{}{}
	movie.Stars[personID] = struct{}{}
	return nil
}

// Exists reports whether the person identifier is known
func (s *Store) Exists(personID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.people[personID]
	return ok
}

// Person returns a copy of the person record without the movie set
func (s *Store) Person(personID string) (Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.people[personID]
	if !ok {
		return Person{}, fmt.Errorf("%w: %s", ErrUnknownPerson, personID)
	}
	return Person{ID: p.ID, Name: p.Name, Birth: p.Birth}, nil
}

// Movie returns a copy of the movie record without the cast
func (s *Store) Movie(movieID string) (Movie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.movies[movieID]
	if !ok {
		return Movie{}, fmt.Errorf("%w: %s", ErrUnknownMovie, movieID)
	}
	return Movie{ID: m.ID, Title: m.Title, Year: m.Year}, nil
}

// MoviesOf returns the sorted movie identifiers a person starred in
func (s *Store) MoviesOf(personID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.people[personID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPerson, personID)
	}
	return sortedKeys(p.Movies), nil
}

// CastOf returns the sorted person identifiers starring in a movie
func (s *Store) CastOf(movieID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.movies[movieID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMovie, movieID)
	}
	return sortedKeys(m.Stars), nil
}

// PeopleNamed returns the sorted identifiers of everyone with the given name,
// compared case-insensitively. Surrounding whitespace is ignored.
func (s *Store) PeopleNamed(name string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.names[nameKey(name)])
}

// People returns copies of every person record in identifier order,
// without movie sets
func (s *Store) People() []Person {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Person, 0, len(s.people))
	for _, id := range sortedKeys(s.people) {
		p := s.people[id]
		out = append(out, Person{ID: p.ID, Name: p.Name, Birth: p.Birth})
	}
	return out
}

// Stats returns the current store statistics
func (s *Store) Stats() Statistics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Statistics{
		People:  len(s.people),
		Movies:  len(s.movies),
		Credits: s.credits,
		Names:   len(s.names),
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
