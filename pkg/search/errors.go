package search

import "errors"

var (
	// ErrEmptyFrontier is returned by Remove on an empty frontier
	ErrEmptyFrontier = errors.New("search: empty frontier")

	// ErrUnknownPerson is returned when a person identifier is not in the graph
	ErrUnknownPerson = errors.New("search: unknown person")

	// ErrOptionViolation is returned when an invalid Option is supplied
	ErrOptionViolation = errors.New("search: invalid option supplied")
)
