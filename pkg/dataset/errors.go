package dataset

import "errors"

var (
	// ErrUnknownPerson is returned when a person identifier is not in the store
	ErrUnknownPerson = errors.New("dataset: unknown person")

	// ErrUnknownMovie is returned when a movie identifier is not in the store
	ErrUnknownMovie = errors.New("dataset: unknown movie")

	// ErrDuplicateID is returned when a person or movie identifier is added twice
	ErrDuplicateID = errors.New("dataset: duplicate id")

	// ErrCorruptSnapshot is returned when a snapshot fails framing or checksum checks
	ErrCorruptSnapshot = errors.New("dataset: corrupt snapshot")

	// ErrMissingColumn is returned when a CSV header lacks a required column
	ErrMissingColumn = errors.New("dataset: missing column")
)
