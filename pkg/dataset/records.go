package dataset

type personRecord struct {
	ID, Name, Birth string
}

type movieRecord struct {
	ID, Title, Year string
}

type creditRecord struct {
	PersonID, MovieID string
}

// records is the flat form of a store written to snapshots and databases
type records struct {
	People  []personRecord
	Movies  []movieRecord
	Credits []creditRecord
}

// exportRecords flattens store in identifier order so equal stores produce
// equal records
func exportRecords(store *Store) records {
	store.mu.RLock()
	defer store.mu.RUnlock()

	data := records{
		People:  make([]personRecord, 0, len(store.people)),
		Movies:  make([]movieRecord, 0, len(store.movies)),
		Credits: make([]creditRecord, 0, store.credits),
	}
	for _, id := range sortedKeys(store.people) {
		p := store.people[id]
		data.People = append(data.People, personRecord{ID: p.ID, Name: p.Name, Birth: p.Birth})
		for _, movieID := range sortedKeys(p.Movies) {
			data.Credits = append(data.Credits, creditRecord{PersonID: p.ID, MovieID: movieID})
		}
	}
	for _, id := range sortedKeys(store.movies) {
		m := store.movies[id]
		data.Movies = append(data.Movies, movieRecord{ID: m.ID, Title: m.Title, Year: m.Year})
	}
	return data
}

// build creates a store from r. Any duplicate or dangling record is an error.
func (r records) build() (*Store, error) {
	store := NewStore()
	for _, p := range r.People {
		if err := store.AddPerson(p.ID, p.Name, p.Birth); err != nil {
			return nil, err
		}
	}
	for _, m := range r.Movies {
		if err := store.AddMovie(m.ID, m.Title, m.Year); err != nil {
			return nil, err
		}
	}
	for _, c := range r.Credits {
		if err := store.AddStar(c.PersonID, c.MovieID); err != nil {
			return nil, err
		}
	}
	return store, nil
}
