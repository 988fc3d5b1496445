package dataset

// Person is a single row of people.csv plus the movies the person starred in.
type Person struct {
	ID     string
	Name   string
	Birth  string
	Movies map[string]struct{}
}

// Movie is a single row of movies.csv plus its cast.
type Movie struct {
	ID    string
	Title string
	Year  string
	Stars map[string]struct{}
}

// Statistics summarises the contents of a Store
type Statistics struct {
	People  int `json:"people"`
	Movies  int `json:"movies"`
	Credits int `json:"credits"`
	Names   int `json:"names"`
}

// personRow is the validated shape of a people.csv record
type personRow struct {
	ID    string `csv:"id" validate:"required,max=64"`
	Name  string `csv:"name" validate:"required"`
	Birth string `csv:"birth" validate:"omitempty,numeric"`
}

// movieRow is the validated shape of a movies.csv record
type movieRow struct {
	ID    string `csv:"id" validate:"required,max=64"`
	Title string `csv:"title" validate:"required"`
	Year  string `csv:"year" validate:"omitempty,numeric"`
}

// starRow is the validated shape of a stars.csv record
type starRow struct {
	PersonID string `csv:"person_id" validate:"required,max=64"`
	MovieID  string `csv:"movie_id" validate:"required,max=64"`
}
