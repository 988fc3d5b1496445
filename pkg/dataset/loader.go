package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/dd0wney/cluso-degrees/pkg/logging"
	"github.com/dd0wney/cluso-degrees/pkg/validation"
)

// File names expected inside a dataset directory
const (
	PeopleFile = "people.csv"
	MoviesFile = "movies.csv"
	StarsFile  = "stars.csv"
)

// LoadStats reports what the loader read and what it had to skip
type LoadStats struct {
	People       int `json:"people"`
	Movies       int `json:"movies"`
	Stars        int `json:"stars"`
	SkippedRows  int `json:"skipped_rows"`
	SkippedStars int `json:"skipped_stars"`
}

// Loader reads the three CSV files of a dataset into a Store
type Loader struct {
	logger logging.Logger
}

// NewLoader creates a loader. A nil logger discards output.
func NewLoader(logger logging.Logger) *Loader {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Loader{logger: logger.With(logging.Component("dataset"))}
}

// LoadDir loads people.csv, movies.csv and stars.csv from a directory
func LoadDir(dir string, logger logging.Logger) (*Store, LoadStats, error) {
	return NewLoader(logger).Load(os.DirFS(dir))
}

// Load reads the dataset files from fsys. People and movies are loaded before
// stars so every credit can be linked. Invalid rows and credits referencing
// unknown people or movies are skipped and counted.
func (l *Loader) Load(fsys fs.FS) (*Store, LoadStats, error) {
	store := NewStore()
	var stats LoadStats

	err := l.readFile(fsys, PeopleFile, []string{"id", "name", "birth"}, func(get func(string) string) {
		row := personRow{ID: get("id"), Name: get("name"), Birth: get("birth")}
		if err := validation.Struct(row); err != nil {
			l.skipRow(&stats, PeopleFile, err)
			return
		}
		if err := store.AddPerson(row.ID, row.Name, row.Birth); err != nil {
			l.skipRow(&stats, PeopleFile, err)
			return
		}
		stats.People++
	})
	if err != nil {
		return nil, stats, err
	}

	err = l.readFile(fsys, MoviesFile, []string{"id", "title", "year"}, func(get func(string) string) {
		row := movieRow{ID: get("id"), Title: get("title"), Year: get("year")}
		if err := validation.Struct(row); err != nil {
			l.skipRow(&stats, MoviesFile, err)
			return
		}
		if err := store.AddMovie(row.ID, row.Title, row.Year); err != nil {
			l.skipRow(&stats, MoviesFile, err)
			return
		}
		stats.Movies++
	})
	if err != nil {
		return nil, stats, err
	}

	err = l.readFile(fsys, StarsFile, []string{"person_id", "movie_id"}, func(get func(string) string) {
		row := starRow{PersonID: get("person_id"), MovieID: get("movie_id")}
		if err := validation.Struct(row); err != nil {
			l.skipRow(&stats, StarsFile, err)
			return
		}
		if err := store.AddStar(row.PersonID, row.MovieID); err != nil {
			if errors.Is(err, ErrUnknownPerson) || errors.Is(err, ErrUnknownMovie) {
				stats.SkippedStars++
				l.logger.Debug("skipping credit", logging.PersonID(row.PersonID), logging.MovieID(row.MovieID), logging.Error(err))
				return
			}
			l.skipRow(&stats, StarsFile, err)
			return
		}
		stats.Stars++
	})
	if err != nil {
		return nil, stats, err
	}

	if stats.SkippedStars > 0 {
		l.logger.Warn("credits referenced unknown people or movies", logging.Count(stats.SkippedStars))
	}
	return store, stats, nil
}

// readFile streams one CSV file, resolving columns by header name
func (l *Loader) readFile(fsys fs.FS, name string, columns []string, fn func(get func(string) string)) error {
	op := logging.StartTimer(l.logger, "loaded file", logging.File(name))

	file, err := fsys.Open(name)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.ReuseRecord = true
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read %s header: %w", name, err)
	}

	colIndex := make(map[string]int, len(header))
	for i, col := range header {
		colIndex[strings.TrimPrefix(strings.TrimSpace(col), "\ufeff")] = i
	}
	for _, col := range columns {
		if _, ok := colIndex[col]; !ok {
			return fmt.Errorf("%w: %s in %s", ErrMissingColumn, col, name)
		}
	}

	var record []string
	get := func(col string) string {
		idx := colIndex[col]
		if idx >= len(record) {
			return ""
		}
		return record[idx]
	}

	rows := 0
	for {
		record, err = reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", name, err)
		}
		fn(get)
		rows++
	}

	op.End(logging.Count(rows))
	return nil
}

func (l *Loader) skipRow(stats *LoadStats, file string, err error) {
	stats.SkippedRows++
	l.logger.Warn("skipping row", logging.File(file), logging.Error(err))
}
