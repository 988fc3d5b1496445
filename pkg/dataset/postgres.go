package dataset

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dd0wney/cluso-degrees/pkg/logging"
)

// PGSource keeps a dataset in the PostgreSQL tables people, movies and stars
type PGSource struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// NewPGSource connects to databaseURL and creates the tables if they don't
// exist. A nil logger discards output.
func NewPGSource(ctx context.Context, databaseURL string, logger logging.Logger) (*PGSource, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}
	config.MaxConns = 4
	config.MaxConnLifetime = 5 * time.Minute
	config.MaxConnIdleTime = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	s := &PGSource{pool: pool, logger: logger.With(logging.Component("dataset"))}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return s, nil
}

func (s *PGSource) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS people (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		birth TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS movies (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		year TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS stars (
		person_id TEXT NOT NULL REFERENCES people(id) ON DELETE CASCADE,
		movie_id TEXT NOT NULL REFERENCES movies(id) ON DELETE CASCADE,
		PRIMARY KEY (person_id, movie_id)
	);

	CREATE INDEX IF NOT EXISTS idx_stars_movie_id ON stars(movie_id);
	CREATE INDEX IF NOT EXISTS idx_people_lower_name ON people(lower(name));
	`
	_, err := s.pool.Exec(ctx, schema)
	return err
}

// Ping checks database connectivity
func (s *PGSource) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the connection pool
func (s *PGSource) Close() {
	s.pool.Close()
}

// Load reads every table into a new store
func (s *PGSource) Load(ctx context.Context) (*Store, LoadStats, error) {
	op := logging.StartTimer(s.logger, "loaded dataset from postgres")

	var data records
	var err error

	data.People, err = queryAll(ctx, s.pool, `SELECT id, name, birth FROM people ORDER BY id`, pgx.RowToStructByPos[personRecord])
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("failed to read people: %w", err)
	}
	data.Movies, err = queryAll(ctx, s.pool, `SELECT id, title, year FROM movies ORDER BY id`, pgx.RowToStructByPos[movieRecord])
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("failed to read movies: %w", err)
	}
	data.Credits, err = queryAll(ctx, s.pool, `SELECT person_id, movie_id FROM stars ORDER BY person_id, movie_id`, pgx.RowToStructByPos[creditRecord])
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("failed to read stars: %w", err)
	}

	store, err := data.build()
	if err != nil {
		return nil, LoadStats{}, err
	}

	stats := LoadStats{People: len(data.People), Movies: len(data.Movies), Stars: len(data.Credits)}
	op.End(logging.Int("people", stats.People), logging.Int("movies", stats.Movies), logging.Int("stars", stats.Stars))
	return store, stats, nil
}

// Save replaces the contents of every table with store in one transaction
func (s *PGSource) Save(ctx context.Context, store *Store) error {
	data := exportRecords(store)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `TRUNCATE stars, movies, people`); err != nil {
		return fmt.Errorf("failed to clear tables: %w", err)
	}

	people := make([][]any, len(data.People))
	for i, p := range data.People {
		people[i] = []any{p.ID, p.Name, p.Birth}
	}
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"people"}, []string{"id", "name", "birth"}, pgx.CopyFromRows(people)); err != nil {
		return fmt.Errorf("failed to copy people: %w", err)
	}

	movies := make([][]any, len(data.Movies))
	for i, m := range data.Movies {
		movies[i] = []any{m.ID, m.Title, m.Year}
	}
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"movies"}, []string{"id", "title", "year"}, pgx.CopyFromRows(movies)); err != nil {
		return fmt.Errorf("failed to copy movies: %w", err)
	}

	credits := make([][]any, len(data.Credits))
	for i, c := range data.Credits {
		credits[i] = []any{c.PersonID, c.MovieID}
	}
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"stars"}, []string{"person_id", "movie_id"}, pgx.CopyFromRows(credits)); err != nil {
		return fmt.Errorf("failed to copy stars: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	s.logger.Info("dataset saved to postgres",
		logging.Int("people", len(data.People)),
		logging.Int("movies", len(data.Movies)),
		logging.Int("stars", len(data.Credits)),
	)
	return nil
}

func queryAll[T any](ctx context.Context, pool *pgxpool.Pool, sql string, scan pgx.RowToFunc[T]) ([]T, error) {
	rows, err := pool.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scan)
}
