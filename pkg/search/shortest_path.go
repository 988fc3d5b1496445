package search

import (
	"fmt"
	"time"

	"github.com/dd0wney/cluso-degrees/pkg/logging"
)

// Step is one edge of a path: PersonID co-starred in MovieID with the
// person of the previous step (or the source for the first step).
type Step struct {
	MovieID  string `json:"movie_id"`
	PersonID string `json:"person_id"`
}

// Path runs from the source (exclusive) to the target (inclusive)
type Path []Step

// Degrees returns the degrees of separation the path represents
func (p Path) Degrees() int {
	return len(p)
}

// Stats describes the work done by one search
type Stats struct {
	// Expanded counts people whose neighbors were computed
	Expanded int `json:"expanded"`
	// Enqueued counts search nodes created, the source included
	Enqueued int `json:"enqueued"`
}

// Result is the outcome of a search. Found is false when no path exists;
// that is a normal outcome, not an error.
type Result struct {
	Path  Path  `json:"path"`
	Found bool  `json:"found"`
	Stats Stats `json:"stats"`
}

// Outcome labels used when recording searches
const (
	OutcomeFound    = "found"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Recorder receives one observation per completed search
type Recorder interface {
	RecordSearch(outcome string, duration time.Duration, expanded, degrees int)
}

// Option configures a Searcher
type Option func(*Searcher)

// WithLogger sets the logger searches report to at Debug level
func WithLogger(logger logging.Logger) Option {
	return func(s *Searcher) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRecorder sets where search observations are sent
func WithRecorder(r Recorder) Option {
	return func(s *Searcher) {
		s.recorder = r
	}
}

// WithMaxDepth limits the search to paths of at most d degrees.
//
//	d > 0: targets further than d are reported as not found
//	d == 0: no limit
//	d < 0: invalid, surfaced as ErrOptionViolation by NewSearcher
func WithMaxDepth(d int) Option {
	return func(s *Searcher) {
		if d < 0 {
			s.err = fmt.Errorf("%w: max depth cannot be negative (%d)", ErrOptionViolation, d)
			return
		}
		s.maxDepth = d
	}
}

// Searcher runs shortest-path queries against a read-only graph.
// It holds no per-search state and is safe for concurrent use when the
// graph is.
type Searcher struct {
	graph    Graph
	logger   logging.Logger
	recorder Recorder
	maxDepth int
	err      error
}

// NewSearcher creates a searcher over g
func NewSearcher(g Graph, opts ...Option) (*Searcher, error) {
	s := &Searcher{
		graph:  g,
		logger: logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.err != nil {
		return nil, s.err
	}
	s.logger = s.logger.With(logging.Component("search"))
	return s, nil
}

// MaxDepth returns the configured depth limit, 0 when unlimited
func (s *Searcher) MaxDepth() int {
	return s.maxDepth
}

// ShortestPath finds a minimum-length chain of shared movies from source to
// target. Both people must exist in the graph. When source equals target
// the result is found with an empty path.
func (s *Searcher) ShortestPath(source, target string) (Result, error) {
	start := time.Now()

	res, err := s.search(source, target)

	outcome := OutcomeNotFound
	switch {
	case err != nil:
		outcome = OutcomeError
	case res.Found:
		outcome = OutcomeFound
	}

	if s.recorder != nil {
		s.recorder.RecordSearch(outcome, time.Since(start), res.Stats.Expanded, res.Path.Degrees())
	}
	s.logger.Debug("search finished",
		logging.Source(source),
		logging.Target(target),
		logging.String("outcome", outcome),
		logging.Degrees(res.Path.Degrees()),
		logging.Int("expanded", res.Stats.Expanded),
		logging.Int("enqueued", res.Stats.Enqueued),
		logging.Bool("depth_limited", s.maxDepth > 0),
		logging.Latency(time.Since(start)),
	)
	return res, err
}

func (s *Searcher) search(source, target string) (Result, error) {
	for _, id := range []string{source, target} {
		if !s.graph.Exists(id) {
			return Result{}, fmt.Errorf("%w: %s", ErrUnknownPerson, id)
		}
	}

	if source == target {
		return Result{Path: Path{}, Found: true}, nil
	}

	var stats Stats
	frontier := newFrontier(newArena(), FIFO)
	explored := make(map[string]struct{})

	frontier.Push(source)

	for !frontier.Empty() {
		parent, ph, err := frontier.Remove()
		if err != nil {
			return Result{Stats: stats}, err
		}
		explored[parent.State] = struct{}{}

		if s.maxDepth > 0 && parent.Depth >= s.maxDepth {
			continue
		}

		neighbors, err := Neighbors(s.graph, parent.State)
		if err != nil {
			return Result{Stats: stats}, err
		}
		stats.Expanded++

		for _, nb := range neighbors {
			if _, done := explored[nb.PersonID]; done {
				continue
			}
			if frontier.ContainsState(nb.PersonID) {
				continue
			}

			h := frontier.AddChild(ph, nb.MovieID, nb.PersonID)
			if nb.PersonID == target {
				stats.Enqueued = frontier.Created()
				return Result{Path: frontier.Path(h), Found: true, Stats: stats}, nil
			}
		}
	}

	stats.Enqueued = frontier.Created()
	return Result{Stats: stats}, nil
}

// ShortestPath is a convenience wrapper running one unlimited search over g.
// found is false, with a nil error, when the two people are not connected.
func ShortestPath(g Graph, source, target string) (path Path, found bool, err error) {
	s, err := NewSearcher(g)
	if err != nil {
		return nil, false, err
	}
	res, err := s.ShortestPath(source, target)
	if err != nil {
		return nil, false, err
	}
	return res.Path, res.Found, nil
}
