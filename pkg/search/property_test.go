package search

import (
	"math/rand"
	"strconv"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
)

const unreachable = -1

// randomGraph builds a small bipartite credit graph from seed. Some people
// end up without movies and some movies with a single star.
func randomGraph(seed int64) (*mapGraph, []string) {
	rng := rand.New(rand.NewSource(seed))
	nPeople := 2 + rng.Intn(11)
	nMovies := 1 + rng.Intn(8)

	people := make([]string, nPeople)
	for i := range people {
		people[i] = "p" + strconv.Itoa(i)
	}

	g := newMapGraph(people...)
	for m := 0; m < nMovies; m++ {
		movie := "m" + strconv.Itoa(m)
		castSize := 1 + rng.Intn(3)
		for c := 0; c < castSize; c++ {
			g.star(movie, people[rng.Intn(nPeople)])
		}
	}
	return g, people
}

// distanceTable computes all-pairs degrees with Floyd-Warshall over the
// co-star relation, independently of the search code.
func distanceTable(g *mapGraph, people []string) map[string]map[string]int {
	const inf = 1 << 30
	idx := make(map[string]int, len(people))
	for i, p := range people {
		idx[p] = i
	}

	n := len(people)
	dist := make([][]int, n)
	for i := range dist {
		dist[i] = make([]int, n)
		for j := range dist[i] {
			if i != j {
				dist[i][j] = inf
			}
		}
	}
	for _, cast := range g.casts {
		for _, a := range cast {
			for _, b := range cast {
				if a != b {
					dist[idx[a]][idx[b]] = 1
				}
			}
		}
	}
	for k := 0; k < n; k++ {
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if dist[i][k]+dist[k][j] < dist[i][j] {
					dist[i][j] = dist[i][k] + dist[k][j]
				}
			}
		}
	}

	table := make(map[string]map[string]int, n)
	for i, a := range people {
		table[a] = make(map[string]int, n)
		for j, b := range people {
			d := dist[i][j]
			if d >= inf {
				d = unreachable
			}
			table[a][b] = d
		}
	}
	return table
}

func TestShortestPath_Properties(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	pick := func(people []string, i uint8) string {
		return people[int(i)%len(people)]
	}

	properties.Property("path length equals brute-force distance", prop.ForAll(
		func(seed int64, si, ti uint8) bool {
			g, people := randomGraph(seed)
			source, target := pick(people, si), pick(people, ti)
			want := distanceTable(g, people)[source][target]

			path, found, err := ShortestPath(g, source, target)
			if err != nil {
				return false
			}
			if want == unreachable {
				return !found && path == nil
			}
			return found && path.Degrees() == want
		},
		gen.Int64(),
		gen.UInt8(),
		gen.UInt8(),
	))

	properties.Property("every step shares a movie with the previous person", prop.ForAll(
		func(seed int64, si, ti uint8) bool {
			g, people := randomGraph(seed)
			source, target := pick(people, si), pick(people, ti)

			path, found, err := ShortestPath(g, source, target)
			if err != nil || !found {
				return err == nil
			}
			if len(path) > 0 && path[len(path)-1].PersonID != target {
				return false
			}
			return validPath(g, source, path)
		},
		gen.Int64(),
		gen.UInt8(),
		gen.UInt8(),
	))

	properties.Property("repeated searches agree", prop.ForAll(
		func(seed int64, si, ti uint8) bool {
			g, people := randomGraph(seed)
			source, target := pick(people, si), pick(people, ti)

			first, found1, err1 := ShortestPath(g, source, target)
			second, found2, err2 := ShortestPath(g, source, target)
			if err1 != nil || err2 != nil || found1 != found2 || len(first) != len(second) {
				return false
			}
			for i := range first {
				if first[i] != second[i] {
					return false
				}
			}
			return true
		},
		gen.Int64(),
		gen.UInt8(),
		gen.UInt8(),
	))

	properties.Property("no person appears twice on a path", prop.ForAll(
		func(seed int64, si, ti uint8) bool {
			g, people := randomGraph(seed)
			source, target := pick(people, si), pick(people, ti)

			path, _, err := ShortestPath(g, source, target)
			if err != nil {
				return false
			}
			seen := map[string]bool{source: true}
			for _, step := range path {
				if seen[step.PersonID] {
					return false
				}
				seen[step.PersonID] = true
			}
			return true
		},
		gen.Int64(),
		gen.UInt8(),
		gen.UInt8(),
	))

	properties.TestingRun(t)
}

func TestDistanceTable_MatchesExample(t *testing.T) {
	g := exampleGraph()
	table := distanceTable(g, []string{"A", "B", "C", "D"})

	require.Equal(t, 0, table["A"]["A"])
	require.Equal(t, 1, table["A"]["B"])
	require.Equal(t, 2, table["A"]["C"])
	require.Equal(t, unreachable, table["A"]["D"])
}
