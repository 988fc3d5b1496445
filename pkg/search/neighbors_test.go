package search

import (
	"errors"
	"reflect"
	"testing"
)

func TestNeighbors(t *testing.T) {
	g := exampleGraph()

	got, err := Neighbors(g, "B")
	if err != nil {
		t.Fatalf("Neighbors failed: %v", err)
	}

	want := []Neighbor{
		{MovieID: "M1", PersonID: "A"},
		{MovieID: "M1", PersonID: "B"},
		{MovieID: "M2", PersonID: "B"},
		{MovieID: "M2", PersonID: "C"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Neighbors(B) = %v, want %v", got, want)
	}
}

func TestNeighbors_IncludesSelf(t *testing.T) {
	g := newMapGraph().star("Solo", "A")

	got, err := Neighbors(g, "A")
	if err != nil {
		t.Fatal(err)
	}
	if want := []Neighbor{{MovieID: "Solo", PersonID: "A"}}; !reflect.DeepEqual(got, want) {
		t.Errorf("Neighbors(A) = %v, want %v", got, want)
	}
}

func TestNeighbors_NoMovies(t *testing.T) {
	got, err := Neighbors(exampleGraph(), "D")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("Neighbors(D) = %v, want none", got)
	}
}

// duplicateGraph lists the same movie twice for a person
type duplicateGraph struct{ *mapGraph }

func (g duplicateGraph) MoviesOf(personID string) ([]string, error) {
	movies, err := g.mapGraph.MoviesOf(personID)
	return append(movies, movies...), err
}

func TestNeighbors_CollapsesDuplicates(t *testing.T) {
	g := duplicateGraph{exampleGraph()}

	got, err := Neighbors(g, "A")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("Neighbors(A) = %v, want 2 unique pairs", got)
	}
}

func TestNeighbors_Errors(t *testing.T) {
	if _, err := Neighbors(exampleGraph(), "Z"); !errors.Is(err, ErrUnknownPerson) {
		t.Errorf("unknown person: got %v, want ErrUnknownPerson", err)
	}

	// a person credited in a movie the graph cannot resolve
	g := exampleGraph()
	g.people["A"] = append(g.people["A"], "Lost")
	if _, err := Neighbors(g, "A"); err == nil {
		t.Error("expected cast lookup error to propagate")
	}
}
