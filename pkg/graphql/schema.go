// Package graphql exposes people, movies and shortest paths through a
// GraphQL schema.
package graphql

import (
	"errors"
	"fmt"

	"github.com/graphql-go/graphql"

	"github.com/dd0wney/cluso-degrees/pkg/dataset"
	"github.com/dd0wney/cluso-degrees/pkg/report"
	"github.com/dd0wney/cluso-degrees/pkg/resolve"
	"github.com/dd0wney/cluso-degrees/pkg/search"
)

// defaultSuggestLimit is used when suggest is called without a limit
const defaultSuggestLimit = 5

// Backend bundles what the resolvers read
type Backend struct {
	Store    *dataset.Store
	Searcher *search.Searcher
	Names    *resolve.NameIndex
}

// pathResult is the source object of a PathResult
type pathResult struct {
	report report.Report
	stats  search.Stats
}

// NewSchema builds the query schema over b
func NewSchema(b Backend) (graphql.Schema, error) {
	if b.Store == nil || b.Searcher == nil {
		return graphql.Schema{}, errors.New("graphql: store and searcher are required")
	}
	if b.Names == nil {
		b.Names = resolve.NewNameIndex(b.Store.People())
	}

	var personType, movieType *graphql.Object

	personType = graphql.NewObject(graphql.ObjectConfig{
		Name: "Person",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id":    stringField(func(p dataset.Person) string { return p.ID }),
				"name":  stringField(func(p dataset.Person) string { return p.Name }),
				"birth": stringField(func(p dataset.Person) string { return p.Birth }),
				"movies": &graphql.Field{
					Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(movieType))),
					Resolve: func(p graphql.ResolveParams) (any, error) {
						person := p.Source.(dataset.Person)
						ids, err := b.Store.MoviesOf(person.ID)
						if err != nil {
							return nil, err
						}
						return lookupAll(ids, b.Store.Movie)
					},
				},
			}
		}),
	})

	movieType = graphql.NewObject(graphql.ObjectConfig{
		Name: "Movie",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id":    stringField(func(m dataset.Movie) string { return m.ID }),
				"title": stringField(func(m dataset.Movie) string { return m.Title }),
				"year":  stringField(func(m dataset.Movie) string { return m.Year }),
				"stars": &graphql.Field{
					Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(personType))),
					Resolve: func(p graphql.ResolveParams) (any, error) {
						movie := p.Source.(dataset.Movie)
						ids, err := b.Store.CastOf(movie.ID)
						if err != nil {
							return nil, err
						}
						return lookupAll(ids, b.Store.Person)
					},
				},
			}
		}),
	})

	linkType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Link",
		Fields: graphql.Fields{
			"index": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(report.Link).Index, nil
				},
			},
			"from": &graphql.Field{
				Type: graphql.NewNonNull(personType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return b.Store.Person(p.Source.(report.Link).FromID)
				},
			},
			"to": &graphql.Field{
				Type: graphql.NewNonNull(personType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return b.Store.Person(p.Source.(report.Link).ToID)
				},
			},
			"movie": &graphql.Field{
				Type: graphql.NewNonNull(movieType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return b.Store.Movie(p.Source.(report.Link).MovieID)
				},
			},
		},
	})

	pathType := graphql.NewObject(graphql.ObjectConfig{
		Name: "PathResult",
		Fields: graphql.Fields{
			"source": &graphql.Field{
				Type: graphql.NewNonNull(personType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return b.Store.Person(p.Source.(pathResult).report.SourceID)
				},
			},
			"target": &graphql.Field{
				Type: graphql.NewNonNull(personType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return b.Store.Person(p.Source.(pathResult).report.TargetID)
				},
			},
			"connected": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(pathResult).report.Connected, nil
				},
			},
			"degrees": &graphql.Field{
				Type:        graphql.Int,
				Description: "Number of links, null when not connected",
				Resolve: func(p graphql.ResolveParams) (any, error) {
					res := p.Source.(pathResult)
					if !res.report.Connected {
						return nil, nil
					}
					return res.report.Degrees, nil
				},
			},
			"expanded": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(pathResult).stats.Expanded, nil
				},
			},
			"links": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(linkType))),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(pathResult).report.Links, nil
				},
			},
		},
	})

	statsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Stats",
		Fields: graphql.Fields{
			"people":  intField(func(s dataset.Statistics) int { return s.People }),
			"movies":  intField(func(s dataset.Statistics) int { return s.Movies }),
			"credits": intField(func(s dataset.Statistics) int { return s.Credits }),
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"person": &graphql.Field{
				Type: personType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					person, err := b.Store.Person(p.Args["id"].(string))
					if errors.Is(err, dataset.ErrUnknownPerson) {
						return nil, nil
					}
					return person, err
				},
			},
			"movie": &graphql.Field{
				Type: movieType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					movie, err := b.Store.Movie(p.Args["id"].(string))
					if errors.Is(err, dataset.ErrUnknownMovie) {
						return nil, nil
					}
					return movie, err
				},
			},
			"people": &graphql.Field{
				Type:        graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(personType))),
				Description: "Everyone with exactly this name, compared case-insensitively",
				Args: graphql.FieldConfigArgument{
					"name": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return lookupAll(b.Store.PeopleNamed(p.Args["name"].(string)), b.Store.Person)
				},
			},
			"suggest": &graphql.Field{
				Type:        graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(personType))),
				Description: "People whose names are close to name",
				Args: graphql.FieldConfigArgument{
					"name":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: defaultSuggestLimit},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					limit, _ := p.Args["limit"].(int)
					if limit <= 0 {
						limit = defaultSuggestLimit
					}
					candidates := b.Names.Suggest(p.Args["name"].(string), limit)
					out := make([]dataset.Person, len(candidates))
					for i, c := range candidates {
						out[i] = dataset.Person{ID: c.ID, Name: c.Name, Birth: c.Birth}
					}
					return out, nil
				},
			},
			"path": &graphql.Field{
				Type:        pathType,
				Description: "Shortest chain of shared movies from source to target",
				Args: graphql.FieldConfigArgument{
					"source": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"target": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					source := p.Args["source"].(string)
					target := p.Args["target"].(string)

					res, err := b.Searcher.ShortestPath(source, target)
					if err != nil {
						return nil, err
					}
					rep, err := report.Build(b.Store, source, target, res.Path, res.Found)
					if err != nil {
						return nil, err
					}
					return pathResult{report: rep, stats: res.Stats}, nil
				},
			},
			"stats": &graphql.Field{
				Type: graphql.NewNonNull(statsType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return b.Store.Stats(), nil
				},
			},
		},
	})

	schema, err := graphql.NewSchema(graphql.SchemaConfig{Query: queryType})
	if err != nil {
		return graphql.Schema{}, fmt.Errorf("failed to create schema: %w", err)
	}
	return schema, nil
}

func stringField[T any](get func(T) string) *graphql.Field {
	return &graphql.Field{
		Type: graphql.NewNonNull(graphql.String),
		Resolve: func(p graphql.ResolveParams) (any, error) {
			return get(p.Source.(T)), nil
		},
	}
}

func intField[T any](get func(T) int) *graphql.Field {
	return &graphql.Field{
		Type: graphql.NewNonNull(graphql.Int),
		Resolve: func(p graphql.ResolveParams) (any, error) {
			return get(p.Source.(T)), nil
		},
	}
}

func lookupAll[T any](ids []string, get func(string) (T, error)) ([]T, error) {
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		v, err := get(id)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
