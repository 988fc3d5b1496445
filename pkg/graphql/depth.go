package graphql

import (
	"errors"
	"fmt"
	"strings"

	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"
)

// ErrQueryTooDeep is returned when a query nests deeper than allowed
var ErrQueryTooDeep = errors.New("query too deep")

// QueryDepth returns how many object fields deep query nests. Scalar leaves
// and introspection fields add nothing; a fragment spread counts at the depth
// of the spread. Cyclic fragments are followed once.
func QueryDepth(query string) (int, error) {
	doc, err := parser.Parse(parser.ParseParams{Source: query})
	if err != nil {
		return 0, fmt.Errorf("failed to parse query: %w", err)
	}

	fragments := map[string]*ast.SelectionSet{}
	var operations []*ast.SelectionSet
	for _, def := range doc.Definitions {
		switch d := def.(type) {
		case *ast.FragmentDefinition:
			fragments[d.Name.Value] = d.SelectionSet
		case *ast.OperationDefinition:
			operations = append(operations, d.SelectionSet)
		}
	}

	inFragment := map[string]bool{}
	var walk func(set *ast.SelectionSet) int
	walk = func(set *ast.SelectionSet) int {
		if set == nil {
			return 0
		}
		deepest := 0
		for _, sel := range set.Selections {
			switch s := sel.(type) {
			case *ast.Field:
				if s.SelectionSet != nil && !strings.HasPrefix(s.Name.Value, "__") {
					deepest = max(deepest, 1+walk(s.SelectionSet))
				}
			case *ast.InlineFragment:
				deepest = max(deepest, walk(s.SelectionSet))
			case *ast.FragmentSpread:
				name := s.Name.Value
				if body, ok := fragments[name]; ok && !inFragment[name] {
					inFragment[name] = true
					deepest = max(deepest, walk(body))
					inFragment[name] = false
				}
			}
		}
		return deepest
	}

	depth := 0
	for _, op := range operations {
		depth = max(depth, walk(op))
	}
	return depth, nil
}

// ValidateQueryDepth rejects queries nested deeper than limit
func ValidateQueryDepth(query string, limit int) error {
	depth, err := QueryDepth(query)
	if err != nil {
		return err
	}
	if depth > limit {
		return fmt.Errorf("%w: %d levels, limit is %d", ErrQueryTooDeep, depth, limit)
	}
	return nil
}
